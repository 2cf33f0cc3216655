package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsphweid/scoretree/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minuet = `<?xml version="1.0" encoding="UTF-8"?>
<score-partwise version="4.0">
  <work><work-title>Minuet</work-title></work>
  <identification><creator type="composer">C. Petzold</creator></identification>
  <part-list><score-part id="P1"><part-name>Piano</part-name></score-part></part-list>
  <part id="P1">
    <measure number="1">
      <attributes><divisions>1</divisions><time><beats>3</beats><beat-type>4</beat-type></time></attributes>
      <note><pitch><step>D</step><octave>5</octave></pitch><duration>1</duration><voice>1</voice><type>quarter</type></note>
      <note><pitch><step>G</step><octave>4</octave></pitch><duration>1</duration><voice>1</voice><type>quarter</type></note>
      <note><pitch><step>A</step><octave>4</octave></pitch><duration>1</duration><voice>1</voice><type>quarter</type></note>
    </measure>
  </part>
</score-partwise>`

func testServer(t *testing.T) http.Handler {
	t.Setenv("MAX_UPLOAD_BYTES", "4096")
	s, err := NewServer(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	require.NoError(t, err)
	return s.Router()
}

func convertMinuet(t *testing.T, h http.Handler) string {
	w := do(h, http.MethodPost, "/convert", strings.NewReader(minuet))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res model.ConvertResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res.ID
}

func do(h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, body))
	return w
}

func TestConvertThenFetch(t *testing.T) {
	assert := assert.New(t)
	h := testServer(t)

	w := do(h, http.MethodPost, "/convert", strings.NewReader(minuet))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res model.ConvertResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.NotEmpty(res.ID)
	assert.Contains(string(res.Composition), `"Minuet"`)

	w = do(h, http.MethodGet, "/scores/"+res.ID, nil)
	assert.Equal(http.StatusOK, w.Code)
	assert.JSONEq(string(res.Composition), w.Body.String())

	w = do(h, http.MethodGet, "/scores/"+res.ID+"/midi", nil)
	assert.Equal(http.StatusOK, w.Code)
	assert.Equal("audio/midi", w.Header().Get("Content-Type"))
	assert.True(bytes.HasPrefix(w.Body.Bytes(), []byte("MThd")))
}

func TestConvertErrors(t *testing.T) {
	h := testServer(t)
	tests := map[string]struct {
		body   string
		status int
		kind   string
	}{
		"not xml":  {"hello", http.StatusBadRequest, "malformed"},
		"timewise": {`<score-timewise/>`, http.StatusUnprocessableEntity, "unsupported"},
		"no parts": {`<score-partwise><part-list/></score-partwise>`, http.StatusBadRequest, "input"},
		"too large": {
			"<score-partwise>" + strings.Repeat(" ", 8192) + "</score-partwise>",
			http.StatusRequestEntityTooLarge, "",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := do(h, http.MethodPost, "/convert", strings.NewReader(tt.body))
			assert.Equal(t, tt.status, w.Code)
			var res model.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
			assert.Equal(t, tt.kind, res.Kind)
			assert.NotEmpty(t, res.Error)
		})
	}
}

func TestOldestScoresAreEvicted(t *testing.T) {
	t.Setenv("MAX_STORED_SCORES", "2")
	h := testServer(t)

	first := convertMinuet(t, h)
	second := convertMinuet(t, h)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/scores/"+first, nil).Code)

	third := convertMinuet(t, h)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/scores/"+second, nil).Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/scores/"+first, nil).Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/scores/"+third+"/midi", nil).Code)
}

func TestUnknownScoreAndDisabledRecords(t *testing.T) {
	h := testServer(t)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/scores/nope", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(h, http.MethodGet, "/records?ids=a", nil).Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/health", nil).Code)
}

func TestReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minuet.musicxml")
	require.NoError(t, os.WriteFile(path, []byte(minuet), 0o644))
	c, _, err := convertFile(path)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, report(&out, c))
	assert.Contains(t, out.String(), "title: Minuet\ncomposers: C. Petzold\n")
	assert.Contains(t, out.String(), `part "Piano": 1 sections, 1 staves, 2 phrases, 0 multivoices, 0 chords, 3 notes, 0 rests, 3 beats, 1.5s`)
	assert.Contains(t, out.String(), "total: 1 parts, 3 notes, 0 rests, 0 chords, 1.5s")
}

func TestReshapeFlattensAndSplitsStaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minuet.musicxml")
	require.NoError(t, os.WriteFile(path, []byte(minuet), 0o644))
	c, _, err := convertFile(path)
	require.NoError(t, err)

	same, err := reshape(c, false, false)
	require.NoError(t, err)
	assert.Same(t, c, same)

	split, err := reshape(c, true, true)
	require.NoError(t, err)
	require.Len(t, split.Parts, 1)
	assert.Equal(t, "Piano_1", split.Parts[0].Name)
	assert.Equal(t, 3, split.Parts[0].Stats().Notes)
	assert.Equal(t, "Piano", c.Parts[0].Name)
}
