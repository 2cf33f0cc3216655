package musicxml

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsphweid/scoretree/scoreerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoNoteScore = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE score-partwise PUBLIC "-//Recordare//DTD MusicXML 4.0 Partwise//EN" "http://www.musicxml.org/dtds/partwise.dtd">
<score-partwise version="4.0">
  <work><work-title>Etude</work-title><work-number>Op. 10</work-number></work>
  <identification>
    <creator type="composer">F. Chopin</creator>
    <rights>Public Domain</rights>
  </identification>
  <part-list><score-part id="P1"><part-name>Piano</part-name></score-part></part-list>
  <part id="P1">
    <measure number="1">
      <attributes>
        <divisions>2</divisions>
        <key><fifths>-3</fifths><mode>minor</mode></key>
        <time><beats>3</beats><beat-type>4</beat-type></time>
        <clef><sign>G</sign><line>2</line></clef>
      </attributes>
      <print new-page="yes"/>
      <note>
        <pitch><step>F</step><alter>1</alter><octave>4</octave></pitch>
        <duration>2</duration><voice>1</voice><type>quarter</type>
        <accidental>sharp</accidental>
        <notations>
          <slur type="start" number="1"/>
          <articulations><staccato/><breath-mark/></articulations>
          <ornaments><tremolo type="single">3</tremolo></ornaments>
        </notations>
      </note>
      <backup><duration>2</duration></backup>
      <note><rest/><duration>4</duration><voice>2</voice><type>half</type></note>
      <barline location="right"><repeat direction="backward" times="3"/></barline>
    </measure>
  </part>
</score-partwise>`

func TestDecodeKeepsMeasureOrder(t *testing.T) {
	assert := assert.New(t)

	doc, err := Decode(strings.NewReader(twoNoteScore))
	require.NoError(t, err)

	assert.Equal("Etude", doc.Work.Title)
	assert.Equal("Op. 10", doc.Work.Number)
	assert.Equal("composer", doc.Identification.Creators[0].Type)
	assert.Equal("Piano", doc.PartName("P1"))
	assert.Equal("P2", doc.PartName("P2"))
	require.Len(t, doc.Parts, 1)
	require.Len(t, doc.Parts[0].Measures, 1)

	elements := doc.Parts[0].Measures[0].Elements
	require.Len(t, elements, 5)
	attrs, ok := elements[0].(Attributes)
	require.True(t, ok)
	assert.Equal(2, attrs.Divisions)
	assert.Equal(-3, *attrs.Keys[0].Fifths)
	assert.Equal([]string{"3"}, attrs.Times[0].Beats)

	note, ok := elements[1].(Note)
	require.True(t, ok)
	assert.Equal("F", note.Pitch.Step)
	assert.Equal(1.0, note.Pitch.Alter)
	assert.Equal("sharp", note.Accidental)
	assert.Equal("start", note.Notations[0].Slurs[0].Type)
	assert.Equal("staccato", note.Notations[0].Articulations[0].Items[0].Name())
	assert.Equal("breath-mark", note.Notations[0].Articulations[0].Items[1].Name())
	tremolo := note.Notations[0].Ornaments[0].Items[0]
	assert.Equal("single", tremolo.Attr("type"))
	assert.Equal("3", tremolo.Text())

	_, ok = elements[2].(Backup)
	assert.True(ok)
	rest := elements[3].(Note)
	assert.NotNil(rest.Rest)
	assert.Nil(rest.Pitch)

	barline := elements[4].(Barline)
	assert.Equal("backward", barline.Repeat.Direction)
	assert.Equal("3", barline.Repeat.Times)
}

func TestDecodeRejectsTimewise(t *testing.T) {
	_, err := Decode(strings.NewReader(`<score-timewise version="4.0"></score-timewise>`))
	assert.True(t, scoreerr.Is(err, scoreerr.Unsupported))

	_, err = Decode(strings.NewReader(`<html></html>`))
	assert.True(t, scoreerr.Is(err, scoreerr.Malformed))
}

func TestReadFileOpensCompressedScores(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "etude.mxl")
	f, err := os.Create(filename)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("META-INF/container.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<container><rootfiles><rootfile full-path="score/etude.xml"/></rootfiles></container>`))
	require.NoError(t, err)
	w, err = zw.Create("score/etude.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(twoNoteScore))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	doc, err := ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "Etude", doc.Work.Title)
}
