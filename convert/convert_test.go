package convert

import (
	"strings"
	"testing"

	"github.com/jsphweid/scoretree/model"
	"github.com/jsphweid/scoretree/musicxml"
	"github.com/jsphweid/scoretree/scoreerr"
	"github.com/jsphweid/scoretree/section"
	"github.com/jsphweid/scoretree/structure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const prelude = `<?xml version="1.0" encoding="UTF-8"?>
<score-partwise version="4.0">
  <work><work-number>Op. 28</work-number><work-title>Prelude</work-title></work>
  <movement-number>4</movement-number>
  <movement-title>Largo</movement-title>
  <identification>
    <creator type="composer">F. Chopin</creator>
    <creator type="lyricist">Nobody</creator>
    <creator type="translator">Someone</creator>
    <creator>Anonymous</creator>
    <rights>Public Domain</rights>
    <rights type="arrangement">Free</rights>
  </identification>
  <part-list><score-part id="P1"><part-name>Piano</part-name></score-part></part-list>
  <part id="P1">
    <measure number="1">
      <attributes>
        <divisions>1</divisions>
        <key><fifths>-1</fifths><mode>minor</mode></key>
        <time><beats>3</beats><beat-type>4</beat-type></time>
      </attributes>
      <direction>
        <direction-type><metronome><beat-unit>quarter</beat-unit><per-minute>60</per-minute></metronome></direction-type>
      </direction>
      <note><pitch><step>E</step><octave>4</octave></pitch><duration>3</duration><voice>1</voice><type>half</type><dot/></note>
    </measure>
  </part>
</score-partwise>`

func note(step string, octave, duration int, voice string) musicxml.Note {
	return musicxml.Note{
		Pitch:    &musicxml.Pitch{Step: step, Octave: octave},
		Duration: duration,
		Voice:    voice,
	}
}

func document(elements ...interface{}) *musicxml.Document {
	return &musicxml.Document{
		PartList: musicxml.PartList{ScoreParts: []musicxml.ScorePart{{ID: "P1", Name: "Piano"}}},
		Parts: []musicxml.Part{{
			ID:       "P1",
			Measures: []musicxml.Measure{{Number: "1", Elements: elements}},
		}},
	}
}

// contents resolves the children of a container in part.
func contents(t *testing.T, part *structure.Part, item structure.Item) []structure.Item {
	children, err := part.Children(item)
	require.NoError(t, err)
	return children
}

func only(t *testing.T, part *structure.Part, item structure.Item, kind structure.ItemKind) structure.Item {
	children := contents(t, part, item)
	require.Len(t, children, 1)
	require.Equal(t, kind, children[0].Kind)
	return children[0]
}

func pitches(t *testing.T, part *structure.Part, phrase structure.Item) []string {
	var res []string
	for _, child := range contents(t, part, phrase) {
		if child.Kind != structure.ItemNote {
			continue
		}
		n, ok := part.Note(child.ID)
		require.True(t, ok)
		res = append(res, n.Pitch.String())
	}
	return res
}

func rootItem(part *structure.Part) structure.Item {
	return structure.Item{Kind: structure.ItemSection, ID: part.Root}
}

func TestMetadataAndScoreDefaults(t *testing.T) {
	assert := assert.New(t)
	c, err := FromReader(strings.NewReader(prelude), Options{})
	require.NoError(t, err)

	assert.Equal("Prelude", c.Title)
	assert.Equal([]string{"F. Chopin"}, c.Composers)
	assert.Equal([]string{"Nobody"}, c.Lyricists)
	assert.Equal("Public Domain", c.Copyright)
	assert.Equal(map[string]string{
		"opus_number":     "Op. 28",
		"movement_number": "4",
		"movement_title":  "Largo",
		"translator":      "Someone",
		"creator":         "Anonymous",
		"arrangement":     "Free",
	}, c.Metadata)
	assert.Equal(model.KeyFromFifths(-1, model.Minor), c.StartingKey)
	assert.Equal(model.NewTimeSignature(3, 4), c.StartingTimeSignature)
	assert.Equal(model.NewTempo(model.NewDuration(model.Quarter, 0), 60), c.Tempo)

	require.Len(t, c.Parts, 1)
	assert.Equal("Piano", c.Parts[0].Name)
	stats := c.Parts[0].Stats()
	assert.Equal(1, stats.Notes)
	assert.Equal(2, stats.Directions)
}

func TestDefaultsWithoutMarks(t *testing.T) {
	assert := assert.New(t)
	c, err := FromDocument(document(note("C", 4, 1, "1")), Options{})
	require.NoError(t, err)

	assert.Equal(UntitledTitle, c.Title)
	assert.Equal(model.DefaultTempo(), c.Tempo)
	assert.Equal(model.DefaultTimeSignature(), c.StartingTimeSignature)
	assert.Equal(model.Key{}, c.StartingKey)
	assert.Empty(c.Metadata)
}

func TestSoundTempoIsUsedWithoutMetronome(t *testing.T) {
	c, err := FromDocument(document(
		musicxml.Sound{Tempo: "72"},
		note("C", 4, 1, "1"),
	), Options{})
	require.NoError(t, err)
	assert.Equal(t, model.NewTempo(model.NewDuration(model.Quarter, 0), 72), c.Tempo)
}

func TestInputErrors(t *testing.T) {
	tests := map[string]*musicxml.Document{
		"no part list": {Parts: []musicxml.Part{{ID: "P1"}}},
		"no parts": {
			PartList: musicxml.PartList{ScoreParts: []musicxml.ScorePart{{ID: "P1"}}},
		},
		"all parts empty": {
			PartList: musicxml.PartList{ScoreParts: []musicxml.ScorePart{{ID: "P1"}, {ID: "P2"}}},
			Parts: []musicxml.Part{
				{ID: "P1"},
				{ID: "P2", Measures: []musicxml.Measure{{Number: "1"}}},
			},
		},
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			c, err := FromDocument(doc, Options{})
			require.Error(t, err)
			assert.Nil(t, c)
			assert.True(t, scoreerr.Is(err, scoreerr.Input))
		})
	}
}

func TestEmptyPartsAreSkipped(t *testing.T) {
	doc := document(note("C", 4, 1, "1"))
	doc.PartList.ScoreParts = append(doc.PartList.ScoreParts, musicxml.ScorePart{ID: "P2", Name: "Tacet"})
	doc.Parts = append(doc.Parts, musicxml.Part{ID: "P2", Measures: []musicxml.Measure{{Number: "1"}}})

	c, err := FromDocument(doc, Options{})
	require.NoError(t, err)
	require.Len(t, c.Parts, 1)
	assert.Equal(t, "Piano", c.Parts[0].Name)
}

func TestMalformedInputFailsWholeConversion(t *testing.T) {
	c, err := FromDocument(document(note("C", 4, 4, "1"), musicxml.Backup{Duration: 8}), Options{})
	require.Error(t, err)
	assert.Nil(t, c)
	assert.True(t, scoreerr.Is(err, scoreerr.Malformed))
}

func TestVoiceThatEndsEarlyIsPaddedWithRest(t *testing.T) {
	assert := assert.New(t)
	c, err := FromDocument(document(
		musicxml.Attributes{Divisions: 4},
		note("C", 4, 20, "1"),
		musicxml.Backup{Duration: 20},
		note("E", 4, 8, "2"),
	), Options{})
	require.NoError(t, err)
	part := c.Parts[0]

	staff := only(t, part, rootItem(part), structure.ItemStaff)
	base := only(t, part, staff, structure.ItemPhrase)
	mv := only(t, part, base, structure.ItemMultiVoice)
	voices := contents(t, part, mv)
	require.Len(t, voices, 2)
	assert.Equal([]string{"C4"}, pitches(t, part, voices[0]))

	second := contents(t, part, voices[1])
	require.Len(t, second, 2)
	rest, ok := part.Note(second[1].ID)
	require.True(t, ok)
	assert.True(rest.IsRest())
	assert.Equal(model.NewDuration(model.Half, 1), rest.Duration)

	stats := part.Stats()
	assert.Equal(2, stats.Notes)
	assert.Equal(1, stats.Rests)
	assert.Equal(1, stats.MultiVoices)
}

func TestVoiceEnteringMidNoteJoinsMultiVoice(t *testing.T) {
	assert := assert.New(t)
	c, err := FromDocument(document(
		musicxml.Attributes{Divisions: 4},
		note("C", 4, 8, "1"),
		musicxml.Backup{Duration: 8},
		musicxml.Forward{Duration: 4},
		note("E", 4, 4, "2"),
	), Options{})
	require.NoError(t, err)
	part := c.Parts[0]

	staff := only(t, part, rootItem(part), structure.ItemStaff)
	base := only(t, part, staff, structure.ItemPhrase)
	mv := only(t, part, base, structure.ItemMultiVoice)
	voices := contents(t, part, mv)
	require.Len(t, voices, 2)
	assert.Equal([]string{"C4"}, pitches(t, part, voices[0]))

	second := contents(t, part, voices[1])
	require.Len(t, second, 2)
	rest, ok := part.Note(second[0].ID)
	require.True(t, ok)
	assert.True(rest.IsRest())
	assert.Equal(model.NewDuration(model.Quarter, 0), rest.Duration)
	e, ok := part.Note(second[1].ID)
	require.True(t, ok)
	assert.Equal("E4", e.Pitch.String())

	assert.Equal(1, part.Stats().MultiVoices)
}

func TestForwardGapBecomesRestInVoice(t *testing.T) {
	assert := assert.New(t)
	c, err := FromDocument(document(
		musicxml.Attributes{Divisions: 2},
		note("C", 4, 2, "1"),
		musicxml.Forward{Duration: 2},
		note("D", 4, 2, "1"),
	), Options{})
	require.NoError(t, err)
	part := c.Parts[0]

	staff := only(t, part, rootItem(part), structure.ItemStaff)
	voice := only(t, part, only(t, part, staff, structure.ItemPhrase), structure.ItemPhrase)
	children := contents(t, part, voice)
	require.Len(t, children, 3)
	assert.Equal([]string{"C4", "Rest", "D4"}, pitches(t, part, voice))
	rest, ok := part.Note(children[1].ID)
	require.True(t, ok)
	assert.Equal(model.NewDuration(model.Quarter, 0), rest.Duration)
}

func TestSlurBecomesLegatoPhrase(t *testing.T) {
	assert := assert.New(t)
	first := note("C", 4, 1, "1")
	first.Notations = []musicxml.Notations{{Slurs: []musicxml.Spanner{{Type: "start", Number: 1}}}}
	last := note("E", 4, 1, "1")
	last.Notations = []musicxml.Notations{{Slurs: []musicxml.Spanner{{Type: "stop", Number: 1}}}}

	c, err := FromDocument(document(first, note("D", 4, 1, "1"), last, note("F", 4, 1, "1")), Options{})
	require.NoError(t, err)
	part := c.Parts[0]

	staff := only(t, part, rootItem(part), structure.ItemStaff)
	base := only(t, part, staff, structure.ItemPhrase)
	children := contents(t, part, base)
	require.Len(t, children, 2)

	legato, ok := part.Phrase(children[0].ID)
	require.True(t, ok)
	assert.Equal([]model.PhraseMod{model.NewPhraseMod(model.PhraseLegato)}, legato.Modifications)
	voice := only(t, part, children[0], structure.ItemPhrase)
	assert.Equal([]string{"C4", "D4", "E4"}, pitches(t, part, voice))
	assert.Equal([]string{"F4"}, pitches(t, part, children[1]))
}

func TestTupletNestsInsideVoice(t *testing.T) {
	assert := assert.New(t)
	triplet := func(step string, kind string) musicxml.Note {
		n := note(step, 5, 1, "1")
		n.Type = "eighth"
		n.TimeModification = &musicxml.TimeModification{ActualNotes: 3, NormalNotes: 2}
		if kind != "" {
			n.Notations = []musicxml.Notations{{Tuplets: []musicxml.Spanner{{Type: kind}}}}
		}
		return n
	}
	c, err := FromDocument(document(
		musicxml.Attributes{Divisions: 3},
		triplet("C", "start"),
		triplet("D", ""),
		triplet("E", "stop"),
		note("F", 5, 3, "1"),
	), Options{})
	require.NoError(t, err)
	part := c.Parts[0]

	staff := only(t, part, rootItem(part), structure.ItemStaff)
	base := only(t, part, staff, structure.ItemPhrase)
	voice := only(t, part, base, structure.ItemPhrase)
	children := contents(t, part, voice)
	require.Len(t, children, 2)
	require.Equal(t, structure.ItemPhrase, children[0].Kind)

	tuplet, ok := part.Phrase(children[0].ID)
	require.True(t, ok)
	assert.Equal([]model.PhraseMod{model.Tuplet(3, 2)}, tuplet.Modifications)
	assert.Equal([]string{"C5", "D5", "E5"}, pitches(t, part, children[0]))
	assert.Equal(structure.ItemNote, children[1].Kind)
}

func TestChordInsideVoice(t *testing.T) {
	assert := assert.New(t)
	upper := note("E", 4, 2, "1")
	upper.Chord = &struct{}{}
	c, err := FromDocument(document(
		musicxml.Attributes{Divisions: 2},
		note("C", 4, 2, "1"),
		upper,
	), Options{})
	require.NoError(t, err)
	part := c.Parts[0]

	staff := only(t, part, rootItem(part), structure.ItemStaff)
	base := only(t, part, staff, structure.ItemPhrase)
	voice := only(t, part, base, structure.ItemPhrase)
	chordItem := only(t, part, voice, structure.ItemChord)
	notes := contents(t, part, chordItem)
	assert.Len(notes, 2)
	d, ok := part.ChordDuration(chordItem.ID)
	require.True(t, ok)
	assert.Equal(model.NewDuration(model.Quarter, 0), d)
}

func TestRepeatBecomesSection(t *testing.T) {
	assert := assert.New(t)
	c, err := FromDocument(document(
		musicxml.Attributes{Divisions: 1},
		musicxml.Barline{Location: "left", Repeat: &musicxml.Repeat{Direction: "forward"}},
		note("C", 4, 4, "1"),
		note("D", 4, 4, "1"),
		musicxml.Barline{Location: "right", Repeat: &musicxml.Repeat{Direction: "backward"}},
		note("E", 4, 4, "1"),
	), Options{})
	require.NoError(t, err)
	part := c.Parts[0]

	root := contents(t, part, rootItem(part))
	require.Len(t, root, 2)
	require.Equal(t, structure.ItemSection, root[0].Kind)
	repeated, ok := part.Section(root[0].ID)
	require.True(t, ok)
	assert.Equal(section.RepeatedName, repeated.Name)
	assert.Equal([]model.SectionMod{model.Repeat(1)}, repeated.Modifications)

	staff := only(t, part, root[0], structure.ItemStaff)
	voice := only(t, part, only(t, part, staff, structure.ItemPhrase), structure.ItemPhrase)
	assert.Equal([]string{"C4", "D4"}, pitches(t, part, voice))

	require.Equal(t, structure.ItemStaff, root[1].Kind)
	after := only(t, part, only(t, part, root[1], structure.ItemPhrase), structure.ItemPhrase)
	assert.Equal([]string{"E4"}, pitches(t, part, after))
}

func sectionNames(t *testing.T, part *structure.Part, item structure.Item) []string {
	sec, ok := part.Section(item.ID)
	require.True(t, ok)
	names := []string{sec.Name}
	for _, child := range contents(t, part, item) {
		if child.Kind == structure.ItemSection {
			names = append(names, sectionNames(t, part, child)...)
		}
	}
	return names
}

func TestEveryPartFollowsTheLeadPartSections(t *testing.T) {
	assert := assert.New(t)
	measures := func(divisions int, first, second musicxml.Note, marks ...interface{}) []musicxml.Measure {
		return []musicxml.Measure{
			{Number: "1", Elements: []interface{}{musicxml.Attributes{Divisions: divisions}, first}},
			{Number: "2", Elements: append(marks, second)},
		}
	}
	doc := &musicxml.Document{
		PartList: musicxml.PartList{ScoreParts: []musicxml.ScorePart{
			{ID: "P1", Name: "Flute"},
			{ID: "P2", Name: "Cello"},
		}},
		Parts: []musicxml.Part{
			{ID: "P1", Measures: measures(1, note("C", 5, 4, "1"), note("D", 5, 4, "1"), musicxml.Direction{
				Types: []musicxml.DirectionType{
					{Rehearsals: []string{"B"}},
					{Metronome: &musicxml.Metronome{BeatUnit: "quarter", PerMinute: "90"}},
				},
			})},
			{ID: "P2", Measures: measures(2, note("C", 3, 8, "1"), note("D", 3, 8, "1"))},
		},
	}
	c, err := FromDocument(doc, Options{})
	require.NoError(t, err)
	require.Len(t, c.Parts, 2)
	flute, cello := c.Parts[0], c.Parts[1]

	names := sectionNames(t, flute, rootItem(flute))
	assert.Contains(names, "B")
	assert.Contains(names, section.ExplicitTempoName)
	assert.Equal(names, sectionNames(t, cello, rootItem(cello)))

	var b structure.NodeID
	require.NoError(t, cello.Walk(func(depth int, item structure.Item) error {
		if item.Kind != structure.ItemSection {
			return nil
		}
		if sec, ok := cello.Section(item.ID); ok && sec.Name == "B" {
			b = item.ID
		}
		return nil
	}))
	require.NotZero(t, b)
	bItem := structure.Item{Kind: structure.ItemSection, ID: b}
	staff := only(t, cello, bItem, structure.ItemStaff)
	voice := only(t, cello, only(t, cello, staff, structure.ItemPhrase), structure.ItemPhrase)
	assert.Equal([]string{"D3"}, pitches(t, cello, voice))
}

func TestPartsWithoutNotesAreDropped(t *testing.T) {
	doc := document(note("C", 4, 1, "1"))
	doc.PartList.ScoreParts = append(doc.PartList.ScoreParts, musicxml.ScorePart{ID: "P2", Name: "Tacet"})
	doc.Parts = append(doc.Parts, musicxml.Part{ID: "P2", Measures: []musicxml.Measure{{
		Number:   "1",
		Elements: []interface{}{musicxml.Attributes{Divisions: 1}},
	}}})

	c, err := FromDocument(doc, Options{})
	require.NoError(t, err)
	require.Len(t, c.Parts, 1)
	assert.Equal(t, "Piano", c.Parts[0].Name)
}

func TestIDsComeFromInjectedGenerator(t *testing.T) {
	ids := structure.NewSequence()
	ids.Observe(1000)
	c, err := FromDocument(document(note("C", 4, 1, "1")), Options{IDs: ids})
	require.NoError(t, err)
	assert.Greater(t, uint64(c.ID), uint64(1000))
	assert.Greater(t, uint64(c.Parts[0].Root), uint64(c.ID))
}
