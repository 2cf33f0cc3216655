package chord

import (
	"testing"

	"github.com/jsphweid/scoretree/model"
	"github.com/jsphweid/scoretree/structure"
	"github.com/jsphweid/scoretree/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(name model.PitchName, octave uint8, t model.DurationType, divisions int, voice string) timeline.NoteEvent {
	return timeline.NoteEvent{
		Pitch:     model.Pitch{Name: name, Octave: octave},
		Duration:  model.NewDuration(t, 0),
		Divisions: divisions,
		Voice:     voice,
	}
}

func TestFormsChordWithShortestDivisions(t *testing.T) {
	items := Assemble([]timeline.NoteEvent{
		event(model.C, 3, model.Quarter, 2, "1"),
		event(model.E, 3, model.Eighth, 1, "1"),
		event(model.G, 3, model.Eighth, 1, "1"),
	}, nil)

	assert := assert.New(t)
	require.Len(t, items, 1)
	it := items["1"]
	assert.Nil(it.Note)
	assert.Len(it.Chord, 3)
	assert.Equal(1, it.Divisions)

	part := structure.NewComposition("Test", nil).AddPart("Piano")
	staff, err := part.AddStaff(part.Root, "1")
	require.NoError(t, err)
	phrase, err := part.AddStaffPhrase(staff.ID)
	require.NoError(t, err)
	c, err := part.AddChord(phrase.ID, it.Chord, it.ChordMods)
	require.NoError(t, err)
	duration, ok := part.ChordDuration(c.ID)
	require.True(t, ok)
	assert.Equal(model.NewDuration(model.Eighth, 0), duration)
}

func TestSingleNotesPerVoice(t *testing.T) {
	items := Assemble([]timeline.NoteEvent{
		event(model.C, 4, model.Half, 8, "1"),
		event(model.A, 3, model.Quarter, 4, "2"),
		event(model.F, 3, model.Quarter, 4, ""),
	}, nil)

	assert := assert.New(t)
	assert.Equal([]string{"-1", "1", "2"}, Voices(items))
	require.NotNil(t, items["1"].Note)
	assert.Equal(8, items["1"].Divisions)
	assert.Equal(model.Pitch{Name: model.F, Octave: 3}, items[DefaultVoice].Note.Pitch)
}

func TestAccidentalCarriesToUnmarkedNotes(t *testing.T) {
	sharp := event(model.F, 4, model.Quarter, 4, "1")
	sharp.Accidental = model.Sharp
	unmarked := event(model.F, 4, model.Quarter, 4, "2")
	natural := event(model.F, 4, model.Quarter, 4, "3")
	natural.Accidental = model.Natural

	items := Assemble([]timeline.NoteEvent{unmarked, sharp}, nil)
	assert.Equal(t, model.Sharp, items["1"].Note.Accidental)
	assert.Equal(t, model.Sharp, items["2"].Note.Accidental)

	items = Assemble([]timeline.NoteEvent{sharp, natural}, nil)
	assert.Equal(t, model.Natural, items["3"].Note.Accidental)
}

func TestVoiceWideModificationsMoveToChord(t *testing.T) {
	assert := assert.New(t)
	low := event(model.C, 4, model.Quarter, 4, "1")
	low.Modifications = []model.NoteMod{model.NewNoteMod(model.NoteStaccato), {Kind: model.NoteTrill, Upper: true}}
	low.Arpeggiate = true
	high := event(model.E, 4, model.Quarter, 4, "1")
	high.Modifications = []model.NoteMod{model.NewNoteMod(model.NoteStaccato)}

	items := Assemble([]timeline.NoteEvent{low, high}, []model.ChordMod{model.NewChordMod(model.ChordAccent)})
	it := items["1"]
	assert.Equal([]model.ChordMod{
		model.NewChordMod(model.ChordStaccato),
		model.NewChordMod(model.ChordArpeggiate),
		model.NewChordMod(model.ChordAccent),
	}, it.ChordMods)
	assert.Equal([]model.NoteMod{{Kind: model.NoteTrill, Upper: true}}, it.Chord[0].Modifications)
	assert.Empty(it.Chord[1].Modifications)
}

func TestSingleNoteGetsChordModificationsBack(t *testing.T) {
	n := event(model.D, 5, model.Quarter, 4, "1")
	n.Modifications = []model.NoteMod{model.NewNoteMod(model.NoteTenuto)}
	n.Arpeggiate = true

	items := Assemble([]timeline.NoteEvent{n}, []model.ChordMod{model.NewChordMod(model.ChordTie)})
	assert.Equal(t, []model.NoteMod{
		model.NewNoteMod(model.NoteTenuto),
		model.NewNoteMod(model.NoteTie),
	}, items["1"].Note.Modifications)
}

func TestGraceNotesPrecedeTheMainNote(t *testing.T) {
	assert := assert.New(t)
	grace := event(model.B, 3, model.Eighth, 0, "1")
	grace.Modifications = []model.NoteMod{model.NewNoteMod(model.NoteGrace)}
	main := event(model.C, 4, model.Quarter, 4, "1")

	it := Assemble([]timeline.NoteEvent{grace, main}, nil)["1"]
	require.Len(t, it.Graces, 1)
	assert.True(it.Graces[0].HasModification(model.NoteGrace))
	require.NotNil(t, it.Note)
	assert.Equal(4, it.Divisions)

	alone := Assemble([]timeline.NoteEvent{grace}, nil)["1"]
	assert.Nil(alone.Note)
	assert.Nil(alone.Chord)
	assert.Equal(0, alone.Divisions)
}

func TestPhraseMarkersAreMergedPerVoice(t *testing.T) {
	tuplet := timeline.PhraseModMarker{Mod: model.Tuplet(3, 2), Voice: "1"}
	a := event(model.C, 4, model.Eighth, 1, "1")
	a.PhraseStarts = []timeline.PhraseModMarker{tuplet}
	b := event(model.E, 4, model.Eighth, 1, "1")
	b.PhraseStarts = []timeline.PhraseModMarker{tuplet}
	b.PhraseEnds = []timeline.PhraseModMarker{{Mod: model.NewPhraseMod(model.PhraseGlissando), Voice: "1"}}

	it := Assemble([]timeline.NoteEvent{a, b}, nil)["1"]
	assert.Equal(t, []timeline.PhraseModMarker{tuplet}, it.PhraseStarts)
	assert.Len(t, it.PhraseEnds, 1)
}
