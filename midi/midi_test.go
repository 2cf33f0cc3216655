package midi

import (
	"path/filepath"
	"testing"

	"github.com/jsphweid/scoretree/model"
	"github.com/jsphweid/scoretree/scoreerr"
	"github.com/jsphweid/scoretree/structure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quarterMicros = 500000

func quarter(name model.PitchName) structure.Note {
	return structure.NewNote(model.Pitch{Name: name, Octave: 4}, model.NewDuration(model.Quarter, 0), model.AccidentalNone)
}

func staffPhrase(t *testing.T, p *structure.Part, section structure.NodeID) structure.NodeID {
	staff, err := p.AddStaff(section, "1")
	require.NoError(t, err)
	ph, err := p.AddStaffPhrase(staff.ID)
	require.NoError(t, err)
	return ph.ID
}

func roundTrip(t *testing.T, c *structure.Composition) []Sounding {
	path := filepath.Join(t.TempDir(), "out.mid")
	require.NoError(t, WriteFile(path, c, 480))
	s, err := ReadFile(path)
	require.NoError(t, err)
	return Notes(s)
}

func composition() (*structure.Composition, *structure.Part) {
	c := structure.NewComposition("Test", nil)
	c.Tempo = model.NewTempo(model.NewDuration(model.Quarter, 0), 120)
	return c, c.AddPart("Piano")
}

func TestRepeatsEndingsAndTies(t *testing.T) {
	c, p := composition()
	repeat, err := p.AddSection(p.Root, "A", model.Repeat(1))
	require.NoError(t, err)
	body := staffPhrase(t, p, repeat.ID)
	for _, name := range []model.PitchName{model.C, model.D} {
		_, err = p.AddNote(body, quarter(name))
		require.NoError(t, err)
	}
	ending, err := p.AddSection(repeat.ID, "Ending", model.OnlyPlay(1))
	require.NoError(t, err)
	_, err = p.AddNote(staffPhrase(t, p, ending.ID), quarter(model.E))
	require.NoError(t, err)

	tail := staffPhrase(t, p, p.Root)
	tied := quarter(model.C)
	tied.AddModification(model.NewNoteMod(model.NoteTie))
	_, err = p.AddNote(tail, tied)
	require.NoError(t, err)
	_, err = p.AddNote(tail, quarter(model.C))
	require.NoError(t, err)

	q := int64(quarterMicros)
	assert.Equal(t, []Sounding{
		{Key: 60, Start: 0, End: q},
		{Key: 62, Start: q, End: 2 * q},
		{Key: 60, Start: 2 * q, End: 3 * q},
		{Key: 62, Start: 3 * q, End: 4 * q},
		{Key: 64, Start: 4 * q, End: 5 * q},
		{Key: 60, Start: 5 * q, End: 7 * q},
	}, roundTrip(t, c))
}

func TestKeySignatureAndAccidentals(t *testing.T) {
	c, p := composition()
	c.StartingKey = model.KeyFromFifths(1, model.Major)
	ph := staffPhrase(t, p, p.Root)
	natural := quarter(model.F)
	natural.Accidental = model.Natural
	for _, n := range []structure.Note{quarter(model.F), natural, quarter(model.B)} {
		_, err := p.AddNote(ph, n)
		require.NoError(t, err)
	}
	_, err := p.AddDirection(mustStaff(t, p), model.KeyChange(model.KeyFromFifths(-1, model.Major)))
	require.NoError(t, err)
	later, err := p.AddStaffPhrase(mustStaff(t, p))
	require.NoError(t, err)
	_, err = p.AddNote(later.ID, quarter(model.B))
	require.NoError(t, err)

	var keys []uint8
	for _, n := range roundTrip(t, c) {
		keys = append(keys, n.Key)
	}
	assert.Equal(t, []uint8{66, 65, 71, 70}, keys)
}

func mustStaff(t *testing.T, p *structure.Part) structure.NodeID {
	root := p.RootSection()
	require.NotEmpty(t, root.Content)
	return root.Content[len(root.Content)-1].ID
}

func TestTupletsAndVoices(t *testing.T) {
	c, p := composition()
	base := staffPhrase(t, p, p.Root)
	first, err := p.AddPhrase(base)
	require.NoError(t, err)
	triplet, err := p.AddPhrase(first.ID, model.Tuplet(3, 2))
	require.NoError(t, err)
	for _, name := range []model.PitchName{model.C, model.D, model.E} {
		eighth := structure.NewNote(model.Pitch{Name: name, Octave: 4}, model.NewDuration(model.Eighth, 0), model.AccidentalNone)
		_, err = p.AddNote(triplet.ID, eighth)
		require.NoError(t, err)
	}
	mv, err := p.WrapInMultiVoice(base, first.ID)
	require.NoError(t, err)
	second, err := p.AddVoice(mv.ID)
	require.NoError(t, err)
	_, err = p.AddNote(second.ID, structure.NewNote(model.Pitch{Name: model.G, Octave: 3},
		model.NewDuration(model.Half, 0), model.AccidentalNone))
	require.NoError(t, err)
	_, err = p.AddNote(base, quarter(model.A))
	require.NoError(t, err)

	notes := roundTrip(t, c)
	require.Len(t, notes, 5)
	assert.Equal(t, uint8(55), notes[0].Key)
	assert.InDelta(t, 2*quarterMicros, notes[0].End, 2)
	assert.InDelta(t, quarterMicros, notes[3].End, 2)
	assert.Equal(t, uint8(57+12), notes[4].Key)
	assert.InDelta(t, 2*quarterMicros, notes[4].Start, 2)
}

func TestConductorTrack(t *testing.T) {
	c, p := composition()
	c.StartingTimeSignature = model.NewTimeSignature(3, 4)
	_, err := p.AddNote(staffPhrase(t, p, p.Root), quarter(model.C))
	require.NoError(t, err)

	s, err := Encode(c, 480)
	require.NoError(t, err)
	require.Len(t, s.Tracks, 2)

	var bpm float64
	var num, denom uint8
	var foundTempo, foundMeter bool
	for _, ev := range s.Tracks[0] {
		if ev.Message.GetMetaTempo(&bpm) {
			foundTempo = true
		}
		if ev.Message.GetMetaMeter(&num, &denom) {
			foundMeter = true
		}
	}
	assert.True(t, foundTempo)
	assert.InDelta(t, 120, bpm, 0.01)
	assert.True(t, foundMeter)
	assert.Equal(t, uint8(3), num)
	assert.Equal(t, uint8(4), denom)
}

func TestEncodeRejectsZeroResolution(t *testing.T) {
	c, _ := composition()
	_, err := Encode(c, 0)
	assert.True(t, scoreerr.Is(err, scoreerr.Input))
}

func TestChannelsSkipDrums(t *testing.T) {
	assert.Equal(t, uint8(0), channelFor(0))
	assert.Equal(t, uint8(8), channelFor(8))
	assert.Equal(t, uint8(10), channelFor(9))
	assert.Equal(t, uint8(15), channelFor(14))
	assert.Equal(t, uint8(0), channelFor(15))
}
