package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationFromDivisions(t *testing.T) {
	tests := []struct {
		divisions, perQuarter int
		want                  Duration
	}{
		{4, 4, NewDuration(Quarter, 0)},
		{6, 4, NewDuration(Quarter, 1)},
		{7, 4, NewDuration(Quarter, 2)},
		{12, 4, NewDuration(Half, 1)},
		{1, 3, NewDuration(Sixteenth, 1)},
		{16, 4, NewDuration(Whole, 0)},
		{0, 4, NewDuration(Quarter, 0)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DurationFromDivisions(tt.divisions, tt.perQuarter),
			"%d divisions at %d per quarter", tt.divisions, tt.perQuarter)
	}
}

func TestDurationValue(t *testing.T) {
	assert := assert.New(t)
	assert.InDelta(0.375, NewDuration(Quarter, 1).Value(), 1e-9)
	assert.InDelta(3, NewDuration(Half, 1).Beats(NewDuration(Quarter, 0)), 1e-9)
	assert.InDelta(60, NewTempo(NewDuration(Half, 0), 30).QuarterNotesPerMinute(), 1e-9)
}

func TestDynamics(t *testing.T) {
	assert := assert.New(t)
	pp, ok := ParseDynamic("pp")
	require.True(t, ok)
	assert.Equal(Dynamic{Kind: Piano, Level: 2}, pp)
	assert.Equal("pp", pp.String())

	fff, ok := ParseDynamic("fff")
	require.True(t, ok)
	assert.Greater(fff.Velocity(), pp.Velocity())

	for _, bad := range []string{"", "sfz", "fp", "ppppppp"} {
		_, ok := ParseDynamic(bad)
		assert.False(ok, bad)
	}
}

func TestNoteAndChordModsMapBothWays(t *testing.T) {
	assert := assert.New(t)
	staccato := NewNoteMod(NoteStaccato)
	cm, ok := ChordModFromNoteMod(staccato)
	require.True(t, ok)
	assert.Equal(ChordStaccato, cm.Kind)
	back, ok := NoteModFromChordMod(cm)
	require.True(t, ok)
	assert.Equal(staccato, back)

	_, ok = NoteModFromChordMod(NewChordMod(ChordArpeggiate))
	assert.False(ok)
	tie, ok := NoteModFromChordMod(NewChordMod(ChordTie))
	require.True(t, ok)
	assert.Equal(NoteTie, tie.Kind)
	_, ok = ChordModFromNoteMod(NewNoteMod(NoteTie))
	assert.False(ok)
}

func TestTempoMarkings(t *testing.T) {
	assert := assert.New(t)
	m, ok := ParseTempoMarking("  allegro   MODERATO ")
	require.True(t, ok)
	assert.Equal(AllegroModerato, m)
	s := TempoSuggestion{Marking: m}
	assert.Equal(uint16(118), s.BPM())
	assert.LessOrEqual(s.MinBPM(), s.MaxBPM())

	_, ok = ParseTempoMarking("Fast")
	assert.False(ok)
}

func TestKeys(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("Eb Major", KeyFromFifths(-3, Major).String())
	assert.Equal("C Minor", KeyFromFifths(-3, Minor).String())
	assert.Equal(Key{}, KeyFromFifths(9, Major))
}

func TestPitchMidiNumber(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(60, Pitch{Name: C, Octave: 4}.MidiNumber())
	assert.Equal(69, Pitch{Name: A, Octave: 4}.MidiNumber())
	assert.Equal(-1, RestPitch().MidiNumber())
	assert.Equal(1, Sharp.Semitones())
}

func TestModificationJSON(t *testing.T) {
	tests := map[string]struct {
		value any
		into  any
	}{
		"phrase":  {Tuplet(3, 2), new(PhraseMod)},
		"section": {OnlyPlay(0, 2), new(SectionMod)},
		"chord":   {ChordMod{Kind: ChordHarmonMute, Open: true}, new(ChordMod)},
		"direction": {
			TimeSignatureChange(NewTimeSignature(6, 8)),
			new(Direction),
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			data, err := json.Marshal(tt.value)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(data, tt.into))
			assert.Contains(t, string(data), `"type"`)
		})
	}
}
