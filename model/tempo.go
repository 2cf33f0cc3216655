package model

import (
	"fmt"
	"strings"
)

type Tempo struct {
	BaseNote       Duration `json:"base_note"`
	BeatsPerMinute uint16   `json:"beats_per_minute"`
}

func NewTempo(base Duration, bpm uint16) Tempo {
	return Tempo{BaseNote: base, BeatsPerMinute: bpm}
}

// DefaultTempo is quarter = 120.
func DefaultTempo() Tempo {
	return Tempo{BaseNote: Duration{Type: Quarter}, BeatsPerMinute: 120}
}

// QuarterNotesPerMinute rescales the tempo to a quarter-note beat.
func (t Tempo) QuarterNotesPerMinute() float64 {
	return float64(t.BeatsPerMinute) * t.BaseNote.Beats(Duration{Type: Quarter})
}

func (t Tempo) String() string {
	return fmt.Sprintf("%v=%d", t.BaseNote, t.BeatsPerMinute)
}

type TempoMarking uint8

const (
	Larghissimo TempoMarking = iota
	Grave
	Largo
	Lento
	Larghetto
	Adagio
	Adagietto
	Andante
	Andantino
	MarciaModerato
	AndanteModerato
	Moderato
	Allegretto
	AllegroModerato
	Allegro
	Vivace
	Vivacissimo
	Allegrissimo
	AllegroVivace
	Presto
	Prestissimo
)

type markingInfo struct {
	name          string
	min, max, bpm uint16
}

var markings = [...]markingInfo{
	{"Larghissimo", 10, 24, 22},
	{"Grave", 25, 45, 35},
	{"Largo", 40, 60, 50},
	{"Lento", 45, 60, 55},
	{"Larghetto", 60, 66, 63},
	{"Adagio", 66, 76, 70},
	{"Adagietto", 72, 76, 74},
	{"Andante", 76, 108, 86},
	{"Andantino", 80, 108, 94},
	{"Marcia Moderato", 83, 85, 84},
	{"Andante Moderato", 92, 112, 102},
	{"Moderato", 108, 120, 114},
	{"Allegretto", 112, 120, 116},
	{"Allegro Moderato", 116, 120, 118},
	{"Allegro", 120, 168, 140},
	{"Vivace", 168, 176, 172},
	{"Vivacissimo", 172, 176, 174},
	{"Allegrissimo", 172, 178, 175},
	{"Allegro Vivace", 174, 178, 176},
	{"Presto", 168, 200, 190},
	{"Prestissimo", 200, 240, 220},
}

func (m TempoMarking) String() string {
	if int(m) < len(markings) {
		return markings[m].name
	}
	return fmt.Sprintf("TempoMarking(%d)", uint8(m))
}

func (m TempoMarking) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *TempoMarking) UnmarshalText(b []byte) error {
	marking, ok := ParseTempoMarking(string(b))
	if !ok {
		return fmt.Errorf("unknown tempo marking %q", b)
	}
	*m = marking
	return nil
}

// ParseTempoMarking recognises a marking name, ignoring case and spacing.
func ParseTempoMarking(text string) (TempoMarking, bool) {
	needle := strings.ToLower(strings.Join(strings.Fields(text), ""))
	if needle == "" {
		return Moderato, false
	}
	for i, info := range markings {
		if strings.ToLower(strings.ReplaceAll(info.name, " ", "")) == needle {
			return TempoMarking(i), true
		}
	}
	return Moderato, false
}

// TempoSuggestion is a textual tempo instruction without a metronome mark.
type TempoSuggestion struct {
	Marking TempoMarking `json:"marking"`
}

func (s TempoSuggestion) MinBPM() uint16 { return markings[s.Marking].min }
func (s TempoSuggestion) MaxBPM() uint16 { return markings[s.Marking].max }

// BPM is the representative quarter-note tempo for the marking.
func (s TempoSuggestion) BPM() uint16 { return markings[s.Marking].bpm }

func (s TempoSuggestion) String() string {
	return s.Marking.String()
}
