// Package timeline lays a part's MusicXML events onto per-staff arrays of
// slots, one slot per division.
package timeline

import (
	"github.com/jsphweid/scoretree/model"
)

// PhraseModMarker opens or closes a phrase modification. Voice is empty for
// staff-wide markers; Number is zero when the source gave none.
type PhraseModMarker struct {
	Mod             model.PhraseMod
	Number          int
	Voice           string
	CombineWithNext bool
}

type NoteEvent struct {
	Pitch         model.Pitch
	Duration      model.Duration
	Accidental    model.Accidental
	Divisions     int
	Voice         string
	Arpeggiate    bool
	NonArpeggiate bool
	Modifications []model.NoteMod
	PhraseStarts  []PhraseModMarker
	PhraseEnds    []PhraseModMarker
}

func (n NoteEvent) IsGrace() bool {
	for _, mod := range n.Modifications {
		if mod.Kind == model.NoteGrace {
			return true
		}
	}
	return false
}

// Ending marks the start or stop of a volta bracket. Iterations are zero based.
type Ending struct {
	Start      bool
	Iterations []uint8
}

// RepeatMarker marks a forward (Start) or backward repeat barline. Explicit
// is set when the source gave a times attribute.
type RepeatMarker struct {
	Start    bool
	Times    uint8
	Explicit bool
}

type Slot struct {
	Notes         []NoteEvent
	Directions    []model.Direction
	ChordMods     []model.ChordMod
	PhraseStarts  []PhraseModMarker
	PhraseEnds    []PhraseModMarker
	SectionStart  string
	JumpTo        string
	TempoExplicit *model.Tempo
	TempoImplicit *model.TempoSuggestion
	Endings       []Ending
	Repeats       []RepeatMarker
}

// HasStructure reports whether the slot carries section-shaping markers.
func (s *Slot) HasStructure() bool {
	return s.SectionStart != "" || s.JumpTo != "" || len(s.Endings) > 0 || len(s.Repeats) > 0 ||
		s.TempoExplicit != nil || s.TempoImplicit != nil
}

func (s *Slot) IsEmpty() bool {
	return len(s.Notes) == 0 && len(s.Directions) == 0 && len(s.ChordMods) == 0 &&
		len(s.PhraseStarts) == 0 && len(s.PhraseEnds) == 0 && !s.HasStructure()
}

// PartTimeline holds the slot arrays of every staff of one part. All staves
// have the same length.
type PartTimeline struct {
	ID                  string
	Name                string
	DivisionsPerQuarter int
	StaffNames          []string
	Staves              map[string][]Slot
}

func (t *PartTimeline) Len() int {
	if len(t.StaffNames) == 0 {
		return 0
	}
	return len(t.Staves[t.StaffNames[0]])
}

// Grow extends every staff so that index n-1 exists.
func (t *PartTimeline) Grow(n int) {
	for _, name := range t.StaffNames {
		if slots := t.Staves[name]; len(slots) < n {
			t.Staves[name] = append(slots, make([]Slot, n-len(slots))...)
		}
	}
}
