package structure

import (
	"fmt"

	"github.com/jsphweid/scoretree/model"
)

type ItemKind uint8

const (
	ItemSection ItemKind = iota + 1
	ItemStaff
	ItemDirection
	ItemPhrase
	ItemMultiVoice
	ItemChord
	ItemNote
)

var itemKindNames = map[ItemKind]string{
	ItemSection:    "Section",
	ItemStaff:      "Staff",
	ItemDirection:  "Direction",
	ItemPhrase:     "Phrase",
	ItemMultiVoice: "MultiVoice",
	ItemChord:      "Chord",
	ItemNote:       "Note",
}

func (k ItemKind) String() string {
	if name, ok := itemKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ItemKind(%d)", uint8(k))
}

// Item references a child node of a container.
type Item struct {
	Kind ItemKind
	ID   NodeID
}

type Note struct {
	ID            NodeID
	Pitch         model.Pitch
	Duration      model.Duration
	Accidental    model.Accidental
	Modifications []model.NoteMod
}

func NewNote(pitch model.Pitch, duration model.Duration, accidental model.Accidental) Note {
	return Note{Pitch: pitch, Duration: duration, Accidental: accidental}
}

func NewRest(duration model.Duration) Note {
	return Note{Pitch: model.RestPitch(), Duration: duration}
}

func (n *Note) IsRest() bool {
	return n.Pitch.IsRest()
}

// AddModification appends mod unless an identical one is present.
func (n *Note) AddModification(mod model.NoteMod) {
	for _, existing := range n.Modifications {
		if existing == mod {
			return
		}
	}
	n.Modifications = append(n.Modifications, mod)
}

func (n *Note) HasModification(kind model.NoteModKind) bool {
	for _, mod := range n.Modifications {
		if mod.Kind == kind {
			return true
		}
	}
	return false
}

func (n *Note) String() string {
	acc := ""
	if n.Accidental != model.AccidentalNone {
		acc = " " + n.Accidental.String()
	}
	return fmt.Sprintf("%v%s %v%s", n.Pitch, acc, n.Duration, formatMods(n.Modifications))
}

type Chord struct {
	ID            NodeID
	Notes         []NodeID
	Modifications []model.ChordMod
}

func (c *Chord) AddModification(mod model.ChordMod) {
	for _, existing := range c.Modifications {
		if existing == mod {
			return
		}
	}
	c.Modifications = append(c.Modifications, mod)
}

type Phrase struct {
	ID            NodeID
	Modifications []model.PhraseMod
	Content       []Item
}

func (p *Phrase) HasModification(mod model.PhraseMod) bool {
	for _, existing := range p.Modifications {
		if existing == mod {
			return true
		}
	}
	return false
}

type MultiVoice struct {
	ID      NodeID
	Content []NodeID
}

type StaffDirection struct {
	ID        NodeID
	Direction model.Direction
}

type Staff struct {
	ID      NodeID
	Name    string
	Content []Item
}

type Section struct {
	ID            NodeID
	Name          string
	Modifications []model.SectionMod
	Content       []Item
}

func (s *Section) AddModification(mod model.SectionMod) {
	s.Modifications = append(s.Modifications, mod)
}

func formatMods[M fmt.Stringer](mods []M) string {
	if len(mods) == 0 {
		return ""
	}
	return fmt.Sprintf(" %v", mods)
}
