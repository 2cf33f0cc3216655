// Package structure is the normalized score tree: a Composition owns Parts,
// and each Part owns an arena of sections, staves, phrases, multivoices,
// chords and notes addressed by NodeID.
package structure

import (
	"github.com/jsphweid/scoretree/model"
)

type Composition struct {
	ID                    NodeID
	Title                 string
	Copyright             string
	Publisher             string
	Composers             []string
	Lyricists             []string
	Arrangers             []string
	Metadata              map[string]string
	Tempo                 model.Tempo
	StartingKey           model.Key
	StartingTimeSignature model.TimeSignature
	Parts                 []*Part

	ids IDGenerator
}

// NewComposition starts an empty score. A nil generator gets a fresh Sequence.
func NewComposition(title string, ids IDGenerator) *Composition {
	if ids == nil {
		ids = NewSequence()
	}
	return &Composition{
		ID:                    ids.Next(),
		Title:                 title,
		Metadata:              make(map[string]string),
		Tempo:                 model.DefaultTempo(),
		StartingTimeSignature: model.DefaultTimeSignature(),
		ids:                   ids,
	}
}

// AddPart appends a part with an empty top-level section.
func (c *Composition) AddPart(name string) *Part {
	p := newRootedPart(c.ids.Next(), name, c.ids)
	c.Parts = append(c.Parts, p)
	return p
}

func newRootedPart(id NodeID, name string, ids IDGenerator) *Part {
	p := newPart(id, name, ids)
	root := &Section{ID: p.register(ItemSection), Name: TopLevelSectionName}
	p.sections[root.ID] = root
	p.Root = root.ID
	return p
}

func (c *Composition) Part(name string) (*Part, bool) {
	for _, p := range c.Parts {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

func (c *Composition) RemovePart(id NodeID) {
	for i, p := range c.Parts {
		if p.ID == id {
			c.Parts = append(c.Parts[:i], c.Parts[i+1:]...)
			return
		}
	}
}

func (c *Composition) AddComposer(name string) { c.Composers = append(c.Composers, name) }
func (c *Composition) AddLyricist(name string) { c.Lyricists = append(c.Lyricists, name) }
func (c *Composition) AddArranger(name string) { c.Arrangers = append(c.Arrangers, name) }

func (c *Composition) AddMetadata(key, value string) {
	c.Metadata[key] = value
}
