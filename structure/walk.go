package structure

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrSkipChildren can be returned from a WalkFunc to skip an item's children.
var ErrSkipChildren = errors.New("skip children")

type WalkFunc func(depth int, item Item) error

// Walk visits every node below the root section in document order.
func (p *Part) Walk(fn WalkFunc) error {
	return p.walk(0, Item{Kind: ItemSection, ID: p.Root}, fn)
}

func (p *Part) walk(depth int, item Item, fn WalkFunc) error {
	if err := fn(depth, item); err != nil {
		if errors.Is(err, ErrSkipChildren) {
			return nil
		}
		return err
	}
	children, err := p.Children(item)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := p.walk(depth+1, child, fn); err != nil {
			return err
		}
	}
	return nil
}

// Children lists the direct children of a container node.
func (p *Part) Children(item Item) ([]Item, error) {
	switch item.Kind {
	case ItemSection:
		s, err := p.sectionOrErr(item.ID)
		if err != nil {
			return nil, err
		}
		return s.Content, nil
	case ItemStaff:
		s, err := p.staffOrErr(item.ID)
		if err != nil {
			return nil, err
		}
		return s.Content, nil
	case ItemPhrase:
		ph, err := p.phraseOrErr(item.ID)
		if err != nil {
			return nil, err
		}
		return ph.Content, nil
	case ItemMultiVoice:
		mv, ok := p.multiVoices[item.ID]
		if !ok {
			return nil, errors.Errorf("multivoice %v not found", item.ID)
		}
		res := make([]Item, len(mv.Content))
		for i, id := range mv.Content {
			res[i] = Item{Kind: ItemPhrase, ID: id}
		}
		return res, nil
	case ItemChord:
		c, ok := p.chords[item.ID]
		if !ok {
			return nil, errors.Errorf("chord %v not found", item.ID)
		}
		res := make([]Item, len(c.Notes))
		for i, id := range c.Notes {
			res[i] = Item{Kind: ItemNote, ID: id}
		}
		return res, nil
	}
	return nil, nil
}

type Stats struct {
	Sections    int
	Staves      int
	Directions  int
	Phrases     int
	MultiVoices int
	Chords      int
	Notes       int
	Rests       int
}

func (p *Part) Stats() Stats {
	s := Stats{
		Sections:    len(p.sections),
		Staves:      len(p.staves),
		Directions:  len(p.directions),
		Phrases:     len(p.phrases),
		MultiVoices: len(p.multiVoices),
		Chords:      len(p.chords),
	}
	for _, n := range p.notes {
		if n.IsRest() {
			s.Rests++
		} else {
			s.Notes++
		}
	}
	return s
}

func (p *Part) describe(item Item) string {
	switch item.Kind {
	case ItemSection:
		s := p.sections[item.ID]
		return fmt.Sprintf("Section %v %q%s", s.ID, s.Name, formatMods(s.Modifications))
	case ItemStaff:
		s := p.staves[item.ID]
		return fmt.Sprintf("Staff %v %q", s.ID, s.Name)
	case ItemDirection:
		d := p.directions[item.ID]
		return fmt.Sprintf("Direction %v %v", d.ID, d.Direction)
	case ItemPhrase:
		ph := p.phrases[item.ID]
		return fmt.Sprintf("Phrase %v%s", ph.ID, formatMods(ph.Modifications))
	case ItemMultiVoice:
		return fmt.Sprintf("MultiVoice %v", item.ID)
	case ItemChord:
		c := p.chords[item.ID]
		return fmt.Sprintf("Chord %v%s", c.ID, formatMods(c.Modifications))
	case ItemNote:
		n := p.notes[item.ID]
		return fmt.Sprintf("Note %v %v", n.ID, n)
	}
	return item.Kind.String()
}

func (p *Part) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Part %v %q\n", p.ID, p.Name)
	err := p.Walk(func(depth int, item Item) error {
		fmt.Fprintf(&b, "%s%s\n", strings.Repeat("  ", depth+1), p.describe(item))
		return nil
	})
	if err != nil {
		fmt.Fprintf(&b, "  <%v>\n", err)
	}
	return b.String()
}

func (c *Composition) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Composition %q\n", c.Title)
	if len(c.Composers) > 0 {
		fmt.Fprintf(&b, "Composers: %s\n", strings.Join(c.Composers, ", "))
	}
	fmt.Fprintf(&b, "Tempo: %v, Key: %v, Time: %v\n", c.Tempo, c.StartingKey, c.StartingTimeSignature)
	for _, p := range c.Parts {
		b.WriteString(p.String())
	}
	return b.String()
}
