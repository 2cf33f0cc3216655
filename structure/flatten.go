package structure

import (
	"github.com/jsphweid/scoretree/model"
	"github.com/jsphweid/scoretree/scoreerr"
	"golang.org/x/exp/slices"
)

// Flatten returns a copy of the part with its repeats played out. Every
// pass of a repeated section becomes a section of its own and endings only
// appear on the passes that play them. Names and tempo changes are kept.
func (p *Part) Flatten() (*Part, error) {
	flat := newRootedPart(p.ids.Next(), p.Name, p.ids)
	c := &copier{from: p, to: flat, unroll: true}
	if err := c.content(p.RootSection().Content, flat.Root, 0); err != nil {
		return nil, err
	}
	return flat, nil
}

// ExtractStaves splits the part into one part per staff name, ordered by
// name. Each keeps the full section layout with only that staff inside.
func (p *Part) ExtractStaves() ([]*Part, error) {
	var names []string
	for _, s := range p.staves {
		if !slices.Contains(names, s.Name) {
			names = append(names, s.Name)
		}
	}
	slices.Sort(names)

	parts := make([]*Part, 0, len(names))
	for _, name := range names {
		name := name
		single := newRootedPart(p.ids.Next(), p.Name+"_"+name, p.ids)
		c := &copier{from: p, to: single, keep: func(s *Staff) bool { return s.Name == name }}
		if err := c.content(p.RootSection().Content, single.Root, 0); err != nil {
			return nil, err
		}
		parts = append(parts, single)
	}
	return parts, nil
}

// Flatten returns a copy of the composition whose parts are flattened.
func (c *Composition) Flatten() (*Composition, error) {
	return c.mapParts(func(p *Part) ([]*Part, error) {
		flat, err := p.Flatten()
		return []*Part{flat}, err
	})
}

// ExtractStavesAsParts returns a copy of the composition with every staff
// of every part promoted to a part of its own.
func (c *Composition) ExtractStavesAsParts() (*Composition, error) {
	return c.mapParts((*Part).ExtractStaves)
}

func (c *Composition) mapParts(fn func(*Part) ([]*Part, error)) (*Composition, error) {
	res := *c
	res.ID = c.ids.Next()
	res.Composers = slices.Clone(c.Composers)
	res.Lyricists = slices.Clone(c.Lyricists)
	res.Arrangers = slices.Clone(c.Arrangers)
	res.Metadata = make(map[string]string, len(c.Metadata))
	for k, v := range c.Metadata {
		res.Metadata[k] = v
	}
	res.Parts = nil
	for _, p := range c.Parts {
		parts, err := fn(p)
		if err != nil {
			return nil, err
		}
		res.Parts = append(res.Parts, parts...)
	}
	return &res, nil
}

// copier rebuilds the nodes of one part inside another.
type copier struct {
	from, to *Part
	unroll   bool
	keep     func(*Staff) bool
}

func (c *copier) content(items []Item, parent NodeID, iteration int) error {
	for _, item := range items {
		switch item.Kind {
		case ItemSection:
			s, err := c.from.sectionOrErr(item.ID)
			if err != nil {
				return err
			}
			if err := c.section(s, parent, iteration); err != nil {
				return err
			}
		case ItemStaff:
			s, err := c.from.staffOrErr(item.ID)
			if err != nil {
				return err
			}
			if c.keep != nil && !c.keep(s) {
				continue
			}
			if err := c.staff(s, parent); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *copier) section(s *Section, parent NodeID, iteration int) error {
	mods := s.Modifications
	passes := 1
	if c.unroll {
		if !s.PlaysOn(iteration) {
			return nil
		}
		passes = s.Passes()
		mods = nil
		for _, m := range s.Modifications {
			if m.Kind != model.SectionRepeat && m.Kind != model.SectionOnlyPlay {
				mods = append(mods, m)
			}
		}
	}
	for pass := 0; pass < passes; pass++ {
		it := iteration
		if passes > 1 {
			it = pass
		}
		dst, err := c.to.AddSection(parent, s.Name, slices.Clone(mods)...)
		if err != nil {
			return err
		}
		if err := c.content(s.Content, dst.ID, it); err != nil {
			return err
		}
	}
	return nil
}

func (c *copier) staff(s *Staff, section NodeID) error {
	dst, err := c.to.AddStaff(section, s.Name)
	if err != nil {
		return err
	}
	for _, item := range s.Content {
		switch item.Kind {
		case ItemDirection:
			d, ok := c.from.directions[item.ID]
			if !ok {
				return scoreerr.Internalf("direction %v not found in part %q", item.ID, c.from.Name)
			}
			if _, err := c.to.AddDirection(dst.ID, d.Direction); err != nil {
				return err
			}
		case ItemPhrase:
			src, err := c.from.phraseOrErr(item.ID)
			if err != nil {
				return err
			}
			ph, err := c.to.AddStaffPhrase(dst.ID)
			if err != nil {
				return err
			}
			ph.Modifications = slices.Clone(src.Modifications)
			if err := c.phrase(src, ph.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *copier) phrase(src *Phrase, dst NodeID) error {
	for _, item := range src.Content {
		switch item.Kind {
		case ItemPhrase:
			inner, err := c.from.phraseOrErr(item.ID)
			if err != nil {
				return err
			}
			ph, err := c.to.AddPhrase(dst, slices.Clone(inner.Modifications)...)
			if err != nil {
				return err
			}
			if err := c.phrase(inner, ph.ID); err != nil {
				return err
			}
		case ItemMultiVoice:
			mv, ok := c.from.multiVoices[item.ID]
			if !ok {
				return scoreerr.Internalf("multivoice %v not found in part %q", item.ID, c.from.Name)
			}
			copied, err := c.to.AddMultiVoice(dst)
			if err != nil {
				return err
			}
			for _, voice := range mv.Content {
				inner, err := c.from.phraseOrErr(voice)
				if err != nil {
					return err
				}
				ph, err := c.to.AddVoice(copied.ID)
				if err != nil {
					return err
				}
				ph.Modifications = slices.Clone(inner.Modifications)
				if err := c.phrase(inner, ph.ID); err != nil {
					return err
				}
			}
		case ItemChord:
			ch, ok := c.from.chords[item.ID]
			if !ok {
				return scoreerr.Internalf("chord %v not found in part %q", item.ID, c.from.Name)
			}
			notes := make([]Note, 0, len(ch.Notes))
			for _, id := range ch.Notes {
				n, ok := c.from.notes[id]
				if !ok {
					return scoreerr.Internalf("note %v not found in part %q", id, c.from.Name)
				}
				notes = append(notes, *n)
			}
			if _, err := c.to.AddChord(dst, notes, ch.Modifications); err != nil {
				return err
			}
		case ItemNote:
			n, ok := c.from.notes[item.ID]
			if !ok {
				return scoreerr.Internalf("note %v not found in part %q", item.ID, c.from.Name)
			}
			if _, err := c.to.AddNote(dst, *n); err != nil {
				return err
			}
		}
	}
	return nil
}
