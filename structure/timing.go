package structure

import (
	"time"

	"github.com/jsphweid/scoretree/model"
	"github.com/jsphweid/scoretree/scoreerr"
)

// Passes is how often the section plays: a repeat of n times plays n+1.
func (s *Section) Passes() int {
	for _, m := range s.Modifications {
		if m.Kind == model.SectionRepeat {
			return int(m.Times) + 1
		}
	}
	return 1
}

// PlaysOn reports whether the section sounds on the zero-based iteration of
// its enclosing repeat. Only endings are ever skipped.
func (s *Section) PlaysOn(iteration int) bool {
	for _, m := range s.Modifications {
		if m.Kind != model.SectionOnlyPlay {
			continue
		}
		for _, it := range m.Iterations {
			if int(it) == iteration {
				return true
			}
		}
		return false
	}
	return true
}

// Length is how long item lasts in whole notes when played once. Sections
// take their repeats and endings into account; parallel staves overlap.
func (p *Part) Length(item Item) (float64, error) {
	if item.Kind == ItemSection {
		t := &timer{part: p}
		sp, err := t.section(item.ID, 0)
		return sp.whole, err
	}
	return p.length(item, 1)
}

// Beats is how many beats of base the whole part lasts.
func (p *Part) Beats(base model.Duration) (float64, error) {
	whole, err := p.Length(Item{Kind: ItemSection, ID: p.Root})
	if err != nil {
		return 0, err
	}
	return whole / base.Value(), nil
}

// Duration is how long the part plays starting at tempo. Tempo sections
// change the tempo from where they start onward.
func (p *Part) Duration(tempo model.Tempo) (time.Duration, error) {
	t := &timer{part: p, qpm: tempo.QuarterNotesPerMinute()}
	sp, err := t.section(p.Root, 0)
	return time.Duration(sp.seconds * float64(time.Second)), err
}

// Duration is the length of the longest part at the starting tempo.
func (c *Composition) Duration() (time.Duration, error) {
	var longest time.Duration
	for _, p := range c.Parts {
		d, err := p.Duration(c.Tempo)
		if err != nil {
			return 0, err
		}
		longest = max(longest, d)
	}
	return longest, nil
}

func (p *Part) length(item Item, scale float64) (float64, error) {
	switch item.Kind {
	case ItemStaff:
		s, err := p.staffOrErr(item.ID)
		if err != nil {
			return 0, err
		}
		var total float64
		for _, child := range s.Content {
			if child.Kind != ItemPhrase {
				continue
			}
			l, err := p.length(child, scale)
			if err != nil {
				return 0, err
			}
			total += l
		}
		return total, nil
	case ItemPhrase:
		ph, err := p.phraseOrErr(item.ID)
		if err != nil {
			return 0, err
		}
		for _, m := range ph.Modifications {
			if m.Kind == model.PhraseTuplet && m.Beats > 0 && m.IntoBeats > 0 {
				scale *= float64(m.IntoBeats) / float64(m.Beats)
			}
		}
		var total float64
		for _, child := range ph.Content {
			l, err := p.length(child, scale)
			if err != nil {
				return 0, err
			}
			total += l
		}
		return total, nil
	case ItemMultiVoice:
		mv, ok := p.multiVoices[item.ID]
		if !ok {
			return 0, scoreerr.Internalf("multivoice %v not found in part %q", item.ID, p.Name)
		}
		var longest float64
		for _, voice := range mv.Content {
			l, err := p.length(Item{Kind: ItemPhrase, ID: voice}, scale)
			if err != nil {
				return 0, err
			}
			longest = max(longest, l)
		}
		return longest, nil
	case ItemChord:
		d, ok := p.ChordDuration(item.ID)
		if !ok {
			return 0, scoreerr.Internalf("chord %v not found in part %q", item.ID, p.Name)
		}
		return d.Value() * scale, nil
	case ItemNote:
		n, ok := p.notes[item.ID]
		if !ok {
			return 0, scoreerr.Internalf("note %v not found in part %q", item.ID, p.Name)
		}
		if n.HasModification(model.NoteGrace) {
			return 0, nil
		}
		return n.Duration.Value() * scale, nil
	case ItemDirection:
		return 0, nil
	}
	return 0, scoreerr.Internalf("cannot measure %v %v", item.Kind, item.ID)
}

// span is a stretch of playback in whole notes and in seconds.
type span struct {
	whole   float64
	seconds float64
}

func (s *span) add(o span) {
	s.whole += o.whole
	s.seconds += o.seconds
}

// timer plays sections through in order, tracking the current tempo in
// quarter notes per minute.
type timer struct {
	part *Part
	qpm  float64
}

func (t *timer) span(whole float64) span {
	if t.qpm <= 0 {
		return span{whole: whole}
	}
	return span{whole: whole, seconds: whole * 4 * 60 / t.qpm}
}

func (t *timer) section(id NodeID, iteration int) (span, error) {
	s, err := t.part.sectionOrErr(id)
	if err != nil {
		return span{}, err
	}
	for _, m := range s.Modifications {
		switch m.Kind {
		case model.SectionTempoExplicit:
			t.qpm = m.Tempo.QuarterNotesPerMinute()
		case model.SectionTempoImplicit:
			t.qpm = float64(m.Suggestion.BPM())
		}
	}
	var total span
	passes := s.Passes()
	for pass := 0; pass < passes; pass++ {
		it := iteration
		if passes > 1 {
			it = pass
		}
		sp, err := t.content(s.Content, it)
		if err != nil {
			return total, err
		}
		total.add(sp)
	}
	return total, nil
}

// content measures section children. Consecutive staves with distinct names
// sound together; a section or a repeated staff name starts a new group.
func (t *timer) content(items []Item, iteration int) (span, error) {
	var total span
	var group float64
	seen := make(map[string]bool)
	flush := func() {
		total.add(t.span(group))
		group = 0
		seen = make(map[string]bool)
	}
	for _, item := range items {
		switch item.Kind {
		case ItemSection:
			flush()
			child, err := t.part.sectionOrErr(item.ID)
			if err != nil {
				return total, err
			}
			if !child.PlaysOn(iteration) {
				continue
			}
			sp, err := t.section(item.ID, iteration)
			if err != nil {
				return total, err
			}
			total.add(sp)
		case ItemStaff:
			staff, err := t.part.staffOrErr(item.ID)
			if err != nil {
				return total, err
			}
			if seen[staff.Name] {
				flush()
			}
			seen[staff.Name] = true
			l, err := t.part.length(item, 1)
			if err != nil {
				return total, err
			}
			group = max(group, l)
		}
	}
	flush()
	return total, nil
}
