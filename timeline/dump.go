package timeline

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes every non-empty slot of every staff, one line per slot.
func (t *PartTimeline) Dump(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "part %q (%s), %d divisions per quarter\n", t.Name, t.ID, t.DivisionsPerQuarter); err != nil {
		return err
	}
	for _, staff := range t.StaffNames {
		if _, err := fmt.Fprintf(w, "staff %s\n", staff); err != nil {
			return err
		}
		for idx, s := range t.Staves[staff] {
			if s.IsEmpty() {
				continue
			}
			if _, err := fmt.Fprintf(w, "  [%d] %s\n", idx, s.String()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Slot) String() string {
	var parts []string
	for _, n := range s.Notes {
		parts = append(parts, fmt.Sprintf("note(%v %v v%s /%d)", n.Pitch, n.Duration, n.Voice, n.Divisions))
	}
	for _, d := range s.Directions {
		parts = append(parts, d.String())
	}
	for _, m := range s.ChordMods {
		parts = append(parts, m.String())
	}
	for _, m := range s.PhraseStarts {
		parts = append(parts, "+"+m.Mod.String())
	}
	for _, m := range s.PhraseEnds {
		parts = append(parts, "-"+m.Mod.String())
	}
	if s.SectionStart != "" {
		parts = append(parts, fmt.Sprintf("section(%s)", s.SectionStart))
	}
	if s.JumpTo != "" {
		parts = append(parts, fmt.Sprintf("jump(%s)", s.JumpTo))
	}
	if s.TempoExplicit != nil {
		parts = append(parts, fmt.Sprintf("tempo(%v)", *s.TempoExplicit))
	}
	if s.TempoImplicit != nil {
		parts = append(parts, fmt.Sprintf("tempo(%v)", *s.TempoImplicit))
	}
	for _, e := range s.Endings {
		parts = append(parts, fmt.Sprintf("ending(start=%t %v)", e.Start, e.Iterations))
	}
	for _, r := range s.Repeats {
		parts = append(parts, fmt.Sprintf("repeat(start=%t x%d)", r.Start, r.Times))
	}
	return strings.Join(parts, " ")
}
