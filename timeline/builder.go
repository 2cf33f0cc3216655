package timeline

import (
	"strconv"

	"github.com/jsphweid/scoretree/model"
	"github.com/jsphweid/scoretree/musicxml"
	"github.com/jsphweid/scoretree/scoreerr"
	"github.com/pkg/errors"
)

const DefaultDivisionsPerQuarter = 4

const defaultStaff = "1"

type builder struct {
	timeline       *PartTimeline
	cursor         int
	lastNoteCursor int
	openWedges     map[int][]model.PhraseModKind
	openShifts     map[int]model.PhraseMod
}

// Build walks every measure of part in order and records its events.
func Build(part musicxml.Part, name string) (*PartTimeline, error) {
	dpq := DivisionsPerQuarter(part)
	maxQuarters, err := MaxQuarterNotesPerMeasure(part)
	if err != nil {
		return nil, err
	}
	staves := StaffNames(part)
	t := &PartTimeline{
		ID:                  part.ID,
		Name:                name,
		DivisionsPerQuarter: dpq,
		StaffNames:          staves,
		Staves:              make(map[string][]Slot, len(staves)),
	}
	capacity := dpq*maxQuarters*len(part.Measures) + 1
	for _, staff := range staves {
		t.Staves[staff] = make([]Slot, capacity)
	}
	b := &builder{
		timeline:   t,
		openWedges: make(map[int][]model.PhraseModKind),
		openShifts: make(map[int]model.PhraseMod),
	}
	for _, measure := range part.Measures {
		for _, el := range measure.Elements {
			var delta int
			switch v := el.(type) {
			case musicxml.Attributes:
				delta, err = b.parseAttributes(v)
			case musicxml.Note:
				delta, err = b.parseNote(v)
			case musicxml.Backup:
				delta = -v.Duration
			case musicxml.Forward:
				delta = v.Duration
			case musicxml.Direction:
				delta, err = b.parseDirection(v)
			case musicxml.Barline:
				delta, err = b.parseBarline(v)
			case musicxml.Sound:
				delta, err = b.parseSound(v)
			}
			if err != nil {
				return nil, errors.Wrapf(err, "measure %s of part %q", measure.Number, name)
			}
			if err := b.advance(delta); err != nil {
				return nil, err
			}
		}
	}
	t.Grow(b.cursor + 1)
	return t, nil
}

func (b *builder) advance(delta int) error {
	if delta == 0 {
		return nil
	}
	if b.cursor+delta < 0 {
		return scoreerr.Malformedf("cursor moved before the start of part %q", b.timeline.Name)
	}
	b.cursor += delta
	b.timeline.Grow(b.cursor + 1)
	return nil
}

// slot returns the slot of staff at idx, growing every staff as needed.
func (b *builder) slot(staff string, idx int) (*Slot, error) {
	slots, ok := b.timeline.Staves[staff]
	if !ok {
		return nil, scoreerr.Malformedf("staff %s does not exist in part %q", staff, b.timeline.Name)
	}
	if idx >= len(slots) {
		b.timeline.Grow(idx + 1)
		slots = b.timeline.Staves[staff]
	}
	return &slots[idx], nil
}

// eachSlot applies fn to the slot at idx on every staff.
func (b *builder) eachSlot(idx int, fn func(*Slot)) {
	b.timeline.Grow(idx + 1)
	for _, staff := range b.timeline.StaffNames {
		fn(&b.timeline.Staves[staff][idx])
	}
}

func staffName(number int) string {
	if number <= 0 {
		return defaultStaff
	}
	return strconv.Itoa(number)
}

// DivisionsPerQuarter is the first <divisions> of the part.
func DivisionsPerQuarter(part musicxml.Part) int {
	for _, m := range part.Measures {
		for _, el := range m.Elements {
			if a, ok := el.(musicxml.Attributes); ok && a.Divisions > 0 {
				return a.Divisions
			}
		}
	}
	return DefaultDivisionsPerQuarter
}

// StaffNames lists "1".."n" for the first <staves> count of the part.
func StaffNames(part musicxml.Part) []string {
	for _, m := range part.Measures {
		for _, el := range m.Elements {
			if a, ok := el.(musicxml.Attributes); ok && a.Staves > 0 {
				names := make([]string, a.Staves)
				for i := range names {
					names[i] = strconv.Itoa(i + 1)
				}
				return names
			}
		}
	}
	return []string{defaultStaff}
}

// MaxQuarterNotesPerMeasure is the largest rounded measure length in quarter
// notes across all time signatures of the part, at least 1.
func MaxQuarterNotesPerMeasure(part musicxml.Part) (int, error) {
	res := 1
	for _, m := range part.Measures {
		for _, el := range m.Elements {
			a, ok := el.(musicxml.Attributes)
			if !ok {
				continue
			}
			for _, t := range a.Times {
				sig, ok, err := ParseTime(t)
				if err != nil {
					return 0, err
				}
				if !ok || sig.Type == model.NoTime || sig.Denominator == 0 {
					continue
				}
				quarters := int(float64(sig.Numerator)*4/float64(sig.Denominator) + 0.5)
				res = max(res, quarters)
			}
		}
	}
	return res, nil
}
