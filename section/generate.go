package section

import (
	"github.com/jsphweid/scoretree/structure"
	"golang.org/x/exp/slices"
)

// Structure maps the slot indices at which the active section changes to the
// section that becomes active there. Index 0 is always present.
type Structure map[int]structure.NodeID

type frame struct {
	prototype int
	section   structure.NodeID
	repeats   bool
}

// Generate creates the sections of plan inside root and returns the slot to
// section map the tree assembly replays. Sections opening at the same slot
// nest so that the one closing last is outermost. Endings are only created
// inside a repeated section.
func Generate(part *structure.Part, root structure.NodeID, plan Plan) (Structure, error) {
	res := Structure{0: root}
	stack := []frame{{section: root}}
	lastClosed := 0
	for _, idx := range plan.Indices {
		d := plan.Details[idx]
		for _, id := range d.Ending {
			pos := -1
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].prototype == id {
					pos = i
					break
				}
			}
			if pos < 0 {
				continue
			}
			stack = stack[:pos]
			res[idx] = stack[len(stack)-1].section
			lastClosed = idx
		}

		starting := slices.Clone(d.Starting)
		slices.SortStableFunc(starting, func(a, b *Prototype) bool {
			return a.Close > b.Close
		})
		for _, p := range starting {
			current := stack[len(stack)-1]
			if lastClosed != idx {
				implicit, err := part.AddSection(current.section, ImplicitName)
				if err != nil {
					return nil, err
				}
				res[lastClosed] = implicit.ID
				lastClosed = idx
			}
			if p.isEnding() && !current.repeats {
				continue
			}
			s, err := part.AddSection(current.section, p.Name, p.Modifications...)
			if err != nil {
				return nil, err
			}
			stack = append(stack, frame{prototype: p.ID, section: s.ID, repeats: p.isRepeat()})
			res[idx] = s.ID
		}
	}
	return res, nil
}
