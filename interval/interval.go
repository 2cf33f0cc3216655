// Package interval pairs staff-wide phrase markers into intervals and repairs
// partial overlaps so that the phrases they become nest cleanly.
package interval

import (
	"fmt"

	"github.com/jsphweid/scoretree/model"
	"github.com/jsphweid/scoretree/timeline"
	"golang.org/x/exp/slices"
)

// Interval is a half-open [Start, End) span of slot indices.
type Interval struct {
	Mod   model.PhraseMod
	Start int
	End   int
}

func (iv Interval) String() string {
	return fmt.Sprintf("%v[%d,%d)", iv.Mod, iv.Start, iv.End)
}

func (iv Interval) overlapsPartially(other Interval) bool {
	return iv.Start < other.Start && other.Start < iv.End && iv.End < other.End
}

type openSpan struct {
	count int
	index int
}

// Collect pairs the staff-wide start and end markers of slots. Same-typed
// markers nest through a counter. Every span still open at a boundary slot
// is closed there; spans open at the end close after the last non-empty slot.
func Collect(slots []timeline.Slot, isBoundary func(idx int) bool) []Interval {
	var res []Interval
	open := make(map[model.PhraseMod]*openSpan)
	lastNonEmpty := -1
	closeOpen := func(idx int) {
		for i := range res {
			if res[i].End < 0 {
				res[i].End = idx
			}
		}
		open = make(map[model.PhraseMod]*openSpan)
	}
	for idx := range slots {
		s := &slots[idx]
		if len(s.Directions) > 0 || (isBoundary != nil && isBoundary(idx)) {
			closeOpen(idx)
		}
		if !s.IsEmpty() {
			lastNonEmpty = idx
		}
		for _, m := range s.PhraseEnds {
			if o, ok := open[m.Mod]; ok {
				o.count--
				if o.count == 0 {
					res[o.index].End = idx
					delete(open, m.Mod)
				}
			}
		}
		for _, m := range s.PhraseStarts {
			if o, ok := open[m.Mod]; ok {
				o.count++
				continue
			}
			open[m.Mod] = &openSpan{count: 1, index: len(res)}
			res = append(res, Interval{Mod: m.Mod, Start: idx, End: -1})
		}
	}
	closeOpen(lastNonEmpty + 1)
	return res
}

// Sort orders intervals by start, longer intervals first.
func Sort(intervals []Interval) {
	slices.SortStableFunc(intervals, func(a, b Interval) bool {
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End > b.End
	})
}
