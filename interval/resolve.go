package interval

import (
	"github.com/jsphweid/scoretree/model"
	"github.com/jsphweid/scoretree/timeline"
)

// Categories lists the groups of modifications that may not partially
// overlap one another.
var Categories = [][]model.PhraseModKind{
	{model.PhraseCrescendo, model.PhraseDecrescendo},
	{model.PhraseLegato},
}

func inCategory(kind model.PhraseModKind, category []model.PhraseModKind) bool {
	for _, k := range category {
		if k == kind {
			return true
		}
	}
	return false
}

// Resolve repairs partial overlaps within each category, then drops empty
// intervals and crescendo, decrescendo or legato spans that cover a single
// non-empty slot. The result is sorted.
func Resolve(intervals []Interval, slots []timeline.Slot) []Interval {
	res := append([]Interval(nil), intervals...)
	Sort(res)
	for _, category := range Categories {
		limit := 4*len(res) + 16
		for i := 0; i < limit && repair(res, category); i++ {
			Sort(res)
		}
	}

	kept := res[:0]
	for _, iv := range res {
		if iv.End <= iv.Start {
			continue
		}
		if inCategory(iv.Mod.Kind, degenerateKinds) && nextWithContent(slots, iv.Start) >= iv.End {
			continue
		}
		kept = append(kept, iv)
	}
	return kept
}

var degenerateKinds = []model.PhraseModKind{model.PhraseCrescendo, model.PhraseDecrescendo, model.PhraseLegato}

// nextWithContent finds the first slot after the given one that holds more
// than phrase markers.
func nextWithContent(slots []timeline.Slot, after int) int {
	for idx := after + 1; idx < len(slots); idx++ {
		s := &slots[idx]
		if len(s.Notes) > 0 || len(s.Directions) > 0 || len(s.ChordMods) > 0 || s.HasStructure() {
			return idx
		}
	}
	return len(slots)
}

// repair applies the cheapest fix to the first partial overlap between two
// members of category and reports whether it changed anything.
func repair(intervals []Interval, category []model.PhraseModKind) bool {
	var stack []int
	for i, cur := range intervals {
		if !inCategory(cur.Mod.Kind, category) {
			continue
		}
		for len(stack) > 0 && intervals[stack[len(stack)-1]].End <= cur.Start {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			top := &intervals[stack[len(stack)-1]]
			if top.overlapsPartially(cur) {
				fix(top, &intervals[i])
				return true
			}
		}
		stack = append(stack, i)
	}
	return false
}

// fix picks the smallest displacement among extending the first interval to
// the end of the second, starting the second where the first starts,
// ending the first where the second starts and ending the second where the
// first ends. Ties go to the earlier option.
func fix(first, second *Interval) {
	expandFirst := second.End - first.End
	expandSecond := second.Start - first.Start
	shrinkFirst := first.End - second.Start
	shrinkSecond := second.End - first.End
	switch least := min(expandFirst, expandSecond, shrinkFirst, shrinkSecond); least {
	case expandFirst:
		first.End = second.End
	case expandSecond:
		second.Start = first.Start
	case shrinkFirst:
		first.End = second.Start
	default:
		second.End = first.End
	}
}
