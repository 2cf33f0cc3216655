package interval

import "github.com/jsphweid/scoretree/timeline"

// Apply replaces the staff-wide markers of slots with the markers of
// intervals, which must be sorted. Intervals sharing a range with the next
// one are flagged to open together.
func Apply(slots []timeline.Slot, intervals []Interval) {
	for idx := range slots {
		slots[idx].PhraseStarts = nil
		slots[idx].PhraseEnds = nil
	}
	for i, iv := range intervals {
		combine := i+1 < len(intervals) && intervals[i+1].Start == iv.Start && intervals[i+1].End == iv.End
		slots[iv.Start].PhraseStarts = append(slots[iv.Start].PhraseStarts,
			timeline.PhraseModMarker{Mod: iv.Mod, CombineWithNext: combine})
		slots[iv.End].PhraseEnds = append(slots[iv.End].PhraseEnds, timeline.PhraseModMarker{Mod: iv.Mod})
	}
}

// ResolveStaff runs Collect, Resolve and Apply over one staff of t, growing
// the timeline when an interval closes past its last slot.
func ResolveStaff(t *timeline.PartTimeline, staff string, isBoundary func(idx int) bool) []Interval {
	intervals := Resolve(Collect(t.Staves[staff], isBoundary), t.Staves[staff])
	end := 0
	for _, iv := range intervals {
		end = max(end, iv.End+1)
	}
	t.Grow(end)
	Apply(t.Staves[staff], intervals)
	return intervals
}
