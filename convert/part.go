package convert

import (
	"log/slog"

	"github.com/jsphweid/scoretree/interval"
	"github.com/jsphweid/scoretree/musicxml"
	"github.com/jsphweid/scoretree/section"
	"github.com/jsphweid/scoretree/structure"
	"github.com/jsphweid/scoretree/timeline"
	"github.com/pkg/errors"
)

type partSource struct {
	name     string
	timeline *timeline.PartTimeline
}

// partTimelines lays out every non-empty part of doc.
func partTimelines(doc *musicxml.Document, log *slog.Logger) ([]partSource, error) {
	var res []partSource
	for _, p := range doc.Parts {
		name := doc.PartName(p.ID)
		if isEmptyPart(p) {
			log.Debug("skipping empty part", "part", name)
			continue
		}
		t, err := timeline.Build(p, name)
		if err != nil {
			return nil, errors.Wrapf(err, "part %q", name)
		}
		timeline.NormalizeDurations(t)
		log.Debug("built timeline", "part", name, "slots", t.Len(), "staves", len(t.StaffNames),
			"divisions", t.DivisionsPerQuarter)
		res = append(res, partSource{name: name, timeline: t})
	}
	return res, nil
}

// buildPart fills an empty part from its timeline. plan is the section
// layout shared by every part, already in this part's divisions.
func buildPart(p *structure.Part, t *timeline.PartTimeline, plan section.Plan, log *slog.Logger) error {
	sections, err := section.Generate(p, p.Root, plan)
	if err != nil {
		return err
	}
	log.Debug("generated sections", "part", p.Name, "boundaries", len(sections))

	isBoundary := func(idx int) bool {
		_, ok := sections[idx]
		return ok
	}
	for _, staff := range t.StaffNames {
		intervals := interval.ResolveStaff(t, staff, isBoundary)
		log.Debug("resolved intervals", "part", p.Name, "staff", staff, "intervals", len(intervals))
	}
	for _, staff := range t.StaffNames {
		b := newStaffBuilder(p, staff, t.DivisionsPerQuarter, sections)
		slots := t.Staves[staff]
		for idx := range slots {
			if err := b.visit(idx, &slots[idx]); err != nil {
				return err
			}
		}
		if n := b.pendingCount(); n > 0 {
			log.Debug("dropped unplaced markers", "part", p.Name, "staff", staff, "count", n)
		}
	}
	return nil
}
