package timeline

import "github.com/jsphweid/scoretree/model"

// NormalizeDurations reconciles a single-voice slot with the next
// note-bearing slot of the same voice. Notes that overrun the next onset
// are cut to the distance; a gap left by a forward becomes an explicit rest
// in that voice. Grace notes and slots shared by several voices keep their
// written durations.
func NormalizeDurations(t *PartTimeline) {
	for _, staff := range t.StaffNames {
		slots := t.Staves[staff]
		last := -1
		for idx := range slots {
			if len(slots[idx].Notes) == 0 {
				continue
			}
			if last >= 0 && slotVoice(&slots[idx]) == slotVoice(&slots[last]) {
				normalizeSlot(slots, last, idx-last, t.DivisionsPerQuarter)
			}
			last = idx
		}
	}
}

func normalizeSlot(slots []Slot, idx, distance, divisionsPerQuarter int) {
	s := &slots[idx]
	voice := s.Notes[0].Voice
	shortest := -1
	for _, n := range s.Notes {
		if n.IsGrace() || n.Voice != voice {
			return
		}
		if shortest < 0 || n.Divisions < shortest {
			shortest = n.Divisions
		}
	}
	switch {
	case shortest > distance:
		for i := range s.Notes {
			s.Notes[i].Divisions = distance
			s.Notes[i].Duration = model.DurationFromDivisions(distance, divisionsPerQuarter)
		}
	case shortest < distance && shortest > 0:
		gap := distance - shortest
		slots[idx+shortest].Notes = append(slots[idx+shortest].Notes, NoteEvent{
			Pitch:     model.RestPitch(),
			Duration:  model.DurationFromDivisions(gap, divisionsPerQuarter),
			Divisions: gap,
			Voice:     voice,
		})
	}
}

// slotVoice is the voice shared by every note of s, or "" when they differ.
func slotVoice(s *Slot) string {
	voice := s.Notes[0].Voice
	for _, n := range s.Notes[1:] {
		if n.Voice != voice {
			return ""
		}
	}
	if voice == "" {
		return "-"
	}
	return voice
}
