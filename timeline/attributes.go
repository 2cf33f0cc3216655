package timeline

import (
	"strconv"
	"strings"

	"github.com/jsphweid/scoretree/model"
	"github.com/jsphweid/scoretree/musicxml"
	"github.com/jsphweid/scoretree/scoreerr"
)

// parseAttributes records clef, key and time changes as staff directions.
// Keys and times without a staff number apply to every staff.
func (b *builder) parseAttributes(a musicxml.Attributes) (int, error) {
	for _, c := range a.Clefs {
		staff := c.Number
		if staff == "" {
			staff = defaultStaff
		}
		s, err := b.slot(staff, b.cursor)
		if err != nil {
			return 0, err
		}
		s.Directions = append(s.Directions, model.ClefChange(model.ClefFromSign(c.Sign, c.Line)))
	}
	for _, k := range a.Keys {
		if k.Fifths == nil {
			continue
		}
		key, err := ParseKey(k)
		if err != nil {
			return 0, err
		}
		if err := b.addDirection(k.Number, model.KeyChange(key)); err != nil {
			return 0, err
		}
	}
	for _, t := range a.Times {
		sig, ok, err := ParseTime(t)
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}
		if err := b.addDirection(t.Number, model.TimeSignatureChange(sig)); err != nil {
			return 0, err
		}
	}
	return 0, nil
}

func (b *builder) addDirection(staff string, d model.Direction) error {
	if staff == "" {
		b.eachSlot(b.cursor, func(s *Slot) { s.Directions = append(s.Directions, d) })
		return nil
	}
	s, err := b.slot(staff, b.cursor)
	if err != nil {
		return err
	}
	s.Directions = append(s.Directions, d)
	return nil
}

func ParseKey(k musicxml.Key) (model.Key, error) {
	mode := model.Major
	if strings.TrimSpace(k.Mode) == "minor" {
		mode = model.Minor
	}
	if k.Fifths == nil {
		return model.Key{}, scoreerr.Malformedf("key without fifths")
	}
	return model.KeyFromFifths(*k.Fifths, mode), nil
}

// ParseTime reads a time signature; ok is false for empty elements.
func ParseTime(t musicxml.Time) (model.TimeSignature, bool, error) {
	if t.SenzaMisura != nil {
		return model.NewSpecialTimeSignature(model.NoTime), true, nil
	}
	if len(t.Beats) == 0 || len(t.BeatTypes) == 0 {
		return model.TimeSignature{}, false, nil
	}
	beats, err := sumBeats(t.Beats[0])
	if err != nil {
		return model.TimeSignature{}, false, err
	}
	beatType, err := strconv.Atoi(strings.TrimSpace(t.BeatTypes[0]))
	if err != nil || beatType <= 0 || beatType > 255 {
		return model.TimeSignature{}, false, scoreerr.Malformedf("invalid beat type %q", t.BeatTypes[0])
	}
	switch {
	case t.Symbol == "common" && beats == 4 && beatType == 4:
		return model.NewSpecialTimeSignature(model.CommonTime), true, nil
	case t.Symbol == "cut" && beats == 2 && beatType == 2:
		return model.NewSpecialTimeSignature(model.CutTime), true, nil
	}
	return model.NewTimeSignature(uint8(beats), uint8(beatType)), true, nil
}

// sumBeats accepts composite counts such as "3+2".
func sumBeats(value string) (int, error) {
	total := 0
	for _, part := range strings.Split(value, "+") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0, scoreerr.Malformedf("invalid beats %q", value)
		}
		total += n
	}
	if total == 0 || total > 255 {
		return 0, scoreerr.Malformedf("invalid beats %q", value)
	}
	return total, nil
}
