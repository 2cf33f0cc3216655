package timeline

import (
	"strconv"
	"strings"

	"github.com/jsphweid/scoretree/musicxml"
	"github.com/jsphweid/scoretree/scoreerr"
)

// parseBarline records repeats, volta endings, segno and coda marks on every
// staff at the current division.
func (b *builder) parseBarline(bl musicxml.Barline) (int, error) {
	if bl.SegnoSign != nil {
		b.sectionStart("Segno", "Segno")
	}
	if bl.CodaSign != nil {
		b.sectionStart("Coda", "Coda")
	}
	if jump := firstNonEmpty(bl.Coda, bl.Segno); jump != "" {
		b.eachSlot(b.cursor, func(s *Slot) { s.JumpTo = jump })
	}
	if e := bl.Ending; e != nil {
		iterations, err := ParseEndingNumbers(e.Number)
		if err != nil {
			return 0, err
		}
		ending := Ending{Start: e.Type == "start", Iterations: iterations}
		b.eachSlot(b.cursor, func(s *Slot) { s.Endings = append(s.Endings, ending) })
	}
	if r := bl.Repeat; r != nil {
		marker := RepeatMarker{Start: r.Direction == "forward", Times: 1}
		if t := strings.TrimSpace(r.Times); t != "" {
			times, err := strconv.Atoi(t)
			if err != nil || times < 1 || times > 256 {
				return 0, scoreerr.Malformedf("invalid repeat count %q", r.Times)
			}
			marker.Times = uint8(times - 1)
			marker.Explicit = true
		}
		b.eachSlot(b.cursor, func(s *Slot) { s.Repeats = append(s.Repeats, marker) })
	}
	return 0, nil
}

// ParseEndingNumbers reads an ending number list such as "1, 2" into
// zero-based iterations.
func ParseEndingNumbers(value string) ([]uint8, error) {
	fields := strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == ' ' })
	res := make([]uint8, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 1 || n > 256 {
			return nil, scoreerr.Malformedf("invalid ending number %q", value)
		}
		res = append(res, uint8(n-1))
	}
	return res, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
