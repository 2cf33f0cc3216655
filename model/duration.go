package model

import (
	"fmt"
	"math"
)

type DurationType uint8

const (
	Maxima DurationType = iota
	Long
	Breve
	Whole
	Half
	Quarter
	Eighth
	Sixteenth
	ThirtySecond
	SixtyFourth
	OneHundredTwentyEighth
	TwoHundredFiftySixth
	FiveHundredTwelfth
	OneThousandTwentyFourth
	TwoThousandFortyEighth
)

var durationNames = [...]string{
	"Maxima", "Long", "Breve", "Whole", "Half", "Quarter", "Eighth", "Sixteenth",
	"ThirtySecond", "SixtyFourth", "OneHundredTwentyEighth", "TwoHundredFiftySixth",
	"FiveHundredTwelfth", "OneThousandTwentyFourth", "TwoThousandFortyEighth",
}

// MusicXML <type> values in DurationType order.
var durationXMLNames = [...]string{
	"maxima", "long", "breve", "whole", "half", "quarter", "eighth", "16th",
	"32nd", "64th", "128th", "256th", "512th", "1024th", "2048th",
}

func (t DurationType) String() string {
	if int(t) < len(durationNames) {
		return durationNames[t]
	}
	return fmt.Sprintf("DurationType(%d)", uint8(t))
}

func (t DurationType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *DurationType) UnmarshalText(b []byte) error {
	for i, name := range durationNames {
		if name == string(b) {
			*t = DurationType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown duration type %q", b)
}

// Value is the length in whole notes: Maxima = 8, Whole = 1, Quarter = 0.25.
func (t DurationType) Value() float64 {
	return 8 / math.Pow(2, float64(t))
}

func ParseDurationType(value string) (DurationType, bool) {
	for i, name := range durationXMLNames {
		if name == value {
			return DurationType(i), true
		}
	}
	return Quarter, false
}

type Duration struct {
	Type DurationType `json:"type"`
	Dots uint8        `json:"dots"`
}

func NewDuration(t DurationType, dots uint8) Duration {
	return Duration{Type: t, Dots: dots}
}

// Value is the dotted length in whole notes.
func (d Duration) Value() float64 {
	return d.Type.Value() * (2 - math.Pow(0.5, float64(d.Dots)))
}

// Beats counts how many base durations fit in d.
func (d Duration) Beats(base Duration) float64 {
	return d.Value() / base.Value()
}

func (d Duration) String() string {
	if d.Dots == 0 {
		return d.Type.String()
	}
	return fmt.Sprintf("%v(%d dots)", d.Type, d.Dots)
}

const maxDots = 8

// DurationFromDivisions picks the largest duration type not longer than the
// given divisions and spends what is left on dots.
func DurationFromDivisions(divisions, divisionsPerQuarter int) Duration {
	if divisions <= 0 || divisionsPerQuarter <= 0 {
		return Duration{Type: Quarter}
	}
	length := float64(divisions) / float64(divisionsPerQuarter*4)
	t := TwoThousandFortyEighth
	for candidate := Maxima; candidate <= TwoThousandFortyEighth; candidate++ {
		if candidate.Value() <= length+1e-9 {
			t = candidate
			break
		}
	}
	base := t.Value()
	remaining, dots := length-base, uint8(0)
	for remaining > 1e-9 && dots < maxDots {
		dots++
		remaining -= base / math.Pow(2, float64(dots))
	}
	return Duration{Type: t, Dots: dots}
}
