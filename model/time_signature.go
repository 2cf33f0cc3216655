package model

import "fmt"

type TimeSignatureType uint8

const (
	ExplicitTime TimeSignatureType = iota
	CommonTime
	CutTime
	NoTime
)

var timeSignatureTypeNames = [...]string{"Explicit", "Common", "Cut", "None"}

func (t TimeSignatureType) String() string {
	if int(t) < len(timeSignatureTypeNames) {
		return timeSignatureTypeNames[t]
	}
	return fmt.Sprintf("TimeSignatureType(%d)", uint8(t))
}

func (t TimeSignatureType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *TimeSignatureType) UnmarshalText(b []byte) error {
	for i, name := range timeSignatureTypeNames {
		if name == string(b) {
			*t = TimeSignatureType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown time signature type %q", b)
}

type TimeSignature struct {
	Type        TimeSignatureType `json:"signature"`
	Numerator   uint8             `json:"numerator"`
	Denominator uint8             `json:"denominator"`
}

func DefaultTimeSignature() TimeSignature {
	return TimeSignature{Type: CommonTime, Numerator: 4, Denominator: 4}
}

func NewTimeSignature(numerator, denominator uint8) TimeSignature {
	return TimeSignature{Type: ExplicitTime, Numerator: numerator, Denominator: denominator}
}

func NewSpecialTimeSignature(t TimeSignatureType) TimeSignature {
	switch t {
	case CutTime:
		return TimeSignature{Type: CutTime, Numerator: 2, Denominator: 2}
	case NoTime:
		return TimeSignature{Type: NoTime}
	}
	return DefaultTimeSignature()
}

func (t TimeSignature) String() string {
	switch t.Type {
	case CommonTime:
		return "Common Time"
	case CutTime:
		return "Cut Time"
	case NoTime:
		return "No Time"
	}
	return fmt.Sprintf("%d/%d", t.Numerator, t.Denominator)
}
