package model

import "fmt"

type Accidental uint8

const (
	AccidentalNone Accidental = iota
	Natural
	Sharp
	Flat
	DoubleSharp
	DoubleFlat
)

var accidentalNames = [...]string{"None", "Natural", "Sharp", "Flat", "DoubleSharp", "DoubleFlat"}

func (a Accidental) String() string {
	if int(a) < len(accidentalNames) {
		return accidentalNames[a]
	}
	return fmt.Sprintf("Accidental(%d)", uint8(a))
}

func (a Accidental) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Accidental) UnmarshalText(b []byte) error {
	for i, name := range accidentalNames {
		if name == string(b) {
			*a = Accidental(i)
			return nil
		}
	}
	return fmt.Errorf("unknown accidental %q", b)
}

// Semitones is the pitch offset applied by the accidental.
func (a Accidental) Semitones() int {
	switch a {
	case Sharp:
		return 1
	case Flat:
		return -1
	case DoubleSharp:
		return 2
	case DoubleFlat:
		return -2
	}
	return 0
}

// ParseAccidental maps the MusicXML accidental element text.
func ParseAccidental(value string) Accidental {
	switch value {
	case "natural":
		return Natural
	case "sharp":
		return Sharp
	case "flat":
		return Flat
	case "double-sharp", "sharp-sharp":
		return DoubleSharp
	case "flat-flat", "double-flat":
		return DoubleFlat
	}
	return AccidentalNone
}

// AccidentalFromAlter maps a chromatic <alter> value.
func AccidentalFromAlter(alter float64) Accidental {
	switch {
	case alter >= 2:
		return DoubleSharp
	case alter >= 1:
		return Sharp
	case alter <= -2:
		return DoubleFlat
	case alter <= -1:
		return Flat
	}
	return AccidentalNone
}
