package model

import "fmt"

type ClefSymbol uint8

const (
	GClef ClefSymbol = iota
	CClef
	FClef
)

type ClefType uint8

const (
	Treble ClefType = iota
	Bass
	FrenchViolin
	Subbass
	Tenor
	Alto
	Soprano
	MezzoSoprano
	Baritone
)

var clefTypeNames = [...]string{"Treble", "Bass", "FrenchViolin", "Subbass", "Tenor", "Alto", "Soprano", "MezzoSoprano", "Baritone"}
var clefSymbolNames = [...]string{"GClef", "CClef", "FClef"}

func (c ClefType) String() string {
	if int(c) < len(clefTypeNames) {
		return clefTypeNames[c]
	}
	return fmt.Sprintf("ClefType(%d)", uint8(c))
}

func (c ClefType) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *ClefType) UnmarshalText(b []byte) error {
	for i, name := range clefTypeNames {
		if name == string(b) {
			*c = ClefType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown clef type %q", b)
}

func (s ClefSymbol) String() string {
	if int(s) < len(clefSymbolNames) {
		return clefSymbolNames[s]
	}
	return fmt.Sprintf("ClefSymbol(%d)", uint8(s))
}

func (s ClefSymbol) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *ClefSymbol) UnmarshalText(b []byte) error {
	for i, name := range clefSymbolNames {
		if name == string(b) {
			*s = ClefSymbol(i)
			return nil
		}
	}
	return fmt.Errorf("unknown clef symbol %q", b)
}

type Clef struct {
	Symbol ClefSymbol `json:"symbol"`
	Type   ClefType   `json:"clef_type"`
}

func NewClef(symbol ClefSymbol, t ClefType) Clef {
	return Clef{Symbol: symbol, Type: t}
}

func (c Clef) String() string {
	return fmt.Sprintf("%v (%v)", c.Type, c.Symbol)
}

// ClefFromSign resolves a MusicXML sign and staff line. Unknown signs fall
// back to treble.
func ClefFromSign(sign string, line int) Clef {
	switch sign {
	case "G":
		if line == 1 {
			return NewClef(GClef, FrenchViolin)
		}
		return NewClef(GClef, Treble)
	case "F":
		switch line {
		case 3:
			return NewClef(FClef, Baritone)
		case 5:
			return NewClef(FClef, Subbass)
		}
		return NewClef(FClef, Bass)
	case "C":
		switch line {
		case 1:
			return NewClef(CClef, Soprano)
		case 2:
			return NewClef(CClef, MezzoSoprano)
		case 4:
			return NewClef(CClef, Tenor)
		case 5:
			return NewClef(CClef, Baritone)
		}
		return NewClef(CClef, Alto)
	}
	return NewClef(GClef, Treble)
}
