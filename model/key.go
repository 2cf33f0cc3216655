package model

import "fmt"

type KeyMode uint8

const (
	Major KeyMode = iota
	Minor
)

func (m KeyMode) String() string {
	if m == Minor {
		return "Minor"
	}
	return "Major"
}

func (m KeyMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *KeyMode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "Major":
		*m = Major
	case "Minor":
		*m = Minor
	default:
		return fmt.Errorf("unknown key mode %q", b)
	}
	return nil
}

var majorTonics = map[int8]string{
	-7: "Cb", -6: "Gb", -5: "Db", -4: "Ab", -3: "Eb", -2: "Bb", -1: "F",
	0: "C", 1: "G", 2: "D", 3: "A", 4: "E", 5: "B", 6: "F#", 7: "C#",
}

var minorTonics = map[int8]string{
	-6: "Eb", -5: "Bb", -4: "F", -3: "C", -2: "G", -1: "D",
	0: "A", 1: "E", 2: "B", 3: "F#", 4: "C#", 5: "G#", 6: "D#", 7: "A#",
}

// Key is stored by its circle-of-fifths position.
type Key struct {
	Fifths int8    `json:"fifths"`
	Mode   KeyMode `json:"mode"`
}

// KeyFromFifths normalises out-of-range or unnamed signatures to C major.
func KeyFromFifths(fifths int, mode KeyMode) Key {
	tonics := majorTonics
	if mode == Minor {
		tonics = minorTonics
	}
	if _, ok := tonics[int8(fifths)]; !ok || fifths < -7 || fifths > 7 {
		return Key{}
	}
	return Key{Fifths: int8(fifths), Mode: mode}
}

func (k Key) Tonic() string {
	if k.Mode == Minor {
		return minorTonics[k.Fifths]
	}
	return majorTonics[k.Fifths]
}

func (k Key) String() string {
	return fmt.Sprintf("%s %v", k.Tonic(), k.Mode)
}
