package model

import (
	"fmt"
	"strings"
)

type DynamicKind uint8

const (
	Piano DynamicKind = iota
	MezzoPiano
	MezzoForte
	Forte
)

// Dynamic is a loudness marking. Level counts the repeated letters of piano
// and forte markings (pp = 2) and is zero for the mezzo markings.
type Dynamic struct {
	Kind  DynamicKind `json:"kind"`
	Level uint8       `json:"level,omitempty"`
}

// ParseDynamic recognises p..pppppp, f..ffffff, mp and mf.
func ParseDynamic(value string) (Dynamic, bool) {
	switch value {
	case "mp":
		return Dynamic{Kind: MezzoPiano}, true
	case "mf":
		return Dynamic{Kind: MezzoForte}, true
	}
	if len(value) == 0 || len(value) > 6 {
		return Dynamic{}, false
	}
	if strings.Count(value, "p") == len(value) {
		return Dynamic{Kind: Piano, Level: uint8(len(value))}, true
	}
	if strings.Count(value, "f") == len(value) {
		return Dynamic{Kind: Forte, Level: uint8(len(value))}, true
	}
	return Dynamic{}, false
}

// Velocity maps the dynamic onto the MIDI velocity range.
func (d Dynamic) Velocity() uint8 {
	switch d.Kind {
	case Piano:
		return uint8(max(1, 64-int(d.Level)*10))
	case MezzoPiano:
		return 58
	case MezzoForte:
		return 72
	}
	return uint8(min(127, 72+int(d.Level)*10))
}

func (d Dynamic) String() string {
	switch d.Kind {
	case MezzoPiano:
		return "mp"
	case MezzoForte:
		return "mf"
	case Piano:
		return strings.Repeat("p", int(d.Level))
	}
	return strings.Repeat("f", int(d.Level))
}

func (d Dynamic) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Dynamic) UnmarshalText(b []byte) error {
	parsed, ok := ParseDynamic(string(b))
	if !ok {
		return fmt.Errorf("unknown dynamic %q", b)
	}
	*d = parsed
	return nil
}
