package model

import (
	"encoding/json"
	"fmt"
)

type DirectionKind uint8

const (
	DirectionAccordionRegistration DirectionKind = iota
	DirectionBreathMark
	DirectionCaesura
	DirectionClefChange
	DirectionDynamic
	DirectionKeyChange
	DirectionStringMute
	DirectionTimeSignatureChange
)

var directionNames = []string{
	"AccordionRegistration", "BreathMark", "Caesura", "ClefChange", "Dynamic", "KeyChange",
	"StringMute", "TimeSignatureChange",
}

func (k DirectionKind) String() string { return enumName(directionNames, int(k), "DirectionKind") }

// Direction is an instantaneous staff-level instruction.
type Direction struct {
	Kind          DirectionKind
	Clef          Clef
	Key           Key
	TimeSignature TimeSignature
	Dynamic       Dynamic
	High          bool
	Middle        uint8
	Low           bool
	On            bool
}

func ClefChange(c Clef) Direction { return Direction{Kind: DirectionClefChange, Clef: c} }

func KeyChange(k Key) Direction { return Direction{Kind: DirectionKeyChange, Key: k} }

func TimeSignatureChange(t TimeSignature) Direction {
	return Direction{Kind: DirectionTimeSignatureChange, TimeSignature: t}
}

func DynamicChange(d Dynamic) Direction { return Direction{Kind: DirectionDynamic, Dynamic: d} }

func AccordionRegistration(high bool, middle uint8, low bool) Direction {
	return Direction{Kind: DirectionAccordionRegistration, High: high, Middle: middle, Low: low}
}

func StringMute(on bool) Direction { return Direction{Kind: DirectionStringMute, On: on} }

func (d Direction) String() string {
	switch d.Kind {
	case DirectionClefChange:
		return fmt.Sprintf("Clef(%v)", d.Clef)
	case DirectionKeyChange:
		return fmt.Sprintf("Key(%v)", d.Key)
	case DirectionTimeSignatureChange:
		return fmt.Sprintf("Time(%v)", d.TimeSignature)
	case DirectionDynamic:
		return fmt.Sprintf("Dynamic(%v)", d.Dynamic)
	case DirectionStringMute:
		return fmt.Sprintf("StringMute(%t)", d.On)
	}
	return d.Kind.String()
}

func (d Direction) MarshalJSON() ([]byte, error) {
	fields := map[string]any{"type": d.Kind.String()}
	switch d.Kind {
	case DirectionAccordionRegistration:
		fields["high"] = d.High
		fields["middle"] = d.Middle
		fields["low"] = d.Low
	case DirectionClefChange:
		fields["clef"] = d.Clef
	case DirectionDynamic:
		fields["dynamic"] = d.Dynamic
	case DirectionKeyChange:
		fields["key"] = d.Key
	case DirectionStringMute:
		fields["on"] = d.On
	case DirectionTimeSignatureChange:
		fields["time_signature"] = d.TimeSignature
	}
	return json.Marshal(fields)
}

func (d *Direction) UnmarshalJSON(b []byte) error {
	var aux struct {
		Type          string        `json:"type"`
		High          bool          `json:"high"`
		Middle        uint8         `json:"middle"`
		Low           bool          `json:"low"`
		Clef          Clef          `json:"clef"`
		Dynamic       *Dynamic      `json:"dynamic"`
		Key           Key           `json:"key"`
		On            bool          `json:"on"`
		TimeSignature TimeSignature `json:"time_signature"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	kind, err := enumValue(directionNames, aux.Type, "direction")
	if err != nil {
		return err
	}
	*d = Direction{
		Kind:          DirectionKind(kind),
		High:          aux.High,
		Middle:        aux.Middle,
		Low:           aux.Low,
		Clef:          aux.Clef,
		Key:           aux.Key,
		On:            aux.On,
		TimeSignature: aux.TimeSignature,
	}
	if aux.Dynamic != nil {
		d.Dynamic = *aux.Dynamic
	}
	return nil
}
