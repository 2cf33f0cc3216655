package model

import (
	"encoding/json"
	"fmt"
)

type PhraseModKind uint8

const (
	PhraseCrescendo PhraseModKind = iota
	PhraseDecrescendo
	PhraseGlissando
	PhraseHairpin
	PhraseLegato
	PhraseOctaveShift
	PhrasePedal
	PhrasePortamento
	PhraseTremolo
	PhraseTuplet
)

var phraseModNames = []string{
	"Crescendo", "Decrescendo", "Glissando", "Hairpin", "Legato", "OctaveShift", "Pedal",
	"Portamento", "Tremolo", "Tuplet",
}

func (k PhraseModKind) String() string { return enumName(phraseModNames, int(k), "PhraseModKind") }

type PedalType uint8

const (
	Sustain PedalType = iota
	Sostenuto
	Soft
)

var pedalNames = []string{"Sustain", "Sostenuto", "Soft"}

func (p PedalType) String() string { return enumName(pedalNames, int(p), "PedalType") }

// PhraseMod is a modification spanning a run of notes. It is comparable so
// open spans can be keyed by it.
type PhraseMod struct {
	Kind       PhraseModKind
	Dynamic    Dynamic
	HasDynamic bool
	Octaves    int8
	Pedal      PedalType
	Speed      uint8
	Beats      uint8
	IntoBeats  uint8
}

func NewPhraseMod(kind PhraseModKind) PhraseMod {
	return PhraseMod{Kind: kind}
}

func OctaveShift(octaves int8) PhraseMod {
	return PhraseMod{Kind: PhraseOctaveShift, Octaves: octaves}
}

func Pedal(pedal PedalType) PhraseMod {
	return PhraseMod{Kind: PhrasePedal, Pedal: pedal}
}

func Tuplet(beats, intoBeats uint8) PhraseMod {
	return PhraseMod{Kind: PhraseTuplet, Beats: beats, IntoBeats: intoBeats}
}

func PhraseTremoloMod(speed uint8) PhraseMod {
	return PhraseMod{Kind: PhraseTremolo, Speed: speed}
}

// VoiceSpecific reports whether the modification is scoped to one voice
// rather than to a whole staff.
func (m PhraseMod) VoiceSpecific() bool {
	switch m.Kind {
	case PhraseTuplet, PhraseGlissando, PhrasePortamento, PhraseTremolo:
		return true
	}
	return false
}

func (m PhraseMod) String() string {
	switch m.Kind {
	case PhraseOctaveShift:
		return fmt.Sprintf("OctaveShift(%d)", m.Octaves)
	case PhrasePedal:
		return fmt.Sprintf("Pedal(%v)", m.Pedal)
	case PhraseTuplet:
		return fmt.Sprintf("Tuplet(%d:%d)", m.Beats, m.IntoBeats)
	}
	return m.Kind.String()
}

func (m PhraseMod) MarshalJSON() ([]byte, error) {
	fields := map[string]any{"type": m.Kind.String()}
	switch m.Kind {
	case PhraseCrescendo, PhraseDecrescendo:
		if m.HasDynamic {
			fields["final_dynamic"] = m.Dynamic
		}
	case PhraseHairpin:
		if m.HasDynamic {
			fields["maximum_dynamic"] = m.Dynamic
		}
	case PhraseOctaveShift:
		fields["num_octaves"] = m.Octaves
	case PhrasePedal:
		fields["pedal_type"] = m.Pedal.String()
	case PhraseTremolo:
		fields["relative_speed"] = m.Speed
	case PhraseTuplet:
		fields["num_beats"] = m.Beats
		fields["into_beats"] = m.IntoBeats
	}
	return json.Marshal(fields)
}

func (m *PhraseMod) UnmarshalJSON(b []byte) error {
	var aux struct {
		Type           string   `json:"type"`
		FinalDynamic   *Dynamic `json:"final_dynamic"`
		MaximumDynamic *Dynamic `json:"maximum_dynamic"`
		Octaves        int8     `json:"num_octaves"`
		Pedal          string   `json:"pedal_type"`
		Speed          uint8    `json:"relative_speed"`
		Beats          uint8    `json:"num_beats"`
		IntoBeats      uint8    `json:"into_beats"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	kind, err := enumValue(phraseModNames, aux.Type, "phrase modification")
	if err != nil {
		return err
	}
	*m = PhraseMod{Kind: PhraseModKind(kind), Octaves: aux.Octaves, Speed: aux.Speed, Beats: aux.Beats, IntoBeats: aux.IntoBeats}
	for _, d := range []*Dynamic{aux.FinalDynamic, aux.MaximumDynamic} {
		if d != nil {
			m.Dynamic, m.HasDynamic = *d, true
		}
	}
	if aux.Pedal != "" {
		pedal, err := enumValue(pedalNames, aux.Pedal, "pedal type")
		if err != nil {
			return err
		}
		m.Pedal = PedalType(pedal)
	}
	return nil
}
