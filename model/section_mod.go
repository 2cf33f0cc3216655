package model

import (
	"encoding/json"
	"fmt"
)

type SectionModKind uint8

const (
	SectionAccelerando SectionModKind = iota
	SectionOnlyPlay
	SectionRallentando
	SectionRepeat
	SectionRitardando
	SectionRitenuto
	SectionStringendo
	SectionTempoExplicit
	SectionTempoImplicit
)

var sectionModNames = []string{
	"Accelerando", "OnlyPlay", "Rallentando", "Repeat", "Ritardando", "Ritenuto",
	"Stringendo", "TempoExplicit", "TempoImplicit",
}

func (k SectionModKind) String() string { return enumName(sectionModNames, int(k), "SectionModKind") }

// SectionMod modifies how a section is played. Repeat{Times: 1} plays the
// section twice; OnlyPlay lists zero-based iterations of the enclosing repeat.
type SectionMod struct {
	Kind       SectionModKind
	Iterations []uint8
	Times      uint8
	Tempo      Tempo
	Suggestion TempoSuggestion
}

func Repeat(times uint8) SectionMod {
	return SectionMod{Kind: SectionRepeat, Times: times}
}

func OnlyPlay(iterations ...uint8) SectionMod {
	return SectionMod{Kind: SectionOnlyPlay, Iterations: iterations}
}

func TempoExplicit(t Tempo) SectionMod {
	return SectionMod{Kind: SectionTempoExplicit, Tempo: t}
}

func TempoImplicit(s TempoSuggestion) SectionMod {
	return SectionMod{Kind: SectionTempoImplicit, Suggestion: s}
}

func (m SectionMod) String() string {
	switch m.Kind {
	case SectionOnlyPlay:
		return fmt.Sprintf("OnlyPlay%v", m.Iterations)
	case SectionRepeat:
		return fmt.Sprintf("Repeat(%d)", m.Times)
	case SectionTempoExplicit:
		return fmt.Sprintf("Tempo(%v)", m.Tempo)
	case SectionTempoImplicit:
		return fmt.Sprintf("Tempo(%v)", m.Suggestion)
	}
	return m.Kind.String()
}

func (m SectionMod) MarshalJSON() ([]byte, error) {
	fields := map[string]any{"type": m.Kind.String()}
	switch m.Kind {
	case SectionOnlyPlay:
		iterations := make([]int, len(m.Iterations))
		for i, it := range m.Iterations {
			iterations[i] = int(it)
		}
		fields["iterations"] = iterations
	case SectionRepeat:
		fields["num_times"] = m.Times
	case SectionTempoExplicit:
		fields["tempo"] = m.Tempo
	case SectionTempoImplicit:
		fields["tempo"] = m.Suggestion
	}
	return json.Marshal(fields)
}

func (m *SectionMod) UnmarshalJSON(b []byte) error {
	var aux struct {
		Type       string          `json:"type"`
		Iterations []uint8         `json:"iterations"`
		Times      uint8           `json:"num_times"`
		Tempo      json.RawMessage `json:"tempo"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	kind, err := enumValue(sectionModNames, aux.Type, "section modification")
	if err != nil {
		return err
	}
	*m = SectionMod{Kind: SectionModKind(kind), Iterations: aux.Iterations, Times: aux.Times}
	switch m.Kind {
	case SectionTempoExplicit:
		return json.Unmarshal(aux.Tempo, &m.Tempo)
	case SectionTempoImplicit:
		return json.Unmarshal(aux.Tempo, &m.Suggestion)
	}
	return nil
}
