package model

import "fmt"

type PitchName uint8

const (
	Rest PitchName = iota
	A
	B
	C
	D
	E
	F
	G
)

var pitchNames = [...]string{"Rest", "A", "B", "C", "D", "E", "F", "G"}

func (p PitchName) String() string {
	if int(p) < len(pitchNames) {
		return pitchNames[p]
	}
	return fmt.Sprintf("PitchName(%d)", uint8(p))
}

func (p PitchName) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PitchName) UnmarshalText(b []byte) error {
	for i, name := range pitchNames {
		if name == string(b) {
			*p = PitchName(i)
			return nil
		}
	}
	return fmt.Errorf("unknown pitch name %q", b)
}

// ParsePitchStep maps a MusicXML step letter to a PitchName.
func ParsePitchStep(step string) (PitchName, bool) {
	switch step {
	case "A":
		return A, true
	case "B":
		return B, true
	case "C":
		return C, true
	case "D":
		return D, true
	case "E":
		return E, true
	case "F":
		return F, true
	case "G":
		return G, true
	}
	return Rest, false
}

type Pitch struct {
	Name   PitchName `json:"name"`
	Octave uint8     `json:"octave"`
}

func RestPitch() Pitch {
	return Pitch{Name: Rest}
}

func (p Pitch) IsRest() bool {
	return p.Name == Rest
}

func (p Pitch) String() string {
	if p.IsRest() {
		return "Rest"
	}
	return fmt.Sprintf("%v%d", p.Name, p.Octave)
}

// MidiNumber returns the MIDI key for the natural pitch, C4 = 60.
func (p Pitch) MidiNumber() int {
	if p.IsRest() {
		return -1
	}
	offsets := map[PitchName]int{C: 0, D: 2, E: 4, F: 5, G: 7, A: 9, B: 11}
	return (int(p.Octave)+1)*12 + offsets[p.Name]
}
