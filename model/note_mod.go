package model

import "encoding/json"

type NoteModKind uint8

const (
	NoteAccent NoteModKind = iota
	NoteBrassBend
	NoteDetachedLegato
	NoteDoit
	NoteDoubleTongue
	NoteDownBow
	NoteDynamic
	NoteFalloff
	NoteFermata
	NoteFingernails
	NoteFlip
	NoteGlissando
	NoteGolpe
	NoteGrace
	NoteHalfMuted
	NoteHandbell
	NoteHarmonMute
	NoteHaydn
	NoteHeel
	NoteHole
	NoteMarcato
	NoteMordent
	NoteOpen
	NotePizzicato
	NotePlop
	NotePortamento
	NoteSchleifer
	NoteScoop
	NoteSforzando
	NoteShake
	NoteSmear
	NoteSoftAccent
	NoteSpiccato
	NoteStaccato
	NoteStaccatissimo
	NoteStopped
	NoteStress
	NoteTap
	NoteTenuto
	NoteThumbPosition
	NoteTie
	NoteToe
	NoteTremolo
	NoteTrill
	NoteTripleTongue
	NoteTurn
	NoteUnstress
	NoteUpBow
)

var noteModNames = []string{
	"Accent", "BrassBend", "DetachedLegato", "Doit", "DoubleTongue", "DownBow", "Dynamic",
	"Falloff", "Fermata", "Fingernails", "Flip", "Glissando", "Golpe", "Grace", "HalfMuted",
	"Handbell", "HarmonMute", "Haydn", "Heel", "Hole", "Marcato", "Mordent", "Open",
	"Pizzicato", "Plop", "Portamento", "Schleifer", "Scoop", "Sforzando", "Shake", "Smear",
	"SoftAccent", "Spiccato", "Staccato", "Staccatissimo", "Stopped", "Stress", "Tap",
	"Tenuto", "ThumbPosition", "Tie", "Toe", "Tremolo", "Trill", "TripleTongue", "Turn",
	"Unstress", "UpBow",
}

func (k NoteModKind) String() string { return enumName(noteModNames, int(k), "NoteModKind") }

type HandbellTechnique uint8

const (
	Belltree HandbellTechnique = iota
	Damp
	Echo
	Gyro
	HandMartellato
	MalletLift
	MalletTable
	Martellato
	MartellatoLift
	MutedMartellato
	PluckLift
	Swing
)

var handbellNames = []string{
	"belltree", "damp", "echo", "gyro", "hand martellato", "mallet lift", "mallet table",
	"martellato", "martellato lift", "muted martellato", "pluck lift", "swing",
}

func (h HandbellTechnique) String() string { return enumName(handbellNames, int(h), "HandbellTechnique") }

// ParseHandbell reads the MusicXML handbell element text.
func ParseHandbell(value string) (HandbellTechnique, bool) {
	i, err := enumValue(handbellNames, value, "handbell technique")
	return HandbellTechnique(i), err == nil
}

// NoteMod is a single-note modification. Only the fields relevant to Kind
// are meaningful; the struct stays comparable.
type NoteMod struct {
	Kind         NoteModKind
	Dynamic      Dynamic
	Upper        bool
	Delayed      bool
	Vertical     bool
	Open         bool
	Half         bool
	Acciaccatura bool
	FromCurrent  bool
	GoingUp      bool
	Speed        uint8
	Handbell     HandbellTechnique
}

func NewNoteMod(kind NoteModKind) NoteMod {
	return NoteMod{Kind: kind}
}

func (m NoteMod) String() string {
	return m.Kind.String()
}

func (m NoteMod) MarshalJSON() ([]byte, error) {
	fields := map[string]any{"type": m.Kind.String()}
	switch m.Kind {
	case NoteDynamic:
		fields["dynamic"] = m.Dynamic
	case NoteGlissando, NotePortamento:
		fields["from_current"] = m.FromCurrent
		fields["going_up"] = m.GoingUp
	case NoteGrace:
		fields["acciaccatura"] = m.Acciaccatura
	case NoteHandbell:
		fields["technique"] = m.Handbell.String()
	case NoteHarmonMute, NoteHole:
		fields["open"] = m.Open
		fields["half"] = m.Half
	case NoteMordent, NoteTrill:
		fields["upper"] = m.Upper
	case NoteTremolo:
		fields["relative_speed"] = m.Speed
	case NoteTurn:
		fields["upper"] = m.Upper
		fields["delayed"] = m.Delayed
		fields["vertical"] = m.Vertical
	}
	return json.Marshal(fields)
}

func (m *NoteMod) UnmarshalJSON(b []byte) error {
	var aux struct {
		Type         string  `json:"type"`
		Dynamic      Dynamic `json:"dynamic"`
		FromCurrent  bool    `json:"from_current"`
		GoingUp      bool    `json:"going_up"`
		Acciaccatura bool    `json:"acciaccatura"`
		Technique    string  `json:"technique"`
		Open         bool    `json:"open"`
		Half         bool    `json:"half"`
		Upper        bool    `json:"upper"`
		Delayed      bool    `json:"delayed"`
		Vertical     bool    `json:"vertical"`
		Speed        uint8   `json:"relative_speed"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	kind, err := enumValue(noteModNames, aux.Type, "note modification")
	if err != nil {
		return err
	}
	*m = NoteMod{
		Kind:         NoteModKind(kind),
		Dynamic:      aux.Dynamic,
		FromCurrent:  aux.FromCurrent,
		GoingUp:      aux.GoingUp,
		Acciaccatura: aux.Acciaccatura,
		Open:         aux.Open,
		Half:         aux.Half,
		Upper:        aux.Upper,
		Delayed:      aux.Delayed,
		Vertical:     aux.Vertical,
		Speed:        aux.Speed,
	}
	if aux.Technique != "" {
		if h, ok := ParseHandbell(aux.Technique); ok {
			m.Handbell = h
		}
	}
	return nil
}
