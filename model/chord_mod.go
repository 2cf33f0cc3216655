package model

import "encoding/json"

type ChordModKind uint8

const (
	ChordAccent ChordModKind = iota
	ChordArpeggiate
	ChordDetachedLegato
	ChordDownBow
	ChordDynamic
	ChordFermata
	ChordFingernails
	ChordHalfMuted
	ChordHarmonMute
	ChordHeel
	ChordMarcato
	ChordNonArpeggiate
	ChordOpen
	ChordPizzicato
	ChordSforzando
	ChordSmear
	ChordSoftAccent
	ChordSpiccato
	ChordStaccato
	ChordStaccatissimo
	ChordStress
	ChordTenuto
	ChordTie
	ChordToe
	ChordTremolo
	ChordUnstress
	ChordUpBow
)

var chordModNames = []string{
	"Accent", "Arpeggiate", "DetachedLegato", "DownBow", "Dynamic", "Fermata", "Fingernails",
	"HalfMuted", "HarmonMute", "Heel", "Marcato", "NonArpeggiate", "Open", "Pizzicato",
	"Sforzando", "Smear", "SoftAccent", "Spiccato", "Staccato", "Staccatissimo", "Stress",
	"Tenuto", "Tie", "Toe", "Tremolo", "Unstress", "UpBow",
}

func (k ChordModKind) String() string { return enumName(chordModNames, int(k), "ChordModKind") }

type ChordMod struct {
	Kind    ChordModKind
	Dynamic Dynamic
	Open    bool
	Half    bool
	Speed   uint8
}

func NewChordMod(kind ChordModKind) ChordMod {
	return ChordMod{Kind: kind}
}

func (m ChordMod) String() string {
	return m.Kind.String()
}

// noteChordKinds pairs the note and chord kinds that describe the same
// articulation. Ties only map from chord to note.
var noteChordKinds = map[NoteModKind]ChordModKind{
	NoteAccent:         ChordAccent,
	NoteDetachedLegato: ChordDetachedLegato,
	NoteDownBow:        ChordDownBow,
	NoteDynamic:        ChordDynamic,
	NoteFermata:        ChordFermata,
	NoteFingernails:    ChordFingernails,
	NoteHalfMuted:      ChordHalfMuted,
	NoteHarmonMute:     ChordHarmonMute,
	NoteHeel:           ChordHeel,
	NoteMarcato:        ChordMarcato,
	NoteOpen:           ChordOpen,
	NotePizzicato:      ChordPizzicato,
	NoteSforzando:      ChordSforzando,
	NoteSmear:          ChordSmear,
	NoteSoftAccent:     ChordSoftAccent,
	NoteSpiccato:       ChordSpiccato,
	NoteStaccato:       ChordStaccato,
	NoteStaccatissimo:  ChordStaccatissimo,
	NoteStress:         ChordStress,
	NoteTenuto:         ChordTenuto,
	NoteToe:            ChordToe,
	NoteTremolo:        ChordTremolo,
	NoteUnstress:       ChordUnstress,
	NoteUpBow:          ChordUpBow,
}

var chordNoteKinds = func() map[ChordModKind]NoteModKind {
	res := map[ChordModKind]NoteModKind{ChordTie: NoteTie}
	for n, c := range noteChordKinds {
		res[c] = n
	}
	return res
}()

// ChordModFromNoteMod reports the chord-wide form of a note modification.
func ChordModFromNoteMod(m NoteMod) (ChordMod, bool) {
	kind, ok := noteChordKinds[m.Kind]
	if !ok {
		return ChordMod{}, false
	}
	return ChordMod{Kind: kind, Dynamic: m.Dynamic, Open: m.Open, Half: m.Half, Speed: m.Speed}, true
}

// NoteModFromChordMod reports the single-note form of a chord modification.
// Arpeggiation has no single-note form.
func NoteModFromChordMod(m ChordMod) (NoteMod, bool) {
	kind, ok := chordNoteKinds[m.Kind]
	if !ok {
		return NoteMod{}, false
	}
	return NoteMod{Kind: kind, Dynamic: m.Dynamic, Open: m.Open, Half: m.Half, Speed: m.Speed}, true
}

func (m ChordMod) MarshalJSON() ([]byte, error) {
	fields := map[string]any{"type": m.Kind.String()}
	switch m.Kind {
	case ChordDynamic:
		fields["dynamic"] = m.Dynamic
	case ChordHarmonMute:
		fields["open"] = m.Open
		fields["half"] = m.Half
	case ChordTremolo:
		fields["relative_speed"] = m.Speed
	}
	return json.Marshal(fields)
}

func (m *ChordMod) UnmarshalJSON(b []byte) error {
	var aux struct {
		Type    string  `json:"type"`
		Dynamic Dynamic `json:"dynamic"`
		Open    bool    `json:"open"`
		Half    bool    `json:"half"`
		Speed   uint8   `json:"relative_speed"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	kind, err := enumValue(chordModNames, aux.Type, "chord modification")
	if err != nil {
		return err
	}
	*m = ChordMod{Kind: ChordModKind(kind), Dynamic: aux.Dynamic, Open: aux.Open, Half: aux.Half, Speed: aux.Speed}
	return nil
}
