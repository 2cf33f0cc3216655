// Package musicxml decodes partwise MusicXML documents into the event stream
// the converter consumes. Measure contents keep their document order.
package musicxml

import "encoding/xml"

type Document struct {
	XMLName        xml.Name       `xml:"score-partwise"`
	Work           Work           `xml:"work"`
	MovementNumber string         `xml:"movement-number"`
	MovementTitle  string         `xml:"movement-title"`
	Identification Identification `xml:"identification"`
	PartList       PartList       `xml:"part-list"`
	Parts          []Part         `xml:"part"`
}

type Work struct {
	Number string `xml:"work-number"`
	Title  string `xml:"work-title"`
}

type Identification struct {
	Creators []TypedText `xml:"creator"`
	Rights   []TypedText `xml:"rights"`
}

type TypedText struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

type PartList struct {
	ScoreParts []ScorePart `xml:"score-part"`
}

type ScorePart struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"part-name"`
}

// PartName resolves a part id through the part list, falling back to the id.
func (d *Document) PartName(id string) string {
	for _, sp := range d.PartList.ScoreParts {
		if sp.ID == id && sp.Name != "" {
			return sp.Name
		}
	}
	return id
}

type Part struct {
	ID       string    `xml:"id,attr"`
	Measures []Measure `xml:"measure"`
}

type Attributes struct {
	Divisions int    `xml:"divisions"`
	Keys      []Key  `xml:"key"`
	Times     []Time `xml:"time"`
	Staves    int    `xml:"staves"`
	Clefs     []Clef `xml:"clef"`
}

type Key struct {
	Number string `xml:"number,attr"`
	Fifths *int   `xml:"fifths"`
	Mode   string `xml:"mode"`
}

type Time struct {
	Number      string    `xml:"number,attr"`
	Symbol      string    `xml:"symbol,attr"`
	Beats       []string  `xml:"beats"`
	BeatTypes   []string  `xml:"beat-type"`
	SenzaMisura *struct{} `xml:"senza-misura"`
}

type Clef struct {
	Number string `xml:"number,attr"`
	Sign   string `xml:"sign"`
	Line   int    `xml:"line"`
}

type Backup struct {
	Duration int `xml:"duration"`
}

type Forward struct {
	Duration int    `xml:"duration"`
	Voice    string `xml:"voice"`
	Staff    int    `xml:"staff"`
}

type Note struct {
	Pizzicato        string            `xml:"pizzicato,attr"`
	Grace            *Grace            `xml:"grace"`
	Cue              *struct{}         `xml:"cue"`
	Chord            *struct{}         `xml:"chord"`
	Pitch            *Pitch            `xml:"pitch"`
	Rest             *struct{}         `xml:"rest"`
	Duration         int               `xml:"duration"`
	Ties             []Typed           `xml:"tie"`
	Voice            string            `xml:"voice"`
	Type             string            `xml:"type"`
	Dots             []struct{}        `xml:"dot"`
	Accidental       string            `xml:"accidental"`
	TimeModification *TimeModification `xml:"time-modification"`
	Staff            int               `xml:"staff"`
	Notations        []Notations       `xml:"notations"`
}

type Grace struct {
	Slash             string `xml:"slash,attr"`
	StealTimePrevious string `xml:"steal-time-previous,attr"`
}

type Pitch struct {
	Step   string  `xml:"step"`
	Alter  float64 `xml:"alter"`
	Octave int     `xml:"octave"`
}

type Typed struct {
	Type string `xml:"type,attr"`
}

type TimeModification struct {
	ActualNotes int `xml:"actual-notes"`
	NormalNotes int `xml:"normal-notes"`
}

// Spanner is any start/stop notation with an optional number.
type Spanner struct {
	Type   string `xml:"type,attr"`
	Number int    `xml:"number,attr"`
}

type Notations struct {
	Tied          []Typed    `xml:"tied"`
	Slurs         []Spanner  `xml:"slur"`
	Tuplets       []Spanner  `xml:"tuplet"`
	Glissandos    []Spanner  `xml:"glissando"`
	Slides        []Spanner  `xml:"slide"`
	Ornaments     []Group    `xml:"ornaments"`
	Technical     []Group    `xml:"technical"`
	Articulations []Group    `xml:"articulations"`
	Dynamics      []Group    `xml:"dynamics"`
	Fermatas      []struct{} `xml:"fermata"`
	Arpeggiate    *struct{}  `xml:"arpeggiate"`
	NonArpeggiate *struct{}  `xml:"non-arpeggiate"`
}

type Direction struct {
	Types []DirectionType `xml:"direction-type"`
	Staff int             `xml:"staff"`
	Sound *Sound          `xml:"sound"`
}

type DirectionType struct {
	Rehearsals            []string               `xml:"rehearsal"`
	Segnos                []struct{}             `xml:"segno"`
	Codas                 []struct{}             `xml:"coda"`
	Wedge                 *Spanner               `xml:"wedge"`
	Dynamics              []Group                `xml:"dynamics"`
	Pedal                 *Spanner               `xml:"pedal"`
	OctaveShift           *OctaveShift           `xml:"octave-shift"`
	Metronome             *Metronome             `xml:"metronome"`
	AccordionRegistration *AccordionRegistration `xml:"accordion-registration"`
	StringMute            *Typed                 `xml:"string-mute"`
	Words                 []string               `xml:"words"`
}

type OctaveShift struct {
	Type   string `xml:"type,attr"`
	Number int    `xml:"number,attr"`
	Size   int    `xml:"size,attr"`
}

type Metronome struct {
	BeatUnit     string     `xml:"beat-unit"`
	BeatUnitDots []struct{} `xml:"beat-unit-dot"`
	PerMinute    string     `xml:"per-minute"`
}

type AccordionRegistration struct {
	High   *struct{} `xml:"accordion-high"`
	Middle int       `xml:"accordion-middle"`
	Low    *struct{} `xml:"accordion-low"`
}

type Sound struct {
	Tempo string `xml:"tempo,attr"`
}

type Barline struct {
	Location  string    `xml:"location,attr"`
	Segno     string    `xml:"segno,attr"`
	Coda      string    `xml:"coda,attr"`
	Ending    *Ending   `xml:"ending"`
	Repeat    *Repeat   `xml:"repeat"`
	SegnoSign *struct{} `xml:"segno"`
	CodaSign  *struct{} `xml:"coda"`
}

type Ending struct {
	Number string `xml:"number,attr"`
	Type   string `xml:"type,attr"`
}

type Repeat struct {
	Direction string `xml:"direction,attr"`
	Times     string `xml:"times,attr"`
}
