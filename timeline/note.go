package timeline

import (
	"strconv"
	"strings"

	"github.com/jsphweid/scoretree/model"
	"github.com/jsphweid/scoretree/musicxml"
	"github.com/jsphweid/scoretree/scoreerr"
)

// parseNote records a note at the cursor, or at the slot of the previous
// note when it sounds as part of a chord. Only non-chord, non-grace notes
// move the cursor.
func (b *builder) parseNote(n musicxml.Note) (int, error) {
	idx := b.cursor
	if n.Chord != nil {
		idx = b.lastNoteCursor
	} else {
		b.lastNoteCursor = b.cursor
	}
	staff := staffName(n.Staff)
	s, err := b.slot(staff, idx)
	if err != nil {
		return 0, err
	}

	event := NoteEvent{
		Pitch:      model.RestPitch(),
		Divisions:  n.Duration,
		Voice:      strings.TrimSpace(n.Voice),
		Accidental: model.ParseAccidental(strings.TrimSpace(n.Accidental)),
	}
	if n.Pitch != nil && n.Cue == nil {
		name, ok := model.ParsePitchStep(strings.TrimSpace(n.Pitch.Step))
		if !ok || n.Pitch.Octave < 0 || n.Pitch.Octave > 9 {
			return 0, scoreerr.Malformedf("invalid pitch %s%d", n.Pitch.Step, n.Pitch.Octave)
		}
		event.Pitch = model.Pitch{Name: name, Octave: uint8(n.Pitch.Octave)}
	}
	if g := n.Grace; g != nil {
		event.Divisions = 0
		grace := model.NewNoteMod(model.NoteGrace)
		grace.Acciaccatura = g.Slash == "yes" || g.StealTimePrevious != ""
		event.Modifications = append(event.Modifications, grace)
	}
	if t, ok := model.ParseDurationType(strings.TrimSpace(n.Type)); ok {
		event.Duration = model.NewDuration(t, uint8(len(n.Dots)))
	} else {
		event.Duration = model.DurationFromDivisions(event.Divisions, b.timeline.DivisionsPerQuarter)
	}
	if n.Pizzicato == "yes" {
		event.addMod(model.NewNoteMod(model.NotePizzicato))
	}
	for _, tie := range n.Ties {
		if tie.Type == "start" {
			event.addMod(model.NewNoteMod(model.NoteTie))
		}
	}
	for _, notations := range n.Notations {
		if err := b.parseNotations(&event, s, n, idx, notations); err != nil {
			return 0, err
		}
	}
	s.Notes = append(s.Notes, event)

	if n.Chord != nil || event.Divisions == 0 {
		return 0, nil
	}
	return n.Duration, nil
}

func (e *NoteEvent) addMod(mod model.NoteMod) {
	for _, existing := range e.Modifications {
		if existing == mod {
			return
		}
	}
	e.Modifications = append(e.Modifications, mod)
}

func (e *NoteEvent) marker(start bool, mod model.PhraseMod, number int) {
	m := PhraseModMarker{Mod: mod, Number: number, Voice: e.Voice}
	if start {
		e.PhraseStarts = append(e.PhraseStarts, m)
	} else {
		e.PhraseEnds = append(e.PhraseEnds, m)
	}
}

func (b *builder) parseNotations(e *NoteEvent, s *Slot, n musicxml.Note, idx int, nt musicxml.Notations) error {
	for _, tied := range nt.Tied {
		if tied.Type == "start" || tied.Type == "continue" {
			e.addMod(model.NewNoteMod(model.NoteTie))
		}
	}
	for _, slur := range nt.Slurs {
		legato := PhraseModMarker{Mod: model.NewPhraseMod(model.PhraseLegato), Number: slur.Number}
		switch slur.Type {
		case "start":
			s.PhraseStarts = append(s.PhraseStarts, legato)
		case "stop":
			end, err := b.slot(staffName(n.Staff), idx+e.Divisions)
			if err != nil {
				return err
			}
			end.PhraseEnds = append(end.PhraseEnds, legato)
		}
	}
	for _, tuplet := range nt.Tuplets {
		if tuplet.Type != "start" && tuplet.Type != "stop" {
			continue
		}
		tm := n.TimeModification
		if tm == nil || tm.ActualNotes <= 0 || tm.NormalNotes <= 0 {
			return scoreerr.Malformedf("tuplet without time modification")
		}
		e.marker(tuplet.Type == "start", model.Tuplet(uint8(tm.ActualNotes), uint8(tm.NormalNotes)), tuplet.Number)
	}
	for _, g := range nt.Glissandos {
		if g.Type == "start" || g.Type == "stop" {
			e.marker(g.Type == "start", model.NewPhraseMod(model.PhraseGlissando), g.Number)
		}
	}
	for _, slide := range nt.Slides {
		if slide.Type == "start" || slide.Type == "stop" {
			e.marker(slide.Type == "start", model.NewPhraseMod(model.PhrasePortamento), slide.Number)
		}
	}
	for _, group := range nt.Ornaments {
		for _, el := range group.Items {
			if err := parseOrnament(e, el); err != nil {
				return err
			}
		}
	}
	for _, group := range nt.Technical {
		for _, el := range group.Items {
			parseTechnical(e, el)
		}
	}
	for _, group := range nt.Articulations {
		for _, el := range group.Items {
			switch el.Name() {
			case "breath-mark":
				s.Directions = append(s.Directions, model.Direction{Kind: model.DirectionBreathMark})
			case "caesura":
				s.Directions = append(s.Directions, model.Direction{Kind: model.DirectionCaesura})
			default:
				if kind, ok := articulations[el.Name()]; ok {
					e.addMod(model.NewNoteMod(kind))
				}
			}
		}
	}
	for _, group := range nt.Dynamics {
		for _, el := range group.Items {
			if dyn, ok := model.ParseDynamic(el.Name()); ok {
				mod := model.NewNoteMod(model.NoteDynamic)
				mod.Dynamic = dyn
				e.addMod(mod)
			} else if isAccentDynamic(el.Name()) {
				e.addMod(model.NewNoteMod(model.NoteAccent))
			}
		}
	}
	if len(nt.Fermatas) > 0 {
		e.addMod(model.NewNoteMod(model.NoteFermata))
	}
	if nt.Arpeggiate != nil {
		e.Arpeggiate = true
	}
	if nt.NonArpeggiate != nil {
		e.NonArpeggiate = true
	}
	return nil
}

var articulations = map[string]model.NoteModKind{
	"accent":          model.NoteAccent,
	"strong-accent":   model.NoteMarcato,
	"staccato":        model.NoteStaccato,
	"tenuto":          model.NoteTenuto,
	"detached-legato": model.NoteDetachedLegato,
	"staccatissimo":   model.NoteStaccatissimo,
	"spiccato":        model.NoteSpiccato,
	"scoop":           model.NoteScoop,
	"plop":            model.NotePlop,
	"doit":            model.NoteDoit,
	"falloff":         model.NoteFalloff,
	"stress":          model.NoteStress,
	"unstress":        model.NoteUnstress,
	"soft-accent":     model.NoteSoftAccent,
}

var techniques = map[string]model.NoteModKind{
	"up-bow":         model.NoteUpBow,
	"down-bow":       model.NoteDownBow,
	"open-string":    model.NoteOpen,
	"open":           model.NoteOpen,
	"thumb-position": model.NoteThumbPosition,
	"double-tongue":  model.NoteDoubleTongue,
	"triple-tongue":  model.NoteTripleTongue,
	"stopped":        model.NoteStopped,
	"snap-pizzicato": model.NotePizzicato,
	"tap":            model.NoteTap,
	"heel":           model.NoteHeel,
	"toe":            model.NoteToe,
	"fingernails":    model.NoteFingernails,
	"brass-bend":     model.NoteBrassBend,
	"flip":           model.NoteFlip,
	"smear":          model.NoteSmear,
	"half-muted":     model.NoteHalfMuted,
	"golpe":          model.NoteGolpe,
}

func parseTechnical(e *NoteEvent, el musicxml.Element) {
	switch el.Name() {
	case "hole":
		mod := model.NewNoteMod(model.NoteHole)
		if closed, ok := el.Child("hole-closed"); ok {
			mod.Open, mod.Half = closedState(closed.Text())
		}
		e.addMod(mod)
	case "harmon-mute":
		mod := model.NewNoteMod(model.NoteHarmonMute)
		if closed, ok := el.Child("harmon-closed"); ok {
			mod.Open, mod.Half = closedState(closed.Text())
		}
		e.addMod(mod)
	case "handbell":
		if technique, ok := model.ParseHandbell(el.Text()); ok {
			mod := model.NewNoteMod(model.NoteHandbell)
			mod.Handbell = technique
			e.addMod(mod)
		}
	default:
		if kind, ok := techniques[el.Name()]; ok {
			e.addMod(model.NewNoteMod(kind))
		}
	}
}

// closedState reads a yes/no/half closed value as (open, half).
func closedState(value string) (bool, bool) {
	switch value {
	case "no":
		return true, false
	case "half":
		return false, true
	}
	return false, false
}

func parseOrnament(e *NoteEvent, el musicxml.Element) error {
	mod := model.NoteMod{}
	switch el.Name() {
	case "tremolo":
		return parseTremolo(e, el)
	case "trill-mark":
		mod = model.NoteMod{Kind: model.NoteTrill, Upper: true}
	case "wavy-line":
		if el.Attr("type") != "start" {
			return nil
		}
		mod = model.NoteMod{Kind: model.NoteTrill, Upper: true}
	case "turn":
		mod = model.NoteMod{Kind: model.NoteTurn, Upper: true}
	case "inverted-turn":
		mod = model.NoteMod{Kind: model.NoteTurn}
	case "delayed-turn":
		mod = model.NoteMod{Kind: model.NoteTurn, Upper: true, Delayed: true}
	case "delayed-inverted-turn":
		mod = model.NoteMod{Kind: model.NoteTurn, Delayed: true}
	case "vertical-turn":
		mod = model.NoteMod{Kind: model.NoteTurn, Upper: true, Vertical: true}
	case "inverted-vertical-turn":
		mod = model.NoteMod{Kind: model.NoteTurn, Vertical: true}
	case "shake":
		mod = model.NewNoteMod(model.NoteShake)
	case "mordent":
		mod = model.NewNoteMod(model.NoteMordent)
	case "inverted-mordent":
		mod = model.NoteMod{Kind: model.NoteMordent, Upper: true}
	case "schleifer":
		mod = model.NewNoteMod(model.NoteSchleifer)
	case "haydn":
		mod = model.NewNoteMod(model.NoteHaydn)
	default:
		return nil
	}
	e.addMod(mod)
	return nil
}

// parseTremolo turns single-note tremolos into a note modification and
// two-note tremolos into a voice phrase. The element text is the number of
// beams.
func parseTremolo(e *NoteEvent, el musicxml.Element) error {
	speed := uint8(3)
	if text := el.Text(); text != "" {
		n, err := strconv.Atoi(text)
		if err != nil || n < 0 || n > 8 {
			return scoreerr.Malformedf("invalid tremolo marks %q", text)
		}
		speed = uint8(n)
	}
	switch el.Attr("type") {
	case "start", "stop":
		e.marker(el.Attr("type") == "start", model.PhraseTremoloMod(speed), 0)
	case "", "single":
		mod := model.NewNoteMod(model.NoteTremolo)
		mod.Speed = speed
		e.addMod(mod)
	}
	return nil
}
