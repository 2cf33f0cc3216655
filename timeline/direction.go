package timeline

import (
	"strconv"
	"strings"

	"github.com/jsphweid/scoretree/model"
	"github.com/jsphweid/scoretree/musicxml"
	"github.com/jsphweid/scoretree/scoreerr"
)

// parseDirection records one <direction>. Staff-scoped content goes to the
// direction's staff; section and tempo markers go to every staff.
func (b *builder) parseDirection(d musicxml.Direction) (int, error) {
	staff := staffName(d.Staff)
	s, err := b.slot(staff, b.cursor)
	if err != nil {
		return 0, err
	}
	explicitTempo := false
	for _, dt := range d.Types {
		for _, r := range dt.Rehearsals {
			b.sectionStart(strings.TrimSpace(r), "Rehearsal")
		}
		if len(dt.Segnos) > 0 {
			b.sectionStart("Segno", "Segno")
		}
		if len(dt.Codas) > 0 {
			b.sectionStart("Coda", "Coda")
		}
		if dt.Wedge != nil {
			b.parseWedge(s, *dt.Wedge)
		}
		for _, group := range dt.Dynamics {
			if len(group.Items) == 0 {
				continue
			}
			name := group.Items[0].Name()
			if dyn, ok := model.ParseDynamic(name); ok {
				s.Directions = append(s.Directions, model.DynamicChange(dyn))
			} else if isAccentDynamic(name) {
				s.ChordMods = append(s.ChordMods, model.NewChordMod(model.ChordAccent))
			}
		}
		if dt.Pedal != nil {
			parsePedal(s, *dt.Pedal)
		}
		if dt.OctaveShift != nil {
			b.parseOctaveShift(s, *dt.OctaveShift)
		}
		if dt.Metronome != nil {
			tempo, ok, err := ParseMetronome(*dt.Metronome)
			if err != nil {
				return 0, err
			}
			if ok {
				explicitTempo = true
				b.eachSlot(b.cursor, func(slot *Slot) { slot.TempoExplicit = &tempo })
			}
		}
		if ar := dt.AccordionRegistration; ar != nil {
			s.Directions = append(s.Directions, model.AccordionRegistration(ar.High != nil, uint8(ar.Middle), ar.Low != nil))
		}
		if dt.StringMute != nil {
			s.Directions = append(s.Directions, model.StringMute(dt.StringMute.Type == "on"))
		}
		for _, w := range dt.Words {
			if marking, ok := model.ParseTempoMarking(w); ok {
				suggestion := model.TempoSuggestion{Marking: marking}
				b.eachSlot(b.cursor, func(slot *Slot) { slot.TempoImplicit = &suggestion })
			}
		}
	}
	if d.Sound != nil && !explicitTempo {
		tempo, ok, err := ParseSoundTempo(*d.Sound)
		if err != nil {
			return 0, err
		}
		if ok {
			b.eachSlot(b.cursor, func(slot *Slot) { slot.TempoExplicit = &tempo })
		}
	}
	return 0, nil
}

// parseSound handles a measure-level <sound> carrying a tempo.
func (b *builder) parseSound(sound musicxml.Sound) (int, error) {
	tempo, ok, err := ParseSoundTempo(sound)
	if err != nil || !ok {
		return 0, err
	}
	b.eachSlot(b.cursor, func(slot *Slot) { slot.TempoExplicit = &tempo })
	return 0, nil
}

func (b *builder) sectionStart(name, fallback string) {
	if name == "" {
		name = fallback
	}
	b.eachSlot(b.cursor, func(s *Slot) { s.SectionStart = name })
}

// parseWedge pairs hairpins through a per-number open stack so the stop
// closes the kind that was opened last under that number.
func (b *builder) parseWedge(s *Slot, w musicxml.Spanner) {
	var kind model.PhraseModKind
	switch w.Type {
	case "continue":
		return
	case "diminuendo":
		kind = model.PhraseDecrescendo
		b.openWedges[w.Number] = append(b.openWedges[w.Number], kind)
	case "stop":
		kind = model.PhraseCrescendo
		if open := b.openWedges[w.Number]; len(open) > 0 {
			kind = open[len(open)-1]
			if len(open) == 1 {
				delete(b.openWedges, w.Number)
			} else {
				b.openWedges[w.Number] = open[:len(open)-1]
			}
		}
		s.PhraseEnds = append(s.PhraseEnds, PhraseModMarker{Mod: model.NewPhraseMod(kind), Number: w.Number})
		return
	default:
		kind = model.PhraseCrescendo
		b.openWedges[w.Number] = append(b.openWedges[w.Number], kind)
	}
	s.PhraseStarts = append(s.PhraseStarts, PhraseModMarker{Mod: model.NewPhraseMod(kind), Number: w.Number})
}

func parsePedal(s *Slot, p musicxml.Spanner) {
	sustain := PhraseModMarker{Mod: model.Pedal(model.Sustain), Number: p.Number}
	switch p.Type {
	case "start":
		s.PhraseStarts = append(s.PhraseStarts, sustain)
	case "stop":
		s.PhraseEnds = append(s.PhraseEnds, sustain)
	case "sostenuto":
		s.PhraseStarts = append(s.PhraseStarts, PhraseModMarker{Mod: model.Pedal(model.Sostenuto), Number: p.Number})
	case "change":
		s.PhraseEnds = append(s.PhraseEnds, sustain)
		s.PhraseStarts = append(s.PhraseStarts, sustain)
	}
}

// parseOctaveShift maps size 15 and 22 to two and three octaves. Notes under
// an "up" shift sound lower than written. A stop closes the shift opened
// under the same number.
func (b *builder) parseOctaveShift(s *Slot, o musicxml.OctaveShift) {
	switch o.Type {
	case "continue":
		return
	case "stop":
		mod, ok := b.openShifts[o.Number]
		if !ok {
			return
		}
		delete(b.openShifts, o.Number)
		s.PhraseEnds = append(s.PhraseEnds, PhraseModMarker{Mod: mod, Number: o.Number})
		return
	}
	octaves := int8(1)
	switch o.Size {
	case 15:
		octaves = 2
	case 22:
		octaves = 3
	}
	if o.Type == "up" {
		octaves = -octaves
	}
	mod := model.OctaveShift(octaves)
	b.openShifts[o.Number] = mod
	s.PhraseStarts = append(s.PhraseStarts, PhraseModMarker{Mod: mod, Number: o.Number})
}

func isAccentDynamic(name string) bool {
	switch name {
	case "n", "other-dynamics", "":
		return false
	}
	return true
}

// ParseMetronome reads a beat-unit = per-minute mark. Marks without a
// numeric rate report ok = false.
func ParseMetronome(m musicxml.Metronome) (model.Tempo, bool, error) {
	if m.BeatUnit == "" || strings.TrimSpace(m.PerMinute) == "" {
		return model.Tempo{}, false, nil
	}
	unit, ok := model.ParseDurationType(strings.TrimSpace(m.BeatUnit))
	if !ok {
		return model.Tempo{}, false, scoreerr.Malformedf("invalid beat unit %q", m.BeatUnit)
	}
	bpm, err := strconv.ParseFloat(strings.TrimSpace(m.PerMinute), 64)
	if err != nil || bpm <= 0 || bpm > 65535 {
		return model.Tempo{}, false, scoreerr.Malformedf("invalid metronome rate %q", m.PerMinute)
	}
	return model.NewTempo(model.NewDuration(unit, uint8(len(m.BeatUnitDots))), uint16(bpm+0.5)), true, nil
}

// ParseSoundTempo reads <sound tempo>, always in quarter notes per minute.
func ParseSoundTempo(s musicxml.Sound) (model.Tempo, bool, error) {
	if strings.TrimSpace(s.Tempo) == "" {
		return model.Tempo{}, false, nil
	}
	bpm, err := strconv.ParseFloat(strings.TrimSpace(s.Tempo), 64)
	if err != nil || bpm > 65535 {
		return model.Tempo{}, false, scoreerr.Malformedf("invalid sound tempo %q", s.Tempo)
	}
	if bpm < 1 {
		return model.Tempo{}, false, nil
	}
	return model.NewTempo(model.NewDuration(model.Quarter, 0), uint16(bpm)), true, nil
}
