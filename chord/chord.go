// Package chord groups the notes sounding at one slot by voice, forming a
// single note or a chord per voice.
package chord

import (
	"github.com/jsphweid/scoretree/model"
	"github.com/jsphweid/scoretree/structure"
	"github.com/jsphweid/scoretree/timeline"
	"github.com/jsphweid/scoretree/util"
)

// DefaultVoice names notes that carry no voice.
const DefaultVoice = "-1"

// Item is what one voice plays at a slot. Exactly one of Note and Chord is
// set unless the voice only has grace notes, which precede it in Graces.
type Item struct {
	Voice        string
	Divisions    int
	Graces       []structure.Note
	Note         *structure.Note
	Chord        []structure.Note
	ChordMods    []model.ChordMod
	PhraseStarts []timeline.PhraseModMarker
	PhraseEnds   []timeline.PhraseModMarker
}

func (it *Item) addStart(m timeline.PhraseModMarker) {
	for _, existing := range it.PhraseStarts {
		if existing.Mod == m.Mod {
			return
		}
	}
	it.PhraseStarts = append(it.PhraseStarts, m)
}

type pending struct {
	note  structure.Note
	event timeline.NoteEvent
}

// Assemble builds one Item per voice from the notes of a slot and the
// chord modifications recorded at that slot.
func Assemble(notes []timeline.NoteEvent, slotMods []model.ChordMod) map[string]*Item {
	accidentals := make(map[model.Pitch]model.Accidental)
	voiceMods := make(map[string][]model.ChordMod)
	byVoice := make(map[string][]pending)
	for _, e := range notes {
		voice := e.Voice
		if voice == "" {
			voice = DefaultVoice
		}
		if e.Accidental != model.AccidentalNone {
			accidentals[e.Pitch] = e.Accidental
		}
		n := structure.NewNote(e.Pitch, e.Duration, e.Accidental)
		for _, mod := range e.Modifications {
			if cm, ok := model.ChordModFromNoteMod(mod); ok {
				voiceMods[voice] = appendMod(voiceMods[voice], cm)
			} else {
				n.AddModification(mod)
			}
		}
		if e.Arpeggiate {
			voiceMods[voice] = appendMod(voiceMods[voice], model.NewChordMod(model.ChordArpeggiate))
		} else if e.NonArpeggiate {
			voiceMods[voice] = appendMod(voiceMods[voice], model.NewChordMod(model.ChordNonArpeggiate))
		}
		byVoice[voice] = append(byVoice[voice], pending{note: n, event: e})
	}

	res := make(map[string]*Item, len(byVoice))
	for voice, group := range byVoice {
		it := &Item{Voice: voice}
		var sounding []structure.Note
		for _, p := range group {
			if p.note.Accidental == model.AccidentalNone {
				if acc, ok := accidentals[p.note.Pitch]; ok {
					p.note.Accidental = acc
				}
			}
			for _, m := range p.event.PhraseStarts {
				it.addStart(m)
			}
			it.PhraseEnds = append(it.PhraseEnds, p.event.PhraseEnds...)
			if p.event.IsGrace() {
				it.Graces = append(it.Graces, p.note)
				continue
			}
			sounding = append(sounding, p.note)
			if len(sounding) == 1 || p.event.Divisions < it.Divisions {
				it.Divisions = p.event.Divisions
			}
		}
		mods := append(append([]model.ChordMod(nil), voiceMods[voice]...), slotMods...)
		switch len(sounding) {
		case 0:
			for i := range it.Graces {
				applyChordMods(&it.Graces[i], mods)
			}
		case 1:
			n := sounding[0]
			applyChordMods(&n, mods)
			it.Note = &n
		default:
			it.Chord = sounding
			for _, m := range mods {
				it.ChordMods = appendMod(it.ChordMods, m)
			}
		}
		res[voice] = it
	}
	return res
}

// Voices lists the voices of items in order.
func Voices(items map[string]*Item) []string {
	return util.SortedKeys(items)
}

func applyChordMods(n *structure.Note, mods []model.ChordMod) {
	for _, m := range mods {
		if nm, ok := model.NoteModFromChordMod(m); ok {
			n.AddModification(nm)
		}
	}
}

func appendMod(mods []model.ChordMod, mod model.ChordMod) []model.ChordMod {
	for _, existing := range mods {
		if existing == mod {
			return mods
		}
	}
	return append(mods, mod)
}
