package convert

import (
	"github.com/jsphweid/scoretree/chord"
	"github.com/jsphweid/scoretree/model"
	"github.com/jsphweid/scoretree/scoreerr"
	"github.com/jsphweid/scoretree/section"
	"github.com/jsphweid/scoretree/structure"
	"github.com/jsphweid/scoretree/timeline"
)

// staffPhrase is an open staff-wide phrase. depth counts how many markers
// of its modifications have been opened and not yet closed.
type staffPhrase struct {
	id    structure.NodeID
	mods  []model.PhraseMod
	depth int
}

func (sp *staffPhrase) has(mod model.PhraseMod) bool {
	for _, m := range sp.mods {
		if m == mod {
			return true
		}
	}
	return false
}

type voiceState struct {
	parent   structure.NodeID
	root     structure.NodeID
	phrases  []structure.NodeID
	expected int
}

func (v *voiceState) current() structure.NodeID {
	return v.phrases[len(v.phrases)-1]
}

// staffBuilder appends the slots of one staff to the part tree in order.
type staffBuilder struct {
	part     *structure.Part
	name     string
	dpq      int
	sections section.Structure

	staff         structure.NodeID
	staffPhrases  []*staffPhrase
	voices        map[string]*voiceState
	voicesStart   int
	multiVoice    structure.NodeID
	voicePhrases  map[model.PhraseMod][]structure.NodeID
	pendingDirs   []model.Direction
	pendingStarts []timeline.PhraseModMarker
	pendingEnds   []timeline.PhraseModMarker
}

func newStaffBuilder(p *structure.Part, name string, dpq int, sections section.Structure) *staffBuilder {
	return &staffBuilder{
		part:         p,
		name:         name,
		dpq:          dpq,
		sections:     sections,
		voices:       make(map[string]*voiceState),
		voicePhrases: make(map[model.PhraseMod][]structure.NodeID),
	}
}

func (b *staffBuilder) pendingCount() int {
	return len(b.pendingDirs) + len(b.pendingStarts) + len(b.pendingEnds)
}

// top is the innermost open staff phrase. The unmodified base phrase is
// created on first use so that directions never follow an empty phrase.
func (b *staffBuilder) top() (structure.NodeID, error) {
	if len(b.staffPhrases) == 0 {
		ph, err := b.part.AddStaffPhrase(b.staff)
		if err != nil {
			return 0, err
		}
		b.staffPhrases = []*staffPhrase{{id: ph.ID, depth: 1}}
	}
	return b.staffPhrases[len(b.staffPhrases)-1].id, nil
}

func (b *staffBuilder) closeVoices() {
	b.voices = make(map[string]*voiceState)
	b.multiVoice = 0
}

func (b *staffBuilder) resetVoicePhrases() {
	b.closeVoices()
	b.voicePhrases = make(map[model.PhraseMod][]structure.NodeID)
}

func (b *staffBuilder) visit(idx int, s *timeline.Slot) error {
	if sectionID, ok := b.sections[idx]; ok {
		if err := b.enterSection(sectionID); err != nil {
			return err
		}
	}
	if b.staff == 0 {
		return scoreerr.Internalf("staff %q of part %q has no section at slot %d", b.name, b.part.Name, idx)
	}

	items := chord.Assemble(s.Notes, s.ChordMods)
	b.fillGaps(idx, items)
	for voice, v := range b.voices {
		if v.expected < idx || (v.expected == idx && items[voice] == nil) {
			delete(b.voices, voice)
		}
	}
	sounding := false
	for _, v := range b.voices {
		sounding = sounding || v.expected > idx
	}
	for voice := range items {
		if _, ok := b.voices[voice]; !ok && !sounding {
			b.resetVoicePhrases()
			break
		}
	}

	if err := b.endStaffPhrases(s.PhraseEnds); err != nil {
		return err
	}
	if err := b.addDirections(s.Directions); err != nil {
		return err
	}
	if err := b.startStaffPhrases(s.PhraseStarts); err != nil {
		return err
	}
	for _, voice := range chord.Voices(items) {
		if err := b.addItem(idx, items[voice]); err != nil {
			return err
		}
	}
	return nil
}

// enterSection starts a fresh staff inside section. Nothing open carries
// across a section boundary.
func (b *staffBuilder) enterSection(section structure.NodeID) error {
	staff, err := b.part.AddStaff(section, b.name)
	if err != nil {
		return err
	}
	b.staff = staff.ID
	b.staffPhrases = nil
	b.resetVoicePhrases()
	b.pendingDirs, b.pendingStarts, b.pendingEnds = nil, nil, nil
	return nil
}

// fillGaps gives every voice that runs out at idx a rest lasting until the
// latest voice still sounding is due.
func (b *staffBuilder) fillGaps(idx int, items map[string]*chord.Item) {
	latest := idx
	for _, v := range b.voices {
		latest = max(latest, v.expected)
	}
	if latest == idx {
		return
	}
	for voice, v := range b.voices {
		if v.expected != idx || items[voice] != nil {
			continue
		}
		rest := structure.NewRest(model.DurationFromDivisions(latest-idx, b.dpq))
		items[voice] = &chord.Item{Voice: voice, Divisions: latest - idx, Note: &rest}
	}
}

func (b *staffBuilder) endStaffPhrases(ends []timeline.PhraseModMarker) error {
	if len(b.voicePhrases) > 0 {
		b.pendingEnds = append(b.pendingEnds, ends...)
		return nil
	}
	ends = append(b.pendingEnds, ends...)
	b.pendingEnds = nil
	for _, end := range ends {
		pos := -1
		for i := len(b.staffPhrases) - 1; i > 0; i-- {
			if b.staffPhrases[i].has(end.Mod) {
				pos = i
				break
			}
		}
		if pos < 0 {
			continue
		}
		sp := b.staffPhrases[pos]
		if sp.depth--; sp.depth > 0 {
			continue
		}
		b.closeVoices()
		reopen := b.staffPhrases[pos+1:]
		b.staffPhrases = b.staffPhrases[:pos]
		for _, inner := range reopen {
			parent, err := b.top()
			if err != nil {
				return err
			}
			ph, err := b.part.AddPhrase(parent, inner.mods...)
			if err != nil {
				return err
			}
			b.staffPhrases = append(b.staffPhrases, &staffPhrase{id: ph.ID, mods: inner.mods, depth: 1})
		}
	}
	return nil
}

func (b *staffBuilder) addDirections(dirs []model.Direction) error {
	if len(b.voicePhrases) > 0 {
		b.pendingDirs = append(b.pendingDirs, dirs...)
		return nil
	}
	dirs = append(b.pendingDirs, dirs...)
	b.pendingDirs = nil
	if len(dirs) == 0 {
		return nil
	}
	b.closeVoices()
	for _, d := range dirs {
		if _, err := b.part.AddDirection(b.staff, d); err != nil {
			return err
		}
	}
	b.staffPhrases = nil
	return nil
}

func (b *staffBuilder) startStaffPhrases(starts []timeline.PhraseModMarker) error {
	starts = append(b.pendingStarts, starts...)
	b.pendingStarts = nil
	for i := 0; i < len(starts); i++ {
		if sp := b.openStaffPhrase(starts[i].Mod); sp != nil {
			sp.depth++
			continue
		}
		if len(b.voicePhrases) > 0 {
			b.pendingStarts = append(b.pendingStarts, starts[i])
			continue
		}
		mods := []model.PhraseMod{starts[i].Mod}
		for starts[i].CombineWithNext && i+1 < len(starts) {
			i++
			mods = append(mods, starts[i].Mod)
		}
		b.closeVoices()
		parent, err := b.top()
		if err != nil {
			return err
		}
		ph, err := b.part.AddPhrase(parent, mods...)
		if err != nil {
			return err
		}
		b.staffPhrases = append(b.staffPhrases, &staffPhrase{id: ph.ID, mods: mods, depth: 1})
	}
	return nil
}

func (b *staffBuilder) openStaffPhrase(mod model.PhraseMod) *staffPhrase {
	for i := len(b.staffPhrases) - 1; i > 0; i-- {
		if b.staffPhrases[i].has(mod) {
			return b.staffPhrases[i]
		}
	}
	return nil
}

func (b *staffBuilder) voice(idx int, it *chord.Item) (*voiceState, error) {
	if v, ok := b.voices[it.Voice]; ok {
		v.expected = idx + it.Divisions
		return v, nil
	}
	parent, err := b.top()
	if err != nil {
		return nil, err
	}
	var ph *structure.Phrase
	switch {
	case len(b.voices) == 0:
		b.voicesStart = idx
		ph, err = b.part.AddPhrase(parent)
	case b.multiVoice == 0:
		var first *voiceState
		for _, v := range b.voices {
			first = v
		}
		mv, wrapErr := b.part.WrapInMultiVoice(first.parent, first.root)
		if wrapErr != nil {
			return nil, wrapErr
		}
		b.multiVoice = mv.ID
		parent = first.parent
		ph, err = b.part.AddVoice(mv.ID)
	default:
		ph, err = b.part.AddVoice(b.multiVoice)
	}
	if err != nil {
		return nil, err
	}
	// A voice joining while others sound starts with a rest back to where
	// they began.
	if gap := idx - b.voicesStart; len(b.voices) > 0 && gap > 0 {
		if _, err := b.part.AddNote(ph.ID, structure.NewRest(model.DurationFromDivisions(gap, b.dpq))); err != nil {
			return nil, err
		}
	}
	v := &voiceState{parent: parent, root: ph.ID, phrases: []structure.NodeID{ph.ID}, expected: idx + it.Divisions}
	b.voices[it.Voice] = v
	return v, nil
}

// addItem appends one voice's notes. Voice-specific phrases only open on
// items that close none, so a span never starts where another one stops.
func (b *staffBuilder) addItem(idx int, it *chord.Item) error {
	v, err := b.voice(idx, it)
	if err != nil {
		return err
	}
	if len(it.PhraseEnds) == 0 {
		for _, start := range it.PhraseStarts {
			ph, err := b.part.AddPhrase(v.current(), start.Mod)
			if err != nil {
				return err
			}
			v.phrases = append(v.phrases, ph.ID)
			b.voicePhrases[start.Mod] = append(b.voicePhrases[start.Mod], ph.ID)
		}
	}

	target := v.current()
	for _, g := range it.Graces {
		if _, err := b.part.AddNote(target, g); err != nil {
			return err
		}
	}
	switch {
	case it.Note != nil:
		if _, err := b.part.AddNote(target, *it.Note); err != nil {
			return err
		}
	case len(it.Chord) > 0:
		if _, err := b.part.AddChord(target, it.Chord, it.ChordMods); err != nil {
			return err
		}
	}

	for _, end := range it.PhraseEnds {
		open := b.voicePhrases[end.Mod]
		if len(open) == 0 || len(v.phrases) < 2 {
			continue
		}
		v.phrases = v.phrases[:len(v.phrases)-1]
		if open = open[:len(open)-1]; len(open) == 0 {
			delete(b.voicePhrases, end.Mod)
		} else {
			b.voicePhrases[end.Mod] = open
		}
	}
	return nil
}
