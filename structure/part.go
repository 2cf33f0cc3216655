package structure

import (
	"github.com/jsphweid/scoretree/model"
	"github.com/jsphweid/scoretree/scoreerr"
)

const TopLevelSectionName = "Top-Level Section"

// Part owns every node of one instrument's tree. Containers refer to their
// children by NodeID; the nodes themselves live in the maps below.
type Part struct {
	ID   NodeID
	Name string
	Root NodeID

	ids         IDGenerator
	kinds       map[NodeID]ItemKind
	sections    map[NodeID]*Section
	staves      map[NodeID]*Staff
	directions  map[NodeID]*StaffDirection
	phrases     map[NodeID]*Phrase
	multiVoices map[NodeID]*MultiVoice
	chords      map[NodeID]*Chord
	notes       map[NodeID]*Note
}

func newPart(id NodeID, name string, ids IDGenerator) *Part {
	return &Part{
		ID:          id,
		Name:        name,
		ids:         ids,
		kinds:       make(map[NodeID]ItemKind),
		sections:    make(map[NodeID]*Section),
		staves:      make(map[NodeID]*Staff),
		directions:  make(map[NodeID]*StaffDirection),
		phrases:     make(map[NodeID]*Phrase),
		multiVoices: make(map[NodeID]*MultiVoice),
		chords:      make(map[NodeID]*Chord),
		notes:       make(map[NodeID]*Note),
	}
}

func (p *Part) register(kind ItemKind) NodeID {
	id := p.ids.Next()
	p.kinds[id] = kind
	return id
}

func (p *Part) Kind(id NodeID) (ItemKind, bool) {
	kind, ok := p.kinds[id]
	return kind, ok
}

func (p *Part) Section(id NodeID) (*Section, bool) {
	s, ok := p.sections[id]
	return s, ok
}

func (p *Part) RootSection() *Section {
	return p.sections[p.Root]
}

func (p *Part) Staff(id NodeID) (*Staff, bool) {
	s, ok := p.staves[id]
	return s, ok
}

func (p *Part) Direction(id NodeID) (*StaffDirection, bool) {
	d, ok := p.directions[id]
	return d, ok
}

func (p *Part) Phrase(id NodeID) (*Phrase, bool) {
	ph, ok := p.phrases[id]
	return ph, ok
}

func (p *Part) MultiVoice(id NodeID) (*MultiVoice, bool) {
	mv, ok := p.multiVoices[id]
	return mv, ok
}

func (p *Part) Chord(id NodeID) (*Chord, bool) {
	c, ok := p.chords[id]
	return c, ok
}

func (p *Part) Note(id NodeID) (*Note, bool) {
	n, ok := p.notes[id]
	return n, ok
}

func (p *Part) sectionOrErr(id NodeID) (*Section, error) {
	s, ok := p.sections[id]
	if !ok {
		return nil, scoreerr.Internalf("section %v not found in part %q", id, p.Name)
	}
	return s, nil
}

func (p *Part) staffOrErr(id NodeID) (*Staff, error) {
	s, ok := p.staves[id]
	if !ok {
		return nil, scoreerr.Internalf("staff %v not found in part %q", id, p.Name)
	}
	return s, nil
}

func (p *Part) phraseOrErr(id NodeID) (*Phrase, error) {
	ph, ok := p.phrases[id]
	if !ok {
		return nil, scoreerr.Internalf("phrase %v not found in part %q", id, p.Name)
	}
	return ph, nil
}

func (p *Part) AddSection(parent NodeID, name string, mods ...model.SectionMod) (*Section, error) {
	s, err := p.sectionOrErr(parent)
	if err != nil {
		return nil, err
	}
	child := &Section{ID: p.register(ItemSection), Name: name, Modifications: mods}
	p.sections[child.ID] = child
	s.Content = append(s.Content, Item{Kind: ItemSection, ID: child.ID})
	return child, nil
}

func (p *Part) AddStaff(section NodeID, name string) (*Staff, error) {
	s, err := p.sectionOrErr(section)
	if err != nil {
		return nil, err
	}
	staff := &Staff{ID: p.register(ItemStaff), Name: name}
	p.staves[staff.ID] = staff
	s.Content = append(s.Content, Item{Kind: ItemStaff, ID: staff.ID})
	return staff, nil
}

// StaffByName finds the first staff called name directly inside section.
func (p *Part) StaffByName(section NodeID, name string) (*Staff, bool) {
	s, ok := p.sections[section]
	if !ok {
		return nil, false
	}
	for _, item := range s.Content {
		if item.Kind == ItemStaff && p.staves[item.ID].Name == name {
			return p.staves[item.ID], true
		}
	}
	return nil, false
}

func (p *Part) AddDirection(staff NodeID, d model.Direction) (*StaffDirection, error) {
	s, err := p.staffOrErr(staff)
	if err != nil {
		return nil, err
	}
	dir := &StaffDirection{ID: p.register(ItemDirection), Direction: d}
	p.directions[dir.ID] = dir
	s.Content = append(s.Content, Item{Kind: ItemDirection, ID: dir.ID})
	return dir, nil
}

// AddStaffPhrase appends an unmodified phrase to a staff.
func (p *Part) AddStaffPhrase(staff NodeID) (*Phrase, error) {
	s, err := p.staffOrErr(staff)
	if err != nil {
		return nil, err
	}
	ph := p.newPhrase(nil)
	s.Content = append(s.Content, Item{Kind: ItemPhrase, ID: ph.ID})
	return ph, nil
}

func (p *Part) newPhrase(mods []model.PhraseMod) *Phrase {
	ph := &Phrase{ID: p.register(ItemPhrase), Modifications: mods}
	p.phrases[ph.ID] = ph
	return ph
}

// AddPhrase nests a new phrase carrying mods inside parent.
func (p *Part) AddPhrase(parent NodeID, mods ...model.PhraseMod) (*Phrase, error) {
	outer, err := p.phraseOrErr(parent)
	if err != nil {
		return nil, err
	}
	ph := p.newPhrase(mods)
	outer.Content = append(outer.Content, Item{Kind: ItemPhrase, ID: ph.ID})
	return ph, nil
}

func (p *Part) AddMultiVoice(parent NodeID) (*MultiVoice, error) {
	outer, err := p.phraseOrErr(parent)
	if err != nil {
		return nil, err
	}
	mv := &MultiVoice{ID: p.register(ItemMultiVoice)}
	p.multiVoices[mv.ID] = mv
	outer.Content = append(outer.Content, Item{Kind: ItemMultiVoice, ID: mv.ID})
	return mv, nil
}

// AddVoice appends a new voice phrase to a multivoice.
func (p *Part) AddVoice(multiVoice NodeID) (*Phrase, error) {
	mv, ok := p.multiVoices[multiVoice]
	if !ok {
		return nil, scoreerr.Internalf("multivoice %v not found in part %q", multiVoice, p.Name)
	}
	ph := p.newPhrase(nil)
	mv.Content = append(mv.Content, ph.ID)
	return ph, nil
}

// WrapInMultiVoice replaces child inside parent with a new multivoice whose
// first voice is child.
func (p *Part) WrapInMultiVoice(parent, child NodeID) (*MultiVoice, error) {
	outer, err := p.phraseOrErr(parent)
	if err != nil {
		return nil, err
	}
	for i, item := range outer.Content {
		if item.Kind == ItemPhrase && item.ID == child {
			mv := &MultiVoice{ID: p.register(ItemMultiVoice), Content: []NodeID{child}}
			p.multiVoices[mv.ID] = mv
			outer.Content[i] = Item{Kind: ItemMultiVoice, ID: mv.ID}
			return mv, nil
		}
	}
	return nil, scoreerr.Internalf("phrase %v is not a child of phrase %v", child, parent)
}

// AddNote stores a copy of n in the phrase and returns the stored note.
func (p *Part) AddNote(phrase NodeID, n Note) (*Note, error) {
	ph, err := p.phraseOrErr(phrase)
	if err != nil {
		return nil, err
	}
	stored := p.newNote(n)
	ph.Content = append(ph.Content, Item{Kind: ItemNote, ID: stored.ID})
	return stored, nil
}

func (p *Part) newNote(n Note) *Note {
	n.ID = p.register(ItemNote)
	n.Modifications = append([]model.NoteMod(nil), n.Modifications...)
	p.notes[n.ID] = &n
	return &n
}

// AddChord stores the notes as one chord in the phrase.
func (p *Part) AddChord(phrase NodeID, notes []Note, mods []model.ChordMod) (*Chord, error) {
	ph, err := p.phraseOrErr(phrase)
	if err != nil {
		return nil, err
	}
	c := &Chord{ID: p.register(ItemChord)}
	for _, n := range notes {
		c.Notes = append(c.Notes, p.newNote(n).ID)
	}
	for _, mod := range mods {
		c.AddModification(mod)
	}
	p.chords[c.ID] = c
	ph.Content = append(ph.Content, Item{Kind: ItemChord, ID: c.ID})
	return c, nil
}

// ChordDuration is the shortest duration among the chord's notes.
func (p *Part) ChordDuration(id NodeID) (model.Duration, bool) {
	c, ok := p.chords[id]
	if !ok || len(c.Notes) == 0 {
		return model.Duration{}, false
	}
	shortest := p.notes[c.Notes[0]].Duration
	for _, nid := range c.Notes[1:] {
		if d := p.notes[nid].Duration; d.Value() < shortest.Value() {
			shortest = d
		}
	}
	return shortest, true
}

// IsEmpty reports whether the part holds no notes.
func (p *Part) IsEmpty() bool {
	return len(p.notes) == 0
}
