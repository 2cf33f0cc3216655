package structure

import (
	"encoding/json"

	"github.com/jsphweid/scoretree/model"
	"github.com/pkg/errors"
)

type jsonComposition struct {
	Type                  string              `json:"type"`
	ID                    NodeID              `json:"id"`
	Title                 string              `json:"title"`
	Copyright             string              `json:"copyright,omitempty"`
	Publisher             string              `json:"publisher,omitempty"`
	Composers             []string            `json:"composers,omitempty"`
	Lyricists             []string            `json:"lyricists,omitempty"`
	Arrangers             []string            `json:"arrangers,omitempty"`
	Metadata              map[string]string   `json:"metadata,omitempty"`
	Tempo                 model.Tempo         `json:"tempo"`
	StartingKey           model.Key           `json:"starting_key"`
	StartingTimeSignature model.TimeSignature `json:"starting_time_signature"`
	Parts                 []jsonPart          `json:"parts"`
}

type jsonPart struct {
	Type    string   `json:"type"`
	ID      NodeID   `json:"id"`
	Name    string   `json:"name"`
	Section jsonNode `json:"section"`
}

// jsonNode carries every node kind; Type selects which fields are used.
type jsonNode struct {
	Type          string            `json:"type"`
	ID            NodeID            `json:"id"`
	Name          string            `json:"name,omitempty"`
	Modifications json.RawMessage   `json:"modifications,omitempty"`
	Direction     *model.Direction  `json:"direction,omitempty"`
	Pitch         *model.Pitch      `json:"pitch,omitempty"`
	Duration      *model.Duration   `json:"duration,omitempty"`
	Accidental    *model.Accidental `json:"accidental,omitempty"`
	Content       []jsonNode        `json:"content,omitempty"`
}

func (c *Composition) MarshalJSON() ([]byte, error) {
	out := jsonComposition{
		Type:                  "Composition",
		ID:                    c.ID,
		Title:                 c.Title,
		Copyright:             c.Copyright,
		Publisher:             c.Publisher,
		Composers:             c.Composers,
		Lyricists:             c.Lyricists,
		Arrangers:             c.Arrangers,
		Metadata:              c.Metadata,
		Tempo:                 c.Tempo,
		StartingKey:           c.StartingKey,
		StartingTimeSignature: c.StartingTimeSignature,
		Parts:                 make([]jsonPart, 0, len(c.Parts)),
	}
	for _, p := range c.Parts {
		root, err := p.encode(Item{Kind: ItemSection, ID: p.Root})
		if err != nil {
			return nil, err
		}
		out.Parts = append(out.Parts, jsonPart{Type: "Part", ID: p.ID, Name: p.Name, Section: root})
	}
	return json.Marshal(out)
}

func marshalMods[M any](mods []M) (json.RawMessage, error) {
	if len(mods) == 0 {
		return nil, nil
	}
	return json.Marshal(mods)
}

func (p *Part) encode(item Item) (jsonNode, error) {
	node := jsonNode{Type: item.Kind.String(), ID: item.ID}
	var err error
	switch item.Kind {
	case ItemSection:
		s := p.sections[item.ID]
		node.Name = s.Name
		node.Modifications, err = marshalMods(s.Modifications)
	case ItemStaff:
		node.Name = p.staves[item.ID].Name
	case ItemDirection:
		d := p.directions[item.ID].Direction
		node.Direction = &d
	case ItemPhrase:
		node.Modifications, err = marshalMods(p.phrases[item.ID].Modifications)
	case ItemChord:
		node.Modifications, err = marshalMods(p.chords[item.ID].Modifications)
	case ItemNote:
		n := p.notes[item.ID]
		pitch, duration, accidental := n.Pitch, n.Duration, n.Accidental
		node.Pitch, node.Duration, node.Accidental = &pitch, &duration, &accidental
		node.Modifications, err = marshalMods(n.Modifications)
	case ItemMultiVoice:
	default:
		return node, errors.Errorf("cannot encode node %v of kind %v", item.ID, item.Kind)
	}
	if err != nil {
		return node, errors.Wrapf(err, "encoding %v %v", item.Kind, item.ID)
	}
	children, err := p.Children(item)
	if err != nil {
		return node, err
	}
	for _, child := range children {
		encoded, err := p.encode(child)
		if err != nil {
			return node, err
		}
		node.Content = append(node.Content, encoded)
	}
	return node, nil
}

func (c *Composition) UnmarshalJSON(b []byte) error {
	var in jsonComposition
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	if in.Type != "Composition" {
		return errors.Errorf("expected a Composition, got %q", in.Type)
	}
	seq := NewSequence()
	seq.Observe(in.ID)
	*c = Composition{
		ID:                    in.ID,
		Title:                 in.Title,
		Copyright:             in.Copyright,
		Publisher:             in.Publisher,
		Composers:             in.Composers,
		Lyricists:             in.Lyricists,
		Arrangers:             in.Arrangers,
		Metadata:              in.Metadata,
		Tempo:                 in.Tempo,
		StartingKey:           in.StartingKey,
		StartingTimeSignature: in.StartingTimeSignature,
		ids:                   seq,
	}
	if c.Metadata == nil {
		c.Metadata = make(map[string]string)
	}
	for _, jp := range in.Parts {
		p := newPart(jp.ID, jp.Name, seq)
		seq.Observe(jp.ID)
		if jp.Section.Type != ItemSection.String() {
			return errors.Errorf("part %q must start with a Section, got %q", jp.Name, jp.Section.Type)
		}
		if err := p.decode(jp.Section, seq); err != nil {
			return errors.Wrapf(err, "decoding part %q", jp.Name)
		}
		p.Root = jp.Section.ID
		c.Parts = append(c.Parts, p)
	}
	return nil
}

func unmarshalMods[M any](raw json.RawMessage) ([]M, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var mods []M
	err := json.Unmarshal(raw, &mods)
	return mods, err
}

// decode stores node and its subtree, keeping the serialized identifiers.
func (p *Part) decode(node jsonNode, seq *Sequence) error {
	if node.ID == 0 {
		return errors.Errorf("%s node without id", node.Type)
	}
	if _, taken := p.kinds[node.ID]; taken {
		return errors.Errorf("duplicate node id %v", node.ID)
	}
	seq.Observe(node.ID)
	var err error
	switch node.Type {
	case "Section":
		s := &Section{ID: node.ID, Name: node.Name}
		if s.Modifications, err = unmarshalMods[model.SectionMod](node.Modifications); err != nil {
			return err
		}
		p.sections[s.ID], p.kinds[s.ID] = s, ItemSection
		s.Content, err = p.decodeChildren(node, seq, ItemSection, ItemStaff)
	case "Staff":
		s := &Staff{ID: node.ID, Name: node.Name}
		p.staves[s.ID], p.kinds[s.ID] = s, ItemStaff
		s.Content, err = p.decodeChildren(node, seq, ItemDirection, ItemPhrase)
	case "Direction":
		if node.Direction == nil {
			return errors.Errorf("direction %v has no content", node.ID)
		}
		p.directions[node.ID] = &StaffDirection{ID: node.ID, Direction: *node.Direction}
		p.kinds[node.ID] = ItemDirection
	case "Phrase":
		ph := &Phrase{ID: node.ID}
		if ph.Modifications, err = unmarshalMods[model.PhraseMod](node.Modifications); err != nil {
			return err
		}
		p.phrases[ph.ID], p.kinds[ph.ID] = ph, ItemPhrase
		ph.Content, err = p.decodeChildren(node, seq, ItemPhrase, ItemMultiVoice, ItemChord, ItemNote)
	case "MultiVoice":
		mv := &MultiVoice{ID: node.ID}
		p.multiVoices[mv.ID], p.kinds[mv.ID] = mv, ItemMultiVoice
		var items []Item
		items, err = p.decodeChildren(node, seq, ItemPhrase)
		for _, it := range items {
			mv.Content = append(mv.Content, it.ID)
		}
	case "Chord":
		c := &Chord{ID: node.ID}
		if c.Modifications, err = unmarshalMods[model.ChordMod](node.Modifications); err != nil {
			return err
		}
		p.chords[c.ID], p.kinds[c.ID] = c, ItemChord
		var items []Item
		items, err = p.decodeChildren(node, seq, ItemNote)
		for _, it := range items {
			c.Notes = append(c.Notes, it.ID)
		}
	case "Note":
		if node.Pitch == nil || node.Duration == nil {
			return errors.Errorf("note %v is missing pitch or duration", node.ID)
		}
		n := &Note{ID: node.ID, Pitch: *node.Pitch, Duration: *node.Duration}
		if node.Accidental != nil {
			n.Accidental = *node.Accidental
		}
		if n.Modifications, err = unmarshalMods[model.NoteMod](node.Modifications); err != nil {
			return err
		}
		p.notes[n.ID], p.kinds[n.ID] = n, ItemNote
	default:
		return errors.Errorf("unknown node type %q", node.Type)
	}
	return err
}

func (p *Part) decodeChildren(node jsonNode, seq *Sequence, allowed ...ItemKind) ([]Item, error) {
	var items []Item
	for _, child := range node.Content {
		if err := p.decode(child, seq); err != nil {
			return nil, err
		}
		kind := p.kinds[child.ID]
		ok := false
		for _, a := range allowed {
			ok = ok || a == kind
		}
		if !ok {
			return nil, errors.Errorf("%v cannot contain %v", node.Type, kind)
		}
		items = append(items, Item{Kind: kind, ID: child.ID})
	}
	return items, nil
}
