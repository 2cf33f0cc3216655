package midi

import (
	"io"
	"math"
	"sort"

	"github.com/jsphweid/scoretree/model"
	"github.com/jsphweid/scoretree/scoreerr"
	"github.com/jsphweid/scoretree/structure"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

const (
	drumChannel   = 9
	graceFraction = 8
	accentBoost   = 16

	sustainPedal   = 64
	sostenutoPedal = 66
)

var defaultVelocity = model.Dynamic{Kind: model.MezzoForte}.Velocity()

var sharpOrder = []model.PitchName{model.F, model.C, model.G, model.D, model.A, model.E, model.B}

type event struct {
	tick int64
	off  bool
	seq  int
	msg  []byte
}

type conductor struct {
	tempos map[int64]float64
	meters map[int64]model.TimeSignature
}

type staffState struct {
	velocity uint8
	key      model.Key
}

type scope struct {
	state     *staffState
	scale     float64
	transpose int
}

// renderer plays one part through its sections, unrolling repeats.
type renderer struct {
	part      *structure.Part
	channel   uint8
	tpq       float64
	conductor *conductor
	staves    map[string]*staffState
	events    []event
	tied      map[uint8]int
	key       model.Key
}

// Encode renders c as a type 1 SMF: a conductor track followed by one track
// per part.
func Encode(c *structure.Composition, ticksPerQuarter uint16) (*smf.SMF, error) {
	if ticksPerQuarter == 0 {
		return nil, scoreerr.Inputf("ticks per quarter must be positive")
	}
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticksPerQuarter)

	cond := &conductor{
		tempos: map[int64]float64{0: c.Tempo.QuarterNotesPerMinute()},
		meters: make(map[int64]model.TimeSignature),
	}
	if c.StartingTimeSignature.Type != model.NoTime {
		cond.meters[0] = c.StartingTimeSignature
	}

	var tracks []smf.Track
	for i, p := range c.Parts {
		r := &renderer{
			part:      p,
			channel:   channelFor(i),
			tpq:       float64(ticksPerQuarter),
			conductor: cond,
			staves:    make(map[string]*staffState),
			tied:      make(map[uint8]int),
			key:       c.StartingKey,
		}
		if _, err := r.section(p.Root, 0, 0); err != nil {
			return nil, errors.Wrapf(err, "rendering part %q", p.Name)
		}
		tracks = append(tracks, r.track())
	}

	if err := s.Add(cond.track(c.Title)); err != nil {
		return nil, errors.Wrap(err, "adding conductor track")
	}
	for _, tr := range tracks {
		if err := s.Add(tr); err != nil {
			return nil, errors.Wrap(err, "adding part track")
		}
	}
	return s, nil
}

func WriteFile(path string, c *structure.Composition, ticksPerQuarter uint16) error {
	s, err := Encode(c, ticksPerQuarter)
	if err != nil {
		return err
	}
	return errors.Wrapf(s.WriteFile(path), "writing %s", path)
}

func Write(w io.Writer, c *structure.Composition, ticksPerQuarter uint16) error {
	s, err := Encode(c, ticksPerQuarter)
	if err != nil {
		return err
	}
	_, err = s.WriteTo(w)
	return errors.Wrap(err, "writing midi")
}

// channelFor spreads parts over the melodic channels.
func channelFor(part int) uint8 {
	ch := uint8(part % 15)
	if ch >= drumChannel {
		ch++
	}
	return ch
}

// latin1 encodes text for meta events, replacing what ISO-8859-1 lacks.
func latin1(text string) string {
	out, err := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()).String(text)
	if err != nil {
		return ""
	}
	return out
}

func (c *conductor) track(title string) smf.Track {
	var events []event
	for tick, bpm := range c.tempos {
		events = append(events, event{tick: tick, msg: smf.MetaTempo(bpm)})
	}
	for tick, sig := range c.meters {
		events = append(events, event{tick: tick, msg: smf.MetaMeter(sig.Numerator, sig.Denominator)})
	}
	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(latin1(title)))
	return appendEvents(tr, events)
}

func (r *renderer) track() smf.Track {
	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(latin1(r.part.Name)))
	return appendEvents(tr, r.events)
}

// appendEvents adds events in time order, note-offs first at equal ticks,
// then closes the track.
func appendEvents(tr smf.Track, events []event) smf.Track {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		if events[i].off != events[j].off {
			return events[i].off
		}
		return events[i].seq < events[j].seq
	})
	var last int64
	for _, e := range events {
		tr.Add(uint32(e.tick-last), e.msg)
		last = e.tick
	}
	tr.Close(0)
	return tr
}

func (r *renderer) emit(pos float64, off bool, msg []byte) int {
	r.events = append(r.events, event{tick: tick(pos), off: off, seq: len(r.events), msg: msg})
	return len(r.events) - 1
}

func tick(pos float64) int64 {
	return int64(math.Round(pos))
}

func (r *renderer) staff(name string) *staffState {
	st, ok := r.staves[name]
	if !ok {
		st = &staffState{velocity: defaultVelocity, key: r.key}
		r.staves[name] = st
	}
	return st
}

// section plays a section starting at pos and returns where it ends. A
// repeated section plays Times+1 times and hands each pass its iteration.
func (r *renderer) section(id structure.NodeID, iteration int, pos float64) (float64, error) {
	s, ok := r.part.Section(id)
	if !ok {
		return pos, scoreerr.Internalf("section %v not found", id)
	}
	for _, m := range s.Modifications {
		switch m.Kind {
		case model.SectionTempoExplicit:
			r.conductor.tempos[tick(pos)] = m.Tempo.QuarterNotesPerMinute()
		case model.SectionTempoImplicit:
			r.conductor.tempos[tick(pos)] = float64(m.Suggestion.BPM())
		}
	}
	passes := s.Passes()
	for pass := 0; pass < passes; pass++ {
		it := iteration
		if passes > 1 {
			it = pass
		}
		var err error
		if pos, err = r.content(s.Content, it, pos); err != nil {
			return pos, err
		}
	}
	return pos, nil
}

// content plays section children. Consecutive staves with distinct names
// sound together; sections and repeated staff names start a new group.
func (r *renderer) content(items []structure.Item, iteration int, pos float64) (float64, error) {
	start, end := pos, pos
	seen := make(map[string]bool)
	for _, item := range items {
		switch item.Kind {
		case structure.ItemSection:
			child, ok := r.part.Section(item.ID)
			if !ok {
				return end, scoreerr.Internalf("section %v not found", item.ID)
			}
			seen = make(map[string]bool)
			start = end
			if !child.PlaysOn(iteration) {
				continue
			}
			next, err := r.section(item.ID, iteration, start)
			if err != nil {
				return end, err
			}
			start, end = next, next
		case structure.ItemStaff:
			staff, ok := r.part.Staff(item.ID)
			if !ok {
				return end, scoreerr.Internalf("staff %v not found", item.ID)
			}
			if seen[staff.Name] {
				seen = make(map[string]bool)
				start = end
			}
			seen[staff.Name] = true
			stop, err := r.staffContent(staff, start)
			if err != nil {
				return end, err
			}
			end = math.Max(end, stop)
		}
	}
	return end, nil
}

func (r *renderer) staffContent(staff *structure.Staff, pos float64) (float64, error) {
	ctx := scope{state: r.staff(staff.Name), scale: 1}
	for _, item := range staff.Content {
		switch item.Kind {
		case structure.ItemDirection:
			d, ok := r.part.Direction(item.ID)
			if !ok {
				return pos, scoreerr.Internalf("direction %v not found", item.ID)
			}
			r.direction(ctx.state, d.Direction, pos)
		case structure.ItemPhrase:
			var err error
			if pos, err = r.phrase(item.ID, pos, ctx); err != nil {
				return pos, err
			}
		}
	}
	return pos, nil
}

func (r *renderer) direction(st *staffState, d model.Direction, pos float64) {
	switch d.Kind {
	case model.DirectionDynamic:
		st.velocity = d.Dynamic.Velocity()
	case model.DirectionKeyChange:
		st.key = d.Key
	case model.DirectionTimeSignatureChange:
		if d.TimeSignature.Type != model.NoTime {
			r.conductor.meters[tick(pos)] = d.TimeSignature
		}
	}
}

func (r *renderer) phrase(id structure.NodeID, pos float64, ctx scope) (float64, error) {
	ph, ok := r.part.Phrase(id)
	if !ok {
		return pos, scoreerr.Internalf("phrase %v not found", id)
	}
	var pedals []uint8
	for _, m := range ph.Modifications {
		switch m.Kind {
		case model.PhraseTuplet:
			if m.Beats > 0 && m.IntoBeats > 0 {
				ctx.scale *= float64(m.IntoBeats) / float64(m.Beats)
			}
		case model.PhraseOctaveShift:
			ctx.transpose += 12 * int(m.Octaves)
		case model.PhrasePedal:
			controller := uint8(sustainPedal)
			if m.Pedal == model.Sostenuto {
				controller = sostenutoPedal
			}
			pedals = append(pedals, controller)
			r.emit(pos, false, midi.ControlChange(r.channel, controller, 127))
		}
	}
	for _, item := range ph.Content {
		var err error
		switch item.Kind {
		case structure.ItemPhrase:
			pos, err = r.phrase(item.ID, pos, ctx)
		case structure.ItemMultiVoice:
			pos, err = r.multiVoice(item.ID, pos, ctx)
		case structure.ItemChord:
			pos, err = r.chord(item.ID, pos, ctx)
		case structure.ItemNote:
			n, ok := r.part.Note(item.ID)
			if !ok {
				return pos, scoreerr.Internalf("note %v not found", item.ID)
			}
			pos = r.note(n, pos, ctx, false, false)
		}
		if err != nil {
			return pos, err
		}
	}
	for _, controller := range pedals {
		r.emit(pos, true, midi.ControlChange(r.channel, controller, 0))
	}
	return pos, nil
}

func (r *renderer) multiVoice(id structure.NodeID, pos float64, ctx scope) (float64, error) {
	mv, ok := r.part.MultiVoice(id)
	if !ok {
		return pos, scoreerr.Internalf("multivoice %v not found", id)
	}
	end := pos
	for _, voice := range mv.Content {
		stop, err := r.phrase(voice, pos, ctx)
		if err != nil {
			return pos, err
		}
		end = math.Max(end, stop)
	}
	return end, nil
}

func (r *renderer) chord(id structure.NodeID, pos float64, ctx scope) (float64, error) {
	c, ok := r.part.Chord(id)
	if !ok {
		return pos, scoreerr.Internalf("chord %v not found", id)
	}
	var tie, accent bool
	for _, m := range c.Modifications {
		switch m.Kind {
		case model.ChordTie:
			tie = true
		case model.ChordAccent, model.ChordMarcato, model.ChordSforzando:
			accent = true
		}
	}
	for _, nid := range c.Notes {
		n, ok := r.part.Note(nid)
		if !ok {
			return pos, scoreerr.Internalf("note %v not found", nid)
		}
		r.note(n, pos, ctx, tie, accent)
	}
	d, _ := r.part.ChordDuration(id)
	return pos + r.length(d, ctx), nil
}

func (r *renderer) length(d model.Duration, ctx scope) float64 {
	return d.Value() * 4 * r.tpq * ctx.scale
}

// note sounds n at pos and returns where the next item starts. Grace notes
// sound briefly and take no time. A tied note extends the sounding one.
func (r *renderer) note(n *structure.Note, pos float64, ctx scope, tie, accent bool) float64 {
	length := r.length(n.Duration, ctx)
	next := pos + length
	if n.HasModification(model.NoteGrace) {
		length /= graceFraction
		next = pos
	}
	if n.IsRest() {
		return next
	}
	key := n.Pitch.MidiNumber() + alteration(n, ctx.state.key) + ctx.transpose
	if key < 0 || key > 127 {
		return next
	}
	k := uint8(key)

	if idx, ok := r.tied[k]; ok && r.events[idx].tick == tick(pos) {
		r.events[idx].tick = tick(pos + length)
	} else {
		velocity := ctx.state.velocity
		if accent || n.HasModification(model.NoteAccent) || n.HasModification(model.NoteMarcato) ||
			n.HasModification(model.NoteSforzando) {
			velocity = uint8(min(127, int(velocity)+accentBoost))
		}
		r.emit(pos, false, midi.NoteOn(r.channel, k, velocity))
		idx = r.emit(pos+length, true, midi.NoteOff(r.channel, k))
		r.tied[k] = idx
	}
	if !tie && !n.HasModification(model.NoteTie) {
		delete(r.tied, k)
	}
	return next
}

// alteration is the written accidental, or what the key signature implies.
func alteration(n *structure.Note, key model.Key) int {
	if n.Accidental != model.AccidentalNone {
		return n.Accidental.Semitones()
	}
	fifths := int(key.Fifths)
	for i, name := range sharpOrder {
		if fifths > 0 && i < fifths && name == n.Pitch.Name {
			return 1
		}
		if fifths < 0 && len(sharpOrder)-1-i < -fifths && name == n.Pitch.Name {
			return -1
		}
	}
	return 0
}
