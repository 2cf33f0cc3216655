// Package section reconstructs the repeat, ending, tempo and named section
// structure of a part from the markers its timeline carries.
package section

import (
	"math"

	"github.com/jsphweid/scoretree/model"
	"github.com/jsphweid/scoretree/timeline"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	RepeatedName      = "Repeated Section"
	EndingName        = "Ending Section"
	ExplicitTempoName = "Explicit Tempo Section"
	ImplicitTempoName = "Implicit Tempo Section"
	ImplicitName      = "Implicit Section"
)

// Prototype is a section Gather decided to open. Close is the slot index
// at which it ends, or math.MaxInt when it stays open to the end.
type Prototype struct {
	ID            int
	Name          string
	Modifications []model.SectionMod
	Start         int
	Close         int
}

func (p *Prototype) isEnding() bool {
	return p.has(model.SectionOnlyPlay)
}

func (p *Prototype) isRepeat() bool {
	return p.has(model.SectionRepeat)
}

func (p *Prototype) has(kind model.SectionModKind) bool {
	for _, mod := range p.Modifications {
		if mod.Kind == kind {
			return true
		}
	}
	return false
}

// Details lists the sections that close and open at one marker slot.
type Details struct {
	Ending   []int
	Starting []*Prototype
	JumpTo   string
}

// Plan is the outcome of Gather, keyed by slot index.
type Plan struct {
	Indices []int
	Details map[int]*Details
}

// Get returns the details at idx.
func (p *Plan) Get(idx int) (*Details, bool) {
	d, ok := p.Details[idx]
	return d, ok
}

// Rescale maps the plan from slots of from divisions per quarter onto
// slots of to divisions per quarter. Markers that land on the same slot
// share its details.
func (p Plan) Rescale(from, to int) Plan {
	if from == to || from <= 0 || to <= 0 {
		return p
	}
	scale := func(idx int) int {
		if idx == math.MaxInt {
			return idx
		}
		return idx * to / from
	}
	res := Plan{Details: make(map[int]*Details, len(p.Details))}
	for _, idx := range p.Indices {
		d := p.Details[idx]
		at := scale(idx)
		scaled, ok := res.Details[at]
		if !ok {
			scaled = &Details{}
			res.Details[at] = scaled
			res.Indices = append(res.Indices, at)
		}
		scaled.Ending = append(scaled.Ending, d.Ending...)
		if d.JumpTo != "" {
			scaled.JumpTo = d.JumpTo
		}
		for _, proto := range d.Starting {
			clone := *proto
			clone.Start, clone.Close = scale(proto.Start), scale(proto.Close)
			scaled.Starting = append(scaled.Starting, &clone)
		}
	}
	return res
}

type gatherer struct {
	plan       Plan
	prototypes map[int]*Prototype
	nextID     int
	endings    []int
	repeats    []int
	tempos     []int
	named      []int
	lastRepeat int
}

// Gather walks the marker slots of one staff in order and decides which
// sections close and open at each of them.
func Gather(slots []timeline.Slot) Plan {
	g := &gatherer{
		plan:       Plan{Details: make(map[int]*Details)},
		prototypes: make(map[int]*Prototype),
	}
	for idx := range slots {
		if slots[idx].HasStructure() {
			g.visit(idx, &slots[idx])
		}
	}
	g.plan.Indices = maps.Keys(g.plan.Details)
	slices.Sort(g.plan.Indices)
	return g.plan
}

func (g *gatherer) details(idx int) *Details {
	d, ok := g.plan.Details[idx]
	if !ok {
		d = &Details{}
		g.plan.Details[idx] = d
	}
	return d
}

func (g *gatherer) open(idx int, name string, mods ...model.SectionMod) *Prototype {
	g.nextID++
	p := &Prototype{ID: g.nextID, Name: name, Modifications: mods, Start: idx, Close: math.MaxInt}
	g.prototypes[p.ID] = p
	d := g.details(idx)
	d.Starting = append(d.Starting, p)
	return p
}

func (g *gatherer) close(idx int, id int) {
	g.prototypes[id].Close = idx
	d := g.details(idx)
	d.Ending = append(d.Ending, id)
}

func (g *gatherer) pop(stack *[]int) (int, bool) {
	if len(*stack) == 0 {
		return 0, false
	}
	id := (*stack)[len(*stack)-1]
	*stack = (*stack)[:len(*stack)-1]
	return id, true
}

// flush closes every section on stack that was opened before idx.
func (g *gatherer) flush(idx int, stack *[]int) {
	kept := (*stack)[:0]
	for _, id := range *stack {
		if g.prototypes[id].Start < idx {
			g.close(idx, id)
		} else {
			kept = append(kept, id)
		}
	}
	*stack = kept
}

func (g *gatherer) visit(idx int, s *timeline.Slot) {
	d := g.details(idx)
	d.JumpTo = s.JumpTo

	for _, e := range s.Endings {
		if !e.Start {
			if id, ok := g.pop(&g.endings); ok {
				g.close(idx, id)
			}
		}
	}
	for _, r := range s.Repeats {
		if r.Start {
			continue
		}
		id, ok := g.pop(&g.repeats)
		if !ok {
			id = g.open(g.repeatFrom(), RepeatedName, model.Repeat(r.Times)).ID
		} else if r.Explicit {
			g.prototypes[id].Modifications = []model.SectionMod{model.Repeat(r.Times)}
		}
		g.close(idx, id)
		g.lastRepeat = idx
	}

	switch {
	case s.TempoExplicit != nil:
		g.flushAll(idx, &g.endings, &g.repeats, &g.tempos)
		g.tempos = append(g.tempos, g.open(idx, ExplicitTempoName, model.TempoExplicit(*s.TempoExplicit)).ID)
	case s.TempoImplicit != nil:
		g.flushAll(idx, &g.endings, &g.repeats, &g.tempos)
		g.tempos = append(g.tempos, g.open(idx, ImplicitTempoName, model.TempoImplicit(*s.TempoImplicit)).ID)
	}
	if s.SectionStart != "" {
		g.flushAll(idx, &g.endings, &g.repeats, &g.tempos, &g.named)
		g.named = append(g.named, g.open(idx, s.SectionStart).ID)
	}
	for _, r := range s.Repeats {
		if r.Start {
			g.repeats = append(g.repeats, g.open(idx, RepeatedName, model.Repeat(r.Times)).ID)
		}
	}
	for _, e := range s.Endings {
		if e.Start {
			g.endings = append(g.endings, g.open(idx, EndingName, model.OnlyPlay(e.Iterations...)).ID)
		}
	}
}

// repeatFrom is where a backward repeat without a forward one returns to:
// the previous backward repeat or the beginning, but never before the start
// of an open tempo or named section.
func (g *gatherer) repeatFrom() int {
	start := g.lastRepeat
	for _, stack := range [][]int{g.tempos, g.named} {
		for _, id := range stack {
			start = max(start, g.prototypes[id].Start)
		}
	}
	return start
}

func (g *gatherer) flushAll(idx int, stacks ...*[]int) {
	for _, stack := range stacks {
		g.flush(idx, stack)
	}
}
