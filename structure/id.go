package structure

import (
	"strconv"
	"sync/atomic"
)

// NodeID identifies a node within a Composition. Zero is never issued.
type NodeID uint64

func (id NodeID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// IDGenerator issues unique node identifiers. Implementations must be safe
// for concurrent use when shared between conversions.
type IDGenerator interface {
	Next() NodeID
}

// Sequence is an IDGenerator counting up from a starting value.
type Sequence struct {
	last atomic.Uint64
}

func NewSequence() *Sequence {
	return &Sequence{}
}

func (s *Sequence) Next() NodeID {
	return NodeID(s.last.Add(1))
}

// Observe makes sure ids issued later are greater than id.
func (s *Sequence) Observe(id NodeID) {
	for {
		last := s.last.Load()
		if uint64(id) <= last || s.last.CompareAndSwap(last, uint64(id)) {
			return
		}
	}
}
