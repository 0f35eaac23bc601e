package trail

import "fmt"

// slot is one managed value, the manager clock at the time it was last
// recorded on the trail, and the clock at allocation.
type slot[E comparable] struct {
	value E
	stamp uint64
	born  uint64
}

type undoRecord[E comparable] struct {
	index int
	prev  slot[E]
}

// storeRef is the type-erased view of a valueStore the Manager and the trail
// work with.
type storeRef interface {
	undo()
	size() int
	pending() int
}

// valueStore holds the current values for one element type. Slots are
// append-only; history holds the undo records this store contributed to the
// trail, most recent last.
type valueStore[E comparable] struct {
	kind     Kind
	optional bool
	slots    []slot[E]
	history  []undoRecord[E]
}

func newValueStore[E comparable](kind Kind, optional bool) *valueStore[E] {
	return &valueStore[E]{kind: kind, optional: optional}
}

// allocate appends initial and returns its index.
func (s *valueStore[E]) allocate(initial E, stamp uint64) int {
	s.slots = append(s.slots, slot[E]{value: initial, stamp: stamp, born: stamp})
	return len(s.slots) - 1
}

func (s *valueStore[E]) read(index int) (E, error) {
	if index < 0 || index >= len(s.slots) {
		var zero E
		return zero, ErrInvalidHandle
	}
	return s.slots[index].value, nil
}

// write overwrites the slot value. Callers validate index through read.
func (s *valueStore[E]) write(index int, value E) {
	s.slots[index].value = value
}

func (s *valueStore[E]) stamp(index int) uint64 {
	return s.slots[index].stamp
}

func (s *valueStore[E]) born(index int) uint64 {
	return s.slots[index].born
}

// remember saves the current slot as an undo record and re-stamps the slot.
func (s *valueStore[E]) remember(index int, stamp uint64) {
	s.history = append(s.history, undoRecord[E]{index: index, prev: s.slots[index]})
	s.slots[index].stamp = stamp
}

// undo pops the most recent undo record and writes it back. The trail holds
// exactly one entry per record, so an empty history means the trail and the
// store disagree.
func (s *valueStore[E]) undo() {
	last := len(s.history) - 1
	if last < 0 {
		panic(fmt.Sprintf("trail: undo on %s store with no pending record", s.label()))
	}
	record := s.history[last]
	s.history = s.history[:last]
	s.slots[record.index] = record.prev
}

func (s *valueStore[E]) label() string {
	if s.optional {
		return "optional " + s.kind.String()
	}
	return s.kind.String()
}

func (s *valueStore[E]) size() int {
	return len(s.slots)
}

func (s *valueStore[E]) pending() int {
	return len(s.history)
}
