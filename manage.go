package trail

import "time"

func valuesOf[T Value](m *Manager) *valueStore[T] {
	kind := KindOf[T]()
	if store := m.values[kind]; store != nil {
		return store.(*valueStore[T])
	}
	store := newValueStore[T](kind, false)
	m.values[kind] = store
	return store
}

func optionalsOf[T Value](m *Manager) *valueStore[Optional[T]] {
	kind := KindOf[T]()
	if store := m.optionals[kind]; store != nil {
		return store.(*valueStore[Optional[T]])
	}
	store := newValueStore[Optional[T]](kind, true)
	m.optionals[kind] = store
	return store
}

// update applies the write policy: equal values are ignored, and the
// previous slot is trailed only on its first change since the latest Save.
// A slot born after the innermost active checkpoint is never trailed, so it
// keeps its last written value when that checkpoint or an outer one is
// restored. At depth 0 nothing is trailed.
func update[E comparable](m *Manager, store *valueStore[E], index int, value E) error {
	current, err := store.read(index)
	if err != nil {
		return err
	}
	if current == value {
		return nil
	}
	top, active := m.snapshots.peek()
	if active && store.born(index) < top.clock && store.stamp(index) < m.clock {
		store.remember(index, m.clock)
		m.trail.record(store)
	}
	store.write(index, value)
	return nil
}

func (m *Manager) misuse(op string, kind Kind, optional bool, index int, err error) error {
	err = handleError(op, kind, optional, index, err)
	m.logOperation(op, 0, time.Now(), err)
	return err
}

// Manage registers a new resource holding initial. Resources created after
// a checkpoint are not covered by it: restoring it, or any checkpoint below
// it, leaves them allocated with their last written value. Checkpoints
// saved after the resource exists cover it as usual.
func Manage[T Value](m *Manager, initial T) Handle[T] {
	m.ensureID()
	index := valuesOf[T](m).allocate(initial, m.clock)
	return Handle[T]{owner: m.id, index: index}
}

// Get returns the current value of h.
func Get[T Value](m *Manager, h Handle[T]) (T, error) {
	if !m.owns(h.owner) {
		var zero T
		return zero, m.misuse("get", KindOf[T](), false, h.index, ErrInvalidHandle)
	}
	value, err := valuesOf[T](m).read(h.index)
	if err != nil {
		return value, m.misuse("get", KindOf[T](), false, h.index, err)
	}
	return value, nil
}

// Set stores value in h and returns it. Writing the current value again
// does not grow the trail.
func Set[T Value](m *Manager, h Handle[T], value T) (T, error) {
	if !m.owns(h.owner) {
		var zero T
		return zero, m.misuse("set", KindOf[T](), false, h.index, ErrInvalidHandle)
	}
	if err := update(m, valuesOf[T](m), h.index, value); err != nil {
		var zero T
		return zero, m.misuse("set", KindOf[T](), false, h.index, err)
	}
	return value, nil
}

// Increment adds one to h and returns the new value.
func Increment[T Number](m *Manager, h Handle[T]) (T, error) {
	value, err := Get(m, h)
	if err != nil {
		return value, err
	}
	return Set(m, h, value+1)
}

// Decrement subtracts one from h and returns the new value.
func Decrement[T Number](m *Manager, h Handle[T]) (T, error) {
	value, err := Get(m, h)
	if err != nil {
		return value, err
	}
	return Set(m, h, value-1)
}

// Flip negates a managed bool and returns the new value.
func Flip(m *Manager, h Handle[bool]) (bool, error) {
	value, err := Get(m, h)
	if err != nil {
		return value, err
	}
	return Set(m, h, !value)
}

// ManageOptional registers a new resource that may hold no value.
func ManageOptional[T Value](m *Manager, initial Optional[T]) OptionalHandle[T] {
	m.ensureID()
	if !initial.Valid {
		initial = None[T]()
	}
	index := optionalsOf[T](m).allocate(initial, m.clock)
	return OptionalHandle[T]{owner: m.id, index: index}
}

// GetOptional returns the current value of h.
func GetOptional[T Value](m *Manager, h OptionalHandle[T]) (Optional[T], error) {
	if !m.owns(h.owner) {
		return Optional[T]{}, m.misuse("get", KindOf[T](), true, h.index, ErrInvalidHandle)
	}
	value, err := optionalsOf[T](m).read(h.index)
	if err != nil {
		return Optional[T]{}, m.misuse("get", KindOf[T](), true, h.index, err)
	}
	return value, nil
}

// SetOptional stores value in h and returns it. An absent value is
// normalised so that every None compares equal.
func SetOptional[T Value](m *Manager, h OptionalHandle[T], value Optional[T]) (Optional[T], error) {
	if !m.owns(h.owner) {
		return Optional[T]{}, m.misuse("set", KindOf[T](), true, h.index, ErrInvalidHandle)
	}
	if !value.Valid {
		value = None[T]()
	}
	if err := update(m, optionalsOf[T](m), h.index, value); err != nil {
		return Optional[T]{}, m.misuse("set", KindOf[T](), true, h.index, err)
	}
	return value, nil
}

// ClearOptional sets h to None.
func ClearOptional[T Value](m *Manager, h OptionalHandle[T]) error {
	_, err := SetOptional(m, h, None[T]())
	return err
}

// IsSome reports whether h currently holds a value.
func IsSome[T Value](m *Manager, h OptionalHandle[T]) (bool, error) {
	value, err := GetOptional(m, h)
	if err != nil {
		return false, err
	}
	return value.Valid, nil
}

// IsNone reports whether h is currently empty.
func IsNone[T Value](m *Manager, h OptionalHandle[T]) (bool, error) {
	some, err := IsSome(m, h)
	if err != nil {
		return false, err
	}
	return !some, nil
}

// IncrementOptional adds one to a present optional and returns the new
// value. It fails with ErrEmptyOptional when h is empty.
func IncrementOptional[T Number](m *Manager, h OptionalHandle[T]) (T, error) {
	return stepOptional(m, h, "increment", 1)
}

// DecrementOptional subtracts one from a present optional and returns the
// new value. It fails with ErrEmptyOptional when h is empty.
func DecrementOptional[T Number](m *Manager, h OptionalHandle[T]) (T, error) {
	return stepOptional(m, h, "decrement", -1)
}

func stepOptional[T Number](m *Manager, h OptionalHandle[T], op string, direction int) (T, error) {
	current, err := GetOptional(m, h)
	if err != nil {
		return current.Value, err
	}
	if !current.Valid {
		var zero T
		return zero, m.misuse(op, KindOf[T](), true, h.index, ErrEmptyOptional)
	}
	next := current.Value + 1
	if direction < 0 {
		next = current.Value - 1
	}
	if _, err := SetOptional(m, h, Some(next)); err != nil {
		var zero T
		return zero, err
	}
	return next, nil
}
