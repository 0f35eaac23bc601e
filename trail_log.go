package trail

// trailLog is the chronological undo log shared by every store of a Manager.
// Each entry names the store holding the matching undo record, so replaying
// entries newest-first pops every store history in the right order.
type trailLog struct {
	entries []storeRef
}

func (t *trailLog) record(store storeRef) {
	t.entries = append(t.entries, store)
}

func (t *trailLog) length() int {
	return len(t.entries)
}

// truncateAndReplay applies entries from the tail down to length to
// (exclusive) and discards them. It returns the number of entries undone.
func (t *trailLog) truncateAndReplay(to int, apply func(storeRef)) int {
	if to < 0 {
		to = 0
	}
	undone := 0
	for i := len(t.entries) - 1; i >= to; i-- {
		apply(t.entries[i])
		t.entries[i] = nil
		undone++
	}
	if to < len(t.entries) {
		t.entries = t.entries[:to]
	}
	return undone
}

func applyUndo(store storeRef) {
	store.undo()
}
