package trail

import (
	"errors"
	"testing"
)

func TestValueStoreAllocateReadWrite(t *testing.T) {
	store := newValueStore[int32](KindInt32, false)
	for i := 0; i < 5; i++ {
		if index := store.allocate(int32(i*10), 0); index != i {
			t.Fatalf("expected index %d, got %d", i, index)
		}
	}
	store.write(3, -1)
	if got, err := store.read(3); err != nil || got != -1 {
		t.Fatalf("expected -1, got %d err=%v", got, err)
	}
	for _, index := range []int{-1, 5} {
		if _, err := store.read(index); !errors.Is(err, ErrInvalidHandle) {
			t.Fatalf("index %d: expected ErrInvalidHandle, got %v", index, err)
		}
	}
	if store.size() != 5 {
		t.Fatalf("expected size 5, got %d", store.size())
	}
}

func TestValueStoreUndoRestoresStamp(t *testing.T) {
	store := newValueStore[uint](KindUint, false)
	index := store.allocate(1, 0)

	store.remember(index, 3)
	store.write(index, 2)
	if store.stamp(index) != 3 || store.pending() != 1 {
		t.Fatalf("expected stamp 3 with one pending record, got stamp=%d pending=%d", store.stamp(index), store.pending())
	}

	store.undo()
	if got, _ := store.read(index); got != 1 {
		t.Fatalf("expected 1 after undo, got %d", got)
	}
	if store.stamp(index) != 0 || store.pending() != 0 {
		t.Fatalf("expected stamp reset, got stamp=%d pending=%d", store.stamp(index), store.pending())
	}
}

func TestValueStoreUndoWithoutRecordPanics(t *testing.T) {
	store := newValueStore[bool](KindBool, true)
	store.allocate(true, 0)
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected undo on an empty history to panic")
		}
		if msg, ok := r.(string); !ok || msg != "trail: undo on optional bool store with no pending record" {
			t.Fatalf("unexpected panic value %v", r)
		}
	}()
	store.undo()
}

func TestValueStoreKeepsBirthStamp(t *testing.T) {
	store := newValueStore[int](KindInt, false)
	index := store.allocate(4, 2)
	store.remember(index, 5)
	if store.born(index) != 2 || store.stamp(index) != 5 {
		t.Fatalf("expected born 2 stamp 5, got born=%d stamp=%d", store.born(index), store.stamp(index))
	}
	store.undo()
	if store.born(index) != 2 || store.stamp(index) != 2 {
		t.Fatalf("expected undo to keep the birth stamp, got born=%d stamp=%d", store.born(index), store.stamp(index))
	}
}

type recordingStore struct {
	name string
	log  *[]string
}

func (s recordingStore) undo()        { *s.log = append(*s.log, s.name) }
func (s recordingStore) size() int    { return 0 }
func (s recordingStore) pending() int { return 0 }

func TestTrailReplaysNewestFirst(t *testing.T) {
	var applied []string
	var log trailLog
	for _, name := range []string{"a", "b", "c", "d"} {
		log.record(recordingStore{name: name, log: &applied})
	}

	undone := log.truncateAndReplay(1, applyUndo)
	if undone != 3 || log.length() != 1 {
		t.Fatalf("expected 3 undone and length 1, got undone=%d length=%d", undone, log.length())
	}
	want := []string{"d", "c", "b"}
	for i := range want {
		if applied[i] != want[i] {
			t.Fatalf("expected replay order %v, got %v", want, applied)
		}
	}

	if undone := log.truncateAndReplay(5, applyUndo); undone != 0 || log.length() != 1 {
		t.Fatalf("expected replay past the tail to be a no-op")
	}
	if undone := log.truncateAndReplay(-2, applyUndo); undone != 1 || log.length() != 0 {
		t.Fatalf("expected negative bound to clear the trail")
	}
}

func TestSnapshotStack(t *testing.T) {
	var stack snapshotStack
	if _, err := stack.pop(); !errors.Is(err, ErrNoActiveCheckpoint) {
		t.Fatalf("expected ErrNoActiveCheckpoint, got %v", err)
	}
	if _, ok := stack.peek(); ok {
		t.Fatalf("expected empty peek")
	}

	for i, trailLen := range []int{0, 4, 9} {
		if depth := stack.push(trailLen, uint64(i+1)); depth != i+1 {
			t.Fatalf("expected depth %d, got %d", i+1, depth)
		}
	}
	if top, ok := stack.peek(); !ok || top.trailLen != 9 || top.clock != 3 {
		t.Fatalf("expected peek {9 3}, got %+v", top)
	}
	if trailLen, err := stack.pop(); err != nil || trailLen != 9 {
		t.Fatalf("expected pop 9, got %d err=%v", trailLen, err)
	}
	if _, err := stack.truncate(2); !errors.Is(err, ErrInvalidDepth) {
		t.Fatalf("expected ErrInvalidDepth, got %v", err)
	}
	if trailLen, err := stack.truncate(0); err != nil || trailLen != 0 || stack.depth() != 0 {
		t.Fatalf("expected truncate to root, got trail=%d depth=%d err=%v", trailLen, stack.depth(), err)
	}
}
