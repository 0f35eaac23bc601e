package trail

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-trail/pkg/activity"
	"github.com/google/uuid"
)

// Manager owns one value store per managed type, the shared trail and the
// snapshot stack. Checkpoints nest: Restore always rewinds to the most
// recent Save that has not been restored yet.
//
// A Manager is not safe for concurrent use. Parallel searches should each
// own their own Manager. The zero value is ready to use, though New is
// needed to attach options.
type Manager struct {
	id        uuid.UUID
	clock     uint64
	trail     trailLog
	snapshots snapshotStack
	values    [kindCount]storeRef
	optionals [kindCount]storeRef

	logger  Logger
	emitter *activity.Emitter
}

// New constructs a Manager at depth 0 with no managed resources.
func New(opts ...Option) *Manager {
	cfg := applyOptions(opts)
	m := &Manager{
		id:      uuid.New(),
		logger:  cfg.logger,
		emitter: cfg.emitter(),
	}
	if cfg.trailCapacity > 0 {
		m.trail.entries = make([]storeRef, 0, cfg.trailCapacity)
	}
	if cfg.depthCapacity > 0 {
		m.snapshots.levels = make([]checkpoint, 0, cfg.depthCapacity)
	}
	return m
}

// ID returns the identity stamped on every handle this manager issues.
func (m *Manager) ID() uuid.UUID {
	m.ensureID()
	return m.id
}

// Depth returns the number of active checkpoints.
func (m *Manager) Depth() int {
	return m.snapshots.depth()
}

// TrailLen returns the number of undo entries currently on the trail.
func (m *Manager) TrailLen() int {
	return m.trail.length()
}

// Save records a checkpoint at the current trail position and returns the
// new depth.
func (m *Manager) Save() int {
	start := m.startTimer()
	m.clock++
	depth := m.snapshots.push(m.trail.length(), m.clock)
	m.logOperation("save", 0, start, nil)
	m.emit(activity.BuildCheckpointSavedEvent, 0, "")
	return depth
}

// Restore rewinds every change made since the most recent Save and drops
// that checkpoint. It fails with ErrNoActiveCheckpoint at depth 0, leaving
// the manager untouched.
func (m *Manager) Restore() error {
	start := m.startTimer()
	trailLen, err := m.snapshots.pop()
	if err != nil {
		m.reject("restore", start, err)
		return err
	}
	undone := m.trail.truncateAndReplay(trailLen, applyUndo)
	m.logOperation("restore", undone, start, nil)
	m.emit(activity.BuildCheckpointRestoredEvent, undone, "")
	return nil
}

// RestoreTo rewinds to the state the manager had when it was last at depth
// and drops every checkpoint above it. RestoreTo(Depth()) is a no-op.
func (m *Manager) RestoreTo(depth int) error {
	start := m.startTimer()
	current := m.snapshots.depth()
	if depth == current {
		return nil
	}
	trailLen, err := m.snapshots.truncate(depth)
	if err != nil {
		err = fmt.Errorf("%w: %d not in [0, %d]", err, depth, current)
		m.reject("restore_to", start, err)
		return err
	}
	undone := m.trail.truncateAndReplay(trailLen, applyUndo)
	m.logOperation("restore_to", undone, start, nil)
	m.emit(activity.BuildCheckpointRestoredEvent, undone, "")
	return nil
}

func (m *Manager) ensureID() {
	if m.id == uuid.Nil {
		m.id = uuid.New()
	}
}

func (m *Manager) owns(owner uuid.UUID) bool {
	return owner != uuid.Nil && owner == m.id
}

func (m *Manager) startTimer() time.Time {
	if m.logger == nil {
		return time.Time{}
	}
	return time.Now()
}

func (m *Manager) logOperation(op string, undone int, start time.Time, err error) {
	if m.logger == nil {
		return
	}
	m.logger.LogOperation(OperationEvent{
		Op:       op,
		Manager:  m.id,
		Depth:    m.snapshots.depth(),
		TrailLen: m.trail.length(),
		Undone:   undone,
		Duration: time.Since(start),
		Err:      err,
	})
}

func (m *Manager) reject(op string, start time.Time, err error) {
	m.logOperation(op, 0, start, err)
	m.emit(activity.BuildCheckpointRejectedEvent, 0, err.Error())
}

func (m *Manager) emit(build func(activity.CheckpointEventInput) activity.Event, undone int, reason string) {
	if !m.emitter.Enabled() {
		return
	}
	event := build(activity.CheckpointEventInput{
		ManagerID: m.ID().String(),
		Depth:     m.snapshots.depth(),
		TrailLen:  m.trail.length(),
		Undone:    undone,
		Reason:    reason,
	})
	if err := m.emitter.Emit(context.Background(), event); err != nil {
		m.logOperation("activity", 0, time.Now(), err)
	}
}
