package trail

// checkpoint is one active Save: the trail length to rewind to and the
// manager clock it started.
type checkpoint struct {
	trailLen int
	clock    uint64
}

// snapshotStack holds every active checkpoint, oldest first.
type snapshotStack struct {
	levels []checkpoint
}

// push records a checkpoint and returns the new depth.
func (s *snapshotStack) push(trailLen int, clock uint64) int {
	s.levels = append(s.levels, checkpoint{trailLen: trailLen, clock: clock})
	return len(s.levels)
}

// pop removes the most recent checkpoint and returns its trail length.
func (s *snapshotStack) pop() (int, error) {
	last := len(s.levels) - 1
	if last < 0 {
		return 0, ErrNoActiveCheckpoint
	}
	trailLen := s.levels[last].trailLen
	s.levels = s.levels[:last]
	return trailLen, nil
}

func (s *snapshotStack) peek() (checkpoint, bool) {
	if len(s.levels) == 0 {
		return checkpoint{}, false
	}
	return s.levels[len(s.levels)-1], true
}

// truncate drops every checkpoint above depth and returns the trail length
// recorded by the checkpoint at position depth.
func (s *snapshotStack) truncate(depth int) (int, error) {
	if depth < 0 || depth >= len(s.levels) {
		return 0, ErrInvalidDepth
	}
	trailLen := s.levels[depth].trailLen
	s.levels = s.levels[:depth]
	return trailLen, nil
}

func (s *snapshotStack) depth() int {
	return len(s.levels)
}
