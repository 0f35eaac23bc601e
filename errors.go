package trail

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHandle indicates a handle that was not issued by the manager
	// it is used with, or whose index is out of the store bounds.
	ErrInvalidHandle = errors.New("trail: invalid handle")
	// ErrNoActiveCheckpoint indicates Restore was called at depth 0.
	ErrNoActiveCheckpoint = errors.New("trail: no active checkpoint")
	// ErrInvalidDepth indicates RestoreTo received a depth outside [0, Depth()].
	ErrInvalidDepth = errors.New("trail: invalid depth")
	// ErrEmptyOptional indicates an arithmetic operation on an absent optional.
	ErrEmptyOptional = errors.New("trail: optional is empty")
)

// HandleError captures the handle metadata alongside the originating error.
type HandleError struct {
	Op       string
	Kind     Kind
	Optional bool
	Index    int
	Err      error
}

func (e *HandleError) Error() string {
	if e == nil {
		return "<nil>"
	}
	kind := e.Kind.String()
	if e.Optional {
		kind = "optional " + kind
	}
	return fmt.Sprintf("trail: %s %s index=%d: %v", e.Op, kind, e.Index, e.Err)
}

func (e *HandleError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func handleError(op string, kind Kind, optional bool, index int, err error) error {
	if err == nil {
		return nil
	}
	var handleErr *HandleError
	if errors.As(err, &handleErr) {
		return err
	}
	return &HandleError{
		Op:       op,
		Kind:     kind,
		Optional: optional,
		Index:    index,
		Err:      err,
	}
}
