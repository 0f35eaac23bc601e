package activity

import (
	"strings"
	"time"
)

const (
	// VerbCheckpointSaved is emitted after a checkpoint is pushed.
	VerbCheckpointSaved = "trail.checkpoint.saved"
	// VerbCheckpointRestored is emitted after the trail is rewound.
	VerbCheckpointRestored = "trail.checkpoint.restored"
	// VerbCheckpointRejected is emitted when a restore had nothing to rewind to.
	VerbCheckpointRejected = "trail.checkpoint.rejected"

	// ObjectTypeCheckpoint is the object type of every checkpoint event.
	ObjectTypeCheckpoint = "trail.checkpoint"
)

// CheckpointEventInput describes the manager state around a checkpoint
// operation.
type CheckpointEventInput struct {
	ManagerID  string
	Depth      int
	TrailLen   int
	Undone     int
	Reason     string
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildCheckpointSavedEvent constructs an event for a checkpoint push.
func BuildCheckpointSavedEvent(input CheckpointEventInput) Event {
	return buildCheckpointEvent(VerbCheckpointSaved, input)
}

// BuildCheckpointRestoredEvent constructs an event for a completed restore.
func BuildCheckpointRestoredEvent(input CheckpointEventInput) Event {
	event := buildCheckpointEvent(VerbCheckpointRestored, input)
	event.Metadata["undone"] = input.Undone
	return event
}

// BuildCheckpointRejectedEvent constructs an event for a refused restore.
func BuildCheckpointRejectedEvent(input CheckpointEventInput) Event {
	event := buildCheckpointEvent(VerbCheckpointRejected, input)
	if reason := strings.TrimSpace(input.Reason); reason != "" {
		event.Metadata["reason"] = reason
	}
	return event
}

func buildCheckpointEvent(verb string, input CheckpointEventInput) Event {
	metadata := ensureMetadata(cloneMap(input.Metadata))
	metadata["depth"] = input.Depth
	metadata["trail_len"] = input.TrailLen

	objectID := strings.TrimSpace(input.ManagerID)
	if objectID == "" {
		objectID = ObjectTypeCheckpoint
	}

	return Event{
		Verb:       verb,
		ObjectType: ObjectTypeCheckpoint,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
