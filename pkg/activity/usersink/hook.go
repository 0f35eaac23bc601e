package usersink

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-trail/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook forwards checkpoint events to a go-users ActivitySink.
type Hook struct {
	Sink usertypes.ActivitySink
	// TenantID is applied when the event carries no tenant.
	TenantID uuid.UUID
}

// Notify converts the event and logs it. Events that cannot be routed are
// skipped without error.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	record, ok := h.record(activity.NormalizeEvent(event))
	if !ok {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return h.Sink.Log(ctx, record)
}

// record maps a normalized event. Managers are identified by uuid, so a
// parseable ObjectID is copied into Data as manager_id.
func (h Hook) record(event activity.Event) (usertypes.ActivityRecord, bool) {
	if event.Verb == "" || event.ObjectType == "" || event.ObjectID == "" {
		return usertypes.ActivityRecord{}, false
	}

	data := make(map[string]any, len(event.Metadata)+1)
	for key, value := range event.Metadata {
		data[key] = value
	}
	if manager := parseUUID(event.ObjectID); manager != uuid.Nil {
		data["manager_id"] = manager.String()
	}
	if len(data) == 0 {
		data = nil
	}

	tenant := parseUUID(event.TenantID)
	if tenant == uuid.Nil {
		tenant = h.TenantID
	}
	occurred := event.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now()
	}

	return usertypes.ActivityRecord{
		ActorID:    parseUUID(event.ActorID),
		UserID:     parseUUID(event.UserID),
		TenantID:   tenant,
		Verb:       event.Verb,
		ObjectType: event.ObjectType,
		ObjectID:   event.ObjectID,
		Channel:    event.Channel,
		Data:       data,
		OccurredAt: occurred,
	}, true
}

func parseUUID(input string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(input))
	if err != nil {
		return uuid.Nil
	}
	return id
}
