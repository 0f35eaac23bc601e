package activity

import (
	"context"
	"strings"
)

// DefaultChannel is applied to events emitted without a channel.
const DefaultChannel = "trail"

// Config controls activity emission defaults.
type Config struct {
	Enabled bool
	Channel string
	ActorID string
}

// Emitter is the write side used by a manager: a fixed hook set plus the
// channel and actor stamped on events that do not carry their own.
type Emitter struct {
	hooks    Hooks
	defaults Event
}

// NewEmitter constructs an emitter. It is disabled when cfg.Enabled is false
// or no non-nil hook remains.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	e := &Emitter{
		defaults: Event{
			Channel: strings.TrimSpace(cfg.Channel),
			ActorID: strings.TrimSpace(cfg.ActorID),
		},
	}
	if e.defaults.Channel == "" {
		e.defaults.Channel = DefaultChannel
	}
	if cfg.Enabled {
		for _, hook := range hooks {
			if hook != nil {
				e.hooks = append(e.hooks, hook)
			}
		}
	}
	return e
}

// Enabled reports whether emissions should be attempted.
func (e *Emitter) Enabled() bool {
	return e != nil && e.hooks.Enabled()
}

// Emit stamps the default channel and actor onto event when missing and
// forwards it to every hook.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.defaults.Channel
	}
	if strings.TrimSpace(event.ActorID) == "" {
		event.ActorID = e.defaults.ActorID
	}
	return e.hooks.Notify(ctx, event)
}
