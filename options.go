package trail

import "github.com/goliatone/go-trail/pkg/activity"

// Option configures a Manager.
type Option func(*managerConfig)

type managerConfig struct {
	logger         Logger
	activityHooks  activity.Hooks
	activityConfig *activity.Config
	trailCapacity  int
	depthCapacity  int
}

func applyOptions(opts []Option) managerConfig {
	cfg := managerConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithCapacity pre-sizes the trail and the snapshot stack. Non-positive
// values are ignored.
func WithCapacity(trailEntries, depth int) Option {
	return func(cfg *managerConfig) {
		if trailEntries > 0 {
			cfg.trailCapacity = trailEntries
		}
		if depth > 0 {
			cfg.depthCapacity = depth
		}
	}
}

// WithActivityHooks attaches activity hooks that receive checkpoint events.
// Hooks are cloned and nil entries dropped. Emission is enabled on the
// default channel unless WithActivityConfig says otherwise.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *managerConfig) {
		cfg.activityHooks = normalized
	}
}

// WithActivityConfig overrides the activity emission defaults.
func WithActivityConfig(config activity.Config) Option {
	return func(cfg *managerConfig) {
		cfg.activityConfig = &config
	}
}

func (cfg managerConfig) emitter() *activity.Emitter {
	if len(cfg.activityHooks) == 0 {
		return nil
	}
	config := activity.Config{Enabled: true, Channel: activity.DefaultChannel}
	if cfg.activityConfig != nil {
		config = *cfg.activityConfig
	}
	return activity.NewEmitter(cfg.activityHooks, config)
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}
