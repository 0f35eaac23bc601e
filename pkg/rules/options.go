package rules

import "time"

// EvaluatorOption configures any evaluator built by this package.
type EvaluatorOption func(*evaluatorConfig)

type evaluatorConfig struct {
	cache    ProgramCache
	registry *FunctionRegistry
	logger   EvaluatorLogger
}

// WithProgramCache shares compiled programs across evaluations.
func WithProgramCache(cache ProgramCache) EvaluatorOption {
	return func(cfg *evaluatorConfig) {
		cfg.cache = cache
	}
}

// WithFunctionRegistry exposes the registered functions to expressions.
// The registry is cloned so later registrations do not leak in.
func WithFunctionRegistry(registry *FunctionRegistry) EvaluatorOption {
	return func(cfg *evaluatorConfig) {
		if registry == nil {
			return
		}
		cfg.registry = registry.Clone()
	}
}

// WithEvaluatorLogger records every evaluation with logger. A nil logger
// turns logging off.
func WithEvaluatorLogger(logger EvaluatorLogger) EvaluatorOption {
	return func(cfg *evaluatorConfig) {
		cfg.logger = logger
	}
}

func applyEvaluatorOptions(opts []EvaluatorOption) evaluatorConfig {
	cfg := evaluatorConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func (cfg evaluatorConfig) observe(engine, expr string, ctx RuleContext, start time.Time, err error) {
	if cfg.logger == nil {
		return
	}
	cfg.logger.LogEvaluation(EvaluatorLogEvent{
		Engine:    engine,
		Expr:      expr,
		Variables: len(ctx.Snapshot),
		Metadata:  ctx.Metadata,
		Duration:  time.Since(start),
		Err:       err,
	})
}

func (cfg evaluatorConfig) cached(key string) (any, bool) {
	if cfg.cache == nil {
		return nil, false
	}
	return cfg.cache.Get(key)
}

func (cfg evaluatorConfig) store(key string, program any) {
	if cfg.cache != nil {
		cfg.cache.Set(key, program)
	}
}
