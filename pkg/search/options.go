package search

import (
	"github.com/goliatone/go-trail"
	"github.com/goliatone/go-trail/pkg/rules"
)

// Option configures an Explorer.
type Option func(*explorerConfig)

type explorerConfig struct {
	evaluator     rules.Evaluator
	evaluatorOpts []rules.EvaluatorOption
	managerOpts   []trail.Option
	maxSolutions  int
	hasMax        bool
}

// WithEvaluator replaces the evaluator chosen from Problem.Engine.
func WithEvaluator(evaluator rules.Evaluator) Option {
	return func(cfg *explorerConfig) {
		cfg.evaluator = evaluator
	}
}

// WithManagerOptions forwards opts to the explorer's private manager.
func WithManagerOptions(opts ...trail.Option) Option {
	return func(cfg *explorerConfig) {
		cfg.managerOpts = append(cfg.managerOpts, opts...)
	}
}

// WithProgramCache shares compiled constraints between explorers.
func WithProgramCache(cache rules.ProgramCache) Option {
	return func(cfg *explorerConfig) {
		cfg.evaluatorOpts = append(cfg.evaluatorOpts, rules.WithProgramCache(cache))
	}
}

// WithFunctionRegistry exposes custom functions to constraints.
func WithFunctionRegistry(registry *rules.FunctionRegistry) Option {
	return func(cfg *explorerConfig) {
		cfg.evaluatorOpts = append(cfg.evaluatorOpts, rules.WithFunctionRegistry(registry))
	}
}

// WithEvaluatorLogger records every constraint evaluation.
func WithEvaluatorLogger(logger rules.EvaluatorLogger) Option {
	return func(cfg *explorerConfig) {
		cfg.evaluatorOpts = append(cfg.evaluatorOpts, rules.WithEvaluatorLogger(logger))
	}
}

// WithMaxSolutions overrides Problem.MaxSolutions. 0 means unlimited.
func WithMaxSolutions(n int) Option {
	return func(cfg *explorerConfig) {
		cfg.maxSolutions = n
		cfg.hasMax = true
	}
}

func applyOptions(opts []Option) explorerConfig {
	cfg := explorerConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
