package rules

import "time"

// EvaluatorLogEvent is one constraint evaluation. Metadata is the caller's
// RuleContext.Metadata (pkg/search stores the checkpoint depth and the
// assigned variable count there); Variables counts the snapshot entries the
// expression could see.
type EvaluatorLogEvent struct {
	Engine    string
	Expr      string
	Variables int
	Metadata  map[string]any
	Duration  time.Duration
	Err       error
}

// Failed reports whether the evaluation returned an error.
func (e EvaluatorLogEvent) Failed() bool {
	return e.Err != nil
}

// EvaluatorLogger receives every evaluation an evaluator performs.
type EvaluatorLogger interface {
	LogEvaluation(EvaluatorLogEvent)
}

// EvaluatorLoggerFunc adapts a function to EvaluatorLogger.
type EvaluatorLoggerFunc func(EvaluatorLogEvent)

func (f EvaluatorLoggerFunc) LogEvaluation(event EvaluatorLogEvent) {
	if f != nil {
		f(event)
	}
}
