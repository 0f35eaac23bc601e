package rules

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyExpression indicates an empty constraint expression.
	ErrEmptyExpression = errors.New("rules: expression must not be empty")
	// ErrUnknownEngine indicates NewEvaluator received an unsupported engine.
	ErrUnknownEngine = errors.New("rules: unknown engine")
	// ErrEngineUnavailable indicates an engine excluded by build tags.
	ErrEngineUnavailable = errors.New("rules: engine unavailable")
	// ErrNotBoolean indicates a predicate produced a non-boolean result.
	ErrNotBoolean = errors.New("rules: result is not a boolean")
)

// EvaluationError ties an engine failure to the constraint that caused it.
// Compile errors, runtime errors and type mismatches inside the engine all
// surface as an EvaluationError; non-boolean results are reported
// separately through Truthy.
type EvaluationError struct {
	Engine string
	Expr   string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	expr := "expr=<empty>"
	if e.Expr != "" {
		expr = fmt.Sprintf("expr=%q", e.Expr)
	}
	return fmt.Sprintf("rules: %s evaluator %s: %v", e.Engine, expr, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// wrapEvaluatorError prefixes a failure that is not tied to one expression.
// Errors already carrying the package prefix pass through untouched.
func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) || strings.HasPrefix(err.Error(), "rules:") {
		return err
	}
	return fmt.Errorf("rules: %s evaluator: %w", engine, err)
}

// wrapEvaluationError attaches engine and expression to err, filling in only
// the fields an existing EvaluationError leaves empty.
func wrapEvaluationError(engine, expr string, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		return &EvaluationError{Engine: engine, Expr: expr, Err: err}
	}
	if evalErr.Engine == "" {
		evalErr.Engine = engine
	}
	if evalErr.Expr == "" {
		evalErr.Expr = expr
	}
	return evalErr
}
