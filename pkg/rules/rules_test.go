package rules

import (
	"errors"
	"fmt"
	"testing"
)

var evaluatorFactories = []struct {
	name string
	new  func(opts ...EvaluatorOption) Evaluator
}{
	{name: EngineExpr, new: NewExprEvaluator},
	{name: EngineCEL, new: NewCELEvaluator},
	{name: EngineJS, new: NewJSEvaluator},
}

func eachEvaluator(t *testing.T, fn func(t *testing.T, name string, build func(opts ...EvaluatorOption) Evaluator)) {
	t.Helper()
	for _, factory := range evaluatorFactories {
		factory := factory
		t.Run(factory.name, func(t *testing.T) {
			if factory.name == EngineJS && !JSAvailable() {
				t.Skip("js evaluator requires the js_eval build tag")
			}
			fn(t, factory.name, factory.new)
		})
	}
}

func double(args ...any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("double expects one argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case int:
		return int64(v * 2), nil
	case int64:
		return v * 2, nil
	case float64:
		return int64(v * 2), nil
	}
	return nil, fmt.Errorf("double: unsupported %T", args[0])
}

func TestEvaluatorsReadSnapshot(t *testing.T) {
	eachEvaluator(t, func(t *testing.T, _ string, build func(...EvaluatorOption) Evaluator) {
		evaluator := build()
		ctx := RuleContext{Snapshot: map[string]any{"x": 2, "y": 3}}

		result, err := evaluator.Evaluate(ctx, "x + y == 5")
		if err != nil {
			t.Fatalf("evaluate: %v", err)
		}
		ok, err := Truthy(result)
		if err != nil {
			t.Fatalf("truthy: %v", err)
		}
		if !ok {
			t.Fatalf("expected x + y == 5 to hold")
		}

		result, err = evaluator.Evaluate(ctx, "x == y")
		if err != nil {
			t.Fatalf("evaluate: %v", err)
		}
		if ok, _ := Truthy(result); ok {
			t.Fatalf("expected x == y to be false")
		}
	})
}

func TestCompiledRulesReuseProgram(t *testing.T) {
	eachEvaluator(t, func(t *testing.T, _ string, build func(...EvaluatorOption) Evaluator) {
		cache := NewMemoryCache()
		evaluator := build(WithProgramCache(cache))

		rule, err := evaluator.Compile("a != b", WithVariables("a", "b"))
		if err != nil {
			t.Fatalf("compile: %v", err)
		}
		for i, want := range []bool{true, false} {
			b := 1
			if !want {
				b = 0
			}
			result, err := rule.Evaluate(RuleContext{Snapshot: map[string]any{"a": 0, "b": b}})
			if err != nil {
				t.Fatalf("evaluate %d: %v", i, err)
			}
			if got, _ := Truthy(result); got != want {
				t.Fatalf("evaluate %d: expected %v, got %v", i, want, got)
			}
		}
		if cache.Len() != 1 {
			t.Fatalf("expected one cached program, got %d", cache.Len())
		}
	})
}

func TestEvaluatorCacheHit(t *testing.T) {
	eachEvaluator(t, func(t *testing.T, _ string, build func(...EvaluatorOption) Evaluator) {
		cache := NewMemoryCache()
		evaluator := build(WithProgramCache(cache))
		ctx := RuleContext{Snapshot: map[string]any{"n": 4}}
		for i := 0; i < 3; i++ {
			if _, err := evaluator.Evaluate(ctx, "n > 3"); err != nil {
				t.Fatalf("evaluate: %v", err)
			}
		}
		if cache.Len() != 1 {
			t.Fatalf("expected a single cache entry, got %d", cache.Len())
		}
	})
}

func TestEvaluatorsCallRegistry(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("double", double); err != nil {
		t.Fatalf("register: %v", err)
	}
	expressions := map[string]string{
		EngineExpr: "double(x) == 4",
		EngineCEL:  `call("double", [x]) == 4`,
		EngineJS:   "double(x) === 4",
	}
	eachEvaluator(t, func(t *testing.T, name string, build func(...EvaluatorOption) Evaluator) {
		evaluator := build(WithFunctionRegistry(registry))
		result, err := evaluator.Evaluate(RuleContext{Snapshot: map[string]any{"x": 2}}, expressions[name])
		if err != nil {
			t.Fatalf("evaluate: %v", err)
		}
		if ok, err := Truthy(result); err != nil || !ok {
			t.Fatalf("expected registry call to hold, got %v (%v)", result, err)
		}
	})
}

func TestEvaluatorsRejectEmptyExpression(t *testing.T) {
	eachEvaluator(t, func(t *testing.T, _ string, build func(...EvaluatorOption) Evaluator) {
		evaluator := build()
		if _, err := evaluator.Evaluate(RuleContext{}, ""); !errors.Is(err, ErrEmptyExpression) {
			t.Fatalf("expected ErrEmptyExpression from Evaluate, got %v", err)
		}
		if _, err := evaluator.Compile(""); !errors.Is(err, ErrEmptyExpression) {
			t.Fatalf("expected ErrEmptyExpression from Compile, got %v", err)
		}
	})
}

func TestEvaluatorsWrapSyntaxErrors(t *testing.T) {
	eachEvaluator(t, func(t *testing.T, name string, build func(...EvaluatorOption) Evaluator) {
		_, err := build().Evaluate(RuleContext{Snapshot: map[string]any{"x": 1}}, "x +")
		if err == nil {
			t.Fatalf("expected syntax error")
		}
		var evalErr *EvaluationError
		if !errors.As(err, &evalErr) {
			t.Fatalf("expected EvaluationError, got %T: %v", err, err)
		}
		if evalErr.Engine != name {
			t.Fatalf("expected engine %q, got %q", name, evalErr.Engine)
		}
		if evalErr.Expr != "x +" {
			t.Fatalf("expected expression metadata, got %q", evalErr.Expr)
		}
	})
}

func TestCELCompileChecksDeclaredVariables(t *testing.T) {
	evaluator := NewCELEvaluator()
	if _, err := evaluator.Compile("y > 1", WithVariables("x")); err == nil {
		t.Fatalf("expected undeclared reference to fail compilation")
	}
	if _, err := evaluator.Compile("y > 1"); err != nil {
		t.Fatalf("lazy compile should not fail: %v", err)
	}
}

func TestEvaluatorLoggerRecordsEvaluations(t *testing.T) {
	var events []EvaluatorLogEvent
	logger := EvaluatorLoggerFunc(func(event EvaluatorLogEvent) {
		events = append(events, event)
	})
	evaluator := NewExprEvaluator(WithEvaluatorLogger(logger))

	ctx := RuleContext{
		Snapshot: map[string]any{"ok": true, "n": 1},
		Metadata: map[string]any{"depth": 3},
	}
	if _, err := evaluator.Evaluate(ctx, "ok"); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if _, err := evaluator.Evaluate(RuleContext{}, ""); err == nil {
		t.Fatalf("expected empty expression to fail")
	}

	if len(events) != 2 {
		t.Fatalf("expected two log events, got %d", len(events))
	}
	if events[0].Engine != EngineExpr || events[0].Expr != "ok" || events[0].Failed() {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
	if events[0].Variables != 2 || events[0].Metadata["depth"] != 3 {
		t.Fatalf("expected rule context on the event, got %+v", events[0])
	}
	if !events[1].Failed() || !errors.Is(events[1].Err, ErrEmptyExpression) {
		t.Fatalf("expected second event to carry the failure, got %v", events[1].Err)
	}
}

func TestNewEvaluatorSelectsEngine(t *testing.T) {
	for _, engine := range []string{"", "expr", "CEL", " cel "} {
		evaluator, err := NewEvaluator(engine)
		if err != nil {
			t.Fatalf("engine %q: %v", engine, err)
		}
		if evaluator == nil {
			t.Fatalf("engine %q: nil evaluator", engine)
		}
	}

	if _, err := NewEvaluator("lua"); !errors.Is(err, ErrUnknownEngine) {
		t.Fatalf("expected ErrUnknownEngine, got %v", err)
	}

	evaluator, err := NewEvaluator(EngineJS)
	if JSAvailable() {
		if err != nil || evaluator == nil {
			t.Fatalf("expected js evaluator, got %v", err)
		}
	} else {
		if !errors.Is(err, ErrEngineUnavailable) {
			t.Fatalf("expected ErrEngineUnavailable, got %v", err)
		}
		if NewJSEvaluator() != nil {
			t.Fatalf("expected the js stub constructor to return nil")
		}
	}
}

func TestTruthyRejectsNonBoolean(t *testing.T) {
	if _, err := Truthy(int64(1)); !errors.Is(err, ErrNotBoolean) {
		t.Fatalf("expected ErrNotBoolean, got %v", err)
	}
	if ok, err := Truthy(true); err != nil || !ok {
		t.Fatalf("expected true, got %v (%v)", ok, err)
	}
}
