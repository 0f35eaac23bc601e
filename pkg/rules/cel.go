package rules

import (
	"sort"
	"strings"
	"time"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
)

type celProgram struct {
	env     *celgo.Env
	program celgo.Program
}

type celEvaluator struct {
	evaluatorConfig
}

// NewCELEvaluator constructs an Evaluator backed by cel-go. CEL type-checks
// at compile time, so every snapshot key is declared as a dyn variable.
func NewCELEvaluator(opts ...EvaluatorOption) Evaluator {
	return &celEvaluator{evaluatorConfig: applyEvaluatorOptions(opts)}
}

func (e *celEvaluator) Evaluate(ctx RuleContext, expression string) (result any, err error) {
	start := time.Now()
	defer func() { e.observe(EngineCEL, expression, ctx, start, err) }()

	if expression == "" {
		return nil, wrapEvaluatorError(EngineCEL, ErrEmptyExpression)
	}
	ctx = ctx.withDefaults()
	program, err := e.loadOrCompile(expression, snapshotKeys(ctx.Snapshot))
	if err != nil {
		return nil, err
	}
	return e.run(program, expression, ctx)
}

// Compile defers compilation to the first evaluation unless WithVariables
// declares the snapshot keys up front.
func (e *celEvaluator) Compile(expression string, opts ...CompileOption) (CompiledRule, error) {
	if expression == "" {
		return nil, wrapEvaluatorError(EngineCEL, ErrEmptyExpression)
	}
	cfg := applyCompileOptions(opts)
	rule := &celCompiledRule{
		evaluator:  e,
		expression: expression,
	}
	if len(cfg.variables) > 0 {
		program, err := e.loadOrCompile(expression, normalizeVariables(cfg.variables))
		if err != nil {
			return nil, err
		}
		rule.program = program
	}
	return rule, nil
}

func (e *celEvaluator) loadOrCompile(expression string, variables []string) (*celProgram, error) {
	key := EngineCEL + ":" + strings.Join(variables, ",") + ":" + expression
	if cached, ok := e.cached(key); ok {
		if program, ok := cached.(*celProgram); ok {
			return program, nil
		}
	}

	env, err := e.buildEnv(variables)
	if err != nil {
		return nil, wrapEvaluatorError(EngineCEL, err)
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, wrapEvaluationError(EngineCEL, expression, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, wrapEvaluationError(EngineCEL, expression, err)
	}

	bundle := &celProgram{
		env:     env,
		program: prg,
	}
	e.store(key, bundle)
	return bundle, nil
}

func (e *celEvaluator) buildEnv(variables []string) (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("args", celgo.DynType),
		celgo.Variable("metadata", celgo.DynType),
	}
	if e.registry != nil {
		opts = append(opts, celgo.Function("call", celgo.Overload(
			"call_dyn",
			[]*celgo.Type{celgo.StringType, celgo.ListType(celgo.DynType)},
			celgo.DynType,
			celgo.BinaryBinding(e.callBinding()),
		)))
	}
	for _, name := range variables {
		if name == "args" || name == "metadata" {
			continue
		}
		opts = append(opts, celgo.Variable(name, celgo.DynType))
	}
	return celgo.NewEnv(opts...)
}

func (e *celEvaluator) run(program *celProgram, expression string, ctx RuleContext) (any, error) {
	out, _, err := program.program.Eval(activation(ctx))
	if err != nil {
		return nil, wrapEvaluationError(EngineCEL, expression, err)
	}
	return out.Value(), nil
}

func activation(ctx RuleContext) map[string]any {
	vars := make(map[string]any, len(ctx.Snapshot)+2)
	for key, value := range ctx.Snapshot {
		vars[key] = value
	}
	vars["args"] = ctx.Args
	vars["metadata"] = ctx.Metadata
	return vars
}

type celCompiledRule struct {
	evaluator  *celEvaluator
	expression string
	program    *celProgram
}

func (r *celCompiledRule) Evaluate(ctx RuleContext) (result any, err error) {
	if r.program == nil {
		return r.evaluator.Evaluate(ctx, r.expression)
	}
	start := time.Now()
	defer func() { r.evaluator.observe(EngineCEL, r.expression, ctx, start, err) }()
	return r.evaluator.run(r.program, r.expression, ctx.withDefaults())
}

// callBinding dispatches call("name", [args...]) to the registry.
func (e *celEvaluator) callBinding() func(ref.Val, ref.Val) ref.Val {
	return func(nameVal, argsVal ref.Val) ref.Val {
		name, ok := nameVal.Value().(string)
		if !ok {
			return types.NewErr("rules: call name must be string")
		}
		var args []any
		if list, ok := argsVal.(traits.Lister); ok {
			size, _ := list.Size().Value().(int64)
			args = make([]any, 0, size)
			for i := int64(0); i < size; i++ {
				args = append(args, list.Get(types.Int(i)).Value())
			}
		}
		result, err := e.registry.Call(name, args...)
		if err != nil {
			return types.NewErr("%s", err.Error())
		}
		if result == nil {
			return types.NullValue
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
}

func snapshotKeys(snapshot map[string]any) []string {
	keys := make([]string, 0, len(snapshot))
	for key := range snapshot {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func normalizeVariables(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
