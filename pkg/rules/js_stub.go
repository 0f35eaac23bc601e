//go:build !js_eval

package rules

// NewJSEvaluator returns nil without the js_eval build tag. Check
// JSAvailable before calling it directly, or use NewEvaluator, which
// reports ErrEngineUnavailable instead.
func NewJSEvaluator(opts ...EvaluatorOption) Evaluator {
	_ = applyEvaluatorOptions(opts)
	return nil
}

// JSAvailable reports whether the js engine was compiled in.
func JSAvailable() bool {
	return false
}
