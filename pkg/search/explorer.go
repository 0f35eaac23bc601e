package search

import (
	"context"
	"fmt"

	"github.com/goliatone/go-trail"
	"github.com/goliatone/go-trail/pkg/rules"
)

// Solution maps each variable name to its assigned value.
type Solution map[string]int

// Stats summarises one Solve run. Nodes counts tried assignments,
// Failures those rejected by a constraint, and MaxDepth the deepest
// checkpoint level reached.
type Stats struct {
	Nodes     int `json:"nodes"`
	Failures  int `json:"failures"`
	Solutions int `json:"solutions"`
	MaxDepth  int `json:"max_depth"`
}

type constraint struct {
	expr string
	vars []int
	rule rules.CompiledRule
}

// Explorer runs depth-first search over a Problem. It owns its manager and
// is not safe for concurrent use; run one Explorer per goroutine.
type Explorer struct {
	problem      Problem
	maxSolutions int

	manager  *trail.Manager
	values   []trail.Handle[int]
	assigned []trail.Handle[bool]
	count    trail.Handle[uint]

	byVar [][]*constraint
	final []*constraint
}

// NewExplorer validates problem, compiles its constraints and registers one
// reversible value and one assigned flag per variable.
func NewExplorer(problem Problem, opts ...Option) (*Explorer, error) {
	if err := problem.Validate(); err != nil {
		return nil, err
	}
	cfg := applyOptions(opts)

	evaluator := cfg.evaluator
	if evaluator == nil {
		var err error
		evaluator, err = rules.NewEvaluator(problem.Engine, cfg.evaluatorOpts...)
		if err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}
	}

	e := &Explorer{
		problem:      problem,
		maxSolutions: problem.MaxSolutions,
		manager:      trail.New(cfg.managerOpts...),
		byVar:        make([][]*constraint, len(problem.Variables)),
	}
	if cfg.hasMax {
		e.maxSolutions = cfg.maxSolutions
	}

	index := make(map[string]int, len(problem.Variables))
	names := make([]string, len(problem.Variables))
	for i, v := range problem.Variables {
		index[v.Name] = i
		names[i] = v.Name
		e.values = append(e.values, trail.Manage(e.manager, v.Domain[0]))
		e.assigned = append(e.assigned, trail.Manage(e.manager, false))
	}
	e.count = trail.Manage(e.manager, uint(0))

	for _, c := range problem.Constraints {
		rule, err := evaluator.Compile(c.Expr, rules.WithVariables(names...))
		if err != nil {
			return nil, fmt.Errorf("search: compile constraint %q: %w", c.Expr, err)
		}
		compiled := &constraint{expr: c.Expr, rule: rule}
		if len(c.Vars) == 0 {
			e.final = append(e.final, compiled)
			continue
		}
		seen := map[int]struct{}{}
		for _, name := range c.Vars {
			i := index[name]
			if _, dup := seen[i]; dup {
				continue
			}
			seen[i] = struct{}{}
			compiled.vars = append(compiled.vars, i)
			e.byVar[i] = append(e.byVar[i], compiled)
		}
	}
	return e, nil
}

// Manager exposes the explorer's state container for inspection.
func (e *Explorer) Manager() *trail.Manager {
	return e.manager
}

// Solve enumerates assignments in variable order and calls visit for each
// solution. Returning false from visit stops the search. The manager is
// rewound to its starting depth before Solve returns, including on error.
func (e *Explorer) Solve(ctx context.Context, visit func(Solution) bool) (stats Stats, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	base := e.manager.Depth()
	defer func() {
		if rerr := e.manager.RestoreTo(base); rerr != nil && err == nil {
			err = rerr
		}
	}()
	_, err = e.branch(ctx, 0, base, visit, &stats)
	return stats, err
}

// All collects every solution, up to the configured maximum.
func (e *Explorer) All(ctx context.Context) ([]Solution, Stats, error) {
	var solutions []Solution
	stats, err := e.Solve(ctx, func(s Solution) bool {
		solutions = append(solutions, s)
		return true
	})
	return solutions, stats, err
}

func (e *Explorer) branch(ctx context.Context, next, base int, visit func(Solution) bool, stats *Stats) (bool, error) {
	if err := ctx.Err(); err != nil {
		return true, err
	}
	if next == len(e.problem.Variables) {
		solution, err := e.solution()
		if err != nil {
			return true, err
		}
		stats.Solutions++
		if visit != nil && !visit(solution) {
			return true, nil
		}
		return e.maxSolutions > 0 && stats.Solutions >= e.maxSolutions, nil
	}

	for _, value := range e.problem.Variables[next].Domain {
		depth := e.manager.Save() - base
		if depth > stats.MaxDepth {
			stats.MaxDepth = depth
		}
		stats.Nodes++

		stop := false
		consistent, err := e.assign(next, value)
		switch {
		case err != nil:
		case consistent:
			stop, err = e.branch(ctx, next+1, base, visit, stats)
		default:
			stats.Failures++
		}
		if rerr := e.manager.Restore(); rerr != nil && err == nil {
			err = rerr
		}
		if err != nil || stop {
			return true, err
		}
	}
	return false, nil
}

// assign writes value into variable i and checks every constraint that just
// became fully assigned.
func (e *Explorer) assign(i, value int) (bool, error) {
	if _, err := trail.Set(e.manager, e.values[i], value); err != nil {
		return false, err
	}
	if _, err := trail.Set(e.manager, e.assigned[i], true); err != nil {
		return false, err
	}
	count, err := trail.Increment(e.manager, e.count)
	if err != nil {
		return false, err
	}

	var pending []*constraint
	for _, c := range e.byVar[i] {
		ready, err := e.ready(c)
		if err != nil {
			return false, err
		}
		if ready {
			pending = append(pending, c)
		}
	}
	if int(count) == len(e.problem.Variables) {
		pending = append(pending, e.final...)
	}
	if len(pending) == 0 {
		return true, nil
	}

	snapshot, err := e.snapshot()
	if err != nil {
		return false, err
	}
	ctx := rules.RuleContext{
		Snapshot: snapshot,
		Metadata: map[string]any{
			"assigned": int(count),
			"depth":    e.manager.Depth(),
		},
	}
	for _, c := range pending {
		result, err := c.rule.Evaluate(ctx)
		if err != nil {
			return false, fmt.Errorf("search: constraint %q: %w", c.expr, err)
		}
		ok, err := rules.Truthy(result)
		if err != nil {
			return false, fmt.Errorf("search: constraint %q: %w", c.expr, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (e *Explorer) ready(c *constraint) (bool, error) {
	for _, i := range c.vars {
		assigned, err := trail.Get(e.manager, e.assigned[i])
		if err != nil {
			return false, err
		}
		if !assigned {
			return false, nil
		}
	}
	return true, nil
}

func (e *Explorer) snapshot() (map[string]any, error) {
	snapshot := make(map[string]any, len(e.values))
	for i, h := range e.values {
		value, err := trail.Get(e.manager, h)
		if err != nil {
			return nil, err
		}
		snapshot[e.problem.Variables[i].Name] = value
	}
	return snapshot, nil
}

func (e *Explorer) solution() (Solution, error) {
	solution := make(Solution, len(e.values))
	for i, h := range e.values {
		value, err := trail.Get(e.manager, h)
		if err != nil {
			return nil, err
		}
		solution[e.problem.Variables[i].Name] = value
	}
	return solution, nil
}
