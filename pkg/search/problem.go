package search

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/goliatone/go-trail/internal/hydrate"
)

// ErrInvalidProblem wraps every validation failure.
var ErrInvalidProblem = errors.New("search: invalid problem")

// Variable is a named unknown ranging over Domain, tried in order.
type Variable struct {
	Name   string `json:"name"`
	Domain []int  `json:"domain"`
}

// Constraint is a predicate over variable names. It is checked as soon as
// every variable in Vars is assigned. An empty Vars defers the check until
// the assignment is complete.
type Constraint struct {
	Expr string   `json:"expr"`
	Vars []string `json:"vars,omitempty"`
}

// Problem is a constraint satisfaction problem. Engine names the rules
// engine used for constraints; MaxSolutions of 0 means unlimited.
type Problem struct {
	Variables    []Variable   `json:"variables"`
	Constraints  []Constraint `json:"constraints,omitempty"`
	Engine       string       `json:"engine,omitempty"`
	MaxSolutions int          `json:"max_solutions,omitempty"`
}

// Validate reports every structural problem found, joined.
func (p Problem) Validate() error {
	var errs []error
	if len(p.Variables) == 0 {
		errs = append(errs, fmt.Errorf("%w: no variables", ErrInvalidProblem))
	}
	names := make(map[string]struct{}, len(p.Variables))
	for i, v := range p.Variables {
		if !isIdentifier(v.Name) {
			errs = append(errs, fmt.Errorf("%w: variable %d has invalid name %q", ErrInvalidProblem, i, v.Name))
		}
		if _, dup := names[v.Name]; dup {
			errs = append(errs, fmt.Errorf("%w: variable %q declared twice", ErrInvalidProblem, v.Name))
		}
		names[v.Name] = struct{}{}
		if len(v.Domain) == 0 {
			errs = append(errs, fmt.Errorf("%w: variable %q has an empty domain", ErrInvalidProblem, v.Name))
		}
	}
	for i, c := range p.Constraints {
		if c.Expr == "" {
			errs = append(errs, fmt.Errorf("%w: constraint %d has no expression", ErrInvalidProblem, i))
		}
		for _, name := range c.Vars {
			if _, ok := names[name]; !ok {
				errs = append(errs, fmt.Errorf("%w: constraint %d references unknown variable %q", ErrInvalidProblem, i, name))
			}
		}
	}
	if p.MaxSolutions < 0 {
		errs = append(errs, fmt.Errorf("%w: max_solutions must not be negative", ErrInvalidProblem))
	}
	return errors.Join(errs...)
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

var problemDecoder = hydrate.NewDecoder[Problem](
	hydrate.WithDisallowUnknownFields[Problem](),
	hydrate.WithPostHook[Problem](func(_ hydrate.Context, p *Problem) error {
		return p.Validate()
	}),
)

// DecodeProblem converts a loosely typed payload into a validated Problem.
func DecodeProblem(payload map[string]any) (Problem, error) {
	return problemDecoder.Decode(hydrate.Context{Source: "search", Name: "problem"}, payload)
}

// ParseProblem decodes a JSON document into a validated Problem.
func ParseProblem(data []byte) (Problem, error) {
	return problemDecoder.DecodeBytes(hydrate.Context{Source: "search", Name: "problem"}, data)
}
