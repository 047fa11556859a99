package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Registry holds the named targets and their declared dependencies.
type Registry struct {
	targets map[string]Target
	order   []string
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		targets: make(map[string]Target),
	}
}

// Register adds a target to the registry.
// It returns an error if a target with the same name already exists.
// Dependencies are not checked here, they may be registered later; see Validate.
func (r *Registry) Register(name string, dependencies []string, body Body, opts ...TargetOption) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidTargetName
	}
	if _, exists := r.targets[name]; exists {
		return zerr.With(zerr.Wrap(ErrTargetAlreadyExists, ""), "target", name)
	}

	t := Target{
		Name:         name,
		Dependencies: slices.Clone(dependencies),
		Body:         body,
	}
	for _, opt := range opts {
		opt(&t)
	}

	r.targets[name] = t
	r.order = append(r.order, name)
	return nil
}

// Get returns the target registered under name.
func (r *Registry) Get(name string) (Target, bool) {
	t, ok := r.targets[name]
	return t, ok
}

// Targets returns all registered targets in declaration order.
func (r *Registry) Targets() []Target {
	out := make([]Target, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.targets[name])
	}
	return out
}

// Len returns the number of registered targets.
func (r *Registry) Len() int {
	return len(r.order)
}

// Resolve returns the execution list for the named target: its dependency
// closure in depth-first post-order, dependencies expanded in declared order,
// each target at most once, the target itself last.
func (r *Registry) Resolve(name string) ([]Target, error) {
	if _, ok := r.targets[name]; !ok {
		return nil, zerr.With(zerr.Wrap(ErrTargetNotFound, ""), "target", name)
	}

	const (
		unvisited = iota
		visiting
		visited
	)

	state := make(map[string]int, len(r.targets))
	var (
		order []Target
		path  []string
	)

	var visit func(n string) error
	visit = func(n string) error {
		state[n] = visiting
		path = append(path, n)

		t := r.targets[n]
		for _, dep := range t.Dependencies {
			if _, ok := r.targets[dep]; !ok {
				return zerr.With(zerr.With(zerr.Wrap(ErrMissingDependency, ""), "dependency", dep), "target", n)
			}
			switch state[dep] {
			case visiting:
				return buildCycleError(path, dep)
			case unvisited:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		state[n] = visited
		path = path[:len(path)-1]
		order = append(order, t)
		return nil
	}

	if err := visit(name); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate resolves every registered target so that missing or cyclic
// dependencies surface before anything executes.
func (r *Registry) Validate() error {
	for _, name := range r.order {
		if _, err := r.Resolve(name); err != nil {
			return err
		}
	}
	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func buildCycleError(path []string, dep string) error {
	start := slices.Index(path, dep)
	if start < 0 {
		start = 0
	}
	cycle := append(slices.Clone(path[start:]), dep)
	return zerr.With(zerr.Wrap(ErrCycleDetected, ""), "cycle", strings.Join(cycle, " -> "))
}
