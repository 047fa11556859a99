// Package domain contains the core domain models and business logic for the build target graph.
package domain

import "context"

// Body is the unit of work of a target.
type Body func(ctx context.Context, bc *BuildContext) Result

// Target is a named, dependency-ordered unit of build work.
type Target struct {
	Name         string
	Dependencies []string
	Description  string
	Body         Body
}

// TargetOption configures optional Target fields at registration time.
type TargetOption func(*Target)

// WithDescription sets a human-readable description shown by `hostbuild list`.
func WithDescription(desc string) TargetOption {
	return func(t *Target) {
		t.Description = desc
	}
}
