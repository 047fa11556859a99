package domain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hostbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

func noop(_ context.Context, bc *domain.BuildContext) domain.Result {
	return bc.Success()
}

func names(targets []domain.Target) []string {
	out := make([]string, len(targets))
	for i, t := range targets {
		out[i] = t.Name
	}
	return out
}

func TestRegistry_Register(t *testing.T) {
	r := domain.NewRegistry()

	if err := r.Register("build", nil, noop); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := r.Register("build", nil, noop)
	if err == nil {
		t.Fatal("expected error when registering duplicate target, got nil")
	}

	zErr, ok := err.(*zerr.Error)
	if !ok {
		t.Fatalf("expected *zerr.Error, got %T", err)
	}
	if name, ok := zErr.Metadata()["target"].(string); !ok || name != "build" {
		t.Errorf("expected metadata target=build, got %v", zErr.Metadata()["target"])
	}
	require.ErrorIs(t, err, domain.ErrTargetAlreadyExists)
	assert.Equal(t, "target already exists", err.Error())
}

func TestRegistry_Register_EmptyName(t *testing.T) {
	r := domain.NewRegistry()
	err := r.Register("  ", nil, noop)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid target name")
}

func TestRegistry_Register_Description(t *testing.T) {
	r := domain.NewRegistry()
	require.NoError(t, r.Register("Test", nil, noop, domain.WithDescription("runs everything")))

	got, ok := r.Get("Test")
	require.True(t, ok)
	assert.Equal(t, "runs everything", got.Description)
}

func TestRegistry_Resolve(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(r *domain.Registry)
		target string
		want   []string
	}{
		{
			name: "single target",
			setup: func(r *domain.Registry) {
				_ = r.Register("A", nil, noop)
			},
			target: "A",
			want:   []string{"A"},
		},
		{
			name: "shared dependency resolved once and first",
			setup: func(r *domain.Registry) {
				_ = r.Register("A", nil, noop)
				_ = r.Register("B", []string{"A"}, noop)
				_ = r.Register("T", []string{"A", "B"}, noop)
			},
			target: "T",
			want:   []string{"A", "B", "T"},
		},
		{
			name: "declared order preserved",
			setup: func(r *domain.Registry) {
				_ = r.Register("C", nil, noop)
				_ = r.Register("B", nil, noop)
				_ = r.Register("A", nil, noop)
				_ = r.Register("T", []string{"B", "A", "C"}, noop)
			},
			target: "T",
			want:   []string{"B", "A", "C", "T"},
		},
		{
			name: "diamond",
			setup: func(r *domain.Registry) {
				_ = r.Register("D", nil, noop)
				_ = r.Register("B", []string{"D"}, noop)
				_ = r.Register("C", []string{"D"}, noop)
				_ = r.Register("A", []string{"B", "C"}, noop)
			},
			target: "A",
			want:   []string{"D", "B", "C", "A"},
		},
		{
			name: "dependency registered after dependent",
			setup: func(r *domain.Registry) {
				_ = r.Register("T", []string{"Init"}, noop)
				_ = r.Register("Init", nil, noop)
			},
			target: "T",
			want:   []string{"Init", "T"},
		},
		{
			name: "unrelated targets excluded",
			setup: func(r *domain.Registry) {
				_ = r.Register("A", nil, noop)
				_ = r.Register("X", nil, noop)
				_ = r.Register("T", []string{"A"}, noop)
			},
			target: "T",
			want:   []string{"A", "T"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := domain.NewRegistry()
			tt.setup(r)

			got, err := r.Resolve(tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestRegistry_Resolve_Errors(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(r *domain.Registry)
		target      string
		errContains string
		sentinel    error
		metaKey     string
		metaValue   string
	}{
		{
			name:        "unknown target",
			setup:       func(_ *domain.Registry) {},
			target:      "nope",
			errContains: "target not found",
			sentinel:    domain.ErrTargetNotFound,
			metaKey:     "target",
			metaValue:   "nope",
		},
		{
			name: "self cycle",
			setup: func(r *domain.Registry) {
				_ = r.Register("A", []string{"A"}, noop)
			},
			target:      "A",
			errContains: "cycle detected",
			sentinel:    domain.ErrCycleDetected,
			metaKey:     "cycle",
			metaValue:   "A -> A",
		},
		{
			name: "two node cycle",
			setup: func(r *domain.Registry) {
				_ = r.Register("A", []string{"B"}, noop)
				_ = r.Register("B", []string{"A"}, noop)
			},
			target:      "A",
			errContains: "cycle detected",
			sentinel:    domain.ErrCycleDetected,
			metaKey:     "cycle",
			metaValue:   "A -> B -> A",
		},
		{
			name: "cycle below root",
			setup: func(r *domain.Registry) {
				_ = r.Register("T", []string{"A"}, noop)
				_ = r.Register("A", []string{"B"}, noop)
				_ = r.Register("B", []string{"C"}, noop)
				_ = r.Register("C", []string{"A"}, noop)
			},
			target:      "T",
			errContains: "cycle detected",
			sentinel:    domain.ErrCycleDetected,
			metaKey:     "cycle",
			metaValue:   "A -> B -> C -> A",
		},
		{
			name: "missing dependency",
			setup: func(r *domain.Registry) {
				_ = r.Register("T", []string{"Ghost"}, noop)
			},
			target:      "T",
			errContains: "missing dependency",
			sentinel:    domain.ErrMissingDependency,
			metaKey:     "dependency",
			metaValue:   "Ghost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := domain.NewRegistry()
			tt.setup(r)

			got, err := r.Resolve(tt.target)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.Contains(t, err.Error(), tt.errContains)
			require.ErrorIs(t, err, tt.sentinel)

			if tt.metaKey == "" {
				return
			}
			zErr, ok := err.(*zerr.Error)
			require.True(t, ok, "expected *zerr.Error, got %T", err)
			assert.Equal(t, tt.metaValue, zErr.Metadata()[tt.metaKey])
		})
	}
}

func TestRegistry_Validate(t *testing.T) {
	r := domain.NewRegistry()
	require.NoError(t, r.Register("A", nil, noop))
	require.NoError(t, r.Register("B", []string{"A"}, noop))
	require.NoError(t, r.Validate())

	require.NoError(t, r.Register("C", []string{"D"}, noop))
	err := r.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing dependency")
}

func TestRegistry_Targets_DeclarationOrder(t *testing.T) {
	r := domain.NewRegistry()
	for _, n := range []string{"Init", "RestoreTests", "Test"} {
		require.NoError(t, r.Register(n, nil, noop))
	}

	assert.Equal(t, []string{"Init", "RestoreTests", "Test"}, names(r.Targets()))
	assert.Equal(t, 3, r.Len())
}

func TestRegistry_Register_CopiesDependencies(t *testing.T) {
	r := domain.NewRegistry()
	deps := []string{"A"}
	require.NoError(t, r.Register("A", nil, noop))
	require.NoError(t, r.Register("T", deps, noop))
	deps[0] = "mutated"

	got, err := r.Resolve("T")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "T"}, names(got))
}
