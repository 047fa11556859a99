package ports

import (
	"context"

	"go.trai.ch/hostbuild/internal/core/domain"
)

// EnvironmentFactory produces the platform variable bundle applied to test runs.
//
// On Windows this is the developer command prompt environment; elsewhere it is
// typically empty.
//
//go:generate go run go.uber.org/mock/mockgen -source=environment.go -destination=mocks/mock_environment.go -package=mocks
type EnvironmentFactory interface {
	// GetEnvironment returns the variables to overlay on the inherited environment
	// for the developer environment described by vs.
	GetEnvironment(ctx context.Context, vs domain.VsVarsConfig) (map[string]string, error)
}
