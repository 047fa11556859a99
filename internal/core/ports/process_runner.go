// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/hostbuild/internal/core/domain"
)

// ProcessRunner executes external commands.
//
//go:generate go run go.uber.org/mock/mockgen -source=process_runner.go -destination=mocks/mock_process_runner.go -package=mocks
type ProcessRunner interface {
	// Run executes cmd and blocks until it exits.
	//
	// It returns the process exit code. The error is nil only for a zero exit;
	// a non-zero exit yields domain.ErrCommandFailed with the code, a process
	// that could not be started yields domain.ErrCommandStartFailed and -1.
	Run(ctx context.Context, cmd domain.Command) (int, error)
}
