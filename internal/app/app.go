// Package app implements the application layer for hostbuild.
package app

import (
	"context"
	"errors"
	"path/filepath"

	"go.trai.ch/hostbuild/internal/core/domain"
	"go.trai.ch/hostbuild/internal/core/ports"
	"go.trai.ch/hostbuild/internal/engine/runner"
	"go.trai.ch/hostbuild/internal/engine/testtargets"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	processes    ports.ProcessRunner
	fs           ports.FileSystem
	hasher       ports.TreeHasher
	envFactory   ports.EnvironmentFactory
	store        ports.RunRecordStore
	telemetry    ports.Telemetry
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	logger ports.Logger,
	processes ports.ProcessRunner,
	fs ports.FileSystem,
	hasher ports.TreeHasher,
	envFactory ports.EnvironmentFactory,
	store ports.RunRecordStore,
	telemetry ports.Telemetry,
) *App {
	return &App{
		configLoader: loader,
		logger:       logger,
		processes:    processes,
		fs:           fs,
		hasher:       hasher,
		envFactory:   envFactory,
		store:        store,
		telemetry:    telemetry,
	}
}

// RunOptions holds the per-invocation overrides of the config file.
type RunOptions struct {
	// ConfigPath is the path of hostbuild.yaml. Empty means the default file name.
	ConfigPath string
	// Configuration overrides the configured build configuration when set.
	Configuration string
	// RepoRoot overrides the configured repository root when set.
	RepoRoot string
}

// Run executes the requested targets and their dependencies.
// With no target names the default target runs.
func (a *App) Run(ctx context.Context, targetNames []string, opts RunOptions) error {
	// 1. Load the configuration
	cfg, err := a.loadConfig(opts)
	if err != nil {
		return err
	}

	// 2. Build the target graph
	registry, err := a.registry(cfg)
	if err != nil {
		return err
	}

	if len(targetNames) == 0 {
		targetNames = []string{testtargets.DefaultTarget}
	}

	// 3. Run the chain
	r := runner.NewRunner(registry, a.telemetry, a.store, a.logger)
	bc := domain.NewBuildContext(a.logger, cfg.Settings())

	result, runErr := r.RunAll(ctx, targetNames, bc)
	if closeErr := a.telemetry.Close(); closeErr != nil {
		a.logger.Warn("failed to close telemetry: " + closeErr.Error())
	}
	if runErr != nil {
		return zerr.Wrap(runErr, "failed to resolve targets")
	}

	if !result.Success {
		a.logger.Error(result.Err())
		return errors.Join(domain.ErrBuildExecutionFailed, result.Err())
	}

	a.logger.Info("Build succeeded")
	return nil
}

// List returns the registered targets in declaration order.
func (a *App) List(opts RunOptions) ([]domain.Target, error) {
	cfg, err := a.loadConfig(opts)
	if err != nil {
		return nil, err
	}

	registry, err := a.registry(cfg)
	if err != nil {
		return nil, err
	}
	return registry.Targets(), nil
}

// Status returns the last recorded outcome of every target.
func (a *App) Status() ([]domain.RunRecord, error) {
	records, err := a.store.All()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read run records")
	}
	return records, nil
}

// Clean removes the staged test projects and the stored run records.
func (a *App) Clean(opts RunOptions) error {
	cfg, err := a.loadConfig(opts)
	if err != nil {
		return err
	}

	staging := cfg.Layout.TestProjectsStagingDir()
	if err := a.fs.RemoveAll(staging); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove staged test projects"), "path", staging)
	}
	a.logger.Info("Removed " + staging)

	if err := a.store.Clear(); err != nil {
		return zerr.Wrap(err, "failed to clear run records")
	}
	a.logger.Info("Cleared run records")
	return nil
}

func (a *App) loadConfig(opts RunOptions) (*domain.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		path = domain.ConfigFileName
	}

	cfg, err := a.configLoader.Load(path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	if opts.Configuration != "" {
		if !domain.ValidConfiguration(opts.Configuration) {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfiguration, ""), "configuration", opts.Configuration)
		}
		cfg.Configuration = opts.Configuration
	}

	if opts.RepoRoot != "" {
		root, err := filepath.Abs(opts.RepoRoot)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to resolve repository root")
		}
		cfg.Layout.RepoRoot = root
	}

	return cfg, nil
}

func (a *App) registry(cfg *domain.Config) (*domain.Registry, error) {
	targets := testtargets.New(cfg, testtargets.Deps{
		Runner:      a.processes,
		FileSystem:  a.fs,
		Hasher:      a.hasher,
		Environment: a.envFactory,
	})

	registry := domain.NewRegistry()
	if err := targets.Register(registry); err != nil {
		return nil, zerr.Wrap(err, "failed to register targets")
	}
	if err := registry.Validate(); err != nil {
		return nil, zerr.Wrap(err, "invalid target graph")
	}
	return registry, nil
}
