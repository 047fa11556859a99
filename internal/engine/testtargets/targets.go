// Package testtargets declares the targets that restore, build and run the test suite.
package testtargets

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"
	"go.trai.ch/hostbuild/internal/core/domain"
	"go.trai.ch/hostbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// Target names.
const (
	TargetInit              = "Init"
	TargetRestoreTestAssets = "RestoreTestAssets"
	TargetRestoreTests      = "RestoreTests"
	TargetBuildTests        = "BuildTests"
	TargetRunTests          = "RunTests"
	TargetTest              = "Test"
)

// DefaultTarget is run when no target is named.
const DefaultTarget = TargetTest

// TestsFailedMessage is the result message of RunTests when any project fails.
const TestsFailedMessage = "Tests failed!"

// EnvTestArtifacts names the directory test runs write extra artifacts to.
const EnvTestArtifacts = "TEST_ARTIFACTS"

// Deps are the collaborators the target bodies call out to.
type Deps struct {
	Runner      ports.ProcessRunner
	FileSystem  ports.FileSystem
	Hasher      ports.TreeHasher
	Environment ports.EnvironmentFactory
}

// Targets holds the test orchestration target bodies.
type Targets struct {
	deps     Deps
	cfg      domain.Config
	platform domain.Platform
}

// New creates the test targets for cfg on the current platform.
func New(cfg *domain.Config, deps Deps) *Targets {
	c := *cfg
	c.TestProjects = slices.Clone(cfg.TestProjects)
	c.WindowsTestProjects = slices.Clone(cfg.WindowsTestProjects)
	c.TraitExclusions = slices.Clone(cfg.TraitExclusions)
	return &Targets{
		deps:     deps,
		cfg:      c,
		platform: domain.CurrentPlatform(),
	}
}

// Register declares the test targets on reg.
func (t *Targets) Register(reg *domain.Registry) error {
	targets := []struct {
		name string
		deps []string
		body domain.Body
		desc string
	}{
		{TargetInit, nil, t.Init, "Prepare settings and output directories"},
		{TargetRestoreTestAssets, nil, t.RestoreTestAssets, "Restore packages for the test assets"},
		{TargetRestoreTests, nil, t.RestoreTests, "Restore packages for the test projects"},
		{TargetBuildTests, nil, t.BuildTests, "Build every test project"},
		{TargetRunTests, nil, t.RunTests, "Stage test assets and run every test project"},
		{
			TargetTest,
			[]string{TargetInit, TargetRestoreTestAssets, TargetRestoreTests, TargetBuildTests, TargetRunTests},
			t.Test,
			"Restore, build and run the test suite",
		},
	}

	for _, target := range targets {
		if err := reg.Register(target.name, target.deps, target.body, domain.WithDescription(target.desc)); err != nil {
			return err
		}
	}
	return nil
}

// Projects returns the test projects for the current platform.
func (t *Targets) Projects() []string {
	return GetTestProjects(t.platform, t.cfg.TestProjects, t.cfg.WindowsTestProjects)
}

// Init fills in default settings and prepares the output directories.
func (t *Targets) Init(_ context.Context, bc *domain.BuildContext) domain.Result {
	if bc.Configuration() == "" {
		bc.Set(domain.SettingConfiguration, t.cfg.Configuration)
	}
	if _, ok := bc.Get(domain.SettingTestPackageVersionSuffix); !ok {
		bc.Set(domain.SettingTestPackageVersionSuffix, t.cfg.TestPackageVersionSuffix)
	}
	suffix, _ := bc.Get(domain.SettingTestPackageVersionSuffix)

	bc.Info("Platform: " + t.platform.String())
	bc.Info("Configuration: " + bc.Configuration())
	bc.Info("Test package version suffix: " + suffix)

	exists, err := t.deps.FileSystem.Exists(t.cfg.Layout.RepoRoot)
	if err != nil {
		return bc.Failed(err.Error())
	}
	if !exists {
		return bc.Failed(zerr.With(zerr.Wrap(domain.ErrRepoRootNotFound, ""), "path", t.cfg.Layout.RepoRoot).Error())
	}

	for _, dir := range []string{t.cfg.Layout.TestOutput, t.cfg.Layout.TestArtifacts} {
		if err := t.deps.FileSystem.MkdirAll(dir); err != nil {
			return bc.Failed(err.Error())
		}
	}

	return bc.Success()
}

// RestoreTestAssets restores packages for <repoRoot>/TestAssets.
func (t *Targets) RestoreTestAssets(ctx context.Context, bc *domain.BuildContext) domain.Result {
	return t.restore(ctx, bc, t.cfg.Layout.TestAssetsDir())
}

// RestoreTests restores packages for <repoRoot>/test.
func (t *Targets) RestoreTests(ctx context.Context, bc *domain.BuildContext) domain.Result {
	return t.restore(ctx, bc, t.cfg.Layout.TestDir())
}

func (t *Targets) restore(ctx context.Context, bc *domain.BuildContext, dir string) domain.Result {
	bc.Info("Cleaning bin and obj under " + dir)
	if err := t.deps.FileSystem.CleanBinObj(dir); err != nil {
		return bc.Failed(err.Error())
	}

	cmd := t.cfg.Toolchain.Restore("--verbosity", "verbose")
	cmd.Dir = dir
	if _, err := t.run(ctx, cmd); err != nil {
		return bc.Failed(err.Error())
	}
	return bc.Success()
}

// BuildTests builds each test project, stopping at the first failure.
func (t *Targets) BuildTests(ctx context.Context, bc *domain.BuildContext) domain.Result {
	configuration, err := bc.Require(domain.SettingConfiguration)
	if err != nil {
		return bc.Failed(err.Error())
	}

	for _, project := range t.Projects() {
		bc.Info("Building tests: " + project)
		cmd := t.cfg.Toolchain.Build("--configuration", configuration)
		cmd.Dir = t.cfg.Layout.TestProjectDir(project)
		if _, err := t.run(ctx, cmd); err != nil {
			return bc.Failed(err.Error())
		}
	}
	return bc.Success()
}

// projectFailure is one failing test project.
type projectFailure struct {
	project string
	err     error
}

func (e *projectFailure) Error() string {
	return e.project + ": " + e.err.Error()
}

func (e *projectFailure) Unwrap() error {
	return e.err
}

// RunTests stages the test project templates, then runs every test project.
// Unlike BuildTests it keeps going after a failure and reports all failing projects.
func (t *Targets) RunTests(ctx context.Context, bc *domain.BuildContext) domain.Result {
	configuration, err := bc.Require(domain.SettingConfiguration)
	if err != nil {
		return bc.Failed(err.Error())
	}

	if err := t.stage(bc); err != nil {
		return bc.Failed(err.Error())
	}

	bundle, err := t.deps.Environment.GetEnvironment(ctx, t.cfg.VsVars)
	if err != nil {
		return bc.Failed(err.Error())
	}
	env := maps.Clone(bundle)
	if env == nil {
		env = make(map[string]string, 1)
	}
	// PATH comes from the live environment with BinPath prepended, never from the bundle.
	maps.DeleteFunc(env, func(k, _ string) bool { return strings.EqualFold(k, "PATH") })
	env[EnvTestArtifacts] = t.cfg.Layout.TestArtifacts

	var failures *multierror.Error
	for _, project := range t.Projects() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return bc.Failed(zerr.Wrap(ctxErr, domain.ErrBuildCancelled.Error()).Error())
		}
		bc.Info("Running tests: " + project)
		cmd := t.cfg.Toolchain.Test(testArgs(configuration, project, t.cfg.TraitExclusions)...)
		cmd.Dir = t.cfg.Layout.TestProjectDir(project)
		cmd.Env = env
		if t.cfg.Toolchain.BinPath != "" {
			cmd.PrependPath = []string{t.cfg.Toolchain.BinPath}
		}
		if _, err := t.run(ctx, cmd); err != nil {
			failures = multierror.Append(failures, &projectFailure{project: project, err: err})
		}
	}

	if failures.ErrorOrNil() == nil {
		return bc.Success()
	}

	for _, err := range failures.Errors {
		var failure *projectFailure
		if errors.As(err, &failure) {
			bc.Error(failure.project + " failed")
		}
	}
	return bc.Failed(TestsFailedMessage)
}

// stage replaces <testOutput>/TestProjects with a fresh copy of the templates.
func (t *Targets) stage(bc *domain.BuildContext) error {
	src := t.cfg.Layout.TestProjectsSourceDir()
	dst := t.cfg.Layout.TestProjectsStagingDir()

	fsys := t.deps.FileSystem
	if err := fsys.RemoveAll(dst); err != nil {
		return zerr.Wrap(err, domain.ErrStagingFailed.Error())
	}
	if err := fsys.MkdirAll(dst); err != nil {
		return zerr.Wrap(err, domain.ErrStagingFailed.Error())
	}
	if err := fsys.CopyTree(src, dst); err != nil {
		return zerr.Wrap(err, domain.ErrStagingFailed.Error())
	}

	digest, err := t.deps.Hasher.HashTree(dst)
	if err != nil {
		bc.Warn("could not hash staged test projects: " + err.Error())
		return nil
	}
	bc.Info(fmt.Sprintf("Staged %s (digest %s)", dst, digest))
	return nil
}

// Test does no work itself; its dependencies are the test pipeline.
func (t *Targets) Test(_ context.Context, bc *domain.BuildContext) domain.Result {
	return bc.Success()
}

// run executes cmd, streaming its output into the current telemetry vertex.
func (t *Targets) run(ctx context.Context, cmd domain.Command) (int, error) {
	if v, ok := ports.VertexFromContext(ctx); ok {
		cmd.Stdout = v.Stdout()
		cmd.Stderr = v.Stderr()
	}
	return t.deps.Runner.Run(ctx, cmd)
}
