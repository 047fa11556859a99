// Package config provides the configuration loader for hostbuild.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/hostbuild/internal/core/domain"
	"go.trai.ch/hostbuild/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new configuration loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads the configuration file at path. A missing file yields the
// defaults, resolved against the file's directory.
func (l *Loader) Load(path string) (*domain.Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var hostfile Hostfile
	data, err := os.ReadFile(absPath) //nolint:gosec // path is provided by user
	switch {
	case errors.Is(err, fs.ErrNotExist):
		l.logger.Debug("no config file at " + absPath + ", using defaults")
	case err != nil:
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", absPath)
	default:
		if err := yaml.Unmarshal(data, &hostfile); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", absPath)
		}
	}

	return Resolve(&hostfile, filepath.Dir(absPath))
}

// Resolve validates hostfile, applies defaults and makes relative paths absolute against baseDir.
func Resolve(hostfile *Hostfile, baseDir string) (*domain.Config, error) {
	if hostfile.Version != "" && hostfile.Version != currentVersion {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedConfigVersion, ""), "version", hostfile.Version)
	}

	configuration := orDefault(hostfile.Configuration, domain.ConfigurationDebug)
	if !domain.ValidConfiguration(configuration) {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfiguration, ""), "configuration", configuration)
	}

	suffix := defaultTestPackageVersionSuffix
	if hostfile.TestPackageVersionSuffix != nil {
		suffix = *hostfile.TestPackageVersionSuffix
	}

	testProjects := hostfile.TestProjects
	if len(testProjects) == 0 {
		testProjects = defaultTestProjects
	}

	traits := hostfile.TraitExclusions
	if len(traits) == 0 {
		traits = []string{domain.DefaultTraitExclusion}
	}

	cfg := &domain.Config{
		Configuration: configuration,
		Layout: domain.Layout{
			RepoRoot:      resolvePath(baseDir, orDefault(hostfile.RepoRoot, defaultRepoRoot)),
			TestOutput:    resolvePath(baseDir, orDefault(hostfile.OutputDir, defaultOutputDir)),
			TestArtifacts: resolvePath(baseDir, orDefault(hostfile.ArtifactsDir, defaultArtifactsDir)),
		},
		Toolchain: domain.Toolchain{
			Path:    resolveExecutable(baseDir, orDefault(hostfile.Toolchain.Path, defaultToolchainPath)),
			BinPath: resolvePath(baseDir, orDefault(hostfile.Toolchain.BinPath, defaultToolchainBinPath)),
		},
		TestPackageVersionSuffix: suffix,
		TestProjects:             slices.Clone(testProjects),
		WindowsTestProjects:      slices.Clone(hostfile.WindowsTestProjects),
		TraitExclusions:          slices.Clone(traits),
		VsVars: domain.VsVarsConfig{
			Arch: orDefault(hostfile.VsVars.Arch, defaultVsVarsArch),
		},
	}
	if hostfile.VsVars.Script != "" {
		cfg.VsVars.Script = resolvePath(baseDir, hostfile.VsVars.Script)
	}

	return cfg, nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func resolvePath(baseDir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(baseDir, p)
}

// resolveExecutable leaves bare command names for PATH lookup.
func resolveExecutable(baseDir, p string) string {
	if !strings.ContainsAny(p, `/\`) {
		return p
	}
	return resolvePath(baseDir, p)
}
