package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hostbuild/internal/adapters/config"
	"go.trai.ch/hostbuild/internal/core/domain"
	"go.trai.ch/hostbuild/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, domain.ConfigFileName)
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return configPath
}

func newLoader(t *testing.T) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	return config.NewLoader(log)
}

func TestLoad_Success(t *testing.T) {
	configPath := writeConfig(t, `
version: "1"
configuration: Release
repoRoot: src
outputDir: out/tests
artifactsDir: /abs/artifacts
toolchain:
  path: tools/dotnet
  binPath: .dotnet
testPackageVersionSuffix: "-beta"
testProjects: [HostActivationTests, Other]
windowsTestProjects: [WinOnly]
traitExclusions: ["category=failing", "category=slow"]
vsvars:
  script: vs/vcvarsall.bat
  arch: x86
`)
	baseDir := filepath.Dir(configPath)

	cfg, err := newLoader(t).Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, domain.ConfigurationRelease, cfg.Configuration)
	assert.Equal(t, filepath.Join(baseDir, "src"), cfg.Layout.RepoRoot)
	assert.Equal(t, filepath.Join(baseDir, "out", "tests"), cfg.Layout.TestOutput)
	assert.Equal(t, filepath.Clean("/abs/artifacts"), cfg.Layout.TestArtifacts)
	assert.Equal(t, filepath.Join(baseDir, "tools", "dotnet"), cfg.Toolchain.Path)
	assert.Equal(t, filepath.Join(baseDir, ".dotnet"), cfg.Toolchain.BinPath)
	assert.Equal(t, "-beta", cfg.TestPackageVersionSuffix)
	assert.Equal(t, []string{"HostActivationTests", "Other"}, cfg.TestProjects)
	assert.Equal(t, []string{"WinOnly"}, cfg.WindowsTestProjects)
	assert.Equal(t, []string{"category=failing", "category=slow"}, cfg.TraitExclusions)
	assert.Equal(t, filepath.Join(baseDir, "vs", "vcvarsall.bat"), cfg.VsVars.Script)
	assert.Equal(t, "x86", cfg.VsVars.Arch)
}

func TestLoad_Defaults(t *testing.T) {
	configPath := writeConfig(t, `version: "1"`)
	baseDir := filepath.Dir(configPath)

	cfg, err := newLoader(t).Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, domain.ConfigurationDebug, cfg.Configuration)
	assert.Equal(t, baseDir, cfg.Layout.RepoRoot)
	assert.Equal(t, filepath.Join(baseDir, "artifacts", "tests"), cfg.Layout.TestOutput)
	assert.Equal(t, filepath.Join(baseDir, "artifacts", "tests", "artifacts"), cfg.Layout.TestArtifacts)
	assert.Equal(t, "dotnet", cfg.Toolchain.Path)
	assert.Equal(t, filepath.Join(baseDir, ".dotnet"), cfg.Toolchain.BinPath)
	assert.Equal(t, "<buildversion>", cfg.TestPackageVersionSuffix)
	assert.Equal(t, []string{"HostActivationTests"}, cfg.TestProjects)
	assert.Empty(t, cfg.WindowsTestProjects)
	assert.Equal(t, []string{domain.DefaultTraitExclusion}, cfg.TraitExclusions)
	assert.Empty(t, cfg.VsVars.Script)
	assert.Equal(t, "x64", cfg.VsVars.Arch)
}

func TestLoad_EmptySuffixIsKept(t *testing.T) {
	configPath := writeConfig(t, `testPackageVersionSuffix: ""`)

	cfg, err := newLoader(t).Load(configPath)
	require.NoError(t, err)
	assert.Empty(t, cfg.TestPackageVersionSuffix)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := newLoader(t).Load(filepath.Join(tmpDir, domain.ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, tmpDir, cfg.Layout.RepoRoot)
	assert.Equal(t, domain.ConfigurationDebug, cfg.Configuration)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantErr  error
		metaKey  string
		metaWant string
	}{
		{
			name:     "invalid configuration",
			content:  "configuration: Profile",
			wantErr:  domain.ErrInvalidConfiguration,
			metaKey:  "configuration",
			metaWant: "Profile",
		},
		{
			name:     "unsupported version",
			content:  `version: "2"`,
			wantErr:  domain.ErrUnsupportedConfigVersion,
			metaKey:  "version",
			metaWant: "2",
		},
		{
			name:    "malformed yaml",
			content: "testProjects: [unclosed",
			wantErr: domain.ErrConfigParseFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := writeConfig(t, tt.content)

			_, err := newLoader(t).Load(configPath)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr.Error())

			if tt.metaKey == "" {
				return
			}
			zErr, ok := err.(*zerr.Error)
			if !ok {
				t.Fatalf("expected *zerr.Error, got %T: %v", err, err)
			}
			assert.Equal(t, tt.metaWant, zErr.Metadata()[tt.metaKey])
		})
	}
}

func TestLoad_UnreadableFile(t *testing.T) {
	// A directory in place of the config file cannot be read.
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, domain.ConfigFileName)
	require.NoError(t, os.Mkdir(configPath, 0o750))

	_, err := newLoader(t).Load(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrConfigReadFailed.Error())
}
