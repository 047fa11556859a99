package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/hostbuild/internal/core/domain"
)

func TestToolchain_Commands(t *testing.T) {
	tc := domain.Toolchain{Path: "dotnet", BinPath: "/opt/dotnet"}

	restore := tc.Restore("--verbosity", "verbose")
	assert.Equal(t, "dotnet", restore.Path)
	assert.Equal(t, []string{"restore", "--verbosity", "verbose"}, restore.Args)
	assert.Equal(t, "dotnet restore --verbosity verbose", restore.String())

	assert.Equal(t, []string{"build", "--configuration", "Debug"}, tc.Build("--configuration", "Debug").Args)
	assert.Equal(t, []string{"test"}, tc.Test().Args)
}

func TestLayout_Paths(t *testing.T) {
	l := domain.Layout{RepoRoot: "/repo", TestOutput: "/out"}

	assert.Equal(t, filepath.Join("/repo", "TestAssets"), l.TestAssetsDir())
	assert.Equal(t, filepath.Join("/repo", "test"), l.TestDir())
	assert.Equal(t, filepath.Join("/repo", "test", "HostActivationTests"), l.TestProjectDir("HostActivationTests"))
	assert.Equal(t, filepath.Join("/repo", "TestAssets", "TestProjects"), l.TestProjectsSourceDir())
	assert.Equal(t, filepath.Join("/out", "TestProjects"), l.TestProjectsStagingDir())
	assert.Equal(t, "HostActivationTests-testResults.xml", domain.TestResultsFile("HostActivationTests"))
}

func TestLayout_DefaultPaths(t *testing.T) {
	assert.Equal(t, filepath.Join(".hostbuild", "runs.json"), domain.DefaultStorePath())
	assert.Equal(t, filepath.Join(".hostbuild", "cache", "environments"), domain.DefaultEnvCachePath())
}

func TestPlatform(t *testing.T) {
	assert.True(t, domain.PlatformWindows.IsWindows())
	assert.False(t, domain.PlatformLinux.IsWindows())
	assert.NotEmpty(t, domain.CurrentPlatform().String())
}

func TestConfig_Settings(t *testing.T) {
	cfg := &domain.Config{Configuration: "Release", TestPackageVersionSuffix: "beta"}
	assert.Equal(t, map[string]string{
		domain.SettingConfiguration:            "Release",
		domain.SettingTestPackageVersionSuffix: "beta",
	}, cfg.Settings())

	assert.True(t, domain.ValidConfiguration("Debug"))
	assert.True(t, domain.ValidConfiguration("Release"))
	assert.False(t, domain.ValidConfiguration("debug"))
}
