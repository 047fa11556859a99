package vsvars_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hostbuild/internal/adapters/vsvars"
	"go.trai.ch/hostbuild/internal/core/domain"
	"go.trai.ch/hostbuild/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

const setOutput = "**********************************************************************\r\n" +
	"** Visual Studio 2022 Developer Command Prompt v17.0\r\n" +
	"**********************************************************************\r\n" +
	"[vcvarsall.bat] Environment initialized for: 'x64'\r\n" +
	"INCLUDE=C:\\VS\\include\r\n" +
	"Path=C:\\VS\\bin;C:\\Windows\r\n" +
	"VSCMD_ARG_TGT_ARCH=x64\r\n" +
	"EMPTY=\r\n"

func stubPlatform(t *testing.T, p domain.Platform) {
	t.Helper()
	stubs := gostub.Stub(&domain.CurrentPlatform, func() domain.Platform { return p })
	t.Cleanup(stubs.Reset)
}

var vsConfig = domain.VsVarsConfig{Script: `C:\VS\vcvarsall.bat`, Arch: "x64"}

func TestEnvFactory_NonWindowsIsEmpty(t *testing.T) {
	stubPlatform(t, domain.PlatformLinux)
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockProcessRunner(ctrl)

	factory := vsvars.NewEnvFactory(runner, afero.NewMemMapFs(), mocks.NewMockLogger(ctrl), "/cache")
	env, err := factory.GetEnvironment(context.Background(), vsConfig)
	require.NoError(t, err)
	assert.Empty(t, env)
}

func TestEnvFactory_NoScriptIsEmpty(t *testing.T) {
	stubPlatform(t, domain.PlatformWindows)
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockProcessRunner(ctrl)

	factory := vsvars.NewEnvFactory(runner, afero.NewMemMapFs(), mocks.NewMockLogger(ctrl), "/cache")
	env, err := factory.GetEnvironment(context.Background(), domain.VsVarsConfig{Arch: "x64"})
	require.NoError(t, err)
	assert.Empty(t, env)
}

func TestEnvFactory_RunsScriptAndCaches(t *testing.T) {
	stubPlatform(t, domain.PlatformWindows)
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockProcessRunner(ctrl)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()

	runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cmd domain.Command) (int, error) {
			assert.Equal(t, "cmd", cmd.Path)
			assert.Equal(t, []string{"/c", "call", vsConfig.Script, "x64", "&&", "set"}, cmd.Args)
			assert.True(t, cmd.Quiet)
			_, err := cmd.Stdout.Write([]byte(setOutput))
			return 0, err
		}).Times(1)

	mem := afero.NewMemMapFs()
	factory := vsvars.NewEnvFactory(runner, mem, log, "/cache")

	want := map[string]string{
		"INCLUDE":            `C:\VS\include`,
		"Path":               `C:\VS\bin;C:\Windows`,
		"VSCMD_ARG_TGT_ARCH": "x64",
		"EMPTY":              "",
	}

	env, err := factory.GetEnvironment(context.Background(), vsConfig)
	require.NoError(t, err)
	assert.Equal(t, want, env)

	ok, err := afero.Exists(mem, filepath.Join("/cache", vsvars.EnvID(vsConfig)+".json"))
	require.NoError(t, err)
	assert.True(t, ok)

	// Second call is served from the cache; Times(1) above fails on a rerun.
	env, err = factory.GetEnvironment(context.Background(), vsConfig)
	require.NoError(t, err)
	assert.Equal(t, want, env)
}

func TestEnvFactory_ScriptFailure(t *testing.T) {
	stubPlatform(t, domain.PlatformWindows)
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockProcessRunner(ctrl)
	log := mocks.NewMockLogger(ctrl)

	runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(1, zerr.With(zerr.Wrap(domain.ErrCommandFailed, ""), "exit_code", 1))

	factory := vsvars.NewEnvFactory(runner, afero.NewMemMapFs(), log, "/cache")
	_, err := factory.GetEnvironment(context.Background(), vsConfig)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrEnvironmentLoadFailed.Error())
}

func TestEnvFactory_CorruptCacheIsRebuilt(t *testing.T) {
	stubPlatform(t, domain.PlatformWindows)
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockProcessRunner(ctrl)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).Times(1)

	mem := afero.NewMemMapFs()
	cachePath := filepath.Join("/cache", vsvars.EnvID(vsConfig)+".json")
	require.NoError(t, afero.WriteFile(mem, cachePath, []byte("{not json"), domain.FilePerm))

	runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cmd domain.Command) (int, error) {
			_, err := cmd.Stdout.Write([]byte("A=1\r\n"))
			return 0, err
		})

	factory := vsvars.NewEnvFactory(runner, mem, log, "/cache")
	env, err := factory.GetEnvironment(context.Background(), vsConfig)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "1"}, env)
}

func TestEnvID(t *testing.T) {
	a := vsvars.EnvID(domain.VsVarsConfig{Script: "s", Arch: "x64"})
	assert.Len(t, a, 16)
	assert.Equal(t, a, vsvars.EnvID(domain.VsVarsConfig{Script: "s", Arch: "x64"}))
	assert.NotEqual(t, a, vsvars.EnvID(domain.VsVarsConfig{Script: "s", Arch: "x86"}))
	assert.NotEqual(t,
		vsvars.EnvID(domain.VsVarsConfig{Script: "ab", Arch: "c"}),
		vsvars.EnvID(domain.VsVarsConfig{Script: "a", Arch: "bc"}))
}

func TestParseSetOutput(t *testing.T) {
	env := vsvars.ParseSetOutput([]byte("A=1\nnot a var\n=C:=C:\\\nB=x=y\n** banner = here\n"))
	assert.Equal(t, map[string]string{"A": "1", "B": "x=y"}, env)
}
