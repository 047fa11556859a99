// Package vsvars provides the Windows developer environment as a variable bundle.
package vsvars

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"
	"go.trai.ch/hostbuild/internal/core/domain"
	"go.trai.ch/hostbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.EnvironmentFactory = (*EnvFactory)(nil)

// EnvFactory implements ports.EnvironmentFactory by running the developer
// environment script and capturing the variables it exports.
type EnvFactory struct {
	runner   ports.ProcessRunner
	fs       afero.Fs
	logger   ports.Logger
	cacheDir string
}

// NewEnvFactory creates a new EnvFactory caching bundles under cacheDir.
func NewEnvFactory(runner ports.ProcessRunner, fsys afero.Fs, logger ports.Logger, cacheDir string) *EnvFactory {
	return &EnvFactory{
		runner:   runner,
		fs:       fsys,
		logger:   logger,
		cacheDir: cacheDir,
	}
}

// GetEnvironment returns the variables set by the script in vs.
// Off Windows, or when no script is configured, the bundle is empty.
func (e *EnvFactory) GetEnvironment(ctx context.Context, vs domain.VsVarsConfig) (map[string]string, error) {
	if !domain.CurrentPlatform().IsWindows() || vs.Script == "" {
		return map[string]string{}, nil
	}

	cachePath := filepath.Join(e.cacheDir, EnvID(vs)+".json")
	if env, err := e.loadFromCache(cachePath); err == nil {
		e.logger.Debug("using cached developer environment " + cachePath)
		return env, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		e.logger.Warn("ignoring unreadable environment cache: " + err.Error())
	}

	var out bytes.Buffer
	cmd := domain.Command{
		Path:   "cmd",
		Args:   []string{"/c", "call", vs.Script, vs.Arch, "&&", "set"},
		Stdout: &out,
		Quiet:  true,
	}
	if _, err := e.runner.Run(ctx, cmd); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrEnvironmentLoadFailed.Error()), "script", vs.Script)
	}

	env := ParseSetOutput(out.Bytes())

	if err := e.saveToCache(cachePath, env); err != nil {
		// Cache write is not critical.
		e.logger.Warn(err.Error())
	}

	return env, nil
}

// EnvID returns a stable identifier for a developer environment script and arch.
func EnvID(vs domain.VsVarsConfig) string {
	h := xxhash.New()
	_, _ = h.WriteString(vs.Script)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(vs.Arch)
	return fmt.Sprintf("%016x", h.Sum64())
}

// ParseSetOutput extracts KEY=VALUE pairs from the output of `set`.
// Lines that do not look like variable assignments, such as the script's banner, are skipped.
func ParseSetOutput(data []byte) map[string]string {
	env := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		key, value, ok := strings.Cut(line, "=")
		if !ok || !validKey(key) {
			continue
		}
		env[key] = value
	}
	return env
}

func validKey(key string) bool {
	if key == "" {
		return false
	}
	return !strings.ContainsAny(key, " \t*:")
}

func (e *EnvFactory) loadFromCache(path string) (map[string]string, error) {
	data, err := afero.ReadFile(e.fs, path)
	if err != nil {
		return nil, err
	}

	var env map[string]string
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrEnvCacheReadFailed.Error()), "path", path)
	}
	return env, nil
}

func (e *EnvFactory) saveToCache(path string, env map[string]string) error {
	if err := e.fs.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrEnvCacheWriteFailed.Error()), "path", path)
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrEnvCacheWriteFailed.Error()), "path", path)
	}

	if err := afero.WriteFile(e.fs, path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrEnvCacheWriteFailed.Error()), "path", path)
	}
	return nil
}
