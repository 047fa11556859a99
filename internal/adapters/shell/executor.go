// Package shell provides the process runner adapter.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/hostbuild/internal/core/domain"
	"go.trai.ch/hostbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ProcessRunner = (*Executor)(nil)

// Executor implements ports.ProcessRunner using os/exec.
type Executor struct {
	logger  ports.Logger
	environ func() []string
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger:  logger,
		environ: os.Environ,
	}
}

// Run executes the command and blocks until it exits.
// It merges environments with the following priority (low to high):
// 1. os.Environ() (inherited)
// 2. cmd.Env (overlay)
//
// cmd.PrependPath entries are then put in front of the resulting PATH.
func (e *Executor) Run(ctx context.Context, cmd domain.Command) (int, error) {
	if cmd.Path == "" {
		return -1, domain.ErrEmptyCommand
	}

	cmdEnv := resolveEnvironment(e.environ(), cmd.Env, cmd.PrependPath)

	// Resolve the executable against the new environment's PATH so that
	// PrependPath applies to the toolchain lookup too.
	executable := cmd.Path
	if !filepath.IsAbs(cmd.Path) && !strings.ContainsRune(cmd.Path, filepath.Separator) {
		if lp, err := lookPath(cmd.Path, cmdEnv); err == nil {
			executable = lp
		}
	}

	c := exec.CommandContext(ctx, executable, cmd.Args...) //nolint:gosec // command comes from build config
	if len(c.Args) > 0 {
		c.Args[0] = cmd.Path
	}
	c.Dir = cmd.Dir
	c.Env = cmdEnv

	stdout := &logWriter{logger: e.logger, stderr: false, quiet: cmd.Quiet}
	stderr := &logWriter{logger: e.logger, stderr: true, quiet: cmd.Quiet}
	c.Stdout = teeWriter(stdout, cmd.Stdout)
	c.Stderr = teeWriter(stderr, cmd.Stderr)

	e.logger.Debug("running " + cmd.String() + " in " + cmd.Dir)

	err := c.Run()
	stdout.Flush()
	stderr.Flush()

	if err == nil {
		return 0, nil
	}

	if ctx.Err() != nil {
		return -1, zerr.With(zerr.Wrap(ctx.Err(), "command interrupted"), "command", cmd.String())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		return code, zerr.With(zerr.With(zerr.Wrap(domain.ErrCommandFailed, ""), "exit_code", code), "command", cmd.String())
	}

	return -1, zerr.With(zerr.Wrap(err, domain.ErrCommandStartFailed.Error()), "command", cmd.String())
}

func teeWriter(primary io.Writer, extra io.Writer) io.Writer {
	if extra == nil {
		return primary
	}
	return io.MultiWriter(primary, extra)
}

// logWriter forwards complete lines to the logger, buffering partial writes.
type logWriter struct {
	logger ports.Logger
	stderr bool
	quiet  bool

	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Incomplete line, keep it for the next write.
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.emit(strings.TrimRight(line, "\r\n"))
	}
	return len(p), nil
}

// Flush emits any buffered partial line.
func (w *logWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() > 0 {
		w.emit(strings.TrimRight(w.buf.String(), "\r\n"))
		w.buf.Reset()
	}
}

func (w *logWriter) emit(line string) {
	if w.quiet {
		return
	}
	if w.stderr {
		w.logger.Warn(line)
		return
	}
	w.logger.Info(line)
}

// resolveEnvironment merges the inherited environment with the overlay and
// prepends extra PATH entries. The result is sorted for determinism.
func resolveEnvironment(sysEnv []string, overlay map[string]string, prependPath []string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(overlay))
	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok && k != "" {
			envMap[k] = v
		}
	}

	for k, v := range overlay {
		if existing := pathKey(envMap); isPathKey(k) && existing != "" {
			delete(envMap, existing)
		}
		envMap[k] = v
	}

	if len(prependPath) > 0 {
		key := pathKey(envMap)
		if key == "" {
			key = "PATH"
		}
		parts := slices.Clone(prependPath)
		if current := envMap[key]; current != "" {
			parts = append(parts, current)
		}
		envMap[key] = strings.Join(parts, string(os.PathListSeparator))
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// isPathKey reports whether k names PATH. Windows variable names are case-insensitive.
func isPathKey(k string) bool {
	if runtime.GOOS == "windows" {
		return strings.EqualFold(k, "PATH")
	}
	return k == "PATH"
}

func pathKey(env map[string]string) string {
	for k := range env {
		if isPathKey(k) {
			return k
		}
	}
	return ""
}

// lookPath searches for an executable in the directories named by the PATH environment variable.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if k, v, ok := strings.Cut(e, "="); ok && isPathKey(k) {
			path = v
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidates := []string{filepath.Join(dir, file)}
		if runtime.GOOS == "windows" && filepath.Ext(file) == "" {
			candidates = append(candidates, filepath.Join(dir, file+".exe"))
		}
		for _, p := range candidates {
			if err := findExecutable(p); err == nil {
				return p, nil
			}
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	m := d.Mode()
	if m.IsDir() {
		return os.ErrPermission
	}
	if runtime.GOOS == "windows" || m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
