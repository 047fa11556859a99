package domain

import (
	"maps"
	"slices"
	"sync"

	"go.trai.ch/zerr"
)

// Well-known BuildContext setting keys.
const (
	// SettingConfiguration is the build configuration name, e.g. Debug or Release.
	SettingConfiguration = "Configuration"
	// SettingTestPackageVersionSuffix is the version suffix applied to test packages.
	SettingTestPackageVersionSuffix = "TestPackageVersionSuffix"
)

// LogLevel is the severity of a BuildContext log entry.
type LogLevel int

const (
	// LogLevelInfo is an informational entry.
	LogLevelInfo LogLevel = iota
	// LogLevelWarn is a warning entry.
	LogLevelWarn
	// LogLevelError is an error entry.
	LogLevelError
)

// String returns the upper-case level name.
func (l LogLevel) String() string {
	switch l {
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// LogEntry is one accumulated BuildContext message.
type LogEntry struct {
	Level   LogLevel
	Target  string
	Message string
}

// LogSink receives BuildContext messages as they are written.
type LogSink interface {
	Info(msg string)
	Warn(msg string)
	Error(err error)
}

// BuildContext is the per-invocation state passed through a target chain.
// It carries the settings bag and the accumulated log.
type BuildContext struct {
	mu       sync.Mutex
	settings map[string]string
	entries  []LogEntry
	target   string
	sink     LogSink
}

// NewBuildContext creates a BuildContext seeded with settings.
// sink may be nil, in which case messages are only accumulated.
func NewBuildContext(sink LogSink, settings map[string]string) *BuildContext {
	s := make(map[string]string, len(settings))
	maps.Copy(s, settings)
	return &BuildContext{
		settings: s,
		sink:     sink,
	}
}

// Get returns the setting stored under key.
func (c *BuildContext) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.settings[key]
	return v, ok
}

// Require returns the setting stored under key or ErrSettingNotFound.
func (c *BuildContext) Require(key string) (string, error) {
	v, ok := c.Get(key)
	if !ok || v == "" {
		return "", zerr.With(zerr.Wrap(ErrSettingNotFound, ""), "key", key)
	}
	return v, nil
}

// Set stores a setting.
func (c *BuildContext) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings[key] = value
}

// Configuration returns the build configuration name.
func (c *BuildContext) Configuration() string {
	v, _ := c.Get(SettingConfiguration)
	return v
}

// SetTarget records which target is currently executing; entries are tagged with it.
func (c *BuildContext) SetTarget(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = name
}

// Target returns the currently executing target name.
func (c *BuildContext) Target() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// Info appends an informational message.
func (c *BuildContext) Info(msg string) {
	c.append(LogLevelInfo, msg)
	if c.sink != nil {
		c.sink.Info(msg)
	}
}

// Warn appends a warning.
func (c *BuildContext) Warn(msg string) {
	c.append(LogLevelWarn, msg)
	if c.sink != nil {
		c.sink.Warn(msg)
	}
}

// Error appends an error message.
func (c *BuildContext) Error(msg string) {
	c.append(LogLevelError, msg)
	if c.sink != nil {
		c.sink.Error(zerr.New(msg))
	}
}

// Entries returns a copy of the accumulated log.
func (c *BuildContext) Entries() []LogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.entries)
}

// Errors returns the messages of all error entries in order.
func (c *BuildContext) Errors() []string {
	var out []string
	for _, e := range c.Entries() {
		if e.Level == LogLevelError {
			out = append(out, e.Message)
		}
	}
	return out
}

// Success returns a successful result for the current target.
func (c *BuildContext) Success() Result {
	return Succeeded(c.Target())
}

// Failed returns a failed result for the current target.
func (c *BuildContext) Failed(message string) Result {
	return Failed(c.Target(), message)
}

func (c *BuildContext) append(level LogLevel, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, LogEntry{Level: level, Target: c.target, Message: msg})
}
