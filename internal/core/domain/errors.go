package domain

import "go.trai.ch/zerr"

var (
	// ErrTargetAlreadyExists is returned when attempting to register a target with a name that already exists.
	ErrTargetAlreadyExists = zerr.New("target already exists")

	// ErrInvalidTargetName is returned when a target is registered without a name.
	ErrInvalidTargetName = zerr.New("invalid target name")

	// ErrMissingDependency is returned when a target references a dependency that is not registered.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a target transitively depends on itself.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTargetNotFound is returned when a requested target is not registered.
	ErrTargetNotFound = zerr.New("target not found")

	// ErrTargetFailed is the error form of a failed target result.
	ErrTargetFailed = zerr.New("target failed")

	// ErrTargetPanicked is returned when a target body panics.
	ErrTargetPanicked = zerr.New("target panicked")

	// ErrNoTargetsSpecified is returned when a run is requested without any target.
	ErrNoTargetsSpecified = zerr.New("no targets specified")

	// ErrBuildExecutionFailed is returned when the build execution fails.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrBuildCancelled is returned when the build is interrupted before all targets ran.
	ErrBuildCancelled = zerr.New("build cancelled")

	// ErrSettingNotFound is returned when a required build context setting is missing.
	ErrSettingNotFound = zerr.New("build setting not found")

	// ErrRepoRootNotFound is returned when the configured repository root does not exist.
	ErrRepoRootNotFound = zerr.New("repository root not found")

	// ErrCommandStartFailed is returned when a subprocess could not be started.
	ErrCommandStartFailed = zerr.New("failed to start command")

	// ErrCommandFailed is returned when a subprocess exits with a non-zero code.
	ErrCommandFailed = zerr.New("command exited with non-zero status")

	// ErrEmptyCommand is returned when a command has no executable path.
	ErrEmptyCommand = zerr.New("command path is empty")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfiguration is returned when the build configuration name is not supported.
	ErrInvalidConfiguration = zerr.New("invalid build configuration, expected 'Debug' or 'Release'")

	// ErrUnsupportedConfigVersion is returned when the config file declares an unknown schema version.
	ErrUnsupportedConfigVersion = zerr.New("unsupported config version")

	// ErrStagingFailed is returned when the test project tree cannot be staged.
	ErrStagingFailed = zerr.New("failed to stage test projects")

	// ErrCopyFailed is returned when a file or directory cannot be copied.
	ErrCopyFailed = zerr.New("failed to copy")

	// ErrSymlinkCycle is returned when a symlinked directory leads back into the tree being copied.
	ErrSymlinkCycle = zerr.New("symlink cycle")

	// ErrSourceNotDirectory is returned when a copy source is not a directory.
	ErrSourceNotDirectory = zerr.New("copy source is not a directory")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrEnvironmentLoadFailed is returned when the platform variable bundle cannot be loaded.
	ErrEnvironmentLoadFailed = zerr.New("failed to load platform environment")

	// ErrEnvCacheReadFailed is returned when a cached environment cannot be read.
	ErrEnvCacheReadFailed = zerr.New("failed to read environment cache")

	// ErrEnvCacheWriteFailed is returned when an environment cannot be cached.
	ErrEnvCacheWriteFailed = zerr.New("failed to write environment cache")

	// ErrStoreReadFailed is returned when the run record store cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read run records")

	// ErrStoreUnmarshalFailed is returned when the run record store cannot be decoded.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal run records")

	// ErrStoreMarshalFailed is returned when the run record store cannot be encoded.
	ErrStoreMarshalFailed = zerr.New("failed to marshal run records")

	// ErrStoreWriteFailed is returned when the run record store cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write run records")
)
