package domain

import "path/filepath"

const (
	// StateDirName is the name of the internal state directory.
	StateDirName = ".hostbuild"

	// StoreFileName is the name of the run record store file.
	StoreFileName = "runs.json"

	// CacheDirName is the name of the cache directory.
	CacheDirName = "cache"

	// EnvDirName is the name of the environment cache directory.
	EnvDirName = "environments"

	// ConfigFileName is the default config file name.
	ConfigFileName = "hostbuild.yaml"

	// TestAssetsDirName holds the assets restored before tests.
	TestAssetsDirName = "TestAssets"

	// TestDirName holds one directory per test project.
	TestDirName = "test"

	// TestProjectsDirName is the staged template tree.
	TestProjectsDirName = "TestProjects"

	// TestResultsSuffix is appended to a project name to form its results file.
	TestResultsSuffix = "-testResults.xml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// Layout holds the directories a build reads and writes.
type Layout struct {
	RepoRoot      string
	TestOutput    string
	TestArtifacts string
}

// TestAssetsDir returns <repoRoot>/TestAssets.
func (l Layout) TestAssetsDir() string {
	return filepath.Join(l.RepoRoot, TestAssetsDirName)
}

// TestDir returns <repoRoot>/test.
func (l Layout) TestDir() string {
	return filepath.Join(l.RepoRoot, TestDirName)
}

// TestProjectDir returns <repoRoot>/test/<project>.
func (l Layout) TestProjectDir(project string) string {
	return filepath.Join(l.RepoRoot, TestDirName, project)
}

// TestProjectsSourceDir returns <repoRoot>/TestAssets/TestProjects.
func (l Layout) TestProjectsSourceDir() string {
	return filepath.Join(l.RepoRoot, TestAssetsDirName, TestProjectsDirName)
}

// TestProjectsStagingDir returns <testOutput>/TestProjects.
func (l Layout) TestProjectsStagingDir() string {
	return filepath.Join(l.TestOutput, TestProjectsDirName)
}

// TestResultsFile returns the results file name for a project.
func TestResultsFile(project string) string {
	return project + TestResultsSuffix
}

// DefaultStorePath returns the default path of the run record store.
// It joins .hostbuild and runs.json.
func DefaultStorePath() string {
	return filepath.Join(StateDirName, StoreFileName)
}

// DefaultEnvCachePath returns the default path for the environment cache.
// It joins .hostbuild, cache and environments.
func DefaultEnvCachePath() string {
	return filepath.Join(StateDirName, CacheDirName, EnvDirName)
}
