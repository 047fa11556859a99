package testtargets

import (
	"slices"

	"go.trai.ch/hostbuild/internal/core/domain"
)

// GetTestProjects returns the projects to build and run on platform: the base
// list, followed by the Windows-only list when platform is Windows.
// The result is a fresh slice; order is preserved and nothing is deduplicated.
func GetTestProjects(platform domain.Platform, base, windows []string) []string {
	if platform.IsWindows() {
		return slices.Concat(base, windows)
	}
	return slices.Concat(base)
}

// testArgs builds the toolchain arguments for running one project's tests.
func testArgs(configuration, project string, traitExclusions []string) []string {
	args := []string{"--configuration", configuration, "-xml", domain.TestResultsFile(project)}
	for _, trait := range traitExclusions {
		args = append(args, "-notrait", trait)
	}
	return args
}
