package domain

import "slices"

// Supported build configurations.
const (
	ConfigurationDebug   = "Debug"
	ConfigurationRelease = "Release"
)

// DefaultTraitExclusion skips tests tagged as known-failing.
const DefaultTraitExclusion = "category=failing"

// Config is the resolved build configuration. Paths are absolute once loaded.
type Config struct {
	Configuration            string
	Layout                   Layout
	Toolchain                Toolchain
	TestPackageVersionSuffix string
	TestProjects             []string
	WindowsTestProjects      []string
	TraitExclusions          []string
	VsVars                   VsVarsConfig
}

// VsVarsConfig locates the Windows developer environment script.
type VsVarsConfig struct {
	Script string
	Arch   string
}

// ValidConfiguration reports whether name is a supported build configuration.
func ValidConfiguration(name string) bool {
	return slices.Contains([]string{ConfigurationDebug, ConfigurationRelease}, name)
}

// Settings returns the initial BuildContext settings derived from the config.
func (c *Config) Settings() map[string]string {
	return map[string]string{
		SettingConfiguration:            c.Configuration,
		SettingTestPackageVersionSuffix: c.TestPackageVersionSuffix,
	}
}
