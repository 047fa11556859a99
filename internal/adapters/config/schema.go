package config

// Hostfile represents the structure of the hostbuild.yaml configuration file.
type Hostfile struct {
	Version                  string       `yaml:"version"`
	Configuration            string       `yaml:"configuration"`
	RepoRoot                 string       `yaml:"repoRoot"`
	OutputDir                string       `yaml:"outputDir"`
	ArtifactsDir             string       `yaml:"artifactsDir"`
	Toolchain                ToolchainDTO `yaml:"toolchain"`
	TestPackageVersionSuffix *string      `yaml:"testPackageVersionSuffix"`
	TestProjects             []string     `yaml:"testProjects"`
	WindowsTestProjects      []string     `yaml:"windowsTestProjects"`
	TraitExclusions          []string     `yaml:"traitExclusions"`
	VsVars                   VsVarsDTO    `yaml:"vsvars"`
}

// ToolchainDTO locates the external toolchain.
type ToolchainDTO struct {
	Path    string `yaml:"path"`
	BinPath string `yaml:"binPath"`
}

// VsVarsDTO locates the Windows developer environment script.
type VsVarsDTO struct {
	Script string `yaml:"script"`
	Arch   string `yaml:"arch"`
}

// Supported schema versions. An empty version is treated as the current one.
const currentVersion = "1"

// Defaults applied to missing fields.
const (
	defaultRepoRoot                 = "."
	defaultOutputDir                = "artifacts/tests"
	defaultArtifactsDir             = "artifacts/tests/artifacts"
	defaultToolchainPath            = "dotnet"
	defaultToolchainBinPath         = ".dotnet"
	defaultTestPackageVersionSuffix = "<buildversion>"
	defaultVsVarsArch               = "x64"
)

var defaultTestProjects = []string{"HostActivationTests"}
