package domain

import (
	"io"
	"slices"
)

// Command describes one external process invocation.
type Command struct {
	// Path is the executable, resolved against PATH when not absolute.
	Path string
	// Args excludes the executable itself.
	Args []string
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Env overrides inherited variables. PATH is special-cased by PrependPath.
	Env map[string]string
	// PrependPath entries are put in front of the inherited PATH.
	PrependPath []string
	// Stdout and Stderr receive the process output in addition to the logger. Optional.
	Stdout io.Writer
	Stderr io.Writer
	// Quiet keeps process output out of the logger; it still reaches Stdout and Stderr.
	Quiet bool
}

// String renders the command line for logs.
func (c Command) String() string {
	s := c.Path
	for _, a := range c.Args {
		s += " " + a
	}
	return s
}

// Toolchain is the external command-line program performing restore, build and test.
type Toolchain struct {
	// Path is the toolchain executable.
	Path string
	// BinPath is the toolchain's own binary directory, prepended to PATH for test runs.
	BinPath string
}

// Subcommands understood by the toolchain.
const (
	SubcommandRestore = "restore"
	SubcommandBuild   = "build"
	SubcommandTest    = "test"
)

// Restore returns a restore invocation.
func (t Toolchain) Restore(args ...string) Command {
	return t.command(SubcommandRestore, args)
}

// Build returns a build invocation.
func (t Toolchain) Build(args ...string) Command {
	return t.command(SubcommandBuild, args)
}

// Test returns a test invocation.
func (t Toolchain) Test(args ...string) Command {
	return t.command(SubcommandTest, args)
}

func (t Toolchain) command(sub string, args []string) Command {
	return Command{
		Path: t.Path,
		Args: slices.Concat([]string{sub}, args),
	}
}
