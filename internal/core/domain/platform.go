package domain

import "runtime"

// Platform identifies the operating system the build runs on.
type Platform string

// Known platforms.
const (
	PlatformWindows Platform = "windows"
	PlatformLinux   Platform = "linux"
	PlatformDarwin  Platform = "darwin"
	PlatformFreeBSD Platform = "freebsd"
)

// CurrentPlatform returns the platform of the running process.
// It is a variable so tests can pin it.
var CurrentPlatform = func() Platform {
	return Platform(runtime.GOOS)
}

// IsWindows reports whether p is Windows.
func (p Platform) IsWindows() bool {
	return p == PlatformWindows
}

// String returns the platform name.
func (p Platform) String() string {
	return string(p)
}
