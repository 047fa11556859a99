// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/hostbuild/internal/adapters/cas"
	_ "go.trai.ch/hostbuild/internal/adapters/config"
	_ "go.trai.ch/hostbuild/internal/adapters/fs"
	_ "go.trai.ch/hostbuild/internal/adapters/logger"
	_ "go.trai.ch/hostbuild/internal/adapters/shell"
	_ "go.trai.ch/hostbuild/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/hostbuild/internal/adapters/vsvars"
	// Register app nodes.
	_ "go.trai.ch/hostbuild/internal/app"
)
