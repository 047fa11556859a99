package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hostbuild/internal/adapters/cas"                //nolint:depguard // Wired in app layer
	"go.trai.ch/hostbuild/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/hostbuild/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/hostbuild/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/hostbuild/internal/adapters/shell"              //nolint:depguard // Wired in app layer
	"go.trai.ch/hostbuild/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/hostbuild/internal/adapters/vsvars"             //nolint:depguard // Wired in app layer
	"go.trai.ch/hostbuild/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			shell.NodeID,
			fs.FileSystemNodeID,
			fs.HasherNodeID,
			vsvars.NodeID,
			cas.NodeID,
			progrock.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	processes, err := graft.Dep[ports.ProcessRunner](ctx)
	if err != nil {
		return nil, err
	}

	fileSystem, err := graft.Dep[ports.FileSystem](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.TreeHasher](ctx)
	if err != nil {
		return nil, err
	}

	envFactory, err := graft.Dep[ports.EnvironmentFactory](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.RunRecordStore](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, processes, fileSystem, hasher, envFactory, store, telemetry), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return NewComponents(app, log), nil
}
