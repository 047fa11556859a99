package vsvars

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/spf13/afero"
	"go.trai.ch/hostbuild/internal/adapters/fs"
	"go.trai.ch/hostbuild/internal/adapters/logger"
	"go.trai.ch/hostbuild/internal/adapters/shell"
	"go.trai.ch/hostbuild/internal/core/domain"
	"go.trai.ch/hostbuild/internal/core/ports"
)

// NodeID is the unique identifier for the environment factory Graft node.
const NodeID graft.ID = "adapter.vsvars.env_factory"

func init() {
	graft.Register(graft.Node[ports.EnvironmentFactory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, fs.AferoNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.EnvironmentFactory, error) {
			runner, err := graft.Dep[ports.ProcessRunner](ctx)
			if err != nil {
				return nil, err
			}
			fsys, err := graft.Dep[afero.Fs](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewEnvFactory(runner, fsys, log, domain.DefaultEnvCachePath()), nil
		},
	})
}
