package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/spf13/afero"
	"go.trai.ch/hostbuild/internal/adapters/fs"
	"go.trai.ch/hostbuild/internal/core/domain"
	"go.trai.ch/hostbuild/internal/core/ports"
)

// NodeID is the unique identifier for the run record store Graft node.
const NodeID graft.ID = "adapter.run_record_store"

func init() {
	graft.Register(graft.Node[ports.RunRecordStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.AferoNodeID},
		Run: func(ctx context.Context) (ports.RunRecordStore, error) {
			fsys, err := graft.Dep[afero.Fs](ctx)
			if err != nil {
				return nil, err
			}
			store, err := NewStore(fsys, domain.DefaultStorePath())
			if err != nil {
				return nil, err
			}
			return store, nil
		},
	})
}
