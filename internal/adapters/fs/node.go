package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/spf13/afero"
	"go.trai.ch/hostbuild/internal/core/ports"
)

const (
	// AferoNodeID provides the shared afero.Fs.
	AferoNodeID graft.ID = "adapter.fs.afero"
	// FileSystemNodeID provides ports.FileSystem.
	FileSystemNodeID graft.ID = "adapter.fs.filesystem"
	// HasherNodeID provides ports.TreeHasher.
	HasherNodeID graft.ID = "adapter.fs.hasher"
)

func init() {
	graft.Register(graft.Node[afero.Fs]{
		ID:        AferoNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (afero.Fs, error) {
			return NewFs(), nil
		},
	})

	graft.Register(graft.Node[ports.FileSystem]{
		ID:        FileSystemNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{AferoNodeID},
		Run: func(ctx context.Context) (ports.FileSystem, error) {
			fsys, err := graft.Dep[afero.Fs](ctx)
			if err != nil {
				return nil, err
			}
			return NewFileSystem(fsys), nil
		},
	})

	graft.Register(graft.Node[ports.TreeHasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{AferoNodeID},
		Run: func(ctx context.Context) (ports.TreeHasher, error) {
			fsys, err := graft.Dep[afero.Fs](ctx)
			if err != nil {
				return nil, err
			}
			return NewHasher(fsys), nil
		},
	})
}
