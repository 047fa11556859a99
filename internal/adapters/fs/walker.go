// Package fs provides afero-backed file system adapters for staging and hashing trees.
package fs

import (
	iofs "io/fs"
	"iter"
	"path/filepath"

	"github.com/spf13/afero"
	"go.trai.ch/zerr"
)

var errStopWalk = zerr.New("walk stopped")

// Walker walks directory trees on an afero file system.
type Walker struct {
	fs afero.Fs
}

// NewWalker creates a new Walker over fsys.
func NewWalker(fsys afero.Fs) *Walker {
	return &Walker{fs: fsys}
}

// WalkFiles yields the paths of all regular files below root in lexical order,
// skipping version-control metadata directories.
func (w *Walker) WalkFiles(root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stopped := false
		err := afero.Walk(w.fs, root, func(path string, info iofs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if path != root && isVCSDir(info.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if !yield(path, nil) {
				stopped = true
				return errStopWalk
			}
			return nil
		})
		if err != nil && !stopped {
			yield("", err)
		}
	}
}

// WalkDirs yields every directory below root whose name is in names.
// Matched directories are not descended into.
func (w *Walker) WalkDirs(root string, names ...string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stopped := false
		err := afero.Walk(w.fs, root, func(path string, info iofs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() || path == root {
				return nil
			}
			if isVCSDir(info.Name()) {
				return filepath.SkipDir
			}
			for _, name := range names {
				if info.Name() == name {
					if !yield(path, nil) {
						stopped = true
						return errStopWalk
					}
					return filepath.SkipDir
				}
			}
			return nil
		})
		if err != nil && !stopped {
			yield("", err)
		}
	}
}

func isVCSDir(name string) bool {
	return name == ".git" || name == ".jj"
}
