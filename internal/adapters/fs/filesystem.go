package fs

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.trai.ch/hostbuild/internal/core/domain"
	"go.trai.ch/hostbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSystem = (*FileSystem)(nil)

// NewFs returns the file system used by adapters constructed through the graft nodes.
var NewFs = afero.NewOsFs

// binObjDirs are the toolchain's intermediate output directories.
var binObjDirs = []string{"bin", "obj"}

// FileSystem implements ports.FileSystem on top of afero.
type FileSystem struct {
	fs     afero.Fs
	walker *Walker
}

// NewFileSystem creates a FileSystem over fsys.
func NewFileSystem(fsys afero.Fs) *FileSystem {
	return &FileSystem{fs: fsys, walker: NewWalker(fsys)}
}

// Exists reports whether path exists.
func (f *FileSystem) Exists(path string) (bool, error) {
	ok, err := afero.Exists(f.fs, path)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to stat path"), "path", path)
	}
	return ok, nil
}

// MkdirAll creates path and any missing parents.
func (f *FileSystem) MkdirAll(path string) error {
	if err := f.fs.MkdirAll(path, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", path)
	}
	return nil
}

// RemoveAll removes path and everything below it.
func (f *FileSystem) RemoveAll(path string) error {
	if err := f.fs.RemoveAll(path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove path"), "path", path)
	}
	return nil
}

// CopyTree recursively copies the directory src into dst, creating dst as needed.
// Files already present in dst are overwritten; other files in dst are left alone.
// File permission bits are preserved. Symlinks are followed: a linked file is copied
// as a regular file and a linked directory is copied as a directory. A link that
// leads back into a directory already being copied is an error.
func (f *FileSystem) CopyTree(src, dst string) error {
	info, err := f.fs.Stat(src)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCopyFailed.Error()), "src", src)
	}
	if !info.IsDir() {
		return zerr.With(zerr.Wrap(domain.ErrSourceNotDirectory, ""), "src", src)
	}

	if err := f.copyDir(src, dst, map[string]bool{}); err != nil {
		return zerr.With(zerr.With(zerr.Wrap(err, domain.ErrCopyFailed.Error()), "src", src), "dst", dst)
	}
	return nil
}

func (f *FileSystem) copyDir(src, dst string, active map[string]bool) error {
	key := filepath.Clean(src)
	if active[key] {
		return zerr.With(zerr.Wrap(domain.ErrSymlinkCycle, ""), "path", src)
	}
	active[key] = true
	defer delete(active, key)

	return afero.Walk(f.fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if info.Mode()&os.ModeSymlink != 0 {
			resolved, err := f.resolveLink(path)
			if err != nil {
				return err
			}
			if info, err = f.fs.Stat(resolved); err != nil {
				return err
			}
			if info.IsDir() {
				return f.copyDir(resolved, target, active)
			}
		}

		if info.IsDir() {
			return f.fs.MkdirAll(target, domain.DirPerm)
		}

		data, err := afero.ReadFile(f.fs, path)
		if err != nil {
			return err
		}
		return afero.WriteFile(f.fs, target, data, info.Mode().Perm())
	})
}

// resolveLink returns the path the symlink at path points to.
func (f *FileSystem) resolveLink(path string) (string, error) {
	reader, ok := f.fs.(afero.LinkReader)
	if !ok {
		return path, nil
	}
	dest, err := reader.ReadlinkIfPossible(path)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(filepath.Dir(path), dest)
	}
	return dest, nil
}

// CleanBinObj removes every bin and obj directory below root.
// A missing root is not an error.
func (f *FileSystem) CleanBinObj(root string) error {
	exists, err := f.Exists(root)
	if err != nil || !exists {
		return err
	}

	var dirs []string
	for dir, err := range f.walker.WalkDirs(root, binObjDirs...) {
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to scan for bin/obj directories"), "root", root)
		}
		dirs = append(dirs, dir)
	}

	for _, dir := range dirs {
		if err := f.RemoveAll(dir); err != nil {
			return err
		}
	}
	return nil
}
