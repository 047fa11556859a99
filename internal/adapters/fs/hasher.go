package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"
	"go.trai.ch/hostbuild/internal/core/domain"
	"go.trai.ch/hostbuild/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.TreeHasher = (*Hasher)(nil)

// Hasher computes content digests of directory trees.
type Hasher struct {
	fs     afero.Fs
	walker *Walker
}

// NewHasher creates a new Hasher over fsys.
func NewHasher(fsys afero.Fs) *Hasher {
	return &Hasher{fs: fsys, walker: NewWalker(fsys)}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := h.fs.Open(path)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}

	return hasher.Sum64(), nil
}

// HashTree returns a digest over the relative path and content of every file below root.
// File contents are hashed concurrently; the digest does not depend on walk order.
func (h *Hasher) HashTree(root string) (string, error) {
	var files []string
	for path, err := range h.walker.WalkFiles(root) {
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "root", root)
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
		}
		files = append(files, filepath.ToSlash(rel))
	}
	sort.Strings(files)

	sums := make([]uint64, len(files))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, rel := range files {
		g.Go(func() error {
			sum, err := h.ComputeFileHash(filepath.Join(root, filepath.FromSlash(rel)))
			if err != nil {
				return err
			}
			sums[i] = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	hasher := xxhash.New()
	buf := make([]byte, 8)
	for i, rel := range files {
		_, _ = hasher.WriteString(rel)
		_, _ = hasher.Write([]byte{0})
		binary.LittleEndian.PutUint64(buf, sums[i])
		_, _ = hasher.Write(buf)
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}
