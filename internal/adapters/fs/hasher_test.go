package fs_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hostbuild/internal/adapters/fs"
)

func TestHasher_HashTree_Deterministic(t *testing.T) {
	a := afero.NewMemMapFs()
	b := afero.NewMemMapFs()
	files := map[string]string{
		"/a/x.txt":         "x",
		"/a/nested/y.txt":  "y",
		"/a/nested/z/w.cs": "w",
	}
	writeFiles(t, a, files)
	// Same content under a different root.
	moved := make(map[string]string, len(files))
	for p, c := range files {
		moved["/b"+p[2:]] = c
	}
	writeFiles(t, b, moved)

	hashA, err := fs.NewHasher(a).HashTree("/a")
	require.NoError(t, err)
	hashB, err := fs.NewHasher(b).HashTree("/b")
	require.NoError(t, err)

	assert.Len(t, hashA, 16)
	assert.Equal(t, hashA, hashB)
}

func TestHasher_HashTree_ContentAndNameSensitive(t *testing.T) {
	base := map[string]string{"/r/a.txt": "a", "/r/b.txt": "b"}

	hash := func(files map[string]string) string {
		t.Helper()
		mem := afero.NewMemMapFs()
		writeFiles(t, mem, files)
		h, err := fs.NewHasher(mem).HashTree("/r")
		require.NoError(t, err)
		return h
	}

	original := hash(base)
	assert.NotEqual(t, original, hash(map[string]string{"/r/a.txt": "changed", "/r/b.txt": "b"}))
	assert.NotEqual(t, original, hash(map[string]string{"/r/renamed.txt": "a", "/r/b.txt": "b"}))
	assert.NotEqual(t, original, hash(map[string]string{"/r/a.txt": "a", "/r/b.txt": "b", "/r/c.txt": ""}))
}

func TestHasher_HashTree_SkipsVCSDirs(t *testing.T) {
	with := afero.NewMemMapFs()
	writeFiles(t, with, map[string]string{"/r/a.txt": "a", "/r/.git/HEAD": "ref"})
	without := afero.NewMemMapFs()
	writeFiles(t, without, map[string]string{"/r/a.txt": "a"})

	h1, err := fs.NewHasher(with).HashTree("/r")
	require.NoError(t, err)
	h2, err := fs.NewHasher(without).HashTree("/r")
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestHasher_HashTree_MissingRoot(t *testing.T) {
	_, err := fs.NewHasher(afero.NewMemMapFs()).HashTree("/missing")
	require.Error(t, err)
}

func TestHasher_ComputeFileHash(t *testing.T) {
	mem := afero.NewMemMapFs()
	writeFiles(t, mem, map[string]string{"/f1": "same", "/f2": "same", "/f3": "other"})
	h := fs.NewHasher(mem)

	s1, err := h.ComputeFileHash("/f1")
	require.NoError(t, err)
	s2, err := h.ComputeFileHash("/f2")
	require.NoError(t, err)
	s3, err := h.ComputeFileHash("/f3")
	require.NoError(t, err)

	assert.Equal(t, s1, s2)
	assert.NotEqual(t, s1, s3)

	_, err = h.ComputeFileHash("/missing")
	require.Error(t, err)
}

func TestWalker_WalkFiles_EarlyStop(t *testing.T) {
	mem := afero.NewMemMapFs()
	writeFiles(t, mem, map[string]string{"/r/a": "a", "/r/b": "b", "/r/c": "c"})

	var seen []string
	for path, err := range fs.NewWalker(mem).WalkFiles("/r") {
		require.NoError(t, err)
		seen = append(seen, path)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"/r/a", "/r/b"}, seen)
}
