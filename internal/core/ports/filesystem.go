package ports

// FileSystem groups the directory operations the build needs.
//
//go:generate go run go.uber.org/mock/mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// Exists reports whether path exists.
	Exists(path string) (bool, error)
	// MkdirAll creates path and any missing parents.
	MkdirAll(path string) error
	// RemoveAll removes path and everything below it. A missing path is not an error.
	RemoveAll(path string) error
	// CopyTree recursively copies the directory src into dst.
	CopyTree(src, dst string) error
	// CleanBinObj removes every bin and obj directory below root.
	CleanBinObj(root string) error
}

// TreeHasher computes a content digest of a directory tree.
type TreeHasher interface {
	// HashTree returns a digest covering relative paths and file contents below root.
	HashTree(root string) (string, error)
}
