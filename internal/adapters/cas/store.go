// Package cas implements the run record store.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"go.trai.ch/hostbuild/internal/core/domain"
	"go.trai.ch/hostbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.RunRecordStore = (*Store)(nil)

// Store implements ports.RunRecordStore using a flat JSON file.
type Store struct {
	fs    afero.Fs
	path  string
	mu    sync.RWMutex
	cache map[string]domain.RunRecord
}

// NewStore creates a new RunRecordStore backed by the file at the given path.
func NewStore(fsys afero.Fs, path string) (*Store, error) {
	s := &Store{
		fs:    fsys,
		path:  filepath.Clean(path),
		cache: make(map[string]domain.RunRecord),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "path", s.path)
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "path", s.path)
	}

	return nil
}

// save writes the cache to disk. Callers must hold s.mu.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", s.path)
	}

	if err := afero.WriteFile(s.fs, s.path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", s.path)
	}

	return nil
}

// Get retrieves the record for a given target.
func (s *Store) Get(target string) (*domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.cache[target]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// Put stores the record and persists the store.
func (s *Store) Put(record domain.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache[record.Target] = record
	return s.save()
}

// All returns every record sorted by target name.
func (s *Store) All() ([]domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]domain.RunRecord, 0, len(s.cache))
	for _, r := range s.cache {
		records = append(records, r)
	}
	slices.SortFunc(records, func(a, b domain.RunRecord) int {
		return strings.Compare(a.Target, b.Target)
	})
	return records, nil
}

// Clear removes all records and the backing file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.cache)
	if err := s.fs.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", s.path)
	}
	return nil
}
