package ports

import "go.trai.ch/hostbuild/internal/core/domain"

// RunRecordStore persists the outcome of each target's last run.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type RunRecordStore interface {
	// Get retrieves the record for a target.
	// Returns nil, nil if not found.
	Get(target string) (*domain.RunRecord, error)

	// Put stores a record, replacing any previous one for the same target.
	Put(record domain.RunRecord) error

	// All returns every stored record sorted by target name.
	All() ([]domain.RunRecord, error)

	// Clear removes all records.
	Clear() error
}
