package cas_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hostbuild/internal/adapters/cas"
	"go.trai.ch/hostbuild/internal/core/domain"
)

const storePath = "/repo/.hostbuild/runs.json"

func record(target string, status domain.RunStatus) domain.RunRecord {
	return domain.RunRecord{
		Target:        target,
		Status:        status,
		Configuration: domain.ConfigurationDebug,
		Duration:      1500 * time.Millisecond,
		Timestamp:     time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestStore_PutAndGet(t *testing.T) {
	store, err := cas.NewStore(afero.NewMemMapFs(), storePath)
	require.NoError(t, err)

	want := record("RunTests", domain.RunStatusFailed)
	want.Message = "Tests failed!"
	require.NoError(t, store.Put(want))

	got, err := store.Get("RunTests")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)

	missing, err := store.Get("Unknown")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_Persistence(t *testing.T) {
	mem := afero.NewMemMapFs()

	store1, err := cas.NewStore(mem, storePath)
	require.NoError(t, err)
	require.NoError(t, store1.Put(record("Init", domain.RunStatusSucceeded)))

	store2, err := cas.NewStore(mem, storePath)
	require.NoError(t, err)
	got, err := store2.Get("Init")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.RunStatusSucceeded, got.Status)
	assert.True(t, got.Timestamp.Equal(record("Init", "").Timestamp))
}

func TestStore_AllSorted(t *testing.T) {
	store, err := cas.NewStore(afero.NewMemMapFs(), storePath)
	require.NoError(t, err)

	for _, name := range []string{"RunTests", "BuildTests", "Init"} {
		require.NoError(t, store.Put(record(name, domain.RunStatusSucceeded)))
	}
	// Overwrite keeps a single entry.
	require.NoError(t, store.Put(record("Init", domain.RunStatusFailed)))

	all, err := store.All()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "BuildTests", all[0].Target)
	assert.Equal(t, "Init", all[1].Target)
	assert.Equal(t, domain.RunStatusFailed, all[1].Status)
	assert.Equal(t, "RunTests", all[2].Target)
}

func TestStore_Clear(t *testing.T) {
	mem := afero.NewMemMapFs()
	store, err := cas.NewStore(mem, storePath)
	require.NoError(t, err)
	require.NoError(t, store.Put(record("Init", domain.RunStatusSucceeded)))

	require.NoError(t, store.Clear())
	all, err := store.All()
	require.NoError(t, err)
	assert.Empty(t, all)

	ok, err := afero.Exists(mem, storePath)
	require.NoError(t, err)
	assert.False(t, ok)

	// Clearing an empty store is fine.
	require.NoError(t, store.Clear())
}

func TestStore_EmptyFile(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, storePath, nil, domain.FilePerm))

	store, err := cas.NewStore(mem, storePath)
	require.NoError(t, err)
	all, err := store.All()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStore_CorruptFile(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, storePath, []byte("{not json"), domain.FilePerm))

	_, err := cas.NewStore(mem, storePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrStoreUnmarshalFailed.Error())
}

func TestStore_WriteFailure(t *testing.T) {
	store, err := cas.NewStore(afero.NewReadOnlyFs(afero.NewMemMapFs()), storePath)
	require.NoError(t, err)

	err = store.Put(record("Init", domain.RunStatusSucceeded))
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrStoreWriteFailed.Error())
}

func TestStore_OnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".hostbuild", "runs.json")
	store, err := cas.NewStore(afero.NewOsFs(), path)
	require.NoError(t, err)
	require.NoError(t, store.Put(record("Test", domain.RunStatusSkipped)))

	reopened, err := cas.NewStore(afero.NewOsFs(), path)
	require.NoError(t, err)
	got, err := reopened.Get("Test")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.RunStatusSkipped, got.Status)
}
