package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depscan/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "subdir", "osv_cache.db")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	assert.Equal(t, path, store.Path())
	return store
}

func TestStoreRoundtrip(t *testing.T) {
	store := openTestStore(t)
	dep := models.Pinned("requests", "2.28.0").WithEcosystem(models.EcosystemPyPI)
	response := []byte(`{"vulns":[{"id":"GHSA-x"}]}`)

	_, ok, err := store.Get(dep)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(dep, response))

	got, ok, err := store.Get(dep)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, response, got)
}

func TestStoreKeyedByVersionAndEcosystem(t *testing.T) {
	store := openTestStore(t)
	pypi := models.Pinned("lodash", "4.17.21").WithEcosystem(models.EcosystemPyPI)
	npm := models.Pinned("lodash", "4.17.21").WithEcosystem(models.EcosystemNpm)
	other := models.Pinned("lodash", "4.17.20").WithEcosystem(models.EcosystemNpm)

	require.NoError(t, store.Set(npm, []byte(`{"vulns":[]}`)))

	_, ok, err := store.Get(pypi)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.Get(other)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.Get(npm)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStoreUnpinnedSharesOneRow(t *testing.T) {
	store := openTestStore(t)
	dep := models.Unpinned("flask").WithEcosystem(models.EcosystemPyPI)

	require.NoError(t, store.Set(dep, []byte(`first`)))
	require.NoError(t, store.Set(dep, []byte(`second`)))

	got, ok, err := store.Get(dep)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(`second`), got)
}

func TestStoreClear(t *testing.T) {
	store := openTestStore(t)
	dep := models.Pinned("requests", "2.28.0").WithEcosystem(models.EcosystemPyPI)
	require.NoError(t, store.Set(dep, []byte(`{}`)))

	require.NoError(t, store.Clear())

	_, ok, err := store.Get(dep)
	require.NoError(t, err)
	assert.False(t, ok)
}
