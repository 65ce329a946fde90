package keystore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLoadRoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "key"))

	require.NoError(t, store.Store(context.Background(), "  abcdef0123  \n"))

	key, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abcdef0123", key)
}

func TestLoadMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "key"))

	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, ErrNoKey)
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))

	store := NewFileStore(path)
	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, ErrNoKey)
}

func TestEnvOverrideWins(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "key"))
	require.NoError(t, store.Store(context.Background(), "from-file"))

	t.Setenv(EnvKey, "from-env")

	key, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "key"))
	require.NoError(t, store.Store(context.Background(), "abc"))

	require.NoError(t, store.Delete(context.Background()))
	require.NoError(t, store.Delete(context.Background()))

	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, ErrNoKey)
}

func TestStorePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "key")
	store := NewFileStore(path)
	require.NoError(t, store.Store(context.Background(), "abc"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())
}
