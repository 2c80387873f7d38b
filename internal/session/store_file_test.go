package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "credentials.json")
	return NewFileStore(path), path
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, _ := newTestFileStore(t)

	require.NoError(t, store.Save(context.Background(), Credentials{
		AccessToken:   "acc_1",
		RefreshToken:  "ref_1",
		IdentityToken: "id_1",
	}))

	access, err := store.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "acc_1", access)

	refresh, err := store.RefreshToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ref_1", refresh)

	identity, err := store.IdentityToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "id_1", identity)
}

func TestFileStoreSurvivesRestart(t *testing.T) {
	store, path := newTestFileStore(t)
	require.NoError(t, store.Save(context.Background(), Credentials{AccessToken: "acc_1"}))

	// A new store on the same path sees the persisted token.
	reopened := NewFileStore(path)
	token, err := reopened.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "acc_1", token)
}

func TestFileStorePartialSaveKeepsOtherSlots(t *testing.T) {
	store, _ := newTestFileStore(t)
	require.NoError(t, store.Save(context.Background(), Credentials{
		AccessToken:  "acc_1",
		RefreshToken: "ref_1",
	}))

	require.NoError(t, store.Save(context.Background(), Credentials{AccessToken: "acc_2"}))

	access, err := store.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "acc_2", access)

	refresh, err := store.RefreshToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ref_1", refresh)
}

func TestFileStoreCorruptFileReadsAsAbsent(t *testing.T) {
	store, path := newTestFileStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("{not-json"), 0o600))

	_, err := store.Bootstrap(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)

	// The damaged file is discarded so subsequent saves start clean.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	require.NoError(t, store.Save(context.Background(), Credentials{AccessToken: "acc_1"}))
	token, err := store.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "acc_1", token)
}

func TestFileStoreClearIsIdempotent(t *testing.T) {
	store, _ := newTestFileStore(t)
	require.NoError(t, store.Save(context.Background(), Credentials{AccessToken: "acc_1"}))

	require.NoError(t, store.Clear(context.Background()))
	require.NoError(t, store.Clear(context.Background()))

	_, err := store.AccessToken(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}
