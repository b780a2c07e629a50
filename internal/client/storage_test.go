package client

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageRoundTrip(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, storage.Set("greeting", "hello"))

	var got string
	require.NoError(t, storage.Get("greeting", &got))
	assert.Equal(t, "hello", got)
}

func TestStorageGetMissingKey(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	var got string
	err = storage.Get("nothing", &got)
	assert.True(t, errors.Is(err, ErrNoValue))
}

func TestStorageSetReplaces(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, storage.Set("n", 1))
	require.NoError(t, storage.Set("n", 2))

	var got int
	require.NoError(t, storage.Get("n", &got))
	assert.Equal(t, 2, got)
}

func TestStorageDelete(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, storage.Set("k", "v"))
	require.NoError(t, storage.Delete("k"))

	var got string
	assert.True(t, errors.Is(storage.Get("k", &got), ErrNoValue))

	// deleting again is fine
	assert.NoError(t, storage.Delete("k"))
}

func TestStorageSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStorage(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(KeyToken, "abc123"))

	second, err := NewStorage(dir)
	require.NoError(t, err)

	var token string
	require.NoError(t, second.Get(KeyToken, &token))
	assert.Equal(t, "abc123", token)
}
