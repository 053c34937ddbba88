package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreItemRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.GetItem(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SetItem(ctx, "k", "v"))
	value, err := s.GetItem(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)

	require.NoError(t, s.DeleteItem(ctx, "k"))
	_, err = s.GetItem(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent key is fine
	assert.NoError(t, s.DeleteItem(ctx, "k"))
}

func TestMemoryStoreObjects(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	type record struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, s.SetObject(ctx, "obj", record{Name: "a", Count: 2}))

	var out record
	require.NoError(t, s.GetObject(ctx, "obj", &out))
	assert.Equal(t, record{Name: "a", Count: 2}, out)
}

func TestMemoryStoreCorruptObject(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.SetItem(ctx, "obj", "{not valid json"))

	var out map[string]string
	err := s.GetObject(ctx, "obj", &out)
	assert.ErrorIs(t, err, ErrCorruptData)
}

func TestMemoryStoreCancelledContext(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.SetItem(ctx, "k", "v")
	var storageErr *StorageError
	assert.ErrorAs(t, err, &storageErr)
	assert.Equal(t, 0, s.Len())
}
