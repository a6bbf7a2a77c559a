// Package memory_test tests the in-memory archive store.
package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrolmate/crawler/internal/archive/memory"
)

func TestPutObject(t *testing.T) {
	t.Run("StoresAndReturnsURI", func(t *testing.T) {
		store := memory.NewBlobStore()
		uri, err := store.PutObject(context.Background(), "runs/run-1/Adelaide/U91.json", "application/json", []byte("[]"))
		require.NoError(t, err)
		assert.Equal(t, "memory://runs/run-1/Adelaide/U91.json", uri)

		data, ok := store.Object("runs/run-1/Adelaide/U91.json")
		require.True(t, ok)
		assert.Equal(t, []byte("[]"), data)
	})

	t.Run("CopiesPayload", func(t *testing.T) {
		store := memory.NewBlobStore()
		payload := []byte("original")
		_, err := store.PutObject(context.Background(), "runs/x.json", "application/json", payload)
		require.NoError(t, err)

		payload[0] = 'X'
		data, ok := store.Object("runs/x.json")
		require.True(t, ok)
		assert.Equal(t, []byte("original"), data)
	})

	t.Run("OverwritesExistingPath", func(t *testing.T) {
		store := memory.NewBlobStore()
		_, err := store.PutObject(context.Background(), "runs/x.json", "application/json", []byte("one"))
		require.NoError(t, err)
		_, err = store.PutObject(context.Background(), "runs/x.json", "application/json", []byte("two"))
		require.NoError(t, err)

		data, ok := store.Object("runs/x.json")
		require.True(t, ok)
		assert.Equal(t, []byte("two"), data)
	})
}

func TestObject_Missing(t *testing.T) {
	store := memory.NewBlobStore()
	_, ok := store.Object("nope")
	assert.False(t, ok)
}
