// Package memory_test tests the in-memory publisher.
package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrolmate/crawler/internal/publisher/memory"
)

func TestPublish(t *testing.T) {
	pub := memory.New()

	id, err := pub.Publish(context.Background(), "crawl-runs", map[string]any{"run_id": "run-1"})
	require.NoError(t, err)
	assert.Equal(t, "memory-1", id)

	id, err = pub.Publish(context.Background(), "crawl-runs", map[string]any{"run_id": "run-2"})
	require.NoError(t, err)
	assert.Equal(t, "memory-2", id)

	messages := pub.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "crawl-runs", messages[0].Topic)
	assert.Equal(t, map[string]any{"run_id": "run-1"}, messages[0].Payload)
}

func TestMessages_ReturnsCopy(t *testing.T) {
	pub := memory.New()
	_, err := pub.Publish(context.Background(), "crawl-runs", "payload")
	require.NoError(t, err)

	first := pub.Messages()
	first[0].Topic = "mutated"

	assert.Equal(t, "crawl-runs", pub.Messages()[0].Topic)
}
