package messaging_test

import (
	"context"
	"testing"
	"time"

	"memory-backend/internal/messaging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryQueue(t *testing.T) {
	q := messaging.NewInMemoryQueue()

	ctx := context.Background()
	require.NoError(t, q.PublishMemoryEvent(ctx, messaging.MemoryEvent{Type: messaging.MemoryCreated, MemoryId: 1}))
	require.NoError(t, q.PublishMemoryEvent(ctx, messaging.MemoryEvent{Type: messaging.MemoryDeleted, MemoryId: 1}))

	events := q.Drain()
	require.Len(t, events, 2)
	assert.Equal(t, messaging.MemoryCreated, events[0].Type)
	assert.Equal(t, messaging.MemoryDeleted, events[1].Type)

	assert.Empty(t, q.Drain())

	q.Close()
	assert.Error(t, q.PublishMemoryEvent(ctx, messaging.MemoryEvent{Type: messaging.MemoryUpdated}))
	q.Close()
}

func TestInMemoryQueueDropsOldestWhenFull(t *testing.T) {
	q := messaging.NewInMemoryQueue()
	defer q.Close()

	ctx := context.Background()
	total := messaging.InMemoryQueueSize + 50
	for i := 0; i < total; i++ {
		require.NoError(t, q.PublishMemoryEvent(ctx, messaging.MemoryEvent{Type: messaging.MemoryCreated, MemoryId: uint(i), Timestamp: time.Now()}))
	}

	events := q.Drain()
	require.Len(t, events, messaging.InMemoryQueueSize)
	assert.Equal(t, uint(50), events[0].MemoryId)
	assert.Equal(t, uint(total-1), events[len(events)-1].MemoryId)
}
