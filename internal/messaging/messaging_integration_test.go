//go:build integration
// +build integration

// Run integration tests with: go test -tags=integration ./...

package messaging

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
)

func TestPublishMemoryEvent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	rabbitmqContainer, err := rabbitmq.Run(ctx, "rabbitmq:3.11-management-alpine")
	require.NoError(t, err, "Failed to start RabbitMQ container")
	t.Cleanup(func() {
		if err := rabbitmqContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate RabbitMQ container: %v", err)
		}
	})

	connStr, err := rabbitmqContainer.AmqpURL(ctx)
	require.NoError(t, err, "Failed to get RabbitMQ AMQP URL")

	publisher, err := NewRabbitMQPublisher(connStr)
	require.NoError(t, err, "Failed to create publisher")
	defer publisher.Close()

	event := MemoryEvent{
		Type:      MemoryCreated,
		MemoryId:  7,
		SessionId: uuid.New(),
		Timestamp: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, publisher.PublishMemoryEvent(ctx, event))

	conn, err := connectToRabbitMQ(connStr)
	require.NoError(t, err)
	defer conn.Close()

	channel, err := conn.Channel()
	require.NoError(t, err)
	defer channel.Close()

	deliveries, err := channel.Consume(MemoryEventsQueue, "", true, false, false, false, nil)
	require.NoError(t, err)

	select {
	case d := <-deliveries:
		assert.Equal(t, "application/json", d.ContentType)
		assert.Equal(t, string(MemoryCreated), d.Type)

		var received MemoryEvent
		require.NoError(t, json.Unmarshal(d.Body, &received))
		assert.Equal(t, event.MemoryId, received.MemoryId)
		assert.Equal(t, event.SessionId, received.SessionId)
		assert.True(t, event.Timestamp.Equal(received.Timestamp))
	case <-ctx.Done():
		t.Fatal("timed out waiting for memory event")
	}
}
