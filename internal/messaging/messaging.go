package messaging

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	MemoryEventsQueue = "memory_events"
	RetryDelay        = 5 * time.Second
	MaxConnectRetry   = 5
)

type EventType string

const (
	MemoryCreated EventType = "created"
	MemoryUpdated EventType = "updated"
	MemoryDeleted EventType = "deleted"
)

// MemoryEvent announces a change to a memory record to downstream consumers.
type MemoryEvent struct {
	Type      EventType `json:"type"`
	MemoryId  uint      `json:"memory_id"`
	SessionId uuid.UUID `json:"session_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Publisher interface {
	PublishMemoryEvent(ctx context.Context, event MemoryEvent) error

	Close()
}
