package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

const InMemoryQueueSize = 100

// InMemoryQueue keeps events in process. It is used when no broker is
// configured and in tests.
type InMemoryQueue struct {
	mu     sync.Mutex
	events chan MemoryEvent
	closed bool
}

func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		events: make(chan MemoryEvent, InMemoryQueueSize),
	}
}

// PublishMemoryEvent never blocks. When the buffer is full the oldest event
// is dropped to make room.
func (q *InMemoryQueue) PublishMemoryEvent(ctx context.Context, event MemoryEvent) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return fmt.Errorf("in memory queue is closed")
	}

	for {
		select {
		case q.events <- event:
			return nil
		default:
		}

		select {
		case dropped := <-q.events:
			slog.Debug("in memory queue full, dropping oldest event", "memory_id", dropped.MemoryId, "type", dropped.Type)
		default:
		}
	}
}

func (q *InMemoryQueue) Events() <-chan MemoryEvent {
	return q.events
}

// Drain returns the events published so far without blocking.
func (q *InMemoryQueue) Drain() []MemoryEvent {
	var events []MemoryEvent
	for {
		select {
		case e, ok := <-q.events:
			if !ok {
				return events
			}
			events = append(events, e)
		default:
			return events
		}
	}
}

func (q *InMemoryQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		close(q.events)
		q.closed = true
	}
}
