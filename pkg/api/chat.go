package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ChatHistoryItem struct {
	MessageType string          `json:"message_type"` // "user" or "ai"
	Content     string          `json:"content"`
	Timestamp   time.Time       `json:"timestamp"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

type SessionHistoryResponse struct {
	SessionId uuid.UUID         `json:"session_id"`
	Messages  []ChatHistoryItem `json:"messages"`
}
