package api

import (
	"time"

	"github.com/google/uuid"
)

type Memory struct {
	Id                   uint      `json:"id"`
	SessionId            uuid.UUID `json:"session_id"`
	UserMessage          string    `json:"user_message"`
	LlmResponse          string    `json:"llm_response"`
	ConversationsSummary string    `json:"conversations_summary"`
	Published            bool      `json:"published"`
	Rating               *int      `json:"rating"`
	CreatedAt            time.Time `json:"created_at"`
}

// CreateMemoryRequest starts or continues a conversation. SessionId is
// generated when omitted and Published defaults to true.
type CreateMemoryRequest struct {
	UserMessage          string     `json:"user_message"`
	LlmResponse          string     `json:"llm_response,omitempty"`
	ConversationsSummary string     `json:"conversations_summary,omitempty"`
	Published            *bool      `json:"published,omitempty"`
	Rating               *int       `json:"rating,omitempty"`
	SessionId            *uuid.UUID `json:"session_id,omitempty"`
}

type UpdateMemoryRequest struct {
	UserMessage          string `json:"user_message"`
	LlmResponse          string `json:"llm_response"`
	ConversationsSummary string `json:"conversations_summary"`
	Published            *bool  `json:"published,omitempty"`
	Rating               *int   `json:"rating"`
}

type ListMemoriesParams struct {
	Limit     int   `schema:"limit"`
	Offset    int   `schema:"offset"`
	Published *bool `schema:"published"`
}

type RootResponse struct {
	Message string   `json:"message"`
	Data    []Memory `json:"data"`
}

type MemoriesResponse struct {
	Data []Memory `json:"data"`
}

type SummaryResponse struct {
	ConversationSummary []Memory `json:"conversation_summary"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}
