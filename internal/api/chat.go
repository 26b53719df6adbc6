package api

import (
	"context"
	"fmt"
	"log/slog"
	"memory-backend/internal/chat"
	"memory-backend/internal/database"
	"memory-backend/internal/messaging"
	"memory-backend/pkg/api"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// StartConversation stores the user's message together with the model's reply
// for the conversation identified by session_id. The record is removed again
// if no reply could be produced.
func (s *MemoryService) StartConversation(r *http.Request) (any, error) {
	req, err := ParseRequest[api.CreateMemoryRequest](r)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.UserMessage) == "" {
		return nil, CodedErrorf(http.StatusUnprocessableEntity, "user_message must not be empty")
	}

	sessionId := uuid.New()
	if req.SessionId != nil && *req.SessionId != uuid.Nil {
		sessionId = *req.SessionId
	}

	ctx := r.Context()

	memory := database.Memory{
		SessionId:            sessionId,
		UserMessage:          req.UserMessage,
		LlmResponse:          req.LlmResponse,
		ConversationsSummary: req.ConversationsSummary,
		Published:            publishedOrDefault(req.Published),
		Rating:               req.Rating,
	}
	if err := database.CreateMemory(ctx, s.db, &memory); err != nil {
		return nil, err
	}

	reply, err := s.responder.Respond(ctx, sessionId, req.UserMessage)
	if err != nil {
		slog.Error("error generating reply", "memory_id", memory.Id, "session_id", sessionId, "error", err)
		s.discard(ctx, memory.Id)
		return nil, err
	}

	summary := req.ConversationsSummary
	if summary == "" {
		summary = s.summarize(ctx, sessionId)
	}

	if err := database.SetMemoryResponse(ctx, s.db, &memory, reply, summary); err != nil {
		s.discard(ctx, memory.Id)
		s.forgetExchange(ctx, sessionId, req.UserMessage, reply)
		return nil, err
	}
	memory.LlmResponse = reply
	memory.ConversationsSummary = summary

	s.publish(ctx, messaging.MemoryCreated, memory)

	return convertMemory(memory), nil
}

// discard removes a provisional record even if the request was cancelled.
func (s *MemoryService) discard(ctx context.Context, id uint) {
	if err := database.DeleteMemory(context.WithoutCancel(ctx), s.db, id); err != nil {
		slog.Error("error discarding provisional memory", "memory_id", id, "error", err)
	}
}

// forgetExchange drops the transcript lines of a reply whose record was
// discarded, so later replies in the session do not build on it.
func (s *MemoryService) forgetExchange(ctx context.Context, sessionId uuid.UUID, message, reply string) {
	if err := chat.DeleteExchange(context.WithoutCancel(ctx), s.db, sessionId, message, reply); err != nil {
		slog.Error("error removing transcript of discarded memory", "session_id", sessionId, "error", err)
	}
}

// summarize is best effort, a failed summary leaves the field empty.
func (s *MemoryService) summarize(ctx context.Context, sessionId uuid.UUID) string {
	if s.summarizer == nil {
		return ""
	}

	history, err := chat.GetChatHistory(ctx, s.db, sessionId)
	if err != nil {
		slog.Error("error loading transcript for summary", "session_id", sessionId, "error", err)
		return ""
	}

	transcript := make([]chat.Turn, 0, len(history))
	for _, h := range history {
		transcript = append(transcript, chat.Turn{Role: h.MessageType, Content: h.Content})
	}

	summary, err := s.summarizer.Summarize(ctx, transcript)
	if err != nil {
		slog.Warn("conversation summary unavailable", "session_id", sessionId, "error", err)
		return ""
	}
	return summary
}

func (s *MemoryService) SessionHistory(r *http.Request) (any, error) {
	sessionId, err := URLParamUUID(r, "session_id")
	if err != nil {
		return nil, err
	}

	history, err := chat.GetChatHistory(r.Context(), s.db, sessionId)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", database.ErrPersistence, err)
	}

	return api.SessionHistoryResponse{SessionId: sessionId, Messages: convertChatHistory(history)}, nil
}
