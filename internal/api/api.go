package api

import (
	"context"
	"log/slog"
	"memory-backend/internal/chat"
	"memory-backend/internal/database"
	"memory-backend/internal/messaging"
	"memory-backend/pkg/api"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

const rootMessage = "Be Good Doing Good By Acting Good"

const (
	latestMemoryCount  = 1
	summaryMemoryCount = 3
)

type MemoryService struct {
	db         *gorm.DB
	responder  chat.Responder
	summarizer chat.Summarizer
	publisher  messaging.Publisher
}

// NewMemoryService builds the memory endpoints. summarizer and publisher
// may be nil.
func NewMemoryService(db *gorm.DB, responder chat.Responder, summarizer chat.Summarizer, publisher messaging.Publisher) *MemoryService {
	return &MemoryService{db: db, responder: responder, summarizer: summarizer, publisher: publisher}
}

func (s *MemoryService) AddRoutes(r chi.Router) {
	r.Get("/", RestHandler(s.Root))
	r.Get("/health", RestHandler(func(r *http.Request) (any, error) { return nil, nil }))
	r.Get("/history", RestHandler(s.ListMemories))
	r.Post("/conversation", RestHandlerWithStatus(http.StatusCreated, s.StartConversation))
	r.Get("/conversation_by_id/{id}", RestHandler(s.GetMemory))
	r.Put("/update-conversation/{id}", RestHandler(s.UpdateMemory))
	r.Delete("/delete-conversation/{id}", RestHandlerWithStatus(http.StatusNoContent, s.DeleteMemory))
	r.Get("/audio", RestHandler(s.LatestMemory))
	r.Get("/conversation-summary", RestHandler(s.ConversationSummary))
	r.Get("/sessions/{session_id}/history", RestHandler(s.SessionHistory))
}

func (s *MemoryService) Root(r *http.Request) (any, error) {
	memories, err := database.ListMemories(r.Context(), s.db, database.ListOptions{})
	if err != nil {
		return nil, err
	}
	return api.RootResponse{Message: rootMessage, Data: convertMemories(memories)}, nil
}

func (s *MemoryService) ListMemories(r *http.Request) (any, error) {
	params, err := ParseRequestQueryParams[api.ListMemoriesParams](r)
	if err != nil {
		return nil, err
	}

	if params.Limit < 0 || params.Offset < 0 {
		return nil, CodedErrorf(http.StatusUnprocessableEntity, "limit and offset must not be negative")
	}

	memories, err := database.ListMemories(r.Context(), s.db, database.ListOptions{
		Limit:     params.Limit,
		Offset:    params.Offset,
		Published: params.Published,
	})
	if err != nil {
		return nil, err
	}

	return api.MemoriesResponse{Data: convertMemories(memories)}, nil
}

func (s *MemoryService) GetMemory(r *http.Request) (any, error) {
	id, err := URLParamUint(r, "id")
	if err != nil {
		return nil, err
	}

	memory, err := database.GetMemory(r.Context(), s.db, id)
	if err != nil {
		return nil, err
	}

	return convertMemory(memory), nil
}

func (s *MemoryService) UpdateMemory(r *http.Request) (any, error) {
	id, err := URLParamUint(r, "id")
	if err != nil {
		return nil, err
	}

	req, err := ParseRequest[api.UpdateMemoryRequest](r)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.UserMessage) == "" {
		return nil, CodedErrorf(http.StatusUnprocessableEntity, "user_message must not be empty")
	}

	memory, err := database.UpdateMemory(r.Context(), s.db, id, database.MemoryUpdate{
		UserMessage:          req.UserMessage,
		LlmResponse:          req.LlmResponse,
		ConversationsSummary: req.ConversationsSummary,
		Published:            publishedOrDefault(req.Published),
		Rating:               req.Rating,
	})
	if err != nil {
		return nil, err
	}

	s.publish(r.Context(), messaging.MemoryUpdated, memory)

	return convertMemory(memory), nil
}

func (s *MemoryService) DeleteMemory(r *http.Request) (any, error) {
	id, err := URLParamUint(r, "id")
	if err != nil {
		return nil, err
	}

	if err := database.DeleteMemory(r.Context(), s.db, id); err != nil {
		return nil, err
	}

	s.publish(r.Context(), messaging.MemoryDeleted, database.Memory{Id: id})

	return nil, nil
}

func (s *MemoryService) LatestMemory(r *http.Request) (any, error) {
	memories, err := database.LatestMemories(r.Context(), s.db, latestMemoryCount)
	if err != nil {
		return nil, err
	}
	return api.MemoriesResponse{Data: convertMemories(memories)}, nil
}

func (s *MemoryService) ConversationSummary(r *http.Request) (any, error) {
	memories, err := database.FirstMemories(r.Context(), s.db, summaryMemoryCount)
	if err != nil {
		return nil, err
	}
	return api.SummaryResponse{ConversationSummary: convertMemories(memories)}, nil
}

// publish never fails the request, consumers of the events are best effort.
func (s *MemoryService) publish(ctx context.Context, eventType messaging.EventType, memory database.Memory) {
	if s.publisher == nil {
		return
	}

	event := messaging.MemoryEvent{
		Type:      eventType,
		MemoryId:  memory.Id,
		SessionId: memory.SessionId,
		Timestamp: time.Now().UTC(),
	}
	if err := s.publisher.PublishMemoryEvent(ctx, event); err != nil {
		slog.Error("error publishing memory event", "type", eventType, "memory_id", memory.Id, "error", err)
	}
}

func publishedOrDefault(published *bool) bool {
	if published == nil {
		return true
	}
	return *published
}
