package api

import (
	"encoding/json"
	"memory-backend/internal/database"
	"memory-backend/pkg/api"
)

func convertMemory(m database.Memory) api.Memory {
	return api.Memory{
		Id:                   m.Id,
		SessionId:            m.SessionId,
		UserMessage:          m.UserMessage,
		LlmResponse:          m.LlmResponse,
		ConversationsSummary: m.ConversationsSummary,
		Published:            m.Published,
		Rating:               m.Rating,
		CreatedAt:            m.CreatedAt,
	}
}

func convertMemories(ms []database.Memory) []api.Memory {
	memories := make([]api.Memory, 0, len(ms))
	for _, m := range ms {
		memories = append(memories, convertMemory(m))
	}
	return memories
}

func convertChatHistory(history []database.ChatHistory) []api.ChatHistoryItem {
	items := make([]api.ChatHistoryItem, 0, len(history))
	for _, h := range history {
		var metadata json.RawMessage
		if len(h.Metadata) > 0 {
			metadata = json.RawMessage(h.Metadata)
		}
		items = append(items, api.ChatHistoryItem{
			MessageType: h.MessageType,
			Content:     h.Content,
			Timestamp:   h.Timestamp,
			Metadata:    metadata,
		})
	}
	return items
}

func convertUser(u database.User) api.User {
	return api.User{
		Id:        u.Id,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
