package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"memory-backend/internal/database"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const systemPrompt = "The following is a friendly conversation between a human and an AI. The AI is talkative and provides lots of specific details from its context. If the AI does not know the answer to a question, it truthfully says it does not know."

var ErrUpstream = errors.New("upstream model failure")

// ChatSession is the conversation context of one session id. Calls on the
// same session are serialized so every reply sees the full transcript.
type ChatSession struct {
	mu        sync.Mutex
	db        *gorm.DB
	sessionID uuid.UUID
	model     string
	llm       llms.Model
}

func NewChatSession(db *gorm.DB, sessionID uuid.UUID, model string, llm llms.Model) *ChatSession {
	return &ChatSession{
		db:        db,
		sessionID: sessionID,
		model:     model,
		llm:       llm,
	}
}

func (session *ChatSession) Chat(ctx context.Context, userInput string) (string, error) {
	session.mu.Lock()
	defer session.mu.Unlock()

	history, err := GetChatHistory(ctx, session.db, session.sessionID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", database.ErrPersistence, err)
	}

	messages := make([]llms.MessageContent, 0, len(history)+2)
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))
	for _, msg := range history {
		role := llms.ChatMessageTypeHuman
		if msg.MessageType == database.MessageTypeAI {
			role = llms.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, msg.Content))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, userInput))

	reply, err := session.generate(ctx, messages)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	userMsg := &database.ChatHistory{
		SessionId:   session.sessionID,
		MessageType: database.MessageTypeUser,
		Content:     userInput,
		Timestamp:   now,
	}
	aiMsg := &database.ChatHistory{
		SessionId:   session.sessionID,
		MessageType: database.MessageTypeAI,
		Content:     reply,
		Timestamp:   now,
		Metadata:    session.metadata(),
	}
	if err := SaveChatMessages(ctx, session.db, userMsg, aiMsg); err != nil {
		return "", fmt.Errorf("%w: %w", database.ErrPersistence, err)
	}

	return reply, nil
}

func (session *ChatSession) generate(ctx context.Context, messages []llms.MessageContent) (string, error) {
	resp, err := session.llm.GenerateContent(ctx, messages, llms.WithTemperature(0.0))
	if err != nil {
		slog.Error("error calling llm", "session_id", session.sessionID, "error", err)
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: llm returned no choices", ErrUpstream)
	}

	return resp.Choices[0].Content, nil
}

func (session *ChatSession) metadata() datatypes.JSON {
	if session.model == "" {
		return nil
	}
	b, err := json.Marshal(map[string]string{"model": session.model})
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
