package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
	"gorm.io/gorm"
)

const DefaultSessionCacheSize = 128

// Responder produces the model's reply to a message within a conversation.
type Responder interface {
	Respond(ctx context.Context, sessionID uuid.UUID, message string) (string, error)
}

type sessionEntry struct {
	session      *ChatSession
	lastAccessed time.Time
}

// SessionManager keeps the most recently used chat sessions in memory. The
// transcript itself lives in the database, so an evicted session is rebuilt
// transparently on its next message.
type SessionManager struct {
	lock     sync.Mutex
	db       *gorm.DB
	llm      llms.Model
	model    string
	sessions map[uuid.UUID]*sessionEntry
	maxSize  int
	locks    *MutexMap
}

func NewSessionManager(db *gorm.DB, llm llms.Model, model string, maxSize int) *SessionManager {
	if maxSize <= 0 {
		maxSize = DefaultSessionCacheSize
	}
	return &SessionManager{
		db:       db,
		llm:      llm,
		model:    model,
		sessions: make(map[uuid.UUID]*sessionEntry, maxSize),
		maxSize:  maxSize,
		locks:    NewMutexMap(),
	}
}

func (m *SessionManager) GetSession(sessionID uuid.UUID) *ChatSession {
	m.lock.Lock()
	defer m.lock.Unlock()

	if entry, exists := m.sessions[sessionID]; exists {
		entry.lastAccessed = time.Now()
		return entry.session
	}

	if len(m.sessions) >= m.maxSize {
		m.evictOldest()
	}

	session := NewChatSession(m.db, sessionID, m.model, m.llm)
	m.sessions[sessionID] = &sessionEntry{
		session:      session,
		lastAccessed: time.Now(),
	}
	return session
}

// evictOldest must be called with m.lock held.
func (m *SessionManager) evictOldest() {
	oldestSessionID := uuid.Nil
	var oldestTime time.Time
	for id, entry := range m.sessions {
		if oldestSessionID == uuid.Nil || entry.lastAccessed.Before(oldestTime) {
			oldestSessionID = id
			oldestTime = entry.lastAccessed
		}
	}
	delete(m.sessions, oldestSessionID)
}

func (m *SessionManager) Len() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return len(m.sessions)
}

// Respond serializes messages per session id, across cache evictions too.
func (m *SessionManager) Respond(ctx context.Context, sessionID uuid.UUID, message string) (string, error) {
	m.locks.Lock(sessionID)
	defer m.locks.Unlock(sessionID)

	return m.GetSession(sessionID).Chat(ctx, message)
}
