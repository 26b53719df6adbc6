package chat

import (
	"context"
	"fmt"
	"memory-backend/internal/database"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SQLite only supports one writer at a time, so we need a lock
// whenever we write to the database
var dbMutex sync.Mutex

func GetChatHistory(ctx context.Context, db *gorm.DB, sessionID uuid.UUID) ([]database.ChatHistory, error) {
	history := make([]database.ChatHistory, 0)
	err := db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp ASC").
		Order("id ASC").
		Find(&history).
		Error
	if err != nil {
		return nil, fmt.Errorf("error loading chat history for session %s: %w", sessionID, err)
	}
	return history, nil
}

// SaveChatMessages appends the messages to the transcript in one transaction.
func SaveChatMessages(ctx context.Context, db *gorm.DB, messages ...*database.ChatHistory) error {
	dbMutex.Lock()
	defer dbMutex.Unlock()

	return db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		for _, msg := range messages {
			if err := txn.Create(msg).Error; err != nil {
				return fmt.Errorf("error saving chat message: %w", err)
			}
		}
		return nil
	})
}

func DeleteChatHistory(ctx context.Context, db *gorm.DB, sessionID uuid.UUID) error {
	dbMutex.Lock()
	defer dbMutex.Unlock()
	return db.WithContext(ctx).Delete(&database.ChatHistory{}, "session_id = ?", sessionID).Error
}

// DeleteExchange removes the most recent user message with the given content
// and the reply saved right after it.
func DeleteExchange(ctx context.Context, db *gorm.DB, sessionID uuid.UUID, userInput, reply string) error {
	dbMutex.Lock()
	defer dbMutex.Unlock()

	return db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		var userMsg database.ChatHistory
		err := txn.
			Where("session_id = ? AND message_type = ? AND content = ?", sessionID, database.MessageTypeUser, userInput).
			Order("id DESC").
			First(&userMsg).
			Error
		if err != nil {
			return fmt.Errorf("error finding chat message to delete: %w", err)
		}

		var aiMsg database.ChatHistory
		err = txn.
			Where("session_id = ? AND message_type = ? AND content = ? AND id > ?", sessionID, database.MessageTypeAI, reply, userMsg.Id).
			Order("id ASC").
			First(&aiMsg).
			Error
		if err != nil {
			return fmt.Errorf("error finding chat reply to delete: %w", err)
		}

		if err := txn.Delete(&database.ChatHistory{}, []uint{userMsg.Id, aiMsg.Id}).Error; err != nil {
			return fmt.Errorf("error deleting chat exchange: %w", err)
		}
		return nil
	})
}
