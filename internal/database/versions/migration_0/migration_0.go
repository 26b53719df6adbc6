package migration_0

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	Id           uint      `gorm:"primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"type:timestamp;not null"`
}

func (User) TableName() string {
	return "api_users"
}

type Memory struct {
	Id                   uint      `gorm:"primaryKey"`
	SessionId            uuid.UUID `gorm:"type:uuid;index"`
	UserMessage          string    `gorm:"not null"`
	LlmResponse          string
	ConversationsSummary string
	Published            bool `gorm:"not null"`
	Rating               *int
	CreatedAt            time.Time `gorm:"type:timestamp;not null"`
}

func (Memory) TableName() string {
	return "api_memories"
}

type ChatHistory struct {
	Id          uint      `gorm:"primaryKey"`
	SessionId   uuid.UUID `gorm:"type:uuid;index"`
	MessageType string    `gorm:"size:8;not null"`
	Content     string
	Timestamp   time.Time
	Metadata    datatypes.JSON `gorm:"type:jsonb"`
}

func Migration(db *gorm.DB) error {
	if err := db.AutoMigrate(&User{}, &Memory{}, &ChatHistory{}); err != nil {
		return fmt.Errorf("initial migration failed: %w", err)
	}
	return nil
}
