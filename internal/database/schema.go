package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	Id           uint      `gorm:"primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
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
	CreatedAt            time.Time `gorm:"not null"`
}

func (Memory) TableName() string {
	return "api_memories"
}

const (
	MessageTypeUser = "user"
	MessageTypeAI   = "ai"
)

type ChatHistory struct {
	Id          uint      `gorm:"primaryKey"`
	SessionId   uuid.UUID `gorm:"type:uuid;index"`
	MessageType string    `gorm:"size:8;not null"` // 'user' or 'ai'
	Content     string
	Timestamp   time.Time
	Metadata    datatypes.JSON `gorm:"type:jsonb"` // {"model": "..."}
}
