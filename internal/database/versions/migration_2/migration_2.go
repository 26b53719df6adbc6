package migration_2

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// LegacyConversation is the raw-SQL table older deployments bootstrapped at
// startup. It duplicated api_memories and is no longer read.
type LegacyConversation struct {
	Id                   uint `gorm:"primaryKey"`
	UserMessage          string
	LlmResponse          string
	ConversationsSummary string
	Published            bool
	Rating               *int
	CreatedAt            time.Time `gorm:"type:timestamp"`
}

func (LegacyConversation) TableName() string {
	return "omr"
}

func Migration(db *gorm.DB) error {
	if err := db.Migrator().DropTable(&LegacyConversation{}); err != nil {
		return fmt.Errorf("error dropping legacy omr table: %w", err)
	}
	return nil
}

func Rollback(db *gorm.DB) error {
	if err := db.Migrator().CreateTable(&LegacyConversation{}); err != nil {
		return fmt.Errorf("error recreating legacy omr table: %w", err)
	}
	return nil
}
