package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicate   = errors.New("record already exists")
	ErrPersistence = errors.New("persistence failure")
)

func wrapErr(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", msg, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", msg, errors.Join(ErrPersistence, err))
}

type ListOptions struct {
	Limit     int
	Offset    int
	Published *bool
}

func CreateMemory(ctx context.Context, db *gorm.DB, memory *Memory) error {
	if err := db.WithContext(ctx).Create(memory).Error; err != nil {
		slog.Error("error creating memory", "error", err)
		return wrapErr(err, "error creating memory")
	}
	return nil
}

// ListMemories returns memories in insertion order.
func ListMemories(ctx context.Context, db *gorm.DB, opts ListOptions) ([]Memory, error) {
	query := db.WithContext(ctx).Order("id ASC")
	if opts.Published != nil {
		query = query.Where("published = ?", *opts.Published)
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	memories := make([]Memory, 0)
	if err := query.Find(&memories).Error; err != nil {
		return nil, wrapErr(err, "error listing memories")
	}
	return memories, nil
}

func LatestMemories(ctx context.Context, db *gorm.DB, n int) ([]Memory, error) {
	memories := make([]Memory, 0, n)
	if err := db.WithContext(ctx).Order("id DESC").Limit(n).Find(&memories).Error; err != nil {
		return nil, wrapErr(err, "error listing latest memories")
	}
	for i, j := 0, len(memories)-1; i < j; i, j = i+1, j-1 {
		memories[i], memories[j] = memories[j], memories[i]
	}
	return memories, nil
}

func FirstMemories(ctx context.Context, db *gorm.DB, n int) ([]Memory, error) {
	return ListMemories(ctx, db, ListOptions{Limit: n})
}

func GetMemory(ctx context.Context, db *gorm.DB, id uint) (Memory, error) {
	var memory Memory
	if err := db.WithContext(ctx).First(&memory, "id = ?", id).Error; err != nil {
		return Memory{}, wrapErr(err, "error getting memory %d", id)
	}
	return memory, nil
}

type MemoryUpdate struct {
	UserMessage          string
	LlmResponse          string
	ConversationsSummary string
	Published            bool
	Rating               *int
}

func UpdateMemory(ctx context.Context, db *gorm.DB, id uint, update MemoryUpdate) (Memory, error) {
	var memory Memory
	err := db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		if err := txn.First(&memory, "id = ?", id).Error; err != nil {
			return err
		}

		updates := map[string]any{
			"user_message":          update.UserMessage,
			"llm_response":          update.LlmResponse,
			"conversations_summary": update.ConversationsSummary,
			"published":             update.Published,
			"rating":                update.Rating,
		}
		if err := txn.Model(&memory).Updates(updates).Error; err != nil {
			return err
		}

		return txn.First(&memory, "id = ?", id).Error
	})
	if err != nil {
		return Memory{}, wrapErr(err, "error updating memory %d", id)
	}
	return memory, nil
}

func SetMemoryResponse(ctx context.Context, db *gorm.DB, memory *Memory, response, summary string) error {
	updates := map[string]any{"llm_response": response, "conversations_summary": summary}
	if err := db.WithContext(ctx).Model(memory).Updates(updates).Error; err != nil {
		slog.Error("error storing memory response", "memory_id", memory.Id, "error", err)
		return wrapErr(err, "error storing response for memory %d", memory.Id)
	}
	return nil
}

func DeleteMemory(ctx context.Context, db *gorm.DB, id uint) error {
	result := db.WithContext(ctx).Delete(&Memory{}, "id = ?", id)
	if result.Error != nil {
		return wrapErr(result.Error, "error deleting memory %d", id)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("memory %d: %w", id, ErrNotFound)
	}
	return nil
}

func CreateUser(ctx context.Context, db *gorm.DB, user *User) error {
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("user '%s' already exists: %w", user.Email, ErrDuplicate)
		}
		return wrapErr(err, "error creating user")
	}
	return nil
}

func GetUser(ctx context.Context, db *gorm.DB, id uint) (User, error) {
	var user User
	if err := db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return User{}, wrapErr(err, "error getting user %d", id)
	}
	return user, nil
}

func GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (User, error) {
	var user User
	if err := db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return User{}, wrapErr(err, "error getting user '%s'", email)
	}
	return user, nil
}
