package database_test

import (
	"context"
	"testing"

	"memory-backend/internal/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createDB(t *testing.T) *gorm.DB {
	db, err := database.NewDatabase("file::memory:")
	require.NoError(t, err)

	require.NoError(t, database.GetMigrator(db).Migrate())

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func createMemories(t *testing.T, db *gorm.DB, messages ...string) []database.Memory {
	var memories []database.Memory
	for _, msg := range messages {
		m := database.Memory{SessionId: uuid.New(), UserMessage: msg, Published: true}
		require.NoError(t, database.CreateMemory(context.Background(), db, &m))
		memories = append(memories, m)
	}
	return memories
}

func TestMemoryCrud(t *testing.T) {
	ctx := context.Background()
	db := createDB(t)

	rating := 4
	memory := database.Memory{
		SessionId:            uuid.New(),
		UserMessage:          "hello",
		ConversationsSummary: "greeting",
		Published:            true,
		Rating:               &rating,
	}
	require.NoError(t, database.CreateMemory(ctx, db, &memory))
	assert.NotZero(t, memory.Id)
	assert.False(t, memory.CreatedAt.IsZero())

	t.Run("Get", func(t *testing.T) {
		got, err := database.GetMemory(ctx, db, memory.Id)
		require.NoError(t, err)
		assert.Equal(t, "hello", got.UserMessage)
		assert.Equal(t, "greeting", got.ConversationsSummary)
		assert.Equal(t, memory.SessionId, got.SessionId)
		require.NotNil(t, got.Rating)
		assert.Equal(t, 4, *got.Rating)
	})

	t.Run("Update", func(t *testing.T) {
		updated, err := database.UpdateMemory(ctx, db, memory.Id, database.MemoryUpdate{
			UserMessage:          "hello again",
			LlmResponse:          "hi",
			ConversationsSummary: "greeting",
			Published:            false,
		})
		require.NoError(t, err)
		assert.Equal(t, "hello again", updated.UserMessage)
		assert.Equal(t, "hi", updated.LlmResponse)
		assert.False(t, updated.Published)
		assert.Nil(t, updated.Rating)

		got, err := database.GetMemory(ctx, db, memory.Id)
		require.NoError(t, err)
		assert.Equal(t, updated.UserMessage, got.UserMessage)
		assert.False(t, got.Published)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, database.DeleteMemory(ctx, db, memory.Id))

		_, err := database.GetMemory(ctx, db, memory.Id)
		assert.ErrorIs(t, err, database.ErrNotFound)

		assert.ErrorIs(t, database.DeleteMemory(ctx, db, memory.Id), database.ErrNotFound)
	})
}

func TestMemoryNotFound(t *testing.T) {
	ctx := context.Background()
	db := createDB(t)

	_, err := database.GetMemory(ctx, db, 42)
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.NotErrorIs(t, err, database.ErrPersistence)

	_, err = database.UpdateMemory(ctx, db, 42, database.MemoryUpdate{UserMessage: "x"})
	assert.ErrorIs(t, err, database.ErrNotFound)

	assert.ErrorIs(t, database.DeleteMemory(ctx, db, 42), database.ErrNotFound)
}

func TestListMemories(t *testing.T) {
	ctx := context.Background()
	db := createDB(t)

	created := createMemories(t, db, "a", "b", "c", "d", "e")
	_, err := database.UpdateMemory(ctx, db, created[1].Id, database.MemoryUpdate{UserMessage: "b", Published: false})
	require.NoError(t, err)

	messages := func(ms []database.Memory) []string {
		out := make([]string, 0, len(ms))
		for _, m := range ms {
			out = append(out, m.UserMessage)
		}
		return out
	}

	all, err := database.ListMemories(ctx, db, database.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, messages(all))

	paged, err := database.ListMemories(ctx, db, database.ListOptions{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d"}, messages(paged))

	published := true
	filtered, err := database.ListMemories(ctx, db, database.ListOptions{Published: &published})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "d", "e"}, messages(filtered))

	first, err := database.FirstMemories(ctx, db, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, messages(first))

	latest, err := database.LatestMemories(ctx, db, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "e"}, messages(latest))
}

func TestListMemoriesEmpty(t *testing.T) {
	db := createDB(t)

	all, err := database.ListMemories(context.Background(), db, database.ListOptions{})
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	db := createDB(t)

	user := database.User{Email: "ada@example.com", PasswordHash: "hash"}
	require.NoError(t, database.CreateUser(ctx, db, &user))
	assert.NotZero(t, user.Id)

	byId, err := database.GetUser(ctx, db, user.Id)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", byId.Email)

	byEmail, err := database.GetUserByEmail(ctx, db, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.Id, byEmail.Id)

	dup := database.User{Email: "ada@example.com", PasswordHash: "other"}
	assert.ErrorIs(t, database.CreateUser(ctx, db, &dup), database.ErrDuplicate)

	_, err = database.GetUser(ctx, db, user.Id+100)
	assert.ErrorIs(t, err, database.ErrNotFound)
}
