package client_test

import (
	"context"
	"errors"
	backend "memory-backend/internal/api"
	"memory-backend/internal/auth"
	"memory-backend/internal/chat"
	"memory-backend/internal/database"
	"memory-backend/internal/messaging"
	"memory-backend/pkg/api"
	"memory-backend/pkg/client"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type shoutLLM struct{}

func (shoutLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	last := messages[len(messages)-1].Parts[0].(llms.TextContent).Text
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: last + "!"}}}, nil
}

func (m shoutLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func newServer(t *testing.T) *client.Client {
	db, err := database.NewDatabase("file::memory:")
	require.NoError(t, err)
	require.NoError(t, database.GetMigrator(db).Migrate())

	tokens, err := auth.NewTokenService("client-test-secret")
	require.NoError(t, err)

	router := chi.NewRouter()
	backend.NewMemoryService(db, chat.NewSessionManager(db, shoutLLM{}, "", 4), nil, messaging.NewInMemoryQueue()).AddRoutes(router)
	backend.NewUserService(db, tokens).AddRoutes(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return client.New(server.URL)
}

func TestClientMemories(t *testing.T) {
	c := newServer(t)
	ctx := context.Background()

	created, err := c.CreateMemory(ctx, api.CreateMemoryRequest{UserMessage: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi!", created.LlmResponse)

	fetched, err := c.GetMemory(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, created.Id, fetched.Id)
	assert.Equal(t, "hi!", fetched.LlmResponse)

	unpublished := false
	updated, err := c.UpdateMemory(ctx, created.Id, api.UpdateMemoryRequest{UserMessage: "hello", LlmResponse: "hey", Published: &unpublished})
	require.NoError(t, err)
	assert.Equal(t, "hello", updated.UserMessage)
	assert.False(t, updated.Published)

	all, err := c.ListMemories(ctx, api.ListMemoriesParams{})
	require.NoError(t, err)
	require.Len(t, all, 1)

	published := true
	visible, err := c.ListMemories(ctx, api.ListMemoriesParams{Published: &published})
	require.NoError(t, err)
	assert.Empty(t, visible)

	history, err := c.SessionHistory(ctx, created.SessionId.String())
	require.NoError(t, err)
	assert.Len(t, history.Messages, 2)

	require.NoError(t, c.DeleteMemory(ctx, created.Id))

	_, err = c.GetMemory(ctx, created.Id)
	assert.ErrorIs(t, err, client.ErrNotFound)

	err = c.DeleteMemory(ctx, created.Id)
	assert.ErrorIs(t, err, client.ErrNotFound)
}

func TestClientUsers(t *testing.T) {
	c := newServer(t)
	ctx := context.Background()

	user, err := c.Register(ctx, "grace@example.com", "hopper1906")
	require.NoError(t, err)

	_, err = c.CurrentUser(ctx)
	assert.ErrorIs(t, err, client.ErrUnauthorized)

	_, err = c.Login(ctx, "grace@example.com", "wrong-password")
	assert.ErrorIs(t, err, client.ErrUnauthorized)

	token, err := c.Login(ctx, "grace@example.com", "hopper1906")
	require.NoError(t, err)
	assert.Equal(t, "bearer", token.TokenType)

	me, err := c.WithToken(token.AccessToken).CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.Id, me.Id)
	assert.Equal(t, "grace@example.com", me.Email)

	_, err = c.Register(ctx, "grace@example.com", "hopper1906")
	var statusErr *client.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusConflict, statusErr.StatusCode)
}
