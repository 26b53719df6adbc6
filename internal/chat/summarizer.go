package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const summaryPrompt = "Summarize the following conversation in at most three sentences. Reply with the summary only."

type Summarizer interface {
	Summarize(ctx context.Context, transcript []Turn) (string, error)
}

type Turn struct {
	Role    string
	Content string
}

type OpenAISummarizer struct {
	client openai.Client
	model  string
	temp   float64
}

func NewOpenAISummarizer(cfg LLMConfig) *OpenAISummarizer {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAISummarizer{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
		temp:   0,
	}
}

func (o *OpenAISummarizer) Summarize(ctx context.Context, transcript []Turn) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 50*time.Second)
	defer cancel()

	var b strings.Builder
	for _, turn := range transcript {
		fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Content)
	}

	chatOpts := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(summaryPrompt),
			openai.UserMessage(b.String()),
		},
		Model:       o.model,
		Temperature: openai.Float(o.temp),
	}

	res, err := o.client.Chat.Completions.New(ctx, chatOpts)
	if err != nil {
		slog.Error("openai error: chat completions failed", "error", err)
		return "", fmt.Errorf("%w: summary generation failed: %w", ErrUpstream, err)
	}

	if len(res.Choices) == 0 {
		return "", fmt.Errorf("%w: summary generation returned no choices", ErrUpstream)
	}

	return strings.TrimSpace(res.Choices[0].Message.Content), nil
}
