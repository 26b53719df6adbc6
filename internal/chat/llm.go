package chat

import (
	"fmt"

	"github.com/tmc/langchaingo/llms/openai"
)

type LLMConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

func NewOpenAILLM(cfg LLMConfig) (*openai.LLM, error) {
	opts := []openai.Option{openai.WithToken(cfg.APIKey), openai.WithModel(cfg.Model)}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("could not create OpenAI client: %w", err)
	}
	return client, nil
}
