package config

import (
	"errors"
	"memory-backend/internal/chat"
	"memory-backend/internal/database"
	"strings"
	"time"
)

// DatabaseConfig takes DATABASE_URL as is, or composes a postgres url from
// the DB_* variables when it is unset.
type DatabaseConfig struct {
	URL        string        `env:"DATABASE_URL"`
	Host       string        `env:"DB_HOST" envDefault:"localhost"`
	Port       int           `env:"DB_PORT" envDefault:"5432"`
	User       string        `env:"DB_USER"`
	Password   string        `env:"DB_PASSWORD"`
	Name       string        `env:"DB_NAME"`
	SSLMode    string        `env:"DB_SSLMODE" envDefault:"disable"`
	RetryDelay time.Duration `env:"DB_RETRY_DELAY" envDefault:"3s"`
}

func (c DatabaseConfig) ConnectionURL() (string, error) {
	if c.URL != "" {
		return c.URL, nil
	}

	if c.Name == "" || c.User == "" {
		return "", errors.New("either DATABASE_URL or DB_USER and DB_NAME must be set")
	}

	return database.ConnParams{
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		Name:     c.Name,
		SSLMode:  c.SSLMode,
	}.URL(), nil
}

type OpenAIConfig struct {
	APIKey  string `env:"OPENAI_API_KEY,notEmpty,required"`
	Model   string `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
	BaseURL string `env:"OPENAI_BASE_URL"`
}

func (c OpenAIConfig) LLMConfig() chat.LLMConfig {
	return chat.LLMConfig{APIKey: c.APIKey, Model: c.Model, BaseURL: c.BaseURL}
}

type APIConfig struct {
	DatabaseConfig
	OpenAIConfig

	SecretKey        string `env:"OAUTH2_SECRET_KEY,notEmpty,required"`
	RabbitMQURL      string `env:"RABBITMQ_URL"`
	APIPort          string `env:"API_PORT" envDefault:"8000"`
	SessionCacheSize int    `env:"SESSION_CACHE_SIZE" envDefault:"128"`
	CORSOrigins      string `env:"CORS_ORIGINS" envDefault:"*"`
	Summaries        bool   `env:"GENERATE_SUMMARIES" envDefault:"true"`
}

func (c APIConfig) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
