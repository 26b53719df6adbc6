package main

import (
	"context"
	"log"
	"log/slog"
	"memory-backend/cmd"
	"memory-backend/internal/api"
	"memory-backend/internal/auth"
	"memory-backend/internal/chat"
	"memory-backend/internal/config"
	"memory-backend/internal/messaging"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func createPublisher(rabbitMQURL string) messaging.Publisher {
	if rabbitMQURL == "" {
		slog.Info("RABBITMQ_URL not set, memory events stay in process")
		return messaging.NewInMemoryQueue()
	}

	publisher, err := messaging.NewRabbitMQPublisher(rabbitMQURL)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	return publisher
}

func main() {
	log.Println("Starting API Server...")

	cmd.LoadEnvFile()

	var cfg config.APIConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := cmd.InitializeDatabase(ctx, cfg.DatabaseConfig)

	tokens, err := auth.NewTokenService(cfg.SecretKey)
	if err != nil {
		log.Fatalf("Failed to create token service: %v", err)
	}

	llm, err := chat.NewOpenAILLM(cfg.LLMConfig())
	if err != nil {
		log.Fatalf("Failed to create llm client: %v", err)
	}
	sessions := chat.NewSessionManager(db, llm, cfg.Model, cfg.SessionCacheSize)

	var summarizer chat.Summarizer
	if cfg.Summaries {
		summarizer = chat.NewOpenAISummarizer(cfg.LLMConfig())
	}

	publisher := createPublisher(cfg.RabbitMQURL)
	defer publisher.Close()

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	api.NewMemoryService(db, sessions, summarizer, publisher).AddRoutes(r)
	api.NewUserService(db, tokens).AddRoutes(r)

	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: r,
	}

	go func() {
		<-ctx.Done()
		log.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("API server listening on port %s", cfg.APIPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
	}

	log.Println("Server stopped.")
}
