package cmd

import (
	"context"
	"flag"
	"log"
	"memory-backend/internal/config"
	"memory-backend/internal/database"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func LoadEnvFile() {
	var configPath string

	flag.StringVar(&configPath, "env", "", "path to load env from")
	flag.Parse()

	if configPath == "" {
		log.Printf("no env file specified, using os.Environ only")
		return
	}

	log.Printf("loading env from file %s", configPath)
	err := godotenv.Load(configPath)
	if err != nil {
		log.Fatalf("error loading .env file '%s': %v", configPath, err)
	}
}

// InitializeDatabase waits for the database to come up and brings its
// schema to the latest version.
func InitializeDatabase(ctx context.Context, cfg config.DatabaseConfig) *gorm.DB {
	url, err := cfg.ConnectionURL()
	if err != nil {
		log.Fatalf("invalid database config: %v", err)
	}

	db, err := database.ConnectWithRetry(ctx, url, cfg.RetryDelay)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.GetMigrator(db).Migrate(); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	return db
}
