package database

import (
	"log"
	"log/slog"
	"memory-backend/internal/database/versions/migration_0"
	"memory-backend/internal/database/versions/migration_1"
	"memory-backend/internal/database/versions/migration_2"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func GetMigrator(db *gorm.DB) *gormigrate.Gormigrate {
	migrator := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID:      "0",
			Migrate: migration_0.Migration,
		},
		{
			ID:       "1",
			Migrate:  migration_1.Migration,
			Rollback: migration_1.Rollback,
		},
		{
			ID:       "2",
			Migrate:  migration_2.Migration,
			Rollback: migration_2.Rollback,
		},
	})

	migrator.InitSchema(func(txn *gorm.DB) error {
		// This is run by the migrator if no previous migration is detected. It
		// allows it to bypass running all the migrations sequentially and just create
		// the latest database state.

		log.Println("clean database detected, running full schema initialization")

		if err := txn.AutoMigrate(&User{}, &Memory{}, &ChatHistory{}); err != nil {
			return err
		}

		if txn.Dialector.Name() == "postgres" {
			for _, table := range []string{"api_memories", "api_users"} {
				if err := txn.Exec("ALTER TABLE " + table + " ALTER COLUMN created_at SET DEFAULT now()").Error; err != nil {
					slog.Error("error setting created_at default", "table", table, "error", err)
					return err
				}
			}
		}

		// Databases created by earlier deployments may still carry the raw-SQL table.
		return migration_2.Migration(txn)
	})

	return migrator
}
