package migration_1

import (
	"fmt"

	"gorm.io/gorm"
)

var tables = []string{"api_memories", "api_users"}

// Migration makes created_at timezone aware. Sqlite has no such distinction.
func Migration(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	for _, table := range tables {
		stmt := fmt.Sprintf(
			`ALTER TABLE %s ALTER COLUMN created_at TYPE TIMESTAMPTZ USING created_at AT TIME ZONE 'UTC', ALTER COLUMN created_at SET DEFAULT now()`,
			table,
		)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("error converting %s.created_at to timestamptz: %w", table, err)
		}
	}

	return nil
}

func Rollback(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	for _, table := range tables {
		stmt := fmt.Sprintf(
			`ALTER TABLE %s ALTER COLUMN created_at TYPE TIMESTAMP USING created_at AT TIME ZONE 'UTC', ALTER COLUMN created_at DROP DEFAULT`,
			table,
		)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("error converting %s.created_at to timestamp: %w", table, err)
		}
	}

	return nil
}
