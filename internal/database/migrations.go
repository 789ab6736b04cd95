package database

import (
	"fmt"
	"gorm.io/gorm"
)

// RunMigrations executes all database migrations
func RunMigrations(db *gorm.DB) error {
	// Create indexes for better performance
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// createIndexes creates database indexes
func createIndexes(db *gorm.DB) error {
	// Index for docket lookups across uploads
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_record_uploads_docket
		ON record_uploads(docket_number)
	`).Error; err != nil {
		return err
	}

	// Index for search logs by name
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_search_logs_name
		ON search_logs(last_name, first_name)
	`).Error; err != nil {
		return err
	}

	// Index for generated packages by time
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_generated_packages_time
		ON generated_packages(generated_at)
	`).Error; err != nil {
		return err
	}

	return nil
}
