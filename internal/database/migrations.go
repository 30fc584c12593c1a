package database

import (
	"log"

	"gorm.io/gorm"
)

// RunMigrations runs custom data migrations after schema changes. Each step
// is safe to run repeatedly.
func RunMigrations(db *gorm.DB) error {
	if err := migrateParallelTypeField(db); err != nil {
		return err
	}
	if err := migrateNumberedField(db); err != nil {
		return err
	}
	return nil
}

// migrateParallelTypeField normalizes legacy NULL parallel labels to the
// empty string so (set_id, card_number, parallel_type) lookups behave under
// SQLite's NULL-comparison rules.
func migrateParallelTypeField(db *gorm.DB) error {
	if !db.Migrator().HasTable("cards") {
		return nil
	}

	result := db.Exec(`UPDATE cards SET parallel_type = '' WHERE parallel_type IS NULL`)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Normalized %d cards with NULL parallel_type", result.RowsAffected)
	}

	// Drop the legacy two-column index that predates parallel_type.
	// Note: AutoMigrate will not reliably drop old indexes.
	if db.Migrator().HasIndex("cards", "idx_set_number") {
		if err := db.Migrator().DropIndex("cards", "idx_set_number"); err != nil {
			log.Printf("Warning: failed to drop legacy cards index idx_set_number: %v", err)
		}
	}

	return nil
}

// migrateNumberedField backfills the numbered display string for cards
// imported before it existed.
func migrateNumberedField(db *gorm.DB) error {
	if !db.Migrator().HasTable("cards") {
		return nil
	}

	result := db.Exec(`
		UPDATE cards
		SET numbered = CASE
			WHEN print_run = 1 THEN '1 of 1'
			ELSE '/' || print_run
		END,
		is_numbered = 1
		WHERE print_run IS NOT NULL AND (numbered IS NULL OR numbered = '')
	`)
	if result.Error != nil {
		log.Printf("Warning: failed to backfill numbered display strings: %v", result.Error)
		return nil
	}
	if result.RowsAffected > 0 {
		log.Printf("Backfilled numbered display for %d cards", result.RowsAffected)
	}
	return nil
}
