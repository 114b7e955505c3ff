package database

import (
	"gorm.io/gorm"
)

// constraintStatements are PostgreSQL only; the seat uniqueness itself comes from
// the tickets model's unique index
var constraintStatements = []string{
	// Ticket coordinates are 1-based
	`DO $$ BEGIN
		ALTER TABLE tickets ADD CONSTRAINT chk_tickets_coordinates CHECK (row_num > 0 AND seat_num > 0);
	EXCEPTION WHEN duplicate_object THEN NULL;
	END $$;`,

	// Repertoire listing by play and date
	`CREATE INDEX IF NOT EXISTS idx_performances_play_show_time
		ON performances (play_id, show_time);`,

	// Case-insensitive title search
	`CREATE INDEX IF NOT EXISTS idx_plays_title_lower
		ON plays (LOWER(title));`,
}

// MigrateConstraints adds the constraints and indexes the models cannot express
func MigrateConstraints(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	for _, stmt := range constraintStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
