package database

import (
	"theatre/internal/actors"
	"theatre/internal/genres"
	"theatre/internal/halls"
	"theatre/internal/performances"
	"theatre/internal/plays"
	"theatre/internal/reservations"
	"theatre/internal/users"

	"gorm.io/gorm"
)

// Models lists every persisted type in dependency order
func Models() []interface{} {
	return []interface{}{
		&users.User{},
		&genres.Genre{},
		&actors.Actor{},
		&plays.Play{},
		&halls.TheatreHall{},
		&performances.Performance{},
		&reservations.Reservation{},
		&reservations.Ticket{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
