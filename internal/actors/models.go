package actors

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Actor struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	FirstName string    `json:"first_name" gorm:"type:varchar(255);not null"`
	LastName  string    `json:"last_name" gorm:"type:varchar(255);not null"`
}

func (a *Actor) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (a Actor) FullName() string {
	return a.FirstName + " " + a.LastName
}
