package plays

import (
	"time"

	"theatre/internal/actors"
	"theatre/internal/genres"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Play struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string         `json:"title" gorm:"type:varchar(255);not null;index"`
	Description string         `json:"description" gorm:"type:text"`
	Genres      []genres.Genre `json:"genres" gorm:"many2many:play_genres;constraint:OnDelete:CASCADE"`
	Actors      []actors.Actor `json:"actors" gorm:"many2many:play_actors;constraint:OnDelete:CASCADE"`
	Image       string         `json:"image" gorm:"type:varchar(512)"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (p *Play) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Filter narrows the play list. Ids within one dimension are alternatives;
// the dimensions themselves must all match.
type Filter struct {
	Title    string
	GenreIDs []uuid.UUID
	ActorIDs []uuid.UUID
}
