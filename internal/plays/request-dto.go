package plays

import "github.com/google/uuid"

type CreatePlayRequest struct {
	Title       string      `json:"title" binding:"required,min=1,max=255"`
	Description string      `json:"description"`
	Genres      []uuid.UUID `json:"genres"`
	Actors      []uuid.UUID `json:"actors"`
}
