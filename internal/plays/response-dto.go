package plays

import (
	"theatre/internal/actors"
	"theatre/internal/genres"

	"github.com/google/uuid"
)

// PlayListItem flattens genres and actors to names for the list view
type PlayListItem struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Genres []string  `json:"genres"`
	Actors []string  `json:"actors"`
	Image  *string   `json:"image"`
}

type PlayDetail struct {
	ID          uuid.UUID              `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Genres      []genres.Genre         `json:"genres"`
	Actors      []actors.ActorResponse `json:"actors"`
	Image       *string                `json:"image"`
}

type ImageResponse struct {
	ID    uuid.UUID `json:"id"`
	Image string    `json:"image"`
}

func ToPlayListItem(p Play) PlayListItem {
	item := PlayListItem{
		ID:     p.ID,
		Title:  p.Title,
		Genres: make([]string, 0, len(p.Genres)),
		Actors: make([]string, 0, len(p.Actors)),
		Image:  imageRef(p.Image),
	}
	for _, g := range p.Genres {
		item.Genres = append(item.Genres, g.Name)
	}
	for _, a := range p.Actors {
		item.Actors = append(item.Actors, a.FullName())
	}
	return item
}

func ToPlayDetail(p Play) PlayDetail {
	detail := PlayDetail{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Genres:      p.Genres,
		Actors:      make([]actors.ActorResponse, 0, len(p.Actors)),
		Image:       imageRef(p.Image),
	}
	if detail.Genres == nil {
		detail.Genres = []genres.Genre{}
	}
	for _, a := range p.Actors {
		detail.Actors = append(detail.Actors, actors.ToActorResponse(a))
	}
	return detail
}

func imageRef(image string) *string {
	if image == "" {
		return nil
	}
	return &image
}
