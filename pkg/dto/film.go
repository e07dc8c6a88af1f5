package dto

import (
	"time"

	"github.com/google/uuid"
)

// FilmCreate represents the data needed to persist a new film.
type FilmCreate struct {
	ID          uuid.UUID
	Title       string
	Thumbnail   string
	ThumbnailID string
	Poster      string
	PosterID    string
	Category    string
	Price       int64
	Link        string
	Description string
}

// FilmUpdate carries the film columns to change. Nil fields are left as is.
type FilmUpdate struct {
	Title       *string
	Category    *string
	Price       *int64
	Link        *string
	Description *string
	Thumbnail   *string
	ThumbnailID *string
	Poster      *string
	PosterID    *string
}

// FilmRead represents a read-optimized view of a film.
type FilmRead struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Thumbnail   string    `json:"thumbnail"`
	ThumbnailID string    `json:"-"`
	Poster      string    `json:"poster,omitempty"`
	PosterID    string    `json:"-"`
	Category    string    `json:"category"`
	Price       int64     `json:"price"`
	Link        string    `json:"link"`
	Description string    `json:"desc"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
