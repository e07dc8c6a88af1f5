// Package film holds the catalog entity.
package film

import (
	"strings"
	"time"

	"github.com/amirasaad/cinema/pkg/domain"
	"github.com/google/uuid"
)

// ErrFilmNotFound is returned when a film id does not resolve.
var ErrFilmNotFound = domain.NewError(domain.ErrNotFound, "film not found")

// Film is a catalog entry. Price is kept in the smallest currency unit.
type Film struct {
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

// Details are the editable, non-media attributes of a film.
type Details struct {
	Title       string
	Category    string
	Price       int64
	Link        string
	Description string
}

// Validate checks that every required attribute is present.
func (d Details) Validate() error {
	switch {
	case strings.TrimSpace(d.Title) == "":
		return domain.Validationf("title is required")
	case strings.TrimSpace(d.Category) == "":
		return domain.Validationf("category is required")
	case d.Price < 0:
		return domain.Validationf("price must not be negative")
	case strings.TrimSpace(d.Link) == "":
		return domain.Validationf("link is required")
	case strings.TrimSpace(d.Description) == "":
		return domain.Validationf("desc is required")
	}
	return nil
}

// New builds a film from validated details and an uploaded thumbnail.
func New(d Details, thumbnail, thumbnailID string) (*Film, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if thumbnail == "" {
		return nil, domain.Validationf("thumbnail is required")
	}
	now := time.Now().UTC()
	return &Film{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(d.Title),
		Thumbnail:   thumbnail,
		ThumbnailID: thumbnailID,
		Category:    strings.TrimSpace(d.Category),
		Price:       d.Price,
		Link:        strings.TrimSpace(d.Link),
		Description: d.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
