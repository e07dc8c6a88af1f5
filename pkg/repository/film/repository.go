package film

import (
	"context"

	"github.com/amirasaad/cinema/pkg/dto"
	"github.com/google/uuid"
)

// Repository defines the interface for catalog data access operations.
type Repository interface {
	// Create inserts a new film record from a DTO.
	Create(ctx context.Context, create *dto.FilmCreate) error

	// Update changes the non-nil columns of a film. Unknown ids yield domain.ErrNotFound.
	Update(ctx context.Context, id uuid.UUID, update *dto.FilmUpdate) error

	// Get retrieves a film by its ID. It returns nil, nil when absent.
	Get(ctx context.Context, id uuid.UUID) (*dto.FilmRead, error)

	// List returns every film, newest first.
	List(ctx context.Context) ([]*dto.FilmRead, error)

	// Delete removes a film by its ID. Unknown ids yield domain.ErrNotFound.
	Delete(ctx context.Context, id uuid.UUID) error
}
