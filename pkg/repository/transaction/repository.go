package transaction

import (
	"context"

	"github.com/amirasaad/cinema/pkg/dto"
	"github.com/google/uuid"
)

// Repository defines the interface for purchase data access operations.
type Repository interface {
	// Create inserts a new transaction. A second row for the same
	// (user, film) pair yields domain.ErrAlreadyExists.
	Create(ctx context.Context, create *dto.TransactionCreate) error

	// Get retrieves a transaction by its ID with its film and user joined.
	// It returns nil, nil when absent.
	Get(ctx context.Context, id uuid.UUID) (*dto.TransactionRead, error)

	// GetByUserAndFilm returns the caller's transaction for a film, or nil, nil.
	GetByUserAndFilm(ctx context.Context, userID, filmID uuid.UUID) (*dto.TransactionRead, error)

	// ExistsByUserAndFilm reports whether any transaction exists for the pair.
	ExistsByUserAndFilm(ctx context.Context, userID, filmID uuid.UUID) (bool, error)

	// UpdateStatus sets the status column. Unknown ids yield domain.ErrNotFound.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// List returns every transaction with film and user joined, newest first.
	List(ctx context.Context) ([]*dto.TransactionRead, error)

	// ListByUser returns a user's transactions with film joined, newest first.
	// An empty status matches every status.
	ListByUser(ctx context.Context, userID uuid.UUID, status string) ([]*dto.TransactionRead, error)
}
