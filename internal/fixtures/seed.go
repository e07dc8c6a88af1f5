package fixtures

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/amirasaad/cinema/pkg/dto"
	"github.com/amirasaad/cinema/pkg/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// DefaultPassword is the plain password of every seeded user.
const DefaultPassword = "password123"

// Logger discards output.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SeedUser stores a user with DefaultPassword and returns it.
func SeedUser(t testing.TB, uow *UnitOfWork, email string, isAdmin bool) *dto.UserRead {
	t.Helper()
	hash, err := utils.HashPassword(DefaultPassword)
	require.NoError(t, err)
	repo, err := uow.UserRepository()
	require.NoError(t, err)
	id := uuid.New()
	require.NoError(t, repo.Create(context.Background(), &dto.UserCreate{
		ID:       id,
		Email:    email,
		Password: hash,
		Fullname: "Test " + email,
		IsAdmin:  isAdmin,
	}))
	u, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	return u
}

// SeedFilm stores a film with a thumbnail and poster and returns it.
func SeedFilm(t testing.TB, uow *UnitOfWork, title string) *dto.FilmRead {
	t.Helper()
	repo, err := uow.FilmRepository()
	require.NoError(t, err)
	id := uuid.New()
	require.NoError(t, repo.Create(context.Background(), &dto.FilmCreate{
		ID:          id,
		Title:       title,
		Thumbnail:   "cinema-online/film/" + title + "-thumb.png",
		ThumbnailID: "cinema-online/film/" + title + "-thumb.png",
		Poster:      "cinema-online/film/" + title + "-poster.png",
		PosterID:    "cinema-online/film/" + title + "-poster.png",
		Category:    "Drama",
		Price:       45000,
		Link:        "https://example.com/" + title,
		Description: "About " + title,
	}))
	f, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	return f
}

// SeedTransaction stores a transaction for (userID, filmID) in status.
func SeedTransaction(t testing.TB, uow *UnitOfWork, userID, filmID uuid.UUID, status string) *dto.TransactionRead {
	t.Helper()
	repo, err := uow.TransactionRepository()
	require.NoError(t, err)
	id := uuid.New()
	require.NoError(t, repo.Create(context.Background(), &dto.TransactionCreate{
		ID:            id,
		UserID:        userID,
		FilmID:        filmID,
		ProofImage:    "cinema-online/transfer/proof.png",
		ProofImageID:  "cinema-online/transfer/proof.png",
		AccountNumber: "1234567890",
		Status:        status,
	}))
	tx, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	return tx
}
