// Package mocks holds testify mocks of the repository and provider ports.
package mocks

import (
	"context"
	"reflect"

	"github.com/amirasaad/cinema/pkg/dto"
	"github.com/amirasaad/cinema/pkg/provider/media"
	"github.com/amirasaad/cinema/pkg/repository"
	"github.com/amirasaad/cinema/pkg/repository/film"
	"github.com/amirasaad/cinema/pkg/repository/transaction"
	"github.com/amirasaad/cinema/pkg/repository/user"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUnitOfWork runs Do inline and hands out the configured repositories.
type MockUnitOfWork struct {
	mock.Mock
	Users        user.Repository
	Films        film.Repository
	Transactions transaction.Repository
}

func (m *MockUnitOfWork) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m)
}

func (m *MockUnitOfWork) GetRepository(repoType reflect.Type) (any, error) {
	switch repoType {
	case reflect.TypeOf((*user.Repository)(nil)).Elem():
		return m.Users, nil
	case reflect.TypeOf((*film.Repository)(nil)).Elem():
		return m.Films, nil
	case reflect.TypeOf((*transaction.Repository)(nil)).Elem():
		return m.Transactions, nil
	}
	return nil, nil
}

func (m *MockUnitOfWork) UserRepository() (user.Repository, error) { return m.Users, nil }

func (m *MockUnitOfWork) FilmRepository() (film.Repository, error) { return m.Films, nil }

func (m *MockUnitOfWork) TransactionRepository() (transaction.Repository, error) {
	return m.Transactions, nil
}

// MockUserRepository is a testify mock of user.Repository.
type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, c *dto.UserCreate) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, id uuid.UUID, u *dto.UserUpdate) error {
	return m.Called(ctx, id, u).Error(0)
}

func (m *MockUserRepository) Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*dto.UserRead)
	return u, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*dto.UserRead, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*dto.UserRead)
	return u, args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockFilmRepository is a testify mock of film.Repository.
type MockFilmRepository struct{ mock.Mock }

func (m *MockFilmRepository) Create(ctx context.Context, c *dto.FilmCreate) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockFilmRepository) Update(ctx context.Context, id uuid.UUID, u *dto.FilmUpdate) error {
	return m.Called(ctx, id, u).Error(0)
}

func (m *MockFilmRepository) Get(ctx context.Context, id uuid.UUID) (*dto.FilmRead, error) {
	args := m.Called(ctx, id)
	f, _ := args.Get(0).(*dto.FilmRead)
	return f, args.Error(1)
}

func (m *MockFilmRepository) List(ctx context.Context) ([]*dto.FilmRead, error) {
	args := m.Called(ctx)
	fs, _ := args.Get(0).([]*dto.FilmRead)
	return fs, args.Error(1)
}

func (m *MockFilmRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockTransactionRepository is a testify mock of transaction.Repository.
type MockTransactionRepository struct{ mock.Mock }

func (m *MockTransactionRepository) Create(ctx context.Context, c *dto.TransactionCreate) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockTransactionRepository) Get(ctx context.Context, id uuid.UUID) (*dto.TransactionRead, error) {
	args := m.Called(ctx, id)
	tx, _ := args.Get(0).(*dto.TransactionRead)
	return tx, args.Error(1)
}

func (m *MockTransactionRepository) GetByUserAndFilm(
	ctx context.Context,
	userID, filmID uuid.UUID,
) (*dto.TransactionRead, error) {
	args := m.Called(ctx, userID, filmID)
	tx, _ := args.Get(0).(*dto.TransactionRead)
	return tx, args.Error(1)
}

func (m *MockTransactionRepository) ExistsByUserAndFilm(ctx context.Context, userID, filmID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, filmID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockTransactionRepository) List(ctx context.Context) ([]*dto.TransactionRead, error) {
	args := m.Called(ctx)
	txs, _ := args.Get(0).([]*dto.TransactionRead)
	return txs, args.Error(1)
}

func (m *MockTransactionRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	status string,
) ([]*dto.TransactionRead, error) {
	args := m.Called(ctx, userID, status)
	txs, _ := args.Get(0).([]*dto.TransactionRead)
	return txs, args.Error(1)
}

// MockMedia is a testify mock of media.Media.
type MockMedia struct{ mock.Mock }

func (m *MockMedia) Upload(ctx context.Context, params *media.UploadParams) (*media.Asset, error) {
	args := m.Called(ctx, params)
	a, _ := args.Get(0).(*media.Asset)
	return a, args.Error(1)
}

func (m *MockMedia) Destroy(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

var (
	_ repository.UnitOfWork  = (*MockUnitOfWork)(nil)
	_ user.Repository        = (*MockUserRepository)(nil)
	_ film.Repository        = (*MockFilmRepository)(nil)
	_ transaction.Repository = (*MockTransactionRepository)(nil)
	_ media.Media            = (*MockMedia)(nil)
)
