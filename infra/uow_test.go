package infra

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/amirasaad/cinema/pkg/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockUoW(t *testing.T) (*UoW, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewUoW(db), mock
}

func TestUoW_Repositories(t *testing.T) {
	uow, _ := newMockUoW(t)

	users, err := uow.UserRepository()
	assert.NoError(t, err)
	assert.NotNil(t, users)

	films, err := uow.FilmRepository()
	assert.NoError(t, err)
	assert.NotNil(t, films)

	txs, err := uow.TransactionRepository()
	assert.NoError(t, err)
	assert.NotNil(t, txs)

	_, err = uow.GetRepository(reflect.TypeOf(""))
	assert.Error(t, err)
}

func TestUoW_DoCommits(t *testing.T) {
	uow, mock := newMockUoW(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE email = \$1`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	err := uow.Do(context.Background(), func(txUow repository.UnitOfWork) error {
		repo, err := txUow.UserRepository()
		if err != nil {
			return err
		}
		if _, err := repo.ExistsByEmail(context.Background(), "alice@example.com"); err != nil {
			return err
		}
		_, err = repo.Get(context.Background(), id)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUoW_DoRollsBack(t *testing.T) {
	uow, mock := newMockUoW(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := uow.Do(context.Background(), func(repository.UnitOfWork) error { return boom })
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUoW_DoBeginError(t *testing.T) {
	uow, mock := newMockUoW(t)
	mock.ExpectBegin().WillReturnError(errors.New("begin error"))

	called := false
	err := uow.Do(context.Background(), func(repository.UnitOfWork) error {
		called = true
		return nil
	})
	require.Error(t, err)
	require.False(t, called)
}
