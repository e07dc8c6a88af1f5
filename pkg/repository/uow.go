package repository

import (
	"context"
	"reflect"

	"github.com/amirasaad/cinema/pkg/repository/film"
	"github.com/amirasaad/cinema/pkg/repository/transaction"
	"github.com/amirasaad/cinema/pkg/repository/user"
)

// UnitOfWork defines the contract for transactional work and type-safe repository access.
//
// Do runs the given function in a transaction boundary, providing a UnitOfWork for repository access.
// Repositories obtained from the inner UnitOfWork share the same session.
//
//	err := uow.Do(ctx, func(uow UnitOfWork) error {
//		repo, err := uow.TransactionRepository()
//		...
//	})
type UnitOfWork interface {
	// Do executes the given function within a transaction boundary.
	// If the function returns an error, the transaction is rolled back.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository returns a repository of the requested interface type,
	// bound to the current transaction/session.
	GetRepository(repoType reflect.Type) (any, error)

	UserRepository() (user.Repository, error)
	FilmRepository() (film.Repository, error)
	TransactionRepository() (transaction.Repository, error)
}
