package infra

import (
	"context"
	"fmt"
	"reflect"

	filmrepo "github.com/amirasaad/cinema/infra/repository/film"
	txrepo "github.com/amirasaad/cinema/infra/repository/transaction"
	userrepo "github.com/amirasaad/cinema/infra/repository/user"
	"github.com/amirasaad/cinema/pkg/repository"
	"github.com/amirasaad/cinema/pkg/repository/film"
	"github.com/amirasaad/cinema/pkg/repository/transaction"
	"github.com/amirasaad/cinema/pkg/repository/user"
	"gorm.io/gorm"
)

// UoW provides transaction boundary and repository access in one abstraction.
// Repositories handed out inside Do share the transaction session.
type UoW struct {
	db           *gorm.DB
	tx           *gorm.DB
	repoRegistry map[reflect.Type]func(*gorm.DB) any
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{
		db: db,
		repoRegistry: map[reflect.Type]func(*gorm.DB) any{
			reflect.TypeOf((*user.Repository)(nil)).Elem():        func(db *gorm.DB) any { return userrepo.New(db) },
			reflect.TypeOf((*film.Repository)(nil)).Elem():        func(db *gorm.DB) any { return filmrepo.New(db) },
			reflect.TypeOf((*transaction.Repository)(nil)).Elem(): func(db *gorm.DB) any { return txrepo.New(db) },
		},
	}
}

// Do runs the given function in a transaction boundary, providing a UoW with repository access.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txnUow := &UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry}
		return fn(txnUow)
	})
}

// GetRepository returns the repository registered for repoType, bound to
// the transaction session inside Do or to the plain connection outside it.
func (u *UoW) GetRepository(repoType reflect.Type) (any, error) {
	constructor, ok := u.repoRegistry[repoType]
	if !ok {
		return nil, fmt.Errorf("unsupported repository type: %v", repoType)
	}
	return constructor(u.session()), nil
}

func (u *UoW) UserRepository() (user.Repository, error) {
	return getRepository[user.Repository](u)
}

func (u *UoW) FilmRepository() (film.Repository, error) {
	return getRepository[film.Repository](u)
}

func (u *UoW) TransactionRepository() (transaction.Repository, error) {
	return getRepository[transaction.Repository](u)
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func getRepository[T any](u *UoW) (T, error) {
	var zero T
	repoAny, err := u.GetRepository(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return zero, err
	}
	repo, ok := repoAny.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected repository type %T", repoAny)
	}
	return repo, nil
}

var _ repository.UnitOfWork = (*UoW)(nil)
