// Package fixtures provides an in-memory unit of work and seed helpers for
// service and handler tests.
package fixtures

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/amirasaad/cinema/pkg/domain"
	"github.com/amirasaad/cinema/pkg/dto"
	"github.com/amirasaad/cinema/pkg/repository"
	"github.com/amirasaad/cinema/pkg/repository/film"
	"github.com/amirasaad/cinema/pkg/repository/transaction"
	"github.com/amirasaad/cinema/pkg/repository/user"
	"github.com/google/uuid"
)

// store mirrors the postgres schema: unique email, unique (user, film),
// cascading deletes from films to transactions.
type store struct {
	mu    sync.Mutex
	seq   int64
	users map[uuid.UUID]*dto.UserRead
	films map[uuid.UUID]*dto.FilmRead
	txs   map[uuid.UUID]*txRow
	order map[uuid.UUID]int64
}

type txRow = dto.TransactionRead

// UnitOfWork is an in-memory repository.UnitOfWork. Do does not roll back.
type UnitOfWork struct {
	s *store
	// DoErr, when set, is returned by Do without running fn.
	DoErr error
}

// NewUnitOfWork returns an empty in-memory unit of work.
func NewUnitOfWork() *UnitOfWork {
	return &UnitOfWork{s: &store{
		users: make(map[uuid.UUID]*dto.UserRead),
		films: make(map[uuid.UUID]*dto.FilmRead),
		txs:   make(map[uuid.UUID]*txRow),
		order: make(map[uuid.UUID]int64),
	}}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if u.DoErr != nil {
		return u.DoErr
	}
	return fn(u)
}

func (u *UnitOfWork) GetRepository(repoType reflect.Type) (any, error) {
	switch repoType {
	case reflect.TypeOf((*user.Repository)(nil)).Elem():
		return &userRepo{s: u.s}, nil
	case reflect.TypeOf((*film.Repository)(nil)).Elem():
		return &filmRepo{s: u.s}, nil
	case reflect.TypeOf((*transaction.Repository)(nil)).Elem():
		return &txRepo{s: u.s}, nil
	}
	return nil, fmt.Errorf("unsupported repository type: %v", repoType)
}

func (u *UnitOfWork) UserRepository() (user.Repository, error) { return &userRepo{s: u.s}, nil }

func (u *UnitOfWork) FilmRepository() (film.Repository, error) { return &filmRepo{s: u.s}, nil }

func (u *UnitOfWork) TransactionRepository() (transaction.Repository, error) {
	return &txRepo{s: u.s}, nil
}

// TransactionCount returns the number of stored transactions.
func (u *UnitOfWork) TransactionCount() int {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	return len(u.s.txs)
}

// DeleteUser removes a user, as an operator would outside the API.
func (u *UnitOfWork) DeleteUser(id uuid.UUID) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	delete(u.s.users, id)
}

func (s *store) next(id uuid.UUID) time.Time {
	s.seq++
	s.order[id] = s.seq
	return time.Now().UTC()
}

// newestFirst sorts ids by insertion order, latest first.
func (s *store) newestFirst(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool { return s.order[ids[i]] > s.order[ids[j]] })
}

type userRepo struct{ s *store }

func (r *userRepo) Create(_ context.Context, c *dto.UserCreate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == c.Email {
			return domain.ErrAlreadyExists
		}
	}
	id := c.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	now := r.s.next(id)
	r.s.users[id] = &dto.UserRead{
		ID:             id,
		Email:          c.Email,
		HashedPassword: c.Password,
		Fullname:       c.Fullname,
		Phone:          c.Phone,
		IsAdmin:        c.IsAdmin,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return nil
}

func (r *userRepo) Update(_ context.Context, id uuid.UUID, up *dto.UserUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	if up.Fullname != nil {
		u.Fullname = *up.Fullname
	}
	if up.Phone != nil {
		u.Phone = *up.Phone
	}
	if up.Image != nil {
		u.Image = *up.Image
	}
	if up.ImageID != nil {
		u.ImageID = *up.ImageID
	}
	if up.IsAdmin != nil {
		u.IsAdmin = *up.IsAdmin
	}
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *userRepo) Get(_ context.Context, id uuid.UUID) (*dto.UserRead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*dto.UserRead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *userRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, err := r.GetByEmail(ctx, email)
	return u != nil, err
}

type filmRepo struct{ s *store }

func (r *filmRepo) Create(_ context.Context, c *dto.FilmCreate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id := c.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	if _, ok := r.s.films[id]; ok {
		return domain.ErrAlreadyExists
	}
	now := r.s.next(id)
	r.s.films[id] = &dto.FilmRead{
		ID:          id,
		Title:       c.Title,
		Thumbnail:   c.Thumbnail,
		ThumbnailID: c.ThumbnailID,
		Poster:      c.Poster,
		PosterID:    c.PosterID,
		Category:    c.Category,
		Price:       c.Price,
		Link:        c.Link,
		Description: c.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return nil
}

func (r *filmRepo) Update(_ context.Context, id uuid.UUID, up *dto.FilmUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.films[id]
	if !ok {
		return domain.ErrNotFound
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&f.Title, up.Title)
	set(&f.Category, up.Category)
	set(&f.Link, up.Link)
	set(&f.Description, up.Description)
	set(&f.Thumbnail, up.Thumbnail)
	set(&f.ThumbnailID, up.ThumbnailID)
	set(&f.Poster, up.Poster)
	set(&f.PosterID, up.PosterID)
	if up.Price != nil {
		f.Price = *up.Price
	}
	f.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *filmRepo) Get(_ context.Context, id uuid.UUID) (*dto.FilmRead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if f, ok := r.s.films[id]; ok {
		cp := *f
		return &cp, nil
	}
	return nil, nil
}

func (r *filmRepo) List(_ context.Context) ([]*dto.FilmRead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(r.s.films))
	for id := range r.s.films {
		ids = append(ids, id)
	}
	r.s.newestFirst(ids)
	out := make([]*dto.FilmRead, 0, len(ids))
	for _, id := range ids {
		cp := *r.s.films[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *filmRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.films[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.films, id)
	for txID, tx := range r.s.txs {
		if tx.FilmID == id {
			delete(r.s.txs, txID)
		}
	}
	return nil
}

type txRepo struct{ s *store }

func (r *txRepo) Create(_ context.Context, c *dto.TransactionCreate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.films[c.FilmID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := r.s.users[c.UserID]; !ok {
		return domain.ErrNotFound
	}
	for _, tx := range r.s.txs {
		if tx.UserID == c.UserID && tx.FilmID == c.FilmID {
			return domain.ErrAlreadyExists
		}
	}
	id := c.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	now := r.s.next(id)
	created := c.CreatedAt
	if created.IsZero() {
		created = now
	}
	r.s.txs[id] = &txRow{
		ID:            id,
		UserID:        c.UserID,
		FilmID:        c.FilmID,
		ProofImage:    c.ProofImage,
		ProofImageID:  c.ProofImageID,
		AccountNumber: c.AccountNumber,
		Status:        c.Status,
		CreatedAt:     created,
		UpdatedAt:     now,
	}
	return nil
}

// joined copies a row with its film and user attached. Caller holds the lock.
func (r *txRepo) joined(row *txRow, withUser bool) *dto.TransactionRead {
	out := *row
	if f, ok := r.s.films[row.FilmID]; ok {
		cp := *f
		out.Film = &cp
	}
	if withUser {
		if u, ok := r.s.users[row.UserID]; ok {
			out.User = &dto.UserSummary{ID: u.ID, Fullname: u.Fullname, Email: u.Email}
		}
	}
	return &out
}

func (r *txRepo) Get(_ context.Context, id uuid.UUID) (*dto.TransactionRead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.txs[id]
	if !ok {
		return nil, nil
	}
	return r.joined(row, true), nil
}

func (r *txRepo) GetByUserAndFilm(_ context.Context, userID, filmID uuid.UUID) (*dto.TransactionRead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, row := range r.s.txs {
		if row.UserID == userID && row.FilmID == filmID {
			return r.joined(row, false), nil
		}
	}
	return nil, nil
}

func (r *txRepo) ExistsByUserAndFilm(ctx context.Context, userID, filmID uuid.UUID) (bool, error) {
	tx, err := r.GetByUserAndFilm(ctx, userID, filmID)
	return tx != nil, err
}

func (r *txRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.txs[id]
	if !ok {
		return domain.ErrNotFound
	}
	row.Status = status
	row.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *txRepo) List(_ context.Context) ([]*dto.TransactionRead, error) {
	return r.list(func(*txRow) bool { return true }, true), nil
}

func (r *txRepo) ListByUser(_ context.Context, userID uuid.UUID, status string) ([]*dto.TransactionRead, error) {
	return r.list(func(row *txRow) bool {
		return row.UserID == userID && (status == "" || row.Status == status)
	}, false), nil
}

func (r *txRepo) list(keep func(*txRow) bool, withUser bool) []*dto.TransactionRead {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(r.s.txs))
	for id, row := range r.s.txs {
		if keep(row) {
			ids = append(ids, id)
		}
	}
	r.s.newestFirst(ids)
	out := make([]*dto.TransactionRead, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.joined(r.s.txs[id], withUser))
	}
	return out
}

var _ repository.UnitOfWork = (*UnitOfWork)(nil)
