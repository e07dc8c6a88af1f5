package transaction

import (
	"context"
	"errors"

	infrarepo "github.com/amirasaad/cinema/infra/repository"
	filmrepo "github.com/amirasaad/cinema/infra/repository/film"
	"github.com/amirasaad/cinema/pkg/domain"
	"github.com/amirasaad/cinema/pkg/dto"
	"github.com/amirasaad/cinema/pkg/repository/transaction"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

// New returns a gorm-backed transaction.Repository.
func New(db *gorm.DB) transaction.Repository {
	return &repository{db: db}
}

func (r *repository) Create(
	ctx context.Context,
	create *dto.TransactionCreate,
) error {
	tx := &Transaction{
		ID:            create.ID,
		UserID:        create.UserID,
		FilmID:        create.FilmID,
		ProofImage:    create.ProofImage,
		ProofImageID:  create.ProofImageID,
		AccountNumber: create.AccountNumber,
		Status:        create.Status,
		CreatedAt:     create.CreatedAt,
	}
	return infrarepo.WrapError(func() error {
		return r.db.WithContext(ctx).Omit(clause.Associations).Create(tx).Error
	})
}

func (r *repository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*dto.TransactionRead, error) {
	var tx Transaction
	err := r.db.WithContext(ctx).
		Preload("Film").
		Preload("User").
		First(&tx, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapModelToDTO(&tx, true, true), nil
}

func (r *repository) GetByUserAndFilm(
	ctx context.Context,
	userID, filmID uuid.UUID,
) (*dto.TransactionRead, error) {
	var tx Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND film_id = ?", userID, filmID).
		First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapModelToDTO(&tx, false, false), nil
}

func (r *repository) ExistsByUserAndFilm(
	ctx context.Context,
	userID, filmID uuid.UUID,
) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Transaction{}).
		Where("user_id = ? AND film_id = ?", userID, filmID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status string,
) error {
	res := r.db.WithContext(ctx).
		Model(&Transaction{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return infrarepo.MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context) ([]*dto.TransactionRead, error) {
	var txs []Transaction
	err := r.db.WithContext(ctx).
		Preload("Film").
		Preload("User").
		Order("created_at DESC").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return mapModelsToDTO(txs, true, true), nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	status string,
) ([]*dto.TransactionRead, error) {
	q := r.db.WithContext(ctx).
		Preload("Film").
		Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var txs []Transaction
	if err := q.Order("created_at DESC").Find(&txs).Error; err != nil {
		return nil, err
	}
	return mapModelsToDTO(txs, true, false), nil
}

func mapModelsToDTO(txs []Transaction, withFilm, withUser bool) []*dto.TransactionRead {
	result := make([]*dto.TransactionRead, 0, len(txs))
	for i := range txs {
		result = append(result, mapModelToDTO(&txs[i], withFilm, withUser))
	}
	return result
}

func mapModelToDTO(tx *Transaction, withFilm, withUser bool) *dto.TransactionRead {
	read := &dto.TransactionRead{
		ID:            tx.ID,
		UserID:        tx.UserID,
		FilmID:        tx.FilmID,
		ProofImage:    tx.ProofImage,
		ProofImageID:  tx.ProofImageID,
		AccountNumber: tx.AccountNumber,
		Status:        tx.Status,
		CreatedAt:     tx.CreatedAt,
		UpdatedAt:     tx.UpdatedAt,
	}
	if withFilm && tx.Film.ID != uuid.Nil {
		read.Film = filmrepo.MapModelToDTO(&tx.Film)
	}
	if withUser && tx.User.ID != uuid.Nil {
		read.User = &dto.UserSummary{
			ID:       tx.User.ID,
			Fullname: tx.User.Fullname,
			Email:    tx.User.Email,
		}
	}
	return read
}

var _ transaction.Repository = (*repository)(nil)
