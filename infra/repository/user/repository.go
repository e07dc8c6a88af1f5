package user

import (
	"context"
	"errors"

	infrarepo "github.com/amirasaad/cinema/infra/repository"
	"github.com/amirasaad/cinema/pkg/domain"
	"github.com/amirasaad/cinema/pkg/dto"
	"github.com/amirasaad/cinema/pkg/repository/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// New returns a gorm-backed user.Repository.
func New(db *gorm.DB) user.Repository {
	return &repository{db: db}
}

func (r *repository) Create(
	ctx context.Context,
	create *dto.UserCreate,
) error {
	u := &User{
		ID:       create.ID,
		Email:    create.Email,
		Password: create.Password,
		Fullname: create.Fullname,
		Phone:    create.Phone,
		IsAdmin:  create.IsAdmin,
	}
	return infrarepo.WrapError(func() error {
		return r.db.WithContext(ctx).Create(u).Error
	})
}

func (r *repository) Update(
	ctx context.Context,
	id uuid.UUID,
	uu *dto.UserUpdate,
) error {
	updates := make(map[string]interface{})

	// Only include non-nil fields in the update
	if uu.Fullname != nil {
		updates["fullname"] = *uu.Fullname
	}
	if uu.Phone != nil {
		updates["phone"] = *uu.Phone
	}
	if uu.Image != nil {
		updates["image"] = *uu.Image
	}
	if uu.ImageID != nil {
		updates["image_id"] = *uu.ImageID
	}
	if uu.IsAdmin != nil {
		updates["is_admin"] = *uu.IsAdmin
	}
	if len(updates) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return infrarepo.MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*dto.UserRead, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*dto.UserRead, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *repository) ExistsByEmail(
	ctx context.Context,
	email string,
) (bool, error) {
	var count int64
	err := r.db.WithContext(
		ctx,
	).Model(&User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) first(ctx context.Context, query string, arg any) (*dto.UserRead, error) {
	var u User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return MapModelToDTO(&u), nil
}

// MapModelToDTO converts a user row into its read DTO.
func MapModelToDTO(u *User) *dto.UserRead {
	return &dto.UserRead{
		ID:             u.ID,
		Email:          u.Email,
		HashedPassword: u.Password,
		Fullname:       u.Fullname,
		Phone:          u.Phone,
		Image:          u.Image,
		ImageID:        u.ImageID,
		IsAdmin:        u.IsAdmin,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

var _ user.Repository = (*repository)(nil)
