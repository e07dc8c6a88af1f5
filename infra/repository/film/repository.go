package film

import (
	"context"
	"errors"

	infrarepo "github.com/amirasaad/cinema/infra/repository"
	"github.com/amirasaad/cinema/pkg/domain"
	"github.com/amirasaad/cinema/pkg/dto"
	"github.com/amirasaad/cinema/pkg/repository/film"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// New returns a gorm-backed film.Repository.
func New(db *gorm.DB) film.Repository {
	return &repository{db: db}
}

func (r *repository) Create(
	ctx context.Context,
	create *dto.FilmCreate,
) error {
	f := &Film{
		ID:          create.ID,
		Title:       create.Title,
		Thumbnail:   create.Thumbnail,
		ThumbnailID: create.ThumbnailID,
		Poster:      create.Poster,
		PosterID:    create.PosterID,
		Category:    create.Category,
		Price:       create.Price,
		Link:        create.Link,
		Description: create.Description,
	}
	return infrarepo.WrapError(func() error {
		return r.db.WithContext(ctx).Create(f).Error
	})
}

func (r *repository) Update(
	ctx context.Context,
	id uuid.UUID,
	fu *dto.FilmUpdate,
) error {
	updates := make(map[string]interface{})
	if fu.Title != nil {
		updates["title"] = *fu.Title
	}
	if fu.Category != nil {
		updates["category"] = *fu.Category
	}
	if fu.Price != nil {
		updates["price"] = *fu.Price
	}
	if fu.Link != nil {
		updates["link"] = *fu.Link
	}
	if fu.Description != nil {
		updates["description"] = *fu.Description
	}
	if fu.Thumbnail != nil {
		updates["thumbnail"] = *fu.Thumbnail
	}
	if fu.ThumbnailID != nil {
		updates["thumbnail_id"] = *fu.ThumbnailID
	}
	if fu.Poster != nil {
		updates["poster"] = *fu.Poster
	}
	if fu.PosterID != nil {
		updates["poster_id"] = *fu.PosterID
	}
	if len(updates) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).Model(&Film{}).Where("id = ?", id).Updates(updates)
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
) (*dto.FilmRead, error) {
	var f Film
	if err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return MapModelToDTO(&f), nil
}

func (r *repository) List(ctx context.Context) ([]*dto.FilmRead, error) {
	var films []Film
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&films).Error; err != nil {
		return nil, err
	}
	result := make([]*dto.FilmRead, 0, len(films))
	for i := range films {
		result = append(result, MapModelToDTO(&films[i]))
	}
	return result, nil
}

func (r *repository) Delete(
	ctx context.Context,
	id uuid.UUID,
) error {
	res := r.db.WithContext(ctx).Delete(&Film{}, "id = ?", id)
	if res.Error != nil {
		return infrarepo.MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MapModelToDTO converts a film row into its read DTO.
func MapModelToDTO(f *Film) *dto.FilmRead {
	return &dto.FilmRead{
		ID:          f.ID,
		Title:       f.Title,
		Thumbnail:   f.Thumbnail,
		ThumbnailID: f.ThumbnailID,
		Poster:      f.Poster,
		PosterID:    f.PosterID,
		Category:    f.Category,
		Price:       f.Price,
		Link:        f.Link,
		Description: f.Description,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

var _ film.Repository = (*repository)(nil)
