// Package user provides business logic for registration and profile management.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/amirasaad/cinema/pkg/config"
	"github.com/amirasaad/cinema/pkg/domain"
	"github.com/amirasaad/cinema/pkg/domain/user"
	"github.com/amirasaad/cinema/pkg/dto"
	"github.com/amirasaad/cinema/pkg/provider/media"
	"github.com/amirasaad/cinema/pkg/repository"
	"github.com/amirasaad/cinema/pkg/service/auth"
	"github.com/google/uuid"
)

// ErrProfileForbidden is returned when a caller edits someone else's profile.
var ErrProfileForbidden = domain.NewError(domain.ErrForbidden, "you are not allowed to edit this profile")

// ProfileUpdate carries the editable profile fields. Nil fields are kept.
type ProfileUpdate struct {
	Fullname *string
	Phone    *string
	Image    *media.UploadParams
}

// Service provides business logic for user operations.
type Service struct {
	uow      repository.UnitOfWork
	media    media.Media
	mediaCfg *config.Media
	logger   *slog.Logger
}

// New creates a new Service.
func New(
	uow repository.UnitOfWork,
	mediaProvider media.Media,
	mediaCfg *config.Media,
	logger *slog.Logger,
) *Service {
	return &Service{
		uow:      uow,
		media:    mediaProvider,
		mediaCfg: mediaCfg,
		logger:   logger,
	}
}

// Register creates an account. A taken email yields user.ErrEmailTaken,
// including when a concurrent registration wins the unique index.
func (s *Service) Register(
	ctx context.Context,
	email, password, fullname string,
) (u *dto.UserRead, err error) {
	log := s.logger.With("context", "Register")
	nu, err := user.New(email, password, fullname)
	if err != nil {
		return nil, err
	}
	log = log.With("email", nu.Email)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		exists, err := repo.ExistsByEmail(ctx, nu.Email)
		if err != nil {
			return err
		}
		if exists {
			return user.ErrEmailTaken
		}
		if err := repo.Create(ctx, &dto.UserCreate{
			ID:       nu.ID,
			Email:    nu.Email,
			Password: nu.Password,
			Fullname: nu.Fullname,
		}); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				return user.ErrEmailTaken
			}
			return err
		}
		u, err = repo.Get(ctx, nu.ID)
		return err
	})
	if err != nil {
		log.Warn("Register failed", "error", err)
		return nil, err
	}
	log.Info("User registered", "userID", u.ID)
	return s.present(u), nil
}

// Get returns a user with its image resolved for display.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error) {
	repo, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}
	u, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}
	return s.present(u), nil
}

// UpdateProfile edits the profile of id. Only the owner or an admin may do
// so. A new image replaces the old one, which is then destroyed best-effort.
func (s *Service) UpdateProfile(
	ctx context.Context,
	actor auth.Identity,
	id uuid.UUID,
	in ProfileUpdate,
) (*dto.UserRead, error) {
	log := s.logger.With("context", "UpdateProfile", "userID", id, "actor", actor.UserID)
	if actor.UserID != id && !actor.IsAdmin {
		log.Warn("Profile edit refused")
		return nil, ErrProfileForbidden
	}
	if in.Fullname != nil {
		name := strings.TrimSpace(*in.Fullname)
		if name == "" {
			return nil, domain.Validationf("fullname must not be empty")
		}
		in.Fullname = &name
	}

	repo, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}
	current, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, user.ErrUserNotFound
	}

	update := &dto.UserUpdate{Fullname: in.Fullname, Phone: in.Phone}
	if in.Image != nil {
		in.Image.Folder = media.JoinFolder(s.mediaCfg.RootFolder, media.FolderProfile)
		asset, err := s.media.Upload(ctx, in.Image)
		if err != nil {
			log.Error("Profile image upload failed", "error", err)
			return nil, domain.Upstream("upload profile image", err)
		}
		update.Image = &asset.URL
		update.ImageID = &asset.ID
	}

	if err := repo.Update(ctx, id, update); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if in.Image != nil && current.ImageID != "" {
		if err := s.media.Destroy(ctx, current.ImageID); err != nil {
			log.Warn("Old profile image not destroyed", "imageID", current.ImageID, "error", err)
		}
	}
	log.Info("Profile updated")
	return s.Get(ctx, id)
}

// SetAdmin grants or revokes the admin capability of the user with email.
// It is meant for operators, not for the HTTP API.
func (s *Service) SetAdmin(ctx context.Context, email string, isAdmin bool) (*dto.UserRead, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	log := s.logger.With("context", "SetAdmin", "email", email, "isAdmin", isAdmin)
	var id uuid.UUID
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err := repo.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if u == nil {
			return user.ErrUserNotFound
		}
		id = u.ID
		return repo.Update(ctx, id, &dto.UserUpdate{IsAdmin: &isAdmin})
	})
	if err != nil {
		log.Warn("SetAdmin failed", "error", err)
		return nil, err
	}
	log.Info("Admin capability changed", "userID", id)
	return s.Get(ctx, id)
}

func (s *Service) present(u *dto.UserRead) *dto.UserRead {
	u.Image = media.ResolveURL(s.mediaCfg.PublicBaseURL, u.Image)
	return u
}
