// Package film provides catalog operations.
package film

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/cinema/pkg/config"
	"github.com/amirasaad/cinema/pkg/domain"
	"github.com/amirasaad/cinema/pkg/domain/events"
	"github.com/amirasaad/cinema/pkg/domain/film"
	"github.com/amirasaad/cinema/pkg/domain/transaction"
	"github.com/amirasaad/cinema/pkg/dto"
	"github.com/amirasaad/cinema/pkg/eventbus"
	"github.com/amirasaad/cinema/pkg/provider/media"
	"github.com/amirasaad/cinema/pkg/repository"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const tracerName = "film-service"

// Images are the uploads attached to a create or update. Nil means none.
type Images struct {
	Thumbnail *media.UploadParams
	Poster    *media.UploadParams
}

// Detail is a film as seen by one caller.
type Detail struct {
	*dto.FilmRead
	Status string `json:"status"`
}

// StatusLookup reports a caller's transaction status for a film.
type StatusLookup interface {
	StatusForFilm(ctx context.Context, userID, filmID uuid.UUID) (string, error)
}

// Service provides catalog operations.
type Service struct {
	uow      repository.UnitOfWork
	media    media.Media
	mediaCfg *config.Media
	bus      eventbus.Bus
	statuses StatusLookup
	logger   *slog.Logger
}

// New creates a film service.
func New(
	uow repository.UnitOfWork,
	mediaProvider media.Media,
	mediaCfg *config.Media,
	bus eventbus.Bus,
	statuses StatusLookup,
	logger *slog.Logger,
) *Service {
	return &Service{
		uow:      uow,
		media:    mediaProvider,
		mediaCfg: mediaCfg,
		bus:      bus,
		statuses: statuses,
		logger:   logger,
	}
}

// Create uploads the thumbnail and optional poster, then stores the film.
// Nothing is stored if an upload fails.
func (s *Service) Create(ctx context.Context, d film.Details, img Images) (*dto.FilmRead, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "CreateFilm")
	defer span.End()
	log := s.logger.With("context", "CreateFilm", "title", d.Title)

	if err := d.Validate(); err != nil {
		return nil, err
	}
	if img.Thumbnail == nil {
		return nil, domain.Validationf("thumbnail is required")
	}

	thumb, err := s.upload(ctx, img.Thumbnail)
	if err != nil {
		fail(span, err)
		log.Error("Thumbnail upload failed", "error", err)
		return nil, domain.Upstream("upload thumbnail", err)
	}
	var poster *media.Asset
	if img.Poster != nil {
		poster, err = s.upload(ctx, img.Poster)
		if err != nil {
			s.destroy(ctx, log, thumb.ID)
			fail(span, err)
			log.Error("Poster upload failed", "error", err)
			return nil, domain.Upstream("upload poster", err)
		}
	}

	f, err := film.New(d, thumb.URL, thumb.ID)
	if err != nil {
		return nil, err
	}
	create := &dto.FilmCreate{
		ID:          f.ID,
		Title:       f.Title,
		Thumbnail:   f.Thumbnail,
		ThumbnailID: f.ThumbnailID,
		Category:    f.Category,
		Price:       f.Price,
		Link:        f.Link,
		Description: f.Description,
	}
	if poster != nil {
		create.Poster, create.PosterID = poster.URL, poster.ID
	}

	repo, err := s.uow.FilmRepository()
	if err != nil {
		return nil, err
	}
	if err := repo.Create(ctx, create); err != nil {
		fail(span, err)
		log.Error("Create film failed", "error", err)
		return nil, fmt.Errorf("create film: %w", err)
	}
	span.SetAttributes(attribute.String("film.id", f.ID.String()))
	log.Info("Film created", "filmID", f.ID)
	return s.get(ctx, f.ID)
}

// Update replaces the film's details. A new thumbnail or poster replaces the
// stored one, and the old asset is destroyed best-effort.
func (s *Service) Update(ctx context.Context, id uuid.UUID, d film.Details, img Images) (*dto.FilmRead, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "UpdateFilm",
		trace.WithAttributes(attribute.String("film.id", id.String())))
	defer span.End()
	log := s.logger.With("context", "UpdateFilm", "filmID", id)

	if err := d.Validate(); err != nil {
		return nil, err
	}
	repo, err := s.uow.FilmRepository()
	if err != nil {
		return nil, err
	}
	current, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, film.ErrFilmNotFound
	}

	title, category, link, desc, price := d.Title, d.Category, d.Link, d.Description, d.Price
	update := &dto.FilmUpdate{
		Title:       &title,
		Category:    &category,
		Price:       &price,
		Link:        &link,
		Description: &desc,
	}
	var replaced, uploaded []string
	if img.Thumbnail != nil {
		thumb, err := s.upload(ctx, img.Thumbnail)
		if err != nil {
			fail(span, err)
			return nil, domain.Upstream("upload thumbnail", err)
		}
		update.Thumbnail, update.ThumbnailID = &thumb.URL, &thumb.ID
		replaced = append(replaced, current.ThumbnailID)
		uploaded = append(uploaded, thumb.ID)
	}
	if img.Poster != nil {
		poster, err := s.upload(ctx, img.Poster)
		if err != nil {
			s.destroyAll(ctx, log, uploaded...)
			fail(span, err)
			return nil, domain.Upstream("upload poster", err)
		}
		update.Poster, update.PosterID = &poster.URL, &poster.ID
		replaced = append(replaced, current.PosterID)
		uploaded = append(uploaded, poster.ID)
	}

	if err := repo.Update(ctx, id, update); err != nil {
		s.destroyAll(ctx, log, uploaded...)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, film.ErrFilmNotFound
		}
		fail(span, err)
		return nil, fmt.Errorf("update film: %w", err)
	}
	s.destroyAll(ctx, log, replaced...)
	log.Info("Film updated")
	return s.get(ctx, id)
}

// List returns the catalog, newest first.
func (s *Service) List(ctx context.Context) ([]*dto.FilmRead, error) {
	repo, err := s.uow.FilmRepository()
	if err != nil {
		return nil, err
	}
	films, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range films {
		s.present(f)
	}
	return films, nil
}

// Get returns one film with the viewer's transaction status, or "-" for
// anonymous viewers and films they never purchased.
func (s *Service) Get(ctx context.Context, id, viewer uuid.UUID) (*Detail, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "GetFilm",
		trace.WithAttributes(attribute.String("film.id", id.String())))
	defer span.End()

	f, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &Detail{FilmRead: f, Status: transaction.NoStatus}
	if viewer != uuid.Nil && s.statuses != nil {
		status, err := s.statuses.StatusForFilm(ctx, viewer, id)
		if err != nil {
			fail(span, err)
			return nil, err
		}
		detail.Status = status
	}
	return detail, nil
}

// Delete removes the film, then destroys its thumbnail and poster. Asset
// failures are logged and never undo the deletion.
func (s *Service) Delete(ctx context.Context, actor, id uuid.UUID) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "DeleteFilm",
		trace.WithAttributes(attribute.String("film.id", id.String())))
	defer span.End()
	log := s.logger.With("context", "DeleteFilm", "filmID", id)

	repo, err := s.uow.FilmRepository()
	if err != nil {
		return err
	}
	f, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if f == nil {
		return film.ErrFilmNotFound
	}
	if err := repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return film.ErrFilmNotFound
		}
		fail(span, err)
		return fmt.Errorf("delete film: %w", err)
	}
	log.Info("Film deleted")

	s.destroyAll(ctx, log, f.ThumbnailID, f.PosterID)

	if err := s.bus.Emit(ctx, events.FilmDeleted{
		FilmID:     id,
		Title:      f.Title,
		DeletedBy:  actor,
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		log.Error("Emit FilmDeleted failed", "error", err)
	}
	return nil
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (*dto.FilmRead, error) {
	repo, err := s.uow.FilmRepository()
	if err != nil {
		return nil, err
	}
	f, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, film.ErrFilmNotFound
	}
	return s.present(f), nil
}

func (s *Service) upload(ctx context.Context, p *media.UploadParams) (*media.Asset, error) {
	p.Folder = media.JoinFolder(s.mediaCfg.RootFolder, media.FolderFilm)
	return s.media.Upload(ctx, p)
}

func (s *Service) destroy(ctx context.Context, log *slog.Logger, id string) {
	if id == "" {
		return
	}
	if err := s.media.Destroy(context.WithoutCancel(ctx), id); err != nil {
		log.Warn("Media destroy failed", "assetID", id, "error", err)
	}
}

// destroyAll removes the given assets concurrently. Empty ids are skipped.
func (s *Service) destroyAll(ctx context.Context, log *slog.Logger, ids ...string) {
	ctx = context.WithoutCancel(ctx)
	var g errgroup.Group
	for _, id := range ids {
		if id == "" {
			continue
		}
		g.Go(func() error {
			if err := s.media.Destroy(ctx, id); err != nil {
				log.Warn("Media destroy failed", "assetID", id, "error", err)
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn("Some media assets were not destroyed", "error", err)
	}
}

func (s *Service) present(f *dto.FilmRead) *dto.FilmRead {
	f.Thumbnail = media.ResolveURL(s.mediaCfg.PublicBaseURL, f.Thumbnail)
	f.Poster = media.ResolveURL(s.mediaCfg.PublicBaseURL, f.Poster)
	return f
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
