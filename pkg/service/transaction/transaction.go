// Package transaction runs the purchase workflow: proof submission, the
// caller's history and approved list, and the admin review transitions.
package transaction

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
)

const tracerName = "transaction-service"

// SubmitRequest is the caller-supplied part of a purchase.
type SubmitRequest struct {
	FilmID        string
	AccountNumber string
}

// Option configures a Service.
type Option func(*Service)

// WithPolicy replaces the default AllowAll transition policy.
func WithPolicy(p transaction.Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithTransitionObserver registers fn to be called with the target status
// of every successful transition.
func WithTransitionObserver(fn func(status string)) Option {
	return func(s *Service) { s.observe = fn }
}

// Service implements the purchase workflow.
type Service struct {
	uow      repository.UnitOfWork
	media    media.Media
	mediaCfg *config.Media
	bus      eventbus.Bus
	logger   *slog.Logger
	policy   transaction.Policy
	observe  func(status string)
}

// New creates a transaction service.
func New(
	uow repository.UnitOfWork,
	mediaProvider media.Media,
	mediaCfg *config.Media,
	bus eventbus.Bus,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		uow:      uow,
		media:    mediaProvider,
		mediaCfg: mediaCfg,
		bus:      bus,
		logger:   logger,
		policy:   transaction.AllowAll,
		observe:  func(string) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit records a Pending purchase of req.FilmID by userID with the given
// proof of payment. The proof is uploaded only after the film is known to
// exist and no transaction is on record for the pair.
func (s *Service) Submit(
	ctx context.Context,
	userID uuid.UUID,
	req SubmitRequest,
	proof *media.UploadParams,
) (*dto.TransactionRead, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "SubmitTransaction",
		trace.WithAttributes(attribute.String("user.id", userID.String())))
	defer span.End()
	log := s.logger.With("context", "SubmitTransaction", "userID", userID)

	if req.FilmID == "" {
		return nil, domain.Validationf("idFilm is required")
	}
	filmID, err := uuid.Parse(req.FilmID)
	if err != nil {
		return nil, domain.Validationf("idFilm must be a valid id")
	}
	if err := transaction.ValidateRequest(filmID, req.AccountNumber); err != nil {
		return nil, err
	}
	if proof == nil || len(proof.Data) == 0 {
		return nil, domain.Validationf("proof image is required")
	}
	span.SetAttributes(attribute.String("film.id", filmID.String()))
	log = log.With("filmID", filmID)

	films, err := s.uow.FilmRepository()
	if err != nil {
		return nil, err
	}
	f, err := films.Get(ctx, filmID)
	if err != nil {
		fail(span, err)
		return nil, err
	}
	if f == nil {
		return nil, film.ErrFilmNotFound
	}

	txs, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	exists, err := txs.ExistsByUserAndFilm(ctx, userID, filmID)
	if err != nil {
		fail(span, err)
		return nil, err
	}
	if exists {
		log.Info("Duplicate purchase refused")
		return nil, transaction.ErrAlreadyOnList
	}

	proof.Folder = media.JoinFolder(s.mediaCfg.RootFolder, media.FolderTransfer)
	asset, err := s.media.Upload(ctx, proof)
	if err != nil {
		fail(span, err)
		log.Error("Proof upload failed", "error", err)
		return nil, domain.Upstream("upload proof", err)
	}

	tx, err := transaction.New(userID, filmID, req.AccountNumber, asset.URL, asset.ID)
	if err != nil {
		return nil, err
	}
	err = txs.Create(ctx, &dto.TransactionCreate{
		ID:            tx.ID,
		UserID:        tx.UserID,
		FilmID:        tx.FilmID,
		ProofImage:    tx.ProofImage,
		ProofImageID:  tx.ProofImageID,
		AccountNumber: tx.AccountNumber,
		Status:        string(tx.Status),
		CreatedAt:     tx.CreatedAt,
	})
	switch {
	case errors.Is(err, domain.ErrAlreadyExists):
		// A concurrent submission won the unique index.
		log.Info("Duplicate purchase refused by store")
		return nil, transaction.ErrAlreadyOnList
	case errors.Is(err, domain.ErrNotFound):
		return nil, film.ErrFilmNotFound
	case err != nil:
		fail(span, err)
		log.Error("Create transaction failed", "error", err)
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	log.Info("Transaction submitted", "transactionID", tx.ID)

	if err := s.bus.Emit(ctx, events.TransactionSubmitted{
		TransactionID: tx.ID,
		UserID:        userID,
		FilmID:        filmID,
		AccountNumber: tx.AccountNumber,
		OccurredAt:    tx.CreatedAt,
	}); err != nil {
		log.Error("Emit TransactionSubmitted failed", "error", err)
	}

	created, err := txs.Get(ctx, tx.ID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, transaction.ErrTransactionNotFound
	}
	return s.present(created), nil
}

// ListIncoming returns every transaction with film and user, newest first.
func (s *Service) ListIncoming(ctx context.Context) ([]*dto.TransactionRead, error) {
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	txs, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.presentAll(txs), nil
}

// History returns the caller's transactions with their film, newest first.
func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]*dto.TransactionRead, error) {
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	txs, err := repo.ListByUser(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	return s.presentAll(txs), nil
}

// MyList returns the caller's approved purchases joined with the film.
func (s *Service) MyList(ctx context.Context, userID uuid.UUID) ([]*dto.TransactionRead, error) {
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	txs, err := repo.ListByUser(ctx, userID, string(transaction.StatusApproved))
	if err != nil {
		return nil, err
	}
	return s.presentAll(txs), nil
}

// Transition sets the status of transaction id to target and returns the
// updated record. Repeating the current status succeeds without change.
func (s *Service) Transition(
	ctx context.Context,
	actor uuid.UUID,
	id uuid.UUID,
	target transaction.Status,
) (*dto.TransactionRead, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "TransitionTransaction",
		trace.WithAttributes(
			attribute.String("transaction.id", id.String()),
			attribute.String("transaction.target", string(target)),
		))
	defer span.End()
	log := s.logger.With("context", "TransitionTransaction", "transactionID", id, "target", target)

	var (
		from    transaction.Status
		updated *dto.TransactionRead
	)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		current, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return transaction.ErrTransactionNotFound
		}
		from = transaction.Status(current.Status)
		if err := s.policy(from, target); err != nil {
			return err
		}
		if err := repo.UpdateStatus(ctx, id, string(target)); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return transaction.ErrTransactionNotFound
			}
			return err
		}
		updated, err = repo.Get(ctx, id)
		return err
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrValidation) {
			fail(span, err)
			log.Error("Transition failed", "error", err)
		}
		return nil, err
	}
	log.Info("Transaction status changed", "from", from)
	s.observe(string(target))

	if err := s.bus.Emit(ctx, events.TransactionStatusChanged{
		TransactionID: id,
		UserID:        updated.UserID,
		FilmID:        updated.FilmID,
		From:          string(from),
		To:            string(target),
		ChangedBy:     actor,
		OccurredAt:    time.Now().UTC(),
	}); err != nil {
		log.Error("Emit TransactionStatusChanged failed", "error", err)
	}
	return s.present(updated), nil
}

// StatusForFilm returns the caller's transaction status for a film, or
// transaction.NoStatus when there is none.
func (s *Service) StatusForFilm(ctx context.Context, userID, filmID uuid.UUID) (string, error) {
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return "", err
	}
	tx, err := repo.GetByUserAndFilm(ctx, userID, filmID)
	if err != nil {
		return "", err
	}
	if tx == nil {
		return transaction.NoStatus, nil
	}
	return tx.Status, nil
}

func (s *Service) presentAll(txs []*dto.TransactionRead) []*dto.TransactionRead {
	for _, tx := range txs {
		s.present(tx)
	}
	return txs
}

func (s *Service) present(tx *dto.TransactionRead) *dto.TransactionRead {
	base := s.mediaCfg.PublicBaseURL
	tx.ProofImage = media.ResolveURL(base, tx.ProofImage)
	if tx.Film != nil {
		tx.Film.Thumbnail = media.ResolveURL(base, tx.Film.Thumbnail)
		tx.Film.Poster = media.ResolveURL(base, tx.Film.Poster)
	}
	return tx
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
