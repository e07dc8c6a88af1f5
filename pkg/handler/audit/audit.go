// Package audit holds the event bus handlers that keep a structured log
// trail of purchase reviews and catalog removals.
package audit

import (
	"context"
	"log/slog"

	"github.com/amirasaad/cinema/pkg/domain/events"
	"github.com/amirasaad/cinema/pkg/eventbus"
)

// HandleSubmitted logs every new purchase proof.
func HandleSubmitted(logger *slog.Logger) eventbus.HandlerFunc {
	return func(_ context.Context, e events.Event) error {
		log := logger.With("handler", "audit.HandleSubmitted", "event_type", e.Type())
		ev, ok := e.(events.TransactionSubmitted)
		if !ok {
			log.Error("Skipping unexpected event type", "event", e)
			return nil
		}
		log.Info("Purchase submitted",
			"transaction_id", ev.TransactionID,
			"user_id", ev.UserID,
			"film_id", ev.FilmID,
		)
		return nil
	}
}

// HandleStatusChanged logs every approve, reject or reset with the admin
// who made it.
func HandleStatusChanged(logger *slog.Logger) eventbus.HandlerFunc {
	return func(_ context.Context, e events.Event) error {
		log := logger.With("handler", "audit.HandleStatusChanged", "event_type", e.Type())
		ev, ok := e.(events.TransactionStatusChanged)
		if !ok {
			log.Error("Skipping unexpected event type", "event", e)
			return nil
		}
		log.Info("Transaction reviewed",
			"transaction_id", ev.TransactionID,
			"user_id", ev.UserID,
			"film_id", ev.FilmID,
			"from", ev.From,
			"to", ev.To,
			"changed_by", ev.ChangedBy,
		)
		return nil
	}
}

// HandleFilmDeleted logs catalog removals.
func HandleFilmDeleted(logger *slog.Logger) eventbus.HandlerFunc {
	return func(_ context.Context, e events.Event) error {
		log := logger.With("handler", "audit.HandleFilmDeleted", "event_type", e.Type())
		ev, ok := e.(events.FilmDeleted)
		if !ok {
			log.Error("Skipping unexpected event type", "event", e)
			return nil
		}
		log.Info("Film deleted", "film_id", ev.FilmID, "title", ev.Title, "deleted_by", ev.DeletedBy)
		return nil
	}
}

// Register attaches the audit handlers to bus.
func Register(bus eventbus.Bus, logger *slog.Logger) {
	bus.Register(events.EventTypeTransactionSubmitted, HandleSubmitted(logger))
	bus.Register(events.EventTypeTransactionStatusChanged, HandleStatusChanged(logger))
	bus.Register(events.EventTypeFilmDeleted, HandleFilmDeleted(logger))
}
