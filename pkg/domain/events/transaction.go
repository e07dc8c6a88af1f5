package events

import (
	"time"

	"github.com/google/uuid"
)

// TransactionSubmitted is emitted after a purchase proof has been stored.
type TransactionSubmitted struct {
	TransactionID uuid.UUID `json:"transactionId"`
	UserID        uuid.UUID `json:"userId"`
	FilmID        uuid.UUID `json:"filmId"`
	AccountNumber string    `json:"accountNum"`
	OccurredAt    time.Time `json:"occurredAt"`
}

func (e TransactionSubmitted) Type() string { return string(EventTypeTransactionSubmitted) }

// TransactionStatusChanged is emitted by every approve, reject or reset.
type TransactionStatusChanged struct {
	TransactionID uuid.UUID `json:"transactionId"`
	UserID        uuid.UUID `json:"userId"`
	FilmID        uuid.UUID `json:"filmId"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	ChangedBy     uuid.UUID `json:"changedBy"`
	OccurredAt    time.Time `json:"occurredAt"`
}

func (e TransactionStatusChanged) Type() string { return string(EventTypeTransactionStatusChanged) }

// FilmDeleted is emitted once a catalog entry has been removed.
type FilmDeleted struct {
	FilmID     uuid.UUID `json:"filmId"`
	Title      string    `json:"title"`
	DeletedBy  uuid.UUID `json:"deletedBy"`
	OccurredAt time.Time `json:"occurredAt"`
}

func (e FilmDeleted) Type() string { return string(EventTypeFilmDeleted) }
