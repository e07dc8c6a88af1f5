package dto

import (
	"time"

	"github.com/google/uuid"
)

// TransactionCreate represents the data needed to persist a purchase.
type TransactionCreate struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	FilmID        uuid.UUID
	ProofImage    string
	ProofImageID  string
	AccountNumber string
	Status        string
	CreatedAt     time.Time
}

// TransactionRead is a purchase joined with the film and user it belongs to.
// Film and User are only populated by the listing queries that join them.
type TransactionRead struct {
	ID            uuid.UUID    `json:"id"`
	UserID        uuid.UUID    `json:"userId"`
	FilmID        uuid.UUID    `json:"filmId"`
	ProofImage    string       `json:"proofImage"`
	ProofImageID  string       `json:"-"`
	AccountNumber string       `json:"accountNum"`
	Status        string       `json:"status"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
	Film          *FilmRead    `json:"film,omitempty"`
	User          *UserSummary `json:"user,omitempty"`
}
