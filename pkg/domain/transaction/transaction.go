// Package transaction models a user's purchase attempt for a film and the
// manual approval state machine it moves through.
package transaction

import (
	"strings"
	"time"

	"github.com/amirasaad/cinema/pkg/domain"
	"github.com/google/uuid"
)

// Status is the approval state of a purchase.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// NoStatus is reported for a film the caller never purchased.
const NoStatus = "-"

// MinAccountNumberLength is the shortest accepted bank account number.
const MinAccountNumberLength = 4

var (
	// ErrTransactionNotFound is returned when a transaction id does not resolve.
	ErrTransactionNotFound = domain.NewError(domain.ErrNotFound, "transaction not found")
	// ErrAlreadyOnList is returned when the user already has a transaction for the film.
	ErrAlreadyOnList = domain.NewError(domain.ErrAlreadyExists, "movie is already on your list")
	// ErrTransitionNotAllowed is returned by a strict policy for a locked record.
	ErrTransitionNotAllowed = domain.NewError(domain.ErrValidation, "status transition not allowed")
)

// ParseStatus accepts a status name in any letter case.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, nil
	case "approved", "approve":
		return StatusApproved, nil
	case "rejected", "reject":
		return StatusRejected, nil
	}
	return "", domain.Validationf("unknown transaction status %q", s)
}

// Valid reports whether s is one of the known states.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Terminal reports whether s ends the review of a purchase.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Transaction is one user's purchase attempt for one film.
type Transaction struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"userId"`
	FilmID        uuid.UUID `json:"filmId"`
	ProofImage    string    `json:"proofImage"`
	ProofImageID  string    `json:"-"`
	AccountNumber string    `json:"accountNum"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ValidateRequest checks the user-supplied part of a purchase.
func ValidateRequest(filmID uuid.UUID, accountNumber string) error {
	if filmID == uuid.Nil {
		return domain.Validationf("idFilm is required")
	}
	if len(strings.TrimSpace(accountNumber)) < MinAccountNumberLength {
		return domain.Validationf("accountNum must be at least %d characters", MinAccountNumberLength)
	}
	return nil
}

// New creates a Pending transaction for the given proof reference.
func New(userID, filmID uuid.UUID, accountNumber, proofImage, proofImageID string) (*Transaction, error) {
	if err := ValidateRequest(filmID, accountNumber); err != nil {
		return nil, err
	}
	if userID == uuid.Nil {
		return nil, domain.Validationf("user is required")
	}
	if proofImage == "" {
		return nil, domain.Validationf("proof image is required")
	}
	now := time.Now().UTC()
	return &Transaction{
		ID:            uuid.New(),
		UserID:        userID,
		FilmID:        filmID,
		ProofImage:    proofImage,
		ProofImageID:  proofImageID,
		AccountNumber: strings.TrimSpace(accountNumber),
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Policy decides whether a record in state from may move to state to.
type Policy func(from, to Status) error

// AllowAll permits every edge of the status graph, including re-opening
// approved or rejected records. Repeating the current state is a no-op.
func AllowAll(from, to Status) error {
	if !to.Valid() {
		return domain.Validationf("unknown transaction status %q", to)
	}
	return nil
}

// LockTerminal refuses to move a record out of Approved or Rejected.
func LockTerminal(from, to Status) error {
	if err := AllowAll(from, to); err != nil {
		return err
	}
	if from.Terminal() && from != to {
		return ErrTransitionNotAllowed
	}
	return nil
}
