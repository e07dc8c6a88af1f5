package transaction

import (
	"time"

	"github.com/amirasaad/cinema/infra/repository/film"
	"github.com/amirasaad/cinema/infra/repository/user"
	"github.com/google/uuid"
)

// Transaction represents a persisted purchase attempt. A user holds at most
// one row per film, enforced by idx_transactions_user_film.
type Transaction struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_transactions_user_film"`
	FilmID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_transactions_user_film"`
	ProofImage    string    `gorm:"not null;size:512"`
	ProofImageID  string    `gorm:"size:255"`
	AccountNumber string    `gorm:"not null;size:64"`
	Status        string    `gorm:"type:varchar(16);not null;index"`
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time

	User user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Film film.Film `gorm:"foreignKey:FilmID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}
