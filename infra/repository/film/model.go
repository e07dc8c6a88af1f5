package film

import (
	"time"

	"github.com/google/uuid"
)

// Film represents a catalog row in the database.
type Film struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"not null;size:255"`
	Thumbnail   string    `gorm:"not null;size:512"`
	ThumbnailID string    `gorm:"size:255"`
	Poster      string    `gorm:"size:512"`
	PosterID    string    `gorm:"size:255"`
	Category    string    `gorm:"not null;size:100"`
	Price       int64     `gorm:"not null"`
	Link        string    `gorm:"not null;size:512"`
	Description string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

// TableName specifies the table name for the Film model.
func (Film) TableName() string {
	return "films"
}
