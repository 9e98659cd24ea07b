package listing

import (
	"time"

	"github.com/google/uuid"
)

type Photo struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ListingID uuid.UUID `gorm:"column:listing_id;type:uuid;not null;index" json:"listing_id"`
	Listing   *Listing  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ListingID;references:ID" json:"-"`

	SequenceID    int        `gorm:"column:sequence_id" json:"sequence_id"`
	LastUpdated   *time.Time `gorm:"column:last_updated" json:"last_updated,omitempty"`
	LargePhotoURL string     `gorm:"column:large_photo_url" json:"large_photo_url"`
	PhotoURL      string     `gorm:"column:photo_url" json:"photo_url"`
	ThumbnailURL  string     `gorm:"column:thumbnail_url" json:"thumbnail_url"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Photo) TableName() string { return "photo" }
