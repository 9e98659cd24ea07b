package listing

import (
	"time"

	"github.com/google/uuid"
)

type OpenHouse struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ListingID uuid.UUID `gorm:"column:listing_id;type:uuid;not null;index" json:"listing_id"`
	Listing   *Listing  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ListingID;references:ID" json:"-"`

	StartDateTime *time.Time `gorm:"column:start_date_time" json:"start_date_time,omitempty"`
	EndDateTime   *time.Time `gorm:"column:end_date_time" json:"end_date_time,omitempty"`
	Comments      string     `gorm:"column:comments;type:text" json:"comments"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (OpenHouse) TableName() string { return "open_house" }
