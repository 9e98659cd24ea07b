package listing

import (
	"time"

	"github.com/google/uuid"
)

// Address is a one-to-one child of Listing, rebuilt from scratch on every
// parent update.
type Address struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ListingID uuid.UUID `gorm:"column:listing_id;type:uuid;not null;uniqueIndex" json:"listing_id"`
	Listing   *Listing  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ListingID;references:ID" json:"-"`

	StreetAddress string `gorm:"column:street_address" json:"street_address"`
	City          string `gorm:"column:city;index" json:"city"`
	Province      string `gorm:"column:province" json:"province"`
	PostalCode    string `gorm:"column:postal_code" json:"postal_code"`
	Country       string `gorm:"column:country" json:"country"`
	Neighbourhood string `gorm:"column:neighbourhood" json:"neighbourhood"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Address) TableName() string { return "address" }
