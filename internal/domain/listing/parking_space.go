package listing

import (
	"time"

	"github.com/google/uuid"

	"github.com/openhaus/listings-backend/internal/domain/metadata"
)

type ParkingSpace struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ListingID uuid.UUID `gorm:"column:listing_id;type:uuid;not null;index" json:"listing_id"`
	Listing   *Listing  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ListingID;references:ID" json:"-"`

	TypeID *uuid.UUID            `gorm:"column:type_id;type:uuid" json:"type_id,omitempty"`
	Type   *metadata.ParkingType `gorm:"constraint:OnDelete:SET NULL;foreignKey:TypeID;references:ID" json:"type,omitempty"`

	Name   string `gorm:"column:name" json:"name"`
	Spaces int    `gorm:"column:spaces" json:"spaces"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (ParkingSpace) TableName() string { return "parking_space" }
