package listing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openhaus/listings-backend/internal/domain/metadata"
)

type Room struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ListingID uuid.UUID `gorm:"column:listing_id;type:uuid;not null;index" json:"listing_id"`
	Listing   *Listing  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ListingID;references:ID" json:"-"`

	TypeID *uuid.UUID         `gorm:"column:type_id;type:uuid" json:"type_id,omitempty"`
	Type   *metadata.RoomType `gorm:"constraint:OnDelete:SET NULL;foreignKey:TypeID;references:ID" json:"type,omitempty"`

	Width       decimal.NullDecimal `gorm:"column:width;type:numeric(10,2)" json:"width"`
	WidthUnitID *uuid.UUID          `gorm:"column:width_unit_id;type:uuid" json:"width_unit_id,omitempty"`

	Length       decimal.NullDecimal `gorm:"column:length;type:numeric(10,2)" json:"length"`
	LengthUnitID *uuid.UUID          `gorm:"column:length_unit_id;type:uuid" json:"length_unit_id,omitempty"`

	Level     string `gorm:"column:level" json:"level"`
	Dimension string `gorm:"column:dimension" json:"dimension"`
	Text      string `gorm:"column:text;type:text" json:"text"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Room) TableName() string { return "room" }
