package listing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/openhaus/listings-backend/internal/domain/metadata"
)

// Listing is the top-level persisted entity. It is correlated with feed
// records through the feed-assigned natural key DdfID; CreationDate never
// regresses once set and LastModified carries the feed's LastUpdated value
// used for change detection.
type Listing struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	DdfID        string     `gorm:"column:ddf_id;not null;uniqueIndex" json:"ddf_id"`
	CreationDate time.Time  `gorm:"column:creation_date" json:"creation_date"`
	LastModified *time.Time `gorm:"column:last_modified" json:"last_modified,omitempty"`
	IsActive     bool       `gorm:"column:is_active;not null;default:false" json:"is_active"`

	MlsNumber     string     `gorm:"column:mls_number;index" json:"mls_number"`
	PublicRemarks string     `gorm:"column:public_remarks;type:text" json:"public_remarks"`
	BedroomsTotal int        `gorm:"column:bedrooms_total" json:"bedrooms_total"`
	BathroomTotal int        `gorm:"column:bathroom_total" json:"bathroom_total"`
	ListedOn      *time.Time `gorm:"column:listed_on" json:"listed_on,omitempty"`

	PoolPresent      *bool `gorm:"column:pool_present" json:"pool_present,omitempty"`
	FireplacePresent *bool `gorm:"column:fireplace_present" json:"fireplace_present,omitempty"`

	Price       decimal.NullDecimal `gorm:"column:price;type:numeric(14,2)" json:"price"`
	PriceUnitID *uuid.UUID          `gorm:"column:price_unit_id;type:uuid" json:"price_unit_id,omitempty"`
	PriceUnit   *metadata.MeasureUnit `gorm:"constraint:OnDelete:SET NULL;foreignKey:PriceUnitID;references:ID" json:"price_unit,omitempty"`

	LotSize       decimal.NullDecimal `gorm:"column:lot_size;type:numeric(14,2)" json:"lot_size"`
	LotSizeUnitID *uuid.UUID          `gorm:"column:lot_size_unit_id;type:uuid" json:"lot_size_unit_id,omitempty"`

	LivingArea       decimal.NullDecimal `gorm:"column:living_area;type:numeric(14,2)" json:"living_area"`
	LivingAreaUnitID *uuid.UUID          `gorm:"column:living_area_unit_id;type:uuid" json:"living_area_unit_id,omitempty"`

	PropertyTypeID    *uuid.UUID `gorm:"column:property_type_id;type:uuid;index" json:"property_type_id,omitempty"`
	PropertyType      *metadata.PropertyType `gorm:"constraint:OnDelete:SET NULL;foreignKey:PropertyTypeID;references:ID" json:"property_type,omitempty"`
	TransactionTypeID *uuid.UUID `gorm:"column:transaction_type_id;type:uuid" json:"transaction_type_id,omitempty"`
	OwnershipTypeID   *uuid.UUID `gorm:"column:ownership_type_id;type:uuid" json:"ownership_type_id,omitempty"`

	Amenities    []metadata.Amenity     `gorm:"many2many:listing_amenity" json:"amenities,omitempty"`
	HeatingTypes []metadata.HeatingType `gorm:"many2many:listing_heating_type" json:"heating_types,omitempty"`

	Latitude   *float64   `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude  *float64   `gorm:"column:longitude" json:"longitude,omitempty"`
	GeocodedAt *time.Time `gorm:"column:geocoded_at" json:"geocoded_at,omitempty"`

	RawPayload datatypes.JSON `gorm:"column:raw_payload;type:jsonb" json:"raw_payload,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Listing) TableName() string { return "listing" }
