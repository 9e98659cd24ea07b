package metadata

import (
	"time"

	"github.com/google/uuid"
)

// Entry is the shape shared by every lookup table: a feed-assigned code plus
// its display values. Rows are owned by the seeding process and treated as
// read-only during ingestion.
type Entry struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MetadataEntryID string    `gorm:"column:metadata_entry_id;not null;uniqueIndex" json:"metadata_entry_id"`
	ShortValue      string    `gorm:"column:short_value" json:"short_value"`
	LongValue       string    `gorm:"column:long_value" json:"long_value"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

type PropertyType struct {
	Entry
}

func (PropertyType) TableName() string { return "metadata_property_type" }

type TransactionType struct {
	Entry
}

func (TransactionType) TableName() string { return "metadata_transaction_type" }

type OwnershipType struct {
	Entry
}

func (OwnershipType) TableName() string { return "metadata_ownership_type" }

type MeasureUnit struct {
	Entry
}

func (MeasureUnit) TableName() string { return "metadata_measure_unit" }

type Amenity struct {
	Entry
}

func (Amenity) TableName() string { return "metadata_amenity" }

type HeatingType struct {
	Entry
}

func (HeatingType) TableName() string { return "metadata_heating_type" }

type RoomType struct {
	Entry
}

func (RoomType) TableName() string { return "metadata_room_type" }

type ParkingType struct {
	Entry
}

func (ParkingType) TableName() string { return "metadata_parking_type" }
