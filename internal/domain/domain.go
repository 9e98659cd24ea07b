package domain

import (
	"github.com/openhaus/listings-backend/internal/domain/listing"
	"github.com/openhaus/listings-backend/internal/domain/metadata"
)

// Re-exports so callers can keep a single `types` import.

type (
	Listing      = listing.Listing
	Address      = listing.Address
	Room         = listing.Room
	OpenHouse    = listing.OpenHouse
	Photo        = listing.Photo
	ParkingSpace = listing.ParkingSpace

	MetadataEntry   = metadata.Entry
	PropertyType    = metadata.PropertyType
	TransactionType = metadata.TransactionType
	OwnershipType   = metadata.OwnershipType
	MeasureUnit     = metadata.MeasureUnit
	Amenity         = metadata.Amenity
	HeatingType     = metadata.HeatingType
	RoomType        = metadata.RoomType
	ParkingType     = metadata.ParkingType
)
