package db

import (
	"gorm.io/gorm"

	types "github.com/openhaus/listings-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Metadata / lookup tables (seeded out of band)
		// =========================
		&types.PropertyType{},
		&types.TransactionType{},
		&types.OwnershipType{},
		&types.MeasureUnit{},
		&types.Amenity{},
		&types.HeatingType{},
		&types.RoomType{},
		&types.ParkingType{},

		// =========================
		// Listing + child graph
		// =========================
		&types.Listing{},
		&types.Address{},
		&types.Room{},
		&types.OpenHouse{},
		&types.Photo{},
		&types.ParkingSpace{},
	)
}
