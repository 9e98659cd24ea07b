package app

import (
	"gorm.io/gorm"

	listingrepo "github.com/openhaus/listings-backend/internal/data/repos/listing"
	metadatarepo "github.com/openhaus/listings-backend/internal/data/repos/metadata"
	"github.com/openhaus/listings-backend/internal/platform/logger"
)

type Repos struct {
	Listing    listingrepo.ListingRepo
	ChildGraph listingrepo.ChildGraphRepo
	Metadata   metadatarepo.EntryRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Listing:    listingrepo.NewListingRepo(db, log),
		ChildGraph: listingrepo.NewChildGraphRepo(db, log),
		Metadata:   metadatarepo.NewEntryRepo(db, log),
	}
}
