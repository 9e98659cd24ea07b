package app

import (
	"github.com/openhaus/listings-backend/internal/handlers"
	"github.com/openhaus/listings-backend/internal/platform/logger"
)

type Handlers struct {
	Ingest   *handlers.IngestHandler
	Listing  *handlers.ListingHandler
	Metadata *handlers.MetadataHandler
}

func wireHandlers(log *logger.Logger, services Services, repos Repos) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Ingest:   handlers.NewIngestHandler(services.Ingest),
		Listing:  handlers.NewListingHandler(repos.Listing, repos.ChildGraph),
		Metadata: handlers.NewMetadataHandler(services.Metadata),
	}
}
