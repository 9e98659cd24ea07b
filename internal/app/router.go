package app

import (
	"github.com/gin-gonic/gin"

	"github.com/openhaus/listings-backend/internal/observability"
	"github.com/openhaus/listings-backend/internal/server"
)

func wireRouter(cfg Config, handlers Handlers, metrics *observability.Metrics) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		IngestHandler:   handlers.Ingest,
		ListingHandler:  handlers.Listing,
		MetadataHandler: handlers.Metadata,
		Metrics:         metrics,
		AllowOrigins:    cfg.AllowOrigins,
	})
}
