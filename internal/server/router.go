package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/openhaus/listings-backend/internal/handlers"
	"github.com/openhaus/listings-backend/internal/observability"
)

type RouterConfig struct {
	IngestHandler   *handlers.IngestHandler
	ListingHandler  *handlers.ListingHandler
	MetadataHandler *handlers.MetadataHandler
	Metrics         *observability.Metrics
	AllowOrigins    []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := router.Group("/api")
	{
		api.GET("/listings/:ddfID", cfg.ListingHandler.GetByDdfID)
	}

	internal := router.Group("/internal")
	{
		internal.POST("/feed/batches", cfg.IngestHandler.EnqueueBatch)
		internal.POST("/ingest/run", cfg.IngestHandler.Run)
		internal.GET("/ingest/last", cfg.IngestHandler.LastRun)
		internal.POST("/metadata/seed", cfg.MetadataHandler.Seed)
	}

	return router
}
