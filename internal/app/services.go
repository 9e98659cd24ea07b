package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/openhaus/listings-backend/internal/data/db"
	"github.com/openhaus/listings-backend/internal/feed/coerce"
	"github.com/openhaus/listings-backend/internal/feed/lookup"
	"github.com/openhaus/listings-backend/internal/feed/mapper"
	"github.com/openhaus/listings-backend/internal/feed/reconcile"
	"github.com/openhaus/listings-backend/internal/feed/runlock"
	"github.com/openhaus/listings-backend/internal/feed/schema"
	"github.com/openhaus/listings-backend/internal/feed/staging"
	"github.com/openhaus/listings-backend/internal/observability"
	"github.com/openhaus/listings-backend/internal/platform/logger"
	"github.com/openhaus/listings-backend/internal/services"
)

type Services struct {
	Ingest   services.IngestService
	Metadata services.MetadataService
}

func wireServices(gdb *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	mappingCfg := schema.DefaultMappingConfig()
	if cfg.MappingConfigPath != "" {
		loaded, err := schema.LoadMappingConfig(cfg.MappingConfigPath)
		if err != nil {
			return Services{}, fmt.Errorf("load mapping config: %w", err)
		}
		mappingCfg = loaded
	}

	index := schema.NewIndex()
	resolver := lookup.NewResolver(gdb, log)
	engine := coerce.NewEngine(resolver, mappingCfg, log)
	recordMapper := mapper.New(index, mappingCfg, engine, log)

	txRunner := db.NewGormTxRunner(gdb)
	reconciler := reconcile.NewReconciler(txRunner, repos.Listing, recordMapper, index, clients.Geocoder, metrics, log)

	stagingCache := staging.NewRedisCache(clients.Redis, log)
	lock := runlock.NewRedisLock(clients.Redis, log)

	ingest := services.NewIngestService(log, stagingCache, lock, reconciler, metrics, cfg.LockKey, cfg.LockTTL)
	metadata := services.NewMetadataService(log, repos.Metadata)

	return Services{
		Ingest:   ingest,
		Metadata: metadata,
	}, nil
}
