package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/openhaus/listings-backend/internal/data/db"
	"github.com/openhaus/listings-backend/internal/observability"
	"github.com/openhaus/listings-backend/internal/platform/logger"
	"github.com/openhaus/listings-backend/internal/services"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics
	Clients  Clients

	cron   *cron.Cron
	cancel context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig()

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	theDB := pg.DB()
	if err := db.AutoMigrateAll(theDB); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}

	metrics := observability.NewMetrics()

	clientset, err := wireClients(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)

	serviceset, err := wireServices(theDB, log, cfg, reposet, clientset, metrics)
	if err != nil {
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, serviceset, reposet)
	router := wireRouter(cfg, handlerset, metrics)

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
		Metrics:  metrics,
		Clients:  clientset,
	}, nil
}

// Start launches the background pieces: the optional standalone metrics
// listener and the scheduled ingestion pass.
func (a *App) Start() error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Cfg.MetricsAddr != "" {
		a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
	}

	if a.Cfg.IngestCron != "" {
		c := cron.New()
		_, err := c.AddFunc(a.Cfg.IngestCron, func() {
			if _, err := a.Services.Ingest.Run(ctx, services.RunOptions{}); err != nil {
				a.Log.Error("scheduled ingestion pass failed", "error", err)
			}
		})
		if err != nil {
			cancel()
			a.cancel = nil
			return fmt.Errorf("schedule ingest cron %q: %w", a.Cfg.IngestCron, err)
		}
		c.Start()
		a.cron = c
		a.Log.Info("scheduled ingestion pass", "cron", a.Cfg.IngestCron)
	}

	return nil
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(a.Cfg.HTTPAddr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cron != nil {
		<-a.cron.Stop().Done()
		a.cron = nil
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Clients.Redis != nil {
		_ = a.Clients.Redis.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
