package app

import (
	"time"

	"github.com/openhaus/listings-backend/internal/platform/envutil"
)

type Config struct {
	HTTPAddr          string
	MetricsAddr       string
	IngestCron        string
	LockKey           string
	LockTTL           time.Duration
	MappingConfigPath string
	AllowOrigins      []string
}

func LoadConfig() Config {
	return Config{
		HTTPAddr:          envutil.String("HTTP_ADDR", ":8080"),
		MetricsAddr:       envutil.String("METRICS_ADDR", ""),
		IngestCron:        envutil.String("INGEST_CRON", ""),
		LockKey:           envutil.String("INGEST_LOCK_KEY", "feed:ingest:lock"),
		LockTTL:           envutil.Duration("INGEST_LOCK_TTL", 30*time.Minute),
		MappingConfigPath: envutil.String("MAPPING_CONFIG_PATH", ""),
		AllowOrigins:      []string{envutil.String("CORS_ALLOW_ORIGIN", "http://localhost:3000")},
	}
}
