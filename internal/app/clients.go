package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/openhaus/listings-backend/internal/clients/geocode"
	"github.com/openhaus/listings-backend/internal/platform/envutil"
	"github.com/openhaus/listings-backend/internal/platform/logger"
)

type Clients struct {
	Redis    *goredis.Client
	Geocoder geocode.Geocoder
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	addr := strings.TrimSpace(envutil.String("REDIS_ADDR", ""))
	if addr == "" {
		return Clients{}, fmt.Errorf("REDIS_ADDR is required")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: envutil.String("REDIS_PASSWORD", ""),
		DB:       envutil.Int("REDIS_DB", 0),
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return Clients{}, fmt.Errorf("ping redis: %w", err)
	}

	var geocoder geocode.Geocoder
	if strings.TrimSpace(os.Getenv("GEOCODER_BASE_URL")) != "" {
		g, err := geocode.NewHTTPGeocoder(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init geocoder: %w", err)
		}
		geocoder = g
	} else {
		log.Warn("GEOCODER_BASE_URL not set, geocoding disabled")
	}

	return Clients{
		Redis:    rdb,
		Geocoder: geocoder,
	}, nil
}
