package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/openhaus/listings-backend/internal/platform/envutil"
	"github.com/openhaus/listings-backend/internal/platform/logger"
)

// Result is one geocoded coordinate pair.
type Result struct {
	Latitude  float64
	Longitude float64
}

// Geocoder is the external enrichment collaborator. Failures are logged and
// counted by callers but never abort a record.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*Result, error)
}

type httpGeocoder struct {
	baseURL string
	client  *http.Client
	log     *logger.Logger
}

// NewHTTPGeocoder builds a geocoder against a Nominatim-compatible search
// endpoint. GEOCODER_BASE_URL selects the provider.
func NewHTTPGeocoder(baseLog *logger.Logger) (Geocoder, error) {
	baseURL := envutil.String("GEOCODER_BASE_URL", "")
	if baseURL == "" {
		return nil, fmt.Errorf("missing GEOCODER_BASE_URL")
	}
	timeout := envutil.Duration("GEOCODER_TIMEOUT", 5*time.Second)

	return &httpGeocoder{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     baseLog.With("client", "Geocoder"),
	}, nil
}

func (g *httpGeocoder) Geocode(ctx context.Context, query string) (*Result, error) {
	u, err := url.Parse(g.baseURL)
	if err != nil {
		return nil, fmt.Errorf("geocoder base url: %w", err)
	}
	q := u.Query()
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("q", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode request: status %d", resp.StatusCode)
	}

	var hits []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return nil, fmt.Errorf("geocode decode: %w", err)
	}
	if len(hits) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(hits[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geocode lat parse: %w", err)
	}
	lon, err := strconv.ParseFloat(hits[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geocode lon parse: %w", err)
	}
	return &Result{Latitude: lat, Longitude: lon}, nil
}
