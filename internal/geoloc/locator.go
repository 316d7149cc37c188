package geoloc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/aidline/aidline/internal/logging"
)

const (
	// DefaultBaseURL is the geolocation service queried when no override is
	// configured. The service resolves the caller's public IP to approximate
	// coordinates, which is good enough to prefill the location field for
	// manual correction.
	DefaultBaseURL = "http://ip-api.com/json"

	// DefaultTimeout bounds a single lookup request
	DefaultTimeout = 5 * time.Second
)

// Coordinates is a geographic position in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// String formats the coordinates as "<lat>, <lon>", the exact text written
// into the location field.
func (c Coordinates) String() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + ", " + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}

// Locator resolves the caller's current coordinates via an HTTP geolocation
// service. The zero value is not usable; construct with New.
type Locator struct {
	// BaseURL is the geolocation endpoint (default: DefaultBaseURL)
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client
}

// New creates a Locator for the given endpoint. An empty baseURL selects
// DefaultBaseURL.
func New(baseURL string) *Locator {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Locator{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// lookupResponse is the wire shape of the geolocation service response.
// Mirrors the ip-api.com JSON contract.
type lookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	City    string  `json:"city,omitempty"`
}

// Current returns the caller's coordinates, or an error if the service is
// unreachable or reports a failure. The location field is left to the
// caller on error - a failed lookup must never clobber manual entry.
func (l *Locator) Current(ctx context.Context) (Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.BaseURL, nil)
	if err != nil {
		return Coordinates{}, fmt.Errorf("failed to build geolocation request: %w", err)
	}

	logging.LogHTTPRequest(l.BaseURL, http.MethodGet, 1)

	resp, err := l.HTTPClient.Do(req)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geolocation service unreachable: %w", err)
	}
	defer resp.Body.Close()

	logging.LogHTTPResponse(l.BaseURL, resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, fmt.Errorf("geolocation service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Coordinates{}, fmt.Errorf("failed to read geolocation response: %w", err)
	}

	var lookup lookupResponse
	if err := json.Unmarshal(body, &lookup); err != nil {
		return Coordinates{}, fmt.Errorf("failed to parse geolocation response: %w", err)
	}

	if lookup.Status != "success" {
		if lookup.Message != "" {
			return Coordinates{}, fmt.Errorf("geolocation lookup failed: %s", lookup.Message)
		}
		return Coordinates{}, fmt.Errorf("geolocation lookup failed")
	}

	logging.Debug("Geolocation resolved",
		zap.Float64("lat", lookup.Lat),
		zap.Float64("lon", lookup.Lon),
		zap.String("city", lookup.City),
	)

	return Coordinates{Lat: lookup.Lat, Lon: lookup.Lon}, nil
}
