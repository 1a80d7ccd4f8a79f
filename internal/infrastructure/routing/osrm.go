// Package routing resolves road distances against an OSRM-compatible server.
package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"github.com/teerapatzza/travel-claim/internal/application/port"
	"github.com/teerapatzza/travel-claim/internal/domain/entity"
)

const maxResponseBytes = 8 << 20

// Config holds OSRM client settings
type Config struct {
	BaseURL     string
	Profile     string
	MaxAttempts int
	Backoff     time.Duration
}

type osrmResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Routes  []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Distance float64           `json:"distance"` // metres
	Duration float64           `json:"duration"` // seconds
	Geometry *geojson.Geometry `json:"geometry"`
}

// OSRMClient implements port.RouteService over the OSRM route API
type OSRMClient struct {
	baseURL     string
	profile     string
	maxAttempts int
	backoff     time.Duration
	httpClient  *http.Client
	logger      *zap.Logger
}

var _ port.RouteService = (*OSRMClient)(nil)

// NewOSRMClient creates a client. httpClient carries the transport and
// per-attempt timeout; the overall deadline comes from the caller's context.
func NewOSRMClient(cfg Config, httpClient *http.Client, logger *zap.Logger) (*OSRMClient, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("routing base URL is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid routing base URL: %w", err)
	}

	if cfg.Profile == "" {
		cfg.Profile = "driving"
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OSRMClient{
		baseURL:     base,
		profile:     cfg.Profile,
		maxAttempts: cfg.MaxAttempts,
		backoff:     cfg.Backoff,
		httpClient:  httpClient,
		logger:      logger,
	}, nil
}

// Route fetches the first route between start and end
func (c *OSRMClient) Route(ctx context.Context, start, end entity.Coordinate) (*entity.RouteResult, error) {
	reqURL := c.routeURL(start, end)

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		result, err := c.fetch(ctx, reqURL)
		if err == nil {
			return result, nil
		}
		lastErr = err

		var re *RouteError
		if !errors.As(err, &re) || !re.Retryable() || attempt == c.maxAttempts {
			break
		}

		wait := c.backoff * time.Duration(1<<(attempt-1))
		c.logger.Debug("Retrying route lookup",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, &RouteError{Kind: KindNetwork, Err: ctx.Err()}
		case <-time.After(wait):
		}
	}
	return nil, lastErr
}

func (c *OSRMClient) routeURL(start, end entity.Coordinate) string {
	return fmt.Sprintf("%s/route/v1/%s/%.6f,%.6f;%.6f,%.6f?overview=full&geometries=geojson",
		c.baseURL, url.PathEscape(c.profile),
		start.Lng, start.Lat, end.Lng, end.Lat)
}

func (c *OSRMClient) fetch(ctx context.Context, reqURL string) (*entity.RouteResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &RouteError{Kind: KindNetwork, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RouteError{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &RouteError{Kind: KindNetwork, Err: err}
	}

	var parsed osrmResponse
	decodeErr := json.Unmarshal(body, &parsed)

	// OSRM answers 400 with code NoRoute / NoSegment for unroutable points
	if resp.StatusCode == http.StatusBadRequest && decodeErr == nil && parsed.Code != "" {
		return nil, &RouteError{Kind: KindNoRoute, StatusCode: resp.StatusCode, Code: parsed.Code}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RouteError{Kind: KindStatus, StatusCode: resp.StatusCode}
	}
	if decodeErr != nil {
		return nil, &RouteError{Kind: KindMalformed, Err: decodeErr}
	}
	if parsed.Code != "Ok" || len(parsed.Routes) == 0 {
		return nil, &RouteError{Kind: KindNoRoute, StatusCode: resp.StatusCode, Code: parsed.Code}
	}

	return toRouteResult(parsed.Routes[0])
}

func toRouteResult(r osrmRoute) (*entity.RouteResult, error) {
	if math.IsNaN(r.Distance) || math.IsInf(r.Distance, 0) || r.Distance < 0 {
		return nil, &RouteError{Kind: KindMalformed, Err: fmt.Errorf("distance %v", r.Distance)}
	}
	if r.Geometry == nil {
		return nil, &RouteError{Kind: KindMalformed, Err: fmt.Errorf("route has no geometry")}
	}

	line, ok := r.Geometry.Geometry().(orb.LineString)
	if !ok {
		return nil, &RouteError{Kind: KindMalformed, Err: fmt.Errorf("geometry is %s, want LineString", r.Geometry.Type)}
	}

	path := make([]entity.Coordinate, 0, len(line))
	for _, p := range line {
		path = append(path, entity.Coordinate{Lat: p.Lat(), Lng: p.Lon()})
	}

	return &entity.RouteResult{
		DistanceKm:  r.Distance / 1000,
		DurationMin: r.Duration / 60,
		Path:        path,
	}, nil
}
