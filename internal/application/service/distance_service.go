package service

import (
	"context"
	"time"

	"github.com/teerapatzza/travel-claim/internal/application/port"
	"github.com/teerapatzza/travel-claim/internal/domain/entity"
	"github.com/teerapatzza/travel-claim/internal/domain/geo"
)

// DefaultRouteTimeout bounds a single routing call
const DefaultRouteTimeout = 8 * time.Second

// DistanceService resolves the travel distance between two points
type DistanceService interface {
	// Resolve never fails because of the routing service; a failed or
	// unusable route falls back to the great-circle distance. The only
	// error is entity.ErrInvalidCoordinate.
	Resolve(ctx context.Context, start, end entity.Coordinate) (*entity.DistanceResolution, error)
}

type distanceServiceImpl struct {
	routes  port.RouteService
	timeout time.Duration
	logger  Logger
}

// NewDistanceService creates a DistanceService. A nil routes disables
// routing and every distance is a straight line.
func NewDistanceService(routes port.RouteService, timeout time.Duration, logger Logger) DistanceService {
	if timeout <= 0 {
		timeout = DefaultRouteTimeout
	}
	return &distanceServiceImpl{
		routes:  routes,
		timeout: timeout,
		logger:  logger,
	}
}

func (s *distanceServiceImpl) Resolve(ctx context.Context, start, end entity.Coordinate) (*entity.DistanceResolution, error) {
	if err := start.Validate(); err != nil {
		return nil, err
	}
	if err := end.Validate(); err != nil {
		return nil, err
	}

	if start.Equal(end) {
		return &entity.DistanceResolution{
			DistanceKm: 0,
			Path:       []entity.Coordinate{start},
			IsFallback: false,
		}, nil
	}

	if route := s.tryRoute(ctx, start, end); route != nil {
		return &entity.DistanceResolution{
			DistanceKm: route.DistanceKm,
			Path:       append([]entity.Coordinate(nil), route.Path...),
			IsFallback: false,
		}, nil
	}

	return &entity.DistanceResolution{
		DistanceKm: geo.GreatCircleKm(start, end),
		Path:       []entity.Coordinate{start, end},
		IsFallback: true,
	}, nil
}

// tryRoute returns a usable route or nil; failures are logged only
func (s *distanceServiceImpl) tryRoute(ctx context.Context, start, end entity.Coordinate) *entity.RouteResult {
	if s.routes == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	route, err := s.routes.Route(ctx, start, end)
	if err != nil {
		s.logger.Error("Route unavailable, using straight-line distance",
			"start", start.String(),
			"end", end.String(),
			"error", err,
		)
		return nil
	}
	if !route.Usable() {
		s.logger.Error("Route unusable, using straight-line distance",
			"start", start.String(),
			"end", end.String(),
		)
		return nil
	}

	s.logger.Info("Route resolved",
		"distance_km", route.DistanceKm,
		"duration_min", route.DurationMin,
		"path_points", len(route.Path),
	)
	return route
}
