package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/teerapatzza/travel-claim/internal/application/service"
	"github.com/teerapatzza/travel-claim/internal/domain/entity"
)

// parsePoint reads a trip end given as a catalog place id or as "lat,lng"
func parsePoint(s string) (*service.PointSelection, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	lat, lng, ok := strings.Cut(s, ",")
	if !ok {
		return &service.PointSelection{Channel: entity.ChannelPlace, PlaceID: s}, nil
	}

	latV, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: latitude %q", entity.ErrInvalidCoordinate, lat)
	}
	lngV, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: longitude %q", entity.ErrInvalidCoordinate, lng)
	}

	c, err := entity.NewCoordinate(latV, lngV)
	if err != nil {
		return nil, err
	}
	return &service.PointSelection{Channel: entity.ChannelClick, Location: &c}, nil
}
