package service

import (
	"fmt"

	"github.com/teerapatzza/travel-claim/internal/application/port"
	"github.com/teerapatzza/travel-claim/internal/domain/entity"
)

// PointSelection is raw user input for one end of the trip
type PointSelection struct {
	Channel  entity.InputChannel
	Location *entity.Coordinate
	PlaceID  string
}

// PointResolver normalises the three input channels into a Waypoint
type PointResolver struct {
	catalog      port.PlaceCatalog
	snapRadiusKm float64
}

// NewPointResolver creates a PointResolver. Clicked or dragged points are
// labelled with the nearest catalog place within snapRadiusKm.
func NewPointResolver(catalog port.PlaceCatalog, snapRadiusKm float64) *PointResolver {
	return &PointResolver{
		catalog:      catalog,
		snapRadiusKm: snapRadiusKm,
	}
}

// Resolve validates the selection and returns the canonical waypoint
func (r *PointResolver) Resolve(sel PointSelection) (entity.Waypoint, error) {
	switch sel.Channel {
	case entity.ChannelPlace:
		if r.catalog == nil {
			return entity.Waypoint{}, fmt.Errorf("%w: %s", entity.ErrPlaceNotFound, sel.PlaceID)
		}
		place, err := r.catalog.Get(sel.PlaceID)
		if err != nil {
			return entity.Waypoint{}, err
		}
		return entity.Waypoint{
			Location: place.Location,
			Name:     place.Name,
			PlaceID:  place.ID,
			Channel:  entity.ChannelPlace,
		}, nil

	case entity.ChannelClick, entity.ChannelDrag:
		if sel.Location == nil {
			return entity.Waypoint{}, fmt.Errorf("%w: missing location", entity.ErrInvalidCoordinate)
		}
		if err := sel.Location.Validate(); err != nil {
			return entity.Waypoint{}, err
		}
		wp := entity.Waypoint{
			Location: *sel.Location,
			Channel:  sel.Channel,
		}
		if r.catalog != nil && r.snapRadiusKm > 0 {
			if place, ok := r.catalog.Nearest(*sel.Location, r.snapRadiusKm); ok {
				wp.Name = place.Name
			}
		}
		return wp, nil

	default:
		return entity.Waypoint{}, fmt.Errorf("unknown input channel %q", sel.Channel)
	}
}
