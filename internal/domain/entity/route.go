package entity

import "math"

// RouteResult is a successful answer from the routing service
type RouteResult struct {
	DistanceKm  float64      `json:"distance_km"`
	DurationMin float64      `json:"duration_min"`
	Path        []Coordinate `json:"path"`
}

// Usable reports whether the result may be taken as the real route
func (r *RouteResult) Usable() bool {
	if r == nil || len(r.Path) == 0 {
		return false
	}
	if math.IsNaN(r.DistanceKm) || math.IsInf(r.DistanceKm, 0) || r.DistanceKm < 0 {
		return false
	}
	return true
}

// DistanceResolution is the outcome of resolving a distance between two points.
// IsFallback is true when the routing service gave no usable route for the pair.
type DistanceResolution struct {
	DistanceKm float64      `json:"distance_km"`
	Path       []Coordinate `json:"path"`
	IsFallback bool         `json:"is_fallback"`
}

// Clone returns a deep copy
func (d *DistanceResolution) Clone() *DistanceResolution {
	if d == nil {
		return nil
	}
	cp := *d
	cp.Path = append([]Coordinate(nil), d.Path...)
	return &cp
}
