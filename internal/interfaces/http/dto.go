package http

import (
	"time"

	"github.com/teerapatzza/travel-claim/internal/application/service"
	"github.com/teerapatzza/travel-claim/internal/domain/entity"
)

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string      `json:"status"`
	Timestamp  string      `json:"timestamp"`
	Version    string      `json:"version"`
	Components interface{} `json:"components,omitempty"`
}

// StartClaimRequest is the optional body of POST /api/claims
type StartClaimRequest struct {
	Department string `json:"department"`
}

// DetailsRequest is the body of PATCH /api/claims/:id/details
type DetailsRequest struct {
	ClaimantName string `json:"claimant_name" binding:"max=200"`
	Department   string `json:"department" binding:"max=200"`
	Purpose      string `json:"purpose" binding:"max=1000"`
}

// VehicleRequest is the body of PUT /api/claims/:id/vehicle
type VehicleRequest struct {
	VehicleType string `json:"vehicle_type" binding:"required,vehicle_type"`
}

// CostsRequest is the body of PUT /api/claims/:id/costs
type CostsRequest struct {
	TicketCost float64 `json:"ticket_cost"`
	TaxiCost   float64 `json:"taxi_cost"`
}

// LocationRequest is a clicked map position
type LocationRequest struct {
	Lat *float64 `json:"lat" binding:"required,latitude"`
	Lng *float64 `json:"lng" binding:"required,longitude"`
}

// PointRequest selects one end of the trip through any input channel
type PointRequest struct {
	Channel string   `json:"channel" binding:"required,oneof=click drag place"`
	Lat     *float64 `json:"lat" binding:"omitempty,latitude"`
	Lng     *float64 `json:"lng" binding:"omitempty,longitude"`
	PlaceID string   `json:"place_id" binding:"required_if=Channel place"`
}

// QuoteRequest is the body of POST /api/quote
type QuoteRequest struct {
	VehicleType string        `json:"vehicle_type" binding:"required,vehicle_type"`
	Origin      *PointRequest `json:"origin"`
	Destination *PointRequest `json:"destination"`
	TicketCost  float64       `json:"ticket_cost"`
	TaxiCost    float64       `json:"taxi_cost"`
}

// WaypointResponse is one end of the trip
type WaypointResponse struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Name    string  `json:"name,omitempty"`
	PlaceID string  `json:"place_id,omitempty"`
	Channel string  `json:"channel"`
}

// ReceiptResponse describes an attached receipt without its bytes
type ReceiptResponse struct {
	FileName   string `json:"file_name"`
	SourceType string `json:"source_type"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	AttachedAt string `json:"attached_at"`
}

// ClaimResponse represents a claim session in API responses
type ClaimResponse struct {
	SessionID    string              `json:"session_id"`
	ClaimantName string              `json:"claimant_name"`
	Department   string              `json:"department"`
	Purpose      string              `json:"purpose"`
	VehicleType  string              `json:"vehicle_type"`
	VehicleLabel string              `json:"vehicle_label"`
	Origin       *WaypointResponse   `json:"origin,omitempty"`
	Destination  *WaypointResponse   `json:"destination,omitempty"`
	DistanceKm   float64             `json:"distance_km"`
	IsFallback   bool                `json:"is_fallback"`
	Path         []entity.Coordinate `json:"path,omitempty"`
	TicketCost   float64             `json:"ticket_cost"`
	TaxiCost     float64             `json:"taxi_cost"`
	TotalAmount  float64             `json:"total_amount"`
	Receipt      *ReceiptResponse    `json:"receipt,omitempty"`
	Exported     bool                `json:"exported"`
	ExportedAt   *string             `json:"exported_at,omitempty"`
}

// QuoteResponse is the answer of POST /api/quote
type QuoteResponse struct {
	DistanceKm float64              `json:"distance_km"`
	IsFallback bool                 `json:"is_fallback"`
	Path       []entity.Coordinate  `json:"path,omitempty"`
	Breakdown  entity.CostBreakdown `json:"breakdown"`
}

// toPointSelection converts request input to the service selection
func (p *PointRequest) toPointSelection() service.PointSelection {
	sel := service.PointSelection{
		Channel: entity.InputChannel(p.Channel),
		PlaceID: p.PlaceID,
	}
	if p.Lat != nil && p.Lng != nil {
		sel.Location = &entity.Coordinate{Lat: *p.Lat, Lng: *p.Lng}
	}
	return sel
}

func toWaypointResponse(wp *entity.Waypoint) *WaypointResponse {
	if wp == nil {
		return nil
	}
	return &WaypointResponse{
		Lat:     wp.Location.Lat,
		Lng:     wp.Location.Lng,
		Name:    wp.Name,
		PlaceID: wp.PlaceID,
		Channel: string(wp.Channel),
	}
}

// toClaimResponse converts a claim view to API response
func toClaimResponse(view *service.ClaimView) ClaimResponse {
	rec := view.Record
	resp := ClaimResponse{
		SessionID:    view.SessionID,
		ClaimantName: rec.ClaimantName,
		Department:   rec.Department,
		Purpose:      rec.Purpose,
		VehicleType:  string(rec.VehicleType),
		VehicleLabel: rec.VehicleType.Label(true),
		Origin:       toWaypointResponse(rec.Origin),
		Destination:  toWaypointResponse(rec.Destination),
		TicketCost:   rec.TicketCost,
		TaxiCost:     rec.TaxiCost,
		TotalAmount:  rec.TotalAmount,
		Exported:     rec.IsExported(),
	}

	if rec.Resolution != nil {
		resp.DistanceKm = rec.Resolution.DistanceKm
		resp.IsFallback = rec.Resolution.IsFallback
		resp.Path = rec.Resolution.Path
	}

	if rec.Receipt != nil {
		resp.Receipt = &ReceiptResponse{
			FileName:   rec.Receipt.FileName,
			SourceType: rec.Receipt.SourceType,
			Width:      rec.Receipt.Width,
			Height:     rec.Receipt.Height,
			AttachedAt: rec.Receipt.AttachedAt.Format(time.RFC3339),
		}
	}

	if rec.ExportedAt != nil {
		exportedAt := rec.ExportedAt.Format(time.RFC3339)
		resp.ExportedAt = &exportedAt
	}

	return resp
}
