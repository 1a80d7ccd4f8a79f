package entity

import "time"

// CostBreakdown itemises how the total was reached
type CostBreakdown struct {
	VehicleType    VehicleType `json:"vehicle_type"`
	RatePerKm      float64     `json:"rate_per_km"`
	DistanceKm     float64     `json:"distance_km"`
	DistanceAmount float64     `json:"distance_amount"`
	TicketCost     float64     `json:"ticket_cost"`
	TaxiCost       float64     `json:"taxi_cost"`
	Total          float64     `json:"total"`
}

// ClaimDocument is the payload handed to a document renderer
type ClaimDocument struct {
	ClaimantName    string
	Department      string
	Purpose         string
	IssuedAt        time.Time
	VehicleType     VehicleType
	OriginName      string
	DestinationName string
	Origin          *Coordinate
	Destination     *Coordinate
	Resolution      *DistanceResolution
	Breakdown       CostBreakdown
	Receipt         *ReceiptImage
}

// NewClaimDocument assembles the render payload from a record snapshot
func NewClaimDocument(r *ClaimRecord, breakdown CostBreakdown, issuedAt time.Time) *ClaimDocument {
	doc := &ClaimDocument{
		ClaimantName: r.ClaimantName,
		Department:   r.Department,
		Purpose:      r.Purpose,
		IssuedAt:     issuedAt,
		VehicleType:  r.VehicleType,
		Resolution:   r.Resolution.Clone(),
		Breakdown:    breakdown,
		Receipt:      r.Receipt,
	}
	if r.Origin != nil {
		loc := r.Origin.Location
		doc.Origin = &loc
		doc.OriginName = r.Origin.Name
	}
	if r.Destination != nil {
		loc := r.Destination.Location
		doc.Destination = &loc
		doc.DestinationName = r.Destination.Name
	}
	return doc
}

// IsFallback reports whether the distance is a straight-line estimate
func (d *ClaimDocument) IsFallback() bool {
	return d.Resolution != nil && d.Resolution.IsFallback
}
