package entity

import (
	"math"
	"strings"
	"time"
)

// Waypoint is one end of the trip
type Waypoint struct {
	Location Coordinate   `json:"location"`
	Name     string       `json:"name,omitempty"`
	PlaceID  string       `json:"place_id,omitempty"`
	Channel  InputChannel `json:"channel"`
}

// ClaimRecord holds everything a claimant enters plus computed values.
// It becomes read-only once exported until Reset is called.
type ClaimRecord struct {
	ClaimantName string              `json:"claimant_name"`
	Department   string              `json:"department"`
	Purpose      string              `json:"purpose"`
	VehicleType  VehicleType         `json:"vehicle_type"`
	Origin       *Waypoint           `json:"origin,omitempty"`
	Destination  *Waypoint           `json:"destination,omitempty"`
	Resolution   *DistanceResolution `json:"resolution,omitempty"`
	TicketCost   float64             `json:"ticket_cost"`
	TaxiCost     float64             `json:"taxi_cost"`
	Receipt      *ReceiptImage       `json:"receipt,omitempty"`
	TotalAmount  float64             `json:"total_amount"`
	ExportedAt   *time.Time          `json:"exported_at,omitempty"`
}

// NewClaimRecord creates an empty claim for a new session
func NewClaimRecord(department string) *ClaimRecord {
	if strings.TrimSpace(department) == "" {
		department = DefaultDepartment
	}
	return &ClaimRecord{
		Department:  department,
		VehicleType: VehicleCar,
	}
}

// IsExported reports whether the claim is locked
func (r *ClaimRecord) IsExported() bool {
	return r.ExportedAt != nil
}

func (r *ClaimRecord) ensureEditable() error {
	if r.IsExported() {
		return ErrClaimExported
	}
	return nil
}

// SetDetails updates the header fields. Empty department keeps the current one.
func (r *ClaimRecord) SetDetails(name, department, purpose string) error {
	if err := r.ensureEditable(); err != nil {
		return err
	}
	r.ClaimantName = strings.TrimSpace(name)
	if d := strings.TrimSpace(department); d != "" {
		r.Department = d
	}
	r.Purpose = strings.TrimSpace(purpose)
	return nil
}

// SetVehicleType switches the reimbursement policy
func (r *ClaimRecord) SetVehicleType(v VehicleType) error {
	if err := r.ensureEditable(); err != nil {
		return err
	}
	if !v.IsValid() {
		return ErrUnknownVehicleType
	}
	r.VehicleType = v
	return nil
}

// SetCosts stores the manual cost fields; negative values are stored as 0
func (r *ClaimRecord) SetCosts(ticketCost, taxiCost float64) error {
	if err := r.ensureEditable(); err != nil {
		return err
	}
	r.TicketCost = nonNegative(ticketCost)
	r.TaxiCost = nonNegative(taxiCost)
	return nil
}

// SetPoint places one end of the trip and drops the stale resolution
func (r *ClaimRecord) SetPoint(role PointRole, wp Waypoint) error {
	if err := r.ensureEditable(); err != nil {
		return err
	}
	if err := wp.Location.Validate(); err != nil {
		return err
	}
	switch role {
	case RoleOrigin:
		r.Origin = &wp
	case RoleDestination:
		r.Destination = &wp
	default:
		return ErrUnknownPointRole
	}
	r.Resolution = nil
	return nil
}

// NextClickRole returns the role a map click fills, or false once both are set
func (r *ClaimRecord) NextClickRole() (PointRole, bool) {
	switch {
	case r.Origin == nil:
		return RoleOrigin, true
	case r.Destination == nil:
		return RoleDestination, true
	default:
		return "", false
	}
}

// HasBothPoints reports whether a distance can be resolved
func (r *ClaimRecord) HasBothPoints() bool {
	return r.Origin != nil && r.Destination != nil
}

// DistanceKm returns the resolved distance or 0 when none is known
func (r *ClaimRecord) DistanceKm() float64 {
	if r.Resolution == nil {
		return 0
	}
	return r.Resolution.DistanceKm
}

// AttachReceipt replaces the receipt image
func (r *ClaimRecord) AttachReceipt(img *ReceiptImage) error {
	if err := r.ensureEditable(); err != nil {
		return err
	}
	r.Receipt = img
	return nil
}

// RemoveReceipt drops the receipt image
func (r *ClaimRecord) RemoveReceipt() error {
	if err := r.ensureEditable(); err != nil {
		return err
	}
	r.Receipt = nil
	return nil
}

// MarkExported locks the claim
func (r *ClaimRecord) MarkExported(at time.Time) {
	r.ExportedAt = &at
}

// Reset clears points, resolution, manual costs and receipt in one step.
// Header fields and vehicle type are kept; the export lock is released.
func (r *ClaimRecord) Reset() {
	r.Origin = nil
	r.Destination = nil
	r.Resolution = nil
	r.TicketCost = 0
	r.TaxiCost = 0
	r.Receipt = nil
	r.TotalAmount = 0
	r.ExportedAt = nil
}

// Clone returns a deep copy safe to read outside the session lock
func (r *ClaimRecord) Clone() *ClaimRecord {
	cp := *r
	if r.Origin != nil {
		o := *r.Origin
		cp.Origin = &o
	}
	if r.Destination != nil {
		d := *r.Destination
		cp.Destination = &d
	}
	cp.Resolution = r.Resolution.Clone()
	if r.Receipt != nil {
		rc := *r.Receipt
		rc.Data = append([]byte(nil), r.Receipt.Data...)
		cp.Receipt = &rc
	}
	if r.ExportedAt != nil {
		t := *r.ExportedAt
		cp.ExportedAt = &t
	}
	return &cp
}

func nonNegative(v float64) float64 {
	if v > 0 && !math.IsInf(v, 1) {
		return v
	}
	return 0
}
