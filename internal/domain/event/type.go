package event

// Type identifies the type of domain event
type Type string

const (
	TypeSessionStarted Type = "claim.session_started"
	TypePointsChanged  Type = "claim.points_changed"
	TypeVehicleChanged Type = "claim.vehicle_changed"
	TypeCostsChanged   Type = "claim.costs_changed"
	TypeClaimReset     Type = "claim.reset"
	TypeClaimExported  Type = "claim.exported"
	TypeSessionExpired Type = "claim.session_expired"
)

// Payload keys
const (
	KeyResolutionSeq = "resolution_seq"
	KeyRole          = "role"
	KeyChannel       = "channel"
	KeyFormat        = "format"
	KeyFileName      = "file_name"
	KeyContent       = "content"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeSessionStarted,
		TypePointsChanged,
		TypeVehicleChanged,
		TypeCostsChanged,
		TypeClaimReset,
		TypeClaimExported,
		TypeSessionExpired:
		return true
	default:
		return false
	}
}

// TriggersRecalculation reports whether handlers must refresh the claim total
func (t Type) TriggersRecalculation() bool {
	switch t {
	case TypePointsChanged, TypeVehicleChanged, TypeCostsChanged:
		return true
	default:
		return false
	}
}
