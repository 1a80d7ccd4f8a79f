package entity

// DefaultDepartment is pre-filled on new claims
const DefaultDepartment = "กองคลัง"

// PointRole names which end of the trip a point belongs to
type PointRole string

const (
	RoleOrigin      PointRole = "origin"
	RoleDestination PointRole = "destination"
)

// ParsePointRole validates a role coming from user input
func ParsePointRole(s string) (PointRole, error) {
	switch PointRole(s) {
	case RoleOrigin, RoleDestination:
		return PointRole(s), nil
	default:
		return "", ErrUnknownPointRole
	}
}

// InputChannel names how a point was picked
type InputChannel string

const (
	ChannelClick InputChannel = "click"
	ChannelDrag  InputChannel = "drag"
	ChannelPlace InputChannel = "place"
)

// IsValid checks if the channel is one of the defined constants
func (c InputChannel) IsValid() bool {
	switch c {
	case ChannelClick, ChannelDrag, ChannelPlace:
		return true
	default:
		return false
	}
}

// Document formats
const (
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)
