package entity

import (
	"fmt"
	"strings"
)

// VehicleType identifies how a trip is reimbursed
type VehicleType string

const (
	VehicleCar        VehicleType = "CAR"
	VehicleMotorcycle VehicleType = "MOTORCYCLE"
	VehicleTaxi       VehicleType = "TAXI"
	VehiclePlane      VehicleType = "PLANE"
)

// VehicleTypes returns every supported vehicle type in display order
func VehicleTypes() []VehicleType {
	return []VehicleType{VehicleCar, VehicleMotorcycle, VehicleTaxi, VehiclePlane}
}

// ParseVehicleType accepts the canonical names case-insensitively
func ParseVehicleType(s string) (VehicleType, error) {
	v := VehicleType(strings.ToUpper(strings.TrimSpace(s)))
	if !v.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownVehicleType, s)
	}
	return v, nil
}

// String returns the string representation of the vehicle type
func (v VehicleType) String() string {
	return string(v)
}

// IsValid checks if the vehicle type is one of the defined constants
func (v VehicleType) IsValid() bool {
	switch v {
	case VehicleCar, VehicleMotorcycle, VehicleTaxi, VehiclePlane:
		return true
	default:
		return false
	}
}

// IsDistanceRated reports whether the amount depends on travelled distance
func (v VehicleType) IsDistanceRated() bool {
	return v == VehicleCar || v == VehicleMotorcycle
}

// Label returns the human readable name used on claim documents
func (v VehicleType) Label(thai bool) string {
	switch v {
	case VehicleCar:
		if thai {
			return "รถยนต์ส่วนตัว"
		}
		return "Private car"
	case VehicleMotorcycle:
		if thai {
			return "รถจักรยานยนต์ส่วนตัว"
		}
		return "Private motorcycle"
	case VehicleTaxi:
		if thai {
			return "รถแท็กซี่"
		}
		return "Taxi"
	case VehiclePlane:
		if thai {
			return "เครื่องบิน"
		}
		return "Plane"
	default:
		return string(v)
	}
}
