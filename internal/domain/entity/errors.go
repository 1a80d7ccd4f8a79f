package entity

import "errors"

// Domain errors for claim handling

var (
	// Input errors
	ErrInvalidCoordinate  = errors.New("invalid coordinate")
	ErrUnknownVehicleType = errors.New("unknown vehicle type")
	ErrUnknownPointRole   = errors.New("unknown point role")
	ErrPlaceNotFound      = errors.New("place not found")

	// Claim state errors
	ErrSessionNotFound = errors.New("claim session not found")
	ErrClaimExported   = errors.New("claim already exported")
	ErrClaimIncomplete = errors.New("claim is incomplete")
	ErrStaleResolution = errors.New("distance resolution superseded")
	ErrClaimChanged    = errors.New("claim changed during export")

	// Receipt errors
	ErrNotAnImage      = errors.New("file is not an image")
	ErrReceiptTooLarge = errors.New("receipt exceeds size limit")

	// Collaborator errors
	ErrRouteUnavailable    = errors.New("route unavailable")
	ErrResourceMissing     = errors.New("resource missing")
	ErrDocumentGeneration  = errors.New("document generation failed")
	ErrUnsupportedDocument = errors.New("unsupported document format")
)
