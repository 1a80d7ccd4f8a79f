package routing

import (
	"errors"
	"fmt"

	"github.com/teerapatzza/travel-claim/internal/domain/entity"
)

// ErrorKind classifies why a route lookup failed
type ErrorKind string

const (
	KindNetwork   ErrorKind = "network"
	KindStatus    ErrorKind = "status"
	KindMalformed ErrorKind = "malformed"
	KindNoRoute   ErrorKind = "no_route"
)

// RouteError is returned for every failed lookup. It matches
// entity.ErrRouteUnavailable under errors.Is.
type RouteError struct {
	Kind       ErrorKind
	StatusCode int
	Code       string
	Err        error
}

func (e *RouteError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("routing: unexpected status %d", e.StatusCode)
	case KindNoRoute:
		if e.Code != "" {
			return fmt.Sprintf("routing: no route (%s)", e.Code)
		}
		return "routing: no route"
	}
	if e.Err != nil {
		return fmt.Sprintf("routing: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("routing: %s", e.Kind)
}

func (e *RouteError) Unwrap() error { return e.Err }

// Is reports a match against entity.ErrRouteUnavailable
func (e *RouteError) Is(target error) bool {
	return target == entity.ErrRouteUnavailable
}

// Retryable reports whether another attempt could succeed
func (e *RouteError) Retryable() bool {
	switch e.Kind {
	case KindNetwork:
		return true
	case KindStatus:
		return e.StatusCode == 429 || e.StatusCode >= 500
	}
	return false
}

// KindOf extracts the failure kind from err, or "" if err is not a RouteError
func KindOf(err error) ErrorKind {
	var re *RouteError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}
