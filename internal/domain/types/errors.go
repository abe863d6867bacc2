package types

import "errors"

var (
	// Location resolution
	ErrLocationUnavailable = errors.New("no usable location source")
	ErrGeocodingFailed     = errors.New("geocoding provider returned no result")

	// Device geolocation, surfaced verbatim for user messaging
	ErrPermissionDenied    = errors.New("device location permission denied")
	ErrPositionUnavailable = errors.New("device position unavailable")
	ErrGeolocationTimeout  = errors.New("device geolocation timed out")

	// Search
	ErrWorkerNotFound    = errors.New("worker not found")
	ErrNoEligibleWorkers = errors.New("no eligible workers in radius")
	ErrInvalidRadius     = errors.New("radius must be positive")

	// Dispatch
	ErrAllDispatchesFailed = errors.New("all dispatch attempts failed")
	ErrEmptySelection      = errors.New("no workers selected for dispatch")

	// Auth
	ErrInvalidToken = errors.New("invalid or expired token")

	ErrNotFound = errors.New("requested item not found")
)
