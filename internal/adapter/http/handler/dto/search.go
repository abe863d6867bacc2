package dto

// SearchWorkersRequest resolves a location and searches around it in one
// call. A zero radius means the configured default.
type SearchWorkersRequest struct {
	ResolveLocationRequest

	RadiusMiles float64 `json:"radius_miles" validate:"omitempty,gt=0"`
}
