package models

import (
	"github.com/google/uuid"
)

// WorkerCandidate is a read-only snapshot of a person flagged as a worker,
// taken from the directory store for one search. WorkerProfileID is set only
// when the companion worker-profile record exists.
type WorkerCandidate struct {
	PersonID        uuid.UUID  `json:"person_id"`
	WorkerProfileID *uuid.UUID `json:"worker_profile_id,omitempty"`
	DisplayName     string     `json:"display_name"`
	PostalCode      string     `json:"postal_code,omitempty"`
	Latitude        *float64   `json:"latitude,omitempty"`
	Longitude       *float64   `json:"longitude,omitempty"`
}

// HasCoordinates reports whether both coordinates are present.
func (c WorkerCandidate) HasCoordinates() bool {
	return c.Latitude != nil && c.Longitude != nil
}

// RankedWorker is a candidate annotated with its exact distance from the
// search center and its dispatch eligibility. Ineligible entries are kept so
// callers can surface them for transparency.
type RankedWorker struct {
	WorkerCandidate

	DistanceMiles       float64 `json:"distance_miles"`
	EligibleForDispatch bool    `json:"eligible_for_dispatch"`
}

// TierCounts buckets the full pipeline result at three fixed radii.
type TierCounts struct {
	Within5  int `json:"within_5"`
	Within10 int `json:"within_10"`
	Within20 int `json:"within_20"`
	Total    int `json:"total"`
}

// SearchResult is the outbound contract for one proximity search.
type SearchResult struct {
	Ranked     []RankedWorker `json:"ranked"`
	TierCounts TierCounts     `json:"tier_counts"`
}
