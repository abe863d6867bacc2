package dto

import (
	"time"

	"github.com/taskport/worker-match-system/internal/domain/types"
	"github.com/taskport/worker-match-system/internal/service/discovery"
)

// PlaceDTO is an autocomplete suggestion the requester picked. Coordinates
// use pointers so a missing field fails validation instead of defaulting to
// zero, which is a real coordinate.
type PlaceDTO struct {
	Latitude   *float64 `json:"latitude" validate:"required,lat"`
	Longitude  *float64 `json:"longitude" validate:"required,lng"`
	Label      string   `json:"label" validate:"max=512"`
	PostalCode string   `json:"postal_code" validate:"max=16"`
}

// ResolveLocationRequest selects a resolution strategy. An empty strategy
// means "walk the fallback chain".
type ResolveLocationRequest struct {
	Strategy     string    `json:"strategy" validate:"omitempty,oneof=EXPLICIT_ADDRESS DEVICE_GEOLOCATION STORED_PROFILE"`
	Place        *PlaceDTO `json:"place" validate:"omitempty"`
	HighAccuracy bool      `json:"high_accuracy"`
	TimeoutMs    int64     `json:"timeout_ms" validate:"omitempty,min=100,max=60000"`
}

// ToInput converts the request to the service input.
func (r ResolveLocationRequest) ToInput() discovery.ResolveInput {
	in := discovery.ResolveInput{
		Strategy:     types.LocationSource(r.Strategy),
		HighAccuracy: r.HighAccuracy,
		Timeout:      time.Duration(r.TimeoutMs) * time.Millisecond,
	}

	if r.Place != nil {
		in.Place = &discovery.PlaceSelection{
			Latitude:   *r.Place.Latitude,
			Longitude:  *r.Place.Longitude,
			Label:      r.Place.Label,
			PostalCode: r.Place.PostalCode,
		}
	}

	return in
}
