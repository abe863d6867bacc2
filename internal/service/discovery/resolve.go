package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/taskport/worker-match-system/internal/domain/models"
	"github.com/taskport/worker-match-system/internal/domain/types"
	wrap "github.com/taskport/worker-match-system/pkg/logger/wrapper"
)

// defaultDeviceTimeout bounds one device geolocation attempt when the caller
// does not pass its own.
const defaultDeviceTimeout = 8 * time.Second

// PlaceSelection is a provider suggestion the requester picked from address
// autocomplete. It already carries coordinates, so no geocoding is needed.
type PlaceSelection struct {
	Latitude   float64
	Longitude  float64
	Label      string
	PostalCode string
}

// ResolveInput carries strategy-specific parameters for one resolution attempt.
type ResolveInput struct {
	Strategy types.LocationSource

	// Place is required for SourceExplicitAddress.
	Place *PlaceSelection

	// Device geolocation options, used for SourceDeviceGeolocation.
	HighAccuracy bool
	Timeout      time.Duration
}

// Resolve produces a search center using one explicit strategy. There is no
// silent cross-strategy fallback here: the caller owns the fallback chain so
// each failed step can be reported to the user precisely.
func (s *Service) Resolve(ctx context.Context, in ResolveInput) (models.ResolvedLocation, error) {
	const op = "DiscoveryService.Resolve"

	ctx = wrap.WithAction(ctx, types.ActionResolveLocation)

	switch in.Strategy {
	case types.SourceExplicitAddress:
		return s.resolveExplicit(ctx, op, in.Place)
	case types.SourceDeviceGeolocation:
		return s.resolveDevice(ctx, op, in)
	case types.SourceStoredProfile:
		return s.resolveStored(ctx, op)
	default:
		return models.ResolvedLocation{}, wrap.Error(ctx, fmt.Errorf("%s: unknown strategy %q: %w", op, in.Strategy, types.ErrLocationUnavailable))
	}
}

// ResolveBest walks the fallback chain: explicit address when a place was
// picked, then device geolocation, then the stored profile. Each step's
// failure is kept so the final error can name why every source came up empty.
func (s *Service) ResolveBest(ctx context.Context, in ResolveInput) (models.ResolvedLocation, error) {
	const op = "DiscoveryService.ResolveBest"

	ctx = wrap.WithAction(ctx, types.ActionResolveLocation)

	if in.Place != nil {
		return s.resolveExplicit(ctx, op, in.Place)
	}

	loc, deviceErr := s.resolveDevice(ctx, op, in)
	if deviceErr == nil {
		return loc, nil
	}

	loc, storedErr := s.resolveStored(ctx, op)
	if storedErr == nil {
		return loc, nil
	}

	return models.ResolvedLocation{}, wrap.Error(ctx, fmt.Errorf("%s: device: %v; stored profile: %v: %w",
		op, deviceErr, storedErr, types.ErrLocationUnavailable))
}

func (s *Service) resolveExplicit(ctx context.Context, op string, place *PlaceSelection) (models.ResolvedLocation, error) {
	if place == nil {
		return models.ResolvedLocation{}, wrap.Error(ctx, fmt.Errorf("%s: no place selected: %w", op, types.ErrLocationUnavailable))
	}

	p := models.Point{Latitude: place.Latitude, Longitude: place.Longitude}
	if !p.Valid() {
		return models.ResolvedLocation{}, wrap.Error(ctx, fmt.Errorf("%s: place has invalid coordinates: %w", op, types.ErrLocationUnavailable))
	}

	loc := models.ResolvedLocation{
		Latitude:   place.Latitude,
		Longitude:  place.Longitude,
		Label:      place.Label,
		PostalCode: place.PostalCode,
		Source:     types.SourceExplicitAddress,
	}
	if loc.Label == "" {
		loc.Label = models.CoordinateLabel(loc.Latitude, loc.Longitude)
	}

	s.log.Debug(ctx, "resolved location from explicit address", "label", loc.Label)
	return loc, nil
}

func (s *Service) resolveDevice(ctx context.Context, op string, in ResolveInput) (models.ResolvedLocation, error) {
	requester := models.RequesterFromContext(ctx)
	if requester.IsAnonymous() {
		return models.ResolvedLocation{}, wrap.Error(ctx, fmt.Errorf("%s: device geolocation needs an identified requester: %w", op, types.ErrPositionUnavailable))
	}

	timeout := in.Timeout
	if timeout <= 0 {
		timeout = defaultDeviceTimeout
	}

	point, err := s.device.CurrentPosition(ctx, requester.ID, timeout, in.HighAccuracy)
	if err != nil {
		s.log.Warn(ctx, "device geolocation failed", "reason", err.Error())
		return models.ResolvedLocation{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	loc := models.ResolvedLocation{
		Latitude:  point.Latitude,
		Longitude: point.Longitude,
		Source:    types.SourceDeviceGeolocation,
	}

	// Reverse geocoding is best effort. A raw coordinate pair is still a
	// perfectly usable search center.
	place, err := s.geocoder.ReverseGeocode(ctx, point.Latitude, point.Longitude)
	if err != nil {
		s.log.Debug(ctx, "reverse geocode failed, keeping coordinate label", "reason", err.Error())
		loc.Label = models.CoordinateLabel(point.Latitude, point.Longitude)
		return loc, nil
	}

	loc.Label = place.Label
	loc.PostalCode = place.PostalCode
	if loc.Label == "" {
		loc.Label = models.CoordinateLabel(point.Latitude, point.Longitude)
	}

	return loc, nil
}

func (s *Service) resolveStored(ctx context.Context, op string) (models.ResolvedLocation, error) {
	requester := models.RequesterFromContext(ctx)
	if requester.IsAnonymous() {
		return models.ResolvedLocation{}, wrap.Error(ctx, fmt.Errorf("%s: stored profile needs an identified requester: %w", op, types.ErrLocationUnavailable))
	}

	stored, err := s.store.StoredLocation(ctx, requester.ID)
	if err != nil {
		return models.ResolvedLocation{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	if stored.Latitude != nil && stored.Longitude != nil {
		loc := models.ResolvedLocation{
			Latitude:   *stored.Latitude,
			Longitude:  *stored.Longitude,
			Label:      stored.Label,
			PostalCode: stored.PostalCode,
			Source:     types.SourceStoredProfile,
		}
		if loc.Label == "" {
			loc.Label = models.CoordinateLabel(loc.Latitude, loc.Longitude)
		}
		return loc, nil
	}

	// Degraded path: postal code without coordinates. Coordinates stay at the
	// (0, 0) sentinel until the search pass geocodes the postal code.
	if stored.PostalCode != "" {
		s.log.Info(ctx, "stored profile has postal code only, search will geocode it",
			"postal_code", stored.PostalCode)
		return models.ResolvedLocation{
			Label:      stored.PostalCode,
			PostalCode: stored.PostalCode,
			Source:     types.SourcePostalCodeOnly,
		}, nil
	}

	return models.ResolvedLocation{}, wrap.Error(ctx, fmt.Errorf("%s: profile has no location: %w", op, types.ErrLocationUnavailable))
}
