package discovery

import (
	"context"
	"fmt"
	"sort"

	"github.com/taskport/worker-match-system/internal/domain/models"
	"github.com/taskport/worker-match-system/internal/domain/types"
	wrap "github.com/taskport/worker-match-system/pkg/logger/wrapper"
	"github.com/taskport/worker-match-system/pkg/metrics"
)

const serviceComponent = "discovery"

// Tier radii are fixed product semantics, not configuration.
const (
	tierNearMiles = 5.0
	tierMidMiles  = 10.0
	tierFarMiles  = 20.0
)

// Search runs the full discovery pipeline around the resolved center:
// prefilter, exact distance, eligibility marking, stable ranking and tier
// counts. The candidate set is fetched once and reused for the tier counts.
func (s *Service) Search(ctx context.Context, center models.ResolvedLocation, radiusMiles float64) (models.SearchResult, error) {
	const op = "DiscoveryService.Search"

	ctx = wrap.WithAction(ctx, types.ActionSearchWorkers)

	if radiusMiles <= 0 {
		radiusMiles = s.cfg.DefaultRadiusMiles
	}
	if radiusMiles <= 0 || radiusMiles > s.cfg.MaxRadiusMiles {
		return models.SearchResult{}, wrap.Error(ctx, fmt.Errorf("%s: radius %.1f out of range: %w", op, radiusMiles, types.ErrInvalidRadius))
	}

	// A degraded center carries the (0, 0) sentinel; geocode the postal code
	// before any distance math.
	if center.Degraded() {
		point, err := s.geocoder.ForwardGeocode(ctx, center.PostalCode)
		if err != nil {
			return models.SearchResult{}, wrap.Error(ctx, fmt.Errorf("%s: postal code %q: %w", op, center.PostalCode, types.ErrGeocodingFailed))
		}
		center.Latitude = point.Latitude
		center.Longitude = point.Longitude
	}

	if !center.Point().Valid() {
		return models.SearchResult{}, wrap.Error(ctx, fmt.Errorf("%s: center has invalid coordinates: %w", op, types.ErrLocationUnavailable))
	}

	// Scan wide enough to serve both the requested radius and the outermost
	// tier from a single candidate fetch.
	scanRadius := radiusMiles
	if scanRadius < tierFarMiles {
		scanRadius = tierFarMiles
	}

	candidates, err := s.collectCandidates(ctx, center.Point(), scanRadius)
	if err != nil {
		metrics.RecordSearch(serviceComponent, center.Source.String(), err, 0)
		return models.SearchResult{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	measured := s.measure(ctx, candidates, center.Point(), scanRadius)

	sort.SliceStable(measured, func(i, j int) bool {
		return measured[i].DistanceMiles < measured[j].DistanceMiles
	})

	ranked := make([]models.RankedWorker, 0, len(measured))
	for _, w := range measured {
		if w.DistanceMiles <= radiusMiles {
			ranked = append(ranked, w)
		}
	}

	result := models.SearchResult{
		Ranked:     ranked,
		TierCounts: tierCounts(measured),
	}

	s.log.Info(ctx, "search completed",
		"source", center.Source.String(),
		"radius_miles", radiusMiles,
		"candidates", len(candidates),
		"ranked", len(ranked),
	)
	metrics.RecordSearch(serviceComponent, center.Source.String(), nil, len(candidates))

	return result, nil
}

// collectCandidates runs the bounding-box prefilter and recovers workers the
// box cannot see. The box is approximate and inclusive; the exact distance
// pass downstream discards false positives.
func (s *Service) collectCandidates(ctx context.Context, center models.Point, radiusMiles float64) ([]models.WorkerCandidate, error) {
	box := boxAround(center, radiusMiles, s.cfg.MilesPerDegreeLat, s.cfg.MilesPerDegreeLon)

	candidates, err := s.store.QueryByBoundingBox(ctx, box.MinLat, box.MaxLat, box.MinLon, box.MaxLon)
	if err != nil || len(candidates) == 0 {
		if err != nil {
			s.log.Warn(ctx, "bounding-box query failed, falling back to full scan", "reason", err.Error())
		}
		candidates, err = s.store.QueryAll(ctx)
		if err != nil {
			return nil, err
		}
	}

	// Workers holding only a postal code never match the box. Pull them
	// separately so opportunistic geocoding can place them.
	unlocated, err := s.store.QueryUnlocated(ctx)
	if err != nil {
		s.log.Warn(ctx, "unlocated-worker query failed, continuing without them", "reason", err.Error())
		return candidates, nil
	}

	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		seen[c.PersonID.String()] = struct{}{}
	}
	for _, c := range unlocated {
		if _, ok := seen[c.PersonID.String()]; !ok {
			candidates = append(candidates, c)
		}
	}

	return candidates, nil
}

// measure computes the exact distance for every candidate it can place and
// drops the rest. A candidate without stored coordinates gets one geocoding
// attempt from its postal code; failures are logged and skipped, never fatal.
func (s *Service) measure(ctx context.Context, candidates []models.WorkerCandidate, center models.Point, scanRadius float64) []models.RankedWorker {
	measured := make([]models.RankedWorker, 0, len(candidates))

	for _, c := range candidates {
		point, ok := s.locateCandidate(ctx, c)
		if !ok {
			continue
		}

		d := DistanceMiles(center.Latitude, center.Longitude, point.Latitude, point.Longitude)
		if d > scanRadius {
			continue
		}

		measured = append(measured, models.RankedWorker{
			WorkerCandidate:     c,
			DistanceMiles:       RoundMiles(d),
			EligibleForDispatch: s.eligible(ctx, c, point),
		})
	}

	return measured
}

func (s *Service) locateCandidate(ctx context.Context, c models.WorkerCandidate) (models.Point, bool) {
	if c.HasCoordinates() {
		p := models.Point{Latitude: *c.Latitude, Longitude: *c.Longitude}
		if p.Valid() {
			return p, true
		}
		s.log.Debug(ctx, "worker has out-of-range coordinates, skipping",
			"person_id", c.PersonID.String())
		return models.Point{}, false
	}

	if c.PostalCode == "" {
		s.log.Debug(ctx, "worker has no location data, skipping",
			"person_id", c.PersonID.String())
		return models.Point{}, false
	}

	point, err := s.geocoder.ForwardGeocode(ctx, c.PostalCode)
	if err != nil {
		s.log.Debug(ctx, "worker postal code did not geocode, skipping",
			"person_id", c.PersonID.String(),
			"postal_code", c.PostalCode,
		)
		return models.Point{}, false
	}

	return point, true
}

// tierCounts buckets the measured set at the three fixed radii. Total counts
// every candidate a distance could be computed for.
func tierCounts(measured []models.RankedWorker) models.TierCounts {
	counts := models.TierCounts{Total: len(measured)}
	for _, w := range measured {
		if w.DistanceMiles <= tierNearMiles {
			counts.Within5++
		}
		if w.DistanceMiles <= tierMidMiles {
			counts.Within10++
		}
		if w.DistanceMiles <= tierFarMiles {
			counts.Within20++
		}
	}
	return counts
}
