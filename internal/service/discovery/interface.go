package discovery

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskport/worker-match-system/internal/domain/models"
)

/*=================Worker Directory Store======================*/

type DirectoryStore interface {
	// QueryByBoundingBox returns workers whose stored coordinates fall inside
	// the axis-aligned box.
	QueryByBoundingBox(ctx context.Context, minLat, maxLat, minLon, maxLon float64) ([]models.WorkerCandidate, error)

	// QueryAll is the exhaustive fallback pass used when the box query is not
	// available or returns nothing.
	QueryAll(ctx context.Context) ([]models.WorkerCandidate, error)

	// QueryUnlocated returns workers holding a postal code but no stored
	// coordinates; they are recovered via opportunistic geocoding.
	QueryUnlocated(ctx context.Context) ([]models.WorkerCandidate, error)

	// WorkerProfileID returns the companion worker-profile ID for a person,
	// or nil when the profile record does not exist.
	WorkerProfileID(ctx context.Context, personID uuid.UUID) (*uuid.UUID, error)

	// StoredLocation reads the requester's saved profile location.
	StoredLocation(ctx context.Context, requesterID uuid.UUID) (models.StoredLocation, error)
}

/*===================== Geocoding Provider ========================*/

type Geocoder interface {
	ForwardGeocode(ctx context.Context, text string) (models.Point, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (models.Place, error)
}

/*===================== Device Geolocation ========================*/

// DeviceLocator obtains the requester's device position. Implementations must
// return the typed errors ErrPermissionDenied, ErrPositionUnavailable and
// ErrGeolocationTimeout so callers can message the user precisely.
type DeviceLocator interface {
	CurrentPosition(ctx context.Context, requesterID uuid.UUID, timeout time.Duration, highAccuracy bool) (models.Point, error)
}
