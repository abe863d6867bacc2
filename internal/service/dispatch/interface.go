package dispatch

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskport/worker-match-system/internal/domain/models"
)

/*===================== Worker Profile Resolver ========================*/

// ProfileResolver maps a person to their worker-profile ID, or nil when the
// companion record does not exist.
type ProfileResolver interface {
	WorkerProfileID(ctx context.Context, personID uuid.UUID) (*uuid.UUID, error)
}

/*===================== Booking Subsystem ========================*/

// RequestCreator persists one service request in the booking subsystem.
type RequestCreator interface {
	CreateRequest(ctx context.Context, req models.DispatchRequest) error
}

/*===================== Outcome Events ========================*/

// OutcomePublisher emits per-recipient dispatch outcomes for downstream
// notification consumers. Publishing is best effort.
type OutcomePublisher interface {
	PublishOutcome(ctx context.Context, event models.DispatchOutcomeEvent) error
}
