package discovery

import (
	"context"

	"github.com/taskport/worker-match-system/internal/domain/models"
)

// eligible decides whether a ranked worker may actually receive a dispatch.
// A person can be flagged as a worker without the companion worker profile
// existing yet; such entries stay visible in results but are marked, and the
// gap is logged so the onboarding team can chase it.
func (s *Service) eligible(ctx context.Context, c models.WorkerCandidate, point models.Point) bool {
	if !point.Valid() {
		return false
	}

	if c.WorkerProfileID == nil {
		s.log.Warn(ctx, "worker must complete profile setup before receiving requests",
			"person_id", c.PersonID.String(),
			"display_name", c.DisplayName,
		)
		return false
	}

	return true
}
