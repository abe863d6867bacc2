package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskport/worker-match-system/config"
	"github.com/taskport/worker-match-system/internal/domain/models"
	"github.com/taskport/worker-match-system/internal/domain/types"
	"github.com/taskport/worker-match-system/pkg/logger"
	wrap "github.com/taskport/worker-match-system/pkg/logger/wrapper"
	"github.com/taskport/worker-match-system/pkg/metrics"
)

const serviceComponent = "dispatch"

const defaultWorkers = 4

// Service fans one requester's service request out to every selected worker.
// Each recipient gets an independent attempt; one failure never aborts the
// siblings.
type Service struct {
	profiles  ProfileResolver
	booking   RequestCreator
	publisher OutcomePublisher

	workers int
	log     logger.Logger
}

func New(profiles ProfileResolver, booking RequestCreator, publisher OutcomePublisher, cfg config.DispatchConfig, log logger.Logger) *Service {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	return &Service{
		profiles:  profiles,
		booking:   booking,
		publisher: publisher,
		workers:   workers,
		log:       log,
	}
}

// BatchInput is one requester's selection plus the shared request fields
// copied into every personalized dispatch.
type BatchInput struct {
	ServiceID     uuid.UUID
	PersonIDs     []uuid.UUID
	Location      models.ResolvedLocation
	Message       string
	PreferredDate *time.Time
	BudgetMin     float64
	BudgetMax     float64
}

// Dispatch sends one personalized request per selected worker through a
// bounded worker pool. A worker without a companion profile is never
// attempted; it is recorded as a failure instead. The call errors only when
// the selection is empty or every attempted dispatch failed.
func (s *Service) Dispatch(ctx context.Context, in BatchInput) (models.DispatchBatchResult, error) {
	const op = "DispatchService.Dispatch"

	if len(in.PersonIDs) == 0 {
		return models.DispatchBatchResult{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, types.ErrEmptySelection))
	}

	batchID := uuid.New()
	ctx = wrap.WithBatchID(ctx, batchID.String())
	ctx = wrap.WithAction(ctx, types.ActionDispatchBatch)

	started := time.Now()

	var result models.DispatchBatchResult

	// Profile resolution stays sequential; it is a cheap indexed lookup and
	// the failure mode is per-person, not per-batch.
	requests := make([]models.DispatchRequest, 0, len(in.PersonIDs))
	for _, personID := range in.PersonIDs {
		profileID, err := s.profiles.WorkerProfileID(ctx, personID)
		if err != nil {
			result.Failures = append(result.Failures, models.DispatchOutcome{
				Status:      types.DispatchFailed,
				ErrorDetail: fmt.Sprintf("profile lookup for person %s: %s", personID, err),
			})
			continue
		}
		if profileID == nil {
			s.log.Warn(ctx, "worker must complete profile setup before receiving requests",
				"person_id", personID.String())
			result.Failures = append(result.Failures, models.DispatchOutcome{
				Status:      types.DispatchFailed,
				ErrorDetail: fmt.Sprintf("person %s has no worker profile", personID),
			})
			continue
		}

		requests = append(requests, models.DispatchRequest{
			ServiceID:         in.ServiceID,
			WorkerProfileID:   *profileID,
			RequesterLocation: in.Location,
			Message:           in.Message,
			PreferredDate:     in.PreferredDate,
			BudgetMin:         in.BudgetMin,
			BudgetMax:         in.BudgetMax,
		})
	}

	outcomes := s.run(ctx, batchID, requests)

	result.Attempted = len(requests)
	for _, o := range outcomes {
		if o.Status == types.DispatchSent {
			result.Succeeded++
		} else {
			result.Failures = append(result.Failures, o)
		}
	}

	metrics.DispatchBatchDuration.WithLabelValues(serviceComponent).Observe(time.Since(started).Seconds())

	s.log.Info(ctx, "dispatch batch finished",
		"attempted", result.Attempted,
		"succeeded", result.Succeeded,
		"failed", len(result.Failures),
	)

	if result.AllFailed() {
		return result, wrap.Error(ctx, fmt.Errorf("%s: %w", op, types.ErrAllDispatchesFailed))
	}

	return result, nil
}

// run pushes the requests through a bounded pool and collects one outcome per
// request, in completion order.
func (s *Service) run(ctx context.Context, batchID uuid.UUID, requests []models.DispatchRequest) []models.DispatchOutcome {
	if len(requests) == 0 {
		return nil
	}

	jobs := make(chan models.DispatchRequest)
	results := make(chan models.DispatchOutcome, len(requests))

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for req := range jobs {
				results <- s.send(ctx, batchID, req)
			}
		}()
	}

	for _, req := range requests {
		jobs <- req
	}
	close(jobs)

	wg.Wait()
	close(results)

	outcomes := make([]models.DispatchOutcome, 0, len(requests))
	for o := range results {
		outcomes = append(outcomes, o)
	}
	return outcomes
}

// send performs one isolated dispatch attempt. A panic inside the booking
// client is contained here so sibling attempts keep running.
func (s *Service) send(ctx context.Context, batchID uuid.UUID, req models.DispatchRequest) (outcome models.DispatchOutcome) {
	outcome = models.DispatchOutcome{
		WorkerProfileID: req.WorkerProfileID,
		Status:          types.DispatchSent,
	}

	defer func() {
		if r := recover(); r != nil {
			s.log.Error(ctx, "dispatch attempt panicked", fmt.Errorf("panic: %v", r),
				"worker_profile_id", req.WorkerProfileID.String())
			outcome.Status = types.DispatchFailed
			outcome.ErrorDetail = fmt.Sprintf("panic: %v", r)
		}

		metrics.RecordDispatchOutcome(serviceComponent, outcome.Status.String())
		s.publishOutcome(ctx, batchID, req, outcome)
	}()

	if err := s.booking.CreateRequest(ctx, req); err != nil {
		s.log.Error(ctx, "dispatch attempt failed", err,
			"worker_profile_id", req.WorkerProfileID.String())
		outcome.Status = types.DispatchFailed
		outcome.ErrorDetail = err.Error()
		return outcome
	}

	s.log.Debug(ctx, "dispatch sent", "worker_profile_id", req.WorkerProfileID.String())
	return outcome
}

func (s *Service) publishOutcome(ctx context.Context, batchID uuid.UUID, req models.DispatchRequest, outcome models.DispatchOutcome) {
	event := models.DispatchOutcomeEvent{
		BatchID:         batchID,
		ServiceID:       req.ServiceID,
		WorkerProfileID: outcome.WorkerProfileID,
		Status:          outcome.Status,
		ErrorDetail:     outcome.ErrorDetail,
		Timestamp:       time.Now().UTC(),
		CorrelationID:   wrap.GetRequestID(ctx),
	}

	if err := s.publisher.PublishOutcome(ctx, event); err != nil {
		s.log.Warn(ctx, "failed to publish dispatch outcome event", "reason", err.Error())
	}
}
