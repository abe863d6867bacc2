package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/taskport/worker-match-system/internal/domain/types"
)

// Budget is the requester's price range for the service request.
type Budget struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DispatchRequest is one personalized service request for one worker.
// Immutable once constructed; sent independently of its siblings.
type DispatchRequest struct {
	ServiceID         uuid.UUID        `json:"service_id"`
	WorkerProfileID   uuid.UUID        `json:"worker_profile_id"`
	RequesterLocation ResolvedLocation `json:"requester_location"`
	Message           string           `json:"message"`
	PreferredDate     *time.Time       `json:"preferred_date,omitempty"`
	BudgetMin         float64          `json:"budget_min"`
	BudgetMax         float64          `json:"budget_max"`
}

// DispatchOutcome records the result of one dispatch attempt.
type DispatchOutcome struct {
	WorkerProfileID uuid.UUID            `json:"worker_profile_id"`
	Status          types.DispatchStatus `json:"status"`
	ErrorDetail     string               `json:"error_detail,omitempty"`
}

// DispatchBatchResult aggregates the outcomes of one dispatch batch.
type DispatchBatchResult struct {
	Attempted int               `json:"attempted"`
	Succeeded int               `json:"succeeded"`
	Failures  []DispatchOutcome `json:"failures"`
}

// AllFailed reports whether every attempted dispatch failed.
func (r DispatchBatchResult) AllFailed() bool {
	return r.Attempted > 0 && r.Succeeded == 0
}

// DispatchOutcomeEvent is published to the messaging subsystem after each
// dispatch attempt so downstream notification consumers can react.
type DispatchOutcomeEvent struct {
	BatchID         uuid.UUID            `json:"batch_id"`
	ServiceID       uuid.UUID            `json:"service_id"`
	WorkerProfileID uuid.UUID            `json:"worker_profile_id"`
	Status          types.DispatchStatus `json:"status"`
	ErrorDetail     string               `json:"error_detail,omitempty"`
	Timestamp       time.Time            `json:"timestamp"`
	CorrelationID   string               `json:"correlation_id,omitempty"`
}
