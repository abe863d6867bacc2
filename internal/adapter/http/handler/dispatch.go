package handler

import (
	"context"
	"net/http"

	"github.com/taskport/worker-match-system/internal/adapter/http/handler/dto"
	"github.com/taskport/worker-match-system/internal/domain/models"
	"github.com/taskport/worker-match-system/internal/service/dispatch"
	"github.com/taskport/worker-match-system/pkg/logger"
	wrap "github.com/taskport/worker-match-system/pkg/logger/wrapper"
	"github.com/taskport/worker-match-system/pkg/validator"
)

type Dispatch struct {
	service DispatchService
	l       logger.Logger
}

type DispatchService interface {
	Dispatch(ctx context.Context, in dispatch.BatchInput) (models.DispatchBatchResult, error)
}

func NewDispatch(service DispatchService, l logger.Logger) *Dispatch {
	return &Dispatch{
		service: service,
		l:       l,
	}
}

// DispatchBatch sends one personalized request to each selected worker. A
// partial failure still returns 200 with the failures listed; only a batch
// where nothing went out is an error.
func (h *Dispatch) DispatchBatch(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "dispatch_batch")

	var req dto.DispatchBatchRequest
	if err := readJSON(w, r, &req); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to read request JSON data", err)
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := validator.ValidateStruct(req); err != nil {
		h.l.Warn(ctx, "invalid request data")
		failedValidationResponse(w, validator.Errors(err))
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.l.Warn(ctx, "invalid request data", "reason", err.Error())
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Dispatch(ctx, in)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to dispatch batch", err)

		// A fully failed batch still carries per-recipient details.
		env := envelope{"error": err.Error()}
		if result.Attempted > 0 {
			env["result"] = result
		}
		if writeErr := writeJSON(w, GetCode(err), env, nil); writeErr != nil {
			internalErrorResponse(w, writeErr.Error())
		}
		return
	}

	response := envelope{
		"attempted": result.Attempted,
		"succeeded": result.Succeeded,
		"failures":  result.Failures,
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
		internalErrorResponse(w, err.Error())
		return
	}

	h.l.Info(ctx, "dispatch batch completed",
		"attempted", result.Attempted,
		"succeeded", result.Succeeded,
	)
}
