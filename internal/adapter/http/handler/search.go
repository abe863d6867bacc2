package handler

import (
	"context"
	"net/http"

	"github.com/taskport/worker-match-system/internal/adapter/http/handler/dto"
	"github.com/taskport/worker-match-system/internal/domain/models"
	"github.com/taskport/worker-match-system/internal/service/discovery"
	"github.com/taskport/worker-match-system/pkg/logger"
	wrap "github.com/taskport/worker-match-system/pkg/logger/wrapper"
	"github.com/taskport/worker-match-system/pkg/validator"
)

type Search struct {
	service DiscoveryService
	l       logger.Logger
}

type DiscoveryService interface {
	Resolve(ctx context.Context, in discovery.ResolveInput) (models.ResolvedLocation, error)
	ResolveBest(ctx context.Context, in discovery.ResolveInput) (models.ResolvedLocation, error)
	Search(ctx context.Context, center models.ResolvedLocation, radiusMiles float64) (models.SearchResult, error)
}

func NewSearch(service DiscoveryService, l logger.Logger) *Search {
	return &Search{
		service: service,
		l:       l,
	}
}

// SearchWorkers resolves the requester's location and ranks nearby workers.
func (h *Search) SearchWorkers(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "search_workers")

	var req dto.SearchWorkersRequest
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

	location, err := h.resolve(ctx, req.ResolveLocationRequest)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to resolve search location", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	result, err := h.service.Search(ctx, location, req.RadiusMiles)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to search workers", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{
		"location":    location,
		"workers":     result.Ranked,
		"tier_counts": result.TierCounts,
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
		internalErrorResponse(w, err.Error())
		return
	}

	h.l.Info(ctx, "worker search completed", "found", len(result.Ranked))
}

func (h *Search) resolve(ctx context.Context, req dto.ResolveLocationRequest) (models.ResolvedLocation, error) {
	in := req.ToInput()
	if req.Strategy == "" {
		return h.service.ResolveBest(ctx, in)
	}
	return h.service.Resolve(ctx, in)
}
