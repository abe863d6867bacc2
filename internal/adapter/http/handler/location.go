package handler

import (
	"net/http"

	"github.com/taskport/worker-match-system/internal/adapter/http/handler/dto"
	"github.com/taskport/worker-match-system/pkg/logger"
	wrap "github.com/taskport/worker-match-system/pkg/logger/wrapper"
	"github.com/taskport/worker-match-system/pkg/validator"
)

type Location struct {
	service DiscoveryService
	l       logger.Logger
}

func NewLocation(service DiscoveryService, l logger.Logger) *Location {
	return &Location{
		service: service,
		l:       l,
	}
}

// Resolve runs one location resolution without searching, so clients can show
// the requester where the search would center before they commit.
func (h *Location) Resolve(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "resolve_location")

	var req dto.ResolveLocationRequest
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

	in := req.ToInput()

	resolve := h.service.Resolve
	if req.Strategy == "" {
		resolve = h.service.ResolveBest
	}

	location, err := resolve(ctx, in)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to resolve location", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{
		"location": location,
		"degraded": location.Degraded(),
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
		internalErrorResponse(w, err.Error())
		return
	}

	h.l.Info(ctx, "location resolved", "source", location.Source.String())
}
