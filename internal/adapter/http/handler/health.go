package handler

import (
	"net/http"
)

type Health struct {
	serviceName string
}

func NewHealth(serviceName string) *Health {
	return &Health{
		serviceName: serviceName,
	}
}

func (h *Health) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := envelope{
		"status":  "ok",
		"service": h.serviceName,
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		internalErrorResponse(w, err.Error())
	}
}
