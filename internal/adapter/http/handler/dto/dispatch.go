package dto

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskport/worker-match-system/internal/domain/models"
	"github.com/taskport/worker-match-system/internal/domain/types"
	"github.com/taskport/worker-match-system/internal/service/dispatch"
)

// LocationDTO is an already-resolved location echoed back by the client.
type LocationDTO struct {
	Latitude   float64 `json:"latitude" validate:"lat"`
	Longitude  float64 `json:"longitude" validate:"lng"`
	Label      string  `json:"label" validate:"max=512"`
	PostalCode string  `json:"postal_code" validate:"max=16"`
	Source     string  `json:"source" validate:"omitempty,oneof=EXPLICIT_ADDRESS DEVICE_GEOLOCATION STORED_PROFILE POSTAL_CODE_ONLY"`
}

func (l LocationDTO) ToModel() models.ResolvedLocation {
	return models.ResolvedLocation{
		Latitude:   l.Latitude,
		Longitude:  l.Longitude,
		Label:      l.Label,
		PostalCode: l.PostalCode,
		Source:     types.LocationSource(l.Source),
	}
}

// DispatchBatchRequest fans one service request out to the selected workers.
type DispatchBatchRequest struct {
	ServiceID     uuid.UUID   `json:"service_id" validate:"required"`
	PersonIDs     []string    `json:"person_ids" validate:"required,min=1,dive,uuid"`
	Location      LocationDTO `json:"location"`
	Message       string      `json:"message" validate:"max=2000"`
	PreferredDate *time.Time  `json:"preferred_date"`
	BudgetMin     float64     `json:"budget_min" validate:"min=0"`
	BudgetMax     float64     `json:"budget_max" validate:"omitempty,gtefield=BudgetMin"`
}

// ToInput converts the request to the service input.
func (r DispatchBatchRequest) ToInput() (dispatch.BatchInput, error) {
	personIDs := make([]uuid.UUID, 0, len(r.PersonIDs))
	for _, raw := range r.PersonIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return dispatch.BatchInput{}, fmt.Errorf("invalid person id %q", raw)
		}
		personIDs = append(personIDs, id)
	}

	return dispatch.BatchInput{
		ServiceID:     r.ServiceID,
		PersonIDs:     personIDs,
		Location:      r.Location.ToModel(),
		Message:       r.Message,
		PreferredDate: r.PreferredDate,
		BudgetMin:     r.BudgetMin,
		BudgetMax:     r.BudgetMax,
	}, nil
}
