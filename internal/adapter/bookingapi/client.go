package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/taskport/worker-match-system/config"
	"github.com/taskport/worker-match-system/internal/domain/models"
	"github.com/taskport/worker-match-system/internal/domain/types"
	wrap "github.com/taskport/worker-match-system/pkg/logger/wrapper"
)

// Client creates service requests in the booking subsystem over HTTP.
// Creation stays synchronous so dispatch can report per-recipient failures
// with the booking service's own error detail.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(cfg config.BookingConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type errorPayload struct {
	Error string `json:"error"`
}

// CreateRequest persists one personalized service request.
func (c *Client) CreateRequest(ctx context.Context, req models.DispatchRequest) error {
	const op = "BookingClient.CreateRequest"

	body, err := json.Marshal(req)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: failed to marshal request: %w", op, err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/service-requests", bytes.NewReader(body))
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: failed to build request: %w", op, err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: failed to call booking service: %w", op, err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return wrap.Error(ctx, fmt.Errorf("%s: worker profile %s: %w", op, req.WorkerProfileID, types.ErrWorkerNotFound))
	default:
		detail := readErrorDetail(resp.Body)
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: booking service returned %d: %s", op, resp.StatusCode, detail))
	}
}

func readErrorDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return "no detail"
	}

	var payload errorPayload
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}

	return string(raw)
}
