package wshandler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskport/worker-match-system/internal/domain/models"
	"github.com/taskport/worker-match-system/internal/domain/types"
	"github.com/taskport/worker-match-system/pkg/wsgeo"
)

// Device reply statuses sent by the requester's browser or app.
const (
	replyOK                  = "ok"
	replyPermissionDenied    = "permission_denied"
	replyPositionUnavailable = "position_unavailable"
	replyTimeout             = "timeout"
)

// DeviceGateway asks a requester's connected device for its current position
// over the device's websocket session.
type DeviceGateway struct {
	connections *wsgeo.ConnectionHub
}

func NewDeviceGateway(connHub *wsgeo.ConnectionHub) *DeviceGateway {
	return &DeviceGateway{
		connections: connHub,
	}
}

type positionReply struct {
	Status    string  `json:"status"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CurrentPosition sends a position request to the device and waits for its
// reply. Device-side failures come back as the typed geolocation errors so
// callers can message the user precisely.
func (g *DeviceGateway) CurrentPosition(ctx context.Context, requesterID uuid.UUID, timeout time.Duration, highAccuracy bool) (models.Point, error) {
	const op = "DeviceGateway.CurrentPosition"

	conn, err := g.connections.GetConn(requesterID)
	if err != nil {
		return models.Point{}, fmt.Errorf("%s: device not connected: %w", op, types.ErrPositionUnavailable)
	}

	requestID := uuid.New().String()

	ch := make(chan map[string]any, 1)
	conn.Subscribe(requestID, ch)
	defer conn.Unsubscribe(requestID)

	msg := map[string]any{
		"type":          "position_request",
		"request_id":    requestID,
		"high_accuracy": highAccuracy,
		"timeout_ms":    timeout.Milliseconds(),
	}
	if err := conn.Send(msg); err != nil {
		return models.Point{}, fmt.Errorf("%s: %w", op, types.ErrPositionUnavailable)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return models.Point{}, fmt.Errorf("%s: %w", op, ctx.Err())
	case <-timer.C:
		return models.Point{}, fmt.Errorf("%s: %w", op, types.ErrGeolocationTimeout)
	case data := <-ch:
		return decodePositionReply(op, data)
	}
}

func decodePositionReply(op string, data map[string]any) (models.Point, error) {
	var reply positionReply
	reply.Status, _ = data["status"].(string)
	reply.Latitude, _ = data["latitude"].(float64)
	reply.Longitude, _ = data["longitude"].(float64)

	switch reply.Status {
	case replyOK:
		p := models.Point{Latitude: reply.Latitude, Longitude: reply.Longitude}
		if !p.Valid() {
			return models.Point{}, fmt.Errorf("%s: device sent invalid coordinates: %w", op, types.ErrPositionUnavailable)
		}
		return p, nil
	case replyPermissionDenied:
		return models.Point{}, fmt.Errorf("%s: %w", op, types.ErrPermissionDenied)
	case replyTimeout:
		return models.Point{}, fmt.Errorf("%s: %w", op, types.ErrGeolocationTimeout)
	case replyPositionUnavailable:
		return models.Point{}, fmt.Errorf("%s: %w", op, types.ErrPositionUnavailable)
	default:
		return models.Point{}, fmt.Errorf("%s: unknown device reply %q: %w", op, reply.Status, types.ErrPositionUnavailable)
	}
}
