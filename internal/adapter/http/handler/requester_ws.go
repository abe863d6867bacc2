package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/taskport/worker-match-system/internal/domain/models"
	"github.com/taskport/worker-match-system/pkg/logger"
	wrap "github.com/taskport/worker-match-system/pkg/logger/wrapper"
	"github.com/taskport/worker-match-system/pkg/wsgeo"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Cross-origin browsers are allowed; the session is still bound to
		// the authenticated requester below.
		return true
	},
}

type RequesterWS struct {
	connections *wsgeo.ConnectionHub
	l           logger.Logger
}

func NewRequesterWS(connHub *wsgeo.ConnectionHub, l logger.Logger) *RequesterWS {
	return &RequesterWS{
		connections: connHub,
		l:           l,
	}
}

// HandleWebSocket upgrades the requester's device session. The session
// answers position requests sent by the location resolver.
func (h *RequesterWS) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "requester_ws_connect")

	requesterID, err := uuid.Parse(r.PathValue("requester_id"))
	if err != nil {
		h.l.Warn(ctx, "invalid requester uuid format")
		errorResponse(w, http.StatusBadRequest, "invalid requester uuid format")
		return
	}

	// The session must belong to the authenticated requester.
	requester := models.RequesterFromContext(ctx)
	if requester.IsAnonymous() || requester.ID != requesterID {
		errorResponse(w, http.StatusForbidden, "websocket session must match the authenticated requester")
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to upgrade websocket connection", err)
		return
	}

	// The session outlives this handler, so it cannot hang off the request
	// context.
	conn := wsgeo.NewConn(context.Background(), requesterID, wsConn)
	if err := h.connections.Add(conn); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to register websocket connection", err)
		_ = wsConn.Close()
		return
	}

	h.l.Info(ctx, "requester device connected", "requester_id", requesterID)

	go func() {
		defer func() {
			_ = h.connections.Delete(requesterID)
			h.l.Info(ctx, "requester device disconnected", "requester_id", requesterID)
		}()

		// Replies to pending position requests are routed inside Listen;
		// anything else from the device is ignored.
		if err := conn.Listen(nil); err != nil {
			h.l.Debug(ctx, "websocket listen ended", "reason", err.Error())
		}
	}()
}
