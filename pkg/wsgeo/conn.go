package wsgeo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Conn wraps one device websocket session. Replies carrying a request_id are
// routed to the matching subscriber; everything else goes to the Listen
// handler.
type Conn struct {
	conn     *websocket.Conn
	entityID uuid.UUID
	doneCtx  context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex

	subMu sync.Mutex
	subs  map[string]chan map[string]any
}

func NewConn(ctx context.Context, entityID uuid.UUID, conn *websocket.Conn) *Conn {
	ctx, cancel := context.WithCancel(ctx)

	return &Conn{
		conn:     conn,
		entityID: entityID,
		doneCtx:  ctx,
		cancel:   cancel,
		subs:     make(map[string]chan map[string]any),
	}
}

func (c *Conn) EntityID() uuid.UUID {
	return c.entityID
}

func (c *Conn) Health() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return errors.New("connection is nil")
	}

	select {
	case <-c.doneCtx.Done():
		return errors.New("connection context cancelled")
	default:
	}

	if err := c.conn.WriteControl(
		websocket.PingMessage,
		[]byte("ping"),
		time.Now().Add(3*time.Second),
	); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	return nil
}

func (c *Conn) Send(msg map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return errors.New("connection is nil")
	}
	return c.conn.WriteJSON(msg)
}

// Subscribe registers a channel for replies carrying the given request key.
func (c *Conn) Subscribe(key string, ch chan map[string]any) {
	c.subMu.Lock()
	c.subs[key] = ch
	c.subMu.Unlock()
}

func (c *Conn) Unsubscribe(key string) {
	c.subMu.Lock()
	delete(c.subs, key)
	c.subMu.Unlock()
}

// dispatch routes an incoming message to its subscriber, if one exists.
func (c *Conn) dispatch(msg map[string]any) bool {
	key, ok := msg["request_id"].(string)
	if !ok || key == "" {
		return false
	}

	c.subMu.Lock()
	ch, ok := c.subs[key]
	c.subMu.Unlock()
	if !ok {
		return false
	}

	select {
	case ch <- msg:
	default:
	}
	return true
}

// Listen reads messages until the connection dies. Messages answering a
// pending request are routed to the subscriber; the rest go to handler.
func (c *Conn) Listen(handler func(msg map[string]any) error) error {
	for {
		select {
		case <-c.doneCtx.Done():
			return errors.New("listen stopped: context done")
		default:
			var msg map[string]any
			if err := c.conn.ReadJSON(&msg); err != nil {
				return fmt.Errorf("read failed: %w", err)
			}
			if c.dispatch(msg) {
				continue
			}
			if handler == nil {
				continue
			}
			if err := handler(msg); err != nil {
				return fmt.Errorf("handler failed: %w", err)
			}
		}
	}
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
