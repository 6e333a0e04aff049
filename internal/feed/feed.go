package feed

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Arten331/observability/logger"
	"github.com/eduplatform/notifier/internal/events"
	"github.com/eduplatform/notifier/internal/events/delivery"
	"go.uber.org/zap"
)

const clientBuffer = 16

// Hub pushes delivered notifications to the websocket clients of each
// recipient. It subscribes to the in-process delivery events, so it sees
// exactly what was persisted.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64][]*client
	nextID  uint64
}

type client struct {
	id     uint64
	userID int64
	ch     chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients: map[int64][]*client{},
	}
}

// Notify implements events.EventHandler. Slow clients are skipped, the feed
// is a live stream, not a replay channel.
func (h *Hub) Notify(_ context.Context, event events.Event) {
	rec, ok := event.(*delivery.Recorded)
	if !ok {
		logger.L().Error("feed hub received unexpected event", zap.String("event", event.Name()))

		return
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		logger.L().Error("unable marshal feed message", zap.Error(err))

		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients[rec.RecipientID] {
		select {
		case c.ch <- payload:
		default:
			logger.L().Debug("feed client buffer full, message dropped", zap.Int64("user_id", c.userID))
		}
	}
}

// subscribe registers a client stream for a user and returns its channel
// plus the detach func.
func (h *Hub) subscribe(userID int64) (<-chan []byte, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++

	c := &client{
		id:     h.nextID,
		userID: userID,
		ch:     make(chan []byte, clientBuffer),
	}

	h.clients[userID] = append(h.clients[userID], c)

	return c.ch, func() { h.unsubscribe(c) }
}

func (h *Hub) unsubscribe(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	remaining := h.clients[c.userID][:0]

	for _, other := range h.clients[c.userID] {
		if other.id != c.id {
			remaining = append(remaining, other)
		}
	}

	if len(remaining) == 0 {
		delete(h.clients, c.userID)

		return
	}

	h.clients[c.userID] = remaining
}
