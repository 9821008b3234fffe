// Package realtime relays chat, presence and call signaling events between
// websocket connections of a single process.
package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/samber/lo"
	"social_network/internal/metrics"
	"social_network/pkg/logger"
)

// Hub owns the set of connected clients. Deliveries never block: a client
// whose send buffer is full is dropped.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	log     logger.Logger
}

func NewHub(log logger.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients: make(map[string]*Client),
		ctx:     ctx,
		cancel:  cancel,
		log:     log,
	}
}

func (h *Hub) add(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.ctx.Err() != nil {
		return false
	}
	h.clients[c.id] = c
	metrics.ConnectedClients.Set(float64(len(h.clients)))
	h.log.Info("Client connected", "conn_id", c.id, "addr", c.addr, "total", len(h.clients))
	return true
}

// remove unregisters c and closes its send channel exactly once.
func (h *Hub) remove(c *Client) bool {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; !ok {
		h.mu.Unlock()
		return false
	}
	delete(h.clients, c.id)
	c.closed = true
	total := len(h.clients)
	h.mu.Unlock()

	close(c.send)
	metrics.ConnectedClients.Set(float64(total))
	h.log.Info("Client disconnected", "conn_id", c.id, "addr", c.addr, "total", total)
	return true
}

// Alive reports whether a connection id is currently registered.
func (h *Hub) Alive(connID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[connID]
	return ok
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues payload to every client except skip, which may be nil.
// It returns the number of clients the payload was queued to.
func (h *Hub) Broadcast(payload []byte, skip *Client) int {
	h.mu.RLock()
	targets := lo.Filter(lo.Values(h.clients), func(c *Client, _ int) bool {
		return c != skip
	})
	var failed []*Client
	delivered := 0
	for _, c := range targets {
		if h.enqueueLocked(c, payload) {
			delivered++
		} else {
			failed = append(failed, c)
		}
	}
	h.mu.RUnlock()

	h.dropSlow(failed)
	return delivered
}

// SendTo queues payload for a single client.
func (h *Hub) SendTo(c *Client, payload []byte) bool {
	h.mu.RLock()
	ok := h.enqueueLocked(c, payload)
	h.mu.RUnlock()

	if !ok {
		h.dropSlow([]*Client{c})
	}
	return ok
}

// enqueueLocked requires h.mu held; remove closes send under the write lock.
func (h *Hub) enqueueLocked(c *Client, payload []byte) bool {
	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (h *Hub) dropSlow(clients []*Client) {
	for _, c := range clients {
		if h.remove(c) {
			metrics.DroppedClients.Inc()
			h.log.Warn("Client dropped due to full send buffer", "conn_id", c.id, "addr", c.addr)
			c.closeConn()
		}
	}
}

// Shutdown closes every connection and waits for client goroutines to exit.
func (h *Hub) Shutdown(timeout time.Duration) error {
	h.log.Info("Shutting down realtime hub")

	h.mu.Lock()
	h.cancel()
	clients := lo.Values(h.clients)
	h.mu.Unlock()

	for _, c := range clients {
		c.closeConn()
	}

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		h.log.Info("Realtime hub stopped", "closed", len(clients))
		return nil
	case <-time.After(timeout):
		h.log.Warn("Realtime hub shutdown timed out", "remaining", h.Count())
		return context.DeadlineExceeded
	}
}
