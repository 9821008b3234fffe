package realtime

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
	"social_network/internal/metrics"
	"social_network/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// Dispatcher handles decoded events for a client. Dispatch runs on the
// client's read goroutine, so events of one connection are handled in order.
type Dispatcher interface {
	Dispatch(ctx context.Context, c *Client, env Envelope)
	Disconnect(ctx context.Context, c *Client)
}

type ClientOptions struct {
	MaxMessageSize int64
	SendBuffer     int
	RateBurst      int
	RatePerSecond  float64
}

// Client is one websocket connection. closed is guarded by the hub lock.
type Client struct {
	id       string
	addr     string
	conn     *websocket.Conn
	send     chan []byte
	hub      *Hub
	limiter  *rate.Limiter
	closed   bool
	connOnce sync.Once
	log      logger.Logger
}

func (c *Client) ID() string {
	return c.id
}

func (c *Client) Addr() string {
	return c.addr
}

// Serve registers a new client for conn and starts its pumps. It returns
// nil when the hub is already shutting down.
func (h *Hub) Serve(conn *websocket.Conn, addr string, d Dispatcher, opts ClientOptions) *Client {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 256
	}
	id := uuid.NewString()
	c := &Client{
		id:   id,
		addr: addr,
		conn: conn,
		send: make(chan []byte, opts.SendBuffer),
		hub:  h,
		log:  h.log.With("conn_id", id),
	}
	if opts.RatePerSecond > 0 && opts.RateBurst > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), opts.RateBurst)
	}
	if opts.MaxMessageSize > 0 {
		conn.SetReadLimit(opts.MaxMessageSize)
	}

	if !h.add(c) {
		c.closeConn()
		return nil
	}

	h.wg.Add(2)
	go func() {
		defer h.wg.Done()
		c.writePump()
	}()
	go func() {
		defer h.wg.Done()
		c.readPump(h.ctx, d)
	}()
	return c
}

func (c *Client) readPump(ctx context.Context, d Dispatcher) {
	defer func() {
		d.Disconnect(ctx, c)
		c.hub.remove(c)
		c.closeConn()
	}()

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.Warn("Failed to set read deadline", "error", err)
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			c.logReadError(err)
			return
		}

		if c.limiter != nil && !c.limiter.Allow() {
			metrics.SocketEvents.WithLabelValues("", metrics.OutcomeThrottled).Inc()
			c.log.Warn("Socket rate limit exceeded, discarding event")
			continue
		}

		env, err := decodeEnvelope(raw)
		if err != nil {
			metrics.SocketEvents.WithLabelValues("", metrics.OutcomeMalformed).Inc()
			c.log.Debug("Discarding malformed frame", "error", err)
			continue
		}

		d.Dispatch(ctx, c, env)
	}
}

func (c *Client) logReadError(err error) {
	switch {
	case errors.Is(err, websocket.ErrReadLimit):
		c.log.Warn("Frame exceeded maximum size")
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived):
		c.log.Debug("Client closed connection", "error", err)
	case errors.Is(err, io.EOF), isExpectedCloseError(err):
		c.log.Debug("Connection closed", "error", err)
	default:
		c.log.Warn("Socket read error", "error", err)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.closeConn()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				if !isExpectedCloseError(err) {
					c.log.Warn("Socket write error", "error", err)
				}
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) closeConn() {
	c.connOnce.Do(func() {
		if err := c.conn.Close(); err != nil && !isExpectedCloseError(err) {
			c.log.Warn("Failed to close connection", "error", err)
		}
	})
}

func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, websocket.ErrCloseSent) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "use of closed network connection") ||
		strings.Contains(msg, "broken pipe")
}
