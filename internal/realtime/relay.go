package realtime

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"social_network/internal/domain"
	"social_network/internal/metrics"
	"social_network/internal/service"
	apperrors "social_network/pkg/errors"
	"social_network/pkg/logger"
)

type handlerFunc func(ctx context.Context, c *Client, data []byte) error

// Relay routes inbound events to presence, chat storage and the hub.
type Relay struct {
	hub           *Hub
	chat          service.ChatService
	presence      service.PresenceService
	notifyFailure bool
	handlers      map[string]handlerFunc
	log           logger.Logger
}

type RelayOptions struct {
	// NotifySendFailure sends a send_failed event back to the sender when a
	// message could not be stored. Otherwise the failure is only logged.
	NotifySendFailure bool
}

func NewRelay(hub *Hub, chat service.ChatService, presence service.PresenceService, opts RelayOptions, log logger.Logger) *Relay {
	r := &Relay{
		hub:           hub,
		chat:          chat,
		presence:      presence,
		notifyFailure: opts.NotifySendFailure,
		log:           log,
	}

	r.handlers = map[string]handlerFunc{
		domain.EventRegister:    r.handleRegister,
		domain.EventSendMessage: r.handleSendMessage,
		domain.EventSendReplay:  r.handleSendReplay,
	}
	for _, event := range domain.SignalingEvents {
		r.handlers[event] = r.relaySignal(event)
	}

	return r
}

func (r *Relay) Dispatch(ctx context.Context, c *Client, env Envelope) {
	handle, ok := r.handlers[env.Event]
	if !ok {
		metrics.SocketEvents.WithLabelValues("", metrics.OutcomeUnknown).Inc()
		r.log.Debug("Ignoring unknown socket event", "event", env.Event, "conn_id", c.id)
		return
	}

	if err := handle(ctx, c, env.Data); err != nil {
		metrics.SocketEvents.WithLabelValues(env.Event, metrics.OutcomeFailed).Inc()
		return
	}
	metrics.SocketEvents.WithLabelValues(env.Event, metrics.OutcomeHandled).Inc()
}

// Disconnect clears the presence entry of c and tells every other client to reload.
func (r *Relay) Disconnect(ctx context.Context, c *Client) {
	if userID, ok := r.presence.Remove(c.id); ok {
		r.log.Info("User went offline", "user_id", userID, "conn_id", c.id)
	}
	metrics.OnlineUsers.Set(float64(r.presence.Count()))

	r.broadcast(domain.EventLoadData, nil, c)
}

func (r *Relay) handleRegister(_ context.Context, c *Client, data []byte) error {
	var userID flexString
	if err := json.Unmarshal(data, &userID); err != nil || userID == "" {
		r.log.Warn("Invalid register payload", "conn_id", c.id, "error", err)
		return apperrors.ErrInvalidPayload
	}

	r.presence.Register(string(userID), c.id)
	metrics.OnlineUsers.Set(float64(r.presence.Count()))
	r.log.Info("User registered", "user_id", string(userID), "conn_id", c.id)
	return nil
}

func (r *Relay) handleSendMessage(ctx context.Context, c *Client, data []byte) error {
	var p sendMessagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		r.log.Warn("Invalid send_message payload", "conn_id", c.id, "error", err)
		r.notifySender(c, domain.EventSendMessage, apperrors.ErrInvalidPayload)
		return apperrors.ErrInvalidPayload
	}

	in := domain.SendMessageInput{
		SenderID:    string(p.Sender),
		RecipientID: string(p.Riciver),
		RawText:     p.Message,
		MediaURL:    p.MediaURL,
		Timestamp:   string(p.Realtime),
	}
	if p.Call != nil {
		in.Call = &domain.CallInput{Type: string(p.Call.Type), Duration: string(p.Call.Duration)}
	}

	saved, err := r.chat.SendMessage(ctx, in)
	if err != nil {
		r.notifySender(c, domain.EventSendMessage, err)
		return err
	}

	r.broadcast(domain.EventReceiveMessage, saved, nil)
	return nil
}

func (r *Relay) handleSendReplay(ctx context.Context, c *Client, data []byte) error {
	var p sendReplayPayload
	if err := json.Unmarshal(data, &p); err != nil {
		r.log.Warn("Invalid send_replay payload", "conn_id", c.id, "error", err)
		r.notifySender(c, domain.EventSendReplay, apperrors.ErrInvalidPayload)
		return apperrors.ErrInvalidPayload
	}

	chatID, err := uuid.Parse(string(p.ChatID))
	if err != nil {
		err = fmt.Errorf("%w: invalid chatId", apperrors.ErrInvalidPayload)
		r.log.Warn("Invalid send_replay chat id", "conn_id", c.id, "chat_id", string(p.ChatID))
		r.notifySender(c, domain.EventSendReplay, err)
		return err
	}

	if _, err := r.chat.AttachReply(ctx, chatID, p.Replay, p.Image); err != nil {
		r.notifySender(c, domain.EventSendReplay, err)
		return err
	}

	r.broadcast(domain.EventReplay, nil, nil)
	return nil
}

func (r *Relay) relaySignal(event string) handlerFunc {
	return func(_ context.Context, c *Client, data []byte) error {
		r.broadcast(event, rawOrNull(data), c)
		return nil
	}
}

func (r *Relay) broadcast(event string, data interface{}, skip *Client) {
	payload, err := encodeEvent(event, data)
	if err != nil {
		r.log.Error("Failed to encode socket event", "error", err, "event", event)
		return
	}
	delivered := r.hub.Broadcast(payload, skip)
	metrics.SocketDeliveries.WithLabelValues(event).Add(float64(delivered))
}

func (r *Relay) notifySender(c *Client, event string, cause error) {
	if !r.notifyFailure {
		return
	}
	payload, err := encodeEvent(domain.EventSendFailed, domain.SendFailure{
		Event: event,
		Error: apperrors.PublicMessage(cause),
	})
	if err != nil {
		r.log.Error("Failed to encode failure notice", "error", err)
		return
	}
	r.hub.SendTo(c, payload)
}

func rawOrNull(data []byte) jsoniter.RawMessage {
	if len(data) == 0 {
		return nullData
	}
	return jsoniter.RawMessage(data)
}
