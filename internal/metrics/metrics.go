package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SocketEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "social",
		Subsystem: "socket",
		Name:      "events_received_total",
		Help:      "Inbound socket events by name and outcome.",
	}, []string{"event", "outcome"})

	SocketDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "social",
		Subsystem: "socket",
		Name:      "deliveries_total",
		Help:      "Outbound socket events queued to peers, by event name.",
	}, []string{"event"})

	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "social",
		Subsystem: "socket",
		Name:      "connected_clients",
		Help:      "Currently connected websocket clients.",
	})

	DroppedClients = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "social",
		Subsystem: "socket",
		Name:      "dropped_clients_total",
		Help:      "Clients disconnected because their send buffer was full.",
	})

	OnlineUsers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "social",
		Subsystem: "presence",
		Name:      "online_users",
		Help:      "Users registered in the presence registry.",
	})

	ChatSaveErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "social",
		Subsystem: "chat",
		Name:      "save_errors_total",
		Help:      "send_message payloads that could not be stored.",
	})
)

const (
	OutcomeHandled   = "handled"
	OutcomeFailed    = "failed"
	OutcomeThrottled = "throttled"
	OutcomeUnknown   = "unknown"
	OutcomeMalformed = "malformed"
)
