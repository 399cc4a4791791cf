package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SamplesReceived counts telemetry samples by delivery path.
	SamplesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solarsync_samples_received_total",
			Help: "Total telemetry samples received, by source (ws or poll)",
		},
		[]string{"source"},
	)

	// Reconnects counts scheduled websocket reconnect attempts.
	Reconnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "solarsync_ws_reconnects_total",
			Help: "Total websocket reconnect attempts scheduled",
		},
	)

	// MessagesDropped counts inbound messages dropped as malformed.
	MessagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "solarsync_ws_messages_dropped_total",
			Help: "Total inbound websocket messages dropped as unparseable",
		},
	)

	// PollErrors counts failed HTTP polls of the fallback endpoint.
	PollErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "solarsync_poll_errors_total",
			Help: "Total failed HTTP polls of the current-telemetry endpoint",
		},
	)

	connectionState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "solarsync_ws_connection_state",
			Help: "Websocket connection state (0=disconnected 1=connecting 2=connected 3=reconnecting 4=failed)",
		},
	)

	// LastSampleUnix records the arrival time of the most recent sample.
	LastSampleUnix = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "solarsync_last_sample_timestamp_seconds",
			Help: "Unix time at which the last telemetry sample was received",
		},
	)
)

// SetConnectionState publishes the numeric connection state.
func SetConnectionState(state int) {
	connectionState.Set(float64(state))
}
