package telemetry

import (
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"solarsync"
	"solarsync/internal/logger"
	"solarsync/internal/metrics"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
)

// Reconnect/backoff policy and transport timing defaults.
const (
	defaultPath        = "/dashboard/ws"
	defaultBaseDelay   = 1 * time.Second
	defaultMaxAttempts = 5
	writeWait          = 10 * time.Second
	handshakeTimeout   = 5 * time.Second
)

// Message type tags understood by the client.
const (
	TypeEnergyData  = "energy_data"
	TypePong        = "pong"
	TypeSystemEvent = "system_event"
	TypePing        = "ping"
)

// ConnState is the connection lifecycle state of the Client.
type ConnState int

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateFailed
)

func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Status is a snapshot of the connection state plus reconnect progress.
// Attempt and Delay are meaningful only while reconnecting.
type Status struct {
	State   ConnState
	Attempt int
	Delay   time.Duration
}

// Envelope is the tagged wire message exchanged with the backend.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Handler receives the raw payload of an inbound message for its tag.
type Handler func(data json.RawMessage)

// StateHandler observes connection state transitions.
type StateHandler func(st Status)

// Subscription identifies a registered handler so it can be removed with Off.
type Subscription uint64

type subscriber struct {
	id Subscription
	fn Handler
}

// Options configure a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL     string // backend origin, e.g. "http://solar.local:8000"
	Path        string // websocket path, default /dashboard/ws
	BaseDelay   time.Duration
	MaxAttempts int
	Clock       clockwork.Clock
	Dialer      *websocket.Dialer
}

// Client maintains one logical full-duplex connection to the backend's
// real-time endpoint. Transport failures are recovered with capped
// exponential backoff and are surfaced only via state transitions and
// logs, never as errors to callers.
type Client struct {
	mu      sync.Mutex
	wmu     sync.Mutex // serializes frame writes
	conn    *websocket.Conn
	state   ConnState
	attempt int
	delay   time.Duration
	gen     uint64 // connection generation; guards stale readers

	nextSub   Subscription
	subs      map[string][]subscriber
	stateSubs []StateHandler

	url         string
	baseDelay   time.Duration
	maxAttempts int
	clock       clockwork.Clock
	dialer      *websocket.Dialer
	log         *logger.Logger
}

// NewClient builds a Client for the backend at opts.BaseURL. The returned
// client is idle; call Connect to open the connection.
func NewClient(opts Options, log *logger.Logger) (*Client, error) {
	path := opts.Path
	if path == "" {
		path = defaultPath
	}
	wsURL, err := WSURL(opts.BaseURL, path)
	if err != nil {
		return nil, err
	}

	base := opts.BaseDelay
	if base <= 0 {
		base = defaultBaseDelay
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	dialer := opts.Dialer
	if dialer == nil {
		dialer = &websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	}

	return &Client{
		state:       StateDisconnected,
		subs:        make(map[string][]subscriber),
		url:         wsURL,
		baseDelay:   base,
		delay:       base,
		maxAttempts: maxAttempts,
		clock:       clock,
		dialer:      dialer,
		log:         log,
	}, nil
}

// WSURL derives the websocket endpoint from an HTTP origin, upgrading the
// scheme to the socket variant matching it (http→ws, https→wss).
func WSURL(base, path string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https", "wss":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = path
	u.RawQuery = ""
	return u.String(), nil
}

// Status returns the current connection status.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

func (c *Client) statusLocked() Status {
	return Status{State: c.state, Attempt: c.attempt, Delay: c.delay}
}

// Connect opens the connection. It is a no-op while already connected or a
// connect is in flight, so only one attempt is ever pursued at a time.
func (c *Client) Connect() {
	c.mu.Lock()
	if c.state == StateConnected || c.state == StateConnecting {
		c.mu.Unlock()
		return
	}
	c.state = StateConnecting
	st := c.statusLocked()
	c.mu.Unlock()

	c.notify(st)
	go c.dial()
}

func (c *Client) dial() {
	conn, resp, err := c.dialer.Dial(c.url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	c.mu.Lock()
	if c.state != StateConnecting {
		// Disconnect raced the dial; drop the connection if one was made.
		c.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		return
	}
	if err != nil {
		c.mu.Unlock()
		if c.log != nil {
			c.log.Warnw("ws_dial_failed", "url", c.url, "err", err)
		}
		c.scheduleReconnect()
		return
	}

	c.conn = conn
	c.state = StateConnected
	c.attempt = 0
	c.delay = c.baseDelay
	c.gen++
	gen := c.gen
	st := c.statusLocked()
	c.mu.Unlock()

	c.notify(st)
	if c.log != nil {
		c.log.Infow("ws_connected", "url", c.url)
	}

	go c.readLoop(conn, gen)

	// Initial liveness probe.
	c.Send(Envelope{Type: TypePing})
}

// Disconnect closes the connection with a normal-closure code so automatic
// reconnection is suppressed. Safe to call in any state.
func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.state = StateDisconnected
	c.attempt = 0
	c.delay = c.baseDelay
	st := c.statusLocked()
	c.mu.Unlock()

	c.notify(st)
	if conn == nil {
		return
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	c.wmu.Lock()
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	c.wmu.Unlock()
	_ = conn.Close()
	if c.log != nil {
		c.log.Infow("ws_disconnected")
	}
}

// Send marshals v and transmits it when connected. Otherwise the call is a
// fire-and-forget no-op that logs a warning; nothing is queued.
func (c *Client) Send(v any) {
	c.mu.Lock()
	conn := c.conn
	connected := c.state == StateConnected
	c.mu.Unlock()

	if !connected || conn == nil {
		if c.log != nil {
			c.log.Warnw("ws_send_skipped", "reason", "not connected")
		}
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		if c.log != nil {
			c.log.Warnw("ws_send_skipped", "reason", "marshal failed", "err", err)
		}
		return
	}
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil && c.log != nil {
		c.log.Warnw("ws_write_failed", "err", err)
	}
}

// On subscribes a handler for a message-type tag. Handlers for a tag are
// invoked in registration order; multiple handlers per tag are allowed.
func (c *Client) On(msgType string, fn Handler) Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextSub++
	id := c.nextSub
	c.subs[msgType] = append(c.subs[msgType], subscriber{id: id, fn: fn})
	return id
}

// Off removes a previously registered handler.
func (c *Client) Off(msgType string, id Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.subs[msgType]
	for i, s := range list {
		if s.id == id {
			c.subs[msgType] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// OnSample subscribes a typed handler for energy_data messages.
func (c *Client) OnSample(fn func(solarsync.TelemetrySample)) Subscription {
	return c.On(TypeEnergyData, func(data json.RawMessage) {
		var s solarsync.TelemetrySample
		if err := json.Unmarshal(data, &s); err != nil {
			if c.log != nil {
				c.log.Warnw("ws_bad_payload", "type", TypeEnergyData, "err", err)
			}
			metrics.MessagesDropped.Inc()
			return
		}
		fn(s)
	})
}

// OnEvent subscribes a typed handler for system_event messages.
func (c *Client) OnEvent(fn func(solarsync.SystemEvent)) Subscription {
	return c.On(TypeSystemEvent, func(data json.RawMessage) {
		var ev solarsync.SystemEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			if c.log != nil {
				c.log.Warnw("ws_bad_payload", "type", TypeSystemEvent, "err", err)
			}
			metrics.MessagesDropped.Inc()
			return
		}
		fn(ev)
	})
}

// OnStateChange subscribes an observer for connection state transitions.
func (c *Client) OnStateChange(fn StateHandler) {
	c.mu.Lock()
	c.stateSubs = append(c.stateSubs, fn)
	c.mu.Unlock()
}

func (c *Client) notify(st Status) {
	c.mu.Lock()
	observers := make([]StateHandler, len(c.stateSubs))
	copy(observers, c.stateSubs)
	c.mu.Unlock()

	metrics.SetConnectionState(int(st.State))
	for _, fn := range observers {
		fn(st)
	}
}

// readLoop consumes frames until the connection dies. gen ties the loop to
// the connection it was started for; a loop whose connection has been
// superseded exits without touching state.
func (c *Client) readLoop(conn *websocket.Conn, gen uint64) {
	for {
		_, payload, err := conn.ReadMessage()
		if err == nil {
			c.dispatch(payload)
			continue
		}

		c.mu.Lock()
		if c.gen != gen {
			c.mu.Unlock()
			return
		}
		c.conn = nil
		if websocket.IsCloseError(err, websocket.CloseNormalClosure) || c.state == StateDisconnected {
			c.state = StateDisconnected
			st := c.statusLocked()
			c.mu.Unlock()
			c.notify(st)
			if c.log != nil {
				c.log.Infow("ws_closed", "normal", true)
			}
			return
		}
		c.state = StateReconnecting
		c.mu.Unlock()
		if c.log != nil {
			c.log.Warnw("ws_closed", "normal", false, "err", err)
		}
		c.scheduleReconnect()
		return
	}
}

// scheduleReconnect arms the next retry. Delay for attempt k is
// baseDelay·2^(k−1); after maxAttempts failures the client enters Failed
// and stops retrying until an explicit Connect.
func (c *Client) scheduleReconnect() {
	c.mu.Lock()
	if c.state == StateConnected || c.state == StateDisconnected {
		c.mu.Unlock()
		return
	}
	c.attempt++
	if c.attempt > c.maxAttempts {
		c.state = StateFailed
		st := c.statusLocked()
		c.mu.Unlock()
		c.notify(st)
		if c.log != nil {
			c.log.Errorw("ws_reconnect_exhausted", "attempts", c.maxAttempts)
		}
		return
	}
	delay := c.baseDelay << (c.attempt - 1)
	c.delay = delay
	c.state = StateReconnecting
	st := c.statusLocked()
	c.mu.Unlock()

	c.notify(st)
	metrics.Reconnects.Inc()
	if c.log != nil {
		c.log.Warnw("ws_reconnect_scheduled", "attempt", st.Attempt, "delay", delay)
	}

	go func() {
		<-c.clock.After(delay)
		// Guard at fire time: a connect may have landed in the meantime.
		c.mu.Lock()
		if c.state != StateReconnecting {
			c.mu.Unlock()
			return
		}
		c.state = StateConnecting
		st := c.statusLocked()
		c.mu.Unlock()
		c.notify(st)
		c.dial()
	}()
}

// dispatch parses one text frame and fans it out. Unparseable payloads are
// logged and dropped without affecting connection state.
func (c *Client) dispatch(payload []byte) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil || env.Type == "" {
		if c.log != nil {
			c.log.Warnw("ws_malformed_message", "err", err)
		}
		metrics.MessagesDropped.Inc()
		return
	}

	switch env.Type {
	case TypeEnergyData:
		metrics.SamplesReceived.WithLabelValues("ws").Inc()
	case TypePong:
		if c.log != nil {
			c.log.Debugw("ws_pong")
		}
	case TypeSystemEvent:
		// decoded by typed subscribers
	default:
		if c.log != nil {
			c.log.Infow("ws_unrecognized_type", "type", env.Type)
		}
	}

	c.mu.Lock()
	list := c.subs[env.Type]
	subs := make([]subscriber, len(list))
	copy(subs, list)
	c.mu.Unlock()

	for _, s := range subs {
		s.fn(env.Data)
	}
}
