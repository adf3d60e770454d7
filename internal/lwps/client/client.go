// Package client drives one order-stream TCP connection: dialing,
// sending a periodic keep-alive, reading and reassembling frames from
// the stream, and recovering from a corrupt buffer without tearing the
// connection down outright.
package client

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"

	"github.com/vayesy/betdaq/internal/config"
	"github.com/vayesy/betdaq/internal/lwps/encoder"
	"github.com/vayesy/betdaq/internal/lwps/envelope"
	"github.com/vayesy/betdaq/internal/metrics"
)

const (
	heartbeatInterval = 60 * time.Second
	reconnectDelay    = 5 * time.Second
	readBufferSize    = 8192
)

// stack labels this client's metrics under.
const stack = "lwps"

// ProtocolEvent is one of the four connection lifecycle events a caller
// can subscribe to, matching the order stream's callback registration
// model.
type ProtocolEvent int

const (
	// ConnectionMade fires once a TCP connection is established. Payload is nil.
	ConnectionMade ProtocolEvent = iota
	// DataReceived fires for every envelope decoded off the wire. Payload is *envelope.Envelope.
	DataReceived
	// DataSent fires for every frame written to the connection, including keep-alives. Payload is []byte.
	DataSent
	// ConnectionLost fires once the session ends. Payload is the terminal error, or nil on a clean shutdown.
	ConnectionLost
)

func (e ProtocolEvent) String() string {
	switch e {
	case ConnectionMade:
		return "connection_made"
	case DataReceived:
		return "data_received"
	case DataSent:
		return "data_sent"
	case ConnectionLost:
		return "connection_lost"
	default:
		return fmt.Sprintf("ProtocolEvent(%d)", int(e))
	}
}

// EventHandler receives one dispatched protocol event and its payload.
type EventHandler func(event ProtocolEvent, payload any)

// Handler is the data_received shorthand accepted by New, for callers
// that only care about inbound envelopes.
type Handler func(*envelope.Envelope)

// listenerSet holds the per-kind callback registrations live for one
// connection's lifetime. A new connection's listenerSet is seeded from
// the previous one's, merging callbacks in registration order, so
// subscribers registered before a reconnect keep firing afterward.
type listenerSet struct {
	byKind map[ProtocolEvent][]EventHandler
}

func newListenerSet(prev *listenerSet) *listenerSet {
	ls := &listenerSet{byKind: make(map[ProtocolEvent][]EventHandler)}
	if prev != nil {
		for kind, handlers := range prev.byKind {
			ls.byKind[kind] = append(ls.byKind[kind], handlers...)
		}
	}
	return ls
}

func (ls *listenerSet) on(event ProtocolEvent, h EventHandler) {
	ls.byKind[event] = append(ls.byKind[event], h)
}

// dispatch invokes every registered handler for event in registration
// order. A panicking handler is caught and logged; it never aborts the
// remaining handlers or propagates into the I/O loop.
func (ls *listenerSet) dispatch(event ProtocolEvent, payload any) {
	for _, h := range ls.byKind[event] {
		callSafely(event, h, payload)
	}
}

func callSafely(event ProtocolEvent, h EventHandler, payload any) {
	defer func() {
		if r := recover(); r != nil {
			cclog.Errorf("lwps: %s callback panicked: %v", event, r)
		}
	}()
	h(event, payload)
}

// Client maintains one reconnecting order-stream session.
type Client struct {
	cfg config.OrderStream
	enc *encoder.RequestEncoder

	mu        sync.Mutex
	listeners *listenerSet

	conn net.Conn
}

// New builds a Client for the configured order-stream endpoint and
// punter identity. handler is registered as the data_received callback;
// use On to also subscribe to connection_made, data_sent or
// connection_lost.
func New(cfg config.OrderStream, handler Handler) (*Client, error) {
	punterID, err := strconv.ParseInt(cfg.PunterID, 10, 64)
	if err != nil {
		return nil, err
	}
	sessionKey, err := strconv.ParseInt(cfg.PunterSessionKey, 10, 64)
	if err != nil {
		return nil, err
	}
	c := &Client{
		cfg:       cfg,
		enc:       encoder.New(punterID, sessionKey),
		listeners: newListenerSet(nil),
	}
	if handler != nil {
		c.On(DataReceived, func(_ ProtocolEvent, payload any) {
			if env, ok := payload.(*envelope.Envelope); ok {
				handler(env)
			}
		})
	}
	return c, nil
}

// On registers h for event, in addition to any already registered. A
// connection established after On is called, including one reached via
// reconnect, carries forward every handler registered up to that point.
func (c *Client) On(event ProtocolEvent, h EventHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners.on(event, h)
}

func (c *Client) dispatch(event ProtocolEvent, payload any) {
	c.mu.Lock()
	ls := c.listeners
	c.mu.Unlock()
	ls.dispatch(event, payload)
}

// Run dials the order-stream endpoint and serves it until ctx is
// cancelled, reconnecting after any read or dial failure.
func (c *Client) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.runSession(ctx); err != nil {
			cclog.Warnf("lwps: session ended: %s", err.Error())
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reconnectDelay):
		}
	}
}

// runSession owns one live connection. Each new connection's listener
// set inherits every callback registered on the prior connection (or
// via On before the first connect), merged in registration order, so a
// reconnect never silently drops a subscriber.
func (c *Client) runSession(ctx context.Context) error {
	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", c.cfg.Address)
	if err != nil {
		return err
	}
	c.conn = conn
	defer conn.Close()

	c.mu.Lock()
	c.listeners = newListenerSet(c.listeners)
	c.mu.Unlock()

	metrics.Reconnects.WithLabelValues(stack).Inc()
	cclog.Info("lwps: connection established")
	c.dispatch(ConnectionMade, nil)

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.heartbeatLoop(sessionCtx)
	go func() {
		<-sessionCtx.Done()
		conn.Close()
	}()

	sessionErr := c.receiveLoop(conn)
	if ctx.Err() != nil {
		sessionErr = nil
	}
	c.dispatch(ConnectionLost, sessionErr)
	return sessionErr
}

func (c *Client) heartbeatLoop(ctx context.Context) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := c.conn.Write(encoder.KeepAlive); err != nil {
				cclog.Warnf("lwps: keep-alive write failed: %s", err.Error())
				return
			}
			metrics.FramesSent.WithLabelValues(stack).Inc()
			c.dispatch(DataSent, encoder.KeepAlive)
		}
	}
}

// receiveLoop reads from conn, reassembling and dispatching envelopes.
// A single failed parse buffers the unparsed bytes and waits for more
// data, since it is most likely a frame split across two reads; a
// second consecutive failure discards the buffer outright rather than
// stalling the connection on bytes that will never parse.
func (c *Client) receiveLoop(conn net.Conn) error {
	var pending []byte
	errorSeen := false
	readBuf := make([]byte, readBufferSize)

	for {
		n, err := conn.Read(readBuf)
		if n > 0 {
			data := append(pending, readBuf[:n]...)
			pending = nil

			for len(data) > 0 {
				env, remaining, parseErr := c.enc.ParseResponse(data)
				if parseErr != nil {
					if errorSeen {
						cclog.Errorf("lwps: discarding %d buffered bytes after repeated parse failures", len(data))
						metrics.CorruptFrames.Inc()
						errorSeen = false
					} else {
						errorSeen = true
						pending = data
					}
					break
				}
				errorSeen = false
				metrics.FramesReceived.WithLabelValues(stack).Inc()
				if env != nil {
					c.dispatch(DataReceived, env)
				}
				data = remaining
			}
		}
		if err != nil {
			return err
		}
	}
}

// Send writes an already-encoded envelope to the connection.
func (c *Client) Send(frame []byte) error {
	_, err := c.conn.Write(frame)
	if err != nil {
		return err
	}
	metrics.FramesSent.WithLabelValues(stack).Inc()
	c.dispatch(DataSent, frame)
	return nil
}

// Encoder exposes the request encoder so callers can build and send
// add/cancel/query requests over this connection.
func (c *Client) Encoder() *encoder.RequestEncoder { return c.enc }
