package client

import (
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vayesy/betdaq/internal/config"
	"github.com/vayesy/betdaq/internal/lwps/encoder"
	"github.com/vayesy/betdaq/internal/lwps/envelope"
)

func newTestClient(handler Handler) *Client {
	c := &Client{
		enc:       encoder.New(1, 2),
		listeners: newListenerSet(nil),
	}
	if handler != nil {
		c.On(DataReceived, func(_ ProtocolEvent, payload any) {
			if env, ok := payload.(*envelope.Envelope); ok {
				handler(env)
			}
		})
	}
	return c
}

// runReceiveLoop starts receiveLoop in a goroutine over one end of a
// net.Pipe and returns the other end plus a channel that receives the
// loop's terminal error once the pipe is closed.
func runReceiveLoop(c *Client) (net.Conn, chan error) {
	serverConn, clientConn := net.Pipe()
	done := make(chan error, 1)
	go func() {
		done <- c.receiveLoop(clientConn)
	}()
	return serverConn, done
}

func TestReceiveLoopDispatchesSingleEnvelope(t *testing.T) {
	received := make(chan *envelope.Envelope, 1)
	c := newTestClient(func(env *envelope.Envelope) { received <- env })
	server, done := runReceiveLoop(c)

	frame, err := c.enc.Ping(42, nil)
	require.NoError(t, err)

	_, err = server.Write(frame)
	require.NoError(t, err)

	select {
	case env := <-received:
		body, ok := env.Message.(*envelope.Ping)
		require.True(t, ok)
		assert.Equal(t, int64(42), body.PunterQueryReferenceNumber)
	case <-time.After(time.Second):
		t.Fatal("handler was never invoked")
	}

	server.Close()
	<-done
}

func TestReceiveLoopReassemblesFrameSplitAcrossReads(t *testing.T) {
	received := make(chan *envelope.Envelope, 1)
	c := newTestClient(func(env *envelope.Envelope) { received <- env })
	server, done := runReceiveLoop(c)

	frame, err := c.enc.Ping(7, nil)
	require.NoError(t, err)
	require.Greater(t, len(frame), 4)
	split := len(frame) / 2

	_, err = server.Write(frame[:split])
	require.NoError(t, err)
	_, err = server.Write(frame[split:])
	require.NoError(t, err)

	select {
	case env := <-received:
		body, ok := env.Message.(*envelope.Ping)
		require.True(t, ok)
		assert.Equal(t, int64(7), body.PunterQueryReferenceNumber)
	case <-time.After(time.Second):
		t.Fatal("handler was never invoked for the reassembled frame")
	}

	server.Close()
	<-done
}

func TestReceiveLoopDiscardsAfterTwoConsecutiveParseFailures(t *testing.T) {
	received := make(chan *envelope.Envelope, 1)
	c := newTestClient(func(env *envelope.Envelope) { received <- env })
	server, done := runReceiveLoop(c)

	// A lone byte with its continuation bit set can never parse as a
	// complete length prefix, so each write below fails to decode on
	// its own.
	_, err := server.Write([]byte{0xFF})
	require.NoError(t, err)
	_, err = server.Write([]byte{0xFE})
	require.NoError(t, err)

	frame, err := c.enc.Ping(99, nil)
	require.NoError(t, err)
	_, err = server.Write(frame)
	require.NoError(t, err)

	select {
	case env := <-received:
		body, ok := env.Message.(*envelope.Ping)
		require.True(t, ok)
		assert.Equal(t, int64(99), body.PunterQueryReferenceNumber)
	case <-time.After(time.Second):
		t.Fatal("handler was never invoked after recovering from corrupt bytes")
	}

	server.Close()
	<-done
}

func TestReceiveLoopReturnsErrorOnConnectionClose(t *testing.T) {
	c := newTestClient(nil)
	server, done := runReceiveLoop(c)
	server.Close()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, io.ErrClosedPipe) || errors.Is(err, io.EOF))
	case <-time.After(time.Second):
		t.Fatal("receiveLoop never returned after the connection closed")
	}
}

func TestOnRegistersMultipleHandlersForSameKind(t *testing.T) {
	c := newTestClient(nil)
	var calls []string
	c.On(DataReceived, func(event ProtocolEvent, _ any) { calls = append(calls, "first") })
	c.On(DataReceived, func(event ProtocolEvent, _ any) { calls = append(calls, "second") })

	c.dispatch(DataReceived, nil)
	assert.Equal(t, []string{"first", "second"}, calls, "handlers must fire in registration order")
}

func TestDispatchRecoversFromPanickingHandler(t *testing.T) {
	c := newTestClient(nil)
	called := false
	c.On(DataReceived, func(ProtocolEvent, any) { panic("boom") })
	c.On(DataReceived, func(ProtocolEvent, any) { called = true })

	assert.NotPanics(t, func() { c.dispatch(DataReceived, nil) })
	assert.True(t, called, "a panicking handler must not stop later handlers from running")
}

func TestNewListenerSetMergesPreviousHandlersInOrder(t *testing.T) {
	prev := newListenerSet(nil)
	var calls []string
	prev.on(ConnectionMade, func(ProtocolEvent, any) { calls = append(calls, "old") })

	next := newListenerSet(prev)
	next.on(ConnectionMade, func(ProtocolEvent, any) { calls = append(calls, "new") })

	next.dispatch(ConnectionMade, nil)
	assert.Equal(t, []string{"old", "new"}, calls)

	// The previous set is untouched by further registration on next.
	prev.dispatch(ConnectionMade, nil)
	assert.Equal(t, []string{"old", "new", "old"}, calls)
}

func TestReconnectedSessionInheritsPreviouslyRegisteredHandlers(t *testing.T) {
	c := newTestClient(nil)
	var madeCount int
	c.On(ConnectionMade, func(ProtocolEvent, any) { madeCount++ })

	// runSession seeds a fresh listener set from whatever is already
	// registered every time a connection is established.
	c.mu.Lock()
	c.listeners = newListenerSet(c.listeners)
	c.mu.Unlock()
	c.dispatch(ConnectionMade, nil)
	assert.Equal(t, 1, madeCount)

	// A handler registered mid-session must still fire after a
	// reconnect, which seeds a new listener set from the one just used.
	c.On(ConnectionMade, func(ProtocolEvent, any) { madeCount += 10 })
	c.mu.Lock()
	c.listeners = newListenerSet(c.listeners)
	c.mu.Unlock()
	c.dispatch(ConnectionMade, nil)
	assert.Equal(t, 12, madeCount, "the reconnected session must still fire handlers registered before it")
}

func TestNewRegistersHandlerAsDataReceived(t *testing.T) {
	cfg := config.OrderStream{PunterID: "1", PunterSessionKey: "2"}
	received := make(chan *envelope.Envelope, 1)
	c, err := New(cfg, func(env *envelope.Envelope) { received <- env })
	require.NoError(t, err)

	env := &envelope.Envelope{Message: &envelope.Ping{PunterQueryReferenceNumber: 1}}
	c.dispatch(DataReceived, env)

	select {
	case got := <-received:
		assert.Equal(t, int64(1), got.Message.(*envelope.Ping).PunterQueryReferenceNumber)
	default:
		t.Fatal("handler passed to New was not registered for DataReceived")
	}
}

func TestProtocolEventString(t *testing.T) {
	assert.Equal(t, "connection_made", ConnectionMade.String())
	assert.Equal(t, "data_received", DataReceived.String())
	assert.Equal(t, "data_sent", DataSent.String())
	assert.Equal(t, "connection_lost", ConnectionLost.String())
}
