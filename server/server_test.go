package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sage-x-project/jstp/app"
	"github.com/sage-x-project/jstp/conn"
	"github.com/sage-x-project/jstp/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTransport is the minimal conn.Transport for server bookkeeping
// tests; nothing is actually framed or parsed.
type stubTransport struct {
	sink   conn.Sink
	closed bool
}

func (t *stubTransport) SetSink(s conn.Sink)   { t.sink = s }
func (t *stubTransport) Send(string) error     { return nil }
func (t *stubTransport) End(string) error      { t.closed = true; return nil }
func (t *stubTransport) RemoteAddress() string { return "stub" }

type stubAuth struct{}

func (stubAuth) StartSession(c *conn.Connection, application *app.Application, strategy string, credentials []record.Value) (string, string, error) {
	return "", "S-1", nil
}

func TestAcceptTracksConnection(t *testing.T) {
	s := New(stubAuth{}, nil)

	c, err := s.Accept(&stubTransport{})
	require.NoError(t, err)
	assert.Equal(t, 1, s.ClientCount())
	assert.Contains(t, s.GetClientsArray(), c)
}

func TestDisconnectRemovesConnection(t *testing.T) {
	s := New(stubAuth{}, nil)

	var disconnected *conn.Connection
	s.OnDisconnect(func(c *conn.Connection) { disconnected = c })

	c, err := s.Accept(&stubTransport{})
	require.NoError(t, err)
	require.NoError(t, c.Close())

	assert.Equal(t, 0, s.ClientCount())
	assert.Same(t, c, disconnected)
}

func TestOnConnectFiresAfterHandshake(t *testing.T) {
	s := New(stubAuth{}, nil)

	var connected *conn.Connection
	s.OnConnect(func(c *conn.Connection) { connected = c })

	c, err := s.Accept(&stubTransport{})
	require.NoError(t, err)
	assert.Nil(t, connected, "connect must not fire before a session exists")

	v, err := record.Parse(`{handshake:[0,'jstp'],anonymous:[]}`)
	require.NoError(t, err)
	c.OnPacket(v)

	require.True(t, c.HandshakeDone())
	assert.Same(t, c, connected)
}

func TestReservedApplicationRegistered(t *testing.T) {
	s := New(stubAuth{}, nil)
	a, ok := s.registry.Lookup(app.Reserved)
	require.True(t, ok)
	assert.Equal(t, "jstp", a.Name())
}

func TestRegisteredApplicationsResolvable(t *testing.T) {
	calc := app.New("calc", nil)
	s := New(stubAuth{}, []*app.Application{calc})

	got, ok := s.registry.Lookup("calc")
	require.True(t, ok)
	assert.Same(t, calc, got)

	_, ok = s.registry.Lookup("missing")
	assert.False(t, ok)
}

func TestCloseClosesEveryConnection(t *testing.T) {
	s := New(stubAuth{}, nil)
	c1, err := s.Accept(&stubTransport{})
	require.NoError(t, err)
	c2, err := s.Accept(&stubTransport{})
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.True(t, c1.Closed())
	assert.True(t, c2.Closed())
	assert.Equal(t, 0, s.ClientCount())
}

// chanListener hands out queued transports, then blocks until Close.
type chanListener struct {
	transports chan conn.Transport
	done       chan struct{}
}

func newChanListener(ts ...conn.Transport) *chanListener {
	l := &chanListener{transports: make(chan conn.Transport, len(ts)), done: make(chan struct{})}
	for _, t := range ts {
		l.transports <- t
	}
	return l
}

func (l *chanListener) Accept() (conn.Transport, error) {
	select {
	case t := <-l.transports:
		return t, nil
	case <-l.done:
		return nil, errors.New("listener closed")
	}
}

func (l *chanListener) Close() error {
	select {
	case <-l.done:
	default:
		close(l.done)
	}
	return nil
}

func TestServeAcceptsUntilCancelled(t *testing.T) {
	s := New(stubAuth{}, nil)
	ln := newChanListener(&stubTransport{}, &stubTransport{})

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool { return s.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-served:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
