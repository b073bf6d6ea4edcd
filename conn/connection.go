// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package conn implements JSTP's per-peer protocol state machine: packet
// framing via a Transport, packet-id allocation, pending-callback
// correlation, the handshake, heartbeat, and dispatch into either an
// Application registry (server role) or a caller's own callbacks and
// RemoteProxy instances (client role).
package conn

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sage-x-project/jstp/app"
	"github.com/sage-x-project/jstp/internal/logger"
	"github.com/sage-x-project/jstp/internal/metrics"
	"github.com/sage-x-project/jstp/jstperr"
	"github.com/sage-x-project/jstp/record"
)

// Role identifies which side of a connection this peer is: it decides
// id-space sign and which of ServerContext/ClientContext is attached.
type Role int

const (
	RoleClient Role = iota
	RoleServer
)

func (r Role) String() string {
	if r == RoleServer {
		return "server"
	}
	return "client"
}

type state int

const (
	stateFresh state = iota
	stateHandshaking
	stateOpen
	stateClosed
)

// ServerContext supplies the pieces a server-role Connection needs to
// process an incoming handshake: where to resolve the target
// application, and how to authenticate the credentials it carries.
type ServerContext struct {
	Registry Registry
	Auth     AuthPolicy
}

// ClientContext supplies a client-role Connection's default connect
// policy. It is optional; callers may drive Handshake directly instead.
type ClientContext struct {
	Connect ConnectPolicy
}

// Config constructs a Connection.
type Config struct {
	Transport         Transport
	ServerCtx         *ServerContext
	ClientCtx         *ClientContext
	Logger            logger.Logger
	HeartbeatInterval time.Duration
}

// pendingCallback is a one-shot continuation registered under an
// outgoing packet id. onResponse interprets the matching reply; a
// non-nil return means the reply's shape was invalid and the
// connection must close fatally. onFail fires instead of onResponse
// when the connection closes before a reply arrives; there is no
// per-request cancellation.
type pendingCallback struct {
	onResponse func(p record.Packet) error
	onFail     func(err error)
}

// Connection is JSTP's per-peer state machine. One instance exists per
// accepted or dialed transport; see package doc for responsibilities.
type Connection struct {
	numericID int64
	traceID   string
	role      Role
	transport Transport

	serverCtx *ServerContext
	clientCtx *ClientContext

	log     logger.Logger
	events  *emitter
	writeMu sync.Mutex

	mu               sync.Mutex
	state            state
	nextPacketID     int64
	idDelta          int64
	pendingCallbacks map[int64]pendingCallback
	handshakeDone    bool
	username         string
	hasUsername      bool
	sessionID        string
	hasSessionID     bool
	application      *app.Application
	remoteProxies    map[string]*RemoteProxy
	heartbeat        *scheduledTask

	closeOnce sync.Once
}

var connCounter int64

// New constructs a Connection over transport, exactly one of
// cfg.ServerCtx / cfg.ClientCtx set. It installs itself as the
// transport's Sink and, if cfg.HeartbeatInterval > 0, starts the
// heartbeat timer immediately.
func New(cfg Config) (*Connection, error) {
	if cfg.Transport == nil {
		return nil, errors.New("conn: transport is required")
	}
	if (cfg.ServerCtx == nil) == (cfg.ClientCtx == nil) {
		return nil, errors.New("conn: exactly one of ServerCtx or ClientCtx must be set")
	}

	role := RoleClient
	idDelta := int64(1)
	if cfg.ServerCtx != nil {
		role = RoleServer
		idDelta = -1
	}

	lg := cfg.Logger
	if lg == nil {
		lg = logger.GetDefaultLogger()
	}

	c := &Connection{
		numericID:        atomic.AddInt64(&connCounter, 1),
		traceID:          uuid.NewString(),
		role:             role,
		transport:        cfg.Transport,
		serverCtx:        cfg.ServerCtx,
		clientCtx:        cfg.ClientCtx,
		events:           newEmitter(),
		idDelta:          idDelta,
		pendingCallbacks: make(map[int64]pendingCallback),
		remoteProxies:    make(map[string]*RemoteProxy),
	}
	c.log = lg.WithFields(logger.ConnectionID(c.numericID), logger.TraceID(c.traceID))
	cfg.Transport.SetSink(c)

	metrics.ConnectionsOpen.Inc()
	metrics.ConnectionsTotal.WithLabelValues(role.String()).Inc()

	if cfg.HeartbeatInterval > 0 {
		c.StartHeartbeat(cfg.HeartbeatInterval)
	}
	return c, nil
}

// ID returns a process-local numeric identity, distinct from any
// packet id; it satisfies app.Conn.
func (c *Connection) ID() int64 { return c.numericID }

// TraceID returns the connection's log-correlation id.
func (c *Connection) TraceID() string { return c.traceID }

// Role reports whether this Connection is client- or server-role.
func (c *Connection) Role() Role { return c.role }

// RemoteAddress forwards the transport's diagnostic address.
func (c *Connection) RemoteAddress() string { return c.transport.RemoteAddress() }

// SessionID returns the session id minted at handshake, if any.
func (c *Connection) SessionID() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID, c.hasSessionID
}

// Username returns the authenticated username, if the auth strategy
// supplied one (anonymous leaves this unset).
func (c *Connection) Username() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.username, c.hasUsername
}

// Application returns the application attached at handshake, if any.
func (c *Connection) Application() (*app.Application, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.application, c.application != nil
}

// HandshakeDone reports whether the handshake has completed.
func (c *Connection) HandshakeDone() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handshakeDone
}

// Closed reports whether the connection has been torn down.
func (c *Connection) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == stateClosed
}

// On registers a listener for one of the connection-level events:
// "connect", "disconnect", "packetRejected", "event", "error".
func (c *Connection) On(event string, fn func(args ...interface{})) {
	c.events.On(event, fn)
}

// --- outbound id / callback bookkeeping ---

func (c *Connection) nextID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextPacketID
	c.nextPacketID += c.idDelta
	return id
}

// registerPending stores entry under id, or fails it immediately if
// the connection closed since the caller's last state check, so no
// continuation is ever left unresolved.
func (c *Connection) registerPending(id int64, entry pendingCallback) {
	c.mu.Lock()
	if c.state == stateClosed {
		c.mu.Unlock()
		entry.onFail(ErrConnectionClosed)
		return
	}
	c.pendingCallbacks[id] = entry
	c.mu.Unlock()
}

func (c *Connection) popPending(id int64) (pendingCallback, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.pendingCallbacks[id]
	if ok {
		delete(c.pendingCallbacks, id)
	}
	return e, ok
}

func (c *Connection) send(v record.Value) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.transport.Send(record.Stringify(v))
}

// --- wire error helpers ---

func encodeWireError(err error) record.Value {
	code := jstperr.InternalApiError
	var messages []string
	var je *jstperr.Error
	if errors.As(err, &je) {
		code = je.Code
		messages = je.Messages
	} else if err != nil {
		messages = []string{err.Error()}
	}
	vals := make([]record.Value, 0, 1+len(messages))
	vals = append(vals, record.Int(int64(code)))
	for _, m := range messages {
		vals = append(vals, record.String(m))
	}
	return record.Array(vals...)
}

func decodeWireError(v record.Value) *jstperr.Error {
	arr, _ := v.Array()
	raw := make([]interface{}, len(arr))
	for i, e := range arr {
		if s, ok := e.String(); ok {
			raw[i] = s
			continue
		}
		if n, ok := e.Int(); ok {
			raw[i] = n
			continue
		}
		if f, ok := e.Float(); ok {
			raw[i] = f
			continue
		}
	}
	jerr, err := jstperr.FromValues(raw)
	if err != nil {
		return jstperr.New(jstperr.InternalApiError, err.Error())
	}
	return jerr
}

// --- outbound operations ---

// Handshake sends the initial handshake request. Valid only from state
// Fresh; a rejected handshake returns the connection to Fresh, so it
// may be sent again. strategy defaults to "anonymous" when empty.
func (c *Connection) Handshake(appName, strategy string, credentials []record.Value, cb func(err error, sessionID string)) error {
	if strategy == "" {
		strategy = "anonymous"
	}
	c.mu.Lock()
	if c.state == stateClosed {
		c.mu.Unlock()
		return ErrConnectionClosed
	}
	if c.state != stateFresh {
		c.mu.Unlock()
		return ErrAlreadyHandshaking
	}
	c.state = stateHandshaking
	c.mu.Unlock()

	id := c.nextID()
	c.registerPending(id, pendingCallback{
		onResponse: func(p record.Packet) error {
			switch p.Verb {
			case "ok":
				sessionID, _ := p.Args.String()
				c.mu.Lock()
				c.sessionID, c.hasSessionID = sessionID, true
				c.handshakeDone = true
				c.state = stateOpen
				c.mu.Unlock()
				metrics.HandshakesTotal.WithLabelValues("ok").Inc()
				cb(nil, sessionID)
				return nil
			case "error":
				jerr := decodeWireError(p.Args)
				c.mu.Lock()
				c.state = stateFresh
				c.mu.Unlock()
				metrics.HandshakesTotal.WithLabelValues("rejected").Inc()
				cb(jerr, "")
				return nil
			default:
				metrics.HandshakesTotal.WithLabelValues("error").Inc()
				return &protocolViolation{reason: "malformed handshake response", fatal: true}
			}
		},
		onFail: func(err error) { cb(err, "") },
	})

	pkt := record.Packet{
		Kind: record.PacketHandshake, ID: id, Target: appName, HasTarget: true,
		Verb: strategy, HasVerb: true, Args: record.Array(credentials...),
	}
	if err := c.send(record.EncodePacket(pkt)); err != nil {
		c.popPending(id)
		return err
	}
	return nil
}

// Connect runs the connection's configured connect policy against
// appName, falling back to a plain anonymous handshake when no policy
// was supplied at construction. Client role only.
func (c *Connection) Connect(appName string, cb func(err error, sessionID string)) error {
	if c.clientCtx == nil {
		return errors.New("conn: Connect requires a client-role connection")
	}
	if c.clientCtx.Connect != nil {
		return c.clientCtx.Connect.Connect(appName, c, cb)
	}
	return c.Handshake(appName, "", nil, cb)
}

// Call sends a call packet to interfaceName.methodName and fires cb
// when the matching callback packet arrives (or the connection closes
// first).
func (c *Connection) Call(interfaceName, methodName string, args []record.Value, cb func(err error, results ...record.Value)) error {
	if c.Closed() {
		return ErrConnectionClosed
	}
	if !c.HandshakeDone() {
		return ErrHandshakeRequired
	}
	id := c.nextID()
	c.registerPending(id, pendingCallback{
		onResponse: func(p record.Packet) error {
			if p.Verb == "error" {
				cb(decodeWireError(p.Args))
				return nil
			}
			arr, _ := p.Args.Array()
			cb(nil, arr...)
			return nil
		},
		onFail: func(err error) { cb(err) },
	})
	pkt := record.Packet{
		Kind: record.PacketCall, ID: id, Target: interfaceName, HasTarget: true,
		Verb: methodName, HasVerb: true, Args: record.Array(args...),
	}
	if err := c.send(record.EncodePacket(pkt)); err != nil {
		c.popPending(id)
		return err
	}
	return nil
}

// Inspect requests interfaceName's method list and builds (or reuses a
// cached) RemoteProxy over it.
func (c *Connection) Inspect(interfaceName string, cb func(proxy *RemoteProxy, err error)) error {
	if c.Closed() {
		return ErrConnectionClosed
	}
	if !c.HandshakeDone() {
		return ErrHandshakeRequired
	}
	c.mu.Lock()
	if proxy, ok := c.remoteProxies[interfaceName]; ok {
		c.mu.Unlock()
		cb(proxy, nil)
		return nil
	}
	c.mu.Unlock()

	id := c.nextID()
	c.registerPending(id, pendingCallback{
		onResponse: func(p record.Packet) error {
			if p.Verb == "error" {
				cb(nil, decodeWireError(p.Args))
				return nil
			}
			arr, _ := p.Args.Array()
			names := make([]string, len(arr))
			for i, v := range arr {
				names[i], _ = v.String()
			}
			proxy := newRemoteProxy(c, interfaceName, names)
			c.mu.Lock()
			c.remoteProxies[interfaceName] = proxy
			c.mu.Unlock()
			cb(proxy, nil)
			return nil
		},
		onFail: func(err error) { cb(nil, err) },
	})
	pkt := record.Packet{Kind: record.PacketInspect, ID: id, Target: interfaceName, HasTarget: true}
	if err := c.send(record.EncodePacket(pkt)); err != nil {
		c.popPending(id)
		return err
	}
	return nil
}

// Ping sends a ping and fires cb when the matching pong arrives.
func (c *Connection) Ping(cb func(err error)) error {
	if c.Closed() {
		return ErrConnectionClosed
	}
	if !c.HandshakeDone() {
		return ErrHandshakeRequired
	}
	id := c.nextID()
	c.registerPending(id, pendingCallback{
		onResponse: func(p record.Packet) error { cb(nil); return nil },
		onFail:     cb,
	})
	return c.send(record.EncodePacket(record.Packet{Kind: record.PacketPing, ID: id}))
}

// Emit sends an event packet; no reply is expected or correlated.
func (c *Connection) Emit(interfaceName, eventName string, args []record.Value) error {
	if c.Closed() {
		return ErrConnectionClosed
	}
	id := c.nextID()
	pkt := record.Packet{
		Kind: record.PacketEvent, ID: id, Target: interfaceName, HasTarget: true,
		Verb: eventName, HasVerb: true, Args: record.Array(args...),
	}
	metrics.EventsTotal.WithLabelValues(interfaceName).Inc()
	return c.send(record.EncodePacket(pkt))
}

func (c *Connection) sendCallback(id int64, err error, results []record.Value) {
	var pkt record.Packet
	if err != nil {
		pkt = record.Packet{Kind: record.PacketCallback, ID: id, Verb: "error", HasVerb: true, Args: encodeWireError(err)}
	} else {
		pkt = record.Packet{Kind: record.PacketCallback, ID: id, Verb: "ok", HasVerb: true, Args: record.Array(results...)}
	}
	_ = c.send(record.EncodePacket(pkt))
}

func (c *Connection) sendHandshakeOK(id int64, sessionID string) {
	pkt := record.Packet{Kind: record.PacketHandshake, ID: id, Verb: "ok", HasVerb: true, Args: record.String(sessionID)}
	_ = c.send(record.EncodePacket(pkt))
}

func (c *Connection) sendHandshakeError(id int64, err error) {
	pkt := record.Packet{Kind: record.PacketHandshake, ID: id, Verb: "error", HasVerb: true, Args: encodeWireError(err)}
	_ = c.send(record.EncodePacket(pkt))
}

// --- heartbeat ---

// StartHeartbeat begins (or restarts, at a new interval) transmitting an
// empty packet every interval. Receipt of heartbeat is always silent;
// this only governs what this side transmits.
func (c *Connection) StartHeartbeat(interval time.Duration) {
	c.mu.Lock()
	if c.heartbeat != nil {
		c.heartbeat.Cancel()
	}
	c.heartbeat = every(interval, func() {
		metrics.HeartbeatsTotal.Inc()
		_ = c.send(record.EncodePacket(record.Packet{Heartbeat: true}))
	})
	c.mu.Unlock()
}

// StopHeartbeat cancels the heartbeat timer, if running.
func (c *Connection) StopHeartbeat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.heartbeat != nil {
		c.heartbeat.Cancel()
		c.heartbeat = nil
	}
}

// --- inbound dispatch (Sink) ---

// OnPacket implements Sink: it is called once per parsed incoming
// packet, in transport read order.
func (c *Connection) OnPacket(v record.Value) {
	p, err := record.DecodePacket(v)
	if err != nil {
		c.rejectPacket(record.Packet{}, err.Error())
		c.closeFatal(err)
		return
	}
	if p.Heartbeat {
		return
	}

	if !c.HandshakeDone() {
		if p.Kind != record.PacketHandshake {
			c.rejectPacket(p, "non-handshake packet received before handshake completed")
			c.closeFatal(&protocolViolation{reason: "packet before handshake", fatal: true})
			return
		}
		c.processHandshake(p)
		return
	}

	if p.Kind == record.PacketHandshake {
		c.rejectPacket(p, "duplicate handshake packet")
		c.closeFatal(&protocolViolation{reason: "duplicate handshake", fatal: true})
		return
	}

	switch p.Kind {
	case record.PacketCall:
		c.dispatchCall(p)
	case record.PacketCallback:
		c.dispatchCallback(p)
	case record.PacketEvent:
		c.dispatchEvent(p)
	case record.PacketInspect:
		c.dispatchInspect(p)
	case record.PacketPing:
		c.dispatchPing(p)
	case record.PacketPong:
		c.dispatchPong(p)
	default:
		c.rejectPacket(p, "unrecognized packet kind")
		c.closeFatal(&protocolViolation{reason: "unrecognized packet kind", fatal: true})
	}
}

// OnClose implements Sink: the transport closed.
func (c *Connection) OnClose() { _ = c.Close() }

// OnError implements Sink: the transport errored.
func (c *Connection) OnError(err error) {
	c.events.Emit("error", err)
	_ = c.Close()
}

func (c *Connection) processHandshake(p record.Packet) {
	if c.role == RoleServer {
		c.handleServerHandshake(p)
		return
	}

	entry, ok := c.popPending(p.ID)
	if !ok {
		c.rejectPacket(p, "unsolicited handshake packet")
		if p.HasTarget {
			// A handshake request (it names an application) reached a
			// client; a response with no registered callback is only
			// rejected, never dispatched.
			c.sendHandshakeError(p.ID, jstperr.New(jstperr.NotAServer))
		}
		return
	}
	if err := entry.onResponse(p); err != nil {
		c.closeFatal(err)
	}
}

func (c *Connection) handleServerHandshake(p record.Packet) {
	applicationFound, ok := c.serverCtx.Registry.Lookup(p.Target)
	if !ok {
		metrics.HandshakesTotal.WithLabelValues("rejected").Inc()
		c.sendHandshakeError(p.ID, jstperr.New(jstperr.AppNotFound))
		c.closeFatal(&protocolViolation{reason: "unknown application", fatal: true})
		return
	}

	strategy := "anonymous"
	var credentials []record.Value
	if p.HasVerb {
		strategy = p.Verb
		credentials, _ = p.Args.Array()
	}

	username, sessionID, err := c.serverCtx.Auth.StartSession(c, applicationFound, strategy, credentials)
	if err != nil {
		metrics.HandshakesTotal.WithLabelValues("rejected").Inc()
		c.sendHandshakeError(p.ID, jstperr.New(jstperr.AuthFailed, err.Error()))
		c.closeFatal(&protocolViolation{reason: "authentication failed", fatal: true})
		return
	}

	c.mu.Lock()
	c.application = applicationFound
	c.username, c.hasUsername = username, username != ""
	c.sessionID, c.hasSessionID = sessionID, true
	c.handshakeDone = true
	c.state = stateOpen
	c.mu.Unlock()

	metrics.HandshakesTotal.WithLabelValues("ok").Inc()
	c.log.Info("handshake complete",
		logger.String("application", p.Target),
		logger.SessionID(sessionID),
		logger.Remote(c.RemoteAddress()),
	)
	c.sendHandshakeOK(p.ID, sessionID)
	c.events.Emit("connect", c)
}

func (c *Connection) dispatchCall(p record.Packet) {
	args, _ := p.Args.Array()
	appName := ""
	if a, ok := c.Application(); ok {
		appName = a.Name()
	}
	start := time.Now()
	respond := func(err error, results ...record.Value) {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.CallsTotal.WithLabelValues(appName, outcome).Inc()
		metrics.CallDuration.WithLabelValues(appName).Observe(time.Since(start).Seconds())
		c.sendCallback(p.ID, err, results)
	}

	application, ok := c.Application()
	if !ok {
		respond(jstperr.New(jstperr.InterfaceNotFound))
		return
	}
	defer func() {
		if r := recover(); r != nil {
			metrics.CallsTotal.WithLabelValues(appName, "panic").Inc()
			c.sendCallback(p.ID, jstperr.New(jstperr.InternalApiError), nil)
			c.log.Error("call handler panicked", logger.Any("recovered", r), logger.Interface(p.Target), logger.Method(p.Verb))
			panic(r)
		}
	}()
	application.CallMethod(c, p.Target, p.Verb, args, respond)
}

func (c *Connection) dispatchCallback(p record.Packet) {
	entry, ok := c.popPending(p.ID)
	if !ok {
		c.rejectPacket(p, "callback with no pending request")
		return
	}
	if err := entry.onResponse(p); err != nil {
		c.closeFatal(err)
	}
}

func (c *Connection) dispatchEvent(p record.Packet) {
	args, _ := p.Args.Array()
	c.events.Emit("event", p.Target, p.Verb, args)

	c.mu.Lock()
	proxy := c.remoteProxies[p.Target]
	c.mu.Unlock()
	if proxy != nil {
		proxy.emitLocal(p.Verb, args)
	}
}

func (c *Connection) dispatchInspect(p record.Packet) {
	application, ok := c.Application()
	if !ok {
		c.sendCallback(p.ID, jstperr.New(jstperr.InterfaceNotFound), nil)
		return
	}
	names, ok := application.GetMethods(p.Target)
	if !ok {
		c.sendCallback(p.ID, jstperr.New(jstperr.InterfaceNotFound), nil)
		return
	}
	vals := make([]record.Value, len(names))
	for i, n := range names {
		vals[i] = record.String(n)
	}
	c.sendCallback(p.ID, nil, vals)
}

func (c *Connection) dispatchPing(p record.Packet) {
	_ = c.send(record.EncodePacket(record.Packet{Kind: record.PacketPong, ID: p.ID}))
}

func (c *Connection) dispatchPong(p record.Packet) {
	entry, ok := c.popPending(p.ID)
	if !ok {
		// A duplicate or unmatched pong is silently ignored: pings are
		// fire-and-forget liveness probes, not a protocol violation.
		return
	}
	_ = entry.onResponse(p)
}

func (c *Connection) rejectPacket(p record.Packet, reason string) {
	metrics.PacketsRejectedTotal.WithLabelValues(reason).Inc()
	c.events.Emit("packetRejected", p, reason)
	c.log.Warn("packet rejected",
		logger.String("reason", reason),
		logger.PacketKind(string(p.Kind)),
		logger.PacketID(p.ID),
	)
}

func (c *Connection) closeFatal(err error) {
	c.events.Emit("error", err)
	_ = c.Close()
}

// Close tears the connection down: cancels the heartbeat, fails every
// pending callback with ErrConnectionClosed exactly once, and releases
// the transport. Idempotent.
func (c *Connection) Close() error {
	// A Close re-entered from inside the teardown below (a transport
	// whose End reports the close back synchronously) returns at once
	// instead of blocking on closeOnce.
	c.mu.Lock()
	closed := c.state == stateClosed
	c.mu.Unlock()
	if closed {
		return nil
	}
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.state = stateClosed
		pending := c.pendingCallbacks
		c.pendingCallbacks = make(map[int64]pendingCallback)
		hb := c.heartbeat
		c.heartbeat = nil
		c.mu.Unlock()

		if hb != nil {
			hb.Cancel()
		}
		for _, entry := range pending {
			entry.onFail(ErrConnectionClosed)
		}

		metrics.ConnectionsOpen.Dec()
		c.events.Emit("disconnect", c)
		_ = c.transport.End("")
	})
	return nil
}
