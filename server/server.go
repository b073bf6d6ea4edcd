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

// Package server accepts transports, wraps each in a server-role
// conn.Connection, and tracks the resulting set of live connections for
// a JSTP host process.
package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sage-x-project/jstp/app"
	"github.com/sage-x-project/jstp/conn"
	"github.com/sage-x-project/jstp/internal/logger"
	"golang.org/x/sync/errgroup"
)

// Listener is a pull-style source of accepted transports, satisfied by
// transport/tcp.Listener and transport/tls.Listener. WebSocket
// transports are pushed to Accept by transport/websocket.Upgrader
// instead.
type Listener interface {
	Accept() (conn.Transport, error)
	Close() error
}

// registry is the conn.Registry adapter over a fixed application set.
type registry map[string]*app.Application

func (r registry) Lookup(name string) (*app.Application, bool) {
	a, ok := r[name]
	return a, ok
}

// Server owns a set of registered applications and every Connection
// accepted against them.
type Server struct {
	registry          registry
	auth              conn.AuthPolicy
	heartbeatInterval time.Duration
	log               logger.Logger

	mu          sync.RWMutex
	connections map[int64]*conn.Connection

	listenersMu         sync.Mutex
	connectListeners    []func(*conn.Connection)
	disconnectListeners []func(*conn.Connection)
}

// Option configures a Server at construction.
type Option func(*Server)

// WithHeartbeat enables a server-initiated heartbeat at interval on
// every accepted connection.
func WithHeartbeat(interval time.Duration) Option {
	return func(s *Server) { s.heartbeatInterval = interval }
}

// WithLogger overrides the default logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) { s.log = l }
}

// New builds a Server over apps, authenticating handshakes with auth.
// The reserved "jstp" application is registered automatically.
func New(auth conn.AuthPolicy, apps []*app.Application, opts ...Option) *Server {
	reg := registry{app.Reserved: app.NewReserved()}
	for _, a := range apps {
		reg[a.Name()] = a
	}
	s := &Server{
		registry:    reg,
		auth:        auth,
		log:         logger.GetDefaultLogger(),
		connections: make(map[int64]*conn.Connection),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Accept wraps t in a server-role Connection and tracks it. Connect
// listeners fire once the connection's handshake completes a session;
// disconnect listeners fire when it closes.
func (s *Server) Accept(t conn.Transport) (*conn.Connection, error) {
	c, err := conn.New(conn.Config{
		Transport:         t,
		ServerCtx:         &conn.ServerContext{Registry: s.registry, Auth: s.auth},
		Logger:            s.log,
		HeartbeatInterval: s.heartbeatInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("server: accepting connection: %w", err)
	}

	s.mu.Lock()
	s.connections[c.ID()] = c
	s.mu.Unlock()

	c.On("connect", func(args ...interface{}) {
		s.fireConnect(c)
	})
	c.On("disconnect", func(args ...interface{}) {
		s.mu.Lock()
		delete(s.connections, c.ID())
		s.mu.Unlock()
		s.fireDisconnect(c)
	})

	return c, nil
}

// Serve runs the server's accept loop against ln until ctx is
// cancelled or Accept returns an error, closing ln on exit.
func (s *Server) Serve(ctx context.Context, ln Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-ctx.Done()
		return ln.Close()
	})

	g.Go(func() error {
		for {
			t, err := ln.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("server: accept: %w", err)
			}
			if _, err := s.Accept(t); err != nil {
				s.log.Error("server: rejecting accepted transport", logger.Error(err))
			}
		}
	})

	return g.Wait()
}

// GetClientsArray returns a snapshot of every currently tracked
// connection, in no particular order.
func (s *Server) GetClientsArray() []*conn.Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*conn.Connection, 0, len(s.connections))
	for _, c := range s.connections {
		out = append(out, c)
	}
	return out
}

// ClientCount returns the number of currently tracked connections.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

// OnConnect registers fn to run whenever an accepted connection
// completes its handshake and has a session.
func (s *Server) OnConnect(fn func(*conn.Connection)) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.connectListeners = append(s.connectListeners, fn)
}

// OnDisconnect registers fn to run whenever a tracked connection
// closes.
func (s *Server) OnDisconnect(fn func(*conn.Connection)) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.disconnectListeners = append(s.disconnectListeners, fn)
}

func (s *Server) fireConnect(c *conn.Connection) {
	s.listenersMu.Lock()
	listeners := append([]func(*conn.Connection){}, s.connectListeners...)
	s.listenersMu.Unlock()
	for _, fn := range listeners {
		fn(c)
	}
}

func (s *Server) fireDisconnect(c *conn.Connection) {
	s.listenersMu.Lock()
	listeners := append([]func(*conn.Connection){}, s.disconnectListeners...)
	s.listenersMu.Unlock()
	for _, fn := range listeners {
		fn(c)
	}
}

// Close closes every tracked connection.
func (s *Server) Close() error {
	for _, c := range s.GetClientsArray() {
		_ = c.Close()
	}
	return nil
}
