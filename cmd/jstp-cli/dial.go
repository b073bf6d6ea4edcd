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

package main

import (
	"crypto/tls"
	"fmt"
	"time"

	"github.com/sage-x-project/jstp/conn"
	"github.com/sage-x-project/jstp/policy"
	jtcp "github.com/sage-x-project/jstp/transport/tcp"
	jtls "github.com/sage-x-project/jstp/transport/tls"
	jws "github.com/sage-x-project/jstp/transport/websocket"
)

// dialAndHandshake dials addr over the named transport, completes the
// handshake against application using the login strategy if user is
// non-empty or the anonymous strategy otherwise, and returns the
// resulting client-role Connection once the session id is known.
func dialAndHandshake(transportName, addr, application, user, pass string) (*conn.Connection, error) {
	t, err := dialTransport(transportName, addr)
	if err != nil {
		return nil, fmt.Errorf("jstp-cli: dialing: %w", err)
	}

	var connectPolicy conn.ConnectPolicy = policy.Anonymous{}
	if user != "" {
		connectPolicy = policy.Login{Username: user, Password: pass}
	}

	c, err := conn.New(conn.Config{
		Transport: t,
		ClientCtx: &conn.ClientContext{Connect: connectPolicy},
	})
	if err != nil {
		return nil, fmt.Errorf("jstp-cli: constructing connection: %w", err)
	}

	done := make(chan error, 1)
	if err := c.Connect(application, func(err error, sessionID string) {
		done <- err
	}); err != nil {
		return nil, fmt.Errorf("jstp-cli: sending handshake: %w", err)
	}

	select {
	case err := <-done:
		if err != nil {
			return nil, fmt.Errorf("jstp-cli: handshake rejected: %w", err)
		}
	case <-time.After(10 * time.Second):
		return nil, fmt.Errorf("jstp-cli: handshake timed out")
	}

	return c, nil
}

func dialTransport(name, addr string) (conn.Transport, error) {
	switch name {
	case "tcp":
		return jtcp.Dial(addr)
	case "tls":
		return jtls.Dial(addr, &tls.Config{})
	case "ws":
		return jws.Dial(addr)
	default:
		return nil, fmt.Errorf("unknown transport %q", name)
	}
}
