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

// Package tcp implements JSTP's plain-TCP transport: StreamTransport's
// balanced-record framing over a net.Conn dialed or accepted with no
// extra security layer.
package tcp

import (
	"net"

	"github.com/sage-x-project/jstp/conn"
	"github.com/sage-x-project/jstp/transport"
)

// Dial connects to addr and returns a transport ready for
// conn.Config.Transport.
func Dial(addr string) (*transport.StreamTransport, error) {
	nc, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return transport.NewStreamTransport(nc), nil
}

// Listener accepts plain-TCP transports.
type Listener struct {
	ln net.Listener
}

// Listen starts accepting connections on addr.
func Listen(addr string) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Listener{ln: ln}, nil
}

// Accept implements server.Listener.
func (l *Listener) Accept() (conn.Transport, error) {
	nc, err := l.ln.Accept()
	if err != nil {
		return nil, err
	}
	return transport.NewStreamTransport(nc), nil
}

// Close stops the listener.
func (l *Listener) Close() error { return l.ln.Close() }

// Addr returns the listener's bound address.
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }
