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

package conn

import "github.com/sage-x-project/jstp/record"

// RemoteProxy is the client-side façade for a remote interface obtained
// via Connection.Inspect: a callable per discovered method, plus an
// event sink that re-emits events the connection receives for this
// interface.
type RemoteProxy struct {
	conn          *Connection
	interfaceName string
	methods       []string
	events        *emitter
}

func newRemoteProxy(c *Connection, interfaceName string, methods []string) *RemoteProxy {
	return &RemoteProxy{conn: c, interfaceName: interfaceName, methods: methods, events: newEmitter()}
}

// InterfaceName returns the proxied interface's name.
func (p *RemoteProxy) InterfaceName() string { return p.interfaceName }

// Methods returns the method names discovered at inspect time.
func (p *RemoteProxy) Methods() []string {
	out := make([]string, len(p.methods))
	copy(out, p.methods)
	return out
}

// Call is shorthand for conn.Call(interfaceName, method, args, cb).
func (p *RemoteProxy) Call(method string, args []record.Value, cb func(err error, results ...record.Value)) error {
	return p.conn.Call(p.interfaceName, method, args, cb)
}

// On registers a listener for eventName, fired when a matching event
// packet arrives for this interface.
func (p *RemoteProxy) On(eventName string, listener func(args []record.Value)) {
	p.events.On(eventName, func(raw ...interface{}) {
		args, _ := raw[0].([]record.Value)
		listener(args)
	})
}

// Emit sends an event packet for this interface.
func (p *RemoteProxy) Emit(eventName string, args []record.Value) error {
	return p.conn.Emit(p.interfaceName, eventName, args)
}

// emitLocal re-emits an event packet received for this interface to
// the proxy's own listeners.
func (p *RemoteProxy) emitLocal(eventName string, args []record.Value) {
	p.events.Emit(eventName, args)
}
