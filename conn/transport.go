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

// Transport is what a Connection needs from its byte-framing layer.
// Implementations (transport/tcp, transport/tls, transport/websocket)
// own a single reader goroutine that calls Sink's methods as it
// parses incoming data: OnPacket for each parsed record, OnError for a
// record that fails to parse (reading then continues), and OnClose or
// OnError once the underlying stream stops.
type Transport interface {
	// Send transmits one packet's serialized text as a single logical
	// message, preserving message boundaries.
	Send(data string) error
	// End optionally transmits a final message, then closes.
	End(data string) error
	// RemoteAddress is for diagnostics only.
	RemoteAddress() string
	// SetSink installs the Connection that should receive this
	// transport's events. Called once, before the transport's reader
	// goroutine starts.
	SetSink(sink Sink)
}

// Sink receives a transport's parsed packets and lifecycle events. A
// *Connection implements Sink.
type Sink interface {
	OnPacket(v record.Value)
	OnClose()
	OnError(err error)
}
