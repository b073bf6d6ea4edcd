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

import "errors"

// ErrConnectionClosed is delivered to every pending callback when a
// Connection closes, and returned by outbound operations attempted
// after close.
var ErrConnectionClosed = errors.New("conn: connection closed")

// ErrHandshakeRequired is returned by outbound call/inspect/ping
// attempts made before the handshake completes.
var ErrHandshakeRequired = errors.New("conn: handshake not complete")

// ErrAlreadyHandshaking is returned when Handshake is called while a
// handshake is already in flight, or after the connection is open.
var ErrAlreadyHandshaking = errors.New("conn: handshake already sent or connection already open")

// protocolViolation is the internal reason carried into the
// "packetRejected" event and, for fatal classes, into the close that
// follows it.
type protocolViolation struct {
	reason string
	fatal  bool
}

func (p *protocolViolation) Error() string { return "conn: protocol violation: " + p.reason }
