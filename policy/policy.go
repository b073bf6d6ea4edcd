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

// Package policy supplies the connect/auth policy pairs JSTP needs at
// both ends of a handshake: an anonymous strategy with no credentials,
// and a username/password login strategy backed by bcrypt and JWT
// session tokens.
package policy

import (
	"github.com/sage-x-project/jstp/conn"
	"github.com/sage-x-project/jstp/record"
)

// Anonymous is a ConnectPolicy that handshakes with the "anonymous"
// strategy and no credentials.
type Anonymous struct{}

// Connect implements conn.ConnectPolicy.
func (Anonymous) Connect(appName string, c *conn.Connection, cb func(err error, sessionID string)) error {
	return c.Handshake(appName, "anonymous", nil, cb)
}

// Login is a ConnectPolicy that handshakes with the "login" strategy,
// sending [username, password] as credentials.
type Login struct {
	Username string
	Password string
}

// Connect implements conn.ConnectPolicy.
func (l Login) Connect(appName string, c *conn.Connection, cb func(err error, sessionID string)) error {
	creds := []record.Value{record.String(l.Username), record.String(l.Password)}
	return c.Handshake(appName, "login", creds, cb)
}
