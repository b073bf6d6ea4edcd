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

import (
	"github.com/sage-x-project/jstp/app"
	"github.com/sage-x-project/jstp/record"
)

// ConnectPolicy decides what a client sends as handshake arguments. The
// default policy (package policy) sends the anonymous strategy with no
// credentials; a login-capable policy sends username/password.
type ConnectPolicy interface {
	Connect(appName string, c *Connection, cb func(err error, sessionID string)) error
}

// AuthPolicy runs server-side when a handshake arrives, deciding whether
// to admit the connection and mint its session id.
type AuthPolicy interface {
	StartSession(c *Connection, application *app.Application, strategy string, credentials []record.Value) (username, sessionID string, err error)
}

// Registry resolves an application by name for an accepting server.
type Registry interface {
	Lookup(name string) (*app.Application, bool)
}
