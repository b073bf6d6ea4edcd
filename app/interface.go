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

// Package app implements the JSTP application registry: named
// applications, each exposing named interfaces of named methods, with
// dispatch and introspection per the protocol's call/inspect packets.
package app

import "github.com/sage-x-project/jstp/record"

// Conn is the minimal view of a connection a handler needs. It is
// satisfied structurally by conn.Connection; defining it here (rather
// than importing the conn package) keeps app free of a dependency
// cycle, since conn depends on app for dispatch.
type Conn interface {
	ID() int64
	SessionID() (string, bool)
	Emit(interfaceName, eventName string, args []record.Value) error
}

// Callback is how a Handler reports its result: err nil and results on
// success, err non-nil (and results ignored) on failure.
type Callback func(err error, results ...record.Value)

// Handler implements one interface method.
type Handler func(conn Conn, args []record.Value, cb Callback)

// Interface is a named group of methods, in registration order.
type Interface struct {
	methods []string
	byName  map[string]Handler
}

// NewInterface returns an empty Interface.
func NewInterface() *Interface {
	return &Interface{byName: make(map[string]Handler)}
}

// Register adds or replaces a method. Re-registering an existing name
// keeps its original position in MethodNames.
func (i *Interface) Register(name string, h Handler) {
	if _, exists := i.byName[name]; !exists {
		i.methods = append(i.methods, name)
	}
	i.byName[name] = h
}

// Method looks up a handler by name.
func (i *Interface) Method(name string) (Handler, bool) {
	h, ok := i.byName[name]
	return h, ok
}

// MethodNames returns registered method names in insertion order,
// excluding any name beginning with `_`.
func (i *Interface) MethodNames() []string {
	out := make([]string, 0, len(i.methods))
	for _, name := range i.methods {
		if len(name) > 0 && name[0] == '_' {
			continue
		}
		out = append(out, name)
	}
	return out
}
