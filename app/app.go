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

package app

import (
	"github.com/sage-x-project/jstp/jstperr"
	"github.com/sage-x-project/jstp/record"
)

// Application is a named collection of interfaces, registered once at
// construction and immutable thereafter (safe for concurrent read from
// every connection a server accepts).
type Application struct {
	name       string
	interfaces map[string]*Interface
}

// New builds an Application from a fixed interface map.
func New(name string, interfaces map[string]*Interface) *Application {
	if interfaces == nil {
		interfaces = make(map[string]*Interface)
	}
	return &Application{name: name, interfaces: interfaces}
}

// Name returns the application's registered name.
func (a *Application) Name() string { return a.name }

// Interface looks up one of the application's interfaces by name.
func (a *Application) Interface(name string) (*Interface, bool) {
	iface, ok := a.interfaces[name]
	return iface, ok
}

// CallMethod looks up interfaceName.methodName and invokes it,
// reporting InterfaceNotFound / MethodNotFound via cb when either is
// missing instead of invoking the handler.
func (a *Application) CallMethod(conn Conn, interfaceName, methodName string, args []record.Value, cb Callback) {
	iface, ok := a.interfaces[interfaceName]
	if !ok {
		cb(jstperr.New(jstperr.InterfaceNotFound))
		return
	}
	handler, ok := iface.Method(methodName)
	if !ok {
		cb(jstperr.New(jstperr.MethodNotFound))
		return
	}
	handler(conn, args, cb)
}

// GetMethods returns interfaceName's introspectable method list. ok is
// false when the interface does not exist.
func (a *Application) GetMethods(interfaceName string) (names []string, ok bool) {
	iface, ok := a.interfaces[interfaceName]
	if !ok {
		return nil, false
	}
	return iface.MethodNames(), true
}

// Reserved is the well-known "jstp" application name: an application
// with no interfaces that pre-auth clients may handshake into.
const Reserved = "jstp"

// NewReserved returns the reserved `jstp` application: no interfaces,
// used as the default handshake target before a client has picked its
// real application.
func NewReserved() *Application {
	return New(Reserved, map[string]*Interface{})
}
