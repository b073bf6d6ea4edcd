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

import "sync"

// emitter is a minimal explicit listener table keyed by event name,
// with deterministic insertion-order invocation. Emit is synchronous;
// listeners must not assume re-entrancy safety.
type emitter struct {
	mu        sync.Mutex
	listeners map[string][]func(args ...interface{})
}

func newEmitter() *emitter {
	return &emitter{listeners: make(map[string][]func(args ...interface{}))}
}

// On registers a listener for event, appended after any existing ones.
func (e *emitter) On(event string, fn func(args ...interface{})) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners[event] = append(e.listeners[event], fn)
}

// Emit invokes event's listeners, in registration order, with a
// snapshot of the listener slice so a listener registering another
// listener mid-emit does not see it fire in the same round.
func (e *emitter) Emit(event string, args ...interface{}) {
	e.mu.Lock()
	fns := make([]func(args ...interface{}), len(e.listeners[event]))
	copy(fns, e.listeners[event])
	e.mu.Unlock()

	for _, fn := range fns {
		fn(args...)
	}
}
