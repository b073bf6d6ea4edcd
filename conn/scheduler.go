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
	"sync"
	"time"
)

// scheduledTask is a cancellable, self-rescheduling timer owned by a
// Connection; its Cancel is invoked on close.
type scheduledTask struct {
	mu        sync.Mutex
	timer     *time.Timer
	cancelled bool
}

// every schedules fn to run every d, starting after the first d elapses,
// until Cancel is called. fn reschedules itself on each firing so a
// slow fn does not cause overlapping runs.
func every(d time.Duration, fn func()) *scheduledTask {
	t := &scheduledTask{}
	var tick func()
	tick = func() {
		t.mu.Lock()
		if t.cancelled {
			t.mu.Unlock()
			return
		}
		t.timer = time.AfterFunc(d, tick)
		t.mu.Unlock()
		fn()
	}
	t.mu.Lock()
	t.timer = time.AfterFunc(d, tick)
	t.mu.Unlock()
	return t
}

// Cancel stops future firings. Idempotent.
func (t *scheduledTask) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled {
		return
	}
	t.cancelled = true
	if t.timer != nil {
		t.timer.Stop()
	}
}
