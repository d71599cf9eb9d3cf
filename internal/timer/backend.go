/*
 * MIT License
 *
 * Copyright (c) 2022-2024 Tochemey
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package timer

import (
	"sync"
	"time"
)

// Backend arms and cancels many independent, concurrently-live deadlines,
// each identified by an opaque id it hands back from Arm. Timer (timer.go)
// is a single pausable/resettable timer; Backend exists alongside it because
// the request/response correlator needs one live deadline per in-flight
// request, and each actor's init/shutdown deadline is armed here as well.
type Backend struct {
	mu     sync.Mutex
	nextID uint64
	timers map[uint64]*time.Timer
}

// NewBackend creates an empty Backend.
func NewBackend() *Backend {
	return &Backend{timers: make(map[uint64]*time.Timer)}
}

// Arm schedules onFire to run after d and returns the id needed to Cancel
// it. onFire runs on its own goroutine, exactly like time.AfterFunc.
func (b *Backend) Arm(d time.Duration, onFire func()) uint64 {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.mu.Unlock()

	t := time.AfterFunc(d, func() {
		b.mu.Lock()
		delete(b.timers, id)
		b.mu.Unlock()
		onFire()
	})

	b.mu.Lock()
	b.timers[id] = t
	b.mu.Unlock()
	return id
}

// Cancel stops the timer identified by id, if it is still pending. Returns
// false if id is unknown or already fired.
func (b *Backend) Cancel(id uint64) bool {
	b.mu.Lock()
	t, ok := b.timers[id]
	if ok {
		delete(b.timers, id)
	}
	b.mu.Unlock()
	if !ok {
		return false
	}
	return t.Stop()
}

// Len reports how many deadlines are currently armed, for diagnostics.
func (b *Backend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.timers)
}
