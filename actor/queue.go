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

package actor

import (
	"time"

	"github.com/tochemey/rotorgo/internal/queue"
	"github.com/tochemey/rotorgo/internal/timer"
	"github.com/tochemey/rotorgo/message"
)

// Queue is the wake queue a Supervisor's event loop drains (spec §6's
// external interface contract: enqueue invocable from any goroutine,
// dequeue from the loop goroutine only).
type Queue interface {
	Push(*message.Envelope) bool
	Pop() (*message.Envelope, bool)
	Len() int64
	IsEmpty() bool
}

// enforce compilation error: the generic MPSC queue instantiated for
// *message.Envelope already satisfies Queue.
var _ Queue = (*queue.MpscQueue[*message.Envelope])(nil)

// NewQueue returns the default Queue implementation.
func NewQueue() Queue {
	return queue.NewMpscQueue[*message.Envelope]()
}

// TimerBackend arms and cancels independent deadlines, used both by the
// request/response correlator (one deadline per in-flight request) and by
// Actor for its init/shutdown deadlines and by the link protocol for
// UnlinkPolicy.ForceAfter.
type TimerBackend interface {
	Arm(d time.Duration, onFire func()) uint64
	Cancel(id uint64) bool
}

// enforce compilation error
var _ TimerBackend = (*timer.Backend)(nil)

// NewTimerBackend returns the default TimerBackend implementation.
func NewTimerBackend() TimerBackend {
	return timer.NewBackend()
}
