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
	"reflect"
	"sync"
	"time"

	"github.com/tochemey/rotorgo/message"
)

// pendingRequest is one in-flight request awaiting a response or a timeout
// (spec §4.4).
type pendingRequest struct {
	deliver  func(message.Response)
	timerID  uint64
	zeroResp func(requestID uint64) message.Response
}

// correlator matches outgoing requests to their responses by an
// ever-increasing request id, and synthesizes a timeout response when a
// deadline fires before a real one arrives. One correlator lives per
// Supervisor.
type correlator struct {
	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]*pendingRequest
	timers  TimerBackend
}

func newCorrelator(timers TimerBackend) *correlator {
	return &correlator{pending: make(map[uint64]*pendingRequest), timers: timers}
}

func (c *correlator) nextRequestID() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	return c.nextID
}

// register records a pending request and arms its timeout. zeroResp builds
// a fresh zero-value response of the request's expected response kind, used
// only if the timeout fires first.
func (c *correlator) register(id uint64, timeout time.Duration, deliver func(message.Response), zeroResp func(uint64) message.Response) {
	pr := &pendingRequest{deliver: deliver, zeroResp: zeroResp}
	c.mu.Lock()
	c.pending[id] = pr
	c.mu.Unlock()

	pr.timerID = c.timers.Arm(timeout, func() {
		c.timeout(id)
	})
}

// resolve delivers a genuine response. Returns false if id is unknown
// (already resolved or already timed out).
func (c *correlator) resolve(id uint64, resp message.Response) bool {
	c.mu.Lock()
	pr, ok := c.pending[id]
	if ok {
		delete(c.pending, id)
	}
	c.mu.Unlock()
	if !ok {
		return false
	}
	c.timers.Cancel(pr.timerID)
	pr.deliver(resp)
	return true
}

// timeout synthesizes a response carrying ErrRequestTimeout and delivers it,
// using the typed-nil-pointer-via-interface-boxing trick: a zero value of
// the concrete response pointer type is still a usable, correctly-typed
// message.Response once reflect.New populates a real (non-nil) struct, so
// callers of Request never need a special timeout case beyond checking the
// returned error.
func (c *correlator) timeout(id uint64) {
	c.mu.Lock()
	pr, ok := c.pending[id]
	if ok {
		delete(c.pending, id)
	}
	c.mu.Unlock()
	if !ok {
		return
	}
	pr.deliver(pr.zeroResp(id))
}

// cancel drops a pending request without delivering anything and stops its
// timeout timer.
func (c *correlator) cancel(id uint64) {
	c.mu.Lock()
	pr, ok := c.pending[id]
	if ok {
		delete(c.pending, id)
	}
	c.mu.Unlock()
	if ok {
		c.timers.Cancel(pr.timerID)
	}
}

// newZeroResponse builds the typed-nil-boxing zero value described above for
// response kind R and stamps it with the timeout correlation.
func newZeroResponse[R message.Response](requestID uint64) message.Response {
	var zero R
	t := reflect.TypeOf(zero)
	var resp R
	if t != nil && t.Kind() == reflect.Ptr {
		resp = reflect.New(t.Elem()).Interface().(R)
	}
	message.StampResponse(resp, requestID, ErrRequestTimeout)
	return resp
}
