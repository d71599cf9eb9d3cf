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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/rotorgo/internal/timer"
	"github.com/tochemey/rotorgo/message"
)

type pingReq struct {
	message.RequestHeader
	N int
}

type pongResp struct {
	message.ResponseHeader
	N int
}

func TestCorrelatorResolveDeliversGenuineResponse(t *testing.T) {
	c := newCorrelator(timer.NewBackend())
	id := c.nextRequestID()

	delivered := make(chan message.Response, 1)
	c.register(id, time.Second, func(r message.Response) { delivered <- r }, newZeroResponse[*pongResp])

	resp := &pongResp{N: 5}
	ok := c.resolve(id, resp)
	require.True(t, ok)

	got := <-delivered
	assert.Same(t, resp, got)
}

func TestCorrelatorResolveUnknownIDReturnsFalse(t *testing.T) {
	c := newCorrelator(timer.NewBackend())
	assert.False(t, c.resolve(999, &pongResp{}))
}

func TestCorrelatorTimeoutSynthesizesZeroResponse(t *testing.T) {
	c := newCorrelator(timer.NewBackend())
	id := c.nextRequestID()

	delivered := make(chan message.Response, 1)
	c.register(id, 10*time.Millisecond, func(r message.Response) { delivered <- r }, newZeroResponse[*pongResp])

	select {
	case r := <-delivered:
		resp, ok := r.(*pongResp)
		require.True(t, ok)
		assert.NotNil(t, resp)
		_, err := resp.Correlation()
		assert.ErrorIs(t, err, ErrRequestTimeout)
	case <-time.After(time.Second):
		t.Fatal("timeout response was never delivered")
	}
}

func TestCorrelatorResolveAfterTimeoutReturnsFalse(t *testing.T) {
	c := newCorrelator(timer.NewBackend())
	id := c.nextRequestID()

	delivered := make(chan message.Response, 1)
	c.register(id, 10*time.Millisecond, func(r message.Response) { delivered <- r }, newZeroResponse[*pongResp])
	<-delivered // wait for the timeout to fire and clear the pending entry

	assert.False(t, c.resolve(id, &pongResp{}), "a response arriving after timeout must be dropped")
}

func TestCorrelatorCancelPreventsTimeoutDelivery(t *testing.T) {
	c := newCorrelator(timer.NewBackend())
	id := c.nextRequestID()

	delivered := make(chan message.Response, 1)
	c.register(id, 20*time.Millisecond, func(r message.Response) { delivered <- r }, newZeroResponse[*pongResp])
	c.cancel(id)

	select {
	case <-delivered:
		t.Fatal("cancelled request must not deliver a timeout response")
	case <-time.After(60 * time.Millisecond):
	}
}

func TestNextRequestIDIsMonotoneAndUnique(t *testing.T) {
	c := newCorrelator(timer.NewBackend())
	seen := make(map[uint64]bool)
	var prev uint64
	for i := 0; i < 100; i++ {
		id := c.nextRequestID()
		assert.False(t, seen[id])
		seen[id] = true
		assert.Greater(t, id, prev)
		prev = id
	}
}
