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

package message_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/rotorgo/address"
	"github.com/tochemey/rotorgo/message"
)

type pingRequest struct {
	message.RequestHeader
	N int
}

type pongResponse struct {
	message.ResponseHeader
	N int
}

type fakeOwner struct{ alive bool }

func (f *fakeOwner) SupervisorAddress() address.Address { return address.Address{} }
func (f *fakeOwner) Alive() bool                        { return f.alive }

func TestEnvelopeTag(t *testing.T) {
	owner := &fakeOwner{alive: true}
	dest := address.New(owner, "dest")
	env := message.New(dest, &pingRequest{N: 1})

	assert.Equal(t, reflect.TypeOf(&pingRequest{}), env.Tag())
	assert.Equal(t, dest, env.Destination)
}

func TestStampRequestSetsReplyToAndID(t *testing.T) {
	owner := &fakeOwner{alive: true}
	replyTo := address.New(owner, "caller")
	req := &pingRequest{N: 42}

	message.StampRequest(req, replyTo, 7)

	assert.Equal(t, replyTo, req.ReplyTo())
	assert.Equal(t, uint64(7), req.RequestID())
}

func TestStampResponseSetsCorrelationAndError(t *testing.T) {
	resp := &pongResponse{N: 42}

	message.StampResponse(resp, 7, nil)
	id, err := resp.Correlation()
	require.Equal(t, uint64(7), id)
	assert.NoError(t, err)

	sentinel := errors.New("boom")
	message.StampResponse(resp, 8, sentinel)
	id, err = resp.Correlation()
	assert.Equal(t, uint64(8), id)
	assert.ErrorIs(t, err, sentinel)
}

func TestHandlerCallCarriesOriginalEnvelopeAndHandler(t *testing.T) {
	owner := &fakeOwner{alive: true}
	dest := address.New(owner, "dest")
	orig := message.New(dest, &pingRequest{N: 1})
	hc := &message.HandlerCall{OrigMessage: orig, Handler: nil}

	assert.Same(t, orig, hc.OrigMessage)
}
