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

// Package message defines the typed envelope that carries payloads between
// actors, plus the request/response correlation contract payload kinds opt
// into by embedding RequestHeader or ResponseHeader. Dispatch never inspects
// an Envelope's Payload structurally; it is opaque cargo routed by
// Destination and tagged at the handler by its concrete Go type (see package
// handler).
package message

import (
	"reflect"

	"github.com/tochemey/rotorgo/address"
)

// Envelope is the immutable wrapper `{destination, payload}` described in
// spec §4.1. Payload kinds are always passed and stored as pointers so that
// Request/Response header methods (which have pointer receivers) can stamp
// correlation metadata in place.
type Envelope struct {
	Destination address.Address
	Payload     any
}

// New wraps payload for delivery to dest.
func New(dest address.Address, payload any) *Envelope {
	return &Envelope{Destination: dest, Payload: payload}
}

// Tag returns the payload's dispatch tag: the concrete Go type carried by
// the envelope. Two envelopes carrying instances of the same payload kind
// always produce an equal Tag, which is what the subscription registry keys
// handlers on.
func (e *Envelope) Tag() reflect.Type {
	return reflect.TypeOf(e.Payload)
}

// Request is implemented by payload kinds that declare a companion response
// kind, i.e. "request kinds" per spec §3. Embed RequestHeader to satisfy it.
// The setter is unexported: outside this package, a payload's correlation
// metadata is stamped only through StampRequest (which package actor's
// Request, Link and Unlink call before sending).
type Request interface {
	setReplyTo(replyTo address.Address, requestID uint64)
	// ReplyTo returns the address the response must be delivered to.
	ReplyTo() address.Address
	// RequestID returns the id the response must carry back.
	RequestID() uint64
}

// Response is implemented by payload kinds that correlate to a prior
// request, i.e. "response kinds". Embed ResponseHeader to satisfy it.
type Response interface {
	setCorrelation(requestID uint64, err error)
	// Correlation returns the request id this response answers, and a
	// non-nil error when the response represents a failure (including a
	// synthesized request-timeout response).
	Correlation() (requestID uint64, err error)
}

// RequestHeader is embedded into a payload struct to make it a request kind.
//
//	type Ping struct {
//	    message.RequestHeader
//	    N int
//	}
type RequestHeader struct {
	replyTo   address.Address
	requestID uint64
}

func (h *RequestHeader) setReplyTo(replyTo address.Address, requestID uint64) {
	h.replyTo = replyTo
	h.requestID = requestID
}

// ReplyTo returns the address the response must be delivered to.
func (h *RequestHeader) ReplyTo() address.Address { return h.replyTo }

// RequestID returns the id the response must carry back.
func (h *RequestHeader) RequestID() uint64 { return h.requestID }

// ResponseHeader is embedded into a payload struct to make it a response
// kind, correlated back to the request that triggered it.
//
//	type Pong struct {
//	    message.ResponseHeader
//	    N int
//	}
type ResponseHeader struct {
	requestID uint64
	err       error
}

func (h *ResponseHeader) setCorrelation(requestID uint64, err error) {
	h.requestID = requestID
	h.err = err
}

// Correlation returns the request id this response answers and any error.
func (h *ResponseHeader) Correlation() (uint64, error) { return h.requestID, h.err }

// StampRequest sets the correlation metadata on a request payload. It exists
// because Request.setReplyTo is unexported: only code inside package
// message can call it directly, and this is the one entry point package
// actor uses (in Request, Link and Unlink) to stamp an outgoing request
// before sending it.
func StampRequest(r Request, replyTo address.Address, requestID uint64) {
	r.setReplyTo(replyTo, requestID)
}

// StampResponse sets the correlation metadata on a response payload, the
// Response-side counterpart to StampRequest. Used both by a handler
// replying to a genuine request and by package actor when synthesizing a
// timeout response.
func StampResponse(r Response, requestID uint64, err error) {
	r.setCorrelation(requestID, err)
}

// HandlerCall is the forwarding envelope used when a handler's owning actor
// lives on a different supervisor than the message's destination address:
// the subscription registry wraps the original envelope and re-enqueues it
// on the handler's own supervisor (spec §4.3, grounded on rotor's
// `payload::handler_call_t`).
type HandlerCall struct {
	OrigMessage *Envelope
	Handler     HandlerRef
}

// HandlerRef is the minimal view of a handler the message package needs:
// enough to invoke it without importing package handler (which would create
// an import cycle, since handlers are addressed by the actor that owns
// them).
type HandlerRef interface {
	// Invoke delivers env to the handler, asserting env.Payload matches the
	// handler's declared payload kind.
	Invoke(env *Envelope)
	// Tag returns the handler's payload dispatch tag, matched against
	// Envelope.Tag() to route deliveries (spec §4.2's message_type_tag).
	Tag() reflect.Type
	// OwnerAddress returns the address of the actor that owns this handler,
	// used by the subscription registry to decide whether delivery can
	// happen in-process or must be forwarded to another supervisor.
	OwnerAddress() address.Address
}
