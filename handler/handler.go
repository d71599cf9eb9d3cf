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

// Package handler implements the typed, runtime-dispatched callable bound to
// an actor described in spec §4.2. A Handler is parametrized by the payload
// kind it accepts; the subscription registry invokes it through the
// message.HandlerRef interface so that registries never need the concrete
// payload type at compile time.
package handler

import (
	"fmt"
	"reflect"

	"github.com/tochemey/rotorgo/address"
	"github.com/tochemey/rotorgo/message"
)

// Owner is the minimal view of an actor a Handler needs: its address, for
// the registry's local-vs-forward routing decision (spec §4.3).
type Owner interface {
	OwnerAddress() address.Address
}

// Handler is a callable bound to an actor, typed by the payload kind P it
// accepts. Handlers are created through an actor's Subscribe* methods; the
// actor retains the returned Handler for teardown, and the registry retains
// it for dispatch — both strong references, mirroring spec §3's "Handler is
// shared-ownership".
type Handler[P any] struct {
	owner Owner
	fn    func(*P)
}

// New creates a Handler bound to owner that invokes fn on a typed payload.
func New[P any](owner Owner, fn func(*P)) *Handler[P] {
	return &Handler[P]{owner: owner, fn: fn}
}

// Tag returns the handler's payload dispatch tag: the pointer-to-P type,
// matching how payloads are always stored in an Envelope.
func (h *Handler[P]) Tag() reflect.Type {
	return reflect.TypeFor[*P]()
}

// OwnerAddress returns the address of the actor that owns this handler.
func (h *Handler[P]) OwnerAddress() address.Address {
	return h.owner.OwnerAddress()
}

// Invoke downcasts env's payload to *P and runs the bound function. A type
// mismatch is a programming error in the dispatch path (the registry is
// expected to only route envelopes whose Tag() equals this handler's Tag())
// and is asserted here rather than silently ignored, per spec §4.2.
func (h *Handler[P]) Invoke(env *message.Envelope) {
	payload, ok := env.Payload.(*P)
	if !ok {
		panic(fmt.Sprintf("handler: payload type mismatch: expected %T, got %T", payload, env.Payload))
	}
	h.fn(payload)
}

// enforce compilation error: Handler[P] must satisfy message.HandlerRef for
// any P.
var _ message.HandlerRef = (*Handler[struct{}])(nil)
