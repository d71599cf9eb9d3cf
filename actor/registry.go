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
	"sync"

	"github.com/tochemey/rotorgo/address"
	"github.com/tochemey/rotorgo/message"
)

// The Registry is the built-in service-discovery actor described in spec
// §4.8: a name-to-address bindings table, mutated and queried entirely
// through the ordinary request/response path so it needs no special-cased
// dispatch.

// RegisterRequest asks the Registry to bind name to Target.
type RegisterRequest struct {
	message.RequestHeader
	Name   string
	Target address.Address
}

// RegisterResponse reports whether the bind succeeded. Its correlation error
// is ErrNameAlreadyRegistered when name was already bound, whichever address
// it is bound to (registering the same name and address twice also fails).
type RegisterResponse struct {
	message.ResponseHeader
}

// DeregisterRequest asks the Registry to remove a binding.
type DeregisterRequest struct {
	message.RequestHeader
	Name string
}

// DeregisterResponse acknowledges a DeregisterRequest.
type DeregisterResponse struct {
	message.ResponseHeader
}

// LookupRequest asks the Registry to resolve a name.
type LookupRequest struct {
	message.RequestHeader
	Name string
}

// LookupResponse carries the resolved address, or ErrServiceNotFound.
type LookupResponse struct {
	message.ResponseHeader
	Target address.Address
}

// registryState is the Registry actor's private bindings table.
type registryState struct {
	mu       sync.RWMutex
	bindings map[string]address.Address
}

// NewRegistry spawns a Registry actor on sup under id and returns both the
// Actor and the address Spawn gave it.
func NewRegistry(sup *Supervisor, id string, opts ...ActorOption) (*Actor, address.Address) {
	st := &registryState{bindings: make(map[string]address.Address)}
	a := New(nil, opts...)
	addr := sup.Spawn(a, id)

	Subscribe(a, func(req *RegisterRequest) {
		st.mu.Lock()
		_, exists := st.bindings[req.Name]
		if !exists {
			st.bindings[req.Name] = req.Target
		}
		st.mu.Unlock()

		var err error
		if exists {
			err = NewErrNameAlreadyRegistered(req.Name)
		}
		sup.Reply(req, &RegisterResponse{}, err)
	})

	Subscribe(a, func(req *DeregisterRequest) {
		st.mu.Lock()
		delete(st.bindings, req.Name)
		st.mu.Unlock()
		sup.Reply(req, &DeregisterResponse{}, nil)
	})

	Subscribe(a, func(req *LookupRequest) {
		st.mu.RLock()
		target, ok := st.bindings[req.Name]
		st.mu.RUnlock()

		var err error
		if !ok {
			err = NewErrServiceNotFound(req.Name)
		}
		sup.Reply(req, &LookupResponse{Target: target}, err)
	})

	return a, addr
}
