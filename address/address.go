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

// Package address defines the opaque identity token routed by a single
// supervisor. Addresses carry no payload type information: dispatch is
// resolved at the handler level (see package handler), never at the address.
package address

import (
	"github.com/google/uuid"
)

// Owner is the minimal view of a supervisor that an Address needs as a
// back-reference. It lets code that only holds an Address answer "does this
// address belong to me" without the address package importing the actor
// package that defines supervisors. The back-reference is never an ownership
// edge: an Address does not keep its owner alive.
type Owner interface {
	// SupervisorAddress returns the address that identifies the owning
	// supervisor itself.
	SupervisorAddress() Address
	// Alive reports whether the owning supervisor's event loop is still
	// running. A dead owner is how dispatch tells a stale Address from a
	// live one without scanning a registry.
	Alive() bool
}

// Address is an opaque identity bound to exactly one supervisor. Addresses
// are created only by a supervisor's CreateAddress; nothing else mints one.
// Equality is by value: two Address values compare equal with == iff they
// have the same owner and the same id, so minting the same id twice on one
// owner yields equal addresses.
type Address struct {
	owner Owner
	id    string
}

// New mints an Address owned by owner. Only package actor's Supervisor
// implementation calls this; it is exported so that package actor (which
// cannot live inside package address without an import cycle) can build
// addresses, not so arbitrary callers can forge identity.
func New(owner Owner, id string) Address {
	if id == "" {
		id = uuid.NewString()
	}
	return Address{owner: owner, id: id}
}

// ID returns the address's opaque identifier. It has no meaning beyond
// uniqueness and is exposed for logging/debugging, not for routing logic.
func (a Address) ID() string {
	return a.id
}

// Owner returns the supervisor that owns this address.
func (a Address) Owner() Owner {
	return a.owner
}

// IsZero reports whether a is the zero Address (no owner, e.g. an
// uninitialized reply-to field).
func (a Address) IsZero() bool {
	return a.owner == nil && a.id == ""
}

// LocalTo reports whether a is owned by the given supervisor, i.e. whether
// delivery to a can be performed in-process without a cross-supervisor hop.
func (a Address) LocalTo(owner Owner) bool {
	return a.owner == owner
}

// String returns the address's id, matching the teacher's convention of a
// Stringer that is useful in logs without encoding routing semantics.
func (a Address) String() string {
	return a.id
}
