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

import "github.com/tochemey/rotorgo/message"

// StateRequest/StateResponse let one actor ask another for its current FSM
// position by address, supplemented from rotor's state_request_t /
// state_response_t (messages.hpp) since it is pure lifecycle introspection
// and fits the request/response correlator like any other request kind
// (spec §4.4).
type StateRequest struct {
	message.RequestHeader
}

// StateResponse carries the target's lifecycle position, rendered as its
// String() form so callers outside this package can compare/log it without
// depending on the unexported lifecycleState type.
type StateResponse struct {
	message.ResponseHeader
	State string
}

// ListenForStateRequests installs the standard StateRequest handler on a,
// answering with a's own current lifecycle state. Any actor that wants to
// be introspectable calls this once after being spawned.
func ListenForStateRequests(sup *Supervisor, a *Actor) {
	Subscribe(a, func(req *StateRequest) {
		sup.Reply(req, &StateResponse{State: a.State().String()}, nil)
	})
}
