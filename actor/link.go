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

	"github.com/tochemey/rotorgo/address"
	"github.com/tochemey/rotorgo/message"
)

// The link protocol implements spec §4.9, built out from the commented-out
// link/unlink handlers in rotor's actor_base.cpp:228-291. Two actors link so
// that either side's shutdown notifies the other. Linking and unlinking are
// ordinary request/response exchanges routed through the correlator, same as
// any other request kind (spec §5, §9): nothing here mutates a peer's state
// directly from the caller's goroutine. Unlinking is unilateral after
// UnlinkPolicy.ForceAfter, resolving the Open Question on unlink authority
// (see DESIGN.md).

// linkState tracks one side of a link this actor holds with a peer.
type linkState struct {
	peer address.Address
}

// LinkRequest asks a peer to link back. The peer to link to is the
// requester itself, taken from the header's ReplyTo once delivered; no
// separate field is needed.
type LinkRequest struct {
	message.RequestHeader
}

// LinkResponse acknowledges a LinkRequest. Accepted is false when the peer
// declines the link outright (e.g. it does not want incoming links);
// a peer that never installs the link protocol at all instead causes the
// request to deadletter and the caller's Link to time out.
type LinkResponse struct {
	message.ResponseHeader
	Accepted bool
}

// UnlinkRequest asks a peer to drop a previously established link.
type UnlinkRequest struct {
	message.RequestHeader
}

// UnlinkResponse acknowledges an UnlinkRequest.
type UnlinkResponse struct {
	message.ResponseHeader
}

// UnlinkNotify is delivered unilaterally to a peer that never acknowledged
// an UnlinkRequest within UnlinkPolicy.ForceAfter.
type UnlinkNotify struct {
	Peer address.Address
}

// LinkTerminated is delivered to every linked peer when an actor finishes
// shutting down, so peers can react to the failure/departure without
// polling State().
type LinkTerminated struct {
	Peer   address.Address
	Reason string
}

// installLinkProtocol subscribes a to the link/unlink request kinds on its
// own address. It runs for every spawned actor so that any actor can
// participate in linking without extra setup, and is torn down for free by
// the same unsubscribeAll pass that removes every other handler during
// shutdown: once it is gone, an incoming LinkRequest deadletters and the
// caller's Link resolves as a timeout rather than needing a distinct
// rejection path.
func installLinkProtocol(s *Supervisor, a *Actor) {
	Subscribe(a, func(req *LinkRequest) {
		peer := req.ReplyTo()
		a.linksMu.Lock()
		a.links[peer.ID()] = &linkState{peer: peer}
		a.linksMu.Unlock()
		s.Reply(req, &LinkResponse{Accepted: true}, nil)
	})

	Subscribe(a, func(req *UnlinkRequest) {
		a.linksMu.Lock()
		delete(a.links, req.ReplyTo().ID())
		a.linksMu.Unlock()
		s.Reply(req, &UnlinkResponse{}, nil)
	})

	Subscribe(a, func(n *UnlinkNotify) {
		a.linksMu.Lock()
		delete(a.links, n.Peer.ID())
		a.linksMu.Unlock()
	})
}

// Link asks peer to establish a bidirectional link: once accepted, either
// side's shutdown delivers LinkTerminated to the other. onResult is invoked
// exactly once with the outcome, either from this call's own goroutine (a
// nil/zero peer is rejected synchronously) or from whichever goroutine ends
// up resolving the correlator entry (the timer goroutine on timeout, or the
// dispatching supervisor's event loop otherwise). Link never blocks the
// caller, so it is safe to call from within a handler running on the same
// event loop that must go on to process the eventual response.
func (a *Actor) Link(peer address.Address, timeout time.Duration, onResult func(error)) {
	if onResult == nil {
		onResult = func(error) {}
	}
	if peer.IsZero() {
		onResult(ErrActorNotLinkable)
		return
	}

	s := a.supervisor
	req := &LinkRequest{}
	id := s.correlator.nextRequestID()
	message.StampRequest(req, a.self, id)
	s.correlator.register(id, timeout, func(resp message.Response) {
		if _, err := resp.Correlation(); err != nil {
			onResult(err)
			return
		}
		lr, ok := resp.(*LinkResponse)
		if !ok || !lr.Accepted {
			onResult(ErrActorNotLinkable)
			return
		}
		a.linksMu.Lock()
		a.links[peer.ID()] = &linkState{peer: peer}
		a.linksMu.Unlock()
		onResult(nil)
	}, newZeroResponse[*LinkResponse])
	s.dispatch(message.New(peer, req))
}

// Unlink severs a previously established link. It waits up to
// UnlinkPolicy.ForceAfter for the peer's UnlinkResponse; if that window
// passes without one — the peer is gone, unreachable, or simply slow — the
// link is dropped locally anyway and the peer is sent UnlinkNotify
// unilaterally, matching spec §4.9's resolution that unlink authority is
// never required to be mutual. A no-op if peer is not currently linked.
func (a *Actor) Unlink(peer address.Address) {
	a.linksMu.Lock()
	_, linked := a.links[peer.ID()]
	a.linksMu.Unlock()
	if !linked {
		return
	}

	s := a.supervisor
	req := &UnlinkRequest{}
	id := s.correlator.nextRequestID()
	message.StampRequest(req, a.self, id)
	s.correlator.register(id, a.unlinkPolicy.ForceAfter, func(resp message.Response) {
		_, err := resp.Correlation()
		a.linksMu.Lock()
		delete(a.links, peer.ID())
		a.linksMu.Unlock()
		if err != nil {
			a.Send(peer, &UnlinkNotify{Peer: a.self})
		}
	}, newZeroResponse[*UnlinkResponse])
	s.dispatch(message.New(peer, req))
}

// unlinkAll runs during shutdown: every linked peer is told the actor
// terminated. Any Unlink already in flight resolves independently through
// its own correlator entry; there is nothing left here to cancel since
// ForceAfter enforcement lives entirely in the correlator's timer now.
func (a *Actor) unlinkAll() {
	a.linksMu.Lock()
	links := a.links
	a.links = make(map[string]*linkState)
	a.linksMu.Unlock()

	for _, st := range links {
		a.Send(st.peer, &LinkTerminated{Peer: a.self, Reason: a.shutdownReason})
	}
}
