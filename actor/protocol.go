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

// The types below are the internal control-message payloads a Supervisor
// routes to itself and to the actors it owns, grounded on the payload
// taxonomy in rotor's messages.hpp (initialize_actor_t, shutdown_trigger_t,
// shutdown_request_t). They are never exposed outside package actor:
// application payloads flow through message.Envelope exactly like any other
// kind.
//
// rotor's messages.hpp also has start_actor_t, create_actor_t,
// subscription_confirmation_t, external_subscription_t/unsubscription_t and
// commit_unsubscription_t: async control messages that round-trip a
// subscribe/unsubscribe or a spawn through the owning supervisor's own
// queue. Subscribe/SubscribeAt/Unsubscribe (actor.go) and Spawn
// (supervisor.go) instead mutate the registry and mint addresses directly
// from the calling goroutine, since registerSubscription/removeSubscription
// already take the target supervisor's registryMu and are safe to call from
// any goroutine; the extra message hop bought rotor thread-affinity, which
// this implementation gets from a mutex instead. See DESIGN.md.

// initializeActor kicks off an actor's INIT slot poll.
type initializeActor struct {
	target *Actor
}

// shutdownTrigger is the first hop of a shutdown: it asks the target actor
// to begin cascading a deactivation of its plugin pipeline.
type shutdownTrigger struct {
	target *Actor
	reason string
}

// deadletter records a message that could not be delivered to its
// destination: the destination address resolved to no live actor, or to no
// subscribed handler for the payload's tag. Grounded on the teacher's
// Deadletter event (messages.go), trimmed to the fields spec §7's dispatch
// failure error actually needs.
type deadletter struct {
	destination address.Address
	payload     any
	sentAt      time.Time
	reason      string
}

func newDeadletter(dest address.Address, payload any, reason string) *deadletter {
	return &deadletter{destination: dest, payload: payload, sentAt: time.Now(), reason: reason}
}

// envelopeFor wraps an internal control payload for delivery through the
// same Envelope path application messages use, so the supervisor's single
// dispatch loop never special-cases control traffic.
func envelopeFor(dest address.Address, payload any) *message.Envelope {
	return message.New(dest, payload)
}
