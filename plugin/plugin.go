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

// Package plugin implements the ordered init/shutdown/subscription/
// unsubscription slots that incrementally drive an actor's lifecycle
// transitions (spec §4.5). Rather than one monolithic interface a plugin
// must fully implement, slot participation is modeled as a capability set
// (spec §9's design note): a plugin implements only the participant
// interfaces for the slots it cares about, and the actor runtime installs it
// into exactly those slots by type-asserting against them.
package plugin

import (
	"github.com/tochemey/rotorgo/address"
	"github.com/tochemey/rotorgo/message"
)

// Result is the outcome a subscription/unsubscription participant reports
// for a single poll (spec §4.5).
type Result int

const (
	// Ignored means the plugin has no interest in this event; keep polling
	// the next plugin in the slot.
	Ignored Result = iota
	// Consumed means the plugin handled the event and should remain
	// installed, but polling of this slot stops for this event.
	Consumed
	// Finished means the plugin handled the event and is done: remove it
	// from the slot, then continue polling.
	Finished
)

// String renders Result for logging.
func (r Result) String() string {
	switch r {
	case Ignored:
		return "IGNORED"
	case Consumed:
		return "CONSUMED"
	case Finished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// SubscriptionPoint is the (handler, address) pair installed in a
// supervisor's subscription registry (spec §4.3/GLOSSARY).
type SubscriptionPoint struct {
	Handler message.HandlerRef
	Address address.Address
}

// InitRequest is handed to InitParticipant.HandleInit on every poll of the
// init slot, for as long as the slot has plugins left.
type InitRequest struct {
	ActorAddress address.Address
}

// ShutdownRequest is handed to ShutdownParticipant.HandleShutdown on every
// poll of the shutdown slot.
type ShutdownRequest struct {
	ActorAddress address.Address
}

// SubscriptionEvent is delivered to SubscriptionParticipant.HandleSubscription
// when the owning actor's subscription completes (spec §4.3/§4.5).
type SubscriptionEvent struct {
	Point SubscriptionPoint
}

// UnsubscriptionEvent is delivered to
// UnsubscriptionParticipant.HandleUnsubscription when an unsubscription
// completes. OnDone, if set, is invoked once the event is fully processed
// (rotor's unsubscription_confirmation_t carries an optional callback).
type UnsubscriptionEvent struct {
	Point  SubscriptionPoint
	OnDone func()
}

// ActorHandle is the minimal actor-side surface a Plugin needs to report
// activation/deactivation completion, without importing package actor
// (which imports plugin to build its slot pipeline — the dependency only
// runs one way).
type ActorHandle interface {
	// CommitActivation reports whether this plugin's activation succeeded.
	// A false success cascades a deactivation of every installed plugin,
	// the failed one included (§4.5).
	CommitActivation(identity string, success bool)
	// CommitDeactivation reports that this plugin has finished
	// deactivating, clearing it from the actor's deactivating set.
	CommitDeactivation(identity string)
}

// Plugin is the contract every plugin must satisfy: an identity for
// bookkeeping, and parallel activation/deactivation (spec §4.5: "Activation
// is parallel (all plugins asked); deactivation is reverse order").
type Plugin interface {
	// Identity returns a stable tag identifying the plugin, used in the
	// actor's activating/deactivating bookkeeping sets.
	Identity() string
	// Activate is called once, when the actor starts initializing. The
	// plugin must eventually call actor.CommitActivation(p.Identity(), ok).
	Activate(actor ActorHandle)
	// Deactivate is called at most once, during shutdown or an
	// activation-failure cascade, for every installed plugin whether or not
	// its own activation completed. The plugin must eventually call
	// actor.CommitDeactivation(p.Identity()).
	Deactivate()
}

// InitParticipant is the capability a plugin opts into to participate in
// the INIT slot (spec §4.5's init_plugins).
type InitParticipant interface {
	// HandleInit is polled front-to-back while initializing. Returning true
	// pops this plugin from the slot and the poll continues; false suspends
	// progress until the next init_continue drive.
	HandleInit(req *InitRequest) bool
}

// ShutdownParticipant is the capability a plugin opts into to participate
// in the SHUTDOWN slot (spec §4.5's shutdown_plugins).
type ShutdownParticipant interface {
	// HandleShutdown is polled back-to-front while shutting down, mirroring
	// HandleInit's pop-on-true / suspend-on-false contract.
	HandleShutdown(req *ShutdownRequest) bool
}

// SubscriptionParticipant is the capability a plugin opts into to observe
// subscription confirmations (spec §4.5's subscription_plugins).
type SubscriptionParticipant interface {
	HandleSubscription(evt *SubscriptionEvent) Result
}

// UnsubscriptionParticipant is the capability a plugin opts into to observe
// unsubscription confirmations (spec §4.5's unsubscription_plugins).
type UnsubscriptionParticipant interface {
	HandleUnsubscription(evt *UnsubscriptionEvent) Result
}
