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

// Package actor implements the actor lifecycle FSM, the supervisor event
// loop, the subscription registry, request/response correlation, the
// built-in registry actor, and the link protocol described across spec
// §§3-4 and §9. It is the one package in this module allowed to import every
// leaf package (address, message, handler, plugin) and the internal queue
// and timer backends, since it is where their abstractions are wired
// together into a runnable system.
package actor

import (
	"sync"
	"time"

	"github.com/tochemey/rotorgo/address"
	"github.com/tochemey/rotorgo/handler"
	"github.com/tochemey/rotorgo/log"
	"github.com/tochemey/rotorgo/message"
	"github.com/tochemey/rotorgo/plugin"
)

// UnlinkPolicy configures how long a linked actor waits for its peer's
// unlink_response before giving up and unilaterally severing the link
// (spec §4.9, §9's Open Question, resolved in DESIGN.md).
type UnlinkPolicy struct {
	// ForceAfter bounds how long Unlink waits for an unlink_response before
	// the link is dropped locally and an unlink_notify is sent anyway.
	ForceAfter time.Duration
}

// DefaultUnlinkPolicy mirrors the spec's mandated behavior: a link that does
// not acknowledge unlinking within a bounded window is severed unilaterally.
var DefaultUnlinkPolicy = UnlinkPolicy{ForceAfter: 5 * time.Second}

// Actor is one lifecycle-managed participant in the system: an address, a
// plugin pipeline, and the bookkeeping needed to drive it through
// NEW -> INITIALIZING -> INITIALIZED -> OPERATIONAL -> SHUTTING_DOWN ->
// SHUT_DOWN (spec §3). Actor itself carries no application behavior; all of
// that lives in the handlers installed through Subscribe and in the
// Plugins installed at construction.
type Actor struct {
	self       address.Address
	supervisor *Supervisor
	lifecycle  lifecycle
	pipeline   *plugin.Pipeline
	logger     log.Logger

	initTimeout     time.Duration
	shutdownTimeout time.Duration
	deadlineID      uint64
	haveDeadline    bool

	handlersMu sync.Mutex
	handlers   []plugin.SubscriptionPoint

	linksMu sync.Mutex
	links   map[string]*linkState

	unlinkPolicy UnlinkPolicy

	shutdownReason string
}

// ActorOption configures an Actor at construction, following the teacher's
// functional-options idiom (actor/option.go, pid_option.go).
type ActorOption func(*Actor)

// WithInitTimeout bounds how long the INIT slot may take to empty before the
// actor is forced into SHUTTING_DOWN.
func WithInitTimeout(d time.Duration) ActorOption {
	return func(a *Actor) { a.initTimeout = d }
}

// WithShutdownTimeout bounds how long the SHUTDOWN slot may take to empty.
func WithShutdownTimeout(d time.Duration) ActorOption {
	return func(a *Actor) { a.shutdownTimeout = d }
}

// WithUnlinkPolicy overrides DefaultUnlinkPolicy for this actor.
func WithUnlinkPolicy(p UnlinkPolicy) ActorOption {
	return func(a *Actor) { a.unlinkPolicy = p }
}

// WithLogger attaches a logger; defaults to log.DefaultLogger.
func WithLogger(l log.Logger) ActorOption {
	return func(a *Actor) { a.logger = l }
}

// New creates an actor with the given plugins installed, in install order.
// The actor is not live until a Supervisor spawns it.
func New(plugins []plugin.Plugin, opts ...ActorOption) *Actor {
	a := &Actor{
		pipeline:        plugin.NewPipeline(),
		logger:          log.DefaultLogger,
		initTimeout:     5 * time.Second,
		shutdownTimeout: 5 * time.Second,
		unlinkPolicy:    DefaultUnlinkPolicy,
		links:           make(map[string]*linkState),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.pipeline.Install(plugins...)
	return a
}

// Address returns the actor's address. Zero until the owning Supervisor has
// spawned it.
func (a *Actor) Address() address.Address { return a.self }

// OwnerAddress satisfies handler.Owner: handlers bound to this actor report
// its address for the registry's local-vs-forward routing decision.
func (a *Actor) OwnerAddress() address.Address { return a.self }

// State returns the actor's current lifecycle position.
func (a *Actor) State() lifecycleState { return a.lifecycle.load() }

// isQuiescent reports whether every plugin that was asked to deactivate has
// finished, i.e. whether it is safe to drop the last reference to this
// actor (supplemented from actor_base.cpp's destructor assertion, see
// SPEC_FULL.md).
func (a *Actor) isQuiescent() bool {
	return a.pipeline.Quiescent()
}

// CommitActivation implements plugin.ActorHandle. A failed activation
// cascades exactly one Deactivate() call across the whole pipeline and
// short-circuits the FSM straight to SHUTTING_DOWN.
func (a *Actor) CommitActivation(identity string, success bool) {
	allCommitted, failed := a.pipeline.CommitActivation(identity, success)
	if failed {
		a.logger.Warnf("actor %s: plugin %s failed to activate, cascading shutdown", a.self, identity)
		if a.lifecycle.shortCircuitToShuttingDown() {
			a.cancelDeadline()
			a.shutdownReason = "plugin activation failed: " + identity
			a.armDeadline(a.shutdownTimeout, a.shutdownReason)
			a.unsubscribeAll()
			a.unlinkAll()
			a.pipeline.Deactivate()
			a.driveShutdown()
		}
		return
	}
	if allCommitted && a.lifecycle.load() == stateInitializing {
		a.driveInit()
	}
}

// CommitDeactivation implements plugin.ActorHandle.
func (a *Actor) CommitDeactivation(identity string) {
	if a.pipeline.CommitDeactivation(identity) {
		a.finishShutdown()
	}
}

// beginInit moves NEW -> INITIALIZING and asks every plugin to activate.
// Called by the owning Supervisor once it has registered the actor's
// address.
func (a *Actor) beginInit() {
	if !a.lifecycle.transition(stateNew, stateInitializing) {
		return
	}
	a.armDeadline(a.initTimeout, "init timeout")
	a.pipeline.Activate(a)
	a.driveInit()
}

// armDeadline schedules a forced shutdown if the INIT or SHUTDOWN slot does
// not empty within d. Only one deadline is ever live per actor: init and
// shutdown deadlines never overlap since shutdown only begins after init
// has either finished or itself been cancelled.
func (a *Actor) armDeadline(d time.Duration, reason string) {
	a.deadlineID = a.supervisor.timerBackend.Arm(d, func() {
		switch a.lifecycle.load() {
		case stateInitializing:
			if a.lifecycle.shortCircuitToShuttingDown() {
				a.shutdownReason = reason
				a.unsubscribeAll()
				a.unlinkAll()
				a.pipeline.Deactivate()
				a.driveShutdown()
			}
		case stateShuttingDown:
			a.logger.Warnf("actor %s: shutdown timeout, forcing SHUT_DOWN", a.self)
			a.finishShutdown()
		}
	})
	a.haveDeadline = true
}

// cancelDeadline stops a pending init/shutdown deadline once its slot
// empties on its own.
func (a *Actor) cancelDeadline() {
	if a.haveDeadline {
		a.supervisor.timerBackend.Cancel(a.deadlineID)
		a.haveDeadline = false
	}
}

// driveInit polls the INIT slot; once it empties, init_finish runs and the
// actor moves to INITIALIZED, then immediately to OPERATIONAL (spec §3: a
// freshly initialized actor starts receiving traffic right away; there is
// no externally observable pause at INITIALIZED in this implementation).
func (a *Actor) driveInit() {
	req := &plugin.InitRequest{ActorAddress: a.self}
	if !a.pipeline.InitContinue(req) {
		return
	}
	if a.lifecycle.transition(stateInitializing, stateInitialized) {
		a.cancelDeadline()
		a.lifecycle.transition(stateInitialized, stateOperational)
		a.logger.Debugf("actor %s: operational", a.self)
	}
}

// beginShutdown moves the actor into SHUTTING_DOWN from any state but
// SHUT_DOWN and starts cascading plugin deactivation. Safe to call more
// than once; only the first caller triggers the cascade.
func (a *Actor) beginShutdown(reason string) {
	for {
		cur := a.lifecycle.load()
		if cur == stateShuttingDown || cur == stateShutDown {
			return
		}
		if a.lifecycle.transition(cur, stateShuttingDown) {
			break
		}
	}
	a.shutdownReason = reason
	a.cancelDeadline()
	a.armDeadline(a.shutdownTimeout, "shutdown timeout")
	a.unsubscribeAll()
	a.unlinkAll()
	a.pipeline.Deactivate()
	a.driveShutdown()
}

// driveShutdown polls the SHUTDOWN slot; once it empties, finishShutdown
// runs (usually reached via CommitDeactivation instead, but a pipeline with
// no plugins at all must still complete here).
func (a *Actor) driveShutdown() {
	req := &plugin.ShutdownRequest{ActorAddress: a.self}
	if a.pipeline.ShutdownContinue(req) && a.isQuiescent() {
		a.finishShutdown()
	}
}

func (a *Actor) finishShutdown() {
	if a.lifecycle.transition(stateShuttingDown, stateShutDown) {
		a.cancelDeadline()
		a.logger.Debugf("actor %s: shut down (%s)", a.self, a.shutdownReason)
	}
}

// unsubscribeAll walks every handler this actor owns and removes it from the
// supervisor's subscription registry (local or forwarded, matching how it
// was installed), driving each through the UNSUBSCRIPTION slot as it goes.
func (a *Actor) unsubscribeAll() {
	a.handlersMu.Lock()
	points := a.handlers
	a.handlers = nil
	a.handlersMu.Unlock()
	for _, point := range points {
		a.supervisor.removeSubscription(point)
		a.pipeline.PollUnsubscription(&plugin.UnsubscriptionEvent{Point: point})
	}
}

// addHandler records a subscription point this actor owns, so
// unsubscribeAll can find it during shutdown.
func (a *Actor) addHandler(point plugin.SubscriptionPoint) {
	a.handlersMu.Lock()
	a.handlers = append(a.handlers, point)
	a.handlersMu.Unlock()
}

// Subscribe registers fn to run whenever an envelope carrying payload *P is
// delivered to this actor's own address (spec §4.2/§4.3). The returned
// Handler may be passed to Unsubscribe for early teardown; it is also torn
// down automatically when the actor shuts down.
func Subscribe[P any](a *Actor, fn func(*P)) *handler.Handler[P] {
	return SubscribeAt(a, a.self, fn)
}

// SubscribeAt registers fn to run whenever an envelope carrying payload *P
// is delivered to at, which need not be a's own address (the pub/sub case:
// an actor owned by one supervisor may hold a handler keyed to an address
// owned by another). Delivery for a foreign at still runs on a's own
// supervisor goroutine; the owning supervisor only forwards (spec §4.3).
func SubscribeAt[P any](a *Actor, at address.Address, fn func(*P)) *handler.Handler[P] {
	h := handler.New(a, fn)
	point := plugin.SubscriptionPoint{Handler: h, Address: at}
	a.addHandler(point)
	a.supervisor.registerSubscription(point)
	a.pipeline.PollSubscription(&plugin.SubscriptionEvent{Point: point})
	return h
}

// Unsubscribe removes a handler before the actor shuts down.
func Unsubscribe[P any](a *Actor, at address.Address, h *handler.Handler[P]) {
	point := plugin.SubscriptionPoint{Handler: h, Address: at}
	a.handlersMu.Lock()
	for i, p := range a.handlers {
		if p.Handler == h {
			a.handlers = append(a.handlers[:i], a.handlers[i+1:]...)
			break
		}
	}
	a.handlersMu.Unlock()
	a.supervisor.removeSubscription(point)
	a.pipeline.PollUnsubscription(&plugin.UnsubscriptionEvent{Point: point})
}

// Send delivers payload to dest without expecting a response (spec §4.1's
// fire-and-forget path). It never blocks: if dest's owning supervisor is
// dead, the message is dead-lettered.
func (a *Actor) Send(dest address.Address, payload any) {
	a.supervisor.dispatch(message.New(dest, payload))
}
