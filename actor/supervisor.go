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
	"fmt"
	"reflect"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/tochemey/rotorgo/address"
	"github.com/tochemey/rotorgo/internal/timer"
	"github.com/tochemey/rotorgo/log"
	"github.com/tochemey/rotorgo/message"
	"github.com/tochemey/rotorgo/plugin"
)

// idlePollInterval bounds how long the event loop can sleep between a queue
// drain and the next wake signal, so a Push that loses the race against the
// wake-channel send (supervisor.dispatch's non-blocking select) is still
// picked up promptly.
const idlePollInterval = 10 * time.Millisecond

// subscriptionPoint is a local alias for readability; the type itself lives
// in package plugin since a plugin.SubscriptionEvent carries the identical
// (handler, address) pair back to a SubscriptionParticipant.
type subscriptionPoint = plugin.SubscriptionPoint

// Supervisor owns one event loop, one delivery Queue, one subscription
// registry and one request/response correlator (spec §4.6). Every actor it
// spawns lives and dies within it; cross-supervisor traffic happens only
// through explicit message hops onto another Supervisor's Queue, never
// through a direct method call into another Supervisor's state.
type Supervisor struct {
	id     string
	self   address.Address
	queue  Queue
	timerBackend TimerBackend
	logger log.Logger

	running atomic.Bool

	mu     sync.Mutex
	actors map[string]*Actor

	registryMu sync.RWMutex
	registry   map[string]map[reflect.Type][]message.HandlerRef

	correlator *correlator

	wake  chan struct{}
	stopC chan struct{}
	doneC chan struct{}
}

// SupervisorOption configures a Supervisor at construction.
type SupervisorOption func(*Supervisor)

// WithSupervisorLogger overrides log.DefaultLogger.
func WithSupervisorLogger(l log.Logger) SupervisorOption {
	return func(s *Supervisor) { s.logger = l }
}

// WithSupervisorQueue overrides the default MpscQueue-backed Queue.
func WithSupervisorQueue(q Queue) SupervisorOption {
	return func(s *Supervisor) { s.queue = q }
}

// WithSupervisorTimerBackend overrides the default TimerBackend.
func WithSupervisorTimerBackend(tb TimerBackend) SupervisorOption {
	return func(s *Supervisor) { s.timerBackend = tb }
}

// NewSupervisor creates a Supervisor identified by id and starts its event
// loop goroutine.
func NewSupervisor(id string, opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		id:       id,
		queue:    NewQueue(),
		logger:   log.DefaultLogger,
		actors:   make(map[string]*Actor),
		registry: make(map[string]map[reflect.Type][]message.HandlerRef),
		wake:     make(chan struct{}, 1),
		stopC:    make(chan struct{}),
		doneC:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.timerBackend == nil {
		s.timerBackend = NewTimerBackend()
	}
	s.correlator = newCorrelator(s.timerBackend)
	s.self = address.New(s, id)
	s.running.Store(true)
	go s.run()
	return s
}

// SupervisorAddress implements address.Owner.
func (s *Supervisor) SupervisorAddress() address.Address { return s.self }

// Alive implements address.Owner.
func (s *Supervisor) Alive() bool { return s.running.Load() }

// CreateAddress mints a fresh address owned by this supervisor. Only a
// Supervisor may mint addresses (spec §4.1: "Addresses are created only by
// a supervisor").
func (s *Supervisor) CreateAddress(id string) address.Address {
	return address.New(s, id)
}

// Spawn registers a and starts driving it through INITIALIZING. The
// returned address is a's identity for the rest of its life.
func (s *Supervisor) Spawn(a *Actor, id string) address.Address {
	addr := s.CreateAddress(id)
	a.self = addr
	a.supervisor = s

	s.mu.Lock()
	s.actors[addr.ID()] = a
	s.mu.Unlock()

	installLinkProtocol(s, a)
	s.dispatch(envelopeFor(s.self, &initializeActor{target: a}))
	return addr
}

// Shutdown triggers a graceful shutdown of every actor this supervisor
// owns, then stops the event loop once they have all reached SHUT_DOWN. It
// returns a combined error (via shutdownCascade) naming every actor still
// short of SHUT_DOWN when the overall deadline expired, or nil if all of
// them finished cleanly.
func (s *Supervisor) Shutdown(reason string) error {
	s.mu.Lock()
	targets := make([]*Actor, 0, len(s.actors))
	for _, a := range s.actors {
		targets = append(targets, a)
	}
	s.mu.Unlock()

	for _, a := range targets {
		s.dispatch(envelopeFor(s.self, &shutdownTrigger{target: a, reason: reason}))
	}

	deadline := time.After(30 * time.Second)
	var stragglers []*Actor
	for {
		stragglers = stillShuttingDown(targets)
		if len(stragglers) == 0 {
			break
		}
		select {
		case <-deadline:
			s.logger.Warnf("supervisor %s: shutdown deadline exceeded, stopping anyway", s.id)
			goto stop
		case <-time.After(time.Millisecond):
		}
	}
stop:
	s.running.Store(false)
	close(s.stopC)
	<-s.doneC

	errs := make([]error, 0, len(stragglers))
	for _, a := range stragglers {
		errs = append(errs, NewErrStillShuttingDown(a.self))
	}
	return s.shutdownCascade(errs...)
}

func stillShuttingDown(targets []*Actor) []*Actor {
	var left []*Actor
	for _, a := range targets {
		if a.State() != stateShutDown {
			left = append(left, a)
		}
	}
	return left
}

// dispatch enqueues env on the supervisor that owns its destination,
// forwarding across supervisors via Queue.Push when the destination is not
// local (spec §5: "enqueue invoked from any thread"). Safe to call from any
// goroutine.
func (s *Supervisor) dispatch(env *message.Envelope) {
	owner, ok := env.Destination.Owner().(*Supervisor)
	if !ok || owner == nil || !owner.Alive() {
		s.deadletter(env, "destination unreachable")
		return
	}
	owner.queue.Push(env)
	select {
	case owner.wake <- struct{}{}:
	default:
	}
}

func (s *Supervisor) deadletter(env *message.Envelope, reason string) {
	dl := newDeadletter(env.Destination, env.Payload, reason)
	s.logger.Warnf("deadletter: destination=%s reason=%s payload=%T", dl.destination, dl.reason, dl.payload)
}

// run is the supervisor's single event-loop goroutine: pop, process, repeat.
// The idle poll between wakeups reuses one timer.Timer instead of allocating
// a fresh time.After on every empty pass.
func (s *Supervisor) run() {
	defer close(s.doneC)
	idle := timer.New(idlePollInterval)
	idle.Start()
	defer idle.Stop()
	for {
		for {
			env, ok := s.queue.Pop()
			if !ok {
				break
			}
			s.process(env)
		}
		select {
		case <-s.stopC:
			for {
				env, ok := s.queue.Pop()
				if !ok {
					return
				}
				s.process(env)
			}
		case <-s.wake:
		case <-idle.C():
			idle.Reset(idlePollInterval)
		}
	}
}

// process dispatches one envelope. A panic raised anywhere beneath it (most
// notably handler.Handler[P].Invoke's type-mismatch panic, but any ordinary
// business-logic panic in a user handler too) is recovered here rather than
// left to kill the event loop goroutine: it is logged and the envelope is
// deadlettered, matching spec §7's "errors during dispatch of non-request
// messages are logged and dropped" instead of silently orphaning every actor
// this supervisor owns.
func (s *Supervisor) process(env *message.Envelope) {
	defer s.recoverDispatch(env)
	switch payload := env.Payload.(type) {
	case *initializeActor:
		payload.target.beginInit()
	case *shutdownTrigger:
		payload.target.beginShutdown(payload.reason)
	case *message.HandlerCall:
		payload.Handler.Invoke(payload.OrigMessage)
	default:
		s.deliverOrCorrelate(env)
	}
}

// recoverDispatch converts a recovered panic into a PanicError, logs it, and
// deadletters env. A panic partway through deliverLocal's handler loop still
// drops the rest of that envelope's handlers along with it; the envelope as
// a whole is what spec §7 treats as dropped, not the individual handler.
func (s *Supervisor) recoverDispatch(env *message.Envelope) {
	r := recover()
	if r == nil {
		return
	}
	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("%v", r)
	}
	pe := NewPanicError(err)
	s.logger.Errorf("supervisor %s: recovered dispatching %T to %s: %s", s.id, env.Payload, env.Destination, pe.Error())
	s.deadletter(env, pe.Error())
}

// deliverOrCorrelate is the default path for application payloads: a
// response payload first offers itself to this supervisor's correlator,
// since request ids are unique per supervisor regardless of which of its
// actors originally issued the request (spec §4.4); anything the correlator
// does not recognize (an unknown/already-resolved id, or a response kind an
// actor is separately Subscribed to) falls through to ordinary registry
// dispatch.
func (s *Supervisor) deliverOrCorrelate(env *message.Envelope) {
	if resp, ok := env.Payload.(message.Response); ok {
		id, _ := resp.Correlation()
		if s.correlator.resolve(id, resp) {
			return
		}
	}
	s.deliverLocal(env)
}

// deliverLocal looks up handlers subscribed at env.Destination and invokes
// each. A handler whose owner lives on another supervisor is not invoked
// here: the envelope is rewrapped as a message.HandlerCall and forwarded to
// that owner's queue instead (spec §4.3's forwarding rule), so a handler
// body always runs on its own actor's supervisor goroutine.
func (s *Supervisor) deliverLocal(env *message.Envelope) {
	s.registryMu.RLock()
	byTag := s.registry[env.Destination.ID()]
	var handlers []message.HandlerRef
	if byTag != nil {
		handlers = append(handlers, byTag[env.Tag()]...)
	}
	s.registryMu.RUnlock()

	if len(handlers) == 0 {
		s.deadletter(env, "no subscription for payload type")
		return
	}
	for _, h := range handlers {
		if h.OwnerAddress().LocalTo(s) {
			h.Invoke(env)
			continue
		}
		s.dispatch(envelopeFor(h.OwnerAddress(), &message.HandlerCall{OrigMessage: env, Handler: h}))
	}
}

// registerSubscription installs point into the registry of the supervisor
// that owns point.Address.
func (s *Supervisor) registerSubscription(point subscriptionPoint) {
	owner, ok := point.Address.Owner().(*Supervisor)
	if !ok || owner == nil {
		return
	}
	owner.registryMu.Lock()
	if owner.registry[point.Address.ID()] == nil {
		owner.registry[point.Address.ID()] = make(map[reflect.Type][]message.HandlerRef)
	}
	tag := point.Handler.Tag()
	owner.registry[point.Address.ID()][tag] = append(owner.registry[point.Address.ID()][tag], point.Handler)
	owner.registryMu.Unlock()
}

// removeSubscription removes point from the registry of the supervisor that
// owns point.Address.
func (s *Supervisor) removeSubscription(point subscriptionPoint) {
	owner, ok := point.Address.Owner().(*Supervisor)
	if !ok || owner == nil {
		return
	}
	owner.registryMu.Lock()
	defer owner.registryMu.Unlock()
	byTag := owner.registry[point.Address.ID()]
	if byTag == nil {
		return
	}
	tag := point.Handler.Tag()
	list := byTag[tag]
	for i, h := range list {
		if h == point.Handler {
			byTag[tag] = append(list[:i], list[i+1:]...)
			break
		}
	}
}

// Request sends req to dest on behalf of the requesting actor a and returns
// a channel that receives exactly one response: either the real reply, or
// (on timeout) a zero-value response of kind R stamped with
// ErrRequestTimeout (spec §4.4 allocates the request id per actor and
// resolves the reply against the reply-to actor, not against the
// supervisor as a whole; §4.6 exposes request as an operation an actor
// performs, not the supervisor it happens to run on). The channel receives
// at most one value and is then closed: a reply whose type is not R is
// dropped, and the channel is closed without a value.
func Request[P message.Request, R message.Response](a *Actor, dest address.Address, req P, timeout time.Duration) <-chan R {
	s := a.supervisor
	out := make(chan R, 1)
	id := s.correlator.nextRequestID()
	message.StampRequest(req, a.self, id)
	s.correlator.register(id, timeout, func(resp message.Response) {
		if r, ok := resp.(R); ok {
			out <- r
		}
		close(out)
	}, newZeroResponse[R])
	s.dispatch(message.New(dest, req))
	return out
}

// Reply answers a request previously delivered to a handler: resp is
// stamped with req's correlation id (and err, if the request failed) and
// sent to req's reply-to address.
func (s *Supervisor) Reply(req message.Request, resp message.Response, err error) {
	message.StampResponse(resp, req.RequestID(), err)
	s.dispatch(message.New(req.ReplyTo(), resp))
}

// shutdownCascade folds the per-actor errors Shutdown collected into one
// error with multierr.Append, returning nil when there are none. It does not
// cancel pending requests or touch plugin state.
func (s *Supervisor) shutdownCascade(reasons ...error) error {
	var err error
	for _, r := range reasons {
		err = multierr.Append(err, r)
	}
	return err
}
