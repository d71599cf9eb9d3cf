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

package plugin

// Pipeline owns the four ordered slots (INIT, SHUTDOWN, SUBSCRIPTION,
// UNSUBSCRIPTION) and the activation/deactivation bookkeeping sets
// described in spec §4.5. One Pipeline belongs to exactly one actor.
type Pipeline struct {
	all            []Plugin
	init           []InitParticipant
	shutdown       []ShutdownParticipant
	subscription   []SubscriptionParticipant
	unsubscription []UnsubscriptionParticipant

	activating       map[string]struct{}
	deactivating     map[string]struct{}
	deactivateCalled map[string]struct{}
}

// NewPipeline creates an empty Pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{
		activating:       make(map[string]struct{}),
		deactivating:     make(map[string]struct{}),
		deactivateCalled: make(map[string]struct{}),
	}
}

// Install registers plugins in the pipeline in the given order and slots
// each one into every capability interface it satisfies. init_plugins and
// shutdown_plugins are therefore ordered sequences consumed front-to-back
// and back-to-front respectively, as spec §4.5 requires.
func (p *Pipeline) Install(plugins ...Plugin) {
	for _, pl := range plugins {
		p.all = append(p.all, pl)
		p.activating[pl.Identity()] = struct{}{}
		if ip, ok := pl.(InitParticipant); ok {
			p.init = append(p.init, ip)
		}
		if sp, ok := pl.(ShutdownParticipant); ok {
			p.shutdown = append(p.shutdown, sp)
		}
		if sub, ok := pl.(SubscriptionParticipant); ok {
			p.subscription = append(p.subscription, sub)
		}
		if un, ok := pl.(UnsubscriptionParticipant); ok {
			p.unsubscription = append(p.unsubscription, un)
		}
	}
}

// Activate asks every installed plugin to activate. Activation is parallel
// in the sense that every plugin is asked up front; each plugin commits
// asynchronously via CommitActivation.
func (p *Pipeline) Activate(actor ActorHandle) {
	for _, pl := range p.all {
		pl.Activate(actor)
	}
}

// CommitActivation records one plugin's activation outcome. It returns
// allCommitted=true once every installed plugin has committed, and
// failed=true whenever the reporting plugin's activation failed, on every
// such call (the caller is expected to cascade a deactivation exactly once,
// on the first failure).
func (p *Pipeline) CommitActivation(identity string, success bool) (allCommitted, failed bool) {
	delete(p.activating, identity)
	return len(p.activating) == 0, !success
}

// Deactivate runs Deactivate on every plugin that has not already been
// asked to deactivate, in reverse install order, and marks each as pending
// in the deactivating set (mirrors rotor's `plugin->actor` liveness check,
// which exists so a second cascade triggered by a second activation
// failure does not double-deactivate a plugin).
func (p *Pipeline) Deactivate() {
	for i := len(p.all) - 1; i >= 0; i-- {
		pl := p.all[i]
		id := pl.Identity()
		if _, called := p.deactivateCalled[id]; called {
			continue
		}
		p.deactivateCalled[id] = struct{}{}
		p.deactivating[id] = struct{}{}
		pl.Deactivate()
	}
}

// CommitDeactivation records one plugin's deactivation completion and
// reports whether the pipeline is now quiescent (no plugin still mid
// deactivation), at which point the owning actor is destructible.
func (p *Pipeline) CommitDeactivation(identity string) (quiescent bool) {
	delete(p.deactivating, identity)
	return len(p.deactivating) == 0
}

// Quiescent reports whether no plugin is still mid-deactivation.
func (p *Pipeline) Quiescent() bool {
	return len(p.deactivating) == 0
}

// InitContinue polls the INIT slot front-to-back, popping every plugin that
// reports completion, and stops at the first plugin that is not yet ready.
// It returns true once the slot is empty, at which point the caller should
// run init_finish.
func (p *Pipeline) InitContinue(req *InitRequest) bool {
	for len(p.init) > 0 {
		if p.init[0].HandleInit(req) {
			p.init = p.init[1:]
			continue
		}
		break
	}
	return len(p.init) == 0
}

// ShutdownContinue polls the SHUTDOWN slot back-to-front, the mirror image
// of InitContinue, returning true once the slot is empty.
func (p *Pipeline) ShutdownContinue(req *ShutdownRequest) bool {
	for len(p.shutdown) > 0 {
		last := len(p.shutdown) - 1
		if p.shutdown[last].HandleShutdown(req) {
			p.shutdown = p.shutdown[:last]
			continue
		}
		break
	}
	return len(p.shutdown) == 0
}

// PollSubscription polls the SUBSCRIPTION slot in reverse installation
// order for the given confirmation.
func (p *Pipeline) PollSubscription(evt *SubscriptionEvent) {
	p.subscription = pollSlot(p.subscription, func(pl SubscriptionParticipant) Result {
		return pl.HandleSubscription(evt)
	})
}

// PollUnsubscription polls the UNSUBSCRIPTION slot in reverse installation
// order for the given confirmation, then invokes evt.OnDone if it is set.
func (p *Pipeline) PollUnsubscription(evt *UnsubscriptionEvent) {
	p.unsubscription = pollSlot(p.unsubscription, func(pl UnsubscriptionParticipant) Result {
		return pl.HandleUnsubscription(evt)
	})
	if evt.OnDone != nil {
		evt.OnDone()
	}
}

// pollSlot walks list back-to-front, removing any entry that reports
// Finished and stopping entirely on the first Consumed. It is the shared
// shape behind PollSubscription/PollUnsubscription (rotor's `poll<Fn,
// Message>` template in actor_base.cpp).
func pollSlot[T any](list []T, call func(T) Result) []T {
	for i := len(list) - 1; i >= 0; i-- {
		switch call(list[i]) {
		case Ignored:
			continue
		case Consumed:
			return list
		case Finished:
			list = append(list[:i], list[i+1:]...)
		}
	}
	return list
}
