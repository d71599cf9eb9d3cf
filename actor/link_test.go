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
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/rotorgo/address"
	"github.com/tochemey/rotorgo/log"
	"github.com/tochemey/rotorgo/plugin"
)

func spawnLinkable(t *testing.T, sup *Supervisor, id string, opts ...ActorOption) *Actor {
	t.Helper()
	opts = append([]ActorOption{WithLogger(log.DiscardLogger)}, opts...)
	a := New([]plugin.Plugin{&eagerPlugin{identity: id}}, opts...)
	sup.Spawn(a, id)
	waitForState(t, a, stateOperational, time.Second)
	return a
}

// linkAndWait drives a's async Link to completion and returns its error, so
// tests can keep asserting synchronously without touching a's own event
// loop from another goroutine.
func linkAndWait(t *testing.T, a *Actor, peer address.Address, timeout time.Duration) error {
	t.Helper()
	done := make(chan error, 1)
	a.Link(peer, timeout, func(err error) { done <- err })
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("Link never resolved")
		return nil
	}
}

func TestLinkRejectsZeroPeer(t *testing.T) {
	sup := newTestSupervisor("sup-link-nil")
	a := spawnLinkable(t, sup, "solo")
	assert.ErrorIs(t, linkAndWait(t, a, address.Address{}, time.Second), ErrActorNotLinkable)
	require.NoError(t, sup.Shutdown("done"))
}

func TestLinkToAlreadyShutDownPeerTimesOut(t *testing.T) {
	sup := newTestSupervisor("sup-link-dead")
	a := spawnLinkable(t, sup, "a")
	dead := spawnLinkable(t, sup, "dead")
	dead.beginShutdown("retiring early")
	waitForState(t, dead, stateShutDown, time.Second)

	// dead's link handler was torn down by unsubscribeAll as part of
	// shutdown, so the LinkRequest deadletters and Link only ever resolves
	// once its own timeout fires -- there is no side-channel rejection path
	// (spec §7: request/response failures are delivered as responses, and a
	// deadlettered request is exactly the timeout case).
	err := linkAndWait(t, a, dead.self, 20*time.Millisecond)
	assert.ErrorIs(t, err, ErrRequestTimeout)
	require.NoError(t, sup.Shutdown("done"))
}

func TestLinkIsBidirectional(t *testing.T) {
	sup := newTestSupervisor("sup-link-bidi")
	a1 := spawnLinkable(t, sup, "a1")
	a2 := spawnLinkable(t, sup, "a2")

	require.NoError(t, linkAndWait(t, a1, a2.self, time.Second))

	a1.linksMu.Lock()
	_, a1HasA2 := a1.links[a2.self.ID()]
	a1.linksMu.Unlock()
	a2.linksMu.Lock()
	_, a2HasA1 := a2.links[a1.self.ID()]
	a2.linksMu.Unlock()

	assert.True(t, a1HasA2)
	assert.True(t, a2HasA1, "a2 must record the link too: LinkRequest's handler links back to req.ReplyTo()")

	require.NoError(t, sup.Shutdown("done"))
}

func TestLinkTerminatedDeliveredWhenPeerShutsDown(t *testing.T) {
	sup := newTestSupervisor("sup-link-terminated")
	watcher := spawnLinkable(t, sup, "watcher")
	victim := spawnLinkable(t, sup, "victim")

	require.NoError(t, linkAndWait(t, watcher, victim.self, time.Second))

	notified := make(chan LinkTerminated, 1)
	Subscribe(watcher, func(n *LinkTerminated) { notified <- *n })

	victim.beginShutdown("planned exit")

	select {
	case n := <-notified:
		assert.Equal(t, victim.self, n.Peer)
		assert.Equal(t, "planned exit", n.Reason)
	case <-time.After(time.Second):
		t.Fatal("watcher never received LinkTerminated")
	}

	require.NoError(t, sup.Shutdown("done"))
}

func TestUnlinkForcesNotifyAfterPolicyWindow(t *testing.T) {
	sup := newTestSupervisor("sup-unlink-force")
	a1 := spawnLinkable(t, sup, "a1", WithUnlinkPolicy(UnlinkPolicy{ForceAfter: 20 * time.Millisecond}))
	a2 := spawnLinkable(t, sup, "a2")

	require.NoError(t, linkAndWait(t, a1, a2.self, time.Second))

	notified := make(chan UnlinkNotify, 1)
	Subscribe(a2, func(n *UnlinkNotify) { notified <- *n })

	// Withdraw a2's UnlinkRequest handler so the request deadletters and no
	// UnlinkResponse ever comes back: only a1's ForceAfter window can then
	// resolve the Unlink, which is the fallback path this test exercises.
	a2.handlersMu.Lock()
	for _, p := range a2.handlers {
		if p.Handler.Tag() == reflect.TypeOf(&UnlinkRequest{}) {
			sup.removeSubscription(p)
		}
	}
	a2.handlersMu.Unlock()

	a1.Unlink(a2.self)

	select {
	case <-notified:
	case <-time.After(time.Second):
		t.Fatal("peer never received UnlinkNotify after ForceAfter elapsed")
	}

	a1.linksMu.Lock()
	_, stillLinked := a1.links[a2.self.ID()]
	a1.linksMu.Unlock()
	assert.False(t, stillLinked, "Unlink must drop the local link entry once its correlator entry resolves")

	require.NoError(t, sup.Shutdown("done"))
}

func TestUnlinkOnUnknownPeerIsANoop(t *testing.T) {
	sup := newTestSupervisor("sup-unlink-unknown")
	a1 := spawnLinkable(t, sup, "a1")
	a2 := spawnLinkable(t, sup, "a2")

	require.NotPanics(t, func() { a1.Unlink(a2.self) })
	require.NoError(t, sup.Shutdown("done"))
}

// TestLinkAcrossSupervisorsIsBidirectional exercises the link protocol
// between two actors owned by two distinct Supervisors: LinkRequest and its
// LinkResponse both cross a real supervisor boundary via dispatch, not just
// the local registry path.
func TestLinkAcrossSupervisorsIsBidirectional(t *testing.T) {
	sup1 := newTestSupervisor("sup-link-cross-1")
	sup2 := newTestSupervisor("sup-link-cross-2")

	a1 := spawnLinkable(t, sup1, "a1")
	a2 := spawnLinkable(t, sup2, "a2")

	require.NoError(t, linkAndWait(t, a1, a2.self, time.Second))

	a1.linksMu.Lock()
	_, a1HasA2 := a1.links[a2.self.ID()]
	a1.linksMu.Unlock()
	a2.linksMu.Lock()
	_, a2HasA1 := a2.links[a1.self.ID()]
	a2.linksMu.Unlock()
	assert.True(t, a1HasA2)
	assert.True(t, a2HasA1)

	notified := make(chan LinkTerminated, 1)
	Subscribe(a1, func(n *LinkTerminated) { notified <- *n })

	a2.beginShutdown("cross-supervisor exit")

	select {
	case n := <-notified:
		assert.Equal(t, a2.self, n.Peer)
	case <-time.After(time.Second):
		t.Fatal("a1 never received LinkTerminated from the other supervisor")
	}

	require.NoError(t, sup1.Shutdown("done"))
	require.NoError(t, sup2.Shutdown("done"))
}
