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

import "go.uber.org/atomic"

// lifecycleState is the actor's FSM position. Unlike a bitmask of
// independent flags, these states are mutually exclusive and (outside of
// the one documented short circuit) strictly monotone: an actor only ever
// moves forward through the sequence.
type lifecycleState uint32

const (
	// stateNew is the state immediately after construction, before
	// initialization has been requested.
	stateNew lifecycleState = iota
	// stateInitializing is entered once initialization starts and the INIT
	// plugin slot is being polled.
	stateInitializing
	// stateInitialized is entered once the INIT slot is empty and init_finish
	// has run, but before the actor has been told to start processing.
	stateInitialized
	// stateOperational is entered once the actor is actively processing
	// messages from its subscriptions.
	stateOperational
	// stateShuttingDown is entered once shutdown has been triggered; the
	// SHUTDOWN plugin slot is being polled.
	stateShuttingDown
	// stateShutDown is terminal: the actor is fully torn down and its
	// address should no longer be dispatched to.
	stateShutDown
)

func (s lifecycleState) String() string {
	switch s {
	case stateNew:
		return "NEW"
	case stateInitializing:
		return "INITIALIZING"
	case stateInitialized:
		return "INITIALIZED"
	case stateOperational:
		return "OPERATIONAL"
	case stateShuttingDown:
		return "SHUTTING_DOWN"
	case stateShutDown:
		return "SHUT_DOWN"
	default:
		return "UNKNOWN"
	}
}

// lifecycle is an atomically-read/written lifecycleState, the actor
// equivalent of the teacher's pidState bitmask, adapted from a set of
// independent flags to a single monotone position since spec §3's actor
// states are never independent of one another.
type lifecycle struct {
	state atomic.Uint32
}

func (l *lifecycle) load() lifecycleState {
	return lifecycleState(l.state.Load())
}

// transition moves the FSM from `from` to `to` iff the current state is
// `from`, returning false if another goroutine already moved it elsewhere.
// Used for the ordinary monotone advances: a move that does not go forward
// (to <= from) is refused.
func (l *lifecycle) transition(from, to lifecycleState) bool {
	if to <= from {
		return false
	}
	return l.state.CompareAndSwap(uint32(from), uint32(to))
}

// shortCircuitToShuttingDown implements the one documented non-monotone
// edge: INITIALIZING may jump straight to SHUTTING_DOWN when init fails,
// skipping INITIALIZED and OPERATIONAL entirely (spec §3).
func (l *lifecycle) shortCircuitToShuttingDown() bool {
	return l.transition(stateInitializing, stateShuttingDown)
}
