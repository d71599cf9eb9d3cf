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
	"errors"
	"fmt"
)

var (
	// ErrRequestTimeout indicates that a Request's response did not arrive
	// before its deadline and a synthesized timeout response was delivered
	// instead.
	ErrRequestTimeout = errors.New("request timed out")

	// ErrDispatchFailed indicates that a message could not be delivered to
	// its destination (destination address is dead or unknown).
	ErrDispatchFailed = errors.New("dispatch failed")

	// ErrActorNotLinkable is returned by Link when the peer address is the
	// zero Address, or when the peer's LinkResponse does not accept the
	// link.
	ErrActorNotLinkable = errors.New("actor is not linkable")

	// ErrNameAlreadyRegistered is returned by the registry actor when a
	// service name is already bound to an address.
	ErrNameAlreadyRegistered = errors.New("name already registered")

	// ErrServiceNotFound is returned by the registry actor when a lookup
	// does not resolve to a registered address.
	ErrServiceNotFound = errors.New("service not found")

	// ErrPluginActivationFailed names the case where an actor cannot complete
	// initialization because a plugin reported activation failure. The actor
	// runtime does not return it: a failed activation shuts the actor down
	// and is only recorded in its shutdown reason and log.
	ErrPluginActivationFailed = errors.New("plugin activation failed")

	// ErrStillShuttingDown is reported by Supervisor.Shutdown (wrapped by
	// NewErrStillShuttingDown) for every actor that had not reached
	// SHUT_DOWN when the shutdown deadline expired.
	ErrStillShuttingDown = errors.New("actor is still shutting down")

	// ErrDead indicates that the actor is no longer alive: its address has
	// been reused past SHUT_DOWN, or its owning supervisor is gone.
	ErrDead = errors.New("actor is not alive")

	// ErrUnhandled names the case where an envelope's payload has no
	// matching subscription on its destination address. The supervisor does
	// not return it: such envelopes are deadlettered and logged.
	ErrUnhandled = errors.New("unhandled message")

	// ErrInvalidTimeout names a timeout that is less than or equal to zero.
	// The timeout options of this package do not validate their argument
	// and never return it.
	ErrInvalidTimeout = errors.New("invalid timeout")
)

// NewErrDispatchFailed wraps ErrDispatchFailed with the address that could
// not be reached.
func NewErrDispatchFailed(addr fmt.Stringer) error {
	return fmt.Errorf("address=(%s): %w", addr, ErrDispatchFailed)
}

// NewErrNameAlreadyRegistered formats ErrNameAlreadyRegistered with the
// offending service name.
func NewErrNameAlreadyRegistered(name string) error {
	return fmt.Errorf("name=(%s): %w", name, ErrNameAlreadyRegistered)
}

// NewErrServiceNotFound formats ErrServiceNotFound with the looked-up name.
func NewErrServiceNotFound(name string) error {
	return fmt.Errorf("name=(%s): %w", name, ErrServiceNotFound)
}

// NewErrPluginActivationFailed wraps a plugin's own activation error,
// identifying which plugin failed.
func NewErrPluginActivationFailed(identity string, err error) error {
	return fmt.Errorf("plugin=(%s): %w: %w", identity, ErrPluginActivationFailed, err)
}

// NewErrStillShuttingDown wraps ErrStillShuttingDown with the address of the
// actor that had not reached SHUT_DOWN by the reporting deadline.
func NewErrStillShuttingDown(addr fmt.Stringer) error {
	return fmt.Errorf("address=(%s): %w", addr, ErrStillShuttingDown)
}

// PanicError wraps a recovered panic value surfaced while an actor's handler
// was running, so the supervisor's dispatch path can log it like any other
// error without losing the original panic payload.
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError.
func NewPanicError(err error) PanicError {
	return PanicError{err}
}

// Error implements the standard error interface.
func (e PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}
