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

package address_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tochemey/rotorgo/address"
)

type fakeOwner struct {
	self  address.Address
	alive bool
}

func (f *fakeOwner) SupervisorAddress() address.Address { return f.self }
func (f *fakeOwner) Alive() bool                        { return f.alive }

func TestNewMintsRandomIDWhenEmpty(t *testing.T) {
	owner := &fakeOwner{alive: true}
	a := address.New(owner, "")
	b := address.New(owner, "")
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID(), "two empty-id mints must not collide")
}

func TestNewUsesGivenID(t *testing.T) {
	owner := &fakeOwner{alive: true}
	a := address.New(owner, "worker-1")
	assert.Equal(t, "worker-1", a.ID())
	assert.Equal(t, "worker-1", a.String())
}

func TestEqualityIsIdentity(t *testing.T) {
	owner := &fakeOwner{alive: true}
	a := address.New(owner, "x")
	b := address.New(owner, "x")
	c := address.New(owner, "y")

	assert.Equal(t, a, b, "same owner and id must compare equal")
	assert.NotEqual(t, a, c)
}

func TestIsZero(t *testing.T) {
	var zero address.Address
	assert.True(t, zero.IsZero())

	owner := &fakeOwner{alive: true}
	nonZero := address.New(owner, "x")
	assert.False(t, nonZero.IsZero())
}

func TestLocalTo(t *testing.T) {
	owner1 := &fakeOwner{alive: true}
	owner2 := &fakeOwner{alive: true}
	a := address.New(owner1, "x")

	assert.True(t, a.LocalTo(owner1))
	assert.False(t, a.LocalTo(owner2))
}

func TestOwnerRoundTrip(t *testing.T) {
	owner := &fakeOwner{alive: true}
	a := address.New(owner, "x")
	assert.Same(t, owner, a.Owner())
}
