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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/rotorgo/address"
	"github.com/tochemey/rotorgo/message"
)

func respErr(r message.Response) error {
	_, err := r.Correlation()
	return err
}

func TestRegistryRegisterLookupDeregisterRoundTrip(t *testing.T) {
	sup := newTestSupervisor("sup-registry")
	_, registryAddr := NewRegistry(sup, "registry")

	client := spawnLinkable(t, sup, "client")
	worker := spawnLinkable(t, sup, "worker")

	regResp := <-Request[*RegisterRequest, *RegisterResponse](client, registryAddr,
		&RegisterRequest{Name: "worker-1", Target: worker.self}, time.Second)
	require.NoError(t, respErr(regResp))

	lookupResp := <-Request[*LookupRequest, *LookupResponse](client, registryAddr,
		&LookupRequest{Name: "worker-1"}, time.Second)
	require.NoError(t, respErr(lookupResp))
	assert.Equal(t, worker.self, lookupResp.Target)

	deregResp := <-Request[*DeregisterRequest, *DeregisterResponse](client, registryAddr,
		&DeregisterRequest{Name: "worker-1"}, time.Second)
	require.NoError(t, respErr(deregResp))

	lookupAgain := <-Request[*LookupRequest, *LookupResponse](client, registryAddr,
		&LookupRequest{Name: "worker-1"}, time.Second)
	assert.ErrorIs(t, respErr(lookupAgain), ErrServiceNotFound)
	assert.Equal(t, address.Address{}, lookupAgain.Target)

	require.NoError(t, sup.Shutdown("done"))
}

func TestRegistryRegisterRejectsDuplicateName(t *testing.T) {
	sup := newTestSupervisor("sup-registry-dup")
	_, registryAddr := NewRegistry(sup, "registry")

	client := spawnLinkable(t, sup, "client")
	first := spawnLinkable(t, sup, "first")
	second := spawnLinkable(t, sup, "second")

	firstResp := <-Request[*RegisterRequest, *RegisterResponse](client, registryAddr,
		&RegisterRequest{Name: "shared", Target: first.self}, time.Second)
	require.NoError(t, respErr(firstResp))

	secondResp := <-Request[*RegisterRequest, *RegisterResponse](client, registryAddr,
		&RegisterRequest{Name: "shared", Target: second.self}, time.Second)
	assert.ErrorIs(t, respErr(secondResp), ErrNameAlreadyRegistered)

	lookupResp := <-Request[*LookupRequest, *LookupResponse](client, registryAddr,
		&LookupRequest{Name: "shared"}, time.Second)
	require.NoError(t, respErr(lookupResp))
	assert.Equal(t, first.self, lookupResp.Target, "the first registration must win")

	require.NoError(t, sup.Shutdown("done"))
}

func TestRegistryLookupUnknownNameReturnsNotFound(t *testing.T) {
	sup := newTestSupervisor("sup-registry-miss")
	_, registryAddr := NewRegistry(sup, "registry")

	client := spawnLinkable(t, sup, "client")
	resp := <-Request[*LookupRequest, *LookupResponse](client, registryAddr,
		&LookupRequest{Name: "nobody"}, time.Second)
	assert.ErrorIs(t, respErr(resp), ErrServiceNotFound)

	require.NoError(t, sup.Shutdown("done"))
}
