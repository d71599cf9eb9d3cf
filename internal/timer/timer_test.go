/*
 * MIT License
 *
 * Copyright (c) 2022-2025  Arsene Tochemey Gandote
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

package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartAndExpiration(t *testing.T) {
	tm := New(100 * time.Millisecond)

	require.True(t, tm.Start(), "Start() should return true on first start")
	assert.Equal(t, StateRunning, tm.State())

	select {
	case <-tm.C():
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timer did not expire as expected")
	}
}

func TestDoubleStart(t *testing.T) {
	tm := New(time.Second)
	require.True(t, tm.Start())
	assert.False(t, tm.Start(), "second Start() should return false")
}

func TestPauseAndResume(t *testing.T) {
	tm := New(150 * time.Millisecond)
	require.True(t, tm.Start())

	time.Sleep(50 * time.Millisecond)
	tm.Pause()
	assert.Equal(t, StatePaused, tm.State())

	tm.Resume()
	assert.Equal(t, StateRunning, tm.State())

	select {
	case <-tm.C():
	case <-time.After(300 * time.Millisecond):
		t.Fatal("timer did not expire after resume")
	}
}

func TestStop(t *testing.T) {
	tm := New(200 * time.Millisecond)
	require.True(t, tm.Start())

	assert.True(t, tm.Stop())
	assert.Equal(t, StateStopped, tm.State())

	select {
	case <-tm.C():
		t.Fatal("timer should not fire after Stop()")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestReset(t *testing.T) {
	tm := New(time.Second)
	require.True(t, tm.Start())

	tm.Reset(100 * time.Millisecond)
	assert.Equal(t, StateRunning, tm.State())

	select {
	case <-tm.C():
	case <-time.After(300 * time.Millisecond):
		t.Fatal("timer did not expire after Reset")
	}
}

func TestPauseBeforeStart(t *testing.T) {
	tm := New(500 * time.Millisecond)
	tm.Pause()
	assert.Equal(t, StateStopped, tm.State())
}

func TestResumeWithoutPause(t *testing.T) {
	tm := New(500 * time.Millisecond)
	tm.Resume()
	assert.Equal(t, StateStopped, tm.State())
}

func TestStopBeforeStart(t *testing.T) {
	tm := New(500 * time.Millisecond)
	assert.False(t, tm.Stop())
	assert.Equal(t, StateStopped, tm.State())
}
