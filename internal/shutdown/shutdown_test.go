// Copyright 2026 The gnss_sim Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package shutdown

import (
	"sync"
	"testing"
)

func TestFlagStartsUnset(t *testing.T) {
	f := New()
	if f.Signaled() {
		t.Error("new flag is already signaled")
	}
}

func TestSignalIsSticky(t *testing.T) {
	f := New()
	f.Signal()
	if !f.Signaled() {
		t.Fatal("flag not signaled after Signal")
	}

	// repeated signals are a no-op, never a revert
	f.Signal()
	if !f.Signaled() {
		t.Error("flag reverted after second Signal")
	}
}

func TestConcurrentSignal(t *testing.T) {
	f := New()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.Signal()
			if !f.Signaled() {
				t.Error("flag unset after Signal")
			}
		}()
	}
	wg.Wait()

	if !f.Signaled() {
		t.Error("flag unset after concurrent signals")
	}
}
