// Copyright 2026 The gnss_sim Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package shutdown

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
)

// Flag is a one-way cancellation token shared by every long-running
// task in the simulator. It starts unset and can only transition to
// signaled, never back.
type Flag struct {
	signaled uint32
}

func New() *Flag {
	return &Flag{}
}

// Signal marks the flag. Safe to call from any goroutine, any number
// of times.
func (f *Flag) Signal() {
	atomic.StoreUint32(&f.signaled, 1)
}

// Signaled reports whether Signal has been called.
func (f *Flag) Signaled() bool {
	return atomic.LoadUint32(&f.signaled) == 1
}

// Notify sets the flag when one of the given OS signals is delivered.
// The watching goroutine exits after the first signal; repeated
// interrupts are harmless since the flag is already set.
func Notify(f *Flag, sig ...os.Signal) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, sig...)

	go func() {
		<-sigChan
		fmt.Println("\nInterrupt received. Shutting down...")
		f.Signal()
	}()
}
