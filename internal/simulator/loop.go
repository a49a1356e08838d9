// Copyright 2026 The gnss_sim Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package simulator drives a sentence source at a fixed cadence and
// writes each batch to the active transport.
package simulator

import (
	"fmt"
	"io"
	"log"
	"time"

	"gitlab.com/gnss-tools/gnss_sim/internal/shutdown"
	"gitlab.com/gnss-tools/gnss_sim/internal/transport"
)

// Source yields one complete NMEA batch per simulation cycle.
type Source interface {
	NextBatch() ([]byte, error)
}

// sleepSlice bounds how long the loop sleeps before re-checking the
// shutdown flag.
const sleepSlice = 50 * time.Millisecond

type Loop struct {
	source   Source
	interval time.Duration
	flag     *shutdown.Flag

	// Destination names the transport in per-batch console messages.
	// Empty suppresses them.
	Destination string
}

func New(source Source, interval time.Duration, flag *shutdown.Flag) *Loop {
	return &Loop{
		source:   source,
		interval: interval,
		flag:     flag,
	}
}

// Run writes one batch per interval until the shutdown flag is set.
// Each batch goes out in a single write call. Once signaled, at most
// the write already in progress completes; no further batch is
// produced. Write and source errors are returned to the caller.
func (l *Loop) Run(w io.Writer) error {
	for !l.flag.Signaled() {
		batch, err := l.source.NextBatch()
		if err != nil {
			return fmt.Errorf("simulator/Loop.Run(): %w", err)
		}

		if _, err := w.Write(batch); err != nil {
			return fmt.Errorf("simulator/Loop.Run(): %w", err)
		}

		if l.Destination != "" {
			fmt.Printf("Sent to %s:\n%s", l.Destination, batch)
		}

		l.sleep()
	}
	return nil
}

// RunPipe runs the loop against a named pipe, reopening it whenever
// the current writer handle dies so a consumer can disconnect and
// reconnect. The open call blocks until a reader attaches, by FIFO
// semantics.
func (l *Loop) RunPipe(fifo *transport.Fifo) error {
	for !l.flag.Signaled() {
		w, err := fifo.OpenWriter()
		if err != nil {
			return fmt.Errorf("simulator/Loop.RunPipe(): %w", err)
		}

		err = l.Run(w)
		w.Close()
		if err == nil {
			// shutdown-driven exit
			return nil
		}
		log.Printf("simulator: pipe writer: %v; waiting for a new reader\n", err)
	}
	return nil
}

// sleep waits out the configured interval, waking early when shutdown
// is signaled.
func (l *Loop) sleep() {
	deadline := time.Now().Add(l.interval)
	for !l.flag.Signaled() {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return
		}
		if remaining > sleepSlice {
			remaining = sleepSlice
		}
		time.Sleep(remaining)
	}
}
