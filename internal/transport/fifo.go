// Copyright 2026 The gnss_sim Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package transport

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/sys/unix"
)

// Fifo is a named pipe the simulator writes NMEA batches into.
type Fifo struct {
	Path string
}

// EnsureFifo makes a FIFO available at path. A missing path is created
// with owner-only permissions; an existing FIFO is reused as-is, its
// permissions untouched, so a simulator restart is harmless. Anything
// else at the path is a conflict.
func EnsureFifo(path string) (*Fifo, error) {
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		if err := unix.Mkfifo(path, 0o600); err != nil {
			return nil, fmt.Errorf("transport.EnsureFifo(): create %s: %w", path, err)
		}
		fmt.Printf("Named pipe created at: %s\n", path)
	case err != nil:
		return nil, fmt.Errorf("transport.EnsureFifo(): stat %s: %w", path, err)
	case info.Mode()&os.ModeNamedPipe == 0:
		return nil, fmt.Errorf("transport.EnsureFifo(): %s: %w", path, ErrPathConflict)
	default:
		fmt.Printf("Using existing named pipe: %s\n", path)
	}

	return &Fifo{Path: path}, nil
}

// OpenWriter opens the write side of the pipe. By FIFO semantics the
// call blocks until a reader has the other end open.
func (f *Fifo) OpenWriter() (*os.File, error) {
	w, err := os.OpenFile(f.Path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("transport/Fifo.OpenWriter(): %w", err)
	}
	return w, nil
}

// Cleanup removes the pipe from the filesystem. Idempotent; an
// already-removed pipe is success, other failures are logged and
// swallowed.
func (f *Fifo) Cleanup() {
	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		log.Printf("transport: removing %s: %v\n", f.Path, err)
		return
	}
}
