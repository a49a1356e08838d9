// Copyright 2026 The gnss_sim Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package transport provisions the virtual serial endpoints the
// simulator writes to: pseudo-terminal pairs published behind stable
// symlinks, named pipes, or real serial devices.
package transport

import (
	"errors"
	"os"
	"sync"
)

var (
	ErrAllocationFailed  = errors.New("cannot allocate pseudo-terminal")
	ErrLinkFailed        = errors.New("cannot create symbolic link")
	ErrPathConflict      = errors.New("path exists and is not a FIFO")
	ErrDeviceUnavailable = errors.New("cannot open serial device")
)

// Endpoint is one pseudo-terminal pair: the master descriptor owned by
// the simulator and the OS-assigned path of the replica device that
// consumers open. The replica side is held open for the endpoint's
// lifetime so master reads see "no data" instead of EIO while no
// consumer is attached.
//
// The endpoint owns both descriptors. Forwarding tasks and the
// simulation loop borrow Master for I/O but never close it; Close is
// the single release point.
type Endpoint struct {
	master      *os.File
	replica     *os.File
	replicaPath string

	mu     sync.Mutex
	closed bool
}

func (e *Endpoint) Master() *os.File {
	return e.master
}

// ReplicaPath is the /dev/pts/N path a consumer opens to talk to this
// endpoint.
func (e *Endpoint) ReplicaPath() string {
	return e.replicaPath
}

// Close releases both descriptors. Idempotent; second and later calls
// return nil.
func (e *Endpoint) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true

	err := e.master.Close()
	if e.replica != nil {
		if rerr := e.replica.Close(); err == nil {
			err = rerr
		}
	}
	return err
}
