// Copyright 2026 The gnss_sim Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package transport

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// CreatePtyPair allocates a pseudo-terminal pair from the devpts
// interface and returns an Endpoint owning the master descriptor. The
// replica is configured as a raw 9600 8N1 serial line so NMEA bytes
// pass through without line-discipline translation.
func CreatePtyPair() (*Endpoint, error) {
	master, err := os.OpenFile("/dev/ptmx", os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, fmt.Errorf("transport.CreatePtyPair(): %w: %v", ErrAllocationFailed, err)
	}

	fd := int(master.Fd())

	ptyNumber, err := unix.IoctlGetInt(fd, unix.TIOCGPTN)
	if err != nil {
		master.Close()
		return nil, fmt.Errorf("transport.CreatePtyPair(): %w: TIOCGPTN: %v", ErrAllocationFailed, err)
	}

	if err := unix.IoctlSetPointerInt(fd, unix.TIOCSPTLCK, 0); err != nil {
		master.Close()
		return nil, fmt.Errorf("transport.CreatePtyPair(): %w: TIOCSPTLCK: %v", ErrAllocationFailed, err)
	}

	replicaPath := fmt.Sprintf("/dev/pts/%d", ptyNumber)

	replica, err := os.OpenFile(replicaPath, os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		master.Close()
		return nil, fmt.Errorf("transport.CreatePtyPair(): %w: open %s: %v", ErrAllocationFailed, replicaPath, err)
	}

	if err := makeRaw(int(replica.Fd())); err != nil {
		replica.Close()
		master.Close()
		return nil, fmt.Errorf("transport.CreatePtyPair(): %w", err)
	}

	return &Endpoint{
		master:      master,
		replica:     replica,
		replicaPath: replicaPath,
	}, nil
}

// makeRaw disables echo and all input/output processing on the replica
// and pins the line to 9600 8N1, mirroring a bare serial port.
func makeRaw(fd int) error {
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("get terminal attributes: %v", err)
	}

	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON | unix.IXOFF | unix.IXANY
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHOE | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB | unix.CSTOPB | unix.CRTSCTS
	t.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL

	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0

	t.Cflag &^= unix.CBAUD
	t.Cflag |= unix.B9600
	t.Ispeed = unix.B9600
	t.Ospeed = unix.B9600

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, t); err != nil {
		return fmt.Errorf("set terminal attributes: %v", err)
	}
	return nil
}

// Publish exposes a replica device at a stable path by creating a
// symbolic link. An existing entry at linkPath is replaced,
// last-writer-wins; callers must use distinct paths per simulator
// instance.
func Publish(replicaPath, linkPath string) error {
	if err := os.Remove(linkPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("transport.Publish(): %w: %v", ErrLinkFailed, err)
	}
	if err := os.Symlink(replicaPath, linkPath); err != nil {
		return fmt.Errorf("transport.Publish(): %w: %v", ErrLinkFailed, err)
	}
	return nil
}

// RemoveLink deletes a published path, treating an already-removed
// entry as success.
func RemoveLink(linkPath string) error {
	if err := os.Remove(linkPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("transport.RemoveLink(): %w", err)
	}
	return nil
}
