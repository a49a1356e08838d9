// Copyright 2026 The gnss_sim Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package bridge forwards bytes between the two master descriptors of
// a linked pseudo-terminal pair, one goroutine per direction.
package bridge

import (
	"log"
	"os"
	"sync"

	"golang.org/x/sys/unix"

	"gitlab.com/gnss-tools/gnss_sim/internal/shutdown"
)

const (
	// bufSize is the per-direction forwarding buffer. Larger payloads
	// arrive as multiple ordered chunks.
	bufSize = 1024

	// pollTimeoutMs bounds every read so a direction with no inbound
	// data still observes the shutdown flag promptly.
	pollTimeoutMs = 100
)

// Bridge runs the two forwarding directions of a linked pty pair. The
// directions are independent: an error terminates only the direction
// it occurred on. Neither direction closes the descriptors it borrows;
// the provisioner that created them releases them after Wait returns.
type Bridge struct {
	flag *shutdown.Flag
	wg   sync.WaitGroup
}

// Start spawns both forwarding goroutines. Bytes read from a are
// written to b and vice versa.
func Start(a, b *os.File, flag *shutdown.Flag) *Bridge {
	br := &Bridge{flag: flag}
	br.wg.Add(2)
	go br.forward(a, b)
	go br.forward(b, a)
	return br
}

// Wait blocks until both directions have terminated, either by
// shutdown signal or by their source becoming unreadable.
func (br *Bridge) Wait() {
	br.wg.Wait()
}

func (br *Bridge) forward(src, dst *os.File) {
	defer br.wg.Done()

	buf := make([]byte, bufSize)
	srcFd := int(src.Fd())
	fds := []unix.PollFd{{Fd: int32(srcFd), Events: unix.POLLIN}}

	for !br.flag.Signaled() {
		fds[0].Revents = 0
		n, err := unix.Poll(fds, pollTimeoutMs)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			log.Printf("bridge: poll %s: %v\n", src.Name(), err)
			return
		}
		if n == 0 {
			// timeout, re-check the shutdown flag
			continue
		}

		count, err := unix.Read(srcFd, buf)
		if count > 0 {
			if _, werr := dst.Write(buf[:count]); werr != nil {
				// best-effort bridging: the sibling direction and the
				// simulation loop keep running
				log.Printf("bridge: write %s: %v\n", dst.Name(), werr)
			}
			continue
		}
		if count == 0 {
			// a pty master read returning no bytes is not end of
			// stream, unlike a pipe
			continue
		}
		if err == unix.EINTR {
			continue
		}
		log.Printf("bridge: read %s: %v\n", src.Name(), err)
		return
	}
}
