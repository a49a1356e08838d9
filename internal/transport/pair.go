// Copyright 2026 The gnss_sim Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package transport

import (
	"fmt"
	"log"
	"sync"
)

// LinkedPair is two pseudo-terminal endpoints published at the two
// paths a test harness opens: InputPath carries simulated GPS output,
// OutputPath carries it back out after bridging, plus anything the
// consumer writes in the other direction.
type LinkedPair struct {
	In  *Endpoint
	Out *Endpoint

	InputPath  string
	OutputPath string

	cleanupOnce sync.Once
}

// NewLinkedPair provisions both endpoints and publishes them. On any
// failure the partial state created so far is torn down before the
// error is returned.
func NewLinkedPair(inputPath, outputPath string) (*LinkedPair, error) {
	in, err := CreatePtyPair()
	if err != nil {
		return nil, fmt.Errorf("transport.NewLinkedPair(): %w", err)
	}
	fmt.Printf("Virtual serial port created at: %s\n", in.ReplicaPath())

	out, err := CreatePtyPair()
	if err != nil {
		in.Close()
		return nil, fmt.Errorf("transport.NewLinkedPair(): %w", err)
	}
	fmt.Printf("Virtual serial port created at: %s\n", out.ReplicaPath())

	if err := Publish(in.ReplicaPath(), inputPath); err != nil {
		out.Close()
		in.Close()
		return nil, fmt.Errorf("transport.NewLinkedPair(): %w", err)
	}

	if err := Publish(out.ReplicaPath(), outputPath); err != nil {
		if rerr := RemoveLink(inputPath); rerr != nil {
			log.Println(rerr)
		}
		out.Close()
		in.Close()
		return nil, fmt.Errorf("transport.NewLinkedPair(): %w", err)
	}

	return &LinkedPair{
		In:         in,
		Out:        out,
		InputPath:  inputPath,
		OutputPath: outputPath,
	}, nil
}

// Cleanup removes both published links and closes both endpoints.
// Idempotent, and never escalates: an already-removed link counts as
// success, anything else is logged and swallowed.
func (p *LinkedPair) Cleanup() {
	p.cleanupOnce.Do(func() {
		if err := RemoveLink(p.InputPath); err != nil {
			log.Println(err)
		}
		if err := RemoveLink(p.OutputPath); err != nil {
			log.Println(err)
		}
		if err := p.In.Close(); err != nil {
			log.Printf("transport: closing %s: %v\n", p.In.ReplicaPath(), err)
		}
		if err := p.Out.Close(); err != nil {
			log.Printf("transport: closing %s: %v\n", p.Out.ReplicaPath(), err)
		}
	})
}
