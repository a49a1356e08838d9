// Copyright 2026 The gnss_sim Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	contents := `
interval_seconds = 0.5
device_baud_rate = 4800
link_path = "/tmp/ttyGNSS"
quiet = true
`
	path := filepath.Join(t.TempDir(), "gnss_sim.conf")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	c, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if c.Interval != 0.5 {
		t.Errorf("Interval expected 0.5, got %v", c.Interval)
	}
	if c.BaudRate != 4800 {
		t.Errorf("BaudRate expected 4800, got %d", c.BaudRate)
	}
	if c.LinkPath != "/tmp/ttyGNSS" {
		t.Errorf("LinkPath expected /tmp/ttyGNSS, got %q", c.LinkPath)
	}
	if !c.Quiet {
		t.Error("Quiet expected true")
	}
}

// Fields absent from the file keep their defaults.
func TestParsePartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gnss_sim.conf")
	if err := os.WriteFile(path, []byte("quiet = true\n"), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	c, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	def := Default()
	if c.Interval != def.Interval {
		t.Errorf("Interval expected default %v, got %v", def.Interval, c.Interval)
	}
	if c.BaudRate != def.BaudRate {
		t.Errorf("BaudRate expected default %d, got %d", def.BaudRate, c.BaudRate)
	}
}

func TestParseMissingFile(t *testing.T) {
	if _, err := Parse(filepath.Join(t.TempDir(), "nope.conf")); err == nil {
		t.Error("expected error for missing file")
	}
}
