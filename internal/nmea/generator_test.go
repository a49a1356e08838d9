// Copyright 2026 The gnss_sim Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package nmea

import (
	"math/rand"
	"strings"
	"testing"
)

func batchLines(t *testing.T, g *Generator) []string {
	t.Helper()

	batch, err := g.NextBatch()
	if err != nil {
		t.Fatalf("NextBatch: %v", err)
	}
	raw := string(batch)
	if !strings.HasSuffix(raw, "\r\n") {
		t.Fatalf("batch not CRLF terminated: %q", raw[len(raw)-4:])
	}

	return strings.Split(strings.TrimSuffix(raw, "\r\n"), "\r\n")
}

// Every emitted sentence must carry a checksum matching the XOR of the
// bytes between $ and *, as two upper-case hex digits.
func TestBatchChecksums(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(1)))

	for iter := 0; iter < 50; iter++ {
		for _, line := range batchLines(t, g) {
			if len(line) < 4 || line[0] != '$' {
				t.Fatalf("malformed sentence: %q", line)
			}
			star := strings.LastIndexByte(line, '*')
			if star < 0 || len(line)-star != 3 {
				t.Fatalf("missing 2-digit checksum: %q", line)
			}
			if got, want := line[star+1:], checksum(line[1:star]); got != want {
				t.Errorf("%q checksum expected: %q, got: %q", line, want, got)
			}
		}
	}
}

func TestBatchSentenceTypes(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(7)))
	lines := batchLines(t, g)

	for _, want := range []string{"RMC", "GGA", "GSA", "GSV", "GLL"} {
		found := false
		for _, line := range lines {
			if len(line) >= 7 && line[3:6] == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("batch missing %s sentence:\n%s", want, strings.Join(lines, "\n"))
		}
	}

	// position sentences always come from the GP talker
	for _, line := range lines {
		typ := line[1:7]
		switch typ[2:] {
		case "RMC,", "GGA,", "GLL,", "GSV,":
			if typ[:2] != "GP" {
				t.Errorf("unexpected talker for %q", line)
			}
		}
	}
}

func TestGsaTalkers(t *testing.T) {
	valid := map[string]bool{"GP": true, "GL": true, "GA": true, "GB": true, "GQ": true}

	g := NewGenerator(rand.New(rand.NewSource(3)))
	for iter := 0; iter < 20; iter++ {
		for _, line := range batchLines(t, g) {
			if len(line) < 7 || line[3:6] != "GSA" {
				continue
			}
			if !valid[line[1:3]] {
				t.Errorf("GSA sentence with unknown talker: %q", line)
			}
			// 17 data fields: mode, fix type, 12 PRN slots, 3 DOPs
			star := strings.LastIndexByte(line, '*')
			if fields := strings.Split(line[1:star], ","); len(fields) != 18 {
				t.Errorf("GSA field count expected 18, got %d: %q", len(fields), line)
			}
		}
	}
}

// Latitude is ddmm.mmmm (9 chars), longitude dddmm.mmmm (10 chars),
// with hemisphere letters consistent with their field.
func TestLocationFormat(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(11)))

	for iter := 0; iter < 100; iter++ {
		loc := g.location()

		if len(loc.latitude) != 9 {
			t.Errorf("latitude %q expected width 9", loc.latitude)
		}
		if loc.latitude[4] != '.' {
			t.Errorf("latitude %q missing decimal point at offset 4", loc.latitude)
		}
		if len(loc.longitude) != 10 {
			t.Errorf("longitude %q expected width 10", loc.longitude)
		}
		if loc.longitude[5] != '.' {
			t.Errorf("longitude %q missing decimal point at offset 5", loc.longitude)
		}
		if loc.ns != "N" && loc.ns != "S" {
			t.Errorf("hemisphere %q not in {N,S}", loc.ns)
		}
		if loc.ew != "E" && loc.ew != "W" {
			t.Errorf("hemisphere %q not in {E,W}", loc.ew)
		}
	}
}

func TestSatellitePrnRanges(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(23)))

	for iter := 0; iter < 100; iter++ {
		sats := g.satellites()
		if len(sats) < 4 || len(sats) > 12 {
			t.Fatalf("satellite count %d out of range", len(sats))
		}
		for _, s := range sats {
			c := constellations[s.constell]
			if s.prn < c.prnMin || s.prn > c.prnMax {
				t.Errorf("%s satellite PRN %d outside [%d, %d]", c.talker, s.prn, c.prnMin, c.prnMax)
			}
		}
	}
}
