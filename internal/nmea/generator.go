// Copyright 2026 The gnss_sim Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package nmea

import (
	"bytes"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// constellation describes one satellite system: the NMEA talker id used
// for its GSA sentence and the PRN range its satellites are drawn from.
type constellation struct {
	talker string
	prnMin int
	prnMax int
}

var constellations = []constellation{
	{"GP", 1, 32},    // GPS
	{"GL", 65, 96},   // GLONASS
	{"GA", 1, 36},    // Galileo
	{"GB", 101, 136}, // BeiDou
	{"GQ", 183, 202}, // QZSS
}

type satellite struct {
	constell  int // index into constellations
	prn       int
	elevation int
	azimuth   int
	snr       int
}

type location struct {
	latitude  string
	ns        string
	longitude string
	ew        string
}

// Generator produces batches of plausible NMEA sentences describing a
// randomly wandering fix. All randomness comes from the injected source,
// so a seeded source makes the output reproducible.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{
		rng: rng,
		now: time.Now,
	}
}

func (g *Generator) uniform(min, max float64) float64 {
	return min + g.rng.Float64()*(max-min)
}

func (g *Generator) intRange(min, max int) int {
	return min + g.rng.Intn(max-min+1)
}

// location samples a random coordinate and renders it in the NMEA
// ddmm.mmmm / dddmm.mmmm form: degrees zero-padded to fixed width,
// minutes with exactly four decimal digits.
func (g *Generator) location() location {
	lat := g.uniform(-90.0, 90.0)
	ns := "N"
	if lat < 0 {
		ns = "S"
	}
	lat = math.Abs(lat)
	latDeg := int(lat)
	latMin := (lat - float64(latDeg)) * 60.0

	lon := g.uniform(-180.0, 180.0)
	ew := "E"
	if lon < 0 {
		ew = "W"
	}
	lon = math.Abs(lon)
	lonDeg := int(lon)
	lonMin := (lon - float64(lonDeg)) * 60.0

	return location{
		latitude:  fmt.Sprintf("%02d%07.4f", latDeg, latMin),
		ns:        ns,
		longitude: fmt.Sprintf("%03d%07.4f", lonDeg, lonMin),
		ew:        ew,
	}
}

func (g *Generator) utcTime() string {
	return g.now().UTC().Format("150405")
}

func (g *Generator) utcDate() string {
	return g.now().UTC().Format("020106")
}

// satellites samples a constellation-mixed set of 4..12 satellites in
// view, each with a PRN from its system's range.
func (g *Generator) satellites() []satellite {
	count := g.intRange(4, 12)
	sats := make([]satellite, count)
	for i := range sats {
		c := g.rng.Intn(len(constellations))
		sats[i] = satellite{
			constell:  c,
			prn:       g.intRange(constellations[c].prnMin, constellations[c].prnMax),
			elevation: g.intRange(0, 90),
			azimuth:   g.intRange(0, 359),
			snr:       g.intRange(0, 50),
		}
	}
	return sats
}

var fixQualities = []string{"0", "1", "2", "4", "5"}

func (g *Generator) rmc(loc location) Sentence {
	return Sentence{
		Type: "GPRMC",
		Data: []string{
			g.utcTime(),
			"A",
			loc.latitude, loc.ns,
			loc.longitude, loc.ew,
			fmt.Sprintf("%05.1f", g.uniform(0, 100)),
			fmt.Sprintf("%05.1f", g.uniform(0, 360)),
			g.utcDate(),
			"", "", "",
		},
	}
}

func (g *Generator) gga(loc location, numSatellites int) Sentence {
	return Sentence{
		Type: "GPGGA",
		Data: []string{
			g.utcTime(),
			loc.latitude, loc.ns,
			loc.longitude, loc.ew,
			fixQualities[g.rng.Intn(len(fixQualities))],
			fmt.Sprintf("%02d", numSatellites),
			fmt.Sprintf("%.1f", g.uniform(0.5, 2.5)),
			fmt.Sprintf("%.1f", g.uniform(10.0, 100.0)),
			"M",
			fmt.Sprintf("%.1f", g.uniform(-50.0, 50.0)),
			"M",
			"", "",
		},
	}
}

func (g *Generator) gll(loc location) Sentence {
	return Sentence{
		Type: "GPGLL",
		Data: []string{
			loc.latitude, loc.ns,
			loc.longitude, loc.ew,
			g.utcTime(),
			"A",
		},
	}
}

// gsa emits one GSA sentence per constellation present in the
// satellite set, using that system's talker id. The PRN list is always
// padded to the 12 slots the sentence defines.
func (g *Generator) gsa(sats []satellite) []Sentence {
	byConstell := make([][]satellite, len(constellations))
	for _, s := range sats {
		byConstell[s.constell] = append(byConstell[s.constell], s)
	}

	fixType := fmt.Sprintf("%d", g.intRange(1, 3))
	pdop := fmt.Sprintf("%.1f", g.uniform(0.5, 10.0))
	hdop := fmt.Sprintf("%.1f", g.uniform(0.5, 10.0))
	vdop := fmt.Sprintf("%.1f", g.uniform(0.5, 10.0))

	var sentences []Sentence
	for c, group := range byConstell {
		if len(group) == 0 {
			continue
		}
		data := []string{"A", fixType}
		for i := 0; i < 12; i++ {
			if i < len(group) {
				data = append(data, fmt.Sprintf("%d", group[i].prn))
			} else {
				data = append(data, "")
			}
		}
		data = append(data, pdop, hdop, vdop)
		sentences = append(sentences, Sentence{
			Type: constellations[c].talker + "GSA",
			Data: data,
		})
	}
	return sentences
}

// gsv renders the satellites-in-view set as a sequence of GSV
// sentences, four satellites per message.
func (g *Generator) gsv(sats []satellite) []Sentence {
	total := (len(sats) + 3) / 4
	var sentences []Sentence
	for msg := 0; msg < total; msg++ {
		end := (msg + 1) * 4
		if end > len(sats) {
			end = len(sats)
		}
		data := []string{
			fmt.Sprintf("%d", total),
			fmt.Sprintf("%d", msg+1),
			fmt.Sprintf("%d", len(sats)),
		}
		for _, s := range sats[msg*4 : end] {
			data = append(data,
				fmt.Sprintf("%d", s.prn),
				fmt.Sprintf("%d", s.elevation),
				fmt.Sprintf("%d", s.azimuth),
				fmt.Sprintf("%d", s.snr),
			)
		}
		sentences = append(sentences, Sentence{Type: "GPGSV", Data: data})
	}
	return sentences
}

// NextBatch returns one complete simulation cycle: position, fix and
// satellite-visibility sentences sharing a single sampled location.
func (g *Generator) NextBatch() ([]byte, error) {
	loc := g.location()
	sats := g.satellites()

	sentences := []Sentence{
		g.rmc(loc),
		g.gga(loc, len(sats)),
	}
	sentences = append(sentences, g.gsa(sats)...)
	sentences = append(sentences, g.gsv(sats)...)
	sentences = append(sentences, g.gll(loc))

	var buf bytes.Buffer
	for _, s := range sentences {
		buf.WriteString(s.Frame())
	}
	return buf.Bytes(), nil
}
