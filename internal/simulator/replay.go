// Copyright 2026 The gnss_sim Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package simulator

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"
)

// LogPlayer replays a recorded NMEA log instead of generating random
// sentences. Each batch spans one receiver cycle: from an RMC sentence
// up to (but not including) the next one. The log loops at EOF for
// continuous simulation.
type LogPlayer struct {
	lines []string
	pos   int
}

func NewLogPlayer(path string) (*LogPlayer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("simulator.NewLogPlayer(): %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("simulator.NewLogPlayer(): %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("simulator.NewLogPlayer(): %s contains no sentences", path)
	}

	return &LogPlayer{lines: lines}, nil
}

// isRmc reports whether a line opens a new receiver cycle. The talker
// id varies ($GPRMC, $GNRMC, ...), the sentence type does not.
func isRmc(line string) bool {
	return len(line) >= 6 && line[0] == '$' && line[3:6] == "RMC"
}

// NextBatch returns the next cycle of the log, CRLF-terminated,
// wrapping to the start after the last line.
func (p *LogPlayer) NextBatch() ([]byte, error) {
	var buf bytes.Buffer

	for i := 0; i < len(p.lines); i++ {
		line := p.lines[p.pos]
		if i > 0 && isRmc(line) {
			break
		}
		buf.WriteString(line)
		buf.WriteString("\r\n")
		p.pos = (p.pos + 1) % len(p.lines)
	}

	return buf.Bytes(), nil
}
