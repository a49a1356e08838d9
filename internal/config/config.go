// Copyright 2026 The gnss_sim Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"io/ioutil"

	toml "github.com/pelletier/go-toml"
)

// Config holds the file-supplied defaults; command-line flags override
// any of them.
type Config struct {
	Interval float64 `toml:"interval_seconds"`
	BaudRate int     `toml:"device_baud_rate"`
	LinkPath string  `toml:"link_path"`
	LogFile  string  `toml:"nmea_log_file"`
	Quiet    bool    `toml:"quiet"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Interval: 1.0,
		BaudRate: 9600,
	}
}

func Parse(file string) (c *Config, err error) {
	contents, err := ioutil.ReadFile(file)
	if err != nil {
		err = fmt.Errorf("config.Parse(): %w", err)
		return
	}

	c = Default()

	if err = toml.Unmarshal(contents, c); err != nil {
		err = fmt.Errorf("config.Parse(): %w", err)
	}

	return
}
