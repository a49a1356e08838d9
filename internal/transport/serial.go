// Copyright 2026 The gnss_sim Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package transport

import (
	"fmt"

	"go.bug.st/serial"
)

// OpenSerial opens a real serial device for writing NMEA output. The
// device is never created or removed by the simulator; it only has to
// exist and be openable.
func OpenSerial(device string, baud int) (serial.Port, error) {
	port, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("transport.OpenSerial(): %w: %s: %v", ErrDeviceUnavailable, device, err)
	}
	return port, nil
}
