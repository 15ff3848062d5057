//go:build !tamago

package hal

import (
	"micecore/kernel/cpu"
	"micecore/kernel/driver/serial"
)

// newSerial returns the 16550 driver for the configured port.
func newSerial(cfg Config, ports cpu.Ports) SerialSink {
	return serial.NewPort(cfg.SerialBase, ports)
}
