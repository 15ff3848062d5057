//go:build tamago

package hal

import (
	"micecore/kernel/cpu"
	"micecore/kernel/driver/serial"
)

// newSerial returns a sink backed by the TamaGo UART driver. The runtime
// owns the UART registers so the supplied ports are not used.
func newSerial(cfg Config, _ cpu.Ports) SerialSink {
	return serial.NewTamagoPort(1, cfg.SerialBase)
}
