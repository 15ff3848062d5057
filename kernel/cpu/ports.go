// Package cpu exposes the privileged amd64 instructions used by the kernel:
// interrupt flag control, halting and port-mapped I/O.
package cpu

// Ports is implemented by objects that can perform port-mapped I/O. Drivers
// accept a Ports value instead of calling PortReadByte/PortWriteByte directly
// so their register sequences can be observed by tests.
type Ports interface {
	PortReadByte(port uint16) uint8
	PortWriteByte(port uint16, val uint8)
}

// IOWaitPort is an unused port (POST diagnostics) that can be written to in
// order to introduce a short delay between accesses to slow devices.
const IOWaitPort = uint16(0x80)

var _ Ports = HardwarePorts{}

// HardwarePorts performs real IN/OUT instructions.
type HardwarePorts struct{}

// PortReadByte reads a byte from the requested port.
func (HardwarePorts) PortReadByte(port uint16) uint8 { return PortReadByte(port) }

// PortWriteByte writes a byte to the requested port.
func (HardwarePorts) PortWriteByte(port uint16, val uint8) { PortWriteByte(port, val) }

// IOWait issues a throw-away write to IOWaitPort.
func IOWait(p Ports) {
	p.PortWriteByte(IOWaitPort, 0)
}
