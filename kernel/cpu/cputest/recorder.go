// Package cputest provides a port I/O fake for testing drivers that talk to
// hardware through cpu.Ports.
package cputest

import "micecore/kernel/cpu"

// Access describes a single port access observed by a Recorder.
type Access struct {
	Write bool
	Port  uint16
	Value uint8
}

// Recorder implements cpu.Ports. Every access is appended to Log. Reads are
// served from the per-port queues in Inputs; once a queue is drained the
// value from Defaults (or zero) is returned.
type Recorder struct {
	Log      []Access
	Inputs   map[uint16][]uint8
	Defaults map[uint16]uint8

	// Ignore lists ports whose accesses are not recorded (e.g. the I/O
	// wait port).
	Ignore map[uint16]bool

	// OnWrite, if set, is invoked after each recorded write. Tests use it
	// to run code (e.g. an interrupt handler) in the middle of a driver
	// operation.
	OnWrite func(port uint16, val uint8)
}

var _ cpu.Ports = (*Recorder)(nil)

// NewRecorder returns a Recorder that does not log accesses to
// cpu.IOWaitPort.
func NewRecorder() *Recorder {
	return &Recorder{
		Inputs:   make(map[uint16][]uint8),
		Defaults: make(map[uint16]uint8),
		Ignore:   map[uint16]bool{cpu.IOWaitPort: true},
	}
}

// Queue appends values to be returned by subsequent reads from port.
func (r *Recorder) Queue(port uint16, values ...uint8) {
	if r.Inputs == nil {
		r.Inputs = make(map[uint16][]uint8)
	}
	r.Inputs[port] = append(r.Inputs[port], values...)
}

// PortReadByte implements cpu.Ports.
func (r *Recorder) PortReadByte(port uint16) uint8 {
	val := r.Defaults[port]
	if q := r.Inputs[port]; len(q) != 0 {
		val, r.Inputs[port] = q[0], q[1:]
	}

	if !r.Ignore[port] {
		r.Log = append(r.Log, Access{Port: port, Value: val})
	}
	return val
}

// PortWriteByte implements cpu.Ports.
func (r *Recorder) PortWriteByte(port uint16, val uint8) {
	if r.Ignore[port] {
		return
	}
	r.Log = append(r.Log, Access{Write: true, Port: port, Value: val})

	if r.OnWrite != nil {
		r.OnWrite(port, val)
	}
}

// Writes returns the values written to port in order.
func (r *Recorder) Writes(port uint16) []uint8 {
	var out []uint8
	for _, a := range r.Log {
		if a.Write && a.Port == port {
			out = append(out, a.Value)
		}
	}
	return out
}

// Reset clears the access log.
func (r *Recorder) Reset() {
	r.Log = r.Log[:0]
}
