// Package kbd decodes the scancode stream of a PS/2 keyboard into key
// presses.
package kbd

import (
	"io"
	"micecore/kernel"
	"micecore/kernel/cpu"
	"micecore/kernel/kfmt"
	"micecore/kernel/sync"
)

const (
	// DataPort is the controller port that holds the next scancode.
	DataPort = uint16(0x60)

	statusPort         = uint16(0x64)
	statusOutputFull   = 0x01
	maxFlushedScancode = 16
)

type decoderState uint8

const (
	stateUninitialized decoderState = iota
	stateReady
)

// Keyboard owns the decoder state of the system keyboard. It is shared
// between the keyboard interrupt handler and normal code so all access is
// serialized with interrupts masked. The decoder is created the first time
// a scancode arrives.
type Keyboard struct {
	lock sync.IRQSpinlock

	ports    cpu.Ports
	dataPort uint16

	state   decoderState
	decoder Decoder
}

// New returns a Keyboard that reads scancodes from dataPort.
func New(ports cpu.Ports, dataPort uint16) *Keyboard {
	return &Keyboard{ports: ports, dataPort: dataPort}
}

// Feed passes a scancode byte to the decoder and returns the decoded key
// once a complete key press has been received.
func (k *Keyboard) Feed(b byte) (Key, bool) {
	var (
		key Key
		ok  bool
	)

	k.lock.Do(func() {
		if k.state == stateUninitialized {
			k.decoder = NewDecoder()
			k.state = stateReady
		}

		var ev KeyEvent
		if ev, ok = k.decoder.AddByte(b); ok {
			key, ok = k.decoder.ProcessEvent(ev)
		}
	})

	return key, ok
}

// ReadScancode reads one byte from the data port. It must only be called
// when the controller has signalled that a byte is available.
func (k *Keyboard) ReadScancode() byte {
	return k.ports.PortReadByte(k.dataPort)
}

// Modifiers returns the current modifier state.
func (k *Keyboard) Modifiers() Modifiers {
	var mods Modifiers
	k.lock.Do(func() {
		if k.state == stateReady {
			mods = k.decoder.Modifiers()
		}
	})
	return mods
}

// DriverName returns the name of this driver.
func (k *Keyboard) DriverName() string {
	return "ps2_keyboard"
}

// DriverVersion returns the version of this driver.
func (k *Keyboard) DriverVersion() (uint16, uint16, uint16) {
	return 0, 0, 1
}

// DriverInit discards any scancodes left in the controller by the firmware
// so the first interrupt delivers a fresh byte.
func (k *Keyboard) DriverInit(w io.Writer) *kernel.Error {
	var flushed int
	for ; flushed < maxFlushedScancode; flushed++ {
		if k.ports.PortReadByte(statusPort)&statusOutputFull == 0 {
			break
		}
		k.ports.PortReadByte(k.dataPort)
	}

	kfmt.Fprintf(w, "data port 0x%x, flushed %d byte(s)\n", k.dataPort, flushed)
	return nil
}
