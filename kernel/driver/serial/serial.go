// Package serial implements an output sink for 16550-compatible UARTs.
package serial

import (
	"io"
	"micecore/kernel"
	"micecore/kernel/cpu"
	"micecore/kernel/kfmt"
	"micecore/kernel/sync"
)

// COM1 is the I/O base of the first serial port on PC hardware.
const COM1 = uint16(0x3f8)

// Register offsets from the port base.
const (
	regData     = 0 // DLL when LCR.DLAB is set
	regIntrEn   = 1 // DLM when LCR.DLAB is set
	regFIFOCtrl = 2
	regLineCtrl = 3
	regModem    = 4
	regLineStat = 5
)

const (
	lineCtrlDLAB = 0x80
	lineCtrl8N1  = 0x03

	// enable FIFOs, clear both of them, 14-byte receive threshold
	fifoCtrlInit = 0xc7

	// DTR, RTS and OUT2 (routes the UART interrupt line to the PIC)
	modemCtrlInit = 0x0b

	intrEnRxAvailable = 0x01

	lineStatTxEmpty = 0x20

	// 115200 / 3
	baudDivisor = 3
	baudRate    = 38400
)

var (
	errAlreadyInitialized = &kernel.Error{Module: "serial", Message: "port already initialized"}
	errNotInitialized     = &kernel.Error{Module: "serial", Message: "port not initialized"}
)

// Port is a 16550 UART used as a transmit-only sink. Writes block until the
// transmitter holding register is empty; nothing is buffered.
type Port struct {
	lock sync.IRQSpinlock

	base        uint16
	ports       cpu.Ports
	initialized bool
}

// NewPort returns a Port for the UART whose registers start at base.
func NewPort(base uint16, ports cpu.Ports) *Port {
	return &Port{base: base, ports: ports}
}

// Init programs the UART for 38400 baud 8N1 with FIFOs enabled. It may only
// be called once.
func (p *Port) Init() *kernel.Error {
	var err *kernel.Error

	p.lock.Do(func() {
		if p.initialized {
			err = errAlreadyInitialized
			return
		}

		p.out(regIntrEn, 0)
		p.out(regLineCtrl, lineCtrlDLAB)
		p.out(regData, baudDivisor&0xff)
		p.out(regIntrEn, baudDivisor>>8)
		p.out(regLineCtrl, lineCtrl8N1)
		p.out(regFIFOCtrl, fifoCtrlInit)
		p.out(regModem, modemCtrlInit)
		p.out(regIntrEn, intrEnRxAvailable)

		p.initialized = true
	})

	return err
}

// Initialized returns true if Init has completed.
func (p *Port) Initialized() bool {
	var ok bool
	p.lock.Do(func() {
		ok = p.initialized
	})
	return ok
}

// Write implements io.Writer. Writing to a port that has not been
// initialized fails without transmitting anything.
func (p *Port) Write(b []byte) (int, error) {
	var ok bool

	p.lock.Do(func() {
		if ok = p.initialized; ok {
			p.txAll(b)
		}
	})

	if !ok {
		return 0, errNotInitialized
	}
	return len(b), nil
}

// TryWrite implements kfmt.TryWriter for the panic and fault paths. The
// interrupted context can never release a lock it holds, so if the lock is
// held the bytes are transmitted without it; the UART accepts interleaved
// bytes. TryWrite returns false only if the port is not initialized.
func (p *Port) TryWrite(b []byte) (int, bool) {
	var ok bool

	tx := func() {
		if ok = p.initialized; ok {
			p.txAll(b)
		}
	}

	if !p.lock.TryDo(tx) {
		tx()
	}

	if !ok {
		return 0, false
	}
	return len(b), true
}

func (p *Port) txAll(b []byte) {
	for _, ch := range b {
		p.tx(ch)
	}
}

func (p *Port) tx(ch byte) {
	for p.ports.PortReadByte(p.base+regLineStat)&lineStatTxEmpty == 0 {
	}
	p.out(regData, ch)
}

func (p *Port) out(reg uint16, val uint8) {
	p.ports.PortWriteByte(p.base+reg, val)
}

// DriverName returns the name of this driver.
func (p *Port) DriverName() string {
	return "serial_16550"
}

// DriverVersion returns the version of this driver.
func (p *Port) DriverVersion() (uint16, uint16, uint16) {
	return 0, 0, 1
}

// DriverInit initializes the UART.
func (p *Port) DriverInit(w io.Writer) *kernel.Error {
	if err := p.Init(); err != nil {
		return err
	}

	kfmt.Fprintf(w, "port 0x%x, %d baud 8N1\n", p.base, baudRate)
	return nil
}
