//go:build tamago

package serial

import (
	"io"
	"micecore/kernel"
	"micecore/kernel/kfmt"
	"micecore/kernel/sync"

	"github.com/usbarmory/tamago/soc/intel/uart"
)

// TamagoPort is a serial sink backed by the TamaGo UART driver. It is used
// when the kernel is built for the TamaGo bare-metal runtime, which owns the
// UART registers.
type TamagoPort struct {
	lock sync.IRQSpinlock

	uart        *uart.UART
	initialized bool
}

// NewTamagoPort returns a sink for the UART with the given index whose
// registers start at base.
func NewTamagoPort(index int, base uint16) *TamagoPort {
	return &TamagoPort{
		uart: &uart.UART{
			Index: index,
			Base:  base,
		},
	}
}

// Init initializes the UART. It may only be called once.
func (p *TamagoPort) Init() *kernel.Error {
	var err *kernel.Error

	p.lock.Do(func() {
		if p.initialized {
			err = errAlreadyInitialized
			return
		}

		p.uart.Init()
		p.initialized = true
	})

	return err
}

// Write implements io.Writer.
func (p *TamagoPort) Write(b []byte) (int, error) {
	var ok bool

	p.lock.Do(func() {
		if ok = p.initialized; !ok {
			return
		}

		for _, ch := range b {
			p.uart.Tx(ch)
		}
	})

	if !ok {
		return 0, errNotInitialized
	}
	return len(b), nil
}

// TryWrite implements kfmt.TryWriter. Like Port.TryWrite it transmits
// without the lock when the interrupted context holds it.
func (p *TamagoPort) TryWrite(b []byte) (int, bool) {
	var ok bool

	tx := func() {
		if ok = p.initialized; ok {
			for _, ch := range b {
				p.uart.Tx(ch)
			}
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

// DriverName returns the name of this driver.
func (p *TamagoPort) DriverName() string {
	return "tamago_uart"
}

// DriverVersion returns the version of this driver.
func (p *TamagoPort) DriverVersion() (uint16, uint16, uint16) {
	return 0, 0, 1
}

// DriverInit initializes the UART.
func (p *TamagoPort) DriverInit(w io.Writer) *kernel.Error {
	if err := p.Init(); err != nil {
		return err
	}

	kfmt.Fprintf(w, "COM%d at 0x%x\n", p.uart.Index, p.uart.Base)
	return nil
}
