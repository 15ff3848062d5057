// Package irq implements the interrupt dispatch core: it binds the CPU
// exception handlers and the device interrupt handlers to the vector table
// and enables interrupt delivery once the interrupt controllers are ready.
package irq

import (
	"io"
	"micecore/kernel"
	"micecore/kernel/cpu"
	"micecore/kernel/driver/kbd"
	"micecore/kernel/gate"
	"micecore/kernel/kfmt"
)

// Controller is implemented by interrupt controllers that deliver device
// interrupts on remapped vectors.
type Controller interface {
	Remapped() bool
	Offsets() (primary, secondary uint8)
	SetMasks(primary, secondary uint8)
	Acknowledge(vector uint8) (bool, *kernel.Error)
}

// IRQ line masks applied by Enable. Only the timer (IRQ 0) and keyboard
// (IRQ 1) lines have handlers; every other line stays masked.
const (
	primaryLineMask   = 0xfc
	secondaryLineMask = 0xff
)

// KeySource is implemented by keyboards that decode a scancode stream.
type KeySource interface {
	ReadScancode() byte
	Feed(b byte) (kbd.Key, bool)
}

// Config describes how the dispatch core is wired.
type Config struct {
	// PrimaryOffset is the first vector of the primary interrupt
	// controller. The timer (IRQ 0) is delivered on this vector and the
	// keyboard (IRQ 1) on the next one.
	PrimaryOffset uint8

	// DoubleFaultIST is the interrupt stack table index of the stack
	// used by the double fault handler.
	DoubleFaultIST uint8

	// Diagnostics receives the exception reports. The double fault report
	// is written without waiting on sink locks (see kfmt.NonBlocking).
	Diagnostics io.Writer

	// Echo receives the keys typed on the keyboard.
	Echo io.Writer
}

var (
	errNotInstalled          = &kernel.Error{Module: "irq", Message: "vector table not installed"}
	errAlreadyInstalled      = &kernel.Error{Module: "irq", Message: "vector table already installed"}
	errControllerNotRemapped = &kernel.Error{Module: "irq", Message: "interrupt controller not remapped"}
	errVectorMismatch        = &kernel.Error{Module: "irq", Message: "interrupt controller offset does not match the installed handlers"}
	errUnacknowledged        = &kernel.Error{Module: "irq", Message: "interrupt controller did not acknowledge vector"}

	enableInterruptsFn = cpu.EnableInterrupts
	haltForeverFn      = cpu.HaltForever
	panicFn            = kfmt.Panic
	installTableFn     = (*gate.Table).Install
)

// Core owns the vector table and the handlers bound to it.
type Core struct {
	cfg      Config
	fatal    io.Writer
	table    gate.Table
	pics     Controller
	keyboard KeySource

	installed bool
	enabled   bool
}

// NewCore returns a Core that acknowledges device interrupts through pics
// and reads keys from keyboard.
func NewCore(cfg Config, pics Controller, keyboard KeySource) *Core {
	return &Core{
		cfg:      cfg,
		fatal:    kfmt.NonBlocking(cfg.Diagnostics),
		pics:     pics,
		keyboard: keyboard,
	}
}

// TimerVector returns the vector the timer interrupt is delivered on.
func (c *Core) TimerVector() gate.InterruptNumber {
	return gate.InterruptNumber(c.cfg.PrimaryOffset)
}

// KeyboardVector returns the vector the keyboard interrupt is delivered on.
func (c *Core) KeyboardVector() gate.InterruptNumber {
	return gate.InterruptNumber(c.cfg.PrimaryOffset + 1)
}

// Install registers the breakpoint, double fault, timer and keyboard
// handlers and loads the vector table into the CPU. Interrupts stay
// disabled until Enable is called.
func (c *Core) Install() *kernel.Error {
	if c.installed {
		return errAlreadyInstalled
	}

	regs := []struct {
		num     gate.InterruptNumber
		ist     uint8
		handler gate.Handler
	}{
		{gate.Breakpoint, 0, c.handleBreakpoint},
		{gate.DoubleFault, c.cfg.DoubleFaultIST, c.handleDoubleFault},
		{c.TimerVector(), 0, c.handleTimer},
		{c.KeyboardVector(), 0, c.handleKeyboard},
	}

	for _, r := range regs {
		if err := c.table.Register(r.num, r.ist, r.handler); err != nil {
			return err
		}
	}

	if err := installTableFn(&c.table); err != nil {
		return err
	}

	c.installed = true
	return nil
}

// Enable unmasks the timer and keyboard lines and allows the CPU to deliver
// interrupts. The vector table must be installed and the interrupt
// controller remapped to the vectors that the device handlers were
// registered for.
func (c *Core) Enable() *kernel.Error {
	switch {
	case !c.installed:
		return errNotInstalled
	case !c.pics.Remapped():
		return errControllerNotRemapped
	}

	if primary, _ := c.pics.Offsets(); primary != c.cfg.PrimaryOffset {
		return errVectorMismatch
	}

	c.pics.SetMasks(primaryLineMask, secondaryLineMask)
	enableInterruptsFn()
	c.enabled = true
	return nil
}

// Enabled returns true once Enable has succeeded.
func (c *Core) Enabled() bool {
	return c.enabled
}

func (c *Core) handleBreakpoint(regs *gate.Registers) {
	kfmt.Fprintf(c.cfg.Diagnostics, "EXCEPTION: BREAKPOINT\n")
	regs.DumpTo(c.cfg.Diagnostics)
}

func (c *Core) handleDoubleFault(regs *gate.Registers) {
	kfmt.Fprintf(c.fatal, "EXCEPTION: DOUBLE FAULT\n")
	regs.DumpTo(c.fatal)
	haltForeverFn()
}

func (c *Core) handleTimer(regs *gate.Registers) {
	c.acknowledge(regs)
}

func (c *Core) handleKeyboard(regs *gate.Registers) {
	if key, ok := c.keyboard.Feed(c.keyboard.ReadScancode()); ok {
		if key.Printable() {
			kfmt.Fprintf(c.cfg.Echo, "%c", key.Rune)
		} else {
			kfmt.Fprintf(c.cfg.Echo, "%s", key.Code.String())
		}
	}

	c.acknowledge(regs)
}

// acknowledge signals the end of service for the vector being handled. The
// controller cannot deliver further interrupts on a line that was not
// acknowledged so a failure is fatal.
func (c *Core) acknowledge(regs *gate.Registers) {
	handled, err := c.pics.Acknowledge(uint8(regs.Vector))
	switch {
	case err != nil:
		panicFn(err)
	case !handled:
		panicFn(errUnacknowledged)
	}
}
