// Package kmain contains the kernel entry point and the boot sequence.
package kmain

import (
	"micecore/kernel"
	"micecore/kernel/cpu"
	"micecore/kernel/driver/kbd"
	"micecore/kernel/driver/serial"
	"micecore/kernel/driver/video/console"
	"micecore/kernel/hal"
	"micecore/kernel/irq"
	"micecore/kernel/kfmt"
	"micecore/kernel/sync"
)

// Config controls the boot sequence.
type Config struct {
	hal.Config

	// Banner is printed on the first row of the console. The first two
	// rows never scroll so it stays visible.
	Banner string

	// BootSelfTest triggers a breakpoint exception once interrupts are
	// enabled to verify that exceptions are dispatched and return.
	BootSelfTest bool
}

// DefaultConfig returns the configuration for standard PC hardware.
func DefaultConfig() Config {
	return Config{
		Config: hal.Config{
			FramebufferAddr: console.DefaultFramebuffer,
			ConsoleFg:       console.LightGreen,
			ConsoleBg:       console.Black,
			SerialBase:      serial.COM1,
			KeyboardPort:    kbd.DataPort,
			PrimaryOffset:   0x20,
			SecondaryOffset: 0x28,
			DoubleFaultIST:  1,
		},
		Banner:       "0.0.1 Mice Core OS",
		BootSelfTest: true,
	}
}

var (
	errNoIRQCore = &kernel.Error{Module: "kmain", Message: "interrupt controller or keyboard unavailable"}

	interruptControl = sync.InterruptControl{
		Enabled: cpu.InterruptsEnabled,
		Disable: cpu.DisableInterrupts,
		Enable:  cpu.EnableInterrupts,
	}

	halInitFn    = hal.Init
	installIRQFn = (*irq.Core).Install
	enableIRQFn  = (*irq.Core).Enable
	breakpointFn = cpu.Breakpoint
	haltFn       = cpu.Halt
	panicFn      = kfmt.Panic
)

// Kmain is the only Go symbol that is visible (exported) from the rt0
// initialization code. This function is invoked by the rt0 assembly code
// after switching to long mode and loading a GDT/TSS whose first interrupt
// stack table entry points to a dedicated double fault stack.
//
// Kmain never returns. A failed boot step halts the CPU through kfmt.Panic.
//
//go:noinline
func Kmain() {
	if err := boot(DefaultConfig()); err != nil {
		panicFn(err)
	}

	// Sleep until the next interrupt; all further work happens in the
	// interrupt handlers.
	for {
		haltFn()
	}
}

// boot brings up the devices and enables interrupt delivery.
func boot(cfg Config) *kernel.Error {
	sync.SetInterruptControl(interruptControl)

	// Goes to the early ring buffer and is replayed to each sink as soon
	// as it is attached.
	kfmt.Printf("%s\n\n", cfg.Banner)

	devs, err := halInitFn(cfg.Config)
	if err != nil {
		return err
	}

	if devs.IRQ == nil {
		return errNoIRQCore
	}

	w := kfmt.NewPrefixWriter(devs.Sink, "kmain")
	kfmt.Fprintf(w, "%d device drivers active\n", len(devs.ActiveDrivers()))

	if err = devs.PICs.Remap(cfg.PrimaryOffset, cfg.SecondaryOffset); err != nil {
		return err
	}
	primary, secondary := devs.PICs.Offsets()
	kfmt.Fprintf(w, "interrupt controllers remapped to 0x%x/0x%x\n", primary, secondary)

	if err = installIRQFn(devs.IRQ); err != nil {
		return err
	}

	if err = enableIRQFn(devs.IRQ); err != nil {
		return err
	}
	kfmt.Fprintf(w, "interrupts enabled\n")

	if cfg.BootSelfTest {
		breakpointFn()
		kfmt.Fprintf(w, "breakpoint self-test passed\n")
	}

	if devs.Serial != nil {
		kfmt.Fprintf(devs.Serial, "Hello, %s\n", ":)")
	}

	return nil
}
