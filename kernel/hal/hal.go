// Package hal owns the device drivers of the kernel. It probes for them in
// a fixed order at boot, wires the output sinks into kfmt and hands out the
// device handles to the rest of the kernel.
package hal

import (
	"bytes"
	"io"
	"micecore/kernel"
	"micecore/kernel/cpu"
	"micecore/kernel/driver"
	"micecore/kernel/driver/kbd"
	"micecore/kernel/driver/pic"
	"micecore/kernel/driver/video/console"
	"micecore/kernel/irq"
	"micecore/kernel/kfmt"
	"micecore/kernel/mmio"
	"sort"
)

// Config describes the hardware the hal manages.
type Config struct {
	// FramebufferAddr is the address of the text-mode buffer.
	FramebufferAddr uintptr

	// ConsoleFg and ConsoleBg select the console colors.
	ConsoleFg console.Color
	ConsoleBg console.Color

	// SerialBase is the I/O base of the serial port used for diagnostics.
	SerialBase uint16

	// KeyboardPort is the keyboard controller data port.
	KeyboardPort uint16

	// PrimaryOffset and SecondaryOffset are the vector offsets for the
	// interrupt controller pair.
	PrimaryOffset   uint8
	SecondaryOffset uint8

	// DoubleFaultIST is the interrupt stack table index reserved for the
	// double fault handler.
	DoubleFaultIST uint8

	// Ports performs port I/O for all drivers. If nil, the hardware
	// ports are used.
	Ports cpu.Ports
}

// SerialSink is implemented by the serial port drivers.
type SerialSink interface {
	io.Writer
	kfmt.TryWriter
	driver.Driver
}

// Devices tracks the drivers managed by the hal.
type Devices struct {
	Console  *console.Console
	Serial   SerialSink
	PICs     *pic.Pair
	Keyboard *kbd.Keyboard
	IRQ      *irq.Core

	// Sink duplicates diagnostics to the serial port and the console, in
	// that order.
	Sink io.Writer

	// activeDrivers tracks all initialized device drivers.
	activeDrivers []driver.Driver
}

var (
	errNoConsole = &kernel.Error{Module: "hal", Message: "text console failed to initialize"}

	strBuf bytes.Buffer
)

// Init creates and probes all devices described by cfg. Drivers that fail
// to initialize are logged and skipped; only a missing console is fatal.
func Init(cfg Config) (*Devices, *kernel.Error) {
	ports := cfg.Ports
	if ports == nil {
		ports = cpu.HardwarePorts{}
	}

	cons := console.New(
		console.NewBuffer(mmio.NewRegion16(cfg.FramebufferAddr, console.Width*console.Height)),
		ports,
	)
	cons.SetColor(cfg.ConsoleFg, cfg.ConsoleBg)

	var (
		devs     = &Devices{}
		serial   = newSerial(cfg, ports)
		pics     = pic.NewPair(ports)
		keyboard = kbd.New(ports, cfg.KeyboardPort)
	)

	drivers := driver.DriverInfoList{
		{Order: driver.DetectOrderDefault, Probe: func() driver.Driver { return keyboard }},
		{Order: driver.DetectOrderController, Probe: func() driver.Driver { return pics }},
		{Order: driver.DetectOrderEarly, Probe: func() driver.Driver { return cons }},
		{Order: driver.DetectOrderEarly, Probe: func() driver.Driver { return serial }},
	}
	sort.Stable(drivers)

	devs.probe(drivers)
	if devs.Console == nil {
		return nil, errNoConsole
	}

	// The serial line goes first: on the fatal paths it is the sink that
	// keeps working when the console is busy.
	devs.Sink = kfmt.NewTeeWriter(devs.Serial, devs.Console)
	kfmt.SetOutputSink(devs.Sink)

	if devs.PICs != nil && devs.Keyboard != nil {
		devs.IRQ = irq.NewCore(irq.Config{
			PrimaryOffset:  cfg.PrimaryOffset,
			DoubleFaultIST: cfg.DoubleFaultIST,
			Diagnostics:    devs.Sink,
			Echo:           devs.Console,
		}, devs.PICs, devs.Keyboard)
	}

	return devs, nil
}

// probe executes the probe function for each driver and invokes
// onDriverInit for each successfully initialized driver.
func (devs *Devices) probe(driverInfoList driver.DriverInfoList) {
	var w = kfmt.PrefixWriter{Sink: kfmt.GetOutputSink()}

	for _, info := range driverInfoList {
		drv := info.Probe()
		if drv == nil {
			continue
		}

		strBuf.Reset()
		major, minor, patch := drv.DriverVersion()
		kfmt.Fprintf(&strBuf, "[hal] %s(%d.%d.%d): ", drv.DriverName(), major, minor, patch)
		w.Prefix = strBuf.Bytes()

		if err := drv.DriverInit(&w); err != nil {
			kfmt.Fprintf(&w, "init failed: %s\n", err.Message)
			continue
		}

		kfmt.Fprintf(&w, "initialized\n")
		devs.onDriverInit(drv)
		devs.activeDrivers = append(devs.activeDrivers, drv)
	}
}

// onDriverInit is invoked by probe() whenever a piece of hardware is detected
// and successfully initialized.
func (devs *Devices) onDriverInit(drv driver.Driver) {
	switch drvImpl := drv.(type) {
	case *console.Console:
		devs.Console = drvImpl
	case *pic.Pair:
		devs.PICs = drvImpl
	case *kbd.Keyboard:
		devs.Keyboard = drvImpl
	case SerialSink:
		devs.Serial = drvImpl
	}
}

// ActiveDrivers returns the drivers that were successfully initialized, in
// initialization order.
func (devs *Devices) ActiveDrivers() []driver.Driver {
	return devs.activeDrivers
}
