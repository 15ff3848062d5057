// Package pic drives the pair of chained 8259 programmable interrupt
// controllers found on PC hardware.
package pic

import (
	"io"
	"micecore/kernel"
	"micecore/kernel/cpu"
	"micecore/kernel/kfmt"
	"micecore/kernel/sync"
)

const (
	primaryCmdPort    = uint16(0x20)
	primaryDataPort   = uint16(0x21)
	secondaryCmdPort  = uint16(0xa0)
	secondaryDataPort = uint16(0xa1)

	// ICW1: edge triggered, cascade mode, ICW4 follows
	icw1Init = 0x11

	// ICW3: the secondary controller is wired to IRQ line 2 of the primary
	icw3PrimaryHasSecondary = 0x04
	icw3SecondaryCascadeID  = 0x02

	// ICW4: 8086/88 mode
	icw48086Mode = 0x01

	cmdEndOfInterrupt = 0x20

	// linesPerController is the number of IRQ lines (and vectors) served
	// by each controller.
	linesPerController = 8

	// firstAvailableVector is the lowest vector that does not belong to
	// a CPU exception.
	firstAvailableVector = 32
)

var (
	errInvalidOffset = &kernel.Error{Module: "pic", Message: "invalid vector offset"}
	errNotRemapped   = &kernel.Error{Module: "pic", Message: "controllers have not been remapped"}
)

// Pair is the primary/secondary controller pair. Until Remap is called the
// controllers deliver IRQs on vectors that collide with CPU exceptions and
// Acknowledge refuses to operate.
type Pair struct {
	lock sync.IRQSpinlock

	ports cpu.Ports

	primaryOffset   uint8
	secondaryOffset uint8
	remapped        bool
}

// NewPair returns a Pair that talks to the controllers through ports.
func NewPair(ports cpu.Ports) *Pair {
	return &Pair{ports: ports}
}

// Remap reprograms both controllers so the primary delivers IRQs 0-7 on
// vectors primaryOffset..primaryOffset+7 and the secondary delivers IRQs
// 8-15 on secondaryOffset..secondaryOffset+7. Offsets must be multiples of
// 8 above the CPU exception range and must not overlap. The IRQ masks
// active before the call are preserved.
func (p *Pair) Remap(primaryOffset, secondaryOffset uint8) *kernel.Error {
	if !validOffsets(primaryOffset, secondaryOffset) {
		return errInvalidOffset
	}

	p.lock.Do(func() {
		primaryMask := p.ports.PortReadByte(primaryDataPort)
		secondaryMask := p.ports.PortReadByte(secondaryDataPort)

		p.out(primaryCmdPort, icw1Init)
		p.out(secondaryCmdPort, icw1Init)
		p.out(primaryDataPort, primaryOffset)
		p.out(secondaryDataPort, secondaryOffset)
		p.out(primaryDataPort, icw3PrimaryHasSecondary)
		p.out(secondaryDataPort, icw3SecondaryCascadeID)
		p.out(primaryDataPort, icw48086Mode)
		p.out(secondaryDataPort, icw48086Mode)

		p.ports.PortWriteByte(primaryDataPort, primaryMask)
		p.ports.PortWriteByte(secondaryDataPort, secondaryMask)

		p.primaryOffset, p.secondaryOffset = primaryOffset, secondaryOffset
		p.remapped = true
	})

	return nil
}

func validOffsets(primary, secondary uint8) bool {
	switch {
	case primary%linesPerController != 0 || secondary%linesPerController != 0:
		return false
	case primary < firstAvailableVector || secondary < firstAvailableVector:
		return false
	}

	// distinct multiples of 8 never overlap
	return primary != secondary
}

// out writes to a controller register followed by an I/O delay; the
// controllers need time to process each initialization word.
func (p *Pair) out(port uint16, val uint8) {
	p.ports.PortWriteByte(port, val)
	cpu.IOWait(p.ports)
}

func (p *Pair) inPrimary(vector uint8) bool {
	return vector >= p.primaryOffset && int(vector) < int(p.primaryOffset)+linesPerController
}

func (p *Pair) inSecondary(vector uint8) bool {
	return vector >= p.secondaryOffset && int(vector) < int(p.secondaryOffset)+linesPerController
}

// Acknowledge sends an end-of-interrupt command for vector so the owning
// controller can deliver the next IRQ. IRQs coming from the secondary
// controller are acknowledged on both controllers since they arrive through
// the cascade line of the primary. Acknowledge returns false without
// touching the hardware if vector does not belong to either controller.
func (p *Pair) Acknowledge(vector uint8) (bool, *kernel.Error) {
	var (
		handled bool
		err     *kernel.Error
	)

	p.lock.Do(func() {
		switch {
		case !p.remapped:
			err = errNotRemapped
		case p.inSecondary(vector):
			p.ports.PortWriteByte(secondaryCmdPort, cmdEndOfInterrupt)
			p.ports.PortWriteByte(primaryCmdPort, cmdEndOfInterrupt)
			handled = true
		case p.inPrimary(vector):
			p.ports.PortWriteByte(primaryCmdPort, cmdEndOfInterrupt)
			handled = true
		}
	})

	return handled, err
}

// SetMasks updates the IRQ masks of both controllers. A set bit disables
// the corresponding IRQ line.
func (p *Pair) SetMasks(primary, secondary uint8) {
	p.lock.Do(func() {
		p.ports.PortWriteByte(primaryDataPort, primary)
		p.ports.PortWriteByte(secondaryDataPort, secondary)
	})
}

// Masks returns the current IRQ masks of both controllers.
func (p *Pair) Masks() (primary, secondary uint8) {
	p.lock.Do(func() {
		primary = p.ports.PortReadByte(primaryDataPort)
		secondary = p.ports.PortReadByte(secondaryDataPort)
	})
	return primary, secondary
}

// Offsets returns the vector offsets programmed by Remap.
func (p *Pair) Offsets() (primary, secondary uint8) {
	p.lock.Do(func() {
		primary, secondary = p.primaryOffset, p.secondaryOffset
	})
	return primary, secondary
}

// Remapped returns true once Remap has completed.
func (p *Pair) Remapped() bool {
	var ok bool
	p.lock.Do(func() {
		ok = p.remapped
	})
	return ok
}

// DriverName returns the name of this driver.
func (p *Pair) DriverName() string {
	return "pic_8259"
}

// DriverVersion returns the version of this driver.
func (p *Pair) DriverVersion() (uint16, uint16, uint16) {
	return 0, 0, 1
}

// DriverInit reports the mask state inherited from the firmware. The pair is
// remapped separately once the vector offsets are known.
func (p *Pair) DriverInit(w io.Writer) *kernel.Error {
	primary, secondary := p.Masks()
	kfmt.Fprintf(w, "masks: primary 0x%2x, secondary 0x%2x\n", primary, secondary)
	return nil
}
