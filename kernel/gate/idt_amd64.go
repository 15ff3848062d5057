package gate

import (
	"encoding/binary"
	"micecore/kernel"
	"unsafe"
)

const (
	// gateEntrySize is the size of each entry point in gateEntries.
	gateEntrySize = 12

	// gateTypeInterrupt marks a present, ring 0, 64-bit interrupt gate.
	// Interrupt gates clear RFLAGS.IF on entry so handlers run with
	// interrupts masked.
	gateTypeInterrupt = 0x8e
)

// gateDescriptor is the hardware layout of a 64-bit IDT gate.
type gateDescriptor struct {
	offsetLow  uint16
	selector   uint16
	ist        uint8
	typeAttr   uint8
	offsetMid  uint16
	offsetHigh uint32
	reserved   uint32
}

func newGateDescriptor(entry uintptr, selector uint16, ist uint8) gateDescriptor {
	return gateDescriptor{
		offsetLow:  uint16(entry),
		selector:   selector,
		ist:        ist & maxIST,
		typeAttr:   gateTypeInterrupt,
		offsetMid:  uint16(entry >> 16),
		offsetHigh: uint32(uint64(entry) >> 32),
	}
}

// entry returns the handler address encoded in the descriptor.
func (d gateDescriptor) entry() uintptr {
	return uintptr(uint64(d.offsetLow) | uint64(d.offsetMid)<<16 | uint64(d.offsetHigh)<<32)
}

var (
	// The descriptor table and the 10-byte pseudo-descriptor passed to
	// LIDT. The CPU reads both for the lifetime of the kernel so they
	// live in package-level storage.
	idt  [NumVectors]gateDescriptor
	idtr [10]byte

	loadIDTFn         = loadIDT
	readCSFn          = readCS
	gateEntriesAddrFn = gateEntriesAddr
)

// Install encodes the table into the interrupt descriptor table, loads it
// into the CPU and makes t the table that receives interrupts. Every vector
// gets a present gate: vectors without a handler end up in Dispatch which
// halts the system. Install may only be called once.
func (t *Table) Install() *kernel.Error {
	if t.sealed {
		return errTableSealed
	}

	var (
		cs   = readCSFn()
		base = gateEntriesAddrFn()
	)

	for i := 0; i < NumVectors; i++ {
		idt[i] = newGateDescriptor(base+uintptr(i)*gateEntrySize, cs, t.slots[i].ist)
	}

	binary.LittleEndian.PutUint16(idtr[0:], uint16(unsafe.Sizeof(idt))-1)
	binary.LittleEndian.PutUint64(idtr[2:], uint64(uintptr(unsafe.Pointer(&idt[0]))))

	t.sealed = true
	activeTable = t
	loadIDTFn(uintptr(unsafe.Pointer(&idtr[0])))

	return nil
}

// gateEntries contains the generated entry points for each possible
// interrupt number. It is never called directly.
func gateEntries()

// gateEntriesAddr returns the address of the first entry in gateEntries.
func gateEntriesAddr() uintptr

// loadIDT loads the pseudo-descriptor at idtrAddr into the IDTR register.
func loadIDT(idtrAddr uintptr)

// readCS returns the active code segment selector.
func readCS() uint16
