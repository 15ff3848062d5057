// Package gate implements the interrupt vector table: a fixed array of 256
// handler slots that is encoded into the CPU's interrupt descriptor table and
// the entry points that route every delivered interrupt to its handler.
package gate

import (
	"io"
	"micecore/kernel"
	"micecore/kernel/kfmt"
)

// NumVectors is the number of slots in the vector table.
const NumVectors = 256

// Registers contains a snapshot of all register values when an exception or
// interrupt occurs. The layout matches the stack contents built by the gate
// entry points; do not reorder the fields.
type Registers struct {
	RAX uint64
	RBX uint64
	RCX uint64
	RDX uint64
	RSI uint64
	RDI uint64
	RBP uint64
	R8  uint64
	R9  uint64
	R10 uint64
	R11 uint64
	R12 uint64
	R13 uint64
	R14 uint64
	R15 uint64

	// Vector is the number of the interrupt that is being serviced.
	Vector uint64

	// ErrorCode is the code pushed by the CPU for exceptions that supply
	// one (see InterruptNumber.HasErrorCode) and 0 otherwise.
	ErrorCode uint64

	// The return frame used by IRETQ
	RIP    uint64
	CS     uint64
	RFlags uint64
	RSP    uint64
	SS     uint64
}

// DumpTo outputs the register contents to w.
func (r *Registers) DumpTo(w io.Writer) {
	kfmt.Fprintf(w, "RAX = %16x RBX = %16x\n", r.RAX, r.RBX)
	kfmt.Fprintf(w, "RCX = %16x RDX = %16x\n", r.RCX, r.RDX)
	kfmt.Fprintf(w, "RSI = %16x RDI = %16x\n", r.RSI, r.RDI)
	kfmt.Fprintf(w, "RBP = %16x\n", r.RBP)
	kfmt.Fprintf(w, "R8  = %16x R9  = %16x\n", r.R8, r.R9)
	kfmt.Fprintf(w, "R10 = %16x R11 = %16x\n", r.R10, r.R11)
	kfmt.Fprintf(w, "R12 = %16x R13 = %16x\n", r.R12, r.R13)
	kfmt.Fprintf(w, "R14 = %16x R15 = %16x\n", r.R14, r.R15)
	kfmt.Fprintf(w, "\n")
	kfmt.Fprintf(w, "VEC = %16x ERR = %16x\n", r.Vector, r.ErrorCode)
	kfmt.Fprintf(w, "RIP = %16x CS  = %16x\n", r.RIP, r.CS)
	kfmt.Fprintf(w, "RSP = %16x SS  = %16x\n", r.RSP, r.SS)
	kfmt.Fprintf(w, "RFL = %16x\n", r.RFlags)
}

// InterruptNumber describes an x86 interrupt/exception/trap slot.
type InterruptNumber uint8

const (
	// DivideByZero occurs when dividing any number by 0 using the DIV or
	// IDIV instruction.
	DivideByZero = InterruptNumber(0)

	// NMI (non-maskable-interrupt) is a hardware interrupt that indicates
	// issues with RAM or unrecoverable hardware problems.
	NMI = InterruptNumber(2)

	// Breakpoint is raised by the INT3 instruction. Execution resumes at
	// the instruction following the trap once the handler returns.
	Breakpoint = InterruptNumber(3)

	// InvalidOpcode occurs when the CPU attempts to execute an invalid or
	// undefined instruction opcode.
	InvalidOpcode = InterruptNumber(6)

	// DoubleFault occurs when an exception occurs while the CPU is trying
	// to deliver another exception.
	DoubleFault = InterruptNumber(8)

	// GPFException occurs when a general protection fault occurs.
	GPFException = InterruptNumber(13)

	// PageFaultException occurs when a page directory table (PDT) or one
	// of its entries is not present or when a privilege and/or RW
	// protection check fails.
	PageFaultException = InterruptNumber(14)

	// FirstDeviceVector is the first vector that is not reserved by the
	// CPU for exceptions. Device interrupt controllers must be remapped at
	// or above it.
	FirstDeviceVector = InterruptNumber(32)
)

// HasErrorCode returns true if the CPU pushes an error code to the stack
// when delivering this exception.
func (n InterruptNumber) HasErrorCode() bool {
	switch n {
	case 8, 10, 11, 12, 13, 14, 17, 21, 29, 30:
		return true
	default:
		return false
	}
}

// Handler is invoked with interrupts masked when its vector is delivered. If
// the handler returns, any modifications to the supplied Registers are
// propagated back to the interrupted context.
type Handler func(*Registers)

// slot binds a handler and (optionally) an interrupt stack table index to a
// vector. A zero ist means the handler runs on the interrupted stack.
type slot struct {
	handler Handler
	ist     uint8
}

// Table is the vector table. Handlers are registered during boot; once
// Install is called the table becomes the active one and can no longer be
// modified.
type Table struct {
	slots  [NumVectors]slot
	sealed bool
}

var (
	errNilHandler          = &kernel.Error{Module: "gate", Message: "nil interrupt handler"}
	errAlreadyRegistered   = &kernel.Error{Module: "gate", Message: "vector already has a handler"}
	errInvalidIST          = &kernel.Error{Module: "gate", Message: "interrupt stack table index out of range"}
	errTableSealed         = &kernel.Error{Module: "gate", Message: "vector table already installed"}
	errUnhandledInterrupt  = &kernel.Error{Module: "gate", Message: "unhandled interrupt"}
	errNoActiveVectorTable = &kernel.Error{Module: "gate", Message: "interrupt delivered without an active vector table"}

	// activeTable is the table that receives interrupts from the gate
	// entry points.
	activeTable *Table

	panicFn = kfmt.Panic
)

// maxIST is the highest valid interrupt stack table index.
const maxIST = 7

// Register binds handler to the vector intNumber. A non-zero istIndex makes
// the CPU switch to the corresponding interrupt stack table entry of the
// active TSS before invoking the handler.
func (t *Table) Register(intNumber InterruptNumber, istIndex uint8, handler Handler) *kernel.Error {
	switch {
	case t.sealed:
		return errTableSealed
	case handler == nil:
		return errNilHandler
	case istIndex > maxIST:
		return errInvalidIST
	case t.slots[intNumber].handler != nil:
		return errAlreadyRegistered
	}

	t.slots[intNumber] = slot{handler: handler, ist: istIndex}
	return nil
}

// Registered returns true if a handler is bound to intNumber.
func (t *Table) Registered(intNumber InterruptNumber) bool {
	return t.slots[intNumber].handler != nil
}

// IST returns the interrupt stack table index bound to intNumber.
func (t *Table) IST(intNumber InterruptNumber) uint8 {
	return t.slots[intNumber].ist
}

// Dispatch invokes the handler registered for regs.Vector. Delivering a
// vector without a handler is fatal: the registers are dumped and the CPU
// is halted.
func (t *Table) Dispatch(regs *Registers) {
	if h := t.slots[uint8(regs.Vector)].handler; h != nil {
		h(regs)
		return
	}

	sink := kfmt.FatalSink()
	kfmt.Fprintf(sink, "\nunhandled interrupt vector %d\n", regs.Vector)
	regs.DumpTo(sink)
	panicFn(errUnhandledInterrupt)
}

// dispatchInterrupt is invoked by the gate entry points with a pointer to
// the register snapshot that they pushed to the stack.
func dispatchInterrupt(regs *Registers) {
	if activeTable == nil {
		panicFn(errNoActiveVectorTable)
		return
	}

	activeTable.Dispatch(regs)
}
