package cpu

// EnableInterrupts enables maskable interrupt delivery (STI).
func EnableInterrupts()

// DisableInterrupts disables maskable interrupt delivery (CLI).
func DisableInterrupts()

// InterruptsEnabled returns true if the IF bit in RFLAGS is set.
func InterruptsEnabled() bool

// Halt stops instruction execution until the next interrupt arrives.
func Halt()

// HaltForever disables interrupts and halts the CPU. It never returns; a
// stray NMI resumes execution right before the next HLT.
func HaltForever()

// Breakpoint raises a software breakpoint exception (INT3).
func Breakpoint()

// PortWriteByte writes a uint8 value to the requested port.
func PortWriteByte(port uint16, val uint8)

// PortReadByte reads a uint8 value from the requested port.
func PortReadByte(port uint16) uint8
