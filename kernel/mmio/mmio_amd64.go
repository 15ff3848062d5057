package mmio

// Load16 reads the 16-bit value at addr.
func Load16(addr uintptr) uint16

// Store16 writes val to the 16-bit location at addr.
func Store16(addr uintptr, val uint16)
