//go:build !amd64

package mmio

import (
	"sync/atomic"
	"unsafe"
)

// The atomic package has no 16-bit operations; the access is performed on
// the enclosing aligned 32-bit word so it is still a single real access.

// Load16 reads the 16-bit value at addr.
//
//go:noinline
func Load16(addr uintptr) uint16 {
	word := (*uint32)(unsafe.Pointer(addr &^ 3))
	return uint16(atomic.LoadUint32(word) >> ((addr & 2) * 8))
}

// Store16 writes val to the 16-bit location at addr.
//
//go:noinline
func Store16(addr uintptr, val uint16) {
	word := (*uint32)(unsafe.Pointer(addr &^ 3))
	shift := (addr & 2) * 8
	for {
		old := atomic.LoadUint32(word)
		updated := old&^(0xffff<<shift) | uint32(val)<<shift
		if atomic.CompareAndSwapUint32(word, old, updated) {
			return
		}
	}
}
