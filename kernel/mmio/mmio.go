// Package mmio provides volatile accessors for memory-mapped device
// registers and buffers. Every call performs exactly one memory access of
// the requested width; the compiler can neither elide nor merge nor cache it.
package mmio

import "unsafe"

// Region16 describes a window of consecutive 16-bit device cells.
type Region16 struct {
	base uintptr
	len  int
}

// NewRegion16 returns a Region16 spanning count cells starting at base.
func NewRegion16(base uintptr, count int) Region16 {
	return Region16{base: base, len: count}
}

// RegionOf returns a Region16 overlaying the backing array of cells. The
// caller must keep cells alive for as long as the region is in use.
func RegionOf(cells []uint16) Region16 {
	if len(cells) == 0 {
		return Region16{}
	}
	return Region16{base: uintptr(unsafe.Pointer(&cells[0])), len: len(cells)}
}

// Len returns the number of cells in the region.
func (r Region16) Len() int { return r.len }

// Base returns the address of the first cell.
func (r Region16) Base() uintptr { return r.base }

// Load returns the value of the cell at index. Out of range indices read as 0.
func (r Region16) Load(index int) uint16 {
	if index < 0 || index >= r.len {
		return 0
	}
	return Load16(r.base + uintptr(index)<<1)
}

// Store updates the cell at index. Out of range indices are ignored.
func (r Region16) Store(index int, val uint16) {
	if index < 0 || index >= r.len {
		return
	}
	Store16(r.base+uintptr(index)<<1, val)
}
