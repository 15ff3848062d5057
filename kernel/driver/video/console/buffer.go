package console

import "micecore/kernel/mmio"

const (
	// Width is the number of glyph cells in each row.
	Width = 80

	// Height is the number of rows in the buffer.
	Height = 25

	// DefaultFramebuffer is the physical address of the text-mode buffer.
	DefaultFramebuffer = uintptr(0xb8000)
)

// Cell is a single glyph cell. The hardware stores the glyph in the low byte
// and the attribute in the high byte of each 16-bit cell.
type Cell struct {
	Glyph byte
	Attr  Attr
}

func (c Cell) encode() uint16 {
	return uint16(c.Attr)<<8 | uint16(c.Glyph)
}

func decodeCell(v uint16) Cell {
	return Cell{Glyph: byte(v), Attr: Attr(v >> 8)}
}

// Buffer provides volatile access to a Width x Height grid of glyph cells.
// Each cell is read and written as a single 16-bit access.
type Buffer struct {
	cells mmio.Region16
}

// NewBuffer returns a Buffer overlaying the supplied region. If the region
// holds fewer than Width*Height cells, accesses to the missing cells are
// ignored.
func NewBuffer(region mmio.Region16) Buffer {
	return Buffer{cells: region}
}

// Base returns the address of the first cell.
func (b Buffer) Base() uintptr {
	return b.cells.Base()
}

// Cell returns the contents of the cell at (row, col). Out of range
// coordinates read as the zero Cell.
func (b Buffer) Cell(row, col int) Cell {
	if !inBounds(row, col) {
		return Cell{}
	}
	return decodeCell(b.cells.Load(row*Width + col))
}

// SetCell overwrites the cell at (row, col). Out of range coordinates are
// ignored.
func (b Buffer) SetCell(row, col int, c Cell) {
	if !inBounds(row, col) {
		return
	}
	b.cells.Store(row*Width+col, c.encode())
}

// CopyRow copies every cell of row src into row dst.
func (b Buffer) CopyRow(dst, src int) {
	if !inBounds(dst, 0) || !inBounds(src, 0) {
		return
	}

	dstOff, srcOff := dst*Width, src*Width
	for col := 0; col < Width; col++ {
		b.cells.Store(dstOff+col, b.cells.Load(srcOff+col))
	}
}

// FillRow sets every cell of row to c.
func (b Buffer) FillRow(row int, c Cell) {
	if !inBounds(row, 0) {
		return
	}

	v, off := c.encode(), row*Width
	for col := 0; col < Width; col++ {
		b.cells.Store(off+col, v)
	}
}

func inBounds(row, col int) bool {
	return row >= 0 && row < Height && col >= 0 && col < Width
}
