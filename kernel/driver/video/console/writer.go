package console

import (
	"micecore/kernel/cpu"
)

const (
	// reservedRows is the number of rows at the top of the screen that
	// are never scrolled. They hold the boot banner.
	reservedRows = 2

	// SubstituteGlyph replaces bytes that have no visible representation.
	SubstituteGlyph = byte(0xfe)

	backspace = byte(0x08)

	crtcIndexPort  = uint16(0x3d4)
	crtcDataPort   = uint16(0x3d5)
	crtcCursorLow  = uint8(0x0f)
	crtcCursorHigh = uint8(0x0e)
)

// Writer draws text into a Buffer. It tracks the logical cursor and keeps the
// hardware cursor in sync with it. A column value of Width means that a wrap
// is pending: the next glyph forces a new line before it is placed.
//
// Writer is not safe for concurrent use; see Console.
type Writer struct {
	row, col int
	attr     Attr

	buf   Buffer
	ports cpu.Ports
}

// NewWriter returns a Writer for buf with its cursor at the top-left cell.
// The hardware cursor is updated through ports.
func NewWriter(buf Buffer, ports cpu.Ports) *Writer {
	return &Writer{
		attr:  DefaultAttr,
		buf:   buf,
		ports: ports,
	}
}

// Position returns the logical cursor position.
func (w *Writer) Position() (row, col int) {
	return w.row, w.col
}

// SetColor changes the attribute used for subsequent glyphs and blanks.
func (w *Writer) SetColor(fg, bg Color) {
	w.attr = MakeAttr(fg, bg)
}

// Attr returns the active attribute.
func (w *Writer) Attr() Attr {
	return w.attr
}

// Write implements io.Writer. It never fails. The hardware cursor is
// updated once all bytes in p have been drawn.
func (w *Writer) Write(p []byte) (int, error) {
	for _, b := range p {
		w.WriteByte(b)
	}
	w.syncCursor()

	return len(p), nil
}

// WriteString behaves like Write but accepts a string argument.
func (w *Writer) WriteString(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		w.WriteByte(s[i])
	}
	w.syncCursor()

	return len(s), nil
}

// WriteByte draws a single byte without updating the hardware cursor.
// Visible ASCII characters and '\n' are drawn as-is, 0x08 erases the
// previous cell and everything else is drawn as SubstituteGlyph.
func (w *Writer) WriteByte(b byte) error {
	switch {
	case b == '\n':
		w.NewLine()
	case b == backspace:
		w.Backspace()
	case b >= 0x20 && b <= 0x7e:
		w.putGlyph(b)
	default:
		w.putGlyph(SubstituteGlyph)
	}

	return nil
}

func (w *Writer) putGlyph(b byte) {
	if w.col >= Width {
		w.NewLine()
	}

	w.buf.SetCell(w.row, w.col, Cell{Glyph: b, Attr: w.attr})
	w.col++
}

// NewLine moves the cursor to the start of the next row, scrolling when the
// cursor is on the last row. The row the cursor lands on is cleared.
func (w *Writer) NewLine() {
	if w.row < Height-1 {
		w.row++
	} else {
		w.scroll()
	}

	w.ClearRow(w.row)
	w.col = 0
}

// scroll moves every row below the reserved region up by one. The last row
// keeps its old contents until the caller clears it.
func (w *Writer) scroll() {
	for row := reservedRows + 1; row < Height; row++ {
		w.buf.CopyRow(row-1, row)
	}
}

// Backspace erases exactly one cell. Past column 1 it erases the cell before
// the cursor. At column 0 or 1 the cursor moves to the last cell of the
// previous row and erases that cell instead. Nothing is erased on the first
// row.
func (w *Writer) Backspace() {
	if w.row < 1 {
		return
	}

	if w.col > 1 {
		w.col--
	} else {
		w.row--
		w.col = Width - 1
	}

	w.buf.SetCell(w.row, w.col, w.blank())
}

// ClearRow fills row with blanks using the active attribute.
func (w *Writer) ClearRow(row int) {
	w.buf.FillRow(row, w.blank())
}

// Clear blanks the entire buffer and moves the cursor home.
func (w *Writer) Clear() {
	for row := 0; row < Height; row++ {
		w.ClearRow(row)
	}
	w.row, w.col = 0, 0
	w.syncCursor()
}

func (w *Writer) blank() Cell {
	return Cell{Glyph: ' ', Attr: w.attr}
}

// syncCursor programs the CRTC cursor location registers with the logical
// cursor offset. A pending wrap on the last row would point past the end of
// the buffer, so the hardware cursor stays on the last cell.
func (w *Writer) syncCursor() {
	pos := uint16(w.row*Width + w.col)
	if pos >= Width*Height {
		pos = Width*Height - 1
	}

	w.ports.PortWriteByte(crtcIndexPort, crtcCursorLow)
	w.ports.PortWriteByte(crtcDataPort, uint8(pos))
	w.ports.PortWriteByte(crtcIndexPort, crtcCursorHigh)
	w.ports.PortWriteByte(crtcDataPort, uint8(pos>>8))
}
