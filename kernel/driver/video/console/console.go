// Package console implements a driver for the 80x25 VGA text-mode display.
//
// The top two rows of the display are reserved for a banner: once the
// cursor reaches the last row, scrolling only moves the rows below them.
package console

import (
	"io"
	"micecore/kernel"
	"micecore/kernel/cpu"
	"micecore/kernel/kfmt"
	"micecore/kernel/sync"
)

// Console serializes access to a Writer so it can be shared between normal
// code and interrupt handlers. Every method runs with interrupts masked.
type Console struct {
	lock sync.IRQSpinlock
	w    *Writer
}

// New returns a Console that draws into buf and drives the hardware cursor
// through ports.
func New(buf Buffer, ports cpu.Ports) *Console {
	return &Console{w: NewWriter(buf, ports)}
}

// Write implements io.Writer.
func (c *Console) Write(p []byte) (n int, err error) {
	c.lock.Do(func() {
		n, err = c.w.Write(p)
	})
	return n, err
}

// TryWrite implements kfmt.TryWriter. If the console lock is held, the code
// that was interrupted is in the middle of updating the display, so nothing
// is drawn and TryWrite returns false.
func (c *Console) TryWrite(p []byte) (n int, ok bool) {
	ok = c.lock.TryDo(func() {
		n, _ = c.w.Write(p)
	})
	return n, ok
}

// WriteString writes s and updates the hardware cursor.
func (c *Console) WriteString(s string) (n int, err error) {
	c.lock.Do(func() {
		n, err = c.w.WriteString(s)
	})
	return n, err
}

// WriteByte draws a single byte. The hardware cursor is not updated.
func (c *Console) WriteByte(b byte) error {
	c.lock.Do(func() {
		c.w.WriteByte(b)
	})
	return nil
}

// Backspace erases the cell before the cursor.
func (c *Console) Backspace() {
	c.lock.Do(c.w.Backspace)
}

// NewLine moves the cursor to the start of the next row.
func (c *Console) NewLine() {
	c.lock.Do(c.w.NewLine)
}

// ClearRow blanks a single row.
func (c *Console) ClearRow(row int) {
	c.lock.Do(func() {
		c.w.ClearRow(row)
	})
}

// Clear blanks the screen and moves the cursor home.
func (c *Console) Clear() {
	c.lock.Do(c.w.Clear)
}

// SetColor changes the colors used by subsequent writes.
func (c *Console) SetColor(fg, bg Color) {
	c.lock.Do(func() {
		c.w.SetColor(fg, bg)
	})
}

// Position returns the logical cursor position.
func (c *Console) Position() (row, col int) {
	c.lock.Do(func() {
		row, col = c.w.Position()
	})
	return row, col
}

// DriverName returns the name of this driver.
func (c *Console) DriverName() string {
	return "vga_text_console"
}

// DriverVersion returns the version of this driver.
func (c *Console) DriverVersion() (uint16, uint16, uint16) {
	return 0, 0, 1
}

// DriverInit clears the display.
func (c *Console) DriverInit(w io.Writer) *kernel.Error {
	c.Clear()
	kfmt.Fprintf(w, "%dx%d text buffer at 0x%x\n", Width, Height, c.w.buf.Base())
	return nil
}
