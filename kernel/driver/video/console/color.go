package console

// Color is one of the 16 colors supported by EGA-compatible text mode.
type Color uint8

// The EGA text-mode palette.
const (
	Black Color = iota
	Blue
	Green
	Cyan
	Red
	Magenta
	Brown
	LightGray
	DarkGray
	LightBlue
	LightGreen
	LightCyan
	LightRed
	Pink
	Yellow
	White
)

// Attr encodes a foreground and background color pair. The background
// color occupies the upper nibble.
type Attr uint8

// DefaultAttr is light green text on a black background.
const DefaultAttr = Attr(uint8(Black)<<4 | uint8(LightGreen))

// MakeAttr returns the attribute for the fg/bg color pair. Only the low 4
// bits of each color are used.
func MakeAttr(fg, bg Color) Attr {
	return Attr((uint8(bg)&0xf)<<4 | uint8(fg)&0xf)
}
