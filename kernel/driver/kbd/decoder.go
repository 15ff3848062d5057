package kbd

const (
	prefixExtended = 0xe0
	prefixPause    = 0xe1

	// breakBit is set in the scancode of key releases.
	breakBit = 0x80

	// the pause key sends 0xe1 followed by two make bytes and, without
	// any delay, 0xe1 followed by the two matching break bytes.
	pauseSequenceLen = 2
)

// KeyState describes whether a key was pressed or released.
type KeyState uint8

// The possible key states.
const (
	KeyUp KeyState = iota
	KeyDown
)

// KeyEvent is a single press or release of a physical key.
type KeyEvent struct {
	Code  KeyCode
	State KeyState
}

// Modifiers is a bitmask of the active modifier keys and lock states.
type Modifiers uint16

// The tracked modifiers.
const (
	ModLeftShift Modifiers = 1 << iota
	ModRightShift
	ModLeftCtrl
	ModRightCtrl
	ModLeftAlt
	ModRightAlt
	ModCapsLock
	ModNumLock
	ModScrollLock
)

// Shift returns true if either shift key is held down.
func (m Modifiers) Shift() bool { return m&(ModLeftShift|ModRightShift) != 0 }

// Ctrl returns true if either control key is held down.
func (m Modifiers) Ctrl() bool { return m&(ModLeftCtrl|ModRightCtrl) != 0 }

// Alt returns true if either alt key is held down.
func (m Modifiers) Alt() bool { return m&(ModLeftAlt|ModRightAlt) != 0 }

// Key is a decoded key press.
type Key struct {
	// Rune is the text produced by the key or 0 if it does not produce
	// any.
	Rune rune

	Code KeyCode
	Mods Modifiers
}

// Printable returns true if the key produces text.
func (k Key) Printable() bool {
	return k.Rune != 0
}

// Decoder converts a scancode set 1 byte stream into key presses using the
// US layout. The zero value is not ready for use; see NewDecoder.
type Decoder struct {
	extended   bool
	pauseBytes int
	mods       Modifiers
}

// NewDecoder returns a Decoder with NumLock enabled and no modifiers held.
func NewDecoder() Decoder {
	return Decoder{mods: ModNumLock}
}

// Modifiers returns the current modifier state.
func (d *Decoder) Modifiers() Modifiers {
	return d.mods
}

// AddByte feeds a scancode byte to the decoder. It returns a KeyEvent once a
// complete make or break sequence has been received. Prefix bytes and
// unknown codes do not generate events.
func (d *Decoder) AddByte(b byte) (KeyEvent, bool) {
	switch {
	case d.pauseBytes > 0:
		d.pauseBytes--
		if d.pauseBytes == 0 && b&breakBit == 0 {
			return KeyEvent{Code: KeyPause, State: KeyDown}, true
		}
		return KeyEvent{}, false
	case b == prefixPause:
		d.pauseBytes = pauseSequenceLen
		return KeyEvent{}, false
	case b == prefixExtended:
		d.extended = true
		return KeyEvent{}, false
	}

	extended := d.extended
	d.extended = false

	code := lookupSet1(extended, b&^breakBit)
	if code == KeyUnknown {
		return KeyEvent{}, false
	}

	state := KeyDown
	if b&breakBit != 0 {
		state = KeyUp
	}

	return KeyEvent{Code: code, State: state}, true
}

// ProcessEvent applies ev to the modifier state and returns the decoded key
// for presses of non-modifier keys.
func (d *Decoder) ProcessEvent(ev KeyEvent) (Key, bool) {
	down := ev.State == KeyDown

	switch ev.Code {
	case KeyLeftShift:
		d.setMod(ModLeftShift, down)
		return Key{}, false
	case KeyRightShift:
		d.setMod(ModRightShift, down)
		return Key{}, false
	case KeyLeftCtrl:
		d.setMod(ModLeftCtrl, down)
		return Key{}, false
	case KeyRightCtrl:
		d.setMod(ModRightCtrl, down)
		return Key{}, false
	case KeyLeftAlt:
		d.setMod(ModLeftAlt, down)
		return Key{}, false
	case KeyRightAlt:
		d.setMod(ModRightAlt, down)
		return Key{}, false
	case KeyCapsLock:
		d.toggleMod(ModCapsLock, down)
		return Key{}, false
	case KeyNumLock:
		d.toggleMod(ModNumLock, down)
		return Key{}, false
	case KeyScrollLock:
		d.toggleMod(ModScrollLock, down)
		return Key{}, false
	}

	if !down {
		return Key{}, false
	}

	key := Key{Code: ev.Code, Mods: d.mods}

	if np := numpad[ev.Code]; np.digit != 0 {
		if d.mods&ModNumLock != 0 {
			key.Rune = np.digit
		} else if np.nav != KeyUnknown {
			key.Code = np.nav
		}
		return key, true
	}

	shifted := d.mods.Shift()
	if isLetter(ev.Code) && d.mods&ModCapsLock != 0 {
		shifted = !shifted
	}

	if shifted {
		key.Rune = usLayout[ev.Code][1]
	} else {
		key.Rune = usLayout[ev.Code][0]
	}

	return key, true
}

func (d *Decoder) setMod(m Modifiers, on bool) {
	if on {
		d.mods |= m
	} else {
		d.mods &^= m
	}
}

func (d *Decoder) toggleMod(m Modifiers, down bool) {
	if down {
		d.mods ^= m
	}
}
