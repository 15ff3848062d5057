package kbd

import "testing"

// decode feeds seq to a fresh decoder and returns the decoded keys.
func decode(d *Decoder, seq ...byte) []Key {
	var keys []Key
	for _, b := range seq {
		if ev, ok := d.AddByte(b); ok {
			if key, ok := d.ProcessEvent(ev); ok {
				keys = append(keys, key)
			}
		}
	}
	return keys
}

func runes(keys []Key) string {
	var out []rune
	for _, k := range keys {
		out = append(out, k.Rune)
	}
	return string(out)
}

func TestAddByte(t *testing.T) {
	specs := []struct {
		seq    []byte
		expEvs []KeyEvent
	}{
		{[]byte{0x1e}, []KeyEvent{{KeyA, KeyDown}}},
		{[]byte{0x9e}, []KeyEvent{{KeyA, KeyUp}}},
		{[]byte{0x01, 0x81}, []KeyEvent{{KeyEscape, KeyDown}, {KeyEscape, KeyUp}}},
		{[]byte{0xe0, 0x48, 0xe0, 0xc8}, []KeyEvent{{KeyArrowUp, KeyDown}, {KeyArrowUp, KeyUp}}},
		{[]byte{0xe0, 0x1d}, []KeyEvent{{KeyRightCtrl, KeyDown}}},
		{[]byte{0x1d}, []KeyEvent{{KeyLeftCtrl, KeyDown}}},
		{[]byte{0x3b, 0x58}, []KeyEvent{{KeyF1, KeyDown}, {KeyF12, KeyDown}}},
		// print screen: fake shift followed by the real key
		{[]byte{0xe0, 0x2a, 0xe0, 0x37}, nil},
		{[]byte{0xe1, 0x1d, 0x45, 0xe1, 0x9d, 0xc5}, []KeyEvent{{KeyPause, KeyDown}}},
		{[]byte{0x00, 0x55, 0x7f, 0xff}, nil},
	}

	for specIndex, spec := range specs {
		d := NewDecoder()

		var got []KeyEvent
		for _, b := range spec.seq {
			if ev, ok := d.AddByte(b); ok {
				got = append(got, ev)
			}
		}

		if len(got) != len(spec.expEvs) {
			t.Errorf("[spec %d] expected %d events; got %d: %v", specIndex, len(spec.expEvs), len(got), got)
			continue
		}

		for i := range got {
			if got[i] != spec.expEvs[i] {
				t.Errorf("[spec %d] event %d: expected %+v; got %+v", specIndex, i, spec.expEvs[i], got[i])
			}
		}
	}
}

func TestMakeBreakYieldsOneKey(t *testing.T) {
	d := NewDecoder()

	keys := decode(&d, 0x1e, 0x9e)
	if len(keys) != 1 {
		t.Fatalf("expected exactly one key; got %d", len(keys))
	}

	if keys[0].Rune != 'a' || keys[0].Code != KeyA || !keys[0].Printable() {
		t.Fatalf("expected printable 'a'; got %+v", keys[0])
	}
}

func TestProcessEventLayout(t *testing.T) {
	specs := []struct {
		descr string
		seq   []byte
		exp   string
	}{
		{"lower case", []byte{0x23, 0xa3, 0x17, 0x97}, "hi"},
		{"digits and symbols", []byte{0x02, 0x0c, 0x0d, 0x27, 0x35}, "1-=;/"},
		{"left shift", []byte{0x2a, 0x23, 0x02, 0xaa, 0x23}, "H!h"},
		{"right shift", []byte{0x36, 0x28, 0x1a, 0xb6, 0x28}, "\"{'"},
		{"caps lock", []byte{0x3a, 0xba, 0x1e, 0x02, 0x3a, 0x1e}, "A1a"},
		{"caps lock with shift", []byte{0x3a, 0x2a, 0x1e, 0x02}, "a!"},
		{"whitespace", []byte{0x39, 0x1c, 0x0f, 0x0e}, " \n\t\b"},
		{"keypad with numlock", []byte{0x47, 0x4c, 0x53, 0x37, 0xe0, 0x35, 0xe0, 0x1c}, "75.*/\n"},
	}

	for _, spec := range specs {
		t.Run(spec.descr, func(t *testing.T) {
			d := NewDecoder()
			if got := runes(decode(&d, spec.seq...)); got != spec.exp {
				t.Fatalf("expected %q; got %q", spec.exp, got)
			}
		})
	}
}

func TestProcessEventNonPrintable(t *testing.T) {
	specs := []struct {
		seq     []byte
		expCode KeyCode
		expName string
	}{
		{[]byte{0x01}, KeyEscape, "Escape"},
		{[]byte{0xe0, 0x48}, KeyArrowUp, "ArrowUp"},
		{[]byte{0x3b}, KeyF1, "F1"},
		{[]byte{0xe0, 0x53}, KeyDelete, "Delete"},
		// keypad acts as navigation keys with numlock off
		{[]byte{0x45, 0xc5, 0x48}, KeyArrowUp, "ArrowUp"},
		{[]byte{0x45, 0xc5, 0x4f}, KeyEnd, "End"},
	}

	for specIndex, spec := range specs {
		d := NewDecoder()
		keys := decode(&d, spec.seq...)

		if len(keys) != 1 {
			t.Errorf("[spec %d] expected one key; got %v", specIndex, keys)
			continue
		}

		if keys[0].Printable() {
			t.Errorf("[spec %d] expected key to be non-printable; got rune %q", specIndex, keys[0].Rune)
		}

		if keys[0].Code != spec.expCode || keys[0].Code.String() != spec.expName {
			t.Errorf("[spec %d] expected %s; got %s", specIndex, spec.expName, keys[0].Code)
		}
	}
}

func TestModifiers(t *testing.T) {
	d := NewDecoder()

	if mods := d.Modifiers(); mods != ModNumLock {
		t.Fatalf("expected only NumLock to be active initially; got 0x%x", mods)
	}

	// modifiers alone never produce keys
	if keys := decode(&d, 0x1d, 0x38, 0xe0, 0x38, 0x2a); len(keys) != 0 {
		t.Fatalf("expected no keys for modifier presses; got %v", keys)
	}

	mods := d.Modifiers()
	if !mods.Ctrl() || !mods.Alt() || !mods.Shift() || mods&ModRightAlt == 0 {
		t.Fatalf("expected ctrl, alt and shift to be held; got 0x%x", mods)
	}

	keys := decode(&d, 0x2e)
	if len(keys) != 1 || keys[0].Mods != mods || keys[0].Rune != 'C' {
		t.Fatalf("expected key to carry the active modifiers; got %v", keys)
	}

	decode(&d, 0x9d, 0xb8, 0xe0, 0xb8, 0xaa)
	if mods := d.Modifiers(); mods.Ctrl() || mods.Alt() || mods.Shift() {
		t.Fatalf("expected modifiers to be released; got 0x%x", mods)
	}
}

func TestKeyCodeString(t *testing.T) {
	specs := []struct {
		code KeyCode
		exp  string
	}{
		{KeyA, "A"},
		{KeyF12, "F12"},
		{KeyPageDown, "PageDown"},
		{KeyPause, "Pause"},
		{keyCount, "Unknown"},
		{KeyCode(255), "Unknown"},
	}

	for specIndex, spec := range specs {
		if got := spec.code.String(); got != spec.exp {
			t.Errorf("[spec %d] expected %q; got %q", specIndex, spec.exp, got)
		}
	}

	for code := KeyUnknown; code < keyCount; code++ {
		if keyNames[code] == "" {
			t.Errorf("missing name for key code %d", code)
		}
	}
}
