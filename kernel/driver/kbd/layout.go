package kbd

// usLayout holds the unshifted and shifted rune for each key on a US
// keyboard. Keys with a zero entry do not produce text.
var usLayout = [keyCount][2]rune{
	Key1:            {'1', '!'},
	Key2:            {'2', '@'},
	Key3:            {'3', '#'},
	Key4:            {'4', '$'},
	Key5:            {'5', '%'},
	Key6:            {'6', '^'},
	Key7:            {'7', '&'},
	Key8:            {'8', '*'},
	Key9:            {'9', '('},
	Key0:            {'0', ')'},
	KeyMinus:        {'-', '_'},
	KeyEquals:       {'=', '+'},
	KeyBackspace:    {'\b', '\b'},
	KeyTab:          {'\t', '\t'},
	KeyQ:            {'q', 'Q'},
	KeyW:            {'w', 'W'},
	KeyE:            {'e', 'E'},
	KeyR:            {'r', 'R'},
	KeyT:            {'t', 'T'},
	KeyY:            {'y', 'Y'},
	KeyU:            {'u', 'U'},
	KeyI:            {'i', 'I'},
	KeyO:            {'o', 'O'},
	KeyP:            {'p', 'P'},
	KeyLeftBracket:  {'[', '{'},
	KeyRightBracket: {']', '}'},
	KeyEnter:        {'\n', '\n'},
	KeyA:            {'a', 'A'},
	KeyS:            {'s', 'S'},
	KeyD:            {'d', 'D'},
	KeyF:            {'f', 'F'},
	KeyG:            {'g', 'G'},
	KeyH:            {'h', 'H'},
	KeyJ:            {'j', 'J'},
	KeyK:            {'k', 'K'},
	KeyL:            {'l', 'L'},
	KeySemicolon:    {';', ':'},
	KeyQuote:        {'\'', '"'},
	KeyBacktick:     {'`', '~'},
	KeyBackslash:    {'\\', '|'},
	KeyZ:            {'z', 'Z'},
	KeyX:            {'x', 'X'},
	KeyC:            {'c', 'C'},
	KeyV:            {'v', 'V'},
	KeyB:            {'b', 'B'},
	KeyN:            {'n', 'N'},
	KeyM:            {'m', 'M'},
	KeyComma:        {',', '<'},
	KeyPeriod:       {'.', '>'},
	KeySlash:        {'/', '?'},
	KeySpace:        {' ', ' '},

	KeyNumpadMultiply: {'*', '*'},
	KeyNumpadSubtract: {'-', '-'},
	KeyNumpadAdd:      {'+', '+'},
	KeyNumpadDivide:   {'/', '/'},
	KeyNumpadEnter:    {'\n', '\n'},
}

// numpad holds the rune produced by each keypad key while NumLock is on and
// the navigation key it acts as while NumLock is off. Keys with a zero digit
// are not affected by NumLock.
var numpad = [keyCount]struct {
	digit rune
	nav   KeyCode
}{
	KeyNumpad0:      {'0', KeyInsert},
	KeyNumpad1:      {'1', KeyEnd},
	KeyNumpad2:      {'2', KeyArrowDown},
	KeyNumpad3:      {'3', KeyPageDown},
	KeyNumpad4:      {'4', KeyArrowLeft},
	KeyNumpad5:      {'5', KeyUnknown},
	KeyNumpad6:      {'6', KeyArrowRight},
	KeyNumpad7:      {'7', KeyHome},
	KeyNumpad8:      {'8', KeyArrowUp},
	KeyNumpad9:      {'9', KeyPageUp},
	KeyNumpadPeriod: {'.', KeyDelete},
}

func isLetter(code KeyCode) bool {
	r := usLayout[code][0]
	return r >= 'a' && r <= 'z'
}
