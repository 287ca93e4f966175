package steep

// KeyMsg is delivered to Update when a key is pressed. It is a Key; see Key
// for the fields.
type KeyMsg Key

// String returns a human-readable name for the key, e.g. "a", "ctrl+c",
// "shift+up" or "alt+enter". Pasted runes are bracketed.
func (k KeyMsg) String() string {
	return Key(k).String()
}

// Key holds the decoded identity of a pressed key.
type Key struct {
	// Type classifies the key. For ordinary printable input it is
	// KeyRunes and Runes holds the characters.
	Type KeyType

	// Runes carries the printable characters for KeyRunes events. It
	// holds more than one rune for pasted text and for input methods that
	// commit several characters at once.
	Runes []rune

	// Alt reports whether the alt modifier was held.
	Alt bool

	// Paste reports whether the key event came from a bracketed paste.
	Paste bool
}

// String implements fmt.Stringer.
func (k Key) String() string {
	var s string
	if k.Alt {
		s += "alt+"
	}
	if k.Type == KeyRunes {
		if k.Paste {
			s += "["
		}
		s += string(k.Runes)
		if k.Paste {
			s += "]"
		}
		return s
	}
	if name, ok := keyNames[k.Type]; ok {
		return s + name
	}
	return s + "unknown"
}

// KeyType classifies a key. Control keys use their ASCII values; keys with
// no byte representation use negative values.
type KeyType int

// Control keys. Values match the control bytes the terminal sends, so e.g.
// KeyEnter is 13 (carriage return) and KeyTab is 9.
const (
	KeyNull             KeyType = 0
	KeyCtrlA            KeyType = 1
	KeyCtrlB            KeyType = 2
	KeyCtrlC            KeyType = 3
	KeyCtrlD            KeyType = 4
	KeyCtrlE            KeyType = 5
	KeyCtrlF            KeyType = 6
	KeyCtrlG            KeyType = 7
	KeyCtrlH            KeyType = 8
	KeyTab              KeyType = 9
	KeyCtrlJ            KeyType = 10
	KeyCtrlK            KeyType = 11
	KeyCtrlL            KeyType = 12
	KeyEnter            KeyType = 13
	KeyCtrlN            KeyType = 14
	KeyCtrlO            KeyType = 15
	KeyCtrlP            KeyType = 16
	KeyCtrlQ            KeyType = 17
	KeyCtrlR            KeyType = 18
	KeyCtrlS            KeyType = 19
	KeyCtrlT            KeyType = 20
	KeyCtrlU            KeyType = 21
	KeyCtrlV            KeyType = 22
	KeyCtrlW            KeyType = 23
	KeyCtrlX            KeyType = 24
	KeyCtrlY            KeyType = 25
	KeyCtrlZ            KeyType = 26
	KeyEscape           KeyType = 27
	KeyCtrlBackslash    KeyType = 28
	KeyCtrlCloseBracket KeyType = 29
	KeyCtrlCaret        KeyType = 30
	KeyCtrlUnderscore   KeyType = 31
	KeyBackspace        KeyType = 127
)

// Keys with no single-byte representation.
const (
	KeyRunes KeyType = -(iota + 1)
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
	KeyShiftTab
	KeyHome
	KeyEnd
	KeyPgUp
	KeyPgDown
	KeyDelete
	KeyInsert
	KeySpace
	KeyCtrlUp
	KeyCtrlDown
	KeyCtrlRight
	KeyCtrlLeft
	KeyCtrlHome
	KeyCtrlEnd
	KeyCtrlPgUp
	KeyCtrlPgDown
	KeyShiftUp
	KeyShiftDown
	KeyShiftRight
	KeyShiftLeft
	KeyShiftHome
	KeyShiftEnd
	KeyCtrlShiftUp
	KeyCtrlShiftDown
	KeyCtrlShiftRight
	KeyCtrlShiftLeft
	KeyCtrlShiftHome
	KeyCtrlShiftEnd
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyF13
	KeyF14
	KeyF15
	KeyF16
	KeyF17
	KeyF18
	KeyF19
	KeyF20
)

var keyNames = map[KeyType]string{
	KeyNull:             "ctrl+@",
	KeyCtrlA:            "ctrl+a",
	KeyCtrlB:            "ctrl+b",
	KeyCtrlC:            "ctrl+c",
	KeyCtrlD:            "ctrl+d",
	KeyCtrlE:            "ctrl+e",
	KeyCtrlF:            "ctrl+f",
	KeyCtrlG:            "ctrl+g",
	KeyCtrlH:            "ctrl+h",
	KeyTab:              "tab",
	KeyCtrlJ:            "ctrl+j",
	KeyCtrlK:            "ctrl+k",
	KeyCtrlL:            "ctrl+l",
	KeyEnter:            "enter",
	KeyCtrlN:            "ctrl+n",
	KeyCtrlO:            "ctrl+o",
	KeyCtrlP:            "ctrl+p",
	KeyCtrlQ:            "ctrl+q",
	KeyCtrlR:            "ctrl+r",
	KeyCtrlS:            "ctrl+s",
	KeyCtrlT:            "ctrl+t",
	KeyCtrlU:            "ctrl+u",
	KeyCtrlV:            "ctrl+v",
	KeyCtrlW:            "ctrl+w",
	KeyCtrlX:            "ctrl+x",
	KeyCtrlY:            "ctrl+y",
	KeyCtrlZ:            "ctrl+z",
	KeyEscape:           "esc",
	KeyCtrlBackslash:    "ctrl+\\",
	KeyCtrlCloseBracket: "ctrl+]",
	KeyCtrlCaret:        "ctrl+^",
	KeyCtrlUnderscore:   "ctrl+_",
	KeyBackspace:        "backspace",
	KeyRunes:            "runes",
	KeyUp:               "up",
	KeyDown:             "down",
	KeyRight:            "right",
	KeyLeft:             "left",
	KeyShiftTab:         "shift+tab",
	KeyHome:             "home",
	KeyEnd:              "end",
	KeyPgUp:             "pgup",
	KeyPgDown:           "pgdown",
	KeyDelete:           "delete",
	KeyInsert:           "insert",
	KeySpace:            " ",
	KeyCtrlUp:           "ctrl+up",
	KeyCtrlDown:         "ctrl+down",
	KeyCtrlRight:        "ctrl+right",
	KeyCtrlLeft:         "ctrl+left",
	KeyCtrlHome:         "ctrl+home",
	KeyCtrlEnd:          "ctrl+end",
	KeyCtrlPgUp:         "ctrl+pgup",
	KeyCtrlPgDown:       "ctrl+pgdown",
	KeyShiftUp:          "shift+up",
	KeyShiftDown:        "shift+down",
	KeyShiftRight:       "shift+right",
	KeyShiftLeft:        "shift+left",
	KeyShiftHome:        "shift+home",
	KeyShiftEnd:         "shift+end",
	KeyCtrlShiftUp:      "ctrl+shift+up",
	KeyCtrlShiftDown:    "ctrl+shift+down",
	KeyCtrlShiftRight:   "ctrl+shift+right",
	KeyCtrlShiftLeft:    "ctrl+shift+left",
	KeyCtrlShiftHome:    "ctrl+shift+home",
	KeyCtrlShiftEnd:     "ctrl+shift+end",
	KeyF1:               "f1",
	KeyF2:               "f2",
	KeyF3:               "f3",
	KeyF4:               "f4",
	KeyF5:               "f5",
	KeyF6:               "f6",
	KeyF7:               "f7",
	KeyF8:               "f8",
	KeyF9:               "f9",
	KeyF10:              "f10",
	KeyF11:              "f11",
	KeyF12:              "f12",
	KeyF13:              "f13",
	KeyF14:              "f14",
	KeyF15:              "f15",
	KeyF16:              "f16",
	KeyF17:              "f17",
	KeyF18:              "f18",
	KeyF19:              "f19",
	KeyF20:              "f20",
}

// controlKey maps a single control byte to its key type. The second return
// is false for printable bytes.
func controlKey(b byte) (KeyType, bool) {
	switch {
	case b <= 0x1f:
		return KeyType(b), true
	case b == ' ':
		return KeySpace, true
	case b == 0x7f:
		return KeyBackspace, true
	}
	return 0, false
}
