package steep

import "strconv"

// sequences maps complete escape sequences to decoded keys. The base
// entries cover the common cursor, navigation and function keys across
// xterm, VT and urxvt flavors; init extends the table with every
// shift/alt/ctrl modifier combination xterm encodes as `CSI 1;m X` and
// `CSI n;m ~`.
var sequences = map[string]Key{
	// Arrow keys.
	"\x1b[A": {Type: KeyUp},
	"\x1b[B": {Type: KeyDown},
	"\x1b[C": {Type: KeyRight},
	"\x1b[D": {Type: KeyLeft},

	// Application-mode (SS3) arrows.
	"\x1bOA": {Type: KeyUp},
	"\x1bOB": {Type: KeyDown},
	"\x1bOC": {Type: KeyRight},
	"\x1bOD": {Type: KeyLeft},

	// Home and end.
	"\x1b[H":  {Type: KeyHome},
	"\x1b[F":  {Type: KeyEnd},
	"\x1bOH":  {Type: KeyHome},
	"\x1bOF":  {Type: KeyEnd},
	"\x1b[1~": {Type: KeyHome},
	"\x1b[4~": {Type: KeyEnd},
	"\x1b[7~": {Type: KeyHome}, // urxvt
	"\x1b[8~": {Type: KeyEnd},  // urxvt

	// Insert, delete, paging.
	"\x1b[2~": {Type: KeyInsert},
	"\x1b[3~": {Type: KeyDelete},
	"\x1b[5~": {Type: KeyPgUp},
	"\x1b[6~": {Type: KeyPgDown},

	"\x1b[Z": {Type: KeyShiftTab},

	// Function keys F1-F4, SS3 form.
	"\x1bOP": {Type: KeyF1},
	"\x1bOQ": {Type: KeyF2},
	"\x1bOR": {Type: KeyF3},
	"\x1bOS": {Type: KeyF4},

	// Linux console F1-F5.
	"\x1b[[A": {Type: KeyF1},
	"\x1b[[B": {Type: KeyF2},
	"\x1b[[C": {Type: KeyF3},
	"\x1b[[D": {Type: KeyF4},
	"\x1b[[E": {Type: KeyF5},

	// Function keys, tilde form.
	"\x1b[11~": {Type: KeyF1},
	"\x1b[12~": {Type: KeyF2},
	"\x1b[13~": {Type: KeyF3},
	"\x1b[14~": {Type: KeyF4},
	"\x1b[15~": {Type: KeyF5},
	"\x1b[17~": {Type: KeyF6},
	"\x1b[18~": {Type: KeyF7},
	"\x1b[19~": {Type: KeyF8},
	"\x1b[20~": {Type: KeyF9},
	"\x1b[21~": {Type: KeyF10},
	"\x1b[23~": {Type: KeyF11},
	"\x1b[24~": {Type: KeyF12},
	"\x1b[25~": {Type: KeyF13},
	"\x1b[26~": {Type: KeyF14},
	"\x1b[28~": {Type: KeyF15},
	"\x1b[29~": {Type: KeyF16},
	"\x1b[31~": {Type: KeyF17},
	"\x1b[32~": {Type: KeyF18},
	"\x1b[33~": {Type: KeyF19},
	"\x1b[34~": {Type: KeyF20},
}

// xterm modifier parameter: 1 + bitmask, shift=1 alt=2 ctrl=4.
const (
	modShift = 1 << iota
	modAlt
	modCtrl
)

// navKeyVariants lists, per navigation key, the key type for each
// shift/ctrl combination. Alt is carried on Key.Alt rather than in the
// type, matching how the decoder reports meta-prefixed input.
type navVariants struct {
	plain, shift, ctrl, ctrlShift KeyType
}

func init() {
	letterKeys := map[byte]navVariants{
		'A': {KeyUp, KeyShiftUp, KeyCtrlUp, KeyCtrlShiftUp},
		'B': {KeyDown, KeyShiftDown, KeyCtrlDown, KeyCtrlShiftDown},
		'C': {KeyRight, KeyShiftRight, KeyCtrlRight, KeyCtrlShiftRight},
		'D': {KeyLeft, KeyShiftLeft, KeyCtrlLeft, KeyCtrlShiftLeft},
		'H': {KeyHome, KeyShiftHome, KeyCtrlHome, KeyCtrlShiftHome},
		'F': {KeyEnd, KeyShiftEnd, KeyCtrlEnd, KeyCtrlShiftEnd},
	}
	tildeKeys := map[int]navVariants{
		2: {KeyInsert, KeyInsert, KeyInsert, KeyInsert},
		3: {KeyDelete, KeyDelete, KeyDelete, KeyDelete},
		5: {KeyPgUp, KeyPgUp, KeyCtrlPgUp, KeyCtrlPgUp},
		6: {KeyPgDown, KeyPgDown, KeyCtrlPgDown, KeyCtrlPgDown},
	}

	for mods := 1; mods <= 7; mods++ {
		param := strconv.Itoa(mods + 1)
		for final, v := range letterKeys {
			sequences["\x1b[1;"+param+string(final)] = modifiedKey(v, mods)
		}
		for num, v := range tildeKeys {
			sequences["\x1b["+strconv.Itoa(num)+";"+param+"~"] = modifiedKey(v, mods)
		}
	}
}

func modifiedKey(v navVariants, mods int) Key {
	k := Key{Alt: mods&modAlt != 0}
	switch {
	case mods&modCtrl != 0 && mods&modShift != 0:
		k.Type = v.ctrlShift
	case mods&modCtrl != 0:
		k.Type = v.ctrl
	case mods&modShift != 0:
		k.Type = v.shift
	default:
		k.Type = v.plain
	}
	return k
}

// lookupSequence returns the longest known sequence at the start of buf.
func lookupSequence(buf []byte) (Key, int, bool) {
	// Longest sequences in the table are 6 bytes ("\x1b[1;8A" class);
	// leave headroom for future entries.
	max := len(buf)
	if max > 8 {
		max = 8
	}
	for n := max; n >= 2; n-- {
		if k, ok := sequences[string(buf[:n])]; ok {
			return k, n, true
		}
	}
	return Key{}, 0, false
}

// isSequencePrefix reports whether buf is a strict prefix of at least one
// known sequence, meaning the decoder should wait for more bytes before
// falling back to a bare escape interpretation.
func isSequencePrefix(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	s := string(buf)
	for seq := range sequences {
		if len(seq) > len(s) && seq[:len(s)] == s {
			return true
		}
	}
	return false
}
