package steep

import (
	"bytes"
	"errors"
	"strconv"
)

// MouseMsg is delivered to Update on mouse activity. Mouse reporting must be
// enabled with WithMouseCellMotion or WithMouseAllMotion (or the equivalent
// commands).
type MouseMsg struct {
	// X and Y are the cell coordinates of the event, 1-based as reported
	// by the terminal: (1,1) is the top-left cell.
	X int
	Y int

	// Modifiers held during the event.
	Shift bool
	Alt   bool
	Ctrl  bool

	// Action is what happened: press, release or motion.
	Action MouseAction

	// Button is the button involved, MouseNone for pure motion.
	Button MouseButton
}

// IsWheel reports whether the event is a scroll-wheel event.
func (m MouseMsg) IsWheel() bool {
	switch m.Button {
	case MouseWheelUp, MouseWheelDown, MouseWheelLeft, MouseWheelRight:
		return true
	}
	return false
}

// String returns a readable name like "left", "ctrl+wheel up" or "motion".
func (m MouseMsg) String() string {
	var s string
	if m.Ctrl {
		s += "ctrl+"
	}
	if m.Alt {
		s += "alt+"
	}
	if m.Shift {
		s += "shift+"
	}
	switch {
	case m.Button == MouseNone:
		s += m.Action.String()
	case m.IsWheel():
		s += m.Button.String()
	default:
		s += m.Button.String()
		if m.Action != MouseActionPress {
			s += " " + m.Action.String()
		}
	}
	return s
}

// MouseAction is the kind of mouse event.
type MouseAction int

const (
	MouseActionPress MouseAction = iota
	MouseActionRelease
	MouseActionMotion
)

func (a MouseAction) String() string {
	switch a {
	case MouseActionPress:
		return "press"
	case MouseActionRelease:
		return "release"
	case MouseActionMotion:
		return "motion"
	}
	return "unknown"
}

// MouseButton identifies a mouse button, numbered per X11.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
	MouseWheelLeft
	MouseWheelRight
	MouseBackward
	MouseForward
	MouseButton10
	MouseButton11
)

var mouseButtonNames = map[MouseButton]string{
	MouseNone:       "none",
	MouseLeft:       "left",
	MouseMiddle:     "middle",
	MouseRight:      "right",
	MouseWheelUp:    "wheel up",
	MouseWheelDown:  "wheel down",
	MouseWheelLeft:  "wheel left",
	MouseWheelRight: "wheel right",
	MouseBackward:   "backward",
	MouseForward:    "forward",
	MouseButton10:   "button 10",
	MouseButton11:   "button 11",
}

func (b MouseButton) String() string {
	if s, ok := mouseButtonNames[b]; ok {
		return s
	}
	return "unknown"
}

var errInvalidMouseReport = errors.New("invalid mouse report")

// parseX10Mouse decodes a legacy six-byte mouse report: ESC [ M b x y with
// the button and the coordinates offset by 32. Coordinates above 223 cannot
// be represented in this encoding.
func parseX10Mouse(seq []byte) (MouseMsg, error) {
	if len(seq) != 6 || !bytes.HasPrefix(seq, []byte("\x1b[M")) {
		return MouseMsg{}, errInvalidMouseReport
	}
	const offset = 32
	b, x, y := seq[3], seq[4], seq[5]
	if x < offset+1 || y < offset+1 {
		return MouseMsg{}, errInvalidMouseReport
	}
	m := decodeMouseButton(int(b-offset), false)
	m.X = int(x - offset)
	m.Y = int(y - offset)
	return m, nil
}

// parseSGRMouse decodes an extended report: ESC [ < b ; x ; y (M|m). The
// final byte distinguishes press (M) from release (m), and coordinates are
// unlimited decimal numbers.
func parseSGRMouse(seq []byte) (MouseMsg, error) {
	if len(seq) < 9 || !bytes.HasPrefix(seq, []byte("\x1b[<")) {
		return MouseMsg{}, errInvalidMouseReport
	}
	final := seq[len(seq)-1]
	if final != 'M' && final != 'm' {
		return MouseMsg{}, errInvalidMouseReport
	}
	fields := bytes.Split(seq[3:len(seq)-1], []byte(";"))
	if len(fields) != 3 {
		return MouseMsg{}, errInvalidMouseReport
	}
	var nums [3]int
	for i, f := range fields {
		n, err := strconv.Atoi(string(f))
		if err != nil {
			return MouseMsg{}, errInvalidMouseReport
		}
		nums[i] = n
	}

	m := decodeMouseButton(nums[0], final == 'm')
	m.X = nums[1]
	m.Y = nums[2]

	// SGR encodes wheel and motion in the button bits; a lowercase final
	// on a wheel event would be contradictory but some terminals send it.
	if m.IsWheel() {
		m.Action = MouseActionPress
	}
	return m, nil
}

// decodeMouseButton translates the xterm button bitfield shared by both
// encodings. Bit layout: low two bits select the button, bit 2 shift, bit 3
// alt (meta), bit 4 ctrl, bit 5 motion, bit 6 wheel, bit 7 additional
// buttons.
func decodeMouseButton(b int, sgrRelease bool) MouseMsg {
	const (
		bitShift  = 0b0000_0100
		bitAlt    = 0b0000_1000
		bitCtrl   = 0b0001_0000
		bitMotion = 0b0010_0000
		bitWheel  = 0b0100_0000
		bitExtra  = 0b1000_0000
	)

	var m MouseMsg
	m.Shift = b&bitShift != 0
	m.Alt = b&bitAlt != 0
	m.Ctrl = b&bitCtrl != 0

	low := b & 0b11
	switch {
	case b&bitWheel != 0:
		m.Button = MouseWheelUp + MouseButton(low)
		m.Action = MouseActionPress
	case b&bitExtra != 0:
		m.Button = MouseBackward + MouseButton(low)
		m.Action = MouseActionPress
	default:
		switch low {
		case 0:
			m.Button = MouseLeft
		case 1:
			m.Button = MouseMiddle
		case 2:
			m.Button = MouseRight
		case 3:
			// X10 encodes release as button 3 with no way to know
			// which button went up.
			m.Button = MouseNone
			m.Action = MouseActionRelease
		}
	}

	if b&bitMotion != 0 && !m.IsWheel() {
		m.Action = MouseActionMotion
	}
	if sgrRelease && !m.IsWheel() {
		m.Action = MouseActionRelease
	}
	return m
}
