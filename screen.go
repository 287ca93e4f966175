package steep

import "context"

// Screen-control commands. Each is a Cmd that asks the event loop to change
// a terminal mode through the renderer. All of them are idempotent: enabling
// a mode that is already active is a no-op, as is disabling an inactive one.

type clearScreenMsg struct{}
type enterAltScreenMsg struct{}
type exitAltScreenMsg struct{}
type showCursorMsg struct{}
type hideCursorMsg struct{}
type enableMouseCellMotionMsg struct{}
type enableMouseAllMotionMsg struct{}
type disableMouseMsg struct{}
type enableBracketedPasteMsg struct{}
type disableBracketedPasteMsg struct{}
type enableReportFocusMsg struct{}
type disableReportFocusMsg struct{}

// ClearScreen clears the terminal and forces a full repaint.
func ClearScreen(context.Context) Msg { return clearScreenMsg{} }

// EnterAltScreen switches to the alternate screen buffer. The original
// screen contents are restored when the buffer is left.
func EnterAltScreen(context.Context) Msg { return enterAltScreenMsg{} }

// ExitAltScreen returns to the primary screen buffer.
func ExitAltScreen(context.Context) Msg { return exitAltScreenMsg{} }

// ShowCursor makes the cursor visible.
func ShowCursor(context.Context) Msg { return showCursorMsg{} }

// HideCursor hides the cursor.
func HideCursor(context.Context) Msg { return hideCursorMsg{} }

// EnableMouseCellMotion turns on mouse reporting for clicks, wheel events
// and drag motion.
func EnableMouseCellMotion(context.Context) Msg { return enableMouseCellMotionMsg{} }

// EnableMouseAllMotion turns on mouse reporting for all movement, with or
// without buttons held.
func EnableMouseAllMotion(context.Context) Msg { return enableMouseAllMotionMsg{} }

// DisableMouse turns off all mouse reporting.
func DisableMouse(context.Context) Msg { return disableMouseMsg{} }

// EnableBracketedPaste makes the terminal wrap pasted text in markers so it
// arrives as a single paste-flagged key event.
func EnableBracketedPaste(context.Context) Msg { return enableBracketedPasteMsg{} }

// DisableBracketedPaste turns bracketed paste off.
func DisableBracketedPaste(context.Context) Msg { return disableBracketedPasteMsg{} }

// EnableReportFocus makes the terminal emit FocusMsg and BlurMsg.
func EnableReportFocus(context.Context) Msg { return enableReportFocusMsg{} }

// DisableReportFocus turns focus reporting off.
func DisableReportFocus(context.Context) Msg { return disableReportFocusMsg{} }
