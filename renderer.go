package steep

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
)

// standardRenderer owns the terminal's paint surface. It repaints on a fixed
// frame interval, diffing the most recent view against the previously
// painted frame line by line and writing only what changed. It is also the
// single owner of the terminal-mode flags; every mode transition goes
// through it and is tracked so transitions are idempotent and restorable.
type standardRenderer struct {
	mu          sync.Mutex
	w           io.Writer
	out         *termenv.Output
	onRenderErr func(error)

	framerate time.Duration
	ticker    *time.Ticker
	done      chan struct{}
	once      sync.Once

	pending      string   // most recent view, not yet painted
	dirty        bool     // pending differs from what is on screen
	paused       bool     // terminal is released; paint nothing
	lastLines    []string // previously painted frame; nil forces full paint
	linesPainted int
	width        int
	height       int
	queued       []string // lines to print above the managed area

	// Terminal-mode flags.
	altScreenActive bool
	cursorHidden    bool
	bpActive        bool
	focusActive     bool
	mouseCellMotion bool
	mouseAllMotion  bool
}

func newRenderer(w io.Writer, fps int) *standardRenderer {
	return &standardRenderer{
		w:         w,
		out:       termenv.NewOutput(w),
		framerate: time.Second / time.Duration(fps),
	}
}

// start begins the paint loop. A frame is written only when a new view
// arrived since the last paint.
func (r *standardRenderer) start() {
	r.ticker = time.NewTicker(r.framerate)
	r.done = make(chan struct{})
	go func() {
		for {
			select {
			case <-r.done:
				return
			case <-r.ticker.C:
				if err := r.flush(); err != nil {
					if r.onRenderErr != nil {
						r.onRenderErr(err)
					}
					return
				}
			}
		}
	}()
}

// stop paints any pending frame and halts the paint loop. Safe to call more
// than once.
func (r *standardRenderer) stop() {
	r.once.Do(func() {
		if r.ticker == nil {
			return
		}
		_ = r.flush()
		r.ticker.Stop()
		close(r.done)
	})
}

// write hands the renderer a freshly rendered view. It is painted on the
// next frame tick; intermediate views that are replaced before a tick are
// never painted.
func (r *standardRenderer) write(view string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if view == r.pending {
		return
	}
	r.pending = view
	r.dirty = true
}

// repaint invalidates the previous frame so the next flush rewrites every
// line.
func (r *standardRenderer) repaint() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.repaintLocked()
}

func (r *standardRenderer) repaintLocked() {
	r.lastLines = nil
	r.dirty = true
}

// queueLines schedules lines to be printed above the managed area. They are
// ignored while the alternate screen is active.
func (r *standardRenderer) queueLines(lines []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queued = append(r.queued, lines...)
}

// resize records the new terminal dimensions and forces a full repaint.
func (r *standardRenderer) resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width = width
	r.height = height
	r.repaintLocked()
}

// flush paints the pending view. It writes nothing when the screen already
// matches the pending frame.
func (r *standardRenderer) flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.paused || (!r.dirty && len(r.queued) == 0) {
		return nil
	}

	var buf bytes.Buffer

	newLines := strings.Split(r.pending, "\n")
	if r.altScreenActive && r.height > 0 && len(newLines) > r.height {
		// The view is taller than the screen; keep the bottom.
		newLines = newLines[len(newLines)-r.height:]
	}

	// Rows rewritten this flush, measured from the top of the previous
	// frame. Anything the previous frame painted below them is stale.
	rewritten := len(newLines)

	if len(r.queued) > 0 && !r.altScreenActive {
		// Print above the managed area, then repaint it in full below.
		r.cursorToTop(&buf)
		for _, line := range r.queued {
			buf.WriteString("\x1b[2K")
			buf.WriteString(line)
			buf.WriteString("\r\n")
		}
		rewritten += len(r.queued)
		r.queued = nil
		r.lastLines = nil
	} else {
		r.cursorToTop(&buf)
	}

	for i, line := range newLines {
		unchanged := r.lastLines != nil && i < len(r.lastLines) && r.lastLines[i] == line
		if !unchanged {
			buf.WriteString("\x1b[2K")
			buf.WriteString(r.fitLine(line))
		}
		if i < len(newLines)-1 {
			buf.WriteString("\r\n")
		}
	}

	// Rows the previous frame painted below everything rewritten here are
	// cleared to the end of the screen.
	if r.linesPainted > rewritten {
		buf.WriteString("\r\n\x1b[J\x1b[A")
	}

	r.lastLines = newLines
	r.linesPainted = len(newLines)
	r.dirty = false

	_, err := r.w.Write(buf.Bytes())
	return err
}

// cursorToTop positions the cursor at the first line of the managed area.
func (r *standardRenderer) cursorToTop(buf *bytes.Buffer) {
	if r.altScreenActive {
		buf.WriteString("\x1b[1;1H")
		return
	}
	if r.linesPainted > 1 {
		fmt.Fprintf(buf, "\x1b[%dA", r.linesPainted-1)
	}
	buf.WriteString("\r")
}

// fitLine truncates a line to the terminal width, counting display cells
// rather than bytes and ignoring embedded escape sequences.
func (r *standardRenderer) fitLine(line string) string {
	if r.width <= 0 {
		return line
	}
	if runewidth.StringWidth(ansi.Strip(line)) <= r.width {
		return line
	}
	return ansi.Truncate(line, r.width, "")
}

// clearScreen wipes the terminal and forces a full repaint.
func (r *standardRenderer) clearScreen() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.out.ClearScreen()
	r.out.MoveCursor(1, 1)
	r.repaintLocked()
}

// enterAltScreen switches to the alternate screen buffer. A duplicate call
// is a no-op.
func (r *standardRenderer) enterAltScreen() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.altScreenActive {
		return
	}
	r.out.AltScreen()
	r.out.ClearScreen()
	r.out.MoveCursor(1, 1)
	r.applyCursorVisibility()
	r.altScreenActive = true
	r.linesPainted = 0
	r.repaintLocked()
}

// exitAltScreen returns to the primary buffer. A duplicate call is a no-op.
func (r *standardRenderer) exitAltScreen() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.altScreenActive {
		return
	}
	r.out.ExitAltScreen()
	r.altScreenActive = false
	r.applyCursorVisibility()
	r.linesPainted = 0
	r.repaintLocked()
}

func (r *standardRenderer) applyCursorVisibility() {
	if r.cursorHidden {
		r.out.HideCursor()
	} else {
		r.out.ShowCursor()
	}
}

func (r *standardRenderer) altScreen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.altScreenActive
}

func (r *standardRenderer) hideCursor() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cursorHidden {
		return
	}
	r.out.HideCursor()
	r.cursorHidden = true
}

func (r *standardRenderer) showCursor() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.cursorHidden {
		return
	}
	r.out.ShowCursor()
	r.cursorHidden = false
}

func (r *standardRenderer) enableMouseCellMotion() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mouseCellMotion {
		return
	}
	r.out.EnableMouseCellMotion()
	r.out.EnableMouseExtendedMode()
	r.mouseCellMotion = true
}

func (r *standardRenderer) enableMouseAllMotion() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mouseAllMotion {
		return
	}
	r.out.EnableMouseAllMotion()
	r.out.EnableMouseExtendedMode()
	r.mouseAllMotion = true
}

func (r *standardRenderer) disableMouse() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.mouseCellMotion && !r.mouseAllMotion {
		return
	}
	r.out.DisableMouseExtendedMode()
	if r.mouseCellMotion {
		r.out.DisableMouseCellMotion()
	}
	if r.mouseAllMotion {
		r.out.DisableMouseAllMotion()
	}
	r.mouseCellMotion = false
	r.mouseAllMotion = false
}

func (r *standardRenderer) enableBracketedPaste() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bpActive {
		return
	}
	r.out.EnableBracketedPaste()
	r.bpActive = true
}

func (r *standardRenderer) disableBracketedPaste() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.bpActive {
		return
	}
	r.out.DisableBracketedPaste()
	r.bpActive = false
}

func (r *standardRenderer) enableReportFocus() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.focusActive {
		return
	}
	io.WriteString(r.w, "\x1b[?1004h")
	r.focusActive = true
}

func (r *standardRenderer) disableReportFocus() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.focusActive {
		return
	}
	io.WriteString(r.w, "\x1b[?1004l")
	r.focusActive = false
}

func (r *standardRenderer) setWindowTitle(title string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.out.SetWindowTitle(title)
}

// restore undoes every terminal-mode change the renderer made, in reverse
// order of activation. It is best-effort and safe to call on any exit path,
// including after a panic; restoring an already-restored mode is a no-op.
func (r *standardRenderer) restore() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.focusActive {
		io.WriteString(r.w, "\x1b[?1004l")
		r.focusActive = false
	}
	if r.bpActive {
		r.out.DisableBracketedPaste()
		r.bpActive = false
	}
	if r.mouseCellMotion || r.mouseAllMotion {
		r.out.DisableMouseExtendedMode()
		if r.mouseCellMotion {
			r.out.DisableMouseCellMotion()
		}
		if r.mouseAllMotion {
			r.out.DisableMouseAllMotion()
		}
		r.mouseCellMotion = false
		r.mouseAllMotion = false
	}
	if r.cursorHidden {
		r.out.ShowCursor()
		r.cursorHidden = false
	}
	if r.altScreenActive {
		r.out.ExitAltScreen()
		r.altScreenActive = false
	}
}

// setPaused suspends or resumes painting while the terminal is released to
// another process.
func (r *standardRenderer) setPaused(paused bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = paused
}

// termModes is a snapshot of the renderer's terminal-mode flags, taken when
// the terminal is released so the same modes can be re-entered on restore.
type termModes struct {
	altScreen      bool
	cursorHidden   bool
	bracketedPaste bool
	reportFocus    bool
	mouseCell      bool
	mouseAll       bool
}

func (r *standardRenderer) currentModes() termModes {
	r.mu.Lock()
	defer r.mu.Unlock()
	return termModes{
		altScreen:      r.altScreenActive,
		cursorHidden:   r.cursorHidden,
		bracketedPaste: r.bpActive,
		reportFocus:    r.focusActive,
		mouseCell:      r.mouseCellMotion,
		mouseAll:       r.mouseAllMotion,
	}
}

func (r *standardRenderer) applyModes(m termModes) {
	if m.altScreen {
		r.enterAltScreen()
	}
	if m.cursorHidden {
		r.hideCursor()
	}
	if m.bracketedPaste {
		r.enableBracketedPaste()
	}
	if m.reportFocus {
		r.enableReportFocus()
	}
	if m.mouseCell {
		r.enableMouseCellMotion()
	}
	if m.mouseAll {
		r.enableMouseAllMotion()
	}
}

// modesRestored reports whether every tracked terminal mode is off. Used by
// shutdown assertions and tests.
func (r *standardRenderer) modesRestored() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.altScreenActive && !r.cursorHidden && !r.bpActive &&
		!r.focusActive && !r.mouseCellMotion && !r.mouseAllMotion
}
