package steep

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// initTerminal puts the terminal into raw mode and hides the cursor. It is
// a no-op when the input is not a terminal, so programs driven by pipes or
// test readers run unchanged.
func (p *Program) initTerminal() error {
	f, ok := p.input.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return nil
	}
	state, err := term.MakeRaw(int(f.Fd()))
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	p.ttyFd = int(f.Fd())
	p.ttyState = state
	p.renderer.hideCursor()
	return nil
}

// restoreRawMode undoes raw mode. Safe to call when raw mode was never
// entered, or more than once.
func (p *Program) restoreRawMode() error {
	if p.ttyState == nil {
		return nil
	}
	err := term.Restore(p.ttyFd, p.ttyState)
	p.ttyState = nil
	if err != nil {
		return fmt.Errorf("restoring terminal: %w", err)
	}
	return nil
}

// terminalSize reports the current output dimensions, or an error when the
// output is not a terminal.
func (p *Program) terminalSize() (width, height int, err error) {
	f, ok := p.output.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return 0, 0, fmt.Errorf("output is not a terminal")
	}
	return term.GetSize(int(f.Fd()))
}
