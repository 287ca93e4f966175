//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package steep

import (
	"context"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// listenForResize forwards SIGWINCH as WindowSizeMsg until ctx is done.
func (p *Program) listenForResize(ctx context.Context) error {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, unix.SIGWINCH)
	defer signal.Stop(sig)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sig:
			w, h, err := p.terminalSize()
			if err != nil {
				logger.Debug("querying terminal size", "err", err)
				continue
			}
			p.Send(WindowSizeMsg{Width: w, Height: h})
		}
	}
}

// suspendProcess stops this process the way ctrl+z would, after the caller
// has released the terminal. It returns once the process is continued.
// SIGTSTP must not be caught anywhere for the stop to actually happen.
func suspendProcess() {
	cont := make(chan os.Signal, 1)
	signal.Notify(cont, unix.SIGCONT)
	defer signal.Stop(cont)
	_ = unix.Kill(0, unix.SIGTSTP)
	<-cont
}
