//go:build !darwin && !dragonfly && !freebsd && !linux && !netbsd && !openbsd && !solaris

package steep

import "context"

// Resize and job-control signals are not available on this platform.

func (p *Program) listenForResize(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func suspendProcess() {}
