package steep

import (
	"context"
	"io"
	"time"
)

// ProgramOption configures a Program at construction time.
type ProgramOption func(*Program)

// WithInput sets the reader used for terminal input. Defaults to stdin.
func WithInput(r io.Reader) ProgramOption {
	return func(p *Program) {
		p.input = r
	}
}

// WithOutput sets the writer frames are painted to. Defaults to stdout.
func WithOutput(w io.Writer) ProgramOption {
	return func(p *Program) {
		p.output = w
	}
}

// WithContext makes the program stop when ctx is cancelled, as if Kill had
// been called.
func WithContext(ctx context.Context) ProgramOption {
	return func(p *Program) {
		p.externalCtx = ctx
	}
}

// WithAltScreen starts the program on the alternate screen buffer.
func WithAltScreen() ProgramOption {
	return func(p *Program) {
		p.startupOpts |= startAltScreen
	}
}

// WithMouseCellMotion enables mouse press, release, wheel and drag events.
func WithMouseCellMotion() ProgramOption {
	return func(p *Program) {
		p.startupOpts |= startMouseCellMotion
		p.startupOpts &^= startMouseAllMotion
	}
}

// WithMouseAllMotion enables all mouse events including hover motion.
func WithMouseAllMotion() ProgramOption {
	return func(p *Program) {
		p.startupOpts |= startMouseAllMotion
		p.startupOpts &^= startMouseCellMotion
	}
}

// WithoutBracketedPaste disables bracketed paste, which is otherwise on by
// default.
func WithoutBracketedPaste() ProgramOption {
	return func(p *Program) {
		p.startupOpts &^= startBracketedPaste
	}
}

// WithReportFocus makes the terminal report focus gained and lost as
// FocusMsg and BlurMsg.
func WithReportFocus() ProgramOption {
	return func(p *Program) {
		p.startupOpts |= startReportFocus
	}
}

// WithFPS sets the maximum paint rate. Values are clamped to 1 through 120;
// the default is 60.
func WithFPS(fps int) ProgramOption {
	return func(p *Program) {
		if fps < 1 {
			fps = 1
		}
		if fps > maxFPS {
			fps = maxFPS
		}
		p.fps = fps
	}
}

// WithoutSignalHandler disables the OS signal listeners. The caller becomes
// responsible for resize, interrupt and suspend handling.
func WithoutSignalHandler() ProgramOption {
	return func(p *Program) {
		p.handleSignals = false
	}
}

// WithoutCatchPanics disables panic recovery in the event loop and in
// commands. Terminal modes are still restored before the panic propagates,
// via the shutdown defer.
func WithoutCatchPanics() ProgramOption {
	return func(p *Program) {
		p.catchPanics = false
	}
}

// WithInboundQueueSize sets the capacity of the message queue feeding the
// event loop. The default is 64.
func WithInboundQueueSize(n int) ProgramOption {
	return func(p *Program) {
		if n > 0 {
			p.queueSize = n
		}
	}
}

// WithWorkerLimit caps the number of commands running concurrently. The
// default is 16.
func WithWorkerLimit(n int) ProgramOption {
	return func(p *Program) {
		if n > 0 {
			p.workerLimit = n
		}
	}
}

// WithShutdownTimeout sets how long shutdown waits for in-flight commands
// after cancelling them. The default is 3 seconds.
func WithShutdownTimeout(d time.Duration) ProgramOption {
	return func(p *Program) {
		if d > 0 {
			p.shutdownTimeout = d
		}
	}
}

// WithEscTimeout sets how long the input decoder waits for the remainder of
// an ambiguous escape sequence before treating the escape byte as a bare
// Escape key press. The default is 50 milliseconds.
func WithEscTimeout(d time.Duration) ProgramOption {
	return func(p *Program) {
		if d > 0 {
			p.escTimeout = d
		}
	}
}
