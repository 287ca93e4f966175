// Package steep is a message-driven terminal UI runtime. An application
// supplies a Model — state plus Init, Update and View — and the runtime owns
// everything else: reading the terminal, decoding raw bytes into structured
// events, executing side-effecting commands concurrently, and repainting the
// screen at a fixed frame rate with minimal writes.
package steep

import (
	"context"
	"time"
)

// Msg is a message passed to the model's Update function. Any value can be a
// message; the model dispatches on its concrete type with a type switch.
type Msg interface{}

// Cmd is a deferred unit of work that produces at most one message. Commands
// are the only sanctioned place for I/O, randomness and wall-clock reads;
// Update and View stay pure. The context is cancelled when the command's
// result is no longer wanted (individual timeout or program shutdown), and
// blocking commands should select on ctx.Done() at their suspension points.
//
// A nil Cmd is valid and means "no work".
type Cmd func(ctx context.Context) Msg

// Model is the application contract. The runtime holds the sole reference to
// the model for the duration of the event loop: Update and View are never
// called concurrently or re-entrantly.
type Model interface {
	// Init is called once before the event loop starts and may return an
	// initial command.
	Init() Cmd

	// Update handles a message, mutates state, and may return a follow-up
	// command. It must not block or perform I/O.
	Update(Msg) Cmd

	// View renders the current state as a string. It must be pure.
	View() string
}

// QuitMsg signals the program to begin a graceful shutdown. Applications
// usually produce it via the Quit command.
type QuitMsg struct{}

// InterruptMsg is delivered when the process receives SIGINT. The model may
// observe it (to flush state, say), after which the program shuts down and
// Run returns ErrInterrupted. Note that with the terminal in raw mode a
// ctrl+c keypress arrives as an ordinary KeyMsg instead.
type InterruptMsg struct{}

// SuspendMsg signals the program to suspend itself (ctrl+z / SIGTSTP). The
// terminal is restored before the process stops and re-acquired on resume.
type SuspendMsg struct{}

// ResumeMsg is delivered after the program resumes from suspension.
type ResumeMsg struct{}

// WindowSizeMsg reports the terminal dimensions. One is delivered at startup
// and another on every resize.
type WindowSizeMsg struct {
	Width  int
	Height int
}

// FocusMsg is delivered when the terminal gains focus. Requires
// WithReportFocus.
type FocusMsg struct{}

// BlurMsg is delivered when the terminal loses focus. Requires
// WithReportFocus.
type BlurMsg struct{}

// TickMsg is the message produced by Tick and Every. ID carries the
// correlation id given to the command so that independent sub-components
// sharing one Update function can ignore each other's timers.
type TickMsg struct {
	// Time is when the tick fired.
	Time time.Time

	// ID correlates the message with the Tick or Every command that
	// produced it. Zero if the command was created without an id.
	ID int
}

// Internal control messages. These are produced by commands and consumed by
// the event loop before the model sees them.

type batchMsg []Cmd

type sequenceMsg []Cmd

type printLineMsg struct{ body string }

type setWindowTitleMsg string

type windowSizeReqMsg struct{}

type quitWithErrMsg struct{ err error }
