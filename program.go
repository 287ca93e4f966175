package steep

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/muesli/cancelreader"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

var (
	// ErrProgramKilled is returned by Run when the program was stopped by
	// Kill or by cancellation of the context passed via WithContext.
	ErrProgramKilled = errors.New("program was killed")

	// ErrInterrupted is returned by Run after an InterruptMsg, typically
	// from SIGINT.
	ErrInterrupted = errors.New("program was interrupted")

	// ErrProgramPanic is returned by Run when a panic was recovered in the
	// event loop or in a command.
	ErrProgramPanic = errors.New("program experienced a panic")
)

const (
	defaultFPS             = 60
	maxFPS                 = 120
	defaultQueueSize       = 64
	defaultWorkerLimit     = 16
	defaultShutdownTimeout = 3 * time.Second
	defaultEscTimeout      = 50 * time.Millisecond
)

// startupOptions are the terminal modes entered before the first frame.
type startupOptions uint8

const (
	startAltScreen startupOptions = 1 << iota
	startMouseCellMotion
	startMouseAllMotion
	startBracketedPaste
	startReportFocus
)

// Program lifecycle states.
const (
	stateStarting int32 = iota
	stateRunning
	stateSuspended
	stateShuttingDown
	stateStopped
)

// Program drives a Model: it decodes terminal input into messages, runs the
// commands the model returns, and paints the model's view. A Program runs
// once; create a new one to run again.
type Program struct {
	model Model

	input  io.Reader
	output io.Writer

	externalCtx context.Context
	ctx         context.Context
	cancel      context.CancelFunc

	startupOpts     startupOptions
	fps             int
	queueSize       int
	workerLimit     int
	shutdownTimeout time.Duration
	escTimeout      time.Duration
	handleSignals   bool
	catchPanics     bool

	renderer *standardRenderer
	exec     *executor

	state    atomic.Int32
	finished chan struct{}

	cancelReader cancelreader.CancelReader
	readLoopDone chan struct{}

	ttyFd    int
	ttyState *term.State

	releasedModes termModes

	// Last reported terminal size, used to clamp mouse coordinates.
	width  int
	height int

	sigGroup *errgroup.Group
}

// NewProgram creates a Program for the given model. It does nothing until
// Run is called.
func NewProgram(model Model, opts ...ProgramOption) *Program {
	p := &Program{
		model:           model,
		input:           os.Stdin,
		output:          os.Stdout,
		externalCtx:     context.Background(),
		startupOpts:     startBracketedPaste,
		fps:             defaultFPS,
		queueSize:       defaultQueueSize,
		workerLimit:     defaultWorkerLimit,
		shutdownTimeout: defaultShutdownTimeout,
		escTimeout:      defaultEscTimeout,
		handleSignals:   true,
		catchPanics:     true,
		finished:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.ctx, p.cancel = context.WithCancel(p.externalCtx)
	p.exec = newExecutor(p.queueSize, p.workerLimit, p.catchPanics)
	p.renderer = newRenderer(p.output, p.fps)
	p.renderer.onRenderErr = func(err error) {
		p.Send(quitWithErrMsg{err: fmt.Errorf("writing frame: %w", err)})
	}
	return p
}

// Run starts the program and blocks until it stops. It returns the final
// model and, when the program ended abnormally, one of the sentinel errors.
// The terminal is restored on every exit path, including panics.
func (p *Program) Run() (model Model, err error) {
	defer func() {
		p.shutdown()
		close(p.finished)
	}()

	if p.catchPanics {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic in program", "recover", r, "stack", string(debug.Stack()))
				model = p.model
				err = fmt.Errorf("%w: %v", ErrProgramPanic, r)
			}
		}()
	}

	if err := p.initTerminal(); err != nil {
		return p.model, err
	}

	if p.startupOpts&startAltScreen != 0 {
		p.renderer.enterAltScreen()
	}
	if p.startupOpts&startBracketedPaste != 0 {
		p.renderer.enableBracketedPaste()
	}
	if p.startupOpts&startMouseCellMotion != 0 {
		p.renderer.enableMouseCellMotion()
	}
	if p.startupOpts&startMouseAllMotion != 0 {
		p.renderer.enableMouseAllMotion()
	}
	if p.startupOpts&startReportFocus != 0 {
		p.renderer.enableReportFocus()
	}

	if w, h, err := p.terminalSize(); err == nil {
		p.Send(WindowSizeMsg{Width: w, Height: h})
	}

	if p.handleSignals {
		g, gctx := errgroup.WithContext(p.ctx)
		g.Go(func() error { return p.listenForInterrupt(gctx) })
		g.Go(func() error { return p.listenForResize(gctx) })
		p.sigGroup = g
	}

	if err := p.initInputReader(); err != nil {
		return p.model, err
	}

	p.state.Store(stateRunning)
	if cmd := p.model.Init(); cmd != nil {
		p.exec.exec(cmd)
	}
	p.renderer.write(p.model.View())
	p.renderer.start()

	err = p.eventLoop()
	return p.model, err
}

func (p *Program) eventLoop() error {
	for {
		select {
		case <-p.ctx.Done():
			return ErrProgramKilled

		case msg := <-p.exec.msgs:
			if msg == nil {
				continue
			}

			switch m := msg.(type) {
			case QuitMsg:
				return nil

			case quitWithErrMsg:
				return m.err

			case InterruptMsg:
				if cmd := p.model.Update(m); cmd != nil {
					p.exec.exec(cmd)
				}
				return ErrInterrupted

			case SuspendMsg:
				if cmd := p.model.Update(m); cmd != nil {
					p.exec.exec(cmd)
				}
				if err := p.suspend(); err != nil {
					return err
				}
				continue

			case WindowSizeMsg:
				p.width, p.height = m.Width, m.Height
				p.renderer.resize(m.Width, m.Height)

			case MouseMsg:
				msg = p.clampMouse(m)

			case windowSizeReqMsg:
				if w, h, err := p.terminalSize(); err == nil {
					p.Send(WindowSizeMsg{Width: w, Height: h})
				}
				continue

			case printLineMsg:
				p.renderer.queueLines(strings.Split(m.body, "\n"))
				continue

			case setWindowTitleMsg:
				p.renderer.setWindowTitle(string(m))
				continue

			case clearScreenMsg:
				p.renderer.clearScreen()
				continue
			case enterAltScreenMsg:
				p.renderer.enterAltScreen()
				continue
			case exitAltScreenMsg:
				p.renderer.exitAltScreen()
				continue
			case showCursorMsg:
				p.renderer.showCursor()
				continue
			case hideCursorMsg:
				p.renderer.hideCursor()
				continue
			case enableMouseCellMotionMsg:
				p.renderer.enableMouseCellMotion()
				continue
			case enableMouseAllMotionMsg:
				p.renderer.enableMouseAllMotion()
				continue
			case disableMouseMsg:
				p.renderer.disableMouse()
				continue
			case enableBracketedPasteMsg:
				p.renderer.enableBracketedPaste()
				continue
			case disableBracketedPasteMsg:
				p.renderer.disableBracketedPaste()
				continue
			case enableReportFocusMsg:
				p.renderer.enableReportFocus()
				continue
			case disableReportFocusMsg:
				p.renderer.disableReportFocus()
				continue
			}

			if cmd := p.model.Update(msg); cmd != nil {
				p.exec.exec(cmd)
			}
			p.renderer.write(p.model.View())
		}
	}
}

// clampMouse bounds mouse coordinates to the last reported terminal size.
// Some terminals report events past the edge during fast drags.
func (p *Program) clampMouse(m MouseMsg) MouseMsg {
	if m.X < 1 {
		m.X = 1
	}
	if m.Y < 1 {
		m.Y = 1
	}
	if p.width > 0 && m.X > p.width {
		m.X = p.width
	}
	if p.height > 0 && m.Y > p.height {
		m.Y = p.height
	}
	return m
}

// suspend hands the terminal back to the shell until the process is
// continued, then reclaims it and notifies the model with a ResumeMsg.
func (p *Program) suspend() error {
	p.state.Store(stateSuspended)
	if err := p.ReleaseTerminal(); err != nil {
		return err
	}
	suspendProcess()
	if err := p.RestoreTerminal(); err != nil {
		return err
	}
	p.state.Store(stateRunning)
	p.Send(ResumeMsg{})
	return nil
}

// Send delivers a message to the program from outside the event loop. It is
// safe for concurrent use. Messages sent after the program has stopped are
// discarded.
func (p *Program) Send(msg Msg) {
	if msg == nil {
		return
	}
	select {
	case <-p.ctx.Done():
	case p.exec.msgs <- msg:
	}
}

// Quit requests a graceful stop, equivalent to the model returning Quit.
func (p *Program) Quit() {
	p.Send(QuitMsg{})
}

// Kill stops the program immediately. In-flight commands get the shutdown
// grace period to notice cancellation; Run returns ErrProgramKilled.
func (p *Program) Kill() {
	p.cancel()
}

// Wait blocks until the program has stopped and the terminal is restored.
func (p *Program) Wait() {
	<-p.finished
}

// ReleaseTerminal restores the terminal to its normal state so another
// process can use it, keeping the program alive. RestoreTerminal reclaims
// it.
func (p *Program) ReleaseTerminal() error {
	if p.cancelReader != nil {
		p.cancelReader.Cancel()
		<-p.readLoopDone
		p.cancelReader = nil
	}
	p.releasedModes = p.renderer.currentModes()
	p.renderer.setPaused(true)
	p.renderer.restore()
	return p.restoreRawMode()
}

// RestoreTerminal reclaims the terminal after ReleaseTerminal, re-entering
// the modes that were active when it was released.
func (p *Program) RestoreTerminal() error {
	if err := p.initTerminal(); err != nil {
		return err
	}
	p.renderer.applyModes(p.releasedModes)
	p.renderer.setPaused(false)
	p.renderer.repaint()
	if err := p.initInputReader(); err != nil {
		return err
	}
	// The window may have been resized while released.
	if w, h, err := p.terminalSize(); err == nil {
		p.Send(WindowSizeMsg{Width: w, Height: h})
	}
	return nil
}

// initInputReader starts the input decode loop on a cancelable reader.
func (p *Program) initInputReader() error {
	r, err := cancelreader.NewReader(p.input)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	p.cancelReader = r
	done := make(chan struct{})
	p.readLoopDone = done
	go func() {
		defer close(done)
		if err := readInput(p.ctx, r, p.escTimeout, p.Send); err != nil {
			p.Send(quitWithErrMsg{err: fmt.Errorf("reading input: %w", err)})
		}
	}()
	return nil
}

// listenForInterrupt forwards SIGINT as InterruptMsg and SIGTERM as QuitMsg
// until ctx is done.
func (p *Program) listenForInterrupt(ctx context.Context) error {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	for {
		select {
		case <-ctx.Done():
			return nil
		case s := <-sig:
			if s == syscall.SIGTERM {
				p.Send(QuitMsg{})
			} else {
				p.Send(InterruptMsg{})
			}
		}
	}
}

// shutdown tears the program down: cancels commands, waits out the grace
// period, stops painting, and restores terminal modes and raw mode. It runs
// on every exit path.
func (p *Program) shutdown() {
	p.state.Store(stateShuttingDown)
	p.cancel()

	if p.cancelReader != nil {
		p.cancelReader.Cancel()
		<-p.readLoopDone
		p.cancelReader = nil
	}

	p.exec.shutdown(p.shutdownTimeout)

	if p.sigGroup != nil {
		_ = p.sigGroup.Wait()
	}

	p.renderer.stop()
	p.renderer.restore()
	if err := p.restoreRawMode(); err != nil {
		logger.Error("restoring terminal", "err", err)
	}

	p.state.Store(stateStopped)
}
