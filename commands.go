package steep

import (
	"context"
	"fmt"
	"time"
)

// Quit is a command that tells the program to exit gracefully.
func Quit(ctx context.Context) Msg {
	return QuitMsg{}
}

// Suspend is a command that suspends the program (equivalent to ctrl+z).
func Suspend(ctx context.Context) Msg {
	return SuspendMsg{}
}

// Batch runs the given commands concurrently with no ordering guarantee.
// Their messages arrive in completion order. Nil commands are elided; a
// batch of zero or one commands collapses accordingly.
func Batch(cmds ...Cmd) Cmd {
	valid := compact(cmds)
	switch len(valid) {
	case 0:
		return nil
	case 1:
		return valid[0]
	}
	return func(context.Context) Msg {
		return batchMsg(valid)
	}
}

// Sequence runs the given commands strictly in order: command i+1 starts
// only after command i's message (if any) has been enqueued. To react to
// intermediate results, handle them in Update; Sequence guarantees nothing
// beyond per-pair ordering.
func Sequence(cmds ...Cmd) Cmd {
	valid := compact(cmds)
	switch len(valid) {
	case 0:
		return nil
	case 1:
		return valid[0]
	}
	return func(context.Context) Msg {
		return sequenceMsg(valid)
	}
}

func compact(cmds []Cmd) []Cmd {
	valid := make([]Cmd, 0, len(cmds))
	for _, c := range cmds {
		if c != nil {
			valid = append(valid, c)
		}
	}
	return valid
}

// Tick produces a single TickMsg after d has elapsed. The returned message
// carries id so a component can discard ticks it did not request. For a
// repeating timer, return another Tick from Update when handling the
// TickMsg.
func Tick(d time.Duration, id int) Cmd {
	return func(ctx context.Context) Msg {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case now := <-t.C:
			return TickMsg{Time: now, ID: id}
		case <-ctx.Done():
			return nil
		}
	}
}

// Every is like Tick but aligns to wall-clock boundaries of d: with a one
// second interval and the clock at 12:34:20.5 the tick fires at 12:34:21.0.
// Multiple Every timers with the same interval stay phase-locked.
func Every(d time.Duration, id int) Cmd {
	return func(ctx context.Context) Msg {
		now := time.Now()
		next := now.Truncate(d).Add(d)
		t := time.NewTimer(next.Sub(now))
		defer t.Stop()
		select {
		case fired := <-t.C:
			return TickMsg{Time: fired, ID: id}
		case <-ctx.Done():
			return nil
		}
	}
}

// Timeout bounds a command's execution: if cmd has not finished within d its
// context is cancelled and any message it still produces is discarded.
func Timeout(d time.Duration, cmd Cmd) Cmd {
	if cmd == nil {
		return nil
	}
	return func(ctx context.Context) Msg {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		done := make(chan Msg, 1)
		go func() {
			done <- cmd(ctx)
		}()
		select {
		case msg := <-done:
			return msg
		case <-ctx.Done():
			return nil
		}
	}
}

// SetWindowTitle sets the terminal window title.
func SetWindowTitle(title string) Cmd {
	return func(context.Context) Msg {
		return setWindowTitleMsg(title)
	}
}

// WindowSize queries the terminal size. The answer arrives as a
// WindowSizeMsg.
func WindowSize() Cmd {
	return func(context.Context) Msg {
		return windowSizeReqMsg{}
	}
}

// Println prints above the program's managed area. It has no effect while
// the alternate screen is active. Unlike writing to stdout directly, the
// output is coordinated with the renderer so frames are not corrupted.
func Println(args ...interface{}) Cmd {
	return func(context.Context) Msg {
		return printLineMsg{body: fmt.Sprint(args...)}
	}
}

// Printf is Println with a format string.
func Printf(format string, args ...interface{}) Cmd {
	return func(context.Context) Msg {
		return printLineMsg{body: fmt.Sprintf(format, args...)}
	}
}
