package steep

import (
	"context"
	"testing"
	"time"
)

func msgCmd(m Msg) Cmd {
	return func(context.Context) Msg { return m }
}

func TestBatch(t *testing.T) {
	bg := context.Background()

	t.Run("empty is nil", func(t *testing.T) {
		if Batch() != nil {
			t.Error("Batch() != nil")
		}
		if Batch(nil, nil) != nil {
			t.Error("Batch(nil, nil) != nil")
		}
	})

	t.Run("single collapses", func(t *testing.T) {
		cmd := Batch(nil, msgCmd("only"), nil)
		if got := cmd(bg); got != "only" {
			t.Errorf("got %v, want the inner command's message", got)
		}
	})

	t.Run("multiple wrap", func(t *testing.T) {
		cmd := Batch(msgCmd("a"), nil, msgCmd("b"))
		b, ok := cmd(bg).(batchMsg)
		if !ok {
			t.Fatalf("got %T, want batchMsg", cmd(bg))
		}
		if len(b) != 2 {
			t.Errorf("len = %d, want 2 (nil elided)", len(b))
		}
	})
}

func TestSequence(t *testing.T) {
	bg := context.Background()

	if Sequence() != nil {
		t.Error("Sequence() != nil")
	}
	if got := Sequence(msgCmd("x"))(bg); got != "x" {
		t.Errorf("single-command sequence: got %v, want x", got)
	}
	s, ok := Sequence(msgCmd("a"), msgCmd("b"), nil)(bg).(sequenceMsg)
	if !ok || len(s) != 2 {
		t.Errorf("got %v (%T), want sequenceMsg of 2", s, s)
	}
}

func TestTick(t *testing.T) {
	t.Run("carries id", func(t *testing.T) {
		start := time.Now()
		msg := Tick(5*time.Millisecond, 42)(context.Background())
		tick, ok := msg.(TickMsg)
		if !ok {
			t.Fatalf("got %T, want TickMsg", msg)
		}
		if tick.ID != 42 {
			t.Errorf("ID = %d, want 42", tick.ID)
		}
		if tick.Time.Before(start) {
			t.Error("tick time precedes start")
		}
	})

	t.Run("cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if msg := Tick(time.Hour, 1)(ctx); msg != nil {
			t.Errorf("cancelled tick returned %v, want nil", msg)
		}
	})
}

func TestEvery(t *testing.T) {
	interval := 50 * time.Millisecond
	msg := Every(interval, 7)(context.Background())
	tick, ok := msg.(TickMsg)
	if !ok {
		t.Fatalf("got %T, want TickMsg", msg)
	}
	if tick.ID != 7 {
		t.Errorf("ID = %d, want 7", tick.ID)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if msg := Every(time.Hour, 1)(ctx); msg != nil {
		t.Errorf("cancelled Every returned %v, want nil", msg)
	}
}

func TestTimeout(t *testing.T) {
	t.Run("fast command passes through", func(t *testing.T) {
		got := Timeout(time.Second, msgCmd("done"))(context.Background())
		if got != "done" {
			t.Errorf("got %v, want done", got)
		}
	})

	t.Run("slow command is cut off", func(t *testing.T) {
		slow := func(ctx context.Context) Msg {
			time.Sleep(200 * time.Millisecond)
			return "too late"
		}
		start := time.Now()
		got := Timeout(10*time.Millisecond, slow)(context.Background())
		if got != nil {
			t.Errorf("got %v, want nil", got)
		}
		if time.Since(start) > time.Second {
			t.Error("Timeout did not enforce its deadline")
		}
	})

	t.Run("nil command", func(t *testing.T) {
		if Timeout(time.Second, nil) != nil {
			t.Error("Timeout(nil) != nil")
		}
	})
}

func TestPrintlnCommand(t *testing.T) {
	msg := Println("a", "b")(context.Background())
	pl, ok := msg.(printLineMsg)
	if !ok || pl.body != "ab" {
		t.Errorf("got %v (%T), want printLineMsg ab", msg, msg)
	}

	msg = Printf("%d%%", 50)(context.Background())
	if pl := msg.(printLineMsg); pl.body != "50%" {
		t.Errorf("Printf body = %q, want 50%%", pl.body)
	}
}
