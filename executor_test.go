package steep

import (
	"context"
	"sort"
	"testing"
	"time"
)

func collectMsgs(t *testing.T, e *executor, n int) []Msg {
	t.Helper()
	msgs := make([]Msg, 0, n)
	timeout := time.After(2 * time.Second)
	for len(msgs) < n {
		select {
		case m := <-e.msgs:
			msgs = append(msgs, m)
		case <-timeout:
			t.Fatalf("got %d of %d messages before timeout", len(msgs), n)
		}
	}
	return msgs
}

func TestExecutorDelivers(t *testing.T) {
	e := newExecutor(8, 4, false)
	defer e.shutdown(time.Second)

	e.exec(msgCmd("hello"))
	if got := collectMsgs(t, e, 1)[0]; got != "hello" {
		t.Errorf("got %v, want hello", got)
	}
}

func TestExecutorBatchExactlyOnce(t *testing.T) {
	e := newExecutor(16, 4, false)
	defer e.shutdown(time.Second)

	e.exec(Batch(msgCmd(0), msgCmd(1), msgCmd(2), msgCmd(3), msgCmd(4)))

	got := collectMsgs(t, e, 5)
	ints := make([]int, len(got))
	for i, m := range got {
		ints[i] = m.(int)
	}
	sort.Ints(ints)
	for i, v := range ints {
		if v != i {
			t.Fatalf("batch results = %v, want each of 0..4 exactly once", ints)
		}
	}
}

func TestExecutorSequenceOrder(t *testing.T) {
	e := newExecutor(8, 4, false)
	defer e.shutdown(time.Second)

	e.exec(Sequence(msgCmd("first"), msgCmd("second"), msgCmd("third")))

	got := collectMsgs(t, e, 3)
	want := []Msg{"first", "second", "third"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sequence delivered %v, want %v", got, want)
		}
	}
}

// A full queue must slow producers down, not lose messages.
func TestExecutorBackpressure(t *testing.T) {
	e := newExecutor(1, 4, false)
	defer e.shutdown(time.Second)

	const n = 8
	for i := 0; i < n; i++ {
		e.exec(msgCmd(i))
	}

	seen := make(map[int]bool)
	for _, m := range collectMsgs(t, e, n) {
		seen[m.(int)] = true
	}
	if len(seen) != n {
		t.Errorf("received %d distinct messages, want %d", len(seen), n)
	}
}

func TestExecutorShutdownCancelsCommands(t *testing.T) {
	e := newExecutor(8, 4, false)

	started := make(chan struct{})
	e.exec(func(ctx context.Context) Msg {
		close(started)
		<-ctx.Done()
		return nil
	})
	<-started

	done := make(chan struct{})
	go func() {
		e.shutdown(time.Second)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not return after cancelling commands")
	}
}

func TestExecutorShutdownAbandonsStuckCommands(t *testing.T) {
	e := newExecutor(8, 4, false)

	started := make(chan struct{})
	e.exec(func(ctx context.Context) Msg {
		close(started)
		time.Sleep(300 * time.Millisecond) // ignores cancellation
		return nil
	})
	<-started

	start := time.Now()
	e.shutdown(20 * time.Millisecond)
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Errorf("shutdown took %v, want it to give up after the grace period", elapsed)
	}
}

func TestExecutorPanicRecovery(t *testing.T) {
	e := newExecutor(8, 4, true)
	defer e.shutdown(time.Second)

	e.exec(func(context.Context) Msg { panic("boom") })
	e.exec(msgCmd("survived"))

	if got := collectMsgs(t, e, 1)[0]; got != "survived" {
		t.Errorf("got %v, want survived", got)
	}
}
