package steep

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// executor runs commands off the event loop and funnels their messages into
// a single bounded inbound queue. Command execution is concurrent, bounded
// by a worker limit; message delivery is serialized by the queue, so the
// program observes completions in arrival order.
type executor struct {
	msgs chan Msg // the inbound queue, read only by the event loop

	ctx    context.Context
	cancel context.CancelFunc

	sem chan struct{} // bounds concurrently running commands
	wg  sync.WaitGroup

	inflight    atomic.Int64
	catchPanics bool
	warnOnce    sync.Once
}

func newExecutor(queueSize, workers int, catchPanics bool) *executor {
	ctx, cancel := context.WithCancel(context.Background())
	return &executor{
		msgs:        make(chan Msg, queueSize),
		ctx:         ctx,
		cancel:      cancel,
		sem:         make(chan struct{}, workers),
		catchPanics: catchPanics,
	}
}

// exec schedules cmd without blocking the caller. Each dispatched command
// gets its own goroutine gated by the worker limit, and observes
// cancellation through the context passed to it.
func (e *executor) exec(cmd Cmd) {
	if cmd == nil {
		return
	}
	e.wg.Add(1)
	e.inflight.Add(1)
	go func() {
		defer e.wg.Done()
		defer e.inflight.Add(-1)

		select {
		case e.sem <- struct{}{}:
			defer func() { <-e.sem }()
		case <-e.ctx.Done():
			return
		}

		e.run(cmd)
	}()
}

// run executes a single command in the current goroutine and routes its
// result. Batches fan back out through exec; sequences run their elements
// serially right here so element i+1 cannot start, let alone deliver,
// before element i's message is enqueued.
func (e *executor) run(cmd Cmd) {
	if e.catchPanics {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("command panicked", "recovered", r)
			}
		}()
	}

	msg := cmd(e.ctx)
	switch m := msg.(type) {
	case nil:
	case batchMsg:
		for _, c := range m {
			e.exec(c)
		}
	case sequenceMsg:
		for _, c := range m {
			if e.ctx.Err() != nil {
				return
			}
			e.run(c)
		}
	default:
		e.deliver(msg)
	}
}

// deliver enqueues a message, blocking the producing task when the queue is
// full. Saturation is surfaced once at warning level so the application can
// shed load; it is backpressure, not an error.
func (e *executor) deliver(msg Msg) {
	select {
	case e.msgs <- msg:
		return
	default:
		e.warnOnce.Do(func() {
			logger.Warn("inbound message queue is full; command completions are now blocking",
				"capacity", cap(e.msgs))
		})
	}
	select {
	case e.msgs <- msg:
	case <-e.ctx.Done():
		// Shutting down; the loop is no longer reading. Discard.
	}
}

// shutdown cancels every outstanding command and waits up to grace for the
// in-flight ones to observe cancellation and return. Tasks that overrun the
// grace period are abandoned, not killed; anything they later produce is
// discarded by deliver.
func (e *executor) shutdown(grace time.Duration) {
	e.cancel()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	t := time.NewTimer(grace)
	defer t.Stop()
	select {
	case <-done:
	case <-t.C:
		logger.Warn("shutdown grace period elapsed; abandoning tasks",
			"remaining", e.inflight.Load(), "grace", grace)
	}
}
