package render

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// Loop is a serial task queue. The renderer, its document and any router
// on top of it belong to the goroutine running the loop; other goroutines
// hand work over with Post.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	closed bool
	notify chan struct{}

	// inflight counts async work that will post a task when done.
	inflight atomic.Int64

	logger  *slog.Logger
	metrics *Metrics
}

// NewLoop creates an empty loop. A nil logger uses slog.Default().
func NewLoop(logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		notify: make(chan struct{}, 1),
		logger: logger.With("component", "loop"),
	}
}

// Post queues fn. It is safe to call from any goroutine and reports false
// when the loop is closed.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.notify <- struct{}{}:
	default:
	}
	return true
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// InFlight returns the number of async operations that have not posted
// their settlement yet.
func (l *Loop) InFlight() int {
	return int(l.inflight.Load())
}

func (l *Loop) begin() { l.inflight.Add(1) }

func (l *Loop) end() { l.inflight.Add(-1) }

// RunPending runs queued tasks, including tasks they post, until the queue
// is empty. It returns the number of tasks run.
func (l *Loop) RunPending() int {
	n := 0
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return n
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		l.execute(fn)
		n++
	}
}

// execute runs fn, recovering and logging a panic.
func (l *Loop) execute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.metrics.recordPanic()
			l.logger.Error("loop task panic",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}

// Wait blocks until a task is posted or ctx is done.
func (l *Loop) Wait(ctx context.Context) error {
	if l.Pending() > 0 {
		return nil
	}
	select {
	case <-l.notify:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes tasks until ctx is done or the loop is closed.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.RunPending()
		if l.isClosed() {
			return nil
		}
		if err := l.Wait(ctx); err != nil {
			return err
		}
	}
}

// Settle runs tasks until nothing is queued and no async operation is in
// flight, or ctx is done.
func (l *Loop) Settle(ctx context.Context) error {
	for {
		l.RunPending()
		if l.InFlight() == 0 && l.Pending() == 0 {
			return nil
		}
		if err := l.Wait(ctx); err != nil {
			return err
		}
	}
}

// Close stops accepting tasks and wakes Run. Queued tasks are dropped.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.queue = nil
	l.mu.Unlock()

	select {
	case l.notify <- struct{}{}:
	default:
	}
}

func (l *Loop) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}
