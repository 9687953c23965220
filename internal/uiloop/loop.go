// Package uiloop runs closures one at a time on a single goroutine, the
// way a UI thread drains its event queue. Everything that touches an
// editing session's geometry goes through a Loop.
package uiloop

import (
	"context"
	"errors"
	"sync"
)

// ErrStopped is returned when posting to a loop that has shut down.
var ErrStopped = errors.New("ui loop stopped")

const defaultQueueSize = 256

// Loop is a FIFO task queue drained by one goroutine.
type Loop struct {
	tasks chan func()

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

// New creates a loop. queueSize <= 0 picks a default.
func New(queueSize int) *Loop {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Loop{
		tasks:  make(chan func(), queueSize),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Run drains the queue until ctx is cancelled or Stop is called. It must
// be called exactly once. Tasks still queued at shutdown are dropped.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case fn := <-l.tasks:
			fn()
		case <-l.stopCh:
			return
		case <-ctx.Done():
			l.Stop()
			return
		}
	}
}

// Start runs the loop on a new goroutine.
func (l *Loop) Start(ctx context.Context) {
	go l.Run(ctx)
}

// Post enqueues fn. It returns false if the loop has stopped. Post blocks
// while the queue is full, so tasks running on the loop must use TryPost.
// A task that races with Stop may be accepted and never run.
func (l *Loop) Post(fn func()) bool {
	return l.post(context.Background(), fn) == nil
}

// TryPost enqueues fn without blocking. It returns false if the loop has
// stopped or the queue is full.
func (l *Loop) TryPost(fn func()) bool {
	select {
	case <-l.stopCh:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	default:
		return false
	}
}

func (l *Loop) post(ctx context.Context, fn func()) error {
	select {
	case <-l.stopCh:
		return ErrStopped
	default:
	}
	select {
	case l.tasks <- fn:
		return nil
	case <-l.stopCh:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Call posts fn and waits for it to finish. Calling it from a task
// running on the loop deadlocks.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if err := l.post(ctx, func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop makes the loop exit after the task in progress. Safe to call more
// than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
