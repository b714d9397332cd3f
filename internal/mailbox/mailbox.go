// Package mailbox provides a single-slot, latest-wins buffer. It is
// used to pass change hints from the watcher to the scheduler: hints
// are idempotent, so coalescing a burst into one pending value is
// exactly the behavior we want. It is NOT a queue.
package mailbox

import (
	"context"
	"sync"
)

// Mailbox holds at most one pending value. Put overwrites any value
// already waiting and never blocks.
type Mailbox[T any] struct {
	mu sync.Mutex
	ch chan T
}

func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{ch: make(chan T, 1)}
}

// Put stores v, replacing a pending value if there is one.
func (m *Mailbox[T]) Put(v T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.ch:
	default:
	}
	m.ch <- v
}

// Take blocks until a value is available or ctx is done.
func (m *Mailbox[T]) Take(ctx context.Context) (T, bool) {
	select {
	case v := <-m.ch:
		return v, true
	case <-ctx.Done():
		var zero T
		return zero, false
	}
}

// TryTake returns the pending value if present. It never blocks.
func (m *Mailbox[T]) TryTake() (T, bool) {
	select {
	case v := <-m.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}
