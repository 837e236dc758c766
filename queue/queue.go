// Package queue provides the bounded, blocking FIFO used by the runtime
// pipeline and the in-process transport.
package queue

import (
	"errors"

	gods "github.com/Workiva/go-datastructures/queue"

	maelstrom "github.com/bnjmnt/go-maelstrom"
)

// Bounded is a bounded, blocking FIFO backed by a ring buffer.
//
//   - Put blocks when the queue is full until space becomes available or the
//     queue is disposed. This is the backpressure mechanism: producers suspend
//     rather than drop or buffer unboundedly.
//   - Get blocks when the queue is empty until an item arrives or the queue
//     is disposed.
//   - Items are delivered in the order they were put.
//   - Dispose unblocks all waiters; blocked and subsequent operations fail
//     with maelstrom.ErrClosed. Dispose is idempotent.
type Bounded[T any] struct {
	underlying *gods.RingBuffer
}

// NewBounded creates a bounded queue with the given capacity. Capacity must
// be positive; the underlying ring buffer rounds it up to the next power of
// two.
func NewBounded[T any](capacity int) *Bounded[T] {
	return &Bounded[T]{underlying: gods.NewRingBuffer(uint64(capacity))}
}

// Put inserts an item, blocking while the queue is full.
func (q *Bounded[T]) Put(item T) error {
	if err := q.underlying.Put(item); err != nil {
		return closedErr(err)
	}
	return nil
}

// Get removes and returns the oldest item, blocking while the queue is empty.
func (q *Bounded[T]) Get() (T, error) {
	item, err := q.underlying.Get()
	if err != nil {
		var zero T
		return zero, closedErr(err)
	}
	return item.(T), nil
}

// Len returns the number of queued items. The value is a snapshot and may
// change immediately under concurrency.
func (q *Bounded[T]) Len() int64 {
	return int64(q.underlying.Len())
}

// Cap returns the queue capacity.
func (q *Bounded[T]) Cap() int64 {
	return int64(q.underlying.Cap())
}

// Dispose closes the queue and unblocks any waiters. Do not put items after
// calling Dispose.
func (q *Bounded[T]) Dispose() {
	q.underlying.Dispose()
}

// IsDisposed reports whether the queue has been disposed.
func (q *Bounded[T]) IsDisposed() bool {
	return q.underlying.IsDisposed()
}

func closedErr(err error) error {
	if errors.Is(err, gods.ErrDisposed) {
		return maelstrom.ErrClosed
	}
	return err
}
