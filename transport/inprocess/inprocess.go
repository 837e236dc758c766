// Package inprocess implements the line transport over in-memory bounded
// queues. It stands in for the standard streams in local tests, with the
// same closing semantics.
package inprocess

import (
	"github.com/bnjmnt/go-maelstrom/queue"
	"github.com/bnjmnt/go-maelstrom/transport"
)

// Transport carries lines over a pair of bounded queues: rx delivers lines
// to ReadLine, tx receives lines from WriteLine.
type Transport struct {
	rx *queue.Bounded[string]
	tx *queue.Bounded[string]
}

// enforce compilation error
var _ transport.Transport = (*Transport)(nil)

// New creates a transport over the given queues.
func New(rx, tx *queue.Bounded[string]) *Transport {
	return &Transport{rx: rx, tx: tx}
}

// Pipe creates two cross-connected transports with the given queue depth:
// lines written to one end are read from the other. Tests hold one end as
// the orchestrator and hand the other to the runtime.
func Pipe(depth int) (*Transport, *Transport) {
	a := queue.NewBounded[string](depth)
	b := queue.NewBounded[string](depth)
	return New(a, b), New(b, a)
}

// ReadLine returns the next queued line, blocking until one is available.
// After either end closes, it fails with maelstrom.ErrClosed.
func (t *Transport) ReadLine() (string, error) {
	return t.rx.Get()
}

// WriteLine queues a line, blocking while the peer is behind and the queue
// is full.
func (t *Transport) WriteLine(line string) error {
	return t.tx.Put(line)
}

// Close disposes both queues, unblocking any pending reads and writes on
// either end. Close is idempotent.
func (t *Transport) Close() error {
	t.rx.Dispose()
	t.tx.Dispose()
	return nil
}
