// Package process defines the contract between the runtime and an
// application node process.
package process

import (
	maelstrom "github.com/bnjmnt/go-maelstrom"
	"github.com/bnjmnt/go-maelstrom/protocol"
	"github.com/bnjmnt/go-maelstrom/queue"
)

// ProcNet is the process's interface to the Maelstrom network: two bounded,
// ordered queues mediated by the runtime. Messages are delivered in FIFO
// order per direction; no ordering holds between the two directions.
//
// A is the application-defined node-to-node body type.
type ProcNet[A any] struct {
	txq *queue.Bounded[*protocol.Message[A]]
	rxq *queue.Bounded[*protocol.Message[A]]
}

// NewProcNet creates a network handle over the given transmit and receive
// queues. The runtime holds the mirrored endpoints of the same queues.
func NewProcNet[A any](txq, rxq *queue.Bounded[*protocol.Message[A]]) *ProcNet[A] {
	return &ProcNet[A]{txq: txq, rxq: rxq}
}

// Send submits a message for transmission. It blocks while the outbound
// queue is full, applying backpressure against a slow transport, and fails
// with maelstrom.ErrShutdown once the runtime has shut down.
func (n *ProcNet[A]) Send(m *protocol.Message[A]) error {
	if err := n.txq.Put(m); err != nil {
		return maelstrom.ErrShutdown
	}
	return nil
}

// Recv returns the next delivered message. It blocks until a message
// arrives and fails with maelstrom.ErrShutdown once the runtime has shut
// down. A process must treat that failure as the signal to stop, not as an
// application error.
func (n *ProcNet[A]) Recv() (*protocol.Message[A], error) {
	m, err := n.rxq.Get()
	if err != nil {
		return nil, maelstrom.ErrShutdown
	}
	return m, nil
}

// Process is a Maelstrom node process. It receives, processes and, where the
// protocol calls for it, responds to workload messages and node-to-node
// messages delivered through its ProcNet.
//
// A is the application-defined node-to-node body type.
type Process[A any] interface {
	// Init is called exactly once, synchronously, before any pipeline
	// activity starts.
	//
	//   - args: pass-through command line arguments
	//   - net: the process's interface to the Maelstrom network
	//   - id: this node's ID
	//   - ids: all participating node IDs
	//   - startMsgID: the first message ID the process is free to use;
	//     lower IDs are reserved for the handshake
	//
	// Init must not block or perform IO beyond in-memory setup. A non-nil
	// error aborts runtime construction.
	Init(args []string, net *ProcNet[A], id maelstrom.ID, ids []maelstrom.ID, startMsgID maelstrom.MsgID) error

	// Run is invoked once and should return when the process's work is
	// complete or its ProcNet reports shutdown.
	//
	// Return
	//   - nil if the process completed successfully, including after an
	//     observed shutdown,
	//   - maelstrom.ErrShutdown to report the runtime shut down mid-work
	//     (callers must not treat this as an application fault),
	//   - any other error to report an unrecoverable failure.
	Run() error
}
