// Package harness provides an orchestrator-side client for exercising a
// node over the in-process transport. It speaks the same wire protocol the
// real orchestrator does and is intended for tests and local experiments.
package harness

import (
	"go.uber.org/atomic"

	maelstrom "github.com/bnjmnt/go-maelstrom"
	"github.com/bnjmnt/go-maelstrom/protocol"
	"github.com/bnjmnt/go-maelstrom/transport"
)

// Client plays the orchestrator's side of the protocol over a transport end.
// It assigns its own monotonically increasing message IDs.
type Client[A any] struct {
	id    maelstrom.ID
	end   transport.Transport
	msgID atomic.Uint64
}

// NewClient creates a harness client with the given identity over the given
// transport end, typically one side of an inprocess.Pipe.
func NewClient[A any](id maelstrom.ID, end transport.Transport) *Client[A] {
	return &Client[A]{id: id, end: end}
}

// ID returns the client's identity.
func (c *Client[A]) ID() maelstrom.ID {
	return c.id
}

// NextMsgID returns a fresh message ID.
func (c *Client[A]) NextMsgID() maelstrom.MsgID {
	return maelstrom.MsgID(c.msgID.Inc() - 1)
}

// Init sends the handshake line announcing the node's identity and the full
// membership list. It returns the message ID used, which the node's init_ok
// must reference. The reply is left on the wire for the caller to receive.
func (c *Client[A]) Init(node maelstrom.ID, nodes []maelstrom.ID) (maelstrom.MsgID, error) {
	msgID := c.NextMsgID()
	err := c.Send(&protocol.Message[A]{
		Src:  c.id,
		Dest: node,
		Body: protocol.Body[A]{Init: &protocol.Init{
			MsgID:   msgID,
			NodeID:  node,
			NodeIDs: nodes,
		}},
	})
	return msgID, err
}

// Send encodes a message and writes it to the node.
func (c *Client[A]) Send(m *protocol.Message[A]) error {
	line, err := protocol.Encode(m)
	if err != nil {
		return err
	}
	return c.end.WriteLine(line)
}

// Recv reads and decodes the node's next outbound message.
func (c *Client[A]) Recv() (*protocol.Message[A], error) {
	line, err := c.end.ReadLine()
	if err != nil {
		return nil, err
	}
	return protocol.Decode[A](line)
}

// SendRaw writes a raw line, bypassing the codec. Tests use it to inject
// malformed or protocol-violating traffic.
func (c *Client[A]) SendRaw(line string) error {
	return c.end.WriteLine(line)
}

// RecvRaw reads the node's next outbound line verbatim.
func (c *Client[A]) RecvRaw() (string, error) {
	return c.end.ReadLine()
}

// Close closes the client's transport end.
func (c *Client[A]) Close() error {
	return c.end.Close()
}
