// Package maelstrom lets distributed applications participate in the
// Maelstrom test harness protocol.
//
// Maelstrom drives a node process over its standard input and output streams
// using newline-delimited JSON messages, exercising a workload (echo,
// linearizable key-value, ...) and observing node-to-node traffic for safety
// verification.
//
// The library provides
//   - a protocol.Message implementation for creating and parsing workload and
//     node-to-node messages,
//   - a process.Process interface for implementing application node processes,
//   - a runtime.Runtime for driving processes and speaking to the Maelstrom
//     network.
//
// An application supplies only its message-handling logic; the library owns
// message framing, the mandatory init handshake, and the concurrent pipeline
// that decouples transport I/O from application logic. See examples/echo for
// a complete node.
package maelstrom

// ID is a Maelstrom node address: an opaque string naming a participant,
// either a node or an external client.
type ID string

// MsgID is a per-node message identifier. It is unique per originating node
// and monotonically assigned by whichever side originates a request.
// Responses reference it via their in_reply_to field.
type MsgID uint64

// ErrorCode is a Maelstrom protocol error code. Its meaning is defined by the
// harness protocol and is opaque to this library.
type ErrorCode uint64

// Key is a workload key: an arbitrary JSON value with no fixed schema.
type Key = any

// Val is a workload value: an arbitrary JSON value with no fixed schema.
type Val = any
