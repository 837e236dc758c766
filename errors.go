package maelstrom

import (
	"errors"
	"fmt"
)

// Errors the library may return to the application. Callers discriminate with
// errors.Is and errors.As; the library wraps underlying causes with %w.
var (
	// ErrDeserialize indicates a message could not be decoded from its wire
	// form.
	ErrDeserialize = errors.New("deserialize message")

	// ErrSerialize indicates a message could not be encoded to its wire form.
	ErrSerialize = errors.New("serialize message")

	// ErrIO indicates a transport operation failed.
	ErrIO = errors.New("transport io")

	// ErrClosed indicates an operation was attempted on a closed queue or
	// transport.
	ErrClosed = errors.New("closed")

	// ErrMessageType indicates the expected message type does not match the
	// received message.
	ErrMessageType = errors.New("unexpected message type")

	// ErrShutdown indicates the runtime has shut down before the process
	// completed. It signals normal wind-down, not a fault, and must not be
	// escalated as an application error.
	ErrShutdown = errors.New("runtime shut down")

	// ErrInitialization indicates a process failed to initialize.
	ErrInitialization = errors.New("process initialization")
)

// UnexpectedMsgError indicates a message that was unexpected for the current
// protocol state, such as a non-init body on the handshake line.
type UnexpectedMsgError struct {
	// Expected names the message category the protocol state required.
	Expected string
}

func (e *UnexpectedMsgError) Error() string {
	return fmt.Sprintf("unexpected message: expected %s", e.Expected)
}
