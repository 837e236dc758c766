// Package transport abstracts the line-oriented IO a node uses to reach the
// Maelstrom network: read one line, write one line, close.
//
// Two implementations exist: stdio, bound to the host process's standard
// streams, and inprocess, backed by in-memory queues for local testing. Both
// behave identically with respect to closing: after Close, pending and future
// reads and writes fail.
package transport

// Transport carries newline-delimited protocol lines to and from the
// orchestrator. Implementations must support one concurrent reader and one
// concurrent writer.
type Transport interface {
	// ReadLine returns the next line, without its trailing newline. It
	// blocks until a line is available or the source is closed.
	ReadLine() (string, error)

	// WriteLine writes a single line, appending the newline terminator.
	WriteLine(line string) error

	// Close releases the underlying resources. It is idempotent. Blocked
	// ReadLine and WriteLine calls are unblocked where the underlying
	// medium allows it.
	Close() error
}
