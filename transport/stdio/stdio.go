// Package stdio implements the line transport over the host process's
// standard input and output streams, the medium over which Maelstrom drives
// a node.
package stdio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/atomic"

	maelstrom "github.com/bnjmnt/go-maelstrom"
	"github.com/bnjmnt/go-maelstrom/transport"
)

// Transport reads lines from an input stream and writes lines to an output
// stream. One goroutine may read while another writes; neither side is
// locked against concurrent use of the same direction.
type Transport struct {
	in     *bufio.Reader
	out    io.Writer
	closed atomic.Bool
}

// enforce compilation error
var _ transport.Transport = (*Transport)(nil)

// New creates a transport over os.Stdin and os.Stdout.
func New() *Transport {
	return NewWithStreams(os.Stdin, os.Stdout)
}

// NewWithStreams creates a transport over arbitrary streams.
func NewWithStreams(in io.Reader, out io.Writer) *Transport {
	return &Transport{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// ReadLine reads the next newline-terminated line, returning it without the
// terminator. Read failures, including end of input, are reported as
// maelstrom.ErrIO; after Close the error is maelstrom.ErrClosed.
func (t *Transport) ReadLine() (string, error) {
	if t.closed.Load() {
		return "", maelstrom.ErrClosed
	}
	line, err := t.in.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("%w: %v", maelstrom.ErrIO, err)
	}
	return strings.TrimSuffix(line, "\n"), nil
}

// WriteLine writes the line followed by a newline.
func (t *Transport) WriteLine(line string) error {
	if t.closed.Load() {
		return maelstrom.ErrClosed
	}
	if _, err := io.WriteString(t.out, line+"\n"); err != nil {
		return fmt.Errorf("%w: %v", maelstrom.ErrIO, err)
	}
	return nil
}

// Close marks the transport closed. Subsequent reads and writes fail with
// maelstrom.ErrClosed. The standard streams themselves are not closed here:
// they are owned by the OS process and close when the orchestrator closes
// its end, which is also what unblocks an in-flight read.
func (t *Transport) Close() error {
	t.closed.Store(true)
	return nil
}
