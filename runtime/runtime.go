// Package runtime drives a node process over the Maelstrom network: it owns
// the init handshake, the line transport, and the concurrent pipeline that
// decouples transport IO from application logic.
package runtime

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	maelstrom "github.com/bnjmnt/go-maelstrom"
	"github.com/bnjmnt/go-maelstrom/log"
	"github.com/bnjmnt/go-maelstrom/process"
	"github.com/bnjmnt/go-maelstrom/protocol"
	"github.com/bnjmnt/go-maelstrom/queue"
	"github.com/bnjmnt/go-maelstrom/transport"
	"github.com/bnjmnt/go-maelstrom/transport/stdio"
)

// DefaultQueueDepth is the default capacity of the two pipeline queues. It is
// deep enough for shallow pipelining while bounding memory and providing real
// backpressure.
const DefaultQueueDepth = 16

// Config configures a Runtime.
type Config[A any] struct {
	// Args are pass-through command line arguments handed to the process.
	Args []string

	// Process is the application node process. Required.
	Process process.Process[A]

	// Transport carries protocol lines to and from the orchestrator.
	// Defaults to the standard streams.
	Transport transport.Transport

	// QueueDepth is the capacity of each pipeline queue. Defaults to
	// DefaultQueueDepth.
	QueueDepth int

	// Logger receives runtime diagnostics. Defaults to log.DiscardLogger.
	// Loggers must never write to stdout; that stream belongs to the
	// protocol.
	Logger log.Logger
}

// Runtime executes one node process against the Maelstrom network.
//
// Construction performs the strictly sequential init handshake and the
// process's Init call. Afterwards the host drives the three pipeline loops
// concurrently, either individually (RunIngress, RunEgress, RunProcess) or
// through Run. A single Runtime is shared by reference across the loops;
// each loop exclusively owns its directional half of the pipeline.
type Runtime[A any] struct {
	transport transport.Transport
	proc      process.Process[A]
	logger    log.Logger

	// processRxq delivers decoded inbound messages to the process; the
	// ingress loop is its sole producer.
	processRxq *queue.Bounded[*protocol.Message[A]]
	// processTxq collects the process's outbound messages; the egress loop
	// is its sole consumer.
	processTxq *queue.Bounded[*protocol.Message[A]]

	nodeID     maelstrom.ID
	nodeIDs    []maelstrom.ID
	startMsgID maelstrom.MsgID

	shutdownOnce sync.Once
}

// New creates a runtime for the given configuration.
//
// It reads exactly one line from the transport, which must decode to an init
// body; any other body or a decode failure aborts construction with no reply
// written and no runtime produced. On success it writes the init_ok reply,
// creates the pipeline queues, and calls the process's Init with the node
// identity, the membership list, and the first free message ID.
func New[A any](cfg Config[A]) (*Runtime[A], error) {
	if cfg.Process == nil {
		return nil, errors.New("runtime: config requires a Process")
	}
	tr := cfg.Transport
	if tr == nil {
		tr = stdio.New()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.DiscardLogger
	}
	depth := cfg.QueueDepth
	if depth <= 0 {
		depth = DefaultQueueDepth
	}

	// Message ID 0 is reserved for the init_ok reply.
	nodeID, nodeIDs, startMsgID, err := getInit[A](tr, 0)
	if err != nil {
		return nil, err
	}

	rxq := queue.NewBounded[*protocol.Message[A]](depth)
	txq := queue.NewBounded[*protocol.Message[A]](depth)
	net := process.NewProcNet(txq, rxq)
	if err := cfg.Process.Init(cfg.Args, net, nodeID, nodeIDs, startMsgID); err != nil {
		return nil, fmt.Errorf("%w: %v", maelstrom.ErrInitialization, err)
	}

	logger.Infof("node %s initialized, membership %v", nodeID, nodeIDs)
	return &Runtime[A]{
		transport:  tr,
		proc:       cfg.Process,
		logger:     logger,
		processRxq: rxq,
		processTxq: txq,
		nodeID:     nodeID,
		nodeIDs:    nodeIDs,
		startMsgID: startMsgID,
	}, nil
}

// getInit performs the handshake: receive one message, require an init body,
// acknowledge it. It returns the node's ID, the participating node IDs, and
// the next free message ID.
func getInit[A any](tr transport.Transport, startMsgID maelstrom.MsgID) (maelstrom.ID, []maelstrom.ID, maelstrom.MsgID, error) {
	line, err := tr.ReadLine()
	if err != nil {
		return "", nil, 0, err
	}
	m, err := protocol.Decode[A](line)
	if err != nil {
		return "", nil, 0, err
	}
	init := m.Body.Init
	if init == nil {
		return "", nil, 0, &maelstrom.UnexpectedMsgError{Expected: "Init"}
	}

	reply := &protocol.Message[A]{
		Src:  init.NodeID,
		Dest: m.Src,
		Body: protocol.Body[A]{InitOk: &protocol.InitOk{
			InReplyTo: init.MsgID,
			MsgID:     startMsgID,
		}},
	}
	replyLine, err := protocol.Encode(reply)
	if err != nil {
		return "", nil, 0, err
	}
	if err := tr.WriteLine(replyLine); err != nil {
		return "", nil, 0, err
	}
	return init.NodeID, init.NodeIDs, startMsgID + 1, nil
}

// RunProcess runs the node process. The call returns when the process
// completes, observes shutdown, or hits a fatal error.
func (r *Runtime[A]) RunProcess() error {
	return r.proc.Run()
}

// RunEgress encodes and transmits the process's outbound messages until
// shutdown. A fatal encode or write fault stops the loop immediately; no
// message is skipped and resumed. Either way the outbound queue is closed on
// exit so a still-sending process observes shutdown.
func (r *Runtime[A]) RunEgress() {
	defer r.processTxq.Dispose()
	for {
		if err := r.egressOne(); err != nil {
			r.logLoopExit("egress", err)
			return
		}
	}
}

func (r *Runtime[A]) egressOne() error {
	m, err := r.processTxq.Get()
	if err != nil {
		return err
	}
	line, err := protocol.Encode(m)
	if err != nil {
		return err
	}
	return r.transport.WriteLine(line)
}

// RunIngress receives and decodes inbound messages and delivers them to the
// process until shutdown, suspending under backpressure when the process is
// behind. A fatal read or decode fault stops the loop immediately; no line
// is skipped and resumed. Either way the inbound queue is closed on exit so
// the process observes shutdown promptly.
func (r *Runtime[A]) RunIngress() {
	defer r.processRxq.Dispose()
	for {
		if err := r.ingressOne(); err != nil {
			r.logLoopExit("ingress", err)
			return
		}
	}
}

func (r *Runtime[A]) ingressOne() error {
	line, err := r.transport.ReadLine()
	if err != nil {
		return err
	}
	m, err := protocol.Decode[A](line)
	if err != nil {
		return err
	}
	return r.processRxq.Put(m)
}

// Run drives the three pipeline loops concurrently and blocks until all of
// them return. Once the process returns, the pipeline is shut down. The
// returned error is the process's fatal error, if any, combined with any
// shutdown failure; an observed shutdown is not an error.
func (r *Runtime[A]) Run() error {
	var g errgroup.Group
	g.Go(func() error {
		r.RunEgress()
		return nil
	})
	g.Go(func() error {
		r.RunIngress()
		return nil
	})
	g.Go(func() error {
		err := r.RunProcess()
		if errors.Is(err, maelstrom.ErrShutdown) {
			err = nil
		}
		return multierr.Append(err, r.Shutdown())
	})
	return g.Wait()
}

// Shutdown tears the pipeline down: both queues and the transport are
// closed, unblocking every pending queue operation with a shutdown
// condition. Shutdown is idempotent and may race with in-flight operations;
// exactly one close effect applies per resource.
func (r *Runtime[A]) Shutdown() error {
	var err error
	r.shutdownOnce.Do(func() {
		r.logger.Info("runtime shutting down")
		r.processRxq.Dispose()
		r.processTxq.Dispose()
		err = r.transport.Close()
	})
	return err
}

// NodeID returns the node identity announced by the handshake.
func (r *Runtime[A]) NodeID() maelstrom.ID {
	return r.nodeID
}

// NodeIDs returns the full membership list announced by the handshake.
func (r *Runtime[A]) NodeIDs() []maelstrom.ID {
	return r.nodeIDs
}

// StartMsgID returns the first message ID the process is free to use.
func (r *Runtime[A]) StartMsgID() maelstrom.MsgID {
	return r.startMsgID
}

func (r *Runtime[A]) logLoopExit(loop string, err error) {
	switch {
	case errors.Is(err, maelstrom.ErrClosed), errors.Is(err, maelstrom.ErrShutdown):
		r.logger.Debugf("%s loop stopped: shutdown", loop)
	case errors.Is(err, maelstrom.ErrDeserialize), errors.Is(err, maelstrom.ErrSerialize):
		r.logger.Errorf("%s loop stopped: %v", loop, err)
	default:
		r.logger.Debugf("%s loop stopped: %v", loop, err)
	}
}
