package runtime

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	maelstrom "github.com/bnjmnt/go-maelstrom"
	"github.com/bnjmnt/go-maelstrom/harness"
	"github.com/bnjmnt/go-maelstrom/process"
	"github.com/bnjmnt/go-maelstrom/protocol"
	"github.com/bnjmnt/go-maelstrom/queue"
	"github.com/bnjmnt/go-maelstrom/transport/inprocess"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// echoProcess responds to every echo request with an echo_ok and ignores
// other messages. When gate is non-nil, Run waits on it before consuming.
type echoProcess struct {
	args []string
	net  *process.ProcNet[struct{}]
	id   maelstrom.ID
	ids  []maelstrom.ID
	gate chan struct{}
}

func (p *echoProcess) Init(args []string, net *process.ProcNet[struct{}], id maelstrom.ID, ids []maelstrom.ID, _ maelstrom.MsgID) error {
	p.args = args
	p.net = net
	p.id = id
	p.ids = ids
	return nil
}

func (p *echoProcess) Run() error {
	if p.gate != nil {
		<-p.gate
	}
	for {
		m, err := p.net.Recv()
		if err != nil {
			// Runtime is shutting down.
			return nil
		}
		echo, ok := m.Body.Workload.(protocol.Echo)
		if !ok {
			continue
		}
		reply := &protocol.Message[struct{}]{
			Src:  p.id,
			Dest: m.Src,
			Body: protocol.Body[struct{}]{Workload: protocol.EchoOk{
				InReplyTo: echo.MsgID,
				Echo:      echo.Echo,
			}},
		}
		if err := p.net.Send(reply); err != nil {
			return nil
		}
	}
}

// failingProcess returns a fatal error from Run after its first message.
type failingProcess struct {
	net *process.ProcNet[struct{}]
	err error
}

func (p *failingProcess) Init(_ []string, net *process.ProcNet[struct{}], _ maelstrom.ID, _ []maelstrom.ID, _ maelstrom.MsgID) error {
	p.net = net
	return nil
}

func (p *failingProcess) Run() error {
	if _, err := p.net.Recv(); err != nil {
		return nil
	}
	return p.err
}

// newTestRuntime performs the handshake against a fresh in-process pipe and
// returns the constructed runtime with its orchestrator-side client.
func newTestRuntime(t *testing.T, proc process.Process[struct{}], depth int) (*Runtime[struct{}], *harness.Client[struct{}]) {
	t.Helper()

	nodeEnd, orchEnd := inprocess.Pipe(16)
	client := harness.NewClient[struct{}]("test", orchEnd)
	initID, err := client.Init("a", []maelstrom.ID{"a"})
	require.NoError(t, err)

	r, err := New(Config[struct{}]{
		Args:       []string{"test"},
		Process:    proc,
		Transport:  nodeEnd,
		QueueDepth: depth,
	})
	require.NoError(t, err)

	reply, err := client.Recv()
	require.NoError(t, err)
	require.NotNil(t, reply.Body.InitOk)
	require.Equal(t, initID, reply.Body.InitOk.InReplyTo)

	return r, client
}

// startLoops drives the three pipeline loops and returns a join function
// that waits for all of them and yields the process status.
func startLoops(r *Runtime[struct{}]) (join func() error) {
	var wg sync.WaitGroup
	procErr := make(chan error, 1)
	wg.Add(3)
	go func() {
		defer wg.Done()
		r.RunEgress()
	}()
	go func() {
		defer wg.Done()
		r.RunIngress()
	}()
	go func() {
		defer wg.Done()
		procErr <- r.RunProcess()
	}()
	return func() error {
		wg.Wait()
		return <-procErr
	}
}

func TestHandshakeContract(t *testing.T) {
	nodeEnd, orchEnd := inprocess.Pipe(16)
	client := harness.NewClient[struct{}]("c1", orchEnd)
	require.NoError(t, client.SendRaw(
		`{"src":"c1","dest":"n1","body":{"type":"init","msg_id":1,"node_id":"n1","node_ids":["n1","n2"]}}`))

	r, err := New(Config[struct{}]{Process: &echoProcess{}, Transport: nodeEnd})
	require.NoError(t, err)

	reply, err := client.RecvRaw()
	require.NoError(t, err)
	require.Equal(t,
		`{"src":"n1","dest":"c1","body":{"type":"init_ok","in_reply_to":1,"msg_id":0}}`,
		reply)

	require.Equal(t, maelstrom.ID("n1"), r.NodeID())
	require.Equal(t, []maelstrom.ID{"n1", "n2"}, r.NodeIDs())
	require.Equal(t, maelstrom.MsgID(1), r.StartMsgID())

	require.NoError(t, r.Shutdown())
}

func TestHandshakeRejectsNonInitFirstLine(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		check func(t *testing.T, err error)
	}{
		{
			name: "echo body",
			line: `{"src":"c1","dest":"n1","body":{"type":"echo","msg_id":1,"echo":"hi"}}`,
			check: func(t *testing.T, err error) {
				var unexpected *maelstrom.UnexpectedMsgError
				require.ErrorAs(t, err, &unexpected)
				require.Equal(t, "Init", unexpected.Expected)
			},
		},
		{
			name: "malformed line",
			line: `boo!`,
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, maelstrom.ErrDeserialize)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toNode := queue.NewBounded[string](4)
			fromNode := queue.NewBounded[string](4)
			defer toNode.Dispose()
			defer fromNode.Dispose()

			require.NoError(t, toNode.Put(tt.line))
			_, err := New(Config[struct{}]{
				Process:   &echoProcess{},
				Transport: inprocess.New(toNode, fromNode),
			})
			tt.check(t, err)

			// Construction failed: no reply may have been written.
			require.Zero(t, fromNode.Len())
		})
	}
}

func TestInitFailureAbortsConstruction(t *testing.T) {
	nodeEnd, orchEnd := inprocess.Pipe(16)
	client := harness.NewClient[struct{}]("test", orchEnd)
	_, err := client.Init("a", []maelstrom.ID{"a"})
	require.NoError(t, err)

	_, err = New(Config[struct{}]{
		Process:   &initFailProcess{},
		Transport: nodeEnd,
	})
	require.ErrorIs(t, err, maelstrom.ErrInitialization)
}

type initFailProcess struct{}

func (initFailProcess) Init([]string, *process.ProcNet[struct{}], maelstrom.ID, []maelstrom.ID, maelstrom.MsgID) error {
	return errors.New("no disk")
}

func (initFailProcess) Run() error { return nil }

func TestEchoEndToEnd(t *testing.T) {
	proc := &echoProcess{}
	r, client := newTestRuntime(t, proc, 0)
	join := startLoops(r)

	for i := 0; i < 5; i++ {
		payload := fmt.Sprintf("boo! %d", i)
		require.NoError(t, client.Send(&protocol.Message[struct{}]{
			Src:  client.ID(),
			Dest: "a",
			Body: protocol.Body[struct{}]{Workload: protocol.Echo{
				MsgID: maelstrom.MsgID(i),
				Echo:  payload,
			}},
		}))

		reply, err := client.Recv()
		require.NoError(t, err)
		require.Equal(t, maelstrom.ID("a"), reply.Src)
		require.Equal(t, client.ID(), reply.Dest)
		echoOk, ok := reply.Body.Workload.(protocol.EchoOk)
		require.True(t, ok, "expected echo_ok, got %+v", reply.Body)
		require.Equal(t, maelstrom.MsgID(i), echoOk.InReplyTo)
		require.Equal(t, payload, echoOk.Echo)
	}

	require.NoError(t, r.Shutdown())
	require.NoError(t, join())
}

func TestBackpressure(t *testing.T) {
	proc := &echoProcess{gate: make(chan struct{})}
	r, client := newTestRuntime(t, proc, 2)
	join := startLoops(r)

	for i := 0; i < 5; i++ {
		require.NoError(t, client.Send(&protocol.Message[struct{}]{
			Src:  client.ID(),
			Dest: "a",
			Body: protocol.Body[struct{}]{Workload: protocol.Echo{
				MsgID: maelstrom.MsgID(i),
				Echo:  float64(i),
			}},
		}))
	}

	// The process is gated, so the inbound queue fills to capacity and the
	// ingress loop suspends on its next push instead of dropping.
	require.Eventually(t, func() bool {
		return r.processRxq.Len() == 2
	}, time.Second, 5*time.Millisecond)
	require.Never(t, func() bool {
		return r.processRxq.Len() > 2
	}, 100*time.Millisecond, 10*time.Millisecond)

	// Releasing the consumer resumes the suspended push; nothing was lost.
	close(proc.gate)
	for i := 0; i < 5; i++ {
		reply, err := client.Recv()
		require.NoError(t, err)
		echoOk := reply.Body.Workload.(protocol.EchoOk)
		require.Equal(t, maelstrom.MsgID(i), echoOk.InReplyTo)
	}

	require.NoError(t, r.Shutdown())
	require.NoError(t, join())
}

func TestShutdownTerminatesAllLoops(t *testing.T) {
	r, _ := newTestRuntime(t, &echoProcess{}, 0)
	join := startLoops(r)

	require.NoError(t, r.Shutdown())
	// Shutdown is idempotent.
	require.NoError(t, r.Shutdown())

	done := make(chan error, 1)
	go func() { done <- join() }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loops did not terminate after shutdown")
	}
}

func TestRunWindsDownWhenOrchestratorCloses(t *testing.T) {
	proc := &echoProcess{}
	r, client := newTestRuntime(t, proc, 0)

	runErr := make(chan error, 1)
	go func() { runErr <- r.Run() }()

	require.NoError(t, client.Send(&protocol.Message[struct{}]{
		Src:  client.ID(),
		Dest: "a",
		Body: protocol.Body[struct{}]{Workload: protocol.Echo{MsgID: 0, Echo: "hi"}},
	}))
	reply, err := client.Recv()
	require.NoError(t, err)
	require.IsType(t, protocol.EchoOk{}, reply.Body.Workload)

	// The orchestrator closing its end must wind down the whole pipeline.
	require.NoError(t, client.Close())
	select {
	case err := <-runErr:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not wind down after transport close")
	}
}

func TestRunSurfacesFatalProcessError(t *testing.T) {
	boom := errors.New("boom")
	proc := &failingProcess{err: boom}
	r, client := newTestRuntime(t, proc, 0)

	runErr := make(chan error, 1)
	go func() { runErr <- r.Run() }()

	require.NoError(t, client.Send(&protocol.Message[struct{}]{
		Src:  client.ID(),
		Dest: "a",
		Body: protocol.Body[struct{}]{Workload: protocol.Echo{MsgID: 0, Echo: "hi"}},
	}))

	select {
	case err := <-runErr:
		require.ErrorIs(t, err, boom)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after fatal process error")
	}
}
