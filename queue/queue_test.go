package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	maelstrom "github.com/bnjmnt/go-maelstrom"
)

func TestFIFOOrdering(t *testing.T) {
	q := NewBounded[int](8)
	defer q.Dispose()

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Put(i))
	}
	for i := 0; i < 5; i++ {
		item, err := q.Get()
		require.NoError(t, err)
		require.Equal(t, i, item)
	}
}

func TestPutBlocksWhenFull(t *testing.T) {
	q := NewBounded[int](2)
	defer q.Dispose()

	require.NoError(t, q.Put(0))
	require.NoError(t, q.Put(1))

	done := make(chan error, 1)
	go func() {
		done <- q.Put(2)
	}()

	// The queue is full: the put must suspend, not drop or fail.
	select {
	case err := <-done:
		t.Fatalf("put completed on a full queue: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	// Freeing capacity resumes the blocked put.
	item, err := q.Get()
	require.NoError(t, err)
	require.Equal(t, 0, item)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("put did not resume after capacity freed")
	}
}

func TestGetBlocksWhenEmpty(t *testing.T) {
	q := NewBounded[string](2)
	defer q.Dispose()

	got := make(chan string, 1)
	go func() {
		item, err := q.Get()
		if err == nil {
			got <- item
		}
	}()

	select {
	case item := <-got:
		t.Fatalf("get completed on an empty queue: %q", item)
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, q.Put("boo"))
	select {
	case item := <-got:
		require.Equal(t, "boo", item)
	case <-time.After(time.Second):
		t.Fatal("get did not resume after put")
	}
}

func TestDisposeUnblocksWaiters(t *testing.T) {
	q := NewBounded[int](2)

	errs := make(chan error, 1)
	go func() {
		_, err := q.Get()
		errs <- err
	}()

	time.Sleep(20 * time.Millisecond)
	q.Dispose()

	select {
	case err := <-errs:
		require.ErrorIs(t, err, maelstrom.ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("dispose did not unblock the waiter")
	}
}

func TestOperationsAfterDispose(t *testing.T) {
	q := NewBounded[int](2)
	q.Dispose()
	// Dispose is idempotent.
	q.Dispose()

	require.True(t, q.IsDisposed())
	require.ErrorIs(t, q.Put(1), maelstrom.ErrClosed)
	_, err := q.Get()
	require.ErrorIs(t, err, maelstrom.ErrClosed)
}
