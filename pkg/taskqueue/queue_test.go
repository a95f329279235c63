package taskqueue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestQueue_RunsSequencesInSubmitOrder(t *testing.T) {
	q := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)

	var mu sync.Mutex
	var order []int

	const n = 20
	dones := make([]chan error, n)
	for i := 0; i < n; i++ {
		i := i
		dones[i] = make(chan error, 1)
		require.NoError(t, q.Submit(ctx, &Sequence{
			Done: dones[i],
			Tasks: []Task{{
				Name: "record",
				Run: func(ctx context.Context) error {
					mu.Lock()
					order = append(order, i)
					mu.Unlock()
					return nil
				},
			}},
		}))
	}

	for i := 0; i < n; i++ {
		select {
		case err := <-dones[i]:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatalf("sequence %d never completed", i)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, order, n)
	for i := 0; i < n; i++ {
		require.Equal(t, i, order[i], "sequences must run in submit order")
	}
}

func TestQueue_StopsSequenceOnFirstFailure(t *testing.T) {
	q := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)

	var ran []string
	done := make(chan error, 1)
	boom := errors.New("boom")

	require.NoError(t, q.Submit(ctx, &Sequence{
		Done: done,
		Tasks: []Task{
			{Name: "first", Run: func(ctx context.Context) error {
				ran = append(ran, "first")
				return nil
			}},
			{Name: "second", Run: func(ctx context.Context) error {
				ran = append(ran, "second")
				return boom
			}},
			{Name: "third", Run: func(ctx context.Context) error {
				ran = append(ran, "third")
				return nil
			}},
		},
	}))

	select {
	case err := <-done:
		require.Error(t, err)
		var ft *FailedTask
		require.ErrorAs(t, err, &ft)
		require.Equal(t, "second", ft.TaskName)
		require.ErrorIs(t, err, boom)
	case <-time.After(2 * time.Second):
		t.Fatal("sequence never completed")
	}
	require.Equal(t, []string{"first", "second"}, ran)
}

func TestQueue_SecondSequenceNotStartedUntilFirstCompletes(t *testing.T) {
	q := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)

	release := make(chan struct{})
	firstDone := make(chan error, 1)
	secondStarted := make(chan struct{}, 1)
	secondDone := make(chan error, 1)

	require.NoError(t, q.Submit(ctx, &Sequence{
		Done: firstDone,
		Tasks: []Task{{Name: "block", Run: func(ctx context.Context) error {
			<-release
			return nil
		}}},
	}))
	require.NoError(t, q.Submit(ctx, &Sequence{
		Done: secondDone,
		Tasks: []Task{{Name: "mark", Run: func(ctx context.Context) error {
			secondStarted <- struct{}{}
			return nil
		}}},
	}))

	select {
	case <-secondStarted:
		t.Fatal("second sequence started before first completed")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-firstDone)
	select {
	case <-secondStarted:
	case <-time.After(2 * time.Second):
		t.Fatal("second sequence never started after first completed")
	}
	require.NoError(t, <-secondDone)
}
