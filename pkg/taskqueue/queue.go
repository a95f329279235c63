// Package taskqueue is the task worker (component C6): a single-consumer
// FIFO of task sequences. Each sequence runs its tasks serially to
// completion (or first failure) before the next sequence begins, giving the
// system its total-order guarantee across any two working-tree-touching
// operations.
package taskqueue

import (
	"context"
	"fmt"
)

// Capacity is the bounded queue depth (spec.md §4.4: "bounded capacity 32").
const Capacity = 32

// Task is one named unit of work within a Sequence.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Sequence is an ordered list of tasks plus an optional completion channel.
// The sequence is the unit of mutual exclusion: the worker never interleaves
// tasks from two sequences.
type Sequence struct {
	Tasks []Task
	// Done, if non-nil, receives exactly one error (nil on full success, the
	// first task failure otherwise) when the sequence finishes. The worker
	// always sends to it, even on success, so callers can synchronously wait
	// for the HTTP-visible result (spec.md §4: "returns either an immediate
	// result or the completion result of the sequence").
	Done chan<- error
}

// FailedTask describes which task in a sequence failed, wrapping the
// underlying error so callers can report which step stopped the sequence.
type FailedTask struct {
	TaskName string
	Err      error
}

func (f *FailedTask) Error() string {
	return fmt.Sprintf("task %q failed: %v", f.TaskName, f.Err)
}

func (f *FailedTask) Unwrap() error { return f.Err }

// Queue is the bounded FIFO of sequences. It is safe for concurrent
// Submit calls from many producers; exactly one consumer goroutine should
// call Run.
type Queue struct {
	sequences chan *Sequence
}

// New constructs an empty Queue with capacity Capacity.
func New() *Queue {
	return &Queue{sequences: make(chan *Sequence, Capacity)}
}

// Depth returns the number of sequences currently waiting to run, for the
// health probe (spec.md ambient addition: "{gitOk, workerQueueDepth}").
func (q *Queue) Depth() int {
	return len(q.sequences)
}

// Submit enqueues seq. It blocks if the queue is at capacity rather than
// dropping the sequence (spec.md §4.4: "the worker never drops a
// sequence"), but respects ctx cancellation so a shutting-down caller is not
// stuck forever.
func (q *Queue) Submit(ctx context.Context, seq *Sequence) error {
	select {
	case q.sequences <- seq:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run drains sequences until ctx is cancelled. It is meant to be the body of
// the single consumer goroutine that appstate.State owns and tears down; it
// returns once ctx is done and no further sequences will be accepted.
func (q *Queue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case seq := <-q.sequences:
			runSequence(ctx, seq)
		}
	}
}

func runSequence(ctx context.Context, seq *Sequence) {
	var failure error
	for _, task := range seq.Tasks {
		if err := task.Run(ctx); err != nil {
			failure = &FailedTask{TaskName: task.Name, Err: err}
			break
		}
	}
	if seq.Done != nil {
		seq.Done <- failure
	}
}
