// Package syncqueue serialises a diary's network round-trips. Tasks run one at
// a time in the order they were pushed; a failing task never blocks the ones
// behind it.
package syncqueue

import (
	"context"
	"fmt"
	"sync"
)

// Task is one unit of queued work, typically a single request to the sync
// server followed by local bookkeeping.
type Task func(ctx context.Context) error

type job struct {
	ctx  context.Context
	task Task
	done chan error
}

// Queue is a FIFO with at most one task in flight. The zero value is not
// usable; call New.
type Queue struct {
	mu      sync.Mutex
	pending []job
	running bool
	idle    chan struct{}
}

func New() *Queue {
	idle := make(chan struct{})
	close(idle)
	return &Queue{idle: idle}
}

// Push enqueues task and returns a channel that receives its result exactly
// once. If ctx is cancelled before the task starts, the task is skipped and
// the context error is delivered instead.
func (q *Queue) Push(ctx context.Context, task Task) <-chan error {
	done := make(chan error, 1)

	q.mu.Lock()
	q.pending = append(q.pending, job{ctx: ctx, task: task, done: done})
	if !q.running {
		q.running = true
		q.idle = make(chan struct{})
		go q.drain()
	}
	q.mu.Unlock()

	return done
}

// Len reports the number of tasks waiting or in flight.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.pending)
	if q.running {
		n++
	}
	return n
}

// Wait blocks until the queue is empty or ctx is done.
func (q *Queue) Wait(ctx context.Context) error {
	q.mu.Lock()
	idle := q.idle
	q.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) drain() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.running = false
			close(q.idle)
			q.mu.Unlock()
			return
		}
		j := q.pending[0]
		q.pending[0] = job{}
		q.pending = q.pending[1:]
		q.mu.Unlock()

		j.done <- run(j)
		close(j.done)
	}
}

func run(j job) (err error) {
	if err := j.ctx.Err(); err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("sync task panicked: %v", p)
		}
	}()
	return j.task(j.ctx)
}
