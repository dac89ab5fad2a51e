// Package sched provides a single-threaded cooperative task queue with a
// virtual clock. Tasks never run concurrently; they run only from Advance,
// on the goroutine that owns the queue.
package sched

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

// Task is a scheduled callback.
type Task struct {
	at    time.Duration
	seq   uint64
	fn    func()
	index int
}

type taskHeap []*Task

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].at == h[j].at {
		return h[i].seq < h[j].seq
	}
	return h[i].at < h[j].at
}

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x any) {
	t := x.(*Task)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// Queue orders tasks by deadline on a virtual clock. Tasks with equal
// deadlines run in scheduling order.
type Queue struct {
	mu    sync.Mutex
	now   time.Duration
	seq   uint64
	tasks taskHeap
}

// New creates an empty queue at virtual time zero.
func New() *Queue {
	return &Queue{}
}

// Now returns the current virtual time.
func (q *Queue) Now() time.Duration {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.now
}

// After schedules fn to run once the clock has advanced by d.
// It may be called from inside a running task.
func (q *Queue) After(d time.Duration, fn func()) *Task {
	if d < 0 {
		d = 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.seq++
	t := &Task{at: q.now + d, seq: q.seq, fn: fn}
	heap.Push(&q.tasks, t)
	return t
}

// Post schedules fn to run at the next Advance.
func (q *Queue) Post(fn func()) *Task {
	return q.After(0, fn)
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Next returns the time until the earliest pending task.
func (q *Queue) Next() (time.Duration, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) == 0 {
		return 0, false
	}
	return q.tasks[0].at - q.now, true
}

// Advance moves the clock forward by d, running every task whose deadline
// falls within the window in deadline order. Tasks scheduled by running tasks
// also run if they fall within the window. It returns the number of tasks run.
func (q *Queue) Advance(d time.Duration) int {
	if d < 0 {
		d = 0
	}
	q.mu.Lock()
	end := q.now + d
	q.mu.Unlock()

	ran := 0
	for {
		q.mu.Lock()
		if len(q.tasks) == 0 || q.tasks[0].at > end {
			q.now = end
			q.mu.Unlock()
			return ran
		}
		t := heap.Pop(&q.tasks).(*Task)
		q.now = t.at
		q.mu.Unlock()

		t.fn()
		ran++
	}
}

// Drain runs tasks until the queue is empty or ctx is done. Each wait is
// slept in real time when wall is true, otherwise the clock jumps directly to
// the next deadline.
func (q *Queue) Drain(ctx context.Context, wall bool) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		d, ok := q.Next()
		if !ok {
			return nil
		}
		if wall && d > 0 {
			timer := time.NewTimer(d)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		q.Advance(d)
	}
}
