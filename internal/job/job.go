// Package job runs the simulated generation job: a cancellable, step-wise
// progress state machine scheduled on a cooperative task queue.
//
// Cancellation is polled. Cancel only flags the live cancel token; the job
// observes the flag at its next step, so a cancel takes effect within one
// step interval.
package job

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/astramesh/internal/scene"
	"github.com/Faultbox/astramesh/internal/sched"
)

// State is the lifecycle state of a job.
type State int32

// Job states.
const (
	Idle State = iota
	Running
	Completed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Target holds the live job fields. Reads and updates go through it so that
// every step sees the current cancel token, not the one captured at start.
type Target interface {
	JobState() scene.AI
	UpdateJob(action string, fn func(ai *scene.AI))
}

// Timing controls the step schedule.
type Timing struct {
	InitialDelay time.Duration
	StepInterval time.Duration
	Increment    int
}

// DefaultTiming returns the stock schedule: first step after 250ms, then
// every 150ms in increments of 5.
func DefaultTiming() Timing {
	return Timing{
		InitialDelay: 250 * time.Millisecond,
		StepInterval: 150 * time.Millisecond,
		Increment:    5,
	}
}

// Job is one generation run.
type Job struct {
	ID   uint64
	Kind scene.JobKind

	ctx   context.Context
	state atomic.Int32
	done  chan struct{}
}

// State returns the current lifecycle state.
func (j *Job) State() State {
	return State(j.state.Load())
}

// Done is closed when the job completes or is cancelled.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// EventKind identifies a job notification.
type EventKind int

// Event kinds.
const (
	EventStarted EventKind = iota
	EventProgress
	EventCompleted
	EventCancelled
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventProgress:
		return "progress"
	case EventCompleted:
		return "completed"
	case EventCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Event is sent to listeners on every job transition.
type Event struct {
	Kind     EventKind
	Job      *Job
	Progress int
}

// Controller drives at most one job at a time.
type Controller struct {
	queue  *sched.Queue
	target Target
	timing Timing
	log    *zap.Logger

	nextID    uint64
	active    *Job
	listeners []listener
	lastID    int
}

type listener struct {
	id int
	fn func(Event)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for job lifecycle messages.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithTiming overrides the step schedule. Zero fields keep their defaults.
func WithTiming(t Timing) Option {
	return func(c *Controller) {
		if t.InitialDelay > 0 {
			c.timing.InitialDelay = t.InitialDelay
		}
		if t.StepInterval > 0 {
			c.timing.StepInterval = t.StepInterval
		}
		if t.Increment > 0 {
			c.timing.Increment = t.Increment
		}
	}
}

// New creates a controller that schedules steps on q and writes job state
// into target.
func New(q *sched.Queue, target Target, opts ...Option) *Controller {
	c := &Controller{
		queue:  q,
		target: target,
		timing: DefaultTiming(),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Timing returns the active schedule.
func (c *Controller) Timing() Timing {
	return c.timing
}

// Active returns the running job, or nil.
func (c *Controller) Active() *Job {
	return c.active
}

// OnEvent registers fn for job events and returns a function removing it.
func (c *Controller) OnEvent(fn func(Event)) func() {
	c.lastID++
	id := c.lastID
	c.listeners = append(c.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range c.listeners {
			if l.id == id {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// Start begins a job of the given kind. While a job is running the request is
// rejected and Start returns nil.
func (c *Controller) Start(kind scene.JobKind) *Job {
	return c.StartContext(context.Background(), kind)
}

// StartContext is like Start but also cancels the job at the next step after
// ctx is done.
func (c *Controller) StartContext(ctx context.Context, kind scene.JobKind) *Job {
	if c.active != nil {
		c.log.Info("generation already running, start rejected",
			zap.Uint64("job", c.active.ID),
			zap.String("kind", string(kind)))
		return nil
	}

	c.nextID++
	j := &Job{ID: c.nextID, Kind: kind, ctx: ctx, done: make(chan struct{})}
	j.state.Store(int32(Running))
	c.active = j

	c.target.UpdateJob("job/start", func(ai *scene.AI) {
		ai.Busy = true
		ai.Progress = 0
		ai.CancelToken = &scene.CancelToken{Job: j.ID}
	})
	c.log.Info("generation started", zap.Uint64("job", j.ID), zap.String("kind", string(kind)))
	c.emit(Event{Kind: EventStarted, Job: j})

	c.queue.After(c.timing.InitialDelay, func() { c.step(j) })
	return j
}

// Cancel flags the live cancel token. It reports false when no job is
// running or cancellation was already requested.
func (c *Controller) Cancel() bool {
	flagged := false
	c.target.UpdateJob("job/cancel", func(ai *scene.AI) {
		if ai.CancelToken == nil || ai.CancelToken.Cancelled {
			return
		}
		ai.CancelToken.Cancelled = true
		flagged = true
	})
	if flagged {
		c.log.Info("generation cancel requested")
	}
	return flagged
}

func (c *Controller) step(j *Job) {
	ai := c.target.JobState()
	tok := ai.CancelToken

	if tok == nil || tok.Job != j.ID {
		// The live fields no longer belong to this job.
		c.finish(j, Cancelled, ai.Progress)
		return
	}

	if tok.Cancelled || j.ctx.Err() != nil {
		c.target.UpdateJob("job/cancelled", func(ai *scene.AI) {
			ai.Busy = false
			ai.Progress = 0
			ai.CancelToken = nil
		})
		c.finish(j, Cancelled, 0)
		return
	}

	if ai.Progress >= 100 {
		c.target.UpdateJob("job/completed", func(ai *scene.AI) {
			ai.Busy = false
			ai.CancelToken = nil
		})
		c.finish(j, Completed, ai.Progress)
		return
	}

	progress := min(ai.Progress+c.timing.Increment, 100)
	c.target.UpdateJob("job/progress", func(ai *scene.AI) {
		ai.Progress = progress
	})
	c.log.Debug("generation progress", zap.Uint64("job", j.ID), zap.Int("progress", progress))
	c.emit(Event{Kind: EventProgress, Job: j, Progress: progress})

	c.queue.After(c.timing.StepInterval, func() { c.step(j) })
}

func (c *Controller) finish(j *Job, s State, progress int) {
	j.state.Store(int32(s))
	if c.active == j {
		c.active = nil
	}
	close(j.done)

	kind := EventCompleted
	if s == Cancelled {
		kind = EventCancelled
	}
	c.log.Info("generation "+s.String(), zap.Uint64("job", j.ID), zap.Int("progress", progress))
	c.emit(Event{Kind: kind, Job: j, Progress: progress})
}

func (c *Controller) emit(e Event) {
	for _, l := range append([]listener(nil), c.listeners...) {
		l.fn(e)
	}
}
