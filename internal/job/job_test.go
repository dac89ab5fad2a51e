package job

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/astramesh/internal/scene"
	"github.com/Faultbox/astramesh/internal/sched"
)

type fakeTarget struct {
	ai      scene.AI
	actions []string
}

func (f *fakeTarget) JobState() scene.AI { return f.ai.Clone() }

func (f *fakeTarget) UpdateJob(action string, fn func(*scene.AI)) {
	f.actions = append(f.actions, action)
	fn(&f.ai)
}

func setup(t *testing.T) (*sched.Queue, *fakeTarget, *Controller) {
	t.Helper()
	q := sched.New()
	tgt := &fakeTarget{}
	return q, tgt, New(q, tgt)
}

func TestJobRunsToCompletion(t *testing.T) {
	q, tgt, c := setup(t)
	timing := c.Timing()

	var seen []int
	c.OnEvent(func(e Event) {
		if e.Kind == EventProgress {
			seen = append(seen, e.Progress)
		}
	})

	j := c.Start(scene.JobText)
	require.NotNil(t, j)
	assert.True(t, tgt.ai.Busy)
	assert.Equal(t, 0, tgt.ai.Progress)
	require.NotNil(t, tgt.ai.CancelToken)

	// 20 progress steps, then one step observing 100
	q.Advance(timing.InitialDelay + 20*timing.StepInterval)

	require.Len(t, seen, 20)
	for i, p := range seen {
		assert.Equal(t, (i+1)*5, p)
	}

	select {
	case <-j.Done():
	default:
		t.Fatal("job not done")
	}
	assert.Equal(t, Completed, j.State())
	assert.False(t, tgt.ai.Busy)
	assert.Equal(t, 100, tgt.ai.Progress)
	assert.Nil(t, tgt.ai.CancelToken)
	assert.Nil(t, c.Active())
	assert.Zero(t, q.Len())
}

func TestCancelObservedAtNextStep(t *testing.T) {
	q, tgt, c := setup(t)
	timing := c.Timing()

	j := c.Start(scene.JobText)
	require.NotNil(t, j)

	// advance until progress reaches 50
	q.Advance(timing.InitialDelay + 9*timing.StepInterval)
	require.Equal(t, 50, tgt.ai.Progress)

	require.True(t, c.Cancel())
	assert.True(t, tgt.ai.Busy, "cancel must not stop the job synchronously")
	assert.Equal(t, Running, j.State())
	assert.False(t, c.Cancel(), "second cancel is a no-op")

	q.Advance(timing.StepInterval)
	assert.Equal(t, Cancelled, j.State())
	assert.False(t, tgt.ai.Busy)
	assert.Equal(t, 0, tgt.ai.Progress)
	assert.Nil(t, tgt.ai.CancelToken)
}

func TestProgressIsMonotonic(t *testing.T) {
	q, tgt, c := setup(t)
	c.Start(scene.JobImage)

	last := 0
	for i := 0; i < 40; i++ {
		q.Advance(50 * time.Millisecond)
		p := tgt.ai.Progress
		assert.GreaterOrEqual(t, p, last)
		assert.Zero(t, p%5)
		assert.LessOrEqual(t, p, 100)
		last = p
	}
}

func TestSecondStartRejected(t *testing.T) {
	q, _, c := setup(t)
	first := c.Start(scene.JobText)
	require.NotNil(t, first)

	assert.Nil(t, c.Start(scene.JobImage))
	assert.Same(t, first, c.Active())

	require.NoError(t, q.Drain(context.Background(), false))
	assert.Equal(t, Completed, first.State())

	second := c.Start(scene.JobImage)
	require.NotNil(t, second)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCancelWithoutJob(t *testing.T) {
	_, tgt, c := setup(t)
	assert.False(t, c.Cancel())
	assert.False(t, tgt.ai.Busy)
}

func TestContextCancellation(t *testing.T) {
	q, tgt, c := setup(t)
	ctx, cancel := context.WithCancel(context.Background())

	j := c.StartContext(ctx, scene.JobText)
	require.NotNil(t, j)
	q.Advance(c.Timing().InitialDelay)
	assert.Equal(t, 5, tgt.ai.Progress)

	cancel()
	q.Advance(c.Timing().StepInterval)
	assert.Equal(t, Cancelled, j.State())
	assert.Equal(t, 0, tgt.ai.Progress)
}

func TestSupersededTokenEndsJob(t *testing.T) {
	q, tgt, c := setup(t)
	j := c.Start(scene.JobText)
	require.NotNil(t, j)

	tgt.ai.CancelToken = &scene.CancelToken{Job: j.ID + 100}
	q.Advance(c.Timing().InitialDelay)

	assert.Equal(t, Cancelled, j.State())
	assert.Equal(t, j.ID+100, tgt.ai.CancelToken.Job, "foreign token left alone")
}

func TestEventsAndUnsubscribe(t *testing.T) {
	q, _, c := setup(t)
	var kinds []EventKind
	off := c.OnEvent(func(e Event) { kinds = append(kinds, e.Kind) })

	c.Start(scene.JobText)
	q.Advance(c.Timing().InitialDelay)
	off()
	q.Advance(time.Minute)

	assert.Equal(t, []EventKind{EventStarted, EventProgress}, kinds)
}

func TestWithTiming(t *testing.T) {
	q := sched.New()
	tgt := &fakeTarget{}
	c := New(q, tgt, WithTiming(Timing{StepInterval: 10 * time.Millisecond, Increment: 50}))

	assert.Equal(t, 250*time.Millisecond, c.Timing().InitialDelay)
	j := c.Start(scene.JobText)
	q.Advance(250*time.Millisecond + 20*time.Millisecond)
	assert.Equal(t, Completed, j.State())
}
