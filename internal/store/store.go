// Package store owns the scene model. Every change goes through a named
// mutator that clamps its input, applies it under the store lock and then
// notifies subscribers synchronously with the settled state.
//
// The store composes undo history, the generation job controller, the
// animation clock and the LOD cache. Mutators, history and job control must
// be driven from the goroutine that advances the task queue; State and Render
// may be called from anywhere.
package store

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/astramesh/internal/export"
	"github.com/Faultbox/astramesh/internal/history"
	"github.com/Faultbox/astramesh/internal/job"
	"github.com/Faultbox/astramesh/internal/lod"
	"github.com/Faultbox/astramesh/internal/scene"
	"github.com/Faultbox/astramesh/internal/sched"
)

// Listener receives the settled state and the name of the action that
// produced it.
type Listener func(m scene.Model, action string)

type subscriber struct {
	id int
	fn Listener
}

// Store is the single source of truth for the edited scene.
type Store struct {
	mu    sync.Mutex
	model scene.Model
	subs  []subscriber
	subID int

	queue    *sched.Queue
	history  *history.Manager
	jobs     *job.Controller
	cache    *lod.Cache
	exporter export.Collaborator
	log      *zap.Logger
	now      func() time.Time

	maxDepth  int
	timing    job.Timing
	cacheSize int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger. The job controller logs through a named
// child of it.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithQueue schedules jobs and exports on q instead of a private queue.
func WithQueue(q *sched.Queue) Option {
	return func(s *Store) {
		if q != nil {
			s.queue = q
		}
	}
}

// WithHistoryDepth bounds the undo stack. Zero means unbounded.
func WithHistoryDepth(n int) Option {
	return func(s *Store) {
		s.maxDepth = n
	}
}

// WithJobTiming overrides the generation step schedule.
func WithJobTiming(t job.Timing) Option {
	return func(s *Store) {
		s.timing = t
	}
}

// WithExporter sets the collaborator that receives export requests.
func WithExporter(c export.Collaborator) Option {
	return func(s *Store) {
		s.exporter = c
	}
}

// WithCacheSize sets the number of memoized LOD descriptions.
func WithCacheSize(n int) Option {
	return func(s *Store) {
		s.cacheSize = n
	}
}

// WithNow sets the wall clock used to stamp export requests.
func WithNow(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithModel replaces the initial scene.
func WithModel(m scene.Model) Option {
	return func(s *Store) {
		s.model = m.Clone()
	}
}

// New creates a store holding the default scene.
func New(opts ...Option) *Store {
	s := &Store{
		model: scene.Default(),
		log:   zap.NewNop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.queue == nil {
		s.queue = sched.New()
	}
	s.history = history.New(s.maxDepth)
	s.cache = lod.NewCache(s.cacheSize)
	s.jobs = job.New(s.queue, s,
		job.WithLogger(s.log.Named("job")),
		job.WithTiming(s.timing),
	)
	return s
}

// Queue returns the task queue driving jobs and exports.
func (s *Store) Queue() *sched.Queue {
	return s.queue
}

// Jobs returns the generation job controller.
func (s *Store) Jobs() *job.Controller {
	return s.jobs
}

// State returns a deep copy of the current scene.
func (s *Store) State() scene.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model.Clone()
}

// Subscribe registers fn for change notifications and returns a function
// removing it. Listeners run in registration order.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subID++
	id := s.subID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// update is the single mutation entry point. fn runs under the lock and
// reports whether it changed anything; listeners are notified after the lock
// is released.
func (s *Store) update(action string, fn func(m *scene.Model) bool) bool {
	s.mu.Lock()
	if !fn(&s.model) {
		s.mu.Unlock()
		return false
	}
	settled := s.model.Clone()
	subs := append([]subscriber(nil), s.subs...)
	s.mu.Unlock()

	s.log.Debug("state updated", zap.String("action", action))
	for _, sub := range subs {
		sub.fn(settled.Clone(), action)
	}
	return true
}

// JobState returns the live generation fields.
func (s *Store) JobState() scene.AI {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model.AI.Clone()
}

// UpdateJob applies a job transition through the mutation entry point.
func (s *Store) UpdateJob(action string, fn func(ai *scene.AI)) {
	s.update(action, func(m *scene.Model) bool {
		fn(&m.AI)
		return true
	})
}

// Render returns the memoized LOD description of the current mesh.
func (s *Store) Render() *lod.Description {
	s.mu.Lock()
	p := lod.ParamsOf(s.model.Mesh)
	s.mu.Unlock()
	return s.cache.Get(p)
}

// CacheStats returns LOD cache hits and misses.
func (s *Store) CacheStats() (hits, misses int) {
	return s.cache.Stats()
}
