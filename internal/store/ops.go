package store

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/astramesh/internal/clock"
	"github.com/Faultbox/astramesh/internal/export"
	"github.com/Faultbox/astramesh/internal/job"
	"github.com/Faultbox/astramesh/internal/lod"
	"github.com/Faultbox/astramesh/internal/scene"
)

// Snapshot records the settled editable state as an undo checkpoint.
func (s *Store) Snapshot() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Snapshot(s.model.Editable())
	past, future := s.history.Depth()
	s.log.Debug("snapshot", zap.Int("past", past), zap.Int("future", future))
}

// Undo restores the previous checkpoint. It reports false when there is
// nothing to undo.
func (s *Store) Undo() bool {
	return s.update("undo", func(m *scene.Model) bool {
		e, ok := s.history.Undo(m.Editable())
		if ok {
			restore(m, e)
		}
		return ok
	})
}

// Redo reapplies the state undone last. It reports false when the redo
// branch is empty.
func (s *Store) Redo() bool {
	return s.update("redo", func(m *scene.Model) bool {
		e, ok := s.history.Redo()
		if ok {
			restore(m, e)
		}
		return ok
	})
}

// HistoryDepth returns the number of undo and redo entries.
func (s *Store) HistoryDepth() (past, future int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Depth()
}

// restore replaces the editable fields wholesale, keeping the live job
// fields. A job is never part of history.
func restore(m *scene.Model, e scene.Editable) {
	busy, progress, token := m.AI.Busy, m.AI.Progress, m.AI.CancelToken
	m.Restore(e)
	m.AI.Busy, m.AI.Progress, m.AI.CancelToken = busy, progress, token
}

// StartGeneration starts a text-to-3D job. It returns nil while another job
// is running.
func (s *Store) StartGeneration() *job.Job {
	return s.jobs.Start(scene.JobText)
}

// StartGenerationContext is like StartGeneration; the job is cancelled at its
// next step once ctx is done.
func (s *Store) StartGenerationContext(ctx context.Context) *job.Job {
	return s.jobs.StartContext(ctx, scene.JobText)
}

// StartImageGeneration records the image handle and starts an image-to-3D
// job. A nil handle is ignored.
func (s *Store) StartImageGeneration(file *scene.FileRef) *job.Job {
	return s.StartImageGenerationContext(context.Background(), file)
}

// StartImageGenerationContext is like StartImageGeneration; the job is
// cancelled at its next step once ctx is done.
func (s *Store) StartImageGenerationContext(ctx context.Context, file *scene.FileRef) *job.Job {
	if file == nil {
		s.log.Debug("image generation without file")
		return nil
	}
	if s.jobs.Active() != nil {
		return s.jobs.StartContext(ctx, scene.JobImage)
	}
	ref := *file
	s.update("setImage", func(m *scene.Model) bool {
		m.AI.Image = &ref
		return true
	})
	return s.jobs.StartContext(ctx, scene.JobImage)
}

// CancelGeneration requests cancellation of the running job. The job stops at
// its next step.
func (s *Store) CancelGeneration() bool {
	return s.jobs.Cancel()
}

// AdvanceFrame runs the animation clock for one rendered frame of delta
// seconds and returns the derived transform.
func (s *Store) AdvanceFrame(delta float64) clock.Frame {
	s.update("advanceFrame", func(m *scene.Model) bool {
		next := clock.Advance(m.Animation, delta)
		if next.Time == m.Animation.Time {
			return false
		}
		m.Animation = next
		return true
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	f := clock.Transform(s.model.Animation)
	f.AutoRotate = s.model.Camera.AutoRotate
	return f
}

// Tick advances the task queue by d and then the animation clock.
func (s *Store) Tick(d time.Duration) clock.Frame {
	s.queue.Advance(d)
	return s.AdvanceFrame(d.Seconds())
}

// ExportRequest builds the export payload for the current state.
func (s *Store) ExportRequest() export.Request {
	s.mu.Lock()
	m := s.model.Clone()
	s.mu.Unlock()

	desc := s.cache.Get(lod.ParamsOf(m.Mesh))
	frame := clock.Transform(m.Animation)
	frame.AutoRotate = m.Camera.AutoRotate
	return export.Request{
		Settings:    m.Export,
		Scene:       desc,
		Material:    m.Mesh.Material,
		Layers:      export.VisibleLayers(m.Mesh.Layers),
		Rig:         m.Rig,
		Frame:       frame,
		RequestedAt: s.now(),
	}
}

// RequestExport hands the current scene to the export collaborator on the
// next queue advance. It does not wait for the result; failures are logged.
func (s *Store) RequestExport() {
	req := s.ExportRequest()
	s.log.Info("export requested",
		zap.String("format", string(req.Settings.Format)),
		zap.Int("poly_count", req.Settings.PolyCount),
		zap.Int("tex_resolution", req.Settings.TexResolution))

	s.queue.Post(func() {
		if err := s.deliver(context.Background(), req); err != nil {
			if errors.Is(err, export.ErrNoCollaborator) {
				s.log.Warn("export dropped", zap.Error(err))
				return
			}
			s.log.Error("export failed", zap.Error(err))
		}
	})
}

func (s *Store) deliver(ctx context.Context, req export.Request) error {
	if s.exporter == nil {
		return export.ErrNoCollaborator
	}
	return s.exporter.Export(ctx, req)
}
