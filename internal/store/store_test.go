package store

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/astramesh/internal/export"
	"github.com/Faultbox/astramesh/internal/job"
	"github.com/Faultbox/astramesh/internal/scene"
)

func TestUndoAfterEdit(t *testing.T) {
	s := New()
	require.Equal(t, 2, s.State().Mesh.Resolution)

	s.SetMeshResolution(5)
	s.Snapshot()
	s.SetMeshResolution(1)
	require.True(t, s.Undo())

	assert.Equal(t, 5, s.State().Mesh.Resolution)
}

func TestUndoRedoOnEmptyHistory(t *testing.T) {
	s := New()
	before := s.State()
	calls := 0
	s.Subscribe(func(scene.Model, string) { calls++ })

	assert.False(t, s.Undo())
	assert.False(t, s.Redo())
	assert.Equal(t, before, s.State())
	assert.Zero(t, calls, "no-op history operations must not notify")
}

func TestRedoRestoresStateBeforeUndo(t *testing.T) {
	s := New()
	s.Snapshot()
	s.SetMeshResolution(6)
	s.SetMaterial(scene.MaterialPatch{Color: scene.Ptr("#ff0000")})
	s.AddKeyframe(scene.Keyframe{Time: 1, Value: 3})
	before := s.State()

	require.True(t, s.Undo())
	assert.Equal(t, 2, s.State().Mesh.Resolution)
	require.True(t, s.Redo())
	assert.Equal(t, before, s.State())
}

func TestSnapshotAfterUndoClearsRedo(t *testing.T) {
	s := New()
	s.Snapshot()
	s.SetMeshResolution(4)
	s.Snapshot()
	s.Undo()
	_, future := s.HistoryDepth()
	require.Equal(t, 1, future)

	s.SetMeshResolution(7)
	s.Snapshot()
	_, future = s.HistoryDepth()
	assert.Zero(t, future)
	assert.False(t, s.Redo())
}

func TestMutatorsClamp(t *testing.T) {
	s := New()
	s.SetMeshResolution(-3)
	s.SetSimplify(4)
	s.SetMaterial(scene.MaterialPatch{Roughness: scene.Ptr(-1.0), Metalness: scene.Ptr(2.0)})
	s.SetRig(scene.RigPatch{Bones: scene.Ptr(-1)})
	s.SetExport(scene.ExportPatch{PolyCount: scene.Ptr(0)})

	m := s.State()
	assert.Equal(t, 0, m.Mesh.Resolution)
	assert.Equal(t, 1.0, m.Mesh.Simplify)
	assert.Equal(t, 0.0, m.Mesh.Material.Roughness)
	assert.Equal(t, 1.0, m.Mesh.Material.Metalness)
	assert.Equal(t, 0, m.Rig.Bones)
	assert.Equal(t, scene.MinPolyCount, m.Export.PolyCount)
}

func TestPatchLeavesSiblingsUntouched(t *testing.T) {
	s := New()
	s.SetMaterial(scene.MaterialPatch{Roughness: scene.Ptr(0.9)})

	got := s.State().Mesh.Material
	want := scene.DefaultMaterial()
	want.Roughness = 0.9
	assert.Equal(t, want, got)
}

func TestInvalidInputIgnored(t *testing.T) {
	s := New()
	before := s.State()

	assert.False(t, s.SetTool("bogus"))
	assert.False(t, s.SetSimplify(math.NaN()))
	assert.False(t, s.ToggleLayer("missing"))
	assert.False(t, s.SetMaterialMap("emissive", &scene.FileRef{Name: "x"}))
	assert.False(t, s.ImportMotionCapture(nil))
	assert.Nil(t, s.StartImageGeneration(nil))
	assert.Equal(t, before, s.State())
}

func TestSubscribeOrderAndUnsubscribe(t *testing.T) {
	s := New()
	var got []string

	off := s.Subscribe(func(m scene.Model, action string) {
		got = append(got, "a:"+action)
		assert.Equal(t, scene.ToolSculpt, m.Tool, "listener sees the settled state")
	})
	s.Subscribe(func(_ scene.Model, action string) {
		got = append(got, "b:"+action)
	})

	s.SetTool(scene.ToolSculpt)
	off()
	s.SetTheme("light")

	assert.Equal(t, []string{"a:setTool", "b:setTool", "b:setTheme"}, got)
}

func TestListenerMayMutate(t *testing.T) {
	s := New()
	s.Subscribe(func(m scene.Model, action string) {
		if action == "setTool" {
			s.SetAutoRotate(true)
		}
	})
	s.SetTool(scene.ToolPaint)
	assert.True(t, s.State().Camera.AutoRotate)
}

func TestStateIsACopy(t *testing.T) {
	s := New()
	m := s.State()
	m.Mesh.Layers[0].Visible = false
	assert.True(t, s.State().Mesh.Layers[0].Visible)
}

func TestGenerationThroughStore(t *testing.T) {
	s := New()
	timing := job.DefaultTiming()

	j := s.StartGeneration()
	require.NotNil(t, j)
	assert.True(t, s.State().AI.Busy)
	assert.Nil(t, s.StartGeneration(), "second start is rejected while running")

	s.Queue().Advance(timing.InitialDelay + 9*timing.StepInterval)
	require.Equal(t, 50, s.State().AI.Progress)

	require.True(t, s.CancelGeneration())
	s.Queue().Advance(timing.StepInterval)

	ai := s.State().AI
	assert.False(t, ai.Busy)
	assert.Equal(t, 0, ai.Progress)
	assert.Nil(t, ai.CancelToken)
	assert.Equal(t, job.Cancelled, j.State())
}

func TestGenerationCompletes(t *testing.T) {
	s := New()
	j := s.StartGenerationContext(context.Background())
	require.NotNil(t, j)
	require.NoError(t, s.Queue().Drain(context.Background(), false))

	assert.Equal(t, job.Completed, j.State())
	ai := s.State().AI
	assert.False(t, ai.Busy)
	assert.Equal(t, 100, ai.Progress)
}

func TestUndoKeepsLiveJobFields(t *testing.T) {
	s := New()
	s.Snapshot()
	s.SetPrompt("a teapot")
	j := s.StartGeneration()
	require.NotNil(t, j)
	s.Queue().Advance(time.Second)

	live := s.State().AI
	require.True(t, s.Undo())

	ai := s.State().AI
	assert.Empty(t, ai.TextPrompt)
	assert.Equal(t, live.Busy, ai.Busy)
	assert.Equal(t, live.Progress, ai.Progress)
	assert.Equal(t, live.CancelToken, ai.CancelToken)

	require.NoError(t, s.Queue().Drain(context.Background(), false))
	assert.Equal(t, job.Completed, j.State())
}

func TestStartImageGeneration(t *testing.T) {
	s := New()
	ref := &scene.FileRef{Name: "chair.png", Path: "/in/chair.png", Width: 64, Height: 48}

	j := s.StartImageGeneration(ref)
	require.NotNil(t, j)
	assert.Equal(t, scene.JobImage, j.Kind)
	require.NotNil(t, s.State().AI.Image)
	assert.Equal(t, "chair.png", s.State().AI.Image.Name)
}

func TestImageGenerationContextCancelled(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	j := s.StartImageGenerationContext(ctx, &scene.FileRef{Name: "chair.png", Width: 4, Height: 4})
	require.NotNil(t, j)
	require.NoError(t, s.Queue().Drain(context.Background(), false))

	assert.Equal(t, job.Cancelled, j.State())
	ai := s.State().AI
	assert.False(t, ai.Busy)
	assert.Equal(t, 0, ai.Progress)
}

func TestUndoWhileJobRuns(t *testing.T) {
	s := New()
	s.SetMeshResolution(3)
	s.Snapshot()
	j := s.StartGeneration()
	require.NotNil(t, j)
	s.Tick(260 * time.Millisecond)
	s.SetMeshResolution(5)
	s.Snapshot()
	s.Tick(150 * time.Millisecond)

	require.True(t, s.Undo())
	assert.Equal(t, 3, s.State().Mesh.Resolution)
	assert.True(t, s.State().AI.Busy)

	require.True(t, s.Redo())
	assert.Equal(t, 5, s.State().Mesh.Resolution)
}

func TestAdvanceFrame(t *testing.T) {
	s := New()
	s.SetAnimation(scene.AnimationPatch{Time: scene.Ptr(3.9), Playing: scene.Ptr(true)})

	f := s.AdvanceFrame(0.2)
	assert.InDelta(t, 0.1, s.State().Animation.Time, 1e-9)
	assert.InDelta(t, 0.1/4, f.TNorm, 1e-9)

	s.TogglePlayback()
	s.AdvanceFrame(1)
	assert.InDelta(t, 0.1, s.State().Animation.Time, 1e-9)
}

func TestTickDrivesQueueAndClock(t *testing.T) {
	s := New()
	s.SetAutoRotate(true)
	s.TogglePlayback()
	s.StartGeneration()

	f := s.Tick(250 * time.Millisecond)
	assert.True(t, f.AutoRotate)
	assert.InDelta(t, 0.25, s.State().Animation.Time, 1e-9)
	assert.Equal(t, 5, s.State().AI.Progress)
}

func TestRenderIsMemoized(t *testing.T) {
	s := New()
	s.SetMeshResolution(4)
	s.SetSimplify(0.5)

	d := s.Render()
	require.NotNil(t, d.Overlay)
	assert.Equal(t, 3, d.Overlay.Resolution)
	assert.Equal(t, [3]int{4, 3, 2}, [3]int{d.Levels[0].Resolution, d.Levels[1].Resolution, d.Levels[2].Resolution})

	// unrelated fields do not invalidate the description
	s.SetTool(scene.ToolRig)
	assert.Same(t, d, s.Render())
	hits, misses := s.CacheStats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)

	s.SetMaterial(scene.MaterialPatch{Metalness: scene.Ptr(0.8)})
	assert.NotSame(t, d, s.Render())
}

func TestRequestExport(t *testing.T) {
	var got []export.Request
	stamp := time.UnixMilli(42)
	s := New(
		WithExporter(export.Func(func(_ context.Context, req export.Request) error {
			got = append(got, req)
			return nil
		})),
		WithNow(func() time.Time { return stamp }),
	)
	s.SetExport(scene.ExportPatch{Format: scene.Ptr(scene.FormatSTL)})
	s.ToggleLayer("paint")

	s.RequestExport()
	assert.Empty(t, got, "export is delivered asynchronously")

	s.Queue().Advance(0)
	require.Len(t, got, 1)
	assert.Equal(t, scene.FormatSTL, got[0].Settings.Format)
	assert.Equal(t, stamp, got[0].RequestedAt)
	assert.Len(t, got[0].Layers, 2)
	require.NotNil(t, got[0].Scene)
}

func TestRequestExportFailuresAreSwallowed(t *testing.T) {
	s := New(WithExporter(export.Func(func(context.Context, export.Request) error {
		return errors.New("disk full")
	})))
	s.RequestExport()
	assert.Equal(t, 1, s.Queue().Advance(0))

	bare := New()
	bare.RequestExport()
	assert.Equal(t, 1, bare.Queue().Advance(0))
	assert.ErrorIs(t, bare.deliver(context.Background(), bare.ExportRequest()), export.ErrNoCollaborator)
}

func TestHistoryDepthOption(t *testing.T) {
	s := New(WithHistoryDepth(2))
	for i := 0; i < 5; i++ {
		s.SetMeshResolution(i)
		s.Snapshot()
	}
	past, _ := s.HistoryDepth()
	assert.Equal(t, 2, past)
}

func TestMaterialMapsAndMocap(t *testing.T) {
	s := New()
	ref := &scene.FileRef{Name: "albedo.png"}
	require.True(t, s.SetMaterialMap(scene.MapDiffuse, ref))
	ref.Name = "changed"
	assert.Equal(t, "albedo.png", s.State().Mesh.Material.Maps.Diffuse.Name)

	require.True(t, s.SetMaterialMap(scene.MapDiffuse, nil))
	assert.Nil(t, s.State().Mesh.Material.Maps.Diffuse)

	require.True(t, s.ImportMotionCapture(&scene.FileRef{Name: "walk.bvh"}))
	assert.Equal(t, "walk.bvh", s.State().Animation.Mocap.Name)
}

func TestStepMutators(t *testing.T) {
	s := New()
	for i := 0; i < 15; i++ {
		s.StepSimplify()
	}
	assert.Equal(t, 1.0, s.State().Mesh.Simplify)

	s.StepResolution(-5)
	assert.Equal(t, 0, s.State().Mesh.Resolution)
	s.StepResolution(3)
	assert.Equal(t, 3, s.State().Mesh.Resolution)

	s.CycleTool()
	assert.Equal(t, scene.ToolImageTo3D, s.State().Tool)
}
