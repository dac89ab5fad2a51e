package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/astramesh/internal/config"
	"github.com/Faultbox/astramesh/internal/engine/audio"
	"github.com/Faultbox/astramesh/internal/engine/camera"
	"github.com/Faultbox/astramesh/internal/engine/input"
	"github.com/Faultbox/astramesh/internal/engine/window"
	"github.com/Faultbox/astramesh/internal/export"
	"github.com/Faultbox/astramesh/internal/job"
	"github.com/Faultbox/astramesh/internal/logger"
	"github.com/Faultbox/astramesh/internal/scene"
	"github.com/Faultbox/astramesh/internal/store"
	"github.com/Faultbox/astramesh/internal/viewport"
)

// titleInterval is how often the window title HUD is refreshed.
const titleInterval = 250 * time.Millisecond

// App is the interactive studio.
type App struct {
	cfg      *config.Config
	log      *zap.Logger
	window   *window.Window
	renderer *viewport.Renderer
	input    *input.Input
	bindings input.Bindings
	camera   *camera.OrbitCamera
	audio    *audio.Manager
	store    *store.Store
	manifest *export.ManifestWriter
	picks    chan pick

	running    bool
	screenshot bool
}

// NewApp creates the window, GL renderer, audio and the scene store.
func NewApp(cfg *config.Config) (*App, error) {
	app := &App{
		cfg:      cfg,
		log:      logger.Named("studio"),
		input:    input.New(),
		bindings: input.DefaultBindings(),
		camera:   camera.NewOrbitCamera(),
		manifest: export.NewManifestWriter(cfg.Export.OutputDir),
		picks:    make(chan pick, 4),
	}

	var err error
	app.window, err = window.New(window.Config{
		Title:      "AstraMesh Studio",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	}, logger.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	w, h := app.window.DrawableSize()
	app.renderer, err = viewport.New(w, h, logger.Named("viewport"))
	if err != nil {
		app.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	app.audio = audio.New(audio.WithLogger(logger.Named("audio")))
	app.audio.SetEnabled(cfg.Audio.Enabled)
	app.audio.SetVolume(float64(cfg.Audio.Volume))
	if cfg.Audio.Enabled {
		if err := app.audio.Init(); err != nil {
			// the studio works without sound
			app.log.Warn("audio unavailable", zap.Error(err))
		}
	}

	app.store = store.New(
		store.WithLogger(logger.Named("store")),
		store.WithHistoryDepth(cfg.History.MaxDepth),
		store.WithCacheSize(cfg.Graphics.LODCache),
		store.WithJobTiming(job.Timing{
			InitialDelay: cfg.Generation.InitialDelay,
			StepInterval: cfg.Generation.StepInterval,
			Increment:    cfg.Generation.StepIncrement,
		}),
		store.WithExporter(export.Func(app.export)),
	)
	app.store.Jobs().OnEvent(app.onJobEvent)

	app.log.Info("studio initialized")
	return app, nil
}

// Run drives the store and renders until the window closes.
func (app *App) Run() {
	app.running = true

	last := time.Now()
	lastTitle := time.Time{}
	frameCount := 0
	fpsTimer := last
	fps := 0

	var budget time.Duration
	if app.cfg.Graphics.FPSLimit > 0 {
		budget = time.Second / time.Duration(app.cfg.Graphics.FPSLimit)
	}

	app.log.Info("starting studio loop")
	for app.running {
		now := time.Now()
		dt := now.Sub(last)
		last = now

		if app.input.Update() {
			app.running = false
			break
		}
		app.handleEvents(app.input.Events())
		app.drainPicks()

		frame := app.store.Tick(dt)
		app.camera.Update(float32(dt.Seconds()), frame.AutoRotate)
		app.renderer.Draw(app.store.Render(), frame, app.camera)
		if app.screenshot {
			app.screenshot = false
			app.captureScreenshot(now)
		}
		app.window.SwapBuffers()

		frameCount++
		if now.Sub(fpsTimer) >= time.Second {
			fps = frameCount
			app.log.Debug("fps", zap.Int("count", fps), zap.Duration("dt", dt))
			frameCount = 0
			fpsTimer = now
		}
		if now.Sub(lastTitle) >= titleInterval {
			app.window.SetTitle(Title(app.store.State(), app.renderer.Level, fps))
			lastTitle = now
		}

		if budget > 0 {
			if spent := time.Since(now); spent < budget {
				time.Sleep(budget - spent)
			}
		}
	}
}

// Close releases every subsystem.
func (app *App) Close() {
	app.log.Info("closing studio")
	if app.store != nil {
		app.store.CancelGeneration()
	}
	if app.audio != nil {
		app.audio.Close()
	}
	if app.renderer != nil {
		app.renderer.Close()
	}
	if app.window != nil {
		app.window.Close()
	}
}

func (app *App) handleEvents(events []input.Event) {
	for _, e := range events {
		switch e.Type {
		case input.EventWindowResize:
			w, h := app.window.DrawableSize()
			app.renderer.Resize(w, h)
		case input.EventMouseMove:
			if e.Dragging {
				app.camera.HandleDrag(float32(e.DeltaX), float32(e.DeltaY))
			}
		case input.EventWheel:
			app.camera.HandleZoom(e.WheelY)
		case input.EventDrop:
			app.handleDrop(e.Path)
		case input.EventKeyDown:
			if cmd := app.bindings.Lookup(e); cmd != input.CmdNone {
				app.execute(cmd)
			}
		}
	}
}

// execute runs one keyboard command. Discrete edits record a checkpoint
// first so they can be undone.
func (app *App) execute(cmd input.Command) {
	s := app.store
	app.log.Debug("command", zap.Stringer("command", cmd))

	switch cmd {
	case input.CmdUndo:
		if !s.Undo() {
			app.cue(audio.CueRejected)
		}
	case input.CmdRedo:
		if !s.Redo() {
			app.cue(audio.CueRejected)
		}
	case input.CmdSnapshot:
		s.Snapshot()
	case input.CmdTogglePlayback:
		s.TogglePlayback()
	case input.CmdGenerateText:
		if s.StartGeneration() == nil {
			app.cue(audio.CueRejected)
		}
	case input.CmdGenerateImage:
		app.pickFile(pickImage, "")
	case input.CmdImportMocap:
		app.pickFile(pickMocap, "")
	case input.CmdMapDiffuse:
		app.pickFile(pickMap, scene.MapDiffuse)
	case input.CmdMapSpecular:
		app.pickFile(pickMap, scene.MapSpecular)
	case input.CmdMapNormal:
		app.pickFile(pickMap, scene.MapNormal)
	case input.CmdMapRoughness:
		app.pickFile(pickMap, scene.MapRoughness)
	case input.CmdCancel:
		s.CancelGeneration()
	case input.CmdResolutionUp:
		s.Snapshot()
		s.StepResolution(1)
	case input.CmdResolutionDown:
		s.Snapshot()
		s.StepResolution(-1)
	case input.CmdSimplify:
		s.Snapshot()
		s.StepSimplify()
	case input.CmdExport:
		s.RequestExport()
	case input.CmdToggleAutoRotate:
		s.SetAutoRotate(!s.State().Camera.AutoRotate)
	case input.CmdCycleTool:
		s.CycleTool()
	case input.CmdResetCamera:
		app.camera.Reset()
	case input.CmdScreenshot:
		app.screenshot = true
	case input.CmdQuit:
		app.running = false
	}
}

func (app *App) captureScreenshot(at time.Time) {
	path, err := app.renderer.Screenshot(app.cfg.Export.OutputDir, at)
	if err != nil {
		app.log.Error("screenshot failed", zap.Error(err))
		app.cue(audio.CueRejected)
		return
	}
	app.log.Info("screenshot saved", zap.String("path", path))
}

// export writes the manifest and plays the exported cue. It runs on the
// studio goroutine when the task queue delivers the request.
func (app *App) export(ctx context.Context, req export.Request) error {
	path, err := app.manifest.Write(ctx, req)
	if err != nil {
		app.cue(audio.CueRejected)
		return err
	}
	app.log.Info("export written", zap.String("path", path))
	app.cue(audio.CueExported)
	return nil
}

func (app *App) onJobEvent(e job.Event) {
	switch e.Kind {
	case job.EventStarted:
		app.cue(audio.CueStarted)
	case job.EventCompleted:
		app.cue(audio.CueCompleted)
	case job.EventCancelled:
		app.cue(audio.CueCancelled)
	}
}

func (app *App) cue(c audio.Cue) {
	if !app.audio.IsInitialized() {
		return
	}
	if err := app.audio.Play(c); err != nil {
		app.log.Debug("cue not played", zap.Stringer("cue", c), zap.Error(err))
	}
}
