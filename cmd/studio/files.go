package main

import (
	"errors"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/astramesh/internal/assets"
	"github.com/Faultbox/astramesh/internal/engine/audio"
	"github.com/Faultbox/astramesh/internal/scene"
)

type pickKind int

const (
	pickImage pickKind = iota
	pickMocap
	pickMap
)

// pick is a file chosen in a dialog, handed back to the studio goroutine.
type pick struct {
	kind pickKind
	slot scene.MapSlot
	path string
}

// pickFile opens a native file dialog without blocking the frame loop. The
// result is applied on the next frame by drainPicks.
func (app *App) pickFile(kind pickKind, slot scene.MapSlot) {
	title, label, exts := "Upload Reference Image", "Images", assets.ImageExtensions
	switch kind {
	case pickMocap:
		title, label, exts = "Import Motion Capture", "Motion Capture", assets.MotionExtensions
	case pickMap:
		title = "Assign " + string(slot) + " map"
	}

	go func() {
		path, err := dialog.File().
			Filter(label, exts...).
			Filter("All Files", "*").
			Title(title).
			Load()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				app.log.Warn("file dialog failed", zap.Error(err))
			}
			// a cancelled map pick clears the slot
			if kind != pickMap {
				return
			}
			path = ""
		}
		app.picks <- pick{kind: kind, slot: slot, path: path}
	}()
}

// drainPicks applies dialog results without waiting for pending dialogs.
func (app *App) drainPicks() {
	for {
		select {
		case p := <-app.picks:
			app.applyPick(p)
		default:
			return
		}
	}
}

func (app *App) applyPick(p pick) {
	s := app.store
	switch p.kind {
	case pickImage:
		ref, err := assets.ProbeImage(p.path)
		if err != nil {
			app.log.Warn("image rejected", zap.String("path", p.path), zap.Error(err))
			app.cue(audio.CueRejected)
			return
		}
		if s.StartImageGeneration(ref) == nil {
			app.cue(audio.CueRejected)
		}

	case pickMocap:
		ref, err := assets.ProbeMotion(p.path)
		if err != nil {
			app.log.Warn("motion capture rejected", zap.String("path", p.path), zap.Error(err))
			app.cue(audio.CueRejected)
			return
		}
		s.Snapshot()
		s.ImportMotionCapture(ref)

	case pickMap:
		var ref *scene.FileRef
		if p.path != "" {
			var err error
			if ref, err = assets.ProbeImage(p.path); err != nil {
				app.log.Warn("texture map rejected", zap.String("path", p.path), zap.Error(err))
				app.cue(audio.CueRejected)
				return
			}
		}
		s.Snapshot()
		s.SetMaterialMap(p.slot, ref)
	}
}

// handleDrop routes a file dropped on the window by its extension.
func (app *App) handleDrop(path string) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch {
	case slices.Contains(assets.ImageExtensions, ext):
		app.applyPick(pick{kind: pickImage, path: path})
	case slices.Contains(assets.MotionExtensions, ext):
		app.applyPick(pick{kind: pickMocap, path: path})
	default:
		app.log.Info("ignoring dropped file", zap.String("path", path))
	}
}
