package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Command is a studio action triggered from the keyboard.
type Command int

const (
	CmdNone Command = iota
	CmdUndo
	CmdRedo
	CmdSnapshot
	CmdTogglePlayback
	CmdGenerateText
	CmdGenerateImage
	CmdImportMocap
	CmdMapDiffuse
	CmdMapSpecular
	CmdMapNormal
	CmdMapRoughness
	CmdCancel
	CmdResolutionUp
	CmdResolutionDown
	CmdSimplify
	CmdExport
	CmdToggleAutoRotate
	CmdCycleTool
	CmdResetCamera
	CmdScreenshot
	CmdQuit
)

var commandNames = [...]string{
	CmdNone:             "none",
	CmdUndo:             "undo",
	CmdRedo:             "redo",
	CmdSnapshot:         "snapshot",
	CmdTogglePlayback:   "togglePlayback",
	CmdGenerateText:     "generateText",
	CmdGenerateImage:    "generateImage",
	CmdImportMocap:      "importMocap",
	CmdMapDiffuse:       "mapDiffuse",
	CmdMapSpecular:      "mapSpecular",
	CmdMapNormal:        "mapNormal",
	CmdMapRoughness:     "mapRoughness",
	CmdCancel:           "cancel",
	CmdResolutionUp:     "resolutionUp",
	CmdResolutionDown:   "resolutionDown",
	CmdSimplify:         "simplify",
	CmdExport:           "export",
	CmdToggleAutoRotate: "toggleAutoRotate",
	CmdCycleTool:        "cycleTool",
	CmdResetCamera:      "resetCamera",
	CmdScreenshot:       "screenshot",
	CmdQuit:             "quit",
}

func (c Command) String() string {
	if c < 0 || int(c) >= len(commandNames) {
		return "unknown"
	}
	return commandNames[c]
}

// Chord is a key together with the modifiers that must be held.
type Chord struct {
	Key sdl.Scancode
	Mod Modifier
}

// Bindings maps key chords to commands.
type Bindings map[Chord]Command

// DefaultBindings returns the studio keyboard layout.
func DefaultBindings() Bindings {
	return Bindings{
		{sdl.SCANCODE_Z, ModCtrl}:            CmdUndo,
		{sdl.SCANCODE_Z, ModCtrl | ModShift}: CmdRedo,
		{sdl.SCANCODE_Y, ModCtrl}:            CmdRedo,
		{sdl.SCANCODE_S, ModCtrl}:            CmdSnapshot,
		{sdl.SCANCODE_Q, ModCtrl}:            CmdQuit,
		{sdl.SCANCODE_SPACE, 0}:              CmdTogglePlayback,
		{sdl.SCANCODE_G, 0}:                  CmdGenerateText,
		{sdl.SCANCODE_I, 0}:                  CmdGenerateImage,
		{sdl.SCANCODE_M, 0}:                  CmdImportMocap,
		{sdl.SCANCODE_1, 0}:                  CmdMapDiffuse,
		{sdl.SCANCODE_2, 0}:                  CmdMapSpecular,
		{sdl.SCANCODE_3, 0}:                  CmdMapNormal,
		{sdl.SCANCODE_4, 0}:                  CmdMapRoughness,
		{sdl.SCANCODE_ESCAPE, 0}:             CmdCancel,
		{sdl.SCANCODE_EQUALS, 0}:             CmdResolutionUp,
		{sdl.SCANCODE_EQUALS, ModShift}:      CmdResolutionUp,
		{sdl.SCANCODE_KP_PLUS, 0}:            CmdResolutionUp,
		{sdl.SCANCODE_MINUS, 0}:              CmdResolutionDown,
		{sdl.SCANCODE_KP_MINUS, 0}:           CmdResolutionDown,
		{sdl.SCANCODE_RIGHTBRACKET, 0}:       CmdSimplify,
		{sdl.SCANCODE_E, 0}:                  CmdExport,
		{sdl.SCANCODE_R, 0}:                  CmdToggleAutoRotate,
		{sdl.SCANCODE_TAB, 0}:                CmdCycleTool,
		{sdl.SCANCODE_HOME, 0}:               CmdResetCamera,
		{sdl.SCANCODE_F12, 0}:                CmdScreenshot,
	}
}

// Lookup returns the command bound to a key press. Key releases, auto
// repeats of history shortcuts and unbound chords yield CmdNone. Alt is
// never part of a chord.
func (b Bindings) Lookup(e Event) Command {
	if e.Type != EventKeyDown {
		return CmdNone
	}
	cmd, ok := b[Chord{Key: e.Key, Mod: e.Mod &^ ModAlt}]
	if !ok {
		return CmdNone
	}
	if e.Repeat && !repeatable(cmd) {
		return CmdNone
	}
	return cmd
}

// Commands maps every event of a frame through b, skipping unbound ones.
func (b Bindings) Commands(events []Event) []Command {
	var out []Command
	for _, e := range events {
		if cmd := b.Lookup(e); cmd != CmdNone {
			out = append(out, cmd)
		}
	}
	return out
}

func repeatable(c Command) bool {
	switch c {
	case CmdResolutionUp, CmdResolutionDown, CmdSimplify:
		return true
	}
	return false
}
