// Package input handles SDL2 input events and maps them to studio commands.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies processed input events.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventWheel
	EventDrop
)

// Modifier is a set of held modifier keys.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModShift
	ModAlt
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Mod    Modifier
	Repeat bool
	Width  int
	Height int
	MouseX int
	MouseY int
	DeltaX int
	DeltaY int
	Button uint8
	// Dragging is set on motion events while the left button is held.
	Dragging bool
	WheelY   float32
	Path     string
}

// Input handles all input processing.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events and converts them to studio events.
// Returns true if the studio should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			ev := Event{
				Key:    e.Keysym.Scancode,
				Mod:    modifiers(sdl.Keymod(e.Keysym.Mod)),
				Repeat: e.Repeat != 0,
			}
			switch e.Type {
			case sdl.KEYDOWN:
				ev.Type = EventKeyDown
			case sdl.KEYUP:
				ev.Type = EventKeyUp
			default:
				continue
			}
			i.events = append(i.events, ev)

		case *sdl.MouseMotionEvent:
			i.events = append(i.events, Event{
				Type:     EventMouseMove,
				MouseX:   int(e.X),
				MouseY:   int(e.Y),
				DeltaX:   int(e.XRel),
				DeltaY:   int(e.YRel),
				Dragging: e.State&sdl.ButtonLMask() != 0,
			})

		case *sdl.MouseButtonEvent:
			ev := Event{
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: e.Button,
			}
			switch e.Type {
			case sdl.MOUSEBUTTONDOWN:
				ev.Type = EventMouseDown
			case sdl.MOUSEBUTTONUP:
				ev.Type = EventMouseUp
			default:
				continue
			}
			i.events = append(i.events, ev)

		case *sdl.MouseWheelEvent:
			i.events = append(i.events, Event{
				Type:   EventWheel,
				WheelY: float32(e.Y),
			})

		case *sdl.DropEvent:
			if e.Type == sdl.DROPFILE {
				i.events = append(i.events, Event{Type: EventDrop, Path: e.File})
			}
		}
	}

	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

func modifiers(m sdl.Keymod) Modifier {
	var mod Modifier
	// Cmd counts as Ctrl so macOS shortcuts work
	if m&(sdl.KMOD_CTRL|sdl.KMOD_GUI) != 0 {
		mod |= ModCtrl
	}
	if m&sdl.KMOD_SHIFT != 0 {
		mod |= ModShift
	}
	if m&sdl.KMOD_ALT != 0 {
		mod |= ModAlt
	}
	return mod
}
