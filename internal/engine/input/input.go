// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a processed input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventMouseDrag
	EventMouseWheel
)

// Action is a simulator command bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionReset
	ActionPause
	ActionStep
	ActionWireframe
	ActionScreenshot
)

// DefaultBindings maps keys to simulator commands.
var DefaultBindings = map[sdl.Scancode]Action{
	sdl.SCANCODE_ESCAPE: ActionQuit,
	sdl.SCANCODE_R:      ActionReset,
	sdl.SCANCODE_P:      ActionPause,
	sdl.SCANCODE_SPACE:  ActionPause,
	sdl.SCANCODE_N:      ActionStep,
	sdl.SCANCODE_W:      ActionWireframe,
	sdl.SCANCODE_F12:    ActionScreenshot,
}

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Action Action
	Width  int
	Height int
	DX, DY float32 // Drag delta in pixels or wheel delta in notches
}

// Input converts SDL events into Events.
type Input struct {
	Bindings map[sdl.Scancode]Action

	events   []Event
	dragging bool
}

// New creates a new input handler with DefaultBindings.
func New() *Input {
	return &Input{
		Bindings: DefaultBindings,
		events:   make([]Event, 0, 16),
	}
}

// Update polls SDL events and converts them.
// Returns true if the window was asked to close.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	quit := false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit, Action: ActionQuit})
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
				i.events = append(i.events, i.keyEvent(e.Keysym.Scancode))
			}

		case *sdl.MouseButtonEvent:
			if e.Button == sdl.BUTTON_LEFT {
				i.dragging = e.Type == sdl.MOUSEBUTTONDOWN
			}

		case *sdl.MouseMotionEvent:
			if i.dragging {
				i.events = append(i.events, Event{
					Type: EventMouseDrag,
					DX:   float32(e.XRel),
					DY:   float32(e.YRel),
				})
			}

		case *sdl.MouseWheelEvent:
			i.events = append(i.events, Event{Type: EventMouseWheel, DY: float32(e.Y)})
		}
	}

	return quit
}

func (i *Input) keyEvent(key sdl.Scancode) Event {
	return Event{Type: EventKeyDown, Key: key, Action: i.Bindings[key]}
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Triggered reports whether action was requested during the last Update.
func (i *Input) Triggered(action Action) bool {
	for _, e := range i.events {
		if e.Action == action {
			return true
		}
	}
	return false
}
