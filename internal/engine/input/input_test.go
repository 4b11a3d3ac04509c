package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestKeyBindings(t *testing.T) {
	in := New()

	tests := []struct {
		key  sdl.Scancode
		want Action
	}{
		{sdl.SCANCODE_ESCAPE, ActionQuit},
		{sdl.SCANCODE_R, ActionReset},
		{sdl.SCANCODE_P, ActionPause},
		{sdl.SCANCODE_SPACE, ActionPause},
		{sdl.SCANCODE_N, ActionStep},
		{sdl.SCANCODE_W, ActionWireframe},
		{sdl.SCANCODE_F12, ActionScreenshot},
		{sdl.SCANCODE_Q, ActionNone},
	}
	for _, tt := range tests {
		if got := in.keyEvent(tt.key).Action; got != tt.want {
			t.Errorf("keyEvent(%d).Action = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestTriggered(t *testing.T) {
	in := New()
	in.Bindings = map[sdl.Scancode]Action{sdl.SCANCODE_X: ActionReset}
	in.events = append(in.events, in.keyEvent(sdl.SCANCODE_X))

	if !in.Triggered(ActionReset) {
		t.Error("Triggered(ActionReset) = false, want true")
	}
	if in.Triggered(ActionStep) {
		t.Error("Triggered(ActionStep) = true, want false")
	}
}
