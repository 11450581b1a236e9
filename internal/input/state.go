// Package input turns raw device events into the per-frame movement vector
// and intents consumed by the simulation.
package input

import "github.com/go-gl/mathgl/mgl64"

// Logical button and axis names shared by every device adapter.
const (
	ButtonUp        = "w"
	ButtonLeft      = "a"
	ButtonDown      = "s"
	ButtonRight     = "d"
	ButtonAddBot    = "b"
	ButtonRemoveBot = "v"

	AxisLeftStick = "leftstick"
)

// Device sources reported to State.
const (
	SourceKeyboard = "keyboard"
	SourceGamepad  = "gamepad"
	SourcePointer  = "pointer"
)

// Deadzone is the stick magnitude below which axis input counts as zero.
const Deadzone = 0.25

const deadzoneSq = Deadzone * Deadzone

// State holds the latest logical button and axis values. Buttons are
// level-triggered: a value stays as written until a later event changes it.
type State struct {
	buttons    map[string]bool
	axes       map[string]mgl64.Vec2
	lastSource string
}

// NewState creates an empty input state with the movement keys released.
func NewState() *State {
	s := &State{
		buttons: make(map[string]bool),
		axes:    make(map[string]mgl64.Vec2),
	}
	for _, name := range []string{ButtonUp, ButtonLeft, ButtonDown, ButtonRight} {
		s.buttons[name] = false
	}
	return s
}

// SetButton records whether name is held.
func (s *State) SetButton(name string, down bool) {
	s.buttons[name] = down
}

// SetAxis stores v for name, zeroing it inside the deadzone.
func (s *State) SetAxis(name string, v mgl64.Vec2) {
	s.axes[name] = ApplyDeadzone(v)
}

// OnButtonDown is the push entry point used by device adapters.
func (s *State) OnButtonDown(source, name string) {
	s.lastSource = source
	s.SetButton(name, true)
}

// OnButtonUp releases name.
func (s *State) OnButtonUp(source, name string) {
	s.lastSource = source
	s.SetButton(name, false)
}

// OnAxis stores a new axis reading from source.
func (s *State) OnAxis(source, name string, v mgl64.Vec2) {
	s.lastSource = source
	s.SetAxis(name, v)
}

// RemoveAxis forgets an axis, e.g. when its gamepad disconnects.
func (s *State) RemoveAxis(name string) {
	delete(s.axes, name)
}

// Button reports whether name is currently held. Unknown names are released.
func (s *State) Button(name string) bool {
	return s.buttons[name]
}

// ButtonValue is Button as 0 or 1.
func (s *State) ButtonValue(name string) float64 {
	if s.buttons[name] {
		return 1
	}
	return 0
}

// Axis returns the stored vector for name and whether any device reported it.
func (s *State) Axis(name string) (mgl64.Vec2, bool) {
	v, ok := s.axes[name]
	return v, ok
}

// LastSource names the device that changed the state most recently.
func (s *State) LastSource() string {
	return s.lastSource
}

// ReleaseAll drops every held button, e.g. after focus loss.
func (s *State) ReleaseAll() {
	for name := range s.buttons {
		s.buttons[name] = false
	}
}

// ApplyDeadzone returns the zero vector when v is inside the deadzone.
func ApplyDeadzone(v mgl64.Vec2) mgl64.Vec2 {
	if v.Dot(v) < deadzoneSq {
		return mgl64.Vec2{}
	}
	return v
}
