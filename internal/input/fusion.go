package input

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// qualifySq is the squared magnitude a digital source must exceed to count.
const qualifySq = 0.1

// Mover receives the fused movement vector once per frame.
type Mover interface {
	SetMoveInput(v mgl64.Vec2)
}

// Fusion reduces the input state plus pointer into one movement vector.
type Fusion struct {
	state *State

	pointerActive bool
	pointer       mgl64.Vec2
	viewport      mgl64.Vec2

	last mgl64.Vec2
}

// NewFusion creates a fusion stage reading from state.
func NewFusion(state *State) *Fusion {
	return &Fusion{state: state}
}

// State returns the underlying input state.
func (f *Fusion) State() *State {
	return f.state
}

// PointerDown activates pointer steering at (x, y).
func (f *Fusion) PointerDown(x, y float64) {
	f.pointerActive = true
	f.pointer = mgl64.Vec2{x, y}
}

// PointerMove updates the pointer position and activates pointer steering.
func (f *Fusion) PointerMove(x, y float64) {
	f.PointerDown(x, y)
}

// SetViewport sets the size of the surface pointer coordinates refer to.
func (f *Fusion) SetViewport(width, height float64) {
	f.viewport = mgl64.Vec2{width, height}
}

// PointerActive reports whether the pointer currently steers.
func (f *Fusion) PointerActive() bool {
	return f.pointerActive
}

// Move computes this frame's movement vector. Gamepad and keyboard average
// when both qualify; the pointer is used only when neither does.
func (f *Fusion) Move() mgl64.Vec2 {
	var sum mgl64.Vec2
	count := 0

	if g, ok := f.state.Axis(AxisLeftStick); ok {
		g = ApplyDeadzone(g)
		if g.Dot(g) > qualifySq {
			sum = sum.Add(g)
			count++
		}
	}

	k := mgl64.Vec2{
		f.state.ButtonValue(ButtonRight) - f.state.ButtonValue(ButtonLeft),
		f.state.ButtonValue(ButtonDown) - f.state.ButtonValue(ButtonUp),
	}
	if k.Dot(k) > qualifySq {
		sum = sum.Add(k)
		count++
	}

	if count > 0 {
		sum = sum.Mul(1 / float64(count))
		f.pointerActive = false
	} else if f.pointerActive {
		sum = f.pointerVector()
	}

	f.last = ClampUnit(sum)
	return f.last
}

// Drive computes the movement vector and hands it to m.
func (f *Fusion) Drive(m Mover) {
	m.SetMoveInput(f.Move())
}

// Last returns the vector produced by the most recent Move.
func (f *Fusion) Last() mgl64.Vec2 {
	return f.last
}

// RequestingAddBot reports whether the add-bot button is held.
func (f *Fusion) RequestingAddBot() bool {
	return f.state.Button(ButtonAddBot)
}

// RequestingRemoveBot reports whether the remove-bot button is held.
func (f *Fusion) RequestingRemoveBot() bool {
	return f.state.Button(ButtonRemoveBot)
}

func (f *Fusion) pointerVector() mgl64.Vec2 {
	hw, hh := f.viewport.X()/2, f.viewport.Y()/2
	if hw <= 0 || hh <= 0 {
		return mgl64.Vec2{}
	}
	ox := mgl64.Clamp((f.pointer.X()-hw)/hw, -1, 1)
	oy := mgl64.Clamp((f.pointer.Y()-hh)/hh, -1, 1)
	return mgl64.Vec2{EaseOutCubic(ox), EaseOutCubic(oy)}
}

// EaseOutCubic maps |x| in [0,1] through 1-(1-|x|)^3 keeping the sign of x.
func EaseOutCubic(x float64) float64 {
	a := math.Abs(x)
	e := 1 - math.Pow(1-a, 3)
	return math.Copysign(e, x)
}

// ClampUnit scales v down to unit length when it is longer, keeping direction.
func ClampUnit(v mgl64.Vec2) mgl64.Vec2 {
	if l := v.Len(); l > 1 {
		return v.Mul(1 / l)
	}
	return v
}
