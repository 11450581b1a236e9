// Package event carries simulation notifications to renderers and hosts.
package event

import "github.com/go-gl/mathgl/mgl64"

type Type int

const (
	SnakeSpawned Type = iota
	SnakeRemoved
	SnakeGrew
	PebbleSpawned
	PebbleConsumed
)

func (t Type) String() string {
	switch t {
	case SnakeSpawned:
		return "snake_spawned"
	case SnakeRemoved:
		return "snake_removed"
	case SnakeGrew:
		return "snake_grew"
	case PebbleSpawned:
		return "pebble_spawned"
	case PebbleConsumed:
		return "pebble_consumed"
	}
	return "unknown"
}

type Event struct {
	Type     Type
	SnakeID  int // Zero for pebble-only events
	PebbleID int
	Bot      bool
	Position mgl64.Vec3
	Segments []mgl64.Vec3 // Released segments on SnakeRemoved
}

type Handler func(Event)

// Bus dispatches events synchronously in subscription order.
type Bus struct {
	handlers map[Type][]Handler
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]Handler),
	}
}

func (b *Bus) Subscribe(t Type, fn Handler) {
	b.handlers[t] = append(b.handlers[t], fn)
}

// SubscribeAll registers fn for every event type.
func (b *Bus) SubscribeAll(fn Handler) {
	for t := SnakeSpawned; t <= PebbleConsumed; t++ {
		b.Subscribe(t, fn)
	}
}

// Emit is a no-op on a nil bus.
func (b *Bus) Emit(e Event) {
	if b == nil {
		return
	}
	for _, fn := range b.handlers[e.Type] {
		fn(e)
	}
}
