package roster

import (
	"math/rand"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tomz197/websnake/internal/event"
	"github.com/tomz197/websnake/internal/object"
)

const frame = 16 * time.Millisecond

type intents struct{ add, remove bool }

func (i intents) RequestingAddBot() bool    { return i.add }
func (i intents) RequestingRemoveBot() bool { return i.remove }

func newRoster(t *testing.T, bus *event.Bus) *Roster {
	t.Helper()
	player := object.NewSnake(1, object.KindPlayer, mgl64.Vec3{}, object.DefaultSpeed)
	return New(player, Options{Rand: rand.New(rand.NewSource(11)), Bus: bus})
}

func run(r *Roster, total time.Duration, in Intents) {
	for elapsed := time.Duration(0); elapsed < total; elapsed += frame {
		r.Tick(frame, in)
	}
}

func TestHeldAddSpawnsTwoBotsInFiveSeconds(t *testing.T) {
	bus := event.NewBus()
	var spawnedAt []time.Duration
	r := newRoster(t, bus)
	bus.Subscribe(event.SnakeSpawned, func(e event.Event) {
		spawnedAt = append(spawnedAt, r.Clock())
	})

	run(r, 5000*time.Millisecond, intents{add: true})

	if r.Len() != 3 {
		t.Fatalf("roster len = %d, want 3 (player + 2 bots)", r.Len())
	}
	if len(spawnedAt) != 2 {
		t.Fatalf("spawn events = %d, want 2", len(spawnedAt))
	}
	if gap := spawnedAt[1] - spawnedAt[0]; gap < DefaultCooldown {
		t.Fatalf("spawns %v apart, want >= %v", gap, DefaultCooldown)
	}
}

func TestRemoveWithOnlyPlayerIsNoop(t *testing.T) {
	bus := event.NewBus()
	removed := 0
	bus.Subscribe(event.SnakeRemoved, func(event.Event) { removed++ })
	r := newRoster(t, bus)

	run(r, 5000*time.Millisecond, intents{remove: true})

	if r.Len() != 1 {
		t.Fatalf("roster len = %d, want 1", r.Len())
	}
	if removed != 0 {
		t.Fatalf("removal events = %d, want 0", removed)
	}
	if r.Player().Removed() {
		t.Fatal("player was disposed")
	}
	if r.RemoveLast() != nil {
		t.Fatal("RemoveLast with only the player returned a snake")
	}
}

func TestAddAndRemoveShareOneCooldown(t *testing.T) {
	r := newRoster(t, nil)
	run(r, DefaultCooldown, nil)

	r.Tick(frame, intents{add: true, remove: true})
	if r.Len() != 2 {
		t.Fatalf("len after add+remove frame = %d, want 2", r.Len())
	}

	run(r, DefaultCooldown-2*frame, intents{remove: true})
	if r.Len() != 2 {
		t.Fatalf("remove fired inside the cooldown, len = %d", r.Len())
	}
	if r.CooldownRemaining() <= 0 {
		t.Fatal("cooldown already elapsed")
	}

	run(r, 2*frame, intents{remove: true})
	if r.Len() != 1 {
		t.Fatalf("len after cooldown = %d, want 1", r.Len())
	}
}

func TestRemoveTargetsNewestBot(t *testing.T) {
	bus := event.NewBus()
	var got event.Event
	bus.Subscribe(event.SnakeRemoved, func(e event.Event) { got = e })
	r := newRoster(t, bus)

	first := r.AddBot()
	second := r.AddBot()
	second.Grow()

	run(r, DefaultCooldown, intents{remove: true})

	if r.Len() != 2 || r.Snakes()[1] != first {
		t.Fatalf("wrong bot removed: roster %v", r.Snakes())
	}
	if !second.Removed() {
		t.Fatal("newest bot not disposed")
	}
	if got.SnakeID != second.ID || !got.Bot || len(got.Segments) != 2 {
		t.Fatalf("removal event = %+v", got)
	}
}

func TestSpawnedBotWaitsForNextTick(t *testing.T) {
	r := newRoster(t, nil)
	run(r, DefaultCooldown-frame, nil)

	r.Tick(frame, intents{add: true})
	if r.Len() != 2 {
		t.Fatalf("len = %d, want 2", r.Len())
	}
	bot := r.Members()[1]
	b := bot.Controller.(*object.Bot)
	if b.Phase != 0 {
		t.Fatalf("bot updated in its spawn frame: phase %v", b.Phase)
	}

	r.Tick(frame, nil)
	if b.Phase == 0 {
		t.Fatal("bot not driven on the following tick")
	}
}

func TestTickUpdatesEveryMember(t *testing.T) {
	r := newRoster(t, nil)
	r.AddBot()
	r.Player().SetMoveInput(mgl64.Vec2{0, 1})
	before := r.Player().Head()

	r.Tick(frame, nil)

	if r.Player().Head() == before {
		t.Fatal("player did not move")
	}
	if r.Bots() != 1 || r.Members()[1].Controller.(*object.Bot).Phase == 0 {
		t.Fatal("bot was not driven")
	}
}
