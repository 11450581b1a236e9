// Package loop runs a game session: the per-frame simulation step and the
// terminal client that drives and draws it.
package loop

import (
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/tomz197/websnake/internal/config"
	"github.com/tomz197/websnake/internal/event"
	"github.com/tomz197/websnake/internal/input"
	"github.com/tomz197/websnake/internal/object"
	"github.com/tomz197/websnake/internal/physics"
	"github.com/tomz197/websnake/internal/roster"
)

// PlayerID is the snake id of the local player in every session.
const PlayerID = 1

// Game is one single-player session. It is not safe for concurrent use;
// hosts call every method from their frame goroutine.
type Game struct {
	input    *input.State
	fusion   *input.Fusion
	roster   *roster.Roster
	field    *object.PebbleField
	detector *physics.Detector
	targets  map[int]*physics.Target
	bus      *event.Bus
	rng      *rand.Rand
	log      *zap.Logger
	tick     uint64
	arena    float64
}

// SnakeView is a render-ready copy of one snake.
type SnakeView struct {
	ID       int
	Bot      bool
	Segments []mgl64.Vec3
}

// Snapshot is everything a renderer needs for one frame.
type Snapshot struct {
	Tick     uint64
	Clock    time.Duration
	Cooldown time.Duration
	Snakes   []SnakeView
	Pebbles  []object.Pebble
}

// NewGame creates a session with the player at the origin and the pebble
// field filled.
func NewGame(cfg config.GameConfig, log *zap.Logger) *Game {
	if log == nil {
		log = zap.NewNop()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	bus := event.NewBus()

	speed := cfg.PlayerSpeed
	if speed <= 0 {
		speed = object.DefaultSpeed
	}
	player := object.NewSnake(PlayerID, object.KindPlayer, mgl64.Vec3{}, speed)

	state := input.NewState()
	g := &Game{
		input:  state,
		fusion: input.NewFusion(state),
		roster: roster.New(player, roster.Options{
			Cooldown:        cfg.SpawnCooldown,
			BotCenterRadius: cfg.BotCenterRadius,
			BotOrbitRadius:  cfg.BotOrbitRadius,
			Rand:            rng,
			Bus:             bus,
		}),
		field:    object.NewPebbleField(rng, cfg.Pebbles, cfg.PebbleRadius, cfg.PebbleRespawn),
		detector: physics.NewDetector(cfg.ArenaHalfExtent, physics.DefaultCellSize),
		targets:  make(map[int]*physics.Target),
		bus:      bus,
		rng:      rng,
		log:      log,
		arena:    cfg.ArenaHalfExtent,
	}

	bus.Subscribe(event.SnakeSpawned, func(e event.Event) {
		g.log.Debug("snake spawned", zap.Int("id", e.SnakeID), zap.Bool("bot", e.Bot))
	})
	bus.Subscribe(event.SnakeRemoved, func(e event.Event) {
		g.detector.Forget(e.SnakeID)
		g.log.Debug("snake removed", zap.Int("id", e.SnakeID), zap.Int("segments", len(e.Segments)))
	})

	g.addPebbles(g.field.Fill())
	for i := 0; i < cfg.InitialBots; i++ {
		g.roster.AddBot()
	}
	log.Info("game created",
		zap.Int64("seed", seed),
		zap.Int("pebbles", g.field.Len()),
		zap.Int("bots", g.roster.Bots()),
	)
	return g
}

// Step advances the session by dt: input is fused onto the player, the
// roster ticks, touches are resolved and eaten pebbles are replaced.
func (g *Game) Step(dt time.Duration) {
	g.tick++
	g.fusion.Drive(g.roster.Player())
	g.roster.Tick(dt, g.fusion)
	g.collide()
	g.sweep()
}

func (g *Game) collide() {
	for _, s := range g.roster.Snakes() {
		for _, hit := range g.detector.Touching(s.ID, s.Head(), object.SegmentSize) {
			p := hit.(*object.Pebble)
			delete(g.targets, p.ID)
			s.Collide(p)

			g.bus.Emit(event.Event{
				Type:     event.PebbleConsumed,
				SnakeID:  s.ID,
				PebbleID: p.ID,
				Bot:      s.Kind == object.KindBot,
				Position: p.Position,
			})
			g.bus.Emit(event.Event{
				Type:     event.SnakeGrew,
				SnakeID:  s.ID,
				Bot:      s.Kind == object.KindBot,
				Position: s.Segment(s.Len() - 1),
			})
		}
	}
}

func (g *Game) sweep() {
	eaten, spawned := g.field.Sweep()
	for _, p := range eaten {
		// Pebbles consumed outside the detector still hold a target.
		if t, ok := g.targets[p.ID]; ok {
			g.detector.RemoveTarget(t)
			delete(g.targets, p.ID)
		}
	}
	g.addPebbles(spawned)
}

func (g *Game) addPebbles(ps []*object.Pebble) {
	for _, p := range ps {
		g.targets[p.ID] = g.detector.AddTarget(p.Position, object.PebbleSize, p)
		g.bus.Emit(event.Event{
			Type:     event.PebbleSpawned,
			PebbleID: p.ID,
			Position: p.Position,
		})
	}
}

// Snapshot copies the current positions of every snake and pebble.
func (g *Game) Snapshot() Snapshot {
	members := g.roster.Members()
	snap := Snapshot{
		Tick:     g.tick,
		Clock:    g.roster.Clock(),
		Cooldown: g.roster.CooldownRemaining(),
		Snakes:   make([]SnakeView, 0, len(members)),
		Pebbles:  make([]object.Pebble, 0, g.field.Len()),
	}
	for _, m := range members {
		snap.Snakes = append(snap.Snakes, SnakeView{
			ID:       m.Snake.ID,
			Bot:      m.Snake.Kind == object.KindBot,
			Segments: m.Snake.Segments(),
		})
	}
	for _, p := range g.field.Pebbles() {
		snap.Pebbles = append(snap.Pebbles, *p)
	}
	return snap
}

// Input is the session's input state, written by device adapters.
func (g *Game) Input() *input.State { return g.input }

// Fusion is the session's input fusion stage, which also takes pointer events.
func (g *Game) Fusion() *input.Fusion { return g.fusion }

// Roster is the session's roster.
func (g *Game) Roster() *roster.Roster { return g.roster }

// Player is the local player's snake.
func (g *Game) Player() *object.Snake { return g.roster.Player() }

// Bus delivers spawn, removal, growth and pebble notifications.
func (g *Game) Bus() *event.Bus { return g.bus }

// Rand is the session's random source, shared with effects.
func (g *Game) Rand() *rand.Rand { return g.rng }

// Arena is the half extent of the square the detector covers.
func (g *Game) Arena() float64 { return g.arena }

// Tick is the number of steps taken.
func (g *Game) Tick() uint64 { return g.tick }
