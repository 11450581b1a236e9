// Package roster owns the ordered set of snakes in a session and gates bot
// spawning and despawning behind a shared cooldown.
package roster

import (
	"math/rand"
	"time"

	"github.com/tomz197/websnake/internal/event"
	"github.com/tomz197/websnake/internal/object"
)

// DefaultCooldown is the minimum time between two bot add/remove actions.
const DefaultCooldown = 2000 * time.Millisecond

// Intents reports what the local player is asking for this frame.
type Intents interface {
	RequestingAddBot() bool
	RequestingRemoveBot() bool
}

// Controller steers a snake without player input.
type Controller interface {
	Drive(s *object.Snake, dt time.Duration)
}

// Member is one roster entry. Controller is nil for the local player.
type Member struct {
	Snake      *object.Snake
	Controller Controller
}

// Options configures a roster. Zero values fall back to defaults.
type Options struct {
	Cooldown        time.Duration
	BotCenterRadius float64
	BotOrbitRadius  float64
	Rand            object.Rand
	Bus             *event.Bus
}

// Roster holds the local player first, followed by bots in spawn order.
type Roster struct {
	members []Member
	clock   time.Duration
	readyAt time.Duration
	opts    Options
	nextID  int
}

// New creates a roster around player. The cooldown starts armed, so the
// first bot action becomes possible one cooldown after the session begins.
func New(player *object.Snake, opts Options) *Roster {
	if opts.Cooldown <= 0 {
		opts.Cooldown = DefaultCooldown
	}
	if opts.BotCenterRadius <= 0 {
		opts.BotCenterRadius = object.BotCenterRadius
	}
	if opts.BotOrbitRadius <= 0 {
		opts.BotOrbitRadius = object.BotOrbitRadius
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Roster{
		members: []Member{{Snake: player}},
		readyAt: opts.Cooldown,
		opts:    opts,
		nextID:  player.ID,
	}
}

// Tick updates every member in order, then evaluates the intents. Members
// spawned by this tick are first updated on the next one.
func (r *Roster) Tick(dt time.Duration, in Intents) {
	r.clock += dt

	for _, m := range r.members {
		if m.Controller != nil {
			m.Controller.Drive(m.Snake, dt)
		}
		m.Snake.Update(dt)
	}

	if in == nil {
		return
	}
	if in.RequestingAddBot() && r.ready() {
		r.AddBot()
		r.arm()
	}
	if in.RequestingRemoveBot() && r.ready() && len(r.members) > 1 {
		r.RemoveLast()
		r.arm()
	}
}

// AddBot appends a new bot immediately, ignoring the cooldown.
func (r *Roster) AddBot() *object.Snake {
	bot := object.NewBot(r.opts.Rand, r.opts.BotCenterRadius, r.opts.BotOrbitRadius)
	r.nextID++
	s := object.NewSnake(r.nextID, object.KindBot, bot.Target(), object.DefaultSpeed)
	r.members = append(r.members, Member{Snake: s, Controller: bot})

	r.opts.Bus.Emit(event.Event{
		Type:     event.SnakeSpawned,
		SnakeID:  s.ID,
		Bot:      true,
		Position: s.Head(),
	})
	return s
}

// RemoveLast removes the most recently added bot. It does nothing and
// returns nil when only the local player is left.
func (r *Roster) RemoveLast() *object.Snake {
	if len(r.members) <= 1 {
		return nil
	}
	last := r.members[len(r.members)-1]
	r.members[len(r.members)-1] = Member{}
	r.members = r.members[:len(r.members)-1]

	released := last.Snake.Remove()
	r.opts.Bus.Emit(event.Event{
		Type:     event.SnakeRemoved,
		SnakeID:  last.Snake.ID,
		Bot:      last.Controller != nil,
		Segments: released,
	})
	return last.Snake
}

// Player is the local player's snake.
func (r *Roster) Player() *object.Snake {
	return r.members[0].Snake
}

// Members returns the roster entries in order. The slice is owned by the roster.
func (r *Roster) Members() []Member {
	return r.members
}

// Snakes returns every snake in roster order.
func (r *Roster) Snakes() []*object.Snake {
	out := make([]*object.Snake, len(r.members))
	for i, m := range r.members {
		out[i] = m.Snake
	}
	return out
}

// Len is the number of snakes including the player.
func (r *Roster) Len() int {
	return len(r.members)
}

// Bots is the number of bot snakes.
func (r *Roster) Bots() int {
	return len(r.members) - 1
}

// Clock is the total simulated time.
func (r *Roster) Clock() time.Duration {
	return r.clock
}

// CooldownRemaining is how long until the next bot action is allowed.
func (r *Roster) CooldownRemaining() time.Duration {
	if r.ready() {
		return 0
	}
	return r.readyAt - r.clock
}

func (r *Roster) ready() bool {
	return r.clock >= r.readyAt
}

func (r *Roster) arm() {
	r.readyAt = r.clock + r.opts.Cooldown
}
