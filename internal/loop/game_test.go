package loop

import (
	"testing"
	"time"

	"github.com/tomz197/websnake/internal/config"
	"github.com/tomz197/websnake/internal/event"
	"github.com/tomz197/websnake/internal/input"
)

const frame = 16 * time.Millisecond

func testConfig() config.GameConfig {
	cfg := config.Default().Game
	cfg.Seed = 42
	return cfg
}

func TestNewGameFillsField(t *testing.T) {
	cfg := testConfig()
	cfg.InitialBots = 2
	g := NewGame(cfg, nil)

	snap := g.Snapshot()
	if len(snap.Pebbles) != cfg.Pebbles {
		t.Errorf("pebbles = %d, want %d", len(snap.Pebbles), cfg.Pebbles)
	}
	if len(snap.Snakes) != 3 || snap.Snakes[0].ID != PlayerID || snap.Snakes[0].Bot {
		t.Fatalf("snakes = %+v, want player followed by 2 bots", snap.Snakes)
	}
	if !snap.Snakes[1].Bot || !snap.Snakes[2].Bot {
		t.Error("initial bots not marked as bots")
	}
	if g.Player().Len() != 1 {
		t.Errorf("player length = %d, want 1", g.Player().Len())
	}
}

func TestKeyboardMovesPlayer(t *testing.T) {
	g := NewGame(testConfig(), nil)
	g.Input().OnButtonDown(input.SourceKeyboard, input.ButtonRight)

	g.Step(frame)

	head := g.Player().Head()
	want := -0.005 * 16
	if diff := head.X() - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("head x = %v, want %v", head.X(), want)
	}
	if head.Y() != 0 {
		t.Fatalf("head y = %v, want 0", head.Y())
	}
}

func TestPlayerEatsPebbleOnce(t *testing.T) {
	g := NewGame(testConfig(), nil)
	eaten := map[int]int{}
	grew := 0
	g.Bus().Subscribe(event.PebbleConsumed, func(e event.Event) {
		if e.SnakeID == PlayerID {
			eaten[e.PebbleID]++
		}
	})
	g.Bus().Subscribe(event.SnakeGrew, func(e event.Event) {
		if e.SnakeID == PlayerID {
			grew++
		}
	})

	target := g.Snapshot().Pebbles[0]
	g.Player().SetHead(target.Position)
	for i := 0; i < 5; i++ {
		g.Step(frame)
	}

	if eaten[target.ID] != 1 {
		t.Fatalf("pebble %d consumed %d times, want 1", target.ID, eaten[target.ID])
	}
	total := 0
	for id, n := range eaten {
		if n != 1 {
			t.Errorf("pebble %d consumed %d times", id, n)
		}
		total += n
	}
	if g.Player().Len() != 1+total || grew != total {
		t.Fatalf("length = %d after %d pebbles (%d grow events)", g.Player().Len(), total, grew)
	}
	if got := len(g.Snapshot().Pebbles); got != testConfig().Pebbles {
		t.Fatalf("field not refilled: %d pebbles", got)
	}
}

func TestFieldDrainsWithoutRespawn(t *testing.T) {
	cfg := testConfig()
	cfg.PebbleRespawn = false
	g := NewGame(cfg, nil)

	target := g.Snapshot().Pebbles[0]
	g.Player().SetHead(target.Position)
	g.Step(frame)

	if got := len(g.Snapshot().Pebbles); got >= cfg.Pebbles {
		t.Fatalf("pebbles = %d, want fewer than %d", got, cfg.Pebbles)
	}
	for _, p := range g.Snapshot().Pebbles {
		if p.ID == target.ID {
			t.Fatal("eaten pebble still in the field")
		}
	}
}

func TestBotIntentsGoThroughCooldown(t *testing.T) {
	cfg := testConfig()
	g := NewGame(cfg, nil)
	var removed []int
	g.Bus().Subscribe(event.SnakeRemoved, func(e event.Event) { removed = append(removed, e.SnakeID) })

	g.Input().OnButtonDown(input.SourceKeyboard, input.ButtonAddBot)
	for elapsed := time.Duration(0); elapsed < 5*time.Second; elapsed += frame {
		g.Step(frame)
	}
	if g.Roster().Bots() != 2 {
		t.Fatalf("bots = %d, want 2", g.Roster().Bots())
	}

	g.Input().OnButtonUp(input.SourceKeyboard, input.ButtonAddBot)
	g.Input().OnButtonDown(input.SourceKeyboard, input.ButtonRemoveBot)
	for elapsed := time.Duration(0); elapsed < 6*time.Second; elapsed += frame {
		g.Step(frame)
	}
	if g.Roster().Bots() != 0 {
		t.Fatalf("bots = %d, want 0", g.Roster().Bots())
	}
	if len(removed) != 2 || removed[0] <= removed[1] {
		t.Fatalf("removal order = %v, want newest first", removed)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	g := NewGame(testConfig(), nil)
	snap := g.Snapshot()
	snap.Snakes[0].Segments[0][0] = 99
	snap.Pebbles[0].Position[0] = 99

	if g.Player().Head().X() == 99 {
		t.Fatal("snapshot shares segment storage")
	}
	if g.Snapshot().Pebbles[0].Position.X() == 99 {
		t.Fatal("snapshot shares pebble storage")
	}
}

func TestSameSeedSameWorld(t *testing.T) {
	a := NewGame(testConfig(), nil).Snapshot()
	b := NewGame(testConfig(), nil).Snapshot()
	for i := range a.Pebbles {
		if a.Pebbles[i].Position != b.Pebbles[i].Position {
			t.Fatalf("pebble %d differs: %v vs %v", i, a.Pebbles[i].Position, b.Pebbles[i].Position)
		}
	}
}
