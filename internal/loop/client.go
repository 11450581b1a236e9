package loop

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/tomz197/websnake/internal/config"
	"github.com/tomz197/websnake/internal/draw"
	"github.com/tomz197/websnake/internal/event"
	"github.com/tomz197/websnake/internal/input"
	"github.com/tomz197/websnake/internal/object"
)

// Client handles rendering and input for a single terminal.
type Client struct {
	game         *Game
	hub          *Hub
	handle       *Handle
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates frame output for chunked writes
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	frameTime    time.Duration
	mouse        bool
	idleKick     bool
	termSizeFunc draw.TermSizeFunc
	log          *zap.Logger
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Terminal     config.TerminalConfig
	Hub          *Hub   // Registers the session when set
	Name         string // Session name shown in logs
	IdleKick     bool   // Disconnect after InactivityDisconnectUser seconds
	Log          *zap.Logger
}

// NewClient creates a terminal client playing game. Bytes read from r are
// decoded as keys and mouse reports; frames are written to w.
func NewClient(game *Game, r io.ByteReader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	fps := opts.Terminal.FPS
	if fps <= 0 {
		fps = 60
	}
	scale := opts.Terminal.Scale
	if scale <= 0 {
		scale = 3
	}

	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewCanvas(renderWidth, renderHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	c := &Client{
		game:         game,
		hub:          opts.Hub,
		state:        NewClientState(scale),
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r, opts.Terminal.KeyHold),
		lastInput:    time.Now(),
		frameTime:    time.Second / time.Duration(fps),
		mouse:        opts.Terminal.Mouse,
		idleKick:     opts.IdleKick,
		termSizeFunc: termSizeFunc,
		log:          log,
	}
	c.state.View = object.NewScreen(canvas.Width(), canvas.Height())
	game.Fusion().SetViewport(float64(termWidth), float64(termHeight))

	if c.hub != nil {
		c.handle = c.hub.Register(opts.Name)
	}
	c.subscribe()
	return c
}

func (c *Client) subscribe() {
	bus := c.game.Bus()
	bus.Subscribe(event.PebbleConsumed, func(e event.Event) {
		c.state.particles = append(c.state.particles,
			object.Burst(c.game.Rand(), e.Position, crumbCount, crumbSpeed, crumbLifetime)...)
		if e.SnakeID == PlayerID {
			c.state.Eaten++
		}
	})
	bus.Subscribe(event.SnakeSpawned, func(e event.Event) {
		c.state.setNotice(fmt.Sprintf("bot %d joined", e.SnakeID))
	})
	bus.Subscribe(event.SnakeRemoved, func(e event.Event) {
		for _, seg := range e.Segments {
			c.state.particles = append(c.state.particles,
				object.Burst(c.game.Rand(), seg, 2, crumbSpeed/2, crumbLifetime)...)
		}
		c.state.setNotice(fmt.Sprintf("bot %d left", e.SnakeID))
	})
}

// Run starts the client loop. Blocks until the player quits, the input
// closes, ctx is cancelled or the host shutdown countdown ends.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	if c.mouse {
		draw.EnableMouse(c.writer)
		defer draw.DisableMouse(c.writer)
	}
	draw.ClearScreen(c.writer)

	if c.handle != nil {
		defer c.hub.Unregister(c.handle.ID)
	}

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = min(frameStart.Sub(lastTime), maxFrameDelta)
		lastTime = frameStart

		c.processInput(frameStart)
		c.processHostEvents(ctx)
		c.updateScreen()

		switch c.state.GameState {
		case GameStateStart:
			c.updateStartState()
		case GameStatePlaying:
			c.updatePlayingState()
		case GameStateShutdown:
			c.updateShutdownState()
		}

		if err := c.drawFrame(); err != nil {
			return fmt.Errorf("draw frame: %w", err)
		}

		elapsed := time.Since(frameStart)
		if elapsed < c.frameTime {
			time.Sleep(c.frameTime - elapsed)
		}
	}

	c.log.Debug("client stopped",
		zap.Int("length", c.game.Player().Len()),
		zap.Int("eaten", c.state.Eaten),
		zap.Uint64("ticks", c.game.Tick()),
	)
	draw.ClearScreen(c.writer)
	return nil
}

// processInput drains the terminal stream into the game's input state.
func (c *Client) processInput(now time.Time) {
	res := c.inputStream.Apply(c.game.Fusion(), now)

	if res.Keys > 0 || res.Pointer || res.Start {
		c.lastInput = now
		c.state.isInactive = false
	} else if c.idleKick {
		idle := now.Sub(c.lastInput).Seconds()
		if idle > InactivityDisconnectUser {
			c.log.Info("disconnecting inactive session")
			c.state.Running = false
		} else if idle > InactivityWarnUser {
			c.state.isInactive = true
		}
	}

	if res.Quit {
		c.state.Running = false
	}
	if c.state.GameState == GameStateStart && (res.Start || res.Keys > 0) {
		c.startGame()
	}
}

// processHostEvents reacts to cancellation and hub notifications.
func (c *Client) processHostEvents(ctx context.Context) {
	select {
	case <-ctx.Done():
		c.state.Running = false
		return
	default:
	}
	if c.handle == nil {
		return
	}
	for {
		select {
		case ev, ok := <-c.handle.EventsCh:
			if !ok {
				c.state.Running = false
				return
			}
			if ev.Type == EventHostShutdown && c.state.GameState != GameStateShutdown {
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.Width() || renderHeight*2 != c.canvas.Height() {
		draw.ClearScreen(c.writer)
	}
	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
	c.state.View = object.NewScreen(c.canvas.Width(), c.canvas.Height())
	c.game.Fusion().SetViewport(float64(termWidth), float64(termHeight))
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, MaxTermWidth)
	renderHeight = min(termHeight, MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// updateStartState keeps the camera on the player behind the title screen.
func (c *Client) updateStartState() {
	c.state.Camera.Follow(c.game.Player().Head())
}

// updatePlayingState steps the simulation and effects.
func (c *Client) updatePlayingState() {
	c.game.Step(c.state.delta)
	c.state.updateEffects(c.state.delta.Seconds())
	c.state.Camera.Follow(c.game.Player().Head())
}

// startGame leaves the title screen. The key that started the game is
// released so it does not steer the first frame.
func (c *Client) startGame() {
	c.inputStream.Reset(c.game.Input())
	c.state.GameState = GameStatePlaying
	c.log.Debug("game started")
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}
