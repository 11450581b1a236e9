package web

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tomz197/websnake/internal/config"
	"github.com/tomz197/websnake/internal/event"
	"github.com/tomz197/websnake/internal/input"
	"github.com/tomz197/websnake/internal/loop"
)

const (
	pingPeriod    = 25 * time.Second
	maxFrameDelta = 250 * time.Millisecond
)

// keyNames maps browser key names (lowercased KeyboardEvent.key) to
// logical buttons.
var keyNames = map[string]string{
	"w":          input.ButtonUp,
	"arrowup":    input.ButtonUp,
	"a":          input.ButtonLeft,
	"arrowleft":  input.ButtonLeft,
	"s":          input.ButtonDown,
	"arrowdown":  input.ButtonDown,
	"d":          input.ButtonRight,
	"arrowright": input.ButtonRight,
	"b":          input.ButtonAddBot,
	"v":          input.ButtonRemoveBot,
}

// Session is one browser connection and the game it owns. Only the Run
// goroutine touches the game and writes to the connection.
type Session struct {
	conn    *websocket.Conn
	game    *loop.Game
	devices *input.DeviceMap
	cfg     config.WebConfig
	log     *zap.Logger

	inbox  chan Envelope
	done   chan struct{}
	outbox [][]byte
	pads   map[string]map[string]bool // pad id -> held logical buttons
}

// NewSession wires a connection to a fresh game.
func NewSession(conn *websocket.Conn, game *loop.Game, devices *input.DeviceMap, cfg config.WebConfig, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{
		conn:    conn,
		game:    game,
		devices: devices,
		cfg:     cfg,
		log:     log,
		inbox:   make(chan Envelope, 64),
		done:    make(chan struct{}),
		pads:    make(map[string]map[string]bool),
	}
	game.Bus().SubscribeAll(s.queueEvent)
	return s
}

// Run reads client messages on a separate goroutine, steps the game at the
// configured tick rate and streams frames until the connection drops, ctx
// ends or the hub announces shutdown.
func (s *Session) Run(ctx context.Context, events <-chan loop.HubEvent) error {
	defer close(s.done)
	go s.readLoop()

	tickRate := s.cfg.TickRate
	if tickRate <= 0 {
		tickRate = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return s.close(websocket.CloseGoingAway, "server stopping")
		case ev, ok := <-events:
			if !ok || ev.Type == loop.EventHostShutdown {
				return s.close(websocket.CloseServiceRestart, "server shutting down")
			}
		case env, ok := <-s.inbox:
			if !ok {
				return nil
			}
			if err := s.apply(env); err != nil {
				s.log.Debug("dropping message", zap.String("type", env.T), zap.Error(err))
			}
		case now := <-ticker.C:
			dt := min(now.Sub(last), maxFrameDelta)
			last = now
			s.game.Step(dt)
			if err := s.flush(); err != nil {
				return err
			}
		case <-ping.C:
			if err := s.write(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

func (s *Session) readLoop() {
	defer close(s.inbox)

	if s.cfg.MaxMessage > 0 {
		s.conn.SetReadLimit(s.cfg.MaxMessage)
	}
	readTimeout := s.cfg.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 60 * time.Second
	}
	_ = s.conn.SetReadDeadline(time.Now().Add(readTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		kind, msg, err := s.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("read", zap.Error(err))
			}
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(readTimeout))
		if kind != websocket.BinaryMessage {
			continue
		}
		env, err := DecodeEnvelope(msg)
		if err != nil {
			s.log.Debug("bad envelope", zap.Error(err))
			continue
		}
		select {
		case s.inbox <- env:
		case <-s.done:
			return
		}
	}
}

var errUnknownMessage = errors.New("unknown message type")

// apply pushes one client message into the game's input state.
func (s *Session) apply(env Envelope) error {
	state := s.game.Input()
	fusion := s.game.Fusion()

	switch env.T {
	case MsgKey:
		m, err := DecodePayload[KeyMsg](env)
		if err != nil {
			return err
		}
		name, ok := keyNames[strings.ToLower(m.Name)]
		if !ok {
			return nil
		}
		if m.Down {
			state.OnButtonDown(input.SourceKeyboard, name)
		} else {
			state.OnButtonUp(input.SourceKeyboard, name)
		}

	case MsgAxis:
		m, err := DecodePayload[AxisMsg](env)
		if err != nil {
			return err
		}
		name := m.Name
		if name == "" {
			name = input.AxisLeftStick
		}
		if m.Pad != "" {
			s.heldBy(m.Pad)
		}
		state.OnAxis(input.SourceGamepad, name, mgl64.Vec2{m.X, m.Y})

	case MsgPad:
		m, err := DecodePayload[PadMsg](env)
		if err != nil {
			return err
		}
		name, ok := s.devices.Button(m.ID, m.Button)
		if !ok {
			return nil
		}
		held := s.heldBy(m.ID)
		if m.Down {
			held[name] = true
			state.OnButtonDown(input.SourceGamepad, name)
		} else {
			delete(held, name)
			state.OnButtonUp(input.SourceGamepad, name)
		}

	case MsgPadGone:
		m, err := DecodePayload[PadGoneMsg](env)
		if err != nil {
			return err
		}
		for name := range s.pads[m.ID] {
			state.OnButtonUp(input.SourceGamepad, name)
		}
		delete(s.pads, m.ID)
		if len(s.pads) == 0 {
			state.RemoveAxis(input.AxisLeftStick)
		}
		s.log.Debug("gamepad disconnected", zap.String("pad", m.ID))

	case MsgPointer:
		m, err := DecodePayload[PointerMsg](env)
		if err != nil {
			return err
		}
		if m.Down {
			fusion.PointerDown(m.X, m.Y)
		} else {
			fusion.PointerMove(m.X, m.Y)
		}

	case MsgViewport:
		m, err := DecodePayload[ViewportMsg](env)
		if err != nil {
			return err
		}
		fusion.SetViewport(m.W, m.H)

	case MsgBlur:
		state.ReleaseAll()

	default:
		return fmt.Errorf("%w: %q", errUnknownMessage, env.T)
	}
	return nil
}

// heldBy returns the set of buttons held on pad id, registering the pad.
func (s *Session) heldBy(id string) map[string]bool {
	held := s.pads[id]
	if held == nil {
		held = make(map[string]bool)
		s.pads[id] = held
	}
	return held
}

// queueEvent turns bus events into messages sent with the next frame.
func (s *Session) queueEvent(e event.Event) {
	var (
		data []byte
		err  error
	)
	switch e.Type {
	case event.SnakeSpawned:
		data, err = Encode(MsgSpawned, SpawnedMsg{ID: e.SnakeID, Bot: e.Bot, X: e.Position.X(), Y: e.Position.Y()})
	case event.SnakeRemoved:
		data, err = Encode(MsgRemoved, RemovedMsg{ID: e.SnakeID, Segments: len(e.Segments)})
	case event.PebbleConsumed:
		data, err = Encode(MsgGrew, GrewMsg{ID: e.SnakeID, Pebble: e.PebbleID, X: e.Position.X(), Y: e.Position.Y()})
	default:
		return
	}
	if err != nil {
		s.log.Warn("encode event", zap.Stringer("event", e.Type), zap.Error(err))
		return
	}
	s.outbox = append(s.outbox, data)
}

// flush writes queued events followed by the current frame.
func (s *Session) flush() error {
	for i, data := range s.outbox {
		if err := s.write(websocket.BinaryMessage, data); err != nil {
			return err
		}
		s.outbox[i] = nil
	}
	s.outbox = s.outbox[:0]

	data, err := Encode(MsgFrame, s.frame())
	if err != nil {
		return err
	}
	return s.write(websocket.BinaryMessage, data)
}

func (s *Session) frame() FrameMsg {
	snap := s.game.Snapshot()
	f := FrameMsg{
		Tick:     snap.Tick,
		Cooldown: snap.Cooldown.Seconds(),
		Source:   s.game.Input().LastSource(),
		Snakes:   make([]SnakeMsg, len(snap.Snakes)),
		Pebbles:  make([]PebbleMsg, len(snap.Pebbles)),
	}
	if s.game.Fusion().PointerActive() {
		f.Source = input.SourcePointer
	}
	for i, sv := range snap.Snakes {
		segs := make([][2]float64, len(sv.Segments))
		for j, p := range sv.Segments {
			segs[j] = [2]float64{p.X(), p.Y()}
		}
		f.Snakes[i] = SnakeMsg{ID: sv.ID, Bot: sv.Bot, Segments: segs}
	}
	for i, p := range snap.Pebbles {
		f.Pebbles[i] = PebbleMsg{ID: p.ID, X: p.Position.X(), Y: p.Position.Y()}
	}
	return f
}

func (s *Session) write(kind int, data []byte) error {
	timeout := s.cfg.WriteTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(timeout))
	if err := s.conn.WriteMessage(kind, data); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func (s *Session) close(code int, reason string) error {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return nil
}
