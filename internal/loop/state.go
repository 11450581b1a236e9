package loop

import (
	"time"

	"github.com/tomz197/websnake/internal/object"
)

// GameState represents the current phase of a terminal client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // Active gameplay
	GameStateShutdown                  // Host is shutting down
)

// ClientState holds per-terminal state: camera, effects and timers.
type ClientState struct {
	View          object.Screen // Canvas dimensions in pixels
	Camera        object.Camera // Follows the player's head
	GameState     GameState
	Running       bool
	Eaten         int // Pebbles eaten by the player
	delta         time.Duration
	particles     []*object.Particle
	notice        string
	noticeTimer   float64
	shutdownTimer float64
	isInactive    bool
}

// NewClientState creates a client on the title screen.
func NewClientState(scale float64) *ClientState {
	return &ClientState{
		GameState: GameStateStart,
		Running:   true,
		Camera:    object.Camera{Scale: scale},
	}
}

func (s *ClientState) setNotice(text string) {
	s.notice = text
	s.noticeTimer = noticeSeconds
}

// updateEffects ages particles and the current notice.
func (s *ClientState) updateEffects(dtSeconds float64) {
	kept := s.particles[:0]
	for _, p := range s.particles {
		if p.Update(dtSeconds) {
			p.Release()
			continue
		}
		kept = append(kept, p)
	}
	clear(s.particles[len(kept):])
	s.particles = kept

	if s.noticeTimer > 0 {
		s.noticeTimer -= dtSeconds
		if s.noticeTimer <= 0 {
			s.notice = ""
		}
	}
}
