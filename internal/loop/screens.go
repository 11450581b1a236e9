package loop

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/websnake/internal/draw"
	"github.com/tomz197/websnake/internal/input"
	"github.com/tomz197/websnake/internal/object"
)

// drawFrame draws the world and overlay, then flushes everything at once.
func (c *Client) drawFrame() error {
	c.canvas.Clear()
	if c.state.GameState != GameStateShutdown {
		c.drawWorld()
	}

	c.chunkWriter.WriteString("\033[H\033[2J")
	if err := c.canvas.Render(c.chunkWriter); err != nil {
		return err
	}
	c.drawUI()
	return c.chunkWriter.Flush()
}

func (c *Client) project(p mgl64.Vec3) (draw.Point, bool) {
	return object.WorldToScreen(p, c.state.Camera, c.state.View)
}

// drawWorld paints the arena border, pebbles, snakes and crumbs.
func (c *Client) drawWorld() {
	snap := c.game.Snapshot()
	scale := c.state.Camera.Scale

	a := c.game.Arena()
	corners := []mgl64.Vec3{{-a, -a, 0}, {a, -a, 0}, {a, a, 0}, {-a, a, 0}}
	for i := range corners {
		p1, _ := c.project(corners[i])
		p2, _ := c.project(corners[(i+1)%len(corners)])
		c.canvas.DrawLine(p1, p2, draw.ColorBorder)
	}

	r := object.PebbleSize * scale / 2
	for _, p := range snap.Pebbles {
		sp, ok := c.project(p.Position)
		if !ok {
			continue
		}
		c.canvas.DrawPolygon([]draw.Point{
			{X: sp.X, Y: sp.Y - r},
			{X: sp.X + r, Y: sp.Y},
			{X: sp.X, Y: sp.Y + r},
			{X: sp.X - r, Y: sp.Y},
		}, draw.ColorPebble, true)
	}

	// Bots first so the player stays on top.
	for i := len(snap.Snakes) - 1; i >= 0; i-- {
		s := snap.Snakes[i]
		body := draw.ColorPlayer
		if s.Bot {
			body = draw.ColorBot
		}
		for j := len(s.Segments) - 1; j >= 0; j-- {
			sp, ok := c.project(s.Segments[j])
			if !ok {
				continue
			}
			col := body
			if j == 0 && !s.Bot {
				col = draw.ColorHead
			}
			c.canvas.FillRect(sp, object.SegmentSize*scale, col)
		}
	}

	for _, p := range c.state.particles {
		if !p.Visible() {
			continue
		}
		if sp, ok := c.project(p.Position); ok {
			c.canvas.Set(sp, draw.ColorCrumb)
		}
	}
}

// drawUI draws the text overlay for the current phase.
func (c *Client) drawUI() {
	termWidth := c.canvas.Width()
	termHeight := c.canvas.Height() / 2
	centerX := termWidth / 2
	centerY := termHeight / 2

	switch c.state.GameState {
	case GameStateStart:
		c.drawStartScreen(centerX, centerY)
	case GameStatePlaying:
		c.drawPlayingHUD(termWidth, termHeight)
	case GameStateShutdown:
		c.drawShutdownScreen(centerX, centerY)
	}

	if c.state.isInactive {
		warning := fmt.Sprintf("Inactive: disconnecting in %d seconds", InactivityDisconnectUser-InactivityWarnUser)
		c.chunkWriter.WriteAt(centerX-len(warning)/2, termHeight-2, warning)
	}
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(centerX, centerY int) {
	cw := c.chunkWriter

	title := "W E B S N A K E"
	cw.WriteAt(centerX-len(title)/2, centerY-2, title)

	subtitle := "Press SPACE to Start"
	cw.WriteAt(centerX-len(subtitle)/2, centerY+1, subtitle)

	controls := "Controls: W/A/S/D or Arrows to move, mouse to steer, B/V to add/remove a bot, Q to quit"
	cw.WriteAt(centerX-len(controls)/2, centerY+4, controls)
}

// drawPlayingHUD draws the in-game HUD.
func (c *Client) drawPlayingHUD(termWidth, termHeight int) {
	cw := c.chunkWriter
	player := c.game.Player()
	roster := c.game.Roster()

	// Length and pebbles eaten (top left)
	cw.WriteAt(2, 1, fmt.Sprintf("Length: %d  Eaten: %d", player.Len(), c.state.Eaten))

	// Bots (top right)
	botsText := fmt.Sprintf("Bots: %d", roster.Bots())
	cw.WriteAt(termWidth-len(botsText)-1, 1, botsText)

	if c.state.notice != "" {
		cw.WriteAt(termWidth/2-len(c.state.notice)/2, 2, c.state.notice)
	}

	// Head position (bottom left)
	head := player.Head()
	cw.WriteAt(2, termHeight, fmt.Sprintf("X:%.1f Y:%.1f  %s", head.X(), head.Y(), c.inputLabel()))

	// Bot cooldown (bottom right)
	cooldownText := "B/V ready"
	if left := roster.CooldownRemaining(); left > 0 {
		cooldownText = fmt.Sprintf("B/V in %.1fs", left.Seconds())
	}
	cw.WriteAt(termWidth-len(cooldownText)-1, termHeight, cooldownText)
}

func (c *Client) inputLabel() string {
	if c.game.Fusion().PointerActive() {
		return input.SourcePointer
	}
	if src := c.game.Input().LastSource(); src != "" {
		return src
	}
	return input.SourceKeyboard
}

// drawShutdownScreen draws the host shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	cw := c.chunkWriter

	title := "SERVER SHUTTING DOWN"
	cw.WriteAt(centerX-len(title)/2, centerY-3, title)

	msg := "Please reconnect in a moment."
	cw.WriteAt(centerX-len(msg)/2, centerY-1, msg)

	remaining := int(c.state.shutdownTimer) + 1
	countdown := fmt.Sprintf("Disconnecting in %d seconds...", remaining)
	cw.WriteAt(centerX-len(countdown)/2, centerY+1, countdown)

	hint := "Press Q to disconnect now"
	cw.WriteAt(centerX-len(hint)/2, centerY+3, hint)
}
