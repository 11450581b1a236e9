package loop

import "time"

// Terminal rendering limits. Larger terminals get a centered render area.
const (
	MaxTermWidth  = 200
	MaxTermHeight = 60
)

// maxFrameDelta caps one simulation step after a stall (e.g. a suspended
// terminal) so bots and the player do not jump.
const maxFrameDelta = 250 * time.Millisecond

// Pebble crumbs
const (
	crumbCount    = 6
	crumbSpeed    = 4.0 // world units per second
	crumbLifetime = 0.6 // seconds
)

// Notices shown in the HUD
const (
	noticeSeconds = 2.0
)

// Shutdown
const (
	ShutdownDisplaySeconds = 5.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)
