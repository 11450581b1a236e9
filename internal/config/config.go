package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Game     GameConfig     `toml:"game"`
	Terminal TerminalConfig `toml:"terminal"`
	SSH      SSHConfig      `toml:"ssh"`
	Web      WebConfig      `toml:"web"`
	Logging  LoggingConfig  `toml:"logging"`
	Devices  string         `toml:"devices"` // gamepad table path, empty = built in
}

type GameConfig struct {
	PlayerSpeed     float64       `toml:"player_speed"` // world units per ms
	SpawnCooldown   time.Duration `toml:"spawn_cooldown"`
	BotCenterRadius float64       `toml:"bot_center_radius"`
	BotOrbitRadius  float64       `toml:"bot_orbit_radius"`
	Pebbles         int           `toml:"pebbles"`
	PebbleRadius    float64       `toml:"pebble_radius"`
	PebbleRespawn   bool          `toml:"pebble_respawn"`
	InitialBots     int           `toml:"initial_bots"`
	ArenaHalfExtent float64       `toml:"arena_half_extent"`
	Seed            int64         `toml:"seed"` // 0 = time based
}

type TerminalConfig struct {
	FPS     int           `toml:"fps"`
	KeyHold time.Duration `toml:"key_hold"`
	Scale   float64       `toml:"scale"` // canvas pixels per world unit
	Mouse   bool          `toml:"mouse"`
}

type SSHConfig struct {
	Host            string        `toml:"host"`
	Port            string        `toml:"port"`
	HostKey         string        `toml:"host_key"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

type WebConfig struct {
	Host         string        `toml:"host"`
	Port         string        `toml:"port"`
	TickRate     int           `toml:"tick_rate"` // frames per second
	WriteTimeout time.Duration `toml:"write_timeout"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	MaxMessage   int64         `toml:"max_message"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
	File   string `toml:"file"`   // empty = stderr
}

// Load reads a TOML file over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaults()
}

func defaults() *Config {
	return &Config{
		Game: GameConfig{
			PlayerSpeed:     0.005,
			SpawnCooldown:   2 * time.Second,
			BotCenterRadius: 10,
			BotOrbitRadius:  10,
			Pebbles:         10,
			PebbleRadius:    10,
			PebbleRespawn:   true,
			ArenaHalfExtent: 64,
		},
		Terminal: TerminalConfig{
			FPS:     60,
			KeyHold: 150 * time.Millisecond,
			Scale:   3,
			Mouse:   true,
		},
		SSH: SSHConfig{
			Host:            "::",
			Port:            "2222",
			HostKey:         ".ssh/websnake_ed25519",
			ShutdownTimeout: 5 * time.Second,
		},
		Web: WebConfig{
			Host:         "0.0.0.0",
			Port:         "8080",
			TickRate:     60,
			WriteTimeout: 5 * time.Second,
			ReadTimeout:  60 * time.Second,
			MaxMessage:   4096,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func (c *Config) validate() error {
	switch {
	case c.Game.PlayerSpeed <= 0:
		return fmt.Errorf("game.player_speed must be positive")
	case c.Game.SpawnCooldown < 0:
		return fmt.Errorf("game.spawn_cooldown must not be negative")
	case c.Game.Pebbles < 0:
		return fmt.Errorf("game.pebbles must not be negative")
	case c.Game.ArenaHalfExtent <= c.Game.PebbleRadius:
		return fmt.Errorf("game.arena_half_extent must exceed game.pebble_radius")
	case c.Terminal.FPS <= 0 || c.Web.TickRate <= 0:
		return fmt.Errorf("frame rates must be positive")
	}
	return nil
}
