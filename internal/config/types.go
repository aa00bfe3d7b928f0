package config

import "time"

// Config is everything the command line client needs to join a game.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Player PlayerConfig `mapstructure:"player"`
	Chat   ChatConfig   `mapstructure:"chat"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig says where the game server is.
type ServerConfig struct {
	Network     string        `mapstructure:"network"`     // "tcp" or "websocket"
	Address     string        `mapstructure:"address"`     // host:port, or a ws:// URL for websocket
	DialTimeout time.Duration `mapstructure:"dialTimeout"` // zero waits as long as the context allows
}

// PlayerConfig is the slot to ask for after connecting.
type PlayerConfig struct {
	Name string `mapstructure:"name"`
	Seat int    `mapstructure:"seat"` // -1 takes any free slot
}

// ChatConfig limits outgoing chat lines.
type ChatConfig struct {
	Rate  float64 `mapstructure:"rate"` // lines per second, 0 for unlimited
	Burst int     `mapstructure:"burst"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}
