// Package config loads client settings from an optional bloks.yaml, BLOKS_*
// environment variables and command line flags, in increasing priority.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Zereker/bloks/protocol"
	"github.com/Zereker/bloks/transport"
)

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"network":      "server.network",
	"server":       "server.address",
	"dial-timeout": "server.dialTimeout",
	"name":         "player.name",
	"seat":         "player.seat",
	"chat-rate":    "chat.rate",
	"chat-burst":   "chat.burst",
	"log-level":    "log.level",
	"log-format":   "log.format",
}

// RegisterFlags defines the flags Load understands on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "directory containing bloks.yaml")
	fs.String("network", transport.NetworkTCP, "transport: tcp or websocket")
	fs.StringP("server", "s", defaultAddress(), "server address, or ws:// URL for websocket")
	fs.Duration("dial-timeout", 10*time.Second, "connect timeout")
	fs.StringP("name", "n", "", "player name")
	fs.Int("seat", protocol.NoPlayer, "player slot to request, -1 for any")
	fs.Float64("chat-rate", 1, "chat lines per second, 0 for unlimited")
	fs.Int("chat-burst", 5, "chat lines sent back to back before the rate applies")
	fs.String("log-level", "info", "debug, info, warn or error")
	fs.String("log-format", "console", "console or json")
}

func defaultAddress() string {
	return fmt.Sprintf("localhost:%d", protocol.DefaultPort)
}

// LoadConfig reads bloks.yaml from configPath, the working directory or
// ./config, if one exists, then applies environment variables and the flags
// set on fs. fs may be nil.
func LoadConfig(configPath string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.network", transport.NetworkTCP)
	v.SetDefault("server.address", defaultAddress())
	v.SetDefault("server.dialTimeout", 10*time.Second)
	v.SetDefault("player.name", "")
	v.SetDefault("player.seat", protocol.NoPlayer)
	v.SetDefault("chat.rate", 1.0)
	v.SetDefault("chat.burst", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetConfigName("bloks")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("config")

	v.SetEnvPrefix("BLOKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for flag, key := range flagKeys {
			if f := fs.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrapf(err, "bind flag %s", flag)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config")
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validateConfig(config *Config) error {
	switch config.Server.Network {
	case transport.NetworkTCP:
	case transport.NetworkWebSocket:
		if !strings.HasPrefix(config.Server.Address, "ws://") && !strings.HasPrefix(config.Server.Address, "wss://") {
			return errors.Errorf("websocket address %q must be a ws:// or wss:// URL", config.Server.Address)
		}
	default:
		return errors.Errorf("unknown network %q", config.Server.Network)
	}

	if config.Server.Address == "" {
		return errors.New("no server address")
	}
	if config.Server.DialTimeout < 0 {
		return errors.Errorf("negative dial timeout %s", config.Server.DialTimeout)
	}

	if config.Player.Seat < protocol.NoPlayer || config.Player.Seat >= protocol.PlayerCount {
		return errors.Errorf("seat %d out of range", config.Player.Seat)
	}

	if config.Chat.Rate < 0 {
		return errors.Errorf("negative chat rate %g", config.Chat.Rate)
	}
	if config.Chat.Rate > 0 && config.Chat.Burst < 1 {
		return errors.Errorf("chat burst must be at least 1, got %d", config.Chat.Burst)
	}

	switch config.Log.Format {
	case "console", "json":
	default:
		return errors.Errorf("unknown log format %q", config.Log.Format)
	}

	return nil
}

// ConfigPath returns the value of the --config flag, if fs defines one.
func ConfigPath(fs *pflag.FlagSet) string {
	if fs == nil {
		return ""
	}
	path, _ := fs.GetString("config")
	return path
}
