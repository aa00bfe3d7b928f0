package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zereker/bloks/protocol"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bloks.yaml"), []byte(content), 0o600))
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir(), nil)
	require.NoError(t, err)

	assert.Equal(t, "tcp", cfg.Server.Network)
	assert.Equal(t, "localhost:59995", cfg.Server.Address)
	assert.Equal(t, 10*time.Second, cfg.Server.DialTimeout)
	assert.Equal(t, protocol.NoPlayer, cfg.Player.Seat)
	assert.Equal(t, 1.0, cfg.Chat.Rate)
	assert.Equal(t, 5, cfg.Chat.Burst)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadConfig_File(t *testing.T) {
	dir := writeConfig(t, `
server:
  network: websocket
  address: ws://example.org:8080/game
  dialTimeout: 3s
player:
  name: alice
  seat: 2
chat:
  rate: 0
log:
  level: debug
  format: json
`)

	cfg, err := LoadConfig(dir, nil)
	require.NoError(t, err)

	assert.Equal(t, "websocket", cfg.Server.Network)
	assert.Equal(t, "ws://example.org:8080/game", cfg.Server.Address)
	assert.Equal(t, 3*time.Second, cfg.Server.DialTimeout)
	assert.Equal(t, "alice", cfg.Player.Name)
	assert.Equal(t, 2, cfg.Player.Seat)
	assert.Equal(t, 0.0, cfg.Chat.Rate)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := writeConfig(t, "player:\n  name: alice\n")
	t.Setenv("BLOKS_PLAYER_NAME", "bob")
	t.Setenv("BLOKS_SERVER_ADDRESS", "10.0.0.1:4000")

	cfg, err := LoadConfig(dir, nil)
	require.NoError(t, err)

	assert.Equal(t, "bob", cfg.Player.Name)
	assert.Equal(t, "10.0.0.1:4000", cfg.Server.Address)
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("BLOKS_PLAYER_NAME", "bob")

	fs := pflag.NewFlagSet("bloks", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--name", "carol", "--seat", "1", "--config", "/nowhere"}))

	cfg, err := LoadConfig(ConfigPath(fs), fs)
	require.NoError(t, err)

	assert.Equal(t, "carol", cfg.Player.Name)
	assert.Equal(t, 1, cfg.Player.Seat)
	assert.Equal(t, "/nowhere", ConfigPath(fs))
	// Unset flags leave defaults alone.
	assert.Equal(t, "localhost:59995", cfg.Server.Address)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown network", "server:\n  network: udp\n"},
		{"websocket without url", "server:\n  network: websocket\n  address: localhost:80\n"},
		{"seat too high", "player:\n  seat: 4\n"},
		{"seat too low", "player:\n  seat: -2\n"},
		{"negative rate", "chat:\n  rate: -1\n"},
		{"zero burst", "chat:\n  rate: 2\n  burst: 0\n"},
		{"log format", "log:\n  format: xml\n"},
		{"negative timeout", "server:\n  dialTimeout: -1s\n"},
		{"malformed yaml", "server: [\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content), nil)
			assert.Error(t, err)
		})
	}
}

func TestConfigPath_NoFlagSet(t *testing.T) {
	assert.Equal(t, "", ConfigPath(nil))
}
