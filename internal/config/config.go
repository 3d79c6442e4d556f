package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the top-level configuration for the Tichu session server.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Network NetworkConfig `toml:"network"`
	Game    GameConfig    `toml:"game"`
	Logging LoggingConfig `toml:"logging"`
}

// ServerConfig names the process and records its boot time.
type ServerConfig struct {
	Name      string `toml:"name"`
	StartTime int64  // set at boot, not read from the file
}

// NetworkConfig governs the websocket listener and per-connection queues.
type NetworkConfig struct {
	BindAddress       string        `toml:"bind_address"`
	InQueueSize       int           `toml:"in_queue_size"`
	OutQueueSize      int           `toml:"out_queue_size"`
	HeartbeatInterval time.Duration `toml:"heartbeat_interval"`
	HeartbeatTimeout  time.Duration `toml:"heartbeat_timeout"`
	WriteTimeout      time.Duration `toml:"write_timeout"`
}

// GameConfig holds room-lifecycle and game-code settings. Nothing reads
// them at runtime: game codes use the fixed lengths in
// internal/session/codes.go, and no reconnect or room-retention timer
// exists.
type GameConfig struct {
	CodeLength         int           `toml:"code_length"`
	MaxCodeLength      int           `toml:"max_code_length"`
	ReconnectGrace     time.Duration `toml:"reconnect_grace"`
	EmptyRoomRetention time.Duration `toml:"empty_room_retention"`
}

// LoggingConfig selects zap's level and encoding.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Load reads and parses a TOML config file, starting from defaults so an
// incomplete file still produces a usable configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Server.StartTime = time.Now().Unix()
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "tichu-server",
		},
		Network: NetworkConfig{
			BindAddress:       "0.0.0.0:8080",
			InQueueSize:       32,
			OutQueueSize:      64,
			HeartbeatInterval: 20 * time.Second,
			HeartbeatTimeout:  60 * time.Second,
			WriteTimeout:      10 * time.Second,
		},
		Game: GameConfig{
			CodeLength:         4,
			MaxCodeLength:      8,
			ReconnectGrace:     2 * time.Minute,
			EmptyRoomRetention: 10 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
