package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the client settings.
type Config struct {
	ServerURL       string        `env:"SERVER_URL" envDefault:"ws://localhost:8080/ws"`
	GameID          string        `env:"GAME_ID" envDefault:"default"`
	MaxResponseTime time.Duration `env:"MAX_RESPONSE_TIME" envDefault:"15s"`
	DBPath          string        `env:"DB_PATH" envDefault:"posio.db"`
	LogLevel        slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

// Playback holds the practice server settings.
type Playback struct {
	HTTPAddr     string        `env:"HTTP_ADDR" envDefault:":8080"`
	TurnDuration time.Duration `env:"TURN_DURATION" envDefault:"15s"`
	LogLevel     slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
}

func LoadPlayback() (*Playback, error) {
	cfg, err := env.ParseAs[Playback]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
