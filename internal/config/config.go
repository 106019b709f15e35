package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Kobrals/feeriequest-3d/internal/engine"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Port         int           `env:"PORT" envDefault:"3000"`
	JWTSecret    string        `env:"JWT_SECRET" envDefault:"dev_secret"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" envDefault:"168h"`
	DatabasePath string        `env:"DATABASE_PATH" envDefault:"feeriequest.db"`
	StaticDir    string        `env:"STATIC_DIR" envDefault:"public"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat    string        `env:"LOG_FORMAT" envDefault:"text"`

	// GameSeed 0 means "pick a random seed".
	GameSeed        int64         `env:"GAME_SEED" envDefault:"0"`
	WanderInterval  time.Duration `env:"WANDER_INTERVAL" envDefault:"1500ms"`
	RespawnInterval time.Duration `env:"RESPAWN_INTERVAL" envDefault:"0s"`
	MonsterCount    int           `env:"MONSTER_COUNT" envDefault:"8"`
	BossCount       int           `env:"BOSS_COUNT" envDefault:"1"`
	CommandBuffer   int           `env:"COMMAND_BUFFER" envDefault:"256"`

	SaveQueueSize int           `env:"SAVE_QUEUE_SIZE" envDefault:"256"`
	SaveWorkers   int           `env:"SAVE_WORKERS" envDefault:"2"`
	SaveTimeout   time.Duration `env:"SAVE_TIMEOUT" envDefault:"5s"`

	// Practice bots playing in-process as guests.
	BotCount    int           `env:"BOT_COUNT" envDefault:"0"`
	BotInterval time.Duration `env:"BOT_INTERVAL" envDefault:"700ms"`
}

// Load parses and validates the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("DATABASE_PATH is required"))
	}
	if c.MonsterCount < 0 || c.BossCount < 0 || c.BotCount < 0 {
		errs = append(errs, errors.New("MONSTER_COUNT, BOSS_COUNT and BOT_COUNT must not be negative"))
	}
	if c.SaveWorkers < 1 || c.SaveQueueSize < 1 || c.CommandBuffer < 1 {
		errs = append(errs, errors.New("SAVE_WORKERS, SAVE_QUEUE_SIZE and COMMAND_BUFFER must be positive"))
	}
	return errors.Join(errs...)
}

// Addr is the HTTP listen address.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Engine derives the game engine configuration.
func (c Config) Engine() engine.Config {
	cfg := engine.NewConfig()
	if c.GameSeed != 0 {
		cfg.Seed = c.GameSeed
	}
	cfg.WanderInterval = c.WanderInterval
	cfg.RespawnInterval = c.RespawnInterval
	cfg.MonsterCount = c.MonsterCount
	cfg.BossCount = c.BossCount
	cfg.CommandBuffer = c.CommandBuffer
	return cfg
}
