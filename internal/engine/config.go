package engine

import (
	"time"

	"github.com/Kobrals/feeriequest-3d/pkg/utils"
)

// Config holds the engine's start-up parameters.
type Config struct {
	// Seed is the master seed. Every random draw of the simulation derives
	// from it unless Source is set.
	Seed   int64
	Source utils.Source

	WanderInterval  time.Duration // <= 0 disables wandering
	RespawnInterval time.Duration // <= 0 disables replenishment

	MonsterCount  int
	BossCount     int
	CommandBuffer int
}

// NewConfig returns the default configuration with a random seed.
func NewConfig() Config {
	return Config{
		Seed:           time.Now().UnixNano(),
		WanderInterval: 1500 * time.Millisecond,
		MonsterCount:   8,
		BossCount:      1,
		CommandBuffer:  256,
	}
}

func (c Config) source() utils.Source {
	if c.Source != nil {
		return c.Source
	}
	return utils.NewSource(c.Seed)
}
