package sim

import (
	"github.com/vovakirdan/lonely-pixel/internal/config"
	"github.com/vovakirdan/lonely-pixel/internal/core"
)

const (
	boxSize   = 24
	shardSize = 16
)

// Generator places platforms and their pickups from the seeded sequence.
// The number and order of draws per platform is fixed; changing it breaks
// cross-peer determinism.
type Generator struct {
	rng   *Rand
	cfg   config.PlatformConfig
	width float64
	diff  *config.DifficultyManager
}

// NewGenerator creates a generator for the given seed.
func NewGenerator(seed int64, cfg config.GameConfig) *Generator {
	return &Generator{
		rng:   NewRand(seed),
		cfg:   cfg.Platforms,
		width: cfg.World.Width,
		diff:  config.NewDifficultyManager(cfg),
	}
}

// Rand exposes the underlying sequence.
func (g *Generator) Rand() *Rand {
	return g.rng
}

// SpawnPlatform creates one platform at y and at most one pickup above it.
// Draw order: width, x, [moving roll, direction, speed], power roll, [shard roll].
func (g *Generator) SpawnPlatform(y, score float64) (Platform, *Pickup) {
	w := g.cfg.MinWidth + g.rng.Next()*g.cfg.WidthRange
	x := g.rng.Next() * (g.width - w)

	var vx float64
	if score > g.cfg.MovingStartScore && g.rng.Next() < g.diff.MovingChance(score) {
		dir := -1.0
		if g.rng.Next() > 0.5 {
			dir = 1
		}
		vx = dir * (g.cfg.MovingMinSpeed + g.rng.Next()*g.cfg.MovingSpeedRange)
		w = max(g.cfg.MovingMinWidth, w-g.cfg.MovingShrink)
	}
	if !assert(w >= g.cfg.MovingMinWidth, "platform narrower than minimum") {
		w = g.cfg.MovingMinWidth
	}

	platform := Platform{Rect: core.NewRect(x, y, w, g.cfg.Height), VX: vx}

	if g.rng.Next() < g.diff.PowerChance(score) {
		return platform, newPickup(x+w/2-boxSize/2, y-40, boxSize, false)
	}
	if g.rng.Next() < g.cfg.ShardChance {
		return platform, newPickup(x+w/2-shardSize/2, y-30, shardSize, true)
	}
	return platform, nil
}

func newPickup(x, y, size float64, currency bool) *Pickup {
	return &Pickup{
		Rect:     core.NewRect(x, y, size, size),
		BaseY:    y,
		Currency: currency,
	}
}
