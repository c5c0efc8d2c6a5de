package config

import (
	"math"

	"github.com/vovakirdan/lonely-pixel/internal/core"
)

// DifficultyManager derives spawn and placement curves from altitude.
// Every method is a pure function of its arguments; there is no hidden tuning state.
type DifficultyManager struct {
	platforms PlatformConfig
	enemies   EnemyConfig
	cfg       DifficultyConfig
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg GameConfig) *DifficultyManager {
	return &DifficultyManager{
		platforms: cfg.Platforms,
		enemies:   cfg.Enemies,
		cfg:       cfg.Difficulty,
	}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled
}

// MovingChance returns the probability that a new platform moves.
// Score is in world units.
func (d *DifficultyManager) MovingChance(score float64) float64 {
	span := d.platforms.MovingScoreSpan
	if span <= 0 {
		span = 1
	}
	return core.ClampF((score-d.platforms.MovingStartScore)/span, 0, d.platforms.MovingMaxChance)
}

// PowerChance returns the probability that a new platform carries a power box.
func (d *DifficultyManager) PowerChance(score float64) float64 {
	fade := d.platforms.PowerFadeScore
	if fade <= 0 {
		return d.platforms.PowerBaseChance
	}
	return math.Max(0, d.platforms.PowerBaseChance*(1-score/fade))
}

// DroneInterval returns the number of frames between drone spawns.
func (d *DifficultyManager) DroneInterval(meters int) int {
	interval := int(math.Floor(float64(d.enemies.DroneSpawnRate) - float64(meters)/100))
	return max(d.enemies.DroneMinInterval, interval)
}

// DroneDifficulty returns the speed and fire-rate multiplier for new drones.
func (d *DifficultyManager) DroneDifficulty(meters, loops int) float64 {
	level := 1.0 + float64(loops)
	if d.IsEnabled() && d.cfg.Progression.MetersPerLevel > 0 {
		level += float64(meters) / d.cfg.Progression.MetersPerLevel
	}
	scale := d.cfg.EnemyScale
	if scale <= 0 {
		scale = 1
	}
	return level * scale
}

// ShooterChance returns the probability that a drone spawn is a shooter.
func (d *DifficultyManager) ShooterChance(meters int) float64 {
	gate := d.enemies.ShooterGateMeters
	if meters <= gate {
		return 0
	}
	return math.Min(0.5, float64(meters-gate)/4000)
}

// BossDue reports whether the altitude has passed an unfinished boss loop.
func (d *DifficultyManager) BossDue(meters, loops int) bool {
	if d.enemies.BossLoopMeters <= 0 {
		return false
	}
	return meters/d.enemies.BossLoopMeters > loops
}
