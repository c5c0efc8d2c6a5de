// Package config provides YAML-based game configuration loading and
// difficulty curves for the climber.
package config

import "time"

// GameConfig contains every tunable of the simulation and its network layer.
type GameConfig struct {
	World      WorldConfig      `yaml:"world"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Platforms  PlatformConfig   `yaml:"platforms"`
	Enemies    EnemyConfig      `yaml:"enemies"`
	Hazards    HazardConfig     `yaml:"hazards"`
	Network    NetworkConfig    `yaml:"network"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// WorldConfig defines the bounded coordinate space the camera scrolls through.
type WorldConfig struct {
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
	ScrollThreshold float64 `yaml:"scroll_threshold"` // Fraction of height that triggers scrolling
	CullMargin      float64 `yaml:"cull_margin"`      // Entities this far below the bottom are dropped
	MaxDt           float64 `yaml:"max_dt"`           // Cap on a single step, in nominal steps
}

// PhysicsConfig defines player kinematics.
type PhysicsConfig struct {
	Gravity          float64 `yaml:"gravity"`
	Friction         float64 `yaml:"friction"`
	Speed            float64 `yaml:"speed"`
	JumpForce        float64 `yaml:"jump_force"`
	SuperJumpForce   float64 `yaml:"super_jump_force"`
	BounceForce      float64 `yaml:"bounce_force"`
	JetpackVelocity  float64 `yaml:"jetpack_velocity"`
	CoyoteSteps      float64 `yaml:"coyote_steps"`
	JumpBufferSteps  float64 `yaml:"jump_buffer_steps"`
	PlayerSize       float64 `yaml:"player_size"`
	LandingTolerance float64 `yaml:"landing_tolerance"`
	MagnetRadius     float64 `yaml:"magnet_radius"`
	MagnetPull       float64 `yaml:"magnet_pull"`
	TrailThreshold   float64 `yaml:"trail_threshold"`
}

// PlatformConfig defines procedural platform placement.
type PlatformConfig struct {
	BaseGap          float64 `yaml:"base_gap"`
	Height           float64 `yaml:"height"`
	MinWidth         float64 `yaml:"min_width"`
	WidthRange       float64 `yaml:"width_range"`
	MovingMinWidth   float64 `yaml:"moving_min_width"`
	MovingShrink     float64 `yaml:"moving_shrink"`
	MovingStartScore float64 `yaml:"moving_start_score"`
	MovingScoreSpan  float64 `yaml:"moving_score_span"`
	MovingMaxChance  float64 `yaml:"moving_max_chance"`
	MovingMinSpeed   float64 `yaml:"moving_min_speed"`
	MovingSpeedRange float64 `yaml:"moving_speed_range"`
	PowerBaseChance  float64 `yaml:"power_base_chance"`
	PowerFadeScore   float64 `yaml:"power_fade_score"`
	ShardChance      float64 `yaml:"shard_chance"`
}

// EnemyConfig defines drone, shooter and boss behavior.
type EnemyConfig struct {
	DroneBaseVelocity float64 `yaml:"drone_base_velocity"`
	DroneMaxVelocity  float64 `yaml:"drone_max_velocity"`
	DroneSpawnRate    int     `yaml:"drone_spawn_rate"`    // Frames between spawns at 0m
	DroneMinInterval  int     `yaml:"drone_min_interval"`  // Floor on the spawn interval
	DroneGateMeters   int     `yaml:"drone_gate_meters"`   // No drones at or below this altitude
	ShooterGateMeters int     `yaml:"shooter_gate_meters"` // No shooters at or below this altitude
	ProjectileSpeed   float64 `yaml:"projectile_speed"`
	BossLoopMeters    int     `yaml:"boss_loop_meters"`
	BossBonus         float64 `yaml:"boss_bonus"`
	BossHP            int     `yaml:"boss_hp"`
	TimeWarpScale     float64 `yaml:"time_warp_scale"`
}

// HazardConfig defines altitude-gated environmental hazards.
type HazardConfig struct {
	WindStartMeters   int     `yaml:"wind_start_meters"`
	WindEndMeters     int     `yaml:"wind_end_meters"`
	WindStrength      float64 `yaml:"wind_strength"`
	MeteorStartMeters int     `yaml:"meteor_start_meters"`
	MeteorInterval    int     `yaml:"meteor_interval"`
}

// NetworkConfig defines peer sync cadence and connection timings.
type NetworkConfig struct {
	RelayURL           string        `yaml:"relay_url"`
	SyncEvery          int           `yaml:"sync_every"` // Steps between sync messages
	HeartbeatInterval  time.Duration `yaml:"heartbeat_interval"`
	WatchdogTimeout    time.Duration `yaml:"watchdog_timeout"`
	ConnectAttempts    int           `yaml:"connect_attempts"`
	ConnectTimeout     time.Duration `yaml:"connect_timeout"`
	ConnectBackoff     time.Duration `yaml:"connect_backoff"`
	RespawnBaseSeconds int           `yaml:"respawn_base_seconds"`
	RespawnStepSeconds int           `yaml:"respawn_step_seconds"`
	LobbyTTL           time.Duration `yaml:"lobby_ttl"`
}

// DifficultyConfig defines how enemy pressure grows with altitude.
type DifficultyConfig struct {
	Enabled     bool              `yaml:"enabled"`
	EnemyScale  float64           `yaml:"enemy_scale"` // Multiplier on drone difficulty
	Progression ProgressionConfig `yaml:"progression"`
}

// ProgressionConfig defines the altitude curve of drone difficulty.
type ProgressionConfig struct {
	MetersPerLevel float64 `yaml:"meters_per_level"` // Altitude adding +1 difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// EnemyScaleForPreset returns the drone difficulty multiplier for a preset.
func EnemyScaleForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.75
	case DifficultyHard:
		return 1.5
	default:
		return 1.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
