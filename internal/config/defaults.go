package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/pixel.yaml
var defaultPixelYAML []byte

// DefaultGameConfig returns the built-in configuration.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		World: WorldConfig{
			Width:           600,
			Height:          800,
			ScrollThreshold: 0.5,
			CullMargin:      100,
			MaxDt:           4,
		},
		Physics: PhysicsConfig{
			Gravity:          0.6,
			Friction:         0.85,
			Speed:            0.9,
			JumpForce:        -13.2,
			SuperJumpForce:   -22,
			BounceForce:      -25,
			JetpackVelocity:  -16,
			CoyoteSteps:      8,
			JumpBufferSteps:  6,
			PlayerSize:       26,
			LandingTolerance: 10,
			MagnetRadius:     200,
			MagnetPull:       0.1,
			TrailThreshold:   2,
		},
		Platforms: PlatformConfig{
			BaseGap:          95,
			Height:           18,
			MinWidth:         100,
			WidthRange:       80,
			MovingMinWidth:   70,
			MovingShrink:     30,
			MovingStartScore: 5000,
			MovingScoreSpan:  20000,
			MovingMaxChance:  0.4,
			MovingMinSpeed:   0.5,
			MovingSpeedRange: 1.5,
			PowerBaseChance:  0.08,
			PowerFadeScore:   8000,
			ShardChance:      0.25,
		},
		Enemies: EnemyConfig{
			DroneBaseVelocity: 2,
			DroneMaxVelocity:  8,
			DroneSpawnRate:    120,
			DroneMinInterval:  60,
			DroneGateMeters:   200,
			ShooterGateMeters: 1000,
			ProjectileSpeed:   6,
			BossLoopMeters:    10000,
			BossBonus:         50000,
			BossHP:            10,
			TimeWarpScale:     0.3,
		},
		Hazards: HazardConfig{
			WindStartMeters:   1000,
			WindEndMeters:     3000,
			WindStrength:      0.3,
			MeteorStartMeters: 6000,
			MeteorInterval:    90,
		},
		Network: NetworkConfig{
			RelayURL:           "ws://localhost:8787/relay",
			SyncEvery:          2,
			HeartbeatInterval:  2 * time.Second,
			WatchdogTimeout:    8 * time.Second,
			ConnectAttempts:    3,
			ConnectTimeout:     5 * time.Second,
			ConnectBackoff:     750 * time.Millisecond,
			RespawnBaseSeconds: 15,
			RespawnStepSeconds: 10,
			LobbyTTL:           10 * time.Minute,
		},
		Difficulty: DifficultyConfig{
			Enabled:    true,
			EnemyScale: 1.0,
			Progression: ProgressionConfig{
				MetersPerLevel: 2000,
			},
		},
	}
}
