package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFile = "pixel.yaml"

// Load loads the game configuration.
// Search order: customPath -> ~/.pixel/configs/pixel.yaml -> ./configs/pixel.yaml -> embedded default.
// Files are decoded over the defaults, so they only need the keys they change.
func Load(customPath string) (GameConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return GameConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return GameConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(configFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", configFile)); err == nil {
		if cfg, err := parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parse(defaultPixelYAML)
	if err != nil {
		return DefaultGameConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func parse(data []byte) (GameConfig, error) {
	cfg := DefaultGameConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return GameConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return GameConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pixel", "configs", filename)
}

// Validate rejects configurations the simulation cannot run with.
func (c GameConfig) Validate() error {
	var errs []error
	if c.World.Width <= 0 || c.World.Height <= 0 {
		errs = append(errs, fmt.Errorf("world size must be positive, got %vx%v", c.World.Width, c.World.Height))
	}
	if c.World.MaxDt <= 0 {
		errs = append(errs, errors.New("world.max_dt must be positive"))
	}
	if c.Physics.Friction <= 0 || c.Physics.Friction > 1 {
		errs = append(errs, fmt.Errorf("physics.friction must be in (0, 1], got %v", c.Physics.Friction))
	}
	if c.Platforms.BaseGap <= 0 {
		errs = append(errs, errors.New("platforms.base_gap must be positive"))
	}
	if c.Platforms.MovingMinWidth < c.Physics.PlayerSize {
		errs = append(errs, fmt.Errorf("platforms.moving_min_width %v is narrower than the player", c.Platforms.MovingMinWidth))
	}
	if c.Platforms.MinWidth+c.Platforms.WidthRange > c.World.Width {
		errs = append(errs, errors.New("platforms wider than the world"))
	}
	if c.Enemies.DroneMinInterval <= 0 || c.Enemies.BossLoopMeters <= 0 {
		errs = append(errs, errors.New("enemies.drone_min_interval and enemies.boss_loop_meters must be positive"))
	}
	if c.Hazards.MeteorInterval <= 0 {
		errs = append(errs, errors.New("hazards.meteor_interval must be positive"))
	}
	if c.Network.SyncEvery <= 0 {
		errs = append(errs, errors.New("network.sync_every must be positive"))
	}
	if c.Network.ConnectAttempts <= 0 {
		errs = append(errs, errors.New("network.connect_attempts must be positive"))
	}
	if c.Network.WatchdogTimeout <= c.Network.HeartbeatInterval {
		errs = append(errs, errors.New("network.watchdog_timeout must exceed the heartbeat interval"))
	}
	return errors.Join(errs...)
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *GameConfig, preset DifficultyPreset) {
	if IsFixedPreset(preset) {
		cfg.Difficulty.Enabled = false
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.EnemyScale = EnemyScaleForPreset(preset)
}

// ParsePreset converts a flag value into a preset.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	case "":
		return DifficultyNormal, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}
