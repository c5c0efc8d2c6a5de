package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := parse(defaultPixelYAML)
	if err != nil {
		t.Fatalf("parse(embedded) error = %v", err)
	}
	if cfg != DefaultGameConfig() {
		t.Errorf("embedded yaml and DefaultGameConfig() disagree:\n%+v\n%+v", cfg, DefaultGameConfig())
	}
}

func TestLoadCustomPathOverridesOnlyGivenKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	data := "physics:\n  gravity: 0.5\nnetwork:\n  heartbeat_interval: 1s\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Physics.Gravity != 0.5 {
		t.Errorf("Gravity = %v, expected 0.5", cfg.Physics.Gravity)
	}
	if cfg.Network.HeartbeatInterval != time.Second {
		t.Errorf("HeartbeatInterval = %v, expected 1s", cfg.Network.HeartbeatInterval)
	}
	if cfg.Physics.JumpForce != -13.2 {
		t.Errorf("JumpForce = %v, expected default -13.2", cfg.Physics.JumpForce)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "failed to read config") {
		t.Errorf("Load() error = %v, expected read failure", err)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("physics:\n  friction: 1.5\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should reject friction > 1")
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset  DifficultyPreset
		enabled bool
		scale   float64
	}{
		{DifficultyEasy, true, 0.75},
		{DifficultyNormal, true, 1.0},
		{DifficultyHard, true, 1.5},
		{DifficultyFixed, false, 1.0},
	}
	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultGameConfig()
			ApplyPreset(&cfg, tc.preset)
			if cfg.Difficulty.Enabled != tc.enabled {
				t.Errorf("Enabled = %v, expected %v", cfg.Difficulty.Enabled, tc.enabled)
			}
			if cfg.Difficulty.EnemyScale != tc.scale {
				t.Errorf("EnemyScale = %v, expected %v", cfg.Difficulty.EnemyScale, tc.scale)
			}
		})
	}

	if _, err := ParsePreset("nightmare"); err == nil {
		t.Error("ParsePreset should reject unknown names")
	}
}

func TestDifficultyCurves(t *testing.T) {
	d := NewDifficultyManager(DefaultGameConfig())

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"moving chance below start", d.MovingChance(4000), 0},
		{"moving chance mid", d.MovingChance(11000), 0.3},
		{"moving chance capped", d.MovingChance(100000), 0.4},
		{"power chance at zero", d.PowerChance(0), 0.08},
		{"power chance half", d.PowerChance(4000), 0.04},
		{"power chance floor", d.PowerChance(9000), 0},
		{"shooter chance gated", d.ShooterChance(1000), 0},
		{"shooter chance mid", d.ShooterChance(2000), 0.25},
		{"shooter chance cap", d.ShooterChance(9000), 0.5},
		{"drone difficulty", d.DroneDifficulty(2000, 1), 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if math.Abs(tc.got-tc.want) > 1e-9 {
				t.Errorf("got %v, expected %v", tc.got, tc.want)
			}
		})
	}

	if got := d.DroneInterval(250); got != 117 {
		t.Errorf("DroneInterval(250) = %d, expected 117", got)
	}
	if got := d.DroneInterval(9000); got != 60 {
		t.Errorf("DroneInterval(9000) = %d, expected 60", got)
	}
	if d.BossDue(9999, 0) || !d.BossDue(10000, 0) || d.BossDue(10000, 1) {
		t.Error("BossDue thresholds wrong")
	}
}

func TestDifficultyFixedIgnoresAltitude(t *testing.T) {
	cfg := DefaultGameConfig()
	ApplyPreset(&cfg, DifficultyFixed)
	d := NewDifficultyManager(cfg)

	if got := d.DroneDifficulty(8000, 0); got != 1 {
		t.Errorf("DroneDifficulty with fixed preset = %v, expected 1", got)
	}
}
