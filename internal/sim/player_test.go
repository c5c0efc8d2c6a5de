package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/lonely-pixel/internal/config"
	"github.com/vovakirdan/lonely-pixel/internal/core"
)

func newTestPhysics() (*Physics, config.GameConfig) {
	cfg := config.DefaultGameConfig()
	return NewPhysics(cfg, rand.New(rand.NewSource(1))), cfg
}

func TestPhysicsWrap(t *testing.T) {
	ph, cfg := newTestPhysics()

	tests := []struct {
		name     string
		x        float64
		expected float64
	}{
		{"left edge wraps right", -1, cfg.World.Width - cfg.Physics.PlayerSize},
		{"right edge wraps left", cfg.World.Width - cfg.Physics.PlayerSize + 1, 0},
		{"inside stays", 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlayer(tt.x, 100, cfg.Physics.PlayerSize, 0)
			ph.Step(&p, core.Intent{}, 1, nil, nil)
			if p.X != tt.expected {
				t.Errorf("X = %v, expected %v", p.X, tt.expected)
			}
		})
	}
}

func TestPhysicsLanding(t *testing.T) {
	ph, cfg := newTestPhysics()
	platforms := []Platform{{Rect: core.NewRect(0, 500, 200, 18)}}

	p := NewPlayer(50, 500-cfg.Physics.PlayerSize-1, cfg.Physics.PlayerSize, 0)
	p.VY = 2
	ph.Step(&p, core.Intent{}, 1, platforms, nil)

	if !p.Grounded {
		t.Fatal("player should be grounded")
	}
	if p.VY != 0 {
		t.Errorf("VY = %v, expected 0", p.VY)
	}
	if p.Bottom() != 500 {
		t.Errorf("Bottom() = %v, expected 500", p.Bottom())
	}
}

func TestPhysicsLandingBand(t *testing.T) {
	tests := []struct {
		name     string
		bottom   float64
		vy       float64
		expected bool
	}{
		{"fast fall from above", 480, 30, true},
		{"very fast fall from above", 480, 60, true},
		{"slow fall short of the top", 480, 5, false},
		{"inside the tolerance below", 520, 2, true},
		{"past the tolerance", 530, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ph, cfg := newTestPhysics()
			platforms := []Platform{{Rect: core.NewRect(0, 500, 200, 18)}}

			p := NewPlayer(50, tt.bottom-cfg.Physics.PlayerSize, cfg.Physics.PlayerSize, 0)
			p.VY = tt.vy
			ph.Step(&p, core.Intent{}, 1, platforms, nil)

			if p.Grounded != tt.expected {
				t.Fatalf("Grounded = %v, expected %v (bottom %v)", p.Grounded, tt.expected, p.Bottom())
			}
			if tt.expected && p.Bottom() != 500 {
				t.Errorf("Bottom() = %v, expected 500", p.Bottom())
			}
		})
	}
}

func TestPhysicsRisingPassesThrough(t *testing.T) {
	ph, cfg := newTestPhysics()
	platforms := []Platform{{Rect: core.NewRect(0, 500, 200, 18)}}

	p := NewPlayer(50, 495, cfg.Physics.PlayerSize, 0)
	p.VY = -10
	ph.Step(&p, core.Intent{}, 1, platforms, nil)
	if p.Grounded {
		t.Error("rising player must not land")
	}
}

func TestPhysicsMovingPlatformCarries(t *testing.T) {
	ph, cfg := newTestPhysics()
	platforms := []Platform{{Rect: core.NewRect(0, 500, 200, 18), VX: 1.5}}

	p := NewPlayer(50, 500-cfg.Physics.PlayerSize, cfg.Physics.PlayerSize, 0)
	p.VY = 1
	ph.Step(&p, core.Intent{}, 1, platforms, nil)
	if !p.Grounded {
		t.Fatal("player should be grounded")
	}
	if math.Abs(p.X-51.5) > eps {
		t.Errorf("X = %v, expected 51.5", p.X)
	}
}

func TestPhysicsCoyoteJump(t *testing.T) {
	ph, cfg := newTestPhysics()
	jump := core.Intent{JumpBuffer: cfg.Physics.JumpBufferSteps}

	tests := []struct {
		name     string
		grounded bool
		coyote   float64
		jumps    bool
	}{
		{"grounded", true, 0, true},
		{"within coyote window", false, 3, true},
		{"coyote expired", false, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlayer(100, 100, cfg.Physics.PlayerSize, 0)
			p.Grounded = tt.grounded
			p.Coyote = tt.coyote
			res := ph.Step(&p, jump, 1, nil, nil)

			if res.JumpConsumed != tt.jumps {
				t.Errorf("JumpConsumed = %v, expected %v", res.JumpConsumed, tt.jumps)
			}
			if tt.jumps {
				if p.VY != cfg.Physics.JumpForce {
					t.Errorf("VY = %v, expected %v", p.VY, cfg.Physics.JumpForce)
				}
				if res.Event.Kind != EventJump {
					t.Errorf("Event = %v, expected jump", res.Event.Kind)
				}
			}
		})
	}
}

func TestPhysicsDoubleJump(t *testing.T) {
	ph, cfg := newTestPhysics()
	jump := core.Intent{JumpBuffer: 1}

	p := NewPlayer(100, 100, cfg.Physics.PlayerSize, 0)
	p.ActivatePower(PowerDoubleJump)
	p.VY = 3

	res := ph.Step(&p, jump, 1, nil, nil)
	if res.Event.Kind != EventDoubleJump || !res.JumpConsumed {
		t.Fatalf("first air jump: event %v consumed %v", res.Event.Kind, res.JumpConsumed)
	}
	res = ph.Step(&p, jump, 1, nil, nil)
	if res.JumpConsumed {
		t.Error("second air jump should not be available")
	}
}

func TestPhysicsJetpackThrust(t *testing.T) {
	ph, cfg := newTestPhysics()

	p := NewPlayer(100, 400, cfg.Physics.PlayerSize, 0)
	p.ActivatePower(PowerJetpack)
	for i := 0; i < 3; i++ {
		res := ph.Step(&p, core.Intent{}, 1, nil, nil)
		if res.Event.Kind != EventThrust {
			t.Errorf("step %d: Event = %v, expected thrust", i, res.Event.Kind)
		}
	}
	if p.VY != cfg.Physics.JetpackVelocity {
		t.Errorf("VY = %v, expected %v", p.VY, cfg.Physics.JetpackVelocity)
	}
	if p.Y != 400+3*cfg.Physics.JetpackVelocity {
		t.Errorf("Y = %v, expected %v", p.Y, 400+3*cfg.Physics.JetpackVelocity)
	}
}

func TestPhysicsPowerReplacesAndExpires(t *testing.T) {
	ph, cfg := newTestPhysics()

	p := NewPlayer(100, 100, cfg.Physics.PlayerSize, 0)
	p.ActivatePower(PowerMagnet)
	boxes := []*Pickup{
		newPickup(100, 100, boxSize, false),
		newPickup(102, 100, boxSize, false),
	}

	res := ph.Step(&p, core.Intent{}, 1, nil, boxes)
	if res.Event.Kind != EventPower {
		t.Fatalf("Event = %v, expected power", res.Event.Kind)
	}
	if p.Power != res.Event.Power || p.Power == PowerNone {
		t.Errorf("Power = %v, event power %v", p.Power, res.Event.Power)
	}
	if p.PowerTimer != p.Power.Spec().Duration {
		t.Errorf("PowerTimer = %v, expected %v", p.PowerTimer, p.Power.Spec().Duration)
	}
	removed := 0
	for _, b := range boxes {
		if b.Removed {
			removed++
		}
	}
	if removed != 1 {
		t.Errorf("collected %d boxes in one step, expected 1", removed)
	}

	p.PowerTimer = 0.5
	ph.Step(&p, core.Intent{}, 1, nil, nil)
	if p.Power != PowerNone {
		t.Errorf("Power = %v after expiry, expected none", p.Power)
	}
}

func TestPhysicsMagnetPull(t *testing.T) {
	ph, cfg := newTestPhysics()

	p := NewPlayer(100, 100, cfg.Physics.PlayerSize, 0)
	p.ActivatePower(PowerMagnet)
	shard := newPickup(100, 250, shardSize, true)

	ph.Step(&p, core.Intent{}, 1, nil, []*Pickup{shard})
	if shard.Y >= 250 {
		t.Errorf("shard Y = %v, expected pulled above 250", shard.Y)
	}
	if shard.BaseY != shard.Y {
		t.Errorf("BaseY = %v, expected to follow Y %v", shard.BaseY, shard.Y)
	}
}

func TestPhysicsCurrencyEvent(t *testing.T) {
	ph, cfg := newTestPhysics()

	p := NewPlayer(100, 100, cfg.Physics.PlayerSize, 0)
	shard := newPickup(105, 105, shardSize, true)
	res := ph.Step(&p, core.Intent{}, 1, nil, []*Pickup{shard})
	if res.Event.Kind != EventCurrency {
		t.Errorf("Event = %v, expected currency", res.Event.Kind)
	}
	if p.Power != PowerNone {
		t.Errorf("Power = %v, shards must not grant powers", p.Power)
	}
}
