package sim

import (
	"math"

	"github.com/vovakirdan/lonely-pixel/internal/core"
)

// Platform is a landable ledge. VX is zero for static platforms.
type Platform struct {
	core.Rect
	VX float64
}

// Pickup is a power box or a currency shard floating above a platform.
type Pickup struct {
	core.Rect
	BaseY    float64 // Center line of the bob
	Currency bool
	Removed  bool
}

// Bob offsets the pickup from its baseline for elapsed time t.
func (p *Pickup) Bob(t float64) {
	p.Y = p.BaseY + math.Sin(t*0.1)*5
}

// ProjectileKind tags a Projectile.
type ProjectileKind uint8

const (
	ProjectileBolt ProjectileKind = iota
	ProjectileMeteor
)

// Projectile moves in a straight line until it leaves the world.
type Projectile struct {
	Kind ProjectileKind
	core.Rect
	VX, VY  float64
	Removed bool
}

// NewBolt creates an 8x8 shot.
func NewBolt(x, y, vx, vy float64) *Projectile {
	return &Projectile{Kind: ProjectileBolt, Rect: core.NewRect(x, y, 8, 8), VX: vx, VY: vy}
}

// NewMeteor creates a 14x14 falling rock.
func NewMeteor(x, y, vx, vy float64) *Projectile {
	return &Projectile{Kind: ProjectileMeteor, Rect: core.NewRect(x, y, 14, 14), VX: vx, VY: vy}
}

// Update advances the projectile and flags it once it leaves the extended bounds.
func (p *Projectile) Update(dt, width, height float64) {
	p.X += p.VX * dt
	p.Y += p.VY * dt

	switch p.Kind {
	case ProjectileBolt:
		if p.Y > height+50 || p.Y < -500 || p.X < -50 || p.X > width+50 {
			p.Removed = true
		}
	case ProjectileMeteor:
		if p.Y > height+50 || p.X < -100 || p.X > width+200 {
			p.Removed = true
		}
	}
}
