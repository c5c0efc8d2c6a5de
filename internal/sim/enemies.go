package sim

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/lonely-pixel/internal/config"
	"github.com/vovakirdan/lonely-pixel/internal/core"
)

// EnemyKind tags an Enemy variant.
type EnemyKind uint8

const (
	EnemyDrone EnemyKind = iota
	EnemyShooter
	EnemyBoss
)

func (k EnemyKind) String() string {
	switch k {
	case EnemyDrone:
		return "drone"
	case EnemyShooter:
		return "shooter"
	case EnemyBoss:
		return "boss"
	default:
		return "unknown"
	}
}

// Enemy is a hostile entity. Fields past Removed are only meaningful for
// the variants noted.
type Enemy struct {
	Kind EnemyKind
	core.Rect
	Removed bool

	// Drone and shooter
	V          float64 // Signed horizontal speed
	Phase      float64 // Bob phase offset
	Difficulty float64

	// Shooter and boss
	ShootTimer float64

	// Boss
	HP, MaxHP    int
	HoverY       float64
	HoverOffsetX float64
}

// EnemyEnv is what an enemy may read from the world while updating.
type EnemyEnv struct {
	Player *Player
	Width  float64
	Time   float64 // Elapsed run time in steps
	Rand   *rand.Rand
	Cfg    config.EnemyConfig
}

// NewDrone spawns a drone just outside a random side at height y.
func NewDrone(y, difficulty, width float64, rng *rand.Rand, cfg config.EnemyConfig) *Enemy {
	return newDrone(EnemyDrone, y, difficulty, width, 30, 20, rng, cfg)
}

// NewShooter spawns a drone that fires aimed bolts.
func NewShooter(y, difficulty, width float64, rng *rand.Rand, cfg config.EnemyConfig) *Enemy {
	e := newDrone(EnemyShooter, y, difficulty, width, 34, 24, rng, cfg)
	e.ShootTimer = 60 + rng.Float64()*60
	return e
}

func newDrone(kind EnemyKind, y, difficulty, width, w, h float64, rng *rand.Rand, cfg config.EnemyConfig) *Enemy {
	x, dir := -40.0, 1.0
	if rng.Float64() >= 0.5 {
		x, dir = width+40, -1
	}
	speed := math.Min((cfg.DroneBaseVelocity+rng.Float64()*3)*difficulty, cfg.DroneMaxVelocity)
	return &Enemy{
		Kind:       kind,
		Rect:       core.NewRect(x, y, w, h),
		V:          speed * dir,
		Phase:      rng.Float64() * math.Pi * 2,
		Difficulty: difficulty,
	}
}

// NewBoss spawns a boss centered horizontally at height y.
func NewBoss(y, width float64, cfg config.EnemyConfig) *Enemy {
	const w, h = 120, 80
	return &Enemy{
		Kind:       EnemyBoss,
		Rect:       core.NewRect(width/2-w/2, y, w, h),
		HP:         cfg.BossHP,
		MaxHP:      cfg.BossHP,
		ShootTimer: 100,
		HoverY:     y,
	}
}

// Update advances the enemy by dt and returns any projectiles it fired.
func (e *Enemy) Update(dt float64, env EnemyEnv) []*Projectile {
	switch e.Kind {
	case EnemyDrone:
		e.fly(dt, env.Width)
		return nil
	case EnemyShooter:
		e.fly(dt, env.Width)
		return e.shootAimed(dt, env)
	case EnemyBoss:
		return e.hover(dt, env)
	}
	return nil
}

func (e *Enemy) fly(dt, width float64) {
	e.X += e.V * dt
	e.Y += math.Sin(e.X*0.05+e.Phase) * 2
	if (e.V > 0 && e.X > width+50) || (e.V < 0 && e.X < -100) {
		e.Removed = true
	}
}

func (e *Enemy) shootAimed(dt float64, env EnemyEnv) []*Projectile {
	e.ShootTimer -= dt
	if e.ShootTimer > 0 {
		return nil
	}
	e.ShootTimer = math.Max(40, 120-e.Difficulty*10) + env.Rand.Float64()*60
	if env.Player == nil {
		return nil
	}

	px, py := env.Player.Center()
	ex, ey := e.Center()
	dx, dy := px-ex, py-ey
	dist := core.Dist(ex, ey, px, py)
	if dist == 0 {
		dx, dy, dist = 0, 1, 1
	}
	speed := env.Cfg.ProjectileSpeed
	return []*Projectile{NewBolt(ex-4, ey-4, dx/dist*speed, dy/dist*speed)}
}

func (e *Enemy) hover(dt float64, env EnemyEnv) []*Projectile {
	if env.Player != nil {
		target := env.Player.Y - 450
		if e.HoverY < target {
			e.HoverY += (target - e.HoverY) * 0.05 * dt
		} else {
			e.HoverY = target
		}
	}
	e.Y = e.HoverY + math.Sin(env.Time/30)*20

	e.HoverOffsetX += 2 * dt
	e.X = env.Width/2 - e.W/2 + math.Sin(e.HoverOffsetX*0.02)*150

	e.ShootTimer -= dt
	if e.ShootTimer > 0 {
		return nil
	}
	e.ShootTimer = 90
	shots := make([]*Projectile, 0, 3)
	for i := -1; i <= 1; i++ {
		shots = append(shots, NewBolt(e.X+e.W/2, e.Bottom(), float64(i)*3, env.Cfg.ProjectileSpeed))
	}
	return shots
}

// TakeDamage applies one stomp to a boss. It reports whether the boss died.
func (e *Enemy) TakeDamage() bool {
	if e.Kind != EnemyBoss {
		e.Removed = true
		return true
	}
	e.HP--
	e.HoverY -= 800
	e.ShootTimer = 20
	if e.HP <= 0 {
		e.Removed = true
	}
	return e.Removed
}
