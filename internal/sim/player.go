package sim

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/lonely-pixel/internal/config"
	"github.com/vovakirdan/lonely-pixel/internal/core"
)

// Player is either the locally simulated climber or the remote shadow.
type Player struct {
	core.Rect
	VX, VY      float64
	Skin        int
	Grounded    bool
	Coyote      float64
	DoubleReady bool
	Power       PowerKind
	PowerTimer  float64
	Dead        bool
}

// NewPlayer places a player at (x, y).
func NewPlayer(x, y, size float64, skin int) Player {
	return Player{Rect: core.NewRect(x, y, size, size), Skin: WrapSkin(skin)}
}

// ActivatePower installs a power, replacing any active one.
func (p *Player) ActivatePower(k PowerKind) {
	p.Power = k
	p.PowerTimer = k.Spec().Duration
	if k == PowerDoubleJump {
		p.DoubleReady = true
	}
}

// ClearPower drops the active power.
func (p *Player) ClearPower() {
	p.Power = PowerNone
	p.PowerTimer = 0
	p.DoubleReady = false
}

// Has reports whether k is the active power.
func (p Player) Has(k PowerKind) bool {
	return p.Power == k
}

// PhysicsResult is what one physics step reports upward.
type PhysicsResult struct {
	Event        Event
	JumpConsumed bool
}

// Physics advances the local player against the world.
type Physics struct {
	cfg   config.GameConfig
	width float64
	rng   *rand.Rand // Power rolls; never the world sequence
}

// NewPhysics creates a physics engine. rng drives power-box rolls.
func NewPhysics(cfg config.GameConfig, rng *rand.Rand) *Physics {
	return &Physics{cfg: cfg, width: cfg.World.Width, rng: rng}
}

// Step advances p by dt nominal steps.
func (ph *Physics) Step(p *Player, in core.Intent, dt float64, platforms []Platform, pickups []*Pickup) PhysicsResult {
	var res PhysicsResult
	emit := func(e Event) {
		if e.Kind.priority() > res.Event.Kind.priority() {
			res.Event = e
		}
	}
	pc := ph.cfg.Physics
	ability := SkinAt(p.Skin).Ability

	// Power timer
	if p.Power != PowerNone {
		p.PowerTimer -= dt
		if p.PowerTimer <= 0 {
			p.ClearPower()
		}
	}

	// Horizontal
	accel := pc.Speed * ability.SpeedMult * dt
	if in.Left {
		p.VX -= accel
	}
	if in.Right {
		p.VX += accel
	}
	p.VX *= math.Pow(pc.Friction, dt)
	p.X += p.VX * dt
	ph.wrap(p)

	// Vertical
	if p.Has(PowerJetpack) {
		p.VY = pc.JetpackVelocity
		p.Y += p.VY * dt
		emit(Event{Kind: EventThrust, X: p.X + p.W/2, Y: p.Bottom()})
	} else {
		p.VY += pc.Gravity * ability.GravityMult * dt
		p.Y += p.VY * dt
	}

	if math.Abs(p.VY) > pc.TrailThreshold || math.Abs(p.VX) > pc.TrailThreshold {
		emit(Event{Kind: EventTrail, X: p.X + p.W/2, Y: p.Y + p.H/2})
	}

	// Coyote time uses the grounded flag from the previous step.
	if p.Grounded {
		p.Coyote = pc.CoyoteSteps
		p.DoubleReady = true
	} else if p.Coyote > 0 {
		p.Coyote -= dt
	}

	if in.Jumping() {
		switch {
		case p.Coyote > 0:
			force := pc.JumpForce
			if p.Has(PowerSuperJump) {
				force = pc.SuperJumpForce
			}
			p.VY = force * ability.JumpMult
			p.Coyote = 0
			res.JumpConsumed = true
			emit(Event{Kind: EventJump, X: p.X + p.W/2, Y: p.Bottom()})
		case p.Has(PowerDoubleJump) && p.DoubleReady:
			p.VY = pc.JumpForce * ability.JumpMult
			p.DoubleReady = false
			res.JumpConsumed = true
			emit(Event{Kind: EventDoubleJump, X: p.X + p.W/2, Y: p.Bottom()})
		}
	}

	ph.land(p, dt, platforms)

	if e, ok := ph.collect(p, pickups); ok {
		emit(e)
	}
	return res
}

// wrap re-enters the player on the opposite edge.
func (ph *Physics) wrap(p *Player) {
	if p.X < 0 {
		p.X = ph.width - p.W
	} else if p.X+p.W > ph.width {
		p.X = 0
	}
}

// land resolves downward platform contact.
func (ph *Physics) land(p *Player, dt float64, platforms []Platform) {
	p.Grounded = false
	if p.VY <= 0 {
		return
	}
	for i := range platforms {
		pl := &platforms[i]
		if p.Right() <= pl.X || p.X >= pl.Right() {
			continue
		}
		bottom := p.Bottom()
		limit := pl.Bottom() + p.VY*dt + ph.cfg.Physics.LandingTolerance
		if bottom > pl.Y && bottom < limit {
			p.Grounded = true
			p.VY = 0
			p.Y = pl.Y - p.H
			p.X += pl.VX * dt
		}
	}
}

// collect applies the magnet pull and picks up at most one pickup.
func (ph *Physics) collect(p *Player, pickups []*Pickup) (Event, bool) {
	pc := ph.cfg.Physics
	for i := len(pickups) - 1; i >= 0; i-- {
		pk := pickups[i]
		if pk.Removed {
			continue
		}

		if p.Has(PowerMagnet) {
			dx, dy := p.X-pk.X, p.Y-pk.Y
			if core.Dist(p.X, p.Y, pk.X, pk.Y) < pc.MagnetRadius {
				pk.X += dx * pc.MagnetPull
				pk.Y += dy * pc.MagnetPull
				pk.BaseY += dy * pc.MagnetPull
			}
		}

		if !p.Overlaps(pk.Rect) {
			continue
		}
		pk.Removed = true
		if pk.Currency {
			return Event{Kind: EventCurrency, X: pk.X, Y: pk.Y}, true
		}
		kind := PowerKind(1 + ph.rng.Intn(len(powerCatalog)))
		p.ActivatePower(kind)
		return Event{Kind: EventPower, X: pk.X, Y: pk.Y, Power: kind}, true
	}
	return Event{}, false
}
