// Package sim is the deterministic climber simulation: the seeded platform
// generator, player physics, enemy behaviors and the run state machine that
// ties them together and reconciles a co-op partner from peer messages.
//
// A Simulation is not safe for concurrent use. The caller drives it with one
// Step per frame; peer messages are drained from the Inbox at the start of
// each Step, never in the middle of one.
package sim

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lonely-pixel/internal/config"
	"github.com/vovakirdan/lonely-pixel/internal/core"
	"github.com/vovakirdan/lonely-pixel/internal/multiplayer"
	"github.com/vovakirdan/lonely-pixel/internal/storage"
)

// Phase is the run lifecycle.
type Phase uint8

const (
	PhaseIdle    Phase = iota // No run; menu
	PhaseRunning              // Stepping
	PhaseDying                // Single-player death awaiting Revive or GameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseDying:
		return "dying"
	default:
		return "unknown"
	}
}

// StepsPerSecond converts respawn seconds to nominal steps.
const StepsPerSecond = 60

const (
	spawnCeiling = 100 // A new platform is spawned once the highest one drops below this y
	stompDepth   = 40  // A boss is stomped when the player's bottom is above its top plus this
	boostCost    = 50
)

var (
	ErrSkinLocked        = errors.New("sim: skin is locked")
	ErrCannotRevive      = errors.New("sim: revive not available")
	ErrNotEnoughShards   = errors.New("sim: not enough shards")
	ErrBoostAlreadyOwned = errors.New("sim: boost already bought")
	ErrRunInProgress     = errors.New("sim: run in progress")
)

// SimState is the run-level state. Score is in world units; Meters is
// Score/10 rounded down.
type SimState struct {
	Score           float64
	Frames          int
	Time            float64 // Nominal steps elapsed
	Seed            int64
	Running         bool
	Multiplayer     bool
	Host            bool
	Loops           int // Persistent across runs
	PowersCollected int
	Deaths          int
	Revived         bool // Single-player revive used
	BossActive      bool
	Best            int // Meters, persistent
	MaxMeters       int
	NewBest         bool
	Shards          int // Persistent
	StoryIndex      int
	RespawnSteps    float64 // Co-op respawn countdown; the prompt fires at zero
	RevivePrompted  bool
	Recycles        int // Platforms spawned by scrolling
	BoostPending    bool
}

// Options configures a run.
type Options struct {
	Seed        int64 // Zero picks the daily seed
	Skin        int
	Multiplayer bool
	Host        bool
	AmbientSeed int64 // Drives enemies, hazards and power rolls; zero derives one from the clock
}

// StepResult reports what one Step did.
type StepResult struct {
	Events       []Event
	JumpConsumed bool // The caller should clear its jump buffer
	Phase        Phase
}

// Simulation owns every entity of a run.
type Simulation struct {
	cfg    config.GameConfig
	diff   *config.DifficultyManager
	store  Store
	link   Link
	logger *log.Logger
	now    func() time.Time

	phase       Phase
	state       SimState
	skin        int
	player      Player
	remote      *Player
	remoteName  string
	platforms   []Platform
	pickups     []*Pickup
	enemies     []*Enemy
	projectiles []*Projectile

	gen      *Generator
	physics  *Physics
	rng      *rand.Rand
	tracker  *AchievementTracker
	ghost    GhostRecorder
	playback *GhostPlayback

	pending   []Event
	syncSeq   uint32 // Outgoing; never reset
	lastSeq   uint32 // Highest applied incoming
	startedAt time.Time
	endReason string
}

// New creates an idle simulation. store may be nil, in which case nothing
// outlives the process. link may be nil for single-player only.
func New(cfg config.GameConfig, store Store, link Link, logger *log.Logger) *Simulation {
	if store == nil {
		store = storage.NewMemStore()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Simulation{
		cfg:     cfg,
		diff:    config.NewDifficultyManager(cfg),
		store:   store,
		link:    link,
		logger:  logger,
		now:     time.Now,
		tracker: NewAchievementTracker(),
	}
	profile := s.loadProfile()
	s.skin = WrapSkin(profile.Skin)
	s.state.Best = profile.Best
	s.state.Shards = profile.Shards
	s.state.Loops = profile.Loops
	return s
}

// SetClock replaces the wall clock used for seeds and fame dates.
func (s *Simulation) SetClock(now func() time.Time) {
	s.now = now
}

// SelectSkin picks the skin for the next run.
func (s *Simulation) SelectSkin(i int) error {
	i = WrapSkin(i)
	if !SkinUnlocked(i, s.loadProfile().Best) {
		return fmt.Errorf("%w: %s needs %dm", ErrSkinLocked, SkinAt(i).Name, SkinAt(i).Unlock)
	}
	s.skin = i
	s.persist("skin", s.store.SaveSkin(i))
	return nil
}

// Start resets the world and begins a run.
func (s *Simulation) Start(opts Options) error {
	profile := s.loadProfile()
	skin := WrapSkin(opts.Skin)
	if !SkinUnlocked(skin, profile.Best) {
		return fmt.Errorf("%w: %s needs %dm", ErrSkinLocked, SkinAt(skin).Name, SkinAt(skin).Unlock)
	}

	now := s.now()
	seed := opts.Seed
	if seed == 0 {
		seed = DailySeed(now)
	}
	ambient := opts.AmbientSeed
	if ambient == 0 {
		ambient = now.UnixNano()
	}

	boost := s.state.BoostPending
	s.rng = rand.New(rand.NewSource(ambient))
	s.gen = NewGenerator(seed, s.cfg)
	s.physics = NewPhysics(s.cfg, s.rng)
	s.state = SimState{
		Seed:        seed,
		Running:     true,
		Multiplayer: opts.Multiplayer,
		Host:        opts.Host,
		Loops:       profile.Loops,
		Best:        profile.Best,
		Shards:      profile.Shards,
	}
	s.phase = PhaseRunning
	s.skin = skin
	s.remote = nil
	s.startedAt = now
	s.endReason = ""
	s.ghost.Reset()
	s.playback = nil
	if !opts.Multiplayer {
		s.playback = NewGhostPlayback(s.loadGhost())
	}
	s.persist("skin", s.store.SaveSkin(skin))

	w, h := s.cfg.World.Width, s.cfg.World.Height
	s.player = NewPlayer(w/2, h-150, s.cfg.Physics.PlayerSize, skin)
	if boost {
		s.player.ActivatePower(PowerShield)
	}

	s.platforms = []Platform{{Rect: core.NewRect(0, h-40, w, 40)}}
	s.pickups = nil
	s.enemies = nil
	s.projectiles = nil
	for y := h - 140; y > -h; y -= s.cfg.Platforms.BaseGap {
		s.spawnPlatform(y)
	}

	s.logger.Debug("run started", "seed", seed, "skin", SkinAt(skin).Name, "multiplayer", opts.Multiplayer, "host", opts.Host)
	s.emit(Event{Kind: EventRunStarted})
	return nil
}

// HostStart draws a session seed, starts a co-op run and tells the guest.
func (s *Simulation) HostStart() (int64, error) {
	now := s.now()
	offset := rand.New(rand.NewSource(now.UnixNano())).Intn(10000)
	seed := SessionSeed(now, offset)
	if err := s.Start(Options{Seed: seed, Skin: s.skin, Multiplayer: true, Host: true}); err != nil {
		return 0, err
	}
	s.send(multiplayer.Start{Seed: seed})
	return seed, nil
}

// Step applies pending peer messages and advances the run by dt nominal
// steps. dt is capped at the configured maximum.
func (s *Simulation) Step(in core.Intent, dt float64) StepResult {
	s.drainInbox()

	dt = core.ClampF(dt, 0, s.cfg.World.MaxDt)
	var res StepResult
	if s.phase == PhaseRunning {
		res.JumpConsumed = s.advance(in, dt)
	}

	res.Events = s.pending
	s.pending = nil
	res.Phase = s.phase
	return res
}

func (s *Simulation) advance(in core.Intent, dt float64) bool {
	st := &s.state
	w, h := s.cfg.World.Width, s.cfg.World.Height

	st.Frames++
	st.Time += dt
	for _, pk := range s.pickups {
		pk.Bob(st.Time)
	}

	for _, a := range s.tracker.evaluate(s) {
		s.emit(Event{Kind: EventAchievement, Achievement: a.ID, Text: a.Title})
	}
	s.ghost.Sample(st.Frames, s.player.X, s.player.Y, st.Score)

	meters := s.Meters()
	s.spawnEnemies(meters)

	jumpConsumed := false
	if !s.player.Dead {
		pr := s.physics.Step(&s.player, in, dt, s.platforms, s.pickups)
		jumpConsumed = pr.JumpConsumed
		s.physicsEvent(pr.Event)
	} else if st.Multiplayer {
		s.tickRespawn(dt)
	}

	// Invisible ceiling keeps the faster climber on the shared screen.
	if st.Multiplayer && s.remote != nil && !s.player.Dead && !s.remote.Dead && s.player.Y < 0 {
		s.player.Y = 0
		s.player.VY = math.Max(s.player.VY, 0)
	}

	s.hazards(meters, dt)
	s.movePlatforms(dt, w)

	enemyDt := dt
	if s.player.Has(PowerTimeWarp) {
		enemyDt *= s.cfg.Enemies.TimeWarpScale
	}
	s.updateEnemies(enemyDt)
	s.updateProjectiles(enemyDt, w, h)
	if s.phase != PhaseRunning {
		return jumpConsumed
	}

	if st.Multiplayer && !s.player.Dead && st.Frames%max(1, s.cfg.Network.SyncEvery) == 0 {
		s.sendSync()
	}

	s.followCamera()
	if !s.player.Dead && s.player.Y > h {
		s.Die(false)
	}

	s.trackProgress()
	s.sweep()
	return jumpConsumed
}

func (s *Simulation) spawnPlatform(y float64) {
	p, pk := s.gen.SpawnPlatform(y, s.state.Score)
	s.platforms = append(s.platforms, p)
	if pk != nil {
		s.pickups = append(s.pickups, pk)
	}
}

func (s *Simulation) spawnEnemies(meters int) {
	st := &s.state
	w := s.cfg.World.Width

	if st.Score > 0 && !st.BossActive && s.diff.BossDue(meters, st.Loops) {
		s.enemies = append(s.enemies, NewBoss(s.player.Y-600, w, s.cfg.Enemies))
		st.BossActive = true
		s.logger.Debug("boss spawned", "meters", meters, "loops", st.Loops)
	}

	if st.BossActive || meters <= s.cfg.Enemies.DroneGateMeters {
		return
	}
	if st.Frames%max(1, s.diff.DroneInterval(meters)) != 0 {
		return
	}
	difficulty := s.diff.DroneDifficulty(meters, st.Loops)
	y := s.player.Y - 500
	if s.rng.Float64() < s.diff.ShooterChance(meters) {
		s.enemies = append(s.enemies, NewShooter(y, difficulty, w, s.rng, s.cfg.Enemies))
	} else {
		s.enemies = append(s.enemies, NewDrone(y, difficulty, w, s.rng, s.cfg.Enemies))
	}
}

func (s *Simulation) physicsEvent(e Event) {
	switch e.Kind {
	case EventNone:
		return
	case EventCurrency:
		s.state.Shards++
		s.persist("shards", s.store.SaveShards(s.state.Shards))
	case EventPower:
		s.state.PowersCollected++
	}
	s.emit(e)
}

func (s *Simulation) hazards(meters int, dt float64) {
	hz := s.cfg.Hazards
	if meters > hz.WindStartMeters && meters < hz.WindEndMeters && !s.player.Dead {
		s.player.VX += math.Sin(s.state.Time*0.05) * hz.WindStrength * dt
	}
	if meters > hz.MeteorStartMeters && s.state.Frames%max(1, hz.MeteorInterval) == 0 {
		x := s.rng.Float64() * s.cfg.World.Width
		vx := (s.rng.Float64() - 0.5) * 4
		vy := 4 + s.rng.Float64()*5
		s.projectiles = append(s.projectiles, NewMeteor(x, s.player.Y-800, vx, vy))
	}
}

func (s *Simulation) movePlatforms(dt, width float64) {
	for i := range s.platforms {
		p := &s.platforms[i]
		if p.VX == 0 {
			continue
		}
		p.X += p.VX * dt
		if p.X < 0 {
			p.X = 0
			p.VX = -p.VX
		}
		if p.Right() > width {
			p.X = width - p.W
			p.VX = -p.VX
		}
	}
}

func (s *Simulation) updateEnemies(dt float64) {
	env := EnemyEnv{
		Player: &s.player,
		Width:  s.cfg.World.Width,
		Time:   s.state.Time,
		Rand:   s.rng,
		Cfg:    s.cfg.Enemies,
	}
	for _, e := range s.enemies {
		if e.Removed {
			continue
		}
		s.projectiles = append(s.projectiles, e.Update(dt, env)...)
		s.collideEnemy(e)
	}

	kept := s.enemies[:0]
	for _, e := range s.enemies {
		if !e.Removed {
			kept = append(kept, e)
			continue
		}
		if e.Kind == EnemyBoss {
			s.loopSecured()
		}
	}
	clear(s.enemies[len(kept):])
	s.enemies = kept
}

func (s *Simulation) collideEnemy(e *Enemy) {
	p := &s.player
	if e.Removed || p.Dead || s.phase != PhaseRunning || !p.Overlaps(e.Rect) {
		return
	}
	if e.Kind == EnemyBoss && p.VY > 0 && p.Bottom() < e.Y+stompDepth {
		e.TakeDamage()
		p.VY = s.cfg.Physics.BounceForce
		s.emit(Event{Kind: EventStomp, X: p.X + p.W/2, Y: p.Bottom()})
		return
	}
	if p.Has(PowerShield) {
		p.ClearPower()
		e.Removed = true
		s.emit(Event{Kind: EventShieldBlock, X: p.X, Y: p.Y})
		return
	}
	s.Die(true)
}

func (s *Simulation) loopSecured() {
	st := &s.state
	st.BossActive = false
	st.Loops++
	st.Score += s.cfg.Enemies.BossBonus
	s.persist("loops", s.store.SaveLoops(st.Loops))
	s.emit(Event{Kind: EventLoopSecured, Text: fmt.Sprintf("SYSTEM: LOOP %d SECURED.", st.Loops)})
	s.logger.Info("loop secured", "loops", st.Loops)
}

func (s *Simulation) updateProjectiles(dt, width, height float64) {
	p := &s.player
	for _, pr := range s.projectiles {
		if pr.Removed {
			continue
		}
		pr.Update(dt, width, height)
		if pr.Removed || p.Dead || s.phase != PhaseRunning || !p.Overlaps(pr.Rect) {
			continue
		}
		if p.Has(PowerShield) {
			p.ClearPower()
			pr.Removed = true
			s.emit(Event{Kind: EventShieldBlock, X: p.X, Y: p.Y})
			continue
		}
		s.Die(true)
	}
}

// followCamera scrolls the world so the camera target stays below the
// threshold line. In co-op the camera follows the lower living player.
func (s *Simulation) followCamera() {
	target := s.player.Y
	if s.state.Multiplayer && s.remote != nil {
		switch {
		case s.player.Dead && !s.remote.Dead:
			target = s.remote.Y
		case !s.player.Dead && !s.remote.Dead:
			target = math.Max(s.player.Y, s.remote.Y)
		}
	}
	threshold := s.cfg.World.Height * s.cfg.World.ScrollThreshold
	if target < threshold {
		s.scroll(threshold - target)
	}
}

func (s *Simulation) scroll(diff float64) {
	if !s.player.Dead {
		s.player.Y += diff
	}
	if s.remote != nil {
		s.remote.Y += diff
	}
	s.state.Score += diff

	for i := range s.platforms {
		s.platforms[i].Y += diff
	}
	for _, pk := range s.pickups {
		pk.Y += diff
		pk.BaseY += diff
	}
	for _, e := range s.enemies {
		e.Y += diff
		e.HoverY += diff
	}
	for _, pr := range s.projectiles {
		pr.Y += diff
	}

	limit := s.cfg.World.Height + s.cfg.World.CullMargin
	platforms := s.platforms[:0]
	for _, p := range s.platforms {
		if p.Y < limit {
			platforms = append(platforms, p)
		}
	}
	s.platforms = platforms
	for _, pk := range s.pickups {
		if pk.Y >= limit {
			pk.Removed = true
		}
	}
	for _, e := range s.enemies {
		if e.Kind != EnemyBoss && e.Y >= limit {
			e.Removed = true
		}
	}

	highest := s.cfg.World.Height
	for _, p := range s.platforms {
		highest = math.Min(highest, p.Y)
	}
	if highest > spawnCeiling {
		s.spawnPlatform(highest - s.cfg.Platforms.BaseGap)
		s.state.Recycles++
	}
}

func (s *Simulation) trackProgress() {
	st := &s.state
	meters := s.Meters()
	if meters > st.MaxMeters {
		st.MaxMeters = meters
	}
	if meters > st.Best {
		st.Best = meters
		if !st.NewBest {
			st.NewBest = true
			s.emit(Event{Kind: EventNewBest})
		}
	}
	if st.StoryIndex < len(story) && st.MaxMeters >= story[st.StoryIndex].Meters {
		s.emit(Event{Kind: EventStory, Text: story[st.StoryIndex].Text})
		st.StoryIndex++
	}
}

// sweep drops entities flagged for removal.
func (s *Simulation) sweep() {
	pickups := s.pickups[:0]
	for _, pk := range s.pickups {
		if !pk.Removed {
			pickups = append(pickups, pk)
		}
	}
	clear(s.pickups[len(pickups):])
	s.pickups = pickups

	enemies := s.enemies[:0]
	for _, e := range s.enemies {
		if !e.Removed {
			enemies = append(enemies, e)
		}
	}
	clear(s.enemies[len(enemies):])
	s.enemies = enemies

	projectiles := s.projectiles[:0]
	for _, pr := range s.projectiles {
		if !pr.Removed {
			projectiles = append(projectiles, pr)
		}
	}
	clear(s.projectiles[len(projectiles):])
	s.projectiles = projectiles
}

func (s *Simulation) emit(e Event) {
	s.pending = append(s.pending, e)
}

func (s *Simulation) send(m multiplayer.Message) {
	if s.link != nil {
		s.link.Send(m)
	}
}

// persist logs a failed write. Persistence never stops play.
func (s *Simulation) persist(what string, err error) {
	if err != nil {
		s.logger.Warn("cannot persist", "what", what, "err", err)
	}
}

func (s *Simulation) loadProfile() storage.Profile {
	p, err := s.store.LoadProfile()
	if err != nil {
		s.logger.Warn("cannot load profile, using defaults", "err", err)
	}
	return p
}

func (s *Simulation) loadGhost() []storage.GhostPoint {
	g, err := s.store.LoadGhost()
	if err != nil {
		s.logger.Warn("cannot load ghost", "err", err)
		return nil
	}
	return g
}

// Meters returns the displayed altitude.
func (s *Simulation) Meters() int {
	return int(math.Floor(s.state.Score / 10))
}

// Phase returns the lifecycle phase.
func (s *Simulation) Phase() Phase { return s.phase }

// State returns a copy of the run state.
func (s *Simulation) State() SimState { return s.state }

// Config returns the configuration the simulation runs with.
func (s *Simulation) Config() config.GameConfig { return s.cfg }

// Skin returns the selected skin index.
func (s *Simulation) Skin() int { return s.skin }

// Player returns a copy of the local player.
func (s *Simulation) Player() Player { return s.player }

// Remote returns a copy of the partner's shadow, if one has been seen.
func (s *Simulation) Remote() (Player, bool) {
	if s.remote == nil {
		return Player{}, false
	}
	return *s.remote, true
}

// RemoteName returns the partner's handshake name.
func (s *Simulation) RemoteName() string { return s.remoteName }

// Platforms returns the live platforms. Callers must not modify them.
func (s *Simulation) Platforms() []Platform { return s.platforms }

// Pickups returns the live pickups. Callers must not modify them.
func (s *Simulation) Pickups() []*Pickup { return s.pickups }

// Enemies returns the live enemies. Callers must not modify them.
func (s *Simulation) Enemies() []*Enemy { return s.enemies }

// Projectiles returns the live projectiles. Callers must not modify them.
func (s *Simulation) Projectiles() []*Projectile { return s.projectiles }

// Biome returns the biome of the current altitude.
func (s *Simulation) Biome() Biome { return BiomeAt(s.Meters()) }

// GhostAt returns the stored best run's position for the current frame.
func (s *Simulation) GhostAt() (x, y float64, ok bool) {
	return s.playback.At(s.state.Frames, s.state.Score)
}

// RespawnSecondsLeft returns the whole seconds left on the co-op respawn countdown.
func (s *Simulation) RespawnSecondsLeft() int {
	if s.state.RespawnSteps <= 0 {
		return 0
	}
	return int(math.Ceil(s.state.RespawnSteps / StepsPerSecond))
}
