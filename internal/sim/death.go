package sim

import (
	"github.com/vovakirdan/lonely-pixel/internal/core"
	"github.com/vovakirdan/lonely-pixel/internal/multiplayer"
	"github.com/vovakirdan/lonely-pixel/internal/storage"
)

// End reasons recorded for co-op runs.
const (
	EndDoubleDeath = "double_death"
	EndDisconnect  = "disconnect"
)

// Die kills the local player. Unless force is set, an active safety net
// bounces the player back up instead.
func (s *Simulation) Die(force bool) {
	if s.phase != PhaseRunning {
		return
	}
	p := &s.player
	if s.state.Multiplayer && p.Dead {
		return
	}
	if !force && p.Has(PowerSafetyNet) {
		p.Y = s.cfg.World.Height - 60
		p.VY = s.cfg.Physics.BounceForce
		s.emit(Event{Kind: EventSafetyBounce, X: p.X, Y: p.Y})
		return
	}

	if s.state.Multiplayer {
		s.dieMultiplayer()
		return
	}

	s.state.Running = false
	s.phase = PhaseDying
	s.flushBest()
	canRevive := !s.state.Revived
	s.emit(Event{Kind: EventDeath, X: p.X, Y: p.Y, CanRevive: canRevive})
	s.logger.Debug("player died", "meters", s.state.MaxMeters, "revive", canRevive)
	if !canRevive {
		s.GameOver()
	}
}

func (s *Simulation) dieMultiplayer() {
	st := &s.state
	p := &s.player
	p.Dead = true
	p.VX, p.VY = 0, 0
	p.ClearPower()
	st.Deaths++
	nc := s.cfg.Network
	seconds := nc.RespawnBaseSeconds + (st.Deaths-1)*nc.RespawnStepSeconds
	st.RespawnSteps = float64(seconds * StepsPerSecond)
	st.RevivePrompted = false

	s.send(multiplayer.Die{})
	s.flushBest()
	s.emit(Event{Kind: EventDeath, X: p.X, Y: p.Y})
	s.logger.Debug("player died", "deaths", st.Deaths, "respawn", seconds)
	s.checkDoubleDeath()
}

// checkDoubleDeath ends a co-op run once both players are down.
func (s *Simulation) checkDoubleDeath() {
	if !s.state.Multiplayer || s.phase != PhaseRunning {
		return
	}
	if !s.player.Dead || s.remote == nil || !s.remote.Dead {
		return
	}
	if s.endReason == "" {
		s.endReason = EndDoubleDeath
	}
	s.GameOver()
}

// tickRespawn counts down a dead co-op player and prompts once it expires.
func (s *Simulation) tickRespawn(dt float64) {
	st := &s.state
	if st.RespawnSteps > 0 {
		st.RespawnSteps -= dt
		if st.RespawnSteps > 0 {
			return
		}
		st.RespawnSteps = 0
	}
	if !st.RevivePrompted {
		st.RevivePrompted = true
		s.emit(Event{Kind: EventRevivePrompt})
	}
}

// Revive spends the single-player second chance: the player is dropped back
// near the bottom onto a full-width rescue ledge.
func (s *Simulation) Revive() error {
	if s.phase != PhaseDying || s.state.Multiplayer || s.state.Revived {
		return ErrCannotRevive
	}
	w, h := s.cfg.World.Width, s.cfg.World.Height
	s.state.Revived = true
	s.state.Running = true
	s.phase = PhaseRunning

	p := &s.player
	p.Y = h - 200
	p.VX = 0
	p.VY = s.cfg.Physics.BounceForce
	s.platforms = append(s.platforms, Platform{Rect: core.NewRect(0, h-20, w, 20)})
	s.emit(Event{Kind: EventRevived, X: p.X, Y: p.Y})
	return nil
}

// RespawnMultiplayer brings a dead co-op player back once the countdown is
// over, above the partner if the partner is alive.
func (s *Simulation) RespawnMultiplayer() error {
	st := &s.state
	if s.phase != PhaseRunning || !st.Multiplayer || !s.player.Dead || st.RespawnSteps > 0 {
		return ErrCannotRevive
	}
	p := &s.player
	if s.remote != nil && !s.remote.Dead {
		p.X = s.remote.X
		p.Y = s.remote.Y - 100
	} else {
		p.X = s.cfg.World.Width/2 - p.W/2
		p.Y = s.cfg.World.Height - 200
	}
	p.VX = 0
	p.VY = s.cfg.Physics.JumpForce * 0.5
	p.Grounded = false
	p.Coyote = 0
	p.Dead = false
	st.RevivePrompted = false

	s.send(multiplayer.Revive{})
	s.emit(Event{Kind: EventRevived, X: p.X, Y: p.Y})
	return nil
}

// GameOver finalizes the run: the ghost is kept if it set a new best, and
// the result goes to the fame list or the co-op log.
func (s *Simulation) GameOver() {
	if s.phase == PhaseIdle {
		return
	}
	st := &s.state
	now := s.now()

	if st.NewBest {
		s.persist("ghost", s.store.SaveGhost(s.ghost.Points()))
	}
	s.flushBest()

	if st.Multiplayer {
		if rec, ok := s.store.(CoopRecorder); ok {
			reason := s.endReason
			if reason == "" {
				reason = EndDoubleDeath
			}
			_, err := rec.SaveCoopRun(storage.CoopRun{
				Partner:   s.remoteName,
				Meters:    st.MaxMeters,
				Deaths:    st.Deaths,
				Loops:     st.Loops,
				EndReason: reason,
				Duration:  int(now.Sub(s.startedAt).Seconds()),
			})
			s.persist("coop run", err)
		}
	} else {
		s.persist("fame", s.store.AddFame(storage.FameEntry{
			Meters:   st.MaxMeters,
			Skin:     SkinAt(s.skin).Name,
			PlayedOn: now.Format("2006-01-02"),
		}))
	}

	st.Running = false
	s.phase = PhaseIdle
	s.emit(Event{Kind: EventGameOver})
	s.logger.Info("game over", "meters", st.MaxMeters, "best", st.Best, "new_best", st.NewBest, "multiplayer", st.Multiplayer)
}

// BuyBoost spends shards on a shield for the next run.
func (s *Simulation) BuyBoost() error {
	if s.phase != PhaseIdle {
		return ErrRunInProgress
	}
	if s.state.BoostPending {
		return ErrBoostAlreadyOwned
	}
	if s.state.Shards < boostCost {
		return ErrNotEnoughShards
	}
	s.state.Shards -= boostCost
	s.state.BoostPending = true
	s.persist("shards", s.store.SaveShards(s.state.Shards))
	return nil
}

func (s *Simulation) flushBest() {
	if s.state.NewBest {
		s.persist("best", s.store.SaveBest(s.state.Best))
	}
}
