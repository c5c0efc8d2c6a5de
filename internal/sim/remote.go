package sim

import (
	"math"

	"github.com/vovakirdan/lonely-pixel/internal/multiplayer"
)

func (s *Simulation) drainInbox() {
	if s.link == nil {
		return
	}
	for _, m := range s.link.Drain() {
		s.ApplyRemote(m)
	}
}

// ApplyRemote reconciles one peer message into the local world.
func (s *Simulation) ApplyRemote(m multiplayer.Message) {
	switch m := m.(type) {
	case multiplayer.Handshake:
		s.remoteName = m.Name
		s.lastSeq = 0

	case multiplayer.Start:
		if s.isHost() {
			s.logger.Warn("ignoring start from the guest", "seed", m.Seed)
			return
		}
		err := s.Start(Options{Seed: m.Seed, Skin: s.skin, Multiplayer: true})
		if err != nil {
			s.logger.Warn("cannot start with selected skin, using default", "err", err)
			_ = s.Start(Options{Seed: m.Seed, Multiplayer: true})
		}

	case multiplayer.Sync:
		s.applySync(m)

	case multiplayer.Die:
		if !s.state.Multiplayer || s.phase != PhaseRunning {
			return
		}
		r := s.ensureRemote()
		r.Dead = true
		s.emit(Event{Kind: EventRemoteDied, X: r.X, Y: r.Y})
		s.checkDoubleDeath()

	case multiplayer.Revive:
		if !s.state.Multiplayer || s.phase != PhaseRunning {
			return
		}
		r := s.ensureRemote()
		r.Dead = false
		r.Y = s.player.Y - 100
		s.emit(Event{Kind: EventRemoteRevived, X: r.X, Y: r.Y})

	case multiplayer.PeerLost:
		s.lastSeq = 0
		s.emit(Event{Kind: EventPeerLost, Text: errText(m.Err)})
		if !s.state.Multiplayer || s.phase != PhaseRunning {
			return
		}
		s.logger.Warn("peer lost mid-run", "err", m.Err)
		s.endReason = EndDisconnect
		s.ensureRemote().Dead = true
		if s.player.Dead {
			s.checkDoubleDeath()
		} else {
			s.Die(true)
		}
	}
}

func (s *Simulation) applySync(m multiplayer.Sync) {
	if !s.state.Multiplayer || s.phase != PhaseRunning {
		return
	}
	if !finite(m.X, m.Y, m.VX, m.VY) {
		s.logger.Debug("dropping sync with non-finite coordinates", "seq", m.Seq)
		return
	}
	if m.Seq > 0 {
		if m.Seq <= s.lastSeq {
			return
		}
		s.lastSeq = m.Seq
	}
	r := s.ensureRemote()
	r.X = m.X
	r.Y = m.Y + s.state.Score
	r.VX = m.VX
	r.VY = m.VY
	r.Skin = WrapSkin(m.SkinIndex)
	power, ok := PowerByID(m.ActivePowerID)
	if !ok {
		power = PowerNone
	}
	r.Power = power
}

func (s *Simulation) sendSync() {
	s.syncSeq++
	p := &s.player
	s.send(multiplayer.Sync{
		Seq:           s.syncSeq,
		X:             p.X,
		Y:             p.Y - s.state.Score,
		VX:            p.VX,
		VY:            p.VY,
		SkinIndex:     s.skin,
		ActivePowerID: p.Power.ID(),
	})
}

// isHost reports the link role. Without a link the run's own flag decides.
func (s *Simulation) isHost() bool {
	if s.link != nil {
		return s.link.IsHost()
	}
	return s.state.Host && s.state.Multiplayer
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s *Simulation) ensureRemote() *Player {
	if s.remote == nil {
		r := NewPlayer(s.cfg.World.Width/2, s.player.Y, s.cfg.Physics.PlayerSize, 0)
		s.remote = &r
	}
	return s.remote
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
