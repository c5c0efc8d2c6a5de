package sim

import (
	"github.com/vovakirdan/lonely-pixel/internal/multiplayer"
	"github.com/vovakirdan/lonely-pixel/internal/storage"
)

// Store is the persistent key-value state the simulation reads at start and
// writes at fixed transition points. Failures never stop a run.
// Implemented by *storage.Store and *storage.MemStore.
type Store interface {
	LoadProfile() (storage.Profile, error)
	SaveBest(meters int) error
	SaveShards(n int) error
	SaveLoops(n int) error
	SaveSkin(i int) error
	AddFame(e storage.FameEntry) error
	SaveGhost(trail []storage.GhostPoint) error
	LoadGhost() ([]storage.GhostPoint, error)
}

// CoopRecorder is optionally implemented by a Store to keep co-op results.
type CoopRecorder interface {
	SaveCoopRun(run storage.CoopRun) (int64, error)
}

// Outbox sends messages to the peer without blocking.
type Outbox interface {
	Send(m multiplayer.Message)
}

// Inbox yields messages that arrived since the last call.
type Inbox interface {
	Drain() []multiplayer.Message
}

// Link is both directions of a peer connection. *multiplayer.Session is one.
type Link interface {
	Outbox
	Inbox
	// IsHost reports whether this side opened the lobby.
	IsHost() bool
}
