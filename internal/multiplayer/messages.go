// Package multiplayer implements the two-peer co-op protocol: message schema,
// wire codec, join codes, the connection session with heartbeat and watchdog,
// and the transports (in-process loopback and websocket relay) it runs over.
package multiplayer

// Kind names a message on the wire.
type Kind string

const (
	KindHandshake Kind = "handshake"
	KindStart     Kind = "start"
	KindSync      Kind = "sync"
	KindDie       Kind = "die"
	KindRevive    Kind = "revive"
	KindPing      Kind = "ping"

	// Local-only kinds, produced by the session and never encoded.
	KindPeerLost Kind = "peer_lost"
)

// Message is anything exchanged between peers.
type Message interface {
	Kind() Kind
}

// Handshake introduces a peer by display name. Both sides send one on connect.
type Handshake struct {
	Name string `msgpack:"name"`
}

// Start seeds both simulations. Only the host sends it.
type Start struct {
	Seed int64 `msgpack:"seed"`
}

// Sync carries the sender's player state. Y is world-relative: the sender's
// screen y minus its score. Seq increases per sender; zero means unsequenced.
type Sync struct {
	Seq           uint32  `msgpack:"seq,omitempty"`
	X             float64 `msgpack:"x"`
	Y             float64 `msgpack:"y"`
	VX            float64 `msgpack:"vx"`
	VY            float64 `msgpack:"vy"`
	SkinIndex     int     `msgpack:"skinIndex"`
	ActivePowerID int     `msgpack:"activePowerId,omitempty"`
}

// Die reports that the sender's player died.
type Die struct{}

// Revive reports that the sender's player respawned.
type Revive struct{}

// Ping is the heartbeat. The session filters it before the application.
type Ping struct{}

// PeerLost is queued by the session when the connection drops after it was
// established. Err is a *ConnError.
type PeerLost struct {
	Err error
}

func (Handshake) Kind() Kind { return KindHandshake }
func (Start) Kind() Kind     { return KindStart }
func (Sync) Kind() Kind      { return KindSync }
func (Die) Kind() Kind       { return KindDie }
func (Revive) Kind() Kind    { return KindRevive }
func (Ping) Kind() Kind      { return KindPing }
func (PeerLost) Kind() Kind  { return KindPeerLost }
