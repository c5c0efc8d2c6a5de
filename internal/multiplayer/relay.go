package multiplayer

import (
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	roleHost  = "host"
	roleGuest = "guest"
)

// RelayConfig holds configuration for the relay.
type RelayConfig struct {
	LobbyTimeout  time.Duration // How long a lobby waits for its guest
	CleanupPeriod time.Duration // How often to expire lobbies
}

// DefaultRelayConfig returns sensible defaults.
func DefaultRelayConfig() RelayConfig {
	return RelayConfig{
		LobbyTimeout:  10 * time.Minute,
		CleanupPeriod: 30 * time.Second,
	}
}

// lobby pairs a host with at most one guest.
type lobby struct {
	code      string
	host      *relayPeer
	guest     *relayPeer
	createdAt time.Time
	closed    bool
}

type relayPeer struct {
	conn *websocket.Conn
	wmu  sync.Mutex
}

func (p *relayPeer) write(kind int, data []byte) error {
	p.wmu.Lock()
	defer p.wmu.Unlock()
	return p.conn.WriteMessage(kind, data)
}

// Relay forwards frames between the two peers of each lobby. It never
// decodes them; peers own the protocol.
type Relay struct {
	config   RelayConfig
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	lobbies map[string]*lobby // code -> lobby

	done     chan struct{}
	stopOnce sync.Once
}

// NewRelay creates a relay.
func NewRelay(cfg RelayConfig, logger *log.Logger) *Relay {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Relay{
		config: cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		lobbies: make(map[string]*lobby),
		done:    make(chan struct{}),
	}
}

// Start begins the relay's background cleanup.
func (r *Relay) Start() {
	go r.cleanupLoop()
}

// Stop shuts down background processing and closes every lobby.
func (r *Relay) Stop() {
	r.stopOnce.Do(func() {
		close(r.done)
		var peers []*relayPeer
		r.mu.Lock()
		for _, l := range r.lobbies {
			peers = append(peers, r.closeLobbyLocked(l)...)
		}
		r.mu.Unlock()
		hangUp(peers)
	})
}

// ServeHTTP upgrades a lobby request: ?code=XXXXXX&role=host|guest.
// An occupied code (host) or an unknown or full lobby (guest) is refused
// before the upgrade with 409 or 404.
func (r *Relay) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	code, err := NormalizeCode(req.URL.Query().Get("code"))
	if err != nil {
		http.Error(w, "invalid code", http.StatusBadRequest)
		return
	}
	role := req.URL.Query().Get("role")
	if role != roleHost && role != roleGuest {
		http.Error(w, "invalid role", http.StatusBadRequest)
		return
	}

	r.mu.Lock()
	l, exists := r.lobbies[code]
	switch {
	case role == roleHost && exists:
		r.mu.Unlock()
		http.Error(w, "code in use", http.StatusConflict)
		return
	case role == roleGuest && !exists:
		r.mu.Unlock()
		http.Error(w, "lobby not found", http.StatusNotFound)
		return
	case role == roleGuest && l.guest != nil:
		r.mu.Unlock()
		http.Error(w, "lobby is full", http.StatusConflict)
		return
	}
	// Reserve the slot before upgrading so a racing dial is refused.
	if role == roleHost {
		l = &lobby{code: code, createdAt: time.Now()}
		r.lobbies[code] = l
	}
	peer := &relayPeer{}
	if role == roleHost {
		l.host = peer
	} else {
		l.guest = peer
	}
	r.mu.Unlock()

	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Warn("upgrade failed", "code", code, "role", role, "err", err)
		var peers []*relayPeer
		r.mu.Lock()
		if role == roleHost {
			peers = r.closeLobbyLocked(l)
		} else {
			l.guest = nil
		}
		r.mu.Unlock()
		hangUp(peers)
		return
	}

	r.mu.Lock()
	peer.conn = conn
	closed := l.closed
	r.mu.Unlock()
	if closed {
		conn.Close()
		return
	}

	r.logger.Info("peer attached", "code", code, "role", role)
	r.pump(l, peer)
}

// pump forwards frames from one peer to the other until either side fails,
// then closes the whole lobby.
func (r *Relay) pump(l *lobby, from *relayPeer) {
	defer func() {
		r.mu.Lock()
		peers := r.closeLobbyLocked(l)
		r.mu.Unlock()
		hangUp(peers)
	}()

	for {
		kind, payload, err := from.conn.ReadMessage()
		if err != nil {
			return
		}

		r.mu.Lock()
		to := l.guest
		if from == l.guest {
			to = l.host
		}
		ready := to != nil && to.conn != nil
		r.mu.Unlock()

		// Frames sent before the other side arrives are dropped.
		if !ready {
			continue
		}
		if err := to.write(kind, payload); err != nil {
			return
		}
	}
}

// closeLobbyLocked unregisters l and returns the connections to hang up.
// It must be called with r.mu held; the caller passes the result to hangUp
// after unlocking.
func (r *Relay) closeLobbyLocked(l *lobby) []*relayPeer {
	if l.closed {
		return nil
	}
	l.closed = true
	if r.lobbies[l.code] == l {
		delete(r.lobbies, l.code)
	}
	r.logger.Info("lobby closed", "code", l.code)

	var peers []*relayPeer
	for _, p := range []*relayPeer{l.host, l.guest} {
		if p != nil && p.conn != nil {
			peers = append(peers, p)
		}
	}
	return peers
}

// hangUp sends a close frame to each peer and drops its connection.
func hangUp(peers []*relayPeer) {
	for _, p := range peers {
		p.wmu.Lock()
		p.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "lobby closed"),
			time.Now().Add(time.Second),
		)
		p.wmu.Unlock()
		p.conn.Close()
	}
}

func (r *Relay) cleanupLoop() {
	period := r.config.CleanupPeriod
	if period <= 0 {
		period = DefaultRelayConfig().CleanupPeriod
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.cleanupExpiredLobbies(time.Now())
		case <-r.done:
			return
		}
	}
}

func (r *Relay) cleanupExpiredLobbies(now time.Time) {
	var peers []*relayPeer
	r.mu.Lock()
	for _, l := range r.lobbies {
		// Only expire lobbies without guests
		if l.guest == nil && now.Sub(l.createdAt) > r.config.LobbyTimeout {
			r.logger.Info("lobby expired", "code", l.code)
			peers = append(peers, r.closeLobbyLocked(l)...)
		}
	}
	r.mu.Unlock()
	hangUp(peers)
}

// LobbyCount returns the number of open lobbies.
func (r *Relay) LobbyCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lobbies)
}
