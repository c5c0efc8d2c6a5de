package multiplayer

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lonely-pixel/internal/config"
)

// State is the connection lifecycle of a Session.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateConnecting:
		return "Connecting"
	case StateConnected:
		return "Connected"
	default:
		return "Unknown"
	}
}

// ErrBusy is returned by Host and Join on a session that is not disconnected.
var ErrBusy = errors.New("multiplayer: session already in use")

const outboxSize = 64

// Session owns one peer connection. Inbound messages are buffered until
// Drain; outbound messages are queued and written by a background goroutine,
// so neither side of the API blocks the simulation step.
type Session struct {
	transport Transport
	cfg       config.NetworkConfig
	name      string
	logger    *log.Logger

	mu        sync.Mutex
	state     State
	host      bool
	code      string
	peerName  string
	conn      Conn
	handshook bool // Our handshake has been queued
	inbox     []Message
	gen       uint64 // Bumped on every attach and teardown
	watchdog  *time.Timer
	outbox    chan []byte
	stop      chan struct{}
}

// NewSession creates a disconnected session. name is sent in the handshake.
func NewSession(t Transport, cfg config.NetworkConfig, name string, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Session{
		transport: t,
		cfg:       cfg,
		name:      name,
		logger:    logger,
	}
}

// Host opens a lobby under a fresh join code and returns the code.
// The session becomes Connected when the guest's handshake arrives.
func (s *Session) Host(ctx context.Context) (string, error) {
	if err := s.begin(); err != nil {
		return "", err
	}
	conn, code, err := s.dialWithRetry(ctx, "", true)
	if err != nil {
		s.abort()
		return "", err
	}
	s.attach(conn, code, true)
	s.logger.Info("lobby open", "code", code)
	return code, nil
}

// Join normalizes a typed code and dials the host's lobby.
// An invalid code fails with ErrInvalidCode before any dial.
func (s *Session) Join(ctx context.Context, input string) error {
	code, err := NormalizeCode(input)
	if err != nil {
		return err
	}
	if err := s.begin(); err != nil {
		return err
	}
	conn, _, err := s.dialWithRetry(ctx, code, false)
	if err != nil {
		s.abort()
		return err
	}
	s.attach(conn, code, false)
	s.Send(Handshake{Name: s.name})
	s.logger.Info("joined lobby", "code", code)
	return nil
}

func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateDisconnected || s.conn != nil {
		return ErrBusy
	}
	s.state = StateConnecting
	return nil
}

func (s *Session) abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateDisconnected
}

func (s *Session) dialWithRetry(ctx context.Context, code string, host bool) (Conn, string, error) {
	attempts := max(1, s.cfg.ConnectAttempts)
	var last *ConnError

	for attempt := 1; attempt <= attempts; attempt++ {
		if host && (code == "" || last != nil && last.Reason == ReasonUnavailableID) {
			fresh, err := NewJoinCode()
			if err != nil {
				return nil, "", &ConnError{Reason: ReasonClosed, Terminal: true, Err: err}
			}
			code = fresh
		}

		conn, err := s.dialOnce(ctx, code, host)
		if err == nil {
			return conn, code, nil
		}
		last = asConnError(err)
		s.logger.Warn("connect attempt failed", "attempt", attempt, "of", attempts, "code", code, "reason", last.Reason)

		if attempt == attempts {
			break
		}
		backoff := time.NewTimer(s.cfg.ConnectBackoff)
		select {
		case <-backoff.C:
		case <-ctx.Done():
			backoff.Stop()
			return nil, "", &ConnError{Reason: reasonFor(ctx.Err()), Terminal: true, Err: ctx.Err()}
		}
	}

	last.Terminal = true
	return nil, "", last
}

func (s *Session) dialOnce(ctx context.Context, code string, host bool) (Conn, error) {
	if s.cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ConnectTimeout)
		defer cancel()
	}
	conn, err := s.transport.Dial(ctx, code, host)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, connErr(reasonFor(ctxErr), err)
		}
		return nil, err
	}
	return conn, nil
}

func asConnError(err error) *ConnError {
	var ce *ConnError
	if errors.As(err, &ce) {
		return &ConnError{Reason: ce.Reason, Err: ce.Err}
	}
	return connErr(ReasonClosed, err)
}

func reasonFor(err error) Reason {
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	return ReasonClosed
}

func (s *Session) attach(conn Conn, code string, host bool) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.conn = conn
	s.code = code
	s.host = host
	s.peerName = ""
	s.handshook = false
	s.outbox = make(chan []byte, outboxSize)
	s.stop = make(chan struct{})
	outbox, stop := s.outbox, s.stop
	if !host {
		// The host is already waiting, so its handshake must arrive in time.
		s.resetWatchdogLocked(gen)
	}
	s.mu.Unlock()

	go s.readLoop(conn, gen)
	go s.writeLoop(conn, gen, outbox, stop)
	go s.heartbeat(stop)
}

func (s *Session) readLoop(conn Conn, gen uint64) {
	for {
		data, err := conn.ReadFrame()
		if err != nil {
			s.drop(gen, connErr(ReasonClosed, err))
			return
		}
		s.received(gen, data)
	}
}

func (s *Session) writeLoop(conn Conn, gen uint64, outbox <-chan []byte, stop <-chan struct{}) {
	for {
		select {
		case data := <-outbox:
			if err := conn.WriteFrame(data); err != nil {
				s.drop(gen, connErr(ReasonClosed, err))
				return
			}
		case <-stop:
			return
		}
	}
}

func (s *Session) heartbeat(stop <-chan struct{}) {
	if s.cfg.HeartbeatInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Send(Ping{})
		case <-stop:
			return
		}
	}
}

func (s *Session) received(gen uint64, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.resetWatchdogLocked(gen)

	msg, err := Decode(data)
	if err != nil {
		s.logger.Debug("ignoring frame", "err", err)
		return
	}

	switch m := msg.(type) {
	case Ping:
		return
	case Handshake:
		s.peerName = m.Name
		if !s.handshook {
			s.enqueueLocked(Handshake{Name: s.name})
		}
		if s.state != StateConnected {
			s.state = StateConnected
			s.logger.Info("peer connected", "peer", m.Name, "host", s.host)
		}
	}
	s.inbox = append(s.inbox, msg)
}

// resetWatchdogLocked re-arms the silence timer. A timer that fires after its
// generation ended does nothing.
func (s *Session) resetWatchdogLocked(gen uint64) {
	if s.cfg.WatchdogTimeout <= 0 {
		return
	}
	if s.watchdog != nil {
		s.watchdog.Stop()
	}
	s.watchdog = time.AfterFunc(s.cfg.WatchdogTimeout, func() {
		s.drop(gen, connErr(ReasonTimeout, errors.New("peer silent")))
	})
}

// drop ends the connection of generation gen after a failure and queues
// PeerLost for the application.
func (s *Session) drop(gen uint64, err *ConnError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.conn == nil {
		return
	}
	s.logger.Warn("peer connection lost", "reason", err.Reason, "err", err.Err)
	s.teardownLocked()
	s.inbox = append(s.inbox, PeerLost{Err: err})
}

func (s *Session) teardownLocked() {
	s.gen++
	if s.watchdog != nil {
		s.watchdog.Stop()
		s.watchdog = nil
	}
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.outbox = nil
	s.state = StateDisconnected
}

// Close tears the connection down. No timer or callback of the closed
// connection has any effect afterwards. Safe to call multiple times.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		s.state = StateDisconnected
		return nil
	}
	s.teardownLocked()
	return nil
}

// Send queues a message for the peer. It never blocks; when the queue is
// full the oldest frame is dropped. Messages sent while disconnected are
// discarded.
func (s *Session) Send(m Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enqueueLocked(m)
}

func (s *Session) enqueueLocked(m Message) {
	if s.outbox == nil {
		return
	}
	data, err := Encode(m)
	if err != nil {
		s.logger.Debug("not sending", "kind", m.Kind(), "err", err)
		return
	}
	if _, ok := m.(Handshake); ok {
		s.handshook = true
	}

	select {
	case s.outbox <- data:
	default:
		select {
		case <-s.outbox:
		default:
		}
		select {
		case s.outbox <- data:
		default:
		}
	}
}

// Drain returns and clears the buffered inbound messages, oldest first.
func (s *Session) Drain() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.inbox
	s.inbox = nil
	return out
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Code returns the join code of the current or last lobby.
func (s *Session) Code() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.code
}

// PeerName returns the name from the peer's handshake.
func (s *Session) PeerName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peerName
}

// IsHost reports whether this side opened the lobby.
func (s *Session) IsHost() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.host
}
