package multiplayer

import (
	"context"
	"errors"
	"sync"
)

// Conn is one established frame pipe to the relay or the peer.
type Conn interface {
	// WriteFrame sends one frame. It may be called from one goroutine at a time.
	WriteFrame(data []byte) error
	// ReadFrame blocks until a frame arrives or the connection ends.
	ReadFrame() ([]byte, error)
	Close() error
}

// Transport opens connections to a lobby identified by a join code.
// Failures are returned as *ConnError.
type Transport interface {
	Dial(ctx context.Context, code string, host bool) (Conn, error)
}

var errPipeClosed = errors.New("pipe closed")

// Loopback is an in-process Transport. Host and guest dials for the same
// code are paired; closing either end closes both, like the relay does.
type Loopback struct {
	mu      sync.Mutex
	lobbies map[string]*loopPair
}

type loopPair struct {
	host, guest *loopConn
	joined      bool
}

// NewLoopback creates an empty in-process transport.
func NewLoopback() *Loopback {
	return &Loopback{lobbies: make(map[string]*loopPair)}
}

// Dial implements Transport.
func (l *Loopback) Dial(ctx context.Context, code string, host bool) (Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, connErr(ReasonTimeout, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	pair, exists := l.lobbies[code]
	if host {
		if exists {
			return nil, connErr(ReasonUnavailableID, errors.New("code in use"))
		}
		pair = newLoopPair(func() { l.release(code) })
		l.lobbies[code] = pair
		return pair.host, nil
	}

	if !exists || pair.joined {
		return nil, connErr(ReasonUnavailableID, errors.New("no such lobby"))
	}
	pair.joined = true
	return pair.guest, nil
}

func (l *Loopback) release(code string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.lobbies, code)
}

func newLoopPair(onClose func()) *loopPair {
	a := make(chan []byte, 64)
	b := make(chan []byte, 64)
	done := make(chan struct{})
	shared := &loopShared{done: done, onClose: onClose}
	return &loopPair{
		host:  &loopConn{in: a, out: b, shared: shared},
		guest: &loopConn{in: b, out: a, shared: shared},
	}
}

type loopShared struct {
	done    chan struct{}
	once    sync.Once
	onClose func()
}

type loopConn struct {
	in, out chan []byte
	shared  *loopShared
}

// WriteFrame never blocks; frames are dropped when the peer's buffer is full.
func (c *loopConn) WriteFrame(data []byte) error {
	select {
	case <-c.shared.done:
		return errPipeClosed
	default:
	}
	frame := append([]byte(nil), data...)
	select {
	case c.out <- frame:
	default:
	}
	return nil
}

func (c *loopConn) ReadFrame() ([]byte, error) {
	select {
	case frame := <-c.in:
		return frame, nil
	case <-c.shared.done:
		return nil, errPipeClosed
	}
}

func (c *loopConn) Close() error {
	c.shared.once.Do(func() {
		close(c.shared.done)
		if c.shared.onClose != nil {
			c.shared.onClose()
		}
	})
	return nil
}
