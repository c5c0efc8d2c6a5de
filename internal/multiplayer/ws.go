package multiplayer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WSTransport dials lobbies on a Relay over websocket.
type WSTransport struct {
	relayURL string
	dialer   *websocket.Dialer
}

// NewWSTransport creates a transport for the relay endpoint, e.g.
// ws://localhost:8787/relay.
func NewWSTransport(relayURL string) *WSTransport {
	return &WSTransport{
		relayURL: relayURL,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

// Dial implements Transport.
func (t *WSTransport) Dial(ctx context.Context, code string, host bool) (Conn, error) {
	target, err := lobbyURL(t.relayURL, code, host)
	if err != nil {
		return nil, connErr(ReasonClosed, err)
	}

	conn, resp, err := t.dialer.DialContext(ctx, target, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusNotFound) {
			return nil, connErr(ReasonUnavailableID, fmt.Errorf("relay answered %s", resp.Status))
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, connErr(ReasonTimeout, err)
		}
		return nil, connErr(ReasonClosed, err)
	}
	return &wsConn{conn: conn}, nil
}

func lobbyURL(base, code string, host bool) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("multiplayer: bad relay url %q: %w", base, err)
	}
	role := roleGuest
	if host {
		role = roleHost
	}
	q := u.Query()
	q.Set("code", code)
	q.Set("role", role)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// wsConn carries one frame per binary websocket message.
type wsConn struct {
	conn *websocket.Conn
	wmu  sync.Mutex
	once sync.Once
}

func (c *wsConn) WriteFrame(data []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.conn.WriteMessage(websocket.BinaryMessage, data)
}

func (c *wsConn) ReadFrame() ([]byte, error) {
	for {
		kind, payload, err := c.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if kind == websocket.BinaryMessage {
			return payload, nil
		}
	}
}

func (c *wsConn) Close() error {
	var err error
	c.once.Do(func() {
		c.wmu.Lock()
		c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		c.wmu.Unlock()
		err = c.conn.Close()
	})
	return err
}
