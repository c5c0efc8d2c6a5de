package multiplayer

import "fmt"

// Reason classifies a connection failure.
type Reason string

const (
	ReasonUnavailableID Reason = "unavailable-id" // Code taken (host) or unknown (guest)
	ReasonTimeout       Reason = "timeout"        // Dial timed out or the watchdog fired
	ReasonClosed        Reason = "closed"         // Transport closed or failed
)

// ConnError is every connection failure surfaced to callers.
// Terminal is set when connection retries were exhausted; a drop after
// the peers connected is never terminal.
type ConnError struct {
	Reason   Reason
	Terminal bool
	Err      error
}

func (e *ConnError) Error() string {
	prefix := "multiplayer: connection " + string(e.Reason)
	if e.Terminal {
		prefix = "multiplayer: gave up connecting: " + string(e.Reason)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", prefix, e.Err)
	}
	return prefix
}

func (e *ConnError) Unwrap() error {
	return e.Err
}

func connErr(reason Reason, err error) *ConnError {
	return &ConnError{Reason: reason, Err: err}
}
