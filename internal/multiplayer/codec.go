package multiplayer

import (
	"errors"
	"fmt"
	"math"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrUnknownKind is returned by Decode for a well-formed frame whose kind
// this build does not know. Callers ignore such frames.
var ErrUnknownKind = errors.New("multiplayer: unknown message kind")

// ErrMalformed is returned by Decode for a frame that does not parse, misses
// a required field or carries a value no simulation can use.
var ErrMalformed = errors.New("multiplayer: malformed frame")

// startWire and syncWire mirror Start and Sync with required fields as
// pointers, so a missing field is told apart from a zero one.
type startWire struct {
	Seed *int64 `msgpack:"seed"`
}

type syncWire struct {
	Seq           uint32   `msgpack:"seq"`
	X             *float64 `msgpack:"x"`
	Y             *float64 `msgpack:"y"`
	VX            *float64 `msgpack:"vx"`
	VY            *float64 `msgpack:"vy"`
	SkinIndex     *int     `msgpack:"skinIndex"`
	ActivePowerID int      `msgpack:"activePowerId"`
}

type envelope struct {
	Type Kind               `msgpack:"t"`
	Body msgpack.RawMessage `msgpack:"b,omitempty"`
}

// Encode serializes a message into one wire frame.
func Encode(m Message) ([]byte, error) {
	switch m.(type) {
	case Handshake, Start, Sync, Die, Revive, Ping:
	default:
		return nil, fmt.Errorf("multiplayer: cannot encode %q", m.Kind())
	}

	body, err := msgpack.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("multiplayer: cannot encode %s: %w", m.Kind(), err)
	}
	data, err := msgpack.Marshal(envelope{Type: m.Kind(), Body: body})
	if err != nil {
		return nil, fmt.Errorf("multiplayer: cannot encode envelope: %w", err)
	}
	return data, nil
}

// Decode parses one wire frame.
func Decode(data []byte) (Message, error) {
	var env envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	var err error
	switch env.Type {
	case KindHandshake:
		var m Handshake
		err = decodeBody(env.Body, &m)
		return m, err
	case KindStart:
		return decodeStart(env.Body)
	case KindSync:
		return decodeSync(env.Body)
	case KindDie:
		return Die{}, nil
	case KindRevive:
		return Revive{}, nil
	case KindPing:
		return Ping{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, env.Type)
	}
}

func decodeBody(body []byte, dst any) error {
	if len(body) == 0 {
		return nil
	}
	if err := msgpack.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return nil
}

func decodeStart(body []byte) (Message, error) {
	var w startWire
	if err := decodeBody(body, &w); err != nil {
		return nil, err
	}
	if w.Seed == nil {
		return nil, fmt.Errorf("%w: start without seed", ErrMalformed)
	}
	return Start{Seed: *w.Seed}, nil
}

func decodeSync(body []byte) (Message, error) {
	var w syncWire
	if err := decodeBody(body, &w); err != nil {
		return nil, err
	}
	if w.X == nil || w.Y == nil || w.VX == nil || w.VY == nil || w.SkinIndex == nil {
		return nil, fmt.Errorf("%w: sync missing a field", ErrMalformed)
	}
	for _, v := range []float64{*w.X, *w.Y, *w.VX, *w.VY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: sync with non-finite coordinate", ErrMalformed)
		}
	}
	return Sync{
		Seq:           w.Seq,
		X:             *w.X,
		Y:             *w.Y,
		VX:            *w.VX,
		VY:            *w.VY,
		SkinIndex:     *w.SkinIndex,
		ActivePowerID: w.ActivePowerID,
	}, nil
}
