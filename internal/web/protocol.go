// Package web hosts browser sessions over WebSocket. Messages are msgpack
// envelopes carrying a type tag and an encoded payload.
package web

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Client to server
const (
	MsgKey      = "key"
	MsgAxis     = "axis"
	MsgPad      = "pad"
	MsgPadGone  = "pad_gone"
	MsgPointer  = "pointer"
	MsgViewport = "viewport"
	MsgBlur     = "blur"
)

// Server to client
const (
	MsgFrame   = "frame"
	MsgSpawned = "spawned"
	MsgRemoved = "removed"
	MsgGrew    = "grew"
)

type Envelope struct {
	T string             `msgpack:"t"`
	P msgpack.RawMessage `msgpack:"p"`
}

type KeyMsg struct {
	Name string `msgpack:"name"`
	Down bool   `msgpack:"down"`
}

type AxisMsg struct {
	Pad  string  `msgpack:"pad"`
	Name string  `msgpack:"name"`
	X    float64 `msgpack:"x"`
	Y    float64 `msgpack:"y"`
}

type PadMsg struct {
	ID     string `msgpack:"id"`
	Button int    `msgpack:"button"`
	Down   bool   `msgpack:"down"`
}

type PadGoneMsg struct {
	ID string `msgpack:"id"`
}

type PointerMsg struct {
	X    float64 `msgpack:"x"`
	Y    float64 `msgpack:"y"`
	Down bool    `msgpack:"down"`
}

type ViewportMsg struct {
	W float64 `msgpack:"w"`
	H float64 `msgpack:"h"`
}

type BlurMsg struct{}

type SnakeMsg struct {
	ID       int          `msgpack:"id"`
	Bot      bool         `msgpack:"bot"`
	Segments [][2]float64 `msgpack:"segments"` // head first, x/y only
}

type PebbleMsg struct {
	ID int     `msgpack:"id"`
	X  float64 `msgpack:"x"`
	Y  float64 `msgpack:"y"`
}

type FrameMsg struct {
	Tick     uint64      `msgpack:"tick"`
	Cooldown float64     `msgpack:"cooldown"` // seconds until B/V act again
	Source   string      `msgpack:"source"`
	Snakes   []SnakeMsg  `msgpack:"snakes"`
	Pebbles  []PebbleMsg `msgpack:"pebbles"`
}

type SpawnedMsg struct {
	ID  int     `msgpack:"id"`
	Bot bool    `msgpack:"bot"`
	X   float64 `msgpack:"x"`
	Y   float64 `msgpack:"y"`
}

type RemovedMsg struct {
	ID       int `msgpack:"id"`
	Segments int `msgpack:"segments"`
}

type GrewMsg struct {
	ID     int     `msgpack:"id"`
	Pebble int     `msgpack:"pebble"`
	X      float64 `msgpack:"x"`
	Y      float64 `msgpack:"y"`
}

// Encode wraps payload in an envelope of type t.
func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("encode envelope: empty type")
	}
	if payload == nil {
		return nil, fmt.Errorf("encode %s: nil payload", t)
	}
	pb, err := msgpack.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", t, err)
	}
	return msgpack.Marshal(&Envelope{T: t, P: pb})
}

// DecodeEnvelope reads the envelope without touching the payload.
func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, fmt.Errorf("decode envelope: empty message")
	}
	var e Envelope
	if err := msgpack.Unmarshal(b, &e); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if e.T == "" {
		return Envelope{}, fmt.Errorf("decode envelope: missing type")
	}
	return e, nil
}

// DecodePayload decodes the envelope payload as T.
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("empty payload for type %q", env.T)
	}
	if err := msgpack.Unmarshal(env.P, &out); err != nil {
		return out, fmt.Errorf("decode %s payload: %w", env.T, err)
	}
	return out, nil
}
