package network

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/lixenwraith/siege/engine"
)

// MessageType identifies the semantic meaning of a stream frame
type MessageType uint8

const (
	MsgHello    MessageType = 0x01 // First frame, carries the session id
	MsgSnapshot MessageType = 0x11 // Full world snapshot
)

// Frame is one binary websocket message
type Frame struct {
	Type     MessageType      `msgpack:"type"`
	Seq      uint32           `msgpack:"seq"`
	Session  string           `msgpack:"session,omitempty"`
	Snapshot *engine.Snapshot `msgpack:"snapshot,omitempty"`
}

// Encode writes the frame as msgpack
func (f *Frame) Encode() ([]byte, error) {
	data, err := msgpack.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode frame %d: %w", f.Seq, err)
	}
	return data, nil
}

// DecodeFrame parses a msgpack frame
func DecodeFrame(data []byte) (*Frame, error) {
	var f Frame
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return &f, nil
}
