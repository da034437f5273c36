package protocol

import (
	"encoding/json"
	"fmt"
)

// DecodeServerMessage parses one inbound text frame. Unknown envelopes decode
// to an empty ServerMessage so newer server fields never break the session.
func DecodeServerMessage(data []byte) (*ServerMessage, error) {
	var msg ServerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decode server frame: %w", err)
	}
	return &msg, nil
}

// EncodeClientMessage marshals any client envelope for the wire.
func EncodeClientMessage(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode client frame: %w", err)
	}
	return data, nil
}
