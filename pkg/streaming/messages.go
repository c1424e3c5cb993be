// Package streaming defines the JSON messages exchanged with a live
// telemetry server over WebSocket.
package streaming

import (
	"encoding/json"

	"github.com/astrolab/envsim/pkg/core"
)

// Message types.
const (
	TypeStartSession = "start_session"
	TypeEndSession   = "end_session"
	TypeSnapshot     = "snapshot"
	TypeThrust       = "thrust"
	TypeAck          = "ack"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckMessage is the server's acknowledgement response.
type AckMessage struct {
	Type string `json:"type"` // always "ack"
	For  string `json:"for"`  // the message type being acknowledged
}

// StartSessionPayload announces a session before any snapshot is streamed.
type StartSessionPayload struct {
	Session *core.SessionInfo `json:"session"`
}

// Marshal builds a JSON-encoded Envelope from a message type and payload.
func Marshal(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}
