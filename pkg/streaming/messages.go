package streaming

import (
	"encoding/json"

	"github.com/doctor-spaghetti-md/mrdarcy/pkg/core"
)

// Message type constants matching the streaming protocol.
const (
	TypeHello   = "hello"
	TypeFrame   = "frame"
	TypeCommand = "command"
	TypeResult  = "result"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// HelloPayload is sent once when a viewer connects: everything static
// it needs to set up its display before frames start arriving.
type HelloPayload struct {
	Title     string       `json:"title"`
	Sector    string       `json:"sector"`
	DurationS float64      `json:"duration_s"`
	Center    core.LatLng  `json:"center"`
	Aircraft  []core.Track `json:"aircraft"`
}

// FramePayload carries one published frame snapshot.
type FramePayload struct {
	Snapshot core.FrameSnapshot `json:"snapshot"`
}

// CommandPayload is an inbound control command from a viewer.
type CommandPayload struct {
	Name string   `json:"name"`
	Args []string `json:"args,omitempty"`
}

// ResultPayload is the reply to a command.
type ResultPayload struct {
	For   string `json:"for"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Value any    `json:"value,omitempty"`
}
