package ws

import (
	"prize_wheel/internal/domain"
	"prize_wheel/internal/game"
	"prize_wheel/internal/render"
)

// Message is the envelope of every frame on the socket
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// client → server
type Inbound struct {
	Type string `json:"type"` // spin | reset | ping
}

// server → client
type ReadyPayload struct {
	SessionID string                 `json:"session_id"`
	Segments  []game.Segment         `json:"segments"`
	State     domain.SessionSnapshot `json:"state"`
}

type FramePayload struct {
	Orientation float64          `json:"orientation"`
	Commands    []render.Command `json:"commands,omitempty"`
}

type ResultPayload struct {
	SpinID    uint64       `json:"spin_id"`
	Outcome   game.Outcome `json:"outcome"`
	Claimable bool         `json:"claimable"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
