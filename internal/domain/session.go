package domain

import "prize_wheel/internal/game"

// Phase is the outcome controller state of a wheel session
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseSpinning Phase = "spinning"
	PhaseResolved Phase = "resolved"
)

// Effects are the transient visual states driven by the last outcome
type Effects struct {
	Celebration bool `json:"celebration"`
	Loss        bool `json:"loss"`
}

// SpinOutcome is a resolved spin
type SpinOutcome struct {
	SpinID  uint64       `json:"spin_id"`
	Outcome game.Outcome `json:"outcome"`
}

// SessionSnapshot is a read-only view of a session for the outer layers
type SessionSnapshot struct {
	SessionID   string        `json:"session_id"`
	Phase       Phase         `json:"phase"`
	Orientation float64       `json:"orientation"`
	CanSpin     bool          `json:"can_spin"`
	Spinning    bool          `json:"spinning"`
	SpinCount   uint64        `json:"spin_count"`
	Result      *game.Outcome `json:"result,omitempty"`
	Claimable   bool          `json:"claimable"`
	Effects     Effects       `json:"effects"`
	RecentWins  []RecentWin   `json:"recent_wins"`
}
