package models

import "time"

// GateState represents the current state of the challenge gate
type GateState string

const (
	GateClosed   GateState = "closed"
	GatePending  GateState = "pending"  // Open, waiting for an answer
	GateRejected GateState = "rejected" // Open, wrong answer shown, clears after a delay
	GateAccepted GateState = "accepted" // Open, correct answer shown, closes after a delay
)

// IsOpen returns true if a challenge session exists in this state
func (s GateState) IsOpen() bool {
	return s == GatePending || s == GateRejected || s == GateAccepted
}

// Riddle is a code snippet plus the normalized answers that solve it
type Riddle struct {
	ID      string   `json:"id"`
	Code    string   `json:"code"`
	Answers []string `json:"-"` // Never serialize
}

// Accepts reports whether an already normalized answer solves the riddle
func (r *Riddle) Accepts(normalized string) bool {
	for _, a := range r.Answers {
		if a == normalized {
			return true
		}
	}
	return false
}

// ChallengeSession is the transient state of an open gate
type ChallengeSession struct {
	Riddle   *Riddle   `json:"riddle"`
	Input    string    `json:"input"`
	State    GateState `json:"state"`
	OpenedAt time.Time `json:"opened_at"`
}

// GateSnapshot is an immutable view of the gate handed to the shell
type GateSnapshot struct {
	State       GateState `json:"state"`
	Version     uint64    `json:"version"`
	RiddleID    string    `json:"riddle_id,omitempty"`
	Code        string    `json:"code,omitempty"`
	Input       string    `json:"input"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Placeholder string    `json:"placeholder"`
	Submit      string    `json:"submit"`
	Message     string    `json:"message,omitempty"` // error or success text for the current state
}

// ShellState is what the rendering shell re-renders on every mutation
type ShellState struct {
	ID        string       `json:"id"`
	Language  LanguageCode `json:"language"`
	Gate      GateSnapshot `json:"gate"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// SetLanguageRequest switches the active language of a shell
type SetLanguageRequest struct {
	Language LanguageCode `json:"language"`
}

// GateInputRequest carries the raw text typed into the gate
type GateInputRequest struct {
	Text string `json:"text"`
}
