package scooter

import "fmt"

// ActionState tracks one booking request from the user's click to the
// backend's answer.
type ActionState int

const (
	Idle ActionState = iota
	Pending
	Committed
	Failed
)

func (s ActionState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Committed:
		return "committed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("ActionState(%d)", int(s))
	}
}

// Action is the latest booking attempt for a scooter. Err is set only in the
// Failed state.
type Action struct {
	ScooterID string
	State     ActionState
	Err       error
}
