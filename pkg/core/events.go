package core

import "time"

// Event is the interface for all adapter events.
type Event interface {
	eventMarker()
}

// InvocationStarted is emitted before the target is resolved.
type InvocationStarted struct {
	ID        string
	Target    string
	Timestamp time.Time
}

func (*InvocationStarted) eventMarker() {}

// InvocationSucceeded is emitted when the target returned without error.
type InvocationSucceeded struct {
	ID        string
	Target    string
	Chained   bool
	Duration  time.Duration
	Timestamp time.Time
}

func (*InvocationSucceeded) eventMarker() {}

// InvocationFailed is emitted when resolution or invocation failed.
type InvocationFailed struct {
	ID        string
	Target    string
	Chained   bool
	Status    int
	Error     error
	Duration  time.Duration
	Timestamp time.Time
}

func (*InvocationFailed) eventMarker() {}
