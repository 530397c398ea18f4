package core

import (
	"context"
	"time"
)

// Outcome is the terminal state of an invocation.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

// Invocation is the record of one handled request.
type Invocation struct {
	ID        string        `gorm:"primaryKey;size:36"`
	RequestID string        `gorm:"index;size:255"`
	Target    string        `gorm:"index;size:1024;not null"`
	Method    string        `gorm:"size:16"`
	Path      string        `gorm:"size:2048"`
	ArgCount  int           `gorm:"default:0"`
	Outcome   Outcome       `gorm:"index;size:20;not null"`
	Status    int           `gorm:"default:0"` // 0 when the outcome was forwarded to a continuation
	Chained   bool          `gorm:"default:false"`
	Error     string        `gorm:"type:text"`
	StartedAt time.Time     `gorm:"index"`
	Duration  time.Duration `gorm:"default:0"`
	CreatedAt time.Time     `gorm:"autoCreateTime"`
}

// Recorder persists invocation records.
type Recorder interface {
	Record(ctx context.Context, inv *Invocation) error
}
