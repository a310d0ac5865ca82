// Package db provides SQLite persistence for finished coaching calls.
package db

import (
	"time"

	"github.com/jwulff/coach/internal/metrics"
)

// Call represents a finished call as stored.
type Call struct {
	ID         string
	Operator   string
	Product    string
	Focus      string
	StartedAt  time.Time
	EndedAt    time.Time
	Transcript string
	Metrics    metrics.Metrics
	CreatedAt  time.Time
}

// Duration returns how long the call lasted.
func (c Call) Duration() time.Duration {
	return c.EndedAt.Sub(c.StartedAt)
}
