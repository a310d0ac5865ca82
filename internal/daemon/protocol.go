// Package daemon provides the client and protocol types for communicating with
// coach-daemon over a Unix socket using NDJSON.
package daemon

import (
	"github.com/jwulff/coach/internal/coaching"
	"github.com/jwulff/coach/internal/metrics"
)

// Command names understood by the daemon.
const (
	CmdBegin     = "begin"
	CmdEnd       = "end"
	CmdStatus    = "status"
	CmdSubscribe = "subscribe"
)

// Event names streamed to subscribers.
const (
	EventTranscript      = "transcript"
	EventMetrics         = "metrics"
	EventRecommendations = "recommendations"
	EventStatus          = "status"
	EventError           = "error"
)

// Command is sent from a client to the daemon.
type Command struct {
	Cmd      string   `json:"cmd"`
	Product  string   `json:"product,omitempty"`
	Focus    string   `json:"focus,omitempty"`
	Operator string   `json:"operator,omitempty"`
	Events   []string `json:"events,omitempty"`
}

// Response is returned by the daemon after processing a command.
type Response struct {
	OK        bool   `json:"ok"`
	SessionID string `json:"sessionId,omitempty"`
	Recording *bool  `json:"recording,omitempty"`
	Product   string `json:"product,omitempty"`
	Focus     string `json:"focus,omitempty"`
	Error     string `json:"error,omitempty"`
	Status    string `json:"status,omitempty"`
}

// Event is streamed from the daemon to subscribed clients.
type Event struct {
	Event           string                    `json:"event"`
	Text            string                    `json:"text,omitempty"`
	SessionID       string                    `json:"sessionId,omitempty"`
	Metrics         *metrics.Raw              `json:"metrics,omitempty"`
	Recommendations []coaching.Recommendation `json:"recommendations,omitempty"`
	Recording       *bool                     `json:"recording,omitempty"`
	Message         string                    `json:"message,omitempty"`
	Transient       *bool                     `json:"transient,omitempty"`
}

// BoolPtr returns a pointer to a bool value. Convenience for building events.
func BoolPtr(b bool) *bool { return &b }
