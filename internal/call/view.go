package call

import (
	"github.com/jwulff/coach/internal/coaching"
	"github.com/jwulff/coach/internal/metrics"
)

// CallContext describes what the call is configured for. It is a value copy
// and never changes after it is returned.
type CallContext struct {
	Product   string
	Focus     string
	Visible   bool
	Recording bool
}

// Controls reports which actions the control surface should enable.
type Controls struct {
	CanStart bool
	CanEnd   bool
	CanEdit  bool
}

// View is an immutable snapshot of everything the UI renders for a session.
type View struct {
	SessionID string
	Operator  string
	Status    Status
	Loading   bool
	Product   string
	Focus     string

	Metrics    metrics.Display
	Transcript TranscriptView

	// Recommendations is only meaningful when HasRecommendations is set.
	Recommendations    coaching.Section
	HasRecommendations bool

	// Context is only meaningful when HasContext is set.
	Context    CallContext
	HasContext bool

	Controls Controls
}

// Snapshot returns the call context, or false when the context is hidden.
func (s *Session) Snapshot() (CallContext, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() (CallContext, bool) {
	if !s.contextVisible {
		return CallContext{}, false
	}
	return CallContext{
		Product:   s.product,
		Focus:     s.focus,
		Visible:   true,
		Recording: s.status == StatusRecording,
	}, true
}

// Controls reports which actions are currently permitted.
func (s *Session) Controls() Controls {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controls()
}

func (s *Session) controls() Controls {
	idle := s.status == StatusIdle && !s.loading
	return Controls{
		CanStart: idle && s.product != "" && s.focus != "",
		CanEnd:   s.status == StatusRecording && !s.loading,
		CanEdit:  idle,
	}
}

// State returns a consistent snapshot of the session for rendering.
func (s *Session) State() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		SessionID:  s.id,
		Operator:   s.operator,
		Status:     s.status,
		Loading:    s.loading,
		Product:    s.product,
		Focus:      s.focus,
		Metrics:    s.currentMetrics().Display(),
		Transcript: s.transcript.View(),
		Controls:   s.controls(),
	}
	v.Recommendations, v.HasRecommendations = coaching.Classify(s.recs)
	v.Context, v.HasContext = s.snapshot()
	return v
}
