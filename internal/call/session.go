// Package call holds the state of one live coaching call: its lifecycle,
// transcript, metrics and recommendations, and the derived values the UI
// renders.
package call

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jwulff/coach/internal/coaching"
	"github.com/jwulff/coach/internal/metrics"
	"go.uber.org/zap"
)

// Status is the lifecycle state of a call session.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusStarting  Status = "starting"
	StatusRecording Status = "recording"
	StatusEnding    Status = "ending"
)

// Transient reports whether s only exists while a transport call is pending.
func (s Status) Transient() bool {
	return s == StatusStarting || s == StatusEnding
}

// Transport begins and ends calls out of process. Implementations should
// return promptly once ctx is done.
type Transport interface {
	BeginCall(ctx context.Context, product, focus string) error
	EndCall(ctx context.Context) error
}

// StartRequest describes a call that has entered Starting and is waiting on
// the transport.
type StartRequest struct {
	SessionID string
	Product   string
	Focus     string
}

// Record is a finished call, frozen at the moment it ended.
type Record struct {
	ID              string
	Operator        string
	Product         string
	Focus           string
	StartedAt       time.Time
	EndedAt         time.Time
	Transcript      string
	Metrics         metrics.Metrics
	Recommendations []coaching.Recommendation
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for lifecycle transitions.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithOperator sets the acting user recorded with each call.
func WithOperator(name string) Option {
	return func(s *Session) { s.operator = name }
}

// WithCallContext sets the product and focus for the first call.
func WithCallContext(product, focus string) Option {
	return func(s *Session) {
		s.product = strings.TrimSpace(product)
		s.focus = strings.TrimSpace(focus)
	}
}

// WithContextVisible sets the initial visibility of the context panel.
func WithContextVisible(v bool) Option {
	return func(s *Session) { s.contextVisible = v }
}

// Session is the single owner of one call's state. All methods are safe for
// concurrent use. Start and end are serialized through the loading gate: while
// a transport call is pending, every other transition is rejected.
type Session struct {
	mu        sync.Mutex
	transport Transport
	logger    *zap.Logger
	now       func() time.Time
	operator  string

	status    Status
	loading   bool
	product   string
	focus     string
	id        string
	startedAt time.Time

	transcript     Transcript
	raw            metrics.Raw
	recs           []coaching.Recommendation
	contextVisible bool
}

// New creates an idle session that uses t to begin and end calls.
func New(t Transport, opts ...Option) *Session {
	s := &Session{
		transport: t,
		logger:    zap.NewNop(),
		now:       time.Now,
		status:    StatusIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetProduct sets the product the next call is about.
func (s *Session) SetProduct(product string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.configurable("set product"); err != nil {
		return err
	}
	s.product = strings.TrimSpace(product)
	return nil
}

// SetFocus sets the coaching focus for the next call.
func (s *Session) SetFocus(focus string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.configurable("set focus"); err != nil {
		return err
	}
	s.focus = strings.TrimSpace(focus)
	return nil
}

func (s *Session) configurable(op string) error {
	if s.loading {
		return invalid(op, "call busy")
	}
	if s.status != StatusIdle {
		return invalid(op, "call in progress")
	}
	return nil
}

// RequestStart moves Idle to Starting and clears the transcript. The caller
// must invoke the transport and report the outcome with Started.
func (s *Session) RequestStart() (StartRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.loading:
		return StartRequest{}, invalid("start call", "call busy")
	case s.status != StatusIdle:
		return StartRequest{}, invalid("start call", "call already "+string(s.status))
	case s.product == "" || s.focus == "":
		return StartRequest{}, invalid("start call", "product and focus are required")
	}

	s.status = StatusStarting
	s.loading = true
	s.id = uuid.NewString()
	s.transcript.Reset()
	s.raw = metrics.Raw{}
	s.recs = nil

	s.logger.Info("call starting",
		zap.String("session", s.id),
		zap.String("product", s.product),
		zap.String("focus", s.focus))

	return StartRequest{SessionID: s.id, Product: s.product, Focus: s.focus}, nil
}

// Started completes a pending start. A nil err moves to Recording; otherwise
// the session returns to Idle and the failure is returned wrapped in
// ErrCollaboratorFailure.
func (s *Session) Started(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusStarting || !s.loading {
		return invalid("call started", "no start pending")
	}
	s.loading = false

	if err != nil {
		s.logger.Warn("begin call failed", zap.String("session", s.id), zap.Error(err))
		s.status = StatusIdle
		s.id = ""
		return collaborator("begin call", err)
	}

	s.status = StatusRecording
	s.startedAt = s.now()
	s.logger.Info("call recording", zap.String("session", s.id))
	return nil
}

// Start begins a call: RequestStart, the transport's BeginCall, then Started.
// A deadline or cancellation on ctx surfaces as a collaborator failure.
func (s *Session) Start(ctx context.Context) error {
	req, err := s.RequestStart()
	if err != nil {
		return err
	}
	return s.Started(s.begin(ctx, req))
}

func (s *Session) begin(ctx context.Context, req StartRequest) error {
	if s.transport == nil {
		return errNoTransport
	}
	if err := s.transport.BeginCall(ctx, req.Product, req.Focus); err != nil {
		return err
	}
	return nil
}

// RequestEnd moves Recording to Ending. The caller must invoke the transport
// and report the outcome with Ended.
func (s *Session) RequestEnd() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.loading:
		return invalid("end call", "call busy")
	case s.status != StatusRecording:
		return invalid("end call", "call is "+string(s.status))
	}

	s.status = StatusEnding
	s.loading = true
	s.logger.Info("call ending", zap.String("session", s.id))
	return nil
}

// Ended completes a pending end. A nil err freezes the call into a Record,
// clears the transcript, resets metrics and returns to Idle. Otherwise the
// session stays Recording and the failure is returned wrapped in
// ErrCollaboratorFailure.
func (s *Session) Ended(err error) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusEnding || !s.loading {
		return Record{}, invalid("call ended", "no end pending")
	}
	s.loading = false

	if err != nil {
		s.logger.Warn("end call failed", zap.String("session", s.id), zap.Error(err))
		s.status = StatusRecording
		return Record{}, collaborator("end call", err)
	}

	words := s.transcript.Words()
	rec := Record{
		ID:              s.id,
		Operator:        s.operator,
		Product:         s.product,
		Focus:           s.focus,
		StartedAt:       s.startedAt,
		EndedAt:         s.now(),
		Transcript:      s.transcript.Text(),
		Metrics:         s.currentMetrics(),
		Recommendations: append([]coaching.Recommendation(nil), s.recs...),
	}

	s.status = StatusIdle
	s.id = ""
	s.startedAt = time.Time{}
	s.transcript.Reset()
	s.raw = metrics.Raw{}
	s.recs = nil

	s.logger.Info("call ended",
		zap.String("session", rec.ID),
		zap.Int("words", words),
		zap.Duration("duration", rec.EndedAt.Sub(rec.StartedAt)))
	return rec, nil
}

// End ends the call: RequestEnd, the transport's EndCall, then Ended.
func (s *Session) End(ctx context.Context) (Record, error) {
	if err := s.RequestEnd(); err != nil {
		return Record{}, err
	}
	var err error
	if s.transport == nil {
		err = errNoTransport
	} else {
		err = s.transport.EndCall(ctx)
	}
	return s.Ended(err)
}

// AppendTranscript appends a transcript delta. Rejected outside Recording.
func (s *Session) AppendTranscript(delta string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusRecording {
		return ErrNotRecording
	}
	s.transcript.Append(delta)
	return nil
}

// UpdateMetrics replaces the daemon-supplied metrics. Fields left absent are
// estimated from the transcript. Rejected outside Recording.
func (s *Session) UpdateMetrics(r metrics.Raw) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusRecording {
		return ErrNotRecording
	}
	s.raw = copyRaw(r)
	return nil
}

// SetRecommendations replaces the current recommendation set. Rejected
// outside Recording.
func (s *Session) SetRecommendations(recs []coaching.Recommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusRecording {
		return ErrNotRecording
	}
	s.recs = append([]coaching.Recommendation(nil), recs...)
	return nil
}

// SetContextVisible shows or hides the call context.
func (s *Session) SetContextVisible(v bool) {
	s.mu.Lock()
	s.contextVisible = v
	s.mu.Unlock()
}

// ToggleContext flips context visibility and returns the new value.
func (s *Session) ToggleContext() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contextVisible = !s.contextVisible
	return s.contextVisible
}

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Loading reports whether a start or end is pending.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// currentMetrics merges daemon metrics with transcript estimates. Callers
// hold s.mu.
func (s *Session) currentMetrics() metrics.Metrics {
	if s.status != StatusRecording && s.status != StatusEnding {
		return metrics.Metrics{}
	}
	est := metrics.FromTranscript(s.transcript.Text(), s.now().Sub(s.startedAt))
	raw := s.raw
	if raw.DurationSeconds == nil {
		raw.DurationSeconds = est.DurationSeconds
	}
	if raw.WordsPerMinute == nil {
		raw.WordsPerMinute = est.WordsPerMinute
	}
	if raw.FillerWordCount == nil {
		raw.FillerWordCount = est.FillerWordCount
	}
	return metrics.Normalize(raw)
}

func copyRaw(r metrics.Raw) metrics.Raw {
	cp := func(v *int64) *int64 {
		if v == nil {
			return nil
		}
		return metrics.Int64(*v)
	}
	return metrics.Raw{
		DurationSeconds:  cp(r.DurationSeconds),
		WordsPerMinute:   cp(r.WordsPerMinute),
		TalkRatioPercent: cp(r.TalkRatioPercent),
		FillerWordCount:  cp(r.FillerWordCount),
	}
}
