package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwulff/coach/internal/call"
	"github.com/jwulff/coach/internal/coaching"
	"github.com/jwulff/coach/internal/daemon"
	"github.com/jwulff/coach/internal/metrics"
)

// fakeConn is an in-memory daemon connection.
type fakeConn struct {
	mu     sync.Mutex
	cmds   []daemon.Command
	reject string
	block  bool
	closed bool
	events chan daemon.Event
}

func newFakeConn() *fakeConn {
	return &fakeConn{events: make(chan daemon.Event, 8)}
}

func (c *fakeConn) SendCommand(ctx context.Context, cmd daemon.Command) (daemon.Response, error) {
	c.mu.Lock()
	c.cmds = append(c.cmds, cmd)
	block, reject := c.block, c.reject
	c.mu.Unlock()

	if block {
		<-ctx.Done()
		return daemon.Response{}, ctx.Err()
	}
	if reject != "" {
		return daemon.Response{OK: false, Error: reject}, nil
	}
	return daemon.Response{OK: true}, nil
}

func (c *fakeConn) ReadEvent() (daemon.Event, error) {
	ev, ok := <-c.events
	if !ok {
		return daemon.Event{}, io.EOF
	}
	return ev, nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.events)
	}
	return nil
}

func (c *fakeConn) commands() []daemon.Command {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]daemon.Command(nil), c.cmds...)
}

type fakeSaver struct {
	mu    sync.Mutex
	saved []call.Record
	err   error
}

func (s *fakeSaver) SaveCall(rec call.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, rec)
	return nil
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var keySpace = keyRunes(" ")

// connectedModel returns a sized, connected model ready to start a call.
func connectedModel(t *testing.T) (Model, *fakeConn) {
	t.Helper()
	m := New(Options{
		Operator:    "dana",
		Product:     "Acme Cloud",
		Focus:       "Renewal",
		ShowContext: true,
	})
	m.width = 100
	m.height = 30

	conn := newFakeConn()
	m, _ = update(m, DaemonConnectedMsg{Client: conn, EvClient: newFakeConn()})
	return m, conn
}

// recordingModel returns a model whose call has reached Recording.
func recordingModel(t *testing.T) (Model, *fakeConn) {
	t.Helper()
	m, conn := connectedModel(t)
	m, _ = update(m, keySpace)
	m, _ = update(m, CallStartedMsg{})
	if got := m.session.Status(); got != call.StatusRecording {
		t.Fatalf("status = %q, want recording", got)
	}
	return m, conn
}

func TestNewModelOpensFormWithoutContext(t *testing.T) {
	m := New(Options{})
	if !m.editing {
		t.Error("model without product and focus should open the setup form")
	}
	if m.connected {
		t.Error("new model should not be connected")
	}
	if !m.transcriptLive {
		t.Error("new model should be in live mode")
	}
}

func TestNewModelWithContext(t *testing.T) {
	m := New(Options{Product: "Acme", Focus: "Renewal"})
	if m.editing {
		t.Error("form should stay closed when product and focus are configured")
	}
	if !m.session.Controls().CanStart {
		t.Error("configured model should be able to start")
	}
}

func TestDaemonConnectError(t *testing.T) {
	m := New(Options{})
	m.width = 80
	m.height = 24

	model, cmd := update(m, DaemonConnectErrorMsg{Err: fmt.Errorf("connection refused")})

	if model.connected {
		t.Error("should not be connected after error")
	}
	if !model.reconnecting {
		t.Error("should be reconnecting after connect error")
	}
	if cmd == nil {
		t.Error("connect error should schedule a reconnect")
	}
}

func TestConnectWithoutDialer(t *testing.T) {
	msg := connectCmd(nil)()
	if _, ok := msg.(DaemonConnectErrorMsg); !ok {
		t.Errorf("msg = %T, want DaemonConnectErrorMsg", msg)
	}
}

func TestConnectDialsTwice(t *testing.T) {
	var dials int
	dial := func(ctx context.Context) (Conn, error) {
		dials++
		return newFakeConn(), nil
	}

	msg, ok := connectCmd(dial)().(DaemonConnectedMsg)
	if !ok {
		t.Fatal("expected DaemonConnectedMsg")
	}
	if dials != 2 || msg.Client == msg.EvClient {
		t.Errorf("dials = %d, want two distinct connections", dials)
	}
}

func TestConnectClosesFirstOnSecondFailure(t *testing.T) {
	first := newFakeConn()
	var dials int
	dial := func(ctx context.Context) (Conn, error) {
		dials++
		if dials == 1 {
			return first, nil
		}
		return nil, errors.New("refused")
	}

	if _, ok := connectCmd(dial)().(DaemonConnectErrorMsg); !ok {
		t.Fatal("expected DaemonConnectErrorMsg")
	}
	if !first.closed {
		t.Error("command connection should be closed when the event dial fails")
	}
}

func TestSpaceIgnoredWhenDisconnected(t *testing.T) {
	m := New(Options{Product: "Acme", Focus: "Renewal"})
	m, cmd := update(m, keySpace)
	if cmd != nil {
		t.Error("space should do nothing while disconnected")
	}
	if m.session.Status() != call.StatusIdle {
		t.Errorf("status = %q, want idle", m.session.Status())
	}
}

func TestStartCallFlow(t *testing.T) {
	m, conn := connectedModel(t)

	m, cmd := update(m, keySpace)
	if cmd == nil {
		t.Fatal("space should start the call")
	}
	if m.session.Status() != call.StatusStarting || !m.session.Loading() {
		t.Fatalf("status = %q loading=%v, want starting and loading", m.session.Status(), m.session.Loading())
	}
	if !strings.Contains(m.View(), "STARTING") {
		t.Error("view should show the starting indicator")
	}

	// A second press while starting is ignored.
	m, _ = update(m, keySpace)
	if m.session.Status() != call.StatusStarting {
		t.Errorf("status = %q after second press", m.session.Status())
	}

	msg := beginCmd(m.link, call.StartRequest{Product: "Acme Cloud", Focus: "Renewal"}, time.Second)()
	m, _ = update(m, msg)
	if m.session.Status() != call.StatusRecording {
		t.Fatalf("status = %q, want recording", m.session.Status())
	}

	cmds := conn.commands()
	if len(cmds) != 1 {
		t.Fatalf("commands = %+v, want one begin", cmds)
	}
	begin := cmds[0]
	if begin.Cmd != daemon.CmdBegin || begin.Product != "Acme Cloud" || begin.Focus != "Renewal" || begin.Operator != "dana" {
		t.Errorf("begin = %+v", begin)
	}
}

func TestStartFailureReturnsToIdle(t *testing.T) {
	m, _ := connectedModel(t)
	m, _ = update(m, keySpace)

	m, cmd := update(m, CallStartedMsg{Err: errors.New("daemon busy")})

	if m.session.Status() != call.StatusIdle || m.session.Loading() {
		t.Errorf("status = %q loading=%v, want idle", m.session.Status(), m.session.Loading())
	}
	if !strings.Contains(m.errorMessage, "daemon busy") {
		t.Errorf("errorMessage = %q", m.errorMessage)
	}
	if !m.errorTransient || cmd == nil {
		t.Error("start failure should be a transient error")
	}
}

func TestBeginCmdTimeout(t *testing.T) {
	conn := newFakeConn()
	conn.block = true
	l := &link{conn: conn}

	msg := beginCmd(l, call.StartRequest{Product: "p", Focus: "f"}, 20*time.Millisecond)().(CallStartedMsg)
	if !errors.Is(msg.Err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", msg.Err)
	}
}

func TestLinkWithoutConnection(t *testing.T) {
	l := &link{}
	if err := l.BeginCall(context.Background(), "p", "f"); err == nil {
		t.Error("expected error without a connection")
	}
}

func TestEventsDuringCall(t *testing.T) {
	m, _ := recordingModel(t)

	m.handleEvent(daemon.Event{Event: daemon.EventTranscript, Text: "Hello"})
	m.handleEvent(daemon.Event{Event: daemon.EventTranscript, Text: "World"})
	m.handleEvent(daemon.Event{Event: daemon.EventMetrics, Metrics: &metrics.Raw{
		DurationSeconds:  metrics.Int64(65),
		WordsPerMinute:   metrics.Int64(140),
		TalkRatioPercent: metrics.Int64(55),
		FillerWordCount:  metrics.Int64(3),
	}})
	m.handleEvent(daemon.Event{Event: daemon.EventRecommendations, Recommendations: []coaching.Recommendation{
		{ID: "r1", Kind: coaching.KindWarning, Message: "Let them finish their thought"},
	}})

	v := m.session.State()
	if v.Transcript.Text != "Hello World" {
		t.Errorf("transcript = %q, want %q", v.Transcript.Text, "Hello World")
	}
	if v.Metrics.Duration != "01:05" || v.Metrics.TalkRatio != "55%" {
		t.Errorf("metrics = %+v", v.Metrics)
	}
	if !v.HasRecommendations || len(v.Recommendations.Entries) != 1 {
		t.Fatalf("recommendations = %+v", v.Recommendations)
	}

	view := m.View()
	for _, want := range []string{"Hello World", "01:05", "COACHING (1)", "Warning", "Let them finish"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestEventsIgnoredWhenIdle(t *testing.T) {
	m, _ := connectedModel(t)

	m.handleEvent(daemon.Event{Event: daemon.EventTranscript, Text: "stray"})
	m.handleEvent(daemon.Event{Event: daemon.EventRecommendations, Recommendations: []coaching.Recommendation{
		{ID: "r1", Kind: coaching.KindTip, Message: "stray"},
	}})

	v := m.session.State()
	if !v.Transcript.Waiting {
		t.Errorf("transcript = %+v, want waiting", v.Transcript)
	}
	if v.HasRecommendations {
		t.Error("recommendations should be absent while idle")
	}
	if !strings.Contains(m.View(), call.WaitingText) {
		t.Error("view should show the waiting text")
	}
}

func TestEndCallSavesRecord(t *testing.T) {
	m, conn := recordingModel(t)
	saver := &fakeSaver{}
	m.store = saver
	m.handleEvent(daemon.Event{Event: daemon.EventTranscript, Text: "Thanks for your time"})

	m, cmd := update(m, keySpace)
	if cmd == nil || m.session.Status() != call.StatusEnding {
		t.Fatalf("status = %q, want ending", m.session.Status())
	}

	m, cmd = update(m, endCmd(m.link, time.Second)())
	if m.session.Status() != call.StatusIdle {
		t.Fatalf("status = %q, want idle", m.session.Status())
	}
	if !m.session.State().Transcript.Waiting {
		t.Error("transcript should be cleared after end")
	}
	cmds := conn.commands()
	if last := cmds[len(cmds)-1]; last.Cmd != daemon.CmdEnd {
		t.Errorf("last command = %+v, want end", last)
	}

	if cmd == nil {
		t.Fatal("successful end should save the call")
	}
	saved, ok := cmd().(CallSavedMsg)
	if !ok || saved.Err != nil {
		t.Fatalf("save msg = %+v", saved)
	}
	m, _ = update(m, saved)

	if len(saver.saved) != 1 {
		t.Fatalf("saved %d calls, want 1", len(saver.saved))
	}
	rec := saver.saved[0]
	if rec.Transcript != "Thanks for your time" || rec.Operator != "dana" || rec.Product != "Acme Cloud" {
		t.Errorf("saved = %+v", rec)
	}
	if m.lastSaved != rec.ID || rec.ID == "" {
		t.Errorf("lastSaved = %q, want %q", m.lastSaved, rec.ID)
	}
}

func TestEndFailureStaysRecording(t *testing.T) {
	m, conn := recordingModel(t)
	conn.mu.Lock()
	conn.reject = "upload in progress"
	conn.mu.Unlock()
	m.handleEvent(daemon.Event{Event: daemon.EventTranscript, Text: "keep me"})

	m, _ = update(m, keySpace)
	m, _ = update(m, endCmd(m.link, time.Second)())

	if m.session.Status() != call.StatusRecording {
		t.Errorf("status = %q, want recording", m.session.Status())
	}
	if got := m.session.State().Transcript.Text; got != "keep me" {
		t.Errorf("transcript = %q, want it preserved", got)
	}
	if !strings.Contains(m.errorMessage, "upload in progress") {
		t.Errorf("errorMessage = %q", m.errorMessage)
	}
}

func TestSaveFailureShowsError(t *testing.T) {
	m, _ := connectedModel(t)
	m, cmd := update(m, CallSavedMsg{ID: "c1", Err: errors.New("disk full")})
	if !strings.Contains(m.errorMessage, "disk full") || cmd == nil {
		t.Errorf("errorMessage = %q", m.errorMessage)
	}
}

func TestDaemonEndedCall(t *testing.T) {
	m, _ := recordingModel(t)
	saver := &fakeSaver{}
	m.store = saver
	m.handleEvent(daemon.Event{Event: daemon.EventTranscript, Text: "bye"})

	cmd := m.handleEvent(daemon.Event{Event: daemon.EventStatus, Recording: daemon.BoolPtr(false)})

	if m.session.Status() != call.StatusIdle {
		t.Errorf("status = %q, want idle", m.session.Status())
	}
	if cmd == nil {
		t.Fatal("expected save command")
	}
	cmd()
	if len(saver.saved) != 1 || saver.saved[0].Transcript != "bye" {
		t.Errorf("saved = %+v", saver.saved)
	}
}

func TestStatusEventRecordingIgnored(t *testing.T) {
	m, _ := connectedModel(t)
	if cmd := m.handleEvent(daemon.Event{Event: daemon.EventStatus, Recording: daemon.BoolPtr(true)}); cmd != nil {
		t.Error("recording=true status should not produce a command")
	}
	if m.session.Status() != call.StatusIdle {
		t.Errorf("status = %q", m.session.Status())
	}
}

func TestErrorEvent(t *testing.T) {
	m := New(Options{})
	tr := true
	ev := daemon.Event{
		Event:     daemon.EventError,
		Message:   "test error",
		Transient: &tr,
	}

	cmd := m.handleEvent(ev)

	if m.errorMessage != "test error" {
		t.Errorf("errorMessage = %q", m.errorMessage)
	}
	if cmd == nil {
		t.Error("transient error should return a clear command")
	}

	m, _ = update(m, ClearTransientErrorMsg{})
	if m.errorMessage != "" {
		t.Errorf("errorMessage = %q after clear", m.errorMessage)
	}
}

func TestEventErrorReconnects(t *testing.T) {
	m, conn := connectedModel(t)

	m, cmd := update(m, DaemonEventErrorMsg{Err: io.EOF, Conn: m.evClient})

	if m.connected || !m.reconnecting {
		t.Error("event error should disconnect and reconnect")
	}
	if !conn.closed {
		t.Error("command connection should be closed")
	}
	if cmd == nil {
		t.Error("expected reconnect command")
	}
	if err := m.link.BeginCall(context.Background(), "p", "f"); err == nil {
		t.Error("link should be cleared after disconnect")
	}
}

func TestReconnectKeepsOneConnectionPair(t *testing.T) {
	m, conn := connectedModel(t)
	oldEv := m.evClient

	// The status request fails first, then the read loop sees its
	// connection closed underneath it.
	m, cmd := update(m, DaemonEventErrorMsg{Err: errors.New("status: i/o timeout"), Conn: conn})
	if cmd == nil {
		t.Fatal("expected reconnect command")
	}
	m, cmd = update(m, DaemonEventErrorMsg{Err: io.EOF, Conn: oldEv})
	if cmd != nil {
		t.Error("error from a closed connection should not schedule a second reconnect")
	}

	first, firstEv := newFakeConn(), newFakeConn()
	m, _ = update(m, DaemonConnectedMsg{Client: first, EvClient: firstEv})
	second, secondEv := newFakeConn(), newFakeConn()
	m, cmd = update(m, DaemonConnectedMsg{Client: second, EvClient: secondEv})
	if cmd != nil {
		t.Error("extra connection pair should not subscribe")
	}
	if !second.closed || !secondEv.closed {
		t.Error("extra connection pair should be closed")
	}
	if m.client != first || m.evClient != firstEv {
		t.Error("accepted connection pair was replaced")
	}
	if m, cmd = update(m, ReconnectTickMsg{}); cmd != nil {
		t.Error("reconnect tick while connected should do nothing")
	}

	m, _ = update(m, keySpace)
	m, _ = update(m, CallStartedMsg{})
	hello := daemon.Event{Event: daemon.EventTranscript, Text: "Hello"}
	m, _ = update(m, DaemonEventMsg{Event: hello, Conn: oldEv})
	m, _ = update(m, DaemonEventMsg{Event: hello, Conn: secondEv})
	m, _ = update(m, DaemonEventMsg{Event: hello, Conn: firstEv})

	if got := m.session.State().Transcript.Text; got != "Hello" {
		t.Errorf("transcript = %q, want one copy of the delta", got)
	}
}

func TestStartAfterBeginTimeout(t *testing.T) {
	m, conn := connectedModel(t)
	conn.mu.Lock()
	conn.block = true
	conn.mu.Unlock()

	m, _ = update(m, keySpace)
	req := call.StartRequest{Product: "Acme Cloud", Focus: "Renewal"}
	m, _ = update(m, beginCmd(m.link, req, 20*time.Millisecond)())
	if m.session.Status() != call.StatusIdle {
		t.Fatalf("status = %q, want idle after timeout", m.session.Status())
	}
	if !m.connected || conn.closed {
		t.Fatal("a timeout alone should keep the command connection")
	}

	conn.mu.Lock()
	conn.block = false
	conn.mu.Unlock()

	m, cmd := update(m, keySpace)
	if cmd == nil {
		t.Fatal("space should start the call again")
	}
	m, _ = update(m, beginCmd(m.link, req, time.Second)())
	if m.session.Status() != call.StatusRecording {
		t.Errorf("status = %q, want recording", m.session.Status())
	}
}

func TestBrokenConnectionRedialsAndEnds(t *testing.T) {
	m, conn := recordingModel(t)
	var dialed []*fakeConn
	m.dial = func(ctx context.Context) (Conn, error) {
		c := newFakeConn()
		dialed = append(dialed, c)
		return c, nil
	}

	m, _ = update(m, keySpace)
	broken := fmt.Errorf("read response: %w (%w)", context.DeadlineExceeded, daemon.ErrBroken)
	m, cmd := update(m, CallEndedMsg{Err: broken})

	if m.session.Status() != call.StatusRecording {
		t.Fatalf("status = %q, want recording", m.session.Status())
	}
	if m.connected || !conn.closed {
		t.Error("broken command connection should be closed")
	}
	if cmd == nil {
		t.Fatal("expected reconnect command")
	}

	m, _ = update(m, ReconnectTickMsg{})
	m, _ = update(m, connectCmd(m.dial)())
	if !m.connected || len(dialed) != 2 {
		t.Fatalf("connected=%v dials=%d, want a fresh pair", m.connected, len(dialed))
	}

	m, _ = update(m, keySpace)
	m, _ = update(m, endCmd(m.link, time.Second)())
	if m.session.Status() != call.StatusIdle {
		t.Errorf("status = %q, want idle", m.session.Status())
	}
	if cmds := dialed[0].commands(); len(cmds) != 1 || cmds[0].Cmd != daemon.CmdEnd {
		t.Errorf("new command connection saw %+v, want one end", cmds)
	}
}

func TestToggleContextKey(t *testing.T) {
	m, _ := connectedModel(t)
	if !strings.Contains(m.View(), "Product ") {
		t.Error("context should be visible initially")
	}

	m, _ = update(m, keyRunes("c"))
	if _, ok := m.session.Snapshot(); ok {
		t.Error("c should hide the context")
	}
	if strings.Contains(m.View(), "Acme Cloud") {
		t.Error("hidden context should not render")
	}
}

func TestFormSubmit(t *testing.T) {
	m := New(Options{})
	m.width = 80
	m.height = 24

	m, _ = update(m, keyRunes("Acme"))
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.focusIndex != fieldFocus {
		t.Fatalf("focusIndex = %d, want focus field", m.focusIndex)
	}
	m, _ = update(m, keyRunes("q2 pricing"))
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.editing {
		t.Fatal("form should close after submit")
	}
	v := m.session.State()
	if v.Product != "Acme" || v.Focus != "q2 pricing" {
		t.Errorf("product/focus = %q/%q", v.Product, v.Focus)
	}
	if !v.Controls.CanStart {
		t.Error("should be able to start after setup")
	}
}

func TestFormRequiresBothFields(t *testing.T) {
	m := New(Options{})

	m, _ = update(m, keyRunes("Acme"))
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})

	if !m.editing {
		t.Error("form should stay open without a focus")
	}
	if m.errorMessage == "" {
		t.Error("expected a validation error")
	}
}

func TestFormEscCancels(t *testing.T) {
	m := New(Options{Product: "Acme", Focus: "Renewal"})

	m, _ = update(m, keyRunes("e"))
	if !m.editing {
		t.Fatal("e should open the form")
	}
	m, _ = update(m, keyRunes(" changed"))
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.editing {
		t.Error("esc should close the form")
	}
	if got := m.session.State().Product; got != "Acme" {
		t.Errorf("product = %q, want unchanged", got)
	}
}

func TestEditBlockedWhileRecording(t *testing.T) {
	m, _ := recordingModel(t)
	m, _ = update(m, keyRunes("e"))
	if m.editing {
		t.Error("setup form should not open during a call")
	}
}

func TestFooterShowsOnlyEnabledControls(t *testing.T) {
	m, _ := connectedModel(t)
	footer := m.renderFooter(m.session.State())
	if !strings.Contains(footer, "Start") || strings.Contains(footer, "End") {
		t.Errorf("idle footer = %q", footer)
	}

	m, _ = recordingModel(t)
	footer = m.renderFooter(m.session.State())
	if strings.Contains(footer, "Start") || !strings.Contains(footer, "End") {
		t.Errorf("recording footer = %q", footer)
	}
	if strings.Contains(footer, "Edit") {
		t.Errorf("edit should be hidden while recording: %q", footer)
	}
}

func TestScrollLeavesLiveMode(t *testing.T) {
	m, _ := recordingModel(t)
	m.height = 10
	for i := 0; i < 40; i++ {
		m.handleEvent(daemon.Event{Event: daemon.EventTranscript, Text: fmt.Sprintf("line %d\n", i)})
	}

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.transcriptLive {
		t.Error("up should leave live mode")
	}
	for i := 0; i < 100; i++ {
		m, _ = update(m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if !m.transcriptLive {
		t.Error("scrolling to the bottom should resume live mode")
	}
}

func TestViewRendersWithSize(t *testing.T) {
	m := New(Options{})
	m.width = 80
	m.height = 24

	view := m.View()
	if view == "" {
		t.Error("view should not be empty")
	}
	if view == "Initializing..." {
		t.Error("view should not show initializing with size set")
	}
	if !strings.Contains(view, "CALL SETUP") {
		t.Error("unconfigured model should render the setup form")
	}
}

func TestViewWithoutSize(t *testing.T) {
	m := New(Options{})
	view := m.View()
	if view != "Initializing..." {
		t.Errorf("view without size = %q, want 'Initializing...'", view)
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("one two three four", 9)
	want := []string{"one two", "three", "four"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("wrapText = %q, want %q", got, want)
	}
}
