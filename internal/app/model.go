package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwulff/coach/internal/call"
	"github.com/jwulff/coach/internal/daemon"
	"github.com/jwulff/coach/internal/db"
	"github.com/jwulff/coach/internal/metrics"
	"github.com/jwulff/coach/internal/ui"
	"go.uber.org/zap"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	dialTimeout      = 5 * time.Second
	subscribeTimeout = 5 * time.Second
)

// Setup form fields.
const (
	fieldProduct = iota
	fieldFocus
	fieldCount
)

// CallSaver persists finished calls.
type CallSaver interface {
	SaveCall(rec call.Record) error
}

// Options configures a Model.
type Options struct {
	Dial        Dialer
	DBPath      string
	Logger      *zap.Logger
	Operator    string
	Product     string
	Focus       string
	ShowContext bool
	// CallTimeout bounds each begin/end request. Zero means no limit.
	CallTimeout time.Duration
}

// Model is the root bubbletea model for the coach TUI.
type Model struct {
	session *call.Session
	link    *link
	dial    Dialer
	logger  *zap.Logger
	timeout time.Duration
	dbPath  string

	// Connection state
	client    Conn // command connection
	evClient  Conn // event subscription connection
	connected bool
	connError string

	// Setup form
	editing    bool
	inputs     [fieldCount]textinput.Model
	focusIndex int

	spinner spinner.Model

	// UI state
	width            int
	height           int
	transcriptScroll int
	transcriptLive   bool

	// Errors
	errorMessage   string
	errorTransient bool

	// Status
	statusText string

	// History
	store     CallSaver
	lastSaved string

	// Reconnect
	reconnecting     bool
	reconnectAttempt int
}

// New creates a Model for one operator. The setup form opens immediately
// when product or focus is missing.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	l := &link{operator: opts.Operator}
	session := call.New(l,
		call.WithLogger(logger.Named("call")),
		call.WithOperator(opts.Operator),
		call.WithCallContext(opts.Product, opts.Focus),
		call.WithContextVisible(opts.ShowContext),
	)

	m := Model{
		session:        session,
		link:           l,
		dial:           opts.Dial,
		logger:         logger,
		timeout:        opts.CallTimeout,
		dbPath:         opts.DBPath,
		spinner:        spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(ui.SpinnerStyle)),
		statusText:     "Connecting to coach-daemon...",
		transcriptLive: true,
	}
	m.inputs[fieldProduct] = newInput("Product", "e.g. Acme Cloud")
	m.inputs[fieldFocus] = newInput("Focus", "e.g. Pricing objections")

	if session.Controls().CanEdit && !session.Controls().CanStart {
		m.openForm()
	}
	return m
}

func newInput(label, placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ui.FormLabelStyle.Render(label) + "> "
	ti.Placeholder = placeholder
	ti.CharLimit = 120
	return ti
}

// Session exposes the call session, mainly for tests and the CLI.
func (m Model) Session() *call.Session {
	return m.session
}

// Init returns the initial command: connect to the daemon and open the store.
func (m Model) Init() tea.Cmd {
	return tea.Batch(connectCmd(m.dial), openStoreCmd(m.dbPath), textinput.Blink)
}

// connectCmd dials two connections: one for commands, one for event
// subscription.
func connectCmd(dial Dialer) tea.Cmd {
	return func() tea.Msg {
		if dial == nil {
			return DaemonConnectErrorMsg{Err: errors.New("no daemon dialer configured")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
		defer cancel()

		client, err := dial(ctx)
		if err != nil {
			return DaemonConnectErrorMsg{Err: err}
		}
		evClient, err := dial(ctx)
		if err != nil {
			client.Close()
			return DaemonConnectErrorMsg{Err: err}
		}
		return DaemonConnectedMsg{Client: client, EvClient: evClient}
	}
}

// subscribeCmd sends a subscribe command on the event client and starts reading events.
func subscribeCmd(evClient Conn) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), subscribeTimeout)
		defer cancel()
		if err := daemon.Subscribe(ctx, evClient); err != nil {
			return DaemonEventErrorMsg{Err: err, Conn: evClient}
		}
		return readEventCmd(evClient)()
	}
}

// readEventCmd reads the next event from the event client.
func readEventCmd(evClient Conn) tea.Cmd {
	return func() tea.Msg {
		ev, err := evClient.ReadEvent()
		if err != nil {
			return DaemonEventErrorMsg{Err: err, Conn: evClient}
		}
		return DaemonEventMsg{Event: ev, Conn: evClient}
	}
}

// statusCmd fetches daemon status.
func statusCmd(client Conn) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), subscribeTimeout)
		defer cancel()
		resp, err := client.SendCommand(ctx, daemon.Command{Cmd: daemon.CmdStatus})
		if err != nil {
			return DaemonEventErrorMsg{Err: err, Conn: client}
		}
		return StatusResponseMsg{Response: resp}
	}
}

// beginCmd runs the transport half of a start.
func beginCmd(t call.Transport, req call.StartRequest, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := callContext(timeout)
		defer cancel()
		return CallStartedMsg{Err: t.BeginCall(ctx, req.Product, req.Focus)}
	}
}

// endCmd runs the transport half of an end.
func endCmd(t call.Transport, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := callContext(timeout)
		defer cancel()
		return CallEndedMsg{Err: t.EndCall(ctx)}
	}
}

func callContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(context.Background(), timeout)
	}
	return context.WithCancel(context.Background())
}

// saveCallCmd writes a finished call to the history store.
func saveCallCmd(store CallSaver, rec call.Record) tea.Cmd {
	return func() tea.Msg {
		return CallSavedMsg{ID: rec.ID, Err: store.SaveCall(rec)}
	}
}

// clearTransientErrorCmd fires after a delay to clear transient errors.
func clearTransientErrorCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return ClearTransientErrorMsg{}
	})
}

// reconnectCmd schedules a reconnection attempt with exponential backoff.
func reconnectCmd(attempt int) tea.Cmd {
	delay := time.Duration(1<<min(attempt, 4)) * time.Second // 1s, 2s, 4s, 8s, 16s cap
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ReconnectTickMsg{}
	})
}

// openStoreCmd opens the SQLite history store.
func openStoreCmd(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		store, err := db.Open(path)
		return storeOpenedMsg{store: store, err: err}
	}
}

type storeOpenedMsg struct {
	store *db.Store
	err   error
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		if m.editing {
			return m.handleFormKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.session.Status().Transient() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case DaemonConnectedMsg:
		if m.connected {
			// A second dial finished after the first was accepted.
			msg.Client.Close()
			msg.EvClient.Close()
			m.logger.Debug("extra daemon connection closed")
			return m, nil
		}
		m.closeClients()
		m.client = msg.Client
		m.evClient = msg.EvClient
		m.link.set(m.client)
		m.connected = true
		m.connError = ""
		m.reconnecting = false
		m.reconnectAttempt = 0
		m.statusText = "Connected"
		m.logger.Info("daemon connected")
		return m, tea.Batch(
			subscribeCmd(m.evClient),
			statusCmd(m.client),
		)

	case DaemonConnectErrorMsg:
		if m.connected {
			return m, nil
		}
		m.connected = false
		m.connError = msg.Err.Error()
		m.reconnecting = true
		m.statusText = "Daemon not running. Reconnecting..."
		m.logger.Debug("daemon connect failed", zap.Int("attempt", m.reconnectAttempt), zap.Error(msg.Err))
		return m, reconnectCmd(m.reconnectAttempt)

	case StatusResponseMsg:
		r := msg.Response
		if r.Status != "" {
			m.statusText = r.Status
		}
		if r.Recording != nil && *r.Recording && m.session.Status() == call.StatusIdle {
			m.statusText = "Daemon has a call in progress"
		}
		return m, nil

	case CallStartedMsg:
		if err := m.session.Started(msg.Err); err != nil {
			m.statusText = "Idle"
			cmd := m.showError(err, true)
			redial := m.redialIfBroken(msg.Err)
			return m, tea.Batch(cmd, redial)
		}
		m.transcriptScroll = 0
		m.transcriptLive = true
		m.statusText = "Recording"
		return m, nil

	case CallEndedMsg:
		rec, err := m.session.Ended(msg.Err)
		if err != nil {
			m.statusText = "Recording"
			cmd := m.showError(err, true)
			redial := m.redialIfBroken(msg.Err)
			return m, tea.Batch(cmd, redial)
		}
		cmd := m.finished(rec)
		return m, cmd

	case CallSavedMsg:
		if msg.Err != nil {
			m.logger.Warn("save call failed", zap.String("session", msg.ID), zap.Error(msg.Err))
			cmd := m.showError(fmt.Errorf("save call: %w", msg.Err), true)
			return m, cmd
		}
		m.lastSaved = msg.ID
		m.logger.Info("call saved", zap.String("session", msg.ID))
		return m, nil

	case DaemonEventMsg:
		if !m.current(msg.Conn) {
			return m, nil
		}
		cmd := m.handleEvent(msg.Event)
		// Continue reading events on event client
		return m, tea.Batch(cmd, readEventCmd(msg.Conn))

	case DaemonEventErrorMsg:
		if !m.current(msg.Conn) {
			m.logger.Debug("stale connection error dropped", zap.Error(msg.Err))
			return m, nil
		}
		cmd := m.dropConnection(msg.Err)
		return m, cmd

	case ReconnectTickMsg:
		if m.connected {
			return m, nil
		}
		m.reconnectAttempt++
		return m, connectCmd(m.dial)

	case storeOpenedMsg:
		if msg.err != nil {
			m.logger.Warn("call history unavailable", zap.String("path", m.dbPath), zap.Error(msg.err))
			return m, nil
		}
		m.store = msg.store
		return m, nil

	case ClearTransientErrorMsg:
		if m.errorTransient {
			m.errorMessage = ""
			m.errorTransient = false
		}
		return m, nil
	}

	if m.editing {
		var cmd tea.Cmd
		m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
		return m, cmd
	}
	return m, nil
}

// finished handles a call that has left Recording for good.
func (m *Model) finished(rec call.Record) tea.Cmd {
	m.statusText = "Idle"
	m.transcriptScroll = 0
	m.transcriptLive = true
	if m.store == nil {
		return nil
	}
	return saveCallCmd(m.store, rec)
}

// handleEvent processes a daemon event and returns any resulting command.
func (m *Model) handleEvent(ev daemon.Event) tea.Cmd {
	switch ev.Event {
	case daemon.EventTranscript:
		if err := m.session.AppendTranscript(ev.Text); err != nil {
			m.logger.Debug("transcript dropped", zap.Error(err))
			return nil
		}
		if m.transcriptLive {
			m.scrollToBottom()
		}

	case daemon.EventMetrics:
		if ev.Metrics == nil {
			return nil
		}
		if err := m.session.UpdateMetrics(*ev.Metrics); err != nil {
			m.logger.Debug("metrics dropped", zap.Error(err))
		}

	case daemon.EventRecommendations:
		if err := m.session.SetRecommendations(ev.Recommendations); err != nil {
			m.logger.Debug("recommendations dropped", zap.Error(err))
		}

	case daemon.EventStatus:
		if ev.Recording == nil || *ev.Recording {
			return nil
		}
		// The daemon ended the call on its own.
		if m.session.Status() != call.StatusRecording || m.session.Loading() {
			return nil
		}
		if err := m.session.RequestEnd(); err != nil {
			return nil
		}
		rec, err := m.session.Ended(nil)
		if err != nil {
			return m.showError(err, true)
		}
		cmd := m.finished(rec)
		m.statusText = "Call ended by daemon"
		return cmd

	case daemon.EventError:
		m.errorMessage = ev.Message
		m.errorTransient = false
		if ev.Transient != nil && *ev.Transient {
			m.errorTransient = true
			return clearTransientErrorCmd()
		}
	}

	return nil
}

// showError puts err in the error bar. Transient errors clear themselves.
func (m *Model) showError(err error, transient bool) tea.Cmd {
	m.errorMessage = err.Error()
	m.errorTransient = transient
	if transient {
		return clearTransientErrorCmd()
	}
	return nil
}

// current reports whether c is one of the live daemon connections.
func (m *Model) current(c Conn) bool {
	return c != nil && (c == m.client || c == m.evClient)
}

// dropConnection closes both connections and schedules a reconnect.
func (m *Model) dropConnection(err error) tea.Cmd {
	m.connected = false
	m.connError = err.Error()
	m.statusText = "Disconnected. Reconnecting..."
	m.reconnecting = true
	m.logger.Warn("daemon connection lost", zap.Error(err))
	m.link.set(nil)
	m.closeClients()
	return reconnectCmd(m.reconnectAttempt)
}

// redialIfBroken replaces the connections when a command left the command
// connection unusable.
func (m *Model) redialIfBroken(err error) tea.Cmd {
	if !m.connected || !errors.Is(err, daemon.ErrBroken) {
		return nil
	}
	return m.dropConnection(err)
}

func (m *Model) closeClients() {
	if m.client != nil {
		m.client.Close()
		m.client = nil
	}
	if m.evClient != nil {
		m.evClient.Close()
		m.evClient = nil
	}
}

// handleKey processes key presses outside the setup form.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyQuit, KeyQuitUpper, KeyCtrlC:
		m.closeClients()
		return m, tea.Quit

	case KeySpace:
		if !m.connected {
			return m, nil
		}
		controls := m.session.Controls()
		switch {
		case controls.CanStart:
			return m.startCall()
		case controls.CanEnd:
			return m.endCall()
		}
		return m, nil

	case KeyEdit:
		if !m.session.Controls().CanEdit {
			return m, nil
		}
		cmd := m.openForm()
		return m, cmd

	case KeyToggleContext:
		m.session.ToggleContext()
		return m, nil

	case KeyUp, KeyK:
		m.transcriptLive = false
		if m.transcriptScroll > 0 {
			m.transcriptScroll--
		}
		return m, nil

	case KeyDown, KeyJ:
		maxScroll := m.maxTranscriptScroll()
		m.transcriptScroll++
		if m.transcriptScroll >= maxScroll {
			m.transcriptScroll = maxScroll
			m.transcriptLive = true
		}
		return m, nil
	}

	return m, nil
}

func (m Model) startCall() (tea.Model, tea.Cmd) {
	req, err := m.session.RequestStart()
	if err != nil {
		cmd := m.showError(err, true)
		return m, cmd
	}
	m.statusText = "Starting call..."
	m.transcriptScroll = 0
	m.transcriptLive = true
	return m, tea.Batch(m.spinner.Tick, beginCmd(m.link, req, m.timeout))
}

func (m Model) endCall() (tea.Model, tea.Cmd) {
	if err := m.session.RequestEnd(); err != nil {
		cmd := m.showError(err, true)
		return m, cmd
	}
	m.statusText = "Ending call..."
	return m, tea.Batch(m.spinner.Tick, endCmd(m.link, m.timeout))
}

// openForm shows the setup form prefilled with the current product and focus.
func (m *Model) openForm() tea.Cmd {
	v := m.session.State()
	m.editing = true
	m.inputs[fieldProduct].SetValue(v.Product)
	m.inputs[fieldFocus].SetValue(v.Focus)
	m.focusIndex = fieldProduct
	return m.focusInput(fieldProduct)
}

func (m *Model) closeForm() {
	m.editing = false
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m *Model) focusInput(i int) tea.Cmd {
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return cmd
}

// handleFormKey processes key presses while the setup form is open.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyCtrlC:
		m.closeClients()
		return m, tea.Quit

	case KeyEsc:
		m.closeForm()
		return m, nil

	case KeyTab, KeyShiftTab, KeyUp, KeyDown:
		m.focusIndex = (m.focusIndex + 1) % fieldCount
		cmd := m.focusInput(m.focusIndex)
		return m, cmd

	case KeyEnter:
		if m.focusIndex == fieldProduct {
			m.focusIndex = fieldFocus
			cmd := m.focusInput(fieldFocus)
			return m, cmd
		}
		return m.submitForm()
	}

	var cmd tea.Cmd
	m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	product := strings.TrimSpace(m.inputs[fieldProduct].Value())
	focus := strings.TrimSpace(m.inputs[fieldFocus].Value())
	if product == "" || focus == "" {
		cmd := m.showError(errors.New("product and focus are required"), true)
		return m, cmd
	}
	if err := m.session.SetProduct(product); err != nil {
		cmd := m.showError(err, true)
		return m, cmd
	}
	if err := m.session.SetFocus(focus); err != nil {
		cmd := m.showError(err, true)
		return m, cmd
	}
	m.closeForm()
	m.errorMessage = ""
	m.errorTransient = false
	return m, nil
}

func (m *Model) scrollToBottom() {
	m.transcriptScroll = m.maxTranscriptScroll()
}

func (m Model) maxTranscriptScroll() int {
	v := m.session.State()
	if v.Transcript.Waiting {
		return 0
	}
	total := len(wrapText(v.Transcript.Text, m.transcriptTextWidth(v.HasRecommendations)))
	visible := m.transcriptVisibleLines() - 1 // panel header
	if total <= visible {
		return 0
	}
	return total - visible
}

func (m Model) transcriptVisibleLines() int {
	if m.height == 0 {
		return 20
	}
	// Reserve: header(1) + status(1) + metrics(1) + dividers(2) + footer(1), plus optional rows
	reserved := 6
	if _, ok := m.session.Snapshot(); ok {
		reserved++
	}
	if m.errorMessage != "" {
		reserved++
	}
	return max(5, m.height-reserved)
}

func (m Model) coachingPanelWidth() int {
	if m.width == 0 {
		return 30
	}
	return max(24, m.width*35/100)
}

func (m Model) transcriptPanelWidth(withCoaching bool) int {
	if m.width == 0 {
		return 60
	}
	if !withCoaching {
		return m.width
	}
	return max(30, m.width-m.coachingPanelWidth()-1)
}

func (m Model) transcriptTextWidth(withCoaching bool) int {
	return max(10, m.transcriptPanelWidth(withCoaching)-4)
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	v := m.session.State()
	var sections []string

	// Header
	sections = append(sections, m.renderHeader(v))

	// Status bar
	sections = append(sections, m.renderStatusBar(v))

	// Call context
	if v.HasContext {
		sections = append(sections, renderContext(v.Context))
	}

	// Metrics
	sections = append(sections, renderMetrics(v.Metrics))

	// Divider
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))

	// Main content: setup form, or transcript | coaching
	sections = append(sections, m.renderMainContent(v))

	// Divider
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))

	// Error bar
	if m.errorMessage != "" {
		sections = append(sections, m.renderErrorBar())
	}

	// Footer
	sections = append(sections, m.renderFooter(v))

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader(v call.View) string {
	title := ui.TitleStyle.Render("COACH")
	if v.Operator != "" {
		title += ui.DimStyle.Render(" · " + v.Operator)
	}
	return title
}

func (m Model) renderStatusBar(v call.View) string {
	var dot string
	switch v.Status {
	case call.StatusRecording:
		dot = ui.RecordingDotStyle.Render("● REC")
	case call.StatusStarting:
		dot = m.spinner.View() + ui.StatusStyle.Render(" STARTING")
	case call.StatusEnding:
		dot = m.spinner.View() + ui.StatusStyle.Render(" ENDING")
	default:
		dot = ui.IdleDotStyle.Render("○ IDLE")
	}
	return dot + "  " + ui.StatusStyle.Render(m.statusText)
}

func renderContext(c call.CallContext) string {
	value := func(s string) string {
		if s == "" {
			return ui.DimStyle.Render("not set")
		}
		return s
	}
	line := ui.ContextLabelStyle.Render("Product ") + value(c.Product) +
		"  " + ui.ContextLabelStyle.Render("Focus ") + value(c.Focus)
	if c.Recording {
		line += "  " + ui.LiveBadgeStyle.Render("LIVE")
	}
	return line
}

func renderMetrics(d metrics.Display) string {
	metric := func(label, value string) string {
		return ui.MetricLabelStyle.Render(label+" ") + ui.MetricValueStyle.Render(value)
	}
	return strings.Join([]string{
		metric("Time", d.Duration),
		metric("WPM", d.WordsPerMinute),
		metric("Talk", d.TalkRatio),
		metric("Fillers", d.FillerWords),
	}, "   ")
}

func (m Model) renderMainContent(v call.View) string {
	contentH := m.transcriptVisibleLines()

	if m.editing {
		return m.renderForm(contentH)
	}

	if !v.HasRecommendations {
		return m.renderTranscriptPanel(v, m.width, contentH)
	}

	transcriptW := m.transcriptPanelWidth(true)
	coachingW := m.coachingPanelWidth()
	transcriptPanel := m.renderTranscriptPanel(v, transcriptW, contentH)
	coachingPanel := renderCoachingPanel(v, coachingW, contentH)

	divider := ui.DividerStyle.Render("│")

	// Join panels side by side
	transcriptLines := strings.Split(transcriptPanel, "\n")
	coachingLines := strings.Split(coachingPanel, "\n")

	var rows []string
	for i := 0; i < contentH; i++ {
		tl := strings.Repeat(" ", transcriptW)
		if i < len(transcriptLines) {
			tl = padRight(transcriptLines[i], transcriptW)
		}
		cl := ""
		if i < len(coachingLines) {
			cl = coachingLines[i]
		}
		rows = append(rows, tl+divider+cl)
	}

	return strings.Join(rows, "\n")
}

func (m Model) renderTranscriptPanel(v call.View, width, height int) string {
	var badge string
	if m.transcriptLive {
		badge = ui.LiveBadgeStyle.Render(" LIVE")
	} else {
		badge = ui.ScrollBadgeStyle.Render(" SCROLL")
	}

	var lines []string
	lines = append(lines, ui.PanelTitleActiveStyle.Render("TRANSCRIPT")+badge)

	contentHeight := height - 1 // subtract header line

	switch {
	case !m.connected:
		if m.reconnecting {
			lines = append(lines, "")
			lines = append(lines, ui.ErrorTextStyle.Render("  Daemon disconnected. Reconnecting..."))
		} else if m.connError != "" {
			lines = append(lines, "")
			lines = append(lines, ui.ErrorStyle.Render("  Daemon not running."))
			lines = append(lines, ui.DimStyle.Render("  Start with: coach-daemon run"))
		} else {
			lines = append(lines, ui.DimStyle.Render("  Connecting to coach-daemon..."))
		}

	case v.Transcript.Waiting:
		lines = append(lines, "")
		lines = append(lines, ui.DimStyle.Render("  "+v.Transcript.String()))
		if v.Status == call.StatusIdle {
			if v.Controls.CanStart {
				lines = append(lines, ui.DimStyle.Render("  Press Space to start a call"))
			} else {
				lines = append(lines, ui.DimStyle.Render("  Press e to set product and focus"))
			}
		}

	default:
		displayLines := wrapText(v.Transcript.Text, max(10, width-4))

		// Apply scroll
		start := 0
		if m.transcriptLive {
			if len(displayLines) > contentHeight {
				start = len(displayLines) - contentHeight
			}
		} else {
			start = m.transcriptScroll
		}
		if start < 0 {
			start = 0
		}

		end := start + contentHeight
		if end > len(displayLines) {
			end = len(displayLines)
		}

		for i := start; i < end; i++ {
			lines = append(lines, "  "+displayLines[i])
		}
	}

	// Pad to height
	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

func renderCoachingPanel(v call.View, width, height int) string {
	entries := v.Recommendations.Entries

	var lines []string
	lines = append(lines, ui.PanelTitleStyle.Render(fmt.Sprintf(" COACHING (%d)", len(entries))))

	for _, e := range entries {
		lines = append(lines, " "+ui.RecommendationStyle(e.Style).Render(e.Style.Label()))
		for _, wl := range wrapText(e.Message, max(10, width-4)) {
			lines = append(lines, "   "+wl)
		}
	}

	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderForm(height int) string {
	var lines []string
	lines = append(lines, ui.PanelTitleActiveStyle.Render("CALL SETUP"))
	lines = append(lines, "")
	for i := range m.inputs {
		lines = append(lines, "  "+m.inputs[i].View())
	}
	lines = append(lines, "")
	lines = append(lines, ui.DimStyle.Render("  Both fields are required before a call can start."))

	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderErrorBar() string {
	return ui.ErrorStyle.Render("Error: ") + ui.ErrorTextStyle.Render(m.errorMessage)
}

func (m Model) renderFooter(v call.View) string {
	key := func(k, desc string) string {
		return ui.FooterKeyStyle.Render(k) + ui.FooterDescStyle.Render(" "+desc)
	}

	var parts []string

	if m.editing {
		parts = append(parts, key("Tab", "Next"), key("Enter", "Confirm"), key("Esc", "Cancel"))
		return strings.Join(parts, "  ")
	}

	if m.connected && v.Controls.CanStart {
		parts = append(parts, key("Space", "Start"))
	}
	if m.connected && v.Controls.CanEnd {
		parts = append(parts, key("Space", "End"))
	}
	if v.Controls.CanEdit {
		parts = append(parts, key("e", "Edit"))
	}
	parts = append(parts, key("c", "Context"))
	if !v.Transcript.Waiting {
		parts = append(parts, key("↑↓", "Scroll"))
	}
	parts = append(parts, key("q", "Quit"))

	return strings.Join(parts, "  ")
}

// Helpers

func padRight(s string, width int) string {
	// Get visible length (ignoring ANSI codes)
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var current string
		for _, word := range strings.Fields(paragraph) {
			if current == "" {
				current = word
			} else if len(current)+1+len(word) <= width {
				current += " " + word
			} else {
				lines = append(lines, current)
				current = word
			}
		}
		if current != "" {
			lines = append(lines, current)
		} else {
			lines = append(lines, "")
		}
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
