package tui

import (
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"sentinel/internal/api"
	"sentinel/internal/config"
	"sentinel/internal/domain"
	"sentinel/internal/poller"
	"sentinel/internal/session"
	"sentinel/internal/view"
)

type viewID int

const (
	viewLogin viewID = iota
	viewAlerts
	viewMonitors
)

type layoutMode int

const (
	layoutCompact layoutMode = iota
	layoutTabular
)

// Model is the bubbletea model for the dashboard.
type Model struct {
	client *api.Client
	guard  *session.Guard
	sched  *poller.Scheduler
	logger *slog.Logger

	timeout      time.Duration
	debounce     time.Duration
	alertLimit   int
	recentWindow time.Duration
	recentLimit  int

	active viewID
	layout layoutMode

	width, height int
	ready         bool
	viewport      viewport.Model

	// Login.
	emailInput textinput.Model
	passInput  textinput.Model
	loginBusy  bool
	loginErr   string
	greeting   string

	// Filter/sort state, owned by the alerts view and reset on navigation
	// away from it.
	filter      domain.FilterState
	filterInput textinput.Model
	filterFocus bool
	debounceSeq uint64

	// Feeds. One gate per feed keeps slow responses from clobbering newer
	// ones: only the latest initiated fetch may apply. Held by pointer so
	// the sequence state is shared across the model copies bubbletea makes.
	alertsFeed   *poller.Feed
	recentFeed   *poller.Feed
	monitorsFeed *poller.Feed
	statusFeed   *poller.Feed

	alertItems   []domain.AlertItem
	recentItems  []domain.AlertItem
	monitorItems []domain.MonitorItem

	alertViews   []view.AlertView
	recentViews  []view.AlertView
	monitorViews []view.MonitorView

	alertsState   view.PanelState
	recentState   view.PanelState
	monitorsState view.PanelState

	uwEnabled bool
	tide      []float64

	// Selection and overlay.
	selIdx     int
	overlayKey string

	// Watch-list toggles in flight (pending) and confirmed but waiting for
	// the next refresh to re-enable the control (awaiting).
	pending  map[string]bool
	awaiting map[string]bool
}

// New builds the initial model. If the guard already holds a credential the
// dashboard activates directly; otherwise the login view is shown first.
func New(cfg *config.Config, client *api.Client, guard *session.Guard, logger *slog.Logger) Model {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128
	email.Focus()

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.CharLimit = 128
	pass.EchoMode = textinput.EchoPassword

	filter := textinput.New()
	filter.Placeholder = "symbol"
	filter.CharLimit = 12

	m := Model{
		client:       client,
		guard:        guard,
		sched:        poller.NewScheduler(time.Duration(cfg.Client.PollIntervalSec) * time.Second),
		logger:       logger,
		timeout:      time.Duration(cfg.Client.RequestTimeoutSec) * time.Second,
		debounce:     time.Duration(cfg.Client.DebounceMs) * time.Millisecond,
		alertLimit:   cfg.Client.AlertLimit,
		recentWindow: time.Duration(cfg.Client.RecentWindowSec) * time.Second,
		recentLimit:  cfg.Client.RecentLimit,
		active:       viewLogin,
		alertsFeed:   &poller.Feed{},
		recentFeed:   &poller.Feed{},
		monitorsFeed: &poller.Feed{},
		statusFeed:   &poller.Feed{},
		emailInput:   email,
		passInput:    pass,
		filterInput:  filter,
		pending:      make(map[string]bool),
		awaiting:     make(map[string]bool),
	}
	if guard.HasSession() {
		m.active = viewAlerts
		m.greeting = guard.Claims().Subject
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.active == viewLogin {
		return textinput.Blink
	}
	return m.activate()
}

// activate starts the poll scheduler and issues the initial foreground
// fetch of every feed.
func (m *Model) activate() tea.Cmd {
	m.sched.Start()
	cmds := m.refreshAll(false)
	cmds = append(cmds, m.pollCmd())
	return tea.Batch(cmds...)
}

// refreshAll initiates a fetch on every feed. Foreground fetches flip the
// panels to loading; silent fetches keep showing current rows until data
// arrives.
func (m *Model) refreshAll(silent bool) []tea.Cmd {
	if !silent {
		m.alertsState = view.PanelLoading
		m.recentState = view.PanelLoading
		m.monitorsState = view.PanelLoading
	}
	return []tea.Cmd{
		m.fetchAlertsCmd(m.alertsFeed.Begin(), silent),
		m.fetchRecentCmd(m.recentFeed.Begin()),
		m.fetchMonitorsCmd(m.monitorsFeed.Begin(), silent),
		m.fetchStatusCmd(m.statusFeed.Begin()),
	}
}

// refreshAlerts initiates an alerts fetch with the current filter state.
func (m *Model) refreshAlerts(silent bool) tea.Cmd {
	if !silent {
		m.alertsState = view.PanelLoading
	}
	return m.fetchAlertsCmd(m.alertsFeed.Begin(), silent)
}

func (m *Model) refreshMonitors(silent bool) tea.Cmd {
	if !silent {
		m.monitorsState = view.PanelLoading
	}
	return m.fetchMonitorsCmd(m.monitorsFeed.Begin(), silent)
}

// sessionExpired is the single-shot termination path: the guard has already
// invalidated the credential, so stop polling, drop feed data, and return
// to the login view.
func (m *Model) sessionExpired() {
	m.sched.Stop()
	m.active = viewLogin
	m.loginErr = "Session expired. Sign in again."
	m.loginBusy = false
	m.overlayKey = ""
	m.alertItems, m.recentItems, m.monitorItems = nil, nil, nil
	m.alertViews, m.recentViews, m.monitorViews = nil, nil, nil
	m.pending = make(map[string]bool)
	m.awaiting = make(map[string]bool)
	m.emailInput.Focus()
	m.passInput.Blur()
}

// leaveAlertsView resets the filter/sort state so a return to the alerts
// view starts from defaults.
func (m *Model) leaveAlertsView() {
	m.filter = domain.FilterState{}
	m.filterInput.SetValue("")
	m.filterInput.Blur()
	m.filterFocus = false
	m.debounceSeq++
}

// currentKeys returns the contract keys of the list the active view shows,
// in render order.
func (m *Model) currentKeys() []string {
	switch m.active {
	case viewAlerts:
		keys := make([]string, len(m.alertViews))
		for i, v := range m.alertViews {
			keys[i] = v.ContractKey
		}
		return keys
	case viewMonitors:
		keys := make([]string, len(m.monitorViews))
		for i, v := range m.monitorViews {
			keys[i] = v.ContractKey
		}
		return keys
	}
	return nil
}

func (m *Model) selectedKey() string {
	keys := m.currentKeys()
	if m.selIdx >= 0 && m.selIdx < len(keys) {
		return keys[m.selIdx]
	}
	return ""
}

func (m *Model) clampSelection() {
	n := len(m.currentKeys())
	if n == 0 {
		m.selIdx = 0
		return
	}
	if m.selIdx >= n {
		m.selIdx = n - 1
	}
	if m.selIdx < 0 {
		m.selIdx = 0
	}
}

// pruneOverlay closes the detail overlay when its contract no longer appears
// in the active view's rows. Without this a row dropping out of a refresh
// would leave an empty overlay capturing keys.
func (m *Model) pruneOverlay() {
	if m.overlayKey == "" {
		return
	}
	for _, k := range m.currentKeys() {
		if k == m.overlayKey {
			return
		}
	}
	m.overlayKey = ""
}

func (m *Model) controlLocked(key string) bool {
	return m.pending[key] || m.awaiting[key]
}

// markRefreshApplied re-enables toggle controls whose server-confirmed
// state is now reflected in the freshly applied feed data.
func (m *Model) markRefreshApplied() {
	for k := range m.awaiting {
		delete(m.awaiting, k)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := m.height - headerHeight - footerHeight
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.MouseWheelEnabled = true
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.syncViewport()
		return m, nil

	case pollMsg:
		// Timer cycle: silent refresh, rows stay put until data lands.
		cmds := m.refreshAll(true)
		cmds = append(cmds, m.pollCmd())
		return m, tea.Batch(cmds...)

	case pollStoppedMsg:
		return m, nil

	case debounceMsg:
		// Only the newest debounce tick applies; earlier keystrokes armed
		// ticks that are now stale.
		if msg.seq != m.debounceSeq {
			return m, nil
		}
		symbol := m.filterInput.Value()
		if symbol == m.filter.Symbol {
			return m, nil
		}
		m.filter.Symbol = symbol
		return m, m.refreshAlerts(true)

	case loginMsg:
		return m.updateLoginResult(msg)

	case alertsMsg:
		return m.updateAlerts(msg)

	case recentMsg:
		return m.updateRecent(msg)

	case monitorsMsg:
		return m.updateMonitors(msg)

	case statusMsg:
		return m.updateStatus(msg)

	case toggleMsg:
		return m.updateToggle(msg)
	}

	if m.ready && m.active != viewLogin {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateLoginResult(msg loginMsg) (tea.Model, tea.Cmd) {
	m.loginBusy = false
	if msg.err != nil {
		m.loginErr = "Cannot reach the server. Try again."
		m.logger.Warn("login request failed", "error", msg.err)
		return m, nil
	}
	if !msg.ok {
		m.loginErr = msg.detail
		if m.loginErr == "" {
			m.loginErr = "Invalid email or password."
		}
		m.passInput.SetValue("")
		return m, nil
	}
	if err := m.guard.Start(msg.token); err != nil {
		m.logger.Warn("persisting credential", "error", err)
	}
	m.loginErr = ""
	m.passInput.SetValue("")
	m.greeting = m.guard.Claims().Subject
	m.active = viewAlerts
	m.selIdx = 0
	return m, m.activate()
}

func (m Model) updateAlerts(msg alertsMsg) (tea.Model, tea.Cmd) {
	if !m.alertsFeed.Accept(msg.seq) {
		return m, nil
	}
	if msg.err != nil {
		if errors.Is(msg.err, api.ErrSessionExpired) {
			m.sessionExpired()
			return m, nil
		}
		m.logger.Warn("alerts fetch failed", "error", msg.err)
		m.alertsState = view.PanelError
		m.syncViewport()
		return m, nil
	}
	m.alertItems = msg.items
	m.alertViews = view.BuildAlertViews(msg.items)
	if len(msg.items) == 0 {
		m.alertsState = view.PanelEmpty
	} else {
		m.alertsState = view.PanelPopulated
	}
	m.markRefreshApplied()
	if m.active == viewAlerts {
		m.clampSelection()
		m.pruneOverlay()
	}
	m.syncViewport()
	return m, nil
}

func (m Model) updateRecent(msg recentMsg) (tea.Model, tea.Cmd) {
	if !m.recentFeed.Accept(msg.seq) {
		return m, nil
	}
	if msg.err != nil {
		if errors.Is(msg.err, api.ErrSessionExpired) {
			m.sessionExpired()
			return m, nil
		}
		m.logger.Warn("recent fetch failed", "error", msg.err)
		m.recentState = view.PanelError
		m.syncViewport()
		return m, nil
	}
	m.recentItems = msg.items
	m.recentViews = view.BuildAlertViews(msg.items)
	if len(msg.items) == 0 {
		m.recentState = view.PanelEmpty
	} else {
		m.recentState = view.PanelPopulated
	}
	m.syncViewport()
	return m, nil
}

func (m Model) updateMonitors(msg monitorsMsg) (tea.Model, tea.Cmd) {
	if !m.monitorsFeed.Accept(msg.seq) {
		return m, nil
	}
	if msg.err != nil {
		if errors.Is(msg.err, api.ErrSessionExpired) {
			m.sessionExpired()
			return m, nil
		}
		m.logger.Warn("monitors fetch failed", "error", msg.err)
		m.monitorsState = view.PanelError
		m.syncViewport()
		return m, nil
	}
	m.monitorItems = msg.items
	m.monitorViews = view.BuildMonitorViews(msg.items)
	if len(msg.items) == 0 {
		m.monitorsState = view.PanelEmpty
	} else {
		m.monitorsState = view.PanelPopulated
	}
	m.markRefreshApplied()
	if m.active == viewMonitors {
		m.clampSelection()
		m.pruneOverlay()
	}
	m.syncViewport()
	return m, nil
}

func (m Model) updateStatus(msg statusMsg) (tea.Model, tea.Cmd) {
	if !m.statusFeed.Accept(msg.seq) {
		return m, nil
	}
	if msg.err != nil {
		if errors.Is(msg.err, api.ErrSessionExpired) {
			m.sessionExpired()
			return m, nil
		}
		// The status strip is decorative; a failed probe hides it.
		m.uwEnabled = false
		return m, nil
	}
	m.uwEnabled = msg.enabled
	m.tide = m.tide[:0]
	for _, p := range msg.tide {
		m.tide = append(m.tide, p.Value)
	}
	return m, nil
}

func (m Model) updateToggle(msg toggleMsg) (tea.Model, tea.Cmd) {
	delete(m.pending, msg.contractKey)
	if msg.err != nil {
		if errors.Is(msg.err, api.ErrSessionExpired) {
			m.sessionExpired()
			return m, nil
		}
		// Revert the optimistic flip as the transient display, then refresh
		// anyway: the server's answer is authoritative either way.
		m.logger.Warn("watch toggle failed", "contract", msg.contractKey, "error", msg.err)
		m.applyWatched(msg.contractKey, !msg.active)
		m.syncViewport()
		return m, tea.Batch(m.refreshAlerts(false), m.refreshMonitors(false))
	}
	// Confirmed. The control stays locked until the dependent feeds
	// re-deliver the server's view of the watch-list.
	m.awaiting[msg.contractKey] = true
	return m, tea.Batch(m.refreshAlerts(false), m.refreshMonitors(false))
}

// applyWatched flips the local watched flag for a contract across the alert
// collections and rebuilds the affected view models.
func (m *Model) applyWatched(contractKey string, watched bool) {
	for i := range m.alertItems {
		if m.alertItems[i].ContractKey == contractKey {
			m.alertItems[i].IsWatched = watched
		}
	}
	for i := range m.recentItems {
		if m.recentItems[i].ContractKey == contractKey {
			m.recentItems[i].IsWatched = watched
		}
	}
	m.alertViews = view.BuildAlertViews(m.alertItems)
	m.recentViews = view.BuildAlertViews(m.recentItems)
}

// toggleSelected starts an optimistic watch-list toggle for the selected
// contract. No-op while a toggle for that contract is already in flight.
func (m *Model) toggleSelected() tea.Cmd {
	key := m.selectedKey()
	if m.overlayKey != "" {
		key = m.overlayKey
	}
	if key == "" || m.controlLocked(key) {
		return nil
	}

	var next bool
	switch m.active {
	case viewAlerts:
		cur := false
		for _, it := range m.alertItems {
			if it.ContractKey == key {
				cur = it.IsWatched
				break
			}
		}
		next = !cur
		m.applyWatched(key, next)
	case viewMonitors:
		// Everything on the monitors view is watched; toggling removes.
		next = false
	default:
		return nil
	}

	m.pending[key] = true
	m.syncViewport()
	return m.toggleCmd(key, next)
}

// Quit tears down the poll loop. The credential stays on disk so the next
// start skips the login view.
func (m *Model) quit() tea.Cmd {
	m.sched.Stop()
	return tea.Quit
}
