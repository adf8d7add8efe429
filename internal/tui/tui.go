// Package tui is the terminal dashboard. It owns the poll loop, the
// filter/sort state, the optimistic watch-list toggle, and the detail
// overlay; all rendering goes through internal/view.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"sentinel/internal/domain"
)

// Messages. Feed responses carry the sequence number issued when the fetch
// was initiated; stale responses are discarded by the feed gate.
type (
	pollMsg        struct{}
	pollStoppedMsg struct{}

	debounceMsg struct{ seq uint64 }

	loginMsg struct {
		ok     bool
		token  string
		detail string
		err    error
	}

	alertsMsg struct {
		seq    uint64
		items  []domain.AlertItem
		silent bool
		err    error
	}

	recentMsg struct {
		seq   uint64
		items []domain.AlertItem
		err   error
	}

	monitorsMsg struct {
		seq    uint64
		items  []domain.MonitorItem
		silent bool
		err    error
	}

	statusMsg struct {
		seq     uint64
		enabled bool
		tide    []domain.TidePoint
		err     error
	}

	toggleMsg struct {
		contractKey string
		active      bool
		err         error
	}
)

// pollCmd blocks on the scheduler until the next cycle or a stop.
func (m Model) pollCmd() tea.Cmd {
	sched := m.sched
	return func() tea.Msg {
		if sched.Wait() {
			return pollMsg{}
		}
		return pollStoppedMsg{}
	}
}

func (m Model) debounceCmd(seq uint64) tea.Cmd {
	return tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}

func (m Model) loginCmd(email, password string) tea.Cmd {
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := client.Login(ctx, email, password)
		if err != nil {
			return loginMsg{err: err}
		}
		return loginMsg{ok: res.OK, token: res.Token, detail: res.Detail}
	}
}

func (m Model) fetchAlertsCmd(seq uint64, silent bool) tea.Cmd {
	client := m.client
	timeout := m.timeout
	f := m.filter
	limit := m.alertLimit
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		items, err := client.Alerts(ctx, f, limit)
		return alertsMsg{seq: seq, items: items, silent: silent, err: err}
	}
}

func (m Model) fetchRecentCmd(seq uint64) tea.Cmd {
	client := m.client
	timeout := m.timeout
	window := m.recentWindow
	limit := m.recentLimit
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		items, err := client.RecentAlerts(ctx, window, limit)
		return recentMsg{seq: seq, items: items, err: err}
	}
}

func (m Model) fetchMonitorsCmd(seq uint64, silent bool) tea.Cmd {
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		items, err := client.Monitors(ctx)
		return monitorsMsg{seq: seq, items: items, silent: silent, err: err}
	}
}

func (m Model) fetchStatusCmd(seq uint64) tea.Cmd {
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		enabled, err := client.MarketStatus(ctx)
		if err != nil {
			return statusMsg{seq: seq, err: err}
		}
		var tide []domain.TidePoint
		if enabled {
			if pts, err := client.TideLatest(ctx, "1m"); err == nil {
				tide = pts
			}
		}
		return statusMsg{seq: seq, enabled: enabled, tide: tide}
	}
}

func (m Model) toggleCmd(contractKey string, active bool) tea.Cmd {
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := client.ToggleWatch(ctx, contractKey, active)
		return toggleMsg{contractKey: contractKey, active: active, err: err}
	}
}
