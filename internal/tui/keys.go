package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.active == viewLogin {
		return m.updateLoginKey(msg)
	}

	// The filter input captures keystrokes while focused.
	if m.filterFocus {
		switch msg.String() {
		case "esc", "enter":
			m.filterFocus = false
			m.filterInput.Blur()
			m.syncViewport()
			return m, nil
		case "ctrl+c":
			return m, m.quit()
		}
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.debounceSeq++
		m.syncViewport()
		return m, tea.Batch(cmd, m.debounceCmd(m.debounceSeq))
	}

	// Overlay captures its own keys.
	if m.overlayKey != "" {
		switch msg.String() {
		case "esc", "enter":
			m.overlayKey = ""
			m.syncViewport()
			return m, nil
		case "w", " ":
			return m, m.toggleSelected()
		case "q", "ctrl+c":
			return m, m.quit()
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, m.quit()

	case "tab":
		if m.active == viewAlerts {
			m.leaveAlertsView()
			m.active = viewMonitors
		} else {
			m.active = viewAlerts
		}
		m.selIdx = 0
		m.clampSelection()
		m.viewport.GotoTop()
		// View activation is a foreground fetch.
		return m, tea.Batch(m.refreshAll(false)...)

	case "v":
		if m.active == viewAlerts {
			if m.layout == layoutCompact {
				m.layout = layoutTabular
			} else {
				m.layout = layoutCompact
			}
			m.syncViewport()
		}
		return m, nil

	case "s":
		if m.active != viewAlerts {
			return m, nil
		}
		m.filter.Sort = m.filter.Sort.Next()
		return m, m.refreshAlerts(true)

	case "t":
		if m.active != viewAlerts {
			return m, nil
		}
		m.filter.TypeFilter = m.filter.TypeFilter.Next()
		return m, m.refreshAlerts(true)

	case "/":
		if m.active == viewAlerts {
			m.filterFocus = true
			m.filterInput.Focus()
			m.syncViewport()
			return m, textinput.Blink
		}
		return m, nil

	case "esc":
		if m.active == viewAlerts && m.filterInput.Value() != "" {
			m.filterInput.SetValue("")
			m.debounceSeq++
			m.filter.Symbol = ""
			return m, m.refreshAlerts(true)
		}
		return m, nil

	case "r":
		return m, tea.Batch(m.refreshAll(false)...)

	case "up", "k":
		if m.selIdx > 0 {
			m.selIdx--
		}
		m.syncViewport()
		m.ensureVisible()
		return m, nil

	case "down", "j":
		if m.selIdx < len(m.currentKeys())-1 {
			m.selIdx++
		}
		m.syncViewport()
		m.ensureVisible()
		return m, nil

	case "enter":
		if key := m.selectedKey(); key != "" {
			m.overlayKey = key
			m.syncViewport()
		}
		return m, nil

	case "w", " ":
		return m, m.toggleSelected()
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, m.quit()

	case "tab", "shift+tab", "up", "down":
		if m.emailInput.Focused() {
			m.emailInput.Blur()
			m.passInput.Focus()
		} else {
			m.passInput.Blur()
			m.emailInput.Focus()
		}
		return m, textinput.Blink

	case "enter":
		if m.loginBusy {
			return m, nil
		}
		email := strings.TrimSpace(m.emailInput.Value())
		password := m.passInput.Value()
		if email == "" || password == "" {
			m.loginErr = "Email and password are required."
			return m, nil
		}
		m.loginBusy = true
		m.loginErr = ""
		return m, m.loginCmd(email, password)
	}

	var cmd tea.Cmd
	if m.emailInput.Focused() {
		m.emailInput, cmd = m.emailInput.Update(msg)
	} else {
		m.passInput, cmd = m.passInput.Update(msg)
	}
	return m, cmd
}

func (m Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.overlayKey != "" {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if !m.overlayRect().contains(msg.X, msg.Y) {
				m.overlayKey = ""
				m.syncViewport()
			}
		}
		return m, nil
	}
	if m.ready && m.active != viewLogin {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}
