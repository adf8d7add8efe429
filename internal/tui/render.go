package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sentinel/internal/view"
)

const (
	headerHeight = 1
	footerHeight = 1
)

var (
	headerBarStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4"))
	footerBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	sectionStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6"))
	loginTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	loginErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	loginDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tideStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

// padBar pads s with spaces to width, or truncates if longer.
func padBar(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}

func (m Model) View() string {
	if m.active == viewLogin {
		return m.renderLogin()
	}
	if !m.ready {
		return "Loading..."
	}

	header := headerBarStyle.Render(padBar(m.headerText(), m.width))
	footer := footerBarStyle.Render(padBar(m.footerText(), m.width))

	body := m.viewport.View()
	if m.overlayKey != "" {
		vpHeight := m.height - headerHeight - footerHeight
		if vpHeight < 1 {
			vpHeight = 1
		}
		body = lipgloss.Place(m.width, vpHeight, lipgloss.Center, lipgloss.Center, m.overlayContent())
	}

	return header + "\n" + body + "\n" + footer
}

func (m Model) headerText() string {
	var b strings.Builder
	b.WriteString(" Alpha Sentinel")
	if m.greeting != "" {
		b.WriteString("  " + m.greeting)
	}
	if m.active == viewAlerts {
		b.WriteString(fmt.Sprintf("    type: %s  sort: %s", m.filter.TypeFilter.Label(), m.filter.Sort.Label()))
		if sym := m.filterInput.Value(); sym != "" || m.filterFocus {
			b.WriteString("  symbol: " + m.filterInput.View())
		}
	} else {
		b.WriteString("    monitors")
	}
	if m.uwEnabled && len(m.tide) > 0 {
		b.WriteString("    tide " + tideStyle.Render(view.Sparkline(view.TrailingWindow(m.tide, view.SparkWindow))))
	}
	b.WriteString(" ")
	return b.String()
}

func (m Model) footerText() string {
	var left string
	if m.overlayKey != "" {
		left = " esc close  w watch  q quit"
	} else if m.active == viewAlerts {
		left = " q quit  tab monitors  v layout  s sort  t type  / symbol  up/dn select  enter detail  w watch"
	} else {
		left = " q quit  tab alerts  up/dn select  enter detail  w unwatch"
	}
	pct := fmt.Sprintf("%.0f%% ", m.viewport.ScrollPercent()*100)
	gap := m.width - len(left) - len(pct)
	if gap < 0 {
		gap = 0
	}
	return left + strings.Repeat(" ", gap) + pct
}

func (m Model) renderLogin() string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString("  " + loginTitleStyle.Render("Alpha Sentinel") + "\n\n")
	b.WriteString("  " + m.emailInput.View() + "\n")
	b.WriteString("  " + m.passInput.View() + "\n\n")
	if m.loginBusy {
		b.WriteString("  " + loginDimStyle.Render("Signing in...") + "\n")
	} else if m.loginErr != "" {
		b.WriteString("  " + loginErrStyle.Render(m.loginErr) + "\n")
	}
	b.WriteString("\n")
	b.WriteString("  " + loginDimStyle.Render("tab switch field  enter sign in  ctrl+c quit"))
	return b.String()
}

// syncViewport re-renders the scrollable content into the viewport.
func (m *Model) syncViewport() {
	if m.ready {
		m.viewport.SetContent(m.renderContent())
	}
}

func (m Model) renderContent() string {
	var b strings.Builder
	switch m.active {
	case viewAlerts:
		m.renderAlertsView(&b)
	case viewMonitors:
		m.renderMonitorsView(&b)
	}
	return b.String()
}

func (m Model) renderAlertsView(b *strings.Builder) {
	b.WriteString(sectionStyle.Width(m.width).Render("  RECENT"))
	b.WriteString("\n")
	if m.recentState == view.PanelPopulated {
		// The recent panel always uses the stream layout.
		b.WriteString(view.CompactAlerts(m.recentViews, m.width, "", m.pendingMarks()))
	} else {
		b.WriteString(view.Notice(m.recentState))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Width(m.width).Render("  ALERTS"))
	b.WriteString("\n")
	if m.alertsState == view.PanelPopulated {
		if m.layout == layoutTabular {
			b.WriteString(view.TabularAlerts(m.alertViews, m.width, m.selectedKey(), m.pendingMarks()))
		} else {
			b.WriteString(view.CompactAlerts(m.alertViews, m.width, m.selectedKey(), m.pendingMarks()))
		}
	} else {
		b.WriteString(view.Notice(m.alertsState))
		b.WriteString("\n")
	}
}

func (m Model) renderMonitorsView(b *strings.Builder) {
	b.WriteString(sectionStyle.Width(m.width).Render("  MONITORS"))
	b.WriteString("\n")
	if m.monitorsState == view.PanelPopulated {
		if m.layout == layoutTabular {
			b.WriteString(view.TabularMonitors(m.monitorViews, m.width, m.selectedKey(), m.pendingMarks()))
		} else {
			b.WriteString(view.CompactMonitors(m.monitorViews, m.width, m.selectedKey(), m.pendingMarks()))
		}
	} else {
		b.WriteString(view.Notice(m.monitorsState))
		b.WriteString("\n")
	}
}

// pendingMarks merges in-flight and awaiting-refresh toggles so both render
// as disabled controls.
func (m Model) pendingMarks() map[string]bool {
	if len(m.pending) == 0 && len(m.awaiting) == 0 {
		return nil
	}
	marks := make(map[string]bool, len(m.pending)+len(m.awaiting))
	for k := range m.pending {
		marks[k] = true
	}
	for k := range m.awaiting {
		marks[k] = true
	}
	return marks
}

func (m Model) overlayContent() string {
	locked := m.controlLocked(m.overlayKey)
	switch m.active {
	case viewAlerts:
		for _, v := range m.alertViews {
			if v.ContractKey == m.overlayKey {
				return view.OverlayBox(view.DetailAlert(v, locked), m.width)
			}
		}
	case viewMonitors:
		for _, v := range m.monitorViews {
			if v.ContractKey == m.overlayKey {
				return view.OverlayBox(view.DetailMonitor(v, locked), m.width)
			}
		}
	}
	return ""
}

type rect struct{ x, y, w, h int }

func (r rect) contains(px, py int) bool {
	return px >= r.x && px < r.x+r.w && py >= r.y && py < r.y+r.h
}

// overlayRect computes the screen-coordinate bounds of the centered overlay
// box, used to treat clicks outside it as dismissal.
func (m Model) overlayRect() rect {
	content := m.overlayContent()
	w := lipgloss.Width(content)
	h := lipgloss.Height(content)
	vpHeight := m.height - headerHeight - footerHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	x := (m.width - w) / 2
	if x < 0 {
		x = 0
	}
	y := headerHeight + (vpHeight-h)/2
	if y < headerHeight {
		y = headerHeight
	}
	return rect{x: x, y: y, w: w, h: h}
}

// selectedLine returns the 0-based content line of the selected row, or -1.
func (m Model) selectedLine() int {
	keys := m.currentKeys()
	if m.selIdx < 0 || m.selIdx >= len(keys) {
		return -1
	}
	switch m.active {
	case viewAlerts:
		// Recent section header + its rows (or notice) + blank + alerts
		// section header, then the rows.
		line := 1
		if m.recentState == view.PanelPopulated {
			line += len(m.recentViews)
		} else {
			line++
		}
		line += 2
		if m.layout == layoutTabular {
			line++ // column header
		}
		return line + m.selIdx
	case viewMonitors:
		line := 1
		if m.layout == layoutTabular {
			line++
		}
		return line + m.selIdx
	}
	return -1
}

// ensureVisible scrolls the viewport so the selected line is on screen.
func (m *Model) ensureVisible() {
	line := m.selectedLine()
	if line < 0 {
		return
	}
	yOff := m.viewport.YOffset
	vpH := m.viewport.Height
	if line < yOff {
		m.viewport.SetYOffset(line)
	} else if line >= yOff+vpH {
		m.viewport.SetYOffset(line - vpH + 1)
	}
}
