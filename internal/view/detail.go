package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var overlayStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("12")).
	Padding(0, 2)

// OverlayBox wraps the detail content in the overlay frame, capped to the
// given terminal width.
func OverlayBox(content string, width int) string {
	inner := width - 6
	if inner < 20 {
		inner = 20
	}
	return overlayStyle.Width(inner).Render(content)
}

func detailLine(label, value string) string {
	return dimStyle.Render(padOrTrunc(label, 12)) + valueStyle.Render(value)
}

// DetailAlert renders the extended-field content for one alert. Shown in
// the overlay; every field comes from the already-built view model.
func DetailAlert(v AlertView, pending bool) string {
	var b strings.Builder

	b.WriteString(symbolFor(v.Watched).Render(v.Ticker))
	b.WriteString(" ")
	b.WriteString(optStyle(v.TypeLabel).Render(v.TypeLabel))
	b.WriteString(" ")
	b.WriteString(valueStyle.Render(v.Strike + " " + v.Exp))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(v.ContractKey))
	b.WriteString("\n\n")

	b.WriteString(detailLine("Observed", v.Observed) + "\n")
	b.WriteString(detailLine("DTE", v.DTE) + "\n")
	b.WriteString(detailLine("Premium", v.Premium) + "\n")
	b.WriteString(detailLine("Size", v.Size) + "\n")
	b.WriteString(detailLine("Volume", v.Volume) + "\n")
	b.WriteString(detailLine("Open int", v.OI) + "\n")
	b.WriteString(detailLine("Vol/OI", v.VolOI) + "\n")
	b.WriteString(detailLine("Spread", v.SpreadPct) + "\n")
	b.WriteString(detailLine("OTM", v.OTMPct) + "\n")
	b.WriteString(detailLine("Spot", v.Spot) + "\n")
	b.WriteString(dimStyle.Render(padOrTrunc("Score", 12)))
	b.WriteString(scoreStyle(v.Severity).Render(v.Score))
	b.WriteString("\n")
	if len(v.Tags) > 0 {
		b.WriteString(dimStyle.Render(padOrTrunc("Tags", 12)))
		b.WriteString(tagStyle.Render(strings.Join(v.Tags, ", ")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(watchAffordance(v.Watched, pending))
	b.WriteString(dimStyle.Render("  esc close"))
	return b.String()
}

// DetailMonitor renders the extended content for one monitored contract:
// the score trajectory sparkline plus the most recent ticks, newest first.
func DetailMonitor(v MonitorView, pending bool) string {
	var b strings.Builder

	b.WriteString(symbolWlStyle.Render(v.Ticker))
	b.WriteString(" ")
	b.WriteString(optStyle(v.TypeLabel).Render(v.TypeLabel))
	b.WriteString(" ")
	b.WriteString(valueStyle.Render(v.Strike + " " + v.Exp))
	b.WriteString("  ")
	b.WriteString(statusStyle(v.Status).Render(v.Status))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(v.ContractKey))
	b.WriteString("\n\n")

	b.WriteString(detailLine("Entry", v.Entry) + "\n")
	b.WriteString(dimStyle.Render(padOrTrunc("Current", 12)))
	b.WriteString(scoreStyle(v.Severity).Render(v.Current))
	b.WriteString("\n")
	b.WriteString(detailLine("Peak", v.Peak) + "\n")
	b.WriteString(detailLine("From peak", v.Delta) + "\n")
	b.WriteString(detailLine("Updated", v.LastUpdate) + "\n\n")

	b.WriteString(dimStyle.Render(padOrTrunc("Trend", 12)))
	b.WriteString(sparkStyle.Render(v.Spark))
	b.WriteString("\n")

	if len(v.Ticks) > 0 {
		b.WriteString(dimStyle.Render(padOrTrunc("Recent", 12)))
		parts := make([]string, len(v.Ticks))
		for i, t := range v.Ticks {
			parts[i] = fmt.Sprintf("%.1f", t)
		}
		b.WriteString(valueStyle.Render(strings.Join(parts, "  ")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(watchAffordance(true, pending))
	b.WriteString(dimStyle.Render("  esc close"))
	return b.String()
}

// watchAffordance is the overlay's toggle control. While a toggle is in
// flight the control reads as disabled.
func watchAffordance(watched, pending bool) string {
	if pending {
		return dimStyle.Render("[…] updating")
	}
	if watched {
		return symbolWlStyle.Render("[w] unwatch")
	}
	return symbolStyle.Render("[w] watch")
}
