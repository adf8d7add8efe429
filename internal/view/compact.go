package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// watchMark renders the watch-list column for a row: a star when watched,
// an ellipsis while a toggle is in flight (the control is disabled), a
// blank otherwise.
func watchMark(watched, pending bool) string {
	switch {
	case pending:
		return "…"
	case watched:
		return "★"
	default:
		return " "
	}
}

// CompactAlerts renders the alert stream layout: one dense line per alert.
// selectedKey highlights that contract's row; pending marks in-flight
// toggle controls.
func CompactAlerts(views []AlertView, width int, selectedKey string, pending map[string]bool) string {
	var b strings.Builder
	for _, v := range views {
		hl := v.ContractKey == selectedKey
		mark := watchMark(v.Watched, pending[v.ContractKey])

		b.WriteString(hlStyle(dimStyle, hl).Render(" " + v.Observed + " "))
		b.WriteString(hlStyle(symbolFor(v.Watched), hl).Render(fmt.Sprintf("%s %-6s", mark, v.Ticker)))
		b.WriteString(hlStyle(optStyle(v.TypeLabel), hl).Render(fmt.Sprintf(" %-4s", v.TypeLabel)))
		b.WriteString(hlStyle(valueStyle, hl).Render(fmt.Sprintf("%-7s %s %s", v.Strike, v.Exp, v.DTE)))
		b.WriteString(hlStyle(dimStyle, hl).Render("  prem "))
		b.WriteString(hlStyle(valueStyle, hl).Render(fmt.Sprintf("%-7s", v.Premium)))
		b.WriteString(hlStyle(dimStyle, hl).Render(" v/oi "))
		b.WriteString(hlStyle(valueStyle, hl).Render(fmt.Sprintf("%-5s", v.VolOI)))
		b.WriteString(hlStyle(dimStyle, hl).Render(" score "))
		b.WriteString(hlStyle(scoreStyle(v.Severity), hl).Render(fmt.Sprintf("%-5s", v.Score)))
		if len(v.Tags) > 0 {
			b.WriteString(hlStyle(tagStyle, hl).Render(" [" + strings.Join(v.Tags, "][") + "]"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// CompactMonitors renders the monitored-contract stream layout.
func CompactMonitors(views []MonitorView, width int, selectedKey string, pending map[string]bool) string {
	var b strings.Builder
	for _, v := range views {
		hl := v.ContractKey == selectedKey
		mark := watchMark(true, pending[v.ContractKey])

		b.WriteString(hlStyle(symbolWlStyle, hl).Render(fmt.Sprintf(" %s %-6s", mark, v.Ticker)))
		b.WriteString(hlStyle(optStyle(v.TypeLabel), hl).Render(fmt.Sprintf(" %-4s", v.TypeLabel)))
		b.WriteString(hlStyle(valueStyle, hl).Render(fmt.Sprintf("%-7s %s", v.Strike, v.Exp)))
		b.WriteString(hlStyle(dimStyle, hl).Render("  cur "))
		b.WriteString(hlStyle(scoreStyle(v.Severity), hl).Render(fmt.Sprintf("%-5s", v.Current)))
		b.WriteString(hlStyle(dimStyle, hl).Render(" peak "))
		b.WriteString(hlStyle(valueStyle, hl).Render(fmt.Sprintf("%-5s", v.Peak)))
		b.WriteString(hlStyle(dimStyle, hl).Render(" Δ "))
		b.WriteString(hlStyle(valueStyle, hl).Render(fmt.Sprintf("%-6s", v.Delta)))
		b.WriteString(hlStyle(statusStyle(v.Status), hl).Render(fmt.Sprintf(" %-10s", v.Status)))
		b.WriteString(hlStyle(sparkStyle, hl).Render(" " + v.Spark))
		b.WriteString("\n")
	}
	return b.String()
}

func symbolFor(watched bool) lipgloss.Style {
	if watched {
		return symbolWlStyle
	}
	return symbolStyle
}
