package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type column struct {
	title string
	width int
}

var alertColumns = []column{
	{"", 2},
	{"TIME", 9},
	{"SYM", 7},
	{"TYPE", 5},
	{"STRIKE", 8},
	{"EXP", 11},
	{"DTE", 5},
	{"PREM", 9},
	{"SIZE", 8},
	{"VOL", 9},
	{"OI", 9},
	{"V/OI", 6},
	{"SPRD", 7},
	{"OTM", 7},
	{"SCORE", 6},
	{"TAGS", 24},
}

var monitorColumns = []column{
	{"", 2},
	{"SYM", 7},
	{"TYPE", 5},
	{"STRIKE", 8},
	{"EXP", 11},
	{"ENTRY", 7},
	{"CUR", 7},
	{"PEAK", 7},
	{"ΔPEAK", 7},
	{"STATUS", 11},
	{"UPDATED", 9},
	{"TREND", SparkWindow + 1},
}

func headerRow(cols []column) string {
	var b strings.Builder
	for _, c := range cols {
		b.WriteString(colHeaderStyle.Render(padOrTrunc(c.title, c.width)))
	}
	return b.String()
}

func cell(s lipgloss.Style, hl bool, text string, width int) string {
	return hlStyle(s, hl).Render(padOrTrunc(text, width))
}

// TabularAlerts renders the grid layout over the same view models as the
// compact layout. Column order mirrors the compact line so switching
// layouts never reorders information.
func TabularAlerts(views []AlertView, width int, selectedKey string, pending map[string]bool) string {
	var b strings.Builder
	b.WriteString(headerRow(alertColumns))
	b.WriteString("\n")
	for _, v := range views {
		hl := v.ContractKey == selectedKey
		b.WriteString(cell(symbolFor(v.Watched), hl, watchMark(v.Watched, pending[v.ContractKey]), 2))
		b.WriteString(cell(dimStyle, hl, v.Observed, 9))
		b.WriteString(cell(symbolFor(v.Watched), hl, v.Ticker, 7))
		b.WriteString(cell(optStyle(v.TypeLabel), hl, v.TypeLabel, 5))
		b.WriteString(cell(valueStyle, hl, v.Strike, 8))
		b.WriteString(cell(valueStyle, hl, v.Exp, 11))
		b.WriteString(cell(valueStyle, hl, v.DTE, 5))
		b.WriteString(cell(valueStyle, hl, v.Premium, 9))
		b.WriteString(cell(valueStyle, hl, v.Size, 8))
		b.WriteString(cell(valueStyle, hl, v.Volume, 9))
		b.WriteString(cell(valueStyle, hl, v.OI, 9))
		b.WriteString(cell(valueStyle, hl, v.VolOI, 6))
		b.WriteString(cell(valueStyle, hl, v.SpreadPct, 7))
		b.WriteString(cell(valueStyle, hl, v.OTMPct, 7))
		b.WriteString(cell(scoreStyle(v.Severity), hl, v.Score, 6))
		b.WriteString(cell(tagStyle, hl, strings.Join(v.Tags, ","), 24))
		b.WriteString("\n")
	}
	return b.String()
}

// TabularMonitors renders the monitored-contract grid.
func TabularMonitors(views []MonitorView, width int, selectedKey string, pending map[string]bool) string {
	var b strings.Builder
	b.WriteString(headerRow(monitorColumns))
	b.WriteString("\n")
	for _, v := range views {
		hl := v.ContractKey == selectedKey
		b.WriteString(cell(symbolWlStyle, hl, watchMark(true, pending[v.ContractKey]), 2))
		b.WriteString(cell(symbolWlStyle, hl, v.Ticker, 7))
		b.WriteString(cell(optStyle(v.TypeLabel), hl, v.TypeLabel, 5))
		b.WriteString(cell(valueStyle, hl, v.Strike, 8))
		b.WriteString(cell(valueStyle, hl, v.Exp, 11))
		b.WriteString(cell(valueStyle, hl, v.Entry, 7))
		b.WriteString(cell(scoreStyle(v.Severity), hl, v.Current, 7))
		b.WriteString(cell(valueStyle, hl, v.Peak, 7))
		b.WriteString(cell(valueStyle, hl, v.Delta, 7))
		b.WriteString(cell(statusStyle(v.Status), hl, v.Status, 11))
		b.WriteString(cell(dimStyle, hl, v.LastUpdate, 9))
		b.WriteString(hlStyle(sparkStyle, hl).Render(v.Spark))
		b.WriteString("\n")
	}
	return b.String()
}
