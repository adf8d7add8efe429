// Package view maps data snapshots into the dashboard's presentations. One
// transform per entity produces a view model; the compact and tabular
// adapters both consume that model, so no field logic is ever duplicated
// across layouts.
package view

import (
	"sentinel/internal/domain"
)

// Trailing windows read from score histories. The source series is
// unbounded and never mutated here; only the most recent window is read.
const (
	SparkWindow = 40 // inline sparklines
	DetailTicks = 10 // detail overlay tick list
)

// Severity buckets a score for display. It has no effect on sort or filter
// semantics.
type Severity int

const (
	SeverityNeutral Severity = iota
	SeverityMedium
	SeverityHigh
)

// SeverityFor buckets a score: ≥85 high, ≥60 medium, else neutral.
func SeverityFor(score float64) Severity {
	switch {
	case score >= 85:
		return SeverityHigh
	case score >= 60:
		return SeverityMedium
	default:
		return SeverityNeutral
	}
}

// PanelState is the render state of one dashboard panel. Exactly one state
// is ever visible per panel.
type PanelState int

const (
	PanelLoading PanelState = iota
	PanelError
	PanelEmpty
	PanelPopulated
)

// Notice returns the message rendered for the non-populated states.
func (p PanelState) Notice() string {
	switch p {
	case PanelLoading:
		return "Loading..."
	case PanelError:
		return "Feed unavailable — will retry on the next cycle."
	case PanelEmpty:
		return "Nothing to show."
	default:
		return ""
	}
}

// AlertView is the presentation-ready projection of an AlertItem. All
// derived strings are computed exactly once here and shared by every
// layout.
type AlertView struct {
	ContractKey string
	Ticker      string
	TypeLabel   string // CALL / PUT
	Strike      string
	Exp         string
	DTE         string
	Premium     string
	Size        string
	Volume      string
	OI          string
	VolOI       string // ratio to one decimal, or the no-data marker
	SpreadPct   string
	OTMPct      string
	Spot        string
	Score       string
	Severity    Severity
	Tags        []string
	Watched     bool
	Observed    string
}

// BuildAlertView projects one alert into its view model.
func BuildAlertView(a domain.AlertItem) AlertView {
	return AlertView{
		ContractKey: a.ContractKey,
		Ticker:      a.Ticker,
		TypeLabel:   domain.OptTypeLabel(a.OptType),
		Strike:      FormatStrike(a.Strike),
		Exp:         a.Exp,
		DTE:         FormatDTE(a.DTE),
		Premium:     FormatMoney(a.Premium),
		Size:        FormatInt(a.Size),
		Volume:      FormatInt(a.Volume),
		OI:          FormatInt(a.OpenInterest),
		VolOI:       VolOI(a.Volume, a.OpenInterest),
		SpreadPct:   FormatPct(a.SpreadPct),
		OTMPct:      FormatPct(a.OTMPct),
		Spot:        FormatPrice(a.Spot),
		Score:       FormatScore(a.ScoreTotal),
		Severity:    SeverityFor(a.ScoreTotal),
		Tags:        a.TagList(),
		Watched:     a.IsWatched,
		Observed:    FormatClock(a.ObservedAt),
	}
}

// BuildAlertViews projects a collection, preserving server order.
func BuildAlertViews(items []domain.AlertItem) []AlertView {
	out := make([]AlertView, len(items))
	for i, a := range items {
		out[i] = BuildAlertView(a)
	}
	return out
}

// MonitorView is the presentation-ready projection of a MonitorItem.
// History is a copy of the trailing window only; Ticks are the most recent
// samples in reverse-chronological order.
type MonitorView struct {
	ContractKey string
	Ticker      string
	TypeLabel   string
	Strike      string
	Exp         string
	Entry       string
	Current     string
	Peak        string
	Delta       string // current − peak, signed
	Status      string
	Severity    Severity
	Spark       string
	History     []float64
	Ticks       []float64
	LastUpdate  string
}

// BuildMonitorView projects one monitored contract into its view model.
// The source score history is read, never truncated or mutated.
func BuildMonitorView(m domain.MonitorItem) MonitorView {
	hist := TrailingWindow(m.ScoreHistory, SparkWindow)
	return MonitorView{
		ContractKey: m.ContractKey,
		Ticker:      m.Ticker,
		TypeLabel:   domain.OptTypeLabel(m.OptType),
		Strike:      FormatStrike(m.Strike),
		Exp:         m.Exp,
		Entry:       FormatScore(m.EntryScore),
		Current:     FormatScore(m.CurrentScore),
		Peak:        FormatScore(m.PeakScore),
		Delta:       FormatDelta(m.DeltaFromPeak),
		Status:      m.Status,
		Severity:    SeverityFor(m.CurrentScore),
		Spark:       Sparkline(hist),
		History:     hist,
		Ticks:       RecentReversed(m.ScoreHistory, DetailTicks),
		LastUpdate:  FormatClock(m.LastUpdateAt),
	}
}

// BuildMonitorViews projects a collection, preserving server order.
func BuildMonitorViews(items []domain.MonitorItem) []MonitorView {
	out := make([]MonitorView, len(items))
	for i, m := range items {
		out[i] = BuildMonitorView(m)
	}
	return out
}

// TrailingWindow copies the last n samples of a series without touching the
// source slice.
func TrailingWindow(series []float64, n int) []float64 {
	if len(series) > n {
		series = series[len(series)-n:]
	}
	out := make([]float64, len(series))
	copy(out, series)
	return out
}

// RecentReversed copies the last n samples in reverse-chronological order.
func RecentReversed(series []float64, n int) []float64 {
	w := TrailingWindow(series, n)
	for i, j := 0, len(w)-1; i < j; i, j = i+1, j-1 {
		w[i], w[j] = w[j], w[i]
	}
	return w
}
