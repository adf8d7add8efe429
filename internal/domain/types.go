// Package domain defines the core data types shared by the sentinel client
// and server: inbound trading alerts, monitored contracts, and the
// filter/sort state that drives the dashboard views.
package domain

import (
	"strconv"
	"strings"
)

// Option types as they travel on the wire.
const (
	OptionCall = "C"
	OptionPut  = "P"
)

// NormalizeOptType maps free-form option type strings ("call", "Puts", "C")
// to the canonical wire values. Unrecognised input is returned upper-cased.
func NormalizeOptType(s string) string {
	t := strings.ToUpper(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(t, "C"):
		return OptionCall
	case strings.HasPrefix(t, "P"):
		return OptionPut
	default:
		return t
	}
}

// OptTypeLabel returns the display label for a wire option type.
func OptTypeLabel(optType string) string {
	switch NormalizeOptType(optType) {
	case OptionCall:
		return "CALL"
	case OptionPut:
		return "PUT"
	default:
		return optType
	}
}

// MakeContractKey builds the canonical contract key joining alerts, monitor
// rows, and watchlist entries: TICKER|YYYY-MM-DD|STRIKE|C.
func MakeContractKey(ticker, exp string, strike float64, optType string) string {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	e := strings.TrimSpace(exp)
	// Tolerate full timestamps; the key carries the date only.
	if i := strings.IndexAny(e, "T "); i >= 0 {
		e = e[:i]
	}
	ot := NormalizeOptType(optType)
	if ot != OptionCall && ot != OptionPut {
		ot = OptionCall
	}
	return t + "|" + e + "|" + strconv.FormatFloat(strike, 'f', -1, 64) + "|" + ot
}

// AlertItem is a single inbound trading alert as served by the backend.
// All fields are server-authoritative; the client never mutates them.
type AlertItem struct {
	ContractKey  string  `json:"contract_key"`
	Ticker       string  `json:"ticker"`
	OptType      string  `json:"opt_type"` // C or P
	Strike       float64 `json:"strike"`
	Exp          string  `json:"exp"` // YYYY-MM-DD
	DTE          int     `json:"dte"`
	Premium      float64 `json:"premium"`
	Size         int64   `json:"size"`
	Volume       int64   `json:"volume"`
	OpenInterest int64   `json:"oi"` // 0 means unknown, not zero interest
	SpreadPct    float64 `json:"spread_pct"`
	OTMPct       float64 `json:"otm_pct"`
	Spot         float64 `json:"spot"`
	ScoreTotal   float64 `json:"score_total"`
	Tags         string  `json:"tags"` // comma-joined short labels
	IsWatched    bool    `json:"is_watched"`
	ObservedAt   string  `json:"ts"`
	IngestedAt   string  `json:"ingested_at"`
}

// TagList splits the wire tag string into ordered labels, dropping empties.
func (a AlertItem) TagList() []string {
	if strings.TrimSpace(a.Tags) == "" {
		return nil
	}
	parts := strings.Split(a.Tags, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Monitor status values as produced by the backend score walker.
const (
	StatusStrong    = "Strong"
	StatusMonitor   = "Monitor"
	StatusWeakening = "Weakening"
	StatusHighRisk  = "High Risk"
	StatusExitZone  = "Exit Zone"
)

// MonitorItem is an actively tracked contract. ScoreHistory is an opaque,
// chronological series; the client only ever reads a trailing window of it.
type MonitorItem struct {
	ContractKey   string    `json:"contract_key"`
	Ticker        string    `json:"ticker"`
	Strike        float64   `json:"strike"`
	OptType       string    `json:"opt_type"`
	Exp           string    `json:"exp"`
	EntryScore    float64   `json:"entry_score"`
	CurrentScore  float64   `json:"current_score"`
	PeakScore     float64   `json:"peak_score"`
	DeltaFromPeak float64   `json:"delta_from_peak"` // current - peak, signed
	Status        string    `json:"status"`
	LastUpdateAt  string    `json:"last_update_ts"`
	ScoreHistory  []float64 `json:"score_history"`
}

// TidePoint is one sample of the market-breadth series.
type TidePoint struct {
	Timestamp string  `json:"ts"`
	Value     float64 `json:"value"`
}

// TypeFilter selects which option types the alert list shows.
type TypeFilter int

const (
	FilterAll TypeFilter = iota
	FilterCalls
	FilterPuts
)

// Next cycles ALL → CALL → PUT → ALL.
func (f TypeFilter) Next() TypeFilter {
	return (f + 1) % 3
}

// Param returns the query parameter value for the filter, or "" for ALL.
func (f TypeFilter) Param() string {
	switch f {
	case FilterCalls:
		return OptionCall
	case FilterPuts:
		return OptionPut
	default:
		return ""
	}
}

// Label returns the display label for the filter.
func (f TypeFilter) Label() string {
	switch f {
	case FilterCalls:
		return "CALL"
	case FilterPuts:
		return "PUT"
	default:
		return "ALL"
	}
}

// SortMode is the score sort direction. NONE preserves server order.
type SortMode int

const (
	SortNone SortMode = iota
	SortDesc
	SortAsc
)

// Next cycles NONE → DESC → ASC → NONE.
func (s SortMode) Next() SortMode {
	return (s + 1) % 3
}

// Param returns the sort_score query parameter value, or "" for NONE.
func (s SortMode) Param() string {
	switch s {
	case SortDesc:
		return "desc"
	case SortAsc:
		return "asc"
	default:
		return ""
	}
}

// Label returns the sort indicator shown in the header and column controls.
func (s SortMode) Label() string {
	switch s {
	case SortDesc:
		return "score ↓"
	case SortAsc:
		return "score ↑"
	default:
		return "none"
	}
}

// FilterState holds the current query parameters for the alert list. It is
// owned by the view that displays the list and reset on navigation away.
type FilterState struct {
	Symbol     string // case-insensitive substring match on ticker
	TypeFilter TypeFilter
	Sort       SortMode
}
