package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NoData is the marker shown when a derived value cannot be computed, e.g.
// vol/OI with missing or zero open interest.
const NoData = "—"

// FormatInt formats an integer with comma separators.
func FormatInt(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	if len(s) > 3 {
		var b strings.Builder
		start := len(s) % 3
		if start > 0 {
			b.WriteString(s[:start])
		}
		for i := start; i < len(s); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(s[i : i+3])
		}
		s = b.String()
	}
	if neg {
		return "-" + s
	}
	return s
}

// FormatMoney formats a dollar value with B/M/K suffixes.
func FormatMoney(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.1fK", v/1e3)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

// FormatPrice formats a spot or strike-adjacent price as X.XX, or the
// no-data marker for zero.
func FormatPrice(p float64) string {
	if p == 0 {
		return NoData
	}
	return fmt.Sprintf("%.2f", p)
}

// FormatStrike drops a trailing .0 so strikes read 190 rather than 190.00.
func FormatStrike(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}

// FormatScore formats a backend score to one decimal place.
func FormatScore(s float64) string {
	return fmt.Sprintf("%.1f", s)
}

// FormatDelta formats a signed score delta, keeping the sign for zero-free
// reading of direction.
func FormatDelta(d float64) string {
	return fmt.Sprintf("%+.1f", d)
}

// FormatPct formats a fractional percentage (0.06 → "6.0%").
func FormatPct(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

// VolOI renders the volume/open-interest ratio to one decimal place, or the
// no-data marker when open interest is missing or zero. Never divides by
// zero, never shows a fake 0.
func VolOI(volume, openInterest int64) string {
	if openInterest <= 0 {
		return NoData
	}
	return fmt.Sprintf("%.1f", float64(volume)/float64(openInterest))
}

// FormatClock extracts HH:MM:SS from an RFC 3339 timestamp, falling back to
// the raw string when it does not parse.
func FormatClock(ts string) string {
	if ts == "" {
		return NoData
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		if t, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return ts
		}
	}
	return t.UTC().Format("15:04:05")
}

// FormatDTE renders days-to-expiration compactly.
func FormatDTE(d int) string {
	return strconv.Itoa(d) + "d"
}

// padOrTrunc pads s with spaces to width runes, or truncates if longer.
// Rune-based so markers like ★ and — count as one cell.
func padOrTrunc(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
