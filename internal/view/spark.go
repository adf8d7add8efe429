package view

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders a numeric series as block runes, one rune per sample,
// scaled to the series' own min/max. A flat series renders at mid height.
func Sparkline(vals []float64) string {
	if len(vals) == 0 {
		return ""
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	out := make([]rune, len(vals))
	span := hi - lo
	for i, v := range vals {
		if span == 0 {
			out[i] = sparkRunes[len(sparkRunes)/2]
			continue
		}
		idx := int((v - lo) / span * float64(len(sparkRunes)-1))
		out[i] = sparkRunes[idx]
	}
	return string(out)
}
