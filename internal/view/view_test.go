package view

import (
	"strings"
	"testing"

	"sentinel/internal/domain"
)

func TestVolOI(t *testing.T) {
	cases := []struct {
		volume, oi int64
		want       string
	}{
		{1500, 1000, "1.5"},
		{999, 1000, "1.0"},
		{5000, 0, NoData},
		{5000, -1, NoData},
		{0, 400, "0.0"},
	}
	for _, c := range cases {
		if got := VolOI(c.volume, c.oi); got != c.want {
			t.Errorf("VolOI(%d, %d) = %q, want %q", c.volume, c.oi, got, c.want)
		}
	}
}

func TestSeverityFor(t *testing.T) {
	cases := []struct {
		score float64
		want  Severity
	}{
		{92.5, SeverityHigh},
		{85, SeverityHigh},
		{84.9, SeverityMedium},
		{60, SeverityMedium},
		{59.9, SeverityNeutral},
		{0, SeverityNeutral},
	}
	for _, c := range cases {
		if got := SeverityFor(c.score); got != c.want {
			t.Errorf("SeverityFor(%v) = %v, want %v", c.score, got, c.want)
		}
	}
}

func TestTrailingWindow(t *testing.T) {
	series := make([]float64, 100)
	for i := range series {
		series[i] = float64(i)
	}
	w := TrailingWindow(series, SparkWindow)
	if len(w) != SparkWindow {
		t.Fatalf("window length = %d, want %d", len(w), SparkWindow)
	}
	if w[0] != 60 || w[len(w)-1] != 99 {
		t.Errorf("window = [%v..%v], want [60..99]", w[0], w[len(w)-1])
	}

	// Shorter series comes back whole.
	short := []float64{1, 2, 3}
	if got := TrailingWindow(short, SparkWindow); len(got) != 3 {
		t.Errorf("short window length = %d, want 3", len(got))
	}

	// The returned slice is a copy; writing it must not touch the source.
	w[0] = -1
	if series[60] != 60 {
		t.Error("TrailingWindow aliased the source series")
	}
}

func TestRecentReversed(t *testing.T) {
	got := RecentReversed([]float64{10, 20, 15}, DetailTicks)
	want := []float64{15, 20, 10}
	if len(got) != len(want) {
		t.Fatalf("length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ticks[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if Sparkline(nil) != "" {
		t.Error("empty series should render empty")
	}
	flat := Sparkline([]float64{50, 50, 50})
	if len([]rune(flat)) != 3 {
		t.Fatalf("flat sparkline rune length = %d, want 3", len([]rune(flat)))
	}
	r := []rune(flat)
	if r[0] != r[1] || r[1] != r[2] {
		t.Error("flat series should render a uniform line")
	}

	up := []rune(Sparkline([]float64{0, 50, 100}))
	if up[0] != '▁' || up[2] != '█' {
		t.Errorf("ramp sparkline = %q, want min then max rune", string(up))
	}
}

func TestFormatters(t *testing.T) {
	if got := FormatInt(1234567); got != "1,234,567" {
		t.Errorf("FormatInt = %q", got)
	}
	if got := FormatMoney(2_500_000); got != "$2.5M" {
		t.Errorf("FormatMoney = %q", got)
	}
	if got := FormatStrike(190.0); got != "190" {
		t.Errorf("FormatStrike = %q", got)
	}
	if got := FormatStrike(192.5); got != "192.5" {
		t.Errorf("FormatStrike = %q", got)
	}
	if got := FormatDelta(-4.25); got != "-4.2" && got != "-4.3" {
		t.Errorf("FormatDelta = %q", got)
	}
	if got := FormatPct(0.06); got != "6.0%" {
		t.Errorf("FormatPct = %q", got)
	}
	if got := FormatPrice(0); got != NoData {
		t.Errorf("FormatPrice(0) = %q, want no-data marker", got)
	}
	if got := FormatClock("2026-02-11T14:32:05Z"); got != "14:32:05" {
		t.Errorf("FormatClock = %q", got)
	}
}

func sampleAlert() domain.AlertItem {
	return domain.AlertItem{
		ContractKey:  "NVDA|2026-03-20|190|C",
		Ticker:       "NVDA",
		OptType:      domain.OptionCall,
		Strike:       190,
		Exp:          "2026-03-20",
		DTE:          38,
		Premium:      1_250_000,
		Size:         2500,
		Volume:       4800,
		OpenInterest: 0,
		SpreadPct:    0.015,
		OTMPct:       0.06,
		Spot:         179.2,
		ScoreTotal:   87.5,
		Tags:         "sweep,otm",
		IsWatched:    true,
		ObservedAt:   "2026-02-11T14:32:05Z",
	}
}

func TestBuildAlertView(t *testing.T) {
	v := BuildAlertView(sampleAlert())
	if v.TypeLabel != "CALL" {
		t.Errorf("TypeLabel = %q", v.TypeLabel)
	}
	if v.VolOI != NoData {
		t.Errorf("VolOI = %q, want no-data marker for zero OI", v.VolOI)
	}
	if v.Severity != SeverityHigh {
		t.Errorf("Severity = %v, want high", v.Severity)
	}
	if len(v.Tags) != 2 || v.Tags[0] != "sweep" {
		t.Errorf("Tags = %v", v.Tags)
	}
	if v.Observed != "14:32:05" {
		t.Errorf("Observed = %q", v.Observed)
	}
}

func TestBuildMonitorViewKeepsHistoryIntact(t *testing.T) {
	hist := make([]float64, 120)
	for i := range hist {
		hist[i] = float64(i % 100)
	}
	m := domain.MonitorItem{
		ContractKey:   "TSLA|2026-04-17|250|P",
		Ticker:        "TSLA",
		OptType:       domain.OptionPut,
		Strike:        250,
		Exp:           "2026-04-17",
		CurrentScore:  71.0,
		PeakScore:     88.0,
		DeltaFromPeak: -17.0,
		Status:        "Monitor",
		ScoreHistory:  hist,
	}
	v := BuildMonitorView(m)
	if len(v.History) != SparkWindow {
		t.Errorf("History length = %d, want %d", len(v.History), SparkWindow)
	}
	if len(v.Ticks) != DetailTicks {
		t.Errorf("Ticks length = %d, want %d", len(v.Ticks), DetailTicks)
	}
	if v.Ticks[0] != hist[len(hist)-1] {
		t.Errorf("Ticks[0] = %v, want newest sample %v", v.Ticks[0], hist[len(hist)-1])
	}
	if len(m.ScoreHistory) != 120 {
		t.Error("source history was truncated")
	}
	if len([]rune(v.Spark)) != SparkWindow {
		t.Errorf("sparkline rune length = %d, want %d", len([]rune(v.Spark)), SparkWindow)
	}
}

func TestBothLayoutsRenderSameRows(t *testing.T) {
	items := []domain.AlertItem{sampleAlert()}
	second := sampleAlert()
	second.ContractKey = "AMD|2026-03-20|150|P"
	second.Ticker = "AMD"
	second.OptType = domain.OptionPut
	second.IsWatched = false
	items = append(items, second)

	views := BuildAlertViews(items)
	compact := CompactAlerts(views, 120, "", nil)
	tabular := TabularAlerts(views, 120, "", nil)

	for _, sym := range []string{"NVDA", "AMD"} {
		if !strings.Contains(compact, sym) {
			t.Errorf("compact layout missing %s", sym)
		}
		if !strings.Contains(tabular, sym) {
			t.Errorf("tabular layout missing %s", sym)
		}
	}

	// Order preserved: NVDA before AMD in both.
	if strings.Index(compact, "NVDA") > strings.Index(compact, "AMD") {
		t.Error("compact layout reordered rows")
	}
	if strings.Index(tabular, "NVDA") > strings.Index(tabular, "AMD") {
		t.Error("tabular layout reordered rows")
	}
}

func TestEmptyCollectionRendersNoRows(t *testing.T) {
	views := BuildAlertViews(nil)
	if CompactAlerts(views, 120, "", nil) != "" {
		t.Error("compact layout rendered rows for an empty collection")
	}
	tab := TabularAlerts(views, 120, "", nil)
	if strings.Count(tab, "\n") != 1 {
		t.Errorf("tabular layout should render only the header for an empty collection, got %q", tab)
	}
}

func TestPendingMarkDisablesControl(t *testing.T) {
	views := BuildAlertViews([]domain.AlertItem{sampleAlert()})
	pending := map[string]bool{views[0].ContractKey: true}
	out := CompactAlerts(views, 120, "", pending)
	if !strings.Contains(out, "…") {
		t.Error("pending toggle should render the in-flight mark")
	}
	if got := watchAffordance(true, true); !strings.Contains(got, "updating") {
		t.Errorf("pending affordance = %q", got)
	}
}

func TestPanelNotices(t *testing.T) {
	states := map[PanelState]string{
		PanelLoading: "Loading",
		PanelError:   "unavailable",
		PanelEmpty:   "Nothing to show",
	}
	for state, want := range states {
		if !strings.Contains(state.Notice(), want) {
			t.Errorf("notice for %v = %q, want substring %q", state, state.Notice(), want)
		}
	}
	if PanelPopulated.Notice() != "" {
		t.Error("populated panel should carry no notice")
	}
}
