package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"sentinel/internal/domain"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "sentinel.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testAlert(ticker string, score float64) domain.AlertItem {
	exp := "2026-03-20"
	return domain.AlertItem{
		ContractKey:  domain.MakeContractKey(ticker, exp, 190, "C"),
		Ticker:       ticker,
		OptType:      "C",
		Strike:       190,
		Exp:          exp,
		DTE:          30,
		Premium:      1_000_000,
		Size:         1000,
		Volume:       4000,
		OpenInterest: 2000,
		ScoreTotal:   score,
		Tags:         "sweep",
		ObservedAt:   time.Now().UTC().Format(time.RFC3339),
	}
}

func TestUserLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, "Ops@Example.com", "pbkdf2$1$a$b", "sentinel"); err != nil {
		t.Fatalf("creating user: %v", err)
	}

	// Lookup is case-insensitive via lowercasing on both paths.
	u, err := s.UserByEmail(ctx, "ops@example.com")
	if err != nil {
		t.Fatalf("querying user: %v", err)
	}
	if u == nil {
		t.Fatal("user not found")
	}
	if u.Role != "sentinel" || !u.IsActive {
		t.Errorf("user = %+v, want active sentinel", u)
	}

	if err := s.TouchLogin(ctx, "ops@example.com"); err != nil {
		t.Fatalf("touching login: %v", err)
	}
	u, _ = s.UserByEmail(ctx, "ops@example.com")
	if u.LastLoginAt == "" {
		t.Error("TouchLogin should record a timestamp")
	}

	missing, err := s.UserByEmail(ctx, "nobody@example.com")
	if err != nil || missing != nil {
		t.Errorf("missing user = (%v, %v), want (nil, nil)", missing, err)
	}
}

func TestAlertFilters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, a := range []domain.AlertItem{
		testAlert("NVDA", 90),
		testAlert("AMD", 70),
		testAlert("TSLA", 50),
	} {
		if _, err := s.InsertAlert(ctx, a); err != nil {
			t.Fatalf("inserting alert: %v", err)
		}
	}
	put := testAlert("NVDA", 60)
	put.OptType = "P"
	put.ContractKey = domain.MakeContractKey("NVDA", put.Exp, 180, "P")
	if _, err := s.InsertAlert(ctx, put); err != nil {
		t.Fatalf("inserting alert: %v", err)
	}

	// Symbol filter is case-insensitive containment.
	got, err := s.Alerts(ctx, AlertFilter{Symbol: "nv"})
	if err != nil {
		t.Fatalf("querying alerts: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("symbol filter matched %d rows, want 2", len(got))
	}
	for _, a := range got {
		if a.Ticker != "NVDA" {
			t.Errorf("unexpected ticker %s", a.Ticker)
		}
	}

	// Type filter accepts free-form input.
	got, _ = s.Alerts(ctx, AlertFilter{OptType: "puts"})
	if len(got) != 1 || got[0].OptType != "P" {
		t.Errorf("type filter = %v, want one put", got)
	}

	// Default order is newest first.
	got, _ = s.Alerts(ctx, AlertFilter{})
	if len(got) != 4 || got[0].OptType != "P" {
		t.Errorf("default order should be insertion-descending, got %v", got)
	}

	// Score sort descending is non-increasing.
	got, _ = s.Alerts(ctx, AlertFilter{SortScore: "desc"})
	for i := 1; i < len(got); i++ {
		if got[i].ScoreTotal > got[i-1].ScoreTotal {
			t.Fatalf("desc sort violated at %d: %v > %v", i, got[i].ScoreTotal, got[i-1].ScoreTotal)
		}
	}

	got, _ = s.Alerts(ctx, AlertFilter{SortScore: "asc", Limit: 2})
	if len(got) != 2 || got[0].ScoreTotal > got[1].ScoreTotal {
		t.Errorf("asc sort with limit = %v", got)
	}
}

func TestRecentAlertsWindow(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	old := testAlert("OLD", 95)
	old.ObservedAt = time.Now().UTC().Add(-2 * time.Hour).Format(time.RFC3339)
	fresh := testAlert("NEW", 40)

	s.InsertAlert(ctx, old)
	s.InsertAlert(ctx, fresh)

	got, err := s.RecentAlerts(ctx, time.Now().UTC().Add(-15*time.Minute), 10)
	if err != nil {
		t.Fatalf("querying recent: %v", err)
	}
	if len(got) != 1 || got[0].Ticker != "NEW" {
		t.Errorf("recent window = %v, want only the fresh alert", got)
	}
}

func TestMonitorAndWatchlist(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	key := domain.MakeContractKey("NVDA", "2026-03-20", 190, "C")
	m := domain.MonitorItem{
		ContractKey:  key,
		Ticker:       "NVDA",
		Exp:          "2026-03-20",
		Strike:       190,
		OptType:      "C",
		EntryScore:   75,
		CurrentScore: 75,
		PeakScore:    75,
		ScoreHistory: []float64{75},
		Status:       domain.StatusMonitor,
	}
	if err := s.SaveMonitor(ctx, m); err != nil {
		t.Fatalf("saving monitor: %v", err)
	}

	// Not watched yet: the monitor listing is empty.
	list, err := s.Monitors(ctx, 10)
	if err != nil {
		t.Fatalf("querying monitors: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("unwatched monitor should not be listed, got %v", list)
	}

	if err := s.SetWatch(ctx, key, "ops@example.com", true); err != nil {
		t.Fatalf("watching: %v", err)
	}
	list, _ = s.Monitors(ctx, 10)
	if len(list) != 1 {
		t.Fatalf("monitor listing = %d rows, want 1", len(list))
	}
	if list[0].DeltaFromPeak != 0 {
		t.Errorf("delta = %v, want 0 at entry", list[0].DeltaFromPeak)
	}

	// Update the walk: current below peak yields a negative delta.
	m.CurrentScore = 70
	m.PeakScore = 82
	m.ScoreHistory = []float64{75, 82, 70}
	m.Status = domain.StatusMonitor
	if err := s.SaveMonitor(ctx, m); err != nil {
		t.Fatalf("updating monitor: %v", err)
	}
	got, err := s.MonitorByKey(ctx, key)
	if err != nil {
		t.Fatalf("querying monitor: %v", err)
	}
	if got.DeltaFromPeak != -12 {
		t.Errorf("delta = %v, want -12", got.DeltaFromPeak)
	}
	if len(got.ScoreHistory) != 3 {
		t.Errorf("history = %v, want 3 samples", got.ScoreHistory)
	}

	// Entry score survives updates.
	if got.EntryScore != 75 {
		t.Errorf("entry score = %v, want 75", got.EntryScore)
	}

	// Unwatching hides the row but keeps it for a later re-watch.
	s.SetWatch(ctx, key, "ops@example.com", false)
	list, _ = s.Monitors(ctx, 10)
	if len(list) != 0 {
		t.Error("unwatched monitor should disappear from the listing")
	}
	if row, _ := s.MonitorByKey(ctx, key); row == nil {
		t.Error("monitor row should survive unwatching")
	}

	keys, _ := s.WatchedKeys(ctx)
	if keys[key] {
		t.Error("watched keys must not include deactivated entries")
	}
}
