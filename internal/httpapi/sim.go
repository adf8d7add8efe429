package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"time"

	"sentinel/internal/config"
	"sentinel/internal/domain"
	"sentinel/internal/store"
)

// History cap for monitor score walks.
const historyCap = 40

// statusFromScore buckets a monitor score into its display status.
func statusFromScore(s float64) string {
	switch {
	case s >= 80:
		return domain.StatusStrong
	case s >= 70:
		return domain.StatusMonitor
	case s >= 60:
		return domain.StatusWeakening
	case s >= 50:
		return domain.StatusHighRisk
	default:
		return domain.StatusExitZone
	}
}

// bumpScore advances a monitor score one step: a small random walk with
// mild mean reversion toward 72, clamped to [0, 100].
func bumpScore(prev float64, rng *rand.Rand) float64 {
	drift := (72 - prev) * 0.02
	step := rng.Float64()*4.4 - 2.2 + drift
	next := prev + step
	if next < 0 {
		next = 0
	}
	if next > 100 {
		next = 100
	}
	return math.Round(next*10) / 10
}

// Worker is the replay loop that keeps the backend alive without a real
// market feed: it emits archived alerts with fresh timestamps, walks the
// monitor scores, and maintains the market-tide series.
type Worker struct {
	cfg   *config.Config
	store *store.SQLiteStore
	log   *slog.Logger
	rng   *rand.Rand

	seed []domain.AlertItem
	next int

	mu        sync.Mutex
	tide      []domain.TidePoint
	tideLevel float64
}

// NewWorker creates a replay worker over an opened store.
func NewWorker(cfg *config.Config, st *store.SQLiteStore, log *slog.Logger) *Worker {
	return &Worker{
		cfg:       cfg,
		store:     st,
		log:       log,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		tideLevel: 0.5,
	}
}

// Seed fills the archive with generated alerts when it is empty, and loads
// the replay source either way.
func (w *Worker) Seed(ctx context.Context) error {
	n, err := w.store.CountAlerts(ctx)
	if err != nil {
		return fmt.Errorf("counting alerts: %w", err)
	}
	if n == 0 {
		target := w.cfg.Sim.SeedAlerts
		if target <= 0 {
			target = 200
		}
		for i := 0; i < target; i++ {
			if _, err := w.store.InsertAlert(ctx, w.generateAlert()); err != nil {
				return fmt.Errorf("seeding alerts: %w", err)
			}
		}
		w.log.Info("seeded alert archive", "alerts", target)
	}

	src, err := w.store.Alerts(ctx, store.AlertFilter{Limit: 500})
	if err != nil {
		return fmt.Errorf("loading replay source: %w", err)
	}
	w.seed = src
	w.log.Info("replay source loaded", "rows", len(src))
	return nil
}

var simTickers = []string{
	"NVDA", "TSLA", "AAPL", "AMD", "MSFT", "META", "AMZN", "GOOG",
	"SPY", "QQQ", "COIN", "PLTR", "SMCI", "AVGO", "NFLX", "MU",
}

var simTags = []string{"sweep", "block", "otm", "opening", "repeat", "unusual_vol"}

// generateAlert fabricates one plausible flow alert.
func (w *Worker) generateAlert() domain.AlertItem {
	now := time.Now().UTC()
	ticker := simTickers[w.rng.Intn(len(simTickers))]
	optType := domain.OptionCall
	if w.rng.Float64() < 0.42 {
		optType = domain.OptionPut
	}
	dte := 7 + w.rng.Intn(90)
	exp := now.AddDate(0, 0, dte).Format("2006-01-02")
	spot := 50 + w.rng.Float64()*450
	otm := w.rng.Float64() * 0.15
	strike := spot * (1 + otm)
	if optType == domain.OptionPut {
		strike = spot * (1 - otm)
	}
	strike = math.Round(strike/2.5) * 2.5
	volume := int64(500 + w.rng.Intn(20000))
	oi := int64(w.rng.Intn(15000)) // zero OI happens and must be survivable
	premium := 50_000 + w.rng.Float64()*4_000_000

	score := 30 + w.rng.Float64()*70
	tags := simTags[w.rng.Intn(len(simTags))]
	if score > 80 {
		tags += "," + simTags[w.rng.Intn(len(simTags))]
	}

	return domain.AlertItem{
		ContractKey:  domain.MakeContractKey(ticker, exp, strike, optType),
		Ticker:       ticker,
		OptType:      optType,
		Strike:       strike,
		Exp:          exp,
		DTE:          dte,
		Premium:      math.Round(premium),
		Size:         volume / 4,
		Volume:       volume,
		OpenInterest: oi,
		SpreadPct:    math.Round(w.rng.Float64()*500) / 10000,
		OTMPct:       math.Round(otm*1000) / 1000,
		Spot:         math.Round(spot*100) / 100,
		ScoreTotal:   math.Round(score*10) / 10,
		Tags:         tags,
		ObservedAt:   now.Format(time.RFC3339),
		IngestedAt:   now.Format(time.RFC3339),
	}
}

// Run drives the replay loop until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	interval := time.Duration(w.cfg.Sim.IntervalSec * float64(time.Second))
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.log.Info("replay worker started", "interval", interval, "per_tick", w.cfg.Sim.SpeedPerTick)
	for {
		select {
		case <-ctx.Done():
			w.log.Info("replay worker stopped")
			return
		case <-ticker.C:
			if err := w.tick(ctx); err != nil && ctx.Err() == nil {
				w.log.Warn("replay tick failed", "error", err)
			}
		}
	}
}

// tick emits the next batch of replayed alerts, advances every monitored
// contract's score walk, and appends a tide sample.
func (w *Worker) tick(ctx context.Context) error {
	per := w.cfg.Sim.SpeedPerTick
	if per <= 0 {
		per = 1
	}
	now := time.Now().UTC().Format(time.RFC3339)
	for i := 0; i < per; i++ {
		a := w.nextAlert()
		a.ObservedAt = now
		a.IngestedAt = now
		if _, err := w.store.InsertAlert(ctx, a); err != nil {
			return err
		}
	}
	if err := w.walkMonitors(ctx); err != nil {
		return err
	}
	w.pushTide()
	return nil
}

// nextAlert replays the seed set in order, looping at the end.
func (w *Worker) nextAlert() domain.AlertItem {
	if len(w.seed) == 0 {
		return w.generateAlert()
	}
	a := w.seed[w.next]
	w.next = (w.next + 1) % len(w.seed)
	return a
}

// walkMonitors advances the score walk of every actively watched contract.
func (w *Worker) walkMonitors(ctx context.Context) error {
	watched, err := w.store.WatchedKeys(ctx)
	if err != nil {
		return err
	}
	nowISO := time.Now().UTC().Format(time.RFC3339)
	for key := range watched {
		m, err := w.store.MonitorByKey(ctx, key)
		if err != nil {
			return err
		}
		if m == nil {
			continue
		}
		next := bumpScore(m.CurrentScore, w.rng)
		m.CurrentScore = next
		if next > m.PeakScore {
			m.PeakScore = next
		}
		m.ScoreHistory = append(m.ScoreHistory, next)
		if len(m.ScoreHistory) > historyCap {
			m.ScoreHistory = m.ScoreHistory[len(m.ScoreHistory)-historyCap:]
		}
		m.Status = statusFromScore(next)
		m.LastUpdateAt = nowISO
		if err := w.store.SaveMonitor(ctx, *m); err != nil {
			return err
		}
	}
	return nil
}

// pushTide appends one sample to the in-memory market-tide series.
func (w *Worker) pushTide() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.tideLevel += w.rng.Float64()*0.12 - 0.06 + (0.5-w.tideLevel)*0.05
	if w.tideLevel < 0 {
		w.tideLevel = 0
	}
	if w.tideLevel > 1 {
		w.tideLevel = 1
	}
	w.tide = append(w.tide, domain.TidePoint{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Value:     math.Round(w.tideLevel*1000) / 1000,
	})
	if len(w.tide) > historyCap {
		w.tide = w.tide[len(w.tide)-historyCap:]
	}
}

// TideSeries returns a copy of the current tide window.
func (w *Worker) TideSeries() []domain.TidePoint {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]domain.TidePoint, len(w.tide))
	copy(out, w.tide)
	return out
}
