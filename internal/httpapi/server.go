// Package httpapi is the sentinel backend: the REST surface the terminal
// client polls, plus the replay worker that keeps the alert archive and
// monitor scores moving.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"sentinel/internal/config"
	"sentinel/internal/domain"
	"sentinel/internal/store"
)

// Server serves the sentinel HTTP API.
type Server struct {
	cfg    *config.Config
	store  *store.SQLiteStore
	worker *Worker
	log    *slog.Logger
}

// NewServer creates the API server over an opened store. worker may be nil
// in tests that exercise the REST surface alone.
func NewServer(cfg *config.Config, st *store.SQLiteStore, worker *Worker, log *slog.Logger) *Server {
	return &Server{cfg: cfg, store: st, worker: worker, log: log}
}

// Bootstrap upserts the admin account so the configured credentials always
// win over whatever an older database holds.
func (s *Server) Bootstrap(ctx context.Context) error {
	hash, err := HashPassword(s.cfg.Server.AdminPassword)
	if err != nil {
		return err
	}
	u, err := s.store.UserByEmail(ctx, s.cfg.Server.AdminEmail)
	if err != nil {
		return err
	}
	if u == nil {
		return s.store.CreateUser(ctx, s.cfg.Server.AdminEmail, hash, s.cfg.Server.AdminRole)
	}
	return s.store.UpdateUserCredentials(ctx, s.cfg.Server.AdminEmail, hash, s.cfg.Server.AdminRole)
}

// RegisterRoutes registers all API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/alerts", s.requireUser(s.handleAlerts))
	mux.HandleFunc("GET /api/alerts/recent", s.requireUser(s.handleRecentAlerts))
	mux.HandleFunc("GET /api/monitors", s.requireUser(s.handleMonitors))
	mux.HandleFunc("POST /api/watchlist/toggle", s.requireRole(s.handleToggleWatch, "sentinel"))
	mux.HandleFunc("GET /api/uw/status", s.requireUser(s.handleUWStatus))
	mux.HandleFunc("GET /api/uw/tide/latest", s.requireUser(s.handleTideLatest))
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return s.logMiddleware(mux)
}

// logMiddleware tags every request with an ID and logs its outcome.
func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		start := time.Now()
		lw := &loggingWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(lw, r)
		s.log.Info("request",
			"id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", lw.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

type loggingWriter struct {
	http.ResponseWriter
	status int
}

func (w *loggingWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"ok": false, "detail": detail})
}

// listResponse is the shared envelope for collection endpoints. Items is
// always an array, never null.
type listResponse struct {
	OK    bool `json:"ok"`
	Items any  `json:"items"`
}

func writeItems[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	writeJSON(w, listResponse{OK: true, Items: items})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"ok": true, "ts": time.Now().UTC().Format(time.RFC3339)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	u, err := s.store.UserByEmail(r.Context(), strings.TrimSpace(body.Email))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Lookup failed")
		return
	}
	if u == nil || !u.IsActive || !VerifyPassword(body.Password, u.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := s.issueToken(u.Email, u.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Token issue failed")
		return
	}
	if err := s.store.TouchLogin(r.Context(), u.Email); err != nil {
		s.log.Warn("recording login time", "error", err)
	}
	writeJSON(w, map[string]any{"ok": true, "token": token, "email": u.Email, "role": u.Role})
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	items, err := s.store.Alerts(r.Context(), store.AlertFilter{
		Symbol:    q.Get("symbol"),
		OptType:   q.Get("type"),
		SortScore: q.Get("sort_score"),
		Limit:     limit,
	})
	if err != nil {
		s.log.Error("listing alerts", "error", err)
		writeError(w, http.StatusInternalServerError, "Query failed")
		return
	}
	s.annotateWatched(r.Context(), items)
	writeItems(w, items)
}

func (s *Server) handleRecentAlerts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	windowSec, _ := strconv.Atoi(q.Get("window_sec"))
	if windowSec <= 0 {
		windowSec = 900
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	cutoff := time.Now().UTC().Add(-time.Duration(windowSec) * time.Second)

	items, err := s.store.RecentAlerts(r.Context(), cutoff, limit)
	if err != nil {
		s.log.Error("listing recent alerts", "error", err)
		writeError(w, http.StatusInternalServerError, "Query failed")
		return
	}
	s.annotateWatched(r.Context(), items)
	writeItems(w, items)
}

// annotateWatched stamps is_watched from the current watch-list.
func (s *Server) annotateWatched(ctx context.Context, items []domain.AlertItem) {
	if len(items) == 0 {
		return
	}
	watched, err := s.store.WatchedKeys(ctx)
	if err != nil {
		s.log.Warn("loading watch-list", "error", err)
		return
	}
	for i := range items {
		items[i].IsWatched = watched[items[i].ContractKey]
	}
}

func (s *Server) handleMonitors(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.Monitors(r.Context(), s.cfg.Server.MonitorMax)
	if err != nil {
		s.log.Error("listing monitors", "error", err)
		writeError(w, http.StatusInternalServerError, "Query failed")
		return
	}
	writeItems(w, items)
}

func (s *Server) handleToggleWatch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ContractKey string `json:"contract_key"`
		IsActive    int    `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if body.ContractKey == "" {
		writeError(w, http.StatusBadRequest, "contract_key required")
		return
	}
	if body.IsActive != 0 && body.IsActive != 1 {
		writeError(w, http.StatusBadRequest, "is_active must be 0 or 1")
		return
	}

	active := body.IsActive == 1
	addedBy := claimsFrom(r.Context()).Email
	if err := s.store.SetWatch(r.Context(), body.ContractKey, addedBy, active); err != nil {
		s.log.Error("toggling watch", "contract", body.ContractKey, "error", err)
		writeError(w, http.StatusInternalServerError, "Update failed")
		return
	}

	// Watching a contract seeds its monitor row from the latest archived
	// score so it shows up on the next monitors poll.
	if active {
		if err := s.ensureMonitor(r.Context(), body.ContractKey); err != nil {
			s.log.Warn("seeding monitor", "contract", body.ContractKey, "error", err)
		}
	}
	writeJSON(w, map[string]any{"ok": true, "contract_key": body.ContractKey, "is_active": body.IsActive})
}

// ensureMonitor creates a monitor row for a newly watched contract if none
// exists, seeded from its most recent alert.
func (s *Server) ensureMonitor(ctx context.Context, contractKey string) error {
	existing, err := s.store.MonitorByKey(ctx, contractKey)
	if err != nil || existing != nil {
		return err
	}
	a, err := s.store.LatestAlertByKey(ctx, contractKey)
	if err != nil {
		return err
	}
	seed := domain.MonitorItem{
		ContractKey:  contractKey,
		Status:       domain.StatusMonitor,
		LastUpdateAt: time.Now().UTC().Format(time.RFC3339),
	}
	if a != nil {
		seed.Ticker = a.Ticker
		seed.Exp = a.Exp
		seed.Strike = a.Strike
		seed.OptType = a.OptType
		seed.EntryScore = a.ScoreTotal
		seed.CurrentScore = a.ScoreTotal
		seed.PeakScore = a.ScoreTotal
		seed.ScoreHistory = []float64{a.ScoreTotal}
		seed.Status = statusFromScore(a.ScoreTotal)
	}
	return s.store.SaveMonitor(ctx, seed)
}

func (s *Server) handleUWStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"ok": true, "enabled": s.cfg.Server.UWEnabled})
}

func (s *Server) handleTideLatest(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.Server.UWEnabled || s.worker == nil {
		writeItems(w, []domain.TidePoint{})
		return
	}
	writeItems(w, s.worker.TideSeries())
}
