package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"sentinel/internal/domain"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface checks.
var _ UserStore = (*SQLiteStore)(nil)
var _ AlertStore = (*SQLiteStore)(nil)
var _ MonitorStore = (*SQLiteStore)(nil)

// SQLiteStore implements UserStore, AlertStore, and MonitorStore backed by
// a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  email TEXT UNIQUE NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT NOT NULL,
  last_login_at TEXT
);

CREATE TABLE IF NOT EXISTS alerts (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  contract_key TEXT NOT NULL,
  ts TEXT NOT NULL,
  ingested_at TEXT NOT NULL,
  ticker TEXT NOT NULL,
  exp TEXT NOT NULL,
  strike REAL NOT NULL,
  opt_type TEXT NOT NULL,
  dte INTEGER,
  premium REAL,
  size INTEGER,
  volume INTEGER,
  oi INTEGER,
  spread_pct REAL,
  otm_pct REAL,
  spot REAL,
  score_total REAL NOT NULL,
  tags TEXT
);
CREATE INDEX IF NOT EXISTS idx_alerts_ts ON alerts(ts);
CREATE INDEX IF NOT EXISTS idx_alerts_ticker ON alerts(ticker);
CREATE INDEX IF NOT EXISTS idx_alerts_contract_key ON alerts(contract_key);

CREATE TABLE IF NOT EXISTS monitor (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  contract_key TEXT UNIQUE NOT NULL,
  ticker TEXT NOT NULL,
  exp TEXT NOT NULL,
  strike REAL NOT NULL,
  opt_type TEXT NOT NULL,
  entry_score REAL NOT NULL,
  current_score REAL NOT NULL,
  peak_score REAL NOT NULL,
  score_history TEXT NOT NULL,
  status TEXT NOT NULL,
  last_update_ts TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS watchlist (
  contract_key TEXT PRIMARY KEY,
  added_by TEXT,
  created_at TEXT,
  is_active INTEGER DEFAULT 1
);
`

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, applies
// the schema, and returns a ready-to-use store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// modernc.org/sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under the replay worker.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// ---------------------------------------------------------------------------
// UserStore implementation
// ---------------------------------------------------------------------------

// CreateUser inserts a new active account.
func (s *SQLiteStore) CreateUser(ctx context.Context, email, passwordHash, role string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, role, is_active, created_at) VALUES (?, ?, ?, 1, ?)`,
		strings.ToLower(email), passwordHash, role, nowISO())
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// UserByEmail returns the account for an email, or (nil, nil) if absent.
func (s *SQLiteStore) UserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, role, is_active, created_at, COALESCE(last_login_at, '')
		 FROM users WHERE email = ?`, strings.ToLower(email))
	var u User
	var active int
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &active, &u.CreatedAt, &u.LastLoginAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	u.IsActive = active != 0
	return &u, nil
}

// UpdateUserCredentials resets an account's password hash and role and
// reactivates it. Used by the admin bootstrap so config wins over the DB.
func (s *SQLiteStore) UpdateUserCredentials(ctx context.Context, email, passwordHash, role string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, role = ?, is_active = 1 WHERE email = ?`,
		passwordHash, role, strings.ToLower(email))
	if err != nil {
		return fmt.Errorf("updating user credentials: %w", err)
	}
	return nil
}

// TouchLogin records a successful sign-in.
func (s *SQLiteStore) TouchLogin(ctx context.Context, email string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = ? WHERE email = ?`, nowISO(), strings.ToLower(email))
	return err
}

// ---------------------------------------------------------------------------
// AlertStore implementation
// ---------------------------------------------------------------------------

const alertColumns = `contract_key, ts, ingested_at, ticker, exp, strike, opt_type,
	dte, premium, size, volume, oi, spread_pct, otm_pct, spot, score_total, tags`

// InsertAlert archives one alert and returns its row ID.
func (s *SQLiteStore) InsertAlert(ctx context.Context, a domain.AlertItem) (int64, error) {
	if a.IngestedAt == "" {
		a.IngestedAt = nowISO()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO alerts (`+alertColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		a.ContractKey, a.ObservedAt, a.IngestedAt, a.Ticker, a.Exp, a.Strike, a.OptType,
		a.DTE, a.Premium, a.Size, a.Volume, a.OpenInterest, a.SpreadPct, a.OTMPct,
		a.Spot, a.ScoreTotal, a.Tags)
	if err != nil {
		return 0, fmt.Errorf("inserting alert: %w", err)
	}
	return res.LastInsertId()
}

func scanAlerts(rows *sql.Rows) ([]domain.AlertItem, error) {
	var out []domain.AlertItem
	for rows.Next() {
		var a domain.AlertItem
		err := rows.Scan(&a.ContractKey, &a.ObservedAt, &a.IngestedAt, &a.Ticker, &a.Exp,
			&a.Strike, &a.OptType, &a.DTE, &a.Premium, &a.Size, &a.Volume, &a.OpenInterest,
			&a.SpreadPct, &a.OTMPct, &a.Spot, &a.ScoreTotal, &a.Tags)
		if err != nil {
			return nil, fmt.Errorf("scanning alert: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Alerts lists archived alerts under the given filter. The symbol filter is
// a case-insensitive containment match; the default order is newest first.
func (s *SQLiteStore) Alerts(ctx context.Context, f AlertFilter) ([]domain.AlertItem, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts`
	var conds []string
	var params []any

	if f.Symbol != "" {
		conds = append(conds, `ticker LIKE ?`)
		params = append(params, "%"+strings.ToUpper(strings.TrimSpace(f.Symbol))+"%")
	}
	if f.OptType != "" {
		conds = append(conds, `opt_type = ?`)
		params = append(params, domain.NormalizeOptType(f.OptType))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	switch strings.ToLower(f.SortScore) {
	case "desc":
		query += " ORDER BY score_total DESC"
	case "asc":
		query += " ORDER BY score_total ASC"
	default:
		query += " ORDER BY id DESC"
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	query += " LIMIT ?"
	params = append(params, limit)

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("querying alerts: %w", err)
	}
	defer rows.Close()
	return scanAlerts(rows)
}

// RecentAlerts returns the highest-scoring alerts observed at or after the
// cutoff.
func (s *SQLiteStore) RecentAlerts(ctx context.Context, cutoff time.Time, limit int) ([]domain.AlertItem, error) {
	if limit <= 0 {
		limit = 15
	}
	if limit > 100 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+alertColumns+` FROM alerts WHERE ts >= ? ORDER BY score_total DESC LIMIT ?`,
		cutoff.UTC().Format(time.RFC3339), limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent alerts: %w", err)
	}
	defer rows.Close()
	return scanAlerts(rows)
}

// LatestAlertByKey returns the most recent alert for a contract, or
// (nil, nil).
func (s *SQLiteStore) LatestAlertByKey(ctx context.Context, contractKey string) (*domain.AlertItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+alertColumns+` FROM alerts WHERE contract_key = ? ORDER BY id DESC LIMIT 1`,
		contractKey)
	if err != nil {
		return nil, fmt.Errorf("querying latest alert: %w", err)
	}
	defer rows.Close()
	items, err := scanAlerts(rows)
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return &items[0], nil
}

// CountAlerts returns the archive size.
func (s *SQLiteStore) CountAlerts(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM alerts`).Scan(&n)
	return n, err
}

// ---------------------------------------------------------------------------
// MonitorStore implementation
// ---------------------------------------------------------------------------

// SaveMonitor inserts or replaces the monitor row for a contract. The score
// history is stored as JSON.
func (s *SQLiteStore) SaveMonitor(ctx context.Context, m domain.MonitorItem) error {
	hist, err := json.Marshal(m.ScoreHistory)
	if err != nil {
		return fmt.Errorf("encoding score history: %w", err)
	}
	if m.LastUpdateAt == "" {
		m.LastUpdateAt = nowISO()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO monitor
		 (contract_key, ticker, exp, strike, opt_type, entry_score, current_score, peak_score, score_history, status, last_update_ts)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)
		 ON CONFLICT(contract_key) DO UPDATE SET
		   current_score = excluded.current_score,
		   peak_score = excluded.peak_score,
		   score_history = excluded.score_history,
		   status = excluded.status,
		   last_update_ts = excluded.last_update_ts`,
		m.ContractKey, m.Ticker, m.Exp, m.Strike, m.OptType,
		m.EntryScore, m.CurrentScore, m.PeakScore, string(hist), m.Status, m.LastUpdateAt)
	if err != nil {
		return fmt.Errorf("saving monitor: %w", err)
	}
	return nil
}

func scanMonitor(row interface{ Scan(...any) error }) (*domain.MonitorItem, error) {
	var m domain.MonitorItem
	var hist string
	err := row.Scan(&m.ContractKey, &m.Ticker, &m.Exp, &m.Strike, &m.OptType,
		&m.EntryScore, &m.CurrentScore, &m.PeakScore, &hist, &m.Status, &m.LastUpdateAt)
	if err != nil {
		return nil, err
	}
	// Corrupt history degrades to an empty series rather than failing the
	// whole listing.
	if json.Unmarshal([]byte(hist), &m.ScoreHistory) != nil {
		m.ScoreHistory = nil
	}
	m.DeltaFromPeak = round1(m.CurrentScore - m.PeakScore)
	return &m, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

const monitorColumns = `m.contract_key, m.ticker, m.exp, m.strike, m.opt_type,
	m.entry_score, m.current_score, m.peak_score, m.score_history, m.status, m.last_update_ts`

// MonitorByKey returns the monitor row for a contract, or (nil, nil).
func (s *SQLiteStore) MonitorByKey(ctx context.Context, contractKey string) (*domain.MonitorItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+monitorColumns+` FROM monitor m WHERE m.contract_key = ?`, contractKey)
	m, err := scanMonitor(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying monitor: %w", err)
	}
	return m, nil
}

// Monitors lists actively watched contracts ordered by current score.
func (s *SQLiteStore) Monitors(ctx context.Context, limit int) ([]domain.MonitorItem, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+monitorColumns+`
		 FROM monitor m
		 INNER JOIN watchlist w ON w.contract_key = m.contract_key
		 WHERE w.is_active = 1
		 ORDER BY m.current_score DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying monitors: %w", err)
	}
	defer rows.Close()

	var out []domain.MonitorItem
	for rows.Next() {
		m, err := scanMonitor(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning monitor: %w", err)
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// SetWatch upserts a watch-list entry. Deactivating keeps the row so the
// monitor history survives a re-watch.
func (s *SQLiteStore) SetWatch(ctx context.Context, contractKey, addedBy string, active bool) error {
	act := 0
	if active {
		act = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO watchlist (contract_key, added_by, created_at, is_active)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(contract_key) DO UPDATE SET is_active = excluded.is_active`,
		contractKey, addedBy, nowISO(), act)
	if err != nil {
		return fmt.Errorf("updating watchlist: %w", err)
	}
	return nil
}

// WatchedKeys returns the contract keys currently active on the watch-list.
func (s *SQLiteStore) WatchedKeys(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT contract_key FROM watchlist WHERE is_active = 1`)
	if err != nil {
		return nil, fmt.Errorf("querying watchlist: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]bool)
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys[k] = true
	}
	return keys, rows.Err()
}
