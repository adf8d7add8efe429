// Package store persists sentinel's server-side state: user accounts,
// the alert archive, monitored contracts, and the watch-list. Backed by a
// SQLite database.
package store

import (
	"context"
	"time"

	"sentinel/internal/domain"
)

// User is an account row. PasswordHash is a PBKDF2 string in the form
// pbkdf2$<iterations>$<salt_b64>$<dk_b64>.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    string
	LastLoginAt  string
}

// AlertFilter narrows the alert listing. Zero values mean "no constraint".
type AlertFilter struct {
	Symbol    string // case-insensitive substring match on ticker
	OptType   string // C or P
	SortScore string // "desc", "asc", or "" for insertion order (newest first)
	Limit     int
}

// UserStore manages accounts.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash, role string) error
	UserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUserCredentials(ctx context.Context, email, passwordHash, role string) error
	TouchLogin(ctx context.Context, email string) error
}

// AlertStore manages the alert archive.
type AlertStore interface {
	InsertAlert(ctx context.Context, a domain.AlertItem) (int64, error)
	Alerts(ctx context.Context, f AlertFilter) ([]domain.AlertItem, error)
	RecentAlerts(ctx context.Context, cutoff time.Time, limit int) ([]domain.AlertItem, error)
	LatestAlertByKey(ctx context.Context, contractKey string) (*domain.AlertItem, error)
	CountAlerts(ctx context.Context) (int, error)
}

// MonitorStore manages monitored contracts and the watch-list.
type MonitorStore interface {
	SaveMonitor(ctx context.Context, m domain.MonitorItem) error
	MonitorByKey(ctx context.Context, contractKey string) (*domain.MonitorItem, error)
	Monitors(ctx context.Context, limit int) ([]domain.MonitorItem, error)
	SetWatch(ctx context.Context, contractKey, addedBy string, active bool) error
	WatchedKeys(ctx context.Context) (map[string]bool, error)
}
