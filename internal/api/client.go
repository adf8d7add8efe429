// Package api wraps the sentinel backend's REST surface. It attaches the
// session credential, normalizes transport and status failures into plain
// errors for per-panel handling, and routes authentication rejections
// through the session guard's single-shot logout path.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"sentinel/internal/domain"
)

// ErrSessionExpired is returned when an authenticated call is rejected with
// 401. By the time a caller sees it the guard has already terminated the
// session; the caller must skip its UI update rather than render an error.
var ErrSessionExpired = errors.New("session expired")

// CredentialSource supplies the bearer token and receives rejection
// signals. *session.Guard implements it.
type CredentialSource interface {
	Token() string
	Invalidate()
}

// Client is the sentinel REST API client.
type Client struct {
	baseURL string
	http    *http.Client
	creds   CredentialSource
	log     *slog.Logger
}

// NewClient creates a client for the backend at baseURL. Every request
// carries the given timeout so a hung call can never block a later poll
// cycle's bookkeeping.
func NewClient(baseURL string, timeout time.Duration, creds CredentialSource, log *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		creds:   creds,
		log:     log,
	}
}

type listEnvelope[T any] struct {
	OK    bool `json:"ok"`
	Items []T  `json:"items"`
}

// do issues a request and decodes the JSON response into out. Authenticated
// requests rejected with 401 invalidate the session and return
// ErrSessionExpired; every other failure mode comes back as a plain error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	authed := path != "/api/auth/login"
	if authed {
		if tok := c.creds.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && authed {
		c.creds.Invalidate()
		c.log.Warn("credential rejected, session terminated", "path", path)
		return ErrSessionExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decoding response: %w", method, path, err)
	}
	return nil
}

// Health probes backend liveness. Unauthenticated in practice, but the
// token rides along harmlessly when present.
func (c *Client) Health(ctx context.Context) error {
	var resp struct {
		OK bool `json:"ok"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, nil, &resp); err != nil {
		return err
	}
	if !resp.OK {
		return errors.New("backend reports not ok")
	}
	return nil
}

// LoginResult carries the outcome of a login attempt. A rejected login is
// not a transport failure: OK is false and Detail holds the inline message.
type LoginResult struct {
	OK     bool   `json:"ok"`
	Token  string `json:"token"`
	Detail string `json:"detail"`
}

// Login obtains a session credential. It never triggers the guard's logout
// path: the login view handles its own failures inline.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	data, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return LoginResult{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", bytes.NewReader(data))
	if err != nil {
		return LoginResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return LoginResult{}, fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()

	var out LoginResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return LoginResult{}, fmt.Errorf("login: decoding response: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		out.OK = false
		if out.Detail == "" {
			out.Detail = "Invalid credentials"
		}
		return out, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return LoginResult{}, fmt.Errorf("login: status %d", resp.StatusCode)
	}
	return out, nil
}

// Alerts fetches the alert listing for the given filter state.
func (c *Client) Alerts(ctx context.Context, f domain.FilterState, limit int) ([]domain.AlertItem, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if f.Symbol != "" {
		q.Set("symbol", f.Symbol)
	}
	if v := f.TypeFilter.Param(); v != "" {
		q.Set("type", v)
	}
	if v := f.Sort.Param(); v != "" {
		q.Set("sort_score", v)
	}
	var resp listEnvelope[domain.AlertItem]
	if err := c.do(ctx, http.MethodGet, "/api/alerts", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// RecentAlerts fetches the recent significant alerts panel.
func (c *Client) RecentAlerts(ctx context.Context, window time.Duration, limit int) ([]domain.AlertItem, error) {
	q := url.Values{}
	q.Set("window_sec", strconv.Itoa(int(window.Seconds())))
	q.Set("limit", strconv.Itoa(limit))
	var resp listEnvelope[domain.AlertItem]
	if err := c.do(ctx, http.MethodGet, "/api/alerts/recent", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Monitors fetches the monitored contracts.
func (c *Client) Monitors(ctx context.Context) ([]domain.MonitorItem, error) {
	var resp listEnvelope[domain.MonitorItem]
	if err := c.do(ctx, http.MethodGet, "/api/monitors", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// ToggleWatch flips watch-list membership for a contract. Callers must
// follow up with a refresh of the dependent collection; the response body
// carries nothing the client uses.
func (c *Client) ToggleWatch(ctx context.Context, contractKey string, active bool) error {
	body := map[string]any{"contract_key": contractKey, "is_active": boolToInt(active)}
	return c.do(ctx, http.MethodPost, "/api/watchlist/toggle", nil, body, nil)
}

// MarketStatus reports whether the external market feed is enabled.
func (c *Client) MarketStatus(ctx context.Context) (bool, error) {
	var resp struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/uw/status", nil, nil, &resp); err != nil {
		return false, err
	}
	return resp.Enabled, nil
}

// TideLatest fetches the market-breadth series at the given interval.
func (c *Client) TideLatest(ctx context.Context, interval string) ([]domain.TidePoint, error) {
	q := url.Values{}
	q.Set("interval", interval)
	var resp listEnvelope[domain.TidePoint]
	if err := c.do(ctx, http.MethodGet, "/api/uw/tide/latest", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
