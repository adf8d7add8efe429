// Package session owns the client-side credential lifecycle: storage of the
// opaque bearer token, page gating, and the single-shot logout path taken
// when the backend rejects the credential.
package session

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the client-decodable (not client-verified) token claims, used
// only for greeting text. Authorization stays server-side.
type Claims struct {
	Subject string
	Role    string
}

// Guard stores the session credential. The token file is the only durable
// client-side state. All methods are safe for concurrent use; End is
// idempotent so overlapping 401s terminate the session exactly once.
type Guard struct {
	path string

	mu    sync.Mutex
	token string
	ended bool // set once per credential by End, cleared by Start
}

// NewGuard creates a guard backed by the credential file at path. An
// existing credential is loaded; a missing or unreadable file simply means
// no session.
func NewGuard(path string) *Guard {
	g := &Guard{path: path}
	if data, err := os.ReadFile(path); err == nil {
		g.token = strings.TrimSpace(string(data))
	}
	return g
}

// HasSession reports whether a credential is currently stored.
func (g *Guard) HasSession() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token != ""
}

// Token returns the stored credential, or "" when logged out. Writes made
// by Start/End are visible to the next call.
func (g *Guard) Token() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token
}

// Start stores a fresh credential and persists it (0600).
func (g *Guard) Start(token string) error {
	g.mu.Lock()
	g.token = token
	g.ended = false
	g.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(g.path), 0700); err != nil {
		return err
	}
	return os.WriteFile(g.path, []byte(token), 0600)
}

// End clears the credential and removes the token file. Calling End again
// before the next Start is a no-op, so concurrent rejections collapse to a
// single termination. It reports whether this call performed the
// termination.
func (g *Guard) End() bool {
	g.mu.Lock()
	if g.ended || g.token == "" {
		g.mu.Unlock()
		return false
	}
	g.token = ""
	g.ended = true
	g.mu.Unlock()

	os.Remove(g.path)
	return true
}

// Invalidate is the API layer's rejection hook.
func (g *Guard) Invalidate() {
	g.End()
}

// Claims decodes the subject and role claims from the stored token without
// verifying the signature. A missing or malformed token yields zero claims.
func (g *Guard) Claims() Claims {
	tok := g.Token()
	if tok == "" {
		return Claims{}
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(tok, jwt.MapClaims{})
	if err != nil {
		return Claims{}
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}
	}
	var c Claims
	c.Subject, _ = mc.GetSubject()
	if role, ok := mc["role"].(string); ok {
		c.Role = role
	}
	return c
}
