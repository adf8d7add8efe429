package session

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func tempCredPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "credential")
}

func TestStartEnd(t *testing.T) {
	path := tempCredPath(t)
	g := NewGuard(path)

	if g.HasSession() {
		t.Fatal("fresh guard should have no session")
	}
	if err := g.Start("tok-1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !g.HasSession() || g.Token() != "tok-1" {
		t.Fatal("session not stored")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("credential file not written: %v", err)
	}

	if !g.End() {
		t.Fatal("first End should perform the termination")
	}
	if g.HasSession() {
		t.Fatal("session should be cleared after End")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("credential file should be removed after End")
	}
	if g.End() {
		t.Error("second End should be a no-op")
	}
}

func TestEndExactlyOnceConcurrent(t *testing.T) {
	g := NewGuard(tempCredPath(t))
	if err := g.Start("tok"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	const callers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	performed := 0
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.End() {
				mu.Lock()
				performed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if performed != 1 {
		t.Errorf("End performed %d times, want exactly 1", performed)
	}
}

func TestReloadFromFile(t *testing.T) {
	path := tempCredPath(t)
	if err := NewGuard(path).Start("persisted"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	g := NewGuard(path)
	if g.Token() != "persisted" {
		t.Errorf("Token() = %q, want reloaded credential", g.Token())
	}
}

func TestClaims(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "admin@alpha-sentinel.local",
		"role": "sentinel",
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}

	g := NewGuard(tempCredPath(t))
	if err := g.Start(tok); err != nil {
		t.Fatalf("Start: %v", err)
	}
	c := g.Claims()
	if c.Subject != "admin@alpha-sentinel.local" {
		t.Errorf("Subject = %q", c.Subject)
	}
	if c.Role != "sentinel" {
		t.Errorf("Role = %q", c.Role)
	}

	// Garbage tokens decode to zero claims, never an error state.
	if err := g.Start("not-a-jwt"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if c := g.Claims(); c != (Claims{}) {
		t.Errorf("Claims() on garbage token = %+v, want zero", c)
	}
}
