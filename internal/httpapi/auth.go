package httpapi

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/pbkdf2"
)

// Password hashing settings. The stored format is
// pbkdf2$<iterations>$<salt_b64>$<dk_b64>.
const (
	pbkdf2Iterations = 200_000
	saltBytes        = 16
	keyBytes         = 32
)

// HashPassword derives a salted PBKDF2-SHA256 hash for storage.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	dk := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, keyBytes, sha256.New)
	return fmt.Sprintf("pbkdf2$%d$%s$%s",
		pbkdf2Iterations,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(dk)), nil
}

// VerifyPassword checks a password against a stored hash in constant time.
// Any malformed stored value verifies as false.
func VerifyPassword(password, stored string) bool {
	parts := strings.SplitN(stored, "$", 4)
	if len(parts) != 4 || parts[0] != "pbkdf2" {
		return false
	}
	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return false
	}
	salt, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return false
	}
	want, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil {
		return false
	}
	got := pbkdf2.Key([]byte(password), salt, iterations, len(want), sha256.New)
	return hmac.Equal(got, want)
}

// tokenClaims is what a session credential carries.
type tokenClaims struct {
	Email string
	Role  string
}

// issueToken mints an HS256 session token.
func (s *Server) issueToken(email, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  email,
		"role": role,
		"exp":  time.Now().Add(time.Duration(s.cfg.Server.JWTExpireMinutes) * time.Minute).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Server.JWTSecret))
}

// decodeToken verifies a session token and extracts its claims.
func (s *Server) decodeToken(token string) (*tokenClaims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.Server.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type %T", parsed.Claims)
	}
	sub, _ := mc.GetSubject()
	role, _ := mc["role"].(string)
	return &tokenClaims{Email: sub, Role: role}, nil
}

type claimsKey struct{}

// claimsFrom returns the authenticated caller's claims, set by requireUser.
func claimsFrom(ctx context.Context) *tokenClaims {
	c, _ := ctx.Value(claimsKey{}).(*tokenClaims)
	return c
}

// requireUser rejects requests without a valid bearer token.
func (s *Server) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(strings.ToLower(auth), "bearer ") {
			writeError(w, http.StatusUnauthorized, "Missing bearer token")
			return
		}
		claims, err := s.decodeToken(strings.TrimSpace(auth[len("bearer "):]))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	}
}

// requireRole additionally restricts a handler to the given roles.
func (s *Server) requireRole(next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return s.requireUser(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFrom(r.Context())
		for _, role := range roles {
			if claims.Role == role {
				next(w, r)
				return
			}
		}
		writeError(w, http.StatusForbidden, "Forbidden")
	})
}
