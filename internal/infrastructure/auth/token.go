// Package auth supplies the bearer token attached to workflow service
// requests. Tokens are issued by the workflow service itself; this
// package only inspects them, it never verifies signatures.
package auth

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/tustockya/transfers/internal/infrastructure/config"
)

// Common errors
var (
	ErrNoToken        = errors.New("no bearer token configured")
	ErrMalformedToken = errors.New("malformed bearer token")
	ErrExpiredToken   = errors.New("bearer token has expired")
)

// expiryLeeway treats tokens as expired slightly early so a request
// never leaves with a token about to lapse in flight.
const expiryLeeway = 30 * time.Second

// Claims carries the session claims the workflow service embeds in its
// tokens. Only the fields the agent displays are mapped.
type Claims struct {
	jwt.RegisteredClaims
	Role     string `json:"role"`
	Location string `json:"location"`
}

// Source yields bearer tokens for workflow requests. A static token is
// inspected once; a token file is re-read after the cached token
// expires, so an external refresher can rotate it in place.
type Source struct {
	static    string
	tokenFile string
	logger    *zap.Logger

	mu        sync.RWMutex
	cached    string
	claims    *Claims
	expiresAt time.Time
}

// NewSource creates a token source from configuration. A static token
// takes precedence over a token file.
func NewSource(cfg config.AuthConfig, logger *zap.Logger) (*Source, error) {
	if cfg.Token == "" && cfg.TokenFile == "" {
		return nil, ErrNoToken
	}

	s := &Source{
		static:    cfg.Token,
		tokenFile: cfg.TokenFile,
		logger:    logger,
	}

	if s.static != "" {
		claims, expiresAt, err := inspect(s.static)
		if err != nil {
			return nil, err
		}
		s.cached = s.static
		s.claims = claims
		s.expiresAt = expiresAt
	}

	return s, nil
}

// Token returns the current bearer token. Expired tokens are never
// handed out; callers surface the error instead of sending a request
// the workflow service will reject.
func (s *Source) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	token, expiresAt := s.cached, s.expiresAt
	s.mu.RUnlock()

	if token != "" && !expired(expiresAt, time.Now()) {
		return token, nil
	}

	if s.static != "" {
		return "", ErrExpiredToken
	}

	return s.reload()
}

// Claims returns the claims of the current token, or nil if none has
// been loaded yet.
func (s *Source) Claims() *Claims {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.claims
}

// reload re-reads the token file and caches the result
func (s *Source) reload() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Another caller may have reloaded while we waited for the lock
	if s.cached != "" && !expired(s.expiresAt, time.Now()) {
		return s.cached, nil
	}

	raw, err := os.ReadFile(s.tokenFile)
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", ErrNoToken
	}

	claims, expiresAt, err := inspect(token)
	if err != nil {
		return "", err
	}
	if expired(expiresAt, time.Now()) {
		return "", ErrExpiredToken
	}

	s.cached = token
	s.claims = claims
	s.expiresAt = expiresAt
	s.logger.Debug("Bearer token loaded",
		zap.String("role", claims.Role),
		zap.Time("expires_at", expiresAt),
	)

	return token, nil
}

// inspect decodes the token without verifying its signature and
// extracts the claims and expiry.
func inspect(token string) (*Claims, time.Time, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, time.Time{}, ErrMalformedToken
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return claims, expiresAt, nil
}

// expired reports whether a token with the given expiry should no
// longer be used. A zero expiry means the token never expires.
func expired(expiresAt time.Time, now time.Time) bool {
	if expiresAt.IsZero() {
		return false
	}
	return !now.Add(expiryLeeway).Before(expiresAt)
}
