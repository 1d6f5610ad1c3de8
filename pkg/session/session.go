package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidSession = errors.New("invalid or expired session")

// ContextKey holds the verified *Claims on the gin context.
const ContextKey = "session"

// Claims carries the identity in Subject and the session id in ID.
type Claims struct {
	Remember bool `json:"remember"`
	jwt.RegisteredClaims
}

type Options struct {
	Secret      string
	CookieName  string
	Secure      bool
	TTL         time.Duration
	RememberTTL time.Duration
}

// Manager issues, verifies and revokes signed session tokens. With nil
// revocations Revoke is a no-op and tokens live until expiry.
type Manager struct {
	opts        Options
	revocations Revocations
	now         func() time.Time
}

func NewManager(opts Options, revocations Revocations) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "coursematch_session"
	}
	return &Manager{opts: opts, revocations: revocations, now: time.Now}
}

func (m *Manager) CookieName() string {
	return m.opts.CookieName
}

// Issue signs a new session for userID. Remembered sessions use the long TTL.
func (m *Manager) Issue(userID uuid.UUID, remember bool) (string, *Claims, error) {
	ttl := m.opts.TTL
	if remember {
		ttl = m.opts.RememberTTL
	}
	now := m.now()

	claims := &Claims{
		Remember: remember,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.opts.Secret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, claims, nil
}

// Parse verifies the signature and expiry, then checks the revocation list.
func (m *Manager) Parse(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.opts.Secret), nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, ErrInvalidSession
	}

	if m.revocations != nil && claims.ID != "" {
		revoked, err := m.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check session revocation: %w", err)
		}
		if revoked {
			return nil, ErrInvalidSession
		}
	}

	return claims, nil
}

// Revoke blacklists the session id for the rest of its lifetime.
func (m *Manager) Revoke(ctx context.Context, claims *Claims) error {
	if m.revocations == nil || claims == nil || claims.ID == "" {
		return nil
	}

	expiresAt := m.now().Add(time.Minute)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := m.revocations.Revoke(ctx, claims.ID, expiresAt); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// WriteCookie stores the token in an HTTP-only cookie. Non-remembered
// sessions get a browser-session cookie.
func (m *Manager) WriteCookie(c *gin.Context, token string, claims *Claims) {
	maxAge := 0
	if claims.Remember {
		maxAge = int(m.opts.RememberTTL.Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.opts.CookieName, token, maxAge, "/", "", m.opts.Secure, true)
}

func (m *Manager) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.opts.CookieName, "", -1, "/", "", m.opts.Secure, true)
}

// FromContext returns the claims stored by the auth middleware.
func FromContext(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(ContextKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok && claims != nil
}
