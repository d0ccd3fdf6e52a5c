// Package session implements the signed session token carrier.
//
// A session is a tamper-evident JWT (HS256) binding a request to a user id,
// with email and username denormalized into the claims so display does not
// need a user-store join. The token itself is opaque to every other package.
// Revocation state lives in Redis: individual tokens are denylisted by jti
// at logout, and a per-user issued-at cutoff invalidates all earlier tokens
// after a password change.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"roomie/internal/middleware"
	"roomie/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const issuer = "roomie-api"

const (
	revokedKeyFormat = "session:revoked:%s"
	cutoffKeyFormat  = "session:cutoff:%s"
)

// Session is the decoded association between a request and a user.
type Session struct {
	UserID    string
	Email     string
	Username  string
	Token     string
	JTI       string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Manager issues, validates, and revokes session tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	rdb    *redis.Client
}

// NewManager returns a session manager signing with secret and issuing
// tokens valid for ttl. rdb carries revocation state; when nil, revocation
// degrades to token expiry alone.
func NewManager(secret string, ttl time.Duration, rdb *redis.Client) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, rdb: rdb}
}

// Issue creates a new signed session bound to the given user.
func (m *Manager) Issue(user *models.User) (*Session, error) {
	if len(m.secret) == 0 {
		return nil, fmt.Errorf("session secret not configured")
	}

	now := time.Now()
	expires := now.Add(m.ttl)
	jti := uuid.NewString()

	claims := jwt.MapClaims{
		"sub":      user.ID,
		"email":    user.Email,
		"username": user.Username,
		"iss":      issuer,
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"exp":      expires.Unix(),
		"jti":      jti,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("signing session token: %w", err)
	}

	return &Session{
		UserID:    user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Token:     signed,
		JTI:       jti,
		IssuedAt:  now,
		ExpiresAt: expires,
	}, nil
}

// Parse validates a presented token and returns the session it carries.
// Tampered, expired, denylisted, and cutoff-predating tokens all yield the
// same generic AuthError.
func (m *Manager) Parse(ctx context.Context, tokenString string) (*Session, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer))
	if err != nil || !token.Valid {
		return nil, models.NewAuthError("Invalid or expired session")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.NewAuthError("Invalid or expired session")
	}

	sess := &Session{Token: tokenString}
	if sub, ok := claims["sub"].(string); ok {
		sess.UserID = sub
	}
	if email, ok := claims["email"].(string); ok {
		sess.Email = email
	}
	if username, ok := claims["username"].(string); ok {
		sess.Username = username
	}
	if jti, ok := claims["jti"].(string); ok {
		sess.JTI = jti
	}
	if iat, ok := claims["iat"].(float64); ok {
		sess.IssuedAt = time.Unix(int64(iat), 0)
	}
	if exp, ok := claims["exp"].(float64); ok {
		sess.ExpiresAt = time.Unix(int64(exp), 0)
	}
	if sess.UserID == "" || sess.JTI == "" {
		return nil, models.NewAuthError("Invalid or expired session")
	}

	if m.isRevoked(ctx, sess) {
		return nil, models.NewAuthError("Invalid or expired session")
	}

	return sess, nil
}

// Revoke denylists the presented token for the remainder of its validity.
// Idempotent: revoking an already-revoked or unparseable token is not an
// error, so logging out twice never fails.
func (m *Manager) Revoke(ctx context.Context, tokenString string) error {
	sess, err := m.Parse(ctx, tokenString)
	if err != nil {
		return nil
	}
	return m.RevokeSession(ctx, sess)
}

// RevokeSession denylists an already-parsed session.
func (m *Manager) RevokeSession(ctx context.Context, sess *Session) error {
	if m.rdb == nil {
		middleware.Logger.WarnContext(ctx, "session revocation skipped: no redis client")
		return nil
	}

	remaining := time.Until(sess.ExpiresAt)
	if remaining <= 0 {
		return nil
	}
	if err := m.rdb.Set(ctx, fmt.Sprintf(revokedKeyFormat, sess.JTI), "1", remaining).Err(); err != nil {
		return models.NewStoreUnavailableError(err)
	}
	return nil
}

// RevokeAll invalidates every session issued to userID before now, by
// recording an issued-at cutoff. Used after password changes.
func (m *Manager) RevokeAll(ctx context.Context, userID string) error {
	if m.rdb == nil {
		middleware.Logger.WarnContext(ctx, "session revocation skipped: no redis client",
			slog.String("user_id", userID))
		return nil
	}
	cutoff := strconv.FormatInt(time.Now().Unix(), 10)
	if err := m.rdb.Set(ctx, fmt.Sprintf(cutoffKeyFormat, userID), cutoff, m.ttl).Err(); err != nil {
		return models.NewStoreUnavailableError(err)
	}
	return nil
}

// isRevoked consults the denylist and the per-user cutoff. Redis errors
// fail open: an unreachable revocation store degrades to expiry-only
// validity rather than locking every user out.
func (m *Manager) isRevoked(ctx context.Context, sess *Session) bool {
	if m.rdb == nil {
		return false
	}

	if err := m.rdb.Get(ctx, fmt.Sprintf(revokedKeyFormat, sess.JTI)).Err(); err == nil {
		return true
	} else if err != redis.Nil {
		middleware.Logger.WarnContext(ctx, "session denylist unavailable, failing open",
			slog.String("error", err.Error()))
		return false
	}

	cutoffStr, err := m.rdb.Get(ctx, fmt.Sprintf(cutoffKeyFormat, sess.UserID)).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		middleware.Logger.WarnContext(ctx, "session cutoff unavailable, failing open",
			slog.String("error", err.Error()))
		return false
	}
	cutoff, err := strconv.ParseInt(cutoffStr, 10, 64)
	if err != nil {
		return false
	}
	// Tokens issued before the cutoff second are out; RevokeAll and a
	// subsequent login in the same second resolve in favor of the new login.
	return sess.IssuedAt.Unix() < cutoff
}
