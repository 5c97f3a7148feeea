// Package session manages the single active session: create on login,
// lazy expiry on access, idempotent logout. The session record lives in
// its own backend slot, never inside the application document, and the
// issued token is only as good as the stored record it points at.
package session

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"tessera/kv"
	"tessera/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultTTL = 24 * time.Hour

type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type Manager struct {
	backend kv.Backend
	key     string
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
}

func New(backend kv.Backend, key string, secret []byte) *Manager {
	return &Manager{
		backend: backend,
		key:     key,
		secret:  secret,
		ttl:     DefaultTTL,
		now:     time.Now,
	}
}

// Login starts a session for user, overwriting any prior one (one active
// session per context). It returns the session record and a signed token
// whose ID must match the stored record to be accepted.
func (m *Manager) Login(ctx context.Context, user models.User) (models.Session, string, error) {
	now := m.now()
	sess := models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		LoginTime: now,
		ExpiresAt: now.Add(m.ttl),
	}

	raw, err := json.Marshal(sess)
	if err != nil {
		return models.Session{}, "", err
	}
	if err := m.backend.Set(ctx, m.key, raw); err != nil {
		return models.Session{}, "", err
	}

	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return models.Session{}, "", err
	}
	return sess, token, nil
}

// Current returns the active session, or nil when there is none. Expiry is
// checked lazily here: an expired record is cleared on access, there is no
// background timer.
func (m *Manager) Current(ctx context.Context) *models.Session {
	raw, ok, err := m.backend.Get(ctx, m.key)
	if err != nil {
		log.Printf("session read failed: %v", err)
		return nil
	}
	if !ok {
		return nil
	}

	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		log.Printf("session record corrupt, clearing: %v", err)
		m.Logout(ctx)
		return nil
	}
	if m.now().After(sess.ExpiresAt) {
		m.Logout(ctx)
		return nil
	}
	return &sess
}

// Validate parses and verifies token, then checks it against the stored
// session record. A well-signed token whose session is gone (logout,
// expiry, reset) is rejected: the stored record is the authority, not the
// client blob.
func (m *Manager) Validate(ctx context.Context, token string) *models.Session {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil
	}

	sess := m.Current(ctx)
	if sess == nil || sess.ID != claims.ID || sess.UserID != claims.UserID {
		return nil
	}
	return sess
}

// Logout clears the session slot unconditionally.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.backend.Delete(ctx, m.key); err != nil {
		log.Printf("session clear failed: %v", err)
	}
}

func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	return m.Current(ctx) != nil
}
