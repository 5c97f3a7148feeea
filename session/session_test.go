package session

import (
	"context"
	"testing"
	"time"

	"tessera/kv"
	"tessera/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUser = models.User{ID: "u1", Email: "a@x.com"}

func newTestManager() (*Manager, *kv.Memory) {
	backend := kv.NewMemory()
	return New(backend, "sess", []byte("test-secret")), backend
}

func TestLoginThenCurrent(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	sess, token, err := m.Login(ctx, testUser)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.NotEmpty(t, token)
	assert.Equal(t, sess.LoginTime.Add(DefaultTTL), sess.ExpiresAt)

	current := m.Current(ctx)
	require.NotNil(t, current)
	assert.Equal(t, "u1", current.UserID)
	assert.True(t, m.IsAuthenticated(ctx))
}

func TestLoginOverwritesPriorSession(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	_, _, err := m.Login(ctx, testUser)
	require.NoError(t, err)
	_, _, err = m.Login(ctx, models.User{ID: "u2", Email: "b@x.com"})
	require.NoError(t, err)

	current := m.Current(ctx)
	require.NotNil(t, current)
	assert.Equal(t, "u2", current.UserID)
}

func TestLazyExpiryClearsSession(t *testing.T) {
	m, backend := newTestManager()
	ctx := context.Background()

	start := time.Now()
	m.now = func() time.Time { return start }
	_, _, err := m.Login(ctx, testUser)
	require.NoError(t, err)

	// One second past the 24h lifetime.
	m.now = func() time.Time { return start.Add(DefaultTTL + time.Second) }
	assert.Nil(t, m.Current(ctx))
	assert.False(t, m.IsAuthenticated(ctx))

	// The slot was cleared on access, not just hidden.
	_, ok, err := backend.Get(ctx, "sess")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExactExpiryBoundaryStillValid(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	start := time.Now()
	m.now = func() time.Time { return start }
	_, _, err := m.Login(ctx, testUser)
	require.NoError(t, err)

	m.now = func() time.Time { return start.Add(DefaultTTL) }
	assert.NotNil(t, m.Current(ctx))
}

func TestLogoutIsIdempotent(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	_, _, err := m.Login(ctx, testUser)
	require.NoError(t, err)

	m.Logout(ctx)
	assert.Nil(t, m.Current(ctx))
	m.Logout(ctx) // second logout is a no-op, not a fault
	assert.Nil(t, m.Current(ctx))
}

func TestValidateChecksStoredRecord(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	_, token, err := m.Login(ctx, testUser)
	require.NoError(t, err)

	sess := m.Validate(ctx, token)
	require.NotNil(t, sess)
	assert.Equal(t, "u1", sess.UserID)

	// A well-signed token is worthless once the stored session is gone.
	m.Logout(ctx)
	assert.Nil(t, m.Validate(ctx, token))
}

func TestValidateRejectsForeignToken(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	other, _ := newTestManager()
	_, foreign, err := other.Login(ctx, testUser)
	require.NoError(t, err)

	_, _, err = m.Login(ctx, testUser)
	require.NoError(t, err)

	// Same secret, but the token's session ID does not match the stored
	// record.
	assert.Nil(t, m.Validate(ctx, foreign))
	assert.Nil(t, m.Validate(ctx, "not-a-token"))
}
