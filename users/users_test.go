package users

import (
	"context"
	"testing"

	"tessera/apperrors"
	"tessera/docstore"
	"tessera/kv"
	"tessera/models"
	"tessera/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo() (*Repo, *docstore.Store, *session.Manager) {
	backend := kv.NewMemory()
	store := docstore.New(backend, "doc", "sess")
	sessions := session.New(backend, "sess", []byte("test-secret"))
	return New(store, sessions), store, sessions
}

func TestCreateHidesCredential(t *testing.T) {
	repo, store, _ := newTestRepo()
	ctx := context.Background()

	user, err := repo.Create(ctx, CreateInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@x.com",
		Password:  "s3cret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, models.RoleOrganizer, user.Role)
	assert.True(t, user.IsActive)
	assert.Empty(t, user.PasswordHash, "credential must not be returned")

	// The stored record carries the hash, and it is not the plaintext.
	doc := store.Load(ctx)
	require.Len(t, doc.Users, 1)
	assert.NotEmpty(t, doc.Users[0].PasswordHash)
	assert.NotEqual(t, "s3cret", doc.Users[0].PasswordHash)
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	repo, store, _ := newTestRepo()
	ctx := context.Background()

	_, err := repo.Create(ctx, CreateInput{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, CreateInput{Email: "A@X.com", Password: "pw2"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	doc := store.Load(ctx)
	assert.Len(t, doc.Users, 1, "collection length unchanged")
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	repo, _, _ := newTestRepo()
	ctx := context.Background()

	_, err := repo.Create(ctx, CreateInput{Email: "a@x.com"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = repo.Create(ctx, CreateInput{Password: "pw"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAuthenticateStartsSession(t *testing.T) {
	repo, _, sessions := newTestRepo()
	ctx := context.Background()

	_, err := repo.Create(ctx, CreateInput{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	res := repo.Authenticate(ctx, "a@x.com", "pw")
	require.True(t, res.OK, res.Reason)
	assert.NotEmpty(t, res.Token)
	assert.Empty(t, res.User.PasswordHash)
	assert.True(t, sessions.IsAuthenticated(ctx))

	// The token resolves against the stored session.
	sess := sessions.Validate(ctx, res.Token)
	require.NotNil(t, sess)
	assert.Equal(t, res.User.ID, sess.UserID)
}

func TestAuthenticateFailureIsAResultNotAnError(t *testing.T) {
	repo, _, sessions := newTestRepo()
	ctx := context.Background()

	_, err := repo.Create(ctx, CreateInput{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	res := repo.Authenticate(ctx, "a@x.com", "wrong")
	assert.False(t, res.OK)
	assert.Equal(t, "invalid credentials", res.Reason)
	assert.False(t, sessions.IsAuthenticated(ctx))

	res = repo.Authenticate(ctx, "nobody@x.com", "pw")
	assert.False(t, res.OK)
	assert.Equal(t, "invalid credentials", res.Reason)
}

func TestAuthenticateRejectsInactiveUser(t *testing.T) {
	repo, _, _ := newTestRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateInput{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)
	_, err = repo.Update(ctx, created.ID, map[string]any{"isActive": false})
	require.NoError(t, err)

	res := repo.Authenticate(ctx, "a@x.com", "pw")
	assert.False(t, res.OK)
	assert.Equal(t, "invalid credentials", res.Reason)
}

func TestAuthenticateRateLimited(t *testing.T) {
	repo, _, _ := newTestRepo()
	ctx := context.Background()

	_, err := repo.Create(ctx, CreateInput{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	// Burn through the burst with bad attempts.
	for i := 0; i < 5; i++ {
		res := repo.Authenticate(ctx, "a@x.com", "wrong")
		require.Equal(t, "invalid credentials", res.Reason)
	}
	res := repo.Authenticate(ctx, "a@x.com", "pw")
	assert.False(t, res.OK)
	assert.Equal(t, "too many attempts, try again later", res.Reason)

	// Other accounts are unaffected.
	_, err = repo.Create(ctx, CreateInput{Email: "b@x.com", Password: "pw"})
	require.NoError(t, err)
	res = repo.Authenticate(ctx, "b@x.com", "pw")
	assert.True(t, res.OK)
}

func TestUpdateNotFound(t *testing.T) {
	repo, _, _ := newTestRepo()
	ctx := context.Background()

	_, err := repo.Update(ctx, "missing", map[string]any{"firstName": "X"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateDoesNotRecheckEmailUniqueness(t *testing.T) {
	repo, _, _ := newTestRepo()
	ctx := context.Background()

	_, err := repo.Create(ctx, CreateInput{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)
	second, err := repo.Create(ctx, CreateInput{Email: "b@x.com", Password: "pw"})
	require.NoError(t, err)

	// Uniqueness is a creation-time check only.
	updated, err := repo.Update(ctx, second.ID, map[string]any{"email": "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", updated.Email)
}

func TestCurrentFollowsSession(t *testing.T) {
	repo, _, sessions := newTestRepo()
	ctx := context.Background()

	assert.Nil(t, repo.Current(ctx))

	created, err := repo.Create(ctx, CreateInput{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)
	res := repo.Authenticate(ctx, "a@x.com", "pw")
	require.True(t, res.OK)

	current := repo.Current(ctx)
	require.NotNil(t, current)
	assert.Equal(t, created.ID, current.ID)

	sessions.Logout(ctx)
	assert.Nil(t, repo.Current(ctx))
}

func TestGetByIDSanitizes(t *testing.T) {
	repo, _, _ := newTestRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateInput{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	fetched := repo.GetByID(ctx, created.ID)
	require.NotNil(t, fetched)
	assert.Empty(t, fetched.PasswordHash)
	assert.Nil(t, repo.GetByID(ctx, "missing"))
}
