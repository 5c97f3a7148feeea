package events

import (
	"context"
	"testing"
	"time"

	"tessera/apperrors"
	"tessera/docstore"
	"tessera/kv"
	"tessera/models"
	"tessera/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	organizerA = models.User{ID: "ua", Email: "a@x.com"}
	organizerB = models.User{ID: "ub", Email: "b@x.com"}
)

func newTestRepo() (*Repo, *docstore.Store, *session.Manager) {
	backend := kv.NewMemory()
	store := docstore.New(backend, "doc", "sess")
	sessions := session.New(backend, "sess", []byte("test-secret"))
	return New(store, sessions), store, sessions
}

func TestCreateRequiresSession(t *testing.T) {
	repo, _, _ := newTestRepo()
	ctx := context.Background()

	_, err := repo.Create(ctx, CreateInput{Title: "Launch"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestCreateStampsOwnership(t *testing.T) {
	repo, _, sessions := newTestRepo()
	ctx := context.Background()

	_, _, err := sessions.Login(ctx, organizerA)
	require.NoError(t, err)

	event, err := repo.Create(ctx, CreateInput{
		Title:    "Launch",
		IsPublic: true,
		Tags:     []string{"Tech", "tech", " Go "},
	})
	require.NoError(t, err)
	assert.Equal(t, "ua", event.OrganizerID)
	assert.Equal(t, models.EventStatusDraft, event.Status)
	assert.Equal(t, []string{"tech", "go"}, event.Tags)
	assert.NotNil(t, event.Tickets)
	assert.False(t, event.CreatedAt.IsZero())
}

func TestUpdateOwnershipChecks(t *testing.T) {
	repo, _, sessions := newTestRepo()
	ctx := context.Background()

	_, _, err := sessions.Login(ctx, organizerA)
	require.NoError(t, err)
	event, err := repo.Create(ctx, CreateInput{Title: "Launch"})
	require.NoError(t, err)

	// Another organizer may not touch A's event.
	_, _, err = sessions.Login(ctx, organizerB)
	require.NoError(t, err)
	_, err = repo.Update(ctx, event.ID, map[string]any{"title": "Hijacked"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// Logged out: unauthenticated beats forbidden.
	sessions.Logout(ctx)
	_, err = repo.Update(ctx, event.ID, map[string]any{"title": "Nope"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	// Missing entity is reported before any auth check.
	_, err = repo.Update(ctx, "missing", map[string]any{"title": "X"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// The owner's own update succeeds and moves updatedAt.
	_, _, err = sessions.Login(ctx, organizerA)
	require.NoError(t, err)
	later := event.UpdatedAt.Add(time.Hour)
	repo.now = func() time.Time { return later }
	updated, err := repo.Update(ctx, event.ID, map[string]any{"title": "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.True(t, updated.UpdatedAt.After(event.UpdatedAt))
	assert.True(t, updated.CreatedAt.Equal(event.CreatedAt))
}

func TestUpdateShallowMergeReplacesNestedObjects(t *testing.T) {
	repo, _, sessions := newTestRepo()
	ctx := context.Background()

	_, _, err := sessions.Login(ctx, organizerA)
	require.NoError(t, err)
	event, err := repo.Create(ctx, CreateInput{
		Title:    "Launch",
		Settings: models.EventSettings{AllowWaitlist: true, ShowAttendeesCount: true},
	})
	require.NoError(t, err)

	// A partial nested object replaces the stored one wholesale.
	updated, err := repo.Update(ctx, event.ID, map[string]any{
		"settings": map[string]any{"allowWaitlist": true},
	})
	require.NoError(t, err)
	assert.True(t, updated.Settings.AllowWaitlist)
	assert.False(t, updated.Settings.ShowAttendeesCount, "shallow merge drops omitted nested fields")
}

func TestUpdateIgnoresProtectedFields(t *testing.T) {
	repo, _, sessions := newTestRepo()
	ctx := context.Background()

	_, _, err := sessions.Login(ctx, organizerA)
	require.NoError(t, err)
	event, err := repo.Create(ctx, CreateInput{Title: "Launch"})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, event.ID, map[string]any{
		"id":          "spoofed",
		"organizerId": "ub",
		"title":       "Renamed",
	})
	require.NoError(t, err)
	assert.Equal(t, event.ID, updated.ID)
	assert.Equal(t, "ua", updated.OrganizerID)
}

func TestDeleteRemovesEvent(t *testing.T) {
	repo, _, sessions := newTestRepo()
	ctx := context.Background()

	_, _, err := sessions.Login(ctx, organizerA)
	require.NoError(t, err)
	event, err := repo.Create(ctx, CreateInput{Title: "Launch"})
	require.NoError(t, err)

	_, _, err = sessions.Login(ctx, organizerB)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Delete(ctx, event.ID), apperrors.ErrForbidden)

	_, _, err = sessions.Login(ctx, organizerA)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, event.ID))
	assert.Nil(t, repo.GetByID(ctx, event.ID))
	assert.ErrorIs(t, repo.Delete(ctx, event.ID), apperrors.ErrNotFound)
}

func TestPublicFiltersCatalog(t *testing.T) {
	repo, _, sessions := newTestRepo()
	ctx := context.Background()

	_, _, err := sessions.Login(ctx, organizerA)
	require.NoError(t, err)

	_, err = repo.Create(ctx, CreateInput{Title: "Draft", IsPublic: true})
	require.NoError(t, err)
	_, err = repo.Create(ctx, CreateInput{Title: "Private", Status: models.EventStatusPublished})
	require.NoError(t, err)
	listed, err := repo.Create(ctx, CreateInput{Title: "Listed", IsPublic: true, Status: models.EventStatusPublished})
	require.NoError(t, err)

	catalog := repo.Public(ctx)
	require.Len(t, catalog, 1)
	assert.Equal(t, listed.ID, catalog[0].ID)

	// The catalog never requires a session.
	sessions.Logout(ctx)
	assert.Len(t, repo.Public(ctx), 1)
}

func TestSaveUpserts(t *testing.T) {
	repo, _, sessions := newTestRepo()
	ctx := context.Background()

	supplied := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	inserted, err := repo.Save(ctx, models.Event{
		ID:          "e1",
		OrganizerID: "ua",
		Title:       "Seeded",
		CreatedAt:   supplied,
	})
	require.NoError(t, err)
	assert.True(t, inserted.CreatedAt.Equal(supplied))

	// No session, no ownership check: this is the bulk-load path.
	assert.False(t, sessions.IsAuthenticated(ctx))

	updated, err := repo.Save(ctx, models.Event{ID: "e1", OrganizerID: "ua", Title: "Renamed"})
	require.NoError(t, err)
	assert.True(t, updated.CreatedAt.Equal(supplied), "existing createdAt kept on merge")
	assert.Equal(t, "Renamed", updated.Title)

	fetched := repo.GetByID(ctx, "e1")
	require.NotNil(t, fetched)
	assert.Equal(t, "Renamed", fetched.Title)
}
