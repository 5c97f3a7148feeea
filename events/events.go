// Package events is the repository for the document's event collection.
// Mutations require an authenticated session; update and delete further
// require the caller to be the owning organizer.
package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tessera/apperrors"
	"tessera/docstore"
	"tessera/models"
	"tessera/session"
	"tessera/utils"
)

type Repo struct {
	store    *docstore.Store
	sessions *session.Manager
	now      func() time.Time
}

func New(store *docstore.Store, sessions *session.Manager) *Repo {
	return &Repo{store: store, sessions: sessions, now: time.Now}
}

type CreateInput struct {
	Title            string
	Description      string
	Date             time.Time
	StartTime        string
	EndTime          string
	Location         string
	Venue            string
	Category         string
	Status           string
	Capacity         int
	IsPublic         bool
	RequiresApproval bool
	Tags             []string
	Images           []string
	Settings         models.EventSettings
}

// Create adds an event owned by the current user.
func (r *Repo) Create(ctx context.Context, in CreateInput) (models.Event, error) {
	current := r.sessions.Current(ctx)
	if current == nil {
		return models.Event{}, fmt.Errorf("%w: login required to create events", apperrors.ErrUnauthenticated)
	}
	if in.Title == "" {
		return models.Event{}, fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}

	status := in.Status
	if status == "" {
		status = models.EventStatusDraft
	}
	now := r.now()
	event := models.Event{
		ID:               utils.NewID(),
		OrganizerID:      current.UserID,
		Title:            in.Title,
		Description:      in.Description,
		Date:             in.Date,
		StartTime:        in.StartTime,
		EndTime:          in.EndTime,
		Location:         in.Location,
		Venue:            in.Venue,
		Category:         in.Category,
		Status:           status,
		Capacity:         in.Capacity,
		IsPublic:         in.IsPublic,
		RequiresApproval: in.RequiresApproval,
		Tags:             utils.SplitTags(strings.Join(in.Tags, ",")),
		Images:           in.Images,
		Tickets:          []models.Ticket{},
		Settings:         in.Settings,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if event.Images == nil {
		event.Images = []string{}
	}

	doc := r.store.Load(ctx)
	doc.Events = append(doc.Events, event)
	if err := r.store.Save(ctx, &doc); err != nil {
		return models.Event{}, err
	}
	return event, nil
}

// Update shallow-merges patch over the stored event and stamps updatedAt.
// Checks run in order: existence, authentication, ownership. A patch key
// replaces the stored value wholesale, nested objects included.
func (r *Repo) Update(ctx context.Context, id string, patch map[string]any) (models.Event, error) {
	doc := r.store.Load(ctx)
	idx := r.indexOf(doc.Events, id)
	if idx < 0 {
		return models.Event{}, fmt.Errorf("%w: event %s", apperrors.ErrNotFound, id)
	}
	if err := r.authorize(ctx, doc.Events[idx]); err != nil {
		return models.Event{}, err
	}

	for _, protected := range []string{"id", "organizerId", "createdAt"} {
		delete(patch, protected)
	}
	merged, err := utils.ShallowMerge(doc.Events[idx], patch)
	if err != nil {
		return models.Event{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	merged.ID = doc.Events[idx].ID
	merged.OrganizerID = doc.Events[idx].OrganizerID
	merged.CreatedAt = doc.Events[idx].CreatedAt
	merged.UpdatedAt = r.now()
	if merged.Tickets == nil {
		merged.Tickets = []models.Ticket{}
	}

	doc.Events[idx] = merged
	if err := r.store.Save(ctx, &doc); err != nil {
		return models.Event{}, err
	}
	return merged, nil
}

// Delete removes the event from the collection. Orders referencing it are
// left in place as orphans; queries exclude them by construction.
func (r *Repo) Delete(ctx context.Context, id string) error {
	doc := r.store.Load(ctx)
	idx := r.indexOf(doc.Events, id)
	if idx < 0 {
		return fmt.Errorf("%w: event %s", apperrors.ErrNotFound, id)
	}
	if err := r.authorize(ctx, doc.Events[idx]); err != nil {
		return err
	}

	doc.Events = append(doc.Events[:idx], doc.Events[idx+1:]...)
	return r.store.Save(ctx, &doc)
}

func (r *Repo) GetByID(ctx context.Context, id string) *models.Event {
	doc := r.store.Load(ctx)
	if idx := r.indexOf(doc.Events, id); idx >= 0 {
		event := doc.Events[idx]
		return &event
	}
	return nil
}

// Public returns the catalog view: public, published events in insertion
// order. It never fails; an empty slice is the degraded result.
func (r *Repo) Public(ctx context.Context) []models.Event {
	doc := r.store.Load(ctx)
	catalog := []models.Event{}
	for _, event := range doc.Events {
		if event.IsPublic && event.Status == models.EventStatusPublished {
			catalog = append(catalog, event)
		}
	}
	return catalog
}

func (r *Repo) ByOrganizer(ctx context.Context, organizerID string) []models.Event {
	doc := r.store.Load(ctx)
	owned := []models.Event{}
	for _, event := range doc.Events {
		if event.OrganizerID == organizerID {
			owned = append(owned, event)
		}
	}
	return owned
}

// Owned returns the current user's events, empty when unauthenticated.
func (r *Repo) Owned(ctx context.Context) []models.Event {
	current := r.sessions.Current(ctx)
	if current == nil {
		return []models.Event{}
	}
	return r.ByOrganizer(ctx, current.UserID)
}

// Save upserts an event for bulk/seed loading. No ownership or uniqueness
// checks run here; authorized single-entity mutation goes through Update.
func (r *Repo) Save(ctx context.Context, event models.Event) (models.Event, error) {
	doc := r.store.Load(ctx)
	now := r.now()

	if idx := r.indexOf(doc.Events, event.ID); idx >= 0 {
		if event.CreatedAt.IsZero() {
			event.CreatedAt = doc.Events[idx].CreatedAt
		}
		event.UpdatedAt = now
		if event.Tickets == nil {
			event.Tickets = doc.Events[idx].Tickets
		}
		doc.Events[idx] = event
	} else {
		if event.ID == "" {
			event.ID = utils.NewID()
		}
		if event.CreatedAt.IsZero() {
			event.CreatedAt = now
		}
		event.UpdatedAt = now
		if event.Tickets == nil {
			event.Tickets = []models.Ticket{}
		}
		doc.Events = append(doc.Events, event)
	}

	if err := r.store.Save(ctx, &doc); err != nil {
		return models.Event{}, err
	}
	return event, nil
}

func (r *Repo) authorize(ctx context.Context, event models.Event) error {
	current := r.sessions.Current(ctx)
	if current == nil {
		return fmt.Errorf("%w: login required", apperrors.ErrUnauthenticated)
	}
	if event.OrganizerID != current.UserID {
		return fmt.Errorf("%w: event %s belongs to another organizer", apperrors.ErrForbidden, event.ID)
	}
	return nil
}

func (r *Repo) indexOf(events []models.Event, id string) int {
	for i, event := range events {
		if event.ID == id {
			return i
		}
	}
	return -1
}
