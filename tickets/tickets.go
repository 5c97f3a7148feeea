// Package tickets mutates the ticket list nested inside an event. Tickets
// have no top-level collection: both operations here build the new list and
// delegate persistence (and the auth/ownership checks) to the event update
// path.
package tickets

import (
	"context"
	"fmt"
	"time"

	"tessera/apperrors"
	"tessera/events"
	"tessera/models"
	"tessera/utils"
)

type Service struct {
	events *events.Repo
	now    func() time.Time
}

func New(eventRepo *events.Repo) *Service {
	return &Service{events: eventRepo, now: time.Now}
}

type AddInput struct {
	Name        string
	Description string
	Price       float64
	Quantity    int
	Type        string
	SalesStart  time.Time
	SalesEnd    time.Time
	Settings    models.TicketSettings
}

// AddToEvent appends a new ticket (sold = 0) to the event's list.
func (s *Service) AddToEvent(ctx context.Context, eventID string, in AddInput) (models.Ticket, error) {
	if in.Name == "" {
		return models.Ticket{}, fmt.Errorf("%w: ticket name is required", apperrors.ErrValidation)
	}
	if in.Price < 0 || in.Quantity < 0 {
		return models.Ticket{}, fmt.Errorf("%w: price and quantity must not be negative", apperrors.ErrValidation)
	}

	event := s.events.GetByID(ctx, eventID)
	if event == nil {
		return models.Ticket{}, fmt.Errorf("%w: event %s", apperrors.ErrNotFound, eventID)
	}

	kind := in.Type
	if kind == "" {
		kind = models.TicketTypePaid
	}
	now := s.now()
	ticket := models.Ticket{
		ID:          utils.NewID(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Sold:        0,
		Type:        kind,
		SalesStart:  in.SalesStart,
		SalesEnd:    in.SalesEnd,
		IsActive:    true,
		Settings:    in.Settings,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	list := append(append([]models.Ticket{}, event.Tickets...), ticket)
	if _, err := s.events.Update(ctx, eventID, map[string]any{"tickets": list}); err != nil {
		return models.Ticket{}, err
	}
	return ticket, nil
}

// Update shallow-merges patch over one ticket in the event's list and
// stamps its updatedAt.
func (s *Service) Update(ctx context.Context, eventID, ticketID string, patch map[string]any) (models.Ticket, error) {
	event := s.events.GetByID(ctx, eventID)
	if event == nil {
		return models.Ticket{}, fmt.Errorf("%w: event %s", apperrors.ErrNotFound, eventID)
	}

	idx := -1
	for i, ticket := range event.Tickets {
		if ticket.ID == ticketID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.Ticket{}, fmt.Errorf("%w: ticket %s on event %s", apperrors.ErrNotFound, ticketID, eventID)
	}

	for _, protected := range []string{"id", "createdAt"} {
		delete(patch, protected)
	}
	merged, err := utils.ShallowMerge(event.Tickets[idx], patch)
	if err != nil {
		return models.Ticket{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	merged.ID = event.Tickets[idx].ID
	merged.CreatedAt = event.Tickets[idx].CreatedAt
	merged.UpdatedAt = s.now()

	list := append([]models.Ticket{}, event.Tickets...)
	list[idx] = merged
	if _, err := s.events.Update(ctx, eventID, map[string]any{"tickets": list}); err != nil {
		return models.Ticket{}, err
	}
	return merged, nil
}
