// Package orders is the repository for the document's order collection.
// Buyers need no session to place an order; organizer-scoped queries use
// the session to resolve ownership.
package orders

import (
	"context"
	"fmt"
	"time"

	"tessera/apperrors"
	"tessera/docstore"
	"tessera/events"
	"tessera/models"
	"tessera/session"
	"tessera/utils"
)

type Repo struct {
	store    *docstore.Store
	sessions *session.Manager
	events   *events.Repo
	now      func() time.Time
}

func New(store *docstore.Store, sessions *session.Manager, eventRepo *events.Repo) *Repo {
	return &Repo{store: store, sessions: sessions, events: eventRepo, now: time.Now}
}

type CreateInput struct {
	EventID        string
	EventTitle     string
	BuyerName      string
	BuyerEmail     string
	BuyerPhone     string
	TicketType     string
	TicketQuantity int
	UnitPrice      float64
	Total          float64
	Fees           float64
	Tax            float64
	PaymentMethod  string
	Notes          string
}

// Create places an order. No authentication is required, and event
// existence is not checked eagerly: an order that outlives its event
// becomes an orphan and simply drops out of per-event aggregates.
func (r *Repo) Create(ctx context.Context, in CreateInput) (models.Order, error) {
	if in.TicketQuantity < 1 {
		return models.Order{}, fmt.Errorf("%w: ticket quantity must be at least 1", apperrors.ErrValidation)
	}

	order := models.Order{
		ID:             utils.NewID(),
		OrderNumber:    utils.NewOrderNumber(),
		EventID:        in.EventID,
		EventTitle:     in.EventTitle,
		BuyerName:      in.BuyerName,
		BuyerEmail:     in.BuyerEmail,
		BuyerPhone:     in.BuyerPhone,
		TicketType:     in.TicketType,
		TicketQuantity: in.TicketQuantity,
		UnitPrice:      in.UnitPrice,
		Total:          in.Total,
		Fees:           in.Fees,
		Tax:            in.Tax,
		Status:         models.OrderStatusPending,
		PaymentMethod:  in.PaymentMethod,
		PaymentStatus:  "unpaid",
		OrderDate:      r.now(),
		Notes:          in.Notes,
	}

	doc := r.store.Load(ctx)
	doc.Orders = append(doc.Orders, order)
	if err := r.store.Save(ctx, &doc); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// Update shallow-merges patch over the stored order.
func (r *Repo) Update(ctx context.Context, id string, patch map[string]any) (models.Order, error) {
	doc := r.store.Load(ctx)
	idx := indexOf(doc.Orders, id)
	if idx < 0 {
		return models.Order{}, fmt.Errorf("%w: order %s", apperrors.ErrNotFound, id)
	}

	for _, protected := range []string{"id", "orderNumber"} {
		delete(patch, protected)
	}
	merged, err := utils.ShallowMerge(doc.Orders[idx], patch)
	if err != nil {
		return models.Order{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	merged.ID = doc.Orders[idx].ID
	merged.OrderNumber = doc.Orders[idx].OrderNumber

	doc.Orders[idx] = merged
	if err := r.store.Save(ctx, &doc); err != nil {
		return models.Order{}, err
	}
	return merged, nil
}

// Save upserts an order for bulk/seed loading; no checks beyond identity.
func (r *Repo) Save(ctx context.Context, order models.Order) (models.Order, error) {
	doc := r.store.Load(ctx)

	if idx := indexOf(doc.Orders, order.ID); idx >= 0 {
		if order.OrderDate.IsZero() {
			order.OrderDate = doc.Orders[idx].OrderDate
		}
		doc.Orders[idx] = order
	} else {
		if order.ID == "" {
			order.ID = utils.NewID()
		}
		if order.OrderNumber == "" {
			order.OrderNumber = utils.NewOrderNumber()
		}
		if order.OrderDate.IsZero() {
			order.OrderDate = r.now()
		}
		doc.Orders = append(doc.Orders, order)
	}

	if err := r.store.Save(ctx, &doc); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) *models.Order {
	doc := r.store.Load(ctx)
	if idx := indexOf(doc.Orders, id); idx >= 0 {
		order := doc.Orders[idx]
		return &order
	}
	return nil
}

func (r *Repo) All(ctx context.Context) []models.Order {
	doc := r.store.Load(ctx)
	return append([]models.Order{}, doc.Orders...)
}

func (r *Repo) ByEvent(ctx context.Context, eventID string) []models.Order {
	doc := r.store.Load(ctx)
	matched := []models.Order{}
	for _, order := range doc.Orders {
		if order.EventID == eventID {
			matched = append(matched, order)
		}
	}
	return matched
}

// ForOrganizer returns orders on events the current user owns. Orphaned
// orders are excluded by construction: their eventId matches no owned
// event. Empty when unauthenticated.
func (r *Repo) ForOrganizer(ctx context.Context) []models.Order {
	owned := r.events.Owned(ctx)
	if len(owned) == 0 {
		return []models.Order{}
	}
	ownedIDs := make(map[string]bool, len(owned))
	for _, event := range owned {
		ownedIDs[event.ID] = true
	}

	doc := r.store.Load(ctx)
	matched := []models.Order{}
	for _, order := range doc.Orders {
		if ownedIDs[order.EventID] {
			matched = append(matched, order)
		}
	}
	return matched
}

func indexOf(orders []models.Order, id string) int {
	for i, order := range orders {
		if order.ID == id {
			return i
		}
	}
	return -1
}
