// Package analytics derives revenue and attendance reports for the current
// organizer from the orders on events they own. It is read-only and
// composes the entity repositories.
package analytics

import (
	"context"
	"sort"
	"time"

	"tessera/events"
	"tessera/models"
	"tessera/orders"
	"tessera/session"
)

const DefaultWindowDays = 30

type Report struct {
	TotalRevenue    float64        `json:"totalRevenue"`
	TotalTickets    int            `json:"totalTickets"`
	TotalEvents     int            `json:"totalEvents"`
	PublishedEvents int            `json:"publishedEvents"`
	AvgTicketPrice  float64        `json:"avgTicketPrice"`
	Monthly         []MonthlyStat  `json:"monthly"`
	TopEvents       []EventStat    `json:"topEvents"`
	Orders          []models.Order `json:"orders"`
}

// MonthlyStat is a month-of-year bucket: orders from the same calendar
// month of different years land in the same bucket.
type MonthlyStat struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
	Tickets int     `json:"tickets"`
}

type EventStat struct {
	EventID string  `json:"eventId"`
	Title   string  `json:"title"`
	Tickets int     `json:"tickets"`
	Revenue float64 `json:"revenue"`
}

type Engine struct {
	sessions *session.Manager
	events   *events.Repo
	orders   *orders.Repo
	now      func() time.Time
}

func New(sessions *session.Manager, eventRepo *events.Repo, orderRepo *orders.Repo) *Engine {
	return &Engine{sessions: sessions, events: eventRepo, orders: orderRepo, now: time.Now}
}

// Compute builds the report over the caller's owned events. It returns nil
// when no one is logged in: "no report" is a valid state, not an error.
//
// The window applies only to order-derived totals and the monthly rollup.
// Event counts cover all owned events, and the per-event ranking uses the
// unfiltered order set.
func (e *Engine) Compute(ctx context.Context, windowDays int) *Report {
	if !e.sessions.IsAuthenticated(ctx) {
		return nil
	}
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	owned := e.events.Owned(ctx)
	ownedOrders := e.orders.ForOrganizer(ctx)

	cutoff := e.now().AddDate(0, 0, -windowDays)
	filtered := []models.Order{}
	for _, order := range ownedOrders {
		if !order.OrderDate.Before(cutoff) { // inclusive lower bound
			filtered = append(filtered, order)
		}
	}

	report := &Report{
		TotalEvents: len(owned),
		Orders:      filtered,
	}
	for _, event := range owned {
		if event.Status == models.EventStatusPublished {
			report.PublishedEvents++
		}
	}
	for _, order := range filtered {
		report.TotalRevenue += order.Total
		report.TotalTickets += order.TicketQuantity
	}
	if report.TotalTickets > 0 {
		report.AvgTicketPrice = report.TotalRevenue / float64(report.TotalTickets)
	}

	report.Monthly = monthlyRollup(filtered)
	report.TopEvents = topEvents(owned, ownedOrders)
	return report
}

// monthlyRollup emits twelve buckets in calendar order Jan through Dec
// regardless of where the window starts.
func monthlyRollup(filtered []models.Order) []MonthlyStat {
	buckets := make([]MonthlyStat, 12)
	for i := range buckets {
		buckets[i].Month = time.Month(i + 1).String()[:3]
	}
	for _, order := range filtered {
		i := int(order.OrderDate.Month()) - 1
		buckets[i].Revenue += order.Total
		buckets[i].Tickets += order.TicketQuantity
	}
	return buckets
}

// topEvents ranks every owned event (with or without orders) by tickets
// sold, descending, and keeps the top 10.
func topEvents(owned []models.Event, ownedOrders []models.Order) []EventStat {
	stats := make([]EventStat, 0, len(owned))
	byEvent := make(map[string]*EventStat, len(owned))
	for _, event := range owned {
		stats = append(stats, EventStat{EventID: event.ID, Title: event.Title})
		byEvent[event.ID] = &stats[len(stats)-1]
	}
	for _, order := range ownedOrders {
		if stat, ok := byEvent[order.EventID]; ok {
			stat.Tickets += order.TicketQuantity
			stat.Revenue += order.Total
		}
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Tickets > stats[j].Tickets
	})
	if len(stats) > 10 {
		stats = stats[:10]
	}
	return stats
}
