package models

import "time"

type Order struct {
	ID             string    `json:"id"`
	OrderNumber    string    `json:"orderNumber"`
	EventID        string    `json:"eventId"`
	EventTitle     string    `json:"eventTitle"`
	BuyerName      string    `json:"buyerName"`
	BuyerEmail     string    `json:"buyerEmail"`
	BuyerPhone     string    `json:"buyerPhone"`
	TicketType     string    `json:"ticketType"`
	TicketQuantity int       `json:"ticketQuantity"`
	UnitPrice      float64   `json:"unitPrice"`
	Total          float64   `json:"total"`
	Fees           float64   `json:"fees"`
	Tax            float64   `json:"tax"`
	Status         string    `json:"status"`
	PaymentMethod  string    `json:"paymentMethod"`
	PaymentStatus  string    `json:"paymentStatus"`
	OrderDate      time.Time `json:"orderDate"`
	Notes          string    `json:"notes"`
	RefundAmount   float64   `json:"refundAmount"`
	IsRefunded     bool      `json:"isRefunded"`
}

const (
	OrderStatusPending   = "Pending"
	OrderStatusPaid      = "Paid"
	OrderStatusCancelled = "Cancelled"
	OrderStatusRefunded  = "Refunded"
)
