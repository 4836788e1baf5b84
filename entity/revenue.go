package entity

import "time"

// EventRevenue is a read model aggregated from order lifecycle events.
type EventRevenue struct {
	EventID        string    `json:"event_id"`
	Currency       string    `json:"currency"`
	OrdersCount    uint      `json:"orders_count"`
	TicketsSold    uint      `json:"tickets_sold"`
	GrossAmount    string    `json:"gross_amount"`
	DiscountAmount string    `json:"discount_amount"`
	RefundedAmount string    `json:"refunded_amount"`
	LastUpdate     time.Time `json:"last_update"`
}
