package entity

import "time"

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

type Order struct {
	OrderID       string    `json:"order_id"`
	EventID       string    `json:"event_id"`
	TicketTypeID  string    `json:"ticket_type_id"`
	Quantity      uint      `json:"quantity"`
	CustomerEmail string    `json:"customer_email"`
	Subtotal      Money     `json:"subtotal"`
	Discount      Money     `json:"discount"`
	Total         Money     `json:"total"`
	PromoCodeID   *string   `json:"promo_code_id,omitempty"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
}

// NextPaymentStatus reports whether the payment state machine allows the
// transition. Completed and failed are reachable from pending only; refunded
// from completed only.
func NextPaymentStatus(current, next string) bool {
	switch next {
	case PaymentStatusCompleted, PaymentStatusFailed:
		return current == PaymentStatusPending
	case PaymentStatusRefunded:
		return current == PaymentStatusCompleted
	}
	return false
}

type Ticket struct {
	TicketID      string     `json:"ticket_id"`
	OrderID       string     `json:"order_id"`
	EventID       string     `json:"event_id"`
	CustomerEmail string     `json:"customer_email"`
	CheckedInAt   *time.Time `json:"checked_in_at,omitempty"`
	CheckedInBy   *string    `json:"checked_in_by,omitempty"`
}
