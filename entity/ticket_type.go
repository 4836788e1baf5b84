package entity

import "time"

type TicketType struct {
	TicketTypeID      string     `json:"ticket_type_id"`
	EventID           string     `json:"event_id"`
	Name              string     `json:"name"`
	Price             Money      `json:"price"`
	QuantityAvailable uint       `json:"quantity_available"`
	QuantitySold      uint       `json:"quantity_sold"`
	MaxPerOrder       *uint      `json:"max_per_order,omitempty"`
	SaleStartsAt      *time.Time `json:"sale_starts_at,omitempty"`
	SaleEndsAt        *time.Time `json:"sale_ends_at,omitempty"`
	Active            bool       `json:"active"`
}

func (t TicketType) Remaining() uint {
	if t.QuantitySold > t.QuantityAvailable {
		return 0
	}
	return t.QuantityAvailable - t.QuantitySold
}

// SaleOpen reports whether the type is purchasable at the given time.
// An unset window boundary is treated as unbounded on that side.
func (t TicketType) SaleOpen(now time.Time) bool {
	if !t.Active {
		return false
	}
	if t.SaleStartsAt != nil && now.Before(*t.SaleStartsAt) {
		return false
	}
	if t.SaleEndsAt != nil && now.After(*t.SaleEndsAt) {
		return false
	}
	return true
}
