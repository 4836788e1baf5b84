package entity

import "time"

type Event struct {
	EventID         string    `json:"event_id"`
	Title           string    `json:"title"`
	Venue           string    `json:"venue"`
	StartTime       time.Time `json:"start_time"`
	MaxRSVPs        *int      `json:"max_rsvps,omitempty"`
	WaitlistEnabled bool      `json:"waitlist_enabled"`
}

type Money struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}
