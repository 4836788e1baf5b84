package entity

import "time"

const (
	RSVPStatusConfirmed = "confirmed"
	RSVPStatusWaitlist  = "waitlist"
	RSVPStatusCancelled = "cancelled"
	RSVPStatusCheckedIn = "checked_in"
)

type RSVP struct {
	RSVPID        string     `json:"rsvp_id"`
	EventID       string     `json:"event_id"`
	CustomerEmail string     `json:"customer_email"`
	Status        string     `json:"status"`
	CheckedInAt   *time.Time `json:"checked_in_at,omitempty"`
	CheckedInBy   *string    `json:"checked_in_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// OccupiesSlot reports whether the RSVP counts against event capacity.
// A checked-in attendee still holds their confirmed slot.
func (r RSVP) OccupiesSlot() bool {
	return r.Status == RSVPStatusConfirmed || r.Status == RSVPStatusCheckedIn
}
