package event

import (
	"time"

	"stepperslife/entity"

	"github.com/ThreeDotsLabs/watermill"
)

type header struct {
	ID             string    `json:"id"`
	PublishedAt    time.Time `json:"published_at"`
	IdempotencyKey string    `json:"idempotency_key"`
}

func newHeader(idempotencyKey string) header {
	return header{
		ID:             watermill.NewUUID(),
		PublishedAt:    time.Now().UTC(),
		IdempotencyKey: idempotencyKey,
	}
}

type ReservationMade struct {
	Header        header       `json:"header"`
	OrderID       string       `json:"order_id"`
	EventID       string       `json:"event_id"`
	TicketTypeID  string       `json:"ticket_type_id"`
	Quantity      uint         `json:"quantity"`
	CustomerEmail string       `json:"customer_email"`
	Total         entity.Money `json:"total"`
}

func NewReservationMade(idempotencyKey string, order entity.Order) ReservationMade {
	return ReservationMade{
		Header:        newHeader(idempotencyKey),
		OrderID:       order.OrderID,
		EventID:       order.EventID,
		TicketTypeID:  order.TicketTypeID,
		Quantity:      order.Quantity,
		CustomerEmail: order.CustomerEmail,
		Total:         order.Total,
	}
}

type OrderConfirmed struct {
	Header        header       `json:"header"`
	OrderID       string       `json:"order_id"`
	EventID       string       `json:"event_id"`
	Quantity      uint         `json:"quantity"`
	CustomerEmail string       `json:"customer_email"`
	Subtotal      entity.Money `json:"subtotal"`
	Discount      entity.Money `json:"discount"`
	Total         entity.Money `json:"total"`
	TicketIDs     []string     `json:"ticket_ids"`
}

func NewOrderConfirmed(idempotencyKey string, order entity.Order, ticketIDs []string) OrderConfirmed {
	return OrderConfirmed{
		Header:        newHeader(idempotencyKey),
		OrderID:       order.OrderID,
		EventID:       order.EventID,
		Quantity:      order.Quantity,
		CustomerEmail: order.CustomerEmail,
		Subtotal:      order.Subtotal,
		Discount:      order.Discount,
		Total:         order.Total,
		TicketIDs:     ticketIDs,
	}
}

type OrderRefunded struct {
	Header        header       `json:"header"`
	OrderID       string       `json:"order_id"`
	EventID       string       `json:"event_id"`
	CustomerEmail string       `json:"customer_email"`
	Total         entity.Money `json:"total"`
}

func NewOrderRefunded(idempotencyKey string, order entity.Order) OrderRefunded {
	return OrderRefunded{
		Header:        newHeader(idempotencyKey),
		OrderID:       order.OrderID,
		EventID:       order.EventID,
		CustomerEmail: order.CustomerEmail,
		Total:         order.Total,
	}
}

type RsvpPromoted struct {
	Header        header `json:"header"`
	RSVPID        string `json:"rsvp_id"`
	EventID       string `json:"event_id"`
	CustomerEmail string `json:"customer_email"`
}

func NewRsvpPromoted(idempotencyKey string, rsvp entity.RSVP) RsvpPromoted {
	return RsvpPromoted{
		Header:        newHeader(idempotencyKey),
		RSVPID:        rsvp.RSVPID,
		EventID:       rsvp.EventID,
		CustomerEmail: rsvp.CustomerEmail,
	}
}

type RsvpCheckedIn struct {
	Header        header    `json:"header"`
	RSVPID        string    `json:"rsvp_id"`
	EventID       string    `json:"event_id"`
	CustomerEmail string    `json:"customer_email"`
	OperatorID    string    `json:"operator_id"`
	CheckedInAt   time.Time `json:"checked_in_at"`
}

func NewRsvpCheckedIn(idempotencyKey string, rsvp entity.RSVP, operatorID string, checkedInAt time.Time) RsvpCheckedIn {
	return RsvpCheckedIn{
		Header:        newHeader(idempotencyKey),
		RSVPID:        rsvp.RSVPID,
		EventID:       rsvp.EventID,
		CustomerEmail: rsvp.CustomerEmail,
		OperatorID:    operatorID,
		CheckedInAt:   checkedInAt,
	}
}

type AttendeeCheckedIn struct {
	Header        header    `json:"header"`
	TicketID      string    `json:"ticket_id"`
	EventID       string    `json:"event_id"`
	CustomerEmail string    `json:"customer_email"`
	OperatorID    string    `json:"operator_id"`
	CheckedInAt   time.Time `json:"checked_in_at"`
}

func NewAttendeeCheckedIn(idempotencyKey string, ticket entity.Ticket, operatorID string, checkedInAt time.Time) AttendeeCheckedIn {
	return AttendeeCheckedIn{
		Header:        newHeader(idempotencyKey),
		TicketID:      ticket.TicketID,
		EventID:       ticket.EventID,
		CustomerEmail: ticket.CustomerEmail,
		OperatorID:    operatorID,
		CheckedInAt:   checkedInAt,
	}
}
