package http

import (
	"context"
	"net/http"

	"stepperslife/db"
	"stepperslife/entity"

	commonHTTP "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/labstack/echo/v4"
)

var ErrServerClosed = http.ErrServerClosed

type EventRepo interface {
	Add(ctx context.Context, event entity.Event) error
	Get(ctx context.Context, eventID string) (entity.Event, error)
	List(ctx context.Context) ([]entity.Event, error)
}

type TicketTypeRepo interface {
	Add(ctx context.Context, t entity.TicketType) error
	ListByEvent(ctx context.Context, eventID string) ([]entity.TicketType, error)
}

type Reserver interface {
	Reserve(ctx context.Context, res db.Reservation) (db.ReservationResult, error)
}

type PromoCodeRepo interface {
	Add(ctx context.Context, p entity.PromoCode) error
	ListByEvent(ctx context.Context, eventID string) ([]entity.PromoCode, error)
	GetByCode(ctx context.Context, eventID, code string) (entity.PromoCode, error)
}

type RSVPRepo interface {
	Create(ctx context.Context, rsvpID, eventID, customerEmail string) (entity.RSVP, error)
	Cancel(ctx context.Context, rsvpID string) (string, error)
	CheckIn(ctx context.Context, rsvpID, operatorID, idempotencyKey string) (entity.RSVP, error)
}

type OrderRepo interface {
	Get(ctx context.Context, orderID string) (entity.Order, error)
	ConfirmPayment(ctx context.Context, orderID, idempotencyKey string) error
	FailPayment(ctx context.Context, orderID string) error
}

type TicketRepo interface {
	CheckIn(ctx context.Context, ticketID, operatorID, idempotencyKey string) (entity.Ticket, error)
	ListByEvent(ctx context.Context, eventID string) ([]entity.Ticket, error)
}

type RevenueRepo interface {
	Get(ctx context.Context, eventID string) (entity.EventRevenue, error)
}

type CommandBus interface {
	Send(ctx context.Context, cmd any) error
}

type HandlerDeps struct {
	CommandBus     CommandBus
	EventRepo      EventRepo
	OrderRepo      OrderRepo
	PromoCodeRepo  PromoCodeRepo
	Reserver       Reserver
	RevenueRepo    RevenueRepo
	RSVPRepo       RSVPRepo
	TicketRepo     TicketRepo
	TicketTypeRepo TicketTypeRepo
}

func NewRouter(deps HandlerDeps) *echo.Echo {
	server := commonHTTP.NewEcho()

	server.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	h := handler{deps: deps}

	server.POST("/events", h.CreateEvent)
	server.GET("/events", h.ListEvents)
	server.GET("/events/:event_id", h.GetEvent)

	server.POST("/events/:event_id/ticket-types", h.CreateTicketType)
	server.GET("/events/:event_id/ticket-types", h.ListTicketTypes)

	server.POST("/events/:event_id/reservations", h.CreateReservation)
	server.GET("/orders/:order_id", h.GetOrder)

	server.POST("/events/:event_id/promo-codes", h.CreatePromoCode)
	server.GET("/events/:event_id/promo-codes", h.ListPromoCodes)
	server.POST("/events/:event_id/promo-codes/validate", h.ValidatePromoCode)

	server.POST("/events/:event_id/rsvps", h.CreateRSVP)
	server.POST("/rsvps/:rsvp_id/cancel", h.CancelRSVP)
	server.POST("/rsvps/:rsvp_id/check-in", h.CheckInRSVP)

	server.GET("/events/:event_id/tickets", h.ListTickets)
	server.POST("/tickets/:ticket_id/check-in", h.CheckInTicket)

	server.POST("/payments/webhook", h.PaymentWebhook)
	server.POST("/orders/:order_id/refund", h.RefundOrder)

	server.GET("/events/:event_id/revenue", h.GetRevenue)

	return server
}

type handler struct {
	deps HandlerDeps
}
