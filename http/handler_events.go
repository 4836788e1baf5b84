package http

import (
	"net/http"
	"time"

	"stepperslife/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type createEventRequest struct {
	Title           string    `json:"title"`
	Venue           string    `json:"venue"`
	StartTime       time.Time `json:"start_time"`
	MaxRSVPs        *int      `json:"max_rsvps"`
	WaitlistEnabled bool      `json:"waitlist_enabled"`
}

func (h handler) CreateEvent(c echo.Context) error {
	var request createEventRequest
	if err := c.Bind(&request); err != nil {
		return badRequest("failed to parse request", err)
	}
	if request.Title == "" {
		return badRequest("title is required", nil)
	}
	if request.MaxRSVPs != nil && *request.MaxRSVPs < 0 {
		return badRequest("max_rsvps must not be negative", nil)
	}

	event := entity.Event{
		EventID:         uuid.NewString(),
		Title:           request.Title,
		Venue:           request.Venue,
		StartTime:       request.StartTime,
		MaxRSVPs:        request.MaxRSVPs,
		WaitlistEnabled: request.WaitlistEnabled,
	}

	if err := h.deps.EventRepo.Add(c.Request().Context(), event); err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, event)
}

func (h handler) ListEvents(c echo.Context) error {
	events, err := h.deps.EventRepo.List(c.Request().Context())
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{"events": events})
}

func (h handler) GetEvent(c echo.Context) error {
	event, err := h.deps.EventRepo.Get(c.Request().Context(), c.Param("event_id"))
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, event)
}

type createTicketTypeRequest struct {
	Name              string       `json:"name"`
	Price             entity.Money `json:"price"`
	QuantityAvailable uint         `json:"quantity_available"`
	MaxPerOrder       *uint        `json:"max_per_order"`
	SaleStartsAt      *time.Time   `json:"sale_starts_at"`
	SaleEndsAt        *time.Time   `json:"sale_ends_at"`
}

func (h handler) CreateTicketType(c echo.Context) error {
	var request createTicketTypeRequest
	if err := c.Bind(&request); err != nil {
		return badRequest("failed to parse request", err)
	}
	if request.Name == "" {
		return badRequest("name is required", nil)
	}

	ctx := c.Request().Context()
	eventID := c.Param("event_id")

	if _, err := h.deps.EventRepo.Get(ctx, eventID); err != nil {
		return domainError(err)
	}

	ticketType := entity.TicketType{
		TicketTypeID:      uuid.NewString(),
		EventID:           eventID,
		Name:              request.Name,
		Price:             request.Price,
		QuantityAvailable: request.QuantityAvailable,
		MaxPerOrder:       request.MaxPerOrder,
		SaleStartsAt:      request.SaleStartsAt,
		SaleEndsAt:        request.SaleEndsAt,
		Active:            true,
	}

	if err := h.deps.TicketTypeRepo.Add(ctx, ticketType); err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, ticketType)
}

func (h handler) ListTicketTypes(c echo.Context) error {
	types, err := h.deps.TicketTypeRepo.ListByEvent(c.Request().Context(), c.Param("event_id"))
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{"ticket_types": types})
}
