package http

import (
	"net/http"

	"stepperslife/db"
	"stepperslife/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type createReservationRequest struct {
	TicketTypeID  string `json:"ticket_type_id"`
	Quantity      uint   `json:"quantity"`
	CustomerEmail string `json:"customer_email"`
	PromoCode     string `json:"promo_code"`
}

type reservationResponse struct {
	Order     entity.Order `json:"order"`
	Remaining uint         `json:"remaining"`
}

func (h handler) CreateReservation(c echo.Context) error {
	var request createReservationRequest
	if err := c.Bind(&request); err != nil {
		return badRequest("failed to parse request", err)
	}
	if request.TicketTypeID == "" {
		return badRequest("ticket_type_id is required", nil)
	}
	if request.Quantity == 0 {
		return badRequest("quantity must be a positive integer", nil)
	}
	if request.CustomerEmail == "" {
		return badRequest("customer_email is required", nil)
	}

	result, err := h.deps.Reserver.Reserve(c.Request().Context(), db.Reservation{
		OrderID:       uuid.NewString(),
		EventID:       c.Param("event_id"),
		TicketTypeID:  request.TicketTypeID,
		Quantity:      request.Quantity,
		CustomerEmail: request.CustomerEmail,
		PromoCode:     request.PromoCode,
	})
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, reservationResponse{
		Order:     result.Order,
		Remaining: result.Remaining,
	})
}

func (h handler) GetOrder(c echo.Context) error {
	order, err := h.deps.OrderRepo.Get(c.Request().Context(), c.Param("order_id"))
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, order)
}
