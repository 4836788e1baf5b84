package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type checkInRequest struct {
	OperatorID string `json:"operator_id"`
}

func (h handler) CheckInTicket(c echo.Context) error {
	var request checkInRequest
	if err := c.Bind(&request); err != nil {
		return badRequest("failed to parse request", err)
	}
	if request.OperatorID == "" {
		return badRequest("operator_id is required", nil)
	}

	ticket, err := h.deps.TicketRepo.CheckIn(c.Request().Context(), c.Param("ticket_id"), request.OperatorID, correlationID(c))
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, ticket)
}

func (h handler) ListTickets(c echo.Context) error {
	tickets, err := h.deps.TicketRepo.ListByEvent(c.Request().Context(), c.Param("event_id"))
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{"tickets": tickets})
}
