package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type createRSVPRequest struct {
	CustomerEmail string `json:"customer_email"`
}

func (h handler) CreateRSVP(c echo.Context) error {
	var request createRSVPRequest
	if err := c.Bind(&request); err != nil {
		return badRequest("failed to parse request", err)
	}
	if request.CustomerEmail == "" {
		return badRequest("customer_email is required", nil)
	}

	rsvp, err := h.deps.RSVPRepo.Create(c.Request().Context(), uuid.NewString(), c.Param("event_id"), request.CustomerEmail)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, rsvp)
}

type cancelRSVPResponse struct {
	PromotedRSVPID string `json:"promoted_rsvp_id,omitempty"`
}

func (h handler) CancelRSVP(c echo.Context) error {
	promotedID, err := h.deps.RSVPRepo.Cancel(c.Request().Context(), c.Param("rsvp_id"))
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, cancelRSVPResponse{
		PromotedRSVPID: promotedID,
	})
}

func (h handler) CheckInRSVP(c echo.Context) error {
	var request checkInRequest
	if err := c.Bind(&request); err != nil {
		return badRequest("failed to parse request", err)
	}
	if request.OperatorID == "" {
		return badRequest("operator_id is required", nil)
	}

	rsvp, err := h.deps.RSVPRepo.CheckIn(c.Request().Context(), c.Param("rsvp_id"), request.OperatorID, correlationID(c))
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, rsvp)
}
