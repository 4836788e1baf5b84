package http

import (
	"net/http"

	"stepperslife/command"
	"stepperslife/entity"

	"github.com/labstack/echo/v4"
)

type paymentWebhookRequest struct {
	OrderID        string `json:"order_id"`
	Status         string `json:"status"`
	IdempotencyKey string `json:"idempotency_key"`
}

// PaymentWebhook drives the order payment state machine from the payment
// provider's callbacks. Providers redeliver, so the idempotency key from the
// provider is preferred over a generated one.
func (h handler) PaymentWebhook(c echo.Context) error {
	var request paymentWebhookRequest
	if err := c.Bind(&request); err != nil {
		return badRequest("failed to parse request", err)
	}
	if request.OrderID == "" {
		return badRequest("order_id is required", nil)
	}

	idempotencyKey := request.IdempotencyKey
	if idempotencyKey == "" {
		idempotencyKey = request.OrderID
	}

	ctx := c.Request().Context()

	switch request.Status {
	case entity.PaymentStatusCompleted:
		if err := h.deps.OrderRepo.ConfirmPayment(ctx, request.OrderID, idempotencyKey); err != nil {
			return domainError(err)
		}
	case entity.PaymentStatusFailed:
		if err := h.deps.OrderRepo.FailPayment(ctx, request.OrderID); err != nil {
			return domainError(err)
		}
	default:
		return badRequest("status must be completed or failed", nil)
	}

	return c.NoContent(http.StatusOK)
}

func (h handler) RefundOrder(c echo.Context) error {
	ctx := c.Request().Context()
	orderID := c.Param("order_id")

	if _, err := h.deps.OrderRepo.Get(ctx, orderID); err != nil {
		return domainError(err)
	}

	cmd := command.NewRefundOrder(correlationID(c), orderID)
	if err := h.deps.CommandBus.Send(ctx, cmd); err != nil {
		return &echo.HTTPError{
			Code:     http.StatusInternalServerError,
			Message:  http.StatusText(http.StatusInternalServerError),
			Internal: err,
		}
	}

	return c.NoContent(http.StatusAccepted)
}

func (h handler) GetRevenue(c echo.Context) error {
	revenue, err := h.deps.RevenueRepo.Get(c.Request().Context(), c.Param("event_id"))
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, revenue)
}
