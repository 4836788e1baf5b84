package http

import (
	"errors"
	"net/http"

	"stepperslife/db"
	"stepperslife/entity"

	"github.com/labstack/echo/v4"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// domainError maps a closed-taxonomy domain failure onto an HTTP status and a
// machine-readable code. The text is display-only; callers branch on the code.
func domainError(err error) *echo.HTTPError {
	code, status := classify(err)
	if code == "" {
		return &echo.HTTPError{
			Code:     http.StatusInternalServerError,
			Message:  http.StatusText(http.StatusInternalServerError),
			Internal: err,
		}
	}

	return &echo.HTTPError{
		Code: status,
		Message: errorBody{
			Code:    code,
			Message: err.Error(),
		},
		Internal: err,
	}
}

func classify(err error) (string, int) {
	switch {
	case errors.Is(err, db.ErrEventNotFound),
		errors.Is(err, db.ErrTicketTypeNotFound),
		errors.Is(err, db.ErrRSVPNotFound),
		errors.Is(err, db.ErrOrderNotFound),
		errors.Is(err, db.ErrTicketNotFound),
		errors.Is(err, db.ErrRevenueNotFound),
		errors.Is(err, db.ErrPromoNotFound):
		return "NotFound", http.StatusNotFound
	case errors.Is(err, db.ErrSoldOut):
		return "SoldOut", http.StatusConflict
	case errors.Is(err, db.ErrSalesWindowClosed):
		return "SalesWindowClosed", http.StatusConflict
	case errors.Is(err, db.ErrExceedsPerOrderLimit):
		return "ExceedsPerOrderLimit", http.StatusUnprocessableEntity
	case errors.Is(err, db.ErrEventFull):
		return "EventFull", http.StatusConflict
	case errors.Is(err, entity.ErrPromoInactive):
		return "Inactive", http.StatusConflict
	case errors.Is(err, entity.ErrPromoExpired):
		return "Expired", http.StatusConflict
	case errors.Is(err, entity.ErrPromoNotYetValid):
		return "NotYetValid", http.StatusConflict
	case errors.Is(err, entity.ErrPromoUsageLimitReached):
		return "UsageLimitReached", http.StatusConflict
	case errors.Is(err, entity.ErrPromoBelowMinimumOrder):
		return "BelowMinimumOrder", http.StatusUnprocessableEntity
	case errors.Is(err, db.ErrAlreadyCheckedIn):
		return "AlreadyCheckedIn", http.StatusConflict
	case errors.Is(err, db.ErrTicketNotPaid):
		return "OrderNotPaid", http.StatusConflict
	case errors.Is(err, db.ErrRSVPNotConfirmed):
		return "RSVPNotConfirmed", http.StatusConflict
	case errors.Is(err, db.ErrInvalidPaymentTransition):
		return "InvalidPaymentTransition", http.StatusConflict
	}

	return "", 0
}

func badRequest(message string, internal error) *echo.HTTPError {
	return &echo.HTTPError{
		Code: http.StatusBadRequest,
		Message: errorBody{
			Code:    "BadRequest",
			Message: message,
		},
		Internal: internal,
	}
}
