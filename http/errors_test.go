package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"stepperslife/db"
	"stepperslife/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError(t *testing.T) {
	tests := []struct {
		err        error
		wantCode   string
		wantStatus int
	}{
		{db.ErrEventNotFound, "NotFound", http.StatusNotFound},
		{db.ErrTicketTypeNotFound, "NotFound", http.StatusNotFound},
		{db.ErrSoldOut, "SoldOut", http.StatusConflict},
		{db.ErrSalesWindowClosed, "SalesWindowClosed", http.StatusConflict},
		{db.ErrExceedsPerOrderLimit, "ExceedsPerOrderLimit", http.StatusUnprocessableEntity},
		{db.ErrEventFull, "EventFull", http.StatusConflict},
		{entity.ErrPromoInactive, "Inactive", http.StatusConflict},
		{entity.ErrPromoExpired, "Expired", http.StatusConflict},
		{entity.ErrPromoNotYetValid, "NotYetValid", http.StatusConflict},
		{entity.ErrPromoUsageLimitReached, "UsageLimitReached", http.StatusConflict},
		{entity.ErrPromoBelowMinimumOrder, "BelowMinimumOrder", http.StatusUnprocessableEntity},
		{db.ErrAlreadyCheckedIn, "AlreadyCheckedIn", http.StatusConflict},
		{db.ErrTicketNotPaid, "OrderNotPaid", http.StatusConflict},
		{db.ErrRSVPNotConfirmed, "RSVPNotConfirmed", http.StatusConflict},
		{db.ErrInvalidPaymentTransition, "InvalidPaymentTransition", http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode+"_"+tt.err.Error(), func(t *testing.T) {
			httpErr := domainError(tt.err)

			assert.Equal(t, tt.wantStatus, httpErr.Code)

			body, ok := httpErr.Message.(errorBody)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestDomainError_WrappedErrorsStillClassify(t *testing.T) {
	wrapped := fmt.Errorf("reserving tickets: %w", db.ErrSoldOut)

	httpErr := domainError(wrapped)

	assert.Equal(t, http.StatusConflict, httpErr.Code)
}

func TestDomainError_UnknownErrorIsInternal(t *testing.T) {
	httpErr := domainError(errors.New("connection reset"))

	assert.Equal(t, http.StatusInternalServerError, httpErr.Code)
	// the underlying cause must not leak into the response body
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), httpErr.Message)
}
