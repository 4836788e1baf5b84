package entity_test

import (
	"testing"

	"stepperslife/entity"

	"github.com/stretchr/testify/assert"
)

func TestNextPaymentStatus(t *testing.T) {
	tests := []struct {
		current string
		next    string
		want    bool
	}{
		{entity.PaymentStatusPending, entity.PaymentStatusCompleted, true},
		{entity.PaymentStatusPending, entity.PaymentStatusFailed, true},
		{entity.PaymentStatusCompleted, entity.PaymentStatusRefunded, true},
		{entity.PaymentStatusPending, entity.PaymentStatusRefunded, false},
		{entity.PaymentStatusFailed, entity.PaymentStatusCompleted, false},
		{entity.PaymentStatusRefunded, entity.PaymentStatusCompleted, false},
		{entity.PaymentStatusCompleted, entity.PaymentStatusFailed, false},
		{entity.PaymentStatusCompleted, entity.PaymentStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.current+"_to_"+tt.next, func(t *testing.T) {
			assert.Equal(t, tt.want, entity.NextPaymentStatus(tt.current, tt.next))
		})
	}
}
