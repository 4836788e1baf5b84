package entity_test

import (
	"testing"
	"time"

	"stepperslife/entity"

	"github.com/stretchr/testify/assert"
)

func TestTicketType_Remaining(t *testing.T) {
	tt := entity.TicketType{QuantityAvailable: 100, QuantitySold: 30}
	assert.Equal(t, uint(70), tt.Remaining())

	soldOut := entity.TicketType{QuantityAvailable: 100, QuantitySold: 100}
	assert.Equal(t, uint(0), soldOut.Remaining())
}

func TestTicketType_SaleOpen(t *testing.T) {
	now := time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	tests := []struct {
		name string
		tt   entity.TicketType
		want bool
	}{
		{
			name: "active with no window",
			tt:   entity.TicketType{Active: true},
			want: true,
		},
		{
			name: "inactive",
			tt:   entity.TicketType{Active: false},
			want: false,
		},
		{
			name: "within window",
			tt:   entity.TicketType{Active: true, SaleStartsAt: &before, SaleEndsAt: &after},
			want: true,
		},
		{
			name: "before window opens",
			tt:   entity.TicketType{Active: true, SaleStartsAt: &after},
			want: false,
		},
		{
			name: "after window closes",
			tt:   entity.TicketType{Active: true, SaleEndsAt: &before},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tt.SaleOpen(now))
		})
	}
}
