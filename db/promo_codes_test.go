package db_test

import (
	"context"
	"testing"

	"stepperslife/db"
	"stepperslife/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPromoCode(t *testing.T, eventID string, mutate func(*entity.PromoCode)) entity.PromoCode {
	t.Helper()

	promo := entity.PromoCode{
		PromoCodeID:   uuid.NewString(),
		EventID:       eventID,
		Code:          "EARLYBIRD",
		DiscountType:  entity.DiscountFixed,
		DiscountValue: decimal.NewFromInt(5),
		Active:        true,
	}
	if mutate != nil {
		mutate(&promo)
	}

	require.NoError(t, db.NewPromoCodeRepo(dbConn).Add(context.Background(), promo))

	return promo
}

func TestPromoCodeRepo_GetByCode_CaseInsensitive(t *testing.T) {
	ctx := context.Background()
	event := createEvent(t, nil, false)
	promo := createPromoCode(t, event.EventID, nil)

	repo := db.NewPromoCodeRepo(dbConn)

	for _, code := range []string{"EARLYBIRD", "earlybird", "EarlyBird"} {
		got, err := repo.GetByCode(ctx, event.EventID, code)
		require.NoError(t, err)
		assert.Equal(t, promo.PromoCodeID, got.PromoCodeID)
	}
}

func TestPromoCodeRepo_GetByCode_ScopedToEvent(t *testing.T) {
	ctx := context.Background()
	event := createEvent(t, nil, false)
	otherEvent := createEvent(t, nil, false)
	createPromoCode(t, event.EventID, nil)

	_, err := db.NewPromoCodeRepo(dbConn).GetByCode(ctx, otherEvent.EventID, "EARLYBIRD")
	assert.ErrorIs(t, err, db.ErrPromoNotFound)
}

func TestPromoCodeRepo_GetByCode_RoundTripsMinOrderAmount(t *testing.T) {
	ctx := context.Background()
	event := createEvent(t, nil, false)
	minOrder := decimal.RequireFromString("40.00")
	createPromoCode(t, event.EventID, func(p *entity.PromoCode) {
		p.MinOrderAmount = &minOrder
	})

	got, err := db.NewPromoCodeRepo(dbConn).GetByCode(ctx, event.EventID, "EARLYBIRD")
	require.NoError(t, err)
	require.NotNil(t, got.MinOrderAmount)
	assert.True(t, got.MinOrderAmount.Equal(minOrder))
}

func TestPromoCodeRepo_ListByEvent(t *testing.T) {
	ctx := context.Background()
	event := createEvent(t, nil, false)
	createPromoCode(t, event.EventID, func(p *entity.PromoCode) { p.Code = "BRAVO" })
	createPromoCode(t, event.EventID, func(p *entity.PromoCode) { p.Code = "ALPHA" })

	codes, err := db.NewPromoCodeRepo(dbConn).ListByEvent(ctx, event.EventID)
	require.NoError(t, err)
	require.Len(t, codes, 2)
	assert.Equal(t, "ALPHA", codes[0].Code)
	assert.Equal(t, "BRAVO", codes[1].Code)
}

// The last use of a code is consumed when payment completes, not when the
// order is priced, so two pending orders can hold the same final use and only
// one of them may complete with the discount.
func TestPromoCode_LastUseConsumedAtPayment(t *testing.T) {
	ctx := context.Background()
	event := createEvent(t, nil, false)
	ticketType := createTicketType(t, event.EventID, 100, nil)
	maxUses := uint(1)
	createPromoCode(t, event.EventID, func(p *entity.PromoCode) {
		p.MaxUses = &maxUses
	})

	reservations := db.NewReservationRepo(dbConn, logger)
	orders := db.NewOrderRepo(dbConn, logger)

	reserve := func(email string) entity.Order {
		result, err := reservations.Reserve(ctx, db.Reservation{
			OrderID:       uuid.NewString(),
			EventID:       event.EventID,
			TicketTypeID:  ticketType.TicketTypeID,
			Quantity:      1,
			CustomerEmail: email,
			PromoCode:     "EARLYBIRD",
		})
		require.NoError(t, err)
		return result.Order
	}

	first := reserve("first@example.com")
	second := reserve("second@example.com")

	require.NoError(t, orders.ConfirmPayment(ctx, first.OrderID, uuid.NewString()))

	err := orders.ConfirmPayment(ctx, second.OrderID, uuid.NewString())
	assert.ErrorIs(t, err, entity.ErrPromoUsageLimitReached)

	got, err := db.NewPromoCodeRepo(dbConn).GetByCode(ctx, event.EventID, "EARLYBIRD")
	require.NoError(t, err)
	assert.Equal(t, uint(1), got.UsedCount)
}
