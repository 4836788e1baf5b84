package db_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"stepperslife/db"
	"stepperslife/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationRepo_Reserve(t *testing.T) {
	ctx := context.Background()
	event := createEvent(t, nil, false)
	ticketType := createTicketType(t, event.EventID, 10, nil)

	repo := db.NewReservationRepo(dbConn, logger)

	result, err := repo.Reserve(ctx, db.Reservation{
		OrderID:       uuid.NewString(),
		EventID:       event.EventID,
		TicketTypeID:  ticketType.TicketTypeID,
		Quantity:      2,
		CustomerEmail: "dancer@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, uint(8), result.Remaining)
	assert.Equal(t, entity.PaymentStatusPending, result.Order.PaymentStatus)
	assert.Equal(t, "45.00", result.Order.Subtotal.Amount)
	assert.Equal(t, "0.00", result.Order.Discount.Amount)
	assert.Equal(t, "45.00", result.Order.Total.Amount)
	assert.Equal(t, "USD", result.Order.Total.Currency)

	stored, err := db.NewTicketTypeRepo(dbConn).Get(ctx, ticketType.TicketTypeID)
	require.NoError(t, err)
	assert.Equal(t, uint(2), stored.QuantitySold)

	tickets, err := db.NewTicketRepo(dbConn, logger).ListByEvent(ctx, event.EventID)
	require.NoError(t, err)
	assert.Len(t, tickets, 2)
}

func TestReservationRepo_Reserve_WithPromoCode(t *testing.T) {
	ctx := context.Background()
	event := createEvent(t, nil, false)
	ticketType := createTicketType(t, event.EventID, 10, nil)

	promo := entity.PromoCode{
		PromoCodeID:   uuid.NewString(),
		EventID:       event.EventID,
		Code:          "STEPPER20",
		DiscountType:  entity.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(20),
		Active:        true,
	}
	require.NoError(t, db.NewPromoCodeRepo(dbConn).Add(ctx, promo))

	result, err := db.NewReservationRepo(dbConn, logger).Reserve(ctx, db.Reservation{
		OrderID:       uuid.NewString(),
		EventID:       event.EventID,
		TicketTypeID:  ticketType.TicketTypeID,
		Quantity:      2,
		CustomerEmail: "dancer@example.com",
		PromoCode:     "stepper20",
	})
	require.NoError(t, err)

	assert.Equal(t, "45.00", result.Order.Subtotal.Amount)
	assert.Equal(t, "9.00", result.Order.Discount.Amount)
	assert.Equal(t, "36.00", result.Order.Total.Amount)
	require.NotNil(t, result.Order.PromoCodeID)
	assert.Equal(t, promo.PromoCodeID, *result.Order.PromoCodeID)

	// pricing the order does not consume a use yet
	stored, err := db.NewPromoCodeRepo(dbConn).GetByCode(ctx, event.EventID, "STEPPER20")
	require.NoError(t, err)
	assert.Equal(t, uint(0), stored.UsedCount)
}

func TestReservationRepo_Reserve_SoldOut(t *testing.T) {
	ctx := context.Background()
	event := createEvent(t, nil, false)
	ticketType := createTicketType(t, event.EventID, 5, nil)

	repo := db.NewReservationRepo(dbConn, logger)

	_, err := repo.Reserve(ctx, db.Reservation{
		OrderID:       uuid.NewString(),
		EventID:       event.EventID,
		TicketTypeID:  ticketType.TicketTypeID,
		Quantity:      3,
		CustomerEmail: "first@example.com",
	})
	require.NoError(t, err)

	_, err = repo.Reserve(ctx, db.Reservation{
		OrderID:       uuid.NewString(),
		EventID:       event.EventID,
		TicketTypeID:  ticketType.TicketTypeID,
		Quantity:      3,
		CustomerEmail: "second@example.com",
	})
	assert.ErrorIs(t, err, db.ErrSoldOut)

	// the failed reservation must not leave a partial order behind
	stored, err := db.NewTicketTypeRepo(dbConn).Get(ctx, ticketType.TicketTypeID)
	require.NoError(t, err)
	assert.Equal(t, uint(3), stored.QuantitySold)

	tickets, err := db.NewTicketRepo(dbConn, logger).ListByEvent(ctx, event.EventID)
	require.NoError(t, err)
	assert.Len(t, tickets, 3)
}

func TestReservationRepo_Reserve_ExceedsPerOrderLimit(t *testing.T) {
	ctx := context.Background()
	event := createEvent(t, nil, false)
	maxPerOrder := uint(4)
	ticketType := createTicketType(t, event.EventID, 100, func(tt *entity.TicketType) {
		tt.MaxPerOrder = &maxPerOrder
	})

	_, err := db.NewReservationRepo(dbConn, logger).Reserve(ctx, db.Reservation{
		OrderID:       uuid.NewString(),
		EventID:       event.EventID,
		TicketTypeID:  ticketType.TicketTypeID,
		Quantity:      5,
		CustomerEmail: "greedy@example.com",
	})
	assert.ErrorIs(t, err, db.ErrExceedsPerOrderLimit)

	// the rejected reservation must not hold any inventory
	stored, err := db.NewTicketTypeRepo(dbConn).Get(ctx, ticketType.TicketTypeID)
	require.NoError(t, err)
	assert.Equal(t, uint(0), stored.QuantitySold)
}

func TestReservationRepo_Reserve_CapacityCheckedBeforePerOrderLimit(t *testing.T) {
	ctx := context.Background()
	event := createEvent(t, nil, false)
	maxPerOrder := uint(4)
	ticketType := createTicketType(t, event.EventID, 2, func(tt *entity.TicketType) {
		tt.MaxPerOrder = &maxPerOrder
	})

	// violates both capacity and the per-order limit
	_, err := db.NewReservationRepo(dbConn, logger).Reserve(ctx, db.Reservation{
		OrderID:       uuid.NewString(),
		EventID:       event.EventID,
		TicketTypeID:  ticketType.TicketTypeID,
		Quantity:      6,
		CustomerEmail: "greedy@example.com",
	})
	assert.ErrorIs(t, err, db.ErrSoldOut)
}

func TestReservationRepo_Reserve_SalesWindowClosed(t *testing.T) {
	ctx := context.Background()
	event := createEvent(t, nil, false)
	saleEnded := time.Now().Add(-time.Hour)
	ticketType := createTicketType(t, event.EventID, 100, func(tt *entity.TicketType) {
		tt.SaleEndsAt = &saleEnded
	})

	_, err := db.NewReservationRepo(dbConn, logger).Reserve(ctx, db.Reservation{
		OrderID:       uuid.NewString(),
		EventID:       event.EventID,
		TicketTypeID:  ticketType.TicketTypeID,
		Quantity:      1,
		CustomerEmail: "late@example.com",
	})
	assert.ErrorIs(t, err, db.ErrSalesWindowClosed)
}

func TestReservationRepo_Reserve_WrongEvent(t *testing.T) {
	ctx := context.Background()
	event := createEvent(t, nil, false)
	otherEvent := createEvent(t, nil, false)
	ticketType := createTicketType(t, event.EventID, 100, nil)

	_, err := db.NewReservationRepo(dbConn, logger).Reserve(ctx, db.Reservation{
		OrderID:       uuid.NewString(),
		EventID:       otherEvent.EventID,
		TicketTypeID:  ticketType.TicketTypeID,
		Quantity:      1,
		CustomerEmail: "lost@example.com",
	})
	assert.ErrorIs(t, err, db.ErrTicketTypeNotFound)
}

func TestReservationRepo_Reserve_ConcurrentNeverOversells(t *testing.T) {
	ctx := context.Background()
	event := createEvent(t, nil, false)
	ticketType := createTicketType(t, event.EventID, 10, nil)

	repo := db.NewReservationRepo(dbConn, logger)

	const attempts = 20
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Reserve(ctx, db.Reservation{
				OrderID:       uuid.NewString(),
				EventID:       event.EventID,
				TicketTypeID:  ticketType.TicketTypeID,
				Quantity:      1,
				CustomerEmail: "rush@example.com",
			})
		}(i)
	}
	wg.Wait()

	var succeeded, soldOut int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorIs(t, err, db.ErrSoldOut):
			soldOut++
		}
	}

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, attempts-10, soldOut)

	stored, err := db.NewTicketTypeRepo(dbConn).Get(ctx, ticketType.TicketTypeID)
	require.NoError(t, err)
	assert.Equal(t, uint(10), stored.QuantitySold)
}
