package db

import (
	"context"
	"fmt"
	"time"

	"stepperslife/entity"
	"stepperslife/event"
	"stepperslife/message"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Reservation struct {
	OrderID       string
	EventID       string
	TicketTypeID  string
	Quantity      uint
	CustomerEmail string
	PromoCode     string
}

type ReservationResult struct {
	Order     entity.Order
	Remaining uint
}

type ReservationRepo struct {
	db     *sqlx.DB
	logger watermill.LoggerAdapter
}

func NewReservationRepo(db *sqlx.DB, logger watermill.LoggerAdapter) ReservationRepo {
	return ReservationRepo{
		db:     db,
		logger: logger,
	}
}

// Reserve commits inventory for the requested quantity and creates a pending
// order with its tickets, all in one transaction. The quantity commit is a
// single conditional update, so two concurrent purchasers can never take the
// ticket type past its capacity. A promo code is validated and priced here
// but only consumed when the payment completes.
func (r ReservationRepo) Reserve(ctx context.Context, res Reservation) (ReservationResult, error) {
	var result ReservationResult

	err := inTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		t, err := getTicketType(ctx, tx, res.TicketTypeID)
		if err != nil {
			return err
		}
		if t.EventID != res.EventID {
			return ErrTicketTypeNotFound
		}

		now := time.Now()
		if !t.SaleOpen(now) {
			return ErrSalesWindowClosed
		}

		// Preconditions run window, capacity, per-order limit in that
		// order. The rollback undoes the committed quantity when the
		// limit rejects.
		remaining, err := commitQuantity(ctx, tx, res.TicketTypeID, res.Quantity)
		if err != nil {
			return err
		}

		if t.MaxPerOrder != nil && res.Quantity > *t.MaxPerOrder {
			return ErrExceedsPerOrderLimit
		}

		price, err := decimal.NewFromString(t.Price.Amount)
		if err != nil {
			return fmt.Errorf("parsing ticket price: %w", err)
		}
		subtotal := price.Mul(decimal.NewFromInt(int64(res.Quantity)))
		total := subtotal

		var promoCodeID *string
		if res.PromoCode != "" {
			p, err := getPromoCodeByCode(ctx, tx, res.EventID, res.PromoCode)
			if err != nil {
				return err
			}
			if err := p.Validate(now, subtotal); err != nil {
				return err
			}

			total = p.Apply(subtotal)
			promoCodeID = &p.PromoCodeID
		}

		order := entity.Order{
			OrderID:       res.OrderID,
			EventID:       res.EventID,
			TicketTypeID:  res.TicketTypeID,
			Quantity:      res.Quantity,
			CustomerEmail: res.CustomerEmail,
			Subtotal:      entity.Money{Amount: subtotal.StringFixed(2), Currency: t.Price.Currency},
			Discount:      entity.Money{Amount: subtotal.Sub(total).StringFixed(2), Currency: t.Price.Currency},
			Total:         entity.Money{Amount: total.StringFixed(2), Currency: t.Price.Currency},
			PromoCodeID:   promoCodeID,
			PaymentStatus: entity.PaymentStatusPending,
			CreatedAt:     now.UTC(),
		}

		if err := insertOrder(ctx, tx, order); err != nil {
			return err
		}

		for i := uint(0); i < order.Quantity; i++ {
			if _, err := tx.ExecContext(ctx, `INSERT INTO tickets
				(ticket_id, order_id, event_id, customer_email)
				VALUES ($1, $2, $3, $4);`,
				uuid.NewString(), order.OrderID, order.EventID, order.CustomerEmail); err != nil {
				return fmt.Errorf("inserting ticket: %w", err)
			}
		}

		e := event.NewReservationMade(order.OrderID, order)

		if err := message.PublishInTx(ctx, e, tx.Tx, r.logger); err != nil {
			return fmt.Errorf("publishing reservation made: %w", err)
		}

		result = ReservationResult{
			Order:     order,
			Remaining: remaining,
		}

		return nil
	})
	if err != nil {
		return ReservationResult{}, err
	}

	return result, nil
}

func insertOrder(ctx context.Context, tx *sqlx.Tx, o entity.Order) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO orders
		(order_id, event_id, ticket_type_id, quantity, customer_email,
		subtotal_amount, discount_amount, total_amount, currency,
		promo_code_id, payment_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`,
		o.OrderID, o.EventID, o.TicketTypeID, o.Quantity, o.CustomerEmail,
		o.Subtotal.Amount, o.Discount.Amount, o.Total.Amount, o.Total.Currency,
		o.PromoCodeID, o.PaymentStatus, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	return nil
}
