package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stepperslife/entity"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

var ErrRevenueNotFound = errors.New("no revenue recorded for event")

func CreateEventRevenueTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS event_revenue (
		event_id UUID PRIMARY KEY,
		currency CHAR(3) NOT NULL,
		orders_count INTEGER NOT NULL DEFAULT 0,
		tickets_sold INTEGER NOT NULL DEFAULT 0,
		gross_amount NUMERIC(12, 2) NOT NULL DEFAULT 0,
		discount_amount NUMERIC(12, 2) NOT NULL DEFAULT 0,
		refunded_amount NUMERIC(12, 2) NOT NULL DEFAULT 0,
		last_update TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);
	CREATE TABLE IF NOT EXISTS event_revenue_entries (
		order_id UUID NOT NULL,
		kind VARCHAR(16) NOT NULL,
		PRIMARY KEY (order_id, kind)
	);`)
	return err
}

type RevenueRepo struct {
	db *sqlx.DB
}

func NewRevenueRepo(db *sqlx.DB) RevenueRepo {
	return RevenueRepo{
		db: db,
	}
}

// RecordOrderConfirmed folds a confirmed order into the per-event aggregate.
// Each order is applied at most once, so redelivered events do not inflate
// the numbers.
func (r RevenueRepo) RecordOrderConfirmed(ctx context.Context, eventID, orderID string, quantity uint, gross, discount entity.Money) error {
	return inTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		applied, err := markEntry(ctx, tx, orderID, "confirmed")
		if err != nil || !applied {
			return err
		}

		_, err = tx.ExecContext(ctx, `INSERT INTO event_revenue
			(event_id, currency, orders_count, tickets_sold, gross_amount, discount_amount)
			VALUES ($1, $2, 1, $3, $4, $5)
			ON CONFLICT (event_id) DO UPDATE SET
				orders_count = event_revenue.orders_count + 1,
				tickets_sold = event_revenue.tickets_sold + EXCLUDED.tickets_sold,
				gross_amount = event_revenue.gross_amount + EXCLUDED.gross_amount,
				discount_amount = event_revenue.discount_amount + EXCLUDED.discount_amount,
				last_update = now();`,
			eventID, gross.Currency, quantity, gross.Amount, discount.Amount)
		if err != nil {
			return fmt.Errorf("upserting event revenue: %w", err)
		}

		return nil
	})
}

func (r RevenueRepo) RecordOrderRefunded(ctx context.Context, eventID, orderID string, amount entity.Money) error {
	return inTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		applied, err := markEntry(ctx, tx, orderID, "refunded")
		if err != nil || !applied {
			return err
		}

		_, err = tx.ExecContext(ctx, `INSERT INTO event_revenue
			(event_id, currency, refunded_amount)
			VALUES ($1, $2, $3)
			ON CONFLICT (event_id) DO UPDATE SET
				refunded_amount = event_revenue.refunded_amount + EXCLUDED.refunded_amount,
				last_update = now();`,
			eventID, amount.Currency, amount.Amount)
		if err != nil {
			return fmt.Errorf("upserting refunded amount: %w", err)
		}

		return nil
	})
}

func (r RevenueRepo) Get(ctx context.Context, eventID string) (entity.EventRevenue, error) {
	row := r.db.QueryRowxContext(ctx, `SELECT event_id, currency, orders_count, tickets_sold,
		gross_amount, discount_amount, refunded_amount, last_update
		FROM event_revenue WHERE event_id = $1`, eventID)

	var rev entity.EventRevenue
	err := row.Scan(&rev.EventID, &rev.Currency, &rev.OrdersCount, &rev.TicketsSold,
		&rev.GrossAmount, &rev.DiscountAmount, &rev.RefundedAmount, &rev.LastUpdate)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.EventRevenue{}, ErrRevenueNotFound
	}
	if err != nil {
		return entity.EventRevenue{}, fmt.Errorf("scanning event revenue: %w", err)
	}

	return rev, nil
}

func markEntry(ctx context.Context, tx *sqlx.Tx, orderID, kind string) (bool, error) {
	res, err := tx.ExecContext(ctx, `INSERT INTO event_revenue_entries (order_id, kind)
		VALUES ($1, $2) ON CONFLICT DO NOTHING;`, orderID, kind)
	if err != nil {
		return false, fmt.Errorf("marking revenue entry: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}

	return n == 1, nil
}
