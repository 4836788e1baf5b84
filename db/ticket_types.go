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

var (
	ErrTicketTypeNotFound   = errors.New("ticket type not found")
	ErrSoldOut              = errors.New("not enough tickets remaining")
	ErrSalesWindowClosed    = errors.New("ticket type is not on sale")
	ErrExceedsPerOrderLimit = errors.New("quantity exceeds per-order limit")
)

func CreateTicketTypesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS ticket_types (
		ticket_type_id UUID PRIMARY KEY,
		event_id UUID NOT NULL,
		name VARCHAR(255) NOT NULL,
		price_amount NUMERIC(10, 2) NOT NULL,
		price_currency CHAR(3) NOT NULL,
		quantity_available INTEGER NOT NULL,
		quantity_sold INTEGER NOT NULL DEFAULT 0,
		max_per_order INTEGER,
		sale_starts_at TIMESTAMP WITH TIME ZONE,
		sale_ends_at TIMESTAMP WITH TIME ZONE,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		CONSTRAINT quantity_sold_within_available CHECK (quantity_sold <= quantity_available)
	);`)
	return err
}

type TicketTypeRepo struct {
	db *sqlx.DB
}

func NewTicketTypeRepo(db *sqlx.DB) TicketTypeRepo {
	return TicketTypeRepo{
		db: db,
	}
}

func (r TicketTypeRepo) Add(ctx context.Context, t entity.TicketType) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO ticket_types
		(ticket_type_id, event_id, name, price_amount, price_currency,
		quantity_available, quantity_sold, max_per_order, sale_starts_at, sale_ends_at, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`,
		t.TicketTypeID, t.EventID, t.Name, t.Price.Amount, t.Price.Currency,
		t.QuantityAvailable, t.QuantitySold, t.MaxPerOrder, t.SaleStartsAt, t.SaleEndsAt, t.Active)
	return err
}

func (r TicketTypeRepo) Get(ctx context.Context, ticketTypeID string) (entity.TicketType, error) {
	return getTicketType(ctx, r.db, ticketTypeID)
}

func (r TicketTypeRepo) ListByEvent(ctx context.Context, eventID string) ([]entity.TicketType, error) {
	rows, err := r.db.QueryxContext(ctx, ticketTypeColumns+` FROM ticket_types
		WHERE event_id = $1 ORDER BY name`, eventID)
	if err != nil {
		return nil, fmt.Errorf("querying ticket types: %w", err)
	}
	defer rows.Close()

	var types []entity.TicketType
	for rows.Next() {
		t, err := scanTicketType(rows)
		if err != nil {
			return nil, err
		}

		types = append(types, t)
	}

	return types, rows.Err()
}

const ticketTypeColumns = `SELECT ticket_type_id, event_id, name, price_amount, price_currency,
	quantity_available, quantity_sold, max_per_order, sale_starts_at, sale_ends_at, active`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicketType(row rowScanner) (entity.TicketType, error) {
	var t entity.TicketType
	err := row.Scan(&t.TicketTypeID, &t.EventID, &t.Name, &t.Price.Amount, &t.Price.Currency,
		&t.QuantityAvailable, &t.QuantitySold, &t.MaxPerOrder, &t.SaleStartsAt, &t.SaleEndsAt, &t.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.TicketType{}, ErrTicketTypeNotFound
	}
	if err != nil {
		return entity.TicketType{}, fmt.Errorf("scanning ticket type: %w", err)
	}

	return t, nil
}

func getTicketType(ctx context.Context, q sqlx.QueryerContext, ticketTypeID string) (entity.TicketType, error) {
	row := q.QueryRowxContext(ctx, ticketTypeColumns+` FROM ticket_types
		WHERE ticket_type_id = $1`, ticketTypeID)
	return scanTicketType(row)
}

// commitQuantity increments quantity_sold as a single conditional update so
// concurrent purchasers cannot oversell. Zero rows affected means the
// remaining capacity is below the requested quantity.
func commitQuantity(ctx context.Context, tx *sqlx.Tx, ticketTypeID string, quantity uint) (remaining uint, err error) {
	row := tx.QueryRowxContext(ctx, `UPDATE ticket_types
		SET quantity_sold = quantity_sold + $1
		WHERE ticket_type_id = $2 AND quantity_sold + $1 <= quantity_available
		RETURNING quantity_available - quantity_sold`, quantity, ticketTypeID)

	if err := row.Scan(&remaining); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrSoldOut
		}
		return 0, fmt.Errorf("committing reserved quantity: %w", err)
	}

	return remaining, nil
}
