package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"stepperslife/entity"
	"stepperslife/event"
	"stepperslife/message"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

var (
	ErrOrderNotFound            = errors.New("order not found")
	ErrInvalidPaymentTransition = errors.New("invalid payment status transition")
	ErrTicketNotFound           = errors.New("ticket not found")
	ErrAlreadyCheckedIn         = errors.New("already checked in")
	ErrTicketNotPaid            = errors.New("ticket order is not paid")
)

func CreateOrdersTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS orders (
		order_id UUID PRIMARY KEY,
		event_id UUID NOT NULL,
		ticket_type_id UUID NOT NULL,
		quantity INTEGER NOT NULL,
		customer_email VARCHAR(255) NOT NULL,
		subtotal_amount NUMERIC(10, 2) NOT NULL,
		discount_amount NUMERIC(10, 2) NOT NULL DEFAULT 0,
		total_amount NUMERIC(10, 2) NOT NULL,
		currency CHAR(3) NOT NULL,
		promo_code_id UUID,
		payment_status VARCHAR(16) NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);`)
	return err
}

func CreateTicketsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS tickets (
		ticket_id UUID PRIMARY KEY,
		order_id UUID NOT NULL,
		event_id UUID NOT NULL,
		customer_email VARCHAR(255) NOT NULL,
		checked_in_at TIMESTAMP WITH TIME ZONE,
		checked_in_by VARCHAR(255)
	);`)
	return err
}

type OrderRepo struct {
	db     *sqlx.DB
	logger watermill.LoggerAdapter
}

func NewOrderRepo(db *sqlx.DB, logger watermill.LoggerAdapter) OrderRepo {
	return OrderRepo{
		db:     db,
		logger: logger,
	}
}

func (r OrderRepo) Get(ctx context.Context, orderID string) (entity.Order, error) {
	return getOrder(ctx, r.db, orderID, "")
}

const orderColumns = `SELECT order_id, event_id, ticket_type_id, quantity, customer_email,
	subtotal_amount, discount_amount, total_amount, currency,
	promo_code_id, payment_status, created_at`

func getOrder(ctx context.Context, q sqlx.QueryerContext, orderID, suffix string) (entity.Order, error) {
	row := q.QueryRowxContext(ctx, orderColumns+` FROM orders WHERE order_id = $1 `+suffix, orderID)

	var o entity.Order
	var currency string
	err := row.Scan(&o.OrderID, &o.EventID, &o.TicketTypeID, &o.Quantity, &o.CustomerEmail,
		&o.Subtotal.Amount, &o.Discount.Amount, &o.Total.Amount, &currency,
		&o.PromoCodeID, &o.PaymentStatus, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return entity.Order{}, fmt.Errorf("scanning order: %w", err)
	}

	o.Subtotal.Currency = currency
	o.Discount.Currency = currency
	o.Total.Currency = currency

	return o, nil
}

// ConfirmPayment moves a pending order to completed, consuming the attached
// promo code use in the same transaction. A webhook retry for an already
// completed order is a no-op.
func (r OrderRepo) ConfirmPayment(ctx context.Context, orderID, idempotencyKey string) error {
	return inTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		order, err := getOrder(ctx, tx, orderID, "FOR UPDATE")
		if err != nil {
			return err
		}

		if order.PaymentStatus == entity.PaymentStatusCompleted {
			return nil
		}
		if !entity.NextPaymentStatus(order.PaymentStatus, entity.PaymentStatusCompleted) {
			return ErrInvalidPaymentTransition
		}

		if order.PromoCodeID != nil {
			if err := redeemPromoCode(ctx, tx, *order.PromoCodeID); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx, `UPDATE orders SET payment_status = $1 WHERE order_id = $2`,
			entity.PaymentStatusCompleted, orderID); err != nil {
			return fmt.Errorf("updating payment status: %w", err)
		}

		ticketIDs, err := listTicketIDs(ctx, tx, orderID)
		if err != nil {
			return err
		}

		order.PaymentStatus = entity.PaymentStatusCompleted
		e := event.NewOrderConfirmed(idempotencyKey, order, ticketIDs)

		if err := message.PublishInTx(ctx, e, tx.Tx, r.logger); err != nil {
			return fmt.Errorf("publishing order confirmed: %w", err)
		}

		return nil
	})
}

// FailPayment moves a pending order to failed and releases the reserved
// inventory back to the ticket type.
func (r OrderRepo) FailPayment(ctx context.Context, orderID string) error {
	return inTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		order, err := getOrder(ctx, tx, orderID, "FOR UPDATE")
		if err != nil {
			return err
		}

		if order.PaymentStatus == entity.PaymentStatusFailed {
			return nil
		}
		if !entity.NextPaymentStatus(order.PaymentStatus, entity.PaymentStatusFailed) {
			return ErrInvalidPaymentTransition
		}

		if _, err := tx.ExecContext(ctx, `UPDATE orders SET payment_status = $1 WHERE order_id = $2`,
			entity.PaymentStatusFailed, orderID); err != nil {
			return fmt.Errorf("updating payment status: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `UPDATE ticket_types
			SET quantity_sold = quantity_sold - $1
			WHERE ticket_type_id = $2`, order.Quantity, order.TicketTypeID); err != nil {
			return fmt.Errorf("releasing reserved quantity: %w", err)
		}

		return nil
	})
}

// MarkRefunded moves a completed order to refunded. Refunding an already
// refunded order is a no-op so the refund command can be retried.
func (r OrderRepo) MarkRefunded(ctx context.Context, orderID, idempotencyKey string) error {
	return inTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		order, err := getOrder(ctx, tx, orderID, "FOR UPDATE")
		if err != nil {
			return err
		}

		if order.PaymentStatus == entity.PaymentStatusRefunded {
			return nil
		}
		if !entity.NextPaymentStatus(order.PaymentStatus, entity.PaymentStatusRefunded) {
			return ErrInvalidPaymentTransition
		}

		if _, err := tx.ExecContext(ctx, `UPDATE orders SET payment_status = $1 WHERE order_id = $2`,
			entity.PaymentStatusRefunded, orderID); err != nil {
			return fmt.Errorf("updating payment status: %w", err)
		}

		order.PaymentStatus = entity.PaymentStatusRefunded
		e := event.NewOrderRefunded(idempotencyKey, order)

		if err := message.PublishInTx(ctx, e, tx.Tx, r.logger); err != nil {
			return fmt.Errorf("publishing order refunded: %w", err)
		}

		return nil
	})
}

func listTicketIDs(ctx context.Context, tx *sqlx.Tx, orderID string) ([]string, error) {
	rows, err := tx.QueryxContext(ctx, `SELECT ticket_id FROM tickets WHERE order_id = $1 ORDER BY ticket_id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying tickets: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

type TicketRepo struct {
	db     *sqlx.DB
	logger watermill.LoggerAdapter
}

func NewTicketRepo(db *sqlx.DB, logger watermill.LoggerAdapter) TicketRepo {
	return TicketRepo{
		db:     db,
		logger: logger,
	}
}

func (r TicketRepo) Get(ctx context.Context, ticketID string) (entity.Ticket, error) {
	row := r.db.QueryRowxContext(ctx, `SELECT ticket_id, order_id, event_id, customer_email, checked_in_at, checked_in_by
		FROM tickets WHERE ticket_id = $1`, ticketID)

	var t entity.Ticket
	err := row.Scan(&t.TicketID, &t.OrderID, &t.EventID, &t.CustomerEmail, &t.CheckedInAt, &t.CheckedInBy)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Ticket{}, ErrTicketNotFound
	}
	if err != nil {
		return entity.Ticket{}, fmt.Errorf("scanning ticket: %w", err)
	}

	return t, nil
}

func (r TicketRepo) ListByEvent(ctx context.Context, eventID string) ([]entity.Ticket, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT ticket_id, order_id, event_id, customer_email, checked_in_at, checked_in_by
		FROM tickets WHERE event_id = $1 ORDER BY ticket_id`, eventID)
	if err != nil {
		return nil, fmt.Errorf("querying tickets: %w", err)
	}
	defer rows.Close()

	var tickets []entity.Ticket
	for rows.Next() {
		var t entity.Ticket
		if err := rows.Scan(&t.TicketID, &t.OrderID, &t.EventID, &t.CustomerEmail, &t.CheckedInAt, &t.CheckedInBy); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		tickets = append(tickets, t)
	}

	return tickets, rows.Err()
}

// CheckIn transitions a ticket to checked-in exactly once, recording the
// operator for the audit trail. Only tickets from a completed order may
// check in, so tickets left behind by failed or refunded payments are
// rejected at the door. A second attempt reports ErrAlreadyCheckedIn without
// touching the row.
func (r TicketRepo) CheckIn(ctx context.Context, ticketID, operatorID, idempotencyKey string) (entity.Ticket, error) {
	var checkedIn entity.Ticket

	err := inTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		row := tx.QueryRowxContext(ctx, `UPDATE tickets
			SET checked_in_at = now(), checked_in_by = $1
			FROM orders
			WHERE tickets.order_id = orders.order_id
				AND tickets.ticket_id = $2
				AND tickets.checked_in_at IS NULL
				AND orders.payment_status = $3
			RETURNING tickets.ticket_id, tickets.order_id, tickets.event_id,
				tickets.customer_email, tickets.checked_in_at, tickets.checked_in_by`,
			operatorID, ticketID, entity.PaymentStatusCompleted)

		var t entity.Ticket
		err := row.Scan(&t.TicketID, &t.OrderID, &t.EventID, &t.CustomerEmail, &t.CheckedInAt, &t.CheckedInBy)
		if errors.Is(err, sql.ErrNoRows) {
			return r.classifyCheckInConflict(ctx, tx, ticketID)
		}
		if err != nil {
			return fmt.Errorf("checking in ticket: %w", err)
		}

		var checkedInAt time.Time
		if t.CheckedInAt != nil {
			checkedInAt = *t.CheckedInAt
		}
		e := event.NewAttendeeCheckedIn(idempotencyKey, t, operatorID, checkedInAt)

		if err := message.PublishInTx(ctx, e, tx.Tx, r.logger); err != nil {
			return fmt.Errorf("publishing attendee checked in: %w", err)
		}

		checkedIn = t

		return nil
	})
	if err != nil {
		return entity.Ticket{}, err
	}

	return checkedIn, nil
}

func (r TicketRepo) classifyCheckInConflict(ctx context.Context, tx *sqlx.Tx, ticketID string) error {
	row := tx.QueryRowxContext(ctx, `SELECT t.checked_in_at IS NOT NULL, o.payment_status
		FROM tickets t JOIN orders o ON t.order_id = o.order_id
		WHERE t.ticket_id = $1`, ticketID)

	var alreadyCheckedIn bool
	var paymentStatus string
	err := row.Scan(&alreadyCheckedIn, &paymentStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTicketNotFound
	}
	if err != nil {
		return fmt.Errorf("checking ticket state: %w", err)
	}

	if alreadyCheckedIn {
		return ErrAlreadyCheckedIn
	}

	return ErrTicketNotPaid
}
