package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func InitialiseDB(ctx context.Context, db *sqlx.DB) error {
	if err := CreateEventsTable(ctx, db); err != nil {
		return fmt.Errorf("creating events table: %w", err)
	}

	if err := CreateTicketTypesTable(ctx, db); err != nil {
		return fmt.Errorf("creating ticket types table: %w", err)
	}

	if err := CreateRSVPsTable(ctx, db); err != nil {
		return fmt.Errorf("creating rsvps table: %w", err)
	}

	if err := CreatePromoCodesTable(ctx, db); err != nil {
		return fmt.Errorf("creating promo codes table: %w", err)
	}

	if err := CreateOrdersTable(ctx, db); err != nil {
		return fmt.Errorf("creating orders table: %w", err)
	}

	if err := CreateTicketsTable(ctx, db); err != nil {
		return fmt.Errorf("creating tickets table: %w", err)
	}

	if err := CreateEventRevenueTable(ctx, db); err != nil {
		return fmt.Errorf("creating event revenue table: %w", err)
	}

	return nil
}
