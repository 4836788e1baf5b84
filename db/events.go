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

var ErrEventNotFound = errors.New("event not found")

func CreateEventsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS events (
		event_id UUID PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		venue VARCHAR(255) NOT NULL,
		start_time TIMESTAMP WITH TIME ZONE NOT NULL,
		max_rsvps INTEGER,
		waitlist_enabled BOOLEAN NOT NULL DEFAULT FALSE
	);`)
	return err
}

type EventRepo struct {
	db *sqlx.DB
}

func NewEventRepo(db *sqlx.DB) EventRepo {
	return EventRepo{
		db: db,
	}
}

func (r EventRepo) Add(ctx context.Context, event entity.Event) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO events
		(event_id, title, venue, start_time, max_rsvps, waitlist_enabled)
		VALUES ($1, $2, $3, $4, $5, $6);`,
		event.EventID, event.Title, event.Venue, event.StartTime, event.MaxRSVPs, event.WaitlistEnabled)
	return err
}

func (r EventRepo) Get(ctx context.Context, eventID string) (entity.Event, error) {
	row := r.db.QueryRowxContext(ctx, `SELECT event_id, title, venue, start_time, max_rsvps, waitlist_enabled
		FROM events WHERE event_id = $1`, eventID)

	var e entity.Event
	err := row.Scan(&e.EventID, &e.Title, &e.Venue, &e.StartTime, &e.MaxRSVPs, &e.WaitlistEnabled)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Event{}, ErrEventNotFound
	}
	if err != nil {
		return entity.Event{}, fmt.Errorf("scanning event: %w", err)
	}

	return e, nil
}

func (r EventRepo) List(ctx context.Context) ([]entity.Event, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT event_id, title, venue, start_time, max_rsvps, waitlist_enabled
		FROM events ORDER BY start_time`)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []entity.Event
	for rows.Next() {
		var e entity.Event
		if err := rows.Scan(&e.EventID, &e.Title, &e.Venue, &e.StartTime, &e.MaxRSVPs, &e.WaitlistEnabled); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		events = append(events, e)
	}

	return events, rows.Err()
}
