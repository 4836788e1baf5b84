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
	ErrRSVPNotFound     = errors.New("rsvp not found")
	ErrEventFull        = errors.New("event is at capacity and waitlisting is disabled")
	ErrRSVPNotConfirmed = errors.New("rsvp is not confirmed")
)

func CreateRSVPsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS rsvps (
		rsvp_id UUID PRIMARY KEY,
		seq BIGSERIAL,
		event_id UUID NOT NULL,
		customer_email VARCHAR(255) NOT NULL,
		status VARCHAR(16) NOT NULL,
		checked_in_at TIMESTAMP WITH TIME ZONE,
		checked_in_by VARCHAR(255),
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);`)
	return err
}

type RSVPRepo struct {
	db     *sqlx.DB
	logger watermill.LoggerAdapter
}

func NewRSVPRepo(db *sqlx.DB, logger watermill.LoggerAdapter) RSVPRepo {
	return RSVPRepo{
		db:     db,
		logger: logger,
	}
}

// Create inserts an RSVP, gating it on event capacity. At capacity the RSVP
// lands on the waitlist when the event allows one, otherwise the request is
// rejected. The serializable transaction keeps the confirmed count within
// max_rsvps under concurrent requests.
func (r RSVPRepo) Create(ctx context.Context, rsvpID, eventID, customerEmail string) (entity.RSVP, error) {
	var created entity.RSVP

	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}
	err := inTx(ctx, r.db, opts, func(tx *sqlx.Tx) error {
		ev, err := getEventForUpdate(ctx, tx, eventID)
		if err != nil {
			return err
		}

		status := entity.RSVPStatusConfirmed
		if ev.MaxRSVPs != nil {
			occupied, err := countOccupiedSlots(ctx, tx, eventID)
			if err != nil {
				return err
			}

			if occupied >= *ev.MaxRSVPs {
				if !ev.WaitlistEnabled {
					return ErrEventFull
				}
				status = entity.RSVPStatusWaitlist
			}
		}

		now := time.Now().UTC()
		if _, err := tx.ExecContext(ctx, `INSERT INTO rsvps
			(rsvp_id, event_id, customer_email, status, created_at)
			VALUES ($1, $2, $3, $4, $5);`,
			rsvpID, eventID, customerEmail, status, now); err != nil {
			return fmt.Errorf("inserting rsvp: %w", err)
		}

		created = entity.RSVP{
			RSVPID:        rsvpID,
			EventID:       eventID,
			CustomerEmail: customerEmail,
			Status:        status,
			CreatedAt:     now,
		}

		return nil
	})
	if err != nil {
		return entity.RSVP{}, err
	}

	return created, nil
}

// Cancel marks the RSVP cancelled. Cancelling one that held a confirmed slot
// promotes the earliest-created waitlisted RSVP, strict FIFO with the insert
// sequence breaking creation-time ties. Cancelling an already cancelled RSVP
// is a no-op. The promoted RSVP id, if any, is returned.
func (r RSVPRepo) Cancel(ctx context.Context, rsvpID string) (promotedID string, err error) {
	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}
	err = inTx(ctx, r.db, opts, func(tx *sqlx.Tx) error {
		row := tx.QueryRowxContext(ctx, rsvpColumns+` FROM rsvps
			WHERE rsvp_id = $1 FOR UPDATE`, rsvpID)

		rsvp, err := scanRSVP(row)
		if err != nil {
			return err
		}

		if rsvp.Status == entity.RSVPStatusCancelled {
			return nil
		}

		if _, err := tx.ExecContext(ctx, `UPDATE rsvps SET status = $1 WHERE rsvp_id = $2`,
			entity.RSVPStatusCancelled, rsvpID); err != nil {
			return fmt.Errorf("cancelling rsvp: %w", err)
		}

		if !rsvp.OccupiesSlot() {
			return nil
		}

		ev, err := getEventForUpdate(ctx, tx, rsvp.EventID)
		if err != nil {
			return err
		}
		if !ev.WaitlistEnabled {
			return nil
		}

		promoted, err := promoteEarliestWaitlisted(ctx, tx, rsvp.EventID)
		if err != nil || promoted == nil {
			return err
		}

		e := event.NewRsvpPromoted(promoted.RSVPID, *promoted)
		if err := message.PublishInTx(ctx, e, tx.Tx, r.logger); err != nil {
			return fmt.Errorf("publishing rsvp promoted: %w", err)
		}

		promotedID = promoted.RSVPID

		return nil
	})
	if err != nil {
		return "", err
	}

	return promotedID, nil
}

// CheckIn transitions a confirmed RSVP to checked-in exactly once, recording
// the operator for the audit trail. The checked-in RSVP keeps occupying its
// slot. A second attempt reports ErrAlreadyCheckedIn without touching the
// row.
func (r RSVPRepo) CheckIn(ctx context.Context, rsvpID, operatorID, idempotencyKey string) (entity.RSVP, error) {
	var checkedIn entity.RSVP

	err := inTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		row := tx.QueryRowxContext(ctx, `UPDATE rsvps
			SET status = $1, checked_in_at = now(), checked_in_by = $2
			WHERE rsvp_id = $3 AND status = $4
			RETURNING rsvp_id, event_id, customer_email, status, checked_in_at, checked_in_by, created_at`,
			entity.RSVPStatusCheckedIn, operatorID, rsvpID, entity.RSVPStatusConfirmed)

		rsvp, err := scanRSVP(row)
		if errors.Is(err, ErrRSVPNotFound) {
			return r.classifyCheckInConflict(ctx, tx, rsvpID)
		}
		if err != nil {
			return err
		}

		var checkedInAt time.Time
		if rsvp.CheckedInAt != nil {
			checkedInAt = *rsvp.CheckedInAt
		}
		e := event.NewRsvpCheckedIn(idempotencyKey, rsvp, operatorID, checkedInAt)

		if err := message.PublishInTx(ctx, e, tx.Tx, r.logger); err != nil {
			return fmt.Errorf("publishing rsvp checked in: %w", err)
		}

		checkedIn = rsvp

		return nil
	})
	if err != nil {
		return entity.RSVP{}, err
	}

	return checkedIn, nil
}

func (r RSVPRepo) classifyCheckInConflict(ctx context.Context, tx *sqlx.Tx, rsvpID string) error {
	var status string
	err := tx.QueryRowxContext(ctx, `SELECT status FROM rsvps WHERE rsvp_id = $1`, rsvpID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRSVPNotFound
	}
	if err != nil {
		return fmt.Errorf("checking rsvp status: %w", err)
	}

	if status == entity.RSVPStatusCheckedIn {
		return ErrAlreadyCheckedIn
	}

	return ErrRSVPNotConfirmed
}

func (r RSVPRepo) Get(ctx context.Context, rsvpID string) (entity.RSVP, error) {
	row := r.db.QueryRowxContext(ctx, rsvpColumns+` FROM rsvps WHERE rsvp_id = $1`, rsvpID)
	return scanRSVP(row)
}

func (r RSVPRepo) ListByEvent(ctx context.Context, eventID string) ([]entity.RSVP, error) {
	rows, err := r.db.QueryxContext(ctx, rsvpColumns+` FROM rsvps
		WHERE event_id = $1 ORDER BY created_at, seq`, eventID)
	if err != nil {
		return nil, fmt.Errorf("querying rsvps: %w", err)
	}
	defer rows.Close()

	var rsvps []entity.RSVP
	for rows.Next() {
		rsvp, err := scanRSVP(rows)
		if err != nil {
			return nil, err
		}

		rsvps = append(rsvps, rsvp)
	}

	return rsvps, rows.Err()
}

const rsvpColumns = `SELECT rsvp_id, event_id, customer_email, status, checked_in_at, checked_in_by, created_at`

func scanRSVP(row rowScanner) (entity.RSVP, error) {
	var rsvp entity.RSVP
	err := row.Scan(&rsvp.RSVPID, &rsvp.EventID, &rsvp.CustomerEmail, &rsvp.Status,
		&rsvp.CheckedInAt, &rsvp.CheckedInBy, &rsvp.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.RSVP{}, ErrRSVPNotFound
	}
	if err != nil {
		return entity.RSVP{}, fmt.Errorf("scanning rsvp: %w", err)
	}

	return rsvp, nil
}

func getEventForUpdate(ctx context.Context, tx *sqlx.Tx, eventID string) (entity.Event, error) {
	row := tx.QueryRowxContext(ctx, `SELECT event_id, title, venue, start_time, max_rsvps, waitlist_enabled
		FROM events WHERE event_id = $1 FOR UPDATE`, eventID)

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

func countOccupiedSlots(ctx context.Context, tx *sqlx.Tx, eventID string) (int, error) {
	row := tx.QueryRowxContext(ctx, `SELECT count(*) FROM rsvps
		WHERE event_id = $1 AND status IN ($2, $3)`,
		eventID, entity.RSVPStatusConfirmed, entity.RSVPStatusCheckedIn)

	var occupied int
	if err := row.Scan(&occupied); err != nil {
		return 0, fmt.Errorf("counting confirmed rsvps: %w", err)
	}

	return occupied, nil
}

func promoteEarliestWaitlisted(ctx context.Context, tx *sqlx.Tx, eventID string) (*entity.RSVP, error) {
	row := tx.QueryRowxContext(ctx, rsvpColumns+` FROM rsvps
		WHERE event_id = $1 AND status = $2
		ORDER BY created_at, seq LIMIT 1 FOR UPDATE`,
		eventID, entity.RSVPStatusWaitlist)

	rsvp, err := scanRSVP(row)
	if errors.Is(err, ErrRSVPNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE rsvps SET status = $1 WHERE rsvp_id = $2`,
		entity.RSVPStatusConfirmed, rsvp.RSVPID); err != nil {
		return nil, fmt.Errorf("promoting rsvp: %w", err)
	}

	rsvp.Status = entity.RSVPStatusConfirmed

	return &rsvp, nil
}
