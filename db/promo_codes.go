package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stepperslife/entity"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var ErrPromoNotFound = errors.New("promo code not found")

func CreatePromoCodesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS promo_codes (
		promo_code_id UUID PRIMARY KEY,
		event_id UUID NOT NULL,
		code VARCHAR(64) NOT NULL,
		discount_type VARCHAR(16) NOT NULL,
		discount_value NUMERIC(10, 2) NOT NULL,
		valid_from TIMESTAMP WITH TIME ZONE,
		valid_until TIMESTAMP WITH TIME ZONE,
		max_uses INTEGER,
		used_count INTEGER NOT NULL DEFAULT 0,
		min_order_amount NUMERIC(10, 2),
		active BOOLEAN NOT NULL DEFAULT TRUE,
		CONSTRAINT used_count_within_max CHECK (max_uses IS NULL OR used_count <= max_uses)
	);
	CREATE UNIQUE INDEX IF NOT EXISTS promo_codes_event_code
		ON promo_codes (event_id, lower(code));`)
	return err
}

type PromoCodeRepo struct {
	db *sqlx.DB
}

func NewPromoCodeRepo(db *sqlx.DB) PromoCodeRepo {
	return PromoCodeRepo{
		db: db,
	}
}

func (r PromoCodeRepo) Add(ctx context.Context, p entity.PromoCode) error {
	var minOrder decimal.NullDecimal
	if p.MinOrderAmount != nil {
		minOrder = decimal.NullDecimal{Decimal: *p.MinOrderAmount, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `INSERT INTO promo_codes
		(promo_code_id, event_id, code, discount_type, discount_value,
		valid_from, valid_until, max_uses, used_count, min_order_amount, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`,
		p.PromoCodeID, p.EventID, p.Code, p.DiscountType, p.DiscountValue,
		p.ValidFrom, p.ValidUntil, p.MaxUses, p.UsedCount, minOrder, p.Active)
	return err
}

func (r PromoCodeRepo) ListByEvent(ctx context.Context, eventID string) ([]entity.PromoCode, error) {
	rows, err := r.db.QueryxContext(ctx, promoCodeColumns+` FROM promo_codes
		WHERE event_id = $1 ORDER BY code`, eventID)
	if err != nil {
		return nil, fmt.Errorf("querying promo codes: %w", err)
	}
	defer rows.Close()

	var codes []entity.PromoCode
	for rows.Next() {
		p, err := scanPromoCode(rows)
		if err != nil {
			return nil, err
		}

		codes = append(codes, p)
	}

	return codes, rows.Err()
}

// GetByCode matches the code case-insensitively within the event.
func (r PromoCodeRepo) GetByCode(ctx context.Context, eventID, code string) (entity.PromoCode, error) {
	return getPromoCodeByCode(ctx, r.db, eventID, code)
}

const promoCodeColumns = `SELECT promo_code_id, event_id, code, discount_type, discount_value,
	valid_from, valid_until, max_uses, used_count, min_order_amount, active`

func scanPromoCode(row rowScanner) (entity.PromoCode, error) {
	var p entity.PromoCode
	var minOrder decimal.NullDecimal
	err := row.Scan(&p.PromoCodeID, &p.EventID, &p.Code, &p.DiscountType, &p.DiscountValue,
		&p.ValidFrom, &p.ValidUntil, &p.MaxUses, &p.UsedCount, &minOrder, &p.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.PromoCode{}, ErrPromoNotFound
	}
	if err != nil {
		return entity.PromoCode{}, fmt.Errorf("scanning promo code: %w", err)
	}

	if minOrder.Valid {
		p.MinOrderAmount = &minOrder.Decimal
	}

	return p, nil
}

func getPromoCodeByCode(ctx context.Context, q sqlx.QueryerContext, eventID, code string) (entity.PromoCode, error) {
	row := q.QueryRowxContext(ctx, promoCodeColumns+` FROM promo_codes
		WHERE event_id = $1 AND lower(code) = lower($2)`, eventID, code)
	return scanPromoCode(row)
}

// redeemPromoCode consumes one use as a single conditional update,
// re-checking the usage limit at commit time. Zero rows affected means
// another purchaser took the last use between validation and commit.
func redeemPromoCode(ctx context.Context, tx *sqlx.Tx, promoCodeID string) error {
	res, err := tx.ExecContext(ctx, `UPDATE promo_codes
		SET used_count = used_count + 1
		WHERE promo_code_id = $1 AND (max_uses IS NULL OR used_count < max_uses)`,
		promoCodeID)
	if err != nil {
		return fmt.Errorf("redeeming promo code: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if n == 0 {
		return entity.ErrPromoUsageLimitReached
	}

	return nil
}
