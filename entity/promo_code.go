package entity

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

var (
	ErrPromoInactive          = errors.New("promo code is inactive")
	ErrPromoNotYetValid       = errors.New("promo code is not yet valid")
	ErrPromoExpired           = errors.New("promo code has expired")
	ErrPromoUsageLimitReached = errors.New("promo code usage limit reached")
	ErrPromoBelowMinimumOrder = errors.New("subtotal below promo code minimum order amount")
)

type PromoCode struct {
	PromoCodeID    string           `json:"promo_code_id"`
	EventID        string           `json:"event_id"`
	Code           string           `json:"code"`
	DiscountType   string           `json:"discount_type"`
	DiscountValue  decimal.Decimal  `json:"discount_value"`
	ValidFrom      *time.Time       `json:"valid_from,omitempty"`
	ValidUntil     *time.Time       `json:"valid_until,omitempty"`
	MaxUses        *uint            `json:"max_uses,omitempty"`
	UsedCount      uint             `json:"used_count"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount,omitempty"`
	Active         bool             `json:"active"`
}

// Validate runs the precondition pipeline against the loaded state of the
// code. It does not consume a use; redemption re-checks the usage limit at
// commit time with a conditional update.
func (p PromoCode) Validate(now time.Time, subtotal decimal.Decimal) error {
	if !p.Active {
		return ErrPromoInactive
	}
	if p.ValidFrom != nil && now.Before(*p.ValidFrom) {
		return ErrPromoNotYetValid
	}
	if p.ValidUntil != nil && now.After(*p.ValidUntil) {
		return ErrPromoExpired
	}
	if p.MaxUses != nil && p.UsedCount >= *p.MaxUses {
		return ErrPromoUsageLimitReached
	}
	if p.MinOrderAmount != nil && subtotal.LessThan(*p.MinOrderAmount) {
		return ErrPromoBelowMinimumOrder
	}
	return nil
}

// Apply returns the discounted total for the subtotal. Percentage discounts
// round half-up to 2 decimals; fixed discounts floor at zero so a code can
// never produce a negative total.
func (p PromoCode) Apply(subtotal decimal.Decimal) decimal.Decimal {
	switch p.DiscountType {
	case DiscountPercentage:
		factor := decimal.NewFromInt(100).Sub(p.DiscountValue).Div(decimal.NewFromInt(100))
		return subtotal.Mul(factor).Round(2)
	case DiscountFixed:
		total := subtotal.Sub(p.DiscountValue)
		if total.IsNegative() {
			return decimal.Zero.Round(2)
		}
		return total.Round(2)
	}
	return subtotal
}
