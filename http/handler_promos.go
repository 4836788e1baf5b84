package http

import (
	"net/http"
	"time"

	"stepperslife/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type createPromoCodeRequest struct {
	Code           string     `json:"code"`
	DiscountType   string     `json:"discount_type"`
	DiscountValue  string     `json:"discount_value"`
	ValidFrom      *time.Time `json:"valid_from"`
	ValidUntil     *time.Time `json:"valid_until"`
	MaxUses        *uint      `json:"max_uses"`
	MinOrderAmount *string    `json:"min_order_amount"`
}

func (h handler) CreatePromoCode(c echo.Context) error {
	var request createPromoCodeRequest
	if err := c.Bind(&request); err != nil {
		return badRequest("failed to parse request", err)
	}
	if request.Code == "" {
		return badRequest("code is required", nil)
	}
	if request.DiscountType != entity.DiscountPercentage && request.DiscountType != entity.DiscountFixed {
		return badRequest("discount_type must be percentage or fixed", nil)
	}

	value, err := decimal.NewFromString(request.DiscountValue)
	if err != nil {
		return badRequest("discount_value must be a decimal number", err)
	}
	if value.IsNegative() {
		return badRequest("discount_value must not be negative", nil)
	}

	var minOrder *decimal.Decimal
	if request.MinOrderAmount != nil {
		m, err := decimal.NewFromString(*request.MinOrderAmount)
		if err != nil {
			return badRequest("min_order_amount must be a decimal number", err)
		}
		minOrder = &m
	}

	ctx := c.Request().Context()
	eventID := c.Param("event_id")

	if _, err := h.deps.EventRepo.Get(ctx, eventID); err != nil {
		return domainError(err)
	}

	promoCode := entity.PromoCode{
		PromoCodeID:    uuid.NewString(),
		EventID:        eventID,
		Code:           request.Code,
		DiscountType:   request.DiscountType,
		DiscountValue:  value,
		ValidFrom:      request.ValidFrom,
		ValidUntil:     request.ValidUntil,
		MaxUses:        request.MaxUses,
		MinOrderAmount: minOrder,
		Active:         true,
	}

	if err := h.deps.PromoCodeRepo.Add(ctx, promoCode); err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, promoCode)
}

func (h handler) ListPromoCodes(c echo.Context) error {
	codes, err := h.deps.PromoCodeRepo.ListByEvent(c.Request().Context(), c.Param("event_id"))
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{"promo_codes": codes})
}

type validatePromoCodeRequest struct {
	Code     string `json:"code"`
	Subtotal string `json:"subtotal"`
}

type validatePromoCodeResponse struct {
	DiscountedTotal string `json:"discounted_total"`
}

// ValidatePromoCode prices a code against a subtotal without consuming a use;
// redemption happens when the payment completes.
func (h handler) ValidatePromoCode(c echo.Context) error {
	var request validatePromoCodeRequest
	if err := c.Bind(&request); err != nil {
		return badRequest("failed to parse request", err)
	}
	if request.Code == "" {
		return badRequest("code is required", nil)
	}

	subtotal, err := decimal.NewFromString(request.Subtotal)
	if err != nil {
		return badRequest("subtotal must be a decimal number", err)
	}

	promoCode, err := h.deps.PromoCodeRepo.GetByCode(c.Request().Context(), c.Param("event_id"), request.Code)
	if err != nil {
		return domainError(err)
	}

	if err := promoCode.Validate(time.Now(), subtotal); err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, validatePromoCodeResponse{
		DiscountedTotal: promoCode.Apply(subtotal).StringFixed(2),
	})
}
