package command

import (
	"context"
	"fmt"
)

type PaymentsClient interface {
	RefundPayment(ctx context.Context, idempotencyKey, orderID string) error
}

type ReceiptsClient interface {
	VoidReceipt(ctx context.Context, idempotencyKey, orderID string) error
}

type OrderRefunder interface {
	MarkRefunded(ctx context.Context, orderID, idempotencyKey string) error
}

type Handler struct {
	payments PaymentsClient
	receipts ReceiptsClient
	orders   OrderRefunder
}

func NewHandler(p PaymentsClient, r ReceiptsClient, o OrderRefunder) Handler {
	return Handler{
		payments: p,
		receipts: r,
		orders:   o,
	}
}

func (h Handler) RefundOrder(ctx context.Context, cmd *RefundOrder) error {
	if err := h.payments.RefundPayment(ctx, cmd.Header.IdempotencyKey, cmd.OrderID); err != nil {
		return fmt.Errorf("refunding payment: %w", err)
	}

	if err := h.receipts.VoidReceipt(ctx, cmd.Header.IdempotencyKey, cmd.OrderID); err != nil {
		return fmt.Errorf("voiding order receipt: %w", err)
	}

	if err := h.orders.MarkRefunded(ctx, cmd.OrderID, cmd.Header.IdempotencyKey); err != nil {
		return fmt.Errorf("marking order refunded: %w", err)
	}

	return nil
}
