package command

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
)

type header struct {
	ID             string    `json:"id"`
	PublishedAt    time.Time `json:"published_at"`
	IdempotencyKey string    `json:"idempotency_key"`
}

func newHeader(idempotencyKey string) header {
	return header{
		ID:             watermill.NewUUID(),
		PublishedAt:    time.Now().UTC(),
		IdempotencyKey: idempotencyKey,
	}
}

type RefundOrder struct {
	Header  header `json:"header"`
	OrderID string `json:"order_id"`
}

func NewRefundOrder(idempotencyKey, orderID string) RefundOrder {
	return RefundOrder{
		Header:  newHeader(idempotencyKey),
		OrderID: orderID,
	}
}
