package clients

import (
	"context"
	"fmt"
)

type PaymentsClient struct {
	client *Client
}

func NewPaymentsClient(client *Client) PaymentsClient {
	return PaymentsClient{
		client: client,
	}
}

func (c PaymentsClient) RefundPayment(ctx context.Context, idempotencyKey, orderID string) error {
	body := map[string]any{
		"order_id": orderID,
	}

	if err := c.client.postJSON(ctx, "/payments/refunds", idempotencyKey, body); err != nil {
		return fmt.Errorf("refund payment request: %w", err)
	}

	return nil
}
