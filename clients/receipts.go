package clients

import (
	"context"
	"fmt"

	"stepperslife/entity"
)

type ReceiptsClient struct {
	client *Client
}

func NewReceiptsClient(client *Client) ReceiptsClient {
	return ReceiptsClient{
		client: client,
	}
}

func (c ReceiptsClient) IssueReceipt(ctx context.Context, idempotencyKey, orderID string, amount entity.Money) error {
	body := map[string]any{
		"order_id": orderID,
		"amount":   amount.Amount,
		"currency": amount.Currency,
	}

	if err := c.client.postJSON(ctx, "/receipts", idempotencyKey, body); err != nil {
		return fmt.Errorf("issue receipt request: %w", err)
	}

	return nil
}

func (c ReceiptsClient) VoidReceipt(ctx context.Context, idempotencyKey, orderID string) error {
	body := map[string]any{
		"order_id": orderID,
	}

	if err := c.client.postJSON(ctx, "/receipts/void", idempotencyKey, body); err != nil {
		return fmt.Errorf("void receipt request: %w", err)
	}

	return nil
}
