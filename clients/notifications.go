package clients

import (
	"context"
	"fmt"
)

type NotificationsClient struct {
	client *Client
}

func NewNotificationsClient(client *Client) NotificationsClient {
	return NotificationsClient{
		client: client,
	}
}

func (c NotificationsClient) SendWaitlistPromotion(ctx context.Context, idempotencyKey, customerEmail, eventID string) error {
	body := map[string]any{
		"template": "waitlist-promotion",
		"to":       customerEmail,
		"event_id": eventID,
	}

	if err := c.client.postJSON(ctx, "/notifications", idempotencyKey, body); err != nil {
		return fmt.Errorf("send notification request: %w", err)
	}

	return nil
}
