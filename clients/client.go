package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

const headerKeyCorrelationID = "Correlation-ID"

// Client is the shared HTTP client for the external gateway services
// (receipts, payments, notifications, spreadsheets, file storage). Every
// request carries the correlation id from the context.
type Client struct {
	gatewayAddress string
	httpClient     *http.Client
}

func New(gatewayAddress string) *Client {
	return &Client{
		gatewayAddress: gatewayAddress,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) postJSON(ctx context.Context, path, idempotencyKey string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshalling request body: %w", err)
	}

	return c.send(ctx, http.MethodPost, path, idempotencyKey, "application/json", bytes.NewReader(payload))
}

func (c *Client) putBytes(ctx context.Context, path, contentType string, body []byte) error {
	return c.send(ctx, http.MethodPut, path, "", contentType, bytes.NewReader(body))
}

func (c *Client) send(ctx context.Context, method, path, idempotencyKey, contentType string, body io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, method, c.gatewayAddress+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set(headerKeyCorrelationID, log.CorrelationIDFromContext(ctx))
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request to %s: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}

	return nil
}
