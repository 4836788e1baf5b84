package clients

import (
	"context"
	"fmt"
)

type SpreadsheetsClient struct {
	client *Client
}

func NewSpreadsheetsClient(client *Client) SpreadsheetsClient {
	return SpreadsheetsClient{
		client: client,
	}
}

func (c SpreadsheetsClient) AppendRow(ctx context.Context, spreadsheetName string, row []string) error {
	body := map[string]any{
		"columns": row,
	}

	if err := c.client.postJSON(ctx, "/spreadsheets/"+spreadsheetName+"/rows", "", body); err != nil {
		return fmt.Errorf("append row request: %w", err)
	}

	return nil
}
