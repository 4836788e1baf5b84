package clients

import (
	"context"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// PassesClient renders a ticket pass as a QR code image and uploads it to
// the file storage gateway. The QR payload is what the door scanner posts
// back to the check-in endpoint.
type PassesClient struct {
	client *Client
}

func NewPassesClient(client *Client) PassesClient {
	return PassesClient{
		client: client,
	}
}

func (c PassesClient) GeneratePass(ctx context.Context, ticketID, eventID, customerEmail string) (string, error) {
	payload := fmt.Sprintf("stepperslife:ticket:%s:event:%s", ticketID, eventID)

	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("encoding qr code: %w", err)
	}

	fileName := ticketID + "-pass.png"
	if err := c.client.putBytes(ctx, "/files/"+fileName, "image/png", png); err != nil {
		return "", fmt.Errorf("uploading pass file: %w", err)
	}

	return fileName, nil
}
