package message

import (
	"context"
	"fmt"
	"time"

	"stepperslife/entity"
	"stepperslife/event"
)

type ReceiptsClient interface {
	IssueReceipt(ctx context.Context, idempotencyKey, orderID string, amount entity.Money) error
}

type PassGenerator interface {
	GeneratePass(ctx context.Context, ticketID, eventID, customerEmail string) (string, error)
}

type NotificationSender interface {
	SendWaitlistPromotion(ctx context.Context, idempotencyKey, customerEmail, eventID string) error
}

type SpreadsheetAppender interface {
	AppendRow(ctx context.Context, spreadsheetName string, row []string) error
}

type RevenueRecorder interface {
	RecordOrderConfirmed(ctx context.Context, eventID, orderID string, quantity uint, gross, discount entity.Money) error
	RecordOrderRefunded(ctx context.Context, eventID, orderID string, amount entity.Money) error
}

type Handler struct {
	receiptsClient      ReceiptsClient
	passGenerator       PassGenerator
	notificationSender  NotificationSender
	spreadsheetAppender SpreadsheetAppender
	revenueRecorder     RevenueRecorder
}

func NewHandler(
	rc ReceiptsClient,
	pg PassGenerator,
	ns NotificationSender,
	sa SpreadsheetAppender,
	rr RevenueRecorder,
) Handler {
	return Handler{
		receiptsClient:      rc,
		passGenerator:       pg,
		notificationSender:  ns,
		spreadsheetAppender: sa,
		revenueRecorder:     rr,
	}
}

func (h Handler) TrackReservation(ctx context.Context, e *event.ReservationMade) error {
	row := []string{e.OrderID, e.EventID, e.CustomerEmail, fmt.Sprint(e.Quantity), e.Total.Amount, e.Total.Currency}
	if err := h.spreadsheetAppender.AppendRow(ctx, "ticket-reservations", row); err != nil {
		return fmt.Errorf("appending reservation row: %w", err)
	}

	return nil
}

func (h Handler) IssueReceipt(ctx context.Context, e *event.OrderConfirmed) error {
	if err := h.receiptsClient.IssueReceipt(ctx, e.Header.IdempotencyKey, e.OrderID, e.Total); err != nil {
		return fmt.Errorf("issuing receipt: %w", err)
	}

	return nil
}

func (h Handler) GeneratePasses(ctx context.Context, e *event.OrderConfirmed) error {
	for _, ticketID := range e.TicketIDs {
		if _, err := h.passGenerator.GeneratePass(ctx, ticketID, e.EventID, e.CustomerEmail); err != nil {
			return fmt.Errorf("generating pass for ticket %s: %w", ticketID, err)
		}
	}

	return nil
}

func (h Handler) RecordRevenue(ctx context.Context, e *event.OrderConfirmed) error {
	if err := h.revenueRecorder.RecordOrderConfirmed(ctx, e.EventID, e.OrderID, e.Quantity, e.Total, e.Discount); err != nil {
		return fmt.Errorf("recording confirmed order: %w", err)
	}

	return nil
}

func (h Handler) RecordRefund(ctx context.Context, e *event.OrderRefunded) error {
	if err := h.revenueRecorder.RecordOrderRefunded(ctx, e.EventID, e.OrderID, e.Total); err != nil {
		return fmt.Errorf("recording refunded order: %w", err)
	}

	return nil
}

func (h Handler) NotifyPromoted(ctx context.Context, e *event.RsvpPromoted) error {
	if err := h.notificationSender.SendWaitlistPromotion(ctx, e.Header.IdempotencyKey, e.CustomerEmail, e.EventID); err != nil {
		return fmt.Errorf("notifying promoted rsvp: %w", err)
	}

	return nil
}

func (h Handler) TrackAttendance(ctx context.Context, e *event.AttendeeCheckedIn) error {
	row := []string{e.TicketID, e.EventID, e.CustomerEmail, e.OperatorID, e.CheckedInAt.Format(time.RFC3339)}
	if err := h.spreadsheetAppender.AppendRow(ctx, "event-check-ins", row); err != nil {
		return fmt.Errorf("appending check-in row: %w", err)
	}

	return nil
}

func (h Handler) TrackRSVPAttendance(ctx context.Context, e *event.RsvpCheckedIn) error {
	row := []string{e.RSVPID, e.EventID, e.CustomerEmail, e.OperatorID, e.CheckedInAt.Format(time.RFC3339)}
	if err := h.spreadsheetAppender.AppendRow(ctx, "event-check-ins", row); err != nil {
		return fmt.Errorf("appending rsvp check-in row: %w", err)
	}

	return nil
}
