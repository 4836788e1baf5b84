package tests_test

import (
	"context"
	"sync"

	"stepperslife/entity"
)

type MockReceiptsClient struct {
	lock           sync.Mutex
	issuedReceipts []IssueReceiptRequest
	voidedReceipts []string
}

type IssueReceiptRequest struct {
	orderID string
	amount  entity.Money
}

func (m *MockReceiptsClient) IssueReceipt(_ context.Context, _ string, orderID string, amount entity.Money) error {
	m.lock.Lock()
	m.issuedReceipts = append(m.issuedReceipts, IssueReceiptRequest{orderID: orderID, amount: amount})
	m.lock.Unlock()

	return nil
}

func (m *MockReceiptsClient) VoidReceipt(_ context.Context, _ string, orderID string) error {
	m.lock.Lock()
	m.voidedReceipts = append(m.voidedReceipts, orderID)
	m.lock.Unlock()

	return nil
}

func (m *MockReceiptsClient) IssuedReceipts() []IssueReceiptRequest {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]IssueReceiptRequest(nil), m.issuedReceipts...)
}

func (m *MockReceiptsClient) VoidedReceipts() []string {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]string(nil), m.voidedReceipts...)
}

type MockPaymentsClient struct {
	lock           sync.Mutex
	refundedOrders []string
}

func (m *MockPaymentsClient) RefundPayment(_ context.Context, _ string, orderID string) error {
	m.lock.Lock()
	m.refundedOrders = append(m.refundedOrders, orderID)
	m.lock.Unlock()

	return nil
}

func (m *MockPaymentsClient) RefundedOrders() []string {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]string(nil), m.refundedOrders...)
}

type MockPassGenerator struct {
	lock            sync.Mutex
	generatedPasses []GeneratePassRequest
}

type GeneratePassRequest struct {
	ticketID string
	eventID  string
}

func (m *MockPassGenerator) GeneratePass(_ context.Context, ticketID, eventID, _ string) (string, error) {
	m.lock.Lock()
	m.generatedPasses = append(m.generatedPasses, GeneratePassRequest{ticketID: ticketID, eventID: eventID})
	m.lock.Unlock()

	return ticketID + "-pass.png", nil
}

func (m *MockPassGenerator) GeneratedPasses() []GeneratePassRequest {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]GeneratePassRequest(nil), m.generatedPasses...)
}

type MockNotificationSender struct {
	lock          sync.Mutex
	notifications []WaitlistPromotionNotification
}

type WaitlistPromotionNotification struct {
	customerEmail string
	eventID       string
}

func (m *MockNotificationSender) SendWaitlistPromotion(_ context.Context, _ string, customerEmail, eventID string) error {
	m.lock.Lock()
	m.notifications = append(m.notifications, WaitlistPromotionNotification{customerEmail: customerEmail, eventID: eventID})
	m.lock.Unlock()

	return nil
}

func (m *MockNotificationSender) Notifications() []WaitlistPromotionNotification {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]WaitlistPromotionNotification(nil), m.notifications...)
}

type MockSpreadsheetAppender struct {
	lock         sync.Mutex
	rowsAppended []AppendRowRequest
}

type AppendRowRequest struct {
	spreadsheetName string
	row             []string
}

func (m *MockSpreadsheetAppender) AppendRow(_ context.Context, spreadsheetName string, row []string) error {
	m.lock.Lock()
	m.rowsAppended = append(m.rowsAppended, AppendRowRequest{spreadsheetName: spreadsheetName, row: row})
	m.lock.Unlock()

	return nil
}

func (m *MockSpreadsheetAppender) RowsAppended() []AppendRowRequest {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]AppendRowRequest(nil), m.rowsAppended...)
}
