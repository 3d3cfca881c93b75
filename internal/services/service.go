package services

import (
	"context"

	"github.com/ArowuTest/surespace-functions/internal/models"
)

// DepositService defines the interface for M-Pesa deposit processing
type DepositService interface {
	// ProcessCallback applies one STK callback delivery to the ledger
	ProcessCallback(ctx context.Context, req CallbackRequest) (*DepositResult, error)
}

// PushNotificationService defines the interface for the create-triggers
type PushNotificationService interface {
	// NotificationCreated pushes a new notification record to the owner's devices
	NotificationCreated(ctx context.Context, evt models.NotificationCreatedEvent) error

	// ChatMessageCreated pushes a new chat message to the recipient's devices
	ChatMessageCreated(ctx context.Context, evt models.ChatMessageCreatedEvent) error
}
