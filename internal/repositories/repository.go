package repositories

import (
	"context"
	"errors"

	"github.com/ArowuTest/surespace-functions/internal/models"
)

// ErrNotFound is returned when a lookup or an update matches no document
var ErrNotFound = errors.New("document not found")

// DepositRepository defines the interface for per-user deposit records
type DepositRepository interface {
	// FindByCheckoutID returns ErrNotFound when no record exists for the pair
	FindByCheckoutID(ctx context.Context, userID, checkoutRequestID string) (*models.Deposit, error)
	// SaveCallback updates the stored callback when exists is true and inserts a new record otherwise
	SaveCallback(ctx context.Context, userID string, payload *models.CallbackPayload, exists bool) error
	// Confirm marks the deposit confirmed with the claimed amount
	Confirm(ctx context.Context, userID, checkoutRequestID, claimedAmount string) error
}

// WalletRepository defines the interface for user wallet balances
type WalletRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.WalletAnalytics, error)
	// IncrementBalance atomically adds amount; ErrNotFound if the wallet does not exist
	IncrementBalance(ctx context.Context, userID string, amount float64) error
}

// FinanceRepository defines the interface for the platform finance singleton
type FinanceRepository interface {
	Get(ctx context.Context) (*models.PlatformFinance, error)
	// RecordDeposit atomically adds amount to both balance and depositAmount
	RecordDeposit(ctx context.Context, amount float64) error
}

// TransactionHistoryRepository defines the interface for the global deposit log
type TransactionHistoryRepository interface {
	Append(ctx context.Context, entry *models.TransactionHistory) error
	FindByUserID(ctx context.Context, userID string) ([]*models.TransactionHistory, error)
}

// UserProfileRepository defines the interface for user profile lookups
type UserProfileRepository interface {
	// FindByUserID returns every profile whose userId field matches; zero matches is not an error
	FindByUserID(ctx context.Context, userID string) ([]*models.UserProfile, error)
	Upsert(ctx context.Context, profile *models.UserProfile) error
}
