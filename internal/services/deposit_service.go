package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ArowuTest/surespace-functions/internal/lock"
	"github.com/ArowuTest/surespace-functions/internal/metrics"
	"github.com/ArowuTest/surespace-functions/internal/models"
	"github.com/ArowuTest/surespace-functions/internal/repositories"
	"go.uber.org/zap"
)

var (
	// ErrInvalidUID is returned when the uid query parameter carries no user id
	ErrInvalidUID = errors.New("uid must have the form <userId>/<amount>")
	// ErrCallbackLockTimeout is returned when another delivery of the same checkout held its lock for the whole wait
	ErrCallbackLockTimeout = errors.New("timed out waiting for another delivery of this checkout request")
)

// Compile-time check to ensure DepositServiceImpl implements DepositService
var _ DepositService = (*DepositServiceImpl)(nil)

// CallbackRequest is one inbound callback delivery
type CallbackRequest struct {
	// UID is the raw uid query parameter, "<userId>/<amount>"
	UID     string
	Payload *models.CallbackPayload
}

// DepositResult describes what a delivery did
type DepositResult struct {
	UserID            string
	CheckoutRequestID string
	ClaimedAmount     string
	// Duplicate is true when a deposit record already existed
	Duplicate bool
	// Credited is true when wallet and finance balances were incremented
	Credited bool
}

// ParseUID splits "<userId>/<amount>". The amount is returned verbatim and may be empty.
func ParseUID(raw string) (userID, claimedAmount string, err error) {
	parts := strings.Split(raw, "/")
	userID = parts[0]
	if userID == "" {
		return "", "", ErrInvalidUID
	}
	if len(parts) > 1 {
		claimedAmount = parts[1]
	}
	return userID, claimedAmount, nil
}

type DepositServiceImpl struct {
	deposits     repositories.DepositRepository
	wallets      repositories.WalletRepository
	finance      repositories.FinanceRepository
	transactions repositories.TransactionHistoryRepository
	locker       lock.Locker
	logger       *zap.Logger
}

func NewDepositService(
	deposits repositories.DepositRepository,
	wallets repositories.WalletRepository,
	finance repositories.FinanceRepository,
	transactions repositories.TransactionHistoryRepository,
	locker lock.Locker,
	logger *zap.Logger,
) *DepositServiceImpl {
	if locker == nil {
		locker = lock.NopLocker{}
	}
	return &DepositServiceImpl{
		deposits:     deposits,
		wallets:      wallets,
		finance:      finance,
		transactions: transactions,
		locker:       locker,
		logger:       logger,
	}
}

// ProcessCallback credits the wallet and platform float once per checkout request,
// then records the transaction and confirms the deposit.
func (s *DepositServiceImpl) ProcessCallback(ctx context.Context, req CallbackRequest) (result *DepositResult, err error) {
	start := time.Now()
	defer func() {
		metrics.CallbackDuration.Observe(time.Since(start).Seconds())
		metrics.CallbacksProcessed.WithLabelValues(outcome(result, err)).Inc()
	}()

	userID, claimedAmount, err := ParseUID(req.UID)
	if err != nil {
		return nil, err
	}
	payload := req.Payload
	if payload == nil {
		return nil, errors.New("callback payload is required")
	}
	log := s.logger.With(
		zap.String("userId", userID),
		zap.String("checkoutRequestID", payload.CheckoutRequestID))

	log.Info("Processing M-Pesa callback",
		zap.String("claimedAmount", claimedAmount),
		zap.Int("resultCode", payload.ResultCode))

	// 1. Serialize deliveries of the same checkout request; a redelivery waits
	// here and then takes the duplicate branch
	held, err := s.locker.Obtain(ctx, userID+"/"+payload.CheckoutRequestID)
	if err != nil {
		if errors.Is(err, lock.ErrNotObtained) {
			return nil, ErrCallbackLockTimeout
		}
		return nil, fmt.Errorf("failed to lock checkout request: %w", err)
	}
	defer func() {
		if rerr := held.Release(context.WithoutCancel(ctx)); rerr != nil {
			log.Warn("Failed to release checkout lock", zap.Error(rerr))
		}
	}()

	// 2. One read decides both the credit and how the callback is saved
	_, err = s.deposits.FindByCheckoutID(ctx, userID, payload.CheckoutRequestID)
	exists := err == nil
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up deposit: %w", err)
	}

	result = &DepositResult{
		UserID:            userID,
		CheckoutRequestID: payload.CheckoutRequestID,
		ClaimedAmount:     claimedAmount,
		Duplicate:         exists,
	}

	// 3. Credit balances
	switch {
	case exists:
		log.Info("Deposit already recorded, skipping balance update")
	case !payload.HasAmount():
		log.Debug("Callback carries no numeric amount, skipping balance update")
	default:
		amount := *payload.Amount
		if err := s.wallets.IncrementBalance(ctx, userID, amount); err != nil {
			return nil, fmt.Errorf("failed to credit wallet: %w", err)
		}
		if err := s.finance.RecordDeposit(ctx, amount); err != nil {
			return nil, fmt.Errorf("failed to credit platform finance: %w", err)
		}
		result.Credited = true
		log.Info("Wallet credited", zap.Float64("amount", amount))
	}

	// 4. Transaction history, written on every delivery
	entry := &models.TransactionHistory{
		Amount:      claimedAmount,
		Type:        models.TransactionTypeDeposit,
		UserID:      userID,
		PhoneNumber: payload.PhoneNumber,
		Date:        payload.TransactionDate,
	}
	if err := s.transactions.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append transaction history: %w", err)
	}

	// 5. Store the callback and confirm
	if err := s.deposits.SaveCallback(ctx, userID, payload, exists); err != nil {
		return nil, fmt.Errorf("failed to save callback: %w", err)
	}
	if err := s.deposits.Confirm(ctx, userID, payload.CheckoutRequestID, claimedAmount); err != nil {
		return nil, fmt.Errorf("failed to confirm deposit: %w", err)
	}

	log.Info("M-Pesa callback processed",
		zap.Bool("duplicate", result.Duplicate),
		zap.Bool("credited", result.Credited))
	return result, nil
}

func outcome(result *DepositResult, err error) string {
	switch {
	case errors.Is(err, ErrCallbackLockTimeout):
		return metrics.OutcomeLockTimeout
	case err != nil:
		return metrics.OutcomeFailed
	case result.Duplicate:
		return metrics.OutcomeDuplicate
	case result.Credited:
		return metrics.OutcomeCredited
	default:
		return metrics.OutcomeNoAmount
	}
}
