// Package memory provides in-process repositories for tests and local runs.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ArowuTest/surespace-functions/internal/models"
	"github.com/ArowuTest/surespace-functions/internal/repositories"
	"github.com/google/uuid"
)

var (
	_ repositories.DepositRepository            = (*DepositRepository)(nil)
	_ repositories.WalletRepository             = (*WalletRepository)(nil)
	_ repositories.FinanceRepository            = (*FinanceRepository)(nil)
	_ repositories.TransactionHistoryRepository = (*TransactionHistoryRepository)(nil)
	_ repositories.UserProfileRepository        = (*UserProfileRepository)(nil)
)

// Store bundles one of each repository
type Store struct {
	Deposits     *DepositRepository
	Wallets      *WalletRepository
	Finance      *FinanceRepository
	Transactions *TransactionHistoryRepository
	Profiles     *UserProfileRepository
}

// NewStore creates an empty store with a zeroed finance document
func NewStore() *Store {
	return &Store{
		Deposits:     NewDepositRepository(),
		Wallets:      NewWalletRepository(),
		Finance:      NewFinanceRepository(&models.PlatformFinance{ID: models.PlatformFinanceID}),
		Transactions: NewTransactionHistoryRepository(),
		Profiles:     NewUserProfileRepository(),
	}
}

type depositKey struct {
	userID     string
	checkoutID string
}

// ErrSaveModeMismatch is returned when SaveCallback is told the wrong existence state
var ErrSaveModeMismatch = errors.New("save callback: exists flag does not match the stored record")

// DepositRepository keeps deposits in a map
type DepositRepository struct {
	mu        sync.Mutex
	deposits  map[depositKey]*models.Deposit
	saveModes []bool
	// Confirmations counts Confirm calls, for assertions
	Confirmations int
}

// NewDepositRepository creates an empty DepositRepository
func NewDepositRepository() *DepositRepository {
	return &DepositRepository{deposits: make(map[depositKey]*models.Deposit)}
}

// FindByCheckoutID returns a copy of the stored deposit
func (r *DepositRepository) FindByCheckoutID(_ context.Context, userID, checkoutRequestID string) (*models.Deposit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.deposits[depositKey{userID, checkoutRequestID}]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

// SaveCallback inserts the record when exists is false and merges the callback
// into it otherwise. A flag that disagrees with the map is an error.
func (r *DepositRepository) SaveCallback(_ context.Context, userID string, payload *models.CallbackPayload, exists bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	key := depositKey{userID, payload.CheckoutRequestID}
	d, ok := r.deposits[key]
	if ok != exists {
		return fmt.Errorf("%w: exists=%t stored=%t", ErrSaveModeMismatch, exists, ok)
	}
	r.saveModes = append(r.saveModes, exists)
	if !ok {
		d = &models.Deposit{UserID: userID, CheckoutRequestID: payload.CheckoutRequestID, CreatedAt: now}
		r.deposits[key] = d
	}
	cb := *payload
	d.Callback = &cb
	d.UpdatedAt = now
	return nil
}

// SaveModes returns the exists flag of every accepted SaveCallback, in order
func (r *DepositRepository) SaveModes() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]bool, len(r.saveModes))
	copy(out, r.saveModes)
	return out
}

// Confirm sets the confirmation fields
func (r *DepositRepository) Confirm(_ context.Context, userID, checkoutRequestID, claimedAmount string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	key := depositKey{userID, checkoutRequestID}
	d, ok := r.deposits[key]
	if !ok {
		d = &models.Deposit{UserID: userID, CheckoutRequestID: checkoutRequestID, CreatedAt: now}
		r.deposits[key] = d
	}
	d.Type = models.TransactionTypeDeposit
	d.Amount = claimedAmount
	d.Confirmed = true
	d.UpdatedAt = now
	r.Confirmations++
	return nil
}

// WalletRepository keeps wallets in a map
type WalletRepository struct {
	mu      sync.Mutex
	wallets map[string]*models.WalletAnalytics
}

// NewWalletRepository creates an empty WalletRepository
func NewWalletRepository() *WalletRepository {
	return &WalletRepository{wallets: make(map[string]*models.WalletAnalytics)}
}

// Put stores a wallet as-is
func (r *WalletRepository) Put(wallet *models.WalletAnalytics) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *wallet
	r.wallets[wallet.UserID] = &cp
}

// FindByUserID returns a copy of the wallet
func (r *WalletRepository) FindByUserID(_ context.Context, userID string) (*models.WalletAnalytics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.wallets[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

// IncrementBalance adds amount under the lock
func (r *WalletRepository) IncrementBalance(_ context.Context, userID string, amount float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.wallets[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	w.Balance += amount
	w.UpdatedAt = time.Now()
	return nil
}

// FinanceRepository holds the finance singleton; nil means missing
type FinanceRepository struct {
	mu      sync.Mutex
	finance *models.PlatformFinance
}

// NewFinanceRepository creates a FinanceRepository seeded with finance
func NewFinanceRepository(finance *models.PlatformFinance) *FinanceRepository {
	return &FinanceRepository{finance: finance}
}

// Get returns a copy of the finance document
func (r *FinanceRepository) Get(_ context.Context) (*models.PlatformFinance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finance == nil {
		return nil, repositories.ErrNotFound
	}
	cp := *r.finance
	return &cp, nil
}

// RecordDeposit credits balance and depositAmount under the lock
func (r *FinanceRepository) RecordDeposit(_ context.Context, amount float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finance == nil {
		return repositories.ErrNotFound
	}
	r.finance.Balance += amount
	r.finance.DepositAmount += amount
	r.finance.UpdatedAt = time.Now()
	return nil
}

// TransactionHistoryRepository is an append-only slice
type TransactionHistoryRepository struct {
	mu      sync.Mutex
	entries []*models.TransactionHistory
}

// NewTransactionHistoryRepository creates an empty log
func NewTransactionHistoryRepository() *TransactionHistoryRepository {
	return &TransactionHistoryRepository{}
}

// Append adds an entry
func (r *TransactionHistoryRepository) Append(_ context.Context, entry *models.TransactionHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.CreatedAt = time.Now()
	cp := *entry
	r.entries = append(r.entries, &cp)
	return nil
}

// FindByUserID lists a user's entries, newest first
func (r *TransactionHistoryRepository) FindByUserID(_ context.Context, userID string) ([]*models.TransactionHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.TransactionHistory
	for _, e := range r.entries {
		if e.UserID == userID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Len returns the number of entries
func (r *TransactionHistoryRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// UserProfileRepository keeps profiles in insertion order
type UserProfileRepository struct {
	mu       sync.Mutex
	profiles []*models.UserProfile
}

// NewUserProfileRepository creates an empty UserProfileRepository
func NewUserProfileRepository(profiles ...*models.UserProfile) *UserProfileRepository {
	r := &UserProfileRepository{}
	for _, p := range profiles {
		cp := *p
		r.profiles = append(r.profiles, &cp)
	}
	return r
}

// FindByUserID returns copies of every matching profile
func (r *UserProfileRepository) FindByUserID(_ context.Context, userID string) ([]*models.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.UserProfile
	for _, p := range r.profiles {
		if p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Upsert replaces the first profile with the same userId or appends
func (r *UserProfileRepository) Upsert(_ context.Context, profile *models.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile.UpdatedAt = time.Now()
	cp := *profile
	for i, p := range r.profiles {
		if p.UserID == profile.UserID {
			r.profiles[i] = &cp
			return nil
		}
	}
	r.profiles = append(r.profiles, &cp)
	return nil
}
