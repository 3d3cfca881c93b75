package models

import "time"

// Transaction types
const (
	TransactionTypeDeposit = "deposit"
)

// Deposit is the per-user record of one checkout request.
//
// Amount is the amount claimed by the client in the callback URL and is kept
// as received. The provider-confirmed amount lives in Callback.Amount.
type Deposit struct {
	UserID            string           `bson:"userId" json:"userId"`
	CheckoutRequestID string           `bson:"checkoutRequestID" json:"checkoutRequestID"`
	Type              string           `bson:"type,omitempty" json:"type,omitempty"`
	Amount            string           `bson:"amount,omitempty" json:"amount,omitempty"`
	Confirmed         bool             `bson:"confirmed" json:"confirmed"`
	Callback          *CallbackPayload `bson:"callback,omitempty" json:"callback,omitempty"`
	CreatedAt         time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time        `bson:"updatedAt" json:"updatedAt"`
}

// WalletAnalytics holds a user's wallet balance
type WalletAnalytics struct {
	UserID    string    `bson:"_id" json:"userId"`
	Balance   float64   `bson:"balance" json:"balance"`
	UpdatedAt time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// PlatformFinanceID is the key of the singleton finance document
const PlatformFinanceID = "finances"

// PlatformFinance is the operator float account, credited alongside user wallets.
type PlatformFinance struct {
	ID            string    `bson:"_id" json:"id"`
	Balance       float64   `bson:"balance" json:"balance"`
	DepositAmount float64   `bson:"depositAmount" json:"depositAmount"`
	UpdatedAt     time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// TransactionHistory is an append-only entry in the global deposit log
type TransactionHistory struct {
	ID          string    `bson:"_id" json:"id"`
	Amount      string    `bson:"amount" json:"amount"`
	Type        string    `bson:"type" json:"type"`
	UserID      string    `bson:"userId" json:"userId"`
	PhoneNumber string    `bson:"phoneNumber" json:"phoneNumber"`
	Date        string    `bson:"date" json:"date"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}
