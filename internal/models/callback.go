package models

// CallbackPayload is the normalized form of an M-Pesa STK push callback.
// Amount is nil when the provider did not report a numeric amount, which is
// the case for cancelled or failed STK requests.
type CallbackPayload struct {
	CheckoutRequestID string   `bson:"checkoutRequestID" json:"checkoutRequestID"`
	MerchantRequestID string   `bson:"merchantRequestID,omitempty" json:"merchantRequestID,omitempty"`
	ResultCode        int      `bson:"resultCode" json:"resultCode"`
	ResultDesc        string   `bson:"resultDesc,omitempty" json:"resultDesc,omitempty"`
	Amount            *float64 `bson:"amount" json:"amount"`
	ReceiptNumber     string   `bson:"mpesaReceiptNumber,omitempty" json:"mpesaReceiptNumber,omitempty"`
	PhoneNumber       string   `bson:"phoneNumber" json:"phoneNumber"`
	TransactionDate   string   `bson:"transactionDate" json:"transactionDate"`
}

// HasAmount reports whether the provider confirmed a numeric amount.
func (p *CallbackPayload) HasAmount() bool {
	return p != nil && p.Amount != nil
}
