// Package mpesa normalizes Safaricom M-Pesa STK push callbacks.
package mpesa

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ArowuTest/surespace-functions/internal/models"
)

var (
	// ErrMalformedCallback is returned when the body is not valid JSON
	ErrMalformedCallback = errors.New("malformed mpesa callback")
	// ErrMissingSTKCallback is returned when Body.stkCallback is absent
	ErrMissingSTKCallback = errors.New("callback has no Body.stkCallback")
	// ErrMissingCheckoutID is returned when the callback carries no CheckoutRequestID
	ErrMissingCheckoutID = errors.New("callback has no CheckoutRequestID")
)

// Callback metadata item names
const (
	ItemAmount             = "Amount"
	ItemMpesaReceiptNumber = "MpesaReceiptNumber"
	ItemPhoneNumber        = "PhoneNumber"
	ItemTransactionDate    = "TransactionDate"
)

// STKCallbackRequest is the envelope posted by M-Pesa to the callback URL
type STKCallbackRequest struct {
	Body struct {
		StkCallback *STKCallback `json:"stkCallback"`
	} `json:"Body"`
}

// STKCallback is the provider envelope inside Body
type STKCallback struct {
	MerchantRequestID string `json:"MerchantRequestID"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
	ResultCode        int    `json:"ResultCode"`
	ResultDesc        string `json:"ResultDesc"`
	CallbackMetadata  struct {
		Item []MetadataItem `json:"Item"`
	} `json:"CallbackMetadata"`
}

// MetadataItem is a single Name/Value pair of CallbackMetadata
type MetadataItem struct {
	Name  string      `json:"Name"`
	Value interface{} `json:"Value"`
}

// ParseSTKCallback decodes a raw callback body into a normalized payload.
func ParseSTKCallback(body []byte) (*models.CallbackPayload, error) {
	var req STKCallbackRequest

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCallback, err)
	}
	if req.Body.StkCallback == nil {
		return nil, ErrMissingSTKCallback
	}

	return Normalize(req.Body.StkCallback)
}

// Normalize flattens the provider envelope. Metadata values keep their
// provider types until here: numbers arrive as json.Number.
func Normalize(cb *STKCallback) (*models.CallbackPayload, error) {
	if cb.CheckoutRequestID == "" {
		return nil, ErrMissingCheckoutID
	}

	payload := &models.CallbackPayload{
		CheckoutRequestID: cb.CheckoutRequestID,
		MerchantRequestID: cb.MerchantRequestID,
		ResultCode:        cb.ResultCode,
		ResultDesc:        cb.ResultDesc,
	}

	for _, item := range cb.CallbackMetadata.Item {
		switch item.Name {
		case ItemAmount:
			if n, ok := item.Value.(json.Number); ok {
				if v, err := n.Float64(); err == nil {
					payload.Amount = &v
				}
			}
		case ItemMpesaReceiptNumber:
			payload.ReceiptNumber = stringValue(item.Value)
		case ItemPhoneNumber:
			payload.PhoneNumber = stringValue(item.Value)
		case ItemTransactionDate:
			payload.TransactionDate = stringValue(item.Value)
		}
	}

	return payload, nil
}

func stringValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
