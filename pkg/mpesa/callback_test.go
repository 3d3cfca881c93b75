package mpesa

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const successBody = `{
  "Body": {
    "stkCallback": {
      "MerchantRequestID": "29115-34620561-1",
      "CheckoutRequestID": "ws_CO_191220191020363925",
      "ResultCode": 0,
      "ResultDesc": "The service request is processed successfully.",
      "CallbackMetadata": {
        "Item": [
          {"Name": "Amount", "Value": 1.00},
          {"Name": "MpesaReceiptNumber", "Value": "NLJ7RT61SV"},
          {"Name": "TransactionDate", "Value": 20191219102115},
          {"Name": "PhoneNumber", "Value": 254708374149}
        ]
      }
    }
  }
}`

const cancelledBody = `{
  "Body": {
    "stkCallback": {
      "MerchantRequestID": "29115-34620561-1",
      "CheckoutRequestID": "ws_CO_191220191020363926",
      "ResultCode": 1032,
      "ResultDesc": "Request cancelled by user"
    }
  }
}`

func TestParseSTKCallback_Success(t *testing.T) {
	payload, err := ParseSTKCallback([]byte(successBody))
	require.NoError(t, err)

	assert.Equal(t, "ws_CO_191220191020363925", payload.CheckoutRequestID)
	require.True(t, payload.HasAmount())
	assert.Equal(t, 1.0, *payload.Amount)
	assert.Equal(t, "254708374149", payload.PhoneNumber)
	assert.Equal(t, "20191219102115", payload.TransactionDate)
	assert.Equal(t, "NLJ7RT61SV", payload.ReceiptNumber)
	assert.Equal(t, 0, payload.ResultCode)
}

func TestParseSTKCallback_CancelledHasNoAmount(t *testing.T) {
	payload, err := ParseSTKCallback([]byte(cancelledBody))
	require.NoError(t, err)

	assert.False(t, payload.HasAmount())
	assert.Equal(t, 1032, payload.ResultCode)
	assert.Empty(t, payload.PhoneNumber)
}

func TestParseSTKCallback_StringAmountIsNotNumeric(t *testing.T) {
	body := `{"Body":{"stkCallback":{"CheckoutRequestID":"ws_1","CallbackMetadata":{"Item":[{"Name":"Amount","Value":"10"}]}}}}`

	payload, err := ParseSTKCallback([]byte(body))
	require.NoError(t, err)
	assert.False(t, payload.HasAmount())
}

func TestParseSTKCallback_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"malformed", `{"Body":`, ErrMalformedCallback},
		{"no stkCallback", `{"Body":{}}`, ErrMissingSTKCallback},
		{"no checkout id", `{"Body":{"stkCallback":{"ResultCode":0}}}`, ErrMissingCheckoutID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSTKCallback([]byte(tt.body))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
