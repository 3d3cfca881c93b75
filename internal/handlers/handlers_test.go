package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ArowuTest/surespace-functions/internal/models"
	"github.com/ArowuTest/surespace-functions/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeDepositService struct {
	processFn func(ctx context.Context, req services.CallbackRequest) (*services.DepositResult, error)
}

func (f *fakeDepositService) ProcessCallback(ctx context.Context, req services.CallbackRequest) (*services.DepositResult, error) {
	return f.processFn(ctx, req)
}

type fakePushService struct {
	notificationFn func(ctx context.Context, evt models.NotificationCreatedEvent) error
	chatFn         func(ctx context.Context, evt models.ChatMessageCreatedEvent) error
}

func (f *fakePushService) NotificationCreated(ctx context.Context, evt models.NotificationCreatedEvent) error {
	return f.notificationFn(ctx, evt)
}

func (f *fakePushService) ChatMessageCreated(ctx context.Context, evt models.ChatMessageCreatedEvent) error {
	return f.chatFn(ctx, evt)
}

const successBody = `{"Body":{"stkCallback":{"MerchantRequestID":"m1","CheckoutRequestID":"ws_CO_1","ResultCode":0,"ResultDesc":"ok",
"CallbackMetadata":{"Item":[{"Name":"Amount","Value":100},{"Name":"MpesaReceiptNumber","Value":"R1"},{"Name":"PhoneNumber","Value":254700000000}]}}}}`

func callbackRouter(svc services.DepositService) *gin.Engine {
	r := gin.New()
	r.POST("/mpesa/callback", NewCallbackHandler(svc, zap.NewNop()).HandleCallback)
	return r
}

func TestHandleCallback_OK(t *testing.T) {
	var got services.CallbackRequest
	svc := &fakeDepositService{processFn: func(_ context.Context, req services.CallbackRequest) (*services.DepositResult, error) {
		got = req
		return &services.DepositResult{UserID: "u1", CheckoutRequestID: "ws_CO_1", Credited: true}, nil
	}}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mpesa/callback?uid=u1/100", strings.NewReader(successBody))
	callbackRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Equal(t, "u1/100", got.UID)
	require.NotNil(t, got.Payload)
	assert.Equal(t, "ws_CO_1", got.Payload.CheckoutRequestID)
	require.NotNil(t, got.Payload.Amount)
	assert.Equal(t, 100.0, *got.Payload.Amount)
}

func TestHandleCallback_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		svcErr  error
		status  int
		reached bool
	}{
		{name: "malformed body", body: `{`, status: http.StatusBadRequest},
		{name: "missing envelope", body: `{"Body":{}}`, status: http.StatusBadRequest},
		{name: "invalid uid", body: successBody, svcErr: services.ErrInvalidUID, status: http.StatusBadRequest, reached: true},
		{name: "lock wait timed out", body: successBody, svcErr: services.ErrCallbackLockTimeout, status: http.StatusServiceUnavailable, reached: true},
		{name: "store failure", body: successBody, svcErr: errors.New("db down"), status: http.StatusInternalServerError, reached: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			svc := &fakeDepositService{processFn: func(context.Context, services.CallbackRequest) (*services.DepositResult, error) {
				reached = true
				return nil, tt.svcErr
			}}

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/mpesa/callback?uid=u1/100", strings.NewReader(tt.body))
			callbackRouter(svc).ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.reached, reached)
		})
	}
}

func triggerRouter(svc services.PushNotificationService) *gin.Engine {
	h := NewTriggerHandler(svc, zap.NewNop())
	r := gin.New()
	r.POST("/triggers/users/:userId/notifications/:notificationId", h.NotificationCreated)
	r.POST("/triggers/chats/:chatRoom/messages/:messageId", h.ChatMessageCreated)
	return r
}

func TestNotificationCreated(t *testing.T) {
	var got models.NotificationCreatedEvent
	svc := &fakePushService{notificationFn: func(_ context.Context, evt models.NotificationCreatedEvent) error {
		got = evt
		return nil
	}}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/triggers/users/u1/notifications/n1", strings.NewReader(`{"message":"Hello"}`))
	req.Header.Set("Content-Type", "application/json")
	triggerRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, models.NotificationCreatedEvent{UserID: "u1", NotificationID: "n1", Message: "Hello"}, got)
}

func TestNotificationCreated_ServiceError(t *testing.T) {
	svc := &fakePushService{notificationFn: func(context.Context, models.NotificationCreatedEvent) error {
		return errors.New("query failed")
	}}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/triggers/users/u1/notifications/n1", strings.NewReader(`{"message":"Hello"}`))
	triggerRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestChatMessageCreated(t *testing.T) {
	var got models.ChatMessageCreatedEvent
	svc := &fakePushService{chatFn: func(_ context.Context, evt models.ChatMessageCreatedEvent) error {
		got = evt
		return nil
	}}

	w := httptest.NewRecorder()
	body := `{"sender":"s1","to":"r1","message":"Hi"}`
	req := httptest.NewRequest(http.MethodPost, "/triggers/chats/room1/messages/m1", strings.NewReader(body))
	triggerRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, models.ChatMessageCreatedEvent{ChatRoom: "room1", MessageID: "m1", Sender: "s1", To: "r1", Message: "Hi"}, got)
}

func TestChatMessageCreated_MissingRecipient(t *testing.T) {
	called := false
	svc := &fakePushService{chatFn: func(context.Context, models.ChatMessageCreatedEvent) error {
		called = true
		return nil
	}}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/triggers/chats/room1/messages/m1", strings.NewReader(`{"sender":"s1"}`))
	triggerRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, called)
}
