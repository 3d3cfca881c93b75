package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/ArowuTest/surespace-functions/internal/services"
	"github.com/ArowuTest/surespace-functions/pkg/mpesa"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxCallbackBody caps the callback body read from M-Pesa
const maxCallbackBody = 1 << 20

// CallbackHandler handles M-Pesa STK push callbacks
type CallbackHandler struct {
	depositService services.DepositService
	logger         *zap.Logger
}

// NewCallbackHandler creates a new CallbackHandler
func NewCallbackHandler(depositService services.DepositService, logger *zap.Logger) *CallbackHandler {
	return &CallbackHandler{
		depositService: depositService,
		logger:         logger,
	}
}

// HandleCallback handles POST /mpesa/callback?uid=<userId>/<amount>
func (h *CallbackHandler) HandleCallback(c *gin.Context) {
	uid := c.Query("uid")

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxCallbackBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	payload, err := mpesa.ParseSTKCallback(body)
	if err != nil {
		h.logger.Warn("Rejected mpesa callback", zap.String("uid", uid), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.depositService.ProcessCallback(c.Request.Context(), services.CallbackRequest{
		UID:     uid,
		Payload: payload,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidUID):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrCallbackLockTimeout):
			h.logger.Error("Gave up waiting for checkout lock",
				zap.String("uid", uid),
				zap.String("checkout_request_id", payload.CheckoutRequestID),
			)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Failed to process mpesa callback",
				zap.String("uid", uid),
				zap.String("checkout_request_id", payload.CheckoutRequestID),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process callback"})
		}
		return
	}

	h.logger.Info("Processed mpesa callback",
		zap.String("user_id", result.UserID),
		zap.String("checkout_request_id", result.CheckoutRequestID),
		zap.Bool("duplicate", result.Duplicate),
		zap.Bool("credited", result.Credited),
	)
	c.String(http.StatusOK, "OK")
}
