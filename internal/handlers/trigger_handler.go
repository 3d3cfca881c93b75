package handlers

import (
	"net/http"

	"github.com/ArowuTest/surespace-functions/internal/models"
	"github.com/ArowuTest/surespace-functions/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TriggerHandler receives document-created events from the datastore bridge
type TriggerHandler struct {
	pushService services.PushNotificationService
	logger      *zap.Logger
}

// NewTriggerHandler creates a new TriggerHandler
func NewTriggerHandler(pushService services.PushNotificationService, logger *zap.Logger) *TriggerHandler {
	return &TriggerHandler{
		pushService: pushService,
		logger:      logger,
	}
}

// NotificationCreatedRequest is the body of a notification-created event
type NotificationCreatedRequest struct {
	Message string `json:"message"`
}

// ChatMessageCreatedRequest is the body of a chat-message-created event
type ChatMessageCreatedRequest struct {
	Sender  string `json:"sender" binding:"required"`
	To      string `json:"to" binding:"required"`
	Message string `json:"message"`
}

// NotificationCreated handles POST /triggers/users/:userId/notifications/:notificationId
func (h *TriggerHandler) NotificationCreated(c *gin.Context) {
	var req NotificationCreatedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	evt := models.NotificationCreatedEvent{
		UserID:         c.Param("userId"),
		NotificationID: c.Param("notificationId"),
		Message:        req.Message,
	}
	if err := h.pushService.NotificationCreated(c.Request.Context(), evt); err != nil {
		h.logger.Error("Notification trigger failed",
			zap.String("user_id", evt.UserID),
			zap.String("notification_id", evt.NotificationID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to dispatch notification"})
		return
	}

	c.Status(http.StatusNoContent)
}

// ChatMessageCreated handles POST /triggers/chats/:chatRoom/messages/:messageId
func (h *TriggerHandler) ChatMessageCreated(c *gin.Context) {
	var req ChatMessageCreatedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	evt := models.ChatMessageCreatedEvent{
		ChatRoom:  c.Param("chatRoom"),
		MessageID: c.Param("messageId"),
		Sender:    req.Sender,
		To:        req.To,
		Message:   req.Message,
	}
	if err := h.pushService.ChatMessageCreated(c.Request.Context(), evt); err != nil {
		h.logger.Error("Chat trigger failed",
			zap.String("chat_room", evt.ChatRoom),
			zap.String("message_id", evt.MessageID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to dispatch chat message"})
		return
	}

	c.Status(http.StatusNoContent)
}
