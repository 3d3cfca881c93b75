package routes

import (
	"net/http"

	"github.com/ArowuTest/surespace-functions/internal/handlers"
	"github.com/ArowuTest/surespace-functions/internal/middleware"
	"github.com/ArowuTest/surespace-functions/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies are the services and collaborators the router needs
type Dependencies struct {
	DepositService services.DepositService
	PushService    services.PushNotificationService
	// Tokens authenticates trigger deliveries. Nil disables the trigger routes.
	Tokens middleware.TokenValidator
	Logger *zap.Logger
}

// SetupRouter sets up the router
func SetupRouter(deps Dependencies) *gin.Engine {
	// Create router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(deps.Logger))

	// Create handlers
	callbackHandler := handlers.NewCallbackHandler(deps.DepositService, deps.Logger)
	triggerHandler := handlers.NewTriggerHandler(deps.PushService, deps.Logger)

	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// The callback URL registered with M-Pesa
	router.POST("/mpesa/callback", callbackHandler.HandleCallback)

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", health)
		public.POST("/mpesa/callback", callbackHandler.HandleCallback)
	}

	if deps.Tokens == nil {
		deps.Logger.Warn("JWT secret not configured, trigger routes are disabled")
		return router
	}

	// Protected routes
	triggers := router.Group("/api/v1/triggers")
	triggers.Use(middleware.TriggerAuthMiddleware(deps.Tokens))
	{
		triggers.POST("/users/:userId/notifications/:notificationId", triggerHandler.NotificationCreated)
		triggers.POST("/chats/:chatRoom/messages/:messageId", triggerHandler.ChatMessageCreated)
	}

	return router
}
