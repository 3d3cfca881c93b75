package services

import (
	"context"
	"fmt"

	"github.com/ArowuTest/surespace-functions/internal/metrics"
	"github.com/ArowuTest/surespace-functions/internal/models"
	"github.com/ArowuTest/surespace-functions/internal/repositories"
	"github.com/ArowuTest/surespace-functions/pkg/push"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Push payload constants
const (
	NotificationTitle = "Sure Space"
	ChatScreenRoute   = "/chat-screen"
	DefaultBadge      = "1"
	DefaultSound      = "default"

	triggerNotification = "notification"
	triggerChat         = "chat"
)

var _ PushNotificationService = (*PushNotificationServiceImpl)(nil)

// PushNotificationServiceImpl looks up profiles and dispatches pushes.
// Every dispatch is awaited before a trigger call returns; dispatch
// failures are logged and never returned.
type PushNotificationServiceImpl struct {
	profiles       repositories.UserProfileRepository
	gateway        push.Gateway
	logger         *zap.Logger
	maxConcurrency int
}

// NewPushNotificationService creates a new PushNotificationServiceImpl
func NewPushNotificationService(profiles repositories.UserProfileRepository, gateway push.Gateway, logger *zap.Logger, maxConcurrency int) *PushNotificationServiceImpl {
	if maxConcurrency <= 0 {
		maxConcurrency = 10
	}
	return &PushNotificationServiceImpl{
		profiles:       profiles,
		gateway:        gateway,
		logger:         logger,
		maxConcurrency: maxConcurrency,
	}
}

// NotificationPayload builds the push for a notification record
func NotificationPayload(notificationID, message, profilePic string) *models.PushPayload {
	return &models.PushPayload{
		Notification: models.PushNotification{
			ID:    "/notifications/" + notificationID,
			Title: NotificationTitle,
			Body:  message,
			Badge: DefaultBadge,
			Sound: DefaultSound,
		},
		Data: models.PushData{ProfilePic: profilePic},
	}
}

// ChatPayload builds the push for a chat message
func ChatPayload(senderName, message, senderPic string) *models.PushPayload {
	return &models.PushPayload{
		Notification: models.PushNotification{
			ID:    ChatScreenRoute,
			Title: senderName,
			Body:  message,
			Badge: DefaultBadge,
			Sound: DefaultSound,
		},
		Data: models.PushData{ProfilePic: senderPic},
	}
}

// NotificationCreated handles a new record under a user's notifications
func (s *PushNotificationServiceImpl) NotificationCreated(ctx context.Context, evt models.NotificationCreatedEvent) error {
	s.logger.Info("Notification created",
		zap.String("userId", evt.UserID),
		zap.String("notificationId", evt.NotificationID))

	profiles, err := s.profiles.FindByUserID(ctx, evt.UserID)
	if err != nil {
		return fmt.Errorf("failed to find user profiles: %w", err)
	}

	g := s.newGroup()
	for _, profile := range profiles {
		s.logger.Debug("Found user to", zap.String("fullName", profile.FullName))

		payload := NotificationPayload(evt.NotificationID, evt.Message, profile.ProfilePic)
		g.Go(func() error {
			s.dispatch(ctx, triggerNotification, profile.PushToken, payload)
			return nil
		})
	}
	return g.Wait()
}

// ChatMessageCreated handles a new message in a chat room
func (s *PushNotificationServiceImpl) ChatMessageCreated(ctx context.Context, evt models.ChatMessageCreatedEvent) error {
	s.logger.Info("Chat message created",
		zap.String("chatRoom", evt.ChatRoom),
		zap.String("messageId", evt.MessageID),
		zap.String("sender", evt.Sender),
		zap.String("to", evt.To))

	recipients, err := s.profiles.FindByUserID(ctx, evt.To)
	if err != nil {
		return fmt.Errorf("failed to find recipient profiles: %w", err)
	}

	g := s.newGroup()
	for _, recipient := range recipients {
		senders, err := s.profiles.FindByUserID(ctx, evt.Sender)
		if err != nil {
			// let already queued pushes finish before failing
			_ = g.Wait()
			return fmt.Errorf("failed to find sender profiles: %w", err)
		}

		for _, sender := range senders {
			payload := ChatPayload(sender.FullName, evt.Message, sender.ProfilePic)
			g.Go(func() error {
				s.dispatch(ctx, triggerChat, recipient.PushToken, payload)
				return nil
			})
		}
	}
	return g.Wait()
}

func (s *PushNotificationServiceImpl) newGroup() *errgroup.Group {
	g := new(errgroup.Group)
	g.SetLimit(s.maxConcurrency)
	return g
}

func (s *PushNotificationServiceImpl) dispatch(ctx context.Context, trigger, token string, payload *models.PushPayload) {
	receipt, err := s.gateway.Send(ctx, token, payload)
	if err != nil {
		metrics.PushDispatches.WithLabelValues(trigger, metrics.StatusFailed).Inc()
		s.logger.Error("Error sending message",
			zap.String("trigger", trigger),
			zap.String("title", payload.Notification.Title),
			zap.Error(err))
		return
	}

	metrics.PushDispatches.WithLabelValues(trigger, metrics.StatusSent).Inc()
	s.logger.Info("Successfully sent message",
		zap.String("trigger", trigger),
		zap.String("receiptId", receipt.ID),
		zap.String("status", receipt.Status))
}
