// Package triggers turns inserts into the notifications and messages collections
// into calls on the push notification service.
package triggers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ArowuTest/surespace-functions/internal/models"
	"github.com/ArowuTest/surespace-functions/internal/services"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultRetryDelay is the pause before reopening a failed change stream
const DefaultRetryDelay = 5 * time.Second

// ErrIncompleteDocument is returned for inserted documents missing their routing fields
var ErrIncompleteDocument = errors.New("inserted document is missing required fields")

// changeEvent is the subset of a change stream event the watcher reads
type changeEvent[T any] struct {
	OperationType string `bson:"operationType"`
	FullDocument  T      `bson:"fullDocument"`
}

// Watcher follows insert-only change streams and fires the create-triggers
type Watcher struct {
	notifications *mongo.Collection
	messages      *mongo.Collection
	pushService   services.PushNotificationService
	logger        *zap.Logger
	retryDelay    time.Duration
}

// NewWatcher creates a new Watcher over the given collections
func NewWatcher(notifications, messages *mongo.Collection, pushService services.PushNotificationService, logger *zap.Logger) *Watcher {
	return &Watcher{
		notifications: notifications,
		messages:      messages,
		pushService:   pushService,
		logger:        logger,
		retryDelay:    DefaultRetryDelay,
	}
}

// Run watches both collections until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.follow(ctx, w.notifications, w.handleNotification)
	})
	g.Go(func() error {
		return w.follow(ctx, w.messages, w.handleChatMessage)
	})
	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// follow reopens the stream after failures, resuming after the last handled event
func (w *Watcher) follow(ctx context.Context, coll *mongo.Collection, handle func(context.Context, bson.Raw) error) error {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"operationType": "insert"}}},
	}
	log := w.logger.With(zap.String("collection", coll.Name()))

	var resumeToken bson.Raw
	for {
		opts := options.ChangeStream()
		if resumeToken != nil {
			opts.SetResumeAfter(resumeToken)
		}

		stream, err := coll.Watch(ctx, pipeline, opts)
		if err == nil {
			log.Info("Watching for inserts")
			for stream.Next(ctx) {
				if herr := handle(ctx, stream.Current); herr != nil {
					log.Error("Trigger failed", zap.Error(herr))
				}
				resumeToken = stream.ResumeToken()
			}
			err = stream.Err()
			_ = stream.Close(context.Background())
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("Change stream interrupted, retrying", zap.Error(err), zap.Duration("delay", w.retryDelay))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.retryDelay):
		}
	}
}

func (w *Watcher) handleNotification(ctx context.Context, raw bson.Raw) error {
	evt, err := DecodeNotification(raw)
	if err != nil {
		return err
	}
	return w.pushService.NotificationCreated(ctx, evt)
}

func (w *Watcher) handleChatMessage(ctx context.Context, raw bson.Raw) error {
	evt, err := DecodeChatMessage(raw)
	if err != nil {
		return err
	}
	return w.pushService.ChatMessageCreated(ctx, evt)
}

// DecodeNotification maps a notifications insert event to a NotificationCreatedEvent
func DecodeNotification(raw bson.Raw) (models.NotificationCreatedEvent, error) {
	var change changeEvent[models.Notification]
	if err := bson.Unmarshal(raw, &change); err != nil {
		return models.NotificationCreatedEvent{}, fmt.Errorf("failed to decode notification event: %w", err)
	}
	doc := change.FullDocument
	if doc.UserID == "" || doc.ID == "" {
		return models.NotificationCreatedEvent{}, ErrIncompleteDocument
	}
	return models.NotificationCreatedEvent{
		UserID:         doc.UserID,
		NotificationID: doc.ID,
		Message:        doc.Message,
	}, nil
}

// DecodeChatMessage maps a messages insert event to a ChatMessageCreatedEvent
func DecodeChatMessage(raw bson.Raw) (models.ChatMessageCreatedEvent, error) {
	var change changeEvent[models.ChatMessage]
	if err := bson.Unmarshal(raw, &change); err != nil {
		return models.ChatMessageCreatedEvent{}, fmt.Errorf("failed to decode chat message event: %w", err)
	}
	doc := change.FullDocument
	if doc.Sender == "" || doc.To == "" {
		return models.ChatMessageCreatedEvent{}, ErrIncompleteDocument
	}
	return models.ChatMessageCreatedEvent{
		ChatRoom:  doc.ChatRoom,
		MessageID: doc.ID,
		Sender:    doc.Sender,
		To:        doc.To,
		Message:   doc.Message,
	}, nil
}
