// Package app wires configuration into the repositories, services and router
// shared by the HTTP server, the watcher and the Lambda entry point.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ArowuTest/surespace-functions/api/routes"
	"github.com/ArowuTest/surespace-functions/internal/config"
	"github.com/ArowuTest/surespace-functions/internal/lock"
	"github.com/ArowuTest/surespace-functions/internal/repositories"
	"github.com/ArowuTest/surespace-functions/internal/repositories/memory"
	mongorepo "github.com/ArowuTest/surespace-functions/internal/repositories/mongodb"
	"github.com/ArowuTest/surespace-functions/internal/services"
	"github.com/ArowuTest/surespace-functions/internal/triggers"
	"github.com/ArowuTest/surespace-functions/pkg/jwt"
	"github.com/ArowuTest/surespace-functions/pkg/mongodb"
	"github.com/ArowuTest/surespace-functions/pkg/push"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// lockPrefix namespaces callback locks in redis
const lockPrefix = "surespace:callback:"

// App holds the wired dependencies
type App struct {
	Config         *config.Config
	Logger         *zap.Logger
	Profiles       repositories.UserProfileRepository
	DepositService services.DepositService
	PushService    services.PushNotificationService
	Tokens         *jwt.TokenService

	db      *mongo.Database
	closers []func(context.Context) error
}

// New builds an App from cfg. Close releases every connection it opened.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	var (
		deposits     repositories.DepositRepository
		wallets      repositories.WalletRepository
		finance      repositories.FinanceRepository
		transactions repositories.TransactionHistoryRepository
	)

	switch cfg.Store {
	case config.StoreMemory:
		logger.Warn("Using in-memory store, data is lost on exit")
		store := memory.NewStore()
		deposits, wallets, finance, transactions, a.Profiles = store.Deposits, store.Wallets, store.Finance, store.Transactions, store.Profiles
	case config.StoreMongo, "":
		client, err := mongodb.NewClient(ctx, cfg.MongoDB.URI, 0)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Disconnect)

		a.db = client.Database(cfg.MongoDB.Database)
		if err := mongorepo.EnsureIndexes(ctx, a.db); err != nil {
			_ = a.Close(context.Background())
			return nil, err
		}
		deposits = mongorepo.NewDepositRepository(a.db)
		wallets = mongorepo.NewWalletRepository(a.db)
		finance = mongorepo.NewFinanceRepository(a.db)
		transactions = mongorepo.NewTransactionHistoryRepository(a.db)
		a.Profiles = mongorepo.NewUserProfileRepository(a.db)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}

	locker, err := a.newLocker(ctx)
	if err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}

	gateway, err := newGateway(cfg.Push, logger)
	if err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}

	a.DepositService = services.NewDepositService(deposits, wallets, finance, transactions, locker, logger)
	a.PushService = services.NewPushNotificationService(a.Profiles, gateway, logger, cfg.Push.MaxConcurrency)

	if cfg.JWT.Secret != "" {
		ttl := time.Duration(cfg.JWT.ExpiresIn) * time.Second
		if a.Tokens, err = jwt.NewTokenService(cfg.JWT.Secret, ttl); err != nil {
			_ = a.Close(context.Background())
			return nil, err
		}
	}

	return a, nil
}

func (a *App) newLocker(ctx context.Context) (lock.Locker, error) {
	if a.Config.Redis.Addr == "" {
		a.Logger.Warn("Redis not configured, callback locks are local to this process")
		return lock.NewMemoryLocker(a.Config.Redis.LockTTL), nil
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    []string{a.Config.Redis.Addr},
		Password: a.Config.Redis.Password,
		DB:       a.Config.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error { return client.Close() })

	return lock.NewRedisLocker(client, lockPrefix, a.Config.Redis.LockTTL), nil
}

func newGateway(cfg config.PushConfig, logger *zap.Logger) (push.Gateway, error) {
	switch cfg.Provider {
	case config.PushProviderExpo, "":
		return push.NewExpoGateway(cfg.ExpoURL, cfg.AccessToken, cfg.Timeout), nil
	case config.PushProviderMock:
		return push.NewMockGateway("mock", logger), nil
	default:
		return nil, fmt.Errorf("unknown push provider %q", cfg.Provider)
	}
}

// Router builds the HTTP router
func (a *App) Router() *gin.Engine {
	gin.SetMode(a.Config.Server.Mode)

	deps := routes.Dependencies{
		DepositService: a.DepositService,
		PushService:    a.PushService,
		Logger:         a.Logger,
	}
	// A typed nil would defeat the router's nil check
	if a.Tokens != nil {
		deps.Tokens = a.Tokens
	}
	return routes.SetupRouter(deps)
}

// Watcher builds the change-stream watcher. It requires the mongo store.
func (a *App) Watcher() (*triggers.Watcher, error) {
	if a.db == nil {
		return nil, fmt.Errorf("change streams require the %q store", config.StoreMongo)
	}
	return triggers.NewWatcher(
		a.db.Collection(mongorepo.NotificationsCollection),
		a.db.Collection(mongorepo.MessagesCollection),
		a.PushService,
		a.Logger,
	), nil
}

// Close releases connections in reverse order of creation
func (a *App) Close(ctx context.Context) error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
