package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends
const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Push providers
const (
	PushProviderExpo = "expo"
	PushProviderMock = "mock"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Push     PushConfig
	Store    string
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Mode string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// RedisConfig holds the callback lock store configuration. An empty Addr disables locking.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
}

// JWTConfig holds the secret used to authenticate trigger deliveries
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// PushConfig holds push gateway configuration
type PushConfig struct {
	Provider       string
	ExpoURL        string
	AccessToken    string
	Timeout        time.Duration
	MaxConcurrency int
}

// Load loads configuration from .env, an optional config file and environment variables.
// Environment keys use underscores for nesting, e.g. MONGODB_URI or PUSH_PROVIDER.
func Load() (*Config, error) {
	// A missing .env is fine, we fall back to the process environment
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)

	// Read configuration
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	// Unmarshal configuration
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration. Every key is registered
// here so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("Server.Port", "8080")
	v.SetDefault("Server.Mode", "release")
	v.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	v.SetDefault("MongoDB.Database", "surespace")
	v.SetDefault("Redis.Addr", "")
	v.SetDefault("Redis.Password", "")
	v.SetDefault("Redis.DB", 0)
	v.SetDefault("Redis.LockTTL", 30*time.Second)
	v.SetDefault("JWT.Secret", "")
	v.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	v.SetDefault("Push.Provider", PushProviderExpo)
	v.SetDefault("Push.ExpoURL", "https://exp.host/--/api/v2/push/send")
	v.SetDefault("Push.AccessToken", "")
	v.SetDefault("Push.Timeout", 10*time.Second)
	v.SetDefault("Push.MaxConcurrency", 10)
	v.SetDefault("Store", StoreMongo)
	v.SetDefault("LogLevel", "info")
}

// ErrDistributedLockRequired is returned when a multi-process deployment has no redis configured
var ErrDistributedLockRequired = errors.New("REDIS_ADDR is required: callback locks must be shared across instances")

// ValidateServerless checks settings that a deployment running many instances at once depends on.
// The in-process callback lock only serializes deliveries inside one instance.
func (c *Config) ValidateServerless() error {
	if c.Store == StoreMemory {
		return nil
	}
	if strings.TrimSpace(c.Redis.Addr) == "" {
		return ErrDistributedLockRequired
	}
	return nil
}
