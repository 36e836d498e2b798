package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=3000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// UserStore selects the credential store backend: postgres or mongo.
	UserStore string `env:"USER_STORE, default=postgres"`

	Session  SessionConfig
	Postgres PostgresConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Google   GoogleConfig
}

type SessionConfig struct {
	Secret string        `env:"SESSION_SECRET, required"`
	TTL    time.Duration `env:"SESSION_TTL,    default=24h"`
	// Store selects the session backend: memory or redis.
	Store        string `env:"SESSION_STORE,         default=memory"`
	CookieSecure bool   `env:"SESSION_COOKIE_SECURE, default=false"`
}

type PostgresConfig struct {
	User     string `env:"PG_USER,     default=postgres"`
	Password string `env:"PG_PASSWORD"`
	Host     string `env:"PG_HOST,     default=localhost"`
	Port     string `env:"PG_PORT,     default=5432"`
	Database string `env:"PG_DATABASE, default=secrets"`
	SSLMode  string `env:"PG_SSLMODE,  default=disable"`
	MaxConns int    `env:"PG_MAX_CONNS, default=10"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=secrets"`
}

type RedisConfig struct {
	URL      string `env:"REDIS_URL"`
	Addr     string `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,        default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=10"`
}

type GoogleConfig struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	CallbackURL  string `env:"GOOGLE_CALLBACK_URL, default=http://localhost:3000/auth/google/secrets"`
	UserInfoURL  string `env:"GOOGLE_USERINFO_URL, default=https://www.googleapis.com/oauth2/v3/userinfo"`
}

// IsDevelopment reports whether the process runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate checks the settings envconfig cannot express as tags.
func (c *Config) Validate() error {
	switch c.UserStore {
	case StorePostgres, StoreMongo:
	default:
		return fmt.Errorf("config: unknown USER_STORE %q", c.UserStore)
	}
	switch c.Session.Store {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("config: unknown SESSION_STORE %q", c.Session.Store)
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
