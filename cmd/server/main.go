package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/secretkeeper/secrets/internal/api"
	"github.com/secretkeeper/secrets/internal/api/handler"
	"github.com/secretkeeper/secrets/internal/api/middleware"
	"github.com/secretkeeper/secrets/internal/core/ports"
	"github.com/secretkeeper/secrets/internal/core/service"
	"github.com/secretkeeper/secrets/internal/infrastructure/db/memory"
	mongostore "github.com/secretkeeper/secrets/internal/infrastructure/db/mongo"
	"github.com/secretkeeper/secrets/internal/infrastructure/db/postgres"
	redisstore "github.com/secretkeeper/secrets/internal/infrastructure/db/redis"
	"github.com/secretkeeper/secrets/internal/infrastructure/oauth"
	"github.com/secretkeeper/secrets/internal/pkg/config"
	"github.com/secretkeeper/secrets/internal/web"
	"github.com/secretkeeper/secrets/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	janitorInterval = time.Minute
)

// cleanup releases a backing connection on shutdown.
type cleanup func(ctx context.Context) error

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "secrets",
	})
	log.Info().Str("env", cfg.Env).Msg("starting secrets service")

	var closers []cleanup
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](closeCtx); err != nil {
				log.Warn().Err(err).Msg("close dependency")
			}
		}
	}()

	users, closeUsers, err := openUserStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	closers = append(closers, closeUsers)
	ready := []handler.Dependency{{Name: cfg.UserStore, Ping: users.Ping}}

	sessionStore, closeSessions, err := openSessionStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	if closeSessions != nil {
		closers = append(closers, closeSessions)
	}
	if pinger, ok := sessionStore.(interface{ Ping(context.Context) error }); ok {
		ready = append(ready, handler.Dependency{Name: cfg.Session.Store, Ping: pinger.Ping})
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	sessions := service.NewSessionService(sessionStore, users, cfg.Session.Secret, cfg.Session.TTL, log)
	deps := api.Dependencies{
		Auth:     service.NewAuthService(users, service.NewBcryptHasher(), log),
		Sessions: sessions,
		Secrets:  service.NewSecretService(users, log),
		Cookie: middleware.SessionCookie{
			Secure: cfg.Session.CookieSecure,
			MaxAge: sessions.TTL(),
		},
		Renderer: renderer,
		Ready:    ready,
		Log:      log,
	}
	if cfg.Google.ClientID != "" {
		deps.Provider = oauth.NewGoogle(oauth.GoogleConfig{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.CallbackURL,
			UserInfoURL:  cfg.Google.UserInfoURL,
		})
	} else {
		log.Warn().Msg("GOOGLE_CLIENT_ID not set, google sign-in disabled")
	}

	e := api.NewRouter(deps)
	e.Server.ReadHeaderTimeout = 10 * time.Second

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Msg("HTTP server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func openUserStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.UserRepository, cleanup, error) {
	switch cfg.UserStore {
	case config.StoreMongo:
		store, err := mongostore.Open(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open mongo: %w", err)
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo credential store ready")
		return store.Users, store.Close, nil

	default:
		db, err := postgres.Connect(ctx, postgres.Config{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.MaxConns,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to migrate postgres: %w", err)
		}
		log.Info().Str("database", cfg.Postgres.Database).Msg("postgres credential store ready")
		return postgres.NewUserRepository(db), func(context.Context) error { return db.Close() }, nil
	}
}

func openSessionStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.SessionStore, cleanup, error) {
	if cfg.Session.Store == config.StoreRedis {
		client, err := redisstore.Connect(ctx, redisstore.Config{
			URL:      cfg.Redis.URL,
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info().Str("addr", client.Options().Addr).Msg("redis session store ready")
		return redisstore.NewSessionStore(client), func(context.Context) error { return client.Close() }, nil
	}

	store := memory.NewSessionStore()
	go store.RunJanitor(ctx, janitorInterval)
	return store, nil, nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "secrets service terminated with error: %v\n", err)
		os.Exit(1)
	}
}
