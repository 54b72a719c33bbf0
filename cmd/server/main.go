// @title                      Issue Tracker API
// @version                    1.0
// @description                Issues, comments and watchers with role and relationship based authorization.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
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

	"github.com/jiralite/tracker/internal/api"
	"github.com/jiralite/tracker/internal/api/handler"
	"github.com/jiralite/tracker/internal/core/ports"
	"github.com/jiralite/tracker/internal/core/service"
	"github.com/jiralite/tracker/internal/infrastructure/config"
	mongodb "github.com/jiralite/tracker/internal/infrastructure/db/mongo"
	redisdb "github.com/jiralite/tracker/internal/infrastructure/db/redis"
	"github.com/jiralite/tracker/internal/infrastructure/db/sqlstore"
	"github.com/jiralite/tracker/internal/infrastructure/otel"
	"github.com/jiralite/tracker/internal/infrastructure/seed"
	"github.com/jiralite/tracker/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "issue tracker: %v\n", err)
		os.Exit(1)
	}
}

// repositories is the storage backend selected by STORAGE_DRIVER.
type repositories struct {
	users    ports.UserRepository
	issues   ports.IssueRepository
	comments ports.CommentRepository
	ping     handler.Pinger
	close    func(context.Context) error
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment(), Service: cfg.Otel.ServiceName})

	shutdownTracing, err := otel.Setup(ctx, cfg.Otel.Endpoint, cfg.Otel.ServiceName)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	repos, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = repos.close(context.Background()) }()

	readiness := map[string]handler.Pinger{cfg.StorageDriver: repos.ping}

	var idempotency ports.IdempotencyStore
	if cfg.Redis.Enabled {
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
			Timeout:  cfg.Redis.Timeout,
		})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer func() { _ = client.Close() }()
		idempotency = redisdb.NewIdempotencyStore(client, cfg.Redis.IdempotencyTTL)
		readiness["redis"] = redisdb.Ping(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	}

	bootstrap := service.NewBootstrapper(repos.users, log)
	if err := bootstrap.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	seedUsers, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return fmt.Errorf("load seed file: %w", err)
	}
	if n, err := bootstrap.Seed(ctx, seedUsers); err != nil {
		return fmt.Errorf("seed users: %w", err)
	} else if n > 0 {
		log.Info().Int("created", n).Msg("seed users created")
	}

	router := api.NewRouter(api.Dependencies{
		Auth:      service.NewAuthService(repos.users, cfg.JWTSecret, cfg.TokenTTL),
		Users:     service.NewUserService(repos.users, log),
		Issues:    service.NewIssueService(repos.issues, repos.comments, repos.users, idempotency, log),
		Comments:  service.NewCommentService(repos.comments, repos.issues, repos.users, log),
		Readiness: readiness,
	}, cfg.JWTSecret, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.StorageDriver).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info().Msg("server stopped gracefully")
	return nil
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*repositories, error) {
	switch cfg.StorageDriver {
	case config.DriverMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")
		return &repositories{
			users:    mongodb.NewUserRepository(db),
			issues:   mongodb.NewIssueRepository(db),
			comments: mongodb.NewCommentRepository(db),
			ping:     func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close:    client.Disconnect,
		}, nil

	case config.DriverPostgres, config.DriverSQLite:
		var (
			store *sqlstore.Store
			err   error
		)
		if cfg.StorageDriver == config.DriverPostgres {
			store, err = sqlstore.OpenPostgres(ctx, cfg.Postgres.URL)
		} else {
			store, err = sqlstore.OpenSQLite(ctx, cfg.SQLite.Path)
		}
		if err != nil {
			return nil, err
		}
		log.Info().Str("dialect", string(store.Dialect())).Msg("sql store opened")
		return &repositories{
			users:    sqlstore.NewUserRepository(store),
			issues:   sqlstore.NewIssueRepository(store),
			comments: sqlstore.NewCommentRepository(store),
			ping:     store.Ping,
			close:    func(context.Context) error { return store.Close() },
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
