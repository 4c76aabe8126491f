package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/coffeetica/coffeetica/internal/api"
	"github.com/coffeetica/coffeetica/internal/api/handler"
	"github.com/coffeetica/coffeetica/internal/core/authz"
	"github.com/coffeetica/coffeetica/internal/core/service"
	"github.com/coffeetica/coffeetica/internal/infrastructure/config"
	mongodb "github.com/coffeetica/coffeetica/internal/infrastructure/db/mongo"
	redisdb "github.com/coffeetica/coffeetica/internal/infrastructure/db/redis"
	"github.com/coffeetica/coffeetica/internal/infrastructure/hasher"
	"github.com/coffeetica/coffeetica/internal/infrastructure/queue"
	"github.com/coffeetica/coffeetica/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "coffeetica",
	})

	// -------- Storage -----------------
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	accounts := mongodb.NewAccountRepository(db)
	reviews := mongodb.NewReviewRepository(db)
	pwHasher := hasher.NewBcryptHasher(cfg.BcryptCost)

	if cfg.SuperAdmin.Enabled() {
		if _, err := service.BootstrapSuperAdmin(ctx, accounts, pwHasher, service.SuperAdminSeed{
			Username: cfg.SuperAdmin.Username,
			Email:    cfg.SuperAdmin.Email,
			Password: cfg.SuperAdmin.Password,
		}, logger.For("bootstrap")); err != nil {
			return err
		}
	}

	// -------- Audit trail -----------------
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	audit := queue.NewAuditDispatcher(cfg.Audit.Workers, mongodb.NewAuditRepository(db), logger.For("audit"))
	audit.Start(workerCtx)
	defer func() {
		stopWorkers()
		audit.Wait()
	}()

	// -------- Core -----------------
	codec, err := service.NewJWTCodec(cfg.JWTSecret)
	if err != nil {
		return err
	}
	authService := service.NewAuthService(accounts, pwHasher, codec, cfg.JWTTTL, logger.For("auth"),
		service.WithFailureTracker(redisdb.NewLoginFailureCounter(rdb, cfg.Login.FailureWindow), cfg.Login.FailureWarnThreshold),
	)
	accountService := service.NewAccountService(accounts, pwHasher, audit, logger.For("accounts"))
	reviewService := service.NewReviewService(reviews, logger.For("reviews"))
	engine := authz.NewEngine(accounts, authz.NewOwnershipResolver(accounts, reviews), logger.For("authz"))

	e := api.NewRouter(api.Deps{
		Log:         logger.For("http"),
		Development: cfg.IsDevelopment(),
		ForceHTTPS:  cfg.IsProduction(),
		Auth:        authService,
		Accounts:    accountService,
		Reviews:     reviewService,
		Engine:      engine,
		HealthChecks: map[string]handler.Check{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	})

	// -------- HTTP server -----------------
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("coffeetica listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
