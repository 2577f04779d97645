package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-backend/internal/application/command"
	"github.com/sangkips/pos-backend/internal/application/service"
	"github.com/sangkips/pos-backend/internal/config"
	"github.com/sangkips/pos-backend/internal/infrastructure/database"
	"github.com/sangkips/pos-backend/internal/infrastructure/repository"
	"github.com/sangkips/pos-backend/internal/infrastructure/store"
	"github.com/sangkips/pos-backend/internal/observability"
	"github.com/sangkips/pos-backend/internal/presentation/http/handler"
	"github.com/sangkips/pos-backend/internal/presentation/http/routes"
	"github.com/sangkips/pos-backend/pkg/logger"
	"github.com/sangkips/pos-backend/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log, err := logger.New(cfg.App.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", "error", err)
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := observability.InitOTel(ctx, log, cfg.App, cfg.Telemetry)

	db, err := database.Open(&cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", "driver", cfg.Database.Driver, "error", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("failed to run migrations", "error", err)
	}

	if err := database.SeedDefaultData(db, cfg.Admin, log); err != nil {
		log.Warn("failed to seed default data", "error", err)
	}

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Repositories
	st := store.New(db, log)
	uow := repository.NewUnitOfWork(st)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Services and the command façade every order and payment call goes through
	authService := service.NewAuthService(uow.Users(), jwtManager)
	dispatcher := command.NewDispatcher(command.Context{
		Orders:   service.NewOrderService(uow, nil),
		Payments: service.NewPaymentService(uow),
		Log:      log.With("component", "command"),
	}, nil)

	handlers := &routes.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Order:   handler.NewOrderHandler(dispatcher),
		Payment: handler.NewPaymentHandler(dispatcher, uow.PaymentMethods()),
	}

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Log:             log.With("component", "http"),
		Stop:            ctx.Done(),
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting server", "name", cfg.App.Name, "port", port, "env", cfg.App.Env, "driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracer shutdown failed", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
