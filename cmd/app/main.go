// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"commerce-role-sync/internal/config"
	"commerce-role-sync/internal/events"
	"commerce-role-sync/internal/infra/logging"
	"commerce-role-sync/internal/infra/metrics"
	red "commerce-role-sync/internal/infra/redis"
	"commerce-role-sync/internal/infra/sched"
	"commerce-role-sync/internal/infra/updater"
	"commerce-role-sync/internal/infra/web"
	"commerce-role-sync/internal/infrastructure/db"
	"commerce-role-sync/internal/usecase"
)

const version = "1.2.0"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "development mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := db.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient)

	// ---- Repositories ----
	settingsRepo := red.NewSettingsCache(db.NewPostgresSettingsRepo(pool), redisClient, cfg.Redis.TTL, logger)
	userRepo := db.NewPostgresUserRepo(pool)
	roleCatalog := db.NewPostgresRoleCatalog(pool)
	productRepo := db.NewPostgresProductRepo(pool)
	subRepo := db.NewPostgresSubscriptionRepo(pool)
	passRepo := db.NewPostgresPassRepo(pool)
	payRepo := db.NewPostgresPaymentRepo(pool)
	txManager := db.NewPgxTransactionManager(pool)

	if !cfg.Passes.Enabled {
		logger.Warn().Msg("access pass store disabled; eligibility checks cover subscriptions only")
	}

	// ---- Use cases ----
	settingsUC := usecase.NewSettingsUseCase(settingsRepo, productRepo, roleCatalog, logger)
	eligibilityUC := usecase.NewEligibilityUseCase(subRepo, passRepo, cfg.Passes.Enabled, logger)
	roleUC := usecase.NewRoleUseCase(userRepo, txManager, logger)
	syncUC := usecase.NewRoleSyncUseCase(
		settingsUC, eligibilityUC, roleUC,
		payRepo, subRepo, passRepo,
		locker, cfg.Events.HandleRefunds, logger,
	)

	// ---- Event wiring ----
	dispatcher := events.NewDispatcher(logger)
	dispatcher.Register(events.PurchaseCompleted{}, func(ctx context.Context, ev events.Event) error {
		return syncUC.HandlePurchaseCompleted(ctx, ev.(events.PurchaseCompleted).PaymentID)
	})
	dispatcher.Register(events.SubscriptionExpired{}, func(ctx context.Context, ev events.Event) error {
		return syncUC.HandleSubscriptionExpired(ctx, ev.(events.SubscriptionExpired).SubscriptionID)
	})
	dispatcher.Register(events.PassExpired{}, func(ctx context.Context, ev events.Event) error {
		return syncUC.HandlePassExpired(ctx, ev.(events.PassExpired).PassID)
	})
	dispatcher.Register(events.PaymentRefunded{}, func(ctx context.Context, ev events.Event) error {
		return syncUC.HandlePaymentRefunded(ctx, ev.(events.PaymentRefunded).PaymentID)
	})

	// ---- HTTP server ----
	srv := web.NewServer(settingsUC, dispatcher, cfg.Server.APIKey, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Expiry worker ----
	worker := sched.NewExpiryWorker(cfg.Sweeper.Interval, cfg.Sweeper.BatchSize, subRepo, passRepo, cfg.Passes.Enabled, dispatcher, logger)
	go func() { _ = worker.Run(ctx) }()

	// ---- Update checker ----
	if cfg.Updater.Enabled {
		checker := updater.NewChecker(cfg.Updater.Repo, version, cfg.Updater.Interval, logger)
		go func() { _ = checker.Run(ctx) }()
	}

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
