package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/di"
	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/handlers"
	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/platform/config"
	pfirestore "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/platform/firestore"
	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/platform/jobs"
	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/platform/observability"
	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/repositories"
	firestoreRepo "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/repositories/firestore"
	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/services"
)

func main() {
	ctx := context.Background()
	startedAt := time.Now().UTC()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	baseLogger, err := observability.NewLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("repricer")
	ctx = observability.WithLogger(ctx, logger)

	vendors, err := config.LoadVendorTable(cfg.Vendors.File)
	if err != nil {
		logger.Fatal("failed to load own vendor table", zap.String("path", cfg.Vendors.File), zap.Error(err))
	}
	logger.Info("own vendor table loaded", zap.Int("vendors", len(vendors)))

	provider := pfirestore.NewProvider(cfg.Firestore)

	var (
		publisher   services.PriceChangePublisher
		extraChecks []repositories.DependencyCheck
		pubsubConn  *pubsub.Client
	)
	if topicID := strings.TrimSpace(cfg.PubSub.Topic); topicID != "" {
		pubsubConn, err = newPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			logger.Fatal("failed to initialise pubsub client", zap.Error(err))
		}
		topic := pubsubConn.Topic(topicID)
		pubsubPublisher, err := jobs.NewPubSubPriceChangePublisher(topic)
		if err != nil {
			logger.Fatal("failed to initialise price change publisher", zap.Error(err))
		}
		publisher = pubsubPublisher
		extraChecks = append(extraChecks, repositories.DependencyCheck{
			Name:    "pubsub",
			Timeout: 2 * time.Second,
			Check:   pubsubPublisher.Ping,
		})
	} else {
		logger.Warn("pubsub topic not configured; price changes will not be published")
	}

	registry, err := firestoreRepo.NewRegistry(provider, extraChecks...)
	if err != nil {
		logger.Fatal("failed to initialise firestore repositories", zap.Error(err))
	}

	telemetry, err := observability.NewRepricingTelemetry(logger.Named("telemetry"))
	if err != nil {
		logger.Fatal("failed to initialise repricing telemetry", zap.Error(err))
	}

	container, err := di.NewContainer(ctx, cfg, registry, di.Dependencies{
		Logger:    logger,
		Vendors:   vendors,
		Publisher: publisher,
		Telemetry: telemetry,
		Build:     buildInfoFromEnv(startedAt),
	})
	if err != nil {
		logger.Fatal("failed to initialise container", zap.Error(err))
	}

	repricingHandlers := handlers.NewRepricingHandlers(container.Services.Repricing)
	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.TraceMiddleware(cfg.Firestore.ProjectID),
		observability.RecoveryMiddleware(),
		observability.RequestLoggerMiddleware(),
	}

	var opts []handlers.Option
	opts = append(opts, handlers.WithMiddlewares(middlewares...))
	if container.Services.System != nil {
		opts = append(opts, handlers.WithHealthHandlers(handlers.NewHealthHandlers(container.Services.System)))
	}
	opts = append(opts, handlers.WithRepricingRoutes(repricingHandlers.Routes))

	router := handlers.NewRouter(opts...)
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	schedulerCtx, schedulerCancel := context.WithCancel(ctx)
	var schedulerWG sync.WaitGroup
	scheduler, err := jobs.NewBatchScheduler(container.Services.Repricing, jobs.BatchSchedulerConfig{
		Interval:   cfg.Schedule.Interval,
		SlowEvery:  cfg.Schedule.SlowEvery,
		Products:   cfg.Schedule.Products,
		BatchLimit: cfg.Schedule.BatchLimit,
	}, logger.Named("scheduler"))
	if err != nil {
		logger.Warn("batch scheduler disabled", zap.Error(err))
	} else {
		schedulerWG.Add(1)
		go func() {
			defer schedulerWG.Done()
			scheduler.Run(schedulerCtx)
		}()
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("repricer listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	schedulerCancel()
	schedulerWG.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	if pubsubConn != nil {
		if err := pubsubConn.Close(); err != nil {
			logger.Warn("pubsub client close failed", zap.Error(err))
		}
	}
	if err := container.Close(shutdownCtx); err != nil {
		logger.Warn("repository close failed", zap.Error(err))
	}
}

func newPubSubClient(ctx context.Context, cfg config.PubSubConfig) (*pubsub.Client, error) {
	var opts []option.ClientOption
	if host := strings.TrimSpace(cfg.EmulatorHost); host != "" {
		opts = append(opts,
			option.WithEndpoint(host),
			option.WithoutAuthentication(),
			option.WithGRPCDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		)
	}
	return pubsub.NewClient(ctx, cfg.ProjectID, opts...)
}

func buildInfoFromEnv(started time.Time) services.BuildInfo {
	version := strings.TrimSpace(os.Getenv("REPRICER_BUILD_VERSION"))
	if version == "" {
		version = "dev"
	}
	return services.BuildInfo{
		Version:   version,
		StartedAt: started,
	}
}
