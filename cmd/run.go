package cmd

import (
	"context"
	"fmt"
	"time"

	"bookie/application"
	"bookie/config"
	"bookie/database"
	"bookie/infrastructure"
	"bookie/infrastructure/observability"
	"bookie/repository"

	"bookie/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// Run initializes the core and blocks until the context is cancelled
func Run(ctx context.Context) error {
	cfg := config.Get()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established")

	log.Info("Connecting to NATS...")
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	natsPublisher := infrastructure.NewNATSEventPublisher(natsClient)

	log.Info("Connecting to Redis...")
	rdb, err := infrastructure.ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	uowFactory := repository.NewUnitOfWorkFactory(db, func() interfaces.TransactionalEventPublisher {
		return infrastructure.NewTransactionalPublisher(natsPublisher)
	})

	games := infrastructure.NewCachedGameRepository(repository.NewGameRepository(db), rdb)
	core := application.NewCore(uowFactory, games)

	consumer := infrastructure.NewSettlementConsumer(natsClient, core)
	if err := consumer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start settlement consumer: %w", err)
	}

	metricsSrv := observability.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return db.Ping(ctx)
	})
	log.WithField("port", cfg.MetricsPort).Info("Metrics server started")

	log.WithField("environment", cfg.Environment).Info("Core is running")
	<-ctx.Done()

	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := consumer.Stop(); err != nil {
		log.WithError(err).Warn("Settlement consumer shutdown failed")
	}

	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Metrics server shutdown failed")
	}

	if err := natsClient.Close(); err != nil {
		log.WithError(err).Warn("NATS shutdown failed")
	}

	if err := rdb.Close(); err != nil {
		log.WithError(err).Warn("Redis shutdown failed")
	}

	db.Close()
	log.Info("Shutdown completed")

	return nil
}
