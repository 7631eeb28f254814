package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	mqcontracts "github.com/bayraktare/pmt/contracts/mq"
	"github.com/bayraktare/pmt/internal/config"
	"github.com/bayraktare/pmt/internal/mqhandler"
	"github.com/bayraktare/pmt/internal/repository"
	"github.com/bayraktare/pmt/pkg/db"
	"github.com/bayraktare/pmt/pkg/logger"
	"github.com/bayraktare/pmt/pkg/mq"
	redisclient "github.com/bayraktare/pmt/pkg/redis"
	"github.com/bayraktare/pmt/pkg/util"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		logger.NewLogger().Fatal("failed to load config", zap.Error(err))
	}

	log := logger.New(cfg.Log)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Starting notifier...")

	// Init Redis
	rdb, err := redisclient.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Redis initialization failed", zap.Error(err))
	}
	defer rdb.Close()

	deduper := util.NewDeduperWithLogger(rdb, 24*time.Hour, log)
	retryCounter := util.NewRetryCounter(rdb, time.Hour)

	// Init DB
	dbConn, err := db.NewConnection(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	logRepo := repository.NewNotificationLogRepository(dbConn)
	if err := logRepo.EnsureSchema(ctx); err != nil {
		log.Fatal("failed to ensure notification_log schema", zap.Error(err))
	}

	// DLQ publisher
	dlq, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("failed to init DLQ publisher", zap.Error(err))
	}
	defer dlq.Close()

	h := mqhandler.NewNotificationCreatedHandler(logRepo, deduper, retryCounter, dlq, log)

	log.Info("Initializing notification consumer", zap.String("queue", cfg.Notifier.Queue))
	consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.Notifier.Queue, mqcontracts.RoutingKeyNotificationCreated, log)
	if err != nil {
		log.Fatal("failed to init notification consumer", zap.Error(err))
	}
	defer consumer.Close()
	consumer.SetHandler(h.Handle)

	if err := consumer.StartConsuming(ctx); err != nil {
		log.Error("notification consumer failed", zap.Error(err))
	}
	log.Info("Notifier stopped")
}
