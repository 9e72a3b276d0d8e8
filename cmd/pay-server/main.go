package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"paygram/internal/handler"
	"paygram/internal/model"
	"paygram/internal/notifier"
	"paygram/internal/server"
	"paygram/internal/service"
	"paygram/internal/service/balance"
	"paygram/internal/service/feed"
	"paygram/internal/service/identity"
	"paygram/internal/service/ledger"
	"paygram/internal/service/mq"
	"paygram/internal/service/payment"
	"paygram/internal/service/reaction"
	requestsvc "paygram/internal/service/request"
	"paygram/internal/service/split"
	"paygram/internal/worker"

	"paygram/pkg/cache"
	"paygram/pkg/chain"
	"paygram/pkg/config"
	"paygram/pkg/database"
	"paygram/pkg/logger"
	"paygram/pkg/utils/lock"
	"paygram/pkg/validator"
)

// @title Pay Server API
// @version 1.0
// @description Peer-to-peer stablecoin payments: usernames, transfers, requests, split bills and the activity feed.

// @host localhost:8080
// @BasePath /
func main() {
	config.Init()
	validator.Init()

	logger.Init(config.Global.App.Env)
	defer logger.Sync()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		config.Global.DB.Host,
		config.Global.DB.User,
		config.Global.DB.Password,
		config.Global.DB.Name,
		config.Global.DB.Port,
	)

	db, err := database.ConnectPostgres(dsn)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		logger.Fatal("auto migration failed", zap.Error(err))
	}

	rdb, err := database.ConnectRedis(config.Global.Redis.Addr, config.Global.Redis.Password, config.Global.Redis.DB)
	if err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}

	// Chain access for the balance reader.
	chainClient, err := chain.NewClient(
		config.Global.Chain.RpcUrl,
		config.Global.Chain.TokenAddress,
		config.Global.Chain.TokenDecimals,
	)
	if err != nil {
		logger.Fatal("chain client failed", zap.Error(err))
	}
	defer chainClient.Close()

	balanceCache := cache.NewMultiLevelCache(
		cache.NewMemoryCache(time.Minute, 5*time.Minute),
		cache.NewRedisCache(rdb),
	)

	// Core services.
	users := identity.NewService(db)
	ledgerSvc := ledger.NewService(db)
	reactions := reaction.NewService(db)
	requests := requestsvc.NewService(db)
	splits := split.NewService(requests)
	feedSvc := feed.NewService(db, reactions, nil)
	balances := balance.NewService(chainClient, balanceCache)

	signer := payment.NewHTTPSigner(
		config.Global.Signer.BaseURL,
		time.Duration(config.Global.Signer.Timeout)*time.Second,
	)
	payments := payment.NewService(users, ledgerSvc, requests, signer)

	// Messaging: outbox relay on the producer side, notification worker on
	// the consumer side.
	var producer mq.Producer
	var consumer mq.Consumer
	switch config.Global.Redis.MQType {
	case "kafka":
		producer = mq.NewKafkaProducer(config.Global.Kafka.Brokers)
		consumer = mq.NewKafkaConsumer(config.Global.Kafka.Brokers, "pay-notifications")
	default:
		producer = mq.NewRedisProducer(rdb)
		consumer = mq.NewRedisConsumer(rdb, "pay-notifications", "pay-server-1")
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	relay := service.NewRelayService(db, producer)
	go relay.Start(ctx)

	var notify notifier.Notifier = notifier.NopNotifier{}
	if config.Global.Telegram.Enabled {
		tg, err := notifier.NewTelegramNotifier(config.Global.Telegram.BotToken)
		if err != nil {
			logger.Fatal("telegram notifier failed", zap.Error(err))
		}
		notify = tg
	}

	notificationWorker := worker.NewNotificationWorker(consumer, users, notify)
	go func() {
		if err := notificationWorker.Start(ctx); err != nil {
			logger.Error("notification worker stopped", zap.Error(err))
		}
	}()

	// Periodic sweep of transactions stuck in pending.
	cronSvc := service.NewCronService(
		ledgerSvc,
		lock.NewRedisLock(rdb),
		time.Duration(config.Global.Payment.PendingTTLMinutes)*time.Minute,
	)
	if err := cronSvc.Start(); err != nil {
		logger.Fatal("cron scheduler failed", zap.Error(err))
	}
	defer cronSvc.Stop()

	router := server.NewHTTPRouter(server.Handlers{
		User:        handler.NewUserHandler(users),
		Transaction: handler.NewTransactionHandler(ledgerSvc, payments, reactions),
		Request:     handler.NewPaymentRequestHandler(requests, payments, splits),
		Feed:        handler.NewFeedHandler(feedSvc),
		Balance:     handler.NewBalanceHandler(balances),
		Notify:      handler.NewNotifyHandler(notify),
	})

	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, health.NewServer())

	app, err := server.New(server.Config{
		HttpPort: config.Global.App.HttpPort,
		GrpcPort: config.Global.App.GrpcPort,
	}, router, grpcServer)
	if err != nil {
		logger.Fatal("server init failed", zap.Error(err))
	}

	app.Run()
}
