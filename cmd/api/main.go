package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fooddash/internal/backend"
	"fooddash/internal/config"
	"fooddash/internal/domain/model"
	"fooddash/internal/handler"
	"fooddash/internal/infra/db"
	"fooddash/internal/infra/events"
	infraRepo "fooddash/internal/infra/repository"
	"fooddash/internal/infra/token"
	"fooddash/internal/portal"
	"fooddash/internal/repository"
	"fooddash/internal/server"
	"fooddash/internal/usecase"
	"fooddash/internal/validator"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.Out = os.Stdout
	log.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}
	if lv, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.Level = lv
	}
	return log
}

func main() {
	log := newLogger()

	//.envは無くてもよい
	if err := godotenv.Load(); err != nil {
		log.WithError(err).Debug("no .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.WithError(err).Fatal("db connect failed")
	}
	if err := gormDB.AutoMigrate(
		&model.LocalStorageEntry{},
		&model.AuditLog{},
	); err != nil {
		log.WithError(err).Fatal("migrate failed")
	}

	//redis
	var rdb *redis.Client
	if cfg.UsesRedis() {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.WithError(err).Fatal("redis connect failed")
		}
		defer rdb.Close()
	}

	//端末ストレージ
	var storage repository.LocalStorageRepository
	switch cfg.LocalStorageDriver {
	case "redis":
		storage = infraRepo.NewLocalStorageRedisRepository(rdb, cfg.LocalStorageTTL)
	case "memory":
		storage = infraRepo.NewLocalStorageMemoryRepository()
	default:
		storage = infraRepo.NewLocalStorageGormRepository(gormDB)
	}

	//バックエンド応答のキャッシュ
	var cache repository.QueryCacheRepository
	if cfg.QueryCacheDriver == "redis" {
		cache = infraRepo.NewQueryCacheRedisRepository(rdb)
	} else {
		cache = infraRepo.NewQueryCacheMemoryRepository()
	}

	//イベント（監査ログ + kafka）
	auditLogs := infraRepo.NewAuditLogGormRepository(gormDB)
	auditPub := events.NewAuditLogPublisher(auditLogs)
	var publisher usecase.EventPublisher = auditPub
	if len(cfg.KafkaBrokers) > 0 {
		writer := &kafka.Writer{
			Addr:     kafka.TCP(cfg.KafkaBrokers...),
			Topic:    cfg.KafkaTopic,
			Balancer: &kafka.Hash{},
		}
		defer writer.Close()
		publisher = events.NewMultiPublisher(auditPub, events.NewKafkaPublisher(writer))
	}

	//usecaseに渡す部品
	idGen := token.UUIDGenerator{}
	clock := token.RealClock{}
	issuer := token.NewJWTIssuer(cfg.JWTSecret, cfg.DeviceTokenTTL)

	client := backend.NewClient(cfg.BackendBaseURL, &http.Client{Timeout: 15 * time.Second}, cache, cfg.QueryCacheTTL, log)
	registry := portal.NewRegistry(storage, log, cfg.WorkspaceIdleTTL)
	ev := usecase.NewEvents(publisher, idGen, clock, log)

	//Usecase生成
	sessionUC := usecase.NewSessionUsecase(registry, client, validator.NewAccountValidator(), ev, log)
	cartUC := usecase.NewCartUsecase(registry, client)
	checkoutUC := usecase.NewCheckoutUsecase(registry, client, client, ev, log)
	orderUC := usecase.NewOrderUsecase(registry, client, auditLogs, ev)
	menuUC := usecase.NewMenuUsecase(registry, client, ev)
	deviceUC := usecase.NewDeviceUsecase(issuer, idGen, clock)

	//Handler生成
	e := server.NewRouter(cfg, server.Handlers{
		Device:   handler.NewDeviceHandler(deviceUC),
		Cart:     handler.NewCartHandler(cartUC),
		Session:  handler.NewSessionHandler(sessionUC),
		Checkout: handler.NewCheckoutHandler(checkoutUC),
		Order:    handler.NewOrderHandler(orderUC),
		Menu:     handler.NewMenuHandler(menuUC),
	}, sessionUC, log)

	//Server起動
	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//使われていない端末の状態をメモリから外す
	go registry.Run(ctx, cfg.WorkspaceSweepInterval)

	if err := server.Start(ctx, addr, server.WithCORS(cfg, e), log); err != nil {
		log.WithError(err).Error("server stopped")
	}
}
