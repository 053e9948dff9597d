package main

import (
	"context"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appconfig "github.com/japhet-mokoumbou/chat-platform/config"
	"github.com/japhet-mokoumbou/chat-platform/internal/consumer"
	"github.com/japhet-mokoumbou/chat-platform/internal/handlers"
	"github.com/japhet-mokoumbou/chat-platform/internal/ratelimit"
	"github.com/japhet-mokoumbou/chat-platform/internal/repositories"
	"github.com/japhet-mokoumbou/chat-platform/internal/routers"
	"github.com/japhet-mokoumbou/chat-platform/internal/services"
	"github.com/japhet-mokoumbou/chat-platform/internal/storage"
	"github.com/japhet-mokoumbou/chat-platform/internal/upload"
	"github.com/japhet-mokoumbou/chat-platform/internal/utils"
	"github.com/japhet-mokoumbou/chat-platform/internal/xmlstore"
	"github.com/japhet-mokoumbou/chat-platform/pkg/logger"
	"github.com/japhet-mokoumbou/chat-platform/pkg/mq"
	pkgutils "github.com/japhet-mokoumbou/chat-platform/pkg/utils"
	"github.com/japhet-mokoumbou/chat-platform/pkg/ws"
)

func main() {
	cfg, err := appconfig.LoadConfig("./config.toml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zlog.Close()

	dsn := storage.BuildDSN(cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.DBName)
	db, err := storage.InitPostgres(dsn, cfg.Postgres.MaxIdleConns, cfg.Postgres.MaxOpenConns)
	if err != nil {
		zlog.Fatal("failed to init postgres", zap.Error(err))
	}

	redisClient, err := storage.InitRedis(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize, cfg.Redis.MinIdleConns)
	if err != nil {
		zlog.Fatal("failed to init redis", zap.Error(err))
	}

	userRepo := repositories.NewUserRepository(db)
	contactRepo := repositories.NewContactRepository(db)
	groupRepo := repositories.NewGroupRepository(db)
	messageRepo := repositories.NewMessageRepository(db)

	// XML mirror: table snapshots are rewritten off the request path.
	exportPool := utils.NewWorkerPool(cfg.XMLExport.Workers, cfg.XMLExport.QueueSize)
	exportPool.Start()
	defer exportPool.Stop()
	exporter := xmlstore.NewExporter(db, cfg.XMLExport.Dir, exportPool, zlog.Logger)

	tokens := pkgutils.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	userService := services.NewUserService(userRepo, tokens, exporter)
	contactService := services.NewContactService(contactRepo, userRepo, exporter)
	groupService := services.NewGroupService(groupRepo, userRepo, exporter)
	messageService := services.NewMessageService(messageRepo, userRepo, groupRepo, exporter)

	pipeline := upload.NewPipeline(cfg.Uploads.Dir, zlog.Logger)
	limiter := ratelimit.NewRedisLimiter(redisClient, zlog.Logger, true)

	// Without brokers the broadcast path degrades to direct hub publish.
	var kafkaProducer *mq.KafkaProducer
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer, err = mq.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, zlog.Logger)
		if err != nil {
			zlog.Warn("kafka unavailable, running in degraded mode", zap.Error(err))
			kafkaProducer = nil
		} else {
			defer kafkaProducer.Close()
		}
	}

	hub := ws.NewHub(redisClient, zlog.Logger)
	go hub.Run()

	if kafkaProducer != nil {
		eventConsumer := consumer.NewEventConsumer(hub, zlog.Logger)
		if err := consumer.Start(context.Background(), cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, eventConsumer); err != nil {
			zlog.Warn("failed to start kafka consumer", zap.Error(err))
		}
	}

	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	contactHandler := handlers.NewContactHandler(contactService)
	groupHandler := handlers.NewGroupHandler(groupService)
	messageHandler := handlers.NewMessageHandler(messageService, pipeline, hub, kafkaProducer, zlog.Logger)

	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()

	routers.SetupRoutes(r, cfg, tokens,
		authHandler,
		userHandler,
		contactHandler,
		groupHandler,
		messageHandler,
		limiter,
		hub,
	)

	zlog.Info("starting server", zap.Int("port", cfg.Server.Port))
	if err := r.Run(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}
