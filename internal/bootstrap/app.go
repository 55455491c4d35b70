package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"localchat/internal/ai"
	"localchat/internal/config"
	"localchat/internal/model"
	"localchat/internal/pkg/logx"
	mysqlClient "localchat/internal/platform/mysql"
	rabbitmqClient "localchat/internal/platform/rabbitmq"
	redisClient "localchat/internal/platform/redis"
	"localchat/internal/repository"
	"localchat/internal/settings"
	"localchat/internal/worker"
)

// App owns the process-wide resources: config, datastores, the message
// persistence worker, the inference client and the runtime settings store.
type App struct {
	Config        *config.Config
	MySQL         *gorm.DB
	Redis         *redis.Client
	MQConn        *amqp.Connection
	MessageWorker *worker.MessagePersistWorker
	Settings      *settings.Store
	Ollama        *ai.OllamaClient

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	if err := logx.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, fmt.Errorf("init logger failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(
		&model.User{},
		&model.Conversation{},
		&model.Message{},
		&model.Document{},
		&model.Chunk{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	messageRepo := repository.NewMessageRepository(mysqlDB)
	conversationRepo := repository.NewConversationRepository(mysqlDB)
	messageWorker := worker.NewMessagePersistWorker(mqConn, messageRepo, conversationRepo, cfg.RabbitMQ.MessagePersistQueue)
	if err := messageWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start message worker failed: %w", err)
	}

	settingsStore := settings.NewStore(settings.Snapshot{
		RAGEnabled:       cfg.Chat.RAGEnabled,
		MemoryEnabled:    cfg.Chat.MemoryEnabled,
		MemoryWindow:     cfg.Chat.MemoryWindow,
		MaxContextChunks: cfg.Chat.MaxContextChunks,
		OllamaAPIURL:     cfg.Ollama.APIURL,
	}, redisCli)
	settingsStore.Load(ctx)

	return &App{
		Config:        cfg,
		MySQL:         mysqlDB,
		Redis:         redisCli,
		MQConn:        mqConn,
		MessageWorker: messageWorker,
		Settings:      settingsStore,
		Ollama:        ai.NewOllamaClient(),
		StartedAt:     time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MessageWorker != nil {
		a.MessageWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
