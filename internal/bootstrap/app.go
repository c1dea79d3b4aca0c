package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"awarerag/internal/ai"
	"awarerag/internal/config"
	"awarerag/internal/model"
	mysqlClient "awarerag/internal/platform/mysql"
	rabbitmqClient "awarerag/internal/platform/rabbitmq"
	redisClient "awarerag/internal/platform/redis"
	"awarerag/internal/registry"
	"awarerag/internal/repository"
	"awarerag/internal/worker"
)

type App struct {
	Config       *config.Config
	MySQL        *gorm.DB
	Redis        *redis.Client
	MQConn       *amqp.Connection
	LLM          *ai.Client
	Registry     *registry.Registry
	LogPublisher *rabbitmqClient.LogPublisher
	LogWorker    *worker.LogPersistWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(&model.Chunk{}, &model.ConversationLog{}); err != nil {
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

	reg, err := registry.Load(cfg.RAG.RegistryFile)
	if err != nil {
		return nil, fmt.Errorf("load document registry failed: %w", err)
	}

	llm := ai.NewClient(
		cfg.LLM.BaseURL,
		cfg.LLM.APIKey,
		time.Duration(cfg.LLM.RequestTimeoutSeconds)*time.Second,
	)

	logRepo := repository.NewLogRepository(mysqlDB)
	logWorker := worker.NewLogPersistWorker(mqConn, logRepo, cfg.RabbitMQ.LogPersistQueue)
	if err := logWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start log persist worker failed: %w", err)
	}

	return &App{
		Config:       cfg,
		MySQL:        mysqlDB,
		Redis:        redisCli,
		MQConn:       mqConn,
		LLM:          llm,
		Registry:     reg,
		LogPublisher: rabbitmqClient.NewLogPublisher(mqConn, cfg.RabbitMQ.LogPersistQueue),
		LogWorker:    logWorker,
		StartedAt:    time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.LogWorker != nil {
		a.LogWorker.Close()
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
