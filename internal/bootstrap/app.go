package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/dogami567/noval-for-one/internal/config"
	"github.com/dogami567/noval-for-one/internal/model"
	mysqlClient "github.com/dogami567/noval-for-one/internal/platform/mysql"
	rabbitmqClient "github.com/dogami567/noval-for-one/internal/platform/rabbitmq"
	redisClient "github.com/dogami567/noval-for-one/internal/platform/redis"
	"github.com/dogami567/noval-for-one/internal/platform/storage"
	"github.com/dogami567/noval-for-one/internal/repository"
	"github.com/dogami567/noval-for-one/internal/worker"
)

// App holds the process-wide clients. Unlike most services, every backing
// dependency here is optional: the chat endpoint must keep answering (with
// degraded lore context) when the data store, cache or broker is absent, so
// a failed dial logs and leaves the field nil instead of failing bootstrap.
type App struct {
	Config        *config.Config
	MySQL         *gorm.DB
	Redis         *redis.Client
	MQConn        *amqp.Connection
	Storage       *storage.SupabaseClient
	ChatLogWorker *worker.ChatLogWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	app := &App{
		Config:    cfg,
		StartedAt: time.Now(),
	}

	if cfg.MySQLConfigured() {
		db, err := mysqlClient.New(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Printf("mysql unavailable, lore context disabled: %v", err)
		} else if err := db.AutoMigrate(
			&model.Character{},
			&model.Place{},
			&model.Story{},
			&model.StoryCharacter{},
			&model.StoryPlace{},
			&model.TimelineEvent{},
			&model.WorldState{},
			&model.ChatLog{},
		); err != nil {
			return nil, fmt.Errorf("auto migrate tables failed: %w", err)
		} else {
			app.MySQL = db
		}
	} else {
		log.Printf("mysql not configured, lore context disabled")
	}

	if cfg.RedisConfigured() {
		redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Printf("redis unavailable, catalog cache disabled: %v", err)
		} else {
			app.Redis = redisCli
		}
	}

	if cfg.RabbitMQConfigured() && app.MySQL != nil {
		mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
		if err != nil {
			log.Printf("rabbitmq unavailable, chat logs disabled: %v", err)
		} else {
			app.MQConn = mqConn
			chatLogRepo := repository.NewChatLogRepository(app.MySQL)
			app.ChatLogWorker = worker.NewChatLogWorker(mqConn, chatLogRepo, cfg.RabbitMQ.ChatLogQueue)
			if err := app.ChatLogWorker.Start(ctx); err != nil {
				log.Printf("start chat log worker failed: %v", err)
				app.ChatLogWorker = nil
			}
		}
	}

	if cfg.StorageConfigured() {
		app.Storage = storage.NewSupabaseClient(cfg.Storage.SupabaseURL, cfg.Storage.ServiceKey)
	}

	return app, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.ChatLogWorker != nil {
		a.ChatLogWorker.Close()
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
