package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"seoulholic-bot/internal/ai"
	"seoulholic-bot/internal/app"
	"seoulholic-bot/internal/cache"
	"seoulholic-bot/internal/config"
	"seoulholic-bot/internal/guard"
	"seoulholic-bot/internal/knowledge"
	"seoulholic-bot/internal/notify"
	lineClient "seoulholic-bot/internal/platform/line"
	mysqlClient "seoulholic-bot/internal/platform/mysql"
	rabbitmqClient "seoulholic-bot/internal/platform/rabbitmq"
	redisClient "seoulholic-bot/internal/platform/redis"
	"seoulholic-bot/internal/repository"
	"seoulholic-bot/internal/session"
	"seoulholic-bot/internal/worker"
)

// App wires the chat pipeline together. MySQL and RabbitMQ are optional:
// without them the bot still answers, it just loses the admin API and the
// transcript audit log.
type App struct {
	Config *config.Config

	MySQL  *gorm.DB
	Redis  *redis.Client
	MQConn *amqp.Connection

	AIClient    *ai.Client
	Cache       cache.ResponseCache
	Guard       *guard.Guard
	Knowledge   *knowledge.Store
	Retriever   *knowledge.Retriever
	Sessions    *session.Store
	LineClient  *lineClient.Client
	Notifier    *notify.LineNotifier
	ChatService *app.ChatService

	TranscriptWorker *worker.TranscriptPersistWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	return NewWithConfig(ctx, cfg)
}

func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{
		Config:    cfg,
		StartedAt: time.Now(),
	}

	a.AIClient = ai.NewClient(cfg.LLM)
	if !a.AIClient.Configured() {
		log.Printf("llm client not configured, chat answers will be degraded")
	}

	a.Guard = guard.New(cfg.Guard.MaxInputLen)
	a.Cache = newResponseCache(ctx, a, cfg)

	a.Knowledge = knowledge.NewStore(cfg.Knowledge.Dir, a.AIClient)
	if err := a.Knowledge.Load(ctx); err != nil {
		log.Printf("knowledge load failed, retrieval starts empty: %v", err)
	} else {
		log.Printf("knowledge loaded: %d documents", a.Knowledge.Count())
	}
	a.Retriever = knowledge.NewRetriever(a.Knowledge, a.AIClient, 0, 0)

	a.Sessions = session.NewStore(
		cfg.Session.Window,
		app.SystemPrompt(cfg.LLM.SystemPrompt),
		app.DefaultGreeting,
	)

	a.LineClient = lineClient.NewClient(cfg.Line.ChannelSecret, cfg.Line.ChannelAccessToken)
	a.Notifier = notify.NewLineNotifier(cfg.Line.NotifyToken)

	if cfg.MySQL.Enabled {
		mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
		if err != nil {
			a.closeOnErr()
			return nil, err
		}
		a.MySQL = mysqlDB
	}

	var publisher *rabbitmqClient.TranscriptPublisher
	if cfg.RabbitMQ.Enabled {
		mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.TranscriptQueue)
		if err != nil {
			a.closeOnErr()
			return nil, err
		}
		a.MQConn = mqConn
		publisher = rabbitmqClient.NewTranscriptPublisher(mqConn, cfg.RabbitMQ.TranscriptQueue)

		if a.MySQL != nil {
			transcriptRepo := repository.NewTranscriptRepository(a.MySQL)
			a.TranscriptWorker = worker.NewTranscriptPersistWorker(mqConn, transcriptRepo, cfg.RabbitMQ.TranscriptQueue)
			if err := a.TranscriptWorker.Start(ctx); err != nil {
				a.closeOnErr()
				return nil, fmt.Errorf("start transcript worker failed: %w", err)
			}
		}
	}

	chatCfg := app.ChatServiceConfig{
		Guard:        a.Guard,
		GuardEnabled: cfg.Guard.Enabled,
		Cache:        a.Cache,
		CacheTTL:     time.Duration(cfg.Cache.TTLSeconds) * time.Second,
		Sessions:     a.Sessions,
		Rewriter:     app.NewQueryRewriter(a.AIClient),
		Retriever:    a.Retriever,
		LLM:          a.AIClient,
		Images:       app.NewImageResolver(cfg.Knowledge.ImageDir, cfg.App.PublicBaseURL),
		Notifier:     a.Notifier,
	}
	if publisher != nil {
		chatCfg.Publisher = publisher
	}
	a.ChatService = app.NewChatService(chatCfg)

	return a, nil
}

// newResponseCache prefers redis and falls back to the in-memory cache when
// the backend is unreachable or memory is configured explicitly.
func newResponseCache(ctx context.Context, a *App, cfg *config.Config) cache.ResponseCache {
	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second

	if cfg.Cache.Backend == "redis" {
		client, err := redisClient.New(ctx, cfg.Redis)
		if err == nil {
			a.Redis = client
			return cache.NewRedis(client, ttl)
		}
		log.Printf("redis unavailable, falling back to memory cache: %v", err)
	}

	return cache.NewMemory(ttl, cfg.Cache.Capacity, cfg.Cache.EvictBatch)
}

func (a *App) closeOnErr() {
	if err := a.Close(); err != nil {
		log.Printf("cleanup after failed bootstrap: %v", err)
	}
}

func (a *App) Close() error {
	var closeErr error
	if a.TranscriptWorker != nil {
		a.TranscriptWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
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
