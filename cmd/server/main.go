package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fadilmartias/interview-engine/internal/config"
	"github.com/fadilmartias/interview-engine/internal/domain/fiber/handler"
	"github.com/fadilmartias/interview-engine/internal/logger"
	"github.com/fadilmartias/interview-engine/internal/metrics"
	"github.com/fadilmartias/interview-engine/internal/middleware"
	"github.com/fadilmartias/interview-engine/internal/model"
	"github.com/fadilmartias/interview-engine/internal/repository"
	"github.com/fadilmartias/interview-engine/internal/service"
	"github.com/fadilmartias/interview-engine/internal/store"
	"github.com/fadilmartias/interview-engine/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("could not load .env file")
	}

	appConfig := config.LoadAppConfig()
	logger.Setup(appConfig.LogLevel, appConfig.IsProduction())

	interviewConfig, err := config.LoadInterviewConfig()
	if err != nil {
		fatal("invalid interview config", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := ConnectDB()
	sessionStore, redisClient := NewSessionStore(ctx, interviewConfig)

	m := metrics.NewMetrics()
	gemini, err := service.NewGeminiService(ctx, interviewConfig)
	if err != nil {
		fatal("gemini unavailable", err)
	}
	llm := service.NewFallbackGenerator(m).Add("gemini", gemini)
	if config.LoadOpenRouterConfig().Enabled() {
		llm.Add("openrouter", service.NewOpenRouterService(interviewConfig))
	}
	slog.Info("language model providers ready", "count", llm.Len())

	scriptRepo := repository.NewInterviewScriptRepository(db)
	turnRepo := repository.NewConversationTurnRepository(db)
	sessionRepo := repository.NewInterviewSessionRepository(db)

	interviewUC := usecase.NewInterviewUsecase(scriptRepo, turnRepo, sessionRepo, sessionStore, llm, interviewConfig, m)
	scriptUC := usecase.NewScriptUsecase(scriptRepo, llm, gemini, interviewConfig)

	app := fiber.New(fiber.Config{
		AppName:      appConfig.Name,
		ErrorHandler: handler.ErrorHandler,
	})
	app.Use(requestid.New())
	app.Use(middleware.RequestContext())
	if appConfig.IsProduction() {
		app.Use(middleware.RequestLogger())
	} else {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !appConfig.IsProduction(),
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.IsProduction()
		},
	}))
	app.Use(healthcheck.New(healthcheck.Config{
		ReadinessProbe: func(c *fiber.Ctx) bool {
			return ready(c.UserContext(), db, redisClient)
		},
	}))
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))

	app.Get("/metrics", metrics.Handler(m))

	app.Use(middleware.RateLimiter(120, 1*time.Minute))

	api := app.Group("/api")
	handler.NewInterviewHandler(interviewUC).RegisterRoutes(api)
	handler.NewScriptHandler(scriptUC).RegisterRoutes(api)

	// Monitor goroutine count
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				slog.Debug("runtime stats", "goroutines", runtime.NumGoroutine())
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		<-ctx.Done()
		slog.Info("shutting down")
		if err := app.ShutdownWithTimeout(15 * time.Second); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("server running", "port", appConfig.Port, "env", appConfig.Env)
	if err := app.Listen(appConfig.Port); err != nil {
		fatal("server stopped", err)
	}

	if ms, ok := sessionStore.(*store.MemoryStore); ok {
		ms.Close()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func ConnectDB() *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	db, err := gorm.Open(postgres.Open(dbConfig.DSN()), &gorm.Config{})
	if err != nil {
		fatal("could not connect to database", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		fatal("could not get database instance", err)
	}
	if !appConfig.IsProduction() {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	for _, ext := range []string{`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`, `CREATE EXTENSION IF NOT EXISTS vector`} {
		if err := db.Exec(ext).Error; err != nil {
			fatal("could not enable extension", err)
		}
	}

	err = db.AutoMigrate(&model.InterviewScript{}, &model.ConversationTurn{}, &model.InterviewSessionRecord{})
	if err != nil {
		fatal("migration failed", err)
	}
	return db
}

// NewSessionStore uses Redis when REDIS_URL is set and process memory otherwise.
func NewSessionStore(ctx context.Context, cfg *config.InterviewConfig) (store.Store, *redis.Client) {
	redisConfig := config.LoadRedisConfig()
	if redisConfig.URL == "" {
		ms := store.NewMemoryStore(cfg.SessionTTL)
		ms.StartJanitor(time.Minute)
		slog.Info("session store: memory", "ttl", cfg.SessionTTL)
		return ms, nil
	}

	opts, err := redis.ParseURL(redisConfig.URL)
	if err != nil {
		fatal("invalid REDIS_URL", err)
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		fatal("could not connect to redis", err)
	}
	slog.Info("session store: redis", "addr", opts.Addr, "prefix", redisConfig.KeyPrefix, "ttl", cfg.SessionTTL)
	return store.NewRedisStore(client, redisConfig.KeyPrefix, cfg.SessionTTL), client
}

func ready(ctx context.Context, db *gorm.DB, rdb *redis.Client) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	sqlDB, err := db.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		return false
	}
	if rdb != nil && rdb.Ping(ctx).Err() != nil {
		return false
	}
	return true
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
