// Package main is the entry point for the sendesk dashboard API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sendesk/sendesk/internal/config"
	"github.com/sendesk/sendesk/internal/handler"
	"github.com/sendesk/sendesk/internal/middleware"
	"github.com/sendesk/sendesk/internal/service"
	"github.com/sendesk/sendesk/internal/session"
	"github.com/sendesk/sendesk/internal/storage"
	"github.com/sendesk/sendesk/internal/storage/memory"
	"github.com/sendesk/sendesk/internal/storage/postgres"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Backend selection happens exactly once, here. Everything downstream
	// receives the chosen storage through constructors.
	var (
		store storage.Storage
		db    *sqlx.DB
	)

	if cfg.Database.URL != "" {
		db, err = sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Error("Failed to close database connection", zap.Error(err))
			}
		}()

		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(5 * time.Minute)

		store = postgres.New(db)
		logger.Info("Using PostgreSQL storage backend")
	} else {
		store = memory.New()
		logger.Warn("No database configured, using in-memory storage backend; data will not survive a restart")
	}

	sessions := session.New(db, logger)

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx := context.Background()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error("Failed to close Redis connection", zap.Error(err))
			}
		}()
	}

	svc := service.NewService(cfg, store, redisClient, logger)

	sessionTTL := time.Duration(cfg.Session.TTLHours) * time.Hour
	h := handler.NewHandler(handler.Options{
		Store:      store,
		Sessions:   sessions,
		Service:    svc,
		Redis:      redisClient,
		CookieName: cfg.Session.CookieName,
		SessionTTL: sessionTTL,
		Logger:     logger,
	})

	sessionAuth := middleware.NewSessionAuth(sessions, cfg.Session.CookieName)
	router := setupRouter(h, sessionAuth)

	var corsConfig *middleware.CORSConfig
	if cfg.Middleware.EnableCORS {
		corsConfig = &middleware.CORSConfig{
			AllowedOrigins:   cfg.Middleware.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           86400,
		}
	}

	middlewareConfig := &middleware.Config{
		Logger:         logger,
		CORS:           corsConfig,
		RateLimit:      rate.Limit(cfg.Middleware.RateLimit),
		RateLimitBurst: cfg.Middleware.RateLimitBurst,
		RequestTimeout: 30 * time.Second,
	}

	finalHandler := middleware.Chain(middlewareConfig)(router)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      finalHandler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := svc.Scheduler.Start(); err != nil {
		logger.Error("Failed to start scheduler on startup", zap.Error(err))
	} else {
		logger.Info("Campaign scheduler started")
	}

	go func() {
		logger.Info("Starting server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	if svc.Scheduler.IsRunning() {
		if err := svc.Scheduler.Stop(); err != nil {
			logger.Error("Failed to stop scheduler", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
