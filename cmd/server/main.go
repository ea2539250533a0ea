package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/omk2207/TestChat/internal/auth"
	"github.com/omk2207/TestChat/internal/broadcast"
	"github.com/omk2207/TestChat/internal/cache"
	"github.com/omk2207/TestChat/internal/config"
	"github.com/omk2207/TestChat/internal/domain"
	"github.com/omk2207/TestChat/internal/handler"
	"github.com/omk2207/TestChat/internal/hub"
	"github.com/omk2207/TestChat/internal/middleware"
	"github.com/omk2207/TestChat/internal/repository"
	"github.com/omk2207/TestChat/internal/service"
	"github.com/omk2207/TestChat/pkg/database"
	"github.com/omk2207/TestChat/pkg/log"
)

const serviceName = "testchat"

// devSecret keeps local development working without configuration.
// Release mode refuses to start without an explicit secret.
const devSecret = "testchat-dev-jwt-secret"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log.Init(log.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Pretty,
		ServiceName: serviceName,
	})
	l := log.L()

	secret := cfg.Auth.Secret
	if secret == "" {
		if gin.Mode() == gin.ReleaseMode {
			l.Fatal().Msg("auth.secret (JWT_SECRET) must be set in release mode")
		}
		l.Warn().Msg("auth.secret not set, using development secret")
		secret = devSecret
	}

	db, err := database.New(&database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		FilePath:        cfg.Database.FilePath,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		l.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := database.AutoMigrate(db,
		&domain.UserModel{},
		&domain.ChatModel{},
		&domain.ChatMemberModel{},
		&domain.MessageModel{},
	); err != nil {
		l.Fatal().Err(err).Msg("failed to auto-migrate")
	}
	l.Info().Str("driver", cfg.Database.Driver).Msg("database migration completed")

	userRepo := repository.NewGormUserRepository(db)
	chatRepo := repository.NewGormChatRepository(db)
	messageRepo := repository.NewGormMessageRepository(db)

	tokens := auth.NewManager(secret, cfg.Auth.TokenTTL, serviceName)

	// The membership index runs without redis when none is configured
	// or reachable; broadcasts then resolve members from the store.
	var members *cache.MembershipIndex
	if cfg.Redis.Address != "" {
		client, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			l.Warn().Err(err).Str("address", cfg.Redis.Address).Msg("redis unavailable, membership cache disabled")
			members = cache.NewMembershipIndex(chatRepo, nil, cfg.Cache.Prefix, cfg.Cache.TTL)
		} else {
			l.Info().Str("address", cfg.Redis.Address).Msg("connected to redis")
			members = cache.NewMembershipIndex(chatRepo, client, cfg.Cache.Prefix, cfg.Cache.TTL)
		}
	} else {
		members = cache.NewMembershipIndex(chatRepo, nil, cfg.Cache.Prefix, cfg.Cache.TTL)
	}

	wsHub := hub.NewHub()
	router := broadcast.NewRouter(wsHub, members)

	userService := service.NewUserService(userRepo, tokens)
	chatService := service.NewChatService(chatRepo, messageRepo, userRepo, router, members)

	authMiddleware := middleware.NewAuthMiddleware(tokens)
	httpHandler := handler.NewHandler(userService, chatService, authMiddleware, cfg.Auth)
	wsHandler := handler.NewWSHandler(wsHub, tokens, cfg.WebSocket)

	r := gin.New()
	r.Use(log.GinMiddleware(*l), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "connected_users": wsHub.UserCount()})
	})

	httpHandler.RegisterRoutes(r)
	wsHandler.RegisterRoutes(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		l.Info().Str("addr", addr).Msg("chat server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info().Msg("shutting down chat server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("server forced to shutdown")
	}

	l.Info().Msg("chat server stopped")
}
