package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quizhub/quiz-web/internal/client"
	"github.com/quizhub/quiz-web/internal/config"
	"github.com/quizhub/quiz-web/internal/events"
	"github.com/quizhub/quiz-web/internal/handlers"
	"github.com/quizhub/quiz-web/internal/session"
	"github.com/quizhub/quiz-web/internal/utils"
	"github.com/quizhub/quiz-web/internal/validator"
	"github.com/quizhub/quiz-web/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
		gin.SetMode(gin.ReleaseMode)
	} else {
		logger = utils.NewDevelopmentLogger()
	}

	sessionTTL := time.Duration(cfg.SessionTTLMin) * time.Minute

	var kv session.KV
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Error("Redis unavailable, sessions will not survive restarts", "error", err)
		kv = session.NewMemoryKV()
	} else {
		defer redisClient.Close()
		kv = session.NewRedisKV(redisClient)
	}
	store := session.NewStore(kv, sessionTTL, logger)

	publisher, err := cfg.Events.CreateEventPublisher(utils.ToSlogLogger(logger))
	if err != nil {
		logger.Error("Event publisher setup failed, falling back to mock", "error", err)
		publisher = events.NewMockEventPublisher(utils.ToSlogLogger(logger))
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Event publisher close failed", "error", err)
		}
	}()

	gateway := client.NewHTTPClient(cfg.GatewayURL, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))
	router.LoadHTMLGlob(cfg.TemplateGlob)

	manager := handlers.NewHandlerManager(gateway, store, validator.New(), publisher, sessionTTL, logger)
	manager.SetupRoutes(router)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server starting", "port", cfg.Port, "gateway", cfg.GatewayURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}
