package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"catalog_api/internal/auth"
	"catalog_api/internal/cache"
	"catalog_api/internal/config"
	"catalog_api/internal/db"
	"catalog_api/internal/handler"
	"catalog_api/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	setupLogging(&cfg.Log)

	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}
	generated, err := cfg.JWT.EnsureSecret()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}
	if generated {
		logrus.WithField("env", cfg.AppEnv).Warn("JWT_SECRET not set, using a random secret; tokens are invalidated on restart")
	}
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	database := db.Init(&cfg.DB)
	defer func() {
		if err := database.Close(); err != nil {
			logrus.WithError(err).Error("Failed to close database connection")
		}
	}()

	// Initialize Prometheus metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(registry)
	if err := metrics.RegisterDBStats(database, cfg.DB.Name); err != nil {
		logrus.WithError(err).Warn("Failed to register database pool metrics")
	}
	logrus.Info("Metrics initialized")

	var denylist auth.Denylist
	if cfg.Redis.Enabled() {
		rdb, err := cache.SetupRedis(&cfg.Redis)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				logrus.WithError(err).Error("Failed to close redis connection")
			}
		}()
		denylist = auth.NewRedisDenylist(rdb)
	} else {
		logrus.Warn("REDIS_HOST not set, token denylist is kept in memory")
		denylist = auth.NewMemoryDenylist()
	}

	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL, denylist, metrics)

	r := handler.SetupHandler(database, tokens, metrics, registry)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"app":  cfg.AppName,
			"env":  cfg.AppEnv,
			"addr": srv.Addr,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
		return
	}
	logrus.Info("Server exited")
}

func setupLogging(cfg *config.LogConfig) {
	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logrus.WithField("level", cfg.Level).Warn("Unknown LOG_LEVEL, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
