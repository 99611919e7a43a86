package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"myflix-api/internal/auth"
	"myflix-api/internal/config"
	apphttp "myflix-api/internal/http"
	"myflix-api/internal/logging"
	"myflix-api/internal/service"
	"myflix-api/internal/storage"
	"myflix-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			logger.Warnf("close store: %v", err)
		}
	}()

	var posters service.PosterSigner
	if cfg.Storage.Enabled {
		s3svc, err := storage.NewFromOptions(ctx, storage.Options{
			Region:     cfg.Storage.Region,
			Endpoint:   cfg.Storage.Endpoint,
			Profile:    cfg.AWS.Profile,
			PresignTTL: cfg.Storage.PresignTTL,
		})
		if err != nil {
			logger.Fatalf("setup storage: %v", err)
		}
		posters = s3svc
		logger.Infof("presigning s3 posters (region %s)", cfg.Storage.Region)
	}

	jwtManager, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		logger.Fatalf("setup auth: %v", err)
	}

	userService := service.NewUserService(st.Users, st.Movies, cfg.Auth.BcryptCost)
	catalogService := service.NewCatalogService(st.Movies, posters, logger)

	gin.SetMode(gin.ReleaseMode)
	handler := apphttp.NewHandler(
		userService,
		catalogService,
		jwtManager,
		apphttp.NewRateLimiter(cfg.Auth.RateLimit, cfg.Auth.RateBurst),
		logger,
	)
	router := apphttp.NewRouter(handler)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}
