package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"assembly-directory.backend/internal/config"
	"assembly-directory.backend/internal/infrastructure/datasources"
	"assembly-directory.backend/internal/infrastructure/storage"
	"assembly-directory.backend/internal/interfaces/http/handlers"
	"assembly-directory.backend/internal/interfaces/http/middleware"
	"assembly-directory.backend/internal/usecases"
	"assembly-directory.backend/pkg/jwt"
	"assembly-directory.backend/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	openStores = datasources.Open
	runServer  = func(srv *http.Server) error { return srv.ListenAndServe() }
	notifyStop = func(ctx context.Context) (context.Context, context.CancelFunc) {
		return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	}
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	defer logger.Sync()
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := notifyStop(context.Background())
	defer stop()

	stores, err := openStores(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := stores.Close(context.Background()); err != nil {
			logger.Warn(context.Background(), "Failed to close store", zap.Error(err))
		}
	}()
	logger.Info(ctx, "Store connected", zap.String("driver", stores.Driver))

	r := buildRouter(cfg, stores, prometheus.NewRegistry())

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serve := runServer
	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "Assembly directory API starting",
			zap.String("port", cfg.Server.Port),
			zap.String("api", "http://localhost:"+cfg.Server.Port+"/api"),
		)
		errCh <- serve(srv)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	// wait for the serve goroutine so nothing outlives this call
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func buildRouter(cfg *config.Config, stores *datasources.Stores, reg *prometheus.Registry) *gin.Engine {
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)
	files := storage.NewLocalStore(cfg.Upload.Dir, cfg.Upload.URLPrefix, cfg.Upload.MaxBytes)

	authUsecase := usecases.NewAuthUsecase(stores.Admins, jwtService)
	memberUsecase := usecases.NewMemberUsecase(stores.Members, files)

	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(reg)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware("/health", "/metrics"))
	r.Use(metrics.Middleware())
	r.MaxMultipartMemory = cfg.Upload.MaxBytes*2 + 1<<20

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r, metrics)
	registerUploadsRoute(r, files)
	registerAPIRoutes(r, routeDeps{
		authHandler:    handlers.NewAuthHandler(authUsecase),
		memberHandler:  handlers.NewMemberHandler(memberUsecase),
		authMiddleware: middleware.AuthMiddleware(authUsecase),
	})

	for _, route := range r.Routes() {
		logger.Debug(context.Background(), "Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}
	return r
}
