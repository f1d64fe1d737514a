package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/example/fashion-police/internal/auth"
	"github.com/example/fashion-police/internal/config"
	"github.com/example/fashion-police/internal/grpcclient"
	"github.com/example/fashion-police/internal/handlers"
	"github.com/example/fashion-police/internal/logging"
	"github.com/example/fashion-police/internal/pipeline"
	"github.com/example/fashion-police/internal/ranking"
	"github.com/example/fashion-police/internal/repository"
	"github.com/example/fashion-police/internal/segmentation"
	"github.com/example/fashion-police/internal/session"
	"github.com/example/fashion-police/internal/storage"
	"github.com/example/fashion-police/internal/usecase"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger, err := logging.NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	cfg := config.Load()

	db := initDatabase(ctx, cfg.DatabaseDSN, logger)
	repo := repository.NewPredictionRepository(db, logger)
	if err := repo.AutoMigrate(ctx); err != nil {
		logger.Fatal("auto migrate failed", zap.Error(err))
	}

	redisCtx, redisCancel := context.WithTimeout(ctx, 5*time.Second)
	defer redisCancel()
	redisClient := initRedis(redisCtx, cfg.RedisAddr, logger)

	segBackend, segConn, err := grpcclient.DialSegmenter(ctx, cfg.SegmenterAddr, logger)
	if err != nil {
		logger.Fatal("failed to connect to segmenter", zap.Error(err))
	}
	defer segConn.Close()

	embBackend, embConn, err := grpcclient.DialEmbedder(ctx, cfg.EmbedderAddr, logger)
	if err != nil {
		logger.Fatal("failed to connect to embedder", zap.Error(err))
	}
	defer embConn.Close()

	artifacts, err := storage.NewArtifactStore(cfg.ArtifactDir, logger)
	if err != nil {
		logger.Fatal("failed to prepare artifact store", zap.Error(err))
	}

	segService := segmentation.NewService(segBackend, logger)
	ranker := ranking.NewEngine(embBackend, ranking.DefaultVocabulary, logger)
	classifier := pipeline.NewOutfitClassifier(segService, ranker, logger)

	cache := usecase.NewRedisCache(redisClient)
	uc := usecase.NewClassificationUseCase(repo, cache, classifier, artifacts, ranking.DefaultVocabulary, cfg.ResultCacheTTL, logger)
	sessions := session.NewManager(segService, uc, uc, cfg.SessionTTL, logger)

	r := gin.Default()
	r.MaxMultipartMemory = handlers.MaxUploadSize

	authMiddleware := auth.JWTMiddleware(cfg.JWTSecret, cfg.JWTAudience)
	handlers.RegisterRoutes(r, uc, sessions, authMiddleware)

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}

	logger.Info("outfit classification API listening", zap.String("addr", cfg.Addr))
	if err := serveHTTPServer(server, 15*time.Second, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func initDatabase(ctx context.Context, dsn string, zapLogger *zap.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Info)})
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		zapLogger.Fatal("failed to access db handle", zap.Error(err))
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.PingContext(ctx); err != nil {
		zapLogger.Fatal("database ping failed", zap.Error(err))
	}

	return db
}

func initRedis(ctx context.Context, addr string, zapLogger *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	return client
}

func serveHTTPServer(server *http.Server, shutdownTimeout time.Duration, logger *zap.Logger) error {
	return serveHTTPServerWithOptions(server, shutdownTimeout, logger, nil, nil)
}

func serveHTTPServerWithListener(server *http.Server, shutdownTimeout time.Duration, logger *zap.Logger, listener net.Listener) error {
	return serveHTTPServerWithOptions(server, shutdownTimeout, logger, listener, nil)
}

func serveHTTPServerWithOptions(server *http.Server, shutdownTimeout time.Duration, logger *zap.Logger, listener net.Listener, signalCh <-chan os.Signal) error {
	errCh := make(chan error, 1)
	go func() {
		var err error
		if listener != nil {
			err = server.Serve(listener)
		} else {
			err = server.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	var (
		sigCh       <-chan os.Signal
		stopSignals func()
	)

	if signalCh != nil {
		sigCh = signalCh
		stopSignals = func() {}
	} else {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
		sigCh = ch
		stopSignals = func() {
			signal.Stop(ch)
		}
	}
	defer stopSignals()

	select {
	case err := <-errCh:
		return err
	case sig, ok := <-sigCh:
		if !ok {
			return <-errCh
		}
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return <-errCh
	}
}
