package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"car-management-api/internal/config"
	"car-management-api/internal/handler"
	"car-management-api/internal/logging"
	"car-management-api/internal/server"
	"car-management-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.Production())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := openStore(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("store", zap.String("driver", cfg.Driver), zap.Error(err))
	}

	h := handler.New(st, cfg.Secret, cfg.Production(), logger)
	router := server.Router(h, server.Options{
		Secret:  cfg.Secret,
		Origins: cfg.Origins,
		Logger:  logger,
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}
	logger.Info("car management api listening", zap.String("port", cfg.Port), zap.String("env", cfg.Env))

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	if err := serve(httpSrv, st, logger, cfg.ShutdownTimeout, ch); err != nil {
		logger.Error("http", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

// serve runs the HTTP server until it fails or a stop signal arrives.
// Either way the server is shut down and the store closed.
func serve(httpSrv *http.Server, st store.Store, logger *zap.Logger, timeout time.Duration, stop <-chan os.Signal) error {
	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-stop:
		logger.Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if err := st.Close(ctx); err != nil {
		logger.Warn("store close", zap.Error(err))
	}
	return serveErr
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("connected to postgres")
		pg := store.NewPostgres(pool)
		if err := pg.Migrate(ctx); err != nil {
			logger.Warn("migration", zap.Error(err))
		}
		return pg, nil
	case config.DriverMemory:
		logger.Warn("using in-memory store, data is not persisted")
		return store.NewMemory(), nil
	default:
		return store.NewMongo(ctx, cfg.MongoURI, cfg.DBName, logger)
	}
}
