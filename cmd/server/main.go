package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anupam1005/SmartFarmAI/internal/config"
	"github.com/anupam1005/SmartFarmAI/internal/db"
	httpx "github.com/anupam1005/SmartFarmAI/internal/http"
	"github.com/anupam1005/SmartFarmAI/pkg/logger"
)

const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 60 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotenv(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; using info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal(ctx, "server exited", logger.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	store, err := db.Connect(ctx, cfg, log.Named("db"))
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.AutoMigrate {
		n, err := db.Migrate(ctx, store)
		if err != nil {
			return err
		}
		log.Info(ctx, "migrations applied", logger.Int("count", n))
	}

	if path := config.Path(); path != "" {
		go func() {
			err := config.Watch(ctx, path, func(c *config.Config) {
				if err := logger.SetLevelString(c.LogLevel); err != nil {
					log.Warn(ctx, "ignoring invalid log_level", logger.String("log_level", c.LogLevel))
				}
			})
			if err != nil {
				log.Error(ctx, "config watch stopped", logger.Error(err))
			}
		}()
	}

	api := httpx.NewServer(store, httpx.Options{
		QueryTimeout: cfg.DBQueryTimeout,
		JWTSecret:    cfg.JWTSecret,
		CORSOrigin:   cfg.CORSOrigin,
	}, log.Named("http"))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.R,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info(ctx, "server stopped")
	return nil
}
