package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/anupam1005/SmartFarmAI/internal/config"
	"github.com/anupam1005/SmartFarmAI/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestRun(t *testing.T) {
	convey.Convey("Given a sqlite-backed configuration", t, func() {
		cfg := config.New()
		cfg.Addr = "127.0.0.1:0"
		cfg.DatabaseDriver = config.DriverSQLite
		cfg.DatabaseURL = filepath.Join(t.TempDir(), "run.db")
		cfg.AutoMigrate = true
		cfg.ShutdownTimeout = time.Second

		convey.Convey("run serves until the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- run(ctx, cfg, logger.Nop()) }()

			time.Sleep(100 * time.Millisecond)
			cancel()

			select {
			case err := <-done:
				convey.So(err, convey.ShouldBeNil)
			case <-time.After(5 * time.Second):
				t.Fatal("run did not return after cancel")
			}
		})

		convey.Convey("run fails fast when the database cannot be opened", func() {
			cfg.DatabaseURL = filepath.Join(t.TempDir(), "missing-dir", "run.db")
			err := run(context.Background(), cfg, logger.Nop())
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
